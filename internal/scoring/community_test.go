package scoring

import (
	"testing"

	"token-health-scan/internal/domain"
)

func TestCommunityNoPresence(t *testing.T) {
	got := Community(domain.CommunitySignals{})
	if !got.Available {
		t.Fatal("community score must always be computable")
	}
	if got.Value != 20 {
		t.Fatalf("expected bare base 20, got %d", got.Value)
	}
}

// Worked example: discord 5000 alone is base 20 + discord tier 10 +
// single-platform bonus 5 = 35.
func TestCommunitySinglePlatformWorkedExample(t *testing.T) {
	got := Community(domain.CommunitySignals{DiscordMembers: 5000})
	if got.Value != 35 {
		t.Fatalf("expected 35, got %d", got.Value)
	}
}

func TestCommunityTierBoundaries(t *testing.T) {
	tests := []struct {
		name string
		sig  domain.CommunitySignals
		want int
	}{
		{"tiny twitter", domain.CommunitySignals{TwitterFollowers: 1}, 20 + 5 + 5},
		{"twitter 1k", domain.CommunitySignals{TwitterFollowers: 1_000}, 20 + 10 + 5},
		{"twitter 10k", domain.CommunitySignals{TwitterFollowers: 10_000}, 20 + 15 + 5},
		{"twitter 50k", domain.CommunitySignals{TwitterFollowers: 50_000}, 20 + 20 + 5},
		{"twitter 100k", domain.CommunitySignals{TwitterFollowers: 100_000}, 20 + 25 + 5},
		{"discord 1k", domain.CommunitySignals{DiscordMembers: 1_000}, 20 + 8 + 5},
		{"discord 50k", domain.CommunitySignals{DiscordMembers: 50_000}, 20 + 20 + 5},
		{"telegram 1k", domain.CommunitySignals{TelegramMembers: 1_000}, 20 + 6 + 5},
		{"telegram 10k", domain.CommunitySignals{TelegramMembers: 10_000}, 20 + 12 + 5},
		{"telegram 50k", domain.CommunitySignals{TelegramMembers: 50_000}, 20 + 15 + 5},
	}
	for _, tt := range tests {
		got := Community(tt.sig)
		if got.Value != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, got.Value)
		}
	}
}

func TestCommunityMultiPlatformBonus(t *testing.T) {
	two := Community(domain.CommunitySignals{TwitterFollowers: 1, DiscordMembers: 1})
	// 20 + 5 + 5 + two-platform bonus 10
	if two.Value != 40 {
		t.Fatalf("expected 40 for two platforms, got %d", two.Value)
	}

	three := Community(domain.CommunitySignals{TwitterFollowers: 1, DiscordMembers: 1, TelegramMembers: 1})
	// 20 + 5 + 5 + 3 + three-platform bonus 20
	if three.Value != 53 {
		t.Fatalf("expected 53 for three platforms, got %d", three.Value)
	}
}

func TestCommunityMaxedOutClamps(t *testing.T) {
	got := Community(domain.CommunitySignals{
		TwitterFollowers: 2_000_000,
		DiscordMembers:   500_000,
		TelegramMembers:  500_000,
	})
	// 20 + 25 + 20 + 15 + 20 = 100, exactly at the cap
	if got.Value != 100 {
		t.Fatalf("expected 100, got %d", got.Value)
	}
}
