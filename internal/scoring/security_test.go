package scoring

import (
	"testing"

	"token-health-scan/internal/domain"
)

func TestSecurityEmptySignalsUnavailable(t *testing.T) {
	got := Security(domain.SecuritySignals{})
	if got.Available {
		t.Fatalf("empty signals should be unavailable, got %+v", got)
	}
	if got.ValueOrZero() != 0 {
		t.Fatalf("legacy numeric form of empty signals must be 0, got %d", got.ValueOrZero())
	}
}

func TestSecurityAdditiveWeights(t *testing.T) {
	tests := []struct {
		name string
		sig  domain.SecuritySignals
		want int
	}{
		{"renounced only", domain.SecuritySignals{OwnershipRenounced: boolPtr(true)}, 25},
		{"cannot mint only", domain.SecuritySignals{CanMint: boolPtr(false)}, 20},
		{"no honeypot only", domain.SecuritySignals{HoneypotDetected: boolPtr(false)}, 20},
		{"no freeze only", domain.SecuritySignals{FreezeAuthority: boolPtr(false)}, 15},
		{"verified audit only", domain.SecuritySignals{AuditStatus: strPtr("verified")}, 10},
		{"low severity only", domain.SecuritySignals{ThreatSeverity: strPtr("Low")}, 10},
		{"medium severity only", domain.SecuritySignals{ThreatSeverity: strPtr("Medium")}, 5},
		{"high severity adds nothing", domain.SecuritySignals{ThreatSeverity: strPtr("High")}, 0},
		{
			"negative evidence adds nothing",
			domain.SecuritySignals{
				OwnershipRenounced: boolPtr(false),
				CanMint:            boolPtr(true),
				HoneypotDetected:   boolPtr(true),
				FreezeAuthority:    boolPtr(true),
				AuditStatus:        strPtr("unknown"),
			},
			0,
		},
		{
			"everything safe",
			domain.SecuritySignals{
				OwnershipRenounced: boolPtr(true),
				CanMint:            boolPtr(false),
				HoneypotDetected:   boolPtr(false),
				FreezeAuthority:    boolPtr(false),
				AuditStatus:        strPtr("verified"),
				ThreatSeverity:     strPtr("Low"),
			},
			100,
		},
	}

	for _, tt := range tests {
		got := Security(tt.sig)
		if !got.Available {
			t.Fatalf("%s: expected computed score", tt.name)
		}
		if got.Value != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, got.Value)
		}
	}
}

func TestSecuritySeverityMutuallyExclusive(t *testing.T) {
	low := Security(domain.SecuritySignals{ThreatSeverity: strPtr("Low")})
	medium := Security(domain.SecuritySignals{ThreatSeverity: strPtr("Medium")})
	if low.Value != 10 || medium.Value != 5 {
		t.Fatalf("severity weights wrong: low=%d medium=%d", low.Value, medium.Value)
	}
}

func TestMergeSecuritySignalsSecondaryWins(t *testing.T) {
	primary := domain.SecuritySignals{
		OwnershipRenounced: boolPtr(false),
		CanMint:            boolPtr(true),
		ThreatSeverity:     strPtr("High"),
	}
	secondary := domain.SecuritySignals{
		OwnershipRenounced: boolPtr(true),
		HoneypotDetected:   boolPtr(false),
	}

	merged := MergeSecuritySignals(primary, secondary)
	if merged.OwnershipRenounced == nil || !*merged.OwnershipRenounced {
		t.Fatalf("secondary ownership signal should win: %+v", merged)
	}
	if merged.CanMint == nil || !*merged.CanMint {
		t.Fatalf("primary mint signal should survive when secondary is silent: %+v", merged)
	}
	if merged.HoneypotDetected == nil || *merged.HoneypotDetected {
		t.Fatalf("secondary honeypot signal should be carried over: %+v", merged)
	}
	if merged.ThreatSeverity == nil || *merged.ThreatSeverity != "High" {
		t.Fatalf("primary severity should survive: %+v", merged)
	}
}

func TestMergeSecuritySignalsBothEmpty(t *testing.T) {
	merged := MergeSecuritySignals(domain.SecuritySignals{}, domain.SecuritySignals{})
	if !merged.Empty() {
		t.Fatalf("merging empty signals should stay empty: %+v", merged)
	}
}
