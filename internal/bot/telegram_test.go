package bot

import (
	"strings"
	"testing"

	"token-health-scan/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	StartTelegramBot(nil, nil)
}

func intPtr(v int) *int { return &v }

func TestFormatReport(t *testing.T) {
	report := domain.HealthReport{
		Address: "0xabc",
		Chain:   "eth",
		Categories: domain.CategoryScores{
			Security:  intPtr(80),
			Community: intPtr(35),
		},
		Overall:    58,
		Confidence: 70,
		Lock:       domain.LiquidityLock{Locked: true, LockedDays: 180},
		Narrative:  "Looks reasonable.",
	}

	msg := FormatReport(report)
	if !strings.Contains(msg, "Overall: 58/100") {
		t.Fatalf("missing overall line: %s", msg)
	}
	if !strings.Contains(msg, "Liquidity: n/a") {
		t.Fatalf("expected unavailable categories marked n/a: %s", msg)
	}
	if !strings.Contains(msg, "locked: 180 days") {
		t.Fatalf("missing lock line: %s", msg)
	}
	if !strings.Contains(msg, "Looks reasonable.") {
		t.Fatalf("missing narrative: %s", msg)
	}
}
