package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"token-health-scan/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

type reportListerStub struct {
	reports []domain.HealthReport
	err     error
}

func (s *reportListerStub) ListLatestReports(_ context.Context, _ int) ([]domain.HealthReport, error) {
	return s.reports, s.err
}

func intPtr(v int) *int { return &v }

func sampleReports() []domain.HealthReport {
	return []domain.HealthReport{
		{
			Address:    "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984",
			Chain:      "eth",
			Overall:    72,
			Confidence: 85,
			Categories: domain.CategoryScores{
				Security:  intPtr(80),
				Liquidity: intPtr(64),
			},
			Lock: domain.LiquidityLock{Locked: true, LockedDays: 180},
		},
		{
			Address:    "0xdead",
			Chain:      "bsc",
			Overall:    12,
			Confidence: 40,
			Anomaly:    true,
		},
	}
}

func TestViewRendersReports(t *testing.T) {
	model := NewAppModel(&reportListerStub{reports: sampleReports()})

	msg := model.fetchReports()
	updated, _ := model.Update(msg)
	view := updated.View()

	if !strings.Contains(view, "Token Health Scan") {
		t.Fatalf("expected dashboard title, got:\n%s", view)
	}
	if !strings.Contains(view, "eth") {
		t.Fatalf("expected eth row in view:\n%s", view)
	}
	if !strings.Contains(view, "72") {
		t.Fatalf("expected overall score in view:\n%s", view)
	}
	if !strings.Contains(view, "2 tokens") {
		t.Fatalf("expected token count in status line:\n%s", view)
	}
}

func TestViewReportsLoadError(t *testing.T) {
	model := NewAppModel(&reportListerStub{err: errors.New("db down")})

	msg := model.fetchReports()
	updated, _ := model.Update(msg)
	view := updated.View()

	if !strings.Contains(view, "load failed: db down") {
		t.Fatalf("expected error status, got:\n%s", view)
	}
}

func TestQuitKeys(t *testing.T) {
	model := NewAppModel(&reportListerStub{})

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Fatalf("expected tea.Quit, got %T", msg)
	}
}

func TestReportRows(t *testing.T) {
	rows := reportRows(sampleReports())

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[0][1]; got != "0x1f9840.."+"4201f984" {
		t.Fatalf("expected truncated address, got %q", got)
	}
	if got := rows[0][9]; got != "lock:180d" {
		t.Fatalf("expected lock flag, got %q", got)
	}
	if got := rows[1][4]; got != "-" {
		t.Fatalf("expected dash for missing security score, got %q", got)
	}
	if got := rows[1][9]; !strings.Contains(got, "outlier") {
		t.Fatalf("expected outlier flag, got %q", got)
	}
}
