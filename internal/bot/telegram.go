package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"token-health-scan/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type ReportReader interface {
	GetReport(ctx context.Context, chain, address string) (*domain.HealthReport, error)
}

type WatchlistReader interface {
	ListTokens(ctx context.Context) ([]domain.Token, error)
}

func StartTelegramBot(reports ReportReader, watchlist WatchlistReader) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/health", func(c tele.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return c.Send(fmt.Sprintf("Usage: /health eth 0x...\nSupported chains: %s", strings.Join(domain.SupportedChains, ", ")))
		}
		chain := strings.ToLower(args[0])
		address := args[1]
		report, err := reports.GetReport(context.Background(), chain, address)
		if err != nil {
			return c.Send(fmt.Sprintf("No report for %s on %s: %v", address, chain, err))
		}
		return c.Send(FormatReport(*report))
	})

	b.Handle("/tokens", func(c tele.Context) error {
		tokens, err := watchlist.ListTokens(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error listing tokens: %v", err))
		}
		if len(tokens) == 0 {
			return c.Send("Watchlist is empty.")
		}
		var sb strings.Builder
		sb.WriteString("Tracked tokens:\n")
		for _, t := range tokens {
			sb.WriteString(fmt.Sprintf("  %s (%s) %s\n", t.Symbol, t.Chain, t.Address))
		}
		return c.Send(sb.String())
	})

	log.Println("Telegram bot started")
	go b.Start()
}

// FormatReport renders a health report for a Telegram message.
func FormatReport(report domain.HealthReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s on %s\n", report.Address, report.Chain))
	sb.WriteString(fmt.Sprintf("Overall: %d/100 (confidence %d/100)\n", report.Overall, report.Confidence))
	writeScoreLine(&sb, "Security", report.Categories.Security)
	writeScoreLine(&sb, "Liquidity", report.Categories.Liquidity)
	writeScoreLine(&sb, "Tokenomics", report.Categories.Tokenomics)
	writeScoreLine(&sb, "Community", report.Categories.Community)
	writeScoreLine(&sb, "Development", report.Categories.Development)
	if report.Lock.Locked {
		sb.WriteString(fmt.Sprintf("Liquidity locked: %d days\n", report.Lock.LockedDays))
	}
	if report.Anomaly {
		sb.WriteString("⚠ Market profile flagged as an outlier\n")
	}
	if report.Narrative != "" {
		sb.WriteString("\n" + report.Narrative)
	}
	return sb.String()
}

func writeScoreLine(sb *strings.Builder, name string, score *int) {
	if score == nil {
		sb.WriteString(fmt.Sprintf("%s: n/a\n", name))
		return
	}
	sb.WriteString(fmt.Sprintf("%s: %d\n", name, *score))
}
