package narrative

import (
	"fmt"
	"strings"

	"token-health-scan/internal/domain"
)

const analystBrief = `You are a token due-diligence analyst. You summarize a pre-computed health report, you do NOT invent scores or facts.

Rules:
- Only reference data present in the report. If a category is marked unavailable, say the data was insufficient rather than guessing.
- Lead with the overall score and the strongest and weakest categories.
- Mention the confidence score when it is below 50.
- Flag honeypot detections, spam flags, and archived repositories explicitly.
- Three to five sentences, plain language, no markdown, no price predictions.`

// FormatReportContext renders the report for the LLM prompt.
func FormatReportContext(report domain.HealthReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Token %s on %s\n", report.Address, report.Chain))
	sb.WriteString(fmt.Sprintf("Overall: %d/100, Confidence: %d/100\n", report.Overall, report.Confidence))
	sb.WriteString("Categories:\n")
	writeCategory(&sb, "security", report.Categories.Security)
	writeCategory(&sb, "liquidity", report.Categories.Liquidity)
	writeCategory(&sb, "tokenomics", report.Categories.Tokenomics)
	writeCategory(&sb, "community", report.Categories.Community)
	writeCategory(&sb, "development", report.Categories.Development)

	if report.Lock.Locked {
		sb.WriteString(fmt.Sprintf("Liquidity locked for %d days", report.Lock.LockedDays))
		if report.Lock.LockInfo != "" {
			sb.WriteString(" (" + report.Lock.LockInfo + ")")
		}
		sb.WriteString("\n")
	}
	if report.Security.HoneypotDetected != nil && *report.Security.HoneypotDetected {
		sb.WriteString("WARNING: honeypot detected\n")
	}
	if report.Tokenomics.PossibleSpam != nil && *report.Tokenomics.PossibleSpam {
		sb.WriteString("WARNING: flagged as possible spam\n")
	}
	if report.Development != nil && report.Development.IsArchived {
		sb.WriteString("WARNING: repository archived\n")
	}
	if report.Anomaly {
		sb.WriteString("Market profile flagged as an outlier among scanned tokens\n")
	}

	return sb.String()
}

func writeCategory(sb *strings.Builder, name string, score *int) {
	if score == nil {
		sb.WriteString(fmt.Sprintf("  %s: unavailable\n", name))
		return
	}
	sb.WriteString(fmt.Sprintf("  %s: %d/100\n", name, *score))
}

// TemplateSummary is the deterministic fallback summary used when no
// LLM is configured or the call fails.
func TemplateSummary(report domain.HealthReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Overall health %d/100 (%s) with %d/100 confidence.",
		report.Overall, healthBand(report.Overall), report.Confidence))

	best, worst := extremeCategories(report.Categories)
	if best != "" {
		sb.WriteString(fmt.Sprintf(" Strongest category is %s; weakest is %s.", best, worst))
	}

	if report.Security.HoneypotDetected != nil && *report.Security.HoneypotDetected {
		sb.WriteString(" Honeypot behavior was detected; treat this token as unsafe.")
	}
	if report.Lock.Locked && report.Lock.LockedDays > 0 {
		sb.WriteString(fmt.Sprintf(" Liquidity is locked for %d days.", report.Lock.LockedDays))
	}
	if report.Anomaly {
		sb.WriteString(" Its market profile is an outlier among scanned tokens.")
	}

	return sb.String()
}

func healthBand(overall int) string {
	switch {
	case overall >= 75:
		return "healthy"
	case overall >= 50:
		return "moderate"
	case overall >= 25:
		return "weak"
	default:
		return "critical"
	}
}

func extremeCategories(c domain.CategoryScores) (best, worst string) {
	type entry struct {
		name  string
		score *int
	}
	entries := []entry{
		{"security", c.Security},
		{"liquidity", c.Liquidity},
		{"tokenomics", c.Tokenomics},
		{"community", c.Community},
		{"development", c.Development},
	}

	bestScore, worstScore := -1, 101
	for _, e := range entries {
		if e.score == nil {
			continue
		}
		if *e.score > bestScore {
			bestScore = *e.score
			best = e.name
		}
		if *e.score < worstScore {
			worstScore = *e.score
			worst = e.name
		}
	}
	return best, worst
}
