package scoring

import (
	"math"
	"strconv"
	"strings"

	"token-health-scan/internal/domain"
)

const tokenomicsBase = 40

// Tokenomics maps supply, verification, spam, and volatility evidence
// to a 0-100 score. Very large supply is an explicit penalty, not just
// a missing bonus. The volatility bands leave values between 5% and
// 20% untouched; that dead zone is a deliberate neutral zone.
func Tokenomics(t domain.TokenomicsSignals, m domain.MarketSignals) Score {
	if t.TotalSupply == nil && t.VerifiedContract == nil && t.PossibleSpam == nil && m.PriceChange24hPct == nil {
		return Unavailable()
	}

	score := tokenomicsBase

	if supply, ok := parseSupply(t.TotalSupply); ok {
		if supply < 1e9 {
			score += 15
		} else if supply > 1e12 {
			score -= 10
		}
	}

	if t.VerifiedContract != nil && *t.VerifiedContract {
		score += 10
	}
	if t.PossibleSpam != nil && *t.PossibleSpam {
		score -= 20
	}

	if m.PriceChange24hPct != nil {
		change := math.Abs(*m.PriceChange24hPct)
		if change < 5 {
			score += 10
		} else if change > 20 {
			score -= 5
		}
	}

	return Computed(score)
}

// parseSupply turns a provider-supplied supply string into a number.
// Malformed values count as no evidence, never as an error.
func parseSupply(raw *string) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	s := strings.ReplaceAll(strings.TrimSpace(*raw), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
