package scoring

import "token-health-scan/internal/domain"

const liquidityBase = 30

// Liquidity maps 24h volume and market cap to a 0-100 score. Each
// signal picks the highest matching tier; thresholds are strict
// greater-than, so the score is monotonic in both inputs. With neither
// signal present the category is Unavailable.
func Liquidity(m domain.MarketSignals) Score {
	if m.Volume24hUSD == nil && m.MarketCapUSD == nil {
		return Unavailable()
	}

	score := liquidityBase

	if m.Volume24hUSD != nil {
		switch v := *m.Volume24hUSD; {
		case v > 1_000_000:
			score += 25
		case v > 100_000:
			score += 15
		case v > 10_000:
			score += 5
		}
	}

	if m.MarketCapUSD != nil {
		switch c := *m.MarketCapUSD; {
		case c > 100_000_000:
			score += 20
		case c > 10_000_000:
			score += 10
		case c > 1_000_000:
			score += 5
		}
	}

	return Computed(score)
}
