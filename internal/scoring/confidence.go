package scoring

import (
	"math"

	"token-health-scan/internal/domain"
)

// Confidence check weights. They sum to 100, making the result a
// weighted presence ratio over the five evidence checks.
const (
	confidenceWeightTotalSupply   = 20
	confidenceWeightLiquidityUSD  = 25
	confidenceWeightConcentration = 30
	confidenceWeightVerifiedFlag  = 15
	confidenceWeightCurrentPrice  = 10
)

// Confidence scores how much of the expected raw evidence was actually
// present across the provider payloads, 0-100. It qualifies the
// category scores rather than the token itself: a low value means the
// scores rest on sparse data.
func Confidence(e domain.EvidencePresence) int {
	checks := []struct {
		present bool
		weight  int
	}{
		{e.HasTotalSupply, confidenceWeightTotalSupply},
		{e.HasTotalLiquidityUSD, confidenceWeightLiquidityUSD},
		{e.HasHolderConcentration, confidenceWeightConcentration},
		{e.HasVerifiedFlag, confidenceWeightVerifiedFlag},
		{e.HasCurrentPriceUSD, confidenceWeightCurrentPrice},
	}

	earned, possible := 0, 0
	for _, c := range checks {
		possible += c.weight
		if c.present {
			earned += c.weight
		}
	}
	if possible == 0 {
		return 0
	}
	return int(math.Round(100 * float64(earned) / float64(possible)))
}
