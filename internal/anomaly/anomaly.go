package anomaly

import (
	"math"

	"token-health-scan/internal/domain"

	"github.com/narumiruna/go-iforest/pkg/iforest"
)

const (
	// minReports is the smallest sample an isolation forest gives a
	// meaningful score for.
	minReports       = 8
	defaultThreshold = 0.65
)

// Detector flags tokens whose market profile isolates quickly from the
// rest of a scan batch.
type Detector struct {
	threshold float64
}

func NewDetector(threshold float64) *Detector {
	if threshold <= 0 || threshold >= 1 {
		threshold = defaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Flag returns one bool per report, true when the report's market
// vector is an outlier. Batches below the minimum sample size are
// never flagged.
func (d *Detector) Flag(reports []domain.HealthReport) []bool {
	flags := make([]bool, len(reports))
	if len(reports) < minReports {
		return flags
	}

	data := make([][]float64, len(reports))
	for i, report := range reports {
		data[i] = featureVector(report.Market)
	}

	model := iforest.New()
	model.Fit(data)
	scores := model.Score(data)

	for i, score := range scores {
		flags[i] = score >= d.threshold
	}
	return flags
}

// featureVector maps market signals onto a comparable scale. Volume
// and market cap are log-compressed; missing values read as zero,
// which isolates together with genuinely dead tokens.
func featureVector(m domain.MarketSignals) []float64 {
	var volume, mcap, change float64
	if m.Volume24hUSD != nil && *m.Volume24hUSD > 0 {
		volume = math.Log1p(*m.Volume24hUSD)
	}
	if m.MarketCapUSD != nil && *m.MarketCapUSD > 0 {
		mcap = math.Log1p(*m.MarketCapUSD)
	}
	if m.PriceChange24hPct != nil {
		change = *m.PriceChange24hPct
	}
	return []float64{volume, mcap, change}
}
