package provider

import "token-health-scan/internal/domain"

// SecurityScan is one security provider's verdict on a token.
type SecurityScan struct {
	Signals domain.SecuritySignals
}

// TokenInsights bundles the token-data provider's metadata, holder,
// liquidity, and price payloads. Pointer fields are nil when the
// corresponding payload did not carry the value; the presence of each
// one feeds the confidence estimator.
type TokenInsights struct {
	Tokenomics          domain.TokenomicsSignals
	TotalLiquidityUSD   *float64
	HolderConcentration *float64
	PriceUSD            *float64
	LiquidityLocked     bool
	LockInfo            string
}

// TokenMarket is the market-data provider's view of a token.
type TokenMarket struct {
	Volume24hUSD      *float64
	MarketCapUSD      *float64
	PriceChange24hPct *float64
	PriceUSD          *float64
}

// RepoStats is one repository's activity snapshot. Found is false when
// the token has no known repository or the lookup 404s; the scorer
// treats that case with its own fixed fallback.
type RepoStats struct {
	Found   bool
	Signals domain.DevelopmentSignals
}
