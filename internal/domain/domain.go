package domain

import "time"

// Token is a tracked token plus the handles the scan fan-out needs to
// reach its social and code-hosting presence.
type Token struct {
	ID              int64     `json:"id"`
	Address         string    `json:"address"`
	Chain           string    `json:"chain"`
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	TwitterHandle   string    `json:"twitter_handle,omitempty"`
	DiscordInvite   string    `json:"discord_invite,omitempty"`
	TelegramChannel string    `json:"telegram_channel,omitempty"`
	RepoOwner       string    `json:"repo_owner,omitempty"`
	RepoName        string    `json:"repo_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SupportedChains lists the chains the scanners understand.
var SupportedChains = []string{"eth", "bsc", "polygon", "arbitrum", "base", "solana"}

// ChainID maps a chain slug to the numeric chain id the security
// scanners expect. Solana is addressed by name, not id.
var ChainID = map[string]string{
	"eth":      "1",
	"bsc":      "56",
	"polygon":  "137",
	"arbitrum": "42161",
	"base":     "8453",
	"solana":   "solana",
}

// SecuritySignals carries the raw security evidence for one token.
// A nil field means the provider had nothing to say; absence is never
// penalized, only positive evidence is rewarded.
type SecuritySignals struct {
	OwnershipRenounced *bool   `json:"ownership_renounced,omitempty"`
	CanMint            *bool   `json:"can_mint,omitempty"`
	HoneypotDetected   *bool   `json:"honeypot_detected,omitempty"`
	FreezeAuthority    *bool   `json:"freeze_authority,omitempty"`
	AuditStatus        *string `json:"audit_status,omitempty"`
	ThreatSeverity     *string `json:"threat_severity,omitempty"`
}

// Empty reports whether no security evidence is present at all.
func (s SecuritySignals) Empty() bool {
	return s.OwnershipRenounced == nil &&
		s.CanMint == nil &&
		s.HoneypotDetected == nil &&
		s.FreezeAuthority == nil &&
		s.AuditStatus == nil &&
		s.ThreatSeverity == nil
}

// MarketSignals is the market-data slice of the evidence.
type MarketSignals struct {
	Volume24hUSD      *float64 `json:"volume_24h_usd,omitempty"`
	MarketCapUSD      *float64 `json:"market_cap_usd,omitempty"`
	PriceChange24hPct *float64 `json:"price_change_24h_pct,omitempty"`
	PriceUSD          *float64 `json:"price_usd,omitempty"`
}

// TokenomicsSignals carries supply and contract-quality evidence.
// TotalSupply stays a string because providers return it both as a
// number and as a (possibly huge) decimal string.
type TokenomicsSignals struct {
	TotalSupply      *string `json:"total_supply,omitempty"`
	VerifiedContract *bool   `json:"verified_contract,omitempty"`
	PossibleSpam     *bool   `json:"possible_spam,omitempty"`
}

// CommunitySignals holds social reach counts. Unlike the other signal
// sets these are zero-defaulted, never nil: an unknown platform counts
// as an absent platform.
type CommunitySignals struct {
	TwitterFollowers int64 `json:"twitter_followers"`
	DiscordMembers   int64 `json:"discord_members"`
	TelegramMembers  int64 `json:"telegram_members"`
}

// DevelopmentSignals carries code-repository activity evidence. The
// whole set is nil when no repository is known for the token.
type DevelopmentSignals struct {
	Commits30d   *int       `json:"commits_30d,omitempty"`
	TotalIssues  *int       `json:"total_issues,omitempty"`
	OpenIssues   *int       `json:"open_issues,omitempty"`
	ClosedIssues *int       `json:"closed_issues,omitempty"`
	Stars        *int       `json:"stars,omitempty"`
	Forks        *int       `json:"forks,omitempty"`
	LastPushAt   *time.Time `json:"last_push_at,omitempty"`
	IsArchived   bool       `json:"is_archived"`
	IsFork       bool       `json:"is_fork"`
}

// EvidencePresence records which high-value provider fields were
// actually present in the raw payloads. The confidence estimator works
// off these flags alone, independent of the category scores.
type EvidencePresence struct {
	HasTotalSupply         bool `json:"has_total_supply"`
	HasTotalLiquidityUSD   bool `json:"has_total_liquidity_usd"`
	HasHolderConcentration bool `json:"has_holder_concentration"`
	HasVerifiedFlag        bool `json:"has_verified_flag"`
	HasCurrentPriceUSD     bool `json:"has_current_price_usd"`
}

// LiquidityLock is the provider-supplied lock description and the days
// derived from it.
type LiquidityLock struct {
	Locked     bool   `json:"locked"`
	LockInfo   string `json:"lock_info,omitempty"`
	LockedDays int    `json:"locked_days"`
}

// CategoryScores holds the five 0-100 category scores. A nil entry
// means the category could not be computed; the overall score excludes
// it instead of counting it as zero.
type CategoryScores struct {
	Security    *int `json:"security,omitempty"`
	Liquidity   *int `json:"liquidity,omitempty"`
	Tokenomics  *int `json:"tokenomics,omitempty"`
	Community   *int `json:"community,omitempty"`
	Development *int `json:"development,omitempty"`
}

// HealthReport is one finished scan: the category scores, overall and
// confidence scores, the evidence they rest on, and optional narrative.
type HealthReport struct {
	ID          int64               `json:"id"`
	TokenID     int64               `json:"token_id"`
	Address     string              `json:"address"`
	Chain       string              `json:"chain"`
	Categories  CategoryScores      `json:"categories"`
	Overall     int                 `json:"overall"`
	Confidence  int                 `json:"confidence"`
	Lock        LiquidityLock       `json:"liquidity_lock"`
	Anomaly     bool                `json:"anomaly"`
	Narrative   string              `json:"narrative,omitempty"`
	Security    SecuritySignals     `json:"security_signals"`
	Market      MarketSignals       `json:"market_signals"`
	Tokenomics  TokenomicsSignals   `json:"tokenomics_signals"`
	Community   CommunitySignals    `json:"community_signals"`
	Development *DevelopmentSignals `json:"development_signals,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ScanRunResult summarizes one watchlist-wide scan cycle.
type ScanRunResult struct {
	TokensScanned    int      `json:"tokens_scanned"`
	ReportsWritten   int      `json:"reports_written"`
	AnomaliesFlagged int      `json:"anomalies_flagged"`
	Errors           []string `json:"errors,omitempty"`
}
