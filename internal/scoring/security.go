package scoring

import (
	"strings"

	"token-health-scan/internal/domain"
)

const (
	weightOwnershipRenounced = 25
	weightNoMintAuthority    = 20
	weightNoHoneypot         = 20
	weightNoFreezeAuthority  = 15
	weightAuditVerified      = 10
	weightSeverityLow        = 10
	weightSeverityMedium     = 5
)

// Security maps security-audit evidence to a 0-100 score. The score is
// additive from zero: each independently confirmed-safe condition adds
// its weight, absent fields add nothing. Signals with no evidence at
// all come back Unavailable.
func Security(sig domain.SecuritySignals) Score {
	if sig.Empty() {
		return Unavailable()
	}

	score := 0
	if sig.OwnershipRenounced != nil && *sig.OwnershipRenounced {
		score += weightOwnershipRenounced
	}
	if sig.CanMint != nil && !*sig.CanMint {
		score += weightNoMintAuthority
	}
	if sig.HoneypotDetected != nil && !*sig.HoneypotDetected {
		score += weightNoHoneypot
	}
	if sig.FreezeAuthority != nil && !*sig.FreezeAuthority {
		score += weightNoFreezeAuthority
	}
	if sig.AuditStatus != nil && *sig.AuditStatus == "verified" {
		score += weightAuditVerified
	}
	if sig.ThreatSeverity != nil {
		switch strings.ToLower(strings.TrimSpace(*sig.ThreatSeverity)) {
		case "low":
			score += weightSeverityLow
		case "medium":
			score += weightSeverityMedium
		}
	}

	return Computed(score)
}

// MergeSecuritySignals combines a primary scan result with a secondary
// (on-chain scanner) result. Precedence is field by field: a non-nil
// secondary field wins over the primary's value for the same signal.
func MergeSecuritySignals(primary, secondary domain.SecuritySignals) domain.SecuritySignals {
	merged := primary
	if secondary.OwnershipRenounced != nil {
		merged.OwnershipRenounced = secondary.OwnershipRenounced
	}
	if secondary.CanMint != nil {
		merged.CanMint = secondary.CanMint
	}
	if secondary.HoneypotDetected != nil {
		merged.HoneypotDetected = secondary.HoneypotDetected
	}
	if secondary.FreezeAuthority != nil {
		merged.FreezeAuthority = secondary.FreezeAuthority
	}
	if secondary.AuditStatus != nil {
		merged.AuditStatus = secondary.AuditStatus
	}
	if secondary.ThreatSeverity != nil {
		merged.ThreatSeverity = secondary.ThreatSeverity
	}
	return merged
}
