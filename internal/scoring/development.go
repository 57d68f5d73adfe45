package scoring

import (
	"time"

	"token-health-scan/internal/domain"
)

// developmentScoreNoRepo is the fixed conservative score for tokens
// with no known repository. Deliberately nonzero: "we found nothing to
// look at" is not the same statement as "we looked and it is dead".
const developmentScoreNoRepo = 25

const developmentBase = 20

// Development maps repository activity to a 0-100 score. Freshness is
// computed against the caller-supplied now so the result stays
// deterministic under test. A nil signal set returns the fixed
// no-repository score rather than Unavailable or zero.
func Development(d *domain.DevelopmentSignals, now time.Time) Score {
	if d == nil {
		return Computed(developmentScoreNoRepo)
	}

	score := developmentBase
	score += commitActivityPoints(d.Commits30d)
	score += issueManagementPoints(d.TotalIssues, d.ClosedIssues)
	score += engagementPoints(d.Stars, d.Forks)
	score += freshnessPoints(d.LastPushAt, now)

	if d.IsArchived {
		score -= 20
	}
	if d.IsFork && (d.Commits30d == nil || *d.Commits30d == 0) {
		score -= 10
	}

	return Computed(score)
}

func commitActivityPoints(commits *int) int {
	if commits == nil {
		return 0
	}
	switch c := *commits; {
	case c > 20:
		return 40
	case c > 10:
		return 30
	case c > 5:
		return 20
	case c > 0:
		return 10
	}
	return 0
}

// issueManagementPoints scores the closed/total ratio. A repository
// with no issues ever opened gets a flat neutral-positive 15: the
// state is ambiguous, not bad.
func issueManagementPoints(total, closed *int) int {
	totalN := 0
	if total != nil {
		totalN = *total
	}
	if totalN <= 0 {
		return 15
	}
	closedN := 0
	if closed != nil {
		closedN = *closed
	}
	ratio := float64(closedN) / float64(totalN)
	switch {
	case ratio > 0.8:
		return 25
	case ratio > 0.6:
		return 20
	case ratio > 0.4:
		return 15
	case ratio > 0.2:
		return 10
	}
	return 0
}

func engagementPoints(stars, forks *int) int {
	s, f := 0, 0
	if stars != nil {
		s = *stars
	}
	if forks != nil {
		f = *forks
	}
	switch {
	case s > 1000 || f > 100:
		return 20
	case s > 100 || f > 20:
		return 15
	case s > 10 || f > 5:
		return 10
	case s > 0 || f > 0:
		return 5
	}
	return 0
}

func freshnessPoints(lastPush *time.Time, now time.Time) int {
	if lastPush == nil {
		return 0
	}
	days := now.Sub(*lastPush).Hours() / 24
	switch {
	case days < 7:
		return 15
	case days < 30:
		return 12
	case days < 90:
		return 8
	case days < 180:
		return 4
	}
	return 0
}
