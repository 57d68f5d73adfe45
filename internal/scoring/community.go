package scoring

import "token-health-scan/internal/domain"

const communityBase = 20

// Community maps social reach to a 0-100 score. Each platform picks
// its highest matching tier, then a bonus rewards presence on multiple
// platforms. Inputs are zero-defaulted, so the category is always
// computable: a token with no social presence scores the bare base.
func Community(c domain.CommunitySignals) Score {
	score := communityBase

	switch f := c.TwitterFollowers; {
	case f >= 100_000:
		score += 25
	case f >= 50_000:
		score += 20
	case f >= 10_000:
		score += 15
	case f >= 1_000:
		score += 10
	case f > 0:
		score += 5
	}

	switch d := c.DiscordMembers; {
	case d >= 50_000:
		score += 20
	case d >= 10_000:
		score += 15
	case d >= 5_000:
		score += 10
	case d >= 1_000:
		score += 8
	case d > 0:
		score += 5
	}

	switch m := c.TelegramMembers; {
	case m >= 50_000:
		score += 15
	case m >= 10_000:
		score += 12
	case m >= 5_000:
		score += 8
	case m >= 1_000:
		score += 6
	case m > 0:
		score += 3
	}

	platforms := 0
	if c.TwitterFollowers > 0 {
		platforms++
	}
	if c.DiscordMembers > 0 {
		platforms++
	}
	if c.TelegramMembers > 0 {
		platforms++
	}
	switch platforms {
	case 3:
		score += 20
	case 2:
		score += 10
	case 1:
		score += 5
	}

	return Computed(score)
}
