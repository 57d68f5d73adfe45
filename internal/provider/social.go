package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"token-health-scan/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	twitterStatsBaseURL = "https://cdn.syndication.twimg.com"
	discordBaseURL      = "https://discord.com/api/v9"
	telegramBaseURL     = "https://t.me"
)

// SocialProvider gathers follower and member counts across platforms.
// Every platform degrades to 0 on failure: community signals are
// zero-defaulted by design, an unreachable platform reads the same as
// no presence.
type SocialProvider struct {
	client          *http.Client
	twitterBaseURL  string
	discordBaseURL  string
	telegramBaseURL string
	tracer          trace.Tracer
	limiter         *RateLimiter
}

func NewSocialProvider(tracer trace.Tracer) *SocialProvider {
	return &SocialProvider{
		client:          &http.Client{Timeout: 15 * time.Second},
		twitterBaseURL:  twitterStatsBaseURL,
		discordBaseURL:  discordBaseURL,
		telegramBaseURL: telegramBaseURL,
		tracer:          tracer,
		limiter:         NewRateLimiter(20, 3*time.Second),
	}
}

// FetchCommunity resolves all three platforms for one token. Failures
// are logged and zeroed, never returned.
func (p *SocialProvider) FetchCommunity(ctx context.Context, token domain.Token) domain.CommunitySignals {
	ctx, span := p.tracer.Start(ctx, "social.fetch-community")
	defer span.End()

	var out domain.CommunitySignals

	if token.TwitterHandle != "" {
		followers, err := p.fetchTwitterFollowers(ctx, token.TwitterHandle)
		if err != nil {
			log.Printf("twitter lookup failed for %s: %v", token.TwitterHandle, err)
		} else {
			out.TwitterFollowers = followers
		}
	}
	if token.DiscordInvite != "" {
		members, err := p.fetchDiscordMembers(ctx, token.DiscordInvite)
		if err != nil {
			log.Printf("discord lookup failed for %s: %v", token.DiscordInvite, err)
		} else {
			out.DiscordMembers = members
		}
	}
	if token.TelegramChannel != "" {
		members, err := p.fetchTelegramMembers(ctx, token.TelegramChannel)
		if err != nil {
			log.Printf("telegram lookup failed for %s: %v", token.TelegramChannel, err)
		} else {
			out.TelegramMembers = members
		}
	}

	return out
}

func (p *SocialProvider) fetchTwitterFollowers(ctx context.Context, handle string) (int64, error) {
	url := fmt.Sprintf("%s/widgets/followbutton/info.json?screen_names=%s", p.twitterBaseURL, strings.TrimPrefix(handle, "@"))
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return 0, err
	}

	var rows []struct {
		FollowersCount int64 `json:"followers_count"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("parse twitter response: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("twitter has no rows for %s", handle)
	}
	return rows[0].FollowersCount, nil
}

func (p *SocialProvider) fetchDiscordMembers(ctx context.Context, invite string) (int64, error) {
	url := fmt.Sprintf("%s/invites/%s?with_counts=true", p.discordBaseURL, invite)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return 0, err
	}

	var payload struct {
		ApproximateMemberCount int64 `json:"approximate_member_count"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("parse discord response: %w", err)
	}
	return payload.ApproximateMemberCount, nil
}

var telegramMembersRx = regexp.MustCompile(`([\d\s,]+)\s*(?:members|subscribers)`)

// fetchTelegramMembers scrapes the public channel preview page; there
// is no unauthenticated API for member counts.
func (p *SocialProvider) fetchTelegramMembers(ctx context.Context, channel string) (int64, error) {
	url := fmt.Sprintf("%s/%s", p.telegramBaseURL, strings.TrimPrefix(channel, "@"))
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return 0, err
	}

	m := telegramMembersRx.FindSubmatch(body)
	if m == nil {
		return 0, fmt.Errorf("no member count on channel page for %s", channel)
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, string(m[1]))
	if digits == "" {
		return 0, fmt.Errorf("unparseable member count for %s", channel)
	}
	return strconv.ParseInt(digits, 10, 64)
}

func (p *SocialProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("social API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
