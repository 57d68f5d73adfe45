package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"token-health-scan/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const githubBaseURL = "https://api.github.com"

// GitHubProvider reads repository activity for tokens that publish a
// code repository. A missing repository is a normal outcome (Found
// false), not an error.
type GitHubProvider struct {
	client  *http.Client
	baseURL string
	token   string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewGitHubProvider(tracer trace.Tracer) *GitHubProvider {
	return &GitHubProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: githubBaseURL,
		token:   os.Getenv("GITHUB_TOKEN"),
		tracer:  tracer,
		limiter: NewRateLimiter(30, 2*time.Second),
	}
}

// FetchRepoStats returns the development signals for owner/repo. The
// commit and issue counts degrade independently: if those sub-calls
// fail the repository metadata still comes back with nil counts.
func (p *GitHubProvider) FetchRepoStats(ctx context.Context, owner, repo string) (*RepoStats, error) {
	ctx, span := p.tracer.Start(ctx, "github.fetch-repo-stats")
	defer span.End()

	if owner == "" || repo == "" {
		return &RepoStats{Found: false}, nil
	}

	repoURL := fmt.Sprintf("%s/repos/%s/%s", p.baseURL, owner, repo)
	body, status, err := p.doRequest(ctx, repoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch repo: %w", err)
	}
	if status == http.StatusNotFound {
		return &RepoStats{Found: false}, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("github API error %d: %s", status, string(body))
	}

	var repoRow struct {
		StargazersCount *int       `json:"stargazers_count"`
		ForksCount      *int       `json:"forks_count"`
		OpenIssuesCount *int       `json:"open_issues_count"`
		PushedAt        *time.Time `json:"pushed_at"`
		Archived        bool       `json:"archived"`
		Fork            bool       `json:"fork"`
	}
	if err := json.Unmarshal(body, &repoRow); err != nil {
		return nil, fmt.Errorf("parse repo: %w", err)
	}

	stats := &RepoStats{Found: true}
	stats.Signals = domain.DevelopmentSignals{
		Stars:      repoRow.StargazersCount,
		Forks:      repoRow.ForksCount,
		OpenIssues: repoRow.OpenIssuesCount,
		LastPushAt: repoRow.PushedAt,
		IsArchived: repoRow.Archived,
		IsFork:     repoRow.Fork,
	}

	if commits, ok := p.fetchCommitCount(ctx, owner, repo); ok {
		stats.Signals.Commits30d = &commits
	}
	if total, closed, ok := p.fetchIssueCounts(ctx, owner, repo); ok {
		stats.Signals.TotalIssues = &total
		stats.Signals.ClosedIssues = &closed
	}

	return stats, nil
}

// fetchCommitCount counts commits pushed in the last 30 days, capped
// at one page of 100.
func (p *GitHubProvider) fetchCommitCount(ctx context.Context, owner, repo string) (int, bool) {
	since := time.Now().UTC().Add(-30 * 24 * time.Hour).Format(time.RFC3339)
	commitsURL := fmt.Sprintf("%s/repos/%s/%s/commits?since=%s&per_page=100", p.baseURL, owner, repo, url.QueryEscape(since))

	body, status, err := p.doRequest(ctx, commitsURL)
	if err != nil || status != http.StatusOK {
		return 0, false
	}

	var commits []json.RawMessage
	if err := json.Unmarshal(body, &commits); err != nil {
		return 0, false
	}
	return len(commits), true
}

func (p *GitHubProvider) fetchIssueCounts(ctx context.Context, owner, repo string) (total, closed int, ok bool) {
	slug := url.QueryEscape(fmt.Sprintf("repo:%s/%s type:issue", owner, repo))

	totalN, ok := p.searchIssueCount(ctx, slug)
	if !ok {
		return 0, 0, false
	}
	closedN, ok := p.searchIssueCount(ctx, slug+url.QueryEscape(" state:closed"))
	if !ok {
		return 0, 0, false
	}
	return totalN, closedN, true
}

func (p *GitHubProvider) searchIssueCount(ctx context.Context, query string) (int, bool) {
	searchURL := fmt.Sprintf("%s/search/issues?q=%s&per_page=1", p.baseURL, query)
	body, status, err := p.doRequest(ctx, searchURL)
	if err != nil || status != http.StatusOK {
		return 0, false
	}

	var payload struct {
		TotalCount int `json:"total_count"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	return payload.TotalCount, true
}

func (p *GitHubProvider) doRequest(ctx context.Context, url string) ([]byte, int, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
