package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const moralisBaseURL = "https://deep-index.moralis.io/api/v2.2"

// MoralisProvider fetches token metadata, pair liquidity, holder
// concentration, and spot price. Each payload degrades independently:
// a failed sub-call leaves its fields nil and costs confidence, it
// never fails the whole lookup.
type MoralisProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewMoralisProvider(tracer trace.Tracer) *MoralisProvider {
	return &MoralisProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: moralisBaseURL,
		apiKey:  os.Getenv("MORALIS_API_KEY"),
		tracer:  tracer,
		limiter: NewRateLimiter(25, 2*time.Second),
	}
}

// FetchTokenInsights assembles the metadata, liquidity, holder, and
// price views of one token. Only a metadata transport failure is
// returned as an error; the auxiliary payloads degrade silently.
func (p *MoralisProvider) FetchTokenInsights(ctx context.Context, chain, address string) (*TokenInsights, error) {
	ctx, span := p.tracer.Start(ctx, "moralis.fetch-token-insights")
	defer span.End()

	insights := &TokenInsights{}

	if err := p.fetchMetadata(ctx, chain, address, insights); err != nil {
		return nil, err
	}
	p.fetchPairStats(ctx, chain, address, insights)
	p.fetchHolderSummary(ctx, chain, address, insights)
	p.fetchPrice(ctx, chain, address, insights)

	return insights, nil
}

func (p *MoralisProvider) fetchMetadata(ctx context.Context, chain, address string, out *TokenInsights) error {
	url := fmt.Sprintf("%s/erc20/metadata?chain=%s&addresses%%5B0%%5D=%s", p.baseURL, chain, address)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch metadata: %w", err)
	}

	var rows []struct {
		TotalSupply      *string `json:"total_supply"`
		VerifiedContract *bool   `json:"verified_contract"`
		PossibleSpam     *bool   `json:"possible_spam"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("parse metadata: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("moralis has no metadata for %s", address)
	}

	row := rows[0]
	if row.TotalSupply != nil && strings.TrimSpace(*row.TotalSupply) != "" {
		out.Tokenomics.TotalSupply = row.TotalSupply
	}
	out.Tokenomics.VerifiedContract = row.VerifiedContract
	out.Tokenomics.PossibleSpam = row.PossibleSpam
	return nil
}

func (p *MoralisProvider) fetchPairStats(ctx context.Context, chain, address string, out *TokenInsights) {
	url := fmt.Sprintf("%s/erc20/%s/pairs/stats?chain=%s", p.baseURL, address, chain)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return
	}

	var payload struct {
		TotalLiquidityUSD *float64 `json:"total_liquidity_usd"`
		LiquidityLock     *struct {
			IsLocked    bool   `json:"is_locked"`
			Description string `json:"description"`
		} `json:"liquidity_lock"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return
	}
	out.TotalLiquidityUSD = payload.TotalLiquidityUSD
	if payload.LiquidityLock != nil {
		out.LiquidityLocked = payload.LiquidityLock.IsLocked
		out.LockInfo = strings.TrimSpace(payload.LiquidityLock.Description)
	}
}

func (p *MoralisProvider) fetchHolderSummary(ctx context.Context, chain, address string, out *TokenInsights) {
	url := fmt.Sprintf("%s/erc20/%s/owners?chain=%s&limit=1", p.baseURL, address, chain)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return
	}

	var payload struct {
		Summary struct {
			GiniCoefficient *float64 `json:"gini_coefficient"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return
	}
	out.HolderConcentration = payload.Summary.GiniCoefficient
}

func (p *MoralisProvider) fetchPrice(ctx context.Context, chain, address string, out *TokenInsights) {
	url := fmt.Sprintf("%s/erc20/%s/price?chain=%s", p.baseURL, address, chain)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return
	}

	var payload struct {
		USDPrice *float64 `json:"usdPrice"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return
	}
	out.PriceUSD = payload.USDPrice
}

func (p *MoralisProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("moralis API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
