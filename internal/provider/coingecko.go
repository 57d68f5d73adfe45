package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// coinGeckoPlatform maps our chain slugs onto CoinGecko asset-platform
// ids for contract lookups.
var coinGeckoPlatform = map[string]string{
	"eth":      "ethereum",
	"bsc":      "binance-smart-chain",
	"polygon":  "polygon-pos",
	"arbitrum": "arbitrum-one",
	"base":     "base",
	"solana":   "solana",
}

// CoinGeckoProvider fetches market data from the CoinGecko free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting,
// 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchTokenMarket looks up a token by contract address and returns
// its 24h volume, market cap, price, and 24h change. Fields missing
// from the payload stay nil.
func (p *CoinGeckoProvider) FetchTokenMarket(ctx context.Context, chain, address string) (*TokenMarket, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-token-market")
	defer span.End()

	platform, ok := coinGeckoPlatform[chain]
	if !ok {
		return nil, fmt.Errorf("unsupported chain: %s", chain)
	}

	url := fmt.Sprintf("%s/coins/%s/contract/%s", p.baseURL, platform, strings.ToLower(strings.TrimSpace(address)))
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch token market: %w", err)
	}

	var payload struct {
		MarketData struct {
			CurrentPrice struct {
				USD *float64 `json:"usd"`
			} `json:"current_price"`
			TotalVolume struct {
				USD *float64 `json:"usd"`
			} `json:"total_volume"`
			MarketCap struct {
				USD *float64 `json:"usd"`
			} `json:"market_cap"`
			PriceChange24h *float64 `json:"price_change_percentage_24h"`
		} `json:"market_data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse token market: %w", err)
	}

	return &TokenMarket{
		Volume24hUSD:      payload.MarketData.TotalVolume.USD,
		MarketCapUSD:      payload.MarketData.MarketCap.USD,
		PriceChange24hPct: payload.MarketData.PriceChange24h,
		PriceUSD:          payload.MarketData.CurrentPrice.USD,
	}, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
