package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"token-health-scan/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const goPlusBaseURL = "https://api.gopluslabs.io/api/v1"

// GoPlusProvider queries the GoPlus token-security scanner. Its result
// acts as the secondary security source: field by field it takes
// precedence over the primary threat-intel scan.
type GoPlusProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewGoPlusProvider creates a provider rate limited to 30 calls per
// minute, the free-tier budget.
func NewGoPlusProvider(tracer trace.Tracer) *GoPlusProvider {
	return &GoPlusProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: goPlusBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(30, 2*time.Second),
	}
}

// FetchTokenSecurity scans one contract address on the given chain.
// Fields the scanner leaves empty stay nil in the returned signals.
func (p *GoPlusProvider) FetchTokenSecurity(ctx context.Context, chain, address string) (*SecurityScan, error) {
	_, span := p.tracer.Start(ctx, "goplus.fetch-token-security")
	defer span.End()

	chainID, ok := domain.ChainID[chain]
	if !ok {
		return nil, fmt.Errorf("unsupported chain: %s", chain)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	address = strings.ToLower(strings.TrimSpace(address))
	url := fmt.Sprintf("%s/token_security/%s?contract_addresses=%s", p.baseURL, chainID, address)

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
		return nil, fmt.Errorf("goplus API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Code   int `json:"code"`
		Result map[string]struct {
			OwnerAddress     string `json:"owner_address"`
			IsMintable       string `json:"is_mintable"`
			IsHoneypot       string `json:"is_honeypot"`
			TransferPausable string `json:"transfer_pausable"`
			IsOpenSource     string `json:"is_open_source"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode goplus response: %w", err)
	}

	row, ok := payload.Result[address]
	if !ok {
		return nil, fmt.Errorf("goplus has no result for %s", address)
	}

	scan := &SecurityScan{}
	scan.Signals.CanMint = goPlusBool(row.IsMintable)
	scan.Signals.HoneypotDetected = goPlusBool(row.IsHoneypot)
	scan.Signals.FreezeAuthority = goPlusBool(row.TransferPausable)
	if row.OwnerAddress != "" {
		renounced := isRenouncedOwner(row.OwnerAddress)
		scan.Signals.OwnershipRenounced = &renounced
	}
	if status := goPlusAuditStatus(row.IsOpenSource); status != "" {
		scan.Signals.AuditStatus = &status
	}
	return scan, nil
}

// goPlusBool maps the scanner's "0"/"1" string flags to a nullable
// bool; anything else is no evidence.
func goPlusBool(v string) *bool {
	switch strings.TrimSpace(v) {
	case "1":
		b := true
		return &b
	case "0":
		b := false
		return &b
	}
	return nil
}

var renouncedOwners = map[string]struct{}{
	"0x0000000000000000000000000000000000000000": {},
	"0x000000000000000000000000000000000000dead": {},
}

func isRenouncedOwner(owner string) bool {
	_, ok := renouncedOwners[strings.ToLower(strings.TrimSpace(owner))]
	return ok
}

func goPlusAuditStatus(isOpenSource string) string {
	switch strings.TrimSpace(isOpenSource) {
	case "1":
		return "verified"
	case "0":
		return "unknown"
	}
	return ""
}
