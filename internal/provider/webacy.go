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

const webacyBaseURL = "https://api.webacy.com"

// WebacyProvider queries the Webacy threat-intel profile for a
// contract. It is the primary security source; overlapping signals
// from the on-chain scanner override it.
type WebacyProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewWebacyProvider(tracer trace.Tracer) *WebacyProvider {
	return &WebacyProvider{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: webacyBaseURL,
		apiKey:  os.Getenv("WEBACY_API_KEY"),
		tracer:  tracer,
		limiter: NewRateLimiter(10, 6*time.Second),
	}
}

// FetchThreatProfile returns the primary security signals for one
// address. Missing payload fields stay nil.
func (p *WebacyProvider) FetchThreatProfile(ctx context.Context, chain, address string) (*SecurityScan, error) {
	_, span := p.tracer.Start(ctx, "webacy.fetch-threat-profile")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/addresses/%s?chain=%s", p.baseURL, strings.TrimSpace(address), chain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-api-key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("webacy API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		RiskLevel           string `json:"riskLevel"`
		IsContractRenounced *bool  `json:"isContractRenounced"`
		IsHoneypot          *bool  `json:"isHoneypot"`
		AuditStatus         string `json:"auditStatus"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode webacy response: %w", err)
	}

	scan := &SecurityScan{}
	scan.Signals.OwnershipRenounced = payload.IsContractRenounced
	scan.Signals.HoneypotDetected = payload.IsHoneypot
	if severity := normalizeSeverity(payload.RiskLevel); severity != "" {
		scan.Signals.ThreatSeverity = &severity
	}
	if status := strings.ToLower(strings.TrimSpace(payload.AuditStatus)); status != "" {
		scan.Signals.AuditStatus = &status
	}
	return scan, nil
}

// normalizeSeverity maps provider risk labels onto the Low/Medium/High
// scale the scorer understands.
func normalizeSeverity(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return "Low"
	case "medium", "moderate":
		return "Medium"
	case "high", "critical":
		return "High"
	}
	return ""
}
