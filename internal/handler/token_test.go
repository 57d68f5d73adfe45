package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"token-health-scan/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

func newTestRouter(t *testing.T, tokens TokenStore, scans ScanService, apiKey string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := New(trace.NewNoopTracerProvider().Tracer("handler-test"), tokens, scans)
	r := gin.New()
	h.RegisterRoutes(r, apiKey)
	return r
}

func TestAddTokenValidatesChain(t *testing.T) {
	r := newTestRouter(t, &tokenStoreStub{}, &scanServiceStub{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tokens",
		strings.NewReader(`{"address":"0xabc","chain":"dogechain"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "supported_chains") {
		t.Fatalf("expected supported chains in response: %s", w.Body.String())
	}
}

func TestAddTokenSuccess(t *testing.T) {
	store := &tokenStoreStub{}
	r := newTestRouter(t, store, &scanServiceStub{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tokens",
		strings.NewReader(`{"address":"0xABC","chain":"ETH","symbol":"acme","repo_owner":"acme","repo_name":"token"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.upserted == nil || store.upserted.Chain != "eth" {
		t.Fatalf("expected normalized chain, got %+v", store.upserted)
	}
}

func TestGetTokenHealthReturnsReport(t *testing.T) {
	scans := &scanServiceStub{report: &domain.HealthReport{Address: "0xabc", Chain: "eth", Overall: 72}}
	r := newTestRouter(t, &tokenStoreStub{}, scans, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tokens/eth/0xabc/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var report domain.HealthReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if report.Overall != 72 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestGetTokenHealthUnsupportedChain(t *testing.T) {
	r := newTestRouter(t, &tokenStoreStub{}, &scanServiceStub{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tokens/dogechain/0xabc/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestScanTokenUnknownToken(t *testing.T) {
	r := newTestRouter(t, &tokenStoreStub{}, &scanServiceStub{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tokens/eth/0xabc/scan", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestScanTokenSuccess(t *testing.T) {
	store := &tokenStoreStub{token: &domain.Token{ID: 1, Address: "0xabc", Chain: "eth"}}
	scans := &scanServiceStub{report: &domain.HealthReport{Address: "0xabc", Overall: 60}}
	r := newTestRouter(t, store, scans, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tokens/eth/0xabc/scan", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if scans.scanned != 1 {
		t.Fatalf("expected one scan call, got %d", scans.scanned)
	}
}

func TestRunScanReturnsCounters(t *testing.T) {
	scans := &scanServiceStub{runResult: domain.ScanRunResult{
		TokensScanned:    5,
		ReportsWritten:   4,
		AnomaliesFlagged: 1,
		Errors:           []string{"eth/0xdead: timeout"},
	}}
	r := newTestRouter(t, &tokenStoreStub{}, scans, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scan/run", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var result domain.ScanRunResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if result.TokensScanned != 5 || result.AnomaliesFlagged != 1 || len(result.Errors) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunScanFailure(t *testing.T) {
	scans := &scanServiceStub{runErr: errors.New("store down")}
	r := newTestRouter(t, &tokenStoreStub{}, scans, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scan/run", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestAPIKeyAuthGuardsAPIRoutes(t *testing.T) {
	r := newTestRouter(t, &tokenStoreStub{}, &scanServiceStub{}, "secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tokens", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/tokens", nil)
	req.Header.Set("X-API-Key", "wrong")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with bad key, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/tokens", nil)
	req.Header.Set("X-API-Key", "secret")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid key, got %d", w.Code)
	}

	// /health stays open
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected open health endpoint, got %d", w.Code)
	}
}

type tokenStoreStub struct {
	token    *domain.Token
	tokens   []domain.Token
	upserted *domain.Token
}

func (s *tokenStoreStub) UpsertToken(ctx context.Context, token domain.Token) (*domain.Token, error) {
	token.ID = 1
	s.upserted = &token
	return &token, nil
}

func (s *tokenStoreStub) ListTokens(ctx context.Context) ([]domain.Token, error) {
	return s.tokens, nil
}

func (s *tokenStoreStub) GetToken(ctx context.Context, chain, address string) (*domain.Token, error) {
	return s.token, nil
}

func (s *tokenStoreStub) DeleteToken(ctx context.Context, chain, address string) error {
	if s.token == nil {
		return errors.New("not found")
	}
	return nil
}

type scanServiceStub struct {
	report    *domain.HealthReport
	runResult domain.ScanRunResult
	runErr    error
	scanned   int
}

func (s *scanServiceStub) ScanToken(ctx context.Context, token domain.Token) (*domain.HealthReport, error) {
	s.scanned++
	return s.report, nil
}

func (s *scanServiceStub) GetReport(ctx context.Context, chain, address string) (*domain.HealthReport, error) {
	if s.report == nil {
		return nil, errors.New("no report")
	}
	return s.report, nil
}

func (s *scanServiceStub) ScanAll(ctx context.Context) (domain.ScanRunResult, error) {
	return s.runResult, s.runErr
}
