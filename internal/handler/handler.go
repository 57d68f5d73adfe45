package handler

import (
	"context"

	"token-health-scan/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type TokenStore interface {
	UpsertToken(ctx context.Context, token domain.Token) (*domain.Token, error)
	ListTokens(ctx context.Context) ([]domain.Token, error)
	GetToken(ctx context.Context, chain, address string) (*domain.Token, error)
	DeleteToken(ctx context.Context, chain, address string) error
}

type ScanService interface {
	ScanToken(ctx context.Context, token domain.Token) (*domain.HealthReport, error)
	GetReport(ctx context.Context, chain, address string) (*domain.HealthReport, error)
	ScanAll(ctx context.Context) (domain.ScanRunResult, error)
}

type Handler struct {
	tracer trace.Tracer
	tokens TokenStore
	scans  ScanService
}

func New(tracer trace.Tracer, tokens TokenStore, scans ScanService) *Handler {
	return &Handler{
		tracer: tracer,
		tokens: tokens,
		scans:  scans,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.GET("/tokens", h.ListTokens)
	api.POST("/tokens", h.AddToken)
	api.DELETE("/tokens/:chain/:address", h.RemoveToken)
	api.GET("/tokens/:chain/:address/health", h.GetTokenHealth)
	api.POST("/tokens/:chain/:address/scan", h.ScanToken)
	api.POST("/scan/run", h.RunScan)
}
