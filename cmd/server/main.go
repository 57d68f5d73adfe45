package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"token-health-scan/internal/anomaly"
	"token-health-scan/internal/bot"
	"token-health-scan/internal/cache"
	"token-health-scan/internal/config"
	"token-health-scan/internal/db"
	"token-health-scan/internal/handler"
	"token-health-scan/internal/healthscan"
	"token-health-scan/internal/job"
	"token-health-scan/internal/narrative"
	"token-health-scan/internal/provider"
	"token-health-scan/internal/repository"
	"token-health-scan/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "token-health-scan/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newScanServiceFunc     = healthscan.NewService
	newScanPollerFunc      = job.NewScanPoller
	startPollerFunc        = func(p *job.ScanPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	newGoPlusProviderFunc  = func(tracer trace.Tracer) healthscan.SecurityScanner {
		return provider.NewGoPlusProvider(tracer)
	}
	newWebacyProviderFunc = func(tracer trace.Tracer) healthscan.ThreatIntelReader {
		return provider.NewWebacyProvider(tracer)
	}
	newMoralisProviderFunc = func(tracer trace.Tracer) healthscan.TokenDataReader {
		return provider.NewMoralisProvider(tracer)
	}
	newCoinGeckoProviderFunc = func(tracer trace.Tracer) healthscan.MarketDataReader {
		return provider.NewCoinGeckoProvider(tracer)
	}
	newGitHubProviderFunc = func(tracer trace.Tracer) healthscan.RepoReader {
		return provider.NewGitHubProvider(tracer)
	}
	newSocialProviderFunc = func(tracer trace.Tracer) healthscan.CommunityReader {
		return provider.NewSocialProvider(tracer)
	}
)

// @title           Token Health Scan API
// @version         1.0
// @description     Crypto token health scoring across security, liquidity, tokenomics, community, and development signals.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Repositories
	scanRepo := healthscan.NewRepository(db.Pool, tracer)
	tokenRepo := repository.NewTokenRepository(db.Pool, tracer)

	// Providers
	scanner := newGoPlusProviderFunc(tracer)
	threats := newWebacyProviderFunc(tracer)
	tokenData := newMoralisProviderFunc(tracer)
	market := newCoinGeckoProviderFunc(tracer)
	repos := newGitHubProviderFunc(tracer)
	community := newSocialProviderFunc(tracer)

	// Narrative generation (optional)
	var narrator healthscan.Narrator
	if cfg.OpenAIAPIKey != "" {
		llmClient := narrative.NewOpenAIClient(cfg.OpenAIAPIKey)
		narrator = narrative.NewGenerator(tracer, llmClient, cfg.OpenAIModel)
		log.Println("LLM narratives enabled")
	}

	// Anomaly detection (optional)
	var outliers healthscan.OutlierDetector
	if cfg.AnomalyEnabled {
		outliers = anomaly.NewDetector(cfg.AnomalyThreshold)
	}

	scanService := newScanServiceFunc(tracer, scanRepo,
		scanner, threats, tokenData, market, repos, community,
		narrator, outliers, cache.Client,
		healthscan.Config{
			CacheTTL:     time.Duration(cfg.ReportCacheTTLSecs) * time.Second,
			ReportMaxAge: time.Duration(cfg.ReportMaxAgeSecs) * time.Second,
		})

	// Start scan poller (background goroutine, stopped by ctx cancel)
	poller := newScanPollerFunc(tracer, scanService, time.Duration(cfg.ScanPollSecs)*time.Second)
	startPollerFunc(poller, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(scanService, tokenRepo)

	// Handlers and routes
	h := newHandlerFunc(tracer, tokenRepo, scanService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("token-health-scan"))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
