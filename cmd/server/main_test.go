package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"token-health-scan/internal/bot"
	"token-health-scan/internal/config"
	"token-health-scan/internal/domain"
	"token-health-scan/internal/healthscan"
	"token-health-scan/internal/job"
	"token-health-scan/internal/provider"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewGoPlus := newGoPlusProviderFunc
	origNewWebacy := newWebacyProviderFunc
	origNewMoralis := newMoralisProviderFunc
	origNewCoinGecko := newCoinGeckoProviderFunc
	origNewGitHub := newGitHubProviderFunc
	origNewSocial := newSocialProviderFunc
	origStartPoller := startPollerFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{RedisURL: "", DatabaseURL: "", ScanPollSecs: 1}
	}
	initPostgresFunc = func(context.Context) {}
	initRedisFunc = func(context.Context) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newGoPlusProviderFunc = func(trace.Tracer) healthscan.SecurityScanner { return stubScanner{} }
	newWebacyProviderFunc = func(trace.Tracer) healthscan.ThreatIntelReader { return stubScanner{} }
	newMoralisProviderFunc = func(trace.Tracer) healthscan.TokenDataReader { return stubScanner{} }
	newCoinGeckoProviderFunc = func(trace.Tracer) healthscan.MarketDataReader { return stubScanner{} }
	newGitHubProviderFunc = func(trace.Tracer) healthscan.RepoReader { return stubScanner{} }
	newSocialProviderFunc = func(trace.Tracer) healthscan.CommunityReader { return stubScanner{} }
	startPollerFunc = func(*job.ScanPoller, context.Context) {}
	startTelegramBotFunc = func(bot.ReportReader, bot.WatchlistReader) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newGoPlusProviderFunc = origNewGoPlus
		newWebacyProviderFunc = origNewWebacy
		newMoralisProviderFunc = origNewMoralis
		newCoinGeckoProviderFunc = origNewCoinGecko
		newGitHubProviderFunc = origNewGitHub
		newSocialProviderFunc = origNewSocial
		startPollerFunc = origStartPoller
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}

// stubScanner satisfies every provider-facing interface the service
// consumes, so a single stub covers the whole fan-out.
type stubScanner struct{}

func (stubScanner) FetchTokenSecurity(context.Context, string, string) (*provider.SecurityScan, error) {
	return nil, nil
}

func (stubScanner) FetchThreatProfile(context.Context, string, string) (*provider.SecurityScan, error) {
	return nil, nil
}

func (stubScanner) FetchTokenInsights(context.Context, string, string) (*provider.TokenInsights, error) {
	return nil, nil
}

func (stubScanner) FetchTokenMarket(context.Context, string, string) (*provider.TokenMarket, error) {
	return nil, nil
}

func (stubScanner) FetchRepoStats(context.Context, string, string) (*provider.RepoStats, error) {
	return nil, nil
}

func (stubScanner) FetchCommunity(context.Context, domain.Token) domain.CommunitySignals {
	return domain.CommunitySignals{}
}
