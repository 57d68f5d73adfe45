package healthscan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"token-health-scan/internal/domain"
	"token-health-scan/internal/provider"
	"token-health-scan/internal/scoring"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

type SecurityScanner interface {
	FetchTokenSecurity(ctx context.Context, chain, address string) (*provider.SecurityScan, error)
}

type ThreatIntelReader interface {
	FetchThreatProfile(ctx context.Context, chain, address string) (*provider.SecurityScan, error)
}

type TokenDataReader interface {
	FetchTokenInsights(ctx context.Context, chain, address string) (*provider.TokenInsights, error)
}

type MarketDataReader interface {
	FetchTokenMarket(ctx context.Context, chain, address string) (*provider.TokenMarket, error)
}

type RepoReader interface {
	FetchRepoStats(ctx context.Context, owner, repo string) (*provider.RepoStats, error)
}

type CommunityReader interface {
	FetchCommunity(ctx context.Context, token domain.Token) domain.CommunitySignals
}

type Narrator interface {
	Narrate(ctx context.Context, report domain.HealthReport) (string, error)
}

type OutlierDetector interface {
	Flag(reports []domain.HealthReport) []bool
}

type Store interface {
	ListTokens(ctx context.Context) ([]domain.Token, error)
	GetToken(ctx context.Context, chain, address string) (*domain.Token, error)
	UpsertReport(ctx context.Context, report domain.HealthReport) (*domain.HealthReport, error)
	GetLatestReport(ctx context.Context, chain, address string) (*domain.HealthReport, error)
	MarkAnomalies(ctx context.Context, reportIDs []int64) error
}

type Config struct {
	CacheTTL     time.Duration
	ReportMaxAge time.Duration
}

// Service runs provider fan-out and scoring for tokens on the
// watchlist. The narrator, outlier detector, and cache are optional;
// the scan degrades without them.
type Service struct {
	tracer trace.Tracer
	repo   Store

	scanner   SecurityScanner
	threats   ThreatIntelReader
	tokenData TokenDataReader
	market    MarketDataReader
	repos     RepoReader
	community CommunityReader

	narrator Narrator
	outliers OutlierDetector
	cache    *redis.Client

	now func() time.Time
	cfg Config
}

func NewService(
	tracer trace.Tracer,
	repo Store,
	scanner SecurityScanner,
	threats ThreatIntelReader,
	tokenData TokenDataReader,
	market MarketDataReader,
	repos RepoReader,
	community CommunityReader,
	narrator Narrator,
	outliers OutlierDetector,
	cache *redis.Client,
	cfg Config,
) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.ReportMaxAge <= 0 {
		cfg.ReportMaxAge = time.Hour
	}

	return &Service{
		tracer:    tracer,
		repo:      repo,
		scanner:   scanner,
		threats:   threats,
		tokenData: tokenData,
		market:    market,
		repos:     repos,
		community: community,
		narrator:  narrator,
		outliers:  outliers,
		cache:     cache,
		now:       time.Now,
		cfg:       cfg,
	}
}

// ScanToken runs the full fan-out for one token and persists the
// resulting report. Individual provider failures degrade the evidence
// rather than failing the scan; only a missing store is fatal.
func (s *Service) ScanToken(ctx context.Context, token domain.Token) (*domain.HealthReport, error) {
	ctx, span := s.tracer.Start(ctx, "healthscan.scan-token")
	defer span.End()

	if s.repo == nil {
		return nil, fmt.Errorf("healthscan service store is not initialized")
	}

	now := s.now().UTC()
	report := domain.HealthReport{
		TokenID:     token.ID,
		Address:     token.Address,
		Chain:       token.Chain,
		GeneratedAt: now,
	}

	var security domain.SecuritySignals
	if s.threats != nil {
		if scan, err := s.threats.FetchThreatProfile(ctx, token.Chain, token.Address); err != nil {
			log.Printf("threat intel failed for %s/%s: %v", token.Chain, token.Address, err)
		} else if scan != nil {
			security = scan.Signals
		}
	}
	if s.scanner != nil {
		if scan, err := s.scanner.FetchTokenSecurity(ctx, token.Chain, token.Address); err != nil {
			log.Printf("security scan failed for %s/%s: %v", token.Chain, token.Address, err)
		} else if scan != nil {
			security = scoring.MergeSecuritySignals(security, scan.Signals)
		}
	}
	report.Security = security

	var evidence domain.EvidencePresence
	if s.tokenData != nil {
		if insights, err := s.tokenData.FetchTokenInsights(ctx, token.Chain, token.Address); err != nil {
			log.Printf("token insights failed for %s/%s: %v", token.Chain, token.Address, err)
		} else if insights != nil {
			report.Tokenomics = insights.Tokenomics
			report.Lock.Locked = insights.LiquidityLocked
			report.Lock.LockInfo = insights.LockInfo
			evidence.HasTotalSupply = insights.Tokenomics.TotalSupply != nil
			evidence.HasTotalLiquidityUSD = insights.TotalLiquidityUSD != nil
			evidence.HasHolderConcentration = insights.HolderConcentration != nil
			evidence.HasVerifiedFlag = insights.Tokenomics.VerifiedContract != nil
			evidence.HasCurrentPriceUSD = insights.PriceUSD != nil
		}
	}

	if s.market != nil {
		if market, err := s.market.FetchTokenMarket(ctx, token.Chain, token.Address); err != nil {
			log.Printf("market data failed for %s/%s: %v", token.Chain, token.Address, err)
		} else if market != nil {
			report.Market = domain.MarketSignals{
				Volume24hUSD:      market.Volume24hUSD,
				MarketCapUSD:      market.MarketCapUSD,
				PriceChange24hPct: market.PriceChange24hPct,
				PriceUSD:          market.PriceUSD,
			}
			if !evidence.HasCurrentPriceUSD {
				evidence.HasCurrentPriceUSD = market.PriceUSD != nil
			}
		}
	}

	if s.community != nil {
		report.Community = s.community.FetchCommunity(ctx, token)
	}

	if s.repos != nil && token.RepoOwner != "" && token.RepoName != "" {
		if stats, err := s.repos.FetchRepoStats(ctx, token.RepoOwner, token.RepoName); err != nil {
			log.Printf("repo stats failed for %s/%s: %v", token.RepoOwner, token.RepoName, err)
		} else if stats != nil && stats.Found {
			signals := stats.Signals
			report.Development = &signals
		}
	}

	securityScore := scoring.Security(report.Security)
	liquidityScore := scoring.Liquidity(report.Market)
	tokenomicsScore := scoring.Tokenomics(report.Tokenomics, report.Market)
	communityScore := scoring.Community(report.Community)
	developmentScore := scoring.Development(report.Development, now)

	report.Categories = domain.CategoryScores{
		Security:    securityScore.Ptr(),
		Liquidity:   liquidityScore.Ptr(),
		Tokenomics:  tokenomicsScore.Ptr(),
		Community:   communityScore.Ptr(),
		Development: developmentScore.Ptr(),
	}
	report.Overall = scoring.Overall(securityScore, liquidityScore, tokenomicsScore, communityScore, developmentScore)
	report.Confidence = scoring.Confidence(evidence)
	report.Lock.LockedDays = scoring.LockedDays(report.Lock.Locked, report.Lock.LockInfo)

	if s.narrator != nil {
		if narrative, err := s.narrator.Narrate(ctx, report); err != nil {
			log.Printf("narrative failed for %s/%s: %v", token.Chain, token.Address, err)
		} else {
			report.Narrative = narrative
		}
	}

	stored, err := s.repo.UpsertReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	s.cacheReport(ctx, *stored)
	return stored, nil
}

// GetReport returns the freshest report for a token: cache first, then
// the store, then a live scan when the stored report is stale or
// missing.
func (s *Service) GetReport(ctx context.Context, chain, address string) (*domain.HealthReport, error) {
	ctx, span := s.tracer.Start(ctx, "healthscan.get-report")
	defer span.End()

	if cached := s.cachedReport(ctx, chain, address); cached != nil {
		return cached, nil
	}

	report, err := s.repo.GetLatestReport(ctx, chain, address)
	if err != nil {
		return nil, err
	}
	if report != nil && s.now().UTC().Sub(report.GeneratedAt) <= s.cfg.ReportMaxAge {
		s.cacheReport(ctx, *report)
		return report, nil
	}

	token, err := s.repo.GetToken(ctx, chain, address)
	if err != nil {
		return nil, err
	}
	if token == nil {
		if report != nil {
			return report, nil
		}
		return nil, fmt.Errorf("unknown token %s on %s", address, chain)
	}

	fresh, err := s.ScanToken(ctx, *token)
	if err != nil {
		if report != nil {
			log.Printf("rescan failed for %s/%s, serving stale report: %v", chain, address, err)
			return report, nil
		}
		return nil, err
	}
	return fresh, nil
}

// ScanAll walks the watchlist, scans every token, and afterwards flags
// market outliers across the fresh reports.
func (s *Service) ScanAll(ctx context.Context) (domain.ScanRunResult, error) {
	ctx, span := s.tracer.Start(ctx, "healthscan.scan-all")
	defer span.End()

	result := domain.ScanRunResult{}

	tokens, err := s.repo.ListTokens(ctx)
	if err != nil {
		return result, err
	}

	reports := make([]domain.HealthReport, 0, len(tokens))
	for _, token := range tokens {
		result.TokensScanned++
		report, err := s.ScanToken(ctx, token)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s/%s: %v", token.Chain, token.Address, err))
			continue
		}
		result.ReportsWritten++
		reports = append(reports, *report)
	}

	if s.outliers != nil && len(reports) > 0 {
		flags := s.outliers.Flag(reports)
		var anomalous []int64
		for i, flagged := range flags {
			if i >= len(reports) || !flagged {
				continue
			}
			anomalous = append(anomalous, reports[i].ID)
			result.AnomaliesFlagged++
		}
		if len(anomalous) > 0 {
			if err := s.repo.MarkAnomalies(ctx, anomalous); err != nil {
				result.Errors = append(result.Errors, "mark anomalies: "+err.Error())
			}
		}
	}

	return result, nil
}

func reportCacheKey(chain, address string) string {
	return fmt.Sprintf("healthscan:report:%s:%s", chain, address)
}

func (s *Service) cacheReport(ctx context.Context, report domain.HealthReport) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey(report.Chain, report.Address), data, s.cfg.CacheTTL).Err(); err != nil {
		log.Printf("cache write failed for %s/%s: %v", report.Chain, report.Address, err)
	}
}

func (s *Service) cachedReport(ctx context.Context, chain, address string) *domain.HealthReport {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, reportCacheKey(chain, address)).Bytes()
	if err != nil {
		return nil
	}
	var report domain.HealthReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	return &report
}
