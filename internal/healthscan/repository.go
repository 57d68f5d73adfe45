package healthscan

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"token-health-scan/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Repository persists tokens and health reports. Reports are
// append-only, one row per scan; the latest row wins.
type Repository struct {
	pool   pool
	tracer trace.Tracer
}

func NewRepository(pool pool, tracer trace.Tracer) *Repository {
	return &Repository{pool: pool, tracer: tracer}
}

const tokenColumns = `id, address, chain, symbol, name,
       twitter_handle, discord_invite, telegram_channel,
       repo_owner, repo_name, created_at, updated_at`

func (r *Repository) ListTokens(ctx context.Context) ([]domain.Token, error) {
	_, span := r.tracer.Start(ctx, "healthscan-repo.list-tokens")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
SELECT `+tokenColumns+`
FROM tokens
ORDER BY chain, symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Token
	for rows.Next() {
		token, err := scanTokenRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, token)
	}
	return out, rows.Err()
}

func (r *Repository) GetToken(ctx context.Context, chain, address string) (*domain.Token, error) {
	_, span := r.tracer.Start(ctx, "healthscan-repo.get-token")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
SELECT `+tokenColumns+`
FROM tokens
WHERE chain = $1 AND LOWER(address) = LOWER($2)`, normalizeChain(chain), strings.TrimSpace(address))

	token, err := scanTokenRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *Repository) UpsertReport(ctx context.Context, report domain.HealthReport) (*domain.HealthReport, error) {
	_, span := r.tracer.Start(ctx, "healthscan-repo.upsert-report")
	defer span.End()

	securityJSON, _ := json.Marshal(report.Security)
	marketJSON, _ := json.Marshal(report.Market)
	tokenomicsJSON, _ := json.Marshal(report.Tokenomics)
	communityJSON, _ := json.Marshal(report.Community)
	var developmentJSON []byte
	if report.Development != nil {
		developmentJSON, _ = json.Marshal(report.Development)
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO health_reports (
    token_id, address, chain,
    security_score, liquidity_score, tokenomics_score, community_score, development_score,
    overall_score, confidence_score,
    lock_locked, lock_info, locked_days,
    anomaly, narrative,
    security_json, market_json, tokenomics_json, community_json, development_json,
    generated_at
) VALUES (
    $1, $2, $3,
    $4, $5, $6, $7, $8,
    $9, $10,
    $11, $12, $13,
    $14, $15,
    $16, $17, $18, $19, $20,
    $21
)
ON CONFLICT (token_id, generated_at) DO UPDATE SET
    security_score = EXCLUDED.security_score,
    liquidity_score = EXCLUDED.liquidity_score,
    tokenomics_score = EXCLUDED.tokenomics_score,
    community_score = EXCLUDED.community_score,
    development_score = EXCLUDED.development_score,
    overall_score = EXCLUDED.overall_score,
    confidence_score = EXCLUDED.confidence_score,
    lock_locked = EXCLUDED.lock_locked,
    lock_info = EXCLUDED.lock_info,
    locked_days = EXCLUDED.locked_days,
    anomaly = EXCLUDED.anomaly,
    narrative = EXCLUDED.narrative,
    security_json = EXCLUDED.security_json,
    market_json = EXCLUDED.market_json,
    tokenomics_json = EXCLUDED.tokenomics_json,
    community_json = EXCLUDED.community_json,
    development_json = EXCLUDED.development_json
RETURNING `+reportColumns,
		report.TokenID, strings.TrimSpace(report.Address), normalizeChain(report.Chain),
		report.Categories.Security, report.Categories.Liquidity, report.Categories.Tokenomics,
		report.Categories.Community, report.Categories.Development,
		report.Overall, report.Confidence,
		report.Lock.Locked, report.Lock.LockInfo, report.Lock.LockedDays,
		report.Anomaly, report.Narrative,
		securityJSON, marketJSON, tokenomicsJSON, communityJSON, developmentJSON,
		report.GeneratedAt.UTC(),
	)

	stored, err := scanReportRow(row)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *Repository) GetLatestReport(ctx context.Context, chain, address string) (*domain.HealthReport, error) {
	_, span := r.tracer.Start(ctx, "healthscan-repo.get-latest-report")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
SELECT `+reportColumns+`
FROM health_reports
WHERE chain = $1 AND LOWER(address) = LOWER($2)
ORDER BY generated_at DESC
LIMIT 1`, normalizeChain(chain), strings.TrimSpace(address))

	report, err := scanReportRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *Repository) ListLatestReports(ctx context.Context, limit int) ([]domain.HealthReport, error) {
	_, span := r.tracer.Start(ctx, "healthscan-repo.list-latest-reports")
	defer span.End()

	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT ON (token_id) `+reportColumns+`
FROM health_reports
ORDER BY token_id, generated_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HealthReport
	for rows.Next() {
		report, err := scanReportRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

func (r *Repository) MarkAnomalies(ctx context.Context, reportIDs []int64) error {
	_, span := r.tracer.Start(ctx, "healthscan-repo.mark-anomalies")
	defer span.End()

	if len(reportIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range reportIDs {
		batch.Queue(`UPDATE health_reports SET anomaly = TRUE WHERE id = $1`, id)
	}
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range reportIDs {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

const reportColumns = `id, token_id, address, chain,
          security_score, liquidity_score, tokenomics_score, community_score, development_score,
          overall_score, confidence_score,
          lock_locked, lock_info, locked_days,
          anomaly, narrative,
          security_json, market_json, tokenomics_json, community_json, development_json,
          generated_at, created_at`

func scanReportRow(row pgx.Row) (domain.HealthReport, error) {
	var report domain.HealthReport
	var securityJSON, marketJSON, tokenomicsJSON, communityJSON []byte
	var developmentJSON []byte

	err := row.Scan(
		&report.ID,
		&report.TokenID,
		&report.Address,
		&report.Chain,
		&report.Categories.Security,
		&report.Categories.Liquidity,
		&report.Categories.Tokenomics,
		&report.Categories.Community,
		&report.Categories.Development,
		&report.Overall,
		&report.Confidence,
		&report.Lock.Locked,
		&report.Lock.LockInfo,
		&report.Lock.LockedDays,
		&report.Anomaly,
		&report.Narrative,
		&securityJSON,
		&marketJSON,
		&tokenomicsJSON,
		&communityJSON,
		&developmentJSON,
		&report.GeneratedAt,
		&report.CreatedAt,
	)
	if err != nil {
		return domain.HealthReport{}, err
	}

	_ = json.Unmarshal(securityJSON, &report.Security)
	_ = json.Unmarshal(marketJSON, &report.Market)
	_ = json.Unmarshal(tokenomicsJSON, &report.Tokenomics)
	_ = json.Unmarshal(communityJSON, &report.Community)
	if len(developmentJSON) > 0 {
		var dev domain.DevelopmentSignals
		if err := json.Unmarshal(developmentJSON, &dev); err == nil {
			report.Development = &dev
		}
	}

	report.GeneratedAt = report.GeneratedAt.UTC()
	report.CreatedAt = report.CreatedAt.UTC()
	return report, nil
}

func scanTokenRow(row pgx.Row) (domain.Token, error) {
	var token domain.Token
	err := row.Scan(
		&token.ID,
		&token.Address,
		&token.Chain,
		&token.Symbol,
		&token.Name,
		&token.TwitterHandle,
		&token.DiscordInvite,
		&token.TelegramChannel,
		&token.RepoOwner,
		&token.RepoName,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		return domain.Token{}, err
	}
	token.CreatedAt = token.CreatedAt.UTC()
	token.UpdatedAt = token.UpdatedAt.UTC()
	return token, nil
}

func normalizeChain(chain string) string {
	return strings.ToLower(strings.TrimSpace(chain))
}
