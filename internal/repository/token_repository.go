package repository

import (
	"context"
	"errors"
	"strings"

	"token-health-scan/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// TokenRepository manages the scan watchlist.
type TokenRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewTokenRepository(pool PgxPool, tracer trace.Tracer) *TokenRepository {
	return &TokenRepository{pool: pool, tracer: tracer}
}

const tokenColumns = `id, address, chain, symbol, name,
       twitter_handle, discord_invite, telegram_channel,
       repo_owner, repo_name, created_at, updated_at`

func (r *TokenRepository) UpsertToken(ctx context.Context, token domain.Token) (*domain.Token, error) {
	_, span := r.tracer.Start(ctx, "token-repo.upsert-token")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
INSERT INTO tokens (
    address, chain, symbol, name,
    twitter_handle, discord_invite, telegram_channel,
    repo_owner, repo_name
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7,
    $8, $9
)
ON CONFLICT (chain, address) DO UPDATE SET
    symbol = EXCLUDED.symbol,
    name = EXCLUDED.name,
    twitter_handle = EXCLUDED.twitter_handle,
    discord_invite = EXCLUDED.discord_invite,
    telegram_channel = EXCLUDED.telegram_channel,
    repo_owner = EXCLUDED.repo_owner,
    repo_name = EXCLUDED.repo_name,
    updated_at = NOW()
RETURNING `+tokenColumns,
		strings.ToLower(strings.TrimSpace(token.Address)),
		strings.ToLower(strings.TrimSpace(token.Chain)),
		strings.ToUpper(strings.TrimSpace(token.Symbol)),
		strings.TrimSpace(token.Name),
		strings.TrimPrefix(strings.TrimSpace(token.TwitterHandle), "@"),
		strings.TrimSpace(token.DiscordInvite),
		strings.TrimPrefix(strings.TrimSpace(token.TelegramChannel), "@"),
		strings.TrimSpace(token.RepoOwner),
		strings.TrimSpace(token.RepoName),
	)

	stored, err := scanToken(row)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *TokenRepository) ListTokens(ctx context.Context) ([]domain.Token, error) {
	_, span := r.tracer.Start(ctx, "token-repo.list-tokens")
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
		token, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, token)
	}
	return out, rows.Err()
}

func (r *TokenRepository) GetToken(ctx context.Context, chain, address string) (*domain.Token, error) {
	_, span := r.tracer.Start(ctx, "token-repo.get-token")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
SELECT `+tokenColumns+`
FROM tokens
WHERE chain = $1 AND LOWER(address) = LOWER($2)`,
		strings.ToLower(strings.TrimSpace(chain)), strings.TrimSpace(address))

	token, err := scanToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepository) DeleteToken(ctx context.Context, chain, address string) error {
	_, span := r.tracer.Start(ctx, "token-repo.delete-token")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `
DELETE FROM tokens
WHERE chain = $1 AND LOWER(address) = LOWER($2)`,
		strings.ToLower(strings.TrimSpace(chain)), strings.TrimSpace(address))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanToken(row pgx.Row) (domain.Token, error) {
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
