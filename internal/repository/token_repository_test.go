package repository

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"token-health-scan/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("expected %d scan targets, got %d", len(r.vals), len(dest))
	}
	for i, v := range r.vals {
		if v == nil {
			continue
		}
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	return (&fakeRow{vals: r.rows[r.idx-1]}).Scan(dest...)
}

type fakePool struct {
	row     pgx.Row
	rows    pgx.Rows
	execTag pgconn.CommandTag
	execErr error

	sql  []string
	args [][]any
}

func (p *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.sql = append(p.sql, sql)
	p.args = append(p.args, args)
	return p.execTag, p.execErr
}

func (p *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.sql = append(p.sql, sql)
	p.args = append(p.args, args)
	return p.rows, nil
}

func (p *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	p.sql = append(p.sql, sql)
	p.args = append(p.args, args)
	return p.row
}

func (p *fakePool) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func newTestTokenRepository(p *fakePool) *TokenRepository {
	return NewTokenRepository(p, trace.NewNoopTracerProvider().Tracer("test"))
}

func tokenRowVals() []any {
	loc := time.FixedZone("UTC+2", 2*3600)
	return []any{
		int64(3), "0xabc", "eth", "UNI", "Uniswap",
		"uniswap", "abcdef", "uniswap_channel",
		"Uniswap", "interface",
		time.Date(2025, 5, 1, 10, 0, 0, 0, loc),
		time.Date(2025, 5, 2, 10, 0, 0, 0, loc),
	}
}

func TestUpsertTokenNormalizesInput(t *testing.T) {
	p := &fakePool{row: &fakeRow{vals: tokenRowVals()}}
	repo := newTestTokenRepository(p)

	stored, err := repo.UpsertToken(context.Background(), domain.Token{
		Address:         " 0xABC ",
		Chain:           " ETH ",
		Symbol:          "uni",
		Name:            "Uniswap",
		TwitterHandle:   "@uniswap",
		TelegramChannel: "@uniswap_channel",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	args := p.args[0]
	if args[0] != "0xabc" || args[1] != "eth" {
		t.Fatalf("expected lowercased address and chain, got %v %v", args[0], args[1])
	}
	if args[2] != "UNI" {
		t.Fatalf("expected uppercased symbol, got %v", args[2])
	}
	if args[4] != "uniswap" || args[6] != "uniswap_channel" {
		t.Fatalf("expected @ stripped from handles, got %v %v", args[4], args[6])
	}

	if stored.ID != 3 || stored.Symbol != "UNI" {
		t.Fatalf("unexpected stored token: %+v", stored)
	}
	if stored.CreatedAt.Location() != time.UTC || stored.UpdatedAt.Location() != time.UTC {
		t.Fatalf("timestamps should be normalized to UTC")
	}
}

func TestListTokens(t *testing.T) {
	p := &fakePool{rows: &fakeRows{rows: [][]any{tokenRowVals(), tokenRowVals()}}}
	repo := newTestTokenRepository(p)

	tokens, err := repo.ListTokens(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Address != "0xabc" || tokens[0].RepoOwner != "Uniswap" {
		t.Fatalf("unexpected token: %+v", tokens[0])
	}
}

func TestGetTokenNoRows(t *testing.T) {
	p := &fakePool{row: &fakeRow{err: pgx.ErrNoRows}}
	repo := newTestTokenRepository(p)

	token, err := repo.GetToken(context.Background(), "eth", "0xmissing")
	if err != nil {
		t.Fatalf("missing token should not error: %v", err)
	}
	if token != nil {
		t.Fatalf("expected nil token, got %+v", token)
	}
}

func TestDeleteToken(t *testing.T) {
	p := &fakePool{execTag: pgconn.NewCommandTag("DELETE 1")}
	repo := newTestTokenRepository(p)

	if err := repo.DeleteToken(context.Background(), " ETH ", "0xABC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.args[0][0] != "eth" {
		t.Fatalf("expected normalized chain, got %v", p.args[0][0])
	}
}

func TestDeleteTokenMissing(t *testing.T) {
	p := &fakePool{execTag: pgconn.NewCommandTag("DELETE 0")}
	repo := newTestTokenRepository(p)

	if err := repo.DeleteToken(context.Background(), "eth", "0xmissing"); err != pgx.ErrNoRows {
		t.Fatalf("expected pgx.ErrNoRows for a missing token, got %v", err)
	}
}
