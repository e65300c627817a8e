package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/reviewscout/enrich-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 5
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS extractions (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL,
	criteria    JSONB NOT NULL,
	businesses  JSONB NOT NULL,
	statistics  JSONB NOT NULL,
	enriched_at TIMESTAMPTZ,
	enrichment  JSONB
);

CREATE INDEX IF NOT EXISTS idx_extractions_created_at ON extractions(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, ex *model.Extraction) error {
	criteria, businesses, statistics, err := marshalExtraction(ex)
	if err != nil {
		return err
	}

	ts := ex.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO extractions (id, created_at, criteria, businesses, statistics) VALUES ($1, $2, $3, $4, $5)`,
		ex.ID, ts, criteria, businesses, statistics,
	)
	return eris.Wrap(err, "postgres: insert extraction")
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*model.Extraction, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, created_at, criteria, businesses, statistics, enriched_at, enrichment FROM extractions WHERE id = $1`,
		id,
	)
	ex, err := scanPGExtraction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return ex, err
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]model.Extraction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, criteria, businesses, statistics, enriched_at, enrichment FROM extractions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list extractions")
	}
	defer rows.Close()

	var out []model.Extraction
	for rows.Next() {
		ex, err := scanPGExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ex)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate extractions")
}

func (s *PostgresStore) UpdateEnrichment(ctx context.Context, id string, businesses []model.BusinessRecord, stats model.EnrichmentStats) error {
	businessesJSON, err := json.Marshal(businesses)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal businesses")
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal stats")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE extractions SET businesses = $1, enrichment = $2, enriched_at = $3 WHERE id = $4`,
		string(businessesJSON), string(statsJSON), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: update enrichment")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: extraction %s not found", id)
	}
	return nil
}

func scanPGExtraction(row pgx.Row) (*model.Extraction, error) {
	var (
		ex           model.Extraction
		criteria     []byte
		businesses   []byte
		statistics   []byte
		enrichedAt   *time.Time
		enrichmentJS []byte
	)
	if err := row.Scan(&ex.ID, &ex.Timestamp, &criteria, &businesses, &statistics, &enrichedAt, &enrichmentJS); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan extraction")
	}

	if err := json.Unmarshal(criteria, &ex.SearchCriteria); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal criteria")
	}
	if err := json.Unmarshal(businesses, &ex.Businesses); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal businesses")
	}
	if err := json.Unmarshal(statistics, &ex.Statistics); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal statistics")
	}
	ex.EnrichedAt = enrichedAt
	if len(enrichmentJS) > 0 {
		var stats model.EnrichmentStats
		if err := json.Unmarshal(enrichmentJS, &stats); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal enrichment")
		}
		ex.Enrichment = &stats
	}
	return &ex, nil
}
