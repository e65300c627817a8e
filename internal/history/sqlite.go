package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/reviewscout/enrich-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path, WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS extractions (
	id          TEXT PRIMARY KEY,
	created_at  DATETIME NOT NULL,
	criteria    TEXT NOT NULL,
	businesses  TEXT NOT NULL,
	statistics  TEXT NOT NULL,
	enriched_at DATETIME,
	enrichment  TEXT
);

CREATE INDEX IF NOT EXISTS idx_extractions_created_at ON extractions(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, ex *model.Extraction) error {
	criteria, businesses, statistics, err := marshalExtraction(ex)
	if err != nil {
		return err
	}

	ts := ex.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, created_at, criteria, businesses, statistics) VALUES (?, ?, ?, ?, ?)`,
		ex.ID, ts, criteria, businesses, statistics,
	)
	return eris.Wrap(err, "sqlite: insert extraction")
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*model.Extraction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, criteria, businesses, statistics, enriched_at, enrichment FROM extractions WHERE id = ?`,
		id,
	)
	ex, err := scanExtraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ex, err
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Extraction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, criteria, businesses, statistics, enriched_at, enrichment FROM extractions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list extractions")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Extraction
	for rows.Next() {
		ex, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ex)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate extractions")
}

func (s *SQLiteStore) UpdateEnrichment(ctx context.Context, id string, businesses []model.BusinessRecord, stats model.EnrichmentStats) error {
	businessesJSON, err := json.Marshal(businesses)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal businesses")
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal stats")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE extractions SET businesses = ?, enrichment = ?, enriched_at = ? WHERE id = ?`,
		string(businessesJSON), string(statsJSON), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update enrichment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: extraction %s not found", id)
	}
	return nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExtraction(row rowScanner) (*model.Extraction, error) {
	var (
		ex           model.Extraction
		criteria     string
		businesses   string
		statistics   string
		enrichedAt   sql.NullTime
		enrichmentJS sql.NullString
	)
	if err := row.Scan(&ex.ID, &ex.Timestamp, &criteria, &businesses, &statistics, &enrichedAt, &enrichmentJS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan extraction")
	}

	if err := json.Unmarshal([]byte(criteria), &ex.SearchCriteria); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal criteria")
	}
	if err := json.Unmarshal([]byte(businesses), &ex.Businesses); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal businesses")
	}
	if err := json.Unmarshal([]byte(statistics), &ex.Statistics); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal statistics")
	}
	if enrichedAt.Valid {
		t := enrichedAt.Time
		ex.EnrichedAt = &t
	}
	if enrichmentJS.Valid && enrichmentJS.String != "" {
		var stats model.EnrichmentStats
		if err := json.Unmarshal([]byte(enrichmentJS.String), &stats); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal enrichment")
		}
		ex.Enrichment = &stats
	}
	return &ex, nil
}

func marshalExtraction(ex *model.Extraction) (criteria, businesses, statistics string, err error) {
	c, err := json.Marshal(ex.SearchCriteria)
	if err != nil {
		return "", "", "", eris.Wrap(err, "history: marshal criteria")
	}
	b, err := json.Marshal(ex.Businesses)
	if err != nil {
		return "", "", "", eris.Wrap(err, "history: marshal businesses")
	}
	st, err := json.Marshal(ex.Statistics)
	if err != nil {
		return "", "", "", eris.Wrap(err, "history: marshal statistics")
	}
	return string(c), string(b), string(st), nil
}
