package history

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewscout/enrich-cli/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func extractionColumns() []string {
	return []string{"id", "created_at", "criteria", "businesses", "statistics", "enriched_at", "enrichment"}
}

func TestPostgres_Save(t *testing.T) {
	st, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO extractions").
		WithArgs("extraction_1_abc", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := st.Save(ctx, sampleExtraction("extraction_1_abc", time.Now().UTC()))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Load(t *testing.T) {
	st, mock := newMockStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM extractions WHERE id").
		WithArgs("extraction_1_abc").
		WillReturnRows(pgxmock.NewRows(extractionColumns()).AddRow(
			"extraction_1_abc",
			ts,
			[]byte(`{"category":"restaurant","location":"Amsterdam"}`),
			[]byte(`[{"title":"Acme Dental","address":"Main St 5"}]`),
			[]byte(`{"businessesFound":1,"reviewsFound":3}`),
			nil,
			nil,
		))

	got, err := st.Load(ctx, "extraction_1_abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "restaurant", got.SearchCriteria.Category)
	require.Len(t, got.Businesses, 1)
	assert.Equal(t, "Acme Dental", got.Businesses[0].Title)
	assert.Nil(t, got.EnrichedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LoadMissing(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM extractions WHERE id").
		WithArgs("extraction_0_missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := st.Load(context.Background(), "extraction_0_missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_List(t *testing.T) {
	st, mock := newMockStore(t)

	ts := time.Now().UTC()
	enrichedAt := ts.Add(time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM extractions ORDER BY created_at DESC").
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(extractionColumns()).
			AddRow("extraction_2_b", ts, []byte(`{}`), []byte(`[]`), []byte(`{}`), &enrichedAt, []byte(`{"success":true}`)).
			AddRow("extraction_1_a", ts.Add(-time.Hour), []byte(`{}`), []byte(`[]`), []byte(`{}`), nil, nil))

	got, err := st.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "extraction_2_b", got[0].ID)
	require.NotNil(t, got[0].Enrichment)
	assert.True(t, got[0].Enrichment.Success)
	assert.Nil(t, got[1].Enrichment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateEnrichment(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE extractions SET businesses").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "extraction_1_abc").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.UpdateEnrichment(context.Background(), "extraction_1_abc",
		[]model.BusinessRecord{{Title: "Acme"}}, model.EnrichmentStats{Success: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateEnrichmentMissing(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE extractions SET businesses").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "extraction_0_missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.UpdateEnrichment(context.Background(), "extraction_0_missing", nil, model.EnrichmentStats{})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS extractions").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
