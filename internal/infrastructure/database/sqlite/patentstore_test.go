package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KingdaKilla/ti-radar/internal/infrastructure/database/sqlite"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

func newPatentStore(t *testing.T, hasApplicants, hasCPC bool) (*sqlite.PatentStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	applicantsRows := sqlmock.NewRows([]string{"name"})
	if hasApplicants {
		applicantsRows.AddRow("patent_applicants")
	}
	mock.ExpectQuery(`SELECT name FROM sqlite_master`).WithArgs("patent_applicants").WillReturnRows(applicantsRows)

	cpcRows := sqlmock.NewRows([]string{"name"})
	if hasCPC {
		cpcRows.AddRow("patent_cpc")
	}
	mock.ExpectQuery(`SELECT name FROM sqlite_master`).WithArgs("patent_cpc").WillReturnRows(cpcRows)

	store := sqlite.NewPatentStore(context.Background(), db, logging.NewNopLogger())
	return store, mock, db
}

// ── YearHistogram ─────────────────────────────────────────────────────────

func TestPatentStore_YearHistogram_ParsesYearsAndSkipsMalformed(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	mock.ExpectQuery(`FROM patents_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"yr", "cnt"}).
			AddRow("2019", 12).
			AddRow("2020", 30).
			AddRow("bad", 1))

	got, err := store.YearHistogram(context.Background(), "quantum computing", 2015, 2024)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2019, got[0].Year)
	assert.Equal(t, 12, got[0].Count)
	assert.Equal(t, 2020, got[1].Year)
}

func TestPatentStore_YearHistogram_EmptyResultReturnsEmptySlice(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	mock.ExpectQuery(`FROM patents_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"yr", "cnt"}))

	got, err := store.YearHistogram(context.Background(), "quantum computing", 2015, 2024)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ── TopApplicants ─────────────────────────────────────────────────────────

func TestPatentStore_TopApplicants_UsesNormalizedJoinWhenAvailable(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, true, false)
	defer db.Close()

	mock.ExpectQuery(`JOIN patent_applicants`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "cnt"}).AddRow("ACME CORP", 7))

	got, err := store.TopApplicants(context.Background(), "quantum computing", 2015, 2024, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ACME CORP", got[0].Name)
	assert.Equal(t, 7, got[0].Count)
}

func TestPatentStore_TopApplicants_FallsBackToDenormalizedString(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	mock.ExpectQuery(`d.applicant_names AS name`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "cnt"}).AddRow("ACME CORP; BETA LLC", 3))

	got, err := store.TopApplicants(context.Background(), "quantum computing", 2015, 2024, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ACME CORP; BETA LLC", got[0].Name)
}

// ── FamilyYearCounts ──────────────────────────────────────────────────────

func TestPatentStore_FamilyYearCounts_OkFalseWhenEmpty(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	mock.ExpectQuery(`COUNT\(DISTINCT d.family_id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"yr", "cnt"}))

	counts, ok, err := store.FamilyYearCounts(context.Background(), "quantum computing", 2015, 2024)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, counts)
}

// ── CPCJaccard ────────────────────────────────────────────────────────────

func TestPatentStore_CPCJaccard_OkFalseWhenTableAbsent(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	_, _, _, _, ok, err := store.CPCJaccard(context.Background(), "quantum computing", 2015, 2024, 20, 4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── CoApplicantPairs ──────────────────────────────────────────────────────

func TestPatentStore_CoApplicantPairs_EmptyWhenNoNormalizedTables(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	got, err := store.CoApplicantPairs(context.Background(), "quantum computing", 2015, 2024)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Suggest ────────────────────────────────────────────────────────────────

func TestPatentStore_Suggest_ReturnsMatchingTitles(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	mock.ExpectQuery(`FROM patents_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).
			AddRow("quantum error correction method").
			AddRow("quantum key distribution system"))

	got, err := store.Suggest(context.Background(), "quant", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"quantum error correction method", "quantum key distribution system"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatentStore_Suggest_EmptyPrefixReturnsEmptyWithoutQuerying(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	got, err := store.Suggest(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── Completeness ──────────────────────────────────────────────────────────

func TestPatentStore_Completeness_ReturnsLatestDate(t *testing.T) {
	t.Parallel()

	store, mock, db := newPatentStore(t, false, false)
	defer db.Close()

	mock.ExpectQuery(`MAX\(publication_date\)`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow("2024-03-15"))

	got, err := store.Completeness(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", got)
}
