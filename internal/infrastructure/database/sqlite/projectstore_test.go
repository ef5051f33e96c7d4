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

func newProjectStore(t *testing.T) (*sqlite.ProjectStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return sqlite.NewProjectStore(db, logging.NewNopLogger()), mock, db
}

// ── CrossBorderShare ──────────────────────────────────────────────────────

func TestProjectStore_CrossBorderShare_ComputesRatio(t *testing.T) {
	t.Parallel()

	store, mock, db := newProjectStore(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT p.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(40))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(`).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(10))

	share, err := store.CrossBorderShare(context.Background(), "quantum computing", 2015, 2024, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, share, 1e-9)
}

func TestProjectStore_CrossBorderShare_ZeroTotalReturnsZero(t *testing.T) {
	t.Parallel()

	store, mock, db := newProjectStore(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT p.id\)`).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(0))

	share, err := store.CrossBorderShare(context.Background(), "quantum computing", 2015, 2024, 0)
	require.NoError(t, err)
	assert.Zero(t, share)
}

// ── FundingByProgramme ────────────────────────────────────────────────────

func TestProjectStore_FundingByProgramme_ReturnsRankedRows(t *testing.T) {
	t.Parallel()

	store, mock, db := newProjectStore(t)
	defer db.Close()

	mock.ExpectQuery(`FROM projects_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"programme", "total", "cnt"}).
			AddRow("Horizon 2020", 5_000_000.0, 12).
			AddRow("Horizon Europe", 3_000_000.0, 8))

	got, err := store.FundingByProgramme(context.Background(), "quantum computing", 2015, 2024)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Horizon 2020", got[0].Programme)
	assert.Equal(t, 12, got[0].Projects)
}

// ── CollaborationPairs ────────────────────────────────────────────────────

func TestProjectStore_CollaborationPairs_ReturnsPairs(t *testing.T) {
	t.Parallel()

	store, mock, db := newProjectStore(t)
	defer db.Close()

	mock.ExpectQuery(`FROM projects_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "cnt"}).AddRow("DE", "FR", 6))

	got, err := store.CollaborationPairs(context.Background(), "quantum computing", 2015, 2024, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DE", got[0].CountryA)
	assert.Equal(t, "FR", got[0].CountryB)
	assert.Equal(t, 6, got[0].Count)
}

// ── Completeness ──────────────────────────────────────────────────────────

func TestProjectStore_Completeness_ReturnsLatestStartDate(t *testing.T) {
	t.Parallel()

	store, mock, db := newProjectStore(t)
	defer db.Close()

	mock.ExpectQuery(`MAX\(start_date\)`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow("2023-11-01"))

	got, err := store.Completeness(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2023-11-01", got)
}
