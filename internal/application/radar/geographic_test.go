package radar_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/KingdaKilla/ti-radar/internal/application/radar"
)

func TestAnalyzeGeographic_MergesCountriesAndCollaboration(t *testing.T) {
	t.Parallel()

	patentStore, patentMock, patentDB := newTestPatentStore(t, false, false)
	defer patentDB.Close()
	projectStore, projectMock, projectDB := newTestProjectStore(t)
	defer projectDB.Close()

	patentMock.ExpectQuery(`FROM patents_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"country", "cnt"}).AddRow("DE", 30).AddRow("FR", 10))

	projectMock.ExpectQuery(`FROM projects_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"country", "cnt"}).AddRow("FR", 5).AddRow("IT", 4))
	projectMock.ExpectQuery(`FROM projects_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"city", "country", "cnt"}).AddRow("Munich", "DE", 6))
	projectMock.ExpectQuery(`FROM projects_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"country", "country", "cnt"}).AddRow("DE", "FR", 2))
	projectMock.ExpectQuery(`FROM projects_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	projectMock.ExpectQuery(`FROM projects_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	dc := &radar.DataContext{PatentRepo: patentStore, ProjectRepo: projectStore}

	p, sources, methods, warnings := radar.AnalyzeGeographic(context.Background(), dc, "offshore wind", 2015, 2024)

	assert.Contains(t, sources, "EPO DOCDB (local)")
	assert.Contains(t, sources, "CORDIS (local)")
	assert.Contains(t, methods, "Country aggregation (patent offices + CORDIS participants)")
	assert.Contains(t, methods, "Country collaboration pairs (CORDIS co-participants)")
	assert.Empty(t, warnings)
	assert.Equal(t, 3, p.TotalCountries)
	assert.Equal(t, 1, p.TotalCities)
	assert.Len(t, p.CollaborationPairs, 1)
	assert.InDelta(t, 0.3, p.CrossBorderShare, 0.0001)
}

func TestAnalyzeGeographic_NoRepositoriesReturnsEmptyPanel(t *testing.T) {
	t.Parallel()

	dc := &radar.DataContext{}

	p, sources, methods, warnings := radar.AnalyzeGeographic(context.Background(), dc, "offshore wind", 2015, 2024)

	assert.Empty(t, sources)
	assert.Empty(t, methods)
	assert.Len(t, warnings, 2)
	assert.Equal(t, 0, p.TotalCountries)
}
