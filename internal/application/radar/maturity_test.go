package radar_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/KingdaKilla/ti-radar/internal/application/radar"
	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
)

func TestAnalyzeMaturity_FallsBackToRawCountsWhenNoFamilyData(t *testing.T) {
	t.Parallel()

	patentStore, mock, db := newTestPatentStore(t, false, false)
	defer db.Close()

	mock.ExpectQuery(`family_id`).
		WillReturnRows(sqlmock.NewRows([]string{"yr", "cnt"}))
	mock.ExpectQuery(`FROM patents_fts`).
		WillReturnRows(sqlmock.NewRows([]string{"yr", "cnt"}).
			AddRow("2015", 2).AddRow("2016", 4).AddRow("2017", 6))

	dc := &radar.DataContext{PatentRepo: patentStore}

	p, sources, methods, warnings := radar.AnalyzeMaturity(context.Background(), dc, "battery recycling", 2015, 2024)

	assert.Contains(t, sources, "EPO DOCDB (local)")
	assert.Contains(t, methods, "Annual aggregation")
	assert.Len(t, p.TimeSeries, 3)
	assert.Equal(t, 12, p.TimeSeries[2].Cumulative)
	assert.NotEmpty(t, p.FitModel)
	assert.NotEmpty(t, warnings)
}

func TestAnalyzeMaturity_NoPatentRepoDegradesWithWarning(t *testing.T) {
	t.Parallel()

	dc := &radar.DataContext{}

	p, _, _, warnings := radar.AnalyzeMaturity(context.Background(), dc, "battery recycling", 2015, 2024)

	assert.Equal(t, kernel.MaturityPhase{}, p.Phase)
	assert.Len(t, warnings, 1)
}
