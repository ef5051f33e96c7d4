package kernel_test

import (
	"testing"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/stretchr/testify/assert"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestCAGR
// ─────────────────────────────────────────────────────────────────────────────

func TestCAGR_PositiveGrowth(t *testing.T) {
	t.Parallel()

	v := kernel.CAGR(100, 200, 5)
	assert.InDelta(t, 14.87, v, 0.01)
}

func TestCAGR_ZeroPeriods(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, kernel.CAGR(100, 200, 0))
}

func TestCAGR_ZeroEndpoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, kernel.CAGR(0, 200, 5))
	assert.Equal(t, 0.0, kernel.CAGR(100, 0, 5))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestHHI and ConcentrationLevel
// ─────────────────────────────────────────────────────────────────────────────

func TestHHI_Monopoly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10000.0, kernel.HHI([]float64{1.0}))
}

func TestHHI_EvenlySplit(t *testing.T) {
	t.Parallel()

	v := kernel.HHI([]float64{0.25, 0.25, 0.25, 0.25})
	assert.InDelta(t, 2500.0, v, 0.001)
}

func TestHHI_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, kernel.HHI(nil))
}

func TestConcentrationLevel_Buckets(t *testing.T) {
	t.Parallel()

	en, de := kernel.ConcentrationLevel(1000)
	assert.Equal(t, "Low", en)
	assert.Equal(t, "Gering", de)

	en, de = kernel.ConcentrationLevel(2000)
	assert.Equal(t, "Moderate", en)
	assert.Equal(t, "Moderat", de)

	en, de = kernel.ConcentrationLevel(5000)
	assert.Equal(t, "High", en)
	assert.Equal(t, "Hoch", de)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestSCurveConfidence
// ─────────────────────────────────────────────────────────────────────────────

func TestSCurveConfidence_Bounds(t *testing.T) {
	t.Parallel()

	v := kernel.SCurveConfidence(0.0, 0, 0)
	assert.GreaterOrEqual(t, v, 0.1)

	v = kernel.SCurveConfidence(1.0, 15, 200)
	assert.LessOrEqual(t, v, 0.95)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestClassifyMaturityFromPercent
// ─────────────────────────────────────────────────────────────────────────────

func TestClassifyMaturityFromPercent_Buckets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, kernel.PhaseEmerging, kernel.ClassifyMaturityFromPercent(5.0))
	assert.Equal(t, kernel.PhaseGrowing, kernel.ClassifyMaturityFromPercent(30.0))
	assert.Equal(t, kernel.PhaseMature, kernel.ClassifyMaturityFromPercent(70.0))
	assert.Equal(t, kernel.PhaseSaturation, kernel.ClassifyMaturityFromPercent(95.0))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestClassifyMaturityHeuristic
// ─────────────────────────────────────────────────────────────────────────────

func TestClassifyMaturityHeuristic_TooShort(t *testing.T) {
	t.Parallel()

	r := kernel.ClassifyMaturityHeuristic([]int{1, 2})
	assert.Equal(t, kernel.HeuristicResult{}, r)
}

func TestClassifyMaturityHeuristic_AllZero(t *testing.T) {
	t.Parallel()

	r := kernel.ClassifyMaturityHeuristic([]int{0, 0, 0, 0})
	assert.Equal(t, kernel.HeuristicResult{}, r)
}

func TestClassifyMaturityHeuristic_Emerging(t *testing.T) {
	t.Parallel()

	r := kernel.ClassifyMaturityHeuristic([]int{1, 2, 5, 10, 20})
	assert.Equal(t, kernel.PhaseEmerging, r.Phase)
	assert.Equal(t, "heuristic-emerging", r.FitModel)
}

func TestClassifyMaturityHeuristic_DecliningFoldsIntoSaturation(t *testing.T) {
	t.Parallel()

	r := kernel.ClassifyMaturityHeuristic([]int{100, 90, 80, 40, 20})
	assert.Equal(t, kernel.PhaseSaturation, r.Phase)
	assert.Equal(t, "heuristic-declining", r.FitModel)
}

func TestClassifyMaturityHeuristic_Plateau(t *testing.T) {
	t.Parallel()

	r := kernel.ClassifyMaturityHeuristic([]int{50, 51, 49, 50, 52})
	assert.Equal(t, kernel.PhaseMature, r.Phase)
	assert.Equal(t, "heuristic-plateau", r.FitModel)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestYoYGrowth
// ─────────────────────────────────────────────────────────────────────────────

func TestYoYGrowth_ZeroBase(t *testing.T) {
	t.Parallel()

	assert.Nil(t, kernel.YoYGrowth(10, 0))
}

func TestYoYGrowth_PositiveGrowth(t *testing.T) {
	t.Parallel()

	v := kernel.YoYGrowth(110, 100)
	require := assert.New(t)
	require.NotNil(v)
	require.InDelta(10.0, *v, 0.01)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestMergeCountryData
// ─────────────────────────────────────────────────────────────────────────────

func TestMergeCountryData_CombinesAndSorts(t *testing.T) {
	t.Parallel()

	patents := []kernel.CountryCount{{Country: "DE", Count: 10}, {Country: "US", Count: 5}}
	projects := []kernel.CountryCount{{Country: "US", Count: 20}, {Country: "FR", Count: 1}}

	merged := kernel.MergeCountryData(patents, projects, 0)
	require := assert.New(t)
	require.Len(merged, 3)
	require.Equal("US", merged[0].Country, "US has the highest combined total")
	require.Equal(25, merged[0].Total)
}

func TestMergeCountryData_LimitTruncates(t *testing.T) {
	t.Parallel()

	patents := []kernel.CountryCount{{Country: "DE", Count: 10}, {Country: "US", Count: 5}, {Country: "FR", Count: 1}}
	merged := kernel.MergeCountryData(patents, nil, 2)
	assert.Len(t, merged, 2)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestMergeTimeSeries
// ─────────────────────────────────────────────────────────────────────────────

func TestMergeTimeSeries_FillsMissingYearsAndGrowth(t *testing.T) {
	t.Parallel()

	patents := []kernel.YearCount{{Year: 2020, Count: 10}, {Year: 2022, Count: 20}}
	series := kernel.MergeTimeSeries(patents, nil, nil, 2020, 2022)

	require := assert.New(t)
	require.Len(series, 3)
	require.Equal(2021, series[1].Year)
	require.Equal(0, series[1].Patents)
	require.Nil(series[0].PatentsGrowth, "first point has no prior year")
	require.NotNil(series[2].PatentsGrowth)
}
