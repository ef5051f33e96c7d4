package kernel_test

import (
	"testing"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsForYears(yearCounts map[int]int) []kernel.CodedItem {
	var out []kernel.CodedItem
	for year, count := range yearCounts {
		for i := 0; i < count; i++ {
			out = append(out, kernel.CodedItem{Year: year, Codes: codes("A", "B")})
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// TestStratifiedSample
// ─────────────────────────────────────────────────────────────────────────────

func TestStratifiedSample_PopulationBelowTargetReturnsAll(t *testing.T) {
	t.Parallel()

	data := itemsForYears(map[int]int{2020: 3, 2021: 4})
	result := kernel.StratifiedSample(data, 100, kernel.CensusThreshold)

	require := assert.New(t)
	require.False(result.WasSampled)
	require.Equal(7, result.SampleSize)
	require.Equal(1.0, result.SamplingFraction)
}

func TestStratifiedSample_LargePopulationSamplesProportionally(t *testing.T) {
	t.Parallel()

	data := itemsForYears(map[int]int{2019: 1000, 2020: 2000, 2021: 3000})
	result := kernel.StratifiedSample(data, 600, kernel.CensusThreshold)

	require := assert.New(t)
	require.True(result.WasSampled)
	require.Equal(600, result.SampleSize)
	require.Len(result.SampledData, 600)
}

func TestStratifiedSample_SmallStrataTakenAsCensus(t *testing.T) {
	t.Parallel()

	data := itemsForYears(map[int]int{2018: 2, 2019: 5000, 2020: 5000})
	result := kernel.StratifiedSample(data, 500, kernel.CensusThreshold)

	info := result.StrataInfo[2018]
	require := assert.New(t)
	require.True(info.IsCensus)
	require.Equal(2, info.SampleCount)
}

func TestStratifiedSample_PanicsOnInvalidTarget(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		kernel.StratifiedSample(itemsForYears(map[int]int{2020: 1}), 0, kernel.CensusThreshold)
	})
}

func TestStratifiedSample_TotalAllocationMatchesTarget(t *testing.T) {
	t.Parallel()

	data := itemsForYears(map[int]int{2015: 137, 2016: 563, 2017: 982, 2018: 41})
	result := kernel.StratifiedSample(data, 250, kernel.CensusThreshold)

	sum := 0
	for _, info := range result.StrataInfo {
		sum += info.SampleCount
	}
	require.Equal(t, 250, sum, "largest-remainder correction must hit the target exactly")
}
