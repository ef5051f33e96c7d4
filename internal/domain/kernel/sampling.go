package kernel

import (
	"fmt"
	"math"
	"sort"
)

// DefaultSampleSize is the standard target used by the CPC co-classification
// sampling fallback.
const DefaultSampleSize = 10_000

// CensusThreshold is the stratum size at or below which a stratum is taken
// in full rather than sampled.
const CensusThreshold = 5

// StratumInfo describes one year-stratum's population and sample counts.
type StratumInfo struct {
	PopulationCount int
	SampleCount     int
	IsCensus        bool
}

// SamplingResult is the outcome of a stratified draw: the selected items in
// stratum order (sorted by year, then original index), plus the metadata
// needed to report sampling fidelity to the caller.
type SamplingResult struct {
	SampledData      []CodedItem
	PopulationSize   int
	SampleSize       int
	SamplingFraction float64
	StrataInfo       map[int]StratumInfo
	WasSampled       bool
}

// StratifiedSample draws a deterministic, year-stratified proportional
// sample from patentData, following Cochran's proportional allocation with
// Hare/largest-remainder rounding correction and systematic midpoint
// selection within each non-census stratum. Panics if targetSize < 1 — an
// invalid target size is a caller bug, not a recoverable data condition.
func StratifiedSample(patentData []CodedItem, targetSize, censusThreshold int) SamplingResult {
	if targetSize < 1 {
		panic(fmt.Sprintf("kernel: StratifiedSample requires targetSize >= 1, got %d", targetSize))
	}

	populationSize := len(patentData)

	if populationSize <= targetSize {
		strata := groupByYear(patentData)
		info := make(map[int]StratumInfo, len(strata))
		for year, indices := range strata {
			info[year] = StratumInfo{
				PopulationCount: len(indices),
				SampleCount:     len(indices),
				IsCensus:        true,
			}
		}
		return SamplingResult{
			SampledData:      append([]CodedItem(nil), patentData...),
			PopulationSize:   populationSize,
			SampleSize:       populationSize,
			SamplingFraction: 1.0,
			StrataInfo:       info,
			WasSampled:       false,
		}
	}

	strata := groupByYear(patentData)
	strataSizes := make(map[int]int, len(strata))
	for year, indices := range strata {
		strataSizes[year] = len(indices)
	}

	allocation := allocateProportional(strataSizes, targetSize, censusThreshold)

	years := make([]int, 0, len(strata))
	for year := range strata {
		years = append(years, year)
	}
	sort.Ints(years)

	var selected []int
	strataInfo := make(map[int]StratumInfo, len(years))

	for _, year := range years {
		indices := strata[year]
		nH := allocation[year]
		isCensus := nH >= len(indices)

		strataInfo[year] = StratumInfo{
			PopulationCount: len(indices),
			SampleCount:     nH,
			IsCensus:        isCensus,
		}

		if isCensus {
			selected = append(selected, indices...)
		} else {
			selected = append(selected, systematicSelect(indices, nH)...)
		}
	}

	sampled := make([]CodedItem, len(selected))
	for i, idx := range selected {
		sampled[i] = patentData[idx]
	}

	return SamplingResult{
		SampledData:      sampled,
		PopulationSize:   populationSize,
		SampleSize:       len(sampled),
		SamplingFraction: float64(len(sampled)) / float64(populationSize),
		StrataInfo:       strataInfo,
		WasSampled:       true,
	}
}

func groupByYear(data []CodedItem) map[int][]int {
	groups := make(map[int][]int)
	for idx, item := range data {
		groups[item.Year] = append(groups[item.Year], idx)
	}
	return groups
}

// allocateProportional reserves census strata in full, then distributes the
// remaining target proportionally across non-census strata by floored
// quota, correcting rounding error via largest-remainder (Hare quota) so the
// total allocation equals targetSize exactly whenever possible.
func allocateProportional(strataSizes map[int]int, targetSize, censusThreshold int) map[int]int {
	censusYears := make(map[int]struct{})
	censusTotal := 0
	for year, size := range strataSizes {
		if size <= censusThreshold {
			censusYears[year] = struct{}{}
			censusTotal += size
		}
	}

	remainingTarget := targetSize - censusTotal
	nonCensusTotal := 0
	for year, size := range strataSizes {
		if _, ok := censusYears[year]; !ok {
			nonCensusTotal += size
		}
	}

	if remainingTarget <= 0 || nonCensusTotal == 0 {
		result := make(map[int]int, len(strataSizes))
		for year, size := range strataSizes {
			if _, ok := censusYears[year]; ok {
				result[year] = size
				continue
			}
			if remainingTarget > 0 && size > 0 {
				result[year] = 1
			} else {
				result[year] = 0
			}
		}
		return result
	}

	type remainder struct {
		year  int
		frac  float64
	}

	allocation := make(map[int]int, len(strataSizes))
	remainders := make([]remainder, 0, len(strataSizes))

	for year, size := range strataSizes {
		if _, ok := censusYears[year]; ok {
			allocation[year] = size
			continue
		}
		exact := float64(remainingTarget) * float64(size) / float64(nonCensusTotal)
		floored := math.Floor(exact)
		if int(floored) > size {
			floored = float64(size)
		}
		allocation[year] = int(floored)
		remainders = append(remainders, remainder{year: year, frac: exact - floored})
	}

	currentSum := 0
	for _, n := range allocation {
		currentSum += n
	}
	deficit := targetSize - currentSum

	sort.Slice(remainders, func(i, j int) bool { return remainders[i].frac > remainders[j].frac })

	for _, r := range remainders {
		if deficit <= 0 {
			break
		}
		if allocation[r.year] < strataSizes[r.year] {
			allocation[r.year]++
			deficit--
		}
	}

	return allocation
}

// systematicSelect draws n elements from a sorted index slice using fixed
// step size with a midpoint start offset: step = len(indices)/n, start =
// step/2, selected = floor(start + i*step). Seedless and fully
// deterministic across runs and platforms.
func systematicSelect(indices []int, n int) []int {
	total := len(indices)
	if n >= total {
		return append([]int(nil), indices...)
	}
	if n == 0 {
		return nil
	}

	step := float64(total) / float64(n)
	start := step / 2.0

	result := make([]int, n)
	for i := 0; i < n; i++ {
		result[i] = indices[int(start+float64(i)*step)]
	}
	return result
}
