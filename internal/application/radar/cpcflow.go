package radar

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
)

const (
	cpcFlowTopN              = 20
	cpcFlowMinCodesForMatrix = 2
	// cpcFlowPopulationLimit bounds how many denormalized patent rows are
	// fetched before stratified sampling is applied; large enough that the
	// sampling fraction reflects the true population rather than an
	// artificial query cap.
	cpcFlowPopulationLimit = 100_000
)

// AnalyzeCpcFlow is UC5: the CPC co-classification Jaccard matrix behind
// the cross-sectional technology flow chart. Prefers the normalized
// patent_cpc table when present; otherwise falls back to denormalizing raw
// CPC strings in process and drawing a year-stratified sample to keep the
// computation bounded.
func AnalyzeCpcFlow(ctx context.Context, dc *DataContext, technology string, startYear, endYear, cpcLevel int) (panel.CpcFlowPanel, []string, []string, []string) {
	var sources, methods, warnings []string

	p := panel.NewCpcFlowPanel()
	if cpcLevel <= 0 {
		cpcLevel = panel.DefaultCpcLevel
	}
	p.CpcLevel = cpcLevel

	if dc.PatentRepo == nil {
		warnings = append(warnings, "patent database unavailable — no CPC flow data")
		return p, sources, methods, warnings
	}

	patentEnd := dc.effectivePatentEndYear(endYear, &warnings)

	matrix, perCodeCounts, perYearCounts, perYearPairs, sqlNative, err := dc.PatentRepo.CPCJaccard(ctx, technology, startYear, patentEnd, cpcFlowTopN, cpcLevel)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("CPC Jaccard query failed: %v", err))
		return p, sources, methods, warnings
	}

	if sqlNative {
		if len(matrix.Labels) < cpcFlowMinCodesForMatrix {
			warnings = append(warnings, "too few CPC codes for flow analysis")
			return p, sources, methods, warnings
		}

		sources = append(sources, "EPO DOCDB (local)")
		p.Matrix = matrix.Matrix
		p.Labels = matrix.Labels
		p.Colors = colorsFor(matrix.Labels)
		p.TotalPatentsAnalyzed = matrix.TotalItems
		p.TotalConnections = countConnections(matrix.Matrix)
		p.YearData = buildYearData(perYearCounts, perYearPairs, perCodeCounts)
		p.CpcDescriptions = describeAll(matrix.Labels, p.YearData.AllLabels)

		methods = append(methods,
			"CPC co-classification (Jaccard index, SQL-native)",
			fmt.Sprintf("CPC level %d (top %d codes, %d patents)", cpcLevel, len(matrix.Labels), matrix.TotalItems))
		return p, sources, methods, warnings
	}

	rows, err := dc.PatentRepo.DenormalizedCPCWithYears(ctx, technology, startYear, patentEnd, cpcFlowPopulationLimit)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("denormalized CPC query failed: %v", err))
		return p, sources, methods, warnings
	}
	if len(rows) == 0 {
		warnings = append(warnings, "no CPC codes available for flow analysis")
		return p, sources, methods, warnings
	}

	items := make([]kernel.CodedItem, 0, len(rows))
	for _, row := range rows {
		codes := normalizeCPCSet(row.RawCodes, cpcLevel)
		if len(codes) < cpcFlowMinCodesForMatrix {
			continue
		}
		items = append(items, kernel.CodedItem{Codes: codes, Year: row.Year})
	}
	if len(items) < cpcFlowMinCodesForMatrix {
		warnings = append(warnings, "too few patents for CPC flow analysis")
		return p, sources, methods, warnings
	}

	sources = append(sources, "EPO DOCDB (local)")

	sampling := kernel.StratifiedSample(items, kernel.DefaultSampleSize, kernel.CensusThreshold)
	built := kernel.BuildCooccurrence(sampling.SampledData, cpcFlowTopN)

	p.Matrix = built.Matrix
	p.Labels = built.Labels
	p.Colors = colorsFor(built.Labels)
	p.TotalPatentsAnalyzed = built.TotalItems
	p.TotalConnections = countConnections(built.Matrix)

	allLabelsFreq := make(map[string]int)
	for _, it := range items {
		for c := range it.Codes {
			allLabelsFreq[c]++
		}
	}
	p.YearData = buildYearDataFromItems(items)
	p.CpcDescriptions = describeAll(built.Labels, p.YearData.AllLabels)

	if sampling.WasSampled {
		p.WasSampled = true
		p.SampleFraction = roundTo4(sampling.SamplingFraction)
		p.ConfidenceLow, p.ConfidenceHigh = confidenceBounds(built, sampling.SampleSize, sampling.PopulationSize)
		warnings = append(warnings, "sample-based estimate — patent_cpc table migration recommended for exact counts")
	}

	methods = append(methods,
		"CPC co-classification (Jaccard index)",
		fmt.Sprintf("CPC level %d (top %d codes)", cpcLevel, len(built.Labels)))

	return p, sources, methods, warnings
}

// normalizeCPCSet splits a comma-separated raw CPC string into a set of
// codes truncated to level characters (or left as-is if shorter).
func normalizeCPCSet(raw string, level int) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		code := strings.TrimSpace(part)
		if code == "" {
			continue
		}
		if len(code) > level {
			code = code[:level]
		}
		set[code] = struct{}{}
	}
	return set
}

func colorsFor(labels []string) []string {
	colors := make([]string, len(labels))
	for i, l := range labels {
		colors[i] = panel.CpcColor(l)
	}
	return colors
}

func countConnections(matrix [][]float64) int {
	count := 0
	for i := range matrix {
		for j := i + 1; j < len(matrix[i]); j++ {
			if matrix[i][j] > 0 {
				count++
			}
		}
	}
	return count
}

func describeAll(labels, allLabels []string) map[string]string {
	seen := make(map[string]struct{}, len(labels)+len(allLabels))
	out := make(map[string]string)
	add := func(code string) {
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		if desc := panel.DescribeCPC(code); desc != "" {
			out[code] = desc
		}
	}
	for _, l := range labels {
		add(l)
	}
	for _, l := range allLabels {
		add(l)
	}
	return out
}

func buildYearData(perYearCounts, perYearPairs map[string]map[string]int, perCodeCounts map[string]int) panel.CpcFlowYearData {
	yd := panel.NewCpcFlowYearData()
	yd.PairCounts = perYearPairs
	yd.CpcCounts = perYearCounts

	years := make([]int, 0, len(perYearCounts))
	for yr := range perYearCounts {
		if y, err := strconv.Atoi(yr); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	if len(years) > 0 {
		yd.MinYear = years[0]
		yd.MaxYear = years[len(years)-1]
	}

	labels := make([]string, 0, len(perCodeCounts))
	for code := range perCodeCounts {
		labels = append(labels, code)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if perCodeCounts[labels[i]] != perCodeCounts[labels[j]] {
			return perCodeCounts[labels[i]] > perCodeCounts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	yd.AllLabels = labels

	return yd
}

// buildYearDataFromItems derives the year-indexed pair/code counts over the
// full fetched item population (not the stratified sample), matching
// year-level detail against every observed patent rather than the matrix
// subset.
func buildYearDataFromItems(items []kernel.CodedItem) panel.CpcFlowYearData {
	yd := panel.NewCpcFlowYearData()

	docFreq := make(map[string]int)
	years := make([]int, 0, len(items))

	for _, it := range items {
		yr := strconv.Itoa(it.Year)
		years = append(years, it.Year)
		if _, ok := yd.CpcCounts[yr]; !ok {
			yd.CpcCounts[yr] = make(map[string]int)
		}
		if _, ok := yd.PairCounts[yr]; !ok {
			yd.PairCounts[yr] = make(map[string]int)
		}

		codes := make([]string, 0, len(it.Codes))
		for c := range it.Codes {
			codes = append(codes, c)
			docFreq[c]++
		}
		for _, c := range codes {
			yd.CpcCounts[yr][c]++
		}
		sort.Strings(codes)
		for i := 0; i < len(codes); i++ {
			for j := i + 1; j < len(codes); j++ {
				yd.PairCounts[yr][codes[i]+"|"+codes[j]]++
			}
		}
	}

	if len(years) > 0 {
		sort.Ints(years)
		yd.MinYear = years[0]
		yd.MaxYear = years[len(years)-1]
	}

	labels := make([]string, 0, len(docFreq))
	for c := range docFreq {
		labels = append(labels, c)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if docFreq[labels[i]] != docFreq[labels[j]] {
			return docFreq[labels[i]] > docFreq[labels[j]]
		}
		return labels[i] < labels[j]
	})
	yd.AllLabels = labels

	return yd
}

// confidenceBounds derives a lower/upper Jaccard bound per matrix cell by
// algebraically recovering each cell's intersection/union size from its
// Jaccard value and the labels' sampled document frequencies, then applying
// the finite-population-corrected estimator over the full population.
func confidenceBounds(matrix kernel.CooccurrenceMatrix, sampleSize, populationSize int) ([][]float64, [][]float64) {
	n := len(matrix.Labels)
	low := make([][]float64, n)
	high := make([][]float64, n)
	for i := range low {
		low[i] = make([]float64, n)
		high[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := matrix.Labels[i], matrix.Labels[j]
			j01 := matrix.Matrix[i][j]
			fa, fb := matrix.PerCodeCounts[a], matrix.PerCodeCounts[b]

			var inter, union int
			if j01 > 0 {
				unionF := float64(fa+fb) / (1.0 + j01)
				union = int(unionF + 0.5)
				inter = int(j01*unionF + 0.5)
			} else {
				union = fa + fb
			}

			conf := kernel.EstimateJaccardConfidence(inter, union, sampleSize, populationSize)
			low[i][j], low[j][i] = conf.CILower, conf.CILower
			high[i][j], high[j][i] = conf.CIUpper, conf.CIUpper
		}
	}

	return low, high
}
