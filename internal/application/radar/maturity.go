package radar

import (
	"context"
	"fmt"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
)

// minPatentsForFit is the minimum cumulative patent count required before
// the bounded least-squares S-curve fit is attempted; below this the
// heuristic growth-pattern classifier takes over.
const minPatentsForFit = 30

// AnalyzeMaturity is UC2: classifies a technology's position on its
// adoption curve, preferring patent-family-deduplicated counts over raw
// patent counts, and a converged S-curve fit over the heuristic fallback.
func AnalyzeMaturity(ctx context.Context, dc *DataContext, technology string, startYear, endYear int) (panel.MaturityPanel, []string, []string, []string) {
	var sources, methods, warnings []string

	p := panel.NewMaturityPanel()

	if dc.PatentRepo == nil {
		warnings = append(warnings, "patent database unavailable — no maturity data")
		return p, sources, methods, warnings
	}

	effectiveEnd := dc.effectivePatentEndYear(endYear, &warnings)

	yearly, dedup, err := dc.PatentRepo.FamilyYearCounts(ctx, technology, startYear, effectiveEnd)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("family year query failed: %v", err))
		return p, sources, methods, warnings
	}
	if !dedup || len(yearly) == 0 {
		yearly, err = dc.PatentRepo.YearHistogram(ctx, technology, startYear, effectiveEnd)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("patent year query failed: %v", err))
			return p, sources, methods, warnings
		}
	}
	if len(yearly) == 0 {
		return p, sources, methods, warnings
	}

	sources = append(sources, "EPO DOCDB (local)")
	methods = append(methods, "FTS5 full-text search", "Annual aggregation")

	years := make([]int, len(yearly))
	counts := make([]int, len(yearly))
	cumulative := make([]float64, len(yearly))
	running := 0
	for i, yc := range yearly {
		years[i] = yc.Year
		counts[i] = yc.Count
		running += yc.Count
		cumulative[i] = float64(running)
	}

	timeSeries := make([]panel.MaturityTimeSeriesPoint, len(yearly))
	for i, yc := range yearly {
		timeSeries[i] = panel.MaturityTimeSeriesPoint{Year: yc.Year, Patents: yc.Count, Cumulative: int(cumulative[i])}
	}
	p.TimeSeries = timeSeries

	firstIdx, lastIdx := -1, -1
	for i, c := range counts {
		if c > 0 {
			if firstIdx == -1 {
				firstIdx = i
			}
			lastIdx = i
		}
	}
	if firstIdx != -1 && lastIdx != -1 && years[lastIdx] <= effectiveEnd {
		periods := years[lastIdx] - years[firstIdx]
		p.CAGR = kernel.CAGR(float64(counts[firstIdx]), float64(counts[lastIdx]), periods)
	}
	methods = append(methods, "CAGR (compound annual growth rate)")

	totalPatents := running
	if cumulative[len(cumulative)-1] >= minPatentsForFit {
		fit := kernel.FitBestModel(years, cumulative)
		if fit != nil {
			p.Phase = kernel.ClassifyMaturityFromPercent(fit.MaturityPercent)
			p.MaturityPercent = fit.MaturityPercent
			p.SaturationLevel = fit.L
			p.InflectionYear = fit.X0
			p.RSquared = fit.RSquared
			p.FitModel = fit.Model
			p.SCurveFitted = fit.FittedValues
			p.Confidence = kernel.SCurveConfidence(fit.RSquared, len(years), totalPatents)
			methods = append(methods, fmt.Sprintf("%s S-curve fit", fit.Model))
		}
	}

	if p.FitModel == "" {
		warnings = append(warnings, "insufficient data for S-curve fit — falling back to growth-pattern heuristic")
		heuristic := kernel.ClassifyMaturityHeuristic(counts)
		if heuristic.FitModel != "" {
			p.Phase = heuristic.Phase
			p.Confidence = heuristic.Confidence
			p.FitModel = heuristic.FitModel
			methods = append(methods, "growth-pattern heuristic")
		}
	}

	return p, sources, methods, warnings
}
