package radar

import (
	"context"
	"fmt"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
)

// AnalyzeFunding is UC4: EU framework-programme funding flows for a
// technology, sourced entirely from CORDIS.
func AnalyzeFunding(ctx context.Context, dc *DataContext, technology string, startYear, endYear int) (panel.FundingPanel, []string, []string, []string) {
	var sources, methods, warnings []string

	p := panel.NewFundingPanel()

	if dc.ProjectRepo == nil {
		warnings = append(warnings, "CORDIS database unavailable — no funding data")
		return p, sources, methods, warnings
	}

	cagrCutoff := dc.effectiveProjectEndYear(endYear, &warnings)

	byYear, byProgrammeYear, err := dc.ProjectRepo.FundingTimeSeries(ctx, technology, startYear, endYear)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("funding time series query failed: %v", err))
	} else {
		sources = append(sources, "CORDIS (local)")
		for _, y := range byYear {
			p.TimeSeries = append(p.TimeSeries, panel.FundingTimeSeriesPoint{Year: y.Year, Funding: roundTo2(y.FundingEur), Projects: y.Projects})
			p.TotalFundingEur += y.FundingEur
		}
		for _, y := range byProgrammeYear {
			p.TimeSeriesByProgramme = append(p.TimeSeriesByProgramme, panel.ProgrammeTimeSeriesPoint{Year: y.Year, Programme: y.Programme, Funding: roundTo2(y.FundingEur), Projects: y.Projects})
		}
	}

	byProgramme, err := dc.ProjectRepo.FundingByProgramme(ctx, technology, startYear, endYear)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("funding by programme query failed: %v", err))
	} else {
		for _, row := range byProgramme {
			p.ByProgramme = append(p.ByProgramme, panel.ProgrammeFunding{Programme: row.Programme, Funding: roundTo2(row.FundingEur), Projects: row.Projects})
		}
	}

	instruments, err := dc.ProjectRepo.InstrumentBreakdown(ctx, technology, startYear, endYear)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("instrument breakdown query failed: %v", err))
	} else {
		for _, row := range instruments {
			p.InstrumentBreakdown = append(p.InstrumentBreakdown, panel.InstrumentYear{Instrument: row.Instrument, Year: row.Year, Count: row.Count, Funding: roundTo2(row.FundingEur)})
		}
	}

	totalProjects := 0
	for _, y := range p.TimeSeries {
		totalProjects += y.Projects
	}
	p.TotalFundingEur = roundTo2(p.TotalFundingEur)
	if totalProjects > 0 {
		p.AvgProjectSize = roundTo2(p.TotalFundingEur / float64(totalProjects))
	}

	nonZero := make([]panel.FundingTimeSeriesPoint, 0, len(p.TimeSeries))
	for _, y := range p.TimeSeries {
		if y.Funding > 0 && y.Year <= cagrCutoff {
			nonZero = append(nonZero, y)
		}
	}
	if len(nonZero) >= 2 {
		first, last := nonZero[0], nonZero[len(nonZero)-1]
		periods := last.Year - first.Year
		if periods > 0 {
			p.FundingCAGR = roundTo2(kernel.CAGR(first.Funding, last.Funding, periods))
			p.FundingCAGRPeriod = fmt.Sprintf("%d–%d", first.Year, last.Year)
		}
	}

	if len(sources) > 0 {
		methods = append(methods, "EU funding data aggregation (FP7, H2020, Horizon Europe)")
	}

	return p, sources, methods, warnings
}
