package radar

import (
	"context"
	"fmt"
	"sync"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
)

// AnalyzeLandscape is UC1: an overview of patent, project, and publication
// activity for a technology, merged into one ascending-year time series and
// a combined top-20 country table.
func AnalyzeLandscape(ctx context.Context, dc *DataContext, technology string, startYear, endYear int) (panel.LandscapePanel, []string, []string, []string) {
	var sources, methods, warnings []string

	var (
		patentYears     []kernel.YearCount
		patentCountries []kernel.CountryCount
		projectYears    []kernel.YearCount
		projectCountries []kernel.CountryCount
		publicationYears []kernel.YearCount
	)

	var wg sync.WaitGroup
	var mu sync.Mutex

	if dc.PatentRepo != nil {
		patentEnd := dc.effectivePatentEndYear(endYear, &warnings)
		wg.Add(2)
		go func() {
			defer wg.Done()
			rows, err := dc.PatentRepo.YearHistogram(ctx, technology, startYear, patentEnd)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("patent year query failed: %v", err))
				return
			}
			patentYears = rows
		}()
		go func() {
			defer wg.Done()
			rows, err := dc.PatentRepo.CountryHistogram(ctx, technology, startYear, patentEnd, 0)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("patent country query failed: %v", err))
				return
			}
			patentCountries = rows
		}()
	} else {
		warnings = append(warnings, "patent database unavailable — no patent data")
	}

	if dc.ProjectRepo != nil {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rows, err := dc.ProjectRepo.YearHistogram(ctx, technology, startYear, endYear)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("project year query failed: %v", err))
				return
			}
			projectYears = rows
		}()
		go func() {
			defer wg.Done()
			rows, err := dc.ProjectRepo.CountryHistogram(ctx, technology, startYear, endYear, 0)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("project country query failed: %v", err))
				return
			}
			projectCountries = rows
		}()
	} else {
		warnings = append(warnings, "CORDIS database unavailable — no project data")
	}

	if dc.Publications != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, alert := dc.Publications.YearCounts(ctx, technology, startYear, endYear)
			mu.Lock()
			defer mu.Unlock()
			if alert != nil {
				warnings = append(warnings, alert.Message)
			}
			for _, r := range results {
				if r.Warning != "" {
					warnings = append(warnings, fmt.Sprintf("publication query for %d failed: %s", r.Year, r.Warning))
					continue
				}
				publicationYears = append(publicationYears, kernel.YearCount{Year: r.Year, Count: r.Count})
			}
		}()
	}

	wg.Wait()

	totalPatents, totalProjects, totalPublications := 0, 0, 0
	if len(patentYears) > 0 || len(patentCountries) > 0 {
		sources = append(sources, "EPO DOCDB (local)")
		for _, y := range patentYears {
			totalPatents += y.Count
		}
	}
	if len(projectYears) > 0 || len(projectCountries) > 0 {
		sources = append(sources, "CORDIS (local)")
		for _, y := range projectYears {
			totalProjects += y.Count
		}
	}
	if len(publicationYears) > 0 {
		sources = append(sources, "OpenAIRE (API)")
		for _, y := range publicationYears {
			totalPublications += y.Count
		}
	}

	methods = append(methods, "FTS5 full-text search", "Annual aggregation")
	if len(publicationYears) > 0 {
		methods = append(methods, "Normalized growth rates (YoY %)")
	}

	timeSeries := kernel.MergeTimeSeries(patentYears, projectYears, publicationYears, startYear, endYear)
	topCountries := kernel.MergeCountryData(patentCountries, projectCountries, 20)

	p := panel.NewLandscapePanel()
	p.TotalPatents = totalPatents
	p.TotalProjects = totalProjects
	p.TotalPublications = totalPublications
	p.TimeSeries = timeSeries
	p.TopCountries = topCountries

	return p, sources, methods, warnings
}
