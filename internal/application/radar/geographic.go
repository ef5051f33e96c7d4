package radar

import (
	"context"
	"fmt"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
)

const geographicCrossBorderMinCountries = 3

// AnalyzeGeographic is UC6: geographic distribution of activity and
// cross-border collaboration across patents and CORDIS projects.
func AnalyzeGeographic(ctx context.Context, dc *DataContext, technology string, startYear, endYear int) (panel.GeographicPanel, []string, []string, []string) {
	var sources, methods, warnings []string

	p := panel.NewGeographicPanel()

	var patentCountries, projectCountries []kernel.CountryCount

	if dc.PatentRepo != nil {
		patentEnd := dc.effectivePatentEndYear(endYear, &warnings)
		rows, err := dc.PatentRepo.CountryHistogram(ctx, technology, startYear, patentEnd, 0)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("patent country query failed: %v", err))
		} else if len(rows) > 0 {
			sources = append(sources, "EPO DOCDB (local)")
			patentCountries = rows
		}
	} else {
		warnings = append(warnings, "patent database unavailable — no patent country data")
	}

	if dc.ProjectRepo != nil {
		rows, err := dc.ProjectRepo.CountryHistogram(ctx, technology, startYear, endYear, 0)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("project country query failed: %v", err))
		} else if len(rows) > 0 {
			sources = append(sources, "CORDIS (local)")
			projectCountries = rows
		}

		cities, err := dc.ProjectRepo.CityHistogram(ctx, technology, startYear, endYear, 0)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("city query failed: %v", err))
		} else {
			for _, c := range cities {
				p.CityDistribution = append(p.CityDistribution, panel.CityActivity{City: c.City, Country: c.Country, Count: c.Count})
			}
		}

		pairs, err := dc.ProjectRepo.CollaborationPairs(ctx, technology, startYear, endYear, 0)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("collaboration pairs query failed: %v", err))
		} else {
			for _, pair := range pairs {
				p.CollaborationPairs = append(p.CollaborationPairs, panel.CollaborationPair{CountryA: pair.CountryA, CountryB: pair.CountryB, Count: pair.Count})
			}
		}

		share, err := dc.ProjectRepo.CrossBorderShare(ctx, technology, startYear, endYear, geographicCrossBorderMinCountries)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cross-border share query failed: %v", err))
		} else {
			p.CrossBorderShare = roundTo4(share)
		}
	} else {
		warnings = append(warnings, "CORDIS database unavailable — no project country data")
	}

	p.CountryDistribution = kernel.MergeCountryData(patentCountries, projectCountries, 0)
	p.TotalCountries = len(p.CountryDistribution)
	p.TotalCities = len(p.CityDistribution)

	if len(sources) > 0 {
		methods = append(methods, "Country aggregation (patent offices + CORDIS participants)")
		if len(p.CollaborationPairs) > 0 {
			methods = append(methods, "Country collaboration pairs (CORDIS co-participants)")
		}
	}

	return p, sources, methods, warnings
}
