package radar

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/database/sqlite"
)

const (
	temporalActorsPerYearLimit = 50
	temporalActorTimelineTopN  = 10
)

// AnalyzeTemporal is UC8: actor-dynamics and funding-programme evolution
// over time, combining per-year patent applicants, CORDIS organizations,
// CPC codes, and funding instruments.
func AnalyzeTemporal(ctx context.Context, dc *DataContext, technology string, startYear, endYear int) (panel.TemporalPanel, []string, []string, []string) {
	var sources, methods, warnings []string

	p := panel.NewTemporalPanel()

	actorsByYear := make(map[int]map[string]int)
	addActor := func(year int, name string, count int) {
		if actorsByYear[year] == nil {
			actorsByYear[year] = make(map[string]int)
		}
		actorsByYear[year][name] += count
	}

	if dc.PatentRepo != nil {
		patentEnd := dc.effectivePatentEndYear(endYear, &warnings)
		rows, err := dc.PatentRepo.TopApplicantsByYear(ctx, technology, startYear, patentEnd, temporalActorsPerYearLimit)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("applicants-by-year query failed: %v", err))
		} else if len(rows) > 0 {
			sources = append(sources, "EPO DOCDB (local)")
			for _, r := range rows {
				addActor(r.Year, strings.ToUpper(strings.TrimSpace(r.Name)), r.Count)
			}
		}

		cpcRows, err := dc.PatentRepo.DenormalizedCPCWithYears(ctx, technology, startYear, patentEnd, cpcFlowPopulationLimit)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("CPC-by-year query failed: %v", err))
		} else {
			p.TechnologyBreadth = technologyBreadth(cpcRows)
		}
	} else {
		warnings = append(warnings, "patent database unavailable — no applicant timeline data")
	}

	if dc.ProjectRepo != nil {
		rows, err := dc.ProjectRepo.TopOrganizationsByYear(ctx, technology, startYear, endYear, temporalActorsPerYearLimit)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("organizations-by-year query failed: %v", err))
		} else if len(rows) > 0 {
			sources = append(sources, "CORDIS (local)")
			for _, r := range rows {
				addActor(r.Year, strings.ToUpper(strings.TrimSpace(r.Name)), r.Count)
			}
		}

		instruments, err := dc.ProjectRepo.InstrumentBreakdown(ctx, technology, startYear, endYear)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("instrument breakdown query failed: %v", err))
		} else {
			p.InstrumentEvolution, p.ProgrammeEvolution, p.DominantProgramme = instrumentEvolution(instruments)
		}
	} else {
		warnings = append(warnings, "CORDIS database unavailable — no organization timeline data")
	}

	p.EntrantPersistenceTrend = actorDynamics(actorsByYear)
	if len(p.EntrantPersistenceTrend) > 0 {
		last := p.EntrantPersistenceTrend[len(p.EntrantPersistenceTrend)-1]
		p.NewEntrantRate = last.NewEntrantRate
		p.PersistenceRate = last.PersistenceRate
	}
	p.ActorTimeline = actorTimeline(actorsByYear, temporalActorTimelineTopN)

	if len(sources) > 0 {
		methods = append(methods, "Actor dynamics (new entrant rate, persistence rate)")
		if len(p.TechnologyBreadth) > 0 {
			methods = append(methods, "Technology breadth (unique CPC sections/subclasses per year)")
		}
	}

	return p, sources, methods, warnings
}

func actorDynamics(actorsByYear map[int]map[string]int) []panel.EntrantPersistencePoint {
	years := make([]int, 0, len(actorsByYear))
	for y := range actorsByYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]panel.EntrantPersistencePoint, 0, len(years))
	var prevActors map[string]int
	for _, y := range years {
		current := actorsByYear[y]

		newEntrantRate := 1.0
		persistenceRate := 0.0
		if prevActors != nil {
			newEntrants := 0
			for name := range current {
				if _, ok := prevActors[name]; !ok {
					newEntrants++
				}
			}
			if len(current) > 0 {
				newEntrantRate = roundTo4(float64(newEntrants) / float64(len(current)))
			}

			persisting := 0
			for name := range prevActors {
				if _, ok := current[name]; ok {
					persisting++
				}
			}
			if len(prevActors) > 0 {
				persistenceRate = roundTo4(float64(persisting) / float64(len(prevActors)))
			}
		}

		out = append(out, panel.EntrantPersistencePoint{
			Year:            y,
			NewEntrantRate:  newEntrantRate,
			PersistenceRate: persistenceRate,
			TotalActors:     len(current),
		})
		prevActors = current
	}
	return out
}

func actorTimeline(actorsByYear map[int]map[string]int, topN int) []panel.ActorTimelineEntry {
	totals := make(map[string]int)
	yearsActive := make(map[string]map[int]struct{})

	for year, actors := range actorsByYear {
		for name, count := range actors {
			totals[name] += count
			if yearsActive[name] == nil {
				yearsActive[name] = make(map[int]struct{})
			}
			yearsActive[name][year] = struct{}{}
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	if topN > len(names) {
		topN = len(names)
	}

	out := make([]panel.ActorTimelineEntry, topN)
	for i := 0; i < topN; i++ {
		name := names[i]
		years := make([]int, 0, len(yearsActive[name]))
		for y := range yearsActive[name] {
			years = append(years, y)
		}
		sort.Ints(years)
		out[i] = panel.ActorTimelineEntry{Name: name, YearsActive: years, TotalCount: totals[name]}
	}
	return out
}

func instrumentEvolution(rows []sqlite.InstrumentYearRow) ([]panel.InstrumentEvolutionPoint, []panel.ProgrammeEvolutionPoint, string) {
	evolution := make([]panel.InstrumentEvolutionPoint, len(rows))
	byYear := make(map[int]map[string]int)
	programmeCounts := make(map[string]int)

	for i, r := range rows {
		evolution[i] = panel.InstrumentEvolutionPoint{Year: r.Year, Instrument: r.Instrument, Count: r.Count, Funding: roundTo2(r.FundingEur)}
		if byYear[r.Year] == nil {
			byYear[r.Year] = make(map[string]int)
		}
		byYear[r.Year][r.Instrument] += r.Count
		programmeCounts[r.Instrument] += r.Count
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	evolutionPoints := make([]panel.ProgrammeEvolutionPoint, len(years))
	for i, y := range years {
		counts := make(map[string]int, len(byYear[y]))
		for k, v := range byYear[y] {
			counts[k] = v
		}
		evolutionPoints[i] = panel.ProgrammeEvolutionPoint{Year: y, Counts: counts}
	}

	dominant := ""
	best := -1
	names := make([]string, 0, len(programmeCounts))
	for n := range programmeCounts {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if programmeCounts[n] > best {
			best = programmeCounts[n]
			dominant = n
		}
	}

	return evolution, evolutionPoints, dominant
}

func technologyBreadth(rows []sqlite.DenormalizedCPCCodes) []panel.TechnologyBreadthPoint {
	sections := make(map[int]map[string]struct{})
	subclasses := make(map[int]map[string]struct{})

	for _, row := range rows {
		if sections[row.Year] == nil {
			sections[row.Year] = make(map[string]struct{})
			subclasses[row.Year] = make(map[string]struct{})
		}
		for _, part := range strings.Split(row.RawCodes, ",") {
			code := strings.TrimSpace(part)
			if code == "" {
				continue
			}
			sections[row.Year][code[:1]] = struct{}{}
			if len(code) >= 4 {
				subclasses[row.Year][code[:4]] = struct{}{}
			}
		}
	}

	years := make([]int, 0, len(sections))
	for y := range sections {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]panel.TechnologyBreadthPoint, len(years))
	for i, y := range years {
		out[i] = panel.TechnologyBreadthPoint{Year: y, UniqueCpcSections: len(sections[y]), UniqueCpcSubclasses: len(subclasses[y])}
	}
	return out
}
