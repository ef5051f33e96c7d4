package radar

import (
	"context"
	"sort"
	"strings"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/adapters"
)

const (
	researchImpactPaperLimit = 200
	researchImpactTopPapers  = 10
	researchImpactTopVenues  = 8
)

// AnalyzeResearchImpact is UC7: scholarly impact metrics over the top-200
// papers matched to the technology term.
func AnalyzeResearchImpact(ctx context.Context, dc *DataContext, technology string) (panel.ResearchImpactPanel, []string, []string, []string) {
	var sources, methods, warnings []string

	p := panel.NewResearchImpactPanel()

	if dc.Papers == nil {
		warnings = append(warnings, "paper search unavailable — no research impact data")
		return p, sources, methods, warnings
	}

	papers, searchWarning := dc.Papers.Search(ctx, technology, researchImpactPaperLimit)
	if searchWarning != "" {
		warnings = append(warnings, searchWarning)
	}
	if len(papers) == 0 {
		return p, sources, methods, warnings
	}

	sources = append(sources, "Semantic Scholar (API)")

	citations := make([]int, len(papers))
	totalCitations, totalInfluential := 0, 0
	for i, paper := range papers {
		citations[i] = paper.Citations
		totalCitations += paper.Citations
		totalInfluential += paper.InfluentialCitations
	}

	p.TotalPapers = len(papers)
	p.HIndex = kernel.HIndex(citations)
	p.AvgCitations = roundTo2(float64(totalCitations) / float64(len(papers)))
	if totalCitations > 0 {
		p.InfluentialRatio = roundTo4(float64(totalInfluential) / float64(totalCitations))
	}

	p.CitationTrend = citationTrend(papers)
	p.TopPapers = topPapers(papers, researchImpactTopPapers)
	p.TopVenues = topVenues(papers, researchImpactTopVenues)
	p.PublicationTypes = publicationTypes(papers)

	methods = append(methods,
		"h-index (Hirsch 2005; Banks 2006 topic-level adaptation)",
		"Sample: top-200 papers (Semantic Scholar)",
		"Influential citations (Valenzuela et al. 2015, experimental)")
	if len(papers) >= researchImpactPaperLimit {
		warnings = append(warnings, "h-index based on top-200 papers only — may understate true impact for broad terms")
	}

	return p, sources, methods, warnings
}

func citationTrend(papers []adapters.Paper) []panel.CitationTrendPoint {
	type acc struct{ citations, count int }
	byYear := make(map[int]*acc)
	for _, p := range papers {
		if p.Year == 0 {
			continue
		}
		a, ok := byYear[p.Year]
		if !ok {
			a = &acc{}
			byYear[p.Year] = a
		}
		a.citations += p.Citations
		a.count++
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make([]panel.CitationTrendPoint, len(years))
	for i, y := range years {
		out[i] = panel.CitationTrendPoint{Year: y, Citations: byYear[y].citations, PaperCount: byYear[y].count}
	}
	return out
}

func topPapers(papers []adapters.Paper, n int) []panel.TopPaper {
	sorted := append([]adapters.Paper(nil), papers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Citations > sorted[j].Citations })
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]panel.TopPaper, n)
	for i := 0; i < n; i++ {
		p := sorted[i]
		authorsShort := p.Authors
		if len(authorsShort) > 3 {
			authorsShort = authorsShort[:3]
		}
		short := strings.Join(authorsShort, ", ")
		if len(p.Authors) > 3 {
			short += " et al."
		}
		out[i] = panel.TopPaper{Title: p.Title, Venue: p.Venue, Year: p.Year, Citations: p.Citations, AuthorsShort: short}
	}
	return out
}

func topVenues(papers []adapters.Paper, n int) []panel.VenueShare {
	counts := make(map[string]int)
	total := 0
	for _, p := range papers {
		if p.Venue == "" {
			continue
		}
		counts[p.Venue]++
		total++
	}
	venues := make([]string, 0, len(counts))
	for v := range counts {
		venues = append(venues, v)
	}
	sort.SliceStable(venues, func(i, j int) bool {
		if counts[venues[i]] != counts[venues[j]] {
			return counts[venues[i]] > counts[venues[j]]
		}
		return venues[i] < venues[j]
	})
	if n > len(venues) {
		n = len(venues)
	}
	out := make([]panel.VenueShare, n)
	for i := 0; i < n; i++ {
		v := venues[i]
		share := 0.0
		if total > 0 {
			share = roundTo4(float64(counts[v]) / float64(total))
		}
		out[i] = panel.VenueShare{Venue: v, Count: counts[v], Share: share}
	}
	return out
}

// publicationTypes counts papers by publication type, treating each paper's
// single reported type as a one-element type list.
func publicationTypes(papers []adapters.Paper) []panel.PublicationTypeCount {
	counts := make(map[string]int)
	for _, p := range papers {
		if p.Type == "" {
			continue
		}
		counts[p.Type]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.SliceStable(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return types[i] < types[j]
	})
	out := make([]panel.PublicationTypeCount, len(types))
	for i, t := range types {
		out[i] = panel.PublicationTypeCount{Type: t, Count: counts[t]}
	}
	return out
}
