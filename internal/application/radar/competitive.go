package radar

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/database/sqlite"
)

const (
	competitiveActorLimit   = 50
	competitiveTopActors    = 20
	competitiveNetworkNodes = 40
	competitiveNetworkEdges = 100
)

// AnalyzeCompetitive is UC3: merges patent applicants and CORDIS
// participant organizations into one actor landscape, scored by market
// concentration, plus a collaboration network built from co-applicant and
// co-participant pairs.
func AnalyzeCompetitive(ctx context.Context, dc *DataContext, technology string, startYear, endYear int) (panel.CompetitivePanel, []string, []string, []string) {
	var sources, methods, warnings []string

	p := panel.NewCompetitivePanel()

	actorCounts := make(map[string]*struct{ patents, projects int })
	order := make([]string, 0)
	touch := func(name string) *struct{ patents, projects int } {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			return &struct{ patents, projects int }{}
		}
		a, ok := actorCounts[key]
		if !ok {
			a = &struct{ patents, projects int }{}
			actorCounts[key] = a
			order = append(order, key)
		}
		return a
	}

	var coApplicantPairs []sqlite.CoActorPair
	var coParticipationPairs []sqlite.CoActorPair

	if dc.PatentRepo != nil {
		patentEnd := dc.effectivePatentEndYear(endYear, &warnings)
		applicants, err := dc.PatentRepo.TopApplicants(ctx, technology, startYear, patentEnd, competitiveActorLimit)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("top applicants query failed: %v", err))
		} else if len(applicants) > 0 {
			sources = append(sources, "EPO DOCDB (local)")
			for _, a := range applicants {
				touch(a.Name).patents += a.Count
			}
		}

		pairs, err := dc.PatentRepo.CoApplicantPairs(ctx, technology, startYear, patentEnd)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("co-applicant query failed: %v", err))
		} else {
			coApplicantPairs = pairs
		}
	} else {
		warnings = append(warnings, "patent database unavailable — no applicant data")
	}

	if dc.ProjectRepo != nil {
		orgs, err := dc.ProjectRepo.TopOrganizations(ctx, technology, startYear, endYear, competitiveActorLimit)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("top organizations query failed: %v", err))
		} else if len(orgs) > 0 {
			sources = append(sources, "CORDIS (local)")
			for _, o := range orgs {
				touch(o.Name).projects += o.Count
			}
		}

		pairs, err := dc.ProjectRepo.CoParticipationPairs(ctx, technology, startYear, endYear)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("co-participation query failed: %v", err))
		} else {
			coParticipationPairs = pairs
		}
	} else {
		warnings = append(warnings, "CORDIS database unavailable — no participant data")
	}

	if len(order) == 0 {
		return p, sources, methods, warnings
	}

	type row struct {
		name     string
		patents  int
		projects int
		total    int
	}
	rows := make([]row, 0, len(order))
	totalActivity := 0
	for _, name := range order {
		a := actorCounts[name]
		total := a.patents + a.projects
		rows = append(rows, row{name: name, patents: a.patents, projects: a.projects, total: total})
		totalActivity += total
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].total > rows[j].total })

	shares := make([]float64, len(rows))
	fullActors := make([]panel.ActorRow, len(rows))
	for i, r := range rows {
		share := 0.0
		if totalActivity > 0 {
			share = roundTo4(float64(r.total) / float64(totalActivity))
		}
		shares[i] = share
		fullActors[i] = panel.ActorRow{Name: r.name, Patents: r.patents, Projects: r.projects, Total: r.total, Share: share}
	}
	p.FullActors = fullActors

	topN := competitiveTopActors
	if topN > len(rows) {
		topN = len(rows)
	}
	topActors := make([]panel.ActorShare, topN)
	for i := 0; i < topN; i++ {
		topActors[i] = panel.ActorShare{Name: rows[i].name, Count: rows[i].total, Share: shares[i]}
	}
	p.TopActors = topActors

	p.HHIIndex = roundTo2(kernel.HHI(shares))
	p.ConcentrationLevel, _ = concentrationEN(p.HHIIndex)

	top3 := 0
	for i := 0; i < 3 && i < len(rows); i++ {
		top3 += rows[i].total
	}
	if totalActivity > 0 {
		p.Top3Share = roundTo4(float64(top3) / float64(totalActivity))
	}

	p.NetworkNodes, p.NetworkEdges = buildNetwork(rows, coApplicantPairs, coParticipationPairs)

	methods = append(methods, "HHI-Index (Herfindahl-Hirschman)", "Actor aggregation (patent applicants + CORDIS participants)")

	return p, sources, methods, warnings
}

func concentrationEN(hhi float64) (string, string) {
	return kernel.ConcentrationLevel(hhi)
}

// buildNetwork merges co-applicant and co-participation pairs into a single
// weighted graph, keeping the top-activity nodes and heaviest edges and
// dropping any node left with no surviving edge.
func buildNetwork(rows []struct {
	name     string
	patents  int
	projects int
	total    int
}, coApplicantPairs, coParticipationPairs []sqlite.CoActorPair) ([]panel.NetworkNode, []panel.NetworkEdge) {
	weight := make(map[string]int)
	key := func(a, b string) (string, string) {
		a, b = strings.ToUpper(a), strings.ToUpper(b)
		if a > b {
			a, b = b, a
		}
		return a, b
	}
	for _, pair := range coApplicantPairs {
		a, b := key(pair.A, pair.B)
		weight[a+"|"+b] += pair.Weight
	}
	for _, pair := range coParticipationPairs {
		a, b := key(pair.A, pair.B)
		weight[a+"|"+b] += pair.Weight
	}

	type edge struct {
		a, b string
		w    int
	}
	edges := make([]edge, 0, len(weight))
	for k, w := range weight {
		parts := strings.SplitN(k, "|", 2)
		edges = append(edges, edge{a: parts[0], b: parts[1], w: w})
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].w > edges[j].w })
	if len(edges) > competitiveNetworkEdges {
		edges = edges[:competitiveNetworkEdges]
	}

	nodeLimit := competitiveNetworkNodes
	if nodeLimit > len(rows) {
		nodeLimit = len(rows)
	}
	eligible := make(map[string]int, nodeLimit)
	for i := 0; i < nodeLimit; i++ {
		eligible[rows[i].name] = rows[i].total
	}

	networkEdges := make([]panel.NetworkEdge, 0, len(edges))
	used := make(map[string]struct{})
	for _, e := range edges {
		_, aOK := eligible[e.a]
		_, bOK := eligible[e.b]
		if !aOK || !bOK {
			continue
		}
		networkEdges = append(networkEdges, panel.NetworkEdge{Source: e.a, Target: e.b, Weight: e.w})
		used[e.a] = struct{}{}
		used[e.b] = struct{}{}
	}

	networkNodes := make([]panel.NetworkNode, 0, len(used))
	for name := range used {
		networkNodes = append(networkNodes, panel.NetworkNode{ID: name, Label: name, Value: eligible[name]})
	}
	sort.SliceStable(networkNodes, func(i, j int) bool { return networkNodes[i].Value > networkNodes[j].Value })

	return networkNodes, networkEdges
}

func roundTo4(v float64) float64 { return roundToN(v, 4) }
func roundTo2(v float64) float64 { return roundToN(v, 2) }

func roundToN(v float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int(v*mult+0.5)) / mult
}
