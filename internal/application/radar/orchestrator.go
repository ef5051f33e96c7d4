package radar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
)

// engineDeadline bounds each panel engine independently: one slow or hung
// data source degrades only its own panel, never the other seven.
const engineDeadline = 30 * time.Second

// Analyze is the orchestrator: it validates the request, hands the shared
// DataContext it is given to all eight panel engines run concurrently (each under
// its own deadline and panic boundary), aggregates their provenance, and
// assembles the final response.
func Analyze(ctx context.Context, dc *DataContext, req panel.Request) (panel.Response, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return panel.Response{}, err
	}

	start := time.Now()

	endYear := time.Now().Year()
	startYear := endYear - req.Years

	resp := panel.NewResponse(req)
	resp.AnalysisPeriod = fmt.Sprintf("%d–%d", startYear, endYear)

	var mu sync.Mutex
	var allSources, allMethods, allWarnings []string
	collect := func(sources, methods, warnings []string) {
		mu.Lock()
		defer mu.Unlock()
		allSources = append(allSources, sources...)
		allMethods = append(allMethods, methods...)
		allWarnings = append(allWarnings, warnings...)
	}

	var wg sync.WaitGroup

	run := func(name string, fn func(ctx context.Context) ([]string, []string, []string)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engineCtx, cancel := context.WithTimeout(ctx, engineDeadline)
			defer cancel()

			sources, methods, warnings := runGuarded(name, func() ([]string, []string, []string) {
				return fn(engineCtx)
			})
			collect(sources, methods, warnings)
		}()
	}

	run("landscape", func(ctx context.Context) ([]string, []string, []string) {
		p, s, m, w := AnalyzeLandscape(ctx, dc, req.Technology, startYear, endYear)
		resp.Landscape = p
		return s, m, w
	})
	run("maturity", func(ctx context.Context) ([]string, []string, []string) {
		p, s, m, w := AnalyzeMaturity(ctx, dc, req.Technology, startYear, endYear)
		resp.Maturity = p
		return s, m, w
	})
	run("competitive", func(ctx context.Context) ([]string, []string, []string) {
		p, s, m, w := AnalyzeCompetitive(ctx, dc, req.Technology, startYear, endYear)
		resp.Competitive = p
		return s, m, w
	})
	run("funding", func(ctx context.Context) ([]string, []string, []string) {
		p, s, m, w := AnalyzeFunding(ctx, dc, req.Technology, startYear, endYear)
		resp.Funding = p
		return s, m, w
	})
	run("cpc_flow", func(ctx context.Context) ([]string, []string, []string) {
		p, s, m, w := AnalyzeCpcFlow(ctx, dc, req.Technology, startYear, endYear, panel.DefaultCpcLevel)
		resp.CpcFlow = p
		return s, m, w
	})
	run("geographic", func(ctx context.Context) ([]string, []string, []string) {
		p, s, m, w := AnalyzeGeographic(ctx, dc, req.Technology, startYear, endYear)
		resp.Geographic = p
		return s, m, w
	})
	run("research_impact", func(ctx context.Context) ([]string, []string, []string) {
		p, s, m, w := AnalyzeResearchImpact(ctx, dc, req.Technology)
		resp.ResearchImpact = p
		return s, m, w
	})
	run("temporal", func(ctx context.Context) ([]string, []string, []string) {
		p, s, m, w := AnalyzeTemporal(ctx, dc, req.Technology, startYear, endYear)
		resp.Temporal = p
		return s, m, w
	})

	wg.Wait()

	resp.Provenance.SourcesUsed = dedupe(allSources)
	resp.Provenance.Methods = dedupe(allMethods)
	resp.Provenance.Warnings = allWarnings

	var apiAlerts []kernel.ApiAlert
	apiAlerts = append(apiAlerts, kernel.DetectRuntimeFailures(allWarnings)...)
	resp.Provenance.ApiAlerts = apiAlerts

	if dc.LastFullPatentYear != nil {
		year := *dc.LastFullPatentYear
		resp.Provenance.DataCompleteUntil = &year
	}

	resp.Provenance.QueryTimeMs = time.Since(start).Milliseconds()

	return resp, nil
}

// runGuarded invokes fn under a panic boundary: a recovered panic degrades
// to an empty-contribution result with a warning naming the failed engine,
// so one engine crashing never takes down the other seven.
func runGuarded(name string, fn func() ([]string, []string, []string)) (sources, methods, warnings []string) {
	defer func() {
		if r := recover(); r != nil {
			warnings = []string{fmt.Sprintf("%s panel failed: %v", name, r)}
		}
	}()
	return fn()
}

// dedupe preserves first-seen order while removing repeats, matching the
// provenance contract that sources_used/methods are reported once each
// regardless of how many engines contributed them.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
