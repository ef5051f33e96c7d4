// Package radar implements the eight panel engines and the orchestrator
// that fans out to them, composing the sqlite repositories, the external
// adapters, and the pure kernel functions into one technology-intelligence
// analysis per request.
package radar

import (
	"context"
	"strconv"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/adapters"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/database/sqlite"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

// DataContext is the per-request composition root: every panel engine reads
// from it instead of constructing its own repositories or adapters, so a
// single request shares one connection pool and one set of freshness
// cutoffs across all eight engines. A nil field means that data source is
// unavailable for this deployment; engines must treat that as "degrade with
// a warning", never as an error.
type DataContext struct {
	PatentRepo   *sqlite.PatentStore
	ProjectRepo  *sqlite.ProjectStore
	Publications *adapters.PublicationAdapter
	Papers       *adapters.PaperSearchAdapter
	Logger       logging.Logger

	// LastFullPatentYear and LastFullProjectYear cap every panel's query
	// window to the last calendar year each store's data fully covers
	// (kernel.LastFullyCoveredYear), nil when the underlying store is
	// absent or its completeness probe could not be parsed.
	LastFullPatentYear  *int
	LastFullProjectYear *int
}

// NewDataContext probes each repository's completeness once and derives the
// freshness cutoffs shared by every engine for the lifetime of one request.
func NewDataContext(
	ctx context.Context,
	patentRepo *sqlite.PatentStore,
	projectRepo *sqlite.ProjectStore,
	publications *adapters.PublicationAdapter,
	papers *adapters.PaperSearchAdapter,
	logger logging.Logger,
) *DataContext {
	dc := &DataContext{
		PatentRepo:   patentRepo,
		ProjectRepo:  projectRepo,
		Publications: publications,
		Papers:       papers,
		Logger:       logger,
	}

	if patentRepo != nil {
		if maxDate, err := patentRepo.Completeness(ctx); err == nil {
			dc.LastFullPatentYear = kernel.LastFullyCoveredYear(maxDate)
		}
	}
	if projectRepo != nil {
		if maxDate, err := projectRepo.Completeness(ctx); err == nil {
			dc.LastFullProjectYear = kernel.LastFullyCoveredYear(maxDate)
		}
	}

	return dc
}

// effectivePatentEndYear caps endYear to the last fully covered patent year,
// appending a warning when the request's window reaches into incomplete
// data.
func (dc *DataContext) effectivePatentEndYear(endYear int, warnings *[]string) int {
	if dc.LastFullPatentYear == nil {
		return endYear
	}
	lastFull := *dc.LastFullPatentYear
	if lastFull < endYear {
		*warnings = append(*warnings, "patent data complete through "+strconv.Itoa(lastFull)+" (incomplete from "+strconv.Itoa(lastFull+1)+")")
		return lastFull
	}
	return endYear
}

// effectiveProjectEndYear mirrors effectivePatentEndYear for CORDIS project
// data.
func (dc *DataContext) effectiveProjectEndYear(endYear int, warnings *[]string) int {
	if dc.LastFullProjectYear == nil {
		return endYear
	}
	lastFull := *dc.LastFullProjectYear
	if lastFull < endYear {
		*warnings = append(*warnings, "CORDIS data complete through "+strconv.Itoa(lastFull)+" (incomplete from "+strconv.Itoa(lastFull+1)+")")
		return lastFull
	}
	return endYear
}
