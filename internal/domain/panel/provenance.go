package panel

import "github.com/KingdaKilla/ti-radar/internal/domain/kernel"

// Provenance is the explainability block attached to every response: which
// sources contributed data, which methods were applied, any degradations
// encountered, and the computed API-health alerts. Sources and methods are
// deduplicated in insertion order by the orchestrator before assembly.
type Provenance struct {
	SourcesUsed       []string          `json:"sources_used"`
	Methods           []string          `json:"methods"`
	Deterministic     bool              `json:"deterministic"`
	Warnings          []string          `json:"warnings"`
	ApiAlerts         []kernel.ApiAlert `json:"api_alerts"`
	QueryTimeMs       int64             `json:"query_time_ms"`
	DataCompleteUntil *int              `json:"data_complete_until"`
}

// NewProvenance returns an empty, well-typed Provenance with Deterministic
// set true, matching the contract that every computation in this service is
// reproducible.
func NewProvenance() Provenance {
	return Provenance{
		SourcesUsed:   []string{},
		Methods:       []string{},
		Warnings:      []string{},
		ApiAlerts:     []kernel.ApiAlert{},
		Deterministic: true,
	}
}
