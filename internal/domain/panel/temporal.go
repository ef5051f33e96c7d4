package panel

// ActorTimelineEntry tracks one actor's active years and cumulative count,
// used to distinguish new entrants from persistent incumbents.
type ActorTimelineEntry struct {
	Name        string `json:"name"`
	YearsActive []int  `json:"years_active"`
	TotalCount  int    `json:"total_count"`
}

// ProgrammeEvolutionPoint is one year of funding-programme activity. Counts
// is keyed by programme or instrument name; the source computes this as a
// dict with one dynamically-named key per scheme, which this flattens into
// an explicit nested map instead of widening the struct per scheme.
type ProgrammeEvolutionPoint struct {
	Year   int            `json:"year"`
	Counts map[string]int `json:"counts"`
}

// EntrantPersistencePoint is one year's new-entrant and persistence rates
// among the actors active that year.
type EntrantPersistencePoint struct {
	Year            int     `json:"year"`
	NewEntrantRate  float64 `json:"new_entrant_rate"`
	PersistenceRate float64 `json:"persistence_rate"`
	TotalActors     int     `json:"total_actors"`
}

// InstrumentEvolutionPoint is one year of a single funding instrument's
// activity, mirroring InstrumentYear but scoped to the temporal trendline.
type InstrumentEvolutionPoint struct {
	Year       int     `json:"year"`
	Instrument string  `json:"instrument"`
	Count      int     `json:"count"`
	Funding    float64 `json:"funding"`
}

// TechnologyBreadthPoint is one year's CPC classification breadth: how many
// distinct sections and subclasses the technology's patents touched.
type TechnologyBreadthPoint struct {
	Year                int `json:"year"`
	UniqueCpcSections   int `json:"unique_cpc_sections"`
	UniqueCpcSubclasses int `json:"unique_cpc_subclasses"`
}

// TemporalPanel is UC8: actor-dynamics and funding-programme evolution over
// time.
type TemporalPanel struct {
	NewEntrantRate          float64                    `json:"new_entrant_rate"`
	PersistenceRate         float64                    `json:"persistence_rate"`
	DominantProgramme       string                     `json:"dominant_programme"`
	ActorTimeline           []ActorTimelineEntry        `json:"actor_timeline"`
	ProgrammeEvolution      []ProgrammeEvolutionPoint   `json:"programme_evolution"`
	EntrantPersistenceTrend []EntrantPersistencePoint   `json:"entrant_persistence_trend"`
	InstrumentEvolution     []InstrumentEvolutionPoint  `json:"instrument_evolution"`
	TechnologyBreadth       []TechnologyBreadthPoint    `json:"technology_breadth"`
	AnalysisText            string                      `json:"analysis_text,omitempty"`
}

// NewTemporalPanel returns the default-constructed empty panel.
func NewTemporalPanel() TemporalPanel {
	return TemporalPanel{
		ActorTimeline:           []ActorTimelineEntry{},
		ProgrammeEvolution:      []ProgrammeEvolutionPoint{},
		EntrantPersistenceTrend: []EntrantPersistencePoint{},
		InstrumentEvolution:     []InstrumentEvolutionPoint{},
		TechnologyBreadth:       []TechnologyBreadthPoint{},
	}
}
