package panel

import "github.com/KingdaKilla/ti-radar/internal/domain/kernel"

// LandscapePanel is UC1: an overview of patent, project, and publication
// activity for a technology.
type LandscapePanel struct {
	TotalPatents      int                      `json:"total_patents"`
	TotalProjects     int                      `json:"total_projects"`
	TotalPublications int                      `json:"total_publications"`
	TimeSeries        []kernel.TimeSeriesPoint `json:"time_series"`
	TopCountries      []kernel.CountrySplit    `json:"top_countries"`
	AnalysisText      string                   `json:"analysis_text,omitempty"`
}

// NewLandscapePanel returns the default-constructed empty panel.
func NewLandscapePanel() LandscapePanel {
	return LandscapePanel{
		TimeSeries:   []kernel.TimeSeriesPoint{},
		TopCountries: []kernel.CountrySplit{},
	}
}
