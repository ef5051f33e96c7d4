package panel

import "github.com/KingdaKilla/ti-radar/internal/domain/kernel"

// CityActivity is one city's patent/project activity count.
type CityActivity struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// CollaborationPair is one cross-border country pair observed as
// co-participants in the same CORDIS project.
type CollaborationPair struct {
	CountryA string `json:"country_a"`
	CountryB string `json:"country_b"`
	Count    int    `json:"count"`
}

// GeographicPanel is UC6: the geographic distribution of activity and
// cross-border collaboration.
type GeographicPanel struct {
	TotalCountries      int                   `json:"total_countries"`
	TotalCities         int                   `json:"total_cities"`
	CrossBorderShare    float64               `json:"cross_border_share"`
	CountryDistribution []kernel.CountrySplit `json:"country_distribution"`
	CityDistribution    []CityActivity        `json:"city_distribution"`
	CollaborationPairs  []CollaborationPair   `json:"collaboration_pairs"`
	AnalysisText        string                `json:"analysis_text,omitempty"`
}

// NewGeographicPanel returns the default-constructed empty panel.
func NewGeographicPanel() GeographicPanel {
	return GeographicPanel{
		CountryDistribution: []kernel.CountrySplit{},
		CityDistribution:    []CityActivity{},
		CollaborationPairs:  []CollaborationPair{},
	}
}
