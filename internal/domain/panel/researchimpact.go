package panel

// CitationTrendPoint is one publication year's citation activity.
type CitationTrendPoint struct {
	Year       int `json:"year"`
	Citations  int `json:"citations"`
	PaperCount int `json:"paper_count"`
}

// TopPaper is one entry in the most-cited-papers table.
type TopPaper struct {
	Title        string `json:"title"`
	Venue        string `json:"venue"`
	Year         int    `json:"year"`
	Citations    int    `json:"citations"`
	AuthorsShort string `json:"authors_short"`
}

// VenueShare is one publication venue's contribution to the corpus.
type VenueShare struct {
	Venue string  `json:"venue"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// PublicationTypeCount is the count of papers of one publication type
// (journal article, conference paper, preprint, ...).
type PublicationTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ResearchImpactPanel is UC7: scholarly impact metrics derived from the
// publication corpus matched to the technology term.
type ResearchImpactPanel struct {
	HIndex           int                    `json:"h_index"`
	AvgCitations     float64                `json:"avg_citations"`
	TotalPapers      int                    `json:"total_papers"`
	InfluentialRatio float64                `json:"influential_ratio"`
	CitationTrend    []CitationTrendPoint   `json:"citation_trend"`
	TopPapers        []TopPaper             `json:"top_papers"`
	TopVenues        []VenueShare           `json:"top_venues"`
	PublicationTypes []PublicationTypeCount `json:"publication_types"`
	AnalysisText     string                 `json:"analysis_text,omitempty"`
}

// NewResearchImpactPanel returns the default-constructed empty panel.
func NewResearchImpactPanel() ResearchImpactPanel {
	return ResearchImpactPanel{
		CitationTrend:    []CitationTrendPoint{},
		TopPapers:        []TopPaper{},
		TopVenues:        []VenueShare{},
		PublicationTypes: []PublicationTypeCount{},
	}
}
