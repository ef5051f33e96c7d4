package panel

// ActorShare is one ranked actor in the top-20 chart payload.
type ActorShare struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// ActorRow is one row of the full ranked actor table, attributing activity
// across both patent filings and EU-funded projects.
type ActorRow struct {
	Name     string  `json:"name"`
	Patents  int     `json:"patents"`
	Projects int     `json:"projects"`
	Total    int     `json:"total"`
	Share    float64 `json:"share"`
}

// NetworkNode is one actor in the co-activity network graph.
type NetworkNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// NetworkEdge is one co-applicant or co-participation link; Weight is the
// number of patents or projects the two actors share.
type NetworkEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// CompetitivePanel is UC3: the market-concentration view over patent
// applicants and CORDIS participating organizations merged into one
// uppercase-keyed actor map.
type CompetitivePanel struct {
	HHIIndex           float64       `json:"hhi_index"`
	ConcentrationLevel string        `json:"concentration_level"`
	TopActors          []ActorShare  `json:"top_actors"`
	Top3Share          float64       `json:"top_3_share"`
	NetworkNodes       []NetworkNode `json:"network_nodes"`
	NetworkEdges       []NetworkEdge `json:"network_edges"`
	FullActors         []ActorRow    `json:"full_actors"`
	AnalysisText       string        `json:"analysis_text,omitempty"`
}

// NewCompetitivePanel returns the default-constructed empty panel.
func NewCompetitivePanel() CompetitivePanel {
	return CompetitivePanel{
		TopActors:    []ActorShare{},
		NetworkNodes: []NetworkNode{},
		NetworkEdges: []NetworkEdge{},
		FullActors:   []ActorRow{},
	}
}
