package panel

// cpcSectionColors assigns a fixed color per top-level CPC section, A
// through H plus the cross-sectional Y section; unknown or empty sections
// fall back to a neutral grey.
var cpcSectionColors = map[string]string{
	"A": "#ef4444",
	"B": "#f97316",
	"C": "#eab308",
	"D": "#22c55e",
	"E": "#06b6d4",
	"F": "#3b82f6",
	"G": "#8b5cf6",
	"H": "#ec4899",
	"Y": "#6b7280",
}

const defaultCpcColor = "#9ca3af"

// CpcColor returns the display color for a CPC code's top-level section
// (the first character of the code), or the neutral default when the
// section is unrecognized or the code is empty.
func CpcColor(code string) string {
	if code == "" {
		return defaultCpcColor
	}
	if color, ok := cpcSectionColors[string(code[0])]; ok {
		return color
	}
	return defaultCpcColor
}

// CpcFlowYearData is the year-indexed co-occurrence data backing the
// CPC-flow timeline scrubber: pair and per-code counts keyed by year.
type CpcFlowYearData struct {
	MinYear    int                       `json:"min_year"`
	MaxYear    int                       `json:"max_year"`
	AllLabels  []string                  `json:"all_labels"`
	PairCounts map[string]map[string]int `json:"pair_counts"`
	CpcCounts  map[string]map[string]int `json:"cpc_counts"`
}

// NewCpcFlowYearData returns the default-constructed empty year data.
func NewCpcFlowYearData() CpcFlowYearData {
	return CpcFlowYearData{
		AllLabels:  []string{},
		PairCounts: map[string]map[string]int{},
		CpcCounts:  map[string]map[string]int{},
	}
}

// CpcFlowPanel is UC5: the CPC co-occurrence matrix used to render the
// cross-sectional technology flow chord diagram.
type CpcFlowPanel struct {
	Matrix               [][]float64       `json:"matrix"`
	Labels               []string          `json:"labels"`
	Colors               []string          `json:"colors"`
	TotalPatentsAnalyzed int               `json:"total_patents_analyzed"`
	TotalConnections     int               `json:"total_connections"`
	CpcLevel             int               `json:"cpc_level"`
	YearData             CpcFlowYearData   `json:"year_data"`
	CpcDescriptions      map[string]string `json:"cpc_descriptions"`
	// WasSampled, SampleFraction, ConfidenceLow and ConfidenceHigh are only
	// populated when the matrix was built from the stratified-sampling
	// fallback (patent_cpc unavailable); the SQL-native path operates over
	// the true population and leaves these at their zero value.
	WasSampled      bool        `json:"was_sampled"`
	SampleFraction  float64     `json:"sample_fraction,omitempty"`
	ConfidenceLow   [][]float64 `json:"confidence_low,omitempty"`
	ConfidenceHigh  [][]float64 `json:"confidence_high,omitempty"`
	AnalysisText    string      `json:"analysis_text,omitempty"`
}

// DefaultCpcLevel is the subclass depth (e.g. "G06N") used unless the
// caller specifies otherwise.
const DefaultCpcLevel = 4

// NewCpcFlowPanel returns the default-constructed empty panel.
func NewCpcFlowPanel() CpcFlowPanel {
	return CpcFlowPanel{
		Matrix:          [][]float64{},
		Labels:          []string{},
		Colors:          []string{},
		CpcLevel:        DefaultCpcLevel,
		YearData:        NewCpcFlowYearData(),
		CpcDescriptions: map[string]string{},
	}
}
