package panel

// ProgrammeFunding is one CORDIS framework programme's aggregate contribution.
type ProgrammeFunding struct {
	Programme string  `json:"programme"`
	Funding   float64 `json:"funding"`
	Projects  int     `json:"projects"`
}

// FundingTimeSeriesPoint is one year of total project funding and count.
type FundingTimeSeriesPoint struct {
	Year     int     `json:"year"`
	Funding  float64 `json:"funding"`
	Projects int     `json:"projects"`
}

// ProgrammeTimeSeriesPoint is one (year, programme) cell of the stacked
// funding-by-programme time series.
type ProgrammeTimeSeriesPoint struct {
	Year      int     `json:"year"`
	Programme string  `json:"programme"`
	Funding   float64 `json:"funding"`
	Projects  int     `json:"projects"`
}

// InstrumentYear is one (instrument, year) cell of the funding-instrument
// breakdown, e.g. RIA/IA/CSA counts and funding per year.
type InstrumentYear struct {
	Instrument string  `json:"instrument"`
	Year       int     `json:"year"`
	Count      int     `json:"count"`
	Funding    float64 `json:"funding"`
}

// FundingPanel is UC4: EU framework-programme funding flows for a technology.
type FundingPanel struct {
	TotalFundingEur       float64                    `json:"total_funding_eur"`
	FundingCAGR           float64                    `json:"funding_cagr"`
	FundingCAGRPeriod     string                     `json:"funding_cagr_period"`
	AvgProjectSize        float64                    `json:"avg_project_size"`
	ByProgramme           []ProgrammeFunding         `json:"by_programme"`
	TimeSeries            []FundingTimeSeriesPoint   `json:"time_series"`
	TimeSeriesByProgramme []ProgrammeTimeSeriesPoint `json:"time_series_by_programme"`
	InstrumentBreakdown   []InstrumentYear           `json:"instrument_breakdown"`
	AnalysisText          string                     `json:"analysis_text,omitempty"`
}

// NewFundingPanel returns the default-constructed empty panel.
func NewFundingPanel() FundingPanel {
	return FundingPanel{
		ByProgramme:           []ProgrammeFunding{},
		TimeSeries:            []FundingTimeSeriesPoint{},
		TimeSeriesByProgramme: []ProgrammeTimeSeriesPoint{},
		InstrumentBreakdown:   []InstrumentYear{},
	}
}
