package panel

import "github.com/KingdaKilla/ti-radar/internal/domain/kernel"

// MaturityTimeSeriesPoint is one year of the cumulative patent series fed
// into the S-curve fit.
type MaturityTimeSeriesPoint struct {
	Year       int `json:"year"`
	Patents    int `json:"patents"`
	Cumulative int `json:"cumulative"`
}

// MaturityPanel is UC2: the technology maturity assessment, either from a
// converged S-curve fit or the heuristic growth-pattern fallback.
type MaturityPanel struct {
	Phase           kernel.MaturityPhase      `json:"phase"`
	Confidence      float64                   `json:"confidence"`
	CAGR            float64                   `json:"cagr"`
	MaturityPercent float64                   `json:"maturity_percent"`
	SaturationLevel float64                   `json:"saturation_level"`
	InflectionYear  float64                   `json:"inflection_year"`
	RSquared        float64                   `json:"r_squared"`
	// FitModel names the model that produced this panel: "Logistic",
	// "Gompertz", or one of the heuristic-* fallback branches.
	FitModel     string                    `json:"fit_model"`
	TimeSeries   []MaturityTimeSeriesPoint `json:"time_series"`
	SCurveFitted []kernel.FittedPoint      `json:"s_curve_fitted"`
	AnalysisText string                    `json:"analysis_text,omitempty"`
}

// NewMaturityPanel returns the default-constructed empty panel.
func NewMaturityPanel() MaturityPanel {
	return MaturityPanel{
		TimeSeries:   []MaturityTimeSeriesPoint{},
		SCurveFitted: []kernel.FittedPoint{},
	}
}
