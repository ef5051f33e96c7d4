package narrative_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KingdaKilla/ti-radar/internal/application/narrative"
	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
)

func floatPtr(v float64) *float64 { return &v }

func TestLandscape_EmptyPanelReturnsEmptyString(t *testing.T) {
	got := narrative.Landscape(panel.NewLandscapePanel())
	assert.Empty(t, got)
}

func TestLandscape_TotalsAndDominantSource(t *testing.T) {
	p := panel.NewLandscapePanel()
	p.TotalPatents = 120
	p.TotalProjects = 30
	p.TotalPublications = 10

	got := narrative.Landscape(p)

	assert.Contains(t, got, "160 Aktivitäten")
	assert.Contains(t, got, "120 Patente")
	assert.Contains(t, got, "dominante Quelle sind Patente")
}

func TestLandscape_TopCountryAndGrowth(t *testing.T) {
	p := panel.NewLandscapePanel()
	p.TotalPatents = 1234
	p.TopCountries = []kernel.CountrySplit{
		{Country: "Deutschland", Patents: 800, Projects: 200, Total: 1000},
	}
	p.TimeSeries = []kernel.TimeSeriesPoint{
		{Year: 2024, Patents: 100, PatentsGrowth: floatPtr(12.5)},
	}

	got := narrative.Landscape(p)

	assert.Contains(t, got, "führende Land ist Deutschland")
	assert.Contains(t, got, "1.000 Aktivitäten")
	assert.Contains(t, got, "Patentwachstumsrate")
	assert.Contains(t, got, "12,5%")
	assert.Contains(t, got, "1 Länder aktiv")
}

func TestMaturity_EmptyPhaseReturnsEmptyString(t *testing.T) {
	got := narrative.Maturity(panel.NewMaturityPanel())
	assert.Empty(t, got)
}

func TestMaturity_PhaseAndFit(t *testing.T) {
	p := panel.NewMaturityPanel()
	p.Phase = kernel.PhaseMature
	p.MaturityPercent = 67.3
	p.RSquared = 0.932
	p.FitModel = "Logistic"
	p.CAGR = 8.2
	p.InflectionYear = 2019
	p.Confidence = 0.85
	p.TimeSeries = []panel.MaturityTimeSeriesPoint{
		{Year: 2018, Patents: 50},
		{Year: 2019, Patents: 60},
	}

	got := narrative.Maturity(p)

	assert.Contains(t, got, "Phase \"Ausgereift\"")
	assert.Contains(t, got, "67,3%")
	assert.Contains(t, got, "Logistic")
	assert.Contains(t, got, "exzellente Anpassungsgüte")
	assert.Contains(t, got, "R² = 0,932")
	assert.Contains(t, got, "solides Wachstum")
	assert.Contains(t, got, "Wendepunkt der S-Curve liegt bei 2.019")
	assert.Contains(t, got, "110 Patenten")
}

func TestMaturity_SaturationAddsPotentialSentence(t *testing.T) {
	p := panel.NewMaturityPanel()
	p.Phase = kernel.PhaseSaturation
	p.MaturityPercent = 95

	got := narrative.Maturity(p)

	assert.Contains(t, got, "Sättigungsphase ist erreicht")
}

func TestRender_FillsLandscapeAndMaturityAnalysisText(t *testing.T) {
	resp := panel.NewResponse(panel.Request{Technology: "quantum computing", Years: 10})
	resp.Landscape.TotalPatents = 5
	resp.Maturity.Phase = kernel.PhaseEmerging
	resp.Maturity.MaturityPercent = 12

	narrative.Render(&resp)

	assert.NotEmpty(t, resp.Landscape.AnalysisText)
	assert.NotEmpty(t, resp.Maturity.AnalysisText)
}
