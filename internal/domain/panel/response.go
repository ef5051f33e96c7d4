package panel

// Response is the full radar analysis result: one panel per use case, plus
// the provenance block describing how it was produced.
type Response struct {
	Technology     string              `json:"technology"`
	AnalysisPeriod string              `json:"analysis_period"`
	Landscape      LandscapePanel      `json:"landscape"`
	Maturity       MaturityPanel       `json:"maturity"`
	Competitive    CompetitivePanel    `json:"competitive"`
	Funding        FundingPanel        `json:"funding"`
	CpcFlow        CpcFlowPanel        `json:"cpc_flow"`
	Geographic     GeographicPanel     `json:"geographic"`
	ResearchImpact ResearchImpactPanel `json:"research_impact"`
	Temporal       TemporalPanel       `json:"temporal"`
	Provenance     Provenance          `json:"provenance"`
}

// NewResponse returns a Response for req with every panel default-constructed
// to its empty value and a fresh Provenance, ready for the orchestrator to
// fill in as each panel engine completes.
func NewResponse(req Request) Response {
	return Response{
		Technology:     req.Technology,
		Landscape:      NewLandscapePanel(),
		Maturity:       NewMaturityPanel(),
		Competitive:    NewCompetitivePanel(),
		Funding:        NewFundingPanel(),
		CpcFlow:        NewCpcFlowPanel(),
		Geographic:     NewGeographicPanel(),
		ResearchImpact: NewResearchImpactPanel(),
		Temporal:       NewTemporalPanel(),
		Provenance:     NewProvenance(),
	}
}
