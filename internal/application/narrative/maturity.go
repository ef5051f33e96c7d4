package narrative

import "github.com/KingdaKilla/ti-radar/internal/domain/panel"

// Maturity renders the UC2 technology-maturity panel into a short German
// summary: phase and maturity percent, S-curve fit quality, CAGR trend,
// inflection year, confidence, and remaining growth potential. Returns ""
// when the panel carries no classified phase.
func Maturity(p panel.MaturityPanel) string {
	if p.Phase.En == "" {
		return ""
	}

	var parts []string

	phaseLabel := p.Phase.De
	if phaseLabel == "" {
		phaseLabel = p.Phase.En
	}
	parts = append(parts, "Die Technologie befindet sich in der Phase \""+phaseLabel+
		"\" mit einem Reifegrad von "+fmtPct(p.MaturityPercent, 1)+" (Schwellenwerte nach Gao et al. 2013).")

	if p.RSquared > 0 {
		modelInfo := ""
		if p.FitModel != "" {
			modelInfo = " (" + p.FitModel + ")"
		}
		parts = append(parts, "Der S-Curve-Fit"+modelInfo+" zeigt eine "+fitQuality(p.RSquared)+
			" Anpassungsgüte ("+rSquaredString(p.RSquared)+").")
	}

	if p.CAGR != 0 {
		parts = append(parts, "Die jährliche Wachstumsrate (CAGR) beträgt "+fmtPct(p.CAGR, 1)+
			" und zeigt damit "+trendWord(p.CAGR)+".")
	}

	if p.InflectionYear > 0 {
		parts = append(parts, "Der Wendepunkt der S-Curve liegt bei "+fmtInt(int(p.InflectionYear))+".")
	}

	if p.Confidence > 0 {
		totalPatents := 0
		for _, ts := range p.TimeSeries {
			totalPatents += ts.Patents
		}
		parts = append(parts, "Die Konfidenz der Analyse beträgt "+fmtPct(p.Confidence*100, 0)+
			", basierend auf "+fmtInt(len(p.TimeSeries))+" Jahren und "+fmtInt(totalPatents)+" Patenten.")
	}

	if p.MaturityPercent >= 90 {
		parts = append(parts, "Die Sättigungsphase ist erreicht — das Wachstumspotenzial ist weitgehend ausgeschöpft.")
	}

	return joinSentences(parts)
}
