package narrative

import "github.com/KingdaKilla/ti-radar/internal/domain/panel"

// Landscape renders the UC1 technology-landscape panel into a short German
// summary: total activity, dominant source, leading country, and the most
// recent patent growth rate. Returns "" when the panel carries no activity.
func Landscape(p panel.LandscapePanel) string {
	total := p.TotalPatents + p.TotalProjects + p.TotalPublications
	if total == 0 {
		return ""
	}

	var parts []string

	parts = append(parts, totalActivitySentence(p, total))
	parts = append(parts, dominantSourceSentence(p, total))

	if len(p.TopCountries) > 0 {
		if s := topCountrySentence(p); s != "" {
			parts = append(parts, s)
		}
	}

	if len(p.TimeSeries) > 0 {
		last := p.TimeSeries[len(p.TimeSeries)-1]
		if last.PatentsGrowth != nil && *last.PatentsGrowth != 0 {
			parts = append(parts, "Die Patentwachstumsrate im letzten erfassten Jahr liegt bei "+fmtPct(*last.PatentsGrowth, 1)+".")
		}
		if last.ProjectsGrowth != nil && *last.ProjectsGrowth != 0 {
			parts = append(parts, "Die Projektwachstumsrate im letzten erfassten Jahr liegt bei "+fmtPct(*last.ProjectsGrowth, 1)+".")
		}
	}

	if len(p.TopCountries) > 0 {
		parts = append(parts, "Es sind "+fmtInt(len(p.TopCountries))+" Länder aktiv.")
	}

	return joinSentences(parts)
}

func totalActivitySentence(p panel.LandscapePanel, total int) string {
	return "Insgesamt wurden " + fmtInt(total) + " Aktivitäten identifiziert (" +
		fmtInt(p.TotalPatents) + " Patente, " +
		fmtInt(p.TotalProjects) + " Projekte, " +
		fmtInt(p.TotalPublications) + " Publikationen)."
}

func dominantSourceSentence(p panel.LandscapePanel, total int) string {
	dominant := "Patente"
	max := p.TotalPatents
	if p.TotalProjects > max {
		dominant, max = "Projekte", p.TotalProjects
	}
	if p.TotalPublications > max {
		dominant, max = "Publikationen", p.TotalPublications
	}

	share := 0.0
	if total > 0 {
		share = float64(max) / float64(total) * 100
	}

	return "Die dominante Quelle sind " + dominant + " mit einem Anteil von " + fmtPct(share, 1) + "."
}

func topCountrySentence(p panel.LandscapePanel) string {
	top := p.TopCountries[0]
	if top.Country == "" {
		return ""
	}
	return "Das führende Land ist " + top.Country + " mit " + fmtInt(top.Total) + " Aktivitäten."
}
