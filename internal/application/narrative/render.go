package narrative

import "github.com/KingdaKilla/ti-radar/internal/domain/panel"

// Render walks a radar response and fills each covered panel's AnalysisText
// field in place. Panels without a dedicated generator are left untouched —
// this renderer covers the landscape and maturity panels only; it is a
// presentation-layer concern kept separate from the analysis engines, not a
// replacement for the rest of the panel set.
func Render(resp *panel.Response) {
	resp.Landscape.AnalysisText = Landscape(resp.Landscape)
	resp.Maturity.AnalysisText = Maturity(resp.Maturity)
}
