// Package narrative renders a subset of the radar panels into short German
// prose summaries. Every function here is pure and stateless: it reads a
// panel and returns a string, with no I/O and no access to any model beyond
// the panel's own fields. Engines emit typed panels only; this package is a
// separate rendering step layered on top, never embedded in an engine.
package narrative

import (
	"fmt"
	"strconv"
	"strings"
)

// fmtInt renders an integer with the German thousands separator (1.234).
func fmtInt(value int) string {
	s := strconv.Itoa(value)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var out []byte
	for i, r := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, r)
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// fmtPct renders a percentage with a German decimal comma (67,3%).
func fmtPct(value float64, decimals int) string {
	s := strconv.FormatFloat(value, 'f', decimals, 64)
	return strings.Replace(s, ".", ",", 1) + "%"
}

// trendWord maps a CAGR value to a qualitative German phrase.
func trendWord(cagr float64) string {
	switch {
	case cagr > 15:
		return "sehr starkes Wachstum"
	case cagr > 5:
		return "solides Wachstum"
	case cagr > 0:
		return "leichtes Wachstum"
	case cagr > -5:
		return "Stagnation"
	default:
		return "einen Rückgang"
	}
}

// fitQuality maps an R² value to a qualitative German adjective.
func fitQuality(rSquared float64) string {
	switch {
	case rSquared >= 0.9:
		return "exzellente"
	case rSquared >= 0.7:
		return "gute"
	case rSquared >= 0.5:
		return "akzeptable"
	default:
		return "schwache"
	}
}

// joinSentences concatenates sentence fragments with single spaces, the
// same join rule the source templates use.
func joinSentences(parts []string) string {
	return strings.Join(parts, " ")
}

// rSquaredString formats an R² value to three decimals with a German comma,
// matching the "R² = 0,932" style of the source templates.
func rSquaredString(rSquared float64) string {
	return fmt.Sprintf("R² = %s", strings.Replace(strconv.FormatFloat(rSquared, 'f', 3, 64), ".", ",", 1))
}
