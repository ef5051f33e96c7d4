package kernel

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ApiAlertLevel is the severity of a computed API-health alert.
type ApiAlertLevel string

const (
	ApiAlertWarning ApiAlertLevel = "warning"
	ApiAlertError   ApiAlertLevel = "error"
)

// ApiAlert is a single provenance-surfaced signal about the health of an
// external collaborator (an expiring credential, or a detected upstream
// failure pattern in the aggregated warnings).
type ApiAlert struct {
	Source  string
	Level   ApiAlertLevel
	Message string
}

const expiryWarningWindow = 3 * 24 * time.Hour

// CheckJWTExpiry locally base64url-decodes a JWT's payload (no signature
// verification — this is an observer of the claimed expiry, not an
// authority on the token) and compares its exp claim against now. Returns
// nil when the token is missing, not JWT-shaped, has no exp claim, is still
// comfortably valid, or auto-refresh is available (hasRefreshToken) so the
// expiry is not user-actionable.
func CheckJWTExpiry(token, sourceName string, now time.Time, hasRefreshToken bool) *ApiAlert {
	if token == "" || !strings.Contains(token, ".") {
		return nil
	}
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil
	}

	payload, ok := decodeJWTPayload(parts[1])
	if !ok {
		return nil
	}

	exp, ok := payload["exp"]
	if !ok {
		return nil
	}
	expUnix, ok := toFloat(exp)
	if !ok {
		return nil
	}

	remaining := time.Unix(int64(expUnix), 0).Sub(now)

	if remaining <= 0 {
		if hasRefreshToken {
			return nil
		}
		hoursAgo := -remaining.Hours()
		return &ApiAlert{
			Source:  sourceName,
			Level:   ApiAlertError,
			Message: fmt.Sprintf("%s-Token abgelaufen (seit %.0fh)", sourceName, hoursAgo),
		}
	}

	if remaining < expiryWarningWindow {
		if hasRefreshToken {
			return nil
		}
		hoursLeft := remaining.Hours()
		var timeStr string
		if hoursLeft >= 24 {
			timeStr = fmt.Sprintf("%.1f Tagen", hoursLeft/24)
		} else {
			timeStr = fmt.Sprintf("%.0f Stunden", hoursLeft)
		}
		return &ApiAlert{
			Source:  sourceName,
			Level:   ApiAlertWarning,
			Message: fmt.Sprintf("%s-Token laeuft in %s ab", sourceName, timeStr),
		}
	}

	return nil
}

// ShouldRefreshJWT reports whether token's exp claim is within window of now,
// or has already passed. Used by adapters deciding whether to opportunistically
// refresh a credential before a request batch, independent of the wider
// expiryWarningWindow used for provenance alerts. Returns false when the
// token is missing, malformed, or carries no exp claim — callers should not
// refresh a token whose expiry cannot be determined.
func ShouldRefreshJWT(token string, now time.Time, window time.Duration) bool {
	if token == "" || !strings.Contains(token, ".") {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return false
	}

	payload, ok := decodeJWTPayload(parts[1])
	if !ok {
		return false
	}

	exp, ok := payload["exp"]
	if !ok {
		return false
	}
	expUnix, ok := toFloat(exp)
	if !ok {
		return false
	}

	remaining := time.Unix(int64(expUnix), 0).Sub(now)
	return remaining < window
}

func decodeJWTPayload(segment string) (map[string]any, bool) {
	if rem := len(segment) % 4; rem != 0 {
		segment += strings.Repeat("=", 4-rem)
	}
	raw, err := base64.URLEncoding.DecodeString(segment)
	if err != nil {
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// failurePattern maps a known warning substring to the external source it
// implicates.
type failurePattern struct {
	substring string
	source    string
}

var failurePatterns = []failurePattern{
	{"paper search failed", "Semantic Scholar"},
	{"entity resolution failed", "GLEIF"},
	{"publication query for", "OpenAIRE"},
}

// DetectRuntimeFailures scans the aggregated panel warnings for known
// failure fragments and converts each distinct matching source into an
// error-level ApiAlert, reporting each source at most once.
func DetectRuntimeFailures(warnings []string) []ApiAlert {
	var alerts []ApiAlert
	seen := make(map[string]struct{})

	for _, warning := range warnings {
		for _, pattern := range failurePatterns {
			if _, already := seen[pattern.source]; already {
				continue
			}
			if strings.Contains(warning, pattern.substring) {
				alerts = append(alerts, ApiAlert{
					Source:  pattern.source,
					Level:   ApiAlertError,
					Message: pattern.source + ": Daten nicht verfuegbar",
				})
				seen[pattern.source] = struct{}{}
			}
		}
	}
	return alerts
}
