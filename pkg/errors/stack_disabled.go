//go:build nostack

package errors

// captureStack is a no-op under the nostack build tag so New/Wrap carry zero
// stack-capture overhead in latency-sensitive deployments.
func captureStack(skip int) string {
	return ""
}
