package smoke

import (
	"fmt"
	"time"

	"github.com/vyshakhp/utm-smoke/types"
)

// Helper function to convert bool to int
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// getResultString returns a colored string representing the step result
func getResultString(status types.StepStatus) string {
	switch status {
	case types.StepStatusPass:
		return "✓ pass"
	case types.StepStatusSkip:
		return "- skip"
	default:
		return "✗ fail"
	}
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
