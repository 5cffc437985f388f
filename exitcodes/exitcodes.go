// Package exitcodes defines the standard exit codes used by utm-smoke.
package exitcodes

// Exit code constants used by utm-smoke
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when the fatal steps all pass; advisory step failures
//   do not affect the exit code
// * Failure (1): Used for fatal step failures, interruption, and any other
//   unhandled error
const (
	Success = 0
	Failure = 1
)
