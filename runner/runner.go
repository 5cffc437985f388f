// Package runner executes the smoke steps in strict order. A failing fatal
// step aborts the run and marks the remaining steps skipped; a failing
// advisory step is recorded and the run continues.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/vyshakhp/utm-smoke/client"
	"github.com/vyshakhp/utm-smoke/metrics"
	"github.com/vyshakhp/utm-smoke/reporting"
	"github.com/vyshakhp/utm-smoke/types"
)

// Env is what a step gets to work with: the shared API client, the values
// threaded between steps, and the console for operator-facing output.
type Env struct {
	Log     log.Logger
	Client  *client.Client
	Console *reporting.Console
	State   *RunState

	// TenantName is the display name requested for the created tenant
	TenantName string

	// StatusWait is the delay before the tenant status check, giving the
	// backend's background initialization job time to complete.
	StatusWait time.Duration
}

// Wait sleeps for d unless the run is interrupted first
func (e *Env) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Step is one entry in the smoke sequence
type Step struct {
	Metadata types.StepMetadata
	Fn       func(ctx context.Context, env *Env) error
}

// StepResult captures the outcome of a single step
type StepResult struct {
	Metadata types.StepMetadata
	Status   types.StepStatus
	Error    error
	Duration time.Duration
}

// ResultStats tracks aggregate counts for a run
type ResultStats struct {
	Total     int
	Passed    int
	Failed    int
	Skipped   int
	StartTime time.Time
	EndTime   time.Time
}

// RunnerResult captures the complete run. Status reflects only fatal steps:
// advisory failures are counted in Stats but do not fail the run.
type RunnerResult struct {
	RunID       string
	Steps       []*StepResult
	Status      types.StepStatus
	Interrupted bool
	Duration    time.Duration
	Stats       ResultStats
	State       *RunState
}

// String returns a formatted one-line-per-step representation of the run
func (r *RunnerResult) String() string {
	out := fmt.Sprintf("Smoke Run Results (%s):\n", formatDuration(r.Duration))
	out += fmt.Sprintf("Total: %d, Passed: %d, Failed: %d, Skipped: %d\n",
		r.Stats.Total, r.Stats.Passed, r.Stats.Failed, r.Stats.Skipped)
	for _, step := range r.Steps {
		out += fmt.Sprintf("├── %s (%s) [%s]\n", step.Metadata.ID, formatDuration(step.Duration), step.Status)
		if step.Error != nil {
			out += fmt.Sprintf("│       └── Error: %v\n", step.Error)
		}
	}
	return out
}

// StepRunner executes a configured step sequence
type StepRunner interface {
	RunAllSteps(ctx context.Context) (*RunnerResult, error)
}

type Config struct {
	Steps      []Step
	Client     *client.Client
	Console    *reporting.Console
	State      *RunState
	TenantName string
	StatusWait time.Duration
	Log        log.Logger
}

type stepRunner struct {
	steps []Step
	env   *Env
	log   log.Logger
}

// NewStepRunner creates a runner for the given step sequence
func NewStepRunner(cfg Config) (StepRunner, error) {
	if len(cfg.Steps) == 0 {
		return nil, fmt.Errorf("no steps configured")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if cfg.State == nil {
		return nil, fmt.Errorf("run state is required")
	}
	if cfg.Console == nil {
		cfg.Console = reporting.NewConsole(nil)
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	return &stepRunner{
		steps: cfg.Steps,
		env: &Env{
			Log:        cfg.Log,
			Client:     cfg.Client,
			Console:    cfg.Console,
			State:      cfg.State,
			TenantName: cfg.TenantName,
			StatusWait: cfg.StatusWait,
		},
		log: cfg.Log,
	}, nil
}

// RunAllSteps implements the StepRunner interface. The returned error is
// reserved for runner-level faults; step failures are reported through the
// result.
func (r *stepRunner) RunAllSteps(ctx context.Context) (*RunnerResult, error) {
	start := time.Now()
	result := &RunnerResult{
		RunID:  uuid.New().String(),
		Status: types.StepStatusPass,
		State:  r.env.State,
		Stats:  ResultStats{StartTime: start},
	}
	r.log.Debug("Running all steps", "run_id", result.RunID, "steps", len(r.steps))

	aborted := false
	for _, step := range r.steps {
		if aborted || result.Interrupted {
			result.record(&StepResult{Metadata: step.Metadata, Status: types.StepStatusSkip})
			continue
		}
		if err := ctx.Err(); err != nil {
			r.log.Warn("Run interrupted before step", "step", step.Metadata.ID)
			result.Interrupted = true
			result.record(&StepResult{Metadata: step.Metadata, Status: types.StepStatusSkip})
			continue
		}

		stepResult := r.runStep(ctx, step)
		result.record(stepResult)
		metrics.RecordStep(result.RunID, step.Metadata.ID, string(step.Metadata.Severity), stepResult.Status)

		if stepResult.Status != types.StepStatusFail {
			continue
		}
		if ctx.Err() != nil {
			result.Interrupted = true
			continue
		}
		if step.Metadata.IsFatal() {
			r.log.Error("Fatal step failed, aborting run", "step", step.Metadata.ID, "error", stepResult.Error)
			result.Status = types.StepStatusFail
			aborted = true
		} else {
			r.log.Warn("Advisory step failed, continuing", "step", step.Metadata.ID, "error", stepResult.Error)
		}
	}

	result.Duration = time.Since(start)
	result.Stats.EndTime = time.Now()
	return result, nil
}

// runStep executes one step, converting panics and errors into a result at
// the step boundary
func (r *stepRunner) runStep(ctx context.Context, step Step) (result *StepResult) {
	start := time.Now()
	r.log.Info("Running step", "step", step.Metadata.ID, "severity", step.Metadata.Severity)

	result = &StepResult{Metadata: step.Metadata}
	defer func() {
		if p := recover(); p != nil {
			result.Status = types.StepStatusFail
			result.Error = fmt.Errorf("step %s panicked: %v", step.Metadata.ID, p)
		}
		result.Duration = time.Since(start)
	}()

	if err := step.Fn(ctx, r.env); err != nil {
		result.Status = types.StepStatusFail
		result.Error = err
		return result
	}
	result.Status = types.StepStatusPass
	return result
}

func (r *RunnerResult) record(step *StepResult) {
	r.Steps = append(r.Steps, step)
	r.Stats.Total++
	switch step.Status {
	case types.StepStatusPass:
		r.Stats.Passed++
	case types.StepStatusFail:
		r.Stats.Failed++
	case types.StepStatusSkip:
		r.Stats.Skipped++
	}
}

// formatDuration formats the duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
