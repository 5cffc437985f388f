// Package smoke runs an end-to-end smoke sequence against a deployed UTM
// backend and reports per-step pass/fail plus a final summary.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/vyshakhp/utm-smoke/client"
	"github.com/vyshakhp/utm-smoke/exitcodes"
	"github.com/vyshakhp/utm-smoke/metrics"
	"github.com/vyshakhp/utm-smoke/reporting"
	"github.com/vyshakhp/utm-smoke/runner"
	"github.com/vyshakhp/utm-smoke/steps"
	"github.com/vyshakhp/utm-smoke/types"
)

// smoke implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &smoke{}

// smoke owns one run of the step sequence.
type smoke struct {
	ctx     context.Context
	config  *Config
	version string
	client  *client.Client
	runner  runner.StepRunner
	console *reporting.Console
	result  *runner.RunnerResult

	running atomic.Bool

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*smoke, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating smoke harness with config",
		"baseURL", config.BaseURL,
		"email", config.Email,
		"tenantName", config.TenantName,
		"statusWait", config.StatusWait)

	apiClient, err := client.New(client.Config{
		BaseURL: config.BaseURL,
		Log:     config.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	console := reporting.NewConsole(os.Stdout)
	stepRunner, err := runner.NewStepRunner(runner.Config{
		Steps:      steps.All(),
		Client:     apiClient,
		Console:    console,
		State:      runner.NewRunState(config.BaseURL, config.Email, config.Password),
		TenantName: config.TenantName,
		StatusWait: config.StatusWait,
		Log:        config.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create step runner: %w", err)
	}
	config.Log.Info("smoke.New: created API client and step runner")

	return &smoke{
		ctx:              ctx,
		config:           config,
		version:          version,
		client:           apiClient,
		runner:           stepRunner,
		console:          console,
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the smoke sequence once and returns an error describing the
// failure mode, if any. Start implements the cliapp.Lifecycle interface.
func (s *smoke) Start(ctx context.Context) error {
	// Panics anywhere in the run map to the failure exit code
	defer func() {
		if r := recover(); r != nil {
			s.config.Log.Error("Unhandled error during smoke run", "error", r)
			os.Exit(exitcodes.Failure)
		}
	}()

	s.ctx = ctx
	s.running.Store(true)

	s.config.Log.Info("Starting utm-smoke", "base_url", s.config.BaseURL)
	s.console.Printf("=== UTM Backend API Test ===")

	result, err := s.runner.RunAllSteps(ctx)
	if err != nil {
		s.config.Log.Error("Runtime error running steps", "error", err)
		return NewRuntimeError(err)
	}
	s.result = result

	s.printResultsTable(result.RunID)
	fmt.Println(result.String())
	metrics.RecordRun(result.RunID, string(result.Status),
		result.Stats.Total, result.Stats.Passed, result.Stats.Failed, result.Duration)
	s.config.Log.Info("Smoke run completed", "run_id", result.RunID, "status", result.Status)

	if result.Interrupted {
		s.console.Warnf("Test interrupted by user")
		return &InterruptedError{}
	}
	if result.Status == types.StepStatusFail {
		return NewStepFailureError(result.String())
	}

	s.printSummary()

	go func() {
		s.shutdownCallback(nil)
	}()
	return nil
}

// Stop stops the smoke service.
// Stop implements the cliapp.Lifecycle interface.
func (s *smoke) Stop(ctx context.Context) error {
	s.running.Store(false)
	s.config.Log.Info("utm-smoke stopped")
	return nil
}

// Stopped returns true if the smoke service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (s *smoke) Stopped() bool {
	return !s.running.Load()
}

// printResultsTable prints the per-step results to the console.
func (s *smoke) printResultsTable(runID string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Smoke Results (run_id=%s, %s)", runID, formatDuration(s.result.Duration)))

	t.AppendHeader(table.Row{
		"Step", "Severity", "Duration", "Passed", "Failed", "Skipped", "Status", "Error",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Step", WidthMax: 30},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, step := range s.result.Steps {
		errMsg := ""
		if step.Error != nil {
			errMsg = step.Error.Error()
		}
		t.AppendRow(table.Row{
			step.Metadata.ID,
			string(step.Metadata.Severity),
			formatDuration(step.Duration),
			boolToInt(step.Status == types.StepStatusPass),
			boolToInt(step.Status == types.StepStatusFail),
			boolToInt(step.Status == types.StepStatusSkip),
			getResultString(step.Status),
			errMsg,
		})
	}

	if s.result.Status == types.StepStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatDuration(s.result.Duration),
		s.result.Stats.Passed,
		s.result.Stats.Failed,
		s.result.Stats.Skipped,
		getResultString(s.result.Status),
		"",
	})

	t.Render()
}

// printSummary prints the captured identifiers after a fully green run
func (s *smoke) printSummary() {
	state := s.result.State

	s.console.Successf("=== All tests passed! ===")
	s.console.Printf("\nSummary:")
	s.console.Printf("  User Email: %s", state.Email())
	if userID, err := state.UserID(); err == nil {
		s.console.Printf("  User ID: %s", userID)
	}
	if tenantID, err := state.TenantID(); err == nil {
		s.console.Printf("  Tenant ID: %s", tenantID)
	}
	if tenantName, err := state.TenantName(); err == nil {
		s.console.Printf("  Tenant Name: %s", tenantName)
	}
	s.console.Printf("  API Base URL: %s", state.BaseURL())
}
