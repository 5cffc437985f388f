package steps

import (
	"context"

	"github.com/vyshakhp/utm-smoke/runner"
	"github.com/vyshakhp/utm-smoke/types"
)

// Preflight probes the backend's health endpoint before the run proper.
// Advisory: an unreachable backend will fail the sign-up step anyway, but a
// failed preflight makes the cause obvious up front.
var Preflight = runner.Step{
	Metadata: types.StepMetadata{
		ID:          "preflight",
		Description: "Check backend health",
		Severity:    types.SeverityAdvisory,
	},
	Fn: func(ctx context.Context, env *runner.Env) error {
		env.Console.Section("Preflight: checking backend health...")
		resp, err := env.Client.Health(ctx)
		if err != nil {
			env.Console.Failuref("Backend health check failed: %v", err)
			return err
		}
		env.Console.JSON(resp.Raw)
		env.Console.Successf("Backend is reachable")
		return nil
	},
}
