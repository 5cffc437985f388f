// Package steps defines the smoke sequence run against a deployed UTM
// backend: sign up, sign in, create a tenant, then query tenant status,
// listing and details. Steps 1-3 are fatal; the rest are advisory.
package steps

import "github.com/vyshakhp/utm-smoke/runner"

// All returns the smoke steps in execution order
func All() []runner.Step {
	return []runner.Step{
		Preflight,
		SignUp,
		SignIn,
		CreateTenant,
		TenantStatus,
		ListTenants,
		TenantDetails,
	}
}

// truncate shortens long opaque values (tokens, cookies) for display
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
