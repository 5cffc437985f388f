package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/vyshakhp/utm-smoke/client"
	"github.com/vyshakhp/utm-smoke/runner"
	"github.com/vyshakhp/utm-smoke/types"
)

// CreateTenant creates a tenant with a timestamped slug. Requires HTTP 201
// and a truthy envelope; the created tenant's ID and name are threaded to
// the remaining steps.
var CreateTenant = runner.Step{
	Metadata: types.StepMetadata{
		ID:          "create-tenant",
		Description: "Create tenant",
		Severity:    types.SeverityFatal,
	},
	Fn: func(ctx context.Context, env *runner.Env) error {
		env.Console.Section("3. Creating tenant...")

		resp, err := env.Client.CreateTenant(ctx, client.CreateTenantInput{
			Name: env.TenantName,
			Slug: fmt.Sprintf("test-company-%d", time.Now().Unix()),
			Metadata: map[string]interface{}{
				"industry": "technology",
				"size":     "10-50",
				"test":     true,
			},
		})
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				env.Console.Printf("Status Code: %d", apiErr.StatusCode)
				env.Console.JSON(apiErr.Body)
			}
			env.Console.Failuref("Failed to create tenant: %v", err)
			return err
		}

		env.Console.Printf("Status Code: %d", resp.HTTPStatus)
		env.Console.JSON(resp.Raw)

		if err := env.State.SetTenant(resp.Tenant.ID, resp.Tenant.Name); err != nil {
			return err
		}
		env.Console.Successf("Tenant created successfully")
		env.Console.Printf("Tenant ID: %s", resp.Tenant.ID)
		env.Console.Printf("Tenant Name: %s", resp.Tenant.Name)
		return nil
	},
}

// TenantStatus waits for the backend's initialization job, then reports the
// tenant's status. The wait is a heuristic delay, not a poll loop.
var TenantStatus = runner.Step{
	Metadata: types.StepMetadata{
		ID:          "tenant-status",
		Description: "Check tenant status",
		Severity:    types.SeverityAdvisory,
	},
	Fn: func(ctx context.Context, env *runner.Env) error {
		env.Console.Section("4. Checking tenant status...")

		if err := env.Wait(ctx, env.StatusWait); err != nil {
			return err
		}

		tenantID, err := env.State.TenantID()
		if err != nil {
			env.Console.Failuref("Error checking status: %v", err)
			return err
		}

		resp, err := env.Client.TenantStatus(ctx, tenantID)
		if err != nil {
			env.Console.Failuref("Error checking status: %v", err)
			return err
		}
		env.Console.JSON(resp.Raw)
		env.Console.Successf("Tenant status: %s", resp.Status)
		return nil
	},
}

// ListTenants lists the user's tenants and reports the total count
var ListTenants = runner.Step{
	Metadata: types.StepMetadata{
		ID:          "list-tenants",
		Description: "List user's tenants",
		Severity:    types.SeverityAdvisory,
	},
	Fn: func(ctx context.Context, env *runner.Env) error {
		env.Console.Section("5. Listing user's tenants...")

		resp, err := env.Client.ListTenants(ctx)
		if err != nil {
			env.Console.Failuref("Error listing tenants: %v", err)
			return err
		}
		env.Console.JSON(resp.Raw)
		env.Console.Successf("Found %d tenant(s)", resp.Page.TotalCount)
		return nil
	},
}

// TenantDetails fetches the created tenant's details
var TenantDetails = runner.Step{
	Metadata: types.StepMetadata{
		ID:          "tenant-details",
		Description: "Get tenant details",
		Severity:    types.SeverityAdvisory,
	},
	Fn: func(ctx context.Context, env *runner.Env) error {
		env.Console.Section("6. Getting tenant details...")

		tenantID, err := env.State.TenantID()
		if err != nil {
			env.Console.Failuref("Error getting tenant details: %v", err)
			return err
		}

		resp, err := env.Client.GetTenant(ctx, tenantID)
		if err != nil {
			env.Console.Failuref("Error getting tenant details: %v", err)
			return err
		}
		env.Console.JSON(resp.Raw)
		env.Console.Successf("Retrieved tenant details")
		return nil
	},
}
