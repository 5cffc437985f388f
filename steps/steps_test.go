package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyshakhp/utm-smoke/client"
	"github.com/vyshakhp/utm-smoke/reporting"
	"github.com/vyshakhp/utm-smoke/runner"
	"github.com/vyshakhp/utm-smoke/types"
)

// fakeBackend implements just enough of the UTM backend for the smoke
// sequence: the auth recipe, the tenant API and the health endpoint.
type fakeBackend struct {
	// signUpStatus and signInStatus override the default "OK" responses
	signUpStatus string
	signInStatus string

	tenantStatus string

	signUpCalls      int
	signInCalls      int
	tenantCreates    int
	statusChecks     int
	listCalls        int
	detailCalls      int
	healthChecks     int
	lastCreatedSlug  string
	sessionValidated bool
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		b.healthChecks++
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		b.signUpCalls++
		status := b.signUpStatus
		if status == "" {
			status = client.AuthStatusOK
		}
		resp := map[string]interface{}{"status": status}
		if status == client.AuthStatusOK {
			resp["user"] = map[string]interface{}{"id": "user-123", "email": "user@example.com"}
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		b.signInCalls++
		status := b.signInStatus
		if status == "" {
			status = client.AuthStatusOK
		}
		resp := map[string]interface{}{"status": status}
		if status == client.AuthStatusOK {
			resp["user"] = map[string]interface{}{"id": "user-123", "email": "user@example.com"}
			w.Header().Set(client.HeaderAccessToken, "access-token-value")
			w.Header().Set(client.HeaderFrontToken, "front-token-value")
			http.SetCookie(w, &http.Cookie{Name: "sAccessToken", Value: "session-cookie"})
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("/api/v1/tenants", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(client.HeaderAccessToken) == "access-token-value" {
			b.sessionValidated = true
		}
		switch r.Method {
		case http.MethodPost:
			b.tenantCreates++
			var in client.CreateTenantInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			b.lastCreatedSlug = in.Slug
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"id":           "tenant-456",
					"name":         in.Name,
					"slug":         in.Slug,
					"status":       "pending",
					"metadata":     in.Metadata,
					"created_by":   "user-123",
					"member_count": 1,
				},
			})
		case http.MethodGet:
			b.listCalls++
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"data": []interface{}{
						map[string]interface{}{"id": "tenant-456", "name": "Test Company"},
					},
					"page": 1, "page_size": 10, "total_count": 1, "total_pages": 1,
				},
			})
		}
	})

	mux.HandleFunc("/api/v1/tenants/tenant-456/status", func(w http.ResponseWriter, r *http.Request) {
		b.statusChecks++
		status := b.tenantStatus
		if status == "" {
			status = "active"
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"status": status},
		})
	})

	mux.HandleFunc("/api/v1/tenants/tenant-456", func(w http.ResponseWriter, r *http.Request) {
		b.detailCalls++
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id":           "tenant-456",
				"name":         "Test Company",
				"slug":         "test-company-1",
				"status":       "active",
				"member_count": 1,
			},
		})
	})

	return mux
}

func runSequence(t *testing.T, backend *fakeBackend) (*runner.RunnerResult, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(server.Close)

	c, err := client.New(client.Config{BaseURL: server.URL})
	require.NoError(t, err)

	var out bytes.Buffer
	r, err := runner.NewStepRunner(runner.Config{
		Steps:      All(),
		Client:     c,
		Console:    reporting.NewConsole(&out),
		State:      runner.NewRunState(server.URL, "user@example.com", "secret"),
		TenantName: "Test Company",
		StatusWait: 0,
	})
	require.NoError(t, err)

	result, err := r.RunAllSteps(context.Background())
	require.NoError(t, err)
	return result, &out
}

func TestAllStepsAgainstHealthyBackend(t *testing.T) {
	backend := &fakeBackend{}
	result, out := runSequence(t, backend)

	assert.Equal(t, types.StepStatusPass, result.Status)
	assert.Equal(t, 7, result.Stats.Total)
	assert.Equal(t, 7, result.Stats.Passed)

	assert.Equal(t, 1, backend.healthChecks)
	assert.Equal(t, 1, backend.signUpCalls)
	assert.Equal(t, 1, backend.signInCalls)
	assert.Equal(t, 1, backend.tenantCreates)
	assert.Equal(t, 1, backend.statusChecks)
	assert.Equal(t, 1, backend.listCalls)
	assert.Equal(t, 1, backend.detailCalls)
	assert.True(t, backend.sessionValidated, "tenant calls carry the captured session headers")
	assert.Contains(t, backend.lastCreatedSlug, "test-company-")

	userID, err := result.State.UserID()
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	tenantID, err := result.State.TenantID()
	require.NoError(t, err)
	assert.Equal(t, "tenant-456", tenantID)

	output := out.String()
	assert.Contains(t, output, "1. Creating test user...")
	assert.Contains(t, output, "Tenant status: active")
	assert.Contains(t, output, "Found 1 tenant(s)")
}

func TestDuplicateEmailProceedsToSignIn(t *testing.T) {
	backend := &fakeBackend{signUpStatus: client.AuthStatusEmailAlreadyExists}
	result, out := runSequence(t, backend)

	assert.Equal(t, types.StepStatusPass, result.Status)
	assert.Equal(t, 1, backend.signInCalls)
	assert.Contains(t, out.String(), "already exists")
}

func TestFieldErrorProceedsToSignIn(t *testing.T) {
	backend := &fakeBackend{signUpStatus: client.AuthStatusFieldError}
	result, out := runSequence(t, backend)

	assert.Equal(t, types.StepStatusPass, result.Status)
	assert.Contains(t, out.String(), client.AuthStatusFieldError, "non-OK status stays visible")
}

func TestUnexpectedSignUpStatusIsFatal(t *testing.T) {
	backend := &fakeBackend{signUpStatus: "SOMETHING_NEW"}
	result, _ := runSequence(t, backend)

	assert.Equal(t, types.StepStatusFail, result.Status)
	assert.Equal(t, 0, backend.signInCalls, "run aborts before sign-in")
}

func TestWrongCredentialsAbortsRun(t *testing.T) {
	backend := &fakeBackend{signInStatus: client.AuthStatusWrongCredentials}
	result, _ := runSequence(t, backend)

	assert.Equal(t, types.StepStatusFail, result.Status)
	assert.Equal(t, 0, backend.tenantCreates, "tenant steps skipped after fatal sign-in failure")

	// preflight + sign-up pass, sign-in fails, four steps skipped
	assert.Equal(t, 2, result.Stats.Passed)
	assert.Equal(t, 1, result.Stats.Failed)
	assert.Equal(t, 4, result.Stats.Skipped)
}

func TestAdvisoryStatusFailureDoesNotFailRun(t *testing.T) {
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(server.Close)

	c, err := client.New(client.Config{BaseURL: server.URL})
	require.NoError(t, err)

	// Replace the status step with one pointing at a tenant the backend
	// doesn't know, so only the advisory check fails.
	steps := All()
	for i := range steps {
		if steps[i].Metadata.ID == "tenant-status" {
			steps[i].Fn = func(ctx context.Context, env *runner.Env) error {
				_, err := env.Client.TenantStatus(ctx, "unknown-tenant")
				return err
			}
		}
	}

	r, err := runner.NewStepRunner(runner.Config{
		Steps:      steps,
		Client:     c,
		Console:    reporting.NewConsole(&bytes.Buffer{}),
		State:      runner.NewRunState(server.URL, "user@example.com", "secret"),
		TenantName: "Test Company",
		StatusWait: 0,
	})
	require.NoError(t, err)

	result, err := r.RunAllSteps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.StepStatusPass, result.Status)
	assert.Equal(t, 1, result.Stats.Failed)
	assert.Equal(t, 1, backend.listCalls, "later advisory steps still run")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefghij", 5))
	assert.Equal(t, "abcde", truncate("abcde", 5))
}
