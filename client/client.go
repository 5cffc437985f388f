// Package client is a typed HTTP client for the UTM backend, covering the
// auth recipe endpoints and the tenant API. It owns the session state carried
// across a smoke run: cookies set by the auth service plus the token headers
// captured on sign-in.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

// Session header names used by the auth service
const (
	HeaderAccessToken  = "st-access-token"
	HeaderRefreshToken = "st-refresh-token"
	HeaderFrontToken   = "front-token"

	headerRecipeID      = "rid"
	recipeEmailPassword = "emailpassword"
)

type Config struct {
	BaseURL string
	Log     log.Logger
}

// Client is a stateful API client for one smoke run. It is used from a
// single goroutine; the run is strictly sequential.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    map[string]string
	log        log.Logger
}

// New creates a client for the given base URL. The underlying http.Client
// carries a cookie jar and no explicit timeout; calls inherit transport
// defaults and are canceled through the request context.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base URL %q", cfg.BaseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base URL %q must include scheme and host", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}

	if cfg.Log == nil {
		cfg.Log = log.New()
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Jar: jar},
		headers:    make(map[string]string),
		log:        cfg.Log,
	}, nil
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SessionHeaders returns a copy of the custom headers applied to requests
func (c *Client) SessionHeaders() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// Cookies returns the session cookies currently held for the base URL
func (c *Client) Cookies() []*http.Cookie {
	return c.httpClient.Jar.Cookies(c.baseURL)
}

type formField struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type authRequest struct {
	FormFields []formField `json:"formFields"`
}

func newAuthRequest(email, password string) authRequest {
	return authRequest{
		FormFields: []formField{
			{ID: "email", Value: email},
			{ID: "password", Value: password},
		},
	}
}

// SignUp creates a user through the auth recipe. Non-OK statuses are not
// errors at this layer; the caller decides whether EMAIL_ALREADY_EXISTS or
// FIELD_ERROR lets the run proceed.
func (c *Client) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	resp, raw, err := c.do(ctx, http.MethodPost, "/auth/signup", newAuthRequest(email, password), map[string]string{
		headerRecipeID: recipeEmailPassword,
	})
	if err != nil {
		return nil, err
	}
	out, err := decodeAuthResponse("POST /auth/signup", resp, raw)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SignIn authenticates the user and, on success, captures the session
// tokens from the response headers and merges the access and front tokens
// into the headers applied to all subsequent requests.
func (c *Client) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	resp, raw, err := c.do(ctx, http.MethodPost, "/auth/signin", newAuthRequest(email, password), map[string]string{
		headerRecipeID: recipeEmailPassword,
	})
	if err != nil {
		return nil, err
	}
	out, err := decodeAuthResponse("POST /auth/signin", resp, raw)
	if err != nil {
		return nil, err
	}

	result := &SignInResult{
		AuthResponse: *out,
		Tokens: SessionTokens{
			AccessToken:  resp.Header.Get(HeaderAccessToken),
			RefreshToken: resp.Header.Get(HeaderRefreshToken),
			FrontToken:   resp.Header.Get(HeaderFrontToken),
		},
	}

	if out.OK() {
		if result.Tokens.AccessToken != "" {
			c.headers[HeaderAccessToken] = result.Tokens.AccessToken
		}
		if result.Tokens.FrontToken != "" {
			c.headers[HeaderFrontToken] = result.Tokens.FrontToken
		}
	}
	return result, nil
}

// CreateTenant creates a tenant. Success requires HTTP 201 and a truthy
// envelope; anything else is an APIError carrying the raw body.
func (c *Client) CreateTenant(ctx context.Context, in CreateTenantInput) (*TenantResponse, error) {
	const endpoint = "POST /api/v1/tenants"
	resp, raw, err := c.do(ctx, http.MethodPost, "/api/v1/tenants", in, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(endpoint, resp.StatusCode, raw)
	}
	env, err := decodeEnvelope(endpoint, resp.StatusCode, raw)
	if err != nil {
		return nil, err
	}
	tenant, err := decodeTenant(endpoint, env.Data)
	if err != nil {
		return nil, err
	}
	return &TenantResponse{Tenant: *tenant, HTTPStatus: resp.StatusCode, Raw: raw}, nil
}

// TenantStatus fetches the initialization status of a tenant
func (c *Client) TenantStatus(ctx context.Context, tenantID string) (*TenantStatusResponse, error) {
	endpoint := "GET /api/v1/tenants/" + tenantID + "/status"
	resp, raw, err := c.do(ctx, http.MethodGet, "/api/v1/tenants/"+url.PathEscape(tenantID)+"/status", nil, nil)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(endpoint, resp.StatusCode, raw)
	if err != nil {
		return nil, err
	}
	var data struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errors.Wrapf(err, "decoding %s data", endpoint)
	}
	if data.Status == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "data.status"}
	}
	return &TenantStatusResponse{Status: data.Status, HTTPStatus: resp.StatusCode, Raw: raw}, nil
}

// ListTenants fetches the caller's tenants
func (c *Client) ListTenants(ctx context.Context) (*TenantListResponse, error) {
	const endpoint = "GET /api/v1/tenants"
	resp, raw, err := c.do(ctx, http.MethodGet, "/api/v1/tenants", nil, nil)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(endpoint, resp.StatusCode, raw)
	if err != nil {
		return nil, err
	}
	var page TenantPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		return nil, errors.Wrapf(err, "decoding %s data", endpoint)
	}
	return &TenantListResponse{Page: page, HTTPStatus: resp.StatusCode, Raw: raw}, nil
}

// GetTenant fetches a tenant's details
func (c *Client) GetTenant(ctx context.Context, tenantID string) (*TenantResponse, error) {
	endpoint := "GET /api/v1/tenants/" + tenantID
	resp, raw, err := c.do(ctx, http.MethodGet, "/api/v1/tenants/"+url.PathEscape(tenantID), nil, nil)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(endpoint, resp.StatusCode, raw)
	if err != nil {
		return nil, err
	}
	tenant, err := decodeTenant(endpoint, env.Data)
	if err != nil {
		return nil, err
	}
	return &TenantResponse{Tenant: *tenant, HTTPStatus: resp.StatusCode, Raw: raw}, nil
}

// Health probes the backend's health endpoint
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	const endpoint = "GET /health"
	resp, raw, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(endpoint, resp.StatusCode, raw)
	}
	return &HealthResponse{HTTPStatus: resp.StatusCode, Raw: raw}, nil
}

// do sends one request and returns the response with its fully-read body.
// Session headers are applied to every request; extra headers win on clash.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, extra map[string]string) (*http.Response, []byte, error) {
	u := c.baseURL.JoinPath(path)

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "encoding %s %s request body", method, path)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "creating %s %s request", method, path)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	c.log.Debug("sending request", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "sending %s %s request", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading %s %s response body", method, path)
	}
	c.log.Debug("received response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(raw))
	return resp, raw, nil
}

func decodeAuthResponse(endpoint string, resp *http.Response, raw []byte) (*AuthResponse, error) {
	var out AuthResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "decoding %s response", endpoint)
	}
	if out.Status == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "status"}
	}
	if out.Status == AuthStatusOK && (out.User == nil || out.User.ID == "") {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "user.id"}
	}
	out.HTTPStatus = resp.StatusCode
	out.Raw = raw
	return &out, nil
}

func decodeEnvelope(endpoint string, statusCode int, raw []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrapf(err, "decoding %s response", endpoint)
	}
	if !env.Success {
		return nil, apiError(endpoint, statusCode, raw)
	}
	if len(env.Data) == 0 {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "data"}
	}
	return &env, nil
}

func decodeTenant(endpoint string, data json.RawMessage) (*Tenant, error) {
	var tenant Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, errors.Wrapf(err, "decoding %s data", endpoint)
	}
	if tenant.ID == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "data.id"}
	}
	if tenant.Name == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Field: "data.name"}
	}
	return &tenant, nil
}

// apiError builds an APIError, surfacing the envelope's error message when
// the body parses as one
func apiError(endpoint string, statusCode int, raw []byte) *APIError {
	var env envelope
	msg := ""
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Error != "" {
			msg = env.Error
		} else if env.Message != "" {
			msg = env.Message
		}
	}
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: msg, Body: raw}
}
