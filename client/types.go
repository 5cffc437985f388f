package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// Auth statuses returned by the authentication recipe on sign-up/sign-in
const (
	AuthStatusOK                 = "OK"
	AuthStatusEmailAlreadyExists = "EMAIL_ALREADY_EXISTS_ERROR"
	AuthStatusFieldError         = "FIELD_ERROR"
	AuthStatusWrongCredentials   = "WRONG_CREDENTIALS_ERROR"
)

// AuthUser is the user object embedded in sign-up/sign-in responses
type AuthUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	TimeJoined int64  `json:"timeJoined"`
}

// AuthResponse is the decoded body of a sign-up or sign-in call
type AuthResponse struct {
	Status string    `json:"status"`
	User   *AuthUser `json:"user,omitempty"`

	HTTPStatus int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

// OK returns true when the auth service accepted the call
func (r *AuthResponse) OK() bool {
	return r.Status == AuthStatusOK
}

// SessionTokens are the header tokens issued on sign-in
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	FrontToken   string
}

// SignInResult bundles the sign-in body with the session tokens captured
// from the response headers
type SignInResult struct {
	AuthResponse
	Tokens SessionTokens
}

// envelope is the backend's standard response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Tenant mirrors the backend's tenant representation
type Tenant struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Status      string                 `json:"status"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedBy   string                 `json:"created_by"`
	MemberCount int                    `json:"member_count"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// CreateTenantInput is the request body for tenant creation
type CreateTenantInput struct {
	Name     string                 `json:"name"`
	Slug     string                 `json:"slug"`
	Metadata map[string]interface{} `json:"metadata"`
}

// TenantResponse is the decoded result of a create/get tenant call
type TenantResponse struct {
	Tenant Tenant

	HTTPStatus int
	Raw        json.RawMessage
}

// TenantStatusResponse is the decoded result of a tenant status call
type TenantStatusResponse struct {
	Status string

	HTTPStatus int
	Raw        json.RawMessage
}

// TenantPage is the paginated tenant listing inside the envelope
type TenantPage struct {
	Tenants    []Tenant `json:"data"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalCount int64    `json:"total_count"`
	TotalPages int      `json:"total_pages"`
}

// TenantListResponse is the decoded result of a list tenants call
type TenantListResponse struct {
	Page TenantPage

	HTTPStatus int
	Raw        json.RawMessage
}

// HealthResponse is the decoded result of a health probe
type HealthResponse struct {
	HTTPStatus int
	Raw        json.RawMessage
}

// MalformedResponseError indicates a response that decoded as JSON but is
// missing a field the harness requires to continue
type MalformedResponseError struct {
	Endpoint string
	Field    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: missing required field %q", e.Endpoint, e.Field)
}

// APIError indicates a response the backend did reply with, but whose HTTP
// status or envelope signals failure. Body keeps the raw payload so steps
// can still print what came back.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected response from %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected response from %s: status %d", e.Endpoint, e.StatusCode)
}
