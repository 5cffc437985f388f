package runner

import "fmt"

// UnsetFieldError is returned when a step requires a value no prior step
// produced. For fatal steps this aborts the run.
type UnsetFieldError struct {
	Field string
}

func (e *UnsetFieldError) Error() string {
	return fmt.Sprintf("run state field %q was never set by a prior step", e.Field)
}

// RunState carries the values threaded between steps. Each value is set once
// by the step that produces it and is read-only afterward.
type RunState struct {
	baseURL  string
	email    string
	password string

	userID     string
	tenantID   string
	tenantName string
}

// NewRunState seeds the state with the values known before any step runs
func NewRunState(baseURL, email, password string) *RunState {
	return &RunState{
		baseURL:  baseURL,
		email:    email,
		password: password,
	}
}

func (s *RunState) BaseURL() string  { return s.baseURL }
func (s *RunState) Email() string    { return s.email }
func (s *RunState) Password() string { return s.password }

// SetUserID records the user ID produced by sign-up or sign-in. Setting a
// different value than one already recorded is an error: the same
// credentials must resolve to the same user across steps.
func (s *RunState) SetUserID(id string) error {
	if id == "" {
		return fmt.Errorf("user ID must not be empty")
	}
	if s.userID != "" && s.userID != id {
		return fmt.Errorf("user ID mismatch: sign-up returned %q, sign-in returned %q", s.userID, id)
	}
	s.userID = id
	return nil
}

func (s *RunState) UserID() (string, error) {
	if s.userID == "" {
		return "", &UnsetFieldError{Field: "user_id"}
	}
	return s.userID, nil
}

// SetTenant records the tenant produced by the create step
func (s *RunState) SetTenant(id, name string) error {
	if id == "" {
		return fmt.Errorf("tenant ID must not be empty")
	}
	if s.tenantID != "" {
		return fmt.Errorf("tenant already recorded as %q", s.tenantID)
	}
	s.tenantID = id
	s.tenantName = name
	return nil
}

func (s *RunState) TenantID() (string, error) {
	if s.tenantID == "" {
		return "", &UnsetFieldError{Field: "tenant_id"}
	}
	return s.tenantID, nil
}

func (s *RunState) TenantName() (string, error) {
	if s.tenantName == "" {
		return "", &UnsetFieldError{Field: "tenant_name"}
	}
	return s.tenantName, nil
}
