package smoke

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/vyshakhp/utm-smoke/flags"
)

// Config holds the application configuration
type Config struct {
	BaseURL    string
	Email      string
	Password   string
	TenantName string
	StatusWait time.Duration
	Log        log.Logger
}

// NewConfig creates a new Config from cli context. An unset email defaults
// to a unique address embedding the run timestamp, so repeated runs don't
// collide on the same user.
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	baseURL := ctx.String(flags.BaseURL.Name)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", baseURL)
	}

	email := ctx.String(flags.Email.Name)
	if email == "" {
		email = fmt.Sprintf("testuser-%d@example.com", time.Now().Unix())
	}

	password := ctx.String(flags.Password.Name)
	if password == "" {
		return nil, errors.New("password is required")
	}

	tenantName := ctx.String(flags.TenantName.Name)
	if tenantName == "" {
		return nil, errors.New("tenant name is required")
	}

	statusWait := ctx.Duration(flags.StatusWait.Name)
	if statusWait < 0 {
		return nil, errors.New("status wait must not be negative")
	}

	return &Config{
		BaseURL:    baseURL,
		Email:      email,
		Password:   password,
		TenantName: tenantName,
		StatusWait: statusWait,
		Log:        log,
	}, nil
}
