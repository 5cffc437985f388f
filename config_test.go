package smoke

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/vyshakhp/utm-smoke/flags"
)

func parseConfig(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	app := cli.NewApp()
	app.Flags = flags.Flags

	var cfg *Config
	var cfgErr error
	app.Action = func(c *cli.Context) error {
		cfg, cfgErr = NewConfig(c, log.New())
		return nil
	}
	require.NoError(t, app.Run(append([]string{"utm-smoke"}, args...)))
	return cfg, cfgErr
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(t)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Contains(t, cfg.Email, "@example.com")
	assert.Contains(t, cfg.Email, "testuser-", "generated email embeds the run timestamp")
	assert.NotEmpty(t, cfg.Password)
	assert.Equal(t, "Test Company", cfg.TenantName)
	assert.Equal(t, 2*time.Second, cfg.StatusWait)
	assert.NotNil(t, cfg.Log)
}

func TestNewConfigOverrides(t *testing.T) {
	cfg, err := parseConfig(t,
		"--base-url", "https://staging.example.com",
		"--email", "qa@example.com",
		"--tenant-name", "QA Tenant",
		"--status-wait", "5s",
	)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	assert.Equal(t, "qa@example.com", cfg.Email)
	assert.Equal(t, "QA Tenant", cfg.TenantName)
	assert.Equal(t, 5*time.Second, cfg.StatusWait)
}

func TestNewConfigRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "base URL without scheme", args: []string{"--base-url", "localhost:8080"}},
		{name: "empty base URL", args: []string{"--base-url", ""}},
		{name: "empty password", args: []string{"--password", ""}},
		{name: "empty tenant name", args: []string{"--tenant-name", ""}},
		{name: "negative status wait", args: []string{"--status-wait=-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
