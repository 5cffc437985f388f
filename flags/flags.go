package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

const EnvVarPrefix = "UTM_SMOKE"

var (
	BaseURL = &cli.StringFlag{
		Name:    "base-url",
		Value:   "http://localhost:8080",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "BASE_URL"),
		Usage:   "Base URL of the UTM backend to smoke test",
	}
	Email = &cli.StringFlag{
		Name:    "email",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "EMAIL"),
		Usage:   "Email for the test user. Defaults to a unique address embedding the run timestamp.",
	}
	Password = &cli.StringFlag{
		Name:    "password",
		Value:   "TestPassword123!",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PASSWORD"),
		Usage:   "Password for the test user",
	}
	TenantName = &cli.StringFlag{
		Name:    "tenant-name",
		Value:   "Test Company",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TENANT_NAME"),
		Usage:   "Display name for the created tenant",
	}
	StatusWait = &cli.DurationFlag{
		Name:    "status-wait",
		Value:   2 * time.Second,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "STATUS_WAIT"),
		Usage:   "Delay before the tenant status check, giving the backend's background job time to complete",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	BaseURL,
	Email,
	Password,
	TenantName,
	StatusWait,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
