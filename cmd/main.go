package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	smoke "github.com/vyshakhp/utm-smoke"
	"github.com/vyshakhp/utm-smoke/exitcodes"
	"github.com/vyshakhp/utm-smoke/service"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"

	"github.com/vyshakhp/utm-smoke/flags"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "utm-smoke"
	app.Usage = "UTM Backend Smoke Tester"
	app.Description = "utm-smoke exercises the signup, signin and tenant lifecycle of a deployed UTM backend"
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Action = cliapp.LifecycleCmd(run)
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			// Step failures, interrupts and runtime errors all share the
			// same non-zero exit code
			cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.Failure))
		}
	}

	ctx := context.Background()

	// Start health and metrics servers
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	// Start CLI
	ctx = ctxinterrupt.WithSignalWaiterMain(ctx)
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
	logCfg := oplog.ReadCLIConfig(ctx)
	log := oplog.NewLogger(oplog.AppOut(ctx), logCfg)
	oplog.SetGlobalLogHandler(log.Handler())
	oplog.SetupDefaults()

	cfg, err := smoke.NewConfig(ctx, log)
	if err != nil {
		return nil, smoke.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	cfg.Log.Debug("Config", "base_url", cfg.BaseURL, "email", cfg.Email)

	smokeService, err := smoke.New(ctx.Context, cfg, Version, closeApp)
	if err != nil {
		return nil, smoke.NewRuntimeError(fmt.Errorf("failed to create smoke harness: %w", err))
	}

	return smokeService, nil
}
