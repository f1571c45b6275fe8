package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/callbridge/httpclient"
	"github.com/kbukum/callbridge/logger"
	"github.com/kbukum/callbridge/observability"
)

// app is the state shared by subcommands once the root has loaded config.
type app struct {
	flags globalFlags
	cfg   *cliConfig
	log   *logger.Logger

	metrics  *observability.CallMetrics
	shutdown []func(context.Context) error
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "callbridge",
		Short: "Fetch URLs through an asynchronous call dispatcher",
		Long: `callbridge issues HTTP requests as asynchronous calls on a bounded
dispatcher and waits for each one to complete with a response or a failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.flags.register(root.PersistentFlags())

	root.AddCommand(newFetchCommand(a), newVersionCommand())
	return root
}

// setup loads configuration, builds the logger and starts telemetry.
// Subcommands that talk to the network call it from PreRunE.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.flags)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = newLogger(cfg, cmd.ErrOrStderr())
	logger.SetGlobalLogger(a.log)

	if cfg.Telemetry.Endpoint == "" {
		return nil
	}
	return a.startTelemetry(cmd.Context())
}

func newLogger(cfg *cliConfig, w io.Writer) *logger.Logger {
	return logger.NewWithWriter(cfg.Logging, cfg.Name, w)
}

func (a *app) startTelemetry(ctx context.Context) error {
	tp, err := observability.InitTracer(ctx, a.cfg.tracerConfig())
	if err != nil {
		return err
	}
	a.shutdown = append(a.shutdown, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, a.cfg.meterConfig())
	if err != nil {
		return err
	}
	a.shutdown = append(a.shutdown, mp.Shutdown)

	a.metrics, err = observability.NewCallMetrics(observability.Meter(serviceName))
	return err
}

// teardown flushes telemetry exporters in reverse start order.
func (a *app) teardown(ctx context.Context) error {
	var errs []error
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		errs = append(errs, a.shutdown[i](ctx))
	}
	a.shutdown = nil
	return errors.Join(errs...)
}

func (a *app) dispatcherOptions() []httpclient.DispatcherOption {
	opts := []httpclient.DispatcherOption{
		httpclient.WithLogger(a.log.WithComponent("httpclient")),
	}
	if a.metrics != nil {
		opts = append(opts, httpclient.WithMetrics(a.metrics))
	}
	return opts
}
