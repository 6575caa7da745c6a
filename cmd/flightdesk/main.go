package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/flightdesk/appctx"
	"github.com/flightdesk/appctx/internal/flights"
	"github.com/flightdesk/appctx/pkg/draw"
	"github.com/flightdesk/appctx/pkg/env"
)

type options struct {
	envFiles   []string
	configFile string
	properties []string
	verbose    bool
	opsAddr    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "flightdesk [command]",
		Short:         "Manage flights",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	opts.bind(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "run [list | add NUMBER ORIGIN DESTINATION | show NUMBER]",
			Short: "Run the flightdesk application",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, opts, args)
			},
		},
		&cobra.Command{
			Use:   "graph",
			Short: "Print the component dependency graph in DOT format",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return graph(cmd, opts)
			},
		},
	)

	return root
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	c, err := newApplication(cmd, opts)
	if err != nil {
		return err
	}

	if opts.opsAddr == "" {
		return c.Run(cmd.Context(), args)
	}

	registry := prometheus.NewRegistry()
	c.EnableMetrics(registry)

	ops, err := startOpsServer(opts.opsAddr, c, registry, newLogger(cmd, opts))
	if err != nil {
		return err
	}

	runErr := c.Run(cmd.Context(), args)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), 5*time.Second)
	defer cancel()

	return errors.Join(runErr, ops.Shutdown(ctx))
}

func graph(cmd *cobra.Command, opts *options) error {
	c, err := newApplication(cmd, opts)
	if err != nil {
		return err
	}

	if err := c.ProcessComponents(cmd.Context()); err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(draw.RenderDOT(c.Graph()))
	return err
}

func newApplication(cmd *cobra.Command, opts *options) (*appctx.Context, error) {
	environment, err := opts.environment()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd, opts)

	c := appctx.New(environment).
		ProcessTimeout(10 * time.Second).
		ShutdownTimeout(5 * time.Second).
		SetLogger(logger)

	if err := flights.Register(c, cmd.OutOrStdout(), logger); err != nil {
		return nil, err
	}

	return c, nil
}

func newLogger(cmd *cobra.Command, opts *options) *slog.Logger {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *options) bind(flags *pflag.FlagSet) {
	flags.StringArrayVar(&o.envFiles, "env-file", nil, "dotenv file with properties, may be repeated")
	flags.StringVar(&o.configFile, "config", "", "YAML file with properties")
	flags.StringArrayVar(&o.properties, "set", nil, "property as key=value, overrides all other sources")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log debug messages")
	flags.StringVar(&o.opsAddr, "ops-addr", "", "serve /healthz and /metrics on this address while running")
}

// environment layers property sources: --set, then --config, then --env-file, then the process environment.
func (o *options) environment() (appctx.Environment, error) {
	overrides := env.Map{}

	for _, property := range o.properties {
		key, value, ok := strings.Cut(property, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q, expected key=value", property)
		}

		overrides[key] = value
	}

	var config, dotenv appctx.Environment

	if o.configFile != "" {
		yaml, err := env.YAML(o.configFile)
		if err != nil {
			return nil, err
		}
		config = yaml
	}

	if len(o.envFiles) > 0 {
		files, err := env.Dotenv(o.envFiles...)
		if err != nil {
			return nil, err
		}
		dotenv = files
	}

	return env.Chain{overrides, config, dotenv, env.System{}}, nil
}
