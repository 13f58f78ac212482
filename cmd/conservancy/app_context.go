package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/conservancy/internal/config"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/conservancy/internal/ports"
)

// AppContext bundles what long-running commands build at startup.
type AppContext struct {
	Config *config.Config
	Logger ports.Logger
}

// loadAppContext reads the configuration, applies the logging flags on top
// and builds the logger. ctx carries a correlation ID for this invocation.
func loadAppContext(cmd *cobra.Command, flags *rootFlags) (context.Context, *AppContext, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	ctx := ports.WithCorrelationID(cmd.Context(), ports.GenerateCorrelationID())
	return ctx, &AppContext{Config: cfg, Logger: logger}, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) (ports.Logger, error) {
	logger, err := logging.New(logging.Options{
		Writer:    w,
		Level:     cfg.Level,
		Format:    cfg.Format,
		Layer:     "infrastructure",
		Component: "cli",
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}
