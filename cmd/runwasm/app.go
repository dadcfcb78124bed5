package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/runwasm/internal/build"
	"git.home.luguber.info/inful/runwasm/internal/config"
	derrors "git.home.luguber.info/inful/runwasm/internal/foundation/errors"
	"git.home.luguber.info/inful/runwasm/internal/logfields"
	"git.home.luguber.info/inful/runwasm/internal/metrics"
	"git.home.luguber.info/inful/runwasm/internal/server"
	"git.home.luguber.info/inful/runwasm/internal/toolchain"
)

// exitUsage is returned when the command line cannot be resolved.
const exitUsage = 2

// app holds the collaborators of one invocation so tests can substitute them.
type app struct {
	stderr   io.Writer
	logger   *slog.Logger
	env      config.Environment
	dir      string
	compiler toolchain.Compiler
	bindgen  toolchain.Bindgen
	server   server.StaticServer
	locate   func(ctx context.Context, dir string) (string, error)
	registry *prom.Registry // nil unless metrics export is enabled

	rec metrics.Recorder
}

func (a *app) recorder() metrics.Recorder {
	if a.rec == nil {
		if a.registry != nil {
			a.rec = metrics.NewPrometheusRecorder(a.registry)
		} else {
			a.rec = metrics.NoopRecorder{}
		}
	}
	return a.rec
}

// run executes one invocation and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	cfg, err := config.Resolve(args)
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "error: %v\n\n", err)
		_ = config.Usage(a.stderr)
		return exitUsage
	}

	adapter := derrors.NewCLIErrorAdapter(a.logger.Enabled(ctx, slog.LevelDebug), a.logger)
	err = a.execute(ctx, cfg)
	if a.env.MetricsFile != "" && a.registry != nil {
		if werr := metrics.WriteTextfile(a.env.MetricsFile, a.registry); werr != nil {
			a.logger.Warn("Failed to write metrics file", logfields.Path(a.env.MetricsFile), logfields.Error(werr))
		}
	}
	return adapter.Report(a.stderr, err)
}

func (a *app) execute(ctx context.Context, cfg config.Configuration) error {
	root, err := a.locate(ctx, a.dir)
	if err != nil {
		return derrors.ConfigError("cannot locate cargo workspace").
			WithCause(err).
			WithContext("dir", a.dir).
			Fatal().
			Build()
	}

	project, err := config.LoadProject(root)
	if err != nil {
		return derrors.ConfigError("invalid project file").
			WithCause(err).
			WithContext("path", root).
			Fatal().
			Build()
	}
	css, err := project.StyleFragment(root)
	if err != nil {
		return derrors.ConfigError("cannot read css fragment").
			WithCause(err).
			Fatal().
			Build()
	}

	pipeline := build.NewPipeline(a.compiler, a.bindgen).WithRecorder(a.recorder())
	result, err := pipeline.Run(ctx, root, cfg, css)
	if err != nil {
		return err
	}

	if cfg.BuildOnly {
		return nil
	}
	return server.Serve(ctx, a.server, cfg.BindHost(), cfg.BindPort(), result.StagingDir())
}
