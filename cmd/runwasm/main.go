package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/runwasm/internal/config"
	"git.home.luguber.info/inful/runwasm/internal/server"
	"git.home.luguber.info/inful/runwasm/internal/toolchain"
	"git.home.luguber.info/inful/runwasm/internal/workspace"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		slog.Error("Failed to determine working directory", "error", err)
		os.Exit(1)
	}
	if err := config.LoadEnvFiles(wd); err != nil {
		slog.Warn("Ignoring unreadable env file", "error", err)
	}
	env := config.EnvironmentFrom(os.LookupEnv)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: env.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{
		stderr:   os.Stderr,
		logger:   logger,
		env:      env,
		dir:      wd,
		compiler: toolchain.NewCargo(env.Cargo),
		bindgen:  toolchain.NewWasmBindgen(env.Bindgen),
		locate: func(ctx context.Context, dir string) (string, error) {
			return workspace.Locate(ctx, env.Cargo, dir)
		},
	}
	if env.MetricsFile != "" {
		a.registry = prom.NewRegistry()
	}
	a.server = server.NewFileServer(logger, a.recorder())

	code := a.run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
