package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/runwasm/internal/logfields"
)

// Compiler builds a unit for the web-assembly target.
type Compiler interface {
	// Compile runs the compiler with args in dir and returns ErrCompilerFailed when it
	// exits unsuccessfully.
	Compile(ctx context.Context, dir string, args []string) error
}

// Cargo invokes the cargo binary with inherited output streams.
type Cargo struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

// NewCargo returns a Cargo compiler for binary, writing to the process's stdout and stderr.
func NewCargo(binary string) *Cargo {
	if binary == "" {
		binary = "cargo"
	}
	return &Cargo{Binary: binary, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (c *Cargo) Compile(ctx context.Context, dir string, args []string) error {
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Dir = dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	slog.Debug("Invoking compiler",
		logfields.Command(c.Binary+" "+strings.Join(args, " ")),
		logfields.Path(dir))

	if err := cmd.Run(); err != nil {
		return classifyRunError(c.Binary, err, ErrCompilerFailed)
	}
	return nil
}

// classifyRunError maps exec failures onto the package sentinels.
func classifyRunError(binary string, err, failed error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %w", failed, err)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrToolNotFound, binary, err)
	}
	return fmt.Errorf("run %s: %w", binary, err)
}
