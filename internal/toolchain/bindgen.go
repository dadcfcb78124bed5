package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/runwasm/internal/logfields"
)

// BindgenRequest describes one binding generation run.
type BindgenRequest struct {
	// Web emits ES modules loadable directly by a browser.
	Web bool
	// OmitDefaultModulePath drops the default wasm URL from the generated init function.
	OmitDefaultModulePath bool
	Input                 string
	OutDir                string
}

// Bindgen turns a raw web-assembly binary into loadable web artifacts.
type Bindgen interface {
	Generate(ctx context.Context, req BindgenRequest) error
}

// WasmBindgen invokes the wasm-bindgen CLI.
type WasmBindgen struct {
	Binary string
}

// NewWasmBindgen returns a WasmBindgen for binary.
func NewWasmBindgen(binary string) *WasmBindgen {
	if binary == "" {
		binary = "wasm-bindgen"
	}
	return &WasmBindgen{Binary: binary}
}

// Args returns the command line for req.
func (b *WasmBindgen) Args(req BindgenRequest) []string {
	target := "bundler"
	if req.Web {
		target = "web"
	}
	args := []string{"--target", target, "--out-dir", req.OutDir}
	if req.OmitDefaultModulePath {
		args = append(args, "--omit-default-module-path")
	}
	return append(args, req.Input)
}

func (b *WasmBindgen) Generate(ctx context.Context, req BindgenRequest) error {
	args := b.Args(req)
	cmd := exec.CommandContext(ctx, b.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	slog.Debug("Invoking wasm-bindgen", logfields.Command(b.Binary+" "+strings.Join(args, " ")))

	err := cmd.Run()

	outStr := strings.TrimSpace(stdout.String())
	errStr := strings.TrimSpace(stderr.String())
	if outStr != "" {
		slog.Debug("wasm-bindgen stdout", "output", outStr)
	}
	if err == nil {
		return nil
	}

	wrapped := classifyRunError(b.Binary, err, ErrBindgenFailed)
	// wasm-bindgen reports most problems on stderr but some on stdout.
	output := errStr
	if output == "" {
		output = outStr
	}
	if output != "" {
		return fmt.Errorf("%w: %s", wrapped, output)
	}
	return wrapped
}
