package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/runwasm/internal/config"
	"git.home.luguber.info/inful/runwasm/internal/server"
	"git.home.luguber.info/inful/runwasm/internal/toolchain"
)

// stubCompiler drops an empty module wherever the args say the artifact will land.
type stubCompiler struct {
	calls int
	err   error
}

func (c *stubCompiler) Compile(_ context.Context, dir string, args []string) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	var targetDir, name, profile, sub string
	profile = "debug"
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--target-dir":
			targetDir = args[i+1]
		case "--example":
			sub = "examples"
			name = args[i+1]
		case "--package":
			name = args[i+1]
		case "--release":
			profile = "release"
		}
	}
	if !filepath.IsAbs(targetDir) {
		targetDir = filepath.Join(dir, targetDir)
	}
	out := filepath.Join(targetDir, "wasm32-unknown-unknown", profile, sub)
	if err := os.MkdirAll(out, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(out, name+".wasm"), []byte("\x00asm"), 0o600)
}

type stubBindgen struct{ calls int }

func (b *stubBindgen) Generate(_ context.Context, req toolchain.BindgenRequest) error {
	b.calls++
	name := strings.TrimSuffix(filepath.Base(req.Input), ".wasm")
	return os.WriteFile(filepath.Join(req.OutDir, name+".js"), []byte("export default function init() {}"), 0o600)
}

type stubServer struct {
	calls int
	opts  server.ServerOptions
}

func (s *stubServer) ListenAndServe(_ context.Context, opts server.ServerOptions) error {
	s.calls++
	s.opts = opts
	return nil
}

type harness struct {
	app      *app
	root     string
	stderr   *bytes.Buffer
	logs     *bytes.Buffer
	compiler *stubCompiler
	bindgen  *stubBindgen
	server   *stubServer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		root:     t.TempDir(),
		stderr:   &bytes.Buffer{},
		logs:     &bytes.Buffer{},
		compiler: &stubCompiler{},
		bindgen:  &stubBindgen{},
		server:   &stubServer{},
	}
	h.app = &app{
		stderr:   h.stderr,
		logger:   slog.New(slog.NewTextHandler(h.logs, nil)),
		dir:      h.root,
		compiler: h.compiler,
		bindgen:  h.bindgen,
		server:   h.server,
		locate: func(context.Context, string) (string, error) {
			return h.root, nil
		},
	}
	return h
}

func (h *harness) staging(name string) string {
	return filepath.Join(h.root, "target", "wasm-examples", name)
}

func TestRun_BuildOnly(t *testing.T) {
	h := newHarness(t)

	code := h.app.run(context.Background(), []string{"--build-only", "widget"})

	require.Equal(t, 0, code, h.stderr.String())
	require.Equal(t, 0, h.server.calls)
	require.FileExists(t, filepath.Join(h.staging("widget"), "index.html"))
	require.FileExists(t, filepath.Join(h.staging("widget"), "widget.js"))
	require.Empty(t, h.stderr.String())
}

func TestRun_ServesStagingDir(t *testing.T) {
	h := newHarness(t)

	code := h.app.run(context.Background(), []string{"--example", "--port", "9100", "demo"})

	require.Equal(t, 0, code, h.stderr.String())
	require.Equal(t, 1, h.server.calls)
	require.Equal(t, server.ServerOptions{Host: "localhost", Port: 9100, Root: h.staging("demo")}, h.server.opts)
}

func TestRun_BadPortAfterBuild(t *testing.T) {
	h := newHarness(t)

	code := h.app.run(context.Background(), []string{"--port", "http", "widget"})

	require.Equal(t, 7, code)
	require.Equal(t, 1, h.compiler.calls)
	require.Equal(t, 0, h.server.calls)
	require.Contains(t, h.stderr.String(), "invalid port")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "missing required argument"},
		{[]string{"a", "b"}, "expected exactly one NAME"},
		{[]string{"--verbose", "demo"}, "unknown option: --verbose"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.args), func(t *testing.T) {
			h := newHarness(t)
			code := h.app.run(context.Background(), tt.args)
			require.Equal(t, exitUsage, code)
			require.Contains(t, h.stderr.String(), tt.want)
			require.Contains(t, h.stderr.String(), "--build-only")
			require.Equal(t, 0, h.compiler.calls)
		})
	}
}

func TestRun_DiagnosedCompilerFailure(t *testing.T) {
	h := newHarness(t)
	h.compiler.err = fmt.Errorf("%w: exit status 101", toolchain.ErrCompilerFailed)

	code := h.app.run(context.Background(), []string{"widget"})

	require.Equal(t, 8, code)
	require.Empty(t, h.stderr.String())
	require.Equal(t, 0, h.bindgen.calls)
	require.NoDirExists(t, h.staging("widget"))
}

func TestRun_CSSGuardFromProjectFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.root, config.ProjectFileName),
		[]byte("css: \"body{}</style><script>x()</script>\"\n"), 0o600))

	code := h.app.run(context.Background(), []string{"--build-only", "widget"})

	require.Equal(t, 2, code)
	require.Equal(t, 0, h.compiler.calls)
	require.NoDirExists(t, filepath.Join(h.root, "target"))
}

func TestRun_EmbedsProjectCSS(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "web"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(h.root, "web", "style.css"), []byte("body { margin: 0; }"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(h.root, config.ProjectFileName),
		[]byte("css_file: web/style.css\n"), 0o600))

	require.Equal(t, 0, h.app.run(context.Background(), []string{"--build-only", "widget"}), h.stderr.String())

	page, err := os.ReadFile(filepath.Join(h.staging("widget"), "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "body { margin: 0; }")
}

func TestRun_WorkspaceNotFound(t *testing.T) {
	h := newHarness(t)
	h.app.locate = func(context.Context, string) (string, error) {
		return "", errors.New("could not find Cargo.toml")
	}

	code := h.app.run(context.Background(), []string{"widget"})

	require.Equal(t, 7, code)
	require.Contains(t, h.stderr.String(), "cannot locate cargo workspace")
	require.Equal(t, 0, h.compiler.calls)
}

func TestRun_WritesMetricsFile(t *testing.T) {
	h := newHarness(t)
	h.app.registry = prom.NewRegistry()
	h.app.env.MetricsFile = filepath.Join(t.TempDir(), "runwasm.prom")

	require.Equal(t, 0, h.app.run(context.Background(), []string{"--build-only", "widget"}), h.stderr.String())

	f, err := os.Open(h.app.env.MetricsFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Contains(t, string(data), "runwasm_build_outcomes_total")
}
