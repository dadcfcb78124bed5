package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/runwasm/internal/logfields"
	"git.home.luguber.info/inful/runwasm/internal/metrics"
	"git.home.luguber.info/inful/runwasm/internal/observability"
)

const (
	noCacheControl    = "no-cache"
	wasmContentType   = "application/wasm"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ServerOptions describes what a StaticServer binds and serves.
type ServerOptions struct {
	Host string
	Port uint16
	Root string
	// Reload asks for live reload; FileServer does not implement it.
	Reload bool
	// Headers holds extra response headers as "Key: Value" lines.
	Headers string
}

// Addr returns the host:port pair to bind.
func (o ServerOptions) Addr() string {
	return net.JoinHostPort(o.Host, strconv.FormatUint(uint64(o.Port), 10))
}

// StaticServer serves a directory until ctx is cancelled.
type StaticServer interface {
	ListenAndServe(ctx context.Context, opts ServerOptions) error
}

// FileServer is the default StaticServer backed by net/http.
type FileServer struct {
	Logger   *slog.Logger
	Recorder metrics.Recorder
	// Listening, when set, is called with the bound address once the listener is open.
	Listening func(addr net.Addr)
}

// NewFileServer returns a FileServer that logs through logger and records requests in recorder.
func NewFileServer(logger *slog.Logger, recorder metrics.Recorder) *FileServer {
	return &FileServer{Logger: logger, Recorder: recorder}
}

// Handler builds the http.Handler serving root with the middleware chain applied.
func (s *FileServer) Handler(root string, extra http.Header) http.Handler {
	files := http.FileServer(http.Dir(root))
	typed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(path.Ext(r.URL.Path), ".wasm") {
			w.Header().Set("Content-Type", wasmContentType)
		}
		files.ServeHTTP(w, r)
	})
	return Chain(s.Logger, s.Recorder)(headerMiddleware(extra, typed))
}

// ListenAndServe binds opts.Addr, serves opts.Root and shuts down gracefully when ctx ends.
// Bind failures are returned before any request is served.
func (s *FileServer) ListenAndServe(ctx context.Context, opts ServerOptions) error {
	extra, err := ParseHeaders(opts.Headers)
	if err != nil {
		return err
	}
	if opts.Reload {
		observability.WarnContext(ctx, "Live reload requested but not supported by the file server")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", opts.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.Addr(), err)
	}
	if s.Listening != nil {
		s.Listening(ln.Addr())
	}

	srv := &http.Server{
		Handler:           s.Handler(opts.Root, extra),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	observability.InfoContext(ctx, "Serving staging directory",
		logfields.Addr("http://"+ln.Addr().String()+"/"),
		logfields.Path(opts.Root))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", opts.Addr(), err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown %s: %w", opts.Addr(), err)
		}
		observability.InfoContext(ctx, "Server stopped", logfields.Addr(opts.Addr()))
		return nil
	}
}

// ParseHeaders parses "Key: Value" lines into a header set. Blank lines are ignored.
func ParseHeaders(raw string) (http.Header, error) {
	h := http.Header{}
	for line := range strings.Lines(raw) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed header line %q", line)
		}
		h.Add(key, strings.TrimSpace(value))
	}
	return h, nil
}
