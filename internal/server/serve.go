package server

import (
	"context"
	"strconv"

	foundation "git.home.luguber.info/inful/runwasm/internal/foundation/errors"
)

// ParsePort converts a port string to a TCP port number. Anything outside 0-65535 or
// not a plain decimal is a fatal config error.
func ParsePort(port string) (uint16, error) {
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return 0, foundation.ConfigError("invalid port").
			WithCause(err).
			WithContext("port", port).
			Fatal().
			Build()
	}
	return uint16(p), nil
}

// Serve parses port and delegates to srv, blocking until ctx is cancelled. A bad port is
// reported before anything is bound.
func Serve(ctx context.Context, srv StaticServer, host, port, root string) error {
	p, err := ParsePort(port)
	if err != nil {
		return err
	}
	opts := ServerOptions{Host: host, Port: p, Root: root}
	if err := srv.ListenAndServe(ctx, opts); err != nil {
		if _, ok := foundation.AsClassified(err); ok {
			return err
		}
		return foundation.RuntimeError("serve failed").
			WithCause(err).
			WithContext("addr", opts.Addr()).
			Build()
	}
	return nil
}
