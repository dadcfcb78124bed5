package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/runwasm/internal/foundation/errors"
)

type fakeStaticServer struct {
	calls int
	opts  ServerOptions
	err   error
}

func (f *fakeStaticServer) ListenAndServe(_ context.Context, opts ServerOptions) error {
	f.calls++
	f.opts = opts
	return f.err
}

func TestParsePort(t *testing.T) {
	for _, ok := range []struct {
		in   string
		want uint16
	}{{"8000", 8000}, {"0", 0}, {"65535", 65535}} {
		got, err := ParsePort(ok.in)
		require.NoError(t, err)
		require.Equal(t, ok.want, got)
	}

	for _, bad := range []string{"", "abc", "65536", "-1", "80 80", "+80"} {
		_, err := ParsePort(bad)
		require.Error(t, err, bad)
		require.True(t, derrors.HasCategory(err, derrors.CategoryConfig), bad)
		ce, ok := derrors.AsClassified(err)
		require.True(t, ok)
		require.True(t, ce.IsFatal())
	}
}

func TestServe_BadPortNeverBinds(t *testing.T) {
	srv := &fakeStaticServer{}
	err := Serve(context.Background(), srv, "localhost", "abc", "/tmp/x")
	require.Error(t, err)
	require.Equal(t, 0, srv.calls)
	require.Equal(t, 7, derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestServe_Delegates(t *testing.T) {
	srv := &fakeStaticServer{}
	require.NoError(t, Serve(context.Background(), srv, "0.0.0.0", "9000", "/srv/demo"))
	require.Equal(t, 1, srv.calls)
	require.Equal(t, ServerOptions{Host: "0.0.0.0", Port: 9000, Root: "/srv/demo"}, srv.opts)
	require.False(t, srv.opts.Reload)
	require.Empty(t, srv.opts.Headers)
}

func TestServe_ClassifiesServerFailure(t *testing.T) {
	srv := &fakeStaticServer{err: errors.New("address in use")}
	err := Serve(context.Background(), srv, "localhost", "8000", "/srv/demo")
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryRuntime))
	require.Equal(t, 12, derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}
