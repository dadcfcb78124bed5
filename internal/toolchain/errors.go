package toolchain

import "errors"

var (
	// ErrToolNotFound indicates a toolchain executable could not be started.
	ErrToolNotFound = errors.New("toolchain binary not found")
	// ErrCompilerFailed indicates the compiler exited with a non-zero status. The compiler
	// has already printed its diagnostics to the inherited stderr.
	ErrCompilerFailed = errors.New("compiler exited with failure")
	// ErrBindgenFailed indicates wasm-bindgen returned a non-zero status.
	ErrBindgenFailed = errors.New("wasm-bindgen failed")
)
