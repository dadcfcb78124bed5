package config

import (
	"fmt"
	"strings"
)

// ErrorKind classifies argument resolution failures.
type ErrorKind string

const (
	KindUnknownOption   ErrorKind = "unknown_option"
	KindMissingName     ErrorKind = "missing_name"
	KindTooManyArgs     ErrorKind = "too_many_args"
	KindMalformedOption ErrorKind = "malformed_option"
)

// Error is returned by Resolve. It is a usage error: callers print it together with the
// usage text and do not start the pipeline.
type Error struct {
	Kind  ErrorKind
	Token string   // offending token for KindUnknownOption
	Args  []string // every positional argument for KindTooManyArgs
	Err   error    // parser error for KindMalformedOption
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnknownOption:
		return fmt.Sprintf("unknown option: %s", e.Token)
	case KindMissingName:
		return "missing required argument: NAME"
	case KindTooManyArgs:
		return fmt.Sprintf("expected exactly one NAME, got %d: %s", len(e.Args), strings.Join(e.Args, " "))
	case KindMalformedOption:
		return fmt.Sprintf("invalid option: %v", e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }
