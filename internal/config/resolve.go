package config

import (
	"errors"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/runwasm/internal/version"
)

const flagPrefix = "-"

// arguments is the kong grammar of the command line.
type arguments struct {
	Release   bool     `help:"Build artifacts in release mode, with optimizations."`
	Example   bool     `help:"Build an example instead of a package."`
	Features  string   `placeholder:"LIST" help:"Space or comma separated list of features to activate."`
	BuildOnly bool     `name:"build-only" help:"Only build the web artifacts, do not start the server."`
	Host      string   `placeholder:"HOST" help:"Makes the server listen on HOST (default: localhost)."`
	Port      string   `placeholder:"PORT" help:"Makes the server listen on PORT (default: 8000)."`
	Names     []string `arg:"" optional:"" name:"name" sep:"none" help:"Name of the package or example to build."`
}

// valueFlags consume the following token when given without "=".
var valueFlags = map[string]bool{"--features": true, "--host": true, "--port": true}

var knownFlags = map[string]bool{
	"--release":    true,
	"--example":    true,
	"--build-only": true,
	"--features":   true,
	"--host":       true,
	"--port":       true,
}

func newParser(w io.Writer) (*kong.Kong, *arguments, error) {
	var args arguments
	k, err := kong.New(&args,
		kong.Name("runwasm"),
		kong.Description("Build a Cargo package or example for the web and serve it ("+version.Version+")."),
		kong.NoDefaultHelp(),
		kong.Writers(w, w),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return nil, nil, err
	}
	return k, &args, nil
}

// Resolve turns raw process arguments (without the program name) into a Configuration.
// It has no side effects and always returns the same result for the same input.
func Resolve(rawArgs []string) (Configuration, error) {
	positional, flags, unknown := partition(rawArgs)
	if unknown != "" {
		return Configuration{}, &Error{Kind: KindUnknownOption, Token: unknown}
	}

	k, args, err := newParser(io.Discard)
	if err != nil {
		return Configuration{}, err
	}
	// Positionals go first so kong collects them into a single slice regardless of
	// where they were interleaved with flags.
	if _, err := k.Parse(append(positional, flags...)); err != nil {
		return Configuration{}, &Error{Kind: KindMalformedOption, Err: err}
	}

	switch len(args.Names) {
	case 0:
		return Configuration{}, &Error{Kind: KindMissingName}
	case 1:
	default:
		return Configuration{}, &Error{Kind: KindTooManyArgs, Args: append([]string(nil), args.Names...)}
	}

	return Configuration{
		UnitName:  args.Names[0],
		Example:   args.Example,
		Release:   args.Release,
		Features:  args.Features,
		BuildOnly: args.BuildOnly,
		Host:      args.Host,
		Port:      args.Port,
	}, nil
}

// partition splits raw arguments into positional tokens and recognized flag tokens
// (value flags keep their value token). It stops at the first flag-like token that is
// not recognized and returns it as unknown. Tokens after "--" are positional, but one
// starting with the flag prefix is still reported as unknown.
func partition(rawArgs []string) (positional, flags []string, unknown string) {
	positional = []string{}
	for i := 0; i < len(rawArgs); i++ {
		tok := rawArgs[i]
		if tok == "--" {
			for _, rest := range rawArgs[i+1:] {
				if strings.HasPrefix(rest, flagPrefix) {
					return nil, nil, rest
				}
				positional = append(positional, rest)
			}
			break
		}
		if !strings.HasPrefix(tok, flagPrefix) {
			positional = append(positional, tok)
			continue
		}
		name, _, hasValue := strings.Cut(tok, "=")
		if !knownFlags[name] {
			return nil, nil, tok
		}
		flags = append(flags, tok)
		if valueFlags[name] && !hasValue && i+1 < len(rawArgs) {
			i++
			flags = append(flags, rawArgs[i])
		}
	}
	return positional, flags, ""
}

// Usage writes the command line help text to w.
func Usage(w io.Writer) error {
	k, _, err := newParser(w)
	if err != nil {
		return err
	}
	ctx, err := kong.Trace(k, nil)
	if err != nil {
		return err
	}
	return ctx.PrintUsage(false)
}

// IsUsageError reports whether err is an argument resolution failure.
func IsUsageError(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr)
}
