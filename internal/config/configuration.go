package config

const (
	// DefaultHost is the preview server bind host when --host is absent.
	DefaultHost = "localhost"
	// DefaultPort is the preview server bind port when --port is absent.
	DefaultPort = "8000"
)

// Configuration is the validated result of argument resolution. It is passed by value
// and never modified after Resolve returns it.
type Configuration struct {
	UnitName  string
	Example   bool
	Release   bool
	Features  string // raw comma-separated list, empty when absent
	BuildOnly bool
	Host      string // empty when absent
	Port      string // empty when absent; parsed at serve time
}

// BindHost returns the host the preview server binds to.
func (c Configuration) BindHost() string {
	if c.Host == "" {
		return DefaultHost
	}
	return c.Host
}

// BindPort returns the unparsed port the preview server binds to.
func (c Configuration) BindPort() string {
	if c.Port == "" {
		return DefaultPort
	}
	return c.Port
}

// UnitKind names the kind of unit selected by the configuration.
func (c Configuration) UnitKind() string {
	if c.Example {
		return "example"
	}
	return "package"
}

// Profile returns the build profile directory name.
func (c Configuration) Profile() string {
	if c.Release {
		return "release"
	}
	return "debug"
}
