// Package server serves a staging directory over HTTP for local iteration.
//
// Serve validates the bind port and hands off to a StaticServer; FileServer is the
// default implementation built on net/http with a logging and panic-recovery chain.
package server
