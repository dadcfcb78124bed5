// Package build runs the web-assembly build pipeline for one unit: guard the CSS
// fragment, plan, compile, generate bindings into the staging directory and write the
// host page. Stages run strictly in order and the first failure ends the run; nothing
// is retried.
package build
