// Package metrics provides build and serve metrics for runwasm.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never need nil checks:
//
//	pipeline := build.NewPipeline(compiler, bindgen).WithRecorder(metrics.NoopRecorder{})
//
// PrometheusRecorder registers its collectors on a caller-provided registry. The CLI
// activates it when RUNWASM_METRICS_FILE is set and writes the registry to that file in
// the text exposition format once the build has finished (see WriteTextfile).
package metrics
