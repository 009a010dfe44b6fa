// Package metrics records provisioning step timings and outcomes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil:
//
//	p := provision.New(deps).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The CLI is short-lived, so nothing is served over HTTP. When --metrics-file
// is given the registry is written once at exit in the node_exporter textfile
// collector format (see WriteTextfile).
package metrics
