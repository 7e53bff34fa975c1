// Package metrics provides observability hooks for pipeline runs.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so callers never need nil checks:
//
//	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
//	report, err := transforms.Run(tree, ctx, transforms.Options{Recorder: rec})
//
// A PrometheusRecorder can dump its registry in the node-exporter textfile
// format with WriteTextfile, which is how the CLI exports per-run metrics.
package metrics
