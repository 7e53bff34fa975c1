package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "designpipe"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	passDuration  *prom.HistogramVec
	passResults   *prom.CounterVec
	runDuration   prom.Histogram
	runOutcome    *prom.CounterVec
	mergeDuration *prom.HistogramVec
	assetReads    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the pipeline metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.passDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "pass_duration_seconds",
		Help:      "Duration of individual transform passes",
		Buckets:   prom.DefBuckets,
	}, []string{"pass"})
	pr.passResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "pass_results_total",
		Help:      "Pass result counts by outcome",
	}, []string{"pass", "result"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total pipeline run duration",
		Buckets:   prom.DefBuckets,
	})
	pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Pipeline runs by final status",
	}, []string{"outcome"})
	pr.mergeDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "merge_step_duration_seconds",
		Help:      "Duration of responsive merge steps",
		Buckets:   prom.DefBuckets,
	}, []string{"step"})
	pr.assetReads = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "asset_reads_total",
		Help:      "Asset cache reads by result",
	}, []string{"result"})
	reg.MustRegister(pr.passDuration, pr.passResults, pr.runDuration, pr.runOutcome, pr.mergeDuration, pr.assetReads)
	return pr
}

// Registry exposes the registry the metrics were registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObservePassDuration(pass string, d time.Duration) {
	if p == nil || p.passDuration == nil {
		return
	}
	p.passDuration.WithLabelValues(pass).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPassResult(pass string, result ResultLabel) {
	if p == nil || p.passResults == nil {
		return
	}
	p.passResults.WithLabelValues(pass, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveMergeStepDuration(step string, d time.Duration) {
	if p == nil || p.mergeDuration == nil {
		return
	}
	p.mergeDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncAssetRead(result AssetResult) {
	if p == nil || p.assetReads == nil {
		return
	}
	p.assetReads.WithLabelValues(string(result)).Inc()
}

// WriteTextfile writes the current registry contents to path in the text
// exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
