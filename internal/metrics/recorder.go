package metrics

import "time"

// ResultLabel enumerates pass result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// RunOutcome is the final status of one pipeline run.
type RunOutcome string

const (
	OutcomeSuccess RunOutcome = "success"
	OutcomePartial RunOutcome = "partial"
	OutcomeFailed  RunOutcome = "failed"
)

// AssetResult classifies asset reads served through a cache.
type AssetResult string

const (
	AssetHit   AssetResult = "hit"
	AssetMiss  AssetResult = "miss"
	AssetError AssetResult = "error"
)

// Recorder defines observability hooks for pipeline and merge metrics.
type Recorder interface {
	ObservePassDuration(pass string, d time.Duration)
	IncPassResult(pass string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
	ObserveMergeStepDuration(step string, d time.Duration)
	IncAssetRead(result AssetResult)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePassDuration(string, time.Duration)      {}
func (NoopRecorder) IncPassResult(string, ResultLabel)              {}
func (NoopRecorder) ObserveRunDuration(time.Duration)               {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                       {}
func (NoopRecorder) ObserveMergeStepDuration(string, time.Duration) {}
func (NoopRecorder) IncAssetRead(AssetResult)                       {}
