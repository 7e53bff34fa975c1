package transforms

import (
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/designpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/metrics"
	"git.home.luguber.info/inful/designpipe/internal/util/sets"
)

// Options control one pipeline run.
type Options struct {
	// Enabled restricts the run to the named passes. Empty means all.
	Enabled []string
	// ContinueOnError records a failing pass and moves on instead of
	// aborting the run.
	ContinueOnError bool
	Recorder        metrics.Recorder
}

// PassResult is the outcome of one pass.
type PassResult struct {
	Name     string        `json:"name"`
	Priority int           `json:"priority"`
	Stats    Stats         `json:"stats,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Skipped  bool          `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report aggregates a run. Completed is false when a pass failure stopped
// the run early.
type Report struct {
	RunID     string       `json:"run_id"`
	Passes    []PassResult `json:"passes"`
	Completed bool         `json:"completed"`
	Warnings  []string     `json:"warnings,omitempty"`
}

// Failed returns the results of passes that returned an error.
func (r *Report) Failed() []PassResult {
	var out []PassResult
	for _, p := range r.Passes {
		if p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

// Success reports a completed run without pass failures.
func (r *Report) Success() bool {
	return r.Completed && len(r.Failed()) == 0
}

// Errors maps failing pass names to their errors.
func (r *Report) Errors() map[string]error {
	out := map[string]error{}
	for _, p := range r.Failed() {
		out[p.Name] = p.Err
	}
	return out
}

// Result returns the result for name.
func (r *Report) Result(name string) (PassResult, bool) {
	for _, p := range r.Passes {
		if p.Name == name {
			return p, true
		}
	}
	return PassResult{}, false
}

// Pipeline is an ordered, validated pass sequence.
type Pipeline struct {
	passes []Pass
}

// NewPipeline sorts passes by priority and rejects inconsistent ordering.
func NewPipeline(passes ...Pass) (*Pipeline, error) {
	sorted := append([]Pass(nil), passes...)
	sortPasses(sorted)
	if vr := ValidateOrder(sorted); !vr.Valid {
		return nil, errors.ValidationError("invalid pass ordering").
			WithContext("errors", vr.Errors).
			Build()
	}
	return &Pipeline{passes: sorted}, nil
}

// Passes returns the passes in execution order.
func (p *Pipeline) Passes() []Pass {
	return append([]Pass(nil), p.passes...)
}

// Run executes the registered catalog on t.
func Run(t *markup.Tree, ctx *Context, opts Options) (*Report, error) {
	p, err := NewPipeline(List()...)
	if err != nil {
		return nil, err
	}
	return p.Run(t, ctx, opts)
}

// Run executes the enabled passes in order. With ContinueOnError unset the
// first failing pass ends the run and its error is returned together with
// the partial report.
func (p *Pipeline) Run(t *markup.Tree, ctx *Context, opts Options) (*Report, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	ctx.ensure()
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	active, err := selectPasses(p.passes, sets.New(opts.Enabled...))
	if err != nil {
		return nil, err
	}
	enabled := sets.New[string]()
	for _, pass := range active {
		enabled.Add(pass.Name())
	}

	logger := ctx.Logger.With(logfields.RunID(ctx.RunID))
	report := &Report{RunID: ctx.RunID}
	start := time.Now()

	for _, pass := range p.passes {
		res := PassResult{Name: pass.Name(), Priority: pass.Priority()}
		if !enabled.Has(pass.Name()) {
			res.Skipped = true
			report.Passes = append(report.Passes, res)
			recorder.IncPassResult(pass.Name(), metrics.ResultSkipped)
			continue
		}

		passStart := time.Now()
		stats, err := applyPass(pass, t, ctx)
		res.Duration = time.Since(passStart)
		res.Stats = stats
		recorder.ObservePassDuration(pass.Name(), res.Duration)

		attrs := []any{
			logfields.Pass(pass.Name()),
			logfields.Priority(pass.Priority()),
			logfields.DurationMS(float64(res.Duration.Microseconds()) / 1000),
		}
		if err != nil {
			res.Err = err
			res.Error = err.Error()
			report.Passes = append(report.Passes, res)
			recorder.IncPassResult(pass.Name(), metrics.ResultFailed)
			if !opts.ContinueOnError {
				logger.Error("Pass failed, aborting run", append(attrs, logfields.Error(err))...)
				report.Warnings = ctx.Warnings
				finish(recorder, start, metrics.OutcomeFailed)
				return report, errors.WrapError(err, errors.CategoryPass, "pass "+pass.Name()+" failed").
					Fatal().
					WithContext("pass", pass.Name()).
					Build()
			}
			logger.Warn("Pass failed, continuing", append(attrs, logfields.Error(err))...)
			continue
		}

		recorder.IncPassResult(pass.Name(), metrics.ResultSuccess)
		report.Passes = append(report.Passes, res)
		logger.Debug("Pass complete", append(attrs, slog.Any("stats", map[string]int(stats)))...)
	}

	report.Completed = true
	report.Warnings = ctx.Warnings
	outcome := metrics.OutcomeSuccess
	if !report.Success() {
		outcome = metrics.OutcomePartial
	}
	finish(recorder, start, outcome)
	logger.Info("Pipeline complete",
		logfields.Count(len(report.Passes)),
		slog.Int("failed", len(report.Failed())),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return report, nil
}

func finish(recorder metrics.Recorder, start time.Time, outcome metrics.RunOutcome) {
	recorder.ObserveRunDuration(time.Since(start))
	recorder.IncRunOutcome(outcome)
}

// applyPass runs one pass, converting a panic into an error.
func applyPass(pass Pass, t *markup.Tree, ctx *Context) (stats Stats, err error) {
	stats = Stats{}
	defer func() {
		if r := recover(); r != nil {
			err = errors.InternalError("pass panicked").
				WithCause(fmt.Errorf("%v", r)).
				WithContext("pass", pass.Name()).
				Build()
		}
	}()
	got, err := pass.Apply(t, ctx)
	for k, v := range got {
		stats[k] += v
	}
	return stats, err
}
