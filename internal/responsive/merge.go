// Package responsive merges desktop, tablet and mobile variants of one
// component into a single tree whose classes carry max-width overrides.
//
// The desktop tree is the unprefixed base and is mutated in place. Smaller
// breakpoints contribute prefixed overrides computed against the class
// state already in effect at that width.
package responsive

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/designpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/metrics"
)

// Options configure one merge.
type Options struct {
	Breakpoints Breakpoints
	// Prefixes overrides the variants derived from Breakpoints.
	Prefixes            Prefixes
	SimilarityThreshold float64
	RunID               string
	Logger              *slog.Logger
	Recorder            metrics.Recorder
}

// Conflict records a group on which the breakpoints disagree.
type Conflict struct {
	Node    markup.NodeID `json:"-"`
	Element string        `json:"element"`
	Group   string        `json:"group"`
	Desktop string        `json:"desktop"`
	Tablet  string        `json:"tablet"`
	Mobile  string        `json:"mobile"`
}

// StepResult is the outcome of one sub-pass.
type StepResult struct {
	Name     string         `json:"name"`
	Stats    map[string]int `json:"stats,omitempty"`
	Duration time.Duration  `json:"duration_ns"`
}

// Result summarizes a merge. Tree is the mutated desktop tree.
type Result struct {
	RunID        string         `json:"run_id"`
	Tree         *markup.Tree   `json:"-"`
	Prefixes     Prefixes       `json:"prefixes"`
	Steps        []StepResult   `json:"steps"`
	Matched      map[string]int `json:"matched"`
	Unmatched    map[string]int `json:"unmatched"`
	Conflicts    []Conflict     `json:"conflicts,omitempty"`
	HiddenMobile []string       `json:"hidden_mobile,omitempty"`
	HiddenTablet []string       `json:"hidden_tablet,omitempty"`
	DesktopOnly  []string       `json:"desktop_only,omitempty"`
	Overrides    int            `json:"overrides"`
}

// Step returns the result of the named sub-pass.
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Merge folds tablet and mobile into desktop. Tablet and mobile are only
// read.
func Merge(desktop, tablet, mobile *markup.Tree, opts Options) (*Result, error) {
	for bp, t := range []*markup.Tree{desktop, tablet, mobile} {
		if t == nil || t.Exported() == nil {
			return nil, errors.ValidationError("merge input has no component").
				WithContext("breakpoint", Breakpoint(bp).String()).
				Build()
		}
	}
	prefixes, err := resolvePrefixes(opts)
	if err != nil {
		return nil, err
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}

	s := &state{
		trees:    [3]*markup.Tree{desktop, tablet, mobile},
		opts:     opts,
		prefixes: prefixes,
		byNode:   map[markup.NodeID]*element{},
		logger: opts.Logger.With(
			logfields.RunID(opts.RunID),
			logfields.Component(desktop.Exported().Name)),
	}
	res := &Result{
		RunID:     opts.RunID,
		Tree:      desktop,
		Prefixes:  prefixes,
		Matched:   map[string]int{},
		Unmatched: map[string]int{},
	}

	start := time.Now()
	for _, st := range steps() {
		stepStart := time.Now()
		stats, err := runStep(st, s)
		d := time.Since(stepStart)
		opts.Recorder.ObserveMergeStepDuration(st.name, d)
		if err != nil {
			s.logger.Error("Merge step failed", logfields.Step(st.name), logfields.Error(err))
			return nil, err
		}
		res.Steps = append(res.Steps, StepResult{Name: st.name, Stats: stats, Duration: d})
		s.logger.Debug("Merge step complete",
			logfields.Step(st.name),
			logfields.DurationMS(float64(d.Microseconds())/1000),
			slog.Any("stats", stats))
	}

	res.Overrides = s.write()
	s.fill(res)
	for bp, n := range res.Unmatched {
		if n > 0 {
			s.logger.Warn("Elements left unmerged", logfields.Breakpoint(bp), logfields.Count(n))
		}
	}
	s.logger.Info("Responsive merge complete",
		slog.Int("overrides", res.Overrides),
		slog.Int("conflicts", len(res.Conflicts)),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return res, nil
}

func resolvePrefixes(opts Options) (Prefixes, error) {
	if opts.Prefixes != (Prefixes{}) {
		if err := opts.Prefixes.Validate(); err != nil {
			return Prefixes{}, errors.WrapError(err, errors.CategoryConfig, "invalid breakpoint prefixes").Build()
		}
		return opts.Prefixes, nil
	}
	bps := opts.Breakpoints
	if bps == (Breakpoints{}) {
		bps = DefaultBreakpoints
	}
	p, err := bps.Prefixes()
	if err != nil {
		return Prefixes{}, errors.WrapError(err, errors.CategoryConfig, "invalid breakpoint widths").Build()
	}
	return p, nil
}

// runStep executes st, converting a panic into a merge error.
func runStep(st step, s *state) (stats map[string]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.MergeError("merge step panicked").
				WithCause(fmt.Errorf("%v", r)).
				WithContext("step", st.name).
				Build()
		}
	}()
	stats = map[string]int{}
	st.run(s, stats)
	return stats, nil
}

// write stores the merged class lists on the desktop tree and returns the
// number of prefixed classes added.
func (s *state) write() int {
	t := s.trees[Desktop]
	added := 0
	for _, e := range s.elements {
		merged := e.classes(s.prefixes)
		added += len(merged) - len(e.tokens[Desktop])
		if !slices.Equal(merged, e.tokens[Desktop]) {
			t.SetClasses(e.node, merged)
		}
	}
	return added
}

func (s *state) fill(res *Result) {
	t := s.trees[Desktop]
	label := func(id markup.NodeID) string {
		if name := t.Name(id); name != "" {
			return name
		}
		return fmt.Sprintf("<%s>#%d", t.Tag(id), id)
	}
	for _, bp := range []Breakpoint{Tablet, Mobile} {
		res.Matched[bp.String()] = s.corr[bp].Len()
		res.Unmatched[bp.String()] = len(s.elements) - s.corr[bp].Len()
	}
	res.Conflicts = s.conflicts
	for _, id := range s.hideMobile {
		res.HiddenMobile = append(res.HiddenMobile, label(id))
	}
	for _, id := range s.hideTablet {
		res.HiddenTablet = append(res.HiddenTablet, label(id))
	}
	for _, id := range s.desktopOnly {
		res.DesktopOnly = append(res.DesktopOnly, label(id))
	}
}
