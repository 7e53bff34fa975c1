package transforms

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/metrics"
)

func mustParse(t *testing.T, src string) *markup.Tree {
	t.Helper()
	tree, err := markup.ParseString(src)
	require.NoError(t, err)
	return tree
}

// byName finds the first element carrying data-name.
func byName(t *testing.T, tree *markup.Tree, name string) markup.NodeID {
	t.Helper()
	for _, id := range tree.Elements() {
		if tree.Name(id) == name {
			return id
		}
	}
	t.Fatalf("no element named %q", name)
	return markup.NoNode
}

func apply(t *testing.T, p Pass, tree *markup.Tree, ctx *Context) Stats {
	t.Helper()
	if ctx == nil {
		ctx = NewContext()
	}
	stats, err := p.Apply(tree, ctx)
	require.NoError(t, err)
	return stats
}

// mockPass is a configurable pass for runner tests.
type mockPass struct {
	name     string
	priority int
	deps     Dependencies
	fn       func(*markup.Tree, *Context) (Stats, error)
}

func (m mockPass) Name() string               { return m.name }
func (m mockPass) Priority() int              { return m.priority }
func (m mockPass) Dependencies() Dependencies { return m.deps }
func (m mockPass) Apply(t *markup.Tree, ctx *Context) (Stats, error) {
	if m.fn == nil {
		return Stats{}, nil
	}
	return m.fn(t, ctx)
}

var errBoom = errors.New("boom")

type testRecorder struct {
	results  map[string]metrics.ResultLabel
	outcomes []metrics.RunOutcome
}

func newTestRecorder() *testRecorder {
	return &testRecorder{results: map[string]metrics.ResultLabel{}}
}

func (r *testRecorder) ObservePassDuration(string, time.Duration) {}
func (r *testRecorder) IncPassResult(pass string, res metrics.ResultLabel) {
	r.results[pass] = res
}
func (r *testRecorder) ObserveRunDuration(time.Duration)               {}
func (r *testRecorder) IncRunOutcome(o metrics.RunOutcome)             { r.outcomes = append(r.outcomes, o) }
func (r *testRecorder) ObserveMergeStepDuration(string, time.Duration) {}
func (r *testRecorder) IncAssetRead(metrics.AssetResult)               {}
