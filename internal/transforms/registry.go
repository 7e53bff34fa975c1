package transforms

import (
	"sort"

	"git.home.luguber.info/inful/designpipe/internal/foundation/errors"
	"git.home.luguber.info/inful/designpipe/internal/util/sets"
)

// simple priority list registry; filled from init() in defaults.go
var reg = map[string]Pass{}

// Register adds a pass (idempotent by name).
func Register(p Pass) {
	if p != nil {
		if _, ok := reg[p.Name()]; !ok {
			reg[p.Name()] = p
		}
	}
}

// Lookup returns the registered pass with the given name.
func Lookup(name string) (Pass, bool) {
	p, ok := reg[name]
	return p, ok
}

// List returns passes sorted by Priority (stable by name for equal priority).
func List() []Pass {
	items := make([]Pass, 0, len(reg))
	for _, p := range reg {
		items = append(items, p)
	}
	sortPasses(items)
	return items
}

// Names returns the registered pass names in execution order.
func Names() []string {
	passes := List()
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Name()
	}
	return names
}

func sortPasses(items []Pass) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority() == items[j].Priority() {
			return items[i].Name() < items[j].Name()
		}
		return items[i].Priority() < items[j].Priority()
	})
}

// BuildPipeline constructs the execution slice filtered by an optional
// allowlist. Names in include that are not registered are rejected.
func BuildPipeline(include sets.Set[string]) ([]Pass, error) {
	return selectPasses(List(), include)
}

// selectPasses keeps the passes named in include, in order. An empty
// include keeps all of them; a name not among passes is a validation error.
func selectPasses(passes []Pass, include sets.Set[string]) ([]Pass, error) {
	if include.Len() == 0 {
		return passes, nil
	}
	known := sets.New[string]()
	for _, p := range passes {
		known.Add(p.Name())
	}
	var unknown []string
	for _, name := range sets.Sorted(include) {
		if !known.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, errors.ValidationError("unknown pass in enabled set").
			WithContext("passes", unknown).
			Build()
	}
	var out []Pass
	for _, p := range passes {
		if include.Has(p.Name()) {
			out = append(out, p)
		}
	}
	return out, nil
}

// SnapshotForTest returns a shallow copy of the registry (test only).
func SnapshotForTest() map[string]Pass {
	cp := make(map[string]Pass, len(reg))
	for k, v := range reg {
		cp[k] = v
	}
	return cp
}

// RestoreForTest replaces the registry (test only).
func RestoreForTest(cp map[string]Pass) { reg = cp }
