// Package cssreg collects synthetic utility classes produced while rewriting
// design tokens and renders them as a stylesheet.
package cssreg

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// ErrConflict is returned when a class is registered twice with different
// definitions. The first registration is kept.
var ErrConflict = errors.New("conflicting class definition")

// Entry is the definition behind one synthetic class. Either Value is set
// (a literal declaration) or Variable names a custom property with an
// optional Fallback.
type Entry struct {
	Properties []string
	Value      string
	Variable   string
	Fallback   string
}

// IsVariable reports whether the entry refers to a custom property.
func (e Entry) IsVariable() bool { return e.Variable != "" }

func (e Entry) equal(o Entry) bool {
	return slices.Equal(e.Properties, o.Properties) &&
		e.Value == o.Value && e.Variable == o.Variable && e.Fallback == o.Fallback
}

func (e Entry) declarationValue() string {
	if e.IsVariable() {
		return "var(" + e.Variable + ")"
	}
	return e.Value
}

// Registry maps class names to entries. Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Entry
	order   []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: map[string]Entry{}}
}

// Register records class. Registering an identical entry again is a no-op;
// a differing entry returns ErrConflict.
func (r *Registry) Register(class string, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[class]; ok {
		if cur.equal(e) {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConflict, class)
	}
	r.entries[class] = Entry{
		Properties: slices.Clone(e.Properties),
		Value:      e.Value,
		Variable:   e.Variable,
		Fallback:   e.Fallback,
	}
	r.order = append(r.order, class)
	return nil
}

// Get returns the entry for class.
func (r *Registry) Get(class string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[class]
	return e, ok
}

// Len reports the number of registered classes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Classes returns class names in registration order.
func (r *Registry) Classes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Merge copies every entry of o into r and returns the classes that
// conflicted.
func (r *Registry) Merge(o *Registry) []string {
	if o == nil || o == r {
		return nil
	}
	var conflicts []string
	for _, class := range o.Classes() {
		e, _ := o.Get(class)
		if err := r.Register(class, e); err != nil {
			conflicts = append(conflicts, class)
		}
	}
	return conflicts
}

// Stylesheet renders a :root block with variable fallbacks followed by one
// rule per class, sorted by class name.
func (r *Registry) Stylesheet() string {
	r.mu.Lock()
	classes := slices.Clone(r.order)
	entries := make(map[string]Entry, len(r.entries))
	for k, v := range r.entries {
		entries[k] = v
	}
	r.mu.Unlock()

	if len(classes) == 0 {
		return ""
	}
	sort.Strings(classes)

	vars := map[string]string{}
	for _, c := range classes {
		e := entries[c]
		if !e.IsVariable() || e.Fallback == "" {
			continue
		}
		if _, seen := vars[e.Variable]; !seen {
			vars[e.Variable] = e.Fallback
		}
	}

	var b strings.Builder
	if len(vars) > 0 {
		names := make([]string, 0, len(vars))
		for n := range vars {
			names = append(names, n)
		}
		sort.Strings(names)
		b.WriteString(":root {\n")
		for _, n := range names {
			fmt.Fprintf(&b, "  %s: %s;\n", n, vars[n])
		}
		b.WriteString("}\n")
	}
	for _, c := range classes {
		e := entries[c]
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("." + EscapeClass(c) + " {\n")
		for _, p := range e.Properties {
			fmt.Fprintf(&b, "  %s: %s;\n", p, e.declarationValue())
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// EscapeClass escapes characters that are not valid in a bare class selector.
func EscapeClass(class string) string {
	var b strings.Builder
	for i, r := range class {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&b, "\\3%c ", r)
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteRune('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
