package transforms

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationResult holds the results of pipeline validation.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result.
func (vr *ValidationResult) AddError(format string, args ...any) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result.
func (vr *ValidationResult) AddWarning(format string, args ...any) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// String formats the result for terminal output.
func (vr *ValidationResult) String() string {
	var sb strings.Builder
	if vr.Valid && len(vr.Warnings) == 0 {
		sb.WriteString("✓ Pass order is valid with no warnings\n")
		return sb.String()
	}
	if len(vr.Errors) > 0 {
		fmt.Fprintf(&sb, "✗ Errors (%d):\n", len(vr.Errors))
		for i, err := range vr.Errors {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, err)
		}
	}
	if len(vr.Warnings) > 0 {
		fmt.Fprintf(&sb, "⚠ Warnings (%d):\n", len(vr.Warnings))
		for i, w := range vr.Warnings {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, w)
		}
	}
	return sb.String()
}

// ValidateOrder checks that the declared priorities of passes honor their
// dependencies. Dependencies on passes that are not part of the set are
// warnings only, so a subset with passes disabled still validates.
func ValidateOrder(passes []Pass) *ValidationResult {
	result := &ValidationResult{Valid: true}

	byName := make(map[string]Pass, len(passes))
	for _, p := range passes {
		if _, dup := byName[p.Name()]; dup {
			result.AddError("duplicate pass name %q", p.Name())
			continue
		}
		byName[p.Name()] = p
	}

	for _, p := range passes {
		deps := p.Dependencies()
		for _, dep := range deps.MustRunAfter {
			other, ok := byName[dep]
			if !ok {
				result.AddWarning("pass %q runs after %q which is not enabled", p.Name(), dep)
				continue
			}
			if other.Priority() >= p.Priority() {
				result.AddError("pass %q (priority %d) must run after %q (priority %d)",
					p.Name(), p.Priority(), dep, other.Priority())
			}
		}
		for _, after := range deps.MustRunBefore {
			other, ok := byName[after]
			if !ok {
				result.AddWarning("pass %q runs before %q which is not enabled", p.Name(), after)
				continue
			}
			if other.Priority() <= p.Priority() {
				result.AddError("pass %q (priority %d) must run before %q (priority %d)",
					p.Name(), p.Priority(), after, other.Priority())
			}
		}
	}

	if _, err := topologicalSort(passes); err != nil {
		result.AddError("%v", err)
	}
	return result
}

// topologicalSort resolves dependencies with Kahn's algorithm. It is used to
// detect cycles; execution order always follows priorities.
func topologicalSort(passes []Pass) ([]Pass, error) {
	if len(passes) == 0 {
		return []Pass{}, nil
	}

	byName := make(map[string]Pass)
	for _, p := range passes {
		if _, exists := byName[p.Name()]; exists {
			return nil, fmt.Errorf("duplicate pass name: %q", p.Name())
		}
		byName[p.Name()] = p
	}

	graph := make(map[string][]string)
	inDegree := make(map[string]int)
	for _, p := range passes {
		graph[p.Name()] = []string{}
		inDegree[p.Name()] = 0
	}

	// Edges point from the pass that runs first to the one that runs later.
	// Passes outside the set are ignored.
	for _, p := range passes {
		name := p.Name()
		deps := p.Dependencies()
		for _, dep := range deps.MustRunAfter {
			if _, exists := byName[dep]; exists {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
		for _, after := range deps.MustRunBefore {
			if _, exists := byName[after]; exists {
				graph[name] = append(graph[name], after)
				inDegree[after]++
			}
		}
	}

	var queue []string
	for _, p := range passes {
		if inDegree[p.Name()] == 0 {
			queue = append(queue, p.Name())
		}
	}
	sort.Strings(queue)

	var result []Pass
	visited := make(map[string]bool)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		result = append(result, byName[current])

		neighbors := graph[current]
		sort.Strings(neighbors)
		for _, neighbor := range neighbors {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(passes) {
		var unvisited []string
		for _, p := range passes {
			if !visited[p.Name()] {
				unvisited = append(unvisited, p.Name())
			}
		}
		sort.Strings(unvisited)
		return nil, fmt.Errorf("circular dependency detected involving passes: %v", unvisited)
	}
	return result, nil
}
