package transforms

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// spacingScale maps pixel values to spacing scale suffixes (4px unit).
var spacingScale = map[float64]string{
	0: "0", 1: "px", 2: "0.5", 4: "1", 6: "1.5", 8: "2", 10: "2.5", 12: "3", 14: "3.5",
	16: "4", 20: "5", 24: "6", 28: "7", 32: "8", 36: "9", 40: "10", 44: "11", 48: "12",
	56: "14", 64: "16", 80: "20", 96: "24", 112: "28", 128: "32", 144: "36", 160: "40",
	176: "44", 192: "48", 208: "52", 224: "56", 240: "60", 256: "64", 288: "72", 320: "80",
	384: "96",
}

// radiusScale maps pixel radii to named steps; "" is the bare rounded token.
var radiusScale = map[float64]string{
	0: "none", 2: "sm", 4: "", 6: "md", 8: "lg", 12: "xl", 16: "2xl", 24: "3xl", 9999: "full",
}

var spacingPrefixes = map[string]bool{
	"p": true, "px": true, "py": true, "pt": true, "pr": true, "pb": true, "pl": true, "ps": true, "pe": true,
	"m": true, "mx": true, "my": true, "mt": true, "mr": true, "mb": true, "ml": true, "ms": true, "me": true,
	"gap": true, "gap-x": true, "gap-y": true, "space-x": true, "space-y": true,
	"w": true, "h": true, "size": true, "min-w": true, "min-h": true, "max-h": true, "basis": true,
	"top": true, "right": true, "bottom": true, "left": true, "inset": true, "inset-x": true, "inset-y": true,
}

// negatable prefixes accept a leading minus on the scale token.
var negatable = map[string]bool{
	"m": true, "mx": true, "my": true, "mt": true, "mr": true, "mb": true, "ml": true, "ms": true, "me": true,
	"top": true, "right": true, "bottom": true, "left": true, "inset": true, "inset-x": true, "inset-y": true,
	"space-x": true, "space-y": true,
}

var radiusPrefixes = map[string]bool{
	"rounded": true, "rounded-t": true, "rounded-r": true, "rounded-b": true, "rounded-l": true,
	"rounded-s": true, "rounded-e": true, "rounded-tl": true, "rounded-tr": true,
	"rounded-br": true, "rounded-bl": true, "rounded-ss": true, "rounded-se": true,
	"rounded-es": true, "rounded-ee": true,
}

var arbitraryPx = regexp.MustCompile(`^(-?)([a-z]+(?:-[a-z]+)*?)-\[(-?\d+(?:\.\d+)?)px\]$`)

// OptimizeToken rewrites one arbitrary pixel token to its scale equivalent.
func OptimizeToken(tok string) (string, bool) {
	m := arbitraryPx.FindStringSubmatch(tok)
	if m == nil {
		return tok, false
	}
	prefix := m[2]
	v, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return tok, false
	}
	neg := (m[1] == "-") != (v < 0)
	if v < 0 {
		v = -v
	}

	if radiusPrefixes[prefix] && !neg && m[1] == "" {
		step, ok := radiusScale[v]
		if !ok {
			return tok, false
		}
		if step == "" {
			return prefix, true
		}
		return prefix + "-" + step, true
	}

	if !spacingPrefixes[prefix] {
		return tok, false
	}
	step, ok := spacingScale[v]
	if !ok {
		return tok, false
	}
	if neg {
		if v == 0 {
			return prefix + "-0", true
		}
		if !negatable[prefix] {
			return tok, false
		}
		return "-" + prefix + "-" + step, true
	}
	return prefix + "-" + step, true
}

// squareValue reports whether a w-/h- suffix can be expressed as size-*.
func squareValue(v string) bool {
	if v == "full" || strings.HasPrefix(v, "[") {
		return true
	}
	for _, s := range spacingScale {
		if s == v {
			return true
		}
	}
	return false
}

// mergeSquare replaces a matching w-X h-X pair with size-X.
func mergeSquare(tokens []string) ([]string, bool) {
	var wi, hi = -1, -1
	for i, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "w-"):
			if wi >= 0 {
				return tokens, false
			}
			wi = i
		case strings.HasPrefix(tok, "h-"):
			if hi >= 0 {
				return tokens, false
			}
			hi = i
		}
	}
	if wi < 0 || hi < 0 {
		return tokens, false
	}
	wv, hv := tokens[wi][2:], tokens[hi][2:]
	if wv != hv || !squareValue(wv) || markup.HasPrefixToken(tokens, "size-") {
		return tokens, false
	}
	out := slices.Clone(tokens)
	out[wi] = "size-" + wv
	return slices.Delete(out, hi, hi+1), true
}

// utilityOptimize maps arbitrary pixel utilities onto the standard scale.
type utilityOptimize struct{}

func (utilityOptimize) Name() string  { return "utility_optimize" }
func (utilityOptimize) Priority() int { return 90 }
func (utilityOptimize) Dependencies() Dependencies {
	return Dependencies{MustRunAfter: []string{"css_variables"}}
}

func (utilityOptimize) Apply(t *markup.Tree, _ *Context) (Stats, error) {
	stats := Stats{}
	for _, id := range t.Elements() {
		tokens := t.Classes(id)
		if len(tokens) == 0 {
			continue
		}
		changed := false
		out := make([]string, len(tokens))
		for i, tok := range tokens {
			if repl, ok := OptimizeToken(tok); ok {
				out[i] = repl
				stats.Add("tokens", 1)
				changed = true
				continue
			}
			out[i] = tok
		}
		if merged, ok := mergeSquare(out); ok {
			out = merged
			stats.Add("squares", 1)
			changed = true
		}
		if changed {
			t.SetClasses(id, out)
		}
	}
	return stats, nil
}
