// Package cssvars rewrites utility tokens whose arbitrary value is a CSS
// custom-property reference, such as p-[var(--margin\/r,32px)], into
// synthetic class names backed by a cssreg.Registry.
//
// The same Resolve function serves both the tree pass and the text-level
// safety net, so the two can never disagree on naming or fallbacks.
package cssvars

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/cssreg"
)

// Resolution is the outcome of resolving one token.
type Resolution struct {
	Token string
	Class string
	Entry cssreg.Entry
	// Degraded is set when the prefix is unknown and the token was rewritten
	// to its fallback value instead of a registry class.
	Degraded bool
}

// prefixProperties maps a utility prefix to the CSS properties it sets.
var prefixProperties = map[string][]string{
	"p":  {"padding"},
	"px": {"padding-left", "padding-right"},
	"py": {"padding-top", "padding-bottom"},
	"pt": {"padding-top"},
	"pr": {"padding-right"},
	"pb": {"padding-bottom"},
	"pl": {"padding-left"},
	"ps": {"padding-inline-start"},
	"pe": {"padding-inline-end"},

	"m":  {"margin"},
	"mx": {"margin-left", "margin-right"},
	"my": {"margin-top", "margin-bottom"},
	"mt": {"margin-top"},
	"mr": {"margin-right"},
	"mb": {"margin-bottom"},
	"ml": {"margin-left"},

	"gap":   {"gap"},
	"gap-x": {"column-gap"},
	"gap-y": {"row-gap"},

	"w":     {"width"},
	"h":     {"height"},
	"size":  {"width", "height"},
	"min-w": {"min-width"},
	"min-h": {"min-height"},
	"max-w": {"max-width"},
	"max-h": {"max-height"},
	"basis": {"flex-basis"},

	"rounded":    {"border-radius"},
	"rounded-t":  {"border-top-left-radius", "border-top-right-radius"},
	"rounded-r":  {"border-top-right-radius", "border-bottom-right-radius"},
	"rounded-b":  {"border-bottom-left-radius", "border-bottom-right-radius"},
	"rounded-l":  {"border-top-left-radius", "border-bottom-left-radius"},
	"rounded-tl": {"border-top-left-radius"},
	"rounded-tr": {"border-top-right-radius"},
	"rounded-br": {"border-bottom-right-radius"},
	"rounded-bl": {"border-bottom-left-radius"},

	"bg":      {"background-color"},
	"text":    {"color"},
	"border":  {"border-color"},
	"fill":    {"fill"},
	"stroke":  {"stroke"},
	"outline": {"outline-color"},
	"shadow":  {"box-shadow"},

	"top":    {"top"},
	"right":  {"right"},
	"bottom": {"bottom"},
	"left":   {"left"},
	"inset":  {"inset"},

	"opacity":  {"opacity"},
	"leading":  {"line-height"},
	"tracking": {"letter-spacing"},
	"z":        {"z-index"},
}

func propertiesFor(prefix, hint string) []string {
	if prefix == "text" && hint == "length" {
		return []string{"font-size"}
	}
	if prefix == "border" && hint == "length" {
		return []string{"border-width"}
	}
	return prefixProperties[prefix]
}

// Resolve rewrites a single token. It reports false when the token does not
// carry a custom-property reference or is malformed.
func Resolve(token string) (Resolution, bool) {
	if !strings.Contains(token, "var(") || !strings.HasSuffix(token, "]") {
		return Resolution{}, false
	}
	open := strings.Index(token, "-[")
	if open <= 0 {
		return Resolution{}, false
	}
	prefix := token[:open]
	// Variant-prefixed and important tokens are left alone.
	if strings.ContainsAny(prefix, ":[!") {
		return Resolution{}, false
	}
	inner := token[open+2 : len(token)-1]

	hint := ""
	if h, rest, ok := strings.Cut(inner, ":"); ok && (h == "color" || h == "length") {
		hint, inner = h, rest
	}
	if !strings.HasPrefix(inner, "var(") || !strings.HasSuffix(inner, ")") {
		return Resolution{}, false
	}
	rawName, fallback := splitTopLevelComma(inner[len("var(") : len(inner)-1])
	rawName = strings.TrimSpace(rawName)
	if !strings.HasPrefix(rawName, "--") {
		return Resolution{}, false
	}
	name := NormalizeName(rawName)
	if name == "" {
		return Resolution{}, false
	}
	fallback = strings.TrimSpace(strings.ReplaceAll(fallback, "_", " "))

	props := propertiesFor(prefix, hint)
	if props == nil {
		if fallback == "" {
			return Resolution{}, false
		}
		return Resolution{
			Token:    token,
			Class:    prefix + "-[" + strings.ReplaceAll(fallback, " ", "_") + "]",
			Degraded: true,
		}, true
	}
	return Resolution{
		Token: token,
		Class: prefix + "-" + name,
		Entry: cssreg.Entry{
			Properties: props,
			Variable:   "--" + name,
			Fallback:   fallback,
		},
	}, true
}

// splitTopLevelComma splits at the first comma outside parentheses.
func splitTopLevelComma(s string) (string, string) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

var (
	escapedSeparator = regexp.MustCompile(`\\*[/()]`)
	invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	dashRuns         = regexp.MustCompile(`-{2,}`)
)

// NormalizeName turns a raw custom-property name into a class-safe suffix.
// Escaped path separators and parentheses at any escape depth become dashes.
func NormalizeName(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "--")
	s = escapedSeparator.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, `\`, "")
	s = invalidNameChars.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Counts tallies what ResolveTokens did.
type Counts struct {
	Resolved  int
	Degraded  int
	Conflicts int
}

// ResolveTokens rewrites every resolvable token, registering synthetic
// classes in reg. Conflicting registrations keep the first definition and
// still rewrite the token.
func ResolveTokens(tokens []string, reg *cssreg.Registry) ([]string, Counts) {
	var c Counts
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		res, ok := Resolve(tok)
		if !ok {
			out = append(out, tok)
			continue
		}
		if res.Degraded {
			c.Degraded++
		} else {
			c.Resolved++
			if reg != nil {
				if err := reg.Register(res.Class, res.Entry); err != nil {
					c.Conflicts++
				}
			}
		}
		out = append(out, res.Class)
	}
	return out, c
}
