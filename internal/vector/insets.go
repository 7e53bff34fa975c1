package vector

import (
	"regexp"
	"strconv"
	"strings"
)

// Insets are edge offsets in percent of the container box.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Box is a placement rectangle in container pixels.
type Box struct {
	X, Y, W, H float64
}

// Box converts percentage insets to a pixel rectangle inside w×h.
func (in Insets) Box(w, h float64) Box {
	x := in.Left / 100 * w
	y := in.Top / 100 * h
	return Box{
		X: x,
		Y: y,
		W: w - x - in.Right/100*w,
		H: h - y - in.Bottom/100*h,
	}
}

var positionToken = regexp.MustCompile(`^(-?)(inset-x|inset-y|inset|top|right|bottom|left)-(.+)$`)

// IsPositionToken reports whether tok sets an inset or edge offset.
func IsPositionToken(tok string) bool { return positionToken.MatchString(tok) }

// PositionTokens filters the inset and edge offset tokens out of tokens.
func PositionTokens(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if IsPositionToken(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// IsFullBleed reports whether tokens pin an element to all four edges
// without offset.
func IsFullBleed(tokens []string) bool {
	in, ok := ParseInsets(tokens, 1, 1)
	return ok && in == Insets{}
}

// HasPercentOffsets reports whether any position token uses a percentage.
func HasPercentOffsets(tokens []string) bool {
	for _, tok := range PositionTokens(tokens) {
		if strings.Contains(tok, "%") {
			return true
		}
	}
	return false
}

// ParseInsets reads inset/top/right/bottom/left tokens. Percentages are
// taken as is; pixel values are converted against w and h. Edges that are
// not mentioned default to zero. It reports false when no token applies or
// a value cannot be read.
func ParseInsets(tokens []string, w, h float64) (Insets, bool) {
	var in Insets
	found := false
	for _, tok := range tokens {
		m := positionToken.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		neg := m[1] == "-"
		vals, ok := parseValues(m[3], neg)
		if !ok {
			return Insets{}, false
		}
		found = true
		switch m[2] {
		case "inset":
			t, r, b, l, ok := expandShorthand(vals)
			if !ok {
				return Insets{}, false
			}
			in.Top, in.Right, in.Bottom, in.Left = t.pct(h), r.pct(w), b.pct(h), l.pct(w)
		case "inset-x":
			if len(vals) != 1 {
				return Insets{}, false
			}
			in.Left, in.Right = vals[0].pct(w), vals[0].pct(w)
		case "inset-y":
			if len(vals) != 1 {
				return Insets{}, false
			}
			in.Top, in.Bottom = vals[0].pct(h), vals[0].pct(h)
		case "top":
			in.Top = vals[0].pct(h)
		case "right":
			in.Right = vals[0].pct(w)
		case "bottom":
			in.Bottom = vals[0].pct(h)
		case "left":
			in.Left = vals[0].pct(w)
		}
	}
	return in, found
}

type length struct {
	v       float64
	percent bool
}

func (l length) pct(extent float64) float64 {
	if l.percent || l.v == 0 {
		return l.v
	}
	if extent <= 0 {
		return 0
	}
	return l.v / extent * 100
}

func parseValues(raw string, neg bool) ([]length, bool) {
	if raw == "0" || raw == "0px" {
		return []length{{v: 0}}, true
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, false
	}
	parts := strings.Split(raw[1:len(raw)-1], "_")
	if len(parts) == 0 || len(parts) > 4 {
		return nil, false
	}
	out := make([]length, 0, len(parts))
	for _, p := range parts {
		l, ok := parseLength(p)
		if !ok {
			return nil, false
		}
		if neg {
			l.v = -l.v
		}
		out = append(out, l)
	}
	return out, true
}

func parseLength(s string) (length, bool) {
	switch {
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return length{v: v, percent: true}, err == nil
	case strings.HasSuffix(s, "px"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		return length{v: v}, err == nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v != 0 {
			return length{}, false
		}
		return length{}, true
	}
}

// expandShorthand applies CSS inset shorthand rules for 1 to 4 values.
func expandShorthand(v []length) (t, r, b, l length, ok bool) {
	switch len(v) {
	case 1:
		return v[0], v[0], v[0], v[0], true
	case 2:
		return v[0], v[1], v[0], v[1], true
	case 3:
		return v[0], v[1], v[2], v[1], true
	case 4:
		return v[0], v[1], v[2], v[3], true
	}
	return
}

var pxDimension = regexp.MustCompile(`^(w|h|size)-\[(\d+(?:\.\d+)?)px\]$`)

// DeclaredSize reads explicit pixel width and height from w-[Npx] h-[Npx]
// or size-[Npx] tokens.
func DeclaredSize(tokens []string) (w, h float64, ok bool) {
	for _, tok := range tokens {
		m := pxDimension.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		switch m[1] {
		case "w":
			w = v
		case "h":
			h = v
		case "size":
			w, h = v, v
		}
	}
	return w, h, w > 0 && h > 0
}

// SizeTokens returns the width, height and size tokens of tokens.
func SizeTokens(tokens []string) []string {
	var out []string
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "w-") || strings.HasPrefix(tok, "h-") || strings.HasPrefix(tok, "size-") {
			out = append(out, tok)
		}
	}
	return out
}
