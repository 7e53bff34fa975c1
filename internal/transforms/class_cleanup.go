package transforms

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// RootOverflowClass is appended once per tree to the outermost named element.
const RootOverflowClass = "overflow-x-hidden"

type fontStep struct {
	px   float64
	name string
}

// fontSizeSteps is the named text scale in ascending pixel order.
var fontSizeSteps = []fontStep{
	{12, "text-xs"},
	{14, "text-sm"},
	{16, "text-base"},
	{18, "text-lg"},
	{20, "text-xl"},
	{24, "text-2xl"},
	{30, "text-3xl"},
	{36, "text-4xl"},
	{48, "text-5xl"},
	{60, "text-6xl"},
	{72, "text-7xl"},
	{96, "text-8xl"},
	{128, "text-9xl"},
}

var pxFontSize = regexp.MustCompile(`^text-\[(\d+(?:\.\d+)?)px\]$`)

// NearestFontSize maps a pixel size to the closest named step. Ties go to
// the smaller step; sizes outside the scale are not mapped.
func NearestFontSize(px float64) (string, bool) {
	first, last := fontSizeSteps[0], fontSizeSteps[len(fontSizeSteps)-1]
	if px < first.px || px > last.px {
		return "", false
	}
	best := first
	for _, s := range fontSizeSteps[1:] {
		if math.Abs(s.px-px) < math.Abs(best.px-px) {
			best = s
		}
	}
	return best.name, true
}

// classCleanup fixes known-bad token combinations left by the exporter.
type classCleanup struct{}

func (classCleanup) Name() string  { return "class_cleanup" }
func (classCleanup) Priority() int { return 30 }
func (classCleanup) Dependencies() Dependencies {
	return Dependencies{MustRunAfter: []string{"font_syntax"}}
}

func (classCleanup) Apply(t *markup.Tree, ctx *Context) (Stats, error) {
	stats := Stats{}
	elements := t.Elements()

	if !ctx.RootProcessed {
		for _, id := range elements {
			if t.Name(id) == "" {
				continue
			}
			if t.AddClass(id, RootOverflowClass) {
				stats.Add("root_overflow", 1)
			}
			ctx.RootProcessed = true
			break
		}
		if !ctx.RootProcessed {
			ctx.Logger.Debug("No named container, root overflow fix skipped", logfields.RunID(ctx.RunID))
		}
	}

	for _, id := range elements {
		tokens := t.Classes(id)
		if len(tokens) == 0 {
			continue
		}
		changed := false

		if slices.Contains(tokens, "basis-0") &&
			(slices.Contains(tokens, "grow") || slices.Contains(tokens, "flex-grow")) &&
			!markup.HasPrefixToken(tokens, "w-") {
			tokens = append(tokens, "w-full")
			stats.Add("flex_width", 1)
			changed = true
		}

		kept := tokens[:0:0]
		pre := slices.Contains(tokens, "whitespace-pre")
		nowrap := slices.Contains(tokens, "text-nowrap") || slices.Contains(tokens, "whitespace-nowrap")
		for _, tok := range tokens {
			switch {
			case isQuotedFontToken(tok):
				stats.Add("invalid_font_tokens", 1)
				changed = true
				continue
			case pre && nowrap && (tok == "whitespace-pre" || tok == "text-nowrap" || tok == "whitespace-nowrap"):
				stats.Add("nowrap_tokens", 1)
				changed = true
				continue
			}
			if m := pxFontSize.FindStringSubmatch(tok); m != nil {
				px, _ := strconv.ParseFloat(m[1], 64)
				if name, ok := NearestFontSize(px); ok {
					tok = name
					stats.Add("font_sizes", 1)
					changed = true
				}
			}
			kept = append(kept, tok)
		}
		if changed {
			t.SetClasses(id, kept)
		}
	}
	return stats, nil
}

func isQuotedFontToken(tok string) bool {
	return strings.HasPrefix(tok, "font-['") || strings.HasPrefix(tok, `font-["`)
}
