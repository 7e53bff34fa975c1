package cssvars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/designpipe/internal/cssreg"
)

func TestResolveEscapeLevels(t *testing.T) {
	tokens := []string{
		`p-[var(--margin/r,32px)]`,
		`p-[var(--margin\/r,32px)]`,
		`p-[var(--margin\\/r,32px)]`,
		`p-[var(--margin\\\/r,32px)]`,
	}
	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			res, ok := Resolve(tok)
			require.True(t, ok)
			assert.False(t, res.Degraded)
			assert.Equal(t, "p-margin-r", res.Class)
			assert.Equal(t, cssreg.Entry{
				Properties: []string{"padding"},
				Variable:   "--margin-r",
				Fallback:   "32px",
			}, res.Entry)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		class    string
		props    []string
		variable string
		fallback string
	}{
		{"gap x", "gap-x-[var(--spacing\\/m,16px)]", "gap-x-spacing-m", []string{"column-gap"}, "--spacing-m", "16px"},
		{"background", "bg-[var(--color\\/brand\\/primary,#ff0000)]", "bg-color-brand-primary", []string{"background-color"}, "--color-brand-primary", "#ff0000"},
		{"text color hint", "text-[color:var(--fg,#111)]", "text-fg", []string{"color"}, "--fg", "#111"},
		{"text length hint", "text-[length:var(--type\\/body,16px)]", "text-type-body", []string{"font-size"}, "--type-body", "16px"},
		{"nested fallback", "shadow-[var(--elev,0px_1px_2px_rgba(0,0,0,0.1))]", "shadow-elev", []string{"box-shadow"}, "--elev", "0px 1px 2px rgba(0,0,0,0.1)"},
		{"parentheses in name", "rounded-[var(--radius(lg),8px)]", "rounded-radius-lg", []string{"border-radius"}, "--radius-lg", "8px"},
		{"no fallback", "w-[var(--card)]", "w-card", []string{"width"}, "--card", ""},
		{"corner radius", "rounded-tl-[var(--r,4px)]", "rounded-tl-r", []string{"border-top-left-radius"}, "--r", "4px"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Resolve(tt.token)
			require.True(t, ok)
			assert.Equal(t, tt.class, res.Class)
			assert.Equal(t, tt.props, res.Entry.Properties)
			assert.Equal(t, tt.variable, res.Entry.Variable)
			assert.Equal(t, tt.fallback, res.Entry.Fallback)
		})
	}
}

func TestResolveUnknownPrefixDegrades(t *testing.T) {
	res, ok := Resolve("skew-[var(--tilt,3deg)]")
	require.True(t, ok)
	assert.True(t, res.Degraded)
	assert.Equal(t, "skew-[3deg]", res.Class)

	_, ok = Resolve("skew-[var(--tilt)]")
	assert.False(t, ok)
}

func TestResolveIgnores(t *testing.T) {
	for _, tok := range []string{
		"p-4",
		"w-[12px]",
		"hover:bg-[var(--x,red)]",
		"!p-[var(--x,1px)]",
		"p-[var(x,1px)]",
		"p-[calc(var(--x)+1px)]",
	} {
		t.Run(tok, func(t *testing.T) {
			_, ok := Resolve(tok)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "color-brand-primary", NormalizeName(`--color\/brand\/primary`))
	assert.Equal(t, "a-b", NormalizeName(`--a  ..b`))
	assert.Equal(t, "x", NormalizeName(`--/x/`))
}

func TestResolveTokens(t *testing.T) {
	reg := cssreg.New()
	out, counts := ResolveTokens([]string{"flex", "p-[var(--pad,8px)]", "skew-[var(--t,2deg)]"}, reg)
	assert.Equal(t, []string{"flex", "p-pad", "skew-[2deg]"}, out)
	assert.Equal(t, Counts{Resolved: 1, Degraded: 1}, counts)
	assert.Equal(t, 1, reg.Len())

	// Second pass over the rewritten tokens changes nothing.
	again, counts := ResolveTokens(out, reg)
	assert.Equal(t, out, again)
	assert.Equal(t, Counts{}, counts)

	// Same class with a different definition is a conflict but still rewritten.
	_, counts = ResolveTokens([]string{"p-[var(--pad,12px)]"}, reg)
	assert.Equal(t, 1, counts.Conflicts)
}

func TestRewriteText(t *testing.T) {
	reg := cssreg.New()
	src := `<div class="flex p-[var(--margin\/r,32px)]"><span className='text-[color:var(--fg,#111)]'>x</span><p class="p-2">y</p></div>`

	out, n := RewriteText(src, reg)
	assert.Equal(t, 2, n)
	assert.Contains(t, out, `class="flex p-margin-r"`)
	assert.Contains(t, out, `className="text-fg"`)
	assert.Contains(t, out, `class="p-2"`)
	assert.Equal(t, 2, reg.Len())

	again, n := RewriteText(out, reg)
	assert.Equal(t, 0, n)
	assert.Equal(t, out, again)
}

func TestRewriteTextOnlyClassAttributes(t *testing.T) {
	reg := cssreg.New()
	src := `<div data-class="p-[var(--x,1px)]" aria-className='m-[var(--y,2px)]' class="flex">x</div>`

	out, n := RewriteText(src, reg)
	assert.Zero(t, n)
	assert.Equal(t, src, out)
	assert.Zero(t, reg.Len())
}

func TestRewriteTextKeepsLeadingWhitespace(t *testing.T) {
	reg := cssreg.New()
	out, n := RewriteText("<div\n\tclass=\"p-[var(--pad,8px)]\">x</div>", reg)
	assert.Equal(t, 1, n)
	assert.Equal(t, "<div\n\tclass=\"p-pad\">x</div>", out)
}
