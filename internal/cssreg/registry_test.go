package cssreg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := New()
	entry := Entry{Properties: []string{"padding"}, Variable: "--margin-r", Fallback: "32px"}

	require.NoError(t, r.Register("p-margin-r", entry))
	require.NoError(t, r.Register("p-margin-r", entry))
	assert.Equal(t, 1, r.Len())

	err := r.Register("p-margin-r", Entry{Properties: []string{"margin"}, Variable: "--margin-r"})
	assert.True(t, errors.Is(err, ErrConflict))

	got, ok := r.Get("p-margin-r")
	require.True(t, ok)
	assert.Equal(t, []string{"padding"}, got.Properties)
}

func TestStylesheet(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("p-margin-r", Entry{Properties: []string{"padding"}, Variable: "--margin-r", Fallback: "32px"}))
	require.NoError(t, r.Register("rounded-radius", Entry{Properties: []string{"border-radius"}, Variable: "--radius"}))
	require.NoError(t, r.Register("gap-x-space", Entry{Properties: []string{"column-gap"}, Variable: "--space", Fallback: "8px"}))

	want := `:root {
  --margin-r: 32px;
  --space: 8px;
}

.gap-x-space {
  column-gap: var(--space);
}

.p-margin-r {
  padding: var(--margin-r);
}

.rounded-radius {
  border-radius: var(--radius);
}
`
	assert.Equal(t, want, r.Stylesheet())
}

func TestStylesheetLiteralEntries(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("px-gutter", Entry{Properties: []string{"padding-left", "padding-right"}, Value: "24px"}))
	assert.Equal(t, ".px-gutter {\n  padding-left: 24px;\n  padding-right: 24px;\n}\n", r.Stylesheet())
	assert.Empty(t, New().Stylesheet())
}

func TestMerge(t *testing.T) {
	a := New()
	b := New()
	require.NoError(t, a.Register("w-card", Entry{Properties: []string{"width"}, Variable: "--card"}))
	require.NoError(t, b.Register("w-card", Entry{Properties: []string{"height"}, Variable: "--card"}))
	require.NoError(t, b.Register("h-card", Entry{Properties: []string{"height"}, Variable: "--card"}))

	conflicts := a.Merge(b)
	assert.Equal(t, []string{"w-card"}, conflicts)
	assert.Equal(t, []string{"w-card", "h-card"}, a.Classes())
}

func TestEscapeClass(t *testing.T) {
	assert.Equal(t, "p-margin-r", EscapeClass("p-margin-r"))
	assert.Equal(t, `w-\[12px\]`, EscapeClass("w-[12px]"))
	assert.Equal(t, `\32 xl`, EscapeClass("2xl"))
}
