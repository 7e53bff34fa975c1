package transforms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/designpipe/internal/assets"
	"git.home.luguber.info/inful/designpipe/internal/markup"
	"git.home.luguber.info/inful/designpipe/internal/metadata"
)

func TestMetadataBackfill(t *testing.T) {
	tree := mustParse(t, `<div data-node-id="1:1"><p data-node-id="1:2">a</p><p data-node-id="1:3" data-name="Kept">b</p><p data-node-id="9:9">c</p></div>`)
	ctx := NewContext()
	ctx.Metadata = metadata.NewIndex(map[string]metadata.NodeInfo{
		"1:1": {Name: "Card"},
		"1:2": {Name: "Title"},
		"1:3": {Name: "Ignored"},
	})

	stats := apply(t, metadataBackfill{}, tree, ctx)
	assert.Equal(t, Stats{"names_added": 2, "unresolved": 1}, stats)
	assert.Equal(t, "Card", tree.Name(tree.Exported().Root))
	byName(t, tree, "Title")
	byName(t, tree, "Kept")

	// Without an index nothing happens.
	assert.Empty(t, apply(t, metadataBackfill{}, mustParse(t, `<div data-node-id="1:1"></div>`), NewContext()))
}

func TestFontWeight(t *testing.T) {
	tests := []struct {
		style  string
		weight int
		italic bool
	}{
		{"Thin", 100, false},
		{"Extra Light", 200, false},
		{"Regular", 400, false},
		{"Medium", 500, false},
		{"Semi Bold", 600, false},
		{"SemiBold Italic", 600, true},
		{"Bold", 700, false},
		{"Extra-Bold", 800, false},
		{"Black", 900, false},
		{"Italic", 400, true},
		{"Oblique", 400, true},
		{"Condensed", 400, false},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			w, italic := FontWeight(tt.style)
			assert.Equal(t, tt.weight, w)
			assert.Equal(t, tt.italic, italic)
		})
	}
}

func TestFontSyntax(t *testing.T) {
	tree := mustParse(t, `<div data-name="Card"><p data-name="Title" class="font-['Inter:Semi_Bold_Italic',sans-serif] text-sm">x</p><p data-name="Plain" class="font-['Roboto_Mono'] text-xs">y</p></div>`)
	stats := apply(t, fontSyntax{}, tree, nil)
	assert.Equal(t, Stats{"converted": 2}, stats)

	title := byName(t, tree, "Title")
	assert.Equal(t, []string{"text-sm"}, tree.Classes(title))
	style := tree.StyleOf(title)
	family, _ := style.Get("font-family")
	weight, _ := style.Get("font-weight")
	fontStyle, _ := style.Get("font-style")
	assert.Equal(t, "'Inter', sans-serif", family)
	assert.Equal(t, "600", weight)
	assert.Equal(t, "italic", fontStyle)

	plain := byName(t, tree, "Plain")
	family, _ = tree.StyleOf(plain).Get("font-family")
	assert.Equal(t, "'Roboto Mono'", family)
	_, hasWeight := tree.StyleOf(plain).Get("font-weight")
	assert.False(t, hasWeight)
}

func TestNearestFontSize(t *testing.T) {
	tests := []struct {
		px   float64
		want string
		ok   bool
	}{
		{12, "text-xs", true},
		{13, "text-xs", true},
		{15, "text-sm", true},
		{17, "text-base", true},
		{22, "text-xl", true},
		{40, "text-4xl", true},
		{128, "text-9xl", true},
		{10, "", false},
		{200, "", false},
	}
	for _, tt := range tests {
		got, ok := NearestFontSize(tt.px)
		assert.Equal(t, tt.ok, ok, "px %v", tt.px)
		assert.Equal(t, tt.want, got, "px %v", tt.px)
	}
}

func TestClassCleanupRootOverflowOnce(t *testing.T) {
	tree := mustParse(t, `<div><div data-name="Page"><div data-name="Section"></div></div></div>`)
	ctx := NewContext()

	stats := apply(t, classCleanup{}, tree, ctx)
	assert.Equal(t, 1, stats["root_overflow"])
	assert.True(t, ctx.RootProcessed)
	assert.True(t, tree.HasClass(byName(t, tree, "Page"), RootOverflowClass))
	assert.False(t, tree.HasClass(byName(t, tree, "Section"), RootOverflowClass))
	assert.False(t, tree.HasClass(tree.Exported().Root, RootOverflowClass))

	// A second run with the same context leaves the tree alone.
	before := markup.Render(tree)
	stats = apply(t, classCleanup{}, tree, ctx)
	assert.Zero(t, stats["root_overflow"])
	assert.Equal(t, before, markup.Render(tree))
}

func TestClassCleanup(t *testing.T) {
	tree := mustParse(t, `<div data-name="Page">
<div data-name="Grow" class="basis-0 grow min-w-px"></div>
<div data-name="Sized" class="basis-0 grow w-[10px]"></div>
<p data-name="Label" class="whitespace-pre text-nowrap font-['Bad'] text-[15px]">x</p>
<p data-name="Pre" class="whitespace-pre text-[200px]">y</p>
</div>`)
	ctx := NewContext()
	ctx.RootProcessed = true

	stats := apply(t, classCleanup{}, tree, ctx)
	assert.Equal(t, Stats{"flex_width": 1, "invalid_font_tokens": 1, "nowrap_tokens": 2, "font_sizes": 1}, stats)
	assert.Equal(t, []string{"basis-0", "grow", "min-w-px", "w-full"}, tree.Classes(byName(t, tree, "Grow")))
	assert.Equal(t, []string{"basis-0", "grow", "w-[10px]"}, tree.Classes(byName(t, tree, "Sized")))
	assert.Equal(t, []string{"text-sm"}, tree.Classes(byName(t, tree, "Label")))
	assert.Equal(t, []string{"whitespace-pre", "text-[200px]"}, tree.Classes(byName(t, tree, "Pre")))
}

func TestVectorFlatten(t *testing.T) {
	tree := mustParse(t, `<div data-name="Icon" class="relative size-[24px]"><div class="absolute inset-[4.688%]" data-name="Vector" data-node-id="3:4"><img class="size-full" src="x.svg" /></div></div>`)
	stats := apply(t, vectorFlatten{}, tree, nil)
	assert.Equal(t, Stats{"flattened": 1}, stats)

	root := tree.Exported().Root
	kids := tree.ElementChildren(root)
	require.Len(t, kids, 1)
	img := kids[0]
	assert.Equal(t, "img", tree.Tag(img))
	assert.Equal(t, []string{"absolute", "inset-[4.688%]", "size-full"}, tree.Classes(img))
	assert.Equal(t, "Vector", tree.Name(img))
	assert.Equal(t, "3:4", tree.SourceID(img))
}

func TestVectorFlattenStackedAndRejected(t *testing.T) {
	tree := mustParse(t, `<div data-name="Icons" class="relative">
<div class="absolute" data-name="Outer"><div class="absolute inset-0"><img src="a.svg" /></div></div>
<div class="absolute overflow-hidden" data-name="Clipped"><img src="b.svg" /></div>
<div class="absolute w-[10px]" data-name="Sized"><img src="c.svg" /></div>
<div class="absolute" data-name="Raster"><img src="d.png" /></div>
<div class="absolute overflow-visible" data-name="Visible"><img src="e.svg" /></div>
</div>`)
	stats := apply(t, vectorFlatten{}, tree, nil)
	assert.Equal(t, Stats{"flattened": 3}, stats)

	outer := byName(t, tree, "Outer")
	assert.Equal(t, "img", tree.Tag(outer))
	assert.Equal(t, []string{"absolute", "inset-0"}, tree.Classes(outer))
	assert.Equal(t, "img", tree.Tag(byName(t, tree, "Visible")))
	for _, name := range []string{"Clipped", "Sized", "Raster"} {
		assert.Equal(t, "div", tree.Tag(byName(t, tree, name)), name)
	}
}

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><path d="M0 0H10V10H0Z"/></svg>`

func TestVectorConsolidatePass(t *testing.T) {
	var b strings.Builder
	b.WriteString("import imgA from \"./assets/a.svg\";\n\n")
	b.WriteString(`<div data-name="Header"><div data-name="Logo" class="relative w-[100px] h-[50px]">`)
	for _, inset := range []string{"0_50%_50%_0", "0_0_50%_50%", "50%_50%_0_0", "50%_0_0_50%", "25%"} {
		b.WriteString(`<div class="absolute inset-[` + inset + `]" data-name="Vector"><img class="block max-w-none size-full" src={imgA} /></div>`)
	}
	b.WriteString(`</div></div>`)
	tree := mustParse(t, b.String())

	ctx := NewContext()
	ctx.Assets = assets.MapSource{"assets/a.svg": []byte(squareSVG)}
	stats := apply(t, vectorConsolidate{}, tree, ctx)
	assert.Equal(t, Stats{"groups": 1, "members": 5}, stats)
	assert.Contains(t, ctx.GeneratedAssets, "assets/logo.svg")
	assert.Equal(t, []string{"imgLogoConsolidated"}, ctx.ConsolidatedImports)
	assert.Equal(t, 1, ctx.Counters["generated_assets"])

	path, ok := tree.ImportPath("imgLogoConsolidated")
	require.True(t, ok)
	assert.Equal(t, "./assets/logo.svg", path)
	_, ok = tree.ImportPath("imgA")
	assert.False(t, ok)

	logo := byName(t, tree, "Logo")
	kids := tree.ElementChildren(logo)
	require.Len(t, kids, 1)
	assert.Equal(t, []string{"block", "max-w-none", "w-[100px]", "h-[50px]"}, tree.Classes(kids[0]))
}

func TestVectorConsolidateWithoutAssets(t *testing.T) {
	tree := mustParse(t, `<div data-name="Header"></div>`)
	assert.Empty(t, apply(t, vectorConsolidate{}, tree, NewContext()))
}

func TestPlaceholderFills(t *testing.T) {
	tree := mustParse(t, `<div data-name="Page">
<div data-name="Linear Gradient"></div>
<div data-name="Radial Gradient Glow"></div>
<div data-name="Gradient Card" class="bg-red-500"></div>
<div data-name="Ellipse 3"></div>
<div data-name="Circle"><span>x</span></div>
<div data-name="Shade" data-blend-mode="MULTIPLY"></div>
<div data-name="Tinted" class="mix-blend-screen" style="mix-blend-mode: screen"></div>
</div>`)
	ctx := NewContext()
	stats := apply(t, placeholderFills{}, tree, ctx)
	assert.Equal(t, Stats{"gradients": 2, "shapes": 1, "blend_warnings": 1}, stats)

	fill, _ := tree.StyleOf(byName(t, tree, "Linear Gradient")).Get("background-image")
	assert.Equal(t, LinearGradientFill, fill)
	fill, _ = tree.StyleOf(byName(t, tree, "Radial Gradient Glow")).Get("background-image")
	assert.Equal(t, RadialGradientFill, fill)
	_, ok := tree.StyleOf(byName(t, tree, "Gradient Card")).Get("background-image")
	assert.False(t, ok)

	assert.True(t, tree.HasClass(byName(t, tree, "Ellipse 3"), "rounded-full"))
	assert.False(t, tree.HasClass(byName(t, tree, "Circle"), "rounded-full"))

	require.Len(t, ctx.Warnings, 1)
	assert.Contains(t, ctx.Warnings[0], "mix-blend-multiply")
	assert.False(t, tree.HasClass(byName(t, tree, "Shade"), "mix-blend-multiply"))
}

func TestPositioning(t *testing.T) {
	tree := mustParse(t, `<div data-name="Page" class="flex">
<div data-name="Badge" class="absolute left-[10px] top-[20px] flex"></div>
<div data-name="Modal Overlay" class="absolute inset-0"></div>
<div data-name="Floating" class="absolute z-10 top-0"></div>
<div data-name="Frame" class="relative"><div data-name="Pin" class="absolute top-0"></div></div>
<div data-name="Mark" class="absolute inset-[10%]"><img src={imgLogoConsolidated} /></div>
</div>`)
	ctx := NewContext()
	ctx.ConsolidatedImports = []string{"imgLogoConsolidated"}

	stats := apply(t, positioning{}, tree, ctx)
	assert.Equal(t, Stats{"converted": 1, "overlays_kept": 1, "vector_wrappers": 1}, stats)
	assert.Equal(t, []string{"flex", "relative"}, tree.Classes(byName(t, tree, "Badge")))
	assert.Equal(t, []string{"absolute", "inset-0"}, tree.Classes(byName(t, tree, "Modal Overlay")))
	assert.Equal(t, []string{"absolute", "z-10", "top-0"}, tree.Classes(byName(t, tree, "Floating")))
	assert.Equal(t, []string{"absolute", "top-0"}, tree.Classes(byName(t, tree, "Pin")))
	assert.Equal(t, []string{"absolute", "inset-0"}, tree.Classes(byName(t, tree, "Mark")))
}

func TestCSSVariables(t *testing.T) {
	tree := mustParse(t, `<div data-name="Page" class="flex p-[var(--pad,8px)]"><div data-name="Inner" class="p-[var(--pad,12px)] skew-[var(--tilt,2deg)]"></div></div>`)
	ctx := NewContext()
	stats := apply(t, cssVariables{}, tree, ctx)
	assert.Equal(t, Stats{"resolved": 2, "degraded": 1, "conflicts": 1}, stats)
	assert.Equal(t, []string{"flex", "p-pad"}, tree.Classes(tree.Exported().Root))
	assert.Equal(t, []string{"p-pad", "skew-[2deg]"}, tree.Classes(byName(t, tree, "Inner")))
	assert.Len(t, ctx.Warnings, 1)

	entry, ok := ctx.Classes.Get("p-pad")
	require.True(t, ok)
	assert.Equal(t, "8px", entry.Fallback)
}

func TestOptimizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"p-[16px]", "p-4", true},
		{"gap-x-[1px]", "gap-x-px", true},
		{"-mt-[8px]", "-mt-2", true},
		{"mt-[-8px]", "-mt-2", true},
		{"-mt-[-8px]", "mt-2", true},
		{"m-[0px]", "m-0", true},
		{"-m-[0px]", "m-0", true},
		{"p-[-8px]", "p-[-8px]", false},
		{"w-[13px]", "w-[13px]", false},
		{"rounded-[4px]", "rounded", true},
		{"rounded-tl-[9999px]", "rounded-tl-full", true},
		{"rounded-[5px]", "rounded-[5px]", false},
		{"text-[16px]", "text-[16px]", false},
		{"max-w-[16px]", "max-w-[16px]", false},
		{"flex", "flex", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := OptimizeToken(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeSquare(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
		ok   bool
	}{
		{[]string{"w-6", "flex", "h-6"}, []string{"size-6", "flex"}, true},
		{[]string{"w-full", "h-full"}, []string{"size-full"}, true},
		{[]string{"w-[13px]", "h-[13px]"}, []string{"size-[13px]"}, true},
		{[]string{"w-6", "h-8"}, []string{"w-6", "h-8"}, false},
		{[]string{"w-auto", "h-auto"}, []string{"w-auto", "h-auto"}, false},
		{[]string{"w-6", "h-6", "size-4"}, []string{"w-6", "h-6", "size-4"}, false},
	}
	for _, tt := range tests {
		got, ok := mergeSquare(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestUtilityOptimize(t *testing.T) {
	tree := mustParse(t, `<div data-name="Box" class="w-[24px] h-[24px] rounded-[8px] p-[13px]"></div>`)
	stats := apply(t, utilityOptimize{}, tree, nil)
	assert.Equal(t, Stats{"tokens": 3, "squares": 1}, stats)
	assert.Equal(t, []string{"size-6", "rounded-lg", "p-[13px]"}, tree.Classes(tree.Exported().Root))
}

func TestPropExtractionCollisions(t *testing.T) {
	tree := mustParse(t, `import imgLogo from "./assets/logo.png";

<div data-name="Hero" class="flex">
<p data-name="Logo">Acme</p>
<img data-name="Logo" src={imgLogo} />
<span data-name="Count">{42}</span>
<span data-name="Logo">{7}</span>
</div>`)
	stats := apply(t, propExtraction{}, tree, nil)
	assert.Equal(t, 1, stats["text"])
	assert.Equal(t, 1, stats["images"])
	assert.Equal(t, 2, stats["numbers"])

	comp := tree.Exported()
	assert.Equal(t, []markup.Prop{
		{Name: "logo", Kind: markup.PropString, Default: "Acme"},
		{Name: "logoImage", Kind: markup.PropImage, Default: "imgLogo"},
		{Name: "count", Kind: markup.PropNumber, Default: "42"},
		{Name: "logoValue", Kind: markup.PropNumber, Default: "7"},
	}, comp.Props)

	out := markup.Render(tree)
	assert.Contains(t, out, `<p data-name="Logo">{logo}</p>`)
	assert.Contains(t, out, `src={logoImage}`)
	assert.Contains(t, out, `<span data-name="Count">{count}</span>`)
	assert.Contains(t, out, `<span data-name="Logo">{logoValue}</span>`)
	// The import stays alive through the prop default.
	_, ok := tree.ImportPath("imgLogo")
	assert.True(t, ok)

	assert.Equal(t, "export interface HeroProps {\n"+
		"  logo?: string;\n"+
		"  logoImage?: string;\n"+
		"  count?: number;\n"+
		"  logoValue?: number;\n"+
		"}\n", PropsInterface(comp))
}

func TestPropExtractionReservedAndNumbered(t *testing.T) {
	tree := mustParse(t, `<div data-name="Card"><p data-name="class">Hi</p><p data-name="Title">A</p><p data-name="Title">B</p><p>C</p></div>`)
	apply(t, propExtraction{}, tree, nil)

	var names []string
	for _, p := range tree.Exported().Props {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"classProp", "title", "title2", "text"}, names)
}

func TestPropsInterfaceEmpty(t *testing.T) {
	assert.Empty(t, PropsInterface(nil))
	assert.Empty(t, PropsInterface(&markup.Component{Name: "X"}))
}
