package vector

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/designpipe/internal/assets"
	"git.home.luguber.info/inful/designpipe/internal/markup"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10" fill="none"><path d="M0 0H10V10H0Z" fill="#111"/></svg>`

// logoMarkup builds a container with n members cycling over imgA..imgC.
func logoMarkup(n int, insets func(i int) string) string {
	var b strings.Builder
	b.WriteString("import imgA from \"./assets/a.svg\";\n")
	b.WriteString("import imgB from \"./assets/b.svg\";\n")
	b.WriteString("import imgC from \"./assets/c.svg\";\n\n")
	b.WriteString(`<div class="flex" data-name="Header">` + "\n")
	b.WriteString(`<div class="h-[49.551px] relative shrink-0 w-[140px]" data-name="Logo">` + "\n")
	for i := 0; i < n; i++ {
		binding := []string{"imgA", "imgB", "imgC"}[i%3]
		fmt.Fprintf(&b, `<div class="absolute %s" data-name="Vector"><img alt="" class="block max-w-none size-full" src={%s} /></div>`+"\n", insets(i), binding)
	}
	b.WriteString("</div>\n</div>\n")
	return b.String()
}

func squareAssets() assets.MapSource {
	return assets.MapSource{
		"assets/a.svg": []byte(square),
		"assets/b.svg": []byte(square),
		"assets/c.svg": []byte(square),
	}
}

func logoContainer(t *testing.T, tree *markup.Tree) markup.NodeID {
	t.Helper()
	root := tree.Exported().Root
	kids := tree.ElementChildren(root)
	require.Len(t, kids, 1)
	return kids[0]
}

func TestConsolidateUsesContainerBox(t *testing.T) {
	tree, err := markup.ParseString(logoMarkup(14, func(i int) string {
		if i == 0 {
			return "inset-[0_50%_0_0]"
		}
		if i == 1 {
			return "inset-[0_0_0_50%]"
		}
		return fmt.Sprintf("inset-[%d%%_%d%%_%d%%_%d%%]", i, i, i, i)
	}))
	require.NoError(t, err)

	res := Consolidate(tree, Config{Assets: squareAssets(), AssetDir: "./assets"})
	assert.Equal(t, 1, res.Groups)
	assert.Equal(t, 14, res.Members)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Assets, 1)

	svg := string(res.Assets["assets/logo.svg"])
	assert.Contains(t, svg, `viewBox="0 0 140 49.551"`)
	assert.Contains(t, svg, `width="140" height="49.551"`)
	assert.Equal(t, 14, strings.Count(svg, "<g transform="))
	assert.Contains(t, svg, `<g transform="translate(0,0) scale(7,4.9551)" data-name="Vector">`)
	assert.Contains(t, svg, `<g transform="translate(70,0) scale(7,4.9551)" data-name="Vector">`)
	assert.Contains(t, svg, `<path d="M0 0H10V10H0Z" fill="#111"/>`)

	// The tree now holds one image bound to the new asset.
	container := logoContainer(t, tree)
	kids := tree.ElementChildren(container)
	require.Len(t, kids, 1)
	img := kids[0]
	src, _ := tree.Attr(img, markup.AttrSrc)
	assert.Equal(t, "imgLogoConsolidated", src.Expr)
	assert.Equal(t, []string{"block", "max-w-none", "h-[49.551px]", "w-[140px]"}, tree.Classes(img))
	assert.Equal(t, []markup.ImportBinding{{LocalName: "imgLogoConsolidated", AssetPath: "./assets/logo.svg"}}, tree.Imports)
	assert.Equal(t, []string{"imgLogoConsolidated"}, res.Imports)
}

func TestConsolidateSkipsBrokenMembers(t *testing.T) {
	tree, err := markup.ParseString(logoMarkup(6, func(int) string { return "inset-0" }))
	require.NoError(t, err)

	src := squareAssets()
	delete(src, "assets/b.svg")
	src["assets/c.svg"] = []byte(`<svg viewBox="0 0 1 1"><title>empty</title></svg>`)

	res := Consolidate(tree, Config{Assets: src, AssetDir: "assets"})
	assert.Equal(t, 1, res.Groups)
	assert.Equal(t, 2, res.Members)
	assert.Equal(t, 4, res.Skipped)
	assert.Len(t, tree.Imports, 1)
}

func TestConsolidateAbortsWhenNoMemberUsable(t *testing.T) {
	tree, err := markup.ParseString(logoMarkup(5, func(int) string { return "inset-0" }))
	require.NoError(t, err)
	before := markup.Render(tree)

	res := Consolidate(tree, Config{Assets: assets.MapSource{}, AssetDir: "assets"})
	assert.Equal(t, 0, res.Groups)
	assert.Equal(t, 1, res.Aborted)
	assert.Equal(t, 5, res.Skipped)
	assert.Empty(t, res.Assets)
	assert.Equal(t, before, markup.Render(tree))
}

func TestFindGroupsRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"too few members", logoMarkup(4, func(int) string { return "inset-0" })},
		{"no declared size", strings.Replace(logoMarkup(6, func(int) string { return "inset-0" }), "h-[49.551px] relative shrink-0 w-[140px]", "relative", 1)},
		{"text inside container", strings.Replace(logoMarkup(6, func(int) string { return "inset-0" }), `data-name="Logo">`, `data-name="Logo"><p>hi</p>`, 1)},
		{"named layer inside container", strings.Replace(logoMarkup(6, func(int) string { return "inset-0" }), `data-name="Logo">`, `data-name="Logo"><div data-name="Badge"></div>`, 1)},
		{"not absolute", strings.ReplaceAll(logoMarkup(6, func(int) string { return "inset-0" }), `class="absolute inset-0"`, `class="inset-0"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := markup.ParseString(tt.src)
			require.NoError(t, err)
			assert.Empty(t, FindGroups(tree, Options{}))
		})
	}
}

// A named layer inside a sized container is never absorbed into the
// container's asset. The search continues into it, so it can form its own
// group.
func TestNamedLayerFormsItsOwnGroup(t *testing.T) {
	src := strings.Replace(logoMarkup(6, func(int) string { return "inset-0" }),
		`data-name="Logo">`,
		`data-name="Logo"><div class="relative w-[100px] h-[40px]" data-name="Badge">`, 1)
	src = strings.Replace(src, "</div>\n</div>\n", "</div>\n</div>\n</div>\n", 1)
	tree, err := markup.ParseString(src)
	require.NoError(t, err)

	groups := FindGroups(tree, Options{})
	require.Len(t, groups, 1)
	assert.Equal(t, "Badge", tree.Name(groups[0].Container))
	assert.Equal(t, 100.0, groups[0].W)
	assert.Equal(t, 40.0, groups[0].H)
	assert.Len(t, groups[0].Members, 6)

	res := Consolidate(tree, Config{Assets: squareAssets(), AssetDir: "./assets"})
	assert.Equal(t, 1, res.Groups)
	require.Contains(t, res.Assets, "assets/badge.svg")

	logo := logoContainer(t, tree)
	kids := tree.ElementChildren(logo)
	require.Len(t, kids, 1)
	assert.Equal(t, "Badge", tree.Name(kids[0]))
}

func TestFindGroupsDistinctAssetLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<div class="size-[24px]" data-name="Icon">`)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, `<img class="absolute inset-0" src="./assets/p%d.svg" />`, i)
	}
	b.WriteString(`</div>`)
	tree, err := markup.ParseString(b.String())
	require.NoError(t, err)

	assert.Empty(t, FindGroups(tree, Options{}))
	groups := FindGroups(tree, Options{MaxDistinctAssets: 5})
	require.Len(t, groups, 1)
	assert.InDelta(t, 24, groups[0].W, 0.0001)
	assert.InDelta(t, 24, groups[0].H, 0.0001)
}

func TestTechnicalWrappersAreTraversed(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<div class="w-[20px] h-[10px]" data-name="Mark"><div class="absolute inset-0" data-name="Group 2">`)
	for i := 0; i < 5; i++ {
		b.WriteString(`<div class="absolute inset-[10%]" data-name="Vector_3"><img src="a.svg" /></div>`)
	}
	b.WriteString(`</div></div>`)
	tree, err := markup.ParseString(b.String())
	require.NoError(t, err)
	groups := FindGroups(tree, Options{})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Members, 5)
}

func TestEffectivePosition(t *testing.T) {
	tree, err := markup.ParseString(`<div class="w-[10px] h-[10px]">
<div class="absolute inset-[10%_20%_30%_40%]"><div class="absolute inset-0"><img class="absolute" src="a.svg" /></div></div>
<div class="absolute top-[5%] left-[5%]"><img src="b.svg" /></div>
<img class="absolute inset-[1%]" src="c.svg" />
</div>`)
	require.NoError(t, err)
	container := tree.Exported().Root
	kids := tree.ElementChildren(container)

	deep := tree.ElementChildren(tree.ElementChildren(kids[0])[0])[0]
	assert.Equal(t, []string{"inset-[10%_20%_30%_40%]"}, EffectivePosition(tree, deep, container))

	viaParent := tree.ElementChildren(kids[1])[0]
	assert.Equal(t, []string{"top-[5%]", "left-[5%]"}, EffectivePosition(tree, viaParent, container))

	assert.Equal(t, []string{"inset-[1%]"}, EffectivePosition(tree, kids[2], container))
}

func TestParseInsets(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   Insets
	}{
		{"one value", []string{"inset-[10%]"}, Insets{10, 10, 10, 10}},
		{"two values", []string{"inset-[10%_20%]"}, Insets{10, 20, 10, 20}},
		{"three values", []string{"inset-[10%_20%_30%]"}, Insets{10, 20, 30, 20}},
		{"four values", []string{"inset-[10%_20%_30%_40%]"}, Insets{10, 20, 30, 40}},
		{"directional", []string{"top-[5%]", "left-[7.5%]"}, Insets{Top: 5, Left: 7.5}},
		{"axis", []string{"inset-x-[10%]", "inset-y-0"}, Insets{Right: 10, Left: 10}},
		{"pixels", []string{"left-[50px]", "top-[25px]"}, Insets{Top: 25, Left: 25}},
		{"negative", []string{"-top-[2%]"}, Insets{Top: -2}},
		{"zero", []string{"inset-0"}, Insets{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInsets(tt.tokens, 200, 100)
			require.True(t, ok)
			assert.InDelta(t, tt.want.Top, got.Top, 1e-9)
			assert.InDelta(t, tt.want.Right, got.Right, 1e-9)
			assert.InDelta(t, tt.want.Bottom, got.Bottom, 1e-9)
			assert.InDelta(t, tt.want.Left, got.Left, 1e-9)
		})
	}

	_, ok := ParseInsets([]string{"flex", "w-full"}, 10, 10)
	assert.False(t, ok)
	_, ok = ParseInsets([]string{"top-1/2"}, 10, 10)
	assert.False(t, ok)

	assert.True(t, IsFullBleed([]string{"inset-0"}))
	assert.False(t, IsFullBleed([]string{"inset-[5px]"}))
	assert.True(t, HasPercentOffsets([]string{"absolute", "left-[3%]"}))
}

func TestBox(t *testing.T) {
	b := Insets{Top: 10, Right: 20, Bottom: 30, Left: 40}.Box(200, 100)
	assert.InDelta(t, 80, b.X, 1e-9)
	assert.InDelta(t, 10, b.Y, 1e-9)
	assert.InDelta(t, 80, b.W, 1e-9)
	assert.InDelta(t, 60, b.H, 1e-9)
}

func TestParseSVG(t *testing.T) {
	src, err := ParseSVG([]byte(square))
	require.NoError(t, err)
	assert.Equal(t, [4]float64{0, 0, 10, 10}, src.ViewBox)
	assert.Equal(t, 1, src.Drawables)

	src, err = ParseSVG([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="24px" height="12"><rect width="1" height="1"/><circle r="2"/></svg>`))
	require.NoError(t, err)
	assert.Equal(t, [4]float64{0, 0, 24, 12}, src.ViewBox)
	assert.Equal(t, 2, src.Drawables)

	_, err = ParseSVG([]byte(`<svg viewBox="0 0 1 1"><defs/></svg>`))
	assert.ErrorIs(t, err, ErrNoDrawables)

	_, err = ParseSVG([]byte(`<svg><path d="M0 0"/></svg>`))
	assert.Error(t, err)

	_, err = ParseSVG([]byte(`not xml`))
	assert.Error(t, err)
}

func TestComposeOffsetViewBoxAndScopedIDs(t *testing.T) {
	src, err := ParseSVG([]byte(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="2 4 10 10">` +
		`<defs><clipPath id="clip0"><rect width="10" height="10"/></clipPath></defs>` +
		`<g clip-path="url(#clip0)"><use xlink:href="#shape"/></g><path id="shape" d="M0 0"/></svg>`))
	require.NoError(t, err)

	out := string(Compose(20, 20, []Placement{
		{Box: Box{X: 0, Y: 0, W: 10, H: 10}, Source: src},
		{Box: Box{X: 10, Y: 10, W: 10, H: 10}, Source: src},
	}))
	assert.Contains(t, out, `<g transform="translate(0,0) scale(1,1) translate(-2,-4)">`)
	assert.Contains(t, out, `<g transform="translate(10,10) scale(1,1) translate(-2,-4)">`)
	assert.Contains(t, out, `id="m0-clip0"`)
	assert.Contains(t, out, `url(#m1-clip0)`)
	assert.Contains(t, out, `xlink:href="#m1-shape"`)
	assert.NotContains(t, out, `id="clip0"`)
}

func TestScopeIDsLeavesOtherAttributes(t *testing.T) {
	body := []byte(`<g id="a" data-id="a"><use href="#a" data-href="#a"/><rect fill="url(#a)"/></g>`)
	out := string(scopeIDs(body, "m0-"))
	assert.Equal(t, `<g id="m0-a" data-id="a"><use href="#m0-a" data-href="#a"/><rect fill="url(#m0-a)"/></g>`, out)

	// An id that only appears as data-id is not scoped anywhere.
	body = []byte(`<g data-id="b"><rect fill="url(#b)"/></g>`)
	assert.Equal(t, string(body), string(scopeIDs(body, "m0-")))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "49.551", num(49.551))
	assert.Equal(t, "0.3333", num(1.0/3))
	assert.Equal(t, "0", num(-0.00001))
	assert.Equal(t, "7", num(7))
}
