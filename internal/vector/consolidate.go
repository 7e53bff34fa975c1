// Package vector merges clusters of absolutely positioned vector images into
// a single composed SVG asset.
package vector

import (
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/designpipe/internal/assets"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/markup"
)

// Defaults for Options.
const (
	DefaultMinMembers        = 5
	DefaultMaxDistinctAssets = 4
	DefaultMaxDepth          = 4
)

// Options tunes group detection. Zero fields take the defaults.
type Options struct {
	MinMembers        int
	MaxDistinctAssets int
	MaxDepth          int
}

func (o Options) withDefaults() Options {
	if o.MinMembers <= 0 {
		o.MinMembers = DefaultMinMembers
	}
	if o.MaxDistinctAssets <= 0 {
		o.MaxDistinctAssets = DefaultMaxDistinctAssets
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// technicalWrapper matches the layer names design tools give to anonymous
// grouping layers. They are traversed as if transparent.
var technicalWrapper = regexp.MustCompile(`^(?i:vector|group)([ _-]?\d+)?$`)

// IsTechnicalWrapper reports whether name is an anonymous grouping layer.
func IsTechnicalWrapper(name string) bool { return technicalWrapper.MatchString(name) }

// Config carries the collaborators for one consolidation run.
type Config struct {
	Assets   assets.Source
	AssetDir string
	Options  Options
	Logger   *slog.Logger
	// Taken lists asset paths already produced in this run.
	Taken map[string]bool
}

// Result summarizes a consolidation run.
type Result struct {
	Groups  int
	Members int
	Skipped int
	Aborted int
	// Assets maps generated asset paths to their content.
	Assets map[string][]byte
	// Imports lists the local names bound to generated assets.
	Imports []string
}

// Group is a container that qualifies for consolidation, with its declared
// pixel size and member images in document order.
type Group struct {
	Container markup.NodeID
	W, H      float64
	Members   []markup.NodeID
}

// Consolidate detects vector groups in t and rewrites each into a single
// image backed by a composed asset.
func Consolidate(t *markup.Tree, cfg Config) *Result {
	opts := cfg.Options.withDefaults()
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	res := &Result{Assets: map[string][]byte{}}
	if cfg.Assets == nil {
		return res
	}
	taken := map[string]bool{}
	for k, v := range cfg.Taken {
		taken[k] = v
	}

	for _, g := range FindGroups(t, opts) {
		name := t.Name(g.Container)
		if name == "" {
			name = "vector group"
		}
		placements, skipped := loadMembers(t, g, cfg.Assets, logger.With(logfields.Group(name)))
		res.Skipped += skipped
		if len(placements) == 0 {
			res.Aborted++
			logger.Warn("Vector group aborted, no usable members", logfields.Group(name), logfields.Count(len(g.Members)))
			continue
		}

		assetPath := uniqueAssetPath(cfg.AssetDir, markup.Slug(name), taken)
		taken[assetPath] = true
		local := uniqueImportName(t, "img"+markup.Pascal(name)+"Consolidated")
		res.Assets[assetPath] = Compose(g.W, g.H, placements)
		rewrite(t, g, local, importPath(assetPath))

		res.Groups++
		res.Members += len(placements)
		res.Imports = append(res.Imports, local)
		logger.Debug("Vector group consolidated",
			logfields.Group(name),
			logfields.Asset(assetPath),
			logfields.Count(len(placements)))
	}
	return res
}

// FindGroups returns qualifying containers in pre-order. Once a container
// qualifies its subtree is not searched further.
func FindGroups(t *markup.Tree, opts Options) []Group {
	opts = opts.withDefaults()
	var out []Group
	for _, id := range topLevelRoots(t) {
		t.Walk(id, func(n markup.NodeID, _ int) bool {
			if !t.IsElement(n) {
				return false
			}
			if g, ok := qualify(t, n, opts); ok {
				out = append(out, g)
				return false
			}
			return true
		})
	}
	return out
}

func topLevelRoots(t *markup.Tree) []markup.NodeID {
	var roots []markup.NodeID
	if exp := t.Exported(); exp != nil {
		roots = append(roots, exp.Root)
	}
	for _, c := range t.Components {
		if !slices.Contains(roots, c.Root) {
			roots = append(roots, c.Root)
		}
	}
	return roots
}

func qualify(t *markup.Tree, id markup.NodeID, opts Options) (Group, bool) {
	w, h, ok := DeclaredSize(t.Classes(id))
	if !ok {
		return Group{}, false
	}
	members, clean := collectMembers(t, id, opts.MaxDepth)
	if !clean || len(members) < opts.MinMembers {
		return Group{}, false
	}
	distinct := map[string]bool{}
	for _, m := range members {
		src, _ := t.ImageSource(m)
		distinct[assets.NormalizePath(src)] = true
	}
	if len(distinct) > opts.MaxDistinctAssets {
		return Group{}, false
	}
	return Group{Container: id, W: w, H: h, Members: members}, true
}

// collectMembers gathers vector images below container. It reports false
// when the subtree holds anything that replacing the children would lose:
// text, non-vector images, named layers, images that are not absolutely
// positioned or images deeper than maxDepth.
func collectMembers(t *markup.Tree, container markup.NodeID, maxDepth int) ([]markup.NodeID, bool) {
	var members []markup.NodeID
	clean := true
	var visit func(id markup.NodeID, depth int)
	visit = func(id markup.NodeID, depth int) {
		for _, c := range t.Children(id) {
			if !clean {
				return
			}
			if !t.IsElement(c) {
				if strings.TrimSpace(t.Node(c).Text) != "" {
					clean = false
				}
				continue
			}
			if t.Tag(c) == "img" {
				if depth > maxDepth || !t.IsVectorImage(c) || !absolutelyPositioned(t, c, container) {
					clean = false
					return
				}
				members = append(members, c)
				continue
			}
			if name := t.Name(c); name != "" && !IsTechnicalWrapper(name) {
				clean = false
				return
			}
			if depth >= maxDepth {
				if len(t.Descendants(c)) > 0 {
					clean = false
				}
				continue
			}
			visit(c, depth+1)
		}
	}
	visit(container, 1)
	return members, clean
}

func absolutelyPositioned(t *markup.Tree, id, container markup.NodeID) bool {
	for n := id; n != container && n != markup.NoNode; n = t.Parent(n) {
		if t.HasClass(n, "absolute") {
			return true
		}
	}
	return false
}

// EffectivePosition returns the position tokens that place member: its
// own, else its parent's, else the grandparent's when the parent is only a
// full-bleed wrapper. The container itself never contributes.
func EffectivePosition(t *markup.Tree, member, container markup.NodeID) []string {
	own := PositionTokens(t.Classes(member))
	if len(own) > 0 && !IsFullBleed(own) {
		return own
	}
	parent := t.Parent(member)
	if parent == markup.NoNode || parent == container {
		return own
	}
	pt := PositionTokens(t.Classes(parent))
	if !IsFullBleed(pt) {
		if len(pt) > 0 {
			return pt
		}
		return own
	}
	if gp := t.Parent(parent); gp != markup.NoNode && gp != container {
		if gt := PositionTokens(t.Classes(gp)); len(gt) > 0 {
			return gt
		}
	}
	return pt
}

func loadMembers(t *markup.Tree, g Group, src assets.Source, logger *slog.Logger) ([]Placement, int) {
	var out []Placement
	skipped := 0
	for _, m := range g.Members {
		assetPath, _ := t.ImageSource(m)
		data, err := src.Read(assetPath)
		if err != nil {
			skipped++
			logger.Warn("Skipping vector member, asset unreadable", logfields.Asset(assetPath), logfields.Error(err))
			continue
		}
		svg, err := ParseSVG(data)
		if err != nil {
			skipped++
			logger.Warn("Skipping vector member, asset unusable", logfields.Asset(assetPath), logfields.Error(err))
			continue
		}
		in := Insets{}
		if tokens := EffectivePosition(t, m, g.Container); len(tokens) > 0 {
			parsed, ok := ParseInsets(tokens, g.W, g.H)
			if ok {
				in = parsed
			}
		}
		box := in.Box(g.W, g.H)
		if box.W <= 0 || box.H <= 0 {
			skipped++
			logger.Warn("Skipping vector member, empty target box", logfields.Asset(assetPath))
			continue
		}
		out = append(out, Placement{Name: memberName(t, m, g.Container), Box: box, Source: svg})
	}
	return out, skipped
}

func memberName(t *markup.Tree, member, container markup.NodeID) string {
	for n := member; n != container && n != markup.NoNode; n = t.Parent(n) {
		if name := t.Name(n); name != "" {
			return name
		}
	}
	return ""
}

func rewrite(t *markup.Tree, g Group, local, assetPath string) {
	var bindings []string
	for _, m := range g.Members {
		if v, ok := t.Attr(m, markup.AttrSrc); ok && v.Kind == markup.ExpressionValue {
			bindings = append(bindings, strings.TrimSpace(v.Expr))
		}
	}

	img := t.NewElement("img")
	t.SetAttr(img, markup.AttrAlt, markup.Literal(""))
	t.SetClasses(img, append([]string{"block", "max-w-none"}, SizeTokens(t.Classes(g.Container))...))
	t.SetAttr(img, markup.AttrSrc, markup.Expression(local))
	t.SetChildren(g.Container, []markup.NodeID{img})
	t.AddImport(local, assetPath)

	refs := t.References()
	for _, b := range bindings {
		if _, used := refs[b]; !used {
			t.RemoveImport(b)
		}
	}
}

func uniqueAssetPath(dir, stem string, taken map[string]bool) string {
	if stem == "" {
		stem = "vector-group"
	}
	candidate := assets.NormalizePath(path.Join(dir, stem+".svg"))
	for i := 2; taken[candidate]; i++ {
		candidate = assets.NormalizePath(path.Join(dir, stem+"-"+strconv.Itoa(i)+".svg"))
	}
	return candidate
}

func uniqueImportName(t *markup.Tree, base string) string {
	name := base
	for i := 2; ; i++ {
		if _, exists := t.ImportPath(name); !exists {
			return name
		}
		name = base + strconv.Itoa(i)
	}
}

func importPath(assetPath string) string {
	if strings.HasPrefix(assetPath, "/") || strings.Contains(assetPath, "://") {
		return assetPath
	}
	return "./" + assetPath
}
