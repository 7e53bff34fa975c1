package markup

import (
	"path"
	"slices"
	"strings"
)

// Tokens splits a class string on whitespace.
func Tokens(s string) []string { return strings.Fields(s) }

// Dedupe drops repeated tokens, keeping first occurrences.
func Dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// HasPrefixToken reports whether any token starts with one of prefixes.
func HasPrefixToken(tokens []string, prefixes ...string) bool {
	for _, tok := range tokens {
		for _, p := range prefixes {
			if strings.HasPrefix(tok, p) {
				return true
			}
		}
	}
	return false
}

// Classes returns the class tokens of id. Expression-valued classes yield nil.
func (t *Tree) Classes(id NodeID) []string {
	if !t.IsElement(id) {
		return nil
	}
	return Tokens(t.StringAttr(id, AttrClass))
}

// SetClasses stores tokens as the class list of id, dropping duplicates.
// An empty list removes the attribute.
func (t *Tree) SetClasses(id NodeID, tokens []string) {
	tokens = Dedupe(tokens)
	if len(tokens) == 0 {
		t.DeleteAttr(id, AttrClass)
		return
	}
	t.SetAttr(id, AttrClass, Literal(strings.Join(tokens, " ")))
}

// HasClass reports whether id carries tok.
func (t *Tree) HasClass(id NodeID, tok string) bool {
	return slices.Contains(t.Classes(id), tok)
}

// AddClass appends the missing tokens and reports whether anything changed.
func (t *Tree) AddClass(id NodeID, tokens ...string) bool {
	cur := t.Classes(id)
	changed := false
	for _, tok := range tokens {
		if !slices.Contains(cur, tok) {
			cur = append(cur, tok)
			changed = true
		}
	}
	if changed {
		t.SetClasses(id, cur)
	}
	return changed
}

// RemoveClasses drops every token matching drop and returns the removed ones.
func (t *Tree) RemoveClasses(id NodeID, drop func(string) bool) []string {
	cur := t.Classes(id)
	var kept, removed []string
	for _, tok := range cur {
		if drop(tok) {
			removed = append(removed, tok)
			continue
		}
		kept = append(kept, tok)
	}
	if len(removed) > 0 {
		t.SetClasses(id, kept)
	}
	return removed
}

// ImportPath returns the asset path bound to local.
func (t *Tree) ImportPath(local string) (string, bool) {
	for _, imp := range t.Imports {
		if imp.LocalName == local {
			return imp.AssetPath, true
		}
	}
	return "", false
}

// AddImport registers a binding, replacing one with the same local name.
func (t *Tree) AddImport(local, assetPath string) {
	for i := range t.Imports {
		if t.Imports[i].LocalName == local {
			t.Imports[i].AssetPath = assetPath
			return
		}
	}
	t.Imports = append(t.Imports, ImportBinding{LocalName: local, AssetPath: assetPath})
}

// RemoveImport drops the binding for local.
func (t *Tree) RemoveImport(local string) {
	t.Imports = slices.DeleteFunc(t.Imports, func(b ImportBinding) bool { return b.LocalName == local })
}

// References returns every identifier used as a whole expression anywhere in
// the attached tree, plus prop defaults.
func (t *Tree) References() map[string]struct{} {
	refs := map[string]struct{}{}
	for _, c := range t.Components {
		for _, p := range c.Props {
			if p.Kind == PropImage && p.Default != "" {
				refs[p.Default] = struct{}{}
			}
		}
		t.Walk(c.Root, func(id NodeID, _ int) bool {
			n := &t.nodes[id]
			if n.Kind == ExpressionNode {
				refs[strings.TrimSpace(n.Text)] = struct{}{}
			}
			for _, at := range n.Attrs {
				if at.Value.Kind == ExpressionValue {
					refs[strings.TrimSpace(at.Value.Expr)] = struct{}{}
				}
			}
			return true
		})
	}
	return refs
}

// ImageSource resolves the src of an img element to an asset path, either
// through an import binding or as a literal.
func (t *Tree) ImageSource(id NodeID) (string, bool) {
	if !t.IsElement(id) || t.Tag(id) != "img" {
		return "", false
	}
	v, ok := t.Attr(id, AttrSrc)
	if !ok {
		return "", false
	}
	switch v.Kind {
	case ExpressionValue:
		return t.ImportPath(strings.TrimSpace(v.Expr))
	case LiteralValue:
		return v.Literal, v.Literal != ""
	}
	return "", false
}

// IsVectorImage reports whether id is an img whose source is an SVG asset.
func (t *Tree) IsVectorImage(id NodeID) bool {
	src, ok := t.ImageSource(id)
	if !ok {
		return false
	}
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return strings.EqualFold(path.Ext(src), ".svg")
}

// HasContent reports whether id has any text or expression child with
// non-blank content.
func (t *Tree) HasContent(id NodeID) bool {
	for _, c := range t.nodes[id].Children {
		n := &t.nodes[c]
		if n.Kind != ElementNode && strings.TrimSpace(n.Text) != "" {
			return true
		}
	}
	return false
}
