package vector

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"
	xmlNS   = "http://www.w3.org/XML/1998/namespace"
)

// ErrNoDrawables is returned for documents without any drawable primitive.
var ErrNoDrawables = errors.New("svg has no drawable primitives")

var drawable = map[string]bool{
	"path": true, "rect": true, "circle": true, "ellipse": true, "line": true,
	"polyline": true, "polygon": true, "g": true, "use": true, "text": true, "image": true,
}

var dropped = map[string]bool{"title": true, "desc": true, "metadata": true}

type rawNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

type svgDoc struct {
	XMLName xml.Name
	ViewBox string    `xml:"viewBox,attr"`
	Width   string    `xml:"width,attr"`
	Height  string    `xml:"height,attr"`
	Nodes   []rawNode `xml:",any"`
}

// Source is a parsed member asset.
type Source struct {
	ViewBox   [4]float64
	Drawables int
	body      []byte
}

// ParseSVG reads the view-box and top-level primitives of an SVG document.
// Without a viewBox the width and height attributes are used.
func ParseSVG(data []byte) (*Source, error) {
	var doc svgDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	if doc.XMLName.Local != "svg" {
		return nil, fmt.Errorf("parse svg: root element is <%s>", doc.XMLName.Local)
	}
	vb, err := viewBox(doc)
	if err != nil {
		return nil, err
	}
	src := &Source{ViewBox: vb}
	var body bytes.Buffer
	for _, n := range doc.Nodes {
		local := n.XMLName.Local
		if dropped[local] {
			continue
		}
		if drawable[local] {
			src.Drawables++
		}
		writeNode(&body, n)
	}
	if src.Drawables == 0 {
		return nil, ErrNoDrawables
	}
	src.body = body.Bytes()
	return src, nil
}

func viewBox(doc svgDoc) ([4]float64, error) {
	if f := strings.FieldsFunc(doc.ViewBox, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' }); len(f) == 4 {
		var vb [4]float64
		for i, s := range f {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return vb, fmt.Errorf("parse svg viewBox %q: %w", doc.ViewBox, err)
			}
			vb[i] = v
		}
		if vb[2] > 0 && vb[3] > 0 {
			return vb, nil
		}
	}
	w, werr := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(doc.Width), "px"), 64)
	h, herr := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(doc.Height), "px"), 64)
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return [4]float64{}, fmt.Errorf("svg declares neither a usable viewBox nor width/height")
	}
	return [4]float64{0, 0, w, h}, nil
}

func writeNode(b *bytes.Buffer, n rawNode) {
	b.WriteString("<" + n.XMLName.Local)
	for _, a := range n.Attrs {
		name, ok := attrName(a.Name)
		if !ok {
			continue
		}
		b.WriteString(" " + name + `="`)
		_ = xml.EscapeText(b, []byte(a.Value))
		b.WriteString(`"`)
	}
	if len(bytes.TrimSpace(n.Inner)) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
	b.Write(n.Inner)
	b.WriteString("</" + n.XMLName.Local + ">")
}

func attrName(n xml.Name) (string, bool) {
	switch {
	case n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns"):
		return "", false
	case n.Space == "" || n.Space == svgNS:
		return n.Local, true
	case n.Space == xlinkNS || n.Space == "xlink":
		return "xlink:" + n.Local, true
	case n.Space == xmlNS || n.Space == "xml":
		return "xml:" + n.Local, true
	default:
		return "", false
	}
}

// Placement positions one member inside the composed asset.
type Placement struct {
	Name   string
	Box    Box
	Source *Source
}

// Compose emits one SVG with view-box 0 0 w h and a transformed group per
// member. Element ids are scoped per member so merged defs cannot collide.
func Compose(w, h float64, members []Placement) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="%s" xmlns:xlink="%s" width="%s" height="%s" viewBox="0 0 %s %s" fill="none" preserveAspectRatio="none">`+"\n",
		svgNS, xlinkNS, num(w), num(h), num(w), num(h))
	for i, m := range members {
		vb := m.Source.ViewBox
		transform := fmt.Sprintf("translate(%s,%s) scale(%s,%s)",
			num(m.Box.X), num(m.Box.Y), num(m.Box.W/vb[2]), num(m.Box.H/vb[3]))
		if vb[0] != 0 || vb[1] != 0 {
			transform += fmt.Sprintf(" translate(%s,%s)", num(-vb[0]), num(-vb[1]))
		}
		b.WriteString(`<g transform="` + transform + `"`)
		if m.Name != "" {
			b.WriteString(` data-name="`)
			_ = xml.EscapeText(&b, []byte(m.Name))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		b.Write(scopeIDs(m.Source.body, "m"+strconv.Itoa(i)+"-"))
		b.WriteString("</g>\n")
	}
	b.WriteString("</svg>\n")
	return b.Bytes()
}

var (
	idAttr  = regexp.MustCompile(`(\s)id="([^"]+)"`)
	urlRef  = regexp.MustCompile(`()url\(#([^)]+)\)`)
	hrefRef = regexp.MustCompile(`(\s(?:xlink:)?)href="#([^"]+)"`)
)

func scopeIDs(body []byte, prefix string) []byte {
	ids := map[string]bool{}
	for _, m := range idAttr.FindAllSubmatch(body, -1) {
		ids[string(m[2])] = true
	}
	if len(ids) == 0 {
		return body
	}
	rewrite := func(re *regexp.Regexp, format string) {
		body = re.ReplaceAllFunc(body, func(m []byte) []byte {
			sub := re.FindSubmatch(m)
			id := string(sub[2])
			if !ids[id] {
				return m
			}
			out := append([]byte{}, sub[1]...)
			return append(out, fmt.Sprintf(format, prefix+id)...)
		})
	}
	rewrite(idAttr, `id="%s"`)
	rewrite(urlRef, `url(#%s)`)
	rewrite(hrefRef, `href="#%s"`)
	return body
}

// num formats v with at most four decimals and no trailing zeros.
func num(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
