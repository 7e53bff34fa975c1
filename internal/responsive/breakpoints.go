package responsive

import (
	"fmt"
	"regexp"
	"strings"
)

// Breakpoint indexes the three input trees, widest first.
type Breakpoint int

const (
	Desktop Breakpoint = iota
	Tablet
	Mobile
)

func (b Breakpoint) String() string {
	switch b {
	case Desktop:
		return "desktop"
	case Tablet:
		return "tablet"
	case Mobile:
		return "mobile"
	default:
		return fmt.Sprintf("breakpoint(%d)", int(b))
	}
}

// Breakpoints are the design widths in pixels of the three variants.
type Breakpoints struct {
	Desktop int `yaml:"desktop" toml:"desktop" json:"desktop"`
	Tablet  int `yaml:"tablet" toml:"tablet" json:"tablet"`
	Mobile  int `yaml:"mobile" toml:"mobile" json:"mobile"`
}

// DefaultBreakpoints matches the usual 1440/768/375 design frames.
var DefaultBreakpoints = Breakpoints{Desktop: 1440, Tablet: 768, Mobile: 375}

type screen struct {
	name string
	min  int
}

// screens is the default utility breakpoint scale, ascending.
var screens = []screen{
	{"sm", 640},
	{"md", 768},
	{"lg", 1024},
	{"xl", 1280},
	{"2xl", 1536},
}

// Prefixes are the max-width variants applied to tablet and mobile overrides.
type Prefixes struct {
	Tablet string `json:"tablet"`
	Mobile string `json:"mobile"`
}

var maxVariant = regexp.MustCompile(`^max-(sm|md|lg|xl|2xl|\[\d+(?:\.\d+)?(?:px|rem|em)\])$`)

// Validate checks the widths are positive and strictly descending.
func (b Breakpoints) Validate() error {
	if b.Desktop <= 0 || b.Tablet <= 0 || b.Mobile <= 0 {
		return fmt.Errorf("breakpoint widths must be positive, got %d/%d/%d", b.Desktop, b.Tablet, b.Mobile)
	}
	if b.Desktop <= b.Tablet || b.Tablet <= b.Mobile {
		return fmt.Errorf("breakpoint widths must descend desktop > tablet > mobile, got %d/%d/%d", b.Desktop, b.Tablet, b.Mobile)
	}
	return nil
}

// Prefixes derives override variants from the widths. The tablet variant is
// the smallest screen above the tablet width, which must not exceed the
// desktop width. The mobile variant is the largest screen not above the
// tablet width, which must be above the mobile width.
func (b Breakpoints) Prefixes() (Prefixes, error) {
	if err := b.Validate(); err != nil {
		return Prefixes{}, err
	}
	var p Prefixes
	for _, s := range screens {
		if s.min > b.Tablet {
			if s.min > b.Desktop {
				break
			}
			p.Tablet = "max-" + s.name
			break
		}
	}
	for i := len(screens) - 1; i >= 0; i-- {
		s := screens[i]
		if s.min <= b.Tablet {
			if s.min > b.Mobile {
				p.Mobile = "max-" + s.name
			}
			break
		}
	}
	if p.Tablet == "" || p.Mobile == "" {
		return Prefixes{}, fmt.Errorf("no screen breakpoints separate widths %d/%d/%d", b.Desktop, b.Tablet, b.Mobile)
	}
	return p, nil
}

// Validate checks both prefixes are max-width variants.
func (p Prefixes) Validate() error {
	for _, v := range []string{p.Tablet, p.Mobile} {
		if !maxVariant.MatchString(v) {
			return fmt.Errorf("prefix %q is not a max-width variant", v)
		}
	}
	if p.Tablet == p.Mobile {
		return fmt.Errorf("tablet and mobile prefixes are both %q", p.Tablet)
	}
	return nil
}

// For returns the variant used at bp, or "" for desktop.
func (p Prefixes) For(bp Breakpoint) string {
	switch bp {
	case Tablet:
		return p.Tablet
	case Mobile:
		return p.Mobile
	default:
		return ""
	}
}

// minVariant turns a max-width variant into the min-width variant of the
// same screen: max-lg → lg, max-[900px] → min-[900px].
func minVariant(maxPrefix string) string {
	name := strings.TrimPrefix(maxPrefix, "max-")
	if strings.HasPrefix(name, "[") {
		return "min-" + name
	}
	return name
}

func prefixed(prefix, tok string) string {
	if prefix == "" {
		return tok
	}
	return prefix + ":" + tok
}
