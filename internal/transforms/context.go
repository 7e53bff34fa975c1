package transforms

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/designpipe/internal/assets"
	"git.home.luguber.info/inful/designpipe/internal/cssreg"
	"git.home.luguber.info/inful/designpipe/internal/logfields"
	"git.home.luguber.info/inful/designpipe/internal/metadata"
	"git.home.luguber.info/inful/designpipe/internal/vector"
)

// Context is the mutable state threaded through one pipeline run. Nothing in
// it is shared between runs.
type Context struct {
	RunID  string
	Logger *slog.Logger

	// Classes collects generated utility classes for the stylesheet.
	Classes *cssreg.Registry
	// Metadata is a read-only node-id lookup. May be nil.
	Metadata *metadata.Index
	// Assets serves member vector assets. Nil disables consolidation.
	Assets assets.Source
	// AssetDir prefixes the paths of synthesized assets.
	AssetDir string
	Vector   vector.Options

	// RootProcessed is set once the root overflow fix has been applied.
	RootProcessed bool

	Counters            map[string]int
	Warnings            []string
	GeneratedAssets     map[string][]byte
	ConsolidatedImports []string
}

// NewContext returns a context with a fresh run ID and empty collections.
func NewContext() *Context {
	return &Context{
		RunID:           uuid.NewString(),
		Logger:          slog.Default(),
		Classes:         cssreg.New(),
		AssetDir:        "assets",
		Counters:        map[string]int{},
		GeneratedAssets: map[string][]byte{},
	}
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c.Logger
}

// Warn records a non-fatal finding and logs it.
func (c *Context) Warn(pass, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, pass+": "+msg)
	c.logger().Warn(msg, logfields.RunID(c.RunID), logfields.Pass(pass))
}

// Count adds n to a free-form run counter.
func (c *Context) Count(key string, n int) {
	if c.Counters == nil {
		c.Counters = map[string]int{}
	}
	c.Counters[key] += n
}

func (c *Context) ensure() {
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	if c.Classes == nil {
		c.Classes = cssreg.New()
	}
	if c.Counters == nil {
		c.Counters = map[string]int{}
	}
	if c.GeneratedAssets == nil {
		c.GeneratedAssets = map[string][]byte{}
	}
	c.logger()
}
