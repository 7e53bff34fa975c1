package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/designpipe/internal/config"
)

const cardMarkup = `<div data-name="Card" class="flex flex-col p-[var(--pad,8px)]"><p data-name="Title" class="text-sm">Hello</p></div>`

// inTempDir switches into a fresh directory so no configuration file is
// found and defaults apply.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		input string
		stem  string
		ext   string
	}{
		{"card.tsx", "card", ".tsx"},
		{"dir/Button.jsx", "Button", ".jsx"},
		{"raw", "raw", ".tsx"},
		{"page.html", "page", ".html"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stem, ext := outputBase(tt.input)
			assert.Equal(t, tt.stem, stem)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestTransformCommand(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, "card.tsx", cardMarkup)

	cmd := &TransformCmd{Input: "card.tsx", Output: "out", Report: "report.json"}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: DefaultConfigPath}))

	markup, err := os.ReadFile(filepath.Join(dir, "out", "card.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(markup), "p-pad")

	css, err := os.ReadFile(filepath.Join(dir, "out", "card.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), "--pad: 8px;")

	props, err := os.ReadFile(filepath.Join(dir, "out", "card.props.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(props), "export interface CardProps")

	raw, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	var report struct {
		RunID     string `json:"run_id"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.NotEmpty(t, report.RunID)
	assert.True(t, report.Completed)
}

func TestTransformCommandMissingConfig(t *testing.T) {
	inTempDir(t)
	writeFile(t, "card.tsx", cardMarkup)

	cmd := &TransformCmd{Input: "card.tsx"}
	err := cmd.Run(&Global{}, &CLI{Config: "missing.yaml"})
	require.Error(t, err)
}

func TestMergeCommand(t *testing.T) {
	dir := inTempDir(t)
	desktop := `<div data-name="Row" class="flex items-start"><p data-name="Promo">Sale</p></div>`
	writeFile(t, "desktop.tsx", desktop)
	writeFile(t, "tablet.tsx", desktop)
	writeFile(t, "mobile.tsx", `<div data-name="Row" class="flex items-center"></div>`)

	cmd := &MergeCmd{
		Desktop: "desktop.tsx",
		Tablet:  "tablet.tsx",
		Mobile:  "mobile.tsx",
		Output:  "out",
		Name:    "Row",
		Report:  "merge.json",
	}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: DefaultConfigPath}))

	markup, err := os.ReadFile(filepath.Join(dir, "out", "Row.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(markup), "max-md:items-center")
	assert.Contains(t, string(markup), "max-md:hidden")

	raw, err := os.ReadFile(filepath.Join(dir, "merge.json"))
	require.NoError(t, err)
	var report struct {
		Merge struct {
			HiddenMobile []string `json:"hidden_mobile"`
		} `json:"merge"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, []string{"Promo"}, report.Merge.HiddenMobile)
}

func TestVisualizeCommandToFile(t *testing.T) {
	dir := inTempDir(t)
	out := filepath.Join(dir, "pipeline.dot")

	cmd := &VisualizeCmd{Format: "dot", Output: out}
	require.NoError(t, cmd.Run(nil, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"positioning" -> "css_variables";`)
}

func TestVisualizeCommandUnsupported(t *testing.T) {
	cmd := &VisualizeCmd{Format: "svg"}
	assert.Error(t, cmd.Run(nil, nil))
}

func TestInitCommand(t *testing.T) {
	dir := inTempDir(t)

	tests := []struct {
		name string
		cmd  InitCmd
		file string
	}{
		{"yaml", InitCmd{}, "designpipe.yaml"},
		{"toml", InitCmd{TOML: true}, "designpipe.toml"},
		{"output dir", InitCmd{Output: "conf"}, filepath.Join("conf", "designpipe.yaml")},
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "conf"), 0o755))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.cmd.Run(nil, &CLI{Config: DefaultConfigPath}))

			cfg, err := config.Load(tt.file)
			require.NoError(t, err)
			assert.Equal(t, "./assets", cfg.Assets.Dir)

			// A second run without --force refuses to overwrite.
			err = tt.cmd.Run(nil, &CLI{Config: DefaultConfigPath})
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), "already exists"))
		})
	}
}

func TestRelevantEvent(t *testing.T) {
	target := filepath.Join("/work", "card.tsx")
	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"write", target, fsnotify.Write, true},
		{"create", target, fsnotify.Create, true},
		{"chmod", target, fsnotify.Chmod, false},
		{"other file", filepath.Join("/work", "other.tsx"), fsnotify.Write, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevantEvent(fsnotify.Event{Name: tt.path, Op: tt.op}, target))
		})
	}
}
