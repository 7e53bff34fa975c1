package transforms

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualizeFormats(t *testing.T) {
	passes := Catalog()

	text, err := Visualize(passes, FormatText)
	require.NoError(t, err)
	assert.Contains(t, text, " 10  [metadata_backfill]")
	assert.Contains(t, text, "after: utility_optimize, vector_consolidate")
	assert.Contains(t, text, "Total: 10 passes")

	mermaid, err := Visualize(passes, FormatMermaid)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mermaid, "```mermaid\ngraph TD\n"))
	assert.Contains(t, mermaid, "fontsyntax -.-> classcleanup")
	assert.Contains(t, mermaid, "metadatabackfill --> fontsyntax")

	dot, err := Visualize(passes, FormatDOT)
	require.NoError(t, err)
	assert.Contains(t, dot, `"positioning" -> "css_variables";`)
	assert.Contains(t, dot, `"vector_flatten" -> "vector_consolidate" [style=dashed];`)

	raw, err := Visualize(passes, FormatJSON)
	require.NoError(t, err)
	var doc struct {
		Passes []struct {
			Name         string   `json:"name"`
			Order        int      `json:"order"`
			MustRunAfter []string `json:"mustRunAfter"`
		} `json:"passes"`
		TotalPasses int `json:"totalPasses"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, 10, doc.TotalPasses)
	assert.Equal(t, "prop_extraction", doc.Passes[9].Name)
	assert.Equal(t, 10, doc.Passes[9].Order)
	assert.Empty(t, doc.Passes[0].MustRunAfter)
}

func TestVisualizeUnsupported(t *testing.T) {
	_, err := Visualize(Catalog(), "svg")
	assert.Error(t, err)
}

func TestFormatDescriptions(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.NotEmpty(t, FormatDescription(f), f)
	}
}
