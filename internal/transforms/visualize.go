package transforms

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VisualizationFormat represents the output format for pipeline visualization.
type VisualizationFormat string

const (
	FormatText    VisualizationFormat = "text"
	FormatMermaid VisualizationFormat = "mermaid"
	FormatDOT     VisualizationFormat = "dot"
	FormatJSON    VisualizationFormat = "json"
)

// Visualize renders the execution order of passes.
func Visualize(passes []Pass, format VisualizationFormat) (string, error) {
	switch format {
	case FormatText:
		return visualizeText(passes), nil
	case FormatMermaid:
		return visualizeMermaid(passes), nil
	case FormatDOT:
		return visualizeDOT(passes), nil
	case FormatJSON:
		return visualizeJSON(passes)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func visualizeText(passes []Pass) string {
	var sb strings.Builder
	sb.WriteString("Transform Pipeline\n")
	sb.WriteString("==================\n\n")

	for i, p := range passes {
		deps := p.Dependencies()
		fmt.Fprintf(&sb, "%3d  [%s]\n", p.Priority(), p.Name())
		if len(deps.MustRunAfter) > 0 {
			fmt.Fprintf(&sb, "       ⤷ after: %s\n", strings.Join(deps.MustRunAfter, ", "))
		}
		if len(deps.MustRunBefore) > 0 {
			fmt.Fprintf(&sb, "       ⤶ before: %s\n", strings.Join(deps.MustRunBefore, ", "))
		}
		if i < len(passes)-1 {
			sb.WriteString("  ↓\n")
		}
	}

	fmt.Fprintf(&sb, "\nTotal: %d passes\n", len(passes))
	return sb.String()
}

func mermaidID(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "_", ""), "-", "")
}

func visualizeMermaid(passes []Pass) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("graph TD\n")
	for _, p := range passes {
		fmt.Fprintf(&sb, "    %s[\"%d %s\"]\n", mermaidID(p.Name()), p.Priority(), p.Name())
	}
	sb.WriteString("\n")
	// Execution order as solid edges, declared constraints as dotted ones.
	for i := 1; i < len(passes); i++ {
		fmt.Fprintf(&sb, "    %s --> %s\n", mermaidID(passes[i-1].Name()), mermaidID(passes[i].Name()))
	}
	for _, p := range passes {
		deps := p.Dependencies()
		for _, dep := range deps.MustRunAfter {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", mermaidID(dep), mermaidID(p.Name()))
		}
		for _, after := range deps.MustRunBefore {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", mermaidID(p.Name()), mermaidID(after))
		}
	}
	sb.WriteString("```\n")
	return sb.String()
}

func visualizeDOT(passes []Pass) string {
	var sb strings.Builder
	sb.WriteString("digraph TransformPipeline {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n\n")
	for _, p := range passes {
		fmt.Fprintf(&sb, "    \"%s\" [label=\"%d %s\"];\n", p.Name(), p.Priority(), p.Name())
	}
	sb.WriteString("\n")
	for i := 1; i < len(passes); i++ {
		fmt.Fprintf(&sb, "    \"%s\" -> \"%s\";\n", passes[i-1].Name(), passes[i].Name())
	}
	for _, p := range passes {
		deps := p.Dependencies()
		for _, dep := range deps.MustRunAfter {
			fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [style=dashed];\n", dep, p.Name())
		}
		for _, after := range deps.MustRunBefore {
			fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [style=dashed];\n", p.Name(), after)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

type passJSON struct {
	Name          string   `json:"name"`
	Priority      int      `json:"priority"`
	Order         int      `json:"order"`
	MustRunAfter  []string `json:"mustRunAfter"`
	MustRunBefore []string `json:"mustRunBefore"`
}

func visualizeJSON(passes []Pass) (string, error) {
	doc := struct {
		Passes      []passJSON `json:"passes"`
		TotalPasses int        `json:"totalPasses"`
	}{Passes: []passJSON{}, TotalPasses: len(passes)}
	for i, p := range passes {
		deps := p.Dependencies()
		doc.Passes = append(doc.Passes, passJSON{
			Name:          p.Name(),
			Priority:      p.Priority(),
			Order:         i + 1,
			MustRunAfter:  append([]string{}, deps.MustRunAfter...),
			MustRunBefore: append([]string{}, deps.MustRunBefore...),
		})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

// SupportedFormats returns the visualization formats.
func SupportedFormats() []VisualizationFormat {
	return []VisualizationFormat{FormatText, FormatMermaid, FormatDOT, FormatJSON}
}

// FormatDescription returns a description of a visualization format.
func FormatDescription(format VisualizationFormat) string {
	descriptions := map[VisualizationFormat]string{
		FormatText:    "Human-readable text",
		FormatMermaid: "Mermaid diagram (for GitHub, GitLab, etc.)",
		FormatDOT:     "Graphviz DOT format (render with `dot -Tpng pipeline.dot -o pipeline.png`)",
		FormatJSON:    "Structured JSON representation",
	}
	return descriptions[format]
}
