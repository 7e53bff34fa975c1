package commands

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/designpipe/internal/transforms"
)

// VisualizeCmd implements the 'visualize' command.
type VisualizeCmd struct {
	Format string `short:"f" help:"Output format: text, mermaid, dot, json" default:"text" enum:"text,mermaid,dot,json"`
	Output string `short:"o" help:"Output file path (optional, prints to stdout if not specified)"`
	List   bool   `short:"l" help:"List available formats and exit"`
}

// Run executes the visualize command.
func (cmd *VisualizeCmd) Run(_ *Global, _ *CLI) error {
	if cmd.List {
		fmt.Println("Available visualization formats:")
		fmt.Println()
		for _, format := range transforms.SupportedFormats() {
			fmt.Printf("  %-10s %s\n", format, transforms.FormatDescription(format))
		}
		fmt.Println()
		fmt.Println("Usage examples:")
		fmt.Println("  designpipe visualize                     # Text format to stdout")
		fmt.Println("  designpipe visualize -f mermaid          # Mermaid diagram to stdout")
		fmt.Println("  designpipe visualize -f dot -o pipe.dot  # DOT format to file")
		return nil
	}

	output, err := transforms.Visualize(transforms.Catalog(), transforms.VisualizationFormat(cmd.Format))
	if err != nil {
		return fmt.Errorf("failed to visualize pipeline: %w", err)
	}

	if cmd.Output != "" {
		if err := os.WriteFile(cmd.Output, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		slog.Info("Pipeline visualization written", "file", cmd.Output, "format", cmd.Format)
		return nil
	}
	fmt.Print(output)
	return nil
}
