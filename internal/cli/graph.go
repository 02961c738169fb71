package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchorlayout/pkg/document"
	"github.com/matzehuels/anchorlayout/pkg/pipeline"
)

// graphCommand creates the graph command for exporting dependency graphs.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.GraphOptions{Format: pipeline.FormatDOT}

	cmd := &cobra.Command{
		Use:   "graph [document]",
		Short: "Export the dependency graph of a layout document",
		Long: `Export the dependency graph of a layout document as Graphviz DOT or SVG.

Each widget run becomes a cluster holding its start, end and dimension nodes;
edges point from a node to the nodes it depends on. Nodes the dependency
graph could not resolve are drawn in red.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateGraphFormat(opts.Format); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with values and margins")
	cmd.Flags().BoolVar(&opts.DisableWrapOptimization, "no-wrap", false, "do not size wrap-content containers from their content")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input string, opts pipeline.GraphOptions, output string, noCache bool) error {
	doc, err := document.Load(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, err := runner.Graph(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("export graph: %w", err)
	}

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.Format
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Graph exported")
	printFile(output)
	if opts.Format == pipeline.FormatDOT {
		printNextStep("Render", "dot -Tpng -O "+output)
	}
	return nil
}
