package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/anchorlayout/pkg/document"
	"github.com/matzehuels/anchorlayout/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	output  string // output file (single input) or directory (multiple)
	format  string // output format: "json" or "toml"
	jobs    int    // documents solved concurrently
	noCache bool   // disable the result cache
	quiet   bool   // suppress frame tables
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOpts{format: document.FormatJSON, jobs: runtime.NumCPU()}
	var popts pipeline.Options

	cmd := &cobra.Command{
		Use:   "solve [document...]",
		Short: "Resolve widget frames for layout documents",
		Long: `Resolve widget frames for one or more layout documents.

Each document is solved by the direct anchor pass, then the dependency graph,
then the linear-system fallback, stopping at the first stage that resolves
every widget. Frames are printed as a table; use -o to write them as JSON or
TOML instead.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != document.FormatJSON && opts.format != document.FormatTOML {
				return fmt.Errorf("invalid format: %q (must be json or toml)", opts.format)
			}
			if opts.jobs < 1 {
				opts.jobs = 1
			}
			return c.runSolve(cmd.Context(), args, c.mergeOptions(popts), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single document) or directory (multiple)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json (default), toml")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of documents solved concurrently")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&popts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print frame tables")
	c.solveFlags(cmd, &popts)

	return cmd
}

// runSolve solves inputs concurrently and reports them in argument order.
func (c *CLI) runSolve(ctx context.Context, inputs []string, popts pipeline.Options, opts solveOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d document(s)...", len(inputs)))
	spinner.Start()

	var done atomic.Int32
	results := make([]*pipeline.Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, input := range inputs {
		g.Go(func() error {
			res, err := runner.SolveFile(gctx, input, popts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = res
			spinner.Update(fmt.Sprintf("Solving documents (%d/%d)...", done.Add(1), len(inputs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spinner.StopWithError("Solve failed")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Solved %d document(s)", len(inputs)))

	for i, res := range results {
		if err := c.reportSolve(inputs[i], res, len(inputs) > 1, opts); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) reportSolve(input string, res *pipeline.Result, multi bool, opts solveOpts) error {
	fs := res.Frames
	if fs.Resolved {
		printSuccess("%s %s", StyleValue.Render(input), StyleDim.Render("("+fs.Stage+")"))
	} else {
		printWarning("%s: unresolved after %s stage: %s", input, fs.Stage, strings.Join(fs.Unresolved, ", "))
	}
	printStats(len(fs.Frames), res.Stats.Measures, res.CacheHit)

	if opts.output != "" {
		path := outputPath(input, opts.output, opts.format, multi)
		if err := writeFrameFile(path, fs, opts.format); err != nil {
			return err
		}
		printFile(path)
	} else if !opts.quiet {
		fmt.Println(renderFrameTable(fs.Frames))
	}
	return nil
}

// outputPath returns the file for input's frames. With several inputs,
// output names a directory that receives <name>.frames.<format>.
func outputPath(input, output, format string, multi bool) string {
	if !multi {
		return output
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(output, base+".frames."+format)
}

func writeFrameFile(path string, fs document.FrameSet, format string) error {
	var buf bytes.Buffer
	if err := document.WriteFrames(&buf, fs, format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
