package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/onepagerhq/onepager/pkg/pipeline"
)

// timeRound is the precision used when logging stage durations.
const timeRound = time.Millisecond

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	output      string   // output file path (or base path for multiple formats)
	formats     []string // output formats: "svg", "png", "pdf", "json"
	model       string   // provider model override
	templateID  string   // template id override
	templateDir string   // extra template directory
	configPath  string   // page configuration file
	grid        bool     // draw the column grid overlay
	scale       float64  // PNG scale factor
	fromContent bool     // treat input as content.json instead of source text
	noCache     bool     // disable caching
	refresh     bool     // bypass cached stage results
}

// runCommand creates the run command for the full text-to-artifact pipeline.
func (c *CLI) runCommand() *cobra.Command {
	var formatsStr string
	opts := runOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "run [input.txt]",
		Short: "Run the full pipeline from source text to rendered artifacts",
		Long: `Run the full pipeline from source text to rendered artifacts.

The run command chains all three stages: generate a content description from
the input text, compute the page layout, and render it to the requested
formats. Each stage result is cached independently, so reruns only redo the
stages whose inputs changed.

Use --from-content to start from an existing content.json instead of
generating one (no API key required).

Pass "-" as the input to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runPipeline(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "provider model (default from config)")
	cmd.Flags().StringVarP(&opts.templateID, "template", "t", "", "template id override (e.g. T1)")
	cmd.Flags().StringVar(&opts.templateDir, "template-dir", "", "directory with additional template JSON files")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "page configuration file (TOML)")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw the column grid overlay (debug)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.fromContent, "from-content", false, "input is a content.json file, skip generation")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached stage results")

	return cmd
}

// runPipeline executes all three stages and writes the artifacts.
func (c *CLI) runPipeline(ctx context.Context, input string, opts *runOpts) error {
	data, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read input %s: %w", input, err)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Model:       opts.model,
		TemplateID:  opts.templateID,
		TemplateDir: opts.templateDir,
		Formats:     opts.formats,
		Grid:        opts.grid,
		Scale:       opts.scale,
		Refresh:     opts.refresh,
		Config:      &cfg,
		APIKey:      os.Getenv(apiKeyEnv),
		Logger:      c.Logger,
	}
	if opts.fromContent {
		popts.ContentJSON = data
	} else {
		popts.Input = data
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Building page...")
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return fmt.Errorf("run: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.Logger.Debugf("Stages: generate %s, layout %s, render %s",
		result.Stats.GenerateTime.Round(timeRound),
		result.Stats.LayoutTime.Round(timeRound),
		result.Stats.RenderTime.Round(timeRound))

	artifactInput := input
	if input == "-" {
		artifactInput = "page.json"
		if opts.output == "" {
			opts.output = "page"
		}
	}
	cached := result.CacheInfo.GenerateHit && result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	if err := writeArtifacts(artifactWriteParams{
		artifacts:    result.Artifacts,
		formats:      opts.formats,
		input:        artifactInput,
		output:       opts.output,
		sectionCount: result.Stats.SectionCount,
		cacheHit:     cached,
	}); err != nil {
		return err
	}

	if result.Layout.TemplateID != "" {
		printDetail("Template: %s", result.Layout.TemplateID)
	}
	if title := strings.TrimSpace(result.Content.Title); title != "" {
		printDetail("Title: %s", title)
	}
	return nil
}
