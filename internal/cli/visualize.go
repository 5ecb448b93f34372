package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onepagerhq/onepager/pkg/layout"
	"github.com/onepagerhq/onepager/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		configPath string
		grid       bool
		scale      float64
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a computed layout to SVG, PNG, or PDF",
		Long: `Render a computed layout to SVG, PNG, or PDF.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to the requested formats. The layout contains all positioning
information, so this step is purely about rendering.

PNG and PDF output require rsvg-convert (librsvg) on the PATH.

Results are cached locally for faster subsequent runs.

Use 'run' as a shortcut to go directly from source text to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Formats: parseFormats(formatsStr),
				Grid:    grid,
				Scale:   scale,
				Refresh: refresh,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, configPath, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	cmd.Flags().StringVar(&configPath, "config", "", "page configuration file (TOML)")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, json (comma-separated)")
	cmd.Flags().BoolVar(&grid, "grid", false, "draw the column grid overlay (debug)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, configPath, output string, noCache bool) error {
	l, err := layout.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	opts.Config = &cfg
	opts.Logger = c.Logger
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	// page.layout.json renders to page.svg, not page.layout.svg
	if base, ok := strings.CutSuffix(input, ".layout.json"); ok {
		input = base + ".json"
	}
	return writeArtifacts(artifactWriteParams{
		artifacts:    artifacts,
		formats:      opts.Formats,
		input:        input,
		output:       output,
		sectionCount: len(l.Sections),
		cacheHit:     cacheHit,
	})
}
