package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/layout"
	"github.com/onepagerhq/onepager/pkg/pipeline"
)

// layoutCommand creates the layout command for computing page layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		templateID  string
		templateDir string
		configPath  string
		noCache     bool
		refresh     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "layout [content.json]",
		Short: "Compute a positioned page layout from a content description",
		Long: `Compute a positioned page layout from a content description.

The layout command takes a content.json file (produced by 'generate') and
positions every section on the page: template slots are matched first, then
remaining sections flow into columns top to bottom. The output is a
layout.json file that can be rendered with the 'visualize' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], layoutParams{
				output:      output,
				templateID:  templateID,
				templateDir: templateDir,
				configPath:  configPath,
				noCache:     noCache,
				refresh:     refresh,
				interactive: interactive,
			})
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	cmd.Flags().StringVar(&configPath, "config", "", "page configuration file (TOML)")

	// Layout flags
	cmd.Flags().StringVarP(&templateID, "template", "t", "", "template id override (e.g. T1)")
	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory with additional template JSON files")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the template interactively")

	return cmd
}

type layoutParams struct {
	output      string
	templateID  string
	templateDir string
	configPath  string
	noCache     bool
	refresh     bool
	interactive bool
}

// runLayout loads the content description, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, p layoutParams) error {
	doc, err := content.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load content %s: %w", input, err)
	}

	cfg, err := loadConfig(p.configPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		TemplateID:  p.templateID,
		TemplateDir: p.templateDir,
		Refresh:     p.refresh,
		Config:      &cfg,
		Logger:      c.Logger,
	}
	opts.SetLayoutDefaults()

	if p.interactive {
		id, err := pickTemplate(opts.TemplateStore())
		if err != nil {
			return err
		}
		if id != "" {
			opts.TemplateID = id
		}
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Placed %d sections", len(l.Sections)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := p.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".content")
		outputPath = base + ".layout.json"
	}

	if err := layout.WriteLayoutFile(outputPath, l); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	if l.TemplateID != "" {
		printDetail("Template: %s", l.TemplateID)
	} else {
		printDetail("Template: automatic flow")
	}
	printStats(len(l.Sections), nil, cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
