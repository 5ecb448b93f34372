package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/generate"
	"github.com/onepagerhq/onepager/pkg/pipeline"
)

// generateCommand creates the generate command for producing content descriptions.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output     string
		model      string
		configPath string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "generate [input.txt]",
		Short: "Generate a structured content description from free-form text",
		Long: `Generate a structured content description from free-form text.

The generate command sends the input text to an LLM provider and produces a
content.json file describing the page: title, subtitle, and typed sections
(bullets, tables, flowcharts, KPIs, text). The provider is selected from the
` + apiKeyEnv + ` key shape (OpenAI, Anthropic, or Gemini).

Pass "-" as the input to read from stdin.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], generateParams{
				output:     output,
				model:      model,
				configPath: configPath,
				noCache:    noCache,
				refresh:    refresh,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.content.json, stdout for stdin input)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "provider model (default from config)")
	cmd.Flags().StringVar(&configPath, "config", "", "page configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")

	return cmd
}

type generateParams struct {
	output     string
	model      string
	configPath string
	noCache    bool
	refresh    bool
}

// runGenerate reads the source text, generates the content description, and
// writes it as JSON.
func (c *CLI) runGenerate(ctx context.Context, input string, p generateParams) error {
	text, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read input %s: %w", input, err)
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
		Input:   text,
		Model:   p.model,
		Refresh: p.refresh,
		Config:  &cfg,
		APIKey:  os.Getenv(apiKeyEnv),
		Logger:  c.Logger,
	}
	if err := opts.ValidateForGenerate(); err != nil {
		return err
	}

	provider := generate.DetectProvider(opts.APIKey)
	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating content via %s...", provider))
	spinner.Start()

	doc, cacheHit, err := runner.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Generated %d sections", len(doc.Sections)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := p.output
	if outputPath == "" && input != "-" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".content.json"
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := content.WriteDocument(doc, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if outputPath != "" {
		printSuccess("Content generated")
		printFile(outputPath)
		printStats(len(doc.Sections), nil, cacheHit)
		printNewline()
		printNextStep("Layout", appName+" layout "+outputPath)
	}
	return nil
}

// readInput reads the source text from a file, or from stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
