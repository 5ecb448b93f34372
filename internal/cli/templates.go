package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/onepagerhq/onepager/pkg/content"
	"github.com/onepagerhq/onepager/pkg/layout"
)

// templatesCommand creates the templates command group.
func (c *CLI) templatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List and inspect page templates",
	}

	cmd.AddCommand(c.templatesListCommand())
	cmd.AddCommand(c.templatesInspectCommand())
	cmd.AddCommand(c.templatesPickCommand())

	return cmd
}

// templatesListCommand creates the "templates list" subcommand.
func (c *CLI) templatesListCommand() *cobra.Command {
	var templateDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := templateStore(templateDir)

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "Name", "Slots").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 {
						return StyleHighlight
					}
					return StyleValue
				})

			for _, id := range store.IDs() {
				tmpl, ok := store.Resolve(id)
				if !ok {
					continue
				}
				t.Row(id, tmpl.Name, fmt.Sprintf("%d", len(tmpl.Slots)))
			}

			fmt.Println(t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory with additional template JSON files")
	return cmd
}

// templatesInspectCommand creates the "templates inspect" subcommand. It
// shows how a content description's sections match a template's slots, as a
// Graphviz DOT graph or rendered SVG.
func (c *CLI) templatesInspectCommand() *cobra.Command {
	var (
		templateID  string
		templateDir string
		configPath  string
		output      string
		asSVG       bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [content.json]",
		Short: "Show how sections match a template's slots",
		Long: `Show how sections match a template's slots.

The inspect command matches the sections of a content description against a
template and emits the matching as a Graphviz DOT graph. Solid edges are
id matches; dashed edges are column fallbacks. With --svg the graph is
rendered to SVG instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := content.ReadDocumentFile(args[0])
			if err != nil {
				return fmt.Errorf("load content %s: %w", args[0], err)
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			id := templateID
			if id == "" {
				id = doc.TemplateID
			}
			if id == "" {
				id = layout.DefaultTemplateID
			}
			tmpl, ok := templateStore(templateDir).Resolve(id)
			if !ok {
				return fmt.Errorf("unknown template: %s", id)
			}

			dot := layout.MatchDOT(doc.Sections, tmpl, cfg.Grid.ColumnCount)

			data := []byte(dot)
			if asSVG {
				data, err = layout.RenderMatchSVG(cmd.Context(), dot)
				if err != nil {
					return fmt.Errorf("render match graph: %w", err)
				}
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "", "template id (default: the document's template)")
	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory with additional template JSON files")
	cmd.Flags().StringVar(&configPath, "config", "", "page configuration file (TOML)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&asSVG, "svg", false, "render the match graph to SVG (requires graphviz layout)")

	return cmd
}

// templatesPickCommand creates the "templates pick" subcommand. It opens an
// interactive picker and prints the selected template id, so it composes in
// shells: onepager layout -t "$(onepager templates pick)" content.json
func (c *CLI) templatesPickCommand() *cobra.Command {
	var templateDir string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a template interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := pickTemplate(templateStore(templateDir))
			if err != nil {
				return err
			}
			if id == "" {
				return fmt.Errorf("no template selected")
			}
			fmt.Fprintln(os.Stdout, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory with additional template JSON files")
	return cmd
}

// templateStore builds the template store for CLI display commands.
func templateStore(dir string) layout.Store {
	if dir != "" {
		return layout.NewChainStore(layout.NewDirStore(dir), layout.NewEmbeddedStore())
	}
	return layout.NewEmbeddedStore()
}
