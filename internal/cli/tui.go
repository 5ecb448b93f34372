package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onepagerhq/onepager/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TemplateListModel - Interactive template selection
// =============================================================================

// TemplateListModel is the bubbletea model for interactive template selection.
type TemplateListModel struct {
	Templates []layout.Template
	Cursor    int
	Selected  *layout.Template
}

// NewTemplateListModel creates a template list model over the store's templates.
func NewTemplateListModel(store layout.Store) TemplateListModel {
	var templates []layout.Template
	for _, id := range store.IDs() {
		if t, ok := store.Resolve(id); ok {
			templates = append(templates, *t)
		}
	}
	return TemplateListModel{Templates: templates}
}

func (m TemplateListModel) Init() tea.Cmd {
	return nil
}

func (m TemplateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Templates)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Templates) > 0 {
				m.Selected = &m.Templates[m.Cursor]
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m TemplateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Template"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, t := range m.Templates {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		name := t.Name
		if name == "" {
			name = t.ID
		}
		slots := fmt.Sprintf("%d slots", len(t.Slots))
		if len(t.Slots) == 1 {
			slots = "1 slot"
		}

		line := fmt.Sprintf("%s%-4s %-24s %s", cursor, t.ID, name, listDimStyle.Render(slots))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Templates))))

	return b.String()
}

// pickTemplate runs the interactive template picker and returns the selected
// template id, or "" when the user quits without choosing.
func pickTemplate(store layout.Store) (string, error) {
	model := NewTemplateListModel(store)
	if len(model.Templates) == 0 {
		return "", fmt.Errorf("no templates available")
	}

	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("template picker: %w", err)
	}

	if m, ok := final.(TemplateListModel); ok && m.Selected != nil {
		return m.Selected.ID, nil
	}
	return "", nil
}
