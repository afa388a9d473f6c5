package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	hgio "github.com/hallgen/hallgen/pkg/io"
	"github.com/hallgen/hallgen/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command for browsing a plan summary.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [plan.json]",
		Short: "Browse a placement plan summary interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := hgio.ImportPlan(args[0])
			if err != nil {
				return err
			}
			model := NewPlanViewModel(plan)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// =============================================================================
// PlanViewModel - Interactive plan summary
// =============================================================================

// PlanViewModel is the bubbletea model for browsing a plan summary.
type PlanViewModel struct {
	Plan    *pipeline.Plan
	Summary []pipeline.KindCount
	Cursor  int
}

// NewPlanViewModel creates a new plan view model.
func NewPlanViewModel(plan *pipeline.Plan) PlanViewModel {
	return PlanViewModel{
		Plan:    plan,
		Summary: plan.Summary(),
	}
}

func (m PlanViewModel) Init() tea.Cmd {
	return nil
}

func (m PlanViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Summary)-1 {
				m.Cursor++
			}
		}
	}
	return m, nil
}

func (m PlanViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Placement Plan"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	s := m.Plan.Config.Structure
	b.WriteString(fmt.Sprintf("  %s %s\n",
		StyleValue.Render(fmt.Sprintf("%.0fm × %.0fm hall", s.Length, s.Width)),
		listDimStyle.Render(fmt.Sprintf("seed %d", m.Plan.Seed))))
	b.WriteString("  " + listDimStyle.Render(fmt.Sprintf(
		"pitch %.3f rad · slope %.2fm · eaves %.1fm",
		m.Plan.Frame.Pitch, m.Plan.Frame.SlopeLength, m.Plan.Frame.EavesHeight)))
	b.WriteString("\n\n")

	total := len(m.Plan.Instances)

	rows := [][]string{}
	for i, kc := range m.Summary {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		share := "—"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(kc.Count)/float64(total))
		}
		rows = append(rows, []string{cursor, string(kc.Kind), fmt.Sprintf("%d", kc.Count), share})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "Count", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d instances total", total)))

	return b.String()
}
