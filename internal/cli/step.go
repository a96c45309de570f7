package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tomjorquera/flock/internal/scenario"
	"github.com/tomjorquera/flock/internal/valuesync"
)

var stepCmd = &cobra.Command{
	Use:   "step [scenario]",
	Short: "Step through a scenario round by round",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) > 0 {
			ref = args[0]
		}
		sc, err := loadScenario(ref)
		if err != nil {
			return err
		}
		if result := sc.Validate(); !result.Passed {
			return fmt.Errorf("%s", result.Message)
		}

		sys, err := sc.Build()
		if err != nil {
			return err
		}

		m := stepModel{sc: sc, sys: sys}
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return err
		}
		return nil
	},
}

// --- Styles ---

var (
	stepTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	stepBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stepCritStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	stepDoneStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	stepDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// --- Model ---

type stepModel struct {
	sc       *scenario.Scenario
	sys      *valuesync.System
	round    int
	lastTurn []valuesync.Turn
	err      error
}

func (m stepModel) Init() tea.Cmd {
	return nil
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "enter", "n":
			if !m.sys.Converged() && m.round < m.sc.MaxRounds {
				m.lastTurn = m.sys.Round()
				m.round++
			}
		case "r":
			sys, err := m.sc.Build()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.sys = sys
			m.round = 0
			m.lastTurn = nil
		}
	}
	return m, nil
}

func (m stepModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	var b strings.Builder
	b.WriteString(stepTitleStyle.Render(fmt.Sprintf("scenario %s — round %d", m.sc.Name, m.round)))
	b.WriteString("\n\n")

	env := m.sys.Env()
	bounds := env.Bounds()
	span := bounds.Max - bounds.Min

	acted := make(map[string]string)
	for _, turn := range m.lastTurn {
		if len(turn.Actions) > 0 {
			parts := make([]string, len(turn.Actions))
			for i, a := range turn.Actions {
				parts[i] = a.String()
			}
			acted[turn.ID] = strings.Join(parts, ", ")
		}
	}

	for _, id := range env.IDs() {
		value := env.Value(id)
		crit := env.Node(id).Criticality(env)

		filled := 0
		if span > 0 {
			filled = (value - bounds.Min) * 20 / span
		}
		bar := stepBarStyle.Render(strings.Repeat("█", filled)) +
			stepDimStyle.Render(strings.Repeat("░", 20-filled))

		line := fmt.Sprintf("%-4s %s %2d  ", id, bar, value)
		line += stepCritStyle.Render(fmt.Sprintf("crit %.2f", float64(crit)))
		if a, ok := acted[id]; ok {
			line += "  " + stepDimStyle.Render(a)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("max criticality: %.2f\n", float64(m.sys.MaxCriticality())))
	if m.sys.Converged() {
		b.WriteString(stepDoneStyle.Render("converged"))
		b.WriteString("\n")
	} else if m.round >= m.sc.MaxRounds {
		b.WriteString(stepCritStyle.Render("round cap reached"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(stepDimStyle.Render("space/enter: next round · r: reset · q: quit"))
	b.WriteString("\n")
	return b.String()
}
