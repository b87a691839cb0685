package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tkha2026/luyenthi/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D"}

// MultiChoice is a four-option selector. Picking an option submits it.
type MultiChoice struct {
	Options  []string
	Selected int

	// Chosen is the picked option index, -1 until a pick is made.
	Chosen int
	// Correct is set by the owner once the pick has been scored.
	Correct *bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options: options,
		Chosen:  -1,
	}
}

// Update handles navigation. A digit, a letter a-d or enter picks an option.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	if m.Chosen >= 0 {
		return m
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Chosen = m.Selected
	default:
		if i, ok := choiceIndex(key); ok && i < len(m.Options) {
			m.Selected = i
			m.Chosen = i
		}
	}
	return m
}

func choiceIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	switch c := key[0]; {
	case c >= '1' && c <= '4':
		return int(c - '1'), true
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'D':
		return int(c - 'A'), true
	}
	return 0, false
}

// Picked returns the chosen option text.
func (m MultiChoice) Picked() (string, bool) {
	if m.Chosen < 0 || m.Chosen >= len(m.Options) {
		return "", false
	}
	return m.Options[m.Chosen], true
}

// View renders the options. After scoring only the chosen option is colored;
// the correct option is not revealed.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	for i, opt := range m.Options {
		label := "?"
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}
		prefix := "  "
		if i == m.Selected && m.Chosen < 0 {
			prefix = "▸ "
		}
		line := lipgloss.NewStyle().Width(width).Render(fmt.Sprintf("%s%s)  %s", prefix, label, opt))

		switch {
		case i == m.Chosen && m.Correct != nil && *m.Correct:
			line = theme.Correct.Render(line)
		case i == m.Chosen && m.Correct != nil:
			line = theme.Incorrect.Render(line)
		case i == m.Chosen:
			line = theme.Selected.Render(line)
		case m.Chosen >= 0:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
