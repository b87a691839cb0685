package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tkha2026/luyenthi/internal/ui/theme"
)

// MenuItem represents a single entry in a menu.
type MenuItem struct {
	Label       string
	Description string
	// Hotkey selects and activates the item directly, e.g. "1".
	Hotkey   string
	Style    lipgloss.Style
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical menu of cards.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Update handles keyboard navigation. Hotkeys and enter run the item's
// Action.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
		return m, nil
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
		return m, nil
	case "enter":
		return m, m.activate()
	}

	for i, item := range m.Items {
		if item.Hotkey != "" && item.Hotkey == key && !item.Disabled {
			m.Selected = i
			return m, m.activate()
		}
	}
	return m, nil
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	item := m.Items[m.Selected]
	if item.Action == nil || item.Disabled {
		return nil
	}
	return item.Action()
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if item.Hotkey != "" {
			label = item.Hotkey + ". " + label
		}

		var line string
		switch {
		case item.Disabled:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render("    " + label)
		case i == m.Selected:
			line = item.Style.Bold(true).Render("  ▸ " + label)
		default:
			line = lipgloss.NewStyle().Foreground(theme.Text).Render("    " + label)
		}
		b.WriteString(line + "\n")

		if item.Description != "" {
			b.WriteString(theme.Hint.Render("      "+item.Description) + "\n")
		}
	}
	return b.String()
}
