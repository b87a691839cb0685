package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tkha2026/luyenthi/internal/ui/theme"
)

// Verdict is one row's state in a TrueFalse table.
type Verdict int8

const (
	VerdictUnset Verdict = iota
	VerdictTrue
	VerdictFalse
)

// TrueFalse is a table of statements each marked true or false. The last
// cursor position is the submit button.
type TrueFalse struct {
	Statements []string
	Verdicts   []Verdict
	Cursor     int
	Locked     bool
}

// NewTrueFalse creates a table with every statement unmarked.
func NewTrueFalse(statements []string) TrueFalse {
	return TrueFalse{
		Statements: statements,
		Verdicts:   make([]Verdict, len(statements)),
	}
}

// OnSubmit reports whether the cursor rests on the submit button.
func (t TrueFalse) OnSubmit() bool {
	return t.Cursor == len(t.Statements)
}

// Update handles navigation and marking. It returns the row index changed
// by this message, or -1.
func (t TrueFalse) Update(msg tea.Msg) (TrueFalse, int) {
	if t.Locked {
		return t, -1
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return t, -1
	}

	row := t.Cursor
	switch key := kmsg.String(); key {
	case "up", "k":
		if t.Cursor > 0 {
			t.Cursor--
		}
		return t, -1
	case "down", "j", "tab":
		if t.Cursor < len(t.Statements) {
			t.Cursor++
		}
		return t, -1
	case "t", "left", "h":
		return t.mark(row, VerdictTrue)
	case "f", "right", "l":
		return t.mark(row, VerdictFalse)
	case "space":
		if row < len(t.Verdicts) && t.Verdicts[row] == VerdictTrue {
			return t.mark(row, VerdictFalse)
		}
		return t.mark(row, VerdictTrue)
	default:
		// a-d jump to a row.
		if len(key) == 1 && key[0] >= 'a' && int(key[0]-'a') < len(t.Statements) {
			t.Cursor = int(key[0] - 'a')
		}
	}
	return t, -1
}

func (t TrueFalse) mark(row int, v Verdict) (TrueFalse, int) {
	if row < 0 || row >= len(t.Verdicts) {
		return t, -1
	}
	verdicts := make([]Verdict, len(t.Verdicts))
	copy(verdicts, t.Verdicts)
	verdicts[row] = v
	t.Verdicts = verdicts
	if t.Cursor < len(t.Statements) {
		t.Cursor++
	}
	return t, row
}

// View renders the statements, their marks and the submit button.
func (t TrueFalse) View(width int) string {
	var b strings.Builder
	for i, s := range t.Statements {
		cursor := "  "
		if i == t.Cursor && !t.Locked {
			cursor = "▸ "
		}
		text := lipgloss.NewStyle().Width(max(width-20, 10)).Render(fmt.Sprintf("%c) %s", 'a'+i, s))
		style := theme.Unselected
		if i == t.Cursor && !t.Locked {
			style = theme.Selected
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cursor, style.Render(text), "  ", verdictView(t.Verdicts[i]))
		b.WriteString(row + "\n")
	}

	b.WriteString("\n")
	btn := NewButton("Submit", t.OnSubmit() && !t.Locked)
	b.WriteString(btn.View())
	return b.String()
}

func verdictView(v Verdict) string {
	trueStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	falseStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch v {
	case VerdictTrue:
		trueStyle = theme.Correct
	case VerdictFalse:
		falseStyle = theme.Incorrect
	}
	return trueStyle.Render("[T]") + " " + falseStyle.Render("[F]")
}
