package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tkha2026/luyenthi/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int
}

// NewQuestionProgress creates a bar labelled "Question n / total" for the
// 0-based question index.
func NewQuestionProgress(index, total, width int) ProgressBar {
	p := 0.0
	if total > 0 {
		p = float64(index+1) / float64(total)
	}
	return ProgressBar{
		Label:   fmt.Sprintf("Question %d / %d", index+1, total),
		Percent: p,
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Label) + "  "
	}

	barWidth := p.Width - lipgloss.Width(result)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	filledStr := lipgloss.NewStyle().
		Background(theme.Primary).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	return result + filledStr + emptyStr
}
