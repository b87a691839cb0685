package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/tkha2026/luyenthi/internal/ui/theme"
)

const bannerArt = `
 ██╗     ██╗   ██╗██╗   ██╗███████╗███╗   ██╗  ████████╗██╗  ██╗██╗
 ██║     ██║   ██║╚██╗ ██╔╝██╔════╝████╗  ██║  ╚══██╔══╝██║  ██║██║
 ██║     ██║   ██║ ╚████╔╝ █████╗  ██╔██╗ ██║     ██║   ███████║██║
 ██║     ██║   ██║  ╚██╔╝  ██╔══╝  ██║╚██╗██║     ██║   ██╔══██║██║
 ███████╗╚██████╔╝   ██║   ███████╗██║ ╚████║     ██║   ██║  ██║██║
 ╚══════╝ ╚═════╝    ╚═╝   ╚══════╝╚═╝  ╚═══╝     ╚═╝   ╚═╝  ╚═╝╚═╝`

const bannerCompact = "L U Y Ệ N   T H I"

// bannerMinWidth is the narrowest terminal the full banner fits in.
const bannerMinWidth = 70

// RenderBanner returns the app banner styled in the primary color, or a
// compact line on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
