package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua   = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// BlockStyle returns the style for a plan block type. Calendar blocks are
// bold, synthesized ones colored by purpose.
func BlockStyle(t domain.BlockType) lipgloss.Style {
	switch t {
	case domain.BlockMeeting, domain.BlockEvent:
		return StyleBold
	case domain.BlockFocus:
		return StyleGreen
	case domain.BlockPrep, domain.BlockPost:
		return StyleDim
	case domain.BlockFollowUp, domain.BlockCall:
		return StyleBlue
	case domain.BlockQuickWin:
		return StyleYellow
	default:
		return StyleFg
	}
}

// BlockBadge renders the block type as a fixed-width colored label.
func BlockBadge(t domain.BlockType) string {
	return BlockStyle(t).Render(fmt.Sprintf("%-8s", strings.ToUpper(string(t))))
}

// PriorityBadge returns a colored priority marker such as "▲ H".
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ H")
	case domain.PriorityMedium:
		return StyleYellow.Render("● M")
	case domain.PriorityLow:
		return StyleDim.Render("▽ L")
	default:
		return StyleDim.Render("--")
	}
}

// UrgencyIndicator colors a follow-up urgency on the 1..5 scale.
func UrgencyIndicator(urgency int) string {
	label := fmt.Sprintf("U%d", urgency)
	switch {
	case urgency >= 4:
		return StyleRed.Render(label)
	case urgency == 3:
		return StyleYellow.Render(label)
	default:
		return StyleDim.Render(label)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
