package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#263238")
	colorAccent  = lipgloss.Color("#e24e1b")
	colorMuted   = lipgloss.Color("#8a8f98")
	colorSuccess = lipgloss.Color("#2e8a3e")
	colorError   = lipgloss.Color("#c62828")
)

// Styles holds the lipgloss styles of the terminal storefront
type Styles struct {
	Header   lipgloss.Style
	Badge    lipgloss.Style
	Label    lipgloss.Style
	Selected lipgloss.Style
	Active   lipgloss.Style
	Muted    lipgloss.Style
	Price    lipgloss.Style
	Panel    lipgloss.Style
	Notice   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default color scheme
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorPrimary).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorAccent).
			Padding(0, 1),
		Label:    lipgloss.NewStyle().Bold(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Active:   lipgloss.NewStyle().Underline(true),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Price:    lipgloss.NewStyle().Foreground(colorSuccess),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
		Notice: lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		Error:  lipgloss.NewStyle().Foreground(colorError),
		Help:   lipgloss.NewStyle().Foreground(colorMuted),
	}
}
