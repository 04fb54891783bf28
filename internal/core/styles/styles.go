// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	MutedStyle   lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style

	// Presentation styles.
	FooterStyle         lipgloss.Style
	CounterStyle        lipgloss.Style
	ButtonStyle         lipgloss.Style
	ButtonDisabledStyle lipgloss.Style
	LoadingStyle        lipgloss.Style
	HelpOverlayStyle    lipgloss.Style
	HelpTitleStyle      lipgloss.Style

	// Index styles.
	IndexTitleStyle  lipgloss.Style
	IndexStatusStyle lipgloss.Style
	PreviewStyle     lipgloss.Style
)

func init() {
	SetTheme(themes[DefaultTheme])
}

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error)
	SuccessStyle = lipgloss.NewStyle().
		Foreground(p.Success)

	FooterStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface)
	CounterStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Bold(true).
		Padding(0, 1)
	ButtonStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Primary).
		Padding(0, 1)
	ButtonDisabledStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Surface).
		Padding(0, 1)
	LoadingStyle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Background(p.Surface)
	HelpOverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Foreground(p.Foreground).
		Padding(0, 1)
	HelpTitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	IndexTitleStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Primary).
		Padding(0, 1)
	IndexStatusStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		PaddingLeft(2)
	PreviewStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Surface).
		PaddingLeft(1)
}

// FormTheme returns a huh theme matching the active palette.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	p := CurrentPalette

	t.Focused.Title = t.Focused.Title.Foreground(p.Primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(p.Muted)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(p.Error)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(p.Error)
	t.Focused.Base = t.Focused.Base.BorderForeground(p.Primary)
	t.Blurred.Title = t.Blurred.Title.Foreground(p.Muted)

	return t
}
