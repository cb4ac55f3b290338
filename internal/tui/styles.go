package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/AadhishGIT/ChatApp/internal/prefs"
)

// Styles holds the themed lipgloss styles for every pane
type Styles struct {
	Title         lipgloss.Style
	UserLabel     lipgloss.Style
	BotLabel      lipgloss.Style
	ErrorText     lipgloss.Style
	Chip          lipgloss.Style
	Sidebar       lipgloss.Style
	SidebarItem   lipgloss.Style
	SidebarActive lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Prompt        lipgloss.Style
	Modal         lipgloss.Style
}

// NewStyles builds the style set for a theme
func NewStyles(theme prefs.Theme) Styles {
	var (
		accent  = lipgloss.Color("205")
		user    = lipgloss.Color("39")
		muted   = lipgloss.Color("240")
		errCol  = lipgloss.Color("196")
		chipCol = lipgloss.Color("99")
		text    = lipgloss.Color("252")
	)
	if theme == prefs.ThemeLight {
		accent = lipgloss.Color("162")
		user = lipgloss.Color("26")
		muted = lipgloss.Color("245")
		errCol = lipgloss.Color("124")
		chipCol = lipgloss.Color("55")
		text = lipgloss.Color("235")
	}

	return Styles{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(accent),
		UserLabel:     lipgloss.NewStyle().Bold(true).Foreground(user),
		BotLabel:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		ErrorText:     lipgloss.NewStyle().Foreground(errCol),
		Chip:          lipgloss.NewStyle().Foreground(chipCol),
		Sidebar:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), false, true, false, false).BorderForeground(muted).PaddingRight(1),
		SidebarItem:   lipgloss.NewStyle().Foreground(text),
		SidebarActive: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Status:        lipgloss.NewStyle().Foreground(muted),
		Help:          lipgloss.NewStyle().Foreground(muted),
		Prompt:        lipgloss.NewStyle().Foreground(user),
		Modal:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
	}
}
