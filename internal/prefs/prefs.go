package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Theme is the two-valued display preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Store persists user preferences as a small yaml file in the state dir.
// It is read once at startup and written on every change.
type Store struct {
	path string
}

// NewStore creates a preference store rooted at stateDir
func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, "prefs.yaml")}
}

type fileFormat struct {
	Theme string `yaml:"theme"`
}

// Theme returns the stored theme preference. The second return is false
// when no valid value has been stored yet.
func (s *Store) Theme() (Theme, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", false
	}

	switch Theme(f.Theme) {
	case ThemeLight, ThemeDark:
		return Theme(f.Theme), true
	}
	return "", false
}

// SetTheme durably stores the theme preference
func (s *Store) SetTheme(theme Theme) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(fileFormat{Theme: string(theme)})
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load returns the stored theme, falling back to the terminal's
// dark-background signal when nothing has been stored.
func (s *Store) Load() Theme {
	if theme, ok := s.Theme(); ok {
		return theme
	}
	if lipgloss.HasDarkBackground() {
		return ThemeDark
	}
	return ThemeLight
}
