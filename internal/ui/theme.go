package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/renderjson/internal/config"
)

// Theme defines the colors used for each renderer class. A nil color leaves
// that class unstyled.
type Theme struct {
	Syntax     color.Color // Punctuation: brackets, commas, colons
	String     color.Color
	Number     color.Color
	Boolean    color.Color
	Key        color.Color // Object keys
	Keyword    color.Color // null and undefined
	Disclosure color.Color // Show and hide icons
	FocusFG    color.Color // Focused affordance in the TUI
	FocusBG    color.Color
	HelpKey    color.Color
	HelpValue  color.Color
}

// FallbackTheme is used when no configuration is available.
func FallbackTheme() Theme {
	return Theme{
		Syntax:     lipgloss.Color("245"),
		String:     lipgloss.Color("114"),
		Number:     lipgloss.Color("81"),
		Boolean:    lipgloss.Color("215"),
		Key:        lipgloss.Color("117"),
		Keyword:    lipgloss.Color("176"),
		Disclosure: lipgloss.Color("220"),
		FocusFG:    lipgloss.Color("236"),
		FocusBG:    lipgloss.Color("220"),
		HelpKey:    lipgloss.Color("81"),
		HelpValue:  lipgloss.Color("245"),
	}
}

// ThemeFromConfig converts a configured theme. Empty entries stay unstyled.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	return Theme{
		Syntax:     toColor(cfg.Syntax),
		String:     toColor(cfg.String),
		Number:     toColor(cfg.Number),
		Boolean:    toColor(cfg.Boolean),
		Key:        toColor(cfg.Key),
		Keyword:    toColor(cfg.Keyword),
		Disclosure: toColor(cfg.Disclosure),
		FocusFG:    toColor(cfg.FocusFG),
		FocusBG:    toColor(cfg.FocusBG),
		HelpKey:    toColor(cfg.HelpKey),
		HelpValue:  toColor(cfg.HelpValue),
	}
}

func toColor(v config.ColorValue) color.Color {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}

// Styles maps renderer classes to lipgloss styles.
type Styles struct {
	byClass   map[string]lipgloss.Style
	Focus     lipgloss.Style
	HelpKey   lipgloss.Style
	HelpValue lipgloss.Style
}

// NewStyles builds styles for theme.
func NewStyles(theme Theme) Styles {
	fg := func(c color.Color) lipgloss.Style {
		s := lipgloss.NewStyle()
		if c != nil {
			s = s.Foreground(c)
		}
		return s
	}
	focus := lipgloss.NewStyle().Bold(true).Reverse(theme.FocusBG == nil)
	if theme.FocusFG != nil {
		focus = focus.Foreground(theme.FocusFG)
	}
	if theme.FocusBG != nil {
		focus = focus.Background(theme.FocusBG)
	}
	return Styles{
		byClass: map[string]lipgloss.Style{
			"syntax":     fg(theme.Syntax),
			"string":     fg(theme.String),
			"number":     fg(theme.Number),
			"boolean":    fg(theme.Boolean),
			"key":        fg(theme.Key),
			"keyword":    fg(theme.Keyword),
			"disclosure": fg(theme.Disclosure).Bold(true),
		},
		Focus:     focus,
		HelpKey:   fg(theme.HelpKey),
		HelpValue: fg(theme.HelpValue),
	}
}

// For returns the style for a class attribute. Multi-token classes such as
// "object syntax" match on their last known token.
func (s Styles) For(class string) (lipgloss.Style, bool) {
	fields := strings.Fields(class)
	for i := len(fields) - 1; i >= 0; i-- {
		if st, ok := s.byClass[fields[i]]; ok {
			return st, true
		}
	}
	return lipgloss.Style{}, false
}
