package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// ThemeMode selects how element colors follow the device appearance.
type ThemeMode string

const (
	ThemeSystem ThemeMode = "system"
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
)

// Defaults for a fresh installation.
const (
	DefaultThemeMode       = ThemeSystem
	DefaultBackgroundColor = "#F5E4B5"
	DefaultElementOpacity  = 0.7
)

// ParseThemeMode accepts system, light or dark, case-insensitively.
func ParseThemeMode(s string) (ThemeMode, error) {
	switch m := ThemeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ThemeSystem, ThemeLight, ThemeDark:
		return m, nil
	default:
		return "", fmt.Errorf("unknown theme mode %q", s)
	}
}

// Settings is the single preferences record of an installation.
// A background image, when present, takes precedence over BackgroundColor.
type Settings struct {
	ThemeMode       ThemeMode
	BackgroundColor string
	BackgroundImage []byte
	ElementOpacity  float64
	UpdatedAt       time.Time
}

// DefaultSettings returns the record created on first launch.
func DefaultSettings(now time.Time) *Settings {
	return &Settings{
		ThemeMode:       DefaultThemeMode,
		BackgroundColor: DefaultBackgroundColor,
		ElementOpacity:  DefaultElementOpacity,
		UpdatedAt:       now.UTC(),
	}
}

// HasBackgroundImage reports whether an image overrides the background color.
func (s *Settings) HasBackgroundImage() bool {
	return len(s.BackgroundImage) > 0
}

// Background parses BackgroundColor. Unparseable values render as white.
func (s *Settings) Background() colorful.Color {
	c, err := ParseHexColor(s.BackgroundColor)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	if s.BackgroundImage != nil {
		c.BackgroundImage = append([]byte(nil), s.BackgroundImage...)
	}
	return &c
}

// ParseHexColor parses #RGB or #RRGGBB.
func ParseHexColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, fmt.Errorf("color %q is not #RGB or #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}

// NormalizeHexColor returns s in canonical upper-case #RRGGBB form.
func NormalizeHexColor(s string) (string, error) {
	c, err := ParseHexColor(s)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(c.Hex()), nil
}

// ValidateOpacity rejects values outside [0,1].
func ValidateOpacity(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("opacity %v is outside [0,1]", v)
	}
	return nil
}
