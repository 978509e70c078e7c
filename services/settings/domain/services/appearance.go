package services

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ghuser/shoppinglist/services/settings/domain/models"
)

// Appearance is the light or dark mode reported by the device.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

// DarkTintAlpha is the fixed alpha of dark element colors; elementOpacity only
// applies to light ones.
const DarkTintAlpha = 0.8

// ParseAppearance accepts light or dark. Empty means light.
func ParseAppearance(s string) (Appearance, error) {
	switch a := Appearance(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AppearanceLight, nil
	case AppearanceLight, AppearanceDark:
		return a, nil
	default:
		return "", fmt.Errorf("unknown appearance %q", s)
	}
}

// RGBA is a resolved display color.
type RGBA struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

func newRGBA(c colorful.Color, alpha float64) RGBA {
	r, g, b := c.Clamped().RGB255()
	return RGBA{R: r, G: g, B: b, A: alpha}
}

// CSS renders c as a CSS rgba() value.
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// Palette pairs the dark and light tint of one UI element.
type Palette struct {
	Dark  colorful.Color
	Light colorful.Color
}

var (
	// ElementPalette tints list rows and the input field background.
	ElementPalette = Palette{Dark: colorful.Color{}, Light: colorful.Color{R: 1, G: 1, B: 1}}
	// ForegroundPalette tints text and dividers drawn on top of elements.
	ForegroundPalette = Palette{Dark: colorful.Color{R: 1, G: 1, B: 1}, Light: colorful.Color{}}
)

// Resolve is ResolveElementColor with the palette's tints.
func (p Palette) Resolve(s *models.Settings, system Appearance) RGBA {
	return ResolveElementColor(s, p.Dark, p.Light, system)
}

// ResolveElementColor picks the tint and alpha for an element:
//   - no settings: light tint, fully opaque
//   - dark: dark tint at DarkTintAlpha
//   - system: as dark or light depending on system
//   - light or anything else: light tint at the element opacity
func ResolveElementColor(s *models.Settings, dark, light colorful.Color, system Appearance) RGBA {
	if s == nil {
		return newRGBA(light, 1)
	}

	useDark := false
	switch s.ThemeMode {
	case models.ThemeDark:
		useDark = true
	case models.ThemeSystem:
		useDark = system == AppearanceDark
	}

	if useDark {
		return newRGBA(dark, DarkTintAlpha)
	}
	return newRGBA(light, s.ElementOpacity)
}
