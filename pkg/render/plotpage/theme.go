package plotpage

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// Theme represents a color theme for visualizations.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ErrUnknownTheme is returned by ParseTheme for names other than light and dark.
var ErrUnknownTheme = errors.New("unknown theme")

// ParseTheme converts a theme name.
func ParseTheme(name string) (Theme, error) {
	switch Theme(name) {
	case ThemeLight, ThemeDark:
		return Theme(name), nil
	default:
		return "", fmt.Errorf("%w: %q (available: light, dark)", ErrUnknownTheme, name)
	}
}

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	Background    string
	Surface       string
	Border        string
	TextPrimary   string
	TextSecondary string

	ChartGrid string
	ChartAxis string
	ChartText string

	// Roles colors bars by the role of their index.
	Roles map[step.Role]string
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	switch theme {
	case ThemeDark:
		return darkTheme
	case ThemeLight:
		return lightTheme
	default:
		return lightTheme
	}
}

// RoleColor returns the bar color for role, falling back to the unsorted color.
func (tc ThemeConfig) RoleColor(role step.Role) string {
	if c, ok := tc.Roles[role]; ok {
		return c
	}

	return tc.Roles[step.RoleNone]
}

var lightTheme = ThemeConfig{
	Background:    "#fafaf9", // stone-50.
	Surface:       "#ffffff",
	Border:        "#e7e5e4", // stone-200.
	TextPrimary:   "#1c1917", // stone-900.
	TextSecondary: "#44403c", // stone-700.

	ChartGrid: "#e7e5e4", // stone-200.
	ChartAxis: "#a8a29e", // stone-400.
	ChartText: "#44403c", // stone-700.

	Roles: map[step.Role]string{
		step.RoleNone:        "#2563eb", // blue-600.
		step.RoleCompared:    "#ca8a04", // yellow-600.
		step.RoleSwapped:     "#ea580c", // orange-600.
		step.RolePivot:       "#ea580c",
		step.RoleMergedRange: "#16a34a", // green-600.
	},
}

var darkTheme = ThemeConfig{
	Background:    "#0c0a09", // stone-950.
	Surface:       "#1c1917", // stone-900.
	Border:        "#44403c", // stone-700.
	TextPrimary:   "#fafaf9", // stone-50.
	TextSecondary: "#d6d3d1", // stone-300.

	ChartGrid: "#44403c", // stone-700.
	ChartAxis: "#57534e", // stone-600.
	ChartText: "#d6d3d1", // stone-300.

	Roles: map[step.Role]string{
		step.RoleNone:        "#3b82f6", // blue-500.
		step.RoleCompared:    "#eab308", // yellow-500.
		step.RoleSwapped:     "#f97316", // orange-500.
		step.RolePivot:       "#f97316",
		step.RoleMergedRange: "#22c55e", // green-500.
	},
}
