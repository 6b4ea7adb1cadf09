package terminal

import (
	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// LegendEntry pairs a swatch role with its caption.
type LegendEntry struct {
	Role  step.Role
	Label string
}

// Legend lists the captions shown under the chart. Orange is rendered as
// bright red since ANSI has no orange.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Role: step.RoleNone, Label: "Blue: Unsorted elements"},
		{Role: step.RoleSwapped, Label: "Orange: Elements being swapped"},
		{Role: step.RoleCompared, Label: "Yellow: Elements being compared"},
		{Role: step.RoleMergedRange, Label: "Green: Merged range"},
	}
}

// Palette maps roles to terminal colors.
type Palette struct {
	colors map[step.Role]*color.Color
}

// NewPalette builds the role palette. Colors are forced on or off so output
// does not depend on whether stdout is a terminal.
func NewPalette(noColor bool) Palette {
	attrs := map[step.Role]color.Attribute{
		step.RoleNone:        color.FgBlue,
		step.RoleCompared:    color.FgYellow,
		step.RoleSwapped:     color.FgHiRed,
		step.RolePivot:       color.FgHiRed,
		step.RoleMergedRange: color.FgGreen,
	}

	colors := make(map[step.Role]*color.Color, len(attrs))

	for role, attr := range attrs {
		c := color.New(attr)
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}

		colors[role] = c
	}

	return Palette{colors: colors}
}

// Paint colors text with the role's color.
func (p Palette) Paint(role step.Role, text string) string {
	c, ok := p.colors[role]
	if !ok {
		c = p.colors[step.RoleNone]
	}

	return c.Sprint(text)
}
