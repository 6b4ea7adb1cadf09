// Package terminal renders sort playback as a colored bar chart on an ANSI terminal.
package terminal

import (
	"os"
	"strconv"

	"github.com/fatih/color"
)

// Default width constants.
const (
	DefaultWidth = 80
	MinWidth     = 40
	MaxWidth     = 200
)

// Layout selects how bars are drawn.
type Layout int

// Layout values.
const (
	// LayoutAuto draws columns when the terminal is wide enough, rows otherwise.
	LayoutAuto Layout = iota
	// LayoutRows draws one horizontal bar per element.
	LayoutRows
	// LayoutColumns draws one vertical bar per element.
	LayoutColumns
)

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	Height  int
	NoColor bool
	Layout  Layout
	// Clear redraws every frame in place instead of appending it.
	Clear bool
}

// DefaultHeight is the column chart height in lines.
const DefaultHeight = 16

// NewConfig creates a Config from the environment. NO_COLOR and a
// non-terminal stdout both disable color.
func NewConfig() Config {
	return Config{
		Width:   DetectWidth(),
		Height:  DefaultHeight,
		NoColor: os.Getenv("NO_COLOR") != "" || color.NoColor,
		Clear:   true,
	}
}

// DetectWidth returns the terminal width from COLUMNS environment variable,
// or DefaultWidth if not set or invalid. The result is clamped to
// [MinWidth, MaxWidth].
func DetectWidth() int {
	columnsEnv := os.Getenv("COLUMNS")
	if columnsEnv == "" {
		return DefaultWidth
	}

	width, err := strconv.Atoi(columnsEnv)
	if err != nil {
		return DefaultWidth
	}

	return clampWidth(width)
}

func clampWidth(width int) int {
	return min(max(width, MinWidth), MaxWidth)
}
