package terminal

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

const (
	clearScreen = "\033[H\033[2J"
	columnWidth = 2
	legendSep   = "   "
	swatch      = "■ "
)

// Renderer draws each playback frame as a bar chart on an io.Writer.
// It satisfies playback.Renderer.
type Renderer struct {
	out     io.Writer
	cfg     Config
	palette Palette

	algo     sorting.Algorithm
	maxValue int
}

// NewRenderer creates a terminal renderer writing to out.
func NewRenderer(out io.Writer, cfg Config) *Renderer {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}

	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}

	return &Renderer{out: out, cfg: cfg, palette: NewPalette(cfg.NoColor)}
}

// Begin draws the unsorted array.
func (r *Renderer) Begin(initial []int, algo sorting.Algorithm) error {
	r.algo = algo
	r.maxValue = 1

	if len(initial) > 0 {
		r.maxValue = max(slices.Max(initial), 1)
	}

	return r.write(r.Render(initial, nil, "initial"))
}

// Frame draws one step.
func (r *Renderer) Frame(ev step.Event) error {
	return r.write(r.Render(ev.Snapshot, ev.Roles, fmt.Sprintf("step %d", ev.Index+1)))
}

// End draws the sorted array followed by the legend.
func (r *Renderer) End(final []int) error {
	return r.write(r.Render(final, nil, "sorted") + r.LegendLine() + "\n")
}

// Render returns one complete frame as text.
func (r *Renderer) Render(values []int, roles map[int]step.Role, label string) string {
	var sb strings.Builder

	if r.cfg.Clear {
		sb.WriteString(clearScreen)
	}

	sb.WriteString(DrawHeader(r.algo.DisplayName(), label, r.cfg.Width))
	sb.WriteString("\n")

	roleAt := func(i int) step.Role {
		if role, ok := roles[i]; ok {
			return role
		}

		return step.RoleNone
	}

	if r.useColumns(len(values)) {
		r.renderColumns(&sb, values, roleAt)
	} else {
		r.renderRows(&sb, values, roleAt)
	}

	return sb.String()
}

// LegendLine returns the colored legend.
func (r *Renderer) LegendLine() string {
	parts := make([]string, 0, len(Legend()))
	for _, entry := range Legend() {
		parts = append(parts, r.palette.Paint(entry.Role, swatch+entry.Label))
	}

	return strings.Join(parts, legendSep)
}

func (r *Renderer) useColumns(n int) bool {
	switch r.cfg.Layout {
	case LayoutColumns:
		return true
	case LayoutRows:
		return false
	default:
		return n > 0 && n*columnWidth <= r.cfg.Width
	}
}

func (r *Renderer) renderRows(sb *strings.Builder, values []int, roleAt func(int) step.Role) {
	indexWidth := len(strconv.Itoa(max(len(values)-1, 0)))
	valueWidth := len(strconv.Itoa(r.maxValue))
	barWidth := max(r.cfg.Width-indexWidth-valueWidth-2, 1)

	for i, v := range values {
		sb.WriteString(PadLeft(strconv.Itoa(i), indexWidth))
		sb.WriteString(" ")
		sb.WriteString(r.palette.Paint(roleAt(i), DrawBar(v, r.maxValue, barWidth)))
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(v))
		sb.WriteString("\n")
	}
}

func (r *Renderer) renderColumns(sb *strings.Builder, values []int, roleAt func(int) step.Role) {
	height := r.cfg.Height

	for level := height; level >= 1; level-- {
		var line strings.Builder

		for i, v := range values {
			cell := BarEmpty
			if BarLength(v, r.maxValue, height) >= level {
				cell = r.palette.Paint(roleAt(i), BarFilled)
			}

			line.WriteString(cell)
			line.WriteString(strings.Repeat(" ", columnWidth-1))
		}

		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteString("\n")
	}
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.out, s)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}
