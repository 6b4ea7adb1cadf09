// Package plotpage renders a sort trace as a standalone HTML page holding one
// bar chart per frame.
package plotpage

import (
	"fmt"
	"html/template"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// DefaultTitle is the page heading.
const DefaultTitle = "Sorting Algorithm Visualization"

// DefaultMaxFrames bounds the number of charts on a page.
const DefaultMaxFrames = 200

const (
	echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	pageCSSFormat     = "body{background:%s;color:%s;font-family:system-ui,sans-serif;margin:0 auto;max-width:1200px;padding:24px}" +
		".frame{background:%s;border:1px solid %s;border-radius:8px;margin:16px 0;padding:12px}" +
		"h2{color:%s;font-size:14px;margin:0 0 8px}" +
		".legend{display:flex;gap:24px;list-style:none;padding:0}" +
		".swatch{display:inline-block;height:12px;margin-right:6px;width:12px}"
)

var legendLabels = []struct {
	role  step.Role
	label string
}{
	{step.RoleNone, "Unsorted elements"},
	{step.RoleSwapped, "Elements being swapped"},
	{step.RoleCompared, "Elements being compared"},
	{step.RoleMergedRange, "Merged range"},
}

// Page represents a complete visualization page.
type Page struct {
	Title       string
	Description string
	Theme       Theme
	Style       Style
	MaxFrames   int

	frames []Frame
}

// NewPage creates a new visualization page.
func NewPage(title, description string) *Page {
	return &Page{
		Title:       title,
		Description: description,
		Theme:       ThemeDark,
		Style:       DefaultStyle(),
		MaxFrames:   DefaultMaxFrames,
	}
}

// WithTheme sets the theme for the page.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// WithMaxFrames sets the frame cap. Values below two keep every frame.
func (p *Page) WithMaxFrames(n int) *Page {
	p.MaxFrames = n

	return p
}

// Add appends frames to the page.
func (p *Page) Add(frames ...Frame) {
	p.frames = append(p.frames, frames...)
}

// Len returns the number of frames added so far.
func (p *Page) Len() int {
	return len(p.frames)
}

// Render writes the page as HTML, keeping at most MaxFrames charts.
func (p *Page) Render(w io.Writer) error {
	tc := GetThemeConfig(p.Theme)
	kept := SampleFrames(len(p.frames), p.MaxFrames)

	frames := make([]frameData, 0, len(kept))

	for _, idx := range kept {
		chart, err := renderChart(NewFrameChart(p.frames[idx], p.Style, p.Theme))
		if err != nil {
			return fmt.Errorf("frame %d: %w", idx, err)
		}

		frames = append(frames, frameData{
			Ordinal: idx,
			Title:   p.frames[idx].Label,
			Chart:   template.HTML(chart), //nolint:gosec // echarts output.
		})
	}

	legend := make([]legendData, 0, len(legendLabels))
	for _, entry := range legendLabels {
		legend = append(legend, legendData{
			Label: entry.label,
			Style: template.CSS("background:" + tc.RoleColor(entry.role)), //nolint:gosec // fixed palette.
		})
	}

	darkClass := ""
	if p.Theme == ThemeDark {
		darkClass = "dark"
	}

	err := executePage(w, pageData{
		Title:       p.Title,
		Description: p.Description,
		DarkClass:   darkClass,
		AssetsHost:  echartsAssetsHost,
		CSS: template.CSS(fmt.Sprintf(pageCSSFormat, //nolint:gosec // fixed palette.
			tc.Background, tc.TextPrimary, tc.Surface, tc.Border, tc.TextSecondary)),
		Legend:  legend,
		Frames:  frames,
		Total:   len(p.frames),
		Sampled: len(kept) < len(p.frames),
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

// SampleFrames picks at most maxFrames evenly spaced indices out of total,
// always keeping the first and the last. A maxFrames below two keeps all.
func SampleFrames(total, maxFrames int) []int {
	if total <= 0 {
		return nil
	}

	count := total
	if maxFrames >= 2 && maxFrames < total {
		count = maxFrames
	}

	out := make([]int, count)
	for i := range count {
		if count == total {
			out[i] = i

			continue
		}

		out[i] = i * (total - 1) / (count - 1)
	}

	return out
}

// FramesFromTrace converts a trace into page frames: the initial array
// followed by one frame per event.
func FramesFromTrace(t *sorting.Trace) []Frame {
	frames := make([]Frame, 0, len(t.Events)+1)
	frames = append(frames, Frame{Label: "Initial array", Values: t.Input})

	for _, ev := range t.Events {
		frames = append(frames, eventFrame(ev))
	}

	return frames
}

// Describe builds the page subtitle for a run.
func Describe(algo sorting.Algorithm, size, events int) string {
	return fmt.Sprintf("%s on %s values, %s steps", algo.DisplayName(), humanize.Comma(int64(size)), humanize.Comma(int64(events)))
}

func eventFrame(ev step.Event) Frame {
	return Frame{Label: fmt.Sprintf("Step %d", ev.Index+1), Values: ev.Snapshot, Roles: ev.Roles}
}
