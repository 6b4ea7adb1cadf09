package plotpage

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

const (
	labelFontSize = 10
	styleTagLen   = 8 // len("</style>")
)

// Style defines chart dimensions and grid margins.
type Style struct {
	Width      string
	Height     string
	GridLeft   string
	GridRight  string
	GridTop    string
	GridBottom string
}

// DefaultStyle returns the default chart style.
func DefaultStyle() Style {
	return Style{
		Width:      "100%",
		Height:     "360px",
		GridLeft:   "5%",
		GridRight:  "5%",
		GridTop:    "40",
		GridBottom: "10%",
	}
}

// Frame is one chart of the page: a labeled array with index roles.
type Frame struct {
	Label  string
	Values []int
	Roles  map[int]step.Role
}

// NewFrameChart builds the bar chart for one frame. Each bar is colored by
// the role of its index.
func NewFrameChart(frame Frame, style Style, theme Theme) *charts.Bar {
	tc := GetThemeConfig(theme)
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{
			Left: style.GridLeft, Right: style.GridRight,
			Top: style.GridTop, Bottom: style.GridBottom,
			ContainLabel: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Index",
			AxisLabel: &opts.AxisLabel{FontSize: labelFontSize, Color: tc.ChartText},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: tc.ChartAxis}},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Value",
			AxisLabel: &opts.AxisLabel{Color: tc.ChartText},
			SplitLine: &opts.SplitLine{LineStyle: &opts.LineStyle{Color: tc.ChartGrid}},
		}),
	)

	labels := make([]string, len(frame.Values))
	data := make([]opts.BarData, len(frame.Values))

	for i, v := range frame.Values {
		role := step.RoleNone
		if r, ok := frame.Roles[i]; ok {
			role = r
		}

		labels[i] = strconv.Itoa(i)
		data[i] = opts.BarData{
			Name:      string(role),
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: tc.RoleColor(role)},
		}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("value", data)

	return bar
}

// Renderable is the interface for chart components.
type Renderable interface {
	Render(w io.Writer) error
}

func renderChart(chart Renderable) (string, error) {
	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return extractChartContent(buf.String()), nil
}

// extractChartContent strips the standalone page echarts renders around a
// chart, keeping only the container div and its init script.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
