package plotpage

import (
	"io"

	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// Renderer collects playback frames into a Page and writes it on End.
// It satisfies playback.Renderer.
type Renderer struct {
	out  io.Writer
	page *Page

	algo  sorting.Algorithm
	input int
}

// NewRenderer creates a renderer that writes page to out once playback ends.
func NewRenderer(out io.Writer, page *Page) *Renderer {
	return &Renderer{out: out, page: page}
}

// Begin adds the initial array.
func (r *Renderer) Begin(initial []int, algo sorting.Algorithm) error {
	r.algo = algo
	r.input = len(initial)
	r.page.Add(Frame{Label: "Initial array", Values: initial})

	return nil
}

// Frame adds one step.
func (r *Renderer) Frame(ev step.Event) error {
	r.page.Add(eventFrame(ev))

	return nil
}

// End writes the page. Runs with no events still get their initial frame.
func (r *Renderer) End([]int) error {
	if r.page.Description == "" {
		r.page.Description = Describe(r.algo, r.input, r.page.Len()-1)
	}

	return r.page.Render(r.out)
}
