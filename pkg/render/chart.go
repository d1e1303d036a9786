// Package render provides Renderers for scan batches.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/willbeason/mandelscan/pkg/mandel"
)

var ErrNoSamples = errors.New("no samples to plot")

// trace is one growing scatter series.
type trace struct {
	xs, ys []float64
}

func (t *trace) add(x, y float64) {
	t.xs = append(t.xs, x)
	t.ys = append(t.ys, y)
}

func (t *trace) reset() {
	t.xs, t.ys = t.xs[:0], t.ys[:0]
}

// pointStyle draws points only, without connecting lines.
func pointStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    width,
		DotColor:    col,
	}
}

// Chart accumulates batches into two scatter traces, in-set points and
// escaped points, and plots them over the scan window. A batch from a new
// scan generation clears both traces.
type Chart struct {
	Width, Height int
	// ShowEscaped also plots escaped points, faintly.
	ShowEscaped bool

	mu      sync.Mutex
	scan    uint64
	window  mandel.Window
	inSet   trace
	escaped trace
}

func NewChart(width, height int) *Chart {
	return &Chart{Width: width, Height: height}
}

var _ mandel.Renderer = (*Chart)(nil)

func (c *Chart) RenderBatch(b mandel.Batch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b.Scan != c.scan {
		c.scan = b.Scan
		c.inSet.reset()
		c.escaped.reset()
	}
	c.window = b.Window

	xs, ys := b.Floats()
	for i, s := range b.Samples {
		if s.InSet() {
			c.inSet.add(xs[i], ys[i])
		} else {
			c.escaped.add(xs[i], ys[i])
		}
	}
	return nil
}

// Counts returns the number of points in each trace.
func (c *Chart) Counts() (inSet, escaped int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inSet.xs), len(c.escaped.xs)
}

// Save renders the current traces as a PNG.
func (c *Chart) Save(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var series []chart.Series
	if c.ShowEscaped && len(c.escaped.xs) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "escaped",
			XValues: c.escaped.xs,
			YValues: c.escaped.ys,
			Style:   pointStyle(chart.ColorBlue.WithAlpha(64), 1),
		})
	}
	if len(c.inSet.xs) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "in set",
			XValues: c.inSet.xs,
			YValues: c.inSet.ys,
			Style:   pointStyle(drawing.ColorBlack, 2),
		})
	}
	if len(series) == 0 {
		return ErrNoSamples
	}

	ch := chart.Chart{
		Title:  fmt.Sprintf("scan %d: %s", c.scan, c.window),
		Width:  c.Width,
		Height: c.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "Re",
			Range: &chart.ContinuousRange{Min: c.window.XLower.Float64(), Max: c.window.XUpper.Float64()},
		},
		YAxis: chart.YAxis{
			Name:  "Im",
			Range: &chart.ContinuousRange{Min: c.window.YLower.Float64(), Max: c.window.YUpper.Float64()},
		},
		Series: series,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart of scan %d: %w", c.scan, err)
	}
	return nil
}

// WriteFile saves the chart to path.
func (c *Chart) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
