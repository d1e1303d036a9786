// Package neighbors refines the neighbourhood of in-set lattice points.
//
// The boundary of the set is fractal, so a coarse lattice misses in-set
// points lying between two lattice points. Around each in-set hit the
// expander samples the hit's own cell, [x - xStep/2, x + xStep/2) by
// [y - yStep/2, y + yStep/2), on a (2n)x(2n) sub-grid where n is
// NeighborsToCheck. Cells are half-open so the cells of adjacent hits tile
// the plane without sharing points.
package neighbors

import (
	"sort"

	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/escape"
	"github.com/willbeason/mandelscan/pkg/mandel"
)

// bounds is a half-open rectangle [xLo, xHi) x [yLo, yHi).
type bounds struct {
	xLo, xHi, yLo, yHi decimal.Decimal
}

func (b bounds) contains(x, y decimal.Decimal) bool {
	return x.Cmp(b.xLo) >= 0 && x.Cmp(b.xHi) < 0 &&
		y.Cmp(b.yLo) >= 0 && y.Cmp(b.yHi) < 0
}

// cell is the area sampled around a center point.
type cell struct {
	center decimal.Complex
	// dx and dy are the sub-grid spacing.
	dx, dy decimal.Decimal
	bounds bounds
}

type expander struct {
	ctx    *decimal.Context
	cfg    mandel.Config
	window mandel.Window
	hit    mandel.Sample
	n      int
	report mandel.Report
}

// Expand samples the cell of an in-set hit and returns every newly
// classified point, in-set or escaped, in column-major order. Points outside
// the window are discarded unevaluated and the hit itself is never
// returned. Sub-grid edge points that are in the set but border an escaped
// point are refined once more on a finer grid; refinement does not recurse.
func Expand(ctx *decimal.Context, hit mandel.Sample, l mandel.Lattice, cfg mandel.Config) ([]mandel.Sample, mandel.Report) {
	e := &expander{
		ctx:    ctx,
		cfg:    cfg,
		window: l.Window,
		hit:    hit,
		n:      cfg.NeighborsToCheck,
	}
	if e.n <= 0 || !hit.InSet() {
		return nil, e.report
	}

	root, err := e.cellAround(hit.Point(), l.XStep, l.YStep)
	if err != nil {
		e.report.ArithmeticFaults++
		return nil, e.report
	}

	grid := e.sample(root, nil)
	samples := grid.samples()

	for _, p := range grid.boundaryEdge() {
		child, err := e.cellAround(p.Point(), root.dx, root.dy)
		if err != nil {
			e.report.ArithmeticFaults++
			continue
		}
		e.report.Refinements++
		samples = append(samples, e.sample(child, &root.bounds).samples()...)
	}

	sortColumnMajor(samples)
	return samples, e.report
}

// cellAround centers a cell of size xStep by yStep on center.
func (e *expander) cellAround(center decimal.Complex, xStep, yStep decimal.Decimal) (cell, error) {
	dx, err := e.ctx.QuoInt(xStep, int64(2*e.n))
	if err != nil {
		return cell{}, err
	}
	dy, err := e.ctx.QuoInt(yStep, int64(2*e.n))
	if err != nil {
		return cell{}, err
	}
	halfX, err := e.ctx.QuoInt(xStep, 2)
	if err != nil {
		return cell{}, err
	}
	halfY, err := e.ctx.QuoInt(yStep, 2)
	if err != nil {
		return cell{}, err
	}

	var b bounds
	if b.xLo, err = e.ctx.Sub(center.Re, halfX); err != nil {
		return cell{}, err
	}
	if b.xHi, err = e.ctx.Add(center.Re, halfX); err != nil {
		return cell{}, err
	}
	if b.yLo, err = e.ctx.Sub(center.Im, halfY); err != nil {
		return cell{}, err
	}
	if b.yHi, err = e.ctx.Add(center.Im, halfY); err != nil {
		return cell{}, err
	}
	return cell{center: center, dx: dx, dy: dy, bounds: b}, nil
}

// sample evaluates the sub-grid of c, keeping only points inside the window
// and, when clip is set, inside clip. The center of c is never evaluated.
func (e *expander) sample(c cell, clip *bounds) *subgrid {
	g := newSubgrid(e.n)
	for i := -e.n; i < e.n; i++ {
		x, err := offset(e.ctx, c.center.Re, c.dx, i)
		if err != nil {
			e.report.ArithmeticFaults++
			continue
		}
		for j := -e.n; j < e.n; j++ {
			if i == 0 && j == 0 {
				if clip == nil {
					e.report.NeighborsSkippedHit++
				}
				continue
			}
			y, err := offset(e.ctx, c.center.Im, c.dy, j)
			if err != nil {
				e.report.ArithmeticFaults++
				continue
			}
			if e.ctx.Equal(x, e.hit.X) && e.ctx.Equal(y, e.hit.Y) {
				e.report.NeighborsSkippedHit++
				continue
			}
			if clip != nil && !clip.contains(x, y) {
				continue
			}
			if !e.window.Contains(x, y) {
				e.report.NeighborsOutOfWindow++
				continue
			}

			s := escape.Classify(e.ctx, x, y, mandel.OriginNeighbor, e.cfg, escape.Options{}, &e.report)
			e.report.NeighborsEvaluated++
			g.set(i, j, s)
		}
	}
	return g
}

func offset(ctx *decimal.Context, origin, step decimal.Decimal, k int) (decimal.Decimal, error) {
	if k == 0 {
		return origin, nil
	}
	d, err := ctx.MulInt(step, int64(k))
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ctx.Add(origin, d)
}

func sortColumnMajor(samples []mandel.Sample) {
	sort.SliceStable(samples, func(a, b int) bool {
		if c := samples[a].X.Cmp(samples[b].X); c != 0 {
			return c < 0
		}
		return samples[a].Y.Cmp(samples[b].Y) < 0
	})
}
