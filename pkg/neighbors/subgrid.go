package neighbors

import "github.com/willbeason/mandelscan/pkg/mandel"

// subgrid holds the evaluated points of one cell, indexed by offset
// i, j in [-n, n).
type subgrid struct {
	n      int
	points []*mandel.Sample
}

func newSubgrid(n int) *subgrid {
	return &subgrid{n: n, points: make([]*mandel.Sample, 4*n*n)}
}

func (g *subgrid) index(i, j int) (int, bool) {
	if i < -g.n || i >= g.n || j < -g.n || j >= g.n {
		return 0, false
	}
	return (i+g.n)*2*g.n + (j + g.n), true
}

func (g *subgrid) set(i, j int, s mandel.Sample) {
	if k, ok := g.index(i, j); ok {
		g.points[k] = &s
	}
}

func (g *subgrid) get(i, j int) *mandel.Sample {
	if k, ok := g.index(i, j); ok {
		return g.points[k]
	}
	return nil
}

func (g *subgrid) samples() []mandel.Sample {
	var out []mandel.Sample
	for _, p := range g.points {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func (g *subgrid) onEdge(i, j int) bool {
	return i == -g.n || i == g.n-1 || j == -g.n || j == g.n-1
}

// boundaryEdge returns the in-set points on the edge of the sub-grid that
// have an escaped 4-neighbour, the sign of a boundary crossing inside the
// cell.
func (g *subgrid) boundaryEdge() []mandel.Sample {
	var out []mandel.Sample
	for i := -g.n; i < g.n; i++ {
		for j := -g.n; j < g.n; j++ {
			p := g.get(i, j)
			if p == nil || !p.InSet() || !g.onEdge(i, j) {
				continue
			}
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				if q := g.get(i+d[0], j+d[1]); q != nil && q.Escaped {
					out = append(out, *p)
					break
				}
			}
		}
	}
	return out
}
