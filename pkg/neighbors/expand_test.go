package neighbors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/escape"
	"github.com/willbeason/mandelscan/pkg/mandel"
)

func testConfig(n int) mandel.Config {
	cfg := mandel.DefaultConfig()
	cfg.MaxIterations = 100
	cfg.NeighborsToCheck = n
	return cfg
}

func lattice(t *testing.T, cfg mandel.Config, w mandel.Window, g mandel.Grid) mandel.Lattice {
	t.Helper()
	l, err := g.Resolve(cfg.Context(), w)
	require.NoError(t, err)
	return l
}

func hitAt(t *testing.T, cfg mandel.Config, x, y string) mandel.Sample {
	t.Helper()
	var rep mandel.Report
	s := escape.Classify(cfg.Context(), decimal.MustParse(x), decimal.MustParse(y), mandel.OriginLattice, cfg, escape.Options{}, &rep)
	require.True(t, s.InSet(), "%s%si is not in the set", x, y)
	return s
}

// assertWithinCell checks the invariants every expansion must keep.
func assertWithinCell(t *testing.T, hit mandel.Sample, l mandel.Lattice, samples []mandel.Sample) {
	t.Helper()
	ctx := mandel.DefaultConfig().Context()

	half := func(d decimal.Decimal) decimal.Decimal {
		h, err := ctx.QuoInt(d, 2)
		require.NoError(t, err)
		return h
	}
	xLo, _ := ctx.Sub(hit.X, half(l.XStep))
	xHi, _ := ctx.Add(hit.X, half(l.XStep))
	yLo, _ := ctx.Sub(hit.Y, half(l.YStep))
	yHi, _ := ctx.Add(hit.Y, half(l.YStep))

	seen := make(map[string]bool)
	for i, s := range samples {
		assert.True(t, l.Window.Contains(s.X, s.Y), "sample %d outside window", i)
		assert.False(t, ctx.Equal(s.X, hit.X) && ctx.Equal(s.Y, hit.Y), "sample %d repeats the hit", i)
		assert.GreaterOrEqual(t, s.X.Cmp(xLo), 0)
		assert.Less(t, s.X.Cmp(xHi), 0)
		assert.GreaterOrEqual(t, s.Y.Cmp(yLo), 0)
		assert.Less(t, s.Y.Cmp(yHi), 0)
		assert.True(t, s.Evaluated)
		assert.Equal(t, mandel.OriginNeighbor, s.Origin)

		key := s.X.Canonical() + "," + s.Y.Canonical()
		assert.False(t, seen[key], "duplicate sample %s", key)
		seen[key] = true

		if i > 0 {
			prev := samples[i-1]
			c := prev.X.Cmp(s.X)
			assert.True(t, c < 0 || (c == 0 && prev.Y.Cmp(s.Y) < 0), "samples out of column-major order at %d", i)
		}
	}
}

func TestExpandDisabled(t *testing.T) {
	cfg := testConfig(0)
	l := lattice(t, cfg, mandel.FullSet, mandel.Grid{XSteps: 10, YSteps: 10})

	samples, rep := Expand(cfg.Context(), hitAt(t, cfg, "0", "0"), l, cfg)
	assert.Empty(t, samples)
	assert.Equal(t, mandel.Report{}, rep)
}

func TestExpandIgnoresEscapedPoints(t *testing.T) {
	cfg := testConfig(2)
	l := lattice(t, cfg, mandel.FullSet, mandel.Grid{XSteps: 10, YSteps: 10})

	var rep mandel.Report
	escaped := escape.Classify(cfg.Context(), decimal.MustParse("0.5"), decimal.MustParse("1"), mandel.OriginLattice, cfg, escape.Options{}, &rep)
	require.True(t, escaped.Escaped)

	samples, _ := Expand(cfg.Context(), escaped, l, cfg)
	assert.Empty(t, samples)
}

func TestExpandInterior(t *testing.T) {
	cfg := testConfig(2)
	l := lattice(t, cfg, mandel.FullSet, mandel.Grid{XSteps: 10, YSteps: 10})
	hit := hitAt(t, cfg, "0", "0")

	samples, rep := Expand(cfg.Context(), hit, l, cfg)

	// A 4x4 sub-grid minus the hit, all deep inside the main cardioid.
	require.Len(t, samples, 15)
	assertWithinCell(t, hit, l, samples)
	for _, s := range samples {
		assert.True(t, s.InSet())
	}
	assert.Equal(t, 15, rep.NeighborsEvaluated)
	assert.Equal(t, 1, rep.NeighborsSkippedHit)
	assert.Equal(t, 0, rep.Refinements)
	assert.Equal(t, 0, rep.NeighborsOutOfWindow)
}

func TestExpandDiscardsOutOfWindow(t *testing.T) {
	cfg := testConfig(2)
	w := mandel.MustParseWindow("0", "0.2", "0", "0.2")
	l := lattice(t, cfg, w, mandel.Grid{XSteps: 2, YSteps: 2})
	hit := hitAt(t, cfg, "0", "0")

	samples, rep := Expand(cfg.Context(), hit, l, cfg)

	require.Len(t, samples, 3)
	assertWithinCell(t, hit, l, samples)
	assert.Equal(t, 12, rep.NeighborsOutOfWindow)
	assert.Equal(t, 3, rep.NeighborsEvaluated)
}

func TestExpandRefinesBoundary(t *testing.T) {
	cfg := testConfig(2)
	l := lattice(t, cfg, mandel.FullSet, mandel.Grid{XSteps: 10, YSteps: 10})

	// -0.75 is the neck between the cardioid and the period-2 bulb, so the
	// boundary runs through its cell.
	hit := hitAt(t, cfg, "-0.75", "0")

	samples, rep := Expand(cfg.Context(), hit, l, cfg)

	assert.Positive(t, rep.Refinements)
	assert.Greater(t, len(samples), 15)
	assert.Equal(t, len(samples), rep.NeighborsEvaluated)
	assertWithinCell(t, hit, l, samples)

	var in, out int
	for _, s := range samples {
		if s.InSet() {
			in++
		} else {
			out++
		}
	}
	assert.Positive(t, in)
	assert.Positive(t, out)
}

func TestExpandDeterministic(t *testing.T) {
	cfg := testConfig(2)
	l := lattice(t, cfg, mandel.FullSet, mandel.Grid{XSteps: 10, YSteps: 10})
	hit := hitAt(t, cfg, "-0.5", "0.5")

	a, repA := Expand(cfg.Context(), hit, l, cfg)
	b, repB := Expand(cfg.Context(), hit, l, cfg)
	assert.Equal(t, repA, repB)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, 0, a[i].X.Cmp(b[i].X))
		assert.Equal(t, 0, a[i].Y.Cmp(b[i].Y))
		assert.Equal(t, a[i].Iterations, b[i].Iterations)
	}
}

func TestBoundaryEdge(t *testing.T) {
	g := newSubgrid(2)
	in := mandel.Sample{Evaluated: true, Iterations: 100}
	out := mandel.Sample{Evaluated: true, Escaped: true, Iterations: 3}

	for i := -2; i < 2; i++ {
		for j := -2; j < 2; j++ {
			g.set(i, j, in)
		}
	}
	assert.Empty(t, g.boundaryEdge())

	// Two escaped interior points border four in-set edge points.
	g.set(0, 0, out)
	g.set(-1, 0, out)
	edge := g.boundaryEdge()
	assert.Len(t, edge, 4)

	assert.Nil(t, g.get(2, 0))
	assert.True(t, g.onEdge(-2, 0))
	assert.False(t, g.onEdge(0, 0))
}
