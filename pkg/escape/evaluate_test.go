package escape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/mandel"
	"github.com/willbeason/mandelscan/pkg/transforms"
)

func point(re, im string) decimal.Complex {
	return decimal.Complex{Re: decimal.MustParse(re), Im: decimal.MustParse(im)}
}

func testConfig() mandel.Config {
	cfg := mandel.DefaultConfig()
	cfg.MaxIterations = 100
	return cfg
}

func TestEvaluateFirstStepEscape(t *testing.T) {
	cfg := testConfig()
	ctx := cfg.Context()

	for _, c := range []decimal.Complex{
		point("3", "0"),
		point("-2.01", "0"),
		point("0", "2.5"),
		point("1.5", "1.5"),
		point("-1.5", "-1.5"),
	} {
		r := Evaluate(ctx, c, cfg, Options{})
		assert.True(t, r.Escaped, c.String())
		assert.Equal(t, uint32(1), r.Iterations, c.String())
		assert.Equal(t, Escaped, r.Reason, c.String())
	}
}

func TestEvaluateOrigin(t *testing.T) {
	for _, maxIterations := range []uint32{1, 2, 10, 500} {
		cfg := testConfig()
		cfg.MaxIterations = maxIterations

		r := Evaluate(cfg.Context(), point("0", "0"), cfg, Options{})
		assert.False(t, r.Escaped)
		assert.Equal(t, maxIterations, r.Iterations)
	}
}

func TestEvaluateOriginStagnates(t *testing.T) {
	cfg := testConfig()
	r := Evaluate(cfg.Context(), point("0", "0"), cfg, Options{})
	assert.Equal(t, Stagnation, r.Reason)
}

func TestEvaluatePeriodTwo(t *testing.T) {
	cfg := testConfig()

	r := Evaluate(cfg.Context(), point("-1", "0"), cfg, Options{})
	assert.False(t, r.Escaped)
	assert.Equal(t, cfg.MaxIterations, r.Iterations)
	assert.Equal(t, Cycle, r.Reason)
	assert.Equal(t, Provisional, r.Phase)
}

func TestEvaluatePeriodTwoVerified(t *testing.T) {
	cfg := testConfig()
	cfg.SecondPassEnabled = true

	r := Evaluate(cfg.Context(), point("-1", "0"), cfg, Options{})
	assert.True(t, r.InSet())
	assert.Equal(t, Cycle, r.Reason)
	assert.Equal(t, Verifying, r.Phase)
	assert.False(t, r.Rejected)
}

func TestEvaluateEscapeBoundary(t *testing.T) {
	cfg := testConfig()

	// |z1|² = 4 is not > 4; z2 = 6 escapes.
	r := Evaluate(cfg.Context(), point("2", "0"), cfg, Options{})
	assert.True(t, r.Escaped)
	assert.Equal(t, uint32(2), r.Iterations)

	// -2 is the tip of the set: 4, 4, ... stagnates.
	r = Evaluate(cfg.Context(), point("-2", "0"), cfg, Options{})
	assert.True(t, r.InSet())
}

func TestEvaluateSecondPassRejectsCoincidence(t *testing.T) {
	cfg := testConfig()
	cfg.MaxIterations = 200
	cfg.Epsilon = decimal.MustParse("0.1")

	c := point("0.26", "0")

	provisional := Evaluate(cfg.Context(), c, cfg, Options{})
	assert.True(t, provisional.InSet())
	assert.Equal(t, Cycle, provisional.Reason)

	cfg.SecondPassEnabled = true
	verified := Evaluate(cfg.Context(), c, cfg, Options{})
	assert.True(t, verified.Escaped)
	assert.True(t, verified.Rejected)
	assert.Equal(t, Verifying, verified.Phase)
	assert.Less(t, verified.Iterations, cfg.MaxIterations)
}

func TestEvaluateSlowEscapeWithoutHistory(t *testing.T) {
	cfg := testConfig()
	cfg.MaxIterations = 200
	cfg.HistoryLength = 0

	r := Evaluate(cfg.Context(), point("0.26", "0"), cfg, Options{})
	assert.True(t, r.Escaped)
	assert.Greater(t, r.Iterations, uint32(10))
}

func TestEvaluateSeed(t *testing.T) {
	cfg := testConfig()
	seed := point("3", "0")

	// From z0 = 3 the first step gives 9 + c.
	r := Evaluate(cfg.Context(), point("0", "0"), cfg, Options{Seed: &seed})
	assert.True(t, r.Escaped)
	assert.Equal(t, uint32(1), r.Iterations)
}

func TestEvaluateBudget(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryLength = 0

	// 0.26 needs more than five steps to escape.
	r := Evaluate(cfg.Context(), point("0.26", "0"), cfg, Options{Budget: 5})
	assert.True(t, r.InSet())
	assert.Equal(t, Exhausted, r.Reason)
	assert.Equal(t, cfg.MaxIterations, r.Iterations)
}

func TestAdaptiveBudget(t *testing.T) {
	assert.Equal(t, uint32(200), AdaptiveBudget(200, 0))
	assert.Equal(t, uint32(150), AdaptiveBudget(200, 1))
	assert.Equal(t, uint32(125), AdaptiveBudget(200, 3))
	assert.Equal(t, uint32(100), AdaptiveBudget(200, 1000))
	assert.Equal(t, uint32(1), AdaptiveBudget(1, 5))

	cfg := testConfig()
	cfg.AdaptiveBudget = true
	assert.Equal(t, uint32(75), Options{PriorInSet: 1}.budget(cfg))
	assert.Equal(t, uint32(10), Options{PriorInSet: 1, Budget: 10}.budget(cfg))
	assert.Equal(t, cfg.MaxIterations, Options{Budget: 1000}.budget(cfg))

	cfg.AdaptiveBudget = false
	assert.Equal(t, cfg.MaxIterations, Options{PriorInSet: 7}.budget(cfg))
}

type failingStep struct {
	after int
	calls *int
}

func (f failingStep) Next(ctx *decimal.Context, z, c decimal.Complex) (decimal.Complex, error) {
	*f.calls++
	if *f.calls > f.after {
		return decimal.Complex{}, &decimal.ArithmeticError{Op: "quo", Err: decimal.ErrDivisionByZero}
	}
	return transforms.Mandelbrot{}.Next(ctx, z, c)
}

func TestEvaluateFaultIsEscape(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryLength = 0
	calls := 0

	r := Evaluate(cfg.Context(), point("0.26", "0"), cfg, Options{Step: failingStep{after: 2, calls: &calls}})
	require.True(t, r.Escaped)
	assert.Equal(t, Fault, r.Reason)
	assert.Equal(t, uint32(3), r.Iterations)
	assert.True(t, errors.Is(r.Err, decimal.ErrDivisionByZero))
}

func TestEvaluateDeterministic(t *testing.T) {
	cfg := testConfig()
	ctx := cfg.Context()

	for _, c := range []decimal.Complex{point("-0.75", "0.1"), point("0.3", "0.5"), point("-0.1", "0.65")} {
		assert.Equal(t, Evaluate(ctx, c, cfg, Options{}), Evaluate(ctx, c, cfg, Options{}), c.String())
	}
}

func TestHistoryRing(t *testing.T) {
	h := newHistory(2)
	h.push(point("1", "0"))
	h.push(point("2", "0"))
	h.push(point("3", "0"))

	assert.False(t, h.match(point("1", "0"), exactlyEqual))
	assert.True(t, h.match(point("2", "0"), exactlyEqual))
	assert.True(t, h.match(point("3", "0"), exactlyEqual))

	empty := newHistory(0)
	empty.push(point("1", "0"))
	assert.False(t, empty.match(point("1", "0"), exactlyEqual))
}

func TestClassify(t *testing.T) {
	cfg := testConfig()
	var rep mandel.Report

	in := Classify(cfg.Context(), decimal.MustParse("-1"), decimal.MustParse("0"), mandel.OriginLattice, cfg, Options{}, &rep)
	out := Classify(cfg.Context(), decimal.MustParse("3"), decimal.MustParse("0"), mandel.OriginNeighbor, cfg, Options{}, &rep)

	assert.True(t, in.InSet())
	assert.Equal(t, cfg.MaxIterations, in.Iterations)
	assert.Equal(t, mandel.OriginLattice, in.Origin)
	assert.True(t, out.Escaped)
	assert.Equal(t, uint32(1), out.Iterations)
	assert.Equal(t, mandel.OriginNeighbor, out.Origin)
	assert.Equal(t, mandel.Report{Evaluated: 2, InSet: 1, Escaped: 1, Cycles: 1}, rep)
}

func TestEvaluateNegativeHistoryLength(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryLength = -3

	// With no history the period-2 orbit of -1 runs out the budget.
	var r Result
	require.NotPanics(t, func() {
		r = Evaluate(cfg.Context(), point("-1", "0"), cfg, Options{})
	})
	assert.True(t, r.InSet())
	assert.Equal(t, Exhausted, r.Reason)

	h := newHistory(-1)
	h.push(point("1", "0"))
	assert.False(t, h.match(point("1", "0"), exactlyEqual))
}
