package mandel

import "github.com/willbeason/mandelscan/pkg/decimal"

// Origin records which part of the scan produced a Sample.
type Origin int

const (
	OriginLattice Origin = iota
	OriginNeighbor
)

func (o Origin) String() string {
	if o == OriginNeighbor {
		return "neighbor"
	}
	return "lattice"
}

// Sample is one classified point. Iterations is meaningful only once
// Evaluated is set: below MaxIterations the point escaped at that step,
// equal to MaxIterations it is in the set.
type Sample struct {
	X, Y       decimal.Decimal
	Iterations uint32
	Evaluated  bool
	Escaped    bool
	Origin     Origin
}

func (s Sample) InSet() bool {
	return s.Evaluated && !s.Escaped
}

func (s Sample) Point() decimal.Complex {
	return decimal.Complex{Re: s.X, Im: s.Y}
}

// Batch is a run of consecutive scan columns released together. Samples
// are in column-major order; within a column the lattice samples come
// first, followed by neighbour samples.
type Batch struct {
	// Scan is the generation of the scan that produced the batch.
	Scan        uint64
	Index       int
	FirstColumn int
	LastColumn  int
	Window      Window
	Samples     []Sample
	Report      Report
}

// X returns the real coordinates of the samples, in order.
func (b Batch) X() []decimal.Decimal {
	xs := make([]decimal.Decimal, len(b.Samples))
	for i, s := range b.Samples {
		xs[i] = s.X
	}
	return xs
}

// Y returns the imaginary coordinates of the samples, in order.
func (b Batch) Y() []decimal.Decimal {
	ys := make([]decimal.Decimal, len(b.Samples))
	for i, s := range b.Samples {
		ys[i] = s.Y
	}
	return ys
}

// Floats returns the coordinates as float64 slices for plotting.
func (b Batch) Floats() (xs, ys []float64) {
	xs = make([]float64, len(b.Samples))
	ys = make([]float64, len(b.Samples))
	for i, s := range b.Samples {
		xs[i] = s.X.Float64()
		ys[i] = s.Y.Float64()
	}
	return xs, ys
}

// Intensity returns the raw iteration count of each sample: the escape
// step, or MaxIterations for in-set points.
func (b Batch) Intensity() []uint32 {
	out := make([]uint32, len(b.Samples))
	for i, s := range b.Samples {
		out[i] = s.Iterations
	}
	return out
}

// Renderer consumes batches in scan order. A Renderer seeing a new Scan
// generation should start a fresh plot.
type Renderer interface {
	RenderBatch(b Batch) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(b Batch) error

func (f RendererFunc) RenderBatch(b Batch) error {
	return f(b)
}
