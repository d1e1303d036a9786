package mandel

import "fmt"

// Report counts what a scan did. Reports are returned by value and summed
// by the caller.
type Report struct {
	Evaluated          int `json:"evaluated"`
	InSet              int `json:"inSet"`
	Escaped            int `json:"escaped"`
	Stagnations        int `json:"stagnations"`
	Cycles             int `json:"cycles"`
	SecondPassRejected int `json:"secondPassRejected"`
	ArithmeticFaults   int `json:"arithmeticFaults"`

	NeighborsEvaluated   int `json:"neighborsEvaluated"`
	NeighborsOutOfWindow int `json:"neighborsOutOfWindow"`
	NeighborsSkippedHit  int `json:"neighborsSkippedHit"`
	Refinements          int `json:"refinements"`
}

func (r *Report) Add(o Report) {
	r.Evaluated += o.Evaluated
	r.InSet += o.InSet
	r.Escaped += o.Escaped
	r.Stagnations += o.Stagnations
	r.Cycles += o.Cycles
	r.SecondPassRejected += o.SecondPassRejected
	r.ArithmeticFaults += o.ArithmeticFaults
	r.NeighborsEvaluated += o.NeighborsEvaluated
	r.NeighborsOutOfWindow += o.NeighborsOutOfWindow
	r.NeighborsSkippedHit += o.NeighborsSkippedHit
	r.Refinements += o.Refinements
}

func (r Report) String() string {
	return fmt.Sprintf("evaluated=%d in-set=%d escaped=%d stagnations=%d cycles=%d rejected=%d faults=%d neighbors=%d out-of-window=%d refinements=%d",
		r.Evaluated, r.InSet, r.Escaped, r.Stagnations, r.Cycles, r.SecondPassRejected, r.ArithmeticFaults,
		r.NeighborsEvaluated, r.NeighborsOutOfWindow, r.Refinements)
}
