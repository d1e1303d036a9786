// Package scan walks a Window column by column and classifies every lattice
// point, refining the neighbourhood of in-set hits.
package scan

import (
	"fmt"

	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/escape"
	"github.com/willbeason/mandelscan/pkg/mandel"
	"github.com/willbeason/mandelscan/pkg/neighbors"
)

// Plan is a validated scan: a Window resolved against a Grid under a
// Config. Column work is pure given the Plan, so columns may be evaluated
// in any order and on any goroutine.
type Plan struct {
	ctx     *decimal.Context
	cfg     mandel.Config
	lattice mandel.Lattice
}

// Column is the classified content of one lattice column: the lattice
// samples from yLower to yUpper, then any neighbour samples.
type Column struct {
	Index   int
	X       decimal.Decimal
	Samples []mandel.Sample
	Report  mandel.Report
}

func NewPlan(w mandel.Window, g mandel.Grid, cfg mandel.Config) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := cfg.Context()
	l, err := g.Resolve(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("resolving %dx%d grid over %s: %w", g.XSteps, g.YSteps, w, err)
	}
	return &Plan{ctx: ctx, cfg: cfg, lattice: l}, nil
}

func (p *Plan) Columns() int {
	return p.lattice.Grid.Columns()
}

func (p *Plan) Config() mandel.Config {
	return p.cfg
}

func (p *Plan) Window() mandel.Window {
	return p.lattice.Window
}

func (p *Plan) Lattice() mandel.Lattice {
	return p.lattice
}

// Column evaluates column i. Runs of consecutive in-set points feed the
// adaptive budget when Config.AdaptiveBudget is set.
func (p *Plan) Column(i int) Column {
	col := Column{Index: i}

	x, err := p.lattice.X(p.ctx, i)
	if err != nil {
		col.Report.ArithmeticFaults++
		return col
	}
	col.X = x

	rows := p.lattice.Grid.Rows()
	col.Samples = make([]mandel.Sample, 0, rows)

	var run uint32
	var hits []mandel.Sample
	for j := range rows {
		y, err := p.lattice.Y(p.ctx, j)
		if err != nil {
			col.Report.ArithmeticFaults++
			continue
		}

		s := escape.Classify(p.ctx, x, y, mandel.OriginLattice, p.cfg, escape.Options{PriorInSet: run}, &col.Report)
		col.Samples = append(col.Samples, s)

		if s.InSet() {
			run++
			hits = append(hits, s)
		} else {
			run = 0
		}
	}

	for _, hit := range hits {
		found, rep := neighbors.Expand(p.ctx, hit, p.lattice, p.cfg)
		col.Samples = append(col.Samples, found...)
		col.Report.Add(rep)
	}

	return col
}

// Batch assembles consecutive columns into batch number index of scan
// generation scanID.
func (p *Plan) Batch(scanID uint64, index int, cols []Column) mandel.Batch {
	b := mandel.Batch{
		Scan:   scanID,
		Index:  index,
		Window: p.lattice.Window,
	}
	if len(cols) == 0 {
		return b
	}
	b.FirstColumn = cols[0].Index
	b.LastColumn = cols[len(cols)-1].Index

	n := 0
	for _, c := range cols {
		n += len(c.Samples)
	}
	b.Samples = make([]mandel.Sample, 0, n)
	for _, c := range cols {
		b.Samples = append(b.Samples, c.Samples...)
		b.Report.Add(c.Report)
	}
	return b
}
