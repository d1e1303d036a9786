package scan

import (
	"context"

	"github.com/willbeason/mandelscan/pkg/mandel"
)

// Scanner is a lazy, single-use sequence of batches over a Plan. Each Step
// evaluates one column, the unit a cooperative host schedules between
// yields; Next groups steps into batches.
//
// A Scanner is not safe for concurrent use and cannot be restarted: once
// exhausted or cancelled it yields nothing further.
type Scanner struct {
	plan    *Plan
	scanID  uint64
	next    int
	batches int
	pending []Column
	err     error
}

func New(w mandel.Window, g mandel.Grid, cfg mandel.Config) (*Scanner, error) {
	p, err := NewPlan(w, g, cfg)
	if err != nil {
		return nil, err
	}
	return NewScanner(p, 0), nil
}

// NewScanner returns a Scanner over p whose batches carry scan generation
// scanID.
func NewScanner(p *Plan, scanID uint64) *Scanner {
	return &Scanner{plan: p, scanID: scanID}
}

func (s *Scanner) Plan() *Plan {
	return s.plan
}

// Step evaluates the next column. It returns false once every column has
// been produced or ctx is done; cancellation is checked before the column
// starts. Columns taken by Step are not seen by Next.
func (s *Scanner) Step(ctx context.Context) (Column, bool) {
	if s.err != nil || s.next >= s.plan.Columns() {
		return Column{}, false
	}
	if err := ctx.Err(); err != nil {
		s.err = err
		s.pending = nil
		return Column{}, false
	}
	col := s.plan.Column(s.next)
	s.next++
	return col, true
}

// Next returns the next batch: ColumnsPerBatch columns, or fewer for the
// final batch. It returns false when the scan is exhausted or cancelled.
func (s *Scanner) Next(ctx context.Context) (mandel.Batch, bool) {
	for {
		col, ok := s.Step(ctx)
		if !ok {
			return mandel.Batch{}, false
		}
		s.pending = append(s.pending, col)

		if len(s.pending) >= s.plan.cfg.ColumnsPerBatch || s.next == s.plan.Columns() {
			b := s.plan.Batch(s.scanID, s.batches, s.pending)
			s.batches++
			s.pending = nil
			return b, true
		}
	}
}

// Err returns the context error that cancelled the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Done reports whether the scan has no more columns to produce.
func (s *Scanner) Done() bool {
	return s.err != nil || s.next >= s.plan.Columns()
}
