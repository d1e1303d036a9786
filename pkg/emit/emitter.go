// Package emit runs scans concurrently and delivers their batches to a
// renderer in scan order.
package emit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/willbeason/mandelscan/pkg/mandel"
	"github.com/willbeason/mandelscan/pkg/scan"
)

type Option func(*Emitter)

// WithLogger sets the logger progress is written to.
func WithLogger(l *log.Logger) Option {
	return func(e *Emitter) {
		e.logger = l
	}
}

// Emitter evaluates columns on a pool of workers and releases them to a
// single Renderer as ordered batches. Renderer calls never overlap.
type Emitter struct {
	renderer mandel.Renderer
	logger   *log.Logger
	scans    atomic.Uint64
}

func New(r mandel.Renderer, opts ...Option) *Emitter {
	e := &Emitter{
		renderer: r,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run scans p to completion. Each call is a new scan generation. If ctx is
// cancelled no further batch is delivered and Run returns ctx.Err().
func (e *Emitter) Run(ctx context.Context, p *scan.Plan) (mandel.Report, error) {
	return e.run(ctx, p, e.scans.Add(1))
}

func (e *Emitter) run(parent context.Context, p *scan.Plan, id uint64) (mandel.Report, error) {
	cfg := p.Config()
	columns := p.Columns()
	workers := min(cfg.Workers, columns)

	e.logger.Printf("scan %d: %d columns over %s with %d workers", id, columns, p.Window(), workers)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	// Columns are released from the semaphore once the reducer has taken
	// them in order, which bounds the reorder buffer.
	inFlight := make(chan struct{}, workers+cfg.ColumnsPerBatch)
	indices := make(chan int)
	results := make(chan scan.Column, workers)

	g.Go(func() error {
		defer close(indices)
		for i := range columns {
			select {
			case inFlight <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			select {
			case indices <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			for i := range indices {
				if err := gctx.Err(); err != nil {
					return err
				}
				col := p.Column(i)
				select {
				case results <- col:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	workersDone := make(chan error, 1)
	go func() {
		workersDone <- g.Wait()
		close(results)
	}()

	var (
		total     mandel.Report
		renderErr error
		delivered int
	)

	pending := make(map[int]scan.Column)
	var batch []scan.Column
	next := 0

	for col := range results {
		if renderErr != nil || ctx.Err() != nil {
			continue
		}
		pending[col.Index] = col

		for {
			c, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			<-inFlight
			next++
			batch = append(batch, c)

			if len(batch) < cfg.ColumnsPerBatch && next < columns {
				continue
			}

			if ctx.Err() != nil {
				break
			}
			b := p.Batch(id, delivered, batch)
			batch = nil
			if err := e.renderer.RenderBatch(b); err != nil {
				renderErr = fmt.Errorf("rendering batch %d of scan %d: %w", b.Index, id, err)
				cancel()
				break
			}
			total.Add(b.Report)
			delivered++
			runtime.Gosched()
		}
	}

	workErr := <-workersDone

	switch {
	case renderErr != nil:
		e.logger.Printf("scan %d: aborted after %d batches: %v", id, delivered, renderErr)
		return total, renderErr
	case parent.Err() != nil && (next < columns || len(batch) > 0):
		e.logger.Printf("scan %d: cancelled after %d batches", id, delivered)
		return total, parent.Err()
	case workErr != nil && !errors.Is(workErr, context.Canceled):
		return total, workErr
	}

	e.logger.Printf("scan %d: %d batches, %s", id, delivered, total)
	return total, nil
}
