package shortestpath

import (
	"fmt"
	"math"

	"github.com/matzehuels/graphrank/pkg/graph"
	"github.com/matzehuels/graphrank/pkg/pqueue"
)

// Engine runs single-source Dijkstra over dense matrices of a fixed size.
// All working storage is allocated once in New and reused by every call to
// Evaluate. An Engine is not safe for concurrent use.
type Engine struct {
	n         int
	opts      Options
	queue     *pqueue.Queue
	dist      []uint64
	processed []bool
	pred      []int
	last      Result
}

// New creates an engine for n-vertex matrices.
func New(n int, opts ...Option) (*Engine, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: n=%d", ErrSizeMismatch, n)
	}
	if cfg.Source < 0 || cfg.Source >= n {
		return nil, fmt.Errorf("%w: source=%d n=%d", ErrBadSource, cfg.Source, n)
	}

	e := &Engine{
		n:         n,
		opts:      cfg,
		queue:     pqueue.New(n),
		dist:      make([]uint64, n),
		processed: make([]bool, n),
	}
	if cfg.RecordTree {
		e.pred = make([]int, n)
	}
	return e, nil
}

// N returns the vertex count the engine accepts.
func (e *Engine) N() int { return e.n }

// Source returns the source vertex.
func (e *Engine) Source() int { return e.opts.Source }

// Evaluate computes the fitness of m: the sum of shortest-path distances from
// the source to every other vertex it reaches. Unreached vertices and the
// source itself contribute nothing, so a source with no outgoing edges scores 0.
func (e *Engine) Evaluate(m *graph.Matrix) (uint64, error) {
	if m == nil {
		return 0, ErrNilMatrix
	}
	if m.N() != e.n {
		return 0, fmt.Errorf("%w: got %d vertices, want %d", ErrSizeMismatch, m.N(), e.n)
	}

	if err := e.seed(); err != nil {
		return 0, err
	}
	processed, err := e.run(m)
	if err != nil {
		return 0, err
	}

	fitness, reached := e.sum()
	e.last = Result{
		Source:    e.opts.Source,
		Fitness:   fitness,
		Dist:      e.dist,
		Pred:      e.pred,
		Reached:   reached,
		Processed: processed,
	}
	return fitness, nil
}

// Result returns the state of the most recent evaluation.
func (e *Engine) Result() Result { return e.last }

// seed resets the queue and inserts every vertex: the source at distance 0,
// the rest at Sentinel. Because all non-source keys tie, insertion order
// already satisfies heap order.
func (e *Engine) seed() error {
	e.queue.Reset()
	src := e.opts.Source
	for v := 0; v < e.n; v++ {
		e.processed[v] = false
		e.dist[v] = Sentinel
		if e.pred != nil {
			e.pred[v] = NoPredecessor
		}
	}
	e.dist[src] = 0
	for v := 0; v < e.n; v++ {
		if err := e.queue.Insert(v, e.dist[v]); err != nil {
			return fmt.Errorf("seed vertex %d: %w", v, err)
		}
	}
	return nil
}

// run drains the queue, relaxing every outgoing edge of each extracted vertex.
func (e *Engine) run(m *graph.Matrix) (int, error) {
	processed := 0
	for e.queue.Len() > 0 {
		top, err := e.queue.ExtractMin()
		if err != nil {
			return processed, err
		}
		u, du := top.Vertex, top.Distance
		e.processed[u] = true
		processed++

		if du == Sentinel {
			// Everything still queued is unreachable as well.
			continue
		}
		for v, w := range m.Row(u) {
			if w == 0 || e.processed[v] {
				continue
			}
			nd := addSaturating(du, uint64(w))
			if e.dist[v] > nd {
				e.dist[v] = nd
				if e.pred != nil {
					e.pred[v] = u
				}
				if err := e.queue.DecreaseKey(v, nd); err != nil {
					return processed, fmt.Errorf("relax %d→%d: %w", u, v, err)
				}
			}
		}
	}
	return processed, nil
}

// sum totals the finite distances of processed non-source vertices.
func (e *Engine) sum() (fitness uint64, reached int) {
	for v := 0; v < e.n; v++ {
		if !e.processed[v] || e.dist[v] == Sentinel {
			continue
		}
		reached++
		if v == e.opts.Source {
			continue
		}
		fitness = addSaturating(fitness, e.dist[v])
	}
	return fitness, reached
}

// addSaturating adds two distances, clamping just below Sentinel so a finite
// path never becomes "unreached".
func addSaturating(a, b uint64) uint64 {
	if a > math.MaxUint64-1-b {
		return Sentinel - 1
	}
	return a + b
}
