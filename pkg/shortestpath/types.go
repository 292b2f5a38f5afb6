package shortestpath

import (
	"errors"

	"github.com/matzehuels/graphrank/pkg/pqueue"
)

// Sentinel is the distance reported for vertices the source cannot reach.
const Sentinel = pqueue.Sentinel

// NoPredecessor marks the source and unreached vertices in [Result.Pred].
const NoPredecessor = -1

// Sentinel errors returned by the engine.
var (
	// ErrNilMatrix indicates that Evaluate was called with a nil matrix.
	ErrNilMatrix = errors.New("shortestpath: matrix is nil")

	// ErrSizeMismatch indicates that the matrix vertex count differs from the
	// count the engine was built for.
	ErrSizeMismatch = errors.New("shortestpath: matrix size does not match engine")

	// ErrBadSource indicates a source vertex outside [0, n).
	ErrBadSource = errors.New("shortestpath: source vertex out of range")
)

// Options configures an Engine.
//
// Source     – starting vertex (default 0).
// RecordTree – if true, predecessors are tracked so the shortest-path tree
//
//	can be rendered after an evaluation.
type Options struct {
	Source     int
	RecordTree bool
}

// Option represents a functional option for configuring an Engine.
type Option func(*Options)

// WithSource sets the source vertex. Out-of-range values make New fail.
func WithSource(v int) Option {
	return func(o *Options) {
		o.Source = v
	}
}

// WithTree enables predecessor tracking.
func WithTree() Option {
	return func(o *Options) {
		o.RecordTree = true
	}
}

// DefaultOptions returns the options used when none are supplied: source 0,
// no predecessor tracking.
func DefaultOptions() Options {
	return Options{Source: 0}
}

// Result is a read-only view of the most recent evaluation.
// Slices alias engine storage and are overwritten by the next Evaluate call;
// use Clone to keep them.
type Result struct {
	Source    int
	Fitness   uint64
	Dist      []uint64 // Sentinel for unreached vertices
	Pred      []int    // nil unless the engine records the tree
	Reached   int      // vertices with a finite distance, source included
	Processed int      // vertices extracted from the queue
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	out := r
	out.Dist = append([]uint64(nil), r.Dist...)
	if r.Pred != nil {
		out.Pred = append([]int(nil), r.Pred...)
	}
	return out
}

// Path returns the vertices on the shortest path from the source to v, or nil
// when v is unreachable or predecessors were not recorded.
func (r Result) Path(v int) []int {
	if r.Pred == nil || v < 0 || v >= len(r.Dist) || r.Dist[v] == Sentinel {
		return nil
	}
	var rev []int
	for cur := v; cur != NoPredecessor; cur = r.Pred[cur] {
		rev = append(rev, cur)
		if cur == r.Source {
			break
		}
	}
	path := make([]int, len(rev))
	for i, x := range rev {
		path[len(rev)-1-i] = x
	}
	return path
}
