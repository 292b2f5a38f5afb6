// Package ranking keeps the K best-scoring submissions of an unbounded stream.
//
// "Best" means smallest fitness. A [Store] holds at most K entries; once it is
// full, a new entry is admitted only when its fitness is strictly smaller than
// the worst retained fitness, and it then replaces that worst entry. A newcomer
// that ties the worst is discarded, so among equal scores the earlier
// submission keeps its place.
//
// Two strategies implement the same contract:
//
//   - [Heap]: a bounded max-heap whose root is the worst entry (O(1) lookup,
//     O(log K) replace). This is the default.
//   - [SortedList]: a slice ordered by fitness (O(K) insert).
//
// Both order entries by (fitness, index), so they agree on which entry is the
// worst even when several share the worst fitness, and they always retain the
// same membership for the same input sequence.
//
// [Store.Snapshot] reports membership in arrival order, not by score.
package ranking

import (
	"errors"
	"fmt"
	"slices"
)

// Strategy names accepted by New.
const (
	StrategyHeap = "heap"
	StrategyList = "list"
)

// Strategies lists every strategy name New accepts.
var Strategies = []string{StrategyHeap, StrategyList}

// ErrUnknownStrategy is returned by New for an unrecognized strategy name.
var ErrUnknownStrategy = errors.New("ranking: unknown strategy")

// Entry is one scored submission.
type Entry struct {
	Index   uint64 // arrival order, starting at 0
	Fitness uint64
}

// worse reports whether a ranks below b: higher fitness, or equal fitness and
// later arrival.
func worse(a, b Entry) bool {
	if a.Fitness != b.Fitness {
		return a.Fitness > b.Fitness
	}
	return a.Index > b.Index
}

// Outcome describes what Insert did with an entry.
type Outcome int

const (
	// Discarded means the entry did not rank and the store is unchanged.
	Discarded Outcome = iota
	// Added means the entry filled a free slot.
	Added
	// Replaced means the entry evicted the previous worst.
	Replaced
)

// String returns a lowercase name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Replaced:
		return "replaced"
	default:
		return "discarded"
	}
}

// Change reports the effect of one Insert.
type Change struct {
	Outcome Outcome
	Entry   Entry // the inserted entry
	Evicted Entry // valid only when Outcome == Replaced
}

// Admitted reports whether the entry is now retained.
func (c Change) Admitted() bool { return c.Outcome != Discarded }

// Store is a bounded top-K ranking. Implementations are not safe for
// concurrent use.
type Store interface {
	// Insert offers an entry. Indices must be offered in increasing order.
	Insert(e Entry) Change

	// Snapshot returns the retained indices in ascending index order.
	Snapshot() []uint64

	// Entries returns the retained entries in ascending index order.
	Entries() []Entry

	// Worst returns the retained entry that would be evicted next.
	Worst() (Entry, bool)

	// Len returns the number of retained entries.
	Len() int

	// Cap returns K.
	Cap() int

	// Reset empties the store and keeps its capacity.
	Reset()
}

// New returns a store of capacity k using the named strategy.
// Negative k is treated as 0.
func New(strategy string, k int) (Store, error) {
	switch strategy {
	case StrategyHeap, "":
		return NewHeap(k), nil
	case StrategyList:
		return NewSortedList(k), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func snapshotOf(entries []Entry) []uint64 {
	out := make([]uint64, len(entries))
	for i, e := range entries {
		out[i] = e.Index
	}
	slices.Sort(out)
	return out
}

func entriesOf(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		}
		return 0
	})
	return out
}
