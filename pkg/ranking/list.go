package ranking

import "slices"

// SortedList keeps entries ordered best-first by (fitness, index). The last
// element is the worst retained entry.
type SortedList struct {
	items []Entry
	k     int
}

// NewSortedList creates a list-backed store of capacity k.
func NewSortedList(k int) *SortedList {
	if k < 0 {
		k = 0
	}
	return &SortedList{items: make([]Entry, 0, k), k: k}
}

// Insert places e in order. When the list is full, e is admitted only if its
// fitness is strictly smaller than the last element's, which is then dropped.
func (l *SortedList) Insert(e Entry) Change {
	if l.k == 0 {
		return Change{Outcome: Discarded, Entry: e}
	}
	change := Change{Outcome: Added, Entry: e}
	if len(l.items) == l.k {
		last := l.items[len(l.items)-1]
		if e.Fitness >= last.Fitness {
			return Change{Outcome: Discarded, Entry: e}
		}
		l.items = l.items[:len(l.items)-1]
		change = Change{Outcome: Replaced, Entry: e, Evicted: last}
	}
	i, _ := slices.BinarySearchFunc(l.items, e, compareBest)
	l.items = slices.Insert(l.items, i, e)
	return change
}

// Snapshot returns the retained indices in arrival order.
func (l *SortedList) Snapshot() []uint64 { return snapshotOf(l.items) }

// Entries returns the retained entries in arrival order.
func (l *SortedList) Entries() []Entry { return entriesOf(l.items) }

// Ranked returns the retained entries best-first.
func (l *SortedList) Ranked() []Entry { return slices.Clone(l.items) }

// Worst returns the last element.
func (l *SortedList) Worst() (Entry, bool) {
	if len(l.items) == 0 {
		return Entry{}, false
	}
	return l.items[len(l.items)-1], true
}

// Len returns the number of retained entries.
func (l *SortedList) Len() int { return len(l.items) }

// Cap returns K.
func (l *SortedList) Cap() int { return l.k }

// Reset empties the list.
func (l *SortedList) Reset() { l.items = l.items[:0] }

// compareBest orders entries best-first: ascending fitness, then ascending index.
func compareBest(a, b Entry) int {
	switch {
	case worse(b, a):
		return -1
	case worse(a, b):
		return 1
	}
	return 0
}

var _ Store = (*SortedList)(nil)
