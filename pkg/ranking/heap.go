package ranking

// Heap is a bounded max-heap keyed on fitness. The root is always the worst
// retained entry.
type Heap struct {
	items []Entry
	k     int
}

// NewHeap creates a heap-backed store of capacity k.
func NewHeap(k int) *Heap {
	if k < 0 {
		k = 0
	}
	return &Heap{items: make([]Entry, 0, k), k: k}
}

// Insert adds e while the heap has room. When full, e replaces the root if
// its fitness is strictly smaller than the root's.
func (h *Heap) Insert(e Entry) Change {
	if h.k == 0 {
		return Change{Outcome: Discarded, Entry: e}
	}
	if len(h.items) < h.k {
		h.items = append(h.items, e)
		h.siftUp(len(h.items) - 1)
		return Change{Outcome: Added, Entry: e}
	}
	root := h.items[0]
	if e.Fitness >= root.Fitness {
		return Change{Outcome: Discarded, Entry: e}
	}
	h.items[0] = e
	h.siftDown(0)
	return Change{Outcome: Replaced, Entry: e, Evicted: root}
}

// Snapshot returns the retained indices in arrival order.
func (h *Heap) Snapshot() []uint64 { return snapshotOf(h.items) }

// Entries returns the retained entries in arrival order.
func (h *Heap) Entries() []Entry { return entriesOf(h.items) }

// Worst returns the root.
func (h *Heap) Worst() (Entry, bool) {
	if len(h.items) == 0 {
		return Entry{}, false
	}
	return h.items[0], true
}

// Len returns the number of retained entries.
func (h *Heap) Len() int { return len(h.items) }

// Cap returns K.
func (h *Heap) Cap() int { return h.k }

// Reset empties the heap.
func (h *Heap) Reset() { h.items = h.items[:0] }

func (h *Heap) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !worse(h.items[i], h.items[p]) {
			return
		}
		h.items[i], h.items[p] = h.items[p], h.items[i]
		i = p
	}
}

func (h *Heap) siftDown(i int) {
	n := len(h.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		top := l
		if r := l + 1; r < n && worse(h.items[r], h.items[l]) {
			top = r
		}
		if !worse(h.items[top], h.items[i]) {
			return
		}
		h.items[i], h.items[top] = h.items[top], h.items[i]
		i = top
	}
}

var _ Store = (*Heap)(nil)
