// Package pqueue implements an indexable min-priority queue over vertex
// distances.
//
// The queue is an array-backed binary heap paired with a position index that
// maps each vertex to its current heap slot. The index lets [Queue.DecreaseKey]
// find a vertex in O(1) and restore heap order with a single sift-up, which is
// what Dijkstra's algorithm needs on a dense graph.
//
// A Queue is sized once for a fixed vertex count and reused across runs via
// [Queue.Reset]; its backing storage is never shrunk.
//
// Complexity:
//
//   - Insert:      O(log n)
//   - ExtractMin:  O(log n)
//   - DecreaseKey: O(log n)
//   - Contains:    O(1)
//   - Reset:       O(n) to invalidate the position index
package pqueue

import (
	"errors"
	"math"
)

// Sentinel is the distance of a vertex that has not been reached yet. It is
// larger than any path length the engine can produce.
const Sentinel uint64 = math.MaxUint64

// notQueued marks a vertex that is absent from the heap, either because it was
// never inserted or because it has been extracted.
const notQueued = -1

// Sentinel errors returned by queue operations.
var (
	// ErrEmpty is returned by ExtractMin on an empty queue.
	ErrEmpty = errors.New("pqueue: queue is empty")

	// ErrVertexOutOfRange is returned when a vertex is outside [0, capacity).
	ErrVertexOutOfRange = errors.New("pqueue: vertex out of range")

	// ErrDuplicateVertex is returned when inserting a vertex already queued.
	ErrDuplicateVertex = errors.New("pqueue: vertex already queued")

	// ErrNotQueued is returned by DecreaseKey for a vertex not in the queue.
	ErrNotQueued = errors.New("pqueue: vertex not queued")

	// ErrNotDecrease is returned by DecreaseKey when the new distance is not
	// strictly smaller than the current one.
	ErrNotDecrease = errors.New("pqueue: new distance is not smaller")
)

// Entry pairs a vertex with its tentative distance.
type Entry struct {
	Vertex   int
	Distance uint64
}

// Queue is an indexable min-heap keyed by distance.
// It is not safe for concurrent use.
type Queue struct {
	entries []Entry // heap storage; only [0, size) is live
	pos     []int   // vertex → slot in entries, or notQueued
	size    int
}

// New creates a queue able to hold vertices 0..capacity-1.
func New(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	q := &Queue{
		entries: make([]Entry, capacity),
		pos:     make([]int, capacity),
	}
	q.Reset()
	return q
}

// Reset empties the queue while keeping its storage.
func (q *Queue) Reset() {
	q.size = 0
	for i := range q.pos {
		q.pos[i] = notQueued
	}
}

// Len returns the number of queued vertices.
func (q *Queue) Len() int { return q.size }

// Cap returns the number of vertices the queue can index.
func (q *Queue) Cap() int { return len(q.pos) }

// Contains reports whether vertex is currently queued.
func (q *Queue) Contains(vertex int) bool {
	return vertex >= 0 && vertex < len(q.pos) && q.pos[vertex] != notQueued
}

// Distance returns the queued distance of vertex.
func (q *Queue) Distance(vertex int) (uint64, bool) {
	if !q.Contains(vertex) {
		return 0, false
	}
	return q.entries[q.pos[vertex]].Distance, true
}

// Peek returns the minimum entry without removing it.
func (q *Queue) Peek() (Entry, bool) {
	if q.size == 0 {
		return Entry{}, false
	}
	return q.entries[0], true
}

// Insert adds vertex with the given distance.
func (q *Queue) Insert(vertex int, distance uint64) error {
	if vertex < 0 || vertex >= len(q.pos) {
		return ErrVertexOutOfRange
	}
	if q.pos[vertex] != notQueued {
		return ErrDuplicateVertex
	}
	i := q.size
	q.entries[i] = Entry{Vertex: vertex, Distance: distance}
	q.pos[vertex] = i
	q.size++
	q.siftUp(i)
	return nil
}

// ExtractMin removes and returns the entry with the smallest distance. Among
// equal distances the one currently at the root wins.
func (q *Queue) ExtractMin() (Entry, error) {
	if q.size == 0 {
		return Entry{}, ErrEmpty
	}
	root := q.entries[0]
	q.size--
	if q.size > 0 {
		q.entries[0] = q.entries[q.size]
		q.pos[q.entries[0].Vertex] = 0
		q.siftDown(0)
	}
	q.pos[root.Vertex] = notQueued
	return root, nil
}

// DecreaseKey lowers the distance of a queued vertex.
func (q *Queue) DecreaseKey(vertex int, distance uint64) error {
	if vertex < 0 || vertex >= len(q.pos) {
		return ErrVertexOutOfRange
	}
	i := q.pos[vertex]
	if i == notQueued {
		return ErrNotQueued
	}
	if distance >= q.entries[i].Distance {
		return ErrNotDecrease
	}
	q.entries[i].Distance = distance
	q.siftUp(i)
	return nil
}

func (q *Queue) less(i, j int) bool {
	return q.entries[i].Distance < q.entries[j].Distance
}

func (q *Queue) swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
	q.pos[q.entries[i].Vertex] = i
	q.pos[q.entries[j].Vertex] = j
}

func (q *Queue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.less(i, p) {
			return
		}
		q.swap(i, p)
		i = p
	}
}

func (q *Queue) siftDown(i int) {
	n := q.size
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && q.less(r, l) {
			best = r
		}
		if !q.less(best, i) {
			return
		}
		q.swap(i, best)
		i = best
	}
}
