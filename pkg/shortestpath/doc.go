// Package shortestpath scores dense weighted graphs by single-source shortest
// paths.
//
// An [Engine] runs Dijkstra's algorithm from a fixed source vertex (0 by
// default) over a [graph.Matrix] and returns the graph's fitness: the sum of
// the shortest distances from the source to every vertex it can reach.
//
// Rules:
//
//   - A weight of 0 means "no edge"; zero-cost edges cannot be expressed.
//   - Unreachable vertices contribute nothing to the fitness.
//   - The source's own distance (always 0) is not part of the sum.
//   - A source with no outgoing edges therefore scores 0.
//
// The fitness depends only on path lengths, so it does not change with the
// order in which equal-distance vertices leave the priority queue.
//
// Complexity:
//
//   - Time:  O(n² log n): every vertex is extracted once and each of its n
//     row entries may trigger an O(log n) decrease-key.
//   - Space: O(n) of per-engine storage, reused across evaluations.
//
// Example:
//
//	eng, err := shortestpath.New(n)
//	if err != nil {
//	    return err
//	}
//	fitness, err := eng.Evaluate(m)
package shortestpath
