// Package graph provides the dense weighted matrix used for every submission.
//
// A [Matrix] is an n×n grid of non-negative 32-bit weights stored row-major in
// a single backing slice. Entry (u, v) is the weight of the directed edge from
// vertex u to vertex v. A weight of 0 means there is no edge, so zero-weight
// edges cannot be expressed.
//
// # Reuse
//
// The vertex count is fixed for a whole stream, so drivers allocate one
// Matrix up front and overwrite it for each submission:
//
//	m := graph.NewMatrix(n)
//	for each submission {
//	    m.Reset()
//	    // fill m with Set ...
//	}
//
// # Serialization
//
// Matrices also have a small JSON form used by the eval command and tests:
//
//	{
//	  "n": 3,
//	  "rows": [[0, 1, 1], [1, 0, 1], [1, 1, 0]]
//	}
//
// Common operations:
//
//	m, _ := graph.ReadMatrixFile("g.json")  // File → Matrix
//	graph.WriteMatrixFile(m, "out.json")     // Matrix → File
//	data, _ := graph.MarshalMatrix(m)        // Matrix → []byte
//
// [Matrix.Bytes] yields a compact binary encoding used for content hashing.
package graph
