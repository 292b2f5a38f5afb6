package graph

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors for matrix construction.
var (
	// ErrEmptyMatrix is returned when a matrix would have no vertices.
	ErrEmptyMatrix = errors.New("matrix must have at least one vertex")

	// ErrNotSquare is returned when the rows of a matrix differ in length from
	// the row count.
	ErrNotSquare = errors.New("matrix is not square")
)

// =============================================================================
// Matrix - Dense Adjacency Matrix
// =============================================================================

// Matrix is a dense directed adjacency matrix with non-negative weights.
// The zero value is not usable; create one with [NewMatrix] or [FromRows].
type Matrix struct {
	n int
	w []uint32
}

// NewMatrix creates an n×n matrix with no edges.
// It panics if n < 1, matching make's behavior for invalid sizes.
func NewMatrix(n int) *Matrix {
	if n < 1 {
		panic(fmt.Sprintf("graph: invalid vertex count %d", n))
	}
	return &Matrix{n: n, w: make([]uint32, n*n)}
}

// FromRows builds a matrix from a slice of rows. Every row must have exactly
// len(rows) entries.
func FromRows(rows [][]uint32) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, ErrEmptyMatrix
	}
	m := NewMatrix(n)
	for u, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrNotSquare, u, len(row), n)
		}
		copy(m.w[u*n:(u+1)*n], row)
	}
	return m, nil
}

// N returns the number of vertices.
func (m *Matrix) N() int { return m.n }

// At returns the weight of edge u→v, or 0 if there is none.
func (m *Matrix) At(u, v int) uint32 { return m.w[u*m.n+v] }

// Set stores the weight of edge u→v. A weight of 0 removes the edge.
func (m *Matrix) Set(u, v int, w uint32) { m.w[u*m.n+v] = w }

// Row returns the outgoing weights of u. The slice aliases the matrix storage
// and must not be retained across a [Matrix.Reset].
func (m *Matrix) Row(u int) []uint32 { return m.w[u*m.n : (u+1)*m.n] }

// Reset clears every edge while keeping the backing storage.
func (m *Matrix) Reset() { clear(m.w) }

// Rows returns a copy of the matrix as a slice of rows.
func (m *Matrix) Rows() [][]uint32 {
	rows := make([][]uint32, m.n)
	for u := range rows {
		rows[u] = append([]uint32(nil), m.Row(u)...)
	}
	return rows
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, w: append([]uint32(nil), m.w...)}
}

// EdgeCount returns the number of non-zero entries.
func (m *Matrix) EdgeCount() int {
	count := 0
	for _, w := range m.w {
		if w != 0 {
			count++
		}
	}
	return count
}

// OutDegree returns the number of outgoing edges of u.
func (m *Matrix) OutDegree(u int) int {
	count := 0
	for _, w := range m.Row(u) {
		if w != 0 {
			count++
		}
	}
	return count
}

// Bytes returns a binary encoding of m: the vertex count followed by every
// weight, all little-endian. Equal matrices produce equal bytes.
func (m *Matrix) Bytes() []byte {
	buf := make([]byte, 0, 8+4*len(m.w))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.n))
	for _, w := range m.w {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	return buf
}

// Equal reports whether m and o have the same size and weights.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.n != o.n {
		return false
	}
	for i, w := range m.w {
		if o.w[i] != w {
			return false
		}
	}
	return true
}
