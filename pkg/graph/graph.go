package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Matrix Serialization API
// =============================================================================

// document is the JSON wire form of a Matrix.
type document struct {
	N    int        `json:"n"`
	Rows [][]uint32 `json:"rows"`
}

// MarshalMatrix converts a matrix to JSON bytes.
func MarshalMatrix(m *Matrix) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeMatrixTo(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalMatrix decodes JSON bytes into a matrix.
func UnmarshalMatrix(data []byte) (*Matrix, error) {
	return readMatrixFrom(bytes.NewReader(data))
}

// WriteMatrixFile writes a matrix to a JSON file.
// The file is created with 0644 permissions.
func WriteMatrixFile(m *Matrix, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeMatrixTo(m, f)
}

// WriteMatrix writes a matrix as JSON to an io.Writer.
func WriteMatrix(m *Matrix, w io.Writer) error {
	return writeMatrixTo(m, w)
}

// ReadMatrixFile reads a JSON file and returns the decoded matrix.
func ReadMatrixFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readMatrixFrom(f)
}

// ReadMatrix decodes a JSON matrix from an io.Reader.
func ReadMatrix(r io.Reader) (*Matrix, error) {
	return readMatrixFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeMatrixTo(m *Matrix, w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(document{N: m.N(), Rows: m.Rows()}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readMatrixFrom(r io.Reader) (*Matrix, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.N != 0 && doc.N != len(doc.Rows) {
		return nil, fmt.Errorf("%w: n=%d but %d rows", ErrNotSquare, doc.N, len(doc.Rows))
	}
	return FromRows(doc.Rows)
}
