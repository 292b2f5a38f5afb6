package stream

import (
	"bufio"
	"io"
	"strconv"

	"github.com/matzehuels/graphrank/pkg/graph"
)

// Encoder writes protocol input: a header followed by commands. Rows are
// comma separated, one per line, which is the form Decoder reads fastest.
type Encoder struct {
	w   *bufio.Writer
	buf []byte
}

// NewEncoder creates an encoder on w. Call Flush when done.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// WriteHeader writes the "n,k" line.
func (e *Encoder) WriteHeader(n, k int) error {
	e.buf = strconv.AppendInt(e.buf[:0], int64(n), 10)
	e.buf = append(e.buf, ',')
	e.buf = strconv.AppendInt(e.buf, int64(k), 10)
	e.buf = append(e.buf, '\n')
	_, err := e.w.Write(e.buf)
	return err
}

// WriteAddGraph writes an AggiungiGrafo command followed by m's rows.
func (e *Encoder) WriteAddGraph(m *graph.Matrix) error {
	if _, err := e.w.WriteString(TokenAddGraph + "\n"); err != nil {
		return err
	}
	for u := 0; u < m.N(); u++ {
		e.buf = e.buf[:0]
		for v, w := range m.Row(u) {
			if v > 0 {
				e.buf = append(e.buf, ',')
			}
			e.buf = strconv.AppendUint(e.buf, uint64(w), 10)
		}
		e.buf = append(e.buf, '\n')
		if _, err := e.w.Write(e.buf); err != nil {
			return err
		}
	}
	return nil
}

// WriteTopK writes a TopK command.
func (e *Encoder) WriteTopK() error {
	_, err := e.w.WriteString(TokenTopK + "\n")
	return err
}

// Flush writes buffered data to the underlying writer.
func (e *Encoder) Flush() error { return e.w.Flush() }
