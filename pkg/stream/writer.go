package stream

import (
	"bufio"
	"io"
	"strconv"
)

// Writer emits protocol output lines.
type Writer struct {
	w   *bufio.Writer
	buf []byte
}

// NewWriter creates a writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteTopK writes one line of space-separated indices. An empty ranking
// produces an empty line.
func (w *Writer) WriteTopK(indices []uint64) error {
	w.buf = w.buf[:0]
	for i, idx := range indices {
		if i > 0 {
			w.buf = append(w.buf, ' ')
		}
		w.buf = strconv.AppendUint(w.buf, idx, 10)
	}
	w.buf = append(w.buf, '\n')
	_, err := w.w.Write(w.buf)
	return err
}

// Flush writes buffered lines to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }
