// Package stream reads and writes the line-oriented ranking protocol.
//
// An input stream starts with a header of two integers, the vertex count n
// and the ranking capacity K, followed by commands:
//
//	3,2
//	AggiungiGrafo
//	0,2,0
//	0,0,0
//	0,0,0
//	TopK
//
// Numbers may be separated by commas, spaces, tabs or newlines in any mix.
// `AggiungiGrafo` (alias `AddGraph`) is followed by n*n weights in row-major
// order. `TopK` asks for the current ranking. Any other word is reported as
// [CmdUnknown] so the caller can skip it. Words longer than 4096 bytes are
// cut to their first 4096 bytes and the rest is dropped, so an oversized
// unknown word is still just an unknown command.
package stream

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"unicode/utf8"

	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/graph"
)

// Command names accepted on the wire.
const (
	TokenAddGraph      = "AggiungiGrafo"
	TokenAddGraphAlias = "AddGraph"
	TokenTopK          = "TopK"
)

// maxToken bounds a single token. Longer runs are truncated rather than
// buffered without limit.
const maxToken = 4096

// Kind identifies a command.
type Kind int

const (
	CmdUnknown Kind = iota
	CmdAddGraph
	CmdTopK
)

// String returns the canonical command name.
func (k Kind) String() string {
	switch k {
	case CmdAddGraph:
		return TokenAddGraph
	case CmdTopK:
		return TokenTopK
	default:
		return "unknown"
	}
}

// Command is one decoded command word.
type Command struct {
	Kind  Kind
	Token string // raw word as read
}

// Decoder tokenizes a protocol stream.
type Decoder struct {
	sc     *bufio.Scanner
	tokens int
	// skip is set after a truncated token until the rest of that word has
	// been consumed.
	skip bool
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{sc: bufio.NewScanner(r)}
	d.sc.Buffer(make([]byte, 0, 64), maxToken)
	d.sc.Split(d.scanFields)
	return d
}

// ReadHeader reads and validates the `n k` header.
func (d *Decoder) ReadHeader() (n, k int, err error) {
	n64, err := d.number("header vertex count")
	if err != nil {
		return 0, 0, headerErr(err)
	}
	k64, err := d.number("header ranking capacity")
	if err != nil {
		return 0, 0, headerErr(err)
	}
	if err := apperrors.ValidateHeader(n64, k64); err != nil {
		return 0, 0, err
	}
	return int(n64), int(k64), nil
}

// ReadVertexCount reads a lone vertex count, as found at the top of a
// single-matrix file.
func (d *Decoder) ReadVertexCount() (int, error) {
	n64, err := d.number("vertex count")
	if err != nil {
		return 0, headerErr(err)
	}
	if err := apperrors.ValidateHeader(n64, 0); err != nil {
		return 0, err
	}
	return int(n64), nil
}

// NextCommand returns the next command word, or io.EOF when the stream ends.
func (d *Decoder) NextCommand() (Command, error) {
	tok, err := d.next()
	if err != nil {
		return Command{}, err
	}
	switch tok {
	case TokenAddGraph, TokenAddGraphAlias:
		return Command{Kind: CmdAddGraph, Token: tok}, nil
	case TokenTopK:
		return Command{Kind: CmdTopK, Token: tok}, nil
	default:
		return Command{Kind: CmdUnknown, Token: tok}, nil
	}
}

// ReadMatrix fills m with m.N()*m.N() weights. The matrix is reset first, so
// a failed read never leaves a half-updated graph looking complete.
func (d *Decoder) ReadMatrix(m *graph.Matrix) error {
	m.Reset()
	n := m.N()
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			w, err := d.number("matrix weight")
			if err != nil {
				if errors.Is(err, io.EOF) {
					return apperrors.New(apperrors.ErrCodeTruncated, "matrix ended at row %d column %d of %d×%d", u, v, n, n)
				}
				return apperrors.Wrap(apperrors.ErrCodeInvalidMatrix, err, "row %d column %d", u, v)
			}
			if err := apperrors.ValidateWeight(w, u, v); err != nil {
				return err
			}
			m.Set(u, v, uint32(w))
		}
	}
	return nil
}

// Tokens returns the number of tokens consumed so far.
func (d *Decoder) Tokens() int { return d.tokens }

func (d *Decoder) next() (string, error) {
	if !d.sc.Scan() {
		if err := d.sc.Err(); err != nil {
			return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read token %d", d.tokens+1)
		}
		return "", io.EOF
	}
	d.tokens++
	return d.sc.Text(), nil
}

func (d *Decoder) number(what string) (int64, error) {
	tok, err := d.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, &numberError{what: what, token: tok, err: err}
	}
	return v, nil
}

func headerErr(err error) error {
	if errors.Is(err, io.EOF) {
		return apperrors.New(apperrors.ErrCodeTruncated, "stream ended before header")
	}
	if apperrors.GetCode(err) != "" {
		return err
	}
	return apperrors.Wrap(apperrors.ErrCodeInvalidHeader, err, "parse header")
}

type numberError struct {
	what  string
	token string
	err   error
}

func (e *numberError) Error() string {
	return "bad " + e.what + " " + strconv.Quote(e.token)
}

func (e *numberError) Unwrap() error { return e.err }

func isSeparator(r rune) bool {
	switch r {
	case ',', ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// scanFields is a bufio.SplitFunc that yields runs of non-separator runes.
// It mirrors bufio.ScanWords with commas treated as blanks. A run that fills
// the whole buffer is returned as is and its remainder discarded, which keeps
// the scanner from failing with bufio.ErrTooLong.
func (d *Decoder) scanFields(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if d.skip {
		i := 0
		for width := 0; i < len(data); i += width {
			var r rune
			r, width = utf8.DecodeRune(data[i:])
			if isSeparator(r) {
				break
			}
		}
		if i == len(data) {
			if atEOF {
				d.skip = false
			}
			return len(data), nil, nil
		}
		d.skip = false
		if i > 0 {
			return i, nil, nil
		}
	}

	start := 0
	for width := 0; start < len(data); start += width {
		var r rune
		r, width = utf8.DecodeRune(data[start:])
		if !isSeparator(r) {
			break
		}
	}
	for width, i := 0, start; i < len(data); i += width {
		var r rune
		r, width = utf8.DecodeRune(data[i:])
		if isSeparator(r) {
			return i + width, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	if len(data)-start >= maxToken {
		d.skip = true
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
