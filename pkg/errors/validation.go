package errors

import (
	"math"
	"strings"
)

// MaxVertices bounds the vertex count accepted in a stream header. A dense
// matrix of this size already needs several hundred megabytes.
const MaxVertices = 1 << 14

// ValidateHeader validates the stream header values.
//
// Validation rules:
//   - Vertex count must be at least 1
//   - Vertex count must not exceed MaxVertices
//   - Ranking capacity must be non-negative (0 disables ranking)
func ValidateHeader(n, k int64) error {
	if n < 1 {
		return New(ErrCodeInvalidHeader, "vertex count must be at least 1, got %d", n)
	}
	if n > MaxVertices {
		return New(ErrCodeInvalidHeader, "vertex count too large (max %d), got %d", MaxVertices, n)
	}
	if k < 0 {
		return New(ErrCodeInvalidHeader, "ranking capacity cannot be negative, got %d", k)
	}
	return nil
}

// ValidateWeight validates a single edge weight read at (row, col).
// Weights must be non-negative and fit in 32 bits.
func ValidateWeight(w int64, row, col int) error {
	if w < 0 {
		return New(ErrCodeInvalidMatrix, "negative weight %d at row %d column %d", w, row, col)
	}
	if w > math.MaxUint32 {
		return New(ErrCodeInvalidMatrix, "weight %d at row %d column %d exceeds %d", w, row, col, uint32(math.MaxUint32))
	}
	return nil
}

// ValidateStrategy validates a ranking strategy name.
func ValidateStrategy(name string, known []string) error {
	if name == "" {
		return New(ErrCodeInvalidStrategy, "strategy cannot be empty")
	}
	for _, k := range known {
		if name == k {
			return nil
		}
	}
	return New(ErrCodeInvalidStrategy, "unknown strategy %q (valid: %s)", name, strings.Join(known, ", "))
}

// ValidateFormat validates an output format name against the allowed set.
func ValidateFormat(format string, known []string) error {
	for _, k := range known {
		if format == k {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unknown format %q (valid: %s)", format, strings.Join(known, ", "))
}
