// Package cache memoizes fitness values keyed by matrix content.
//
// Evaluating a graph is a pure function of its matrix and source vertex, so a
// repeated submission can skip Dijkstra entirely. The package provides three
// [Cache] backends:
//
//   - [NullCache]: never stores anything (the default; caching disabled)
//   - [MemoryCache]: bounded in-process LRU, lives as long as the session
//   - [FileCache]: JSON entry files under a directory, shared between runs
//
// Keys come from a [Keyer] so callers never assemble them by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.FitnessKey(cache.FitnessKeyOpts{
//	    N:          m.N(),
//	    Source:     0,
//	    MatrixHash: cache.Hash(m.Bytes()),
//	})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    fitness, err := cache.DecodeFitness(data)
//	    ...
//	}
//
// Only fitness values are cached. Ranking state is never written anywhere.
package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"time"
)

// ErrCorruptEntry is returned when cached bytes do not decode to a fitness.
var ErrCorruptEntry = errors.New("cache: corrupt entry")

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// FitnessKeyOpts identifies one evaluation.
type FitnessKeyOpts struct {
	N          int    `json:"n"`
	Source     int    `json:"source"`
	MatrixHash string `json:"matrix"`
}

// Keyer generates cache keys.
type Keyer interface {
	// FitnessKey returns the key for the fitness of a matrix.
	FitnessKey(opts FitnessKeyOpts) string
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FitnessKey implements Keyer.
func (DefaultKeyer) FitnessKey(opts FitnessKeyOpts) string {
	return hashKey("fitness", opts)
}

// ScopedKeyer wraps a Keyer with a prefix so several configurations can share
// one cache directory without colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// If inner is nil, a DefaultKeyer is used.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FitnessKey implements Keyer.
func (k *ScopedKeyer) FitnessKey(opts FitnessKeyOpts) string {
	return k.prefix + k.inner.FitnessKey(opts)
}

// EncodeFitness serializes a fitness value for storage.
func EncodeFitness(f uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, f)
}

// DecodeFitness parses bytes written by EncodeFitness.
func DecodeFitness(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, ErrCorruptEntry
	}
	return binary.LittleEndian.Uint64(data), nil
}
