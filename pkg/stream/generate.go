package stream

import (
	"io"
	"math/rand/v2"

	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/graph"
)

// GenerateOptions controls random stream generation.
type GenerateOptions struct {
	N          int     // vertices per graph
	K          int     // ranking capacity written to the header
	Graphs     int     // number of AggiungiGrafo commands
	Density    float64 // probability that an off-diagonal edge exists
	MaxWeight  uint32  // weights are drawn from [1, MaxWeight]
	QueryEvery int     // emit TopK after every QueryEvery graphs; 0 means only at the end
	Seed       uint64
}

var defaultGenerate = GenerateOptions{
	N:         5,
	K:         3,
	Graphs:    10,
	Density:   0.4,
	MaxWeight: 100,
}

// DefaultGenerateOptions returns a small, sparse configuration.
func DefaultGenerateOptions() GenerateOptions { return defaultGenerate }

// Generate writes a random but reproducible stream to w. The same options
// and seed always produce the same bytes. A TopK command always ends the
// stream.
func Generate(w io.Writer, opts GenerateOptions) error {
	if err := apperrors.ValidateHeader(int64(opts.N), int64(opts.K)); err != nil {
		return err
	}
	if opts.Graphs < 0 || opts.QueryEvery < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "graph and query counts cannot be negative")
	}
	if opts.MaxWeight == 0 {
		opts.MaxWeight = defaultGenerate.MaxWeight
	}
	density := max(0, min(opts.Density, 1))

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	enc := NewEncoder(w)
	if err := enc.WriteHeader(opts.N, opts.K); err != nil {
		return err
	}

	m := graph.NewMatrix(opts.N)
	for i := 0; i < opts.Graphs; i++ {
		fillRandom(m, rng, density, opts.MaxWeight)
		if err := enc.WriteAddGraph(m); err != nil {
			return err
		}
		if opts.QueryEvery > 0 && (i+1)%opts.QueryEvery == 0 && i+1 < opts.Graphs {
			if err := enc.WriteTopK(); err != nil {
				return err
			}
		}
	}
	if err := enc.WriteTopK(); err != nil {
		return err
	}
	return enc.Flush()
}

// fillRandom overwrites m with a random graph. Self-loops are never drawn
// because they cannot shorten any path.
func fillRandom(m *graph.Matrix, rng *rand.Rand, density float64, maxWeight uint32) {
	m.Reset()
	n := m.N()
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u == v || rng.Float64() >= density {
				continue
			}
			m.Set(u, v, 1+rng.Uint32N(maxWeight))
		}
	}
}
