package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphrank/pkg/cache"
	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/graph"
	"github.com/matzehuels/graphrank/pkg/session"
	"github.com/matzehuels/graphrank/pkg/shortestpath"
	"github.com/matzehuels/graphrank/pkg/stream"
)

// Runner executes protocol streams with an optional fitness cache.
//
// The Runner keeps no per-run state: every call to Run builds a fresh
// session, so one Runner can serve several streams in sequence.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run reads a header and commands from in, writing one line to out per TopK
// query. It returns at end of input, on the first fatal decode error, or
// when ctx is cancelled. Lines written before an error are flushed.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	dec := stream.NewDecoder(in)
	n, k, err := dec.ReadHeader()
	if err != nil {
		return nil, err
	}

	sess, err := session.New(session.Config{
		N:        n,
		K:        k,
		Strategy: opts.Strategy,
		Source:   opts.Source,
		Cache:    r.Cache,
		Keyer:    r.Keyer,
		CacheTTL: opts.CacheTTL,
	})
	if err != nil {
		return nil, err
	}
	logger := r.Logger.With("session", shortID(sess.ID()))
	logger.Debug("stream header", "n", n, "k", k, "strategy", sess.Strategy())

	w := stream.NewWriter(out)
	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = apperrors.Wrap(apperrors.ErrCodeInternal, ferr, "flush output")
		}
	}()

	unknown := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cmd, err := dec.NextCommand()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch cmd.Kind {
		case stream.CmdAddGraph:
			m := sess.Matrix()
			if err := dec.ReadMatrix(m); err != nil {
				return nil, fmt.Errorf("graph %d: %w", sess.Stats().Submissions, err)
			}
			sub, err := sess.AddGraph(ctx, m)
			if err != nil {
				return nil, err
			}
			logger.Debug("graph ranked",
				"index", sub.Index,
				"fitness", sub.Fitness,
				"outcome", sub.Change.Outcome,
				"cached", sub.Cached)
			if opts.OnSubmission != nil {
				opts.OnSubmission(sub)
			}
		case stream.CmdTopK:
			if err := w.WriteTopK(sess.TopK(ctx)); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "write ranking")
			}
			if err := w.Flush(); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "flush ranking")
			}
		default:
			unknown++
			logger.Debug("skipping unknown command", "token", cmd.Token)
		}
	}

	entries := sess.Entries()
	top := make([]uint64, len(entries))
	for i, e := range entries {
		top[i] = e.Index
	}
	return &Result{
		SessionID: sess.ID(),
		N:         n,
		K:         k,
		Strategy:  sess.Strategy(),
		Stats:     sess.Stats(),
		TopK:      top,
		Entries:   entries,
		Unknown:   unknown,
		Duration:  time.Since(start),
	}, nil
}

// Evaluation is the full outcome of evaluating one matrix.
type Evaluation struct {
	Matrix *graph.Matrix
	Result shortestpath.Result
}

// Evaluate runs Dijkstra on m with predecessor tracking. The cache is not
// consulted because only fitness values are cached.
func (r *Runner) Evaluate(ctx context.Context, m *graph.Matrix, opts Options) (*Evaluation, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	engine, err := shortestpath.New(m.N(), shortestpath.WithSource(opts.Source), shortestpath.WithTree())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "create engine")
	}

	start := time.Now()
	fitness, err := engine.Evaluate(m)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidMatrix, err, "evaluate")
	}
	res := engine.Result().Clone()
	r.Logger.Debug("evaluated matrix",
		"n", m.N(),
		"fitness", fitness,
		"reached", res.Reached,
		"duration", time.Since(start))

	return &Evaluation{Matrix: m, Result: res}, nil
}

// LoadMatrix reads a single matrix from path. Files ending in .json use the
// JSON document format; anything else is a vertex count followed by n rows in
// the protocol's number syntax.
func LoadMatrix(path string) (*graph.Matrix, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		m, err := graph.ReadMatrixFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
			}
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidMatrix, err, "read %s", path)
		}
		return m, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadMatrix(f)
}

// ReadMatrix reads a vertex count followed by n rows from r.
func ReadMatrix(r io.Reader) (*graph.Matrix, error) {
	dec := stream.NewDecoder(r)
	n, err := dec.ReadVertexCount()
	if err != nil {
		return nil, err
	}
	m := graph.NewMatrix(n)
	if err := dec.ReadMatrix(m); err != nil {
		return nil, err
	}
	return m, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
