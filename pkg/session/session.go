// Package session holds the state of one ranking run.
//
// A [Session] owns everything that used to be process-wide in a stream
// driver: the matrix buffer reused across submissions, the shortest-path
// engine with its working arrays, the top-K store, and the submission
// counter. Nothing is shared between sessions, so tests and tools can run
// several side by side.
//
// # Usage
//
//	sess, err := session.New(session.Config{N: 3, K: 2})
//	if err != nil {
//	    return err
//	}
//	m := sess.Matrix() // zeroed buffer, fill it row by row
//	m.Set(0, 1, 2)
//	sub, err := sess.AddGraph(ctx, m)
//	...
//	top := sess.TopK(ctx) // ascending submission indices
//
// Submission indices start at 0 and increase by one per successful AddGraph.
// A Session is not safe for concurrent use.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/graphrank/pkg/cache"
	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/graph"
	"github.com/matzehuels/graphrank/pkg/observability"
	"github.com/matzehuels/graphrank/pkg/ranking"
	"github.com/matzehuels/graphrank/pkg/shortestpath"
)

// cacheKeyType labels fitness entries in cache hook events.
const cacheKeyType = "fitness"

// Config configures a Session.
type Config struct {
	// N is the vertex count of every submitted matrix.
	N int
	// K is the ranking capacity. Zero disables ranking.
	K int
	// Strategy selects the ranking store ("heap" or "list"). Empty means heap.
	Strategy string
	// Source is the vertex distances are measured from.
	Source int
	// RecordTree keeps shortest-path predecessors for each evaluation.
	RecordTree bool

	// Cache memoizes fitness by matrix content. Nil disables caching.
	Cache cache.Cache
	// Keyer builds cache keys. Nil uses the default keyer.
	Keyer cache.Keyer
	// CacheTTL is the lifetime of cached entries; 0 means no expiry.
	CacheTTL time.Duration
}

// Submission describes what happened to one graph.
type Submission struct {
	Index   uint64
	Fitness uint64
	Cached  bool           // fitness came from the cache
	Change  ranking.Change // effect on the ranking
	Elapsed time.Duration
}

// Stats counts session activity.
type Stats struct {
	Submissions int
	Evaluated   int
	CacheHits   int
	Admitted    int
	Evicted     int
	Discarded   int
	Queries     int
}

// Session is one ranking run.
type Session struct {
	id       string
	cfg      Config
	engine   *shortestpath.Engine
	store    ranking.Store
	buf      *graph.Matrix
	next     uint64
	stats    Stats
	started  time.Time
	useCache bool
}

// New creates a session. It fails with a coded error when the header values
// are out of range or the strategy is unknown.
func New(cfg Config) (*Session, error) {
	if err := apperrors.ValidateHeader(int64(cfg.N), int64(cfg.K)); err != nil {
		return nil, err
	}
	if cfg.Strategy == "" {
		cfg.Strategy = ranking.StrategyHeap
	}
	if err := apperrors.ValidateStrategy(cfg.Strategy, ranking.Strategies); err != nil {
		return nil, err
	}

	opts := []shortestpath.Option{shortestpath.WithSource(cfg.Source)}
	if cfg.RecordTree {
		opts = append(opts, shortestpath.WithTree())
	}
	engine, err := shortestpath.New(cfg.N, opts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "create engine")
	}
	store, err := ranking.New(cfg.Strategy, cfg.K)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidStrategy, err, "create ranking")
	}

	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		engine:  engine,
		store:   store,
		buf:     graph.NewMatrix(cfg.N),
		started: time.Now(),
	}
	if cfg.Cache != nil {
		if _, null := cfg.Cache.(cache.NullCache); !null {
			s.useCache = true
		}
		if s.cfg.Keyer == nil {
			s.cfg.Keyer = cache.NewDefaultKeyer()
		}
	}
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// N returns the vertex count.
func (s *Session) N() int { return s.cfg.N }

// K returns the ranking capacity.
func (s *Session) K() int { return s.cfg.K }

// Strategy returns the ranking strategy name.
func (s *Session) Strategy() string { return s.cfg.Strategy }

// Matrix returns the session's reusable matrix buffer, zeroed. The buffer is
// overwritten by the next call, so callers must not keep it across submissions.
func (s *Session) Matrix() *graph.Matrix {
	s.buf.Reset()
	return s.buf
}

// AddGraph evaluates m, inserts (nextIndex, fitness) into the ranking and
// advances the index. A failed evaluation consumes no index and leaves the
// ranking untouched.
func (s *Session) AddGraph(ctx context.Context, m *graph.Matrix) (Submission, error) {
	start := time.Now()
	index := s.next

	fitness, cached, err := s.fitness(ctx, m)
	observability.Eval().OnEvaluate(ctx, index, s.cfg.N, fitness, cached, time.Since(start), err)
	if err != nil {
		return Submission{}, apperrors.Wrap(apperrors.ErrCodeInvalidMatrix, err, "evaluate graph %d", index)
	}

	change := s.store.Insert(ranking.Entry{Index: index, Fitness: fitness})
	s.next++
	s.record(ctx, change)

	return Submission{
		Index:   index,
		Fitness: fitness,
		Cached:  cached,
		Change:  change,
		Elapsed: time.Since(start),
	}, nil
}

// TopK returns the retained submission indices in ascending order. Two calls
// with no AddGraph in between return equal slices.
func (s *Session) TopK(ctx context.Context) []uint64 {
	top := s.store.Snapshot()
	s.stats.Queries++
	observability.Ranking().OnQuery(ctx, len(top))
	return top
}

// Entries returns the retained entries with their fitness, by index.
func (s *Session) Entries() []ranking.Entry { return s.store.Entries() }

// LastResult returns the engine state of the most recent evaluation. It is
// stale when the last submission was served from the cache.
func (s *Session) LastResult() shortestpath.Result { return s.engine.Result() }

// Stats returns a copy of the activity counters.
func (s *Session) Stats() Stats { return s.stats }

// Elapsed returns the time since the session was created.
func (s *Session) Elapsed() time.Duration { return time.Since(s.started) }

// Close releases the cache, if any.
func (s *Session) Close() error {
	if s.cfg.Cache == nil {
		return nil
	}
	return s.cfg.Cache.Close()
}

// fitness consults the cache before running the engine.
func (s *Session) fitness(ctx context.Context, m *graph.Matrix) (uint64, bool, error) {
	if !s.useCache {
		f, err := s.evaluate(m)
		return f, false, err
	}
	if m == nil {
		return 0, false, shortestpath.ErrNilMatrix
	}

	key := s.cfg.Keyer.FitnessKey(cache.FitnessKeyOpts{
		N:          m.N(),
		Source:     s.cfg.Source,
		MatrixHash: cache.Hash(m.Bytes()),
	})
	if data, hit, err := s.cfg.Cache.Get(ctx, key); err == nil && hit {
		if f, err := cache.DecodeFitness(data); err == nil {
			s.stats.CacheHits++
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return f, true, nil
		}
		_ = s.cfg.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	f, err := s.evaluate(m)
	if err != nil {
		return 0, false, err
	}
	data := cache.EncodeFitness(f)
	if err := s.cfg.Cache.Set(ctx, key, data, s.cfg.CacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
	return f, false, nil
}

func (s *Session) evaluate(m *graph.Matrix) (uint64, error) {
	f, err := s.engine.Evaluate(m)
	if err != nil {
		return 0, fmt.Errorf("shortest paths: %w", err)
	}
	s.stats.Evaluated++
	return f, nil
}

func (s *Session) record(ctx context.Context, c ranking.Change) {
	s.stats.Submissions++
	hooks := observability.Ranking()
	switch c.Outcome {
	case ranking.Added:
		s.stats.Admitted++
		hooks.OnAdmit(ctx, c.Entry.Index, c.Entry.Fitness)
	case ranking.Replaced:
		s.stats.Admitted++
		s.stats.Evicted++
		hooks.OnEvict(ctx, c.Evicted.Index, c.Evicted.Fitness)
		hooks.OnAdmit(ctx, c.Entry.Index, c.Entry.Fitness)
	default:
		s.stats.Discarded++
		hooks.OnDiscard(ctx, c.Entry.Index, c.Entry.Fitness)
	}
}
