// Package observability provides hooks for metrics, tracing, and logging.
//
// Evaluation, ranking, and cache code call into a small set of hook
// interfaces. The defaults do nothing; a binary registers real
// implementations at startup to export counters or write debug logs without
// the core packages importing any backend.
//
// # Usage
//
// Register hooks once, before the first submission:
//
//	func main() {
//	    observability.SetEvalHooks(&myEvalHooks{})
//	    observability.SetRankingHooks(&myRankingHooks{})
//	    // ... run application
//	}
//
// Libraries emit events through the accessors:
//
//	start := time.Now()
//	fitness, err := engine.Evaluate(m)
//	observability.Eval().OnEvaluate(ctx, index, m.N(), fitness, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Evaluation Hooks
// =============================================================================

// EvalHooks receives events from the shortest-path engine.
type EvalHooks interface {
	// OnEvaluate records one fitness computation. cached is true when the
	// value came from the fitness cache instead of Dijkstra.
	OnEvaluate(ctx context.Context, index uint64, n int, fitness uint64, cached bool, duration time.Duration, err error)
}

// =============================================================================
// Ranking Hooks
// =============================================================================

// RankingHooks receives events from the top-K store.
type RankingHooks interface {
	// OnAdmit records a graph entering the ranking.
	OnAdmit(ctx context.Context, index, fitness uint64)

	// OnEvict records a graph pushed out by a better one.
	OnEvict(ctx context.Context, index, fitness uint64)

	// OnDiscard records a graph that did not qualify.
	OnDiscard(ctx context.Context, index, fitness uint64)

	// OnQuery records a TopK request and the number of indices returned.
	OnQuery(ctx context.Context, size int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEvalHooks is a no-op implementation of EvalHooks.
type NoopEvalHooks struct{}

func (NoopEvalHooks) OnEvaluate(context.Context, uint64, int, uint64, bool, time.Duration, error) {}

// NoopRankingHooks is a no-op implementation of RankingHooks.
type NoopRankingHooks struct{}

func (NoopRankingHooks) OnAdmit(context.Context, uint64, uint64)   {}
func (NoopRankingHooks) OnEvict(context.Context, uint64, uint64)   {}
func (NoopRankingHooks) OnDiscard(context.Context, uint64, uint64) {}
func (NoopRankingHooks) OnQuery(context.Context, int)              {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	evalHooks    EvalHooks    = NoopEvalHooks{}
	rankingHooks RankingHooks = NoopRankingHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetEvalHooks registers custom evaluation hooks. Nil is ignored.
func SetEvalHooks(h EvalHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		evalHooks = h
	}
}

// SetRankingHooks registers custom ranking hooks. Nil is ignored.
func SetRankingHooks(h RankingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rankingHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Eval returns the registered evaluation hooks.
func Eval() EvalHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return evalHooks
}

// Ranking returns the registered ranking hooks.
func Ranking() RankingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rankingHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	evalHooks = NoopEvalHooks{}
	rankingHooks = NoopRankingHooks{}
	cacheHooks = NoopCacheHooks{}
}
