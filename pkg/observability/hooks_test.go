package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEvalHooks{}
	e.OnEvaluate(ctx, 0, 3, 2, false, time.Millisecond, nil)

	r := NoopRankingHooks{}
	r.OnAdmit(ctx, 0, 2)
	r.OnEvict(ctx, 1, 10)
	r.OnDiscard(ctx, 2, 10)
	r.OnQuery(ctx, 2)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "fitness")
	c.OnCacheMiss(ctx, "fitness")
	c.OnCacheSet(ctx, "fitness", 8)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Eval().(NoopEvalHooks); !ok {
		t.Error("Eval() should return NoopEvalHooks by default")
	}
	if _, ok := Ranking().(NoopRankingHooks); !ok {
		t.Error("Ranking() should return NoopRankingHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customEval := &testEvalHooks{}
	SetEvalHooks(customEval)
	if Eval() != customEval {
		t.Error("SetEvalHooks should set custom hooks")
	}

	customRanking := &testRankingHooks{}
	SetRankingHooks(customRanking)
	if Ranking() != customRanking {
		t.Error("SetRankingHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Eval().(NoopEvalHooks); !ok {
		t.Error("Reset() should restore NoopEvalHooks")
	}
	if _, ok := Ranking().(NoopRankingHooks); !ok {
		t.Error("Reset() should restore NoopRankingHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testRankingHooks{}
	SetRankingHooks(custom)
	SetRankingHooks(nil)
	if Ranking() != custom {
		t.Error("SetRankingHooks(nil) should not replace existing hooks")
	}
}

func TestHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testRankingHooks{}
	SetRankingHooks(h)

	ctx := context.Background()
	Ranking().OnAdmit(ctx, 0, 2)
	Ranking().OnAdmit(ctx, 1, 10)
	Ranking().OnEvict(ctx, 1, 10)
	Ranking().OnQuery(ctx, 2)

	if h.admits != 2 || h.evicts != 1 || h.queries != 1 {
		t.Errorf("unexpected counts: admits=%d evicts=%d queries=%d", h.admits, h.evicts, h.queries)
	}
}

func TestConcurrentAccess(t *testing.T) {
	Reset()
	defer Reset()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetEvalHooks(&testEvalHooks{})
		}()
		go func() {
			defer wg.Done()
			Eval().OnEvaluate(context.Background(), 0, 1, 0, false, 0, nil)
		}()
	}
	wg.Wait()
}

type testEvalHooks struct{ NoopEvalHooks }

type testRankingHooks struct {
	admits, evicts, discards, queries int
}

func (h *testRankingHooks) OnAdmit(context.Context, uint64, uint64)   { h.admits++ }
func (h *testRankingHooks) OnEvict(context.Context, uint64, uint64)   { h.evicts++ }
func (h *testRankingHooks) OnDiscard(context.Context, uint64, uint64) { h.discards++ }
func (h *testRankingHooks) OnQuery(context.Context, int)              { h.queries++ }

type testCacheHooks struct{ NoopCacheHooks }
