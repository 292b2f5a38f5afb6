package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphrank/pkg/cache"
	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/graph"
	"github.com/matzehuels/graphrank/pkg/ranking"
	"github.com/matzehuels/graphrank/pkg/session"
)

func mustMatrix(t *testing.T, rows [][]uint32) *graph.Matrix {
	t.Helper()
	m, err := graph.FromRows(rows)
	require.NoError(t, err)
	return m
}

func TestScenario(t *testing.T) {
	for _, strategy := range ranking.Strategies {
		t.Run(strategy, func(t *testing.T) {
			ctx := context.Background()
			s, err := session.New(session.Config{N: 3, K: 2, Strategy: strategy})
			require.NoError(t, err)

			sub, err := s.AddGraph(ctx, mustMatrix(t, [][]uint32{{0, 2, 0}, {0, 0, 0}, {0, 0, 0}}))
			require.NoError(t, err)
			require.Equal(t, uint64(0), sub.Index)
			require.Equal(t, uint64(2), sub.Fitness)

			// 0→1 = 3, 0→2 = 7
			_, err = s.AddGraph(ctx, mustMatrix(t, [][]uint32{{0, 3, 7}, {0, 0, 0}, {0, 0, 0}}))
			require.NoError(t, err)
			require.Equal(t, []uint64{0, 1}, s.TopK(ctx))

			sub, err = s.AddGraph(ctx, mustMatrix(t, [][]uint32{{0, 0, 1}, {0, 0, 0}, {0, 0, 0}}))
			require.NoError(t, err)
			require.Equal(t, uint64(2), sub.Index)
			require.Equal(t, uint64(1), sub.Fitness)
			require.Equal(t, ranking.Replaced, sub.Change.Outcome)
			require.Equal(t, []uint64{0, 2}, s.TopK(ctx))
			require.Equal(t, s.TopK(ctx), s.TopK(ctx))

			st := s.Stats()
			require.Equal(t, 3, st.Submissions)
			require.Equal(t, 1, st.Evicted)
			require.Equal(t, 4, st.Queries)
		})
	}
}

func TestChainFitness(t *testing.T) {
	s, err := session.New(session.Config{N: 3, K: 2})
	require.NoError(t, err)
	sub, err := s.AddGraph(context.Background(), mustMatrix(t, [][]uint32{{0, 1, 0}, {0, 0, 1}, {0, 0, 0}}))
	require.NoError(t, err)
	require.Equal(t, uint64(3), sub.Fitness) // 1 + 2
}

func TestZeroK(t *testing.T) {
	ctx := context.Background()
	s, err := session.New(session.Config{N: 1, K: 0})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.AddGraph(ctx, s.Matrix())
		require.NoError(t, err)
	}
	require.Empty(t, s.TopK(ctx))
	require.Equal(t, 3, s.Stats().Discarded)
}

func TestRejectedMatrixConsumesNoIndex(t *testing.T) {
	ctx := context.Background()
	s, err := session.New(session.Config{N: 2, K: 1})
	require.NoError(t, err)

	_, err = s.AddGraph(ctx, graph.NewMatrix(3))
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidMatrix))

	sub, err := s.AddGraph(ctx, s.Matrix())
	require.NoError(t, err)
	require.Equal(t, uint64(0), sub.Index)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  session.Config
		code apperrors.Code
	}{
		{"zero vertices", session.Config{N: 0, K: 1}, apperrors.ErrCodeInvalidHeader},
		{"negative k", session.Config{N: 2, K: -1}, apperrors.ErrCodeInvalidHeader},
		{"bad strategy", session.Config{N: 2, K: 1, Strategy: "tree"}, apperrors.ErrCodeInvalidStrategy},
		{"bad source", session.Config{N: 2, K: 1, Source: 5}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.New(tt.cfg)
			require.Error(t, err)
			require.Equal(t, tt.code, apperrors.GetCode(err))
		})
	}
}

func TestMatrixBufferIsZeroed(t *testing.T) {
	s, err := session.New(session.Config{N: 2, K: 1})
	require.NoError(t, err)
	m := s.Matrix()
	m.Set(0, 1, 9)
	require.Same(t, m, s.Matrix())
	require.Zero(t, s.Matrix().EdgeCount())
}

func TestCacheServesRepeatedGraph(t *testing.T) {
	ctx := context.Background()
	s, err := session.New(session.Config{N: 3, K: 3, Cache: cache.NewMemoryCache(16)})
	require.NoError(t, err)
	defer s.Close()

	rows := [][]uint32{{0, 2, 5}, {0, 0, 1}, {0, 0, 0}}
	first, err := s.AddGraph(ctx, mustMatrix(t, rows))
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := s.AddGraph(ctx, mustMatrix(t, rows))
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Fitness, second.Fitness)
	require.Equal(t, uint64(1), second.Index)

	st := s.Stats()
	require.Equal(t, 1, st.Evaluated)
	require.Equal(t, 1, st.CacheHits)
}

func TestNullCacheAlwaysEvaluates(t *testing.T) {
	ctx := context.Background()
	s, err := session.New(session.Config{N: 1, K: 1, Cache: cache.NewNullCache()})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		sub, err := s.AddGraph(ctx, s.Matrix())
		require.NoError(t, err)
		require.False(t, sub.Cached)
	}
	require.Equal(t, 2, s.Stats().Evaluated)
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	a, _ := session.New(session.Config{N: 1, K: 1})
	b, _ := session.New(session.Config{N: 1, K: 1})
	require.NotEqual(t, a.ID(), b.ID())

	_, _ = a.AddGraph(ctx, a.Matrix())
	require.Equal(t, []uint64{0}, a.TopK(ctx))
	require.Empty(t, b.TopK(ctx))
}
