package ranking_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/matzehuels/graphrank/pkg/ranking"
)

// StoreSuite runs the ranking contract against one strategy.
type StoreSuite struct {
	suite.Suite
	strategy string
}

func (s *StoreSuite) newStore(k int) ranking.Store {
	st, err := ranking.New(s.strategy, k)
	require.NoError(s.T(), err)
	return st
}

func insertAll(st ranking.Store, fitness ...uint64) []ranking.Change {
	changes := make([]ranking.Change, len(fitness))
	for i, f := range fitness {
		changes[i] = st.Insert(ranking.Entry{Index: uint64(i), Fitness: f})
	}
	return changes
}

// TestScenario replays the three-graph example: fitness 2, 10, then 1.
func (s *StoreSuite) TestScenario() {
	st := s.newStore(2)
	insertAll(st, 2, 10)
	require.Equal(s.T(), []uint64{0, 1}, st.Snapshot())

	c := st.Insert(ranking.Entry{Index: 2, Fitness: 1})
	require.Equal(s.T(), ranking.Replaced, c.Outcome)
	require.Equal(s.T(), ranking.Entry{Index: 1, Fitness: 10}, c.Evicted)
	require.Equal(s.T(), []uint64{0, 2}, st.Snapshot())
}

// TestZeroCapacity verifies K=0 accepts nothing.
func (s *StoreSuite) TestZeroCapacity() {
	st := s.newStore(0)
	for _, c := range insertAll(st, 5, 1, 0) {
		require.False(s.T(), c.Admitted())
	}
	require.Zero(s.T(), st.Len())
	require.Empty(s.T(), st.Snapshot())
	_, ok := st.Worst()
	require.False(s.T(), ok)
}

// TestNegativeCapacityIsZero verifies negative K behaves like 0.
func (s *StoreSuite) TestNegativeCapacityIsZero() {
	st := s.newStore(-3)
	require.Equal(s.T(), 0, st.Cap())
	require.False(s.T(), st.Insert(ranking.Entry{Fitness: 1}).Admitted())
}

// TestFillsBeforeEvicting verifies entries are added unconditionally while
// there is room, regardless of fitness.
func (s *StoreSuite) TestFillsBeforeEvicting() {
	st := s.newStore(3)
	for _, c := range insertAll(st, 100, 50, 200) {
		require.Equal(s.T(), ranking.Added, c.Outcome)
	}
	require.Equal(s.T(), 3, st.Len())
	w, ok := st.Worst()
	require.True(s.T(), ok)
	require.Equal(s.T(), ranking.Entry{Index: 2, Fitness: 200}, w)
}

// TestTieWithWorstIsDiscarded verifies first-seen wins at the boundary.
func (s *StoreSuite) TestTieWithWorstIsDiscarded() {
	st := s.newStore(2)
	insertAll(st, 3, 7)

	c := st.Insert(ranking.Entry{Index: 2, Fitness: 7})
	require.Equal(s.T(), ranking.Discarded, c.Outcome)
	require.Equal(s.T(), []uint64{0, 1}, st.Snapshot())

	c = st.Insert(ranking.Entry{Index: 3, Fitness: 9})
	require.Equal(s.T(), ranking.Discarded, c.Outcome)
	require.Equal(s.T(), []uint64{0, 1}, st.Snapshot())
}

// TestEvictsLatestAmongTiedWorst verifies the newest of several tied worst
// entries is evicted first.
func (s *StoreSuite) TestEvictsLatestAmongTiedWorst() {
	st := s.newStore(3)
	insertAll(st, 5, 5, 5)

	c := st.Insert(ranking.Entry{Index: 3, Fitness: 4})
	require.Equal(s.T(), ranking.Replaced, c.Outcome)
	require.Equal(s.T(), uint64(2), c.Evicted.Index)

	c = st.Insert(ranking.Entry{Index: 4, Fitness: 4})
	require.Equal(s.T(), uint64(1), c.Evicted.Index)
	require.Equal(s.T(), []uint64{0, 3, 4}, st.Snapshot())
}

// TestSnapshotIsStable verifies repeated queries agree and return copies.
func (s *StoreSuite) TestSnapshotIsStable() {
	st := s.newStore(4)
	insertAll(st, 9, 4, 6, 1, 8, 2)

	first := st.Snapshot()
	second := st.Snapshot()
	require.Equal(s.T(), first, second)
	require.True(s.T(), slices.IsSorted(first))

	first[0] = 999
	require.NotEqual(s.T(), first, st.Snapshot(), "Snapshot must return a copy")
}

// TestEntriesInArrivalOrder verifies Entries carries fitness alongside index.
func (s *StoreSuite) TestEntriesInArrivalOrder() {
	st := s.newStore(2)
	insertAll(st, 9, 4, 6)
	require.Equal(s.T(), []ranking.Entry{{Index: 1, Fitness: 4}, {Index: 2, Fitness: 6}}, st.Entries())
}

// TestReset verifies Reset empties the store and keeps K.
func (s *StoreSuite) TestReset() {
	st := s.newStore(2)
	insertAll(st, 1, 2, 3)
	st.Reset()
	require.Zero(s.T(), st.Len())
	require.Equal(s.T(), 2, st.Cap())
	require.Equal(s.T(), ranking.Added, st.Insert(ranking.Entry{Index: 7, Fitness: 50}).Outcome)
}

// TestNeverExceedsCapacity verifies the size bound on random streams.
func (s *StoreSuite) TestNeverExceedsCapacity() {
	rng := rand.New(rand.NewSource(11))
	for k := 0; k < 8; k++ {
		st := s.newStore(k)
		for i := 0; i < 500; i++ {
			st.Insert(ranking.Entry{Index: uint64(i), Fitness: uint64(rng.Intn(20))})
			require.LessOrEqual(s.T(), st.Len(), k)
		}
	}
}

// TestMatchesOracle compares membership with sorting the whole stream by
// (fitness, index) and keeping the first K.
func (s *StoreSuite) TestMatchesOracle() {
	rng := rand.New(rand.NewSource(5))
	for round := 0; round < 200; round++ {
		k := rng.Intn(10)
		n := rng.Intn(60)
		st := s.newStore(k)
		all := make([]ranking.Entry, n)
		for i := range all {
			all[i] = ranking.Entry{Index: uint64(i), Fitness: uint64(rng.Intn(15))}
			st.Insert(all[i])
		}
		require.Equal(s.T(), oracle(all, k), st.Snapshot(), "round %d k=%d n=%d", round, k, n)
	}
}

func oracle(all []ranking.Entry, k int) []uint64 {
	sorted := slices.Clone(all)
	slices.SortStableFunc(sorted, func(a, b ranking.Entry) int {
		switch {
		case a.Fitness < b.Fitness:
			return -1
		case a.Fitness > b.Fitness:
			return 1
		}
		return 0
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	out := make([]uint64, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, e.Index)
	}
	slices.Sort(out)
	return out
}

func TestHeapStore(t *testing.T) {
	suite.Run(t, &StoreSuite{strategy: ranking.StrategyHeap})
}

func TestSortedListStore(t *testing.T) {
	suite.Run(t, &StoreSuite{strategy: ranking.StrategyList})
}

func TestStrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for round := 0; round < 100; round++ {
		k := 1 + rng.Intn(6)
		h := ranking.NewHeap(k)
		l := ranking.NewSortedList(k)
		for i := 0; i < 100; i++ {
			e := ranking.Entry{Index: uint64(i), Fitness: uint64(rng.Intn(8))}
			hc, lc := h.Insert(e), l.Insert(e)
			require.Equal(t, hc, lc, "round %d insert %d", round, i)
			require.Equal(t, h.Snapshot(), l.Snapshot())
		}
	}
}

func TestNew(t *testing.T) {
	st, err := ranking.New("", 3)
	require.NoError(t, err)
	require.IsType(t, &ranking.Heap{}, st, "empty strategy defaults to heap")

	st, err = ranking.New(ranking.StrategyList, 3)
	require.NoError(t, err)
	require.IsType(t, &ranking.SortedList{}, st)

	_, err = ranking.New("tree", 3)
	require.ErrorIs(t, err, ranking.ErrUnknownStrategy)
}

func TestSortedListRanked(t *testing.T) {
	l := ranking.NewSortedList(3)
	insertAll(l, 8, 2, 5, 1)
	require.Equal(t, []ranking.Entry{
		{Index: 3, Fitness: 1},
		{Index: 1, Fitness: 2},
		{Index: 2, Fitness: 5},
	}, l.Ranked())
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "added", ranking.Added.String())
	require.Equal(t, "replaced", ranking.Replaced.String())
	require.Equal(t, "discarded", ranking.Discarded.String())
}
