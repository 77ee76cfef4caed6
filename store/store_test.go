package store

import (
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/combat"
	"github.com/domino14/spooky/game"
)

func newTestCache(t *testing.T) *PlanCache {
	t.Helper()
	c, err := Open(":memory:", 0.001, zerolog.Nop())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func samplePlan() *combat.Plan {
	return &combat.Plan{
		Actions: []game.AttackAction{
			{Kind: game.Move, From: board.NewLoc(1, 1), To: board.NewLoc(1, 2)},
			{Kind: game.Attack, Attacker: board.NewLoc(1, 2), Target: board.NewLoc(2, 2)},
		},
		Score: 3.5,
	}
}

func TestLookupMissesOnEmptyCache(t *testing.T) {
	is := is.New(t)
	c := newTestCache(t)

	_, ok := c.Lookup(12345)
	is.True(!ok)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	is := is.New(t)
	c := newTestCache(t)

	want := samplePlan()
	c.Store(42, want)

	got, ok := c.Lookup(42)
	is.True(ok)
	is.Equal(got.Score, want.Score)
	is.Equal(len(got.Actions), len(want.Actions))
	is.Equal(got.Actions[0], want.Actions[0])
	is.Equal(got.Actions[1], want.Actions[1])
}

func TestStoreOverwritesExistingHash(t *testing.T) {
	is := is.New(t)
	c := newTestCache(t)

	c.Store(1, samplePlan())
	replacement := &combat.Plan{Score: 9.0}
	c.Store(1, replacement)

	got, ok := c.Lookup(1)
	is.True(ok)
	is.Equal(got.Score, 9.0)
	is.Equal(len(got.Actions), 0)
}

func TestHighHashValuesRoundTripThroughInt64Cast(t *testing.T) {
	is := is.New(t)
	c := newTestCache(t)

	// hashes above math.MaxInt64 exercise the uint64<->int64 bit-pattern
	// reinterpretation store.go relies on to fit them in a SQLite INTEGER.
	var hash uint64 = 1<<64 - 1
	c.Store(hash, samplePlan())

	got, ok := c.Lookup(hash)
	is.True(ok)
	is.Equal(got.Score, samplePlan().Score)
}

func TestEvictionPrunesOldestEntriesPastCapacity(t *testing.T) {
	is := is.New(t)
	c, err := Open(":memory:", 0, zerolog.Nop())
	is.NoErr(err)
	defer c.Close()
	c.maxEntries = 4

	// evictCheckInterval distinct hashes trigger exactly one eviction
	// pass (at seq == evictCheckInterval), pruning down to maxEntries;
	// the extra 10 inserts land after that pass and aren't pruned again.
	total := uint64(evictCheckInterval) + 10
	for i := uint64(0); i < total; i++ {
		c.Store(i, samplePlan())
	}

	var count int64
	err = c.db.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&count)
	is.NoErr(err)
	is.Equal(count, int64(c.maxEntries)+10)

	// The surviving pre-eviction entries should be the most recently
	// inserted ones, not an arbitrary subset.
	_, ok := c.Lookup(uint64(evictCheckInterval) - 1)
	is.True(ok)
	_, ok = c.Lookup(0)
	is.True(!ok)
}

func TestReopenPreservesSequenceCounter(t *testing.T) {
	is := is.New(t)
	path := t.TempDir() + "/plans.db"

	c, err := Open(path, 0.01, zerolog.Nop())
	is.NoErr(err)
	c.Store(7, samplePlan())
	firstSeq := c.seq.Load()
	is.NoErr(c.Close())

	reopened, err := Open(path, 0.01, zerolog.Nop())
	is.NoErr(err)
	defer reopened.Close()
	is.Equal(reopened.seq.Load(), firstSeq)
}
