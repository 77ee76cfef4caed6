package mcts

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/spooky/combat"
	"github.com/domino14/spooky/zobrist"
)

func TestGenerateCandidatesNonEmpty(t *testing.T) {
	is := is.New(t)
	gs := newTestState()
	cands := generateCandidates(gs, 10*time.Millisecond, nil, nil)
	is.True(len(cands) > 0)
	is.True(len(cands) <= maxChildren)
	for _, c := range cands {
		is.Equal(len(c.BoardTurns), len(gs.Boards))
	}
}

// fakePlanCache is an in-memory node.PlanCache stand-in, avoiding a
// dependency on the real SQLite-backed store just to prove the cache is
// consulted and populated.
type fakePlanCache struct {
	stored   int
	lookedUp int
}

func (f *fakePlanCache) Lookup(hash uint64) (*combat.Plan, bool) {
	f.lookedUp++
	return nil, false
}

func (f *fakePlanCache) Store(hash uint64, plan *combat.Plan) {
	f.stored++
}

func TestGenerateCandidatesConsultsPlanCache(t *testing.T) {
	is := is.New(t)
	gs := newTestState()
	z := &zobrist.Table{}
	z.Initialize(len(gs.Boards), gs.Config.Techline.Len())
	cache := &fakePlanCache{}

	cands := generateCandidates(gs, 10*time.Millisecond, cache, z)
	is.True(len(cands) > 0)
	is.True(cache.lookedUp > 0)
}

func TestSpellRequestOptionsDedupsAndCaps(t *testing.T) {
	is := is.New(t)
	opts := spellRequestOptions(0)
	is.Equal(opts, []int{0})

	opts = spellRequestOptions(5)
	seen := map[int]bool{}
	for _, o := range opts {
		is.True(!seen[o])
		seen[o] = true
		is.True(o >= 0 && o <= 5)
	}
}
