package store

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/domino14/spooky/game"
)

// PositionCache interns decoded FEN positions in memory, keyed by a fast
// xxhash of the FEN string rather than the string itself -- the
// "fallback fast hash for FEN-string interning" role SPEC_FULL.md
// assigns xxhash, distinct from the Zobrist hash the persistent
// PlanCache uses to key combat plans. It exists so a UMI session that
// keeps resending the same "position fen ..." line (a GUI re-asserting
// the current position, or a script replaying a fixed opening) skips
// fen.Decode's parsing work on every repeat. Unlike PlanCache, this
// cache is purely in-process and unbounded-but-small: a session only
// ever revisits a handful of distinct opening positions in practice, so
// it carries none of the SQLite persistence or eviction machinery.
type PositionCache struct {
	mu    sync.Mutex
	byKey map[uint64]*game.State
}

// NewPositionCache returns an empty cache.
func NewPositionCache() *PositionCache {
	return &PositionCache{byKey: map[uint64]*game.State{}}
}

// Get returns the previously interned decode of fenStr, if any.
func (c *PositionCache) Get(fenStr string) (*game.State, bool) {
	key := xxhash.Sum64String(fenStr)
	c.mu.Lock()
	defer c.mu.Unlock()
	gs, ok := c.byKey[key]
	return gs, ok
}

// Put records gs as the decode of fenStr.
func (c *PositionCache) Put(fenStr string, gs *game.State) {
	key := xxhash.Sum64String(fenStr)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[key] = gs
}
