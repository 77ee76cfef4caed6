// Package store implements the persistent combat-plan cache of
// SPEC_FULL.md's "New components" section: a small, optional,
// SQLite-backed store keyed by Zobrist hash that lets the combat solver
// and MCTS driver skip re-solving a board they have already seen.
//
// It generalises the teacher's cache package (an in-memory
// map[string]interface{} behind a single mutex, cache/cache.go) into a
// persistent keyed store the same way the teacher's
// endgame/negamax/transposition_table.go generalises a plain map into a
// fixed-size table: entries are sized against live system memory
// (pbnjay/memory) rather than left unbounded, and evicted oldest-first
// once the budget is exceeded.
package store

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/domino14/spooky/combat"
)

// bytesPerEntry is a rough estimate of one row's on-disk footprint
// (a handful of attack actions plus SQLite's own per-row overhead),
// used only to translate a memory fraction into a row-count budget --
// the same role entrySize plays in the teacher's transposition table
// sizing math.
const bytesPerEntry = 512

// minEntries is the floor below which a cache isn't worth running: the
// teacher's transposition table imposes an analogous floor (2^24
// elements) so its hash-truncation scheme stays valid; here the floor
// just keeps a tiny fractionOfMemory from producing a cache that thrashes
// on its first few dozen boards.
const minEntries = 1024

// PlanCache is a SQLite-backed cache of combat.Plan results, keyed by the
// Zobrist hash of the board+side that produced them (zobrist.HashBoard).
// It is safe for concurrent use; database/sql pools its own connections.
type PlanCache struct {
	db         *sql.DB
	maxEntries int64
	seq        atomic.Int64
	logger     zerolog.Logger
}

// Open creates or attaches to a plan cache at path (":memory:" for a
// purely in-process cache, useful in tests) and sizes its eviction
// threshold as fractionOfMemory of total system RAM.
func Open(path string, fractionOfMemory float64, logger zerolog.Logger) (*PlanCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: pinging %s: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS plans (
			hash  INTEGER PRIMARY KEY,
			plan  BLOB    NOT NULL,
			seq   INTEGER NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS plans_seq_idx ON plans(seq)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating index: %w", err)
	}

	totalMem := memory.TotalMemory()
	maxEntries := int64(fractionOfMemory * float64(totalMem) / bytesPerEntry)
	if maxEntries < minEntries {
		maxEntries = minEntries
	}

	c := &PlanCache{db: db, maxEntries: maxEntries, logger: logger}

	var maxSeq sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(seq) FROM plans`).Scan(&maxSeq); err == nil && maxSeq.Valid {
		c.seq.Store(maxSeq.Int64)
	}

	logger.Info().
		Str("path", path).
		Int64("max-entries", maxEntries).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("plan-cache-opened")

	return c, nil
}

// Close releases the underlying database handle.
func (c *PlanCache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached plan for hash, if any. A miss (including any
// storage error, which is logged but not otherwise surfaced -- the cache
// is a pure optimization, and callers always have combat.Solve as a
// fallback) reports ok=false.
func (c *PlanCache) Lookup(hash uint64) (*combat.Plan, bool) {
	var blob []byte
	err := c.db.QueryRow(`SELECT plan FROM plans WHERE hash = ?`, int64(hash)).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("plan-cache-lookup-failed")
		return nil, false
	}
	plan, err := decodePlan(blob)
	if err != nil {
		c.logger.Warn().Err(err).Msg("plan-cache-decode-failed")
		return nil, false
	}
	return plan, true
}

// Store records plan under hash, overwriting any prior entry, and
// occasionally prunes the table back down to maxEntries rows -- an
// insertion-order approximation of LRU (evicting the oldest inserts
// first, not the least-recently-looked-up), the same tradeoff the
// teacher's transposition table makes by unconditionally overwriting
// slots rather than tracking per-entry access recency.
func (c *PlanCache) Store(hash uint64, plan *combat.Plan) {
	blob, err := encodePlan(plan)
	if err != nil {
		c.logger.Warn().Err(err).Msg("plan-cache-encode-failed")
		return
	}
	seq := c.seq.Add(1)
	if _, err := c.db.Exec(
		`INSERT OR REPLACE INTO plans (hash, plan, seq) VALUES (?, ?, ?)`,
		int64(hash), blob, seq,
	); err != nil {
		c.logger.Warn().Err(err).Msg("plan-cache-store-failed")
		return
	}
	if seq%int64(evictCheckInterval) == 0 {
		c.evict()
	}
}

// evictCheckInterval bounds how often Store pays for the eviction
// DELETE, trading a temporarily oversized table for far fewer full-table
// scans on the hot path.
const evictCheckInterval = 256

func (c *PlanCache) evict() {
	res, err := c.db.Exec(
		`DELETE FROM plans WHERE hash NOT IN (SELECT hash FROM plans ORDER BY seq DESC LIMIT ?)`,
		c.maxEntries,
	)
	if err != nil {
		c.logger.Warn().Err(err).Msg("plan-cache-evict-failed")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		c.logger.Debug().Int64("evicted", n).Msg("plan-cache-evicted")
	}
}

func encodePlan(plan *combat.Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(plan); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodePlan(blob []byte) (*combat.Plan, error) {
	var plan combat.Plan
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
