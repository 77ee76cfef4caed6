// Package zobrist implements position hashing for Spooky game states,
// used to key the persistent combat-plan cache in the store package.
package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

const bignum = 1<<63 - 2

// moneyBuckets caps how finely money differences are hashed; beyond this
// many gold pieces, positions collapse into the same bucket the way the
// teacher's Zobrist ignores spread beyond a point of diminishing search
// value.
const moneyBuckets = 256

// Table is a Zobrist hash table over Spooky game states: one random key
// per (hex, label, side) occupancy, one per (tech card, side, status),
// one per board index and one per board state, plus side-to-move and money-bucket
// keys. It is built once (Initialize) and shared read-only thereafter,
// exactly as the teacher's Zobrist.posTable is built once per game.
type Table struct {
	pieceTable [2][unit.NumLabels][board.Dim * board.Dim]uint64
	techTable  [2][][3]uint64
	boardSalt  []uint64
	stateTable [4]uint64
	moneyTable [2][moneyBuckets]uint64
	sideToMove uint64
}

// Initialize allocates and randomizes every table for a game with
// numBoards boards and a techline of techLen cards, using frand for the
// same search-facing randomness source the teacher uses to build its own
// Zobrist tables.
func (t *Table) Initialize(numBoards, techLen int) {
	for s := 0; s < 2; s++ {
		for l := 0; l < int(unit.NumLabels); l++ {
			for h := 0; h < board.Dim*board.Dim; h++ {
				t.pieceTable[s][l][h] = frand.Uint64n(bignum) + 1
			}
		}
		t.techTable[s] = make([][3]uint64, techLen)
		for c := 0; c < techLen; c++ {
			for st := 0; st < 3; st++ {
				t.techTable[s][c][st] = frand.Uint64n(bignum) + 1
			}
		}
		for b := 0; b < moneyBuckets; b++ {
			t.moneyTable[s][b] = frand.Uint64n(bignum) + 1
		}
	}
	t.boardSalt = make([]uint64, numBoards)
	for i := range t.boardSalt {
		t.boardSalt[i] = frand.Uint64n(bignum) + 1
	}
	for i := range t.stateTable {
		t.stateTable[i] = frand.Uint64n(bignum) + 1
	}
	t.sideToMove = frand.Uint64n(bignum) + 1
}

// mix is the teacher's integer avalanche mixer (zobrist/hash.go,
// hashUint64), used here to fold unbounded money values into the table.
func mix(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

func moneyBucket(n int) int {
	if n < 0 {
		n = 0
	}
	if n >= moneyBuckets {
		return moneyBuckets - 1
	}
	return n
}

// HashBoard computes a from-scratch Zobrist key for a single board and
// the side about to act on it, ignoring every other board, tech status,
// and money -- the narrower key the combat plan cache in the store
// package needs, since combat.Solve only ever sees one board at a time.
func (t *Table) HashBoard(b *board.Board, s side.Side) uint64 {
	key := t.stateTable[b.BoardState]
	for l, p := range b.Pieces {
		h := l.Row*board.Dim + l.Col
		key ^= t.pieceTable[p.Side][p.Label][h]
		key ^= mix(uint64(p.Modifiers.DamageTaken)) ^ uint64(h)
	}
	if s == side.S1 {
		key ^= t.sideToMove
	}
	return key
}

// Hash computes a full, from-scratch Zobrist key for gs. It is not
// incremental -- unlike the teacher's AddMove, Spooky's turns touch too
// many independent pieces of state (multiple boards, tech, money) for an
// XOR delta to be simpler than a straight recomputation, and combat
// resolution already walks every affected piece regardless.
func (t *Table) Hash(gs *game.State) uint64 {
	var key uint64
	for bi, b := range gs.Boards {
		key ^= t.boardSalt[bi] ^ t.stateTable[b.BoardState]
		for l, p := range b.Pieces {
			h := l.Row*board.Dim + l.Col
			key ^= t.pieceTable[p.Side][p.Label][h]
			key ^= mix(uint64(p.Modifiers.DamageTaken)) ^ uint64(bi)
		}
	}
	for _, s := range []side.Side{side.S0, side.S1} {
		status := gs.TechStatus.Get(s)
		for c, st := range status {
			key ^= t.techTable[s][c][st]
		}
		key ^= t.moneyTable[s][moneyBucket(gs.Money.Get(s))]
	}
	if gs.SideToMove == side.S1 {
		key ^= t.sideToMove
	}
	return key
}
