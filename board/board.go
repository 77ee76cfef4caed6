// Package board implements the hex grid, unit placement, and per-board
// game state described in spec.md sec 3 ("Map", "Board").
package board

import (
	"fmt"

	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

// State is the reset-cycle phase of a board (spec.md sec 3, sec 4.1).
type State uint8

const (
	Normal State = iota
	Reset0
	Reset1
	Reset2
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Reset0:
		return "reset0"
	case Reset1:
		return "reset1"
	case Reset2:
		return "reset2"
	default:
		return "unknown"
	}
}

// Reinforcements is a per-side multiset of unit labels available to spawn.
type Reinforcements map[unit.Label]int

func (r Reinforcements) Add(l unit.Label, n int) {
	r[l] += n
}

func (r Reinforcements) Take(l unit.Label) bool {
	if r[l] <= 0 {
		return false
	}
	r[l]--
	if r[l] == 0 {
		delete(r, l)
	}
	return true
}

func (r Reinforcements) Clone() Reinforcements {
	out := make(Reinforcements, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Board is one board of a Minions game: shared immutable Map plus
// mutable piece placement, reinforcements, reset state, and winner.
type Board struct {
	Map            *Map
	BoardState     State
	Pieces         map[Loc]*Piece
	Reinforcements side.Array[Reinforcements]
	Winner         *side.Side
	// ResetSide is the side whose turns are constrained by BoardState
	// while it is in {Reset0, Reset1, Reset2}, and nil once Normal
	// (spec.md sec 4.1, board reset progression).
	ResetSide *side.Side
}

// NewBoard creates an empty board on the given map with empty
// reinforcement bags.
func NewBoard(m *Map) *Board {
	return &Board{
		Map:            m,
		BoardState:     Normal,
		Pieces:         map[Loc]*Piece{},
		Reinforcements: side.NewArray[Reinforcements](Reinforcements{}, Reinforcements{}),
	}
}

// PieceAt returns the piece at l, or nil if empty.
func (b *Board) PieceAt(l Loc) *Piece {
	return b.Pieces[l]
}

// Place puts p on the board at p.Loc, which must be empty.
func (b *Board) Place(p *Piece) error {
	if _, occupied := b.Pieces[p.Loc]; occupied {
		return fmt.Errorf("board: %v is already occupied", p.Loc)
	}
	if b.Map.TileAt(p.Loc) == Water && !p.Def().Flying {
		return fmt.Errorf("board: %v cannot occupy water at %v", p.Def().Name, p.Loc)
	}
	cp := *p
	b.Pieces[p.Loc] = &cp
	return nil
}

// Remove deletes the piece at l, if any, returning it.
func (b *Board) Remove(l Loc) *Piece {
	p := b.Pieces[l]
	delete(b.Pieces, l)
	return p
}

// Move relocates the piece at from to to, which must be empty. Modifiers
// travel with the piece; HasMoved is set.
func (b *Board) Move(from, to Loc) error {
	p, ok := b.Pieces[from]
	if !ok {
		return fmt.Errorf("board: no piece at %v", from)
	}
	if _, occupied := b.Pieces[to]; occupied {
		return fmt.Errorf("board: destination %v is occupied", to)
	}
	if b.Map.TileAt(to) == Water && !p.Def().Flying {
		return fmt.Errorf("board: %v cannot occupy water at %v", p.Def().Name, to)
	}
	delete(b.Pieces, from)
	p.Loc = to
	p.Modifiers.HasMoved = true
	b.Pieces[to] = p
	return nil
}

// NecromancerLoc returns the location of s's necromancer, if alive.
func (b *Board) NecromancerLoc(s side.Side) (Loc, bool) {
	for _, l := range b.orderedLocs() {
		p := b.Pieces[l]
		if p.Side == s && p.Def().Necromancer {
			return l, true
		}
	}
	return Loc{}, false
}

// PiecesOf returns every piece belonging to s, in a deterministic order
// (sorted by Loc) so callers get reproducible iteration for search.
func (b *Board) PiecesOf(s side.Side) []*Piece {
	out := make([]*Piece, 0, len(b.Pieces))
	for _, l := range b.orderedLocs() {
		piece := b.Pieces[l]
		if piece.Side == s {
			out = append(out, piece)
		}
	}
	return out
}

func (b *Board) orderedLocs() []Loc {
	locs := make([]Loc, 0, len(b.Pieces))
	for l := range b.Pieces {
		locs = append(locs, l)
	}
	// Insertion sort: boards rarely hold more than a few dozen pieces,
	// and determinism matters far more than asymptotics here.
	for i := 1; i < len(locs); i++ {
		for j := i; j > 0 && less(locs[j], locs[j-1]); j-- {
			locs[j], locs[j-1] = locs[j-1], locs[j]
		}
	}
	return locs
}

func less(a, b Loc) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// GraveyardsControlledBy counts graveyards with a friendly piece on them,
// for the income formula of spec.md sec 4.1 ("g").
func (b *Board) GraveyardsControlledBy(s side.Side) int {
	n := 0
	for _, g := range b.Map.Graveyards() {
		if p, ok := b.Pieces[g]; ok && p.Side == s {
			n++
		}
	}
	return n
}

// EnemyGraveyardCount counts graveyards held by the opponent of s, used
// by the board-loss check (spec.md sec 4.1: ">=8 enemy graveyards").
func (b *Board) EnemyGraveyardCount(s side.Side) int {
	return b.GraveyardsControlledBy(s.Other())
}

// SpawnHexes returns every empty hex legal to spawn a unit of s's onto,
// per spec.md sec 4.5: adjacent to a friendly piece whose Def().Spawn
// flag is set, and land unless the unit flies.
func (b *Board) SpawnHexes(s side.Side, flying bool) []Loc {
	var out []Loc
	seen := map[Loc]bool{}
	for _, p := range b.PiecesOf(s) {
		if !p.Def().Spawn {
			continue
		}
		for _, n := range p.Loc.Neighbors() {
			if seen[n] || b.PieceAt(n) != nil {
				continue
			}
			if !flying && b.Map.TileAt(n) != Land {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// IsSpawnHex reports whether l is one of s's legal spawn hexes for a unit
// with the given flying flag, per SpawnHexes.
func (b *Board) IsSpawnHex(s side.Side, l Loc, flying bool) bool {
	for _, h := range b.SpawnHexes(s, flying) {
		if h == l {
			return true
		}
	}
	return false
}

// Copy returns a deep, independent clone of the board, sharing the
// immutable Map by pointer -- the same "shared config, cloned state"
// discipline the teacher applies when cloning a game.Game for MCTS
// children.
func (b *Board) Copy() *Board {
	nb := &Board{
		Map:        b.Map,
		BoardState: b.BoardState,
		Pieces:     make(map[Loc]*Piece, len(b.Pieces)),
		Reinforcements: side.NewArray(
			b.Reinforcements.Get(side.S0).Clone(),
			b.Reinforcements.Get(side.S1).Clone(),
		),
	}
	for l, p := range b.Pieces {
		cp := *p
		nb.Pieces[l] = &cp
	}
	if b.Winner != nil {
		w := *b.Winner
		nb.Winner = &w
	}
	if b.ResetSide != nil {
		r := *b.ResetSide
		nb.ResetSide = &r
	}
	return nb
}
