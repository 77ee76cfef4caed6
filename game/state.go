package game

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/tech"
	"github.com/domino14/spooky/unit"
)

// State is one full game position: the shared Config plus every piece of
// mutable state (spec.md sec 3, "Game state").
type State struct {
	Config     *Config
	SideToMove side.Side
	Boards     []*board.Board
	TechStatus side.Array[[]tech.Status]
	Money      side.Array[int]
	BoardPoints side.Array[int]
}

// NewInitial builds a fresh game at the start of a match: every board on
// its map's Normal state with both necromancers placed at their start
// hex, all tech Locked, and starting money.
func NewInitial(cfg *Config, startingMoney int) *State {
	s := &State{
		Config: cfg,
		SideToMove: side.S0,
		Boards: make([]*board.Board, cfg.NumBoards),
		TechStatus: side.NewArray(
			make([]tech.Status, cfg.Techline.Len()),
			make([]tech.Status, cfg.Techline.Len()),
		),
		Money: side.NewArray(startingMoney, startingMoney),
	}
	for i, m := range cfg.Maps {
		b := board.NewBoard(m)
		for _, s0 := range []bool{true, false} {
			sd := side.S1
			if s0 {
				sd = side.S0
			}
			nec := &board.Piece{Loc: board.StartLoc(s0), Label: unit.Necromancer, Side: sd}
			_ = b.Place(nec)
		}
		s.Boards[i] = b
	}
	return s
}

// Copy returns an independent GameState: the Config pointer is shared,
// everything else is deep-copied so that a child node in the search tree
// can mutate freely without disturbing its parent (spec.md sec 3,
// "children receive an independent (cheap-to-clone) snapshot").
func (s *State) Copy() *State {
	ns := &State{
		Config:      s.Config,
		SideToMove:  s.SideToMove,
		Boards:      make([]*board.Board, len(s.Boards)),
		TechStatus:  side.NewArray(append([]tech.Status(nil), s.TechStatus.Get(side.S0)...), append([]tech.Status(nil), s.TechStatus.Get(side.S1)...)),
		Money:       s.Money,
		BoardPoints: s.BoardPoints,
	}
	for i, b := range s.Boards {
		ns.Boards[i] = b.Copy()
	}
	return ns
}

// Winner returns the side that has reached its win target, if any.
func (s *State) Winner() (side.Side, bool) {
	for _, sd := range []side.Side{side.S0, side.S1} {
		if s.BoardPoints.Get(sd) >= WinTarget(len(s.Boards)) {
			return sd, true
		}
	}
	return 0, false
}
