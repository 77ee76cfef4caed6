package kernel

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

// resetZombies is how many fresh zombies spec.md sec 4.1 places adjacent
// to each side's start hex on a board reset.
const resetZombies = 6

// resetBoard returns every on-board unit of BOTH sides to reinforcements
// -- the necromancers excepted, since they aren't reinforcement-pool
// units -- then rebuilds the board the way original_source's reset()
// does: the winner's necromancer goes straight back to its start hex (it
// isn't gated by the setup flow), the loser's start hex is left empty
// for the ChooseNecromancer setup action during its coming Reset1 turn,
// and both sides get fresh zombies placed on the hexes adjacent to their
// own start hex plus one extra initiate in their bag.
func resetBoard(b *board.Board, loser side.Side) {
	winner := loser.Other()
	for l, p := range b.Pieces {
		if !p.Def().Necromancer {
			b.Reinforcements.Get(p.Side).Add(p.Label, 1)
		}
		delete(b.Pieces, l)
	}

	for _, s0 := range []bool{true, false} {
		sd := side.S1
		if s0 {
			sd = side.S0
		}
		placed := 0
		for _, l := range board.StartLoc(s0).Neighbors() {
			if placed >= resetZombies {
				break
			}
			if b.PieceAt(l) == nil {
				_ = b.Place(&board.Piece{Loc: l, Label: unit.Zombie, Side: sd})
				placed++
			}
		}
		b.Reinforcements.Get(sd).Add(unit.Initiate, 1)
	}

	_ = b.Place(&board.Piece{Loc: board.StartLoc(winner == side.S0), Label: unit.Necromancer, Side: winner})

	b.BoardState = board.Reset0
	rs := loser
	b.ResetSide = &rs
}

// advanceResetState steps b's reset-cycle state machine forward by one
// ply once mover's board turn has just been resolved, per the sequence
// of spec.md sec 4.1: Reset0 (forced empty turn) -> Reset1 (choose
// necromancer, attack only) -> Reset2 (all phases) -> Normal.
func advanceResetState(b *board.Board, mover side.Side) {
	if b.ResetSide == nil || *b.ResetSide != mover {
		return
	}
	switch b.BoardState {
	case board.Reset0:
		b.BoardState = board.Reset1
	case board.Reset1:
		b.BoardState = board.Reset2
	case board.Reset2:
		b.BoardState = board.Normal
		b.ResetSide = nil
		b.Winner = nil
	}
}
