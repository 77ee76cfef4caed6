package kernel

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/tech"
)

func newState(t *testing.T, numBoards int) *game.State {
	t.Helper()
	cfg := game.NewDefaultConfig(numBoards)
	return game.NewInitial(cfg, 20)
}

func TestApplyTurnFlipsSideToMove(t *testing.T) {
	is := is.New(t)
	gs := newState(t, 1)
	turn := game.NewTurn(1)

	ns, err := ApplyTurn(gs, turn)
	is.NoErr(err)
	is.Equal(ns.SideToMove, side.S1)
	is.Equal(gs.SideToMove, side.S0) // original untouched
}

func TestApplyTurnRejectsWrongBoardCount(t *testing.T) {
	is := is.New(t)
	gs := newState(t, 2)
	turn := game.NewTurn(1)

	_, err := ApplyTurn(gs, turn)
	is.True(err != nil)
}

func TestApplyTurnGrantsIncome(t *testing.T) {
	is := is.New(t)
	gs := newState(t, 1)
	turn := game.NewTurn(1)

	before := gs.Money.Get(side.S0)
	ns, err := ApplyTurn(gs, turn)
	is.NoErr(err)
	is.True(ns.Money.Get(side.S0) > before)
}

func TestApplyTurnResignCreditsOpponent(t *testing.T) {
	is := is.New(t)
	gs := newState(t, 2) // two boards, so one resign does not decide the game
	turn := game.NewTurn(2)
	turn.Resigns[0] = true

	// S0 resigns on its own turn, so the Reset0 "forced pass" the loser's
	// own turn advances past has already elapsed in the same ApplyTurn
	// call: the board lands in Reset1, still gated to S0.
	ns, err := ApplyTurn(gs, turn)
	is.NoErr(err)
	is.Equal(ns.BoardPoints.Get(side.S1), 1)
	is.True(ns.Boards[0].ResetSide != nil)
	is.Equal(*ns.Boards[0].ResetSide, side.S0)
	is.Equal(ns.Boards[0].BoardState, board.Reset1)
}

func TestApplyTechAssignmentUnlocksThenAcquires(t *testing.T) {
	is := is.New(t)
	gs := newState(t, 1)

	turn := game.NewTurn(1)
	turn.TechAssignment = []int{0}
	ns, err := ApplyTurn(gs, turn)
	is.NoErr(err)
	is.Equal(ns.TechStatus.Get(side.S0)[0], tech.Unlocked)

	ns.SideToMove = side.S0
	turn2 := game.NewTurn(1)
	turn2.TechAssignment = []int{0}
	ns2, err := ApplyTurn(ns, turn2)
	is.NoErr(err)
	is.Equal(ns2.TechStatus.Get(side.S0)[0], tech.Acquired)
}

func TestApplyTechAssignmentRejectsInsufficientMoney(t *testing.T) {
	is := is.New(t)
	gs := newState(t, 1)
	gs.Money.Set(side.S0, 0)

	turn := game.NewTurn(1)
	turn.TechAssignment = []int{0, 1, 2}
	_, err := ApplyTurn(gs, turn)
	is.True(err != nil)
}

func TestResetProgressionOnlyConstrainsLoser(t *testing.T) {
	is := is.New(t)
	gs := newState(t, 2) // two boards, so one resign does not decide the game
	turn := game.NewTurn(2)
	turn.Resigns[0] = true

	ns, err := ApplyTurn(gs, turn) // S0 resigns; board lands in Reset1, gated to S0
	is.NoErr(err)
	is.Equal(ns.SideToMove, side.S1)

	// The winner's turns never advance the state machine: only the
	// gated side's own turns do.
	ns, err = ApplyTurn(ns, game.NewTurn(2))
	is.NoErr(err)
	is.Equal(ns.Boards[0].BoardState, board.Reset1)
	is.Equal(ns.SideToMove, side.S0)

	ns, err = ApplyTurn(ns, game.NewTurn(2)) // S0's turn: Reset1 -> Reset2
	is.NoErr(err)
	is.Equal(ns.Boards[0].BoardState, board.Reset2)

	ns, err = ApplyTurn(ns, game.NewTurn(2)) // S1's turn: no change
	is.NoErr(err)
	is.Equal(ns.Boards[0].BoardState, board.Reset2)

	ns, err = ApplyTurn(ns, game.NewTurn(2)) // S0's turn: Reset2 -> Normal
	is.NoErr(err)
	is.Equal(ns.Boards[0].BoardState, board.Normal)
	is.True(ns.Boards[0].ResetSide == nil)
	is.True(ns.Boards[0].Winner == nil)
}
