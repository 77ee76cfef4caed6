package node

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
)

func newBlottoState(t *testing.T, numBoards, money int) *game.State {
	t.Helper()
	cfg := game.NewDefaultConfig(numBoards)
	gs := game.NewInitial(cfg, money)
	gs.Money.Set(side.S0, money)
	return gs
}

func TestBlottoSplitsRemainderEquallyAmongActiveBoards(t *testing.T) {
	is := is.New(t)
	gs := newBlottoState(t, 2, 100)

	spellMoney, boardMoney := Blotto(gs, side.S0, 1)
	is.Equal(spellMoney, 0) // first spell is free
	is.Equal(boardMoney, []int{50, 50})
}

func TestBlottoCapsSpellMoneyAtAvailableFunds(t *testing.T) {
	is := is.New(t)
	gs := newBlottoState(t, 1, 3)

	spellMoney, boardMoney := Blotto(gs, side.S0, 5)
	is.Equal(spellMoney, 3)
	is.Equal(boardMoney[0], 0)
}

func TestBlottoSkipsBoardsInReset0(t *testing.T) {
	is := is.New(t)
	gs := newBlottoState(t, 2, 100)
	gs.Boards[1].BoardState = board.Reset0

	_, boardMoney := Blotto(gs, side.S0, 0)
	is.Equal(boardMoney[0], 100)
	is.Equal(boardMoney[1], 0)
}

func TestBlottoGivesResidualToOneActiveBoard(t *testing.T) {
	is := is.New(t)
	gs := newBlottoState(t, 3, 100)

	_, boardMoney := Blotto(gs, side.S0, 0)
	total := 0
	for _, m := range boardMoney {
		total += m
	}
	is.Equal(total, 100)
	// 100/3 = 33 remainder 1: exactly one board gets the extra gold
	extra := 0
	for _, m := range boardMoney {
		if m == 34 {
			extra++
		}
	}
	is.Equal(extra, 1)
}

func TestBlottoHandlesNoActiveBoards(t *testing.T) {
	is := is.New(t)
	gs := newBlottoState(t, 1, 50)
	gs.Boards[0].BoardState = board.Reset0

	spellMoney, boardMoney := Blotto(gs, side.S0, 0)
	is.Equal(spellMoney, 0)
	is.Equal(boardMoney, []int{0})
}
