package kernel

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

func TestBoardIncomeBaseline(t *testing.T) {
	is := is.New(t)
	m := board.NewDefaultMap()
	b := board.NewBoard(m)
	is.NoErr(b.Place(&board.Piece{Loc: board.StartLoc(true), Label: unit.Necromancer, Side: side.S0}))

	income := BoardIncome(b, side.S0)
	is.True(income >= 2) // base income plus zero controlled graveyards
}

func TestBoardIncomeGrowsWithGraveyards(t *testing.T) {
	is := is.New(t)
	m := board.NewDefaultMap()
	b := board.NewBoard(m)
	is.NoErr(b.Place(&board.Piece{Loc: board.StartLoc(true), Label: unit.Necromancer, Side: side.S0}))

	base := BoardIncome(b, side.S0)

	for _, g := range m.Graveyards() {
		is.NoErr(b.Place(&board.Piece{Loc: g, Label: unit.Zombie, Side: side.S0}))
		break
	}
	is.True(BoardIncome(b, side.S0) >= base)
}
