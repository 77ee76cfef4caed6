package kernel

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

func TestLegalSetupEmptyOnNormalBoard(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.NewDefaultMap())
	is.Equal(len(LegalSetup(b, side.S0)), 0)
}

func TestLegalSetupOffersNecromancerInReset1(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.NewDefaultMap())
	resetBoard(b, side.S0)
	b.BoardState = board.Reset1

	actions := LegalSetup(b, side.S0)
	is.Equal(len(actions), 1)
	is.Equal(actions[0].Kind, game.ChooseNecromancer)
}

func TestApplySetupChooseNecromancerPlacesPiece(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.NewDefaultMap())
	resetBoard(b, side.S0)
	b.BoardState = board.Reset1

	err := applySetup(b, side.S0, game.SetupAction{Kind: game.ChooseNecromancer, Unit: unit.Necromancer})
	is.NoErr(err)
	loc, alive := b.NecromancerLoc(side.S0)
	is.True(alive)
	is.Equal(loc, board.StartLoc(true))
}

func TestApplySetupChooseNecromancerRejectsWrongSide(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.NewDefaultMap())
	resetBoard(b, side.S0)
	b.BoardState = board.Reset1

	err := applySetup(b, side.S1, game.SetupAction{Kind: game.ChooseNecromancer})
	is.True(err != nil)
}
