package protocol

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
)

func TestPerftDepthZeroIsOneLeaf(t *testing.T) {
	is := is.New(t)
	cfg := game.NewDefaultConfig(1)
	gs := game.NewInitial(cfg, 20)
	is.Equal(Perft(gs.Boards[0], side.S0, 0), uint64(1))
}

func TestPerftDepthOneCountsLegalActions(t *testing.T) {
	is := is.New(t)
	cfg := game.NewDefaultConfig(1)
	gs := game.NewInitial(cfg, 20)
	// only the two necromancers are on the board: no attacks possible yet,
	// but the necromancer itself can move, so depth 1 should exceed the
	// depth-0 baseline of a single leaf.
	nodes := Perft(gs.Boards[0], side.S0, 1)
	is.True(nodes > 1)
}

func TestPerftOnEmptyBoardIsOneLeafAtAnyDepth(t *testing.T) {
	is := is.New(t)
	m := board.NewDefaultMap()
	b := board.NewBoard(m)
	is.Equal(Perft(b, side.S0, 3), uint64(1))
}
