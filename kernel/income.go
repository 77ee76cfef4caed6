package kernel

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/side"
)

// SpellCost is the flat per-spell price of spec.md sec 4.7 ("8n"): we
// resolve the ambiguous scalar n to a fixed constant, recorded as an
// Open Question decision in DESIGN.md.
const SpellCost = 8

// BoardIncome computes one board's contribution to a side's income this
// turn: graveyards controlled, plus the necromancer's own base income,
// plus a bonus if the necromancer carries the "soul" keyword (spec.md
// sec 4.1: "g + s + 2").
func BoardIncome(b *board.Board, s side.Side) int {
	g := b.GraveyardsControlledBy(s)
	soul := 0
	if loc, alive := b.NecromancerLoc(s); alive {
		if b.PieceAt(loc).Def().HasKeyword("soul") {
			soul = 1
		}
	}
	return g + soul + 2
}
