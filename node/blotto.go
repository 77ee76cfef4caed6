package node

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/spawn"
	"github.com/domino14/spooky/tech"
	"github.com/domino14/spooky/unit"
)

// Blotto splits s's money for this turn between the general's spell
// budget and its boards' spawn budgets, per spec.md sec 4.8. The general
// is paid first -- SpellCost*(spellsRequested-1), the same schedule
// GeneralNode/kernel use -- and whatever remains is divided equally
// among boards not in Reset0 (a board mid-reset has nothing to spawn
// on). Integer division can leave a small residual uncommitted; it goes
// to whichever active board shows the highest marginal spawn value under
// the evaluator's own unit-value terms.
func Blotto(gs *game.State, s side.Side, spellsRequested int) (spellMoney int, boardMoney []int) {
	money := gs.Money.Get(s)
	spellMoney = spellCost(spellsRequested)
	if spellMoney > money {
		spellMoney = money
	}
	remaining := money - spellMoney

	boardMoney = make([]int, len(gs.Boards))
	var active []int
	for i, b := range gs.Boards {
		if b.BoardState != board.Reset0 {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return spellMoney, boardMoney
	}

	share := remaining / len(active)
	residual := remaining - share*len(active)
	for _, i := range active {
		boardMoney[i] = share
	}
	if residual > 0 {
		techline := gs.Config.Techline
		status := gs.TechStatus.Get(s)

		best := active[0]
		bestGain := marginalSpawnValue(gs.Boards[best], s, share+residual, techline, status) -
			marginalSpawnValue(gs.Boards[best], s, share, techline, status)
		for _, i := range active[1:] {
			gain := marginalSpawnValue(gs.Boards[i], s, share+residual, techline, status) -
				marginalSpawnValue(gs.Boards[i], s, share, techline, status)
			if gain > bestGain {
				bestGain = gain
				best = i
			}
		}
		boardMoney[best] += residual
	}
	return spellMoney, boardMoney
}

// marginalSpawnValue estimates the unit-value b's spawn heuristic would
// buy for s given money to spend, without mutating b -- spawn.Propose
// only reads b to decide what to buy and where.
func marginalSpawnValue(b *board.Board, s side.Side, money int, techline *tech.Techline, status []tech.Status) float64 {
	plan := spawn.Propose(b, s, money, techline, status)
	total := 0.0
	for _, a := range plan.Actions {
		if a.Kind == game.Buy {
			total += float64(unit.Value(a.Unit))
		}
	}
	return total
}
