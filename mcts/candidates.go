package mcts

import (
	"time"

	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/node"
	"github.com/domino14/spooky/zobrist"
)

// generateCandidates builds up to maxChildren distinct legal-looking
// GameTurns for gs.SideToMove, varying how many spells the general
// requests this turn to get expansion diversity out of otherwise
// deterministic heuristics (spec.md sec 4.9, "expansion... up to K=4
// children per visit"). Every candidate still has to survive
// kernel.ApplyTurn in the caller before it becomes a real tree edge.
// cache and z are optional; when both are non-nil, every board's combat
// solve first checks the shared plan cache (SPEC_FULL.md's "cached
// combat plan set").
func generateCandidates(gs *game.State, combatBudget time.Duration, cache node.PlanCache, z *zobrist.Table) []*game.Turn {
	s := gs.SideToMove
	var bn *node.BoardNode
	if cache != nil && z != nil {
		bn = node.NewCachedBoardNode(combatBudget, cache, z)
	} else {
		bn = node.NewBoardNode(combatBudget)
	}
	var gnode node.GeneralNode

	maxSpells := node.SpellsAffordable(gs.Money.Get(s))
	spellOptions := spellRequestOptions(maxSpells)

	var out []*game.Turn
	for _, spellsRequested := range spellOptions {
		if len(out) >= maxChildren {
			break
		}
		techAssignment := gnode.Decide(gs, s, spellsRequested)
		_, boardMoney := node.Blotto(gs, s, len(techAssignment))

		turn := game.NewTurn(len(gs.Boards))
		turn.TechAssignment = techAssignment
		for i := range gs.Boards {
			turn.BoardTurns[i] = bn.Expand(gs, i, s, boardMoney[i])
		}
		out = append(out, turn)
	}
	return out
}

// spellRequestOptions returns a small, deterministic set of spell counts
// to try, from "spend nothing on tech" up to the affordable maximum,
// deduplicated and capped at maxChildren entries.
func spellRequestOptions(maxSpells int) []int {
	seen := map[int]bool{}
	var out []int
	add := func(n int) {
		if n < 0 || n > maxSpells || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
	}
	add(0)
	add(1)
	add(maxSpells / 2)
	add(maxSpells)
	return out
}
