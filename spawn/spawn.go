// Package spawn implements the purchase-then-placement heuristic of
// spec.md sec 4.5: greedily buy reinforcements the side can afford from
// its unlocked units and place them on hexes adjacent to a friendly with
// spawn, preferring units that counter what the opponent already has on
// the board.
package spawn

import (
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/tech"
	"github.com/domino14/spooky/unit"
)

// Plan is a proposed spawn-phase action list.
type Plan struct {
	Actions []game.SpawnAction
}

// Propose builds a spawn plan for s on b given money to spend -- the
// board's share of the blotto split (node.Blotto), not necessarily the
// side's whole purse -- and status, s's techline progress (spec.md sec
// 4.5 inputs: "remaining money, unlocked units, valid spawn hexes").
// Only units unlocked or better are candidates. Purchases proceed in
// ascending cost order; among units of comparable cost, one that
// counters an enemy unit already on the board is preferred, ties broken
// by value-per-cost. Placement then assigns the most expensive purchased
// unit to the spawn hex closest to the board centre, and so on down the
// list; a unit that ends up with no free hex is not refunded: its Buy
// stays in the plan and the unit stays in reinforcements.
func Propose(b *board.Board, s side.Side, money int, techline *tech.Techline, status []tech.Status) *Plan {
	enemyLabels := lo.Uniq(lo.Map(b.PiecesOf(s.Other()), func(p *board.Piece, _ int) unit.Label { return p.Label }))

	candidates := unlockedUnits(techline, status)
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := unit.Get(candidates[i]), unit.Get(candidates[j])
		if di.Cost != dj.Cost {
			return di.Cost < dj.Cost
		}
		ci := countersAny(candidates[i], enemyLabels)
		cj := countersAny(candidates[j], enemyLabels)
		if ci != cj {
			return ci
		}
		return valuePerCost(di) > valuePerCost(dj)
	})

	// Purchase repeatedly while money allows (spec.md sec 4.5): a cheap
	// candidate is bought over and over, not just once, before the loop
	// moves on to the next distinct label in sort order.
	var bought []unit.Label
	for _, l := range candidates {
		cost := unit.Get(l).Cost
		for cost <= money {
			money -= cost
			bought = append(bought, l)
		}
	}

	plan := &Plan{}
	for _, l := range bought {
		plan.Actions = append(plan.Actions, game.SpawnAction{Kind: game.Buy, Unit: l})
	}

	sort.SliceStable(bought, func(i, j int) bool {
		return unit.Get(bought[i]).Cost > unit.Get(bought[j]).Cost
	})

	// Flying candidates get flying-eligible hexes (water included); a
	// grounded unit's hex set is the subset restricted to land, so the
	// two lists are only recomputed when the flag actually changes what
	// counts as legal.
	groundHexes := sortedByCenter(b.SpawnHexes(s, false))
	airHexes := sortedByCenter(b.SpawnHexes(s, true))
	groundUsed, airUsed := 0, 0

	// A bought unit with no free hex simply stays in reinforcements --
	// the Buy action already committed the money and is not undone, and
	// next turn's spawn phase gets another chance to place it.
	for _, l := range bought {
		if unit.Get(l).Flying {
			if airUsed >= len(airHexes) {
				continue
			}
			plan.Actions = append(plan.Actions, game.SpawnAction{Kind: game.Spawn, Unit: l, Loc: airHexes[airUsed]})
			airUsed++
			continue
		}
		if groundUsed >= len(groundHexes) {
			continue
		}
		plan.Actions = append(plan.Actions, game.SpawnAction{Kind: game.Spawn, Unit: l, Loc: groundHexes[groundUsed]})
		groundUsed++
	}
	return plan
}

// unlockedUnits returns every unit label whose techline card is
// Unlocked or Acquired -- the "unlocked units" input of spec.md sec 4.5.
func unlockedUnits(techline *tech.Techline, status []tech.Status) []unit.Label {
	var out []unit.Label
	for i, card := range techline.Cards {
		if card.Kind == tech.UnitTech && i < len(status) && status[i] != tech.Locked {
			out = append(out, card.Unit)
		}
	}
	return out
}

func countersAny(l unit.Label, enemies []unit.Label) bool {
	for _, e := range enemies {
		if unit.CountersOf(l, e) {
			return true
		}
	}
	return false
}

func valuePerCost(d *unit.Def) float64 {
	if d.Cost == 0 {
		return float64(d.Value)
	}
	return float64(d.Value) / float64(d.Cost)
}

func sortedByCenter(locs []board.Loc) []board.Loc {
	out := append([]board.Loc(nil), locs...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Dist(centerLoc()) < out[j].Dist(centerLoc())
	})
	return out
}

func centerLoc() board.Loc {
	return board.NewLoc(board.Dim/2, board.Dim/2)
}
