package node

import (
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/kernel"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/tech"
	"github.com/domino14/spooky/unit"
)

// GeneralNode decides which techline cards to invest this side's spells
// in this turn (spec.md sec 4.7): a small greedy heuristic, not a search,
// since the techline's effect on future spawn options is already
// captured indirectly by the spawn heuristic once a card is acquired.
type GeneralNode struct{}

// Decide returns up to maxSpells techline card indices to spend a spell
// on this turn, in the order they should be applied. It always finishes
// an Unlocked card of ours first (the "acquire" half of spec.md sec
// 4.7's step 3, generalized across turns), otherwise targets the
// canonical counter to the highest-index enemy tech we have no counter
// for, otherwise marches the friendly frontier forward.
func (GeneralNode) Decide(gs *game.State, s side.Side, maxSpells int) []int {
	if maxSpells <= 0 {
		return nil
	}
	techline := gs.Config.Techline
	status := append([]tech.Status(nil), gs.TechStatus.Get(s)...)
	oppStatus := gs.TechStatus.Get(s.Other())

	var chosen []int
	for len(chosen) < maxSpells {
		idx := pickCard(techline, status, oppStatus)
		if idx < 0 {
			break
		}
		chosen = append(chosen, idx)
		switch status[idx] {
		case tech.Locked:
			status[idx] = tech.Unlocked
		case tech.Unlocked:
			status[idx] = tech.Acquired
		}
	}
	return chosen
}

// pickCard chooses the next techline index to spend a spell on. Finishing
// an already-Unlocked card of ours takes priority over starting a new
// one, so a target picked on an earlier turn (or earlier in this same
// turn's loop) always gets acquired before anything else is touched.
func pickCard(techline *tech.Techline, status, oppStatus []tech.Status) int {
	for i, st := range status {
		if st == tech.Unlocked && oppStatus[i] != tech.Acquired {
			return i
		}
	}
	if idx := counterTarget(techline, status, oppStatus); idx >= 0 {
		return idx
	}
	return marchTarget(status, oppStatus)
}

// counterTarget implements spec.md sec 4.7 step 1: find the
// highest-index enemy Acquired unit tech with no friendly Acquired
// counter, and return the techline index of its canonical counter.
func counterTarget(techline *tech.Techline, status, oppStatus []tech.Status) int {
	for i := len(techline.Cards) - 1; i >= 0; i-- {
		card := techline.Cards[i]
		if card.Kind != tech.UnitTech || oppStatus[i] != tech.Acquired {
			continue
		}
		if hasFriendlyCounter(techline, status, card.Unit) {
			continue
		}
		if c, ok := canonicalCounter(techline, card.Unit); ok && status[c] != tech.Acquired {
			return c
		}
	}
	return -1
}

// hasFriendlyCounter reports whether s already has an Acquired unit tech
// that counters countered, via unit.CountersOf.
func hasFriendlyCounter(techline *tech.Techline, status []tech.Status, countered unit.Label) bool {
	for i, card := range techline.Cards {
		if card.Kind == tech.UnitTech && status[i] == tech.Acquired && unit.CountersOf(card.Unit, countered) {
			return true
		}
	}
	return false
}

// canonicalCounter returns the techline index of countered's preferred
// counter unit, trying unit.CountersOf's three counter offsets
// (countered-1, countered-2, countered+3) in that fixed order and taking
// the first one that names a real techline card.
func canonicalCounter(techline *tech.Techline, countered unit.Label) (int, bool) {
	i := int(countered)
	for _, c := range []int{i - 1, i - 2, i + 3} {
		if c < 0 {
			continue
		}
		if idx, ok := techIndexOf(techline, unit.Label(c)); ok {
			return idx, true
		}
	}
	return 0, false
}

// techIndexOf returns the techline index of l's UnitTech card.
func techIndexOf(techline *tech.Techline, l unit.Label) (int, bool) {
	for i, card := range techline.Cards {
		if card.Kind == tech.UnitTech && card.Unit == l {
			return i, true
		}
	}
	return 0, false
}

// marchTarget implements spec.md sec 4.7 step 2: target index a+3 beyond
// the highest-index card we hold at all (Unlocked or Acquired), or a+5
// if the opponent has already Acquired that +3 index.
func marchTarget(status, oppStatus []tech.Status) int {
	a := -1
	for i, st := range status {
		if st != tech.Locked {
			a = i
		}
	}
	target := a + 3
	if target < len(status) && oppStatus[target] == tech.Acquired {
		target = a + 5
	}
	if target < 0 || target >= len(status) {
		return -1
	}
	return target
}

// spellCost mirrors kernel's applyTechAssignment cost schedule: n spells
// bought in one turn cost SpellCost*(n-1) total (the first is free).
func spellCost(n int) int {
	if n <= 0 {
		return 0
	}
	return kernel.SpellCost * (n - 1)
}

// SpellsAffordable returns how many spells s could purchase this turn
// with the given money, kept in sync with kernel.SpellCost so the
// general never proposes a plan apply_turn will reject for insufficient
// money.
func SpellsAffordable(money int) int {
	n := 0
	for spellCost(n+1) <= money {
		n++
	}
	return n
}
