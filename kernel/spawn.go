package kernel

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/tech"
	"github.com/domino14/spooky/unit"
)

// applySpawn mutates b and gs.Money for one SpawnAction submitted by s.
// Buy purchases a reinforcement from the shop; Spawn places one from the
// reinforcement bag onto a hex adjacent to a friendly with spawn (spec.md
// sec 4.5); Discard cancels a half-invested tech card for a partial
// refund.
func applySpawn(gs *game.State, b *board.Board, s side.Side, a game.SpawnAction) error {
	switch a.Kind {
	case game.EndSpawnPhase:
		return nil

	case game.Buy:
		def := unit.Get(a.Unit)
		if def.Necromancer {
			return game.NewIllegalAction("the necromancer cannot be bought")
		}
		cost := def.Cost
		if cost > gs.Money.Get(s) {
			return game.NewInsufficientMoney("%v costs %d, %v has %d", def.Name, cost, s, gs.Money.Get(s))
		}
		gs.Money.Set(s, gs.Money.Get(s)-cost)
		b.Reinforcements.Get(s).Add(a.Unit, 1)
		return nil

	case game.Spawn:
		if !b.IsSpawnHex(s, a.Loc, unit.Get(a.Unit).Flying) {
			return game.NewIllegalAction("%v is not a legal spawn hex for %v", a.Loc, unit.Get(a.Unit).Name)
		}
		if !b.Reinforcements.Get(s).Take(a.Unit) {
			return game.NewIllegalAction("%v has no %v in reinforcements", s, unit.Get(a.Unit).Name)
		}
		if err := b.Place(&board.Piece{Loc: a.Loc, Label: a.Unit, Side: s}); err != nil {
			b.Reinforcements.Get(s).Add(a.Unit, 1)
			return err
		}
		return nil

	case game.Discard:
		status := gs.TechStatus.Get(s)
		if a.Spell < 0 || a.Spell >= len(status) {
			return game.NewIllegalAction("no tech card %d", a.Spell)
		}
		if status[a.Spell] != tech.Unlocked {
			return game.NewIllegalAction("tech card %d is not discardable", a.Spell)
		}
		status[a.Spell] = tech.Locked
		gs.Money.Set(s, gs.Money.Get(s)+SpellCost/2)
		return nil

	default:
		return game.NewIllegalAction("unknown spawn action kind %d", a.Kind)
	}
}
