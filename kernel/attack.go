package kernel

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

// applyAttack mutates b for one AttackAction submitted by s, returning
// the gold rebate (spec.md sec 8 scenario 1) owed to whichever side lost
// a piece to a true kill this action, or 0 if none. Move is validated
// against ReachableDestinations; Attack only checks the attacker's range
// from the hex it stands on; MoveCyclic and
// Blink implement the two Open Question decisions recorded in
// DESIGN.md.
func applyAttack(b *board.Board, s side.Side, a game.AttackAction) (int, error) {
	switch a.Kind {
	case game.EndAttackPhase:
		return 0, nil

	case game.Move:
		p := b.PieceAt(a.From)
		if p == nil || p.Side != s {
			return 0, game.NewIllegalAction("no %v piece at %v", s, a.From)
		}
		if p.Modifiers.HasMoved {
			return 0, game.NewIllegalAction("%v has already moved this attack phase", a.From)
		}
		if !containsLoc(ReachableDestinations(b, p), a.To) {
			return 0, game.NewIllegalAction("%v cannot reach %v", a.From, a.To)
		}
		return 0, b.Move(a.From, a.To)

	case game.MoveCyclic:
		return 0, applyMoveCyclic(b, s, a.Path)

	case game.Attack:
		return applyElementaryAttack(b, s, a.Attacker, a.Target)

	case game.Blink:
		p := b.PieceAt(a.Loc)
		if p == nil || p.Side != s {
			return 0, game.NewIllegalAction("no %v piece at %v", s, a.Loc)
		}
		if p.Def().Necromancer {
			return 0, game.NewIllegalAction("the necromancer cannot blink")
		}
		b.Remove(a.Loc)
		b.Reinforcements.Get(s).Add(p.Label, 1)
		return 0, nil

	default:
		return 0, game.NewIllegalAction("unknown attack action kind %d", a.Kind)
	}
}

func containsLoc(locs []board.Loc, l board.Loc) bool {
	for _, x := range locs {
		if x == l {
			return true
		}
	}
	return false
}

// applyMoveCyclic performs the simultaneous rotation of DESIGN.md's
// resolved Open Question: path must be a genuine closed cycle of
// friendly pieces, each moving one step to the next hex in path, the
// last wrapping to the first. It fails atomically -- IllegalAction,
// unmodified board -- if any leg is not a true cycle.
func applyMoveCyclic(b *board.Board, s side.Side, path []board.Loc) error {
	if len(path) < 3 {
		return game.NewIllegalAction("move_cyclic requires at least 3 hexes")
	}
	pieces := make([]*board.Piece, len(path))
	for i, l := range path {
		p := b.PieceAt(l)
		if p == nil || p.Side != s {
			return game.NewIllegalAction("no %v piece at %v", s, l)
		}
		if !l.IsAdjacent(path[(i+1)%len(path)]) {
			return game.NewIllegalAction("%v is not adjacent to %v", l, path[(i+1)%len(path)])
		}
		pieces[i] = p
	}
	seen := map[board.Loc]bool{}
	for _, l := range path {
		if seen[l] {
			return game.NewIllegalAction("move_cyclic path repeats %v", l)
		}
		seen[l] = true
	}
	for _, l := range path {
		b.Remove(l)
	}
	for i, p := range pieces {
		dst := path[(i+1)%len(path)]
		np := *p
		np.Loc = dst
		np.Modifiers.HasMoved = true
		if err := b.Place(&np); err != nil {
			return err
		}
	}
	return nil
}

// applyElementaryAttack resolves one unit's attack against one target:
// the minimal single-attacker/single-target case of the combat solver's
// constraint system (spec.md sec 4.3), used when a plan submits attacks
// one at a time rather than through the batch solver. The returned int
// is the rebate owed to y's own side when this attack causes a true
// kill (spec.md sec 4.3.3, sec 8 scenario 1); it is 0 for a bounce, a
// shield consumption, a non-lethal hit, or a deathtouch that glances off
// a necromancer.
func applyElementaryAttack(b *board.Board, s side.Side, attacker, target board.Loc) (int, error) {
	x := b.PieceAt(attacker)
	if x == nil || x.Side != s {
		return 0, game.NewIllegalAction("no %v piece at %v", s, attacker)
	}
	y := b.PieceAt(target)
	if y == nil || y.Side == s {
		return 0, game.NewIllegalAction("no enemy piece at %v", target)
	}
	if x.Modifiers.AttacksUsed >= x.Def().NumAttacks {
		return 0, game.NewIllegalAction("%v has already used all %d attacks this phase", attacker, x.Def().NumAttacks)
	}
	if attacker.Dist(target) > x.Def().Range {
		return 0, game.NewIllegalAction("%v is out of range of %v", attacker, target)
	}
	x.Modifiers.AttacksUsed++

	if y.Modifiers.Shielded {
		y.Modifiers.Shielded = false
		return 0, nil
	}
	switch x.Def().Attack.Kind {
	case unit.Damage:
		y.Modifiers.DamageTaken += x.Def().Attack.Damage
		if !y.Alive() {
			return killAndRebate(b, target, y), nil
		}

	case unit.Unsummon:
		// Persistent units shrug off the bounce and merely take 1 normal
		// damage; everything else bounces whole, straight back to
		// reinforcements with no rebate (spec.md sec 4.3.3).
		if !y.Def().Persistent {
			b.Remove(target)
			b.Reinforcements.Get(y.Side).Add(y.Label, 1)
			return 0, nil
		}
		y.Modifiers.DamageTaken++
		if !y.Alive() {
			return killAndRebate(b, target, y), nil
		}

	case unit.Deathtouch:
		// A necromancer is immune to deathtouch entirely (spec.md sec
		// 4.3.3); anything else dies outright regardless of remaining
		// defense.
		if !y.Def().Necromancer {
			return killAndRebate(b, target, y), nil
		}
	}
	return 0, nil
}

// killAndRebate removes the already-dead piece y from l and returns the
// gold its own side collects for the loss. Grounded on original_source's
// attack_piece, which returns rebate only when the target is removed
// and not bounced.
func killAndRebate(b *board.Board, l board.Loc, y *board.Piece) int {
	b.Remove(l)
	return y.Def().Rebate
}
