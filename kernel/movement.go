// Package kernel implements the pure, stateless game-rule functions of
// spec.md sec 4.1: legal move generation for every phase, turn
// application, and end-of-turn resolution.
package kernel

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/side"
)

// LegalAttack is one (attacker, target, attack-hex) triple, per spec.md
// sec 4.1 ("legal_attacks").
type LegalAttack struct {
	Attacker  board.Loc
	Target    board.Loc
	AttackHex board.Loc
}

// enemyBlocker returns a board.Blocker that stops ground movement at any
// hex holding a living enemy piece of mover, matching spec.md sec 4.1:
// "enemies block ground movement, friendlies do not."
func enemyBlocker(b *board.Board, mover side.Side) board.Blocker {
	return func(l board.Loc) bool {
		p := b.PieceAt(l)
		return p != nil && p.Side != mover
	}
}

// ReachableDestinations returns every hex p could occupy this tick,
// honoring speed, flight, lumbering (fixed in place), and enemy
// blocking. Hexes currently occupied by any piece other than p itself
// are excluded, since a unit may not land where something already
// stands (spec.md sec 4.3.3, "Hex occupancy").
func ReachableDestinations(b *board.Board, p *board.Piece) []board.Loc {
	def := p.Def()
	if def.Lumbering {
		return []board.Loc{p.Loc}
	}
	all := b.Reachable(p.Loc, def.Speed, def.Flying, enemyBlocker(b, p.Side))
	out := make([]board.Loc, 0, len(all))
	for _, l := range all {
		if l == p.Loc {
			out = append(out, l)
			continue
		}
		if b.PieceAt(l) == nil {
			out = append(out, l)
		}
	}
	return out
}

// AttackHexes returns every hex in dests from which p (standing there)
// could attack target, i.e. within p's range. This is spec.md sec
// 4.3.1's AttackHexes(x, y), reused by both legal_attacks and the
// combat solver's enumeration.
func AttackHexes(dests []board.Loc, p *board.Piece, target board.Loc) []board.Loc {
	rng := p.Def().Range
	out := make([]board.Loc, 0, len(dests))
	for _, d := range dests {
		if d.Dist(target) <= rng {
			out = append(out, d)
		}
	}
	return out
}

// LegalAttacks enumerates every legal (attacker, target, attack-hex)
// triple for s on b, per spec.md sec 4.1.
func LegalAttacks(b *board.Board, s side.Side) []LegalAttack {
	var out []LegalAttack
	for _, x := range b.PiecesOf(s) {
		if x.Modifiers.Frozen {
			continue
		}
		dests := ReachableDestinations(b, x)
		for _, y := range b.PiecesOf(s.Other()) {
			for _, hex := range AttackHexes(dests, x, y.Loc) {
				out = append(out, LegalAttack{Attacker: x.Loc, Target: y.Loc, AttackHex: hex})
			}
		}
	}
	return out
}
