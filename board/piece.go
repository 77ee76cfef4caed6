package board

import (
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

// Modifiers holds the transient, per-piece flags of spec.md sec 3.
// AttacksUsed counts elementary attacks resolved this attack phase,
// checked against Def().NumAttacks (spec.md sec 4.3.3's per-attacker
// budget Σ_y [a_xy] <= num_attacks(x)) -- a multi-attack unit like the
// Wight or Shrieker keeps attacking until it hits that count, not after
// its first attack.
type Modifiers struct {
	Shielded    bool
	Frozen      bool
	Shackled    bool
	HasMoved    bool
	AttacksUsed int
	DamageTaken int
}

// HasAttacked reports whether the piece has used any of its attacks this
// phase, for callers that only care about "attacked at all" rather than
// the exact count (e.g. repositioning eligibility).
func (m Modifiers) HasAttacked() bool {
	return m.AttacksUsed > 0
}

// Piece is a single unit instance on a board.
type Piece struct {
	Loc       Loc
	Label     unit.Label
	Side      side.Side
	Modifiers Modifiers
}

// Def is a convenience accessor for the piece's immutable unit stats.
func (p *Piece) Def() *unit.Def {
	return unit.Get(p.Label)
}

// Alive reports whether the piece still has effective defense remaining.
func (p *Piece) Alive() bool {
	return p.Modifiers.DamageTaken < p.Def().Defense
}

// EffectiveDefense returns the remaining hit points before removal.
func (p *Piece) EffectiveDefense() int {
	return p.Def().Defense - p.Modifiers.DamageTaken
}
