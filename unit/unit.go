// Package unit holds the immutable unit-type table: the small integer
// UnitLabel identifiers and their attack/defense/movement statistics, as
// described in spec.md sec 3 ("Unit (type)").
package unit

import "fmt"

// AttackKind distinguishes the three attack semantics of spec.md sec 3.
type AttackKind uint8

const (
	Damage AttackKind = iota
	Unsummon
	Deathtouch
)

// Attack is a unit's attack, either flat damage-n or one of the two
// special kinds.
type Attack struct {
	Kind   AttackKind
	Damage int // meaningful only when Kind == Damage
}

// Label is a small integer identifying a unit type. It is not the
// techline card index (tech.Techline orders cards by All), and the
// counter-of relation in the spawn heuristic (spec.md sec 4.5) is defined
// directly in terms of these indices.
type Label uint8

// FEN letters, in Label order (spec.md sec 6.2).
const (
	Zombie Label = iota
	Initiate
	Skeleton
	Serpent
	Warg
	Ghost
	Wight
	Haunt
	Shrieker
	Spectre
	Rat
	Sorcerer
	Vampire
	Mummy
	Lich
	Void
	Banshee
	Elemental
	Harpy
	Shadowlord
	Necromancer
	NumLabels
)

// Def is the immutable record for one unit type.
type Def struct {
	Label       Label
	Name        string
	FENChar     byte
	Attack      Attack
	NumAttacks  int
	Defense     int
	Speed       int
	Range       int
	Cost        int
	Rebate      int
	Value       int // used by the evaluator and the combat objective
	Necromancer bool
	Lumbering   bool
	Flying      bool
	Persistent  bool
	Spawn       bool
	// Keywords carries necromancer abilities beyond "soul" (spec.md sec
	// 9, open question ii): data-driven rather than a closed enum.
	Keywords []string
}

func (d *Def) HasKeyword(k string) bool {
	for _, kw := range d.Keywords {
		if kw == k {
			return true
		}
	}
	return false
}

// table is indexed by Label. Stats are original but plausible: cheap
// lumbering fodder at low indices, ranged/flying specialists in the
// middle, expensive flyers and the necromancer at the top. Cost is not
// monotonic in Label (Rat, label 10, costs 2); All orders by cost.
var table = [NumLabels]Def{
	Zombie:      {Name: "Zombie", FENChar: 'Z', Attack: Attack{Kind: Damage, Damage: 1}, NumAttacks: 1, Defense: 2, Speed: 1, Range: 1, Cost: 2, Rebate: 0, Lumbering: true},
	Initiate:    {Name: "Initiate", FENChar: 'I', Attack: Attack{Kind: Damage, Damage: 1}, NumAttacks: 1, Defense: 1, Speed: 1, Range: 1, Cost: 3, Rebate: 1, Spawn: true},
	Skeleton:    {Name: "Skeleton", FENChar: 'S', Attack: Attack{Kind: Damage, Damage: 2}, NumAttacks: 1, Defense: 1, Speed: 3, Range: 1, Cost: 3, Rebate: 1},
	Serpent:     {Name: "Serpent", FENChar: 'R', Attack: Attack{Kind: Damage, Damage: 3}, NumAttacks: 1, Defense: 3, Speed: 3, Range: 1, Cost: 4, Rebate: 1, Flying: true},
	Warg:        {Name: "Warg", FENChar: 'W', Attack: Attack{Kind: Damage, Damage: 2}, NumAttacks: 1, Defense: 2, Speed: 4, Range: 1, Cost: 4, Rebate: 1},
	Ghost:       {Name: "Ghost", FENChar: 'G', Attack: Attack{Kind: Damage, Damage: 1}, NumAttacks: 1, Defense: 1, Speed: 3, Range: 1, Cost: 4, Rebate: 1, Flying: true, Persistent: true},
	Wight:       {Name: "Wight", FENChar: 'T', Attack: Attack{Kind: Damage, Damage: 2}, NumAttacks: 2, Defense: 2, Speed: 2, Range: 1, Cost: 5, Rebate: 1},
	Haunt:       {Name: "Haunt", FENChar: 'H', Attack: Attack{Kind: Unsummon}, NumAttacks: 1, Defense: 1, Speed: 2, Range: 1, Cost: 5, Rebate: 1, Flying: true},
	Shrieker:    {Name: "Shrieker", FENChar: 'K', Attack: Attack{Kind: Damage, Damage: 1}, NumAttacks: 3, Defense: 1, Speed: 2, Range: 2, Cost: 5, Rebate: 1, Flying: true},
	Spectre:     {Name: "Spectre", FENChar: 'P', Attack: Attack{Kind: Deathtouch}, NumAttacks: 1, Defense: 1, Speed: 2, Range: 1, Cost: 6, Rebate: 2, Flying: true, Persistent: true},
	Rat:         {Name: "Rat", FENChar: 'A', Attack: Attack{Kind: Damage, Damage: 1}, NumAttacks: 1, Defense: 1, Speed: 2, Range: 1, Cost: 2, Rebate: 0},
	Sorcerer:    {Name: "Sorcerer", FENChar: 'C', Attack: Attack{Kind: Damage, Damage: 1}, NumAttacks: 1, Defense: 2, Speed: 2, Range: 3, Cost: 7, Rebate: 2},
	Vampire:     {Name: "Vampire", FENChar: 'V', Attack: Attack{Kind: Damage, Damage: 2}, NumAttacks: 1, Defense: 2, Speed: 2, Range: 1, Cost: 6, Rebate: 2, Flying: true},
	Mummy:       {Name: "Mummy", FENChar: 'M', Attack: Attack{Kind: Damage, Damage: 2}, NumAttacks: 1, Defense: 4, Speed: 1, Range: 1, Cost: 6, Rebate: 2, Lumbering: true},
	Lich:        {Name: "Lich", FENChar: 'L', Attack: Attack{Kind: Deathtouch}, NumAttacks: 1, Defense: 2, Speed: 2, Range: 2, Cost: 8, Rebate: 3},
	Void:        {Name: "Void", FENChar: 'O', Attack: Attack{Kind: Unsummon}, NumAttacks: 1, Defense: 3, Speed: 1, Range: 1, Cost: 6, Rebate: 2},
	Banshee:     {Name: "Banshee", FENChar: 'B', Attack: Attack{Kind: Damage, Damage: 1}, NumAttacks: 1, Defense: 1, Speed: 2, Range: 3, Cost: 7, Rebate: 2, Flying: true},
	Elemental:   {Name: "Elemental", FENChar: 'E', Attack: Attack{Kind: Damage, Damage: 3}, NumAttacks: 1, Defense: 3, Speed: 2, Range: 1, Cost: 7, Rebate: 2},
	Harpy:       {Name: "Harpy", FENChar: 'Y', Attack: Attack{Kind: Damage, Damage: 2}, NumAttacks: 1, Defense: 1, Speed: 4, Range: 1, Cost: 6, Rebate: 2, Flying: true},
	Shadowlord:  {Name: "Shadowlord", FENChar: 'D', Attack: Attack{Kind: Damage, Damage: 4}, NumAttacks: 1, Defense: 5, Speed: 2, Range: 1, Cost: 10, Rebate: 3, Flying: true, Persistent: true},
	Necromancer: {Name: "Necromancer", FENChar: 'N', Attack: Attack{Kind: Deathtouch}, NumAttacks: 1, Defense: 7, Speed: 1, Range: 2, Cost: 0, Rebate: 0, Necromancer: true, Spawn: true},
}

func init() {
	for l := Label(0); l < NumLabels; l++ {
		d := table[l]
		d.Label = l
		if d.Value == 0 {
			if d.Necromancer {
				// Overriding bonus so unit_value(necromancer) dominates
				// every other term in the combat objective (spec.md sec
				// 4.3.4): the instant-win rule.
				d.Value = 1000
			} else {
				d.Value = d.Cost + d.Rebate
			}
		}
		table[l] = d
	}
}

// Get returns the immutable definition for a label.
func Get(l Label) *Def {
	return &table[l]
}

// ByFENChar looks up a unit by its FEN letter (case-insensitive; the case
// itself encodes side and is handled by the caller).
func ByFENChar(c byte) (Label, error) {
	upper := c
	if upper >= 'a' && upper <= 'z' {
		upper -= 'a' - 'A'
	}
	for l := Label(0); l < NumLabels; l++ {
		if table[l].FENChar == upper {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unit: unknown FEN letter %q", string(c))
}

// Value returns unit_value(label) as used by the evaluator (spec.md sec
// 4.2) and the combat solver's objective (spec.md sec 4.3.4).
func Value(l Label) int {
	return table[l].Value
}

// CountersOf reports whether counterer counters countered, using the
// relation from spec.md sec 4.5: "unit i counters i-1, i-2, i+3".
func CountersOf(counterer, countered Label) bool {
	i := int(countered)
	c := int(counterer)
	return c == i-1 || c == i-2 || c == i+3
}

// All returns every purchasable (non-necromancer) label in ascending
// cost order, ties broken by Label, matching the spawn heuristic's
// "ascending cost order" purchase loop (spec.md sec 4.5).
func All() []Label {
	labels := make([]Label, 0, NumLabels-1)
	for l := Label(0); l < NumLabels; l++ {
		if !table[l].Necromancer {
			labels = append(labels, l)
		}
	}
	// table is not cost-ascending in Label order, so an insertion sort
	// orders it by cost, stable on Label.
	for i := 1; i < len(labels); i++ {
		for j := i; j > 0 && table[labels[j]].Cost < table[labels[j-1]].Cost; j-- {
			labels[j], labels[j-1] = labels[j-1], labels[j]
		}
	}
	return labels
}
