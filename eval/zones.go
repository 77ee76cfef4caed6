package eval

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/side"
)

// zoneLookahead bounds how many turns of enemy movement a coverage check
// projects forward, and retentionDiscount is the per-turn devaluation
// applied to graveyard income when compounding an eviction probability
// into an expected-income annuity.
const (
	zoneLookahead      = 3
	retentionDiscount  = 0.9
	CNecromancerSafety = 15.0
)

// hexZoneKind classifies how defensible a hex is for whichever side (or
// sides) it names, mirroring the Contested/Covered/Protected/Open
// taxonomy.
type hexZoneKind int

const (
	zoneOpen hexZoneKind = iota
	zoneContested
	zoneCovered
	zoneProtected
)

type hexZone struct {
	kind hexZoneKind
	side side.Side // meaningful only for zoneCovered/zoneProtected
}

// zoneAnalysis is a precomputed classification of every hex on a single
// board, built once per evaluator call and consulted for graveyard
// income and necromancer-safety terms.
type zoneAnalysis struct {
	attackReach side.Array[map[board.Loc]bool]
	spawnReach  side.Array[map[board.Loc]bool]
	covered     side.Array[map[board.Loc]bool]
	protected   side.Array[map[board.Loc]bool]
	zones       map[board.Loc]hexZone
}

// computeZoneAnalysis builds the full zone picture for b: which hexes
// each side threatens in one move, which it can reinforce by spawning,
// which it can defend a threat against ("covered"), and which sit behind
// a wall of covered hexes ("protected").
func computeZoneAnalysis(b *board.Board) *zoneAnalysis {
	za := &zoneAnalysis{}
	za.attackReach = side.NewArray(attackReach(b, side.S0), attackReach(b, side.S1))
	za.spawnReach = side.NewArray(spawnReach(b, side.S0), spawnReach(b, side.S1))
	za.covered = side.NewArray(computeCovered(b, side.S0, za), computeCovered(b, side.S1, za))
	za.protected = side.NewArray(computeProtected(b, side.S0, za), computeProtected(b, side.S1, za))
	za.zones = classifyHexes(za)
	return za
}

// attackReach is every hex s's pieces can move into and then strike,
// expanding each piece's Reachable set outward by its attack range.
func attackReach(b *board.Board, s side.Side) map[board.Loc]bool {
	reach := map[board.Loc]bool{}
	for _, p := range b.PiecesOf(s) {
		def := p.Def()
		blocked := func(l board.Loc) bool {
			other := b.PieceAt(l)
			return other != nil && other.Side != p.Side
		}
		frontier := map[board.Loc]bool{}
		for _, l := range b.Reachable(p.Loc, def.Speed, def.Flying, blocked) {
			frontier[l] = true
			reach[l] = true
		}
		for i := 0; i < def.Range; i++ {
			frontier = expandOneRing(frontier, reach)
		}
	}
	return reach
}

// spawnReach is every hex within two hex-steps of one of s's spawners,
// the range at which a freshly bought unit could plausibly reinforce.
func spawnReach(b *board.Board, s side.Side) map[board.Loc]bool {
	reach := map[board.Loc]bool{}
	for _, p := range b.PiecesOf(s) {
		if !p.Def().Spawn {
			continue
		}
		frontier := map[board.Loc]bool{p.Loc: true}
		reach[p.Loc] = true
		for i := 0; i < 2; i++ {
			frontier = expandOneRing(frontier, reach)
		}
	}
	return reach
}

func expandOneRing(frontier map[board.Loc]bool, reach map[board.Loc]bool) map[board.Loc]bool {
	next := map[board.Loc]bool{}
	for l := range frontier {
		for _, n := range l.Neighbors() {
			if !n.InBounds() {
				continue
			}
			next[n] = true
			reach[n] = true
		}
	}
	return next
}

// computeCovered finds every hex s can respond to a threat against
// within one turn less than the enemy needs to arrive: an enemy piece
// projected forward zoneLookahead turns (using the fastest enemy speed
// on the board, an over-approximation) that lands somewhere outside s's
// current attack-or-spawn reach makes that hex uncoverable.
func computeCovered(b *board.Board, s side.Side, za *zoneAnalysis) map[board.Loc]bool {
	enemy := s.Other()

	maxSpeed, anyFlying := 0, false
	reached := map[board.Loc]bool{}
	for _, p := range b.PiecesOf(enemy) {
		reached[p.Loc] = true
		if p.Def().Speed > maxSpeed {
			maxSpeed = p.Def().Speed
		}
		if p.Def().Flying {
			anyFlying = true
		}
	}
	passable := func(l board.Loc) bool {
		return anyFlying || b.Map.TileAt(l) != board.Water
	}

	defenseBase := unionLocs(za.attackReach.Get(s), za.spawnReach.Get(s))
	uncoverable := map[board.Loc]bool{}
	for k := 0; k < zoneLookahead; k++ {
		reached = expandRings(reached, maxSpeed, passable)
		for l := range reached {
			if !defenseBase[l] {
				uncoverable[l] = true
			}
		}
	}

	covered := map[board.Loc]bool{}
	for row := 0; row < board.Dim; row++ {
		for col := 0; col < board.Dim; col++ {
			l := board.NewLoc(col, row)
			if !uncoverable[l] {
				covered[l] = true
			}
		}
	}
	return covered
}

// expandRings grows start outward by up to steps hex-rings, honoring
// passable, and returns the union of every hex touched along the way
// (start included) -- the enemy-reachability horizon computeCovered
// projects one turn (one call) at a time.
func expandRings(start map[board.Loc]bool, steps int, passable func(board.Loc) bool) map[board.Loc]bool {
	reach := map[board.Loc]bool{}
	for l := range start {
		reach[l] = true
	}
	frontier := start
	for i := 0; i < steps; i++ {
		next := map[board.Loc]bool{}
		for l := range frontier {
			for _, n := range l.Neighbors() {
				if !n.InBounds() || !passable(n) || reach[n] {
					continue
				}
				next[n] = true
				reach[n] = true
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return reach
}

// computeProtected floods outward from s's own pieces, only through
// hexes s covers, so a hex only counts as protected once an enemy would
// have to cross s's defended ground to reach it.
func computeProtected(b *board.Board, s side.Side, za *zoneAnalysis) map[board.Loc]bool {
	covered := za.covered.Get(s)
	protected := map[board.Loc]bool{}
	frontier := map[board.Loc]bool{}
	for _, p := range b.PiecesOf(s) {
		frontier[p.Loc] = true
		protected[p.Loc] = true
	}
	for i := 0; i < 10; i++ {
		next := map[board.Loc]bool{}
		for l := range frontier {
			for _, n := range l.Neighbors() {
				if !n.InBounds() || !covered[n] || protected[n] {
					continue
				}
				next[n] = true
			}
		}
		if len(next) == 0 {
			break
		}
		for l := range next {
			protected[l] = true
		}
		frontier = next
	}
	return protected
}

func classifyHexes(za *zoneAnalysis) map[board.Loc]hexZone {
	zones := make(map[board.Loc]hexZone, board.Dim*board.Dim)
	for row := 0; row < board.Dim; row++ {
		for col := 0; col < board.Dim; col++ {
			l := board.NewLoc(col, row)
			s0Protected, s1Protected := za.protected.Get(side.S0)[l], za.protected.Get(side.S1)[l]
			s0Covered, s1Covered := za.covered.Get(side.S0)[l], za.covered.Get(side.S1)[l]
			s0Attack, s1Attack := za.attackReach.Get(side.S0)[l], za.attackReach.Get(side.S1)[l]

			switch {
			case s0Protected && !s1Covered:
				zones[l] = hexZone{zoneProtected, side.S0}
			case s1Protected && !s0Covered:
				zones[l] = hexZone{zoneProtected, side.S1}
			case s0Attack && s1Attack:
				zones[l] = hexZone{kind: zoneContested}
			case s0Covered && !s1Covered:
				zones[l] = hexZone{zoneCovered, side.S0}
			case s1Covered && !s0Covered:
				zones[l] = hexZone{zoneCovered, side.S1}
			default:
				zones[l] = hexZone{kind: zoneOpen}
			}
		}
	}
	return zones
}

func unionLocs(a, b map[board.Loc]bool) map[board.Loc]bool {
	out := make(map[board.Loc]bool, len(a)+len(b))
	for l := range a {
		out[l] = true
	}
	for l := range b {
		out[l] = true
	}
	return out
}

func (za *zoneAnalysis) zoneAt(l board.Loc) hexZone {
	if z, ok := za.zones[l]; ok {
		return z
	}
	return hexZone{kind: zoneOpen}
}

// evictionProbability is the per-turn chance s loses a piece standing on
// l, derived from how defensible the hex is for s.
func (za *zoneAnalysis) evictionProbability(l board.Loc, s side.Side) float64 {
	z := za.zoneAt(l)
	switch {
	case z.kind == zoneProtected && z.side == s:
		return 0.02
	case z.kind == zoneCovered && z.side == s:
		return 0.08
	case z.kind == zoneContested:
		return 0.25
	case z.kind == zoneCovered && z.side != s:
		return 0.55
	case z.kind == zoneProtected && z.side != s:
		return 0.70
	default:
		return 0.40
	}
}

// expectedGraveyardIncome discounts a graveyard's per-turn income by how
// likely s is to be evicted before collecting it: retention compounds a
// 10%-per-turn devaluation with the survival probability into a
// perpetuity value income/(1-retention).
func (za *zoneAnalysis) expectedGraveyardIncome(l board.Loc, s side.Side, incomePerTurn float64) float64 {
	retention := retentionDiscount * (1 - za.evictionProbability(l, s))
	if retention >= 1.0 {
		return incomePerTurn * 20.0
	}
	return incomePerTurn / (1 - retention)
}

// necromancerSafetyMultiplier scores how exposed a necromancer standing
// on l is, from -0.6 (inside enemy-protected territory) to +1 (behind its
// own side's protection).
func necromancerSafetyMultiplier(za *zoneAnalysis, l board.Loc, s side.Side) float64 {
	z := za.zoneAt(l)
	switch {
	case z.kind == zoneProtected && z.side == s:
		return 1.0
	case z.kind == zoneCovered && z.side == s:
		return 0.7
	case z.kind == zoneContested:
		return 0.3
	case z.kind == zoneCovered && z.side != s:
		return -0.3
	case z.kind == zoneProtected && z.side != s:
		return -0.6
	default:
		return 0.0
	}
}

// zoneValue folds one board's graveyard-income and necromancer-safety
// zone terms into a single s-favors-positive differential, added
// alongside the plain material terms in D.
func zoneValue(b *board.Board, s side.Side) float64 {
	za := computeZoneAnalysis(b)
	total := 0.0

	for _, g := range b.Map.Graveyards() {
		occupant := b.PieceAt(g)
		if occupant == nil {
			continue
		}
		income := za.expectedGraveyardIncome(g, occupant.Side, 1.0)
		if occupant.Side == s {
			total += income
		} else {
			total -= income
		}
	}

	for _, sd := range []side.Side{side.S0, side.S1} {
		for _, p := range b.PiecesOf(sd) {
			if !p.Def().Necromancer {
				continue
			}
			multiplier := necromancerSafetyMultiplier(za, p.Loc, sd)
			if sd == s {
				total += CNecromancerSafety * multiplier
			} else {
				total -= CNecromancerSafety * multiplier
			}
		}
	}

	return total
}
