package board

import "fmt"

// TileType is the terrain of a single hex.
type TileType uint8

const (
	Land TileType = iota
	Water
	Graveyard
)

// StartLoc returns the fixed necromancer starting hex for a side, per
// spec.md sec 3 ("c2, h7, and all neighbours are Land"): S0 starts on
// c2, S1 on h7, the two hexes being 180-degree rotations of each other.
func StartLoc(s0 bool) Loc {
	if s0 {
		return NewLoc(2, 2) // c2
	}
	return NewLoc(7, 7) // h7
}

// Map is an immutable terrain assignment, shared by pointer (a fixed-size
// tile array plus a cached graveyard list) across every Board that plays
// on it, exactly
// as the teacher's board.GameBoard shares an immutable BoardLayout.
type Map struct {
	tiles [Dim * Dim]TileType
	// graveyards is a cached list of every Graveyard hex, in scan order.
	graveyards []Loc
}

func idx(l Loc) int { return l.Row*Dim + l.Col }

// TileAt returns the terrain at l. l must be in bounds.
func (m *Map) TileAt(l Loc) TileType {
	return m.tiles[idx(l)]
}

// Graveyards returns every graveyard hex on the map.
func (m *Map) Graveyards() []Loc {
	return m.graveyards
}

// validate checks the invariants from spec.md sec 3: exactly 10
// graveyards, pairwise non-adjacent; c2, h7 and their neighbours Land.
func (m *Map) validate() error {
	if len(m.graveyards) != 10 {
		return fmt.Errorf("board: map has %d graveyards, want 10", len(m.graveyards))
	}
	for i, a := range m.graveyards {
		for j, b := range m.graveyards {
			if i != j && a.IsAdjacent(b) {
				return fmt.Errorf("board: graveyards %v and %v are adjacent", a, b)
			}
		}
	}
	for _, s0 := range []bool{true, false} {
		start := StartLoc(s0)
		if m.TileAt(start) != Land {
			return fmt.Errorf("board: start hex %v is not Land", start)
		}
		for _, n := range start.Neighbors() {
			if m.TileAt(n) != Land {
				return fmt.Errorf("board: start-adjacent hex %v is not Land", n)
			}
		}
	}
	return nil
}

// reserved returns the set of hexes that must stay Land: the two start
// hexes and their neighbourhoods.
func reserved() map[Loc]bool {
	r := map[Loc]bool{}
	for _, s0 := range []bool{true, false} {
		start := StartLoc(s0)
		r[start] = true
		for _, n := range start.Neighbors() {
			r[n] = true
		}
	}
	return r
}

// NewDefaultMap builds the standard tournament map: a 10x10 rhombus with
// exactly 10 pairwise non-adjacent graveyards placed symmetrically under
// a 180-degree rotation about the board centre, with no water. The
// placement is a deterministic greedy scan, not a hand-picked layout, so
// the invariants in validate() are enforced by construction and checked
// again defensively.
func NewDefaultMap() *Map {
	m := &Map{}
	res := reserved()
	placed := map[Loc]bool{}

	tooClose := func(l Loc) bool {
		for p := range placed {
			if l.Dist(p) < 2 {
				return true
			}
		}
		return false
	}

	for row := 0; row < Dim && len(m.graveyards) < 10; row++ {
		for col := 0; col < Dim && len(m.graveyards) < 10; col++ {
			l := NewLoc(col, row)
			r := l.Rotate180()
			if l == r {
				continue // even dimension, never self-symmetric
			}
			// Canonicalize on one half of the rhombus so each rotation
			// pair is only considered once, in a fixed scan order.
			if !(row < Dim/2 || (row == Dim/2 && col < Dim/2)) {
				continue
			}
			if res[l] || res[r] || placed[l] || placed[r] {
				continue
			}
			if tooClose(l) || tooClose(r) {
				continue
			}
			placed[l] = true
			placed[r] = true
			m.graveyards = append(m.graveyards, l, r)
		}
	}

	for i := range m.tiles {
		m.tiles[i] = Land
	}
	for _, g := range m.graveyards {
		m.tiles[idx(g)] = Graveyard
	}
	if err := m.validate(); err != nil {
		// A construction bug in the generator above, not a runtime
		// condition callers can react to.
		panic(err)
	}
	return m
}

// NewMapFromTiles builds a Map from an explicit Dim*Dim terrain grid, in
// row-major order, validating the same invariants NewDefaultMap enforces
// by construction. Used by tests and by FEN-adjacent tooling that wants
// a non-default map.
func NewMapFromTiles(tiles [Dim * Dim]TileType) (*Map, error) {
	m := &Map{tiles: tiles}
	for i, t := range tiles {
		if t == Graveyard {
			m.graveyards = append(m.graveyards, Loc{Col: i % Dim, Row: i / Dim})
		}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}
