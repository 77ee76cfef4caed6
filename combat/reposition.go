package combat

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/side"
)

// exactAssignmentLimit bounds when Reposition solves the assignment
// problem exactly (permutation search) versus falling back to a greedy
// nearest-first matching, per spec.md sec 4.4 ("exact for small n,
// greedy approximation otherwise"). 8! = 40320 permutations is the
// largest brute force this planner is willing to try per board turn.
const exactAssignmentLimit = 8

// Reassignment is one piece's proposed destination hex from the
// repositioning solver.
type Reassignment struct {
	From board.Loc
	To   board.Loc
}

// Reposition assigns every one of s's pieces that neither attacked nor
// moved this turn to an available hex, minimizing total hex distance to
// the nearest graveyard the board doesn't already have that piece
// standing on -- the assignment problem of spec.md sec 4.4. The cost
// matrix itself is a gonum mat.Dense, though the solver below is a
// direct permutation/greedy search rather than a library LAP routine, as
// DESIGN.md records.
func Reposition(b *board.Board, s side.Side) []Reassignment {
	var movable []*board.Piece
	for _, p := range b.PiecesOf(s) {
		if !p.Modifiers.HasMoved && !p.Modifiers.HasAttacked() && !p.Def().Lumbering {
			movable = append(movable, p)
		}
	}
	if len(movable) == 0 {
		return nil
	}
	targets := targetHexes(b, s, len(movable))
	if len(targets) == 0 {
		return nil
	}

	n := len(movable)
	m := len(targets)
	cost := mat.NewDense(n, m, nil)
	for i, p := range movable {
		dests := kernelReachable(b, p)
		for j, t := range targets {
			d := bestReachDistance(dests, t)
			cost.Set(i, j, float64(d))
		}
	}

	var assign []int // assign[i] = index into targets, or -1
	if n <= exactAssignmentLimit && m <= exactAssignmentLimit {
		assign = assignExact(cost, n, m)
	} else {
		assign = assignGreedy(cost, n, m)
	}

	var out []Reassignment
	for i, j := range assign {
		if j < 0 {
			continue
		}
		dest := bestReachHex(kernelReachable(b, movable[i]), targets[j])
		if dest == movable[i].Loc {
			continue
		}
		out = append(out, Reassignment{From: movable[i].Loc, To: dest})
	}
	return out
}

// targetHexes ranks candidate destination hexes -- graveyards not
// already held by s -- by proximity to the board centre, capped to at
// most k so the assignment matrix stays small.
func targetHexes(b *board.Board, s side.Side, k int) []board.Loc {
	var out []board.Loc
	for _, g := range b.Map.Graveyards() {
		if p := b.PieceAt(g); p != nil && p.Side == s {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Dist(centerLoc()) < out[j].Dist(centerLoc())
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func centerLoc() board.Loc {
	return board.NewLoc(board.Dim/2, board.Dim/2)
}

func kernelReachable(b *board.Board, p *board.Piece) []board.Loc {
	def := p.Def()
	blocked := func(l board.Loc) bool {
		other := b.PieceAt(l)
		return other != nil && other.Side != p.Side
	}
	return b.Reachable(p.Loc, def.Speed, def.Flying, blocked)
}

func bestReachDistance(dests []board.Loc, target board.Loc) int {
	best := -1
	for _, d := range dests {
		dist := d.Dist(target)
		if best < 0 || dist < best {
			best = dist
		}
	}
	return best
}

func bestReachHex(dests []board.Loc, target board.Loc) board.Loc {
	var best board.Loc
	bestDist := -1
	for _, d := range dests {
		dist := d.Dist(target)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = d
		}
	}
	return best
}

// assignExact brute-forces every injective assignment of the n rows into
// m columns (n <= exactAssignmentLimit) and returns the one minimizing
// total cost; when n > m, any n-m of the rows may be the ones left
// unassigned (-1).
func assignExact(cost *mat.Dense, n, m int) []int {
	cols := make([]int, m)
	for i := range cols {
		cols[i] = i
	}
	best := make([]int, n)
	for i := range best {
		best[i] = -1
	}
	bestTotal := -1.0

	var perm func(remaining []int, chosen []int)
	perm = func(remaining []int, chosen []int) {
		if len(chosen) == n {
			total := 0.0
			for i, j := range chosen {
				if j < 0 {
					continue
				}
				total += cost.At(i, j)
			}
			if bestTotal < 0 || total < bestTotal {
				bestTotal = total
				copy(best, chosen)
			}
			return
		}
		row := len(chosen)
		if n-row > len(remaining) {
			// more movers left than free targets: this row may go unassigned.
			perm(remaining, append(append([]int{}, chosen...), -1))
		}
		for i, c := range remaining {
			rest := make([]int, 0, len(remaining)-1)
			rest = append(rest, remaining[:i]...)
			rest = append(rest, remaining[i+1:]...)
			perm(rest, append(append([]int{}, chosen...), c))
		}
	}
	perm(cols, nil)
	return best
}

// assignGreedy repeatedly picks the globally cheapest unused (row,
// column) pair -- an approximation, not an optimal assignment, but O(nm
// log nm) and good enough once n or m is too large to brute force.
func assignGreedy(cost *mat.Dense, n, m int) []int {
	type pair struct {
		i, j int
		c    float64
	}
	var pairs []pair
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			pairs = append(pairs, pair{i, j, cost.At(i, j)})
		}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].c < pairs[b].c })

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	usedRow := make([]bool, n)
	usedCol := make([]bool, m)
	for _, p := range pairs {
		if usedRow[p.i] || usedCol[p.j] {
			continue
		}
		assign[p.i] = p.j
		usedRow[p.i] = true
		usedCol[p.j] = true
	}
	return assign
}
