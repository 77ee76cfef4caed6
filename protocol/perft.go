package protocol

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/kernel"
	"github.com/domino14/spooky/side"
)

// Perft counts the leaf nodes of the attack-phase action tree for side s
// on b to the given depth: at each ply, every legal move and every legal
// elementary attack is a branch, and an exhausted branch (no legal
// action left) counts as one leaf, the standard movegen correctness
// harness borrowed from chess engines and grounded on the teacher's own
// perft-style movegen tests.
func Perft(b *board.Board, s side.Side, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var total uint64
	for _, atk := range kernel.LegalAttacks(b, s) {
		work := b.Copy()
		if err := kernel.ApplyElementaryAttack(work, s, atk.Attacker, atk.Target); err == nil {
			total += Perft(work, s, depth-1)
		}
	}
	for _, mv := range legalMoves(b, s) {
		work := b.Copy()
		if err := kernel.ApplyMove(work, s, mv.from, mv.to); err == nil {
			total += Perft(work, s, depth-1)
		}
	}
	if total == 0 {
		return 1
	}
	return total
}

type move struct{ from, to board.Loc }

func legalMoves(b *board.Board, s side.Side) []move {
	var out []move
	for _, p := range b.PiecesOf(s) {
		if p.Modifiers.Frozen {
			continue
		}
		for _, dest := range kernel.ReachableDestinations(b, p) {
			if dest != p.Loc {
				out = append(out, move{from: p.Loc, to: dest})
			}
		}
	}
	return out
}
