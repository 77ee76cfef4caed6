package kernel

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
)

// ApplyMove and ApplyElementaryAttack expose the same per-action
// mutators ApplyTurn uses internally, so the combat and spawn planners
// (spec.md sec 4.3, sec 4.5) can simulate candidate plans on a scratch
// board.Copy() with exactly the resolution semantics the eventual
// ApplyTurn call will re-validate. They discard the rebate delta
// applyAttack reports -- these scratch simulations never own a
// *game.State to credit it to.
func ApplyMove(b *board.Board, s side.Side, from, to board.Loc) error {
	_, err := applyAttack(b, s, game.AttackAction{Kind: game.Move, From: from, To: to})
	return err
}

func ApplyElementaryAttack(b *board.Board, s side.Side, attacker, target board.Loc) error {
	_, err := applyAttack(b, s, game.AttackAction{Kind: game.Attack, Attacker: attacker, Target: target})
	return err
}
