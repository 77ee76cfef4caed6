package kernel

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/tech"
)

// ApplyTurn validates and applies a full GameTurn to gs, returning a new
// State. gs itself is never mutated: on any error the returned state is
// nil and the caller's gs remains exactly as it was (spec.md sec 7,
// "on any failure the game state is left unchanged").
//
// End-of-turn resolution runs in the fixed order of spec.md sec 4.1:
// income, then board wins for the mover, then a game-win check for the
// mover, then board losses, then a game-win check for the opponent,
// then board state transitions.
func ApplyTurn(gs *game.State, turn *game.Turn) (*game.State, error) {
	if len(turn.BoardTurns) != len(gs.Boards) {
		return nil, game.NewParseError("turn has %d board turns, game has %d boards", len(turn.BoardTurns), len(gs.Boards))
	}
	ns := gs.Copy()
	mover := ns.SideToMove

	if err := applyTechAssignment(ns, mover, turn); err != nil {
		return nil, err
	}
	for i, bt := range turn.BoardTurns {
		if err := applyBoardTurn(ns, ns.Boards[i], mover, bt); err != nil {
			return nil, err
		}
	}
	for i := range turn.Resigns {
		if i < 0 || i >= len(ns.Boards) {
			return nil, game.NewIllegalAction("no board %d to resign", i)
		}
	}

	ns.Money.Set(mover, ns.Money.Get(mover)+totalIncome(ns, mover))

	winsForSide(ns, mover)
	if _, over := ns.Winner(); !over {
		for _, sd := range []side.Side{side.S0, side.S1} {
			lossesForSide(ns, sd, turn)
		}
		if _, over := ns.Winner(); !over {
			for _, b := range ns.Boards {
				advanceResetState(b, mover)
			}
		}
	}

	ns.SideToMove = mover.Other()
	return ns, nil
}

func totalIncome(gs *game.State, s side.Side) int {
	total := 0
	for _, b := range gs.Boards {
		if b.Winner != nil {
			continue
		}
		total += BoardIncome(b, s)
	}
	return total
}

// winsForSide credits winner with every board where the opponent's
// necromancer is missing and the board has not already been settled.
func winsForSide(gs *game.State, winner side.Side) {
	for _, b := range gs.Boards {
		if b.Winner != nil {
			continue
		}
		if _, alive := b.NecromancerLoc(winner.Other()); alive {
			continue
		}
		if len(b.Pieces) == 0 {
			continue // a freshly reset or never-populated board, not a kill
		}
		w := winner
		b.Winner = &w
		gs.BoardPoints.Set(winner, gs.BoardPoints.Get(winner)+1)
		resetBoard(b, winner.Other())
	}
}

// lossesForSide checks loser's own boards for the two loss conditions of
// spec.md sec 4.1 -- eight or more enemy-held graveyards, or an explicit
// resign -- and, if triggered, credits the opponent with the board.
func lossesForSide(gs *game.State, loser side.Side, turn *game.Turn) {
	for i, b := range gs.Boards {
		if b.Winner != nil {
			continue
		}
		resigned := loser == gs.SideToMove && turn.Resigns[i]
		if b.EnemyGraveyardCount(loser) >= 8 || resigned {
			winner := loser.Other()
			w := winner
			b.Winner = &w
			gs.BoardPoints.Set(winner, gs.BoardPoints.Get(winner)+1)
			resetBoard(b, loser)
		}
	}
}

// applyTechAssignment spends spells on techline cards, per spec.md sec
// 4.7: the first spell spent this turn is free and each one after it
// costs SpellCost, so k spells cost SpellCost*(k-1) in total; a Locked card is Unlocked, an Unlocked card already
// carrying this side's spell is Acquired, unless the opponent already
// holds it Acquired.
func applyTechAssignment(gs *game.State, s side.Side, turn *game.Turn) error {
	if len(turn.TechAssignment) == 0 {
		return nil
	}
	cost := SpellCost * (len(turn.TechAssignment) - 1)
	if cost > gs.Money.Get(s) {
		return game.NewInsufficientMoney("tech assignment costs %d, %v has %d", cost, s, gs.Money.Get(s))
	}
	status := gs.TechStatus.Get(s)
	oppStatus := gs.TechStatus.Get(s.Other())
	for _, idx := range turn.TechAssignment {
		if idx < 0 || idx >= len(status) {
			return game.NewIllegalAction("no tech card %d", idx)
		}
		switch status[idx] {
		case tech.Locked:
			status[idx] = tech.Unlocked
		case tech.Unlocked:
			if oppStatus[idx] == tech.Acquired {
				return game.NewIllegalAction("tech card %d is already acquired by %v", idx, s.Other())
			}
			status[idx] = tech.Acquired
		case tech.Acquired:
			return game.NewIllegalAction("tech card %d is already acquired", idx)
		}
	}
	gs.Money.Set(s, gs.Money.Get(s)-cost)
	return nil
}

func applyBoardTurn(gs *game.State, b *board.Board, s side.Side, bt game.BoardTurn) error {
	if b.ResetSide != nil && *b.ResetSide == s {
		switch b.BoardState {
		case board.Reset0:
			if len(bt.Setup) != 0 || len(bt.Attack) != 0 || len(bt.Spawn) != 0 {
				return game.NewIllegalAction("board is in reset0: %v must pass", s)
			}
		case board.Reset1:
			if len(bt.Spawn) != 0 {
				return game.NewIllegalAction("board is in reset1: %v may not spawn", s)
			}
		}
	}
	for _, a := range bt.Setup {
		if err := applySetup(b, s, a); err != nil {
			return err
		}
	}
	for _, a := range bt.Attack {
		rebate, err := applyAttack(b, s, a)
		if err != nil {
			return err
		}
		if rebate != 0 {
			gs.Money.Set(s.Other(), gs.Money.Get(s.Other())+rebate)
		}
	}
	for _, a := range bt.Spawn {
		if err := applySpawn(gs, b, s, a); err != nil {
			return err
		}
	}
	return nil
}
