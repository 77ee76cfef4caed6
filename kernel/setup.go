package kernel

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

// LegalSetup enumerates the SetupAction choices open to s on b this turn.
// It is empty for a Normal board and for any board not currently
// constraining s (spec.md sec 4.1: "legal_setup ... enumerates
// necromancer choices and save-unit choices when the board is in Reset1
// or Reset2, and is empty otherwise").
func LegalSetup(b *board.Board, s side.Side) []game.SetupAction {
	if b.ResetSide == nil || *b.ResetSide != s {
		return nil
	}
	switch b.BoardState {
	case board.Reset1:
		if _, alive := b.NecromancerLoc(s); alive {
			return nil
		}
		return []game.SetupAction{{Kind: game.ChooseNecromancer, Unit: unit.Necromancer}}
	case board.Reset2:
		var out []game.SetupAction
		for label, n := range b.Reinforcements.Get(s) {
			if n > 0 {
				out = append(out, game.SetupAction{Kind: game.SaveUnit, Unit: label})
			}
		}
		return out
	default:
		return nil
	}
}

// applySetup mutates b for one SetupAction submitted by s, enforcing the
// same restrictions LegalSetup would report, plus the free-form
// Add/Remove/Reset editing actions used outside the reset cycle (e.g. by
// a UMI "position" edit or the perft harness).
func applySetup(b *board.Board, s side.Side, a game.SetupAction) error {
	switch a.Kind {
	case game.ChooseNecromancer:
		if b.ResetSide == nil || *b.ResetSide != s || b.BoardState != board.Reset1 {
			return game.NewIllegalAction("choose_necromancer is only legal during this side's Reset1 turn")
		}
		if _, alive := b.NecromancerLoc(s); alive {
			return game.NewIllegalAction("%v already has a necromancer on this board", s)
		}
		loc := board.StartLoc(s == side.S0)
		if b.PieceAt(loc) != nil {
			return game.NewIllegalAction("start hex %v is occupied", loc)
		}
		return b.Place(&board.Piece{Loc: loc, Label: unit.Necromancer, Side: s})
	case game.SaveUnit:
		if b.ResetSide == nil || *b.ResetSide != s || b.BoardState != board.Reset2 {
			return game.NewIllegalAction("save_unit is only legal during this side's Reset2 turn")
		}
		if !b.Reinforcements.Get(s).Take(a.Unit) {
			return game.NewIllegalAction("%v has no %v in reinforcements to save", s, unit.Get(a.Unit).Name)
		}
		b.Reinforcements.Get(s).Add(a.Unit, 1)
		return nil
	case game.AddPiece:
		if b.PieceAt(a.Loc) != nil {
			return game.NewIllegalAction("%v is occupied", a.Loc)
		}
		return b.Place(&board.Piece{Loc: a.Loc, Label: a.Unit, Side: s})
	case game.RemovePiece:
		if b.PieceAt(a.Loc) == nil {
			return game.NewIllegalAction("%v is empty", a.Loc)
		}
		b.Remove(a.Loc)
		return nil
	case game.ResetBoard:
		resetBoard(b, s)
		return nil
	default:
		return game.NewIllegalAction("unknown setup action kind %d", a.Kind)
	}
}
