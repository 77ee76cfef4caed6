// Package node implements the three decision layers spec.md sec 4.6-4.8
// stack on top of the pure kernel: a per-board turn generator, a
// per-general (money/tech) decision layer, and the blotto money split
// between them.
package node

import (
	"time"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/combat"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/kernel"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/spawn"
	"github.com/domino14/spooky/zobrist"
)

// PlanCache is the subset of *store.PlanCache a BoardNode needs. It is
// declared here, not imported from store, so this package doesn't have
// to depend on database/sql or modernc.org/sqlite just to expand a
// board's turn; store.PlanCache satisfies it without either side naming
// the other's concrete type.
type PlanCache interface {
	Lookup(hash uint64) (*combat.Plan, bool)
	Store(hash uint64, plan *combat.Plan)
}

// BoardNode expands a candidate BoardTurn for one board: setup, then
// combat, then repositioning, then spawn, matching the fixed phase order
// of spec.md sec 4.6.
type BoardNode struct {
	CombatBudget time.Duration

	// Cache and Zobrist are optional; when both are set, Expand consults
	// Cache before calling combat.Solve and records the result under the
	// board's Zobrist hash (SPEC_FULL.md's "cached combat plan set").
	Cache   PlanCache
	Zobrist *zobrist.Table
}

// NewBoardNode returns a BoardNode with the given combat solver budget
// and no plan cache.
func NewBoardNode(combatBudget time.Duration) *BoardNode {
	return &BoardNode{CombatBudget: combatBudget}
}

// NewCachedBoardNode returns a BoardNode that consults cache (keyed via
// z.HashBoard) before running the combat solver.
func NewCachedBoardNode(combatBudget time.Duration, cache PlanCache, z *zobrist.Table) *BoardNode {
	return &BoardNode{CombatBudget: combatBudget, Cache: cache, Zobrist: z}
}

// Expand builds one BoardTurn for s on gs.Boards[boardIdx], spending at
// most spawnMoney (this board's share of node.Blotto's split) on
// reinforcements. It works on a scratch clone of the board so that later
// phases (spawn) see the board state combat left behind, without
// mutating gs itself -- the caller (a GeneralNode or the MCTS driver) is
// responsible for actually committing the result via kernel.ApplyTurn.
func (n *BoardNode) Expand(gs *game.State, boardIdx int, s side.Side, spawnMoney int) game.BoardTurn {
	b := gs.Boards[boardIdx]
	turn := game.BoardTurn{}

	for _, a := range kernel.LegalSetup(b, s) {
		turn.Setup = append(turn.Setup, a)
	}

	work := b.Copy()
	for _, a := range turn.Setup {
		_ = applySetupToScratch(work, s, a)
	}

	cached := n.Cache != nil && n.Zobrist != nil
	var hash uint64
	var plan *combat.Plan
	if cached {
		hash = n.Zobrist.HashBoard(work, s)
		plan, _ = n.Cache.Lookup(hash)
	}
	if plan == nil {
		if solved, err := combat.Solve(work, s, n.CombatBudget); err == nil {
			plan = solved
			if cached {
				n.Cache.Store(hash, plan)
			}
		}
	}
	if plan != nil {
		turn.Attack = append(turn.Attack, plan.Actions...)
		for _, a := range plan.Actions {
			applyAttackToScratch(work, s, a)
		}
	}

	for _, r := range combat.Reposition(work, s) {
		mv := game.AttackAction{Kind: game.Move, From: r.From, To: r.To}
		turn.Attack = append(turn.Attack, mv)
		_ = work.Move(r.From, r.To)
	}

	splan := spawn.Propose(work, s, spawnMoney, gs.Config.Techline, gs.TechStatus.Get(s))
	turn.Spawn = append(turn.Spawn, splan.Actions...)

	return turn
}

// applySetupToScratch mirrors kernel's unexported setup application just
// closely enough to keep the scratch board in sync; it deliberately only
// handles ChooseNecromancer, the only setup action the automatic planner
// ever proposes for itself (SaveUnit and the sandbox edit actions are
// operator-driven, not search-generated).
func applySetupToScratch(b *board.Board, s side.Side, a game.SetupAction) error {
	if a.Kind != game.ChooseNecromancer {
		return nil
	}
	loc := board.StartLoc(s == side.S0)
	if b.PieceAt(loc) != nil {
		return nil
	}
	return b.Place(&board.Piece{Loc: loc, Label: a.Unit, Side: s})
}

func applyAttackToScratch(b *board.Board, s side.Side, a game.AttackAction) {
	switch a.Kind {
	case game.Move:
		_ = kernel.ApplyMove(b, s, a.From, a.To)
	case game.Attack:
		_ = kernel.ApplyElementaryAttack(b, s, a.Attacker, a.Target)
	}
}
