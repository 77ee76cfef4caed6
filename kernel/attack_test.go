package kernel

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/unit"
)

func TestApplyAttackMoveValidatesReachability(t *testing.T) {
	is := is.New(t)
	from := board.NewLoc(5, 5)
	p := &board.Piece{Loc: from, Label: unit.Vampire, Side: side.S0}
	b := newBoardWith(t, p)

	far := board.NewLoc(9, 9)
	_, err := applyAttack(b, side.S0, game.AttackAction{Kind: game.Move, From: from, To: far})
	is.True(err != nil)
}

func TestApplyElementaryAttackDamagesAndKills(t *testing.T) {
	is := is.New(t)
	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Zombie, Side: side.S0}
	target := &board.Piece{Loc: board.NewLoc(5, 6), Label: unit.Zombie, Side: side.S1}
	b := newBoardWith(t, attacker, target)

	rebate, err := applyElementaryAttack(b, side.S0, attacker.Loc, target.Loc)
	is.NoErr(err)
	is.Equal(rebate, 0) // 1 damage, defense 2: survives, no kill yet
	is.True(b.PieceAt(target.Loc) != nil)
	is.Equal(b.PieceAt(target.Loc).Modifiers.DamageTaken, 1)

	attacker2 := &board.Piece{Loc: board.NewLoc(6, 5), Label: unit.Zombie, Side: side.S0}
	is.NoErr(b.Place(attacker2))
	rebate, err = applyElementaryAttack(b, side.S0, attacker2.Loc, target.Loc)
	is.NoErr(err)
	is.True(b.PieceAt(target.Loc) == nil) // second hit kills
	is.Equal(rebate, unit.Get(unit.Zombie).Rebate)
}

func TestApplyElementaryAttackShieldConsumesWithoutDamage(t *testing.T) {
	is := is.New(t)
	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Zombie, Side: side.S0}
	target := &board.Piece{Loc: board.NewLoc(5, 6), Label: unit.Zombie, Side: side.S1, Modifiers: board.Modifiers{Shielded: true}}
	b := newBoardWith(t, attacker, target)

	rebate, err := applyElementaryAttack(b, side.S0, attacker.Loc, target.Loc)
	is.NoErr(err)
	is.Equal(rebate, 0)
	is.Equal(b.PieceAt(target.Loc).Modifiers.DamageTaken, 0)
	is.True(!b.PieceAt(target.Loc).Modifiers.Shielded)
}

func TestApplyElementaryAttackRejectsFriendlyTarget(t *testing.T) {
	is := is.New(t)
	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Zombie, Side: side.S0}
	friendly := &board.Piece{Loc: board.NewLoc(5, 6), Label: unit.Zombie, Side: side.S0}
	b := newBoardWith(t, attacker, friendly)

	_, err := applyElementaryAttack(b, side.S0, attacker.Loc, friendly.Loc)
	is.True(err != nil)
}

func TestApplyElementaryAttackDeathtouchGlancesOffNecromancer(t *testing.T) {
	is := is.New(t)
	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Lich, Side: side.S0}
	target := &board.Piece{Loc: board.NewLoc(5, 6), Label: unit.Necromancer, Side: side.S1}
	b := newBoardWith(t, attacker, target)
	is.Equal(unit.Get(unit.Lich).Attack.Kind, unit.Deathtouch)

	rebate, err := applyElementaryAttack(b, side.S0, attacker.Loc, target.Loc)
	is.NoErr(err)
	is.Equal(rebate, 0)
	is.True(b.PieceAt(target.Loc) != nil) // deathtouch has no effect on a necromancer
	is.Equal(b.PieceAt(target.Loc).Modifiers.DamageTaken, 0)
}

func TestApplyElementaryAttackDeathtouchKillsNonNecromancer(t *testing.T) {
	is := is.New(t)
	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Lich, Side: side.S0}
	target := &board.Piece{Loc: board.NewLoc(5, 6), Label: unit.Zombie, Side: side.S1}
	b := newBoardWith(t, attacker, target)

	rebate, err := applyElementaryAttack(b, side.S0, attacker.Loc, target.Loc)
	is.NoErr(err)
	is.True(b.PieceAt(target.Loc) == nil)
	is.Equal(rebate, unit.Get(unit.Zombie).Rebate)
}

func TestApplyElementaryAttackUnsummonBouncesNonPersistentWithoutRebate(t *testing.T) {
	is := is.New(t)
	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Haunt, Side: side.S0}
	target := &board.Piece{Loc: board.NewLoc(5, 6), Label: unit.Zombie, Side: side.S1}
	b := newBoardWith(t, attacker, target)
	is.Equal(unit.Get(unit.Haunt).Attack.Kind, unit.Unsummon)
	is.True(!unit.Get(unit.Zombie).Persistent)

	rebate, err := applyElementaryAttack(b, side.S0, attacker.Loc, target.Loc)
	is.NoErr(err)
	is.Equal(rebate, 0) // a bounce, not a kill: no rebate
	is.True(b.PieceAt(target.Loc) == nil)
	is.Equal(b.Reinforcements.Get(side.S1)[unit.Zombie], 1)
}

func TestApplyElementaryAttackUnsummonDamagesPersistentInstead(t *testing.T) {
	is := is.New(t)
	var persistentLabel unit.Label
	found := false
	for _, l := range unit.All() {
		// defense > 1 so that the single point of damage cannot kill it
		if unit.Get(l).Persistent && unit.Get(l).Defense > 1 {
			persistentLabel = l
			found = true
			break
		}
	}
	if !found {
		t.Skip("no persistent unit in the table")
	}

	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Haunt, Side: side.S0}
	target := &board.Piece{Loc: board.NewLoc(5, 6), Label: persistentLabel, Side: side.S1}
	b := newBoardWith(t, attacker, target)

	rebate, err := applyElementaryAttack(b, side.S0, attacker.Loc, target.Loc)
	is.NoErr(err)
	is.Equal(rebate, 0)
	is.True(b.PieceAt(target.Loc) != nil) // 1 damage only, no bounce
	is.Equal(b.PieceAt(target.Loc).Modifiers.DamageTaken, 1)
}

func TestApplyElementaryAttackAllowsMultipleAttacksUpToNumAttacks(t *testing.T) {
	is := is.New(t)
	is.Equal(unit.Get(unit.Wight).NumAttacks, 2)

	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Wight, Side: side.S0}
	target := &board.Piece{Loc: board.NewLoc(5, 6), Label: unit.Zombie, Side: side.S1}
	b := newBoardWith(t, attacker, target)

	// first attack: legal, consumes one of the Wight's two attacks
	_, err := applyElementaryAttack(b, side.S0, attacker.Loc, target.Loc)
	is.NoErr(err)
	is.Equal(b.PieceAt(attacker.Loc).Modifiers.AttacksUsed, 1)

	// second attack against a fresh target: still legal
	target2 := &board.Piece{Loc: board.NewLoc(6, 5), Label: unit.Zombie, Side: side.S1}
	is.NoErr(b.Place(target2))
	_, err = applyElementaryAttack(b, side.S0, attacker.Loc, target2.Loc)
	is.NoErr(err)
	is.Equal(b.PieceAt(attacker.Loc).Modifiers.AttacksUsed, 2)

	// third attack: the Wight has used both of its attacks this phase
	target3 := &board.Piece{Loc: board.NewLoc(4, 5), Label: unit.Zombie, Side: side.S1}
	is.NoErr(b.Place(target3))
	_, err = applyElementaryAttack(b, side.S0, attacker.Loc, target3.Loc)
	is.True(err != nil)
}

func TestApplyMoveCyclicRotatesPieces(t *testing.T) {
	is := is.New(t)
	a := board.NewLoc(5, 5)
	c := board.NewLoc(6, 5)
	e := board.NewLoc(5, 6)
	pa := &board.Piece{Loc: a, Label: unit.Vampire, Side: side.S0}
	pc := &board.Piece{Loc: c, Label: unit.Vampire, Side: side.S0}
	pe := &board.Piece{Loc: e, Label: unit.Vampire, Side: side.S0}
	b := newBoardWith(t, pa, pc, pe)

	// only proceed if the three hexes actually form a mutual cycle on this map
	if !a.IsAdjacent(c) || !c.IsAdjacent(e) || !e.IsAdjacent(a) {
		t.Skip("test hexes are not mutually adjacent on this map layout")
	}

	err := applyMoveCyclic(b, side.S0, []board.Loc{a, c, e})
	is.NoErr(err)
	is.True(b.PieceAt(c) != nil)
	is.True(b.PieceAt(e) != nil)
	is.True(b.PieceAt(a) != nil)
}

func TestApplyMoveCyclicRejectsShortPath(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard(board.NewDefaultMap())
	err := applyMoveCyclic(b, side.S0, []board.Loc{board.NewLoc(0, 0), board.NewLoc(0, 1)})
	is.True(err != nil)
}

// TestApplyBoardTurnCreditsRebateToDefender covers spec.md sec 8
// scenario 1: a killed piece's own side collects its Rebate in gold,
// applied by applyBoardTurn after the underlying attack removes it.
func TestApplyBoardTurnCreditsRebateToDefender(t *testing.T) {
	is := is.New(t)
	gs := newState(t, 1)
	b := gs.Boards[0]

	attacker := &board.Piece{Loc: board.NewLoc(5, 5), Label: unit.Zombie, Side: side.S0}
	target := &board.Piece{Loc: board.NewLoc(5, 6), Label: unit.Zombie, Side: side.S1, Modifiers: board.Modifiers{DamageTaken: 1}}
	is.NoErr(b.Place(attacker))
	is.NoErr(b.Place(target))

	before := gs.Money.Get(side.S1)
	bt := game.BoardTurn{Attack: []game.AttackAction{{Kind: game.Attack, Attacker: attacker.Loc, Target: target.Loc}}}

	err := applyBoardTurn(gs, b, side.S0, bt)
	is.NoErr(err)
	is.True(b.PieceAt(target.Loc) == nil)
	is.Equal(gs.Money.Get(side.S1), before+unit.Get(unit.Zombie).Rebate)
}
