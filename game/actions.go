package game

import (
	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/tech"
	"github.com/domino14/spooky/unit"
)

// SetupActionKind enumerates the SetupAction variants of spec.md sec 3.
type SetupActionKind uint8

const (
	ChooseNecromancer SetupActionKind = iota
	SaveUnit
	AddPiece
	RemovePiece
	ResetBoard
)

type SetupAction struct {
	Kind  SetupActionKind
	Unit  unit.Label // ChooseNecromancer, SaveUnit, AddPiece
	Loc   board.Loc  // AddPiece, RemovePiece
}

// AttackActionKind enumerates the AttackAction variants of spec.md sec 3.
type AttackActionKind uint8

const (
	Move AttackActionKind = iota
	MoveCyclic
	Attack
	Blink
	EndAttackPhase
)

type AttackAction struct {
	Kind     AttackActionKind
	From, To board.Loc  // Move
	Path     []board.Loc // MoveCyclic: a closed chain, path[i] -> path[i+1], last -> first
	Attacker board.Loc  // Attack
	Target   board.Loc  // Attack
	Loc      board.Loc  // Blink
}

// SpawnActionKind enumerates the SpawnAction variants of spec.md sec 3.
type SpawnActionKind uint8

const (
	Buy SpawnActionKind = iota
	Spawn
	Discard
	EndSpawnPhase
)

type SpawnAction struct {
	Kind  SpawnActionKind
	Unit  unit.Label      // Buy, Spawn
	Loc   board.Loc       // Spawn
	Spell int             // Discard: tech card index
}

// BoardTurn is the phase-partitioned per-board turn of spec.md sec 3.
type BoardTurn struct {
	Setup  []SetupAction
	Attack []AttackAction
	Spawn  []SpawnAction
}

// Turn is a full GameTurn (spec.md sec 3): technology moves, spell buys,
// per-board turns, and resigns.
type Turn struct {
	SpellBuys      int
	TechAssignment []int // techline card indices receiving a spell this turn
	BoardTurns     []BoardTurn
	Resigns        map[int]bool
}

// NewTurn allocates an empty turn shaped for a game with the given
// number of boards.
func NewTurn(numBoards int) *Turn {
	return &Turn{
		BoardTurns: make([]BoardTurn, numBoards),
		Resigns:    map[int]bool{},
	}
}

// CardKindKnown is a small convenience so callers assigning spells don't
// need to import tech just to build a Turn.
type CardKindKnown = tech.CardKind
