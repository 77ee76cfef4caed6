// Package fen implements the FEN-like position grammar of spec.md sec
// 6.2: a single-line, round-trip-safe encoding of a GameState's boards,
// side to move, tech status and money (board points, reset state and
// reinforcements are not encoded),
// grounded on cgp/parse.go's field-splitting parser and round-trip
// discipline (Macondo's own CGP format for Scrabble positions).
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/spooky/board"
	"github.com/domino14/spooky/game"
	"github.com/domino14/spooky/side"
	"github.com/domino14/spooky/tech"
	"github.com/domino14/spooky/unit"
)

// numFields is the count of space-separated top-level fields in one FEN
// line: n_boards, map_idx_csv, n_techs, tech_idx_csv, board_states,
// side_to_move, tech_status, money.
const numFields = 8

// Encode renders gs as a single FEN line. Encode(Decode(s)) == s for any
// s Decode accepts, modulo canonical run-length digit choice (spec.md sec
// 6.2, "FEN MUST round-trip").
func Encode(gs *game.State) (string, error) {
	numBoards := len(gs.Boards)
	if numBoards == 0 {
		return "", game.NewParseError("fen: state has no boards")
	}
	numTechs := gs.Config.Techline.Len()

	mapIdx := make([]string, numBoards)
	for i := range mapIdx {
		mapIdx[i] = "0" // only the default map is registered (fen sec 6.2)
	}
	techIdx := make([]string, numTechs)
	for i := range techIdx {
		techIdx[i] = strconv.Itoa(i)
	}

	boardStrs := make([]string, numBoards)
	for i, b := range gs.Boards {
		s, err := encodeBoard(b)
		if err != nil {
			return "", err
		}
		boardStrs[i] = s
	}

	sideStr := "0"
	if gs.SideToMove == side.S1 {
		sideStr = "1"
	}

	techStatus := encodeStatus(gs.TechStatus.Get(side.S0)) + "|" + encodeStatus(gs.TechStatus.Get(side.S1))
	money := fmt.Sprintf("%d|%d", gs.Money.Get(side.S0), gs.Money.Get(side.S1))

	fields := []string{
		strconv.Itoa(numBoards),
		strings.Join(mapIdx, ","),
		strconv.Itoa(numTechs),
		strings.Join(techIdx, ","),
		strings.Join(boardStrs, "|"),
		sideStr,
		techStatus,
		money,
	}
	return strings.Join(fields, " "), nil
}

// Decode parses one FEN line into a fresh GameState. The returned
// State's Config always references the single registered default map and
// the standard techline (spec.md sec 6.2 leaves multi-map/custom-techline
// registries to a collaborator this repo doesn't implement).
func Decode(s string) (*game.State, error) {
	fields := strings.Fields(s)
	if len(fields) != numFields {
		return nil, game.NewParseError("fen: expected %d fields, got %d", numFields, len(fields))
	}
	numBoards, err := strconv.Atoi(fields[0])
	if err != nil || numBoards <= 0 {
		return nil, game.NewParseError("fen: invalid n_boards %q", fields[0])
	}
	mapIdx := strings.Split(fields[1], ",")
	if len(mapIdx) != numBoards {
		return nil, game.NewParseError("fen: map_idx_csv has %d entries, want %d", len(mapIdx), numBoards)
	}
	numTechs, err := strconv.Atoi(fields[2])
	if err != nil || numTechs < 0 {
		return nil, game.NewParseError("fen: invalid n_techs %q", fields[2])
	}
	techIdx := strings.Split(fields[3], ",")
	if numTechs > 0 && len(techIdx) != numTechs {
		return nil, game.NewParseError("fen: tech_idx_csv has %d entries, want %d", len(techIdx), numTechs)
	}

	boardStrs := strings.Split(fields[4], "|")
	if len(boardStrs) != numBoards {
		return nil, game.NewParseError("fen: board_states has %d boards, want %d", len(boardStrs), numBoards)
	}

	techline := tech.NewDefault()
	if techline.Len() != numTechs {
		return nil, game.NewParseError("fen: n_techs %d does not match the registered techline length %d", numTechs, techline.Len())
	}

	m := board.NewDefaultMap()
	cfg := &game.Config{
		Maps:      make([]*board.Map, numBoards),
		Techline:  techline,
		NumBoards: numBoards,
	}
	for i := range cfg.Maps {
		cfg.Maps[i] = m
	}

	gs := &game.State{
		Config: cfg,
		Boards: make([]*board.Board, numBoards),
	}
	for i, bs := range boardStrs {
		b, err := decodeBoard(bs, m)
		if err != nil {
			return nil, err
		}
		gs.Boards[i] = b
	}

	switch fields[5] {
	case "0":
		gs.SideToMove = side.S0
	case "1":
		gs.SideToMove = side.S1
	default:
		return nil, game.NewParseError("fen: invalid side_to_move %q", fields[5])
	}

	statusGroups := strings.Split(fields[6], "|")
	if len(statusGroups) != 2 {
		return nil, game.NewParseError("fen: tech_status must have exactly 2 groups, got %d", len(statusGroups))
	}
	s0Status, err := decodeStatus(statusGroups[0], numTechs)
	if err != nil {
		return nil, err
	}
	s1Status, err := decodeStatus(statusGroups[1], numTechs)
	if err != nil {
		return nil, err
	}
	gs.TechStatus = side.NewArray(s0Status, s1Status)

	moneyParts := strings.Split(fields[7], "|")
	if len(moneyParts) != 2 {
		return nil, game.NewParseError("fen: money must be m0|m1, got %q", fields[7])
	}
	m0, err0 := strconv.Atoi(moneyParts[0])
	m1, err1 := strconv.Atoi(moneyParts[1])
	if err0 != nil || err1 != nil {
		return nil, game.NewParseError("fen: invalid money %q", fields[7])
	}
	gs.Money = side.NewArray(m0, m1)

	return gs, nil
}

// encodeBoard renders one board's 10 rows, run-length-encoding empty
// runs and spelling out pieces by FEN letter (uppercase S0, lowercase
// S1), per spec.md sec 6.2.
func encodeBoard(b *board.Board) (string, error) {
	rows := make([]string, board.Dim)
	for row := 0; row < board.Dim; row++ {
		var sb strings.Builder
		empty := 0
		flush := func() {
			if empty == 0 {
				return
			}
			if empty == board.Dim {
				sb.WriteByte('0')
			} else {
				sb.WriteString(strconv.Itoa(empty))
			}
			empty = 0
		}
		for col := 0; col < board.Dim; col++ {
			l := board.NewLoc(col, row)
			p := b.PieceAt(l)
			if p == nil {
				empty++
				continue
			}
			flush()
			sb.WriteByte(pieceChar(p))
		}
		flush()
		rows[row] = sb.String()
	}
	return strings.Join(rows, "/"), nil
}

func decodeBoard(s string, m *board.Map) (*board.Board, error) {
	rows := strings.Split(s, "/")
	if len(rows) != board.Dim {
		return nil, game.NewParseError("fen: board has %d rows, want %d", len(rows), board.Dim)
	}
	b := board.NewBoard(m)
	for row, r := range rows {
		col := 0
		for i := 0; i < len(r); i++ {
			c := r[i]
			if c >= '0' && c <= '9' {
				n := int(c - '0')
				if n == 0 {
					n = board.Dim
				}
				col += n
				continue
			}
			label, err := unit.ByFENChar(c)
			if err != nil {
				return nil, game.NewParseError("fen: %s", err)
			}
			s := side.S0
			if c >= 'a' && c <= 'z' {
				s = side.S1
			}
			if col >= board.Dim {
				return nil, game.NewParseError("fen: row %d overflows %d columns", row, board.Dim)
			}
			if err := b.Place(&board.Piece{Loc: board.NewLoc(col, row), Label: label, Side: s}); err != nil {
				return nil, err
			}
			col++
		}
		if col != board.Dim {
			return nil, game.NewParseError("fen: row %d sums to %d hexes, want %d", row, col, board.Dim)
		}
	}
	return b, nil
}

func pieceChar(p *board.Piece) byte {
	c := p.Def().FENChar
	if p.Side == side.S1 {
		return c - 'A' + 'a'
	}
	return c
}

func encodeStatus(status []tech.Status) string {
	var sb strings.Builder
	for _, st := range status {
		sb.WriteByte(st.FENChar())
	}
	return sb.String()
}

func decodeStatus(s string, want int) ([]tech.Status, error) {
	if len(s) != want {
		return nil, game.NewParseError("fen: tech status group has %d cards, want %d", len(s), want)
	}
	out := make([]tech.Status, len(s))
	for i := 0; i < len(s); i++ {
		st, err := tech.StatusFromFENChar(s[i])
		if err != nil {
			return nil, game.NewParseError("fen: %s", err)
		}
		out[i] = st
	}
	return out, nil
}
