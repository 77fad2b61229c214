package uttt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/boardkit/internal/game"
)

// size is the geometric 9x9 grid used for algebraic cell names.
var size = game.Size{Width: 9, Height: 9}

// FromFEN parses an Ultimate Tic-Tac-Toe FEN: chess-style placement over
// the 9x9 grid (rows 9 down to 1, digit runs for empty cells), with the
// cell of the last move uppercased; then the side to move, the ply
// counter, and the last-move square ("0000" when absent).
func FromFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid uttt FEN %q: need placement and side to move", fen)
	}

	rows := strings.Split(parts[0], "/")
	if len(rows) != 9 {
		return nil, fmt.Errorf("invalid uttt FEN %q: need 9 rows, got %d", fen, len(rows))
	}

	board := StartPos()
	upperCell := NoLastMove
	for i, rowStr := range rows {
		row := 8 - i
		col := 0
		for _, c := range rowStr {
			if col >= 9 {
				return nil, fmt.Errorf("invalid uttt FEN %q: row %d too long", fen, row+1)
			}
			switch {
			case c >= '1' && c <= '9':
				col += int(c - '0')
			case c == 'x' || c == 'X' || c == 'o' || c == 'O':
				cell := FromRowCol(row, col)
				color := X
				if c == 'o' || c == 'O' {
					color = O
				}
				board.Colors[color] = board.Colors[color].Set(cell)
				if c == 'X' || c == 'O' {
					if upperCell != NoLastMove {
						return nil, fmt.Errorf("invalid uttt FEN %q: more than one uppercase last-move marker", fen)
					}
					upperCell = cell
				}
				col++
			default:
				return nil, fmt.Errorf("invalid uttt FEN %q: bad character %q", fen, c)
			}
		}
		if col != 9 {
			return nil, fmt.Errorf("invalid uttt FEN %q: row %d has %d cells", fen, row+1, col)
		}
	}

	if board.Colors[0].And(board.Colors[1]).Any() {
		return nil, fmt.Errorf("invalid uttt FEN %q: a cell is occupied by both players", fen)
	}

	switch parts[1] {
	case "x":
		board.SideToMove = X
	case "o":
		board.SideToMove = O
	default:
		return nil, fmt.Errorf("invalid uttt FEN %q: bad side to move %q", fen, parts[1])
	}

	if len(parts) > 2 {
		ply, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid uttt FEN %q: bad ply counter: %v", fen, err)
		}
		board.Ply = ply
	} else {
		board.Ply = board.Colors[0].Or(board.Colors[1]).And(boardBB).PopCount()
	}

	board.LastMove = upperCell
	if len(parts) > 3 {
		if parts[3] == "0000" || parts[3] == "-" {
			board.LastMove = NoLastMove
		} else {
			idx, err := game.ParseSquareName(parts[3], size)
			if err != nil {
				return nil, fmt.Errorf("invalid uttt FEN %q: bad last move: %v", fen, err)
			}
			row, col := size.RowCol(idx)
			board.LastMove = FromRowCol(row, col)
		}
	}

	board.recomputeMeta()
	if err := board.verify(fen); err != nil {
		return nil, err
	}
	return board, nil
}

// verify checks the semantic invariants of a parsed board.
func (b *Board) verify(fen string) error {
	if b.LastMove != NoLastMove {
		occupiedBy := game.Color(0xFF)
		for c := game.Color(0); c < 2; c++ {
			if b.PlayerBB(c).IsSet(b.LastMove) {
				occupiedBy = c
			}
		}
		if occupiedBy == 0xFF {
			return fmt.Errorf("invalid uttt FEN %q: the last-move cell is empty", fen)
		}
		if occupiedBy == b.SideToMove {
			return fmt.Errorf("invalid uttt FEN %q: the last-move cell belongs to the side to move", fen)
		}
	}
	if b.Ply > b.Colors[0].Or(b.Colors[1]).And(boardBB).PopCount() {
		return fmt.Errorf("invalid uttt FEN %q: ply %d exceeds the number of placed stones", fen, b.Ply)
	}
	return nil
}

// FEN renders the position: placement with the last-move cell uppercased,
// side to move, ply counter, and last-move square.
func (b *Board) FEN() string {
	var sb strings.Builder
	for row := 8; row >= 0; row-- {
		empty := 0
		for col := 0; col < 9; col++ {
			cell := FromRowCol(row, col)
			var c byte
			switch {
			case b.PlayerBB(X).IsSet(cell):
				c = 'x'
			case b.PlayerBB(O).IsSet(cell):
				c = 'o'
			default:
				empty++
				continue
			}
			if cell == b.LastMove {
				c -= 'a' - 'A'
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(c)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	fmt.Fprintf(&sb, " %c %d %s", ColorChar(b.SideToMove), b.Ply, b.lastMoveString())
	return sb.String()
}

func (b *Board) lastMoveString() string {
	if b.LastMove == NoLastMove {
		return "0000"
	}
	row, col := RowCol(b.LastMove)
	return game.SquareName(size.Index(row, col), size)
}

// MoveString renders a move as its geometric cell name.
func MoveString(m game.Move) string {
	if m == game.NullMove {
		return "0000"
	}
	row, col := RowCol(m.To())
	return game.SquareName(size.Index(row, col), size)
}

// ParseMove parses a geometric cell name into a move.
func ParseMove(s string, b *Board) (game.Move, error) {
	if s == "0000" {
		return game.NullMove, nil
	}
	idx, err := game.ParseSquareName(s, size)
	if err != nil {
		return game.NullMove, fmt.Errorf("invalid uttt move %q in %q: %v", s, b.FEN(), err)
	}
	row, col := size.RowCol(idx)
	return game.NewMove(game.NoSource, FromRowCol(row, col), game.Normal, 0, false), nil
}

// StartFEN is the empty starting position.
const StartFEN = "9/9/9/9/9/9/9/9/9 x 0 0000"

// NamedPositions exposes benchmark positions.
func NamedPositions() []game.NamedPosition {
	return []game.NamedPosition{
		{Name: "startpos", FEN: StartFEN},
		{Name: "midgame", FEN: "9/9/9/4X4/2o6/6x2/9/o8/8x o 5 e6"},
	}
}
