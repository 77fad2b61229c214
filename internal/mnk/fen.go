package mnk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/boardkit/internal/game"
)

// FromFEN parses an m,n,k FEN: "height width k side placement" where the
// placement lists rows top to bottom, X/O (case-insensitive) for stones
// and digit runs for empty squares.
func FromFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 5 {
		return nil, fmt.Errorf("invalid mnk FEN %q: need height, width, k, side and placement", fen)
	}

	var dims [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return nil, fmt.Errorf("invalid mnk FEN %q: bad number %q", fen, parts[i])
		}
		dims[i] = v
	}
	settings := Settings{Height: dims[0], Width: dims[1], K: dims[2]}
	board, err := Empty(settings)
	if err != nil {
		return nil, fmt.Errorf("invalid mnk FEN %q: %v", fen, err)
	}

	switch strings.ToLower(parts[3]) {
	case "x":
		board.SideToMove = X
	case "o":
		board.SideToMove = O
	default:
		return nil, fmt.Errorf("invalid mnk FEN %q: bad side to move %q", fen, parts[3])
	}

	rows := strings.Split(parts[4], "/")
	if len(rows) != settings.Height {
		return nil, fmt.Errorf("invalid mnk FEN %q: need %d rows, got %d", fen, settings.Height, len(rows))
	}
	for i, rowStr := range rows {
		row := settings.Height - 1 - i
		col := 0
		run := 0
		for _, c := range rowStr {
			if c >= '0' && c <= '9' {
				run = run*10 + int(c-'0')
				continue
			}
			col += run
			run = 0
			if col >= settings.Width {
				return nil, fmt.Errorf("invalid mnk FEN %q: row %d too long", fen, row+1)
			}
			switch c {
			case 'x', 'X':
				board.Colors[X] = board.Colors[X].Set(settings.Size().Index(row, col))
			case 'o', 'O':
				board.Colors[O] = board.Colors[O].Set(settings.Size().Index(row, col))
			default:
				return nil, fmt.Errorf("invalid mnk FEN %q: bad character %q", fen, c)
			}
			col++
		}
		col += run
		if col != settings.Width {
			return nil, fmt.Errorf("invalid mnk FEN %q: row %d has %d squares", fen, row+1, col)
		}
	}

	if board.Colors[0].And(board.Colors[1]).Any() {
		return nil, fmt.Errorf("invalid mnk FEN %q: a square is occupied by both players", fen)
	}
	board.Ply = board.OccupiedBB().PopCount()
	board.LastMove = NoLastMove
	return board, nil
}

// FEN renders "height width k side placement".
func (b *Board) FEN() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %d %d %c ", b.Settings.Height, b.Settings.Width, b.Settings.K, ColorChar(b.SideToMove))
	for row := b.Settings.Height - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < b.Settings.Width; col++ {
			idx := b.Settings.Size().Index(row, col)
			var c byte
			switch {
			case b.Colors[X].IsSet(idx):
				c = 'X'
			case b.Colors[O].IsSet(idx):
				c = 'O'
			default:
				empty++
				continue
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
	return sb.String()
}

// MoveString renders a placement as its square name.
func MoveString(m game.Move, s Settings) string {
	if m == game.NullMove {
		return "0000"
	}
	return game.SquareName(m.To(), s.Size())
}

// ParseMove parses a square name into a placement move.
func ParseMove(str string, b *Board) (game.Move, error) {
	if str == "0000" {
		return game.NullMove, nil
	}
	idx, err := game.ParseSquareName(str, b.Settings.Size())
	if err != nil {
		return game.NullMove, fmt.Errorf("invalid mnk move %q in %q: %v", str, b.FEN(), err)
	}
	return game.NewMove(game.NoSource, idx, game.Normal, 0, false), nil
}

// NamedPositions exposes benchmark positions.
func NamedPositions() []game.NamedPosition {
	return []game.NamedPosition{
		{Name: "tictactoe", FEN: "3 3 3 x 3/3/3"},
		{Name: "connect4-shape", FEN: "6 7 4 x 7/7/7/7/7/7"},
		{Name: "lost-column", FEN: "5 5 3 x X4/O4/O2X1/O1X2/OX3"},
	}
}
