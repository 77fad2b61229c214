package ataxx

import (
	"fmt"
	"strconv"
	"strings"

	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// FromFEN parses an Ataxx FEN: placement rows from the top rank down with
// x/o stones, '-' blocked squares and digit runs of empty squares, then
// the side to move, the halfmove clock, and the fullmove number.
func FromFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid ataxx FEN %q: need placement and side to move", fen)
	}

	rows := strings.Split(parts[0], "/")
	if len(rows) != Height {
		return nil, fmt.Errorf("invalid ataxx FEN %q: need %d rows, got %d", fen, Height, len(rows))
	}

	var blocked, xStones, oStones bb.Bitboard
	for i, rowStr := range rows {
		row := Height - 1 - i
		file := 0
		for _, c := range rowStr {
			if file >= Width {
				return nil, fmt.Errorf("invalid ataxx FEN %q: row %d too long", fen, row+1)
			}
			switch {
			case c >= '1' && c <= '7':
				file += int(c - '0')
			case c == 'x' || c == 'X':
				xStones = xStones.Set(row*8 + file)
				file++
			case c == 'o' || c == 'O':
				oStones = oStones.Set(row*8 + file)
				file++
			case c == '-':
				blocked = blocked.Set(row*8 + file)
				file++
			default:
				return nil, fmt.Errorf("invalid ataxx FEN %q: bad character %q", fen, c)
			}
		}
		if file != Width {
			return nil, fmt.Errorf("invalid ataxx FEN %q: row %d has %d squares", fen, row+1, file)
		}
	}

	board, err := New(blocked, xStones, oStones)
	if err != nil {
		return nil, fmt.Errorf("invalid ataxx FEN %q: %v", fen, err)
	}

	switch strings.ToLower(parts[1]) {
	case "x", "b":
		board.SideToMove = X
	case "o", "w":
		board.SideToMove = O
	default:
		return nil, fmt.Errorf("invalid ataxx FEN %q: bad side to move %q", fen, parts[1])
	}

	if len(parts) > 2 {
		hmc, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid ataxx FEN %q: bad halfmove clock: %v", fen, err)
		}
		board.HalfMoveClock = hmc
	}
	fullmove := 1
	if len(parts) > 3 {
		fullmove, err = strconv.Atoi(parts[3])
		if err != nil || fullmove < 1 {
			return nil, fmt.Errorf("invalid ataxx FEN %q: bad fullmove number %q", fen, parts[3])
		}
	}
	board.Ply = (fullmove - 1) * 2
	if board.SideToMove == O {
		board.Ply++
	}
	return board, nil
}

// FEN renders the position.
func (b *Board) FEN() string {
	var sb strings.Builder
	blocked := b.BlockedBB()
	for row := Height - 1; row >= 0; row-- {
		empty := 0
		for file := 0; file < Width; file++ {
			sq := row*8 + file
			var c byte
			switch {
			case b.Colors[X].IsSet(sq):
				c = 'x'
			case b.Colors[O].IsSet(sq):
				c = 'o'
			case blocked.IsSet(sq):
				c = '-'
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
	fmt.Fprintf(&sb, " %c %d %d", ColorChar(b.SideToMove), b.HalfMoveClock, b.Ply/2+1)
	return sb.String()
}

// MoveString renders a move compactly: the destination alone for cloning
// moves, source+destination for leaps, "0000" for a pass.
func MoveString(m game.Move) string {
	size := game.Size{Width: 8, Height: 8}
	if m == game.NullMove {
		return "0000"
	}
	if m.Kind() == game.Cloning {
		return game.SquareName(m.To(), size)
	}
	return game.SquareName(m.From(), size) + game.SquareName(m.To(), size)
}

// ParseMove parses the compact move format against a position.
func ParseMove(s string, b *Board) (game.Move, error) {
	size := game.Size{Width: 8, Height: 8}
	if s == "0000" {
		return game.NullMove, nil
	}
	switch len(s) {
	case 2:
		to, err := game.ParseSquareName(s, size)
		if err != nil {
			return game.NullMove, err
		}
		return game.NewMove(game.NoSource, to, game.Cloning, 0, false), nil
	case 4:
		from, err := game.ParseSquareName(s[:2], size)
		if err != nil {
			return game.NullMove, err
		}
		to, err := game.ParseSquareName(s[2:], size)
		if err != nil {
			return game.NullMove, err
		}
		return game.NewMove(from, to, game.Leaping, 0, false), nil
	}
	return game.NullMove, fmt.Errorf("invalid ataxx move %q in %q", s, b.FEN())
}

// NamedPositions exposes benchmark positions.
func NamedPositions() []game.NamedPosition {
	return []game.NamedPosition{
		{Name: "startpos", FEN: StartFEN},
		{Name: "center", FEN: "7/7/7/2x1o2/7/7/7 x 0 1"},
		{Name: "walls", FEN: "x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1"},
		{Name: "almost-full", FEN: "7/7/7/o6/ooooooo/ooooooo/xxxxxxx x 0 1"},
		{Name: "corner-rush", FEN: "7/7/7/7/-------/-------/x5o x 0 1"},
	}
}
