package game

import "fmt"

// Move encodes a move of any variant in 32 bits:
// bits 0-6:   source square (0-127), 0x7F when the move has no source
//             (drops, placements, Ataxx cloning)
// bits 7-13:  destination square (0-127)
// bits 14-17: kind discriminant
// bits 18-21: kind parameter (promotion / drop / change-piece target)
// bit  22:    capture flag
type Move uint32

// NoSource marks a move without a source square.
const NoSource = 0x7F

// MoveKind distinguishes the special-effect families a move can carry.
type MoveKind uint8

const (
	Normal MoveKind = iota
	DoublePawnPush
	EnPassant
	CastleKingside
	CastleQueenside
	Promotion
	Drop
	Cloning
	Leaping
	ChangePiece
	Conversion
)

// NullMove is the reserved pass move: it flips the side to move without
// touching any piece. It is distinct from every legal move because both
// squares carry the no-source sentinel.
const NullMove Move = NoSource | NoSource<<7

// NewMove creates a move with the given squares, kind and parameter.
func NewMove(from, to int, kind MoveKind, param int, capture bool) Move {
	m := Move(from&0x7F) | Move(to&0x7F)<<7 | Move(kind)<<14 | Move(param&0xF)<<18
	if capture {
		m |= 1 << 22
	}
	return m
}

// From returns the source square, or NoSource.
func (m Move) From() int {
	return int(m & 0x7F)
}

// To returns the destination square.
func (m Move) To() int {
	return int(m>>7) & 0x7F
}

// Kind returns the move-kind discriminant.
func (m Move) Kind() MoveKind {
	return MoveKind(m>>14) & 0xF
}

// Param returns the kind parameter (promotion piece, dropped piece, ...).
func (m Move) Param() int {
	return int(m>>18) & 0xF
}

// IsCapture returns true if the capture flag is set.
func (m Move) IsCapture() bool {
	return m&(1<<22) != 0
}

// HasSource returns true unless the move carries the no-source sentinel.
func (m Move) HasSource() bool {
	return m.From() != NoSource
}

// WithCapture returns the move with the capture flag set.
func (m Move) WithCapture() Move {
	return m | 1<<22
}

// CompactString renders the move in UCI style for the given geometry:
// "<from><to>", "0000" for the null move, and "<to>" alone for moves
// without a source square. The optional promotion letter is appended by
// the variant, which knows its piece alphabet.
func (m Move) CompactString(s Size) string {
	if m == NullMove {
		return "0000"
	}
	to := SquareName(m.To(), s)
	if !m.HasSource() {
		return to
	}
	return SquareName(m.From(), s) + to
}

// SquareName renders a dense square index algebraically ("a1" style).
func SquareName(idx int, s Size) string {
	row, col := s.RowCol(idx)
	return fmt.Sprintf("%c%d", 'a'+col, row+1)
}

// ParseSquareName parses an algebraic square ("e4", "a10") for the given
// geometry and returns its dense index.
func ParseSquareName(str string, s Size) (int, error) {
	if len(str) < 2 {
		return 0, fmt.Errorf("invalid square: %q", str)
	}
	col := int(str[0] - 'a')
	row := 0
	for i := 1; i < len(str); i++ {
		if str[i] < '0' || str[i] > '9' {
			return 0, fmt.Errorf("invalid square: %q", str)
		}
		row = row*10 + int(str[i]-'0')
	}
	row--
	if !s.Valid(row, col) {
		return 0, fmt.Errorf("square %q is outside the %dx%d board", str, s.Width, s.Height)
	}
	return s.Index(row, col), nil
}
