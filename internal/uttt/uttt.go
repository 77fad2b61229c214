// Package uttt implements Ultimate Tic-Tac-Toe: a 9x9 grid of nine 3x3
// sub-boards. A move must be played in the sub-board named by the previous
// move's cell, unless that sub-board is closed, in which case any open
// sub-board is allowed. Winning three sub-boards in a line wins the game.
//
// Cells are numbered subBoard*9 + subSquare (0..80); bits 81..89 of each
// color bitboard flag the sub-boards that color has won.
package uttt

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// X moves first.
const (
	X = game.FirstPlayer
	O = game.SecondPlayer
)

// ColorChar returns the FEN character of a color.
func ColorChar(c game.Color) byte {
	if c == X {
		return 'x'
	}
	return 'o'
}

// NumCells is the number of playable cells.
const NumCells = 81

// boardBB masks the 81 playable cell bits.
var boardBB = bb.BoardMask(9, 9)

// subBoardMask covers one sub-board's 9 bits.
const subBoardMask uint64 = 0x1FF

// 3x3 winning line masks over a 9-bit sub-board (cell = row*3+col).
var winMasks = [8]uint64{
	0b000000111, 0b000111000, 0b111000000, // rows
	0b001001001, 0b010010010, 0b100100100, // columns
	0b100010001, 0b001010100, // diagonals
}

// CellIndex builds a cell index from a sub-board and a cell within it.
func CellIndex(subBoard, subSquare int) int {
	return subBoard*9 + subSquare
}

// FromRowCol converts geometric 9x9 coordinates into a cell index.
func FromRowCol(row, col int) int {
	subBoard := (row/3)*3 + col/3
	subSquare := (row%3)*3 + col%3
	return CellIndex(subBoard, subSquare)
}

// RowCol converts a cell index back into geometric 9x9 coordinates.
func RowCol(idx int) (row, col int) {
	sb, ss := idx/9, idx%9
	return (sb/3)*3 + ss/3, (sb%3)*3 + ss%3
}

// SubBoard returns the sub-board a cell belongs to.
func SubBoard(idx int) int {
	return idx / 9
}

// SubSquare returns the cell's position within its sub-board, which also
// names the sub-board the next move is sent to.
func SubSquare(idx int) int {
	return idx % 9
}

// NoLastMove marks a board without a directing previous move.
const NoLastMove = -1

// Board is an Ultimate Tic-Tac-Toe position. Value-typed; MakeMove copies.
type Board struct {
	// Colors holds cells 0..80 plus won-sub-board flags in bits 81..89.
	Colors [2]bb.Bitboard128
	// Open marks empty cells inside still-open sub-boards.
	Open       bb.Bitboard128
	SideToMove game.Color
	LastMove   int // destination cell of the previous move, or NoLastMove
	Ply        int
}

// StartPos returns the empty starting position.
func StartPos() *Board {
	return &Board{
		Open:       boardBB,
		SideToMove: X,
		LastMove:   NoLastMove,
	}
}

// Copy returns a copy of the board.
func (b *Board) Copy() *Board {
	n := *b
	return &n
}

// ActivePlayer returns the side to move.
func (b *Board) ActivePlayer() game.Color {
	return b.SideToMove
}

// PlayerBB returns a color's cell bits (without the won flags).
func (b *Board) PlayerBB(c game.Color) bb.Bitboard128 {
	return b.Colors[c].And(boardBB)
}

// EmptyBB returns every empty cell, including cells in closed sub-boards.
func (b *Board) EmptyBB() bb.Bitboard128 {
	return b.Colors[0].Or(b.Colors[1]).Not().And(boardBB)
}

// WonSubBoards returns the 9-bit set of sub-boards the color has won.
func (b *Board) WonSubBoards(c game.Color) uint64 {
	return b.Colors[c].Shr(81).Lo & subBoardMask
}

// subBoardBits extracts one sub-board's 9 bits from a 128-bit cell set.
func subBoardBits(cells bb.Bitboard128, subBoard int) uint64 {
	return cells.Shr(subBoard * 9).Lo & subBoardMask
}

// IsSubBoardOpen reports whether the sub-board still accepts moves.
func (b *Board) IsSubBoardOpen(subBoard int) bool {
	return subBoardBits(b.Open, subBoard) != 0
}

// subBoardWonAt reports whether the 9-bit pattern contains a winning line
// through the given cell.
func subBoardWonAt(pattern uint64, subSquare int) bool {
	row, col := subSquare/3, subSquare%3
	if rowMask := uint64(0b111) << (3 * row); pattern&rowMask == rowMask {
		return true
	}
	if colMask := uint64(0b001001001) << col; pattern&colMask == colMask {
		return true
	}
	if row == col && pattern&0b100010001 == 0b100010001 {
		return true
	}
	if row == 2-col && pattern&0b001010100 == 0b001010100 {
		return true
	}
	return false
}

// patternHasLine reports whether any of the eight lines is complete.
func patternHasLine(pattern uint64) bool {
	for _, mask := range winMasks {
		if pattern&mask == mask {
			return true
		}
	}
	return false
}

// markWon sets a color's won flag for a sub-board and closes its cells.
func (b *Board) markWon(subBoard int, c game.Color) {
	b.Colors[c] = b.Colors[c].Set(81 + subBoard)
	closeMask := bb.Bitboard128{Lo: subBoardMask}.Shl(subBoard * 9)
	b.Open = b.Open.AndNot(closeMask)
}

// recomputeMeta rebuilds the won flags and the open bitboard from the cell
// placement; used after FEN parsing.
func (b *Board) recomputeMeta() {
	for c := 0; c < 2; c++ {
		b.Colors[c] = b.Colors[c].And(boardBB)
	}
	b.Open = b.EmptyBB()
	for sb := 0; sb < 9; sb++ {
		for c := game.Color(0); c < 2; c++ {
			if patternHasLine(subBoardBits(b.PlayerBB(c), sb)) {
				b.markWon(sb, c)
			}
		}
		// A full sub-board is closed even when nobody won it.
		occupied := subBoardBits(b.Colors[0].Or(b.Colors[1]), sb)
		if occupied == subBoardMask {
			closeMask := bb.Bitboard128{Lo: subBoardMask}.Shl(sb * 9)
			b.Open = b.Open.AndNot(closeMask)
		}
	}
}

// ZobristHash hashes the cell placement, the last move, and the side to
// move structurally.
func (b *Board) ZobristHash() uint64 {
	return game.StructuralHash(
		b.Colors[0].Lo, b.Colors[0].Hi,
		b.Colors[1].Lo, b.Colors[1].Hi,
		uint64(int64(b.LastMove)+1), uint64(b.SideToMove))
}

// PseudolegalMoves equals the legal move set.
func (b *Board) PseudolegalMoves() *game.MoveList {
	return b.LegalMovesSlow()
}

// LegalMovesSlow emits one move per open cell of the directed sub-board,
// or of every open sub-board when the directed one is closed or absent.
func (b *Board) LegalMovesSlow() *game.MoveList {
	ml := game.NewMoveList()
	if b.LastMove != NoLastMove {
		directed := SubSquare(b.LastMove)
		if b.IsSubBoardOpen(directed) {
			cells := bb.Bitboard(subBoardBits(b.Open, directed))
			for cells != 0 {
				ss := cells.PopLSB()
				ml.Add(game.NewMove(game.NoSource, CellIndex(directed, ss), game.Normal, 0, false))
			}
			return ml
		}
	}
	open := b.Open
	for open.Any() {
		cell := open.PopLSB()
		ml.Add(game.NewMove(game.NoSource, cell, game.Normal, 0, false))
	}
	return ml
}

// IsMovePseudolegal only requires the destination cell to be empty.
func (b *Board) IsMovePseudolegal(m game.Move) bool {
	if m == game.NullMove {
		return false
	}
	to := m.To()
	return to < NumCells && b.EmptyBB().IsSet(to)
}

// IsMoveLegal additionally enforces the sub-board constraint.
func (b *Board) IsMoveLegal(m game.Move) bool {
	if !b.IsMovePseudolegal(m) {
		return false
	}
	to := m.To()
	if !b.Open.IsSet(to) {
		return false
	}
	if b.LastMove != NoLastMove {
		directed := SubSquare(b.LastMove)
		if b.IsSubBoardOpen(directed) && SubBoard(to) != directed {
			return false
		}
	}
	return true
}

// MakeMove places the stone, closes the sub-board if it is now won, and
// hands the turn over.
func (b *Board) MakeMove(m game.Move) (*Board, bool) {
	if m == game.NullMove {
		return b.MakeNullMove()
	}
	n := b.Copy()
	color := n.SideToMove
	cell := m.To()
	placed := bb.SquareBB128(cell)
	n.Colors[color] = n.Colors[color].Or(placed)
	n.Open = n.Open.AndNot(placed)
	if subBoardWonAt(subBoardBits(n.PlayerBB(color), SubBoard(cell)), SubSquare(cell)) {
		n.markWon(SubBoard(cell), color)
	}
	n.SideToMove = color.Other()
	n.LastMove = cell
	n.Ply++
	return n, true
}

// MakeNullMove flips the side to move and clears the directing move, so
// the opponent may play anywhere open.
func (b *Board) MakeNullMove() (*Board, bool) {
	n := b.Copy()
	n.SideToMove = n.SideToMove.Other()
	n.LastMove = NoLastMove
	n.Ply++
	return n, true
}

// PlayerResultNoMovegen loses for the side to move when the opponent's won
// sub-boards contain a winning line, and draws when no open cell remains.
func (b *Board) PlayerResultNoMovegen(_ *game.History) game.PlayerResult {
	if patternHasLine(b.WonSubBoards(b.SideToMove.Other())) {
		return game.Loss
	}
	if b.Open.IsZero() {
		return game.Draw
	}
	return game.NoResult
}

// PlayerResultSlow equals the fast check: no move generation is needed.
func (b *Board) PlayerResultSlow(h *game.History) game.PlayerResult {
	return b.PlayerResultNoMovegen(h)
}

// String renders the board FEN.
func (b *Board) String() string {
	return b.FEN()
}
