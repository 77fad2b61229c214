// Package fairy implements the rules-driven variant engine: a single
// board type parameterized by a Rules table that instantiates chess,
// shatranj, atomic, horde, racing kings, king of the hill, crazyhouse,
// Ataxx, and m,n,k games. Piece movement is described by attack
// specifications (leaper tables, slider rays, castling) with condition and
// filter chains; move application is a sequence of low-level effects with
// variant observers layered on top.
package fairy

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// PieceID indexes the rules' piece table.
type PieceID uint8

// NoPieceID marks the absence of a piece.
const NoPieceID PieceID = 0xF

// MaxPieceTypes bounds the per-variant piece table; the move encoding
// reserves four bits for a piece parameter.
const MaxPieceTypes = 15

// DrawCtrPolicy states when moving a piece resets the halfmove draw
// counter.
type DrawCtrPolicy uint8

const (
	NeverReset DrawCtrPolicy = iota
	AlwaysReset
	ResetOnMoveKinds
)

// Piece defines the rules for a single piece type.
type Piece struct {
	Name string

	// ASCII and unicode glyphs: uppercase/white, lowercase/black, neutral.
	ASCII        byte
	UnicodeWhite rune
	UnicodeBlack rune

	// PlayerChar overrides the FEN character per color. Zero values fall
	// back to the upper/lower case of ASCII; Ataxx stones use 'x'/'o'.
	PlayerChar [2]byte

	// Attacks lists the piece's attack specifications in emission order.
	Attacks []AttackSpec

	// Promotion targets and the squares that trigger promotion. An empty
	// target list disables promotion.
	PromoTargets []PieceID
	PromoSquares bb.Bitboard128

	// CanEnPassant marks pieces that may capture on the en-passant square.
	CanEnPassant bool

	// DrawCtr and DrawCtrKinds control halfmove-counter resets. With
	// ResetOnMoveKinds, only the listed kinds reset.
	DrawCtr      DrawCtrPolicy
	DrawCtrKinds []game.MoveKind

	// Royal pieces are the check targets; capturing or mating them ends
	// the game.
	Royal bool

	// CanCastle marks the castler (the king, not the rook).
	CanCastle bool

	// OmitInSAN suppresses the piece letter in algebraic notation (pawns).
	OmitInSAN bool
}

// CharFor returns the piece's FEN character for a color.
func (p *Piece) CharFor(c game.Color) byte {
	if p.PlayerChar[c] != 0 {
		return p.PlayerChar[c]
	}
	if c == game.FirstPlayer {
		return p.ASCII &^ 0x20 // uppercase
	}
	return p.ASCII | 0x20 // lowercase
}

// ResetsDrawCounter applies the piece's draw-counter policy to a move.
func (p *Piece) ResetsDrawCounter(kind game.MoveKind) bool {
	switch p.DrawCtr {
	case AlwaysReset:
		return true
	case ResetOnMoveKinds:
		for _, k := range p.DrawCtrKinds {
			if k == kind {
				return true
			}
		}
	}
	return false
}

// ColoredPiece pairs a piece id with an optional color. A piece without a
// color is neutral (blocked squares render through the board mask, not
// through pieces, so neutral currently only appears as "empty").
type ColoredPiece struct {
	ID    PieceID
	Color game.Color
}

// NoColoredPiece is the empty square value.
var NoColoredPiece = ColoredPiece{ID: NoPieceID}
