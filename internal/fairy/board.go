package fairy

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// NoSquare marks an absent square (en passant, last move).
const NoSquare = -1

// Board is a fairy position. The rules pointer is shared and immutable;
// everything else is value state copied on MakeMove.
type Board struct {
	rules *Rules

	// PieceBBs holds one bitboard per piece type; ColorBBs one per player.
	PieceBBs [MaxPieceTypes]bb.Bitboard128
	ColorBBs [2]bb.Bitboard128

	// Blocked squares never hold pieces (Ataxx walls). Bits outside the
	// board mask count as blocked implicitly.
	Blocked bb.Bitboard128

	// Promoted flags pieces that entered their type by promotion; a
	// captured promoted piece returns to hand as the base piece
	// (crazyhouse).
	Promoted bb.Bitboard128

	// InHand counts off-board pieces per color and piece id.
	InHand [2][MaxPieceTypes]uint8

	SideToMove game.Color
	EP         int // en-passant target square, or NoSquare

	// CastlingRights: [color][side].
	CastlingRights [2][2]bool

	HalfMoveClock int
	Ply           int
	FullMove      int
	LastMove      int // destination of the previous move, or NoSquare

	Hash uint64
}

// Rules returns the variant's rules table.
func (b *Board) Rules() *Rules {
	return b.rules
}

// Empty returns an empty board for the rules with all invariants except
// piece presence.
func Empty(r *Rules) *Board {
	return &Board{
		rules:    r,
		EP:       NoSquare,
		LastMove: NoSquare,
		FullMove: 1,
		InHand:   r.StartingHand,
	}
}

// StartPos returns the variant's canonical starting position.
func StartPos(r *Rules) (*Board, error) {
	return FromFENWithRules(r, r.StartFEN)
}

// Copy returns a copy of the board sharing the rules pointer.
func (b *Board) Copy() *Board {
	n := *b
	return &n
}

// ActivePlayer returns the side to move.
func (b *Board) ActivePlayer() game.Color {
	return b.SideToMove
}

// ColorBB returns the pieces of a color.
func (b *Board) ColorBB(c game.Color) bb.Bitboard128 {
	return b.ColorBBs[c]
}

// PieceBB returns the squares holding the given piece type, either color.
func (b *Board) PieceBB(id PieceID) bb.Bitboard128 {
	return b.PieceBBs[id]
}

// OccupiedBB returns every occupied square.
func (b *Board) OccupiedBB() bb.Bitboard128 {
	return b.ColorBBs[0].Or(b.ColorBBs[1])
}

// EmptyBB returns the empty, unblocked squares.
func (b *Board) EmptyBB() bb.Bitboard128 {
	return b.OccupiedBB().Or(b.Blocked).Not().And(b.rules.Mask)
}

// PieceAt returns the colored piece on a square.
func (b *Board) PieceAt(sq int) ColoredPiece {
	if !b.OccupiedBB().IsSet(sq) {
		return NoColoredPiece
	}
	color := game.FirstPlayer
	if b.ColorBBs[game.SecondPlayer].IsSet(sq) {
		color = game.SecondPlayer
	}
	for id := range b.rules.Pieces {
		if b.PieceBBs[id].IsSet(sq) {
			return ColoredPiece{ID: PieceID(id), Color: color}
		}
	}
	return NoColoredPiece
}

// placePiece sets a piece on an empty square.
func (b *Board) placePiece(sq int, p ColoredPiece) {
	single := bb.SquareBB128(sq)
	b.PieceBBs[p.ID] = b.PieceBBs[p.ID].Or(single)
	b.ColorBBs[p.Color] = b.ColorBBs[p.Color].Or(single)
}

// removePiece clears a square and returns what was there.
func (b *Board) removePiece(sq int) ColoredPiece {
	p := b.PieceAt(sq)
	if p.ID == NoPieceID {
		return p
	}
	single := bb.SquareBB128(sq)
	b.PieceBBs[p.ID] = b.PieceBBs[p.ID].AndNot(single)
	b.ColorBBs[p.Color] = b.ColorBBs[p.Color].AndNot(single)
	b.Promoted = b.Promoted.AndNot(single)
	return p
}

// RoyalBB returns the royal pieces of a color.
func (b *Board) RoyalBB(c game.Color) bb.Bitboard128 {
	royals := bb.Empty128
	for _, id := range b.rules.RoyalIDs() {
		royals = royals.Or(b.PieceBBs[id])
	}
	return royals.And(b.ColorBBs[c])
}

// AttackBB returns every square the given color attacks with a capturing
// attack mode, under the current occupancy. Used for check and castling
// path tests.
func (b *Board) AttackBB(c game.Color) bb.Bitboard128 {
	attacks := bb.Empty128
	for id := range b.rules.Pieces {
		piece := &b.rules.Pieces[id]
		pieces := b.PieceBBs[id].And(b.ColorBBs[c])
		for pieces.Any() {
			sq := pieces.PopLSB()
			for i := range piece.Attacks {
				spec := &piece.Attacks[i]
				if spec.Mode == NoCaptures || spec.CaptureNever {
					continue
				}
				if !spec.applies(b, sq, c) {
					continue
				}
				attacks = attacks.Or(spec.raw(b, sq))
			}
		}
	}
	return attacks.And(b.rules.Mask)
}

// InCheckColor reports whether the given color's royals are attacked per
// the variant's check rule. A color without royals is never in check.
func (b *Board) InCheckColor(c game.Color) bool {
	royals := b.RoyalBB(c)
	if royals.IsZero() {
		return false
	}
	attacks := b.AttackBB(c.Other())
	switch b.rules.CheckRule {
	case AllRoyals:
		return royals.AndNot(attacks).IsZero()
	default:
		return royals.And(attacks).Any()
	}
}

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool {
	return b.InCheckColor(b.SideToMove)
}

// ZobristHash returns the cached hash.
func (b *Board) ZobristHash() uint64 {
	return b.Hash
}

// String renders the board FEN.
func (b *Board) String() string {
	return b.FEN()
}
