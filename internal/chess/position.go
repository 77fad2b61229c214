package chess

import (
	"fmt"

	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c game.Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Position represents a complete chess position. Positions are value
// types: MakeMove copies the receiver and returns the successor, so a
// Position is never mutated after it has been handed out.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]bb.Bitboard

	// Occupancy bitboards (cached for efficiency)
	Occupied    [2]bb.Bitboard // All pieces of each color
	AllOccupied bb.Bitboard    // All pieces on the board

	// Game state
	SideToMove     game.Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1
	Ply            int    // Halfmoves since the position anchor

	// Zobrist hash
	Hash uint64

	// King positions (cached for check detection)
	KingSquare [2]Square
}

// StartPos returns the canonical starting position.
func StartPos() *Position {
	pos, _ := FromFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// ActivePlayer returns the side to move.
func (p *Position) ActivePlayer() game.Color {
	return p.SideToMove
}

// ZobristHash returns the cached Zobrist hash.
func (p *Position) ZobristHash() uint64 {
	return p.Hash
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	b := bb.SquareBB(int(sq))
	if p.AllOccupied&b == 0 {
		return NoPiece
	}
	var c game.Color
	if p.Occupied[White]&b != 0 {
		c = White
	} else {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&b != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&bb.SquareBB(int(sq)) == 0
}

// setPiece places a piece on a square (does not update hash).
func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	c := piece.Color()
	pt := piece.Type()
	b := bb.SquareBB(int(sq))

	p.Pieces[c][pt] |= b
	p.Occupied[c] |= b
	p.AllOccupied |= b

	if pt == King {
		p.KingSquare[c] = sq
	}
}

// removePiece removes a piece from a square (does not update hash).
func (p *Position) removePiece(sq Square) Piece {
	piece := p.PieceAt(sq)
	if piece == NoPiece {
		return NoPiece
	}
	c := piece.Color()
	pt := piece.Type()
	b := bb.SquareBB(int(sq))

	p.Pieces[c][pt] &^= b
	p.Occupied[c] &^= b
	p.AllOccupied &^= b

	return piece
}

// movePiece moves a piece from one square to another (does not update hash).
func (p *Position) movePiece(from, to Square) {
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return
	}
	c := piece.Color()
	pt := piece.Type()
	moveBB := bb.SquareBB(int(from)) | bb.SquareBB(int(to))

	p.Pieces[c][pt] ^= moveBB
	p.Occupied[c] ^= moveBB
	p.AllOccupied ^= moveBB

	if pt == King {
		p.KingSquare[c] = to
	}
}

// updateOccupied recalculates occupancy bitboards from piece bitboards.
func (p *Position) updateOccupied() {
	p.Occupied[White] = bb.Empty
	p.Occupied[Black] = bb.Empty
	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Pieces[White][pt]
		p.Occupied[Black] |= p.Pieces[Black][pt]
	}
	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// findKings locates and caches the king positions.
func (p *Position) findKings() {
	p.KingSquare[White] = Square(p.Pieces[White][King].LSB())
	p.KingSquare[Black] = Square(p.Pieces[Black][King].LSB())
}

// AttackersByColor returns a bitboard of pieces of the given color
// attacking a square, under the given occupancy.
func (p *Position) AttackersByColor(sq Square, c game.Color, occupied bb.Bitboard) bb.Bitboard {
	enemy := c.Other()
	s := int(sq)
	return (bb.PawnAttacks(s, int(enemy)) & p.Pieces[c][Pawn]) |
		(bb.KnightAttacks(s) & p.Pieces[c][Knight]) |
		(bb.KingAttacks(s) & p.Pieces[c][King]) |
		(bb.BishopAttacks(s, occupied) & (p.Pieces[c][Bishop] | p.Pieces[c][Queen])) |
		(bb.RookAttacks(s, occupied) & (p.Pieces[c][Rook] | p.Pieces[c][Queen]))
}

// IsSquareAttacked returns true if the square is attacked by the given color.
func (p *Position) IsSquareAttacked(sq Square, byColor game.Color) bool {
	return p.AttackersByColor(sq, byColor, p.AllOccupied) != 0
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsSquareAttacked(p.KingSquare[p.SideToMove], p.SideToMove.Other())
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", ColorName(p.SideToMove))
	s += fmt.Sprintf("Castling: %s\n", p.CastlingRights)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}

// Validate checks the semantic invariants a parsed position must satisfy.
func (p *Position) Validate() error {
	if p.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king (fen %q)", p.FEN())
	}
	if p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king (fen %q)", p.FEN())
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(bb.Rank1|bb.Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8 (fen %q)", p.FEN())
	}
	if p.Occupied[White]&p.Occupied[Black] != 0 {
		return fmt.Errorf("overlapping color bitboards (fen %q)", p.FEN())
	}
	// The side not to move must not be in check: it would mean the last
	// move left its own king en prise.
	notToMove := p.SideToMove.Other()
	if p.IsSquareAttacked(p.KingSquare[notToMove], p.SideToMove) {
		return fmt.Errorf("side not to move is in check (fen %q)", p.FEN())
	}
	if err := p.validateCastlingRights(); err != nil {
		return err
	}
	if err := p.validateEnPassant(); err != nil {
		return err
	}
	return nil
}

// validateCastlingRights checks that every remaining right still has the
// king on its home rank with a rook on the matching side. This accepts
// both the classical array and chess960 starting arrays parsed from x-FEN
// file letters.
func (p *Position) validateCastlingRights() error {
	type req struct {
		right    CastlingRights
		color    game.Color
		kingside bool
	}
	for _, r := range []req{
		{WhiteKingSideCastle, White, true},
		{WhiteQueenSideCastle, White, false},
		{BlackKingSideCastle, Black, true},
		{BlackQueenSideCastle, Black, false},
	} {
		if p.CastlingRights&r.right == 0 {
			continue
		}
		homeRank := 0
		if r.color == Black {
			homeRank = 7
		}
		king := p.KingSquare[r.color]
		if king.Rank() != homeRank {
			return fmt.Errorf("castling right %s with the king off its home rank (fen %q)", r.right, p.FEN())
		}
		rooks := p.Pieces[r.color][Rook] & bb.RankMask[homeRank]
		ok := false
		for rooks != 0 {
			sq := Square(rooks.PopLSB())
			if r.kingside && sq.File() > king.File() {
				ok = true
			}
			if !r.kingside && sq.File() < king.File() {
				ok = true
			}
		}
		if !ok {
			return fmt.Errorf("castling right %s without a matching rook (fen %q)", r.right, p.FEN())
		}
	}
	return nil
}

// validateEnPassant checks the en-passant square's rank, emptiness, and
// the presence of the pawn that just pushed.
func (p *Position) validateEnPassant() error {
	if p.EnPassant == NoSquare {
		return nil
	}
	wantRank, pawnRank := 5, 4 // black just pushed; white to move captures on rank 6
	pusher := Black
	if p.SideToMove == Black {
		wantRank, pawnRank = 2, 3
		pusher = White
	}
	if p.EnPassant.Rank() != wantRank {
		return fmt.Errorf("en passant square %s on wrong rank (fen %q)", p.EnPassant, p.FEN())
	}
	if !p.IsEmpty(p.EnPassant) {
		return fmt.Errorf("en passant square %s is occupied (fen %q)", p.EnPassant, p.FEN())
	}
	pawnSq := NewSquare(p.EnPassant.File(), pawnRank)
	if p.Pieces[pusher][Pawn]&bb.SquareBB(int(pawnSq)) == 0 {
		return fmt.Errorf("en passant square %s without a pawn on %s (fen %q)", p.EnPassant, pawnSq, p.FEN())
	}
	return nil
}
