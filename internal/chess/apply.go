package chess

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// MakeMove applies a pseudolegal move copy-make and returns the successor
// position. It returns false iff the move would leave the mover's own king
// in check (or a castle move's preconditions no longer hold).
func (p *Position) MakeMove(m game.Move) (*Position, bool) {
	if m == game.NullMove {
		return p.MakeNullMove()
	}
	us := p.SideToMove
	piece := p.PieceAt(Square(m.From()))
	if piece == NoPiece || piece.Color() != us {
		return nil, false
	}

	switch m.Kind() {
	case game.CastleKingside:
		if !p.canCastle(us, true) {
			return nil, false
		}
	case game.CastleQueenside:
		if !p.canCastle(us, false) {
			return nil, false
		}
	}

	n := p.Copy()
	n.apply(m)

	// The mover's king must not be attacked in the successor.
	if n.IsSquareAttacked(n.KingSquare[us], n.SideToMove) {
		return nil, false
	}
	return n, true
}

// MakeNullMove flips the side to move without moving a piece. It fails
// when the side to move is in check.
func (p *Position) MakeNullMove() (*Position, bool) {
	if p.InCheck() {
		return nil, false
	}
	n := p.Copy()
	if n.EnPassant != NoSquare {
		n.Hash ^= zobristEnPassant[n.EnPassant.File()]
		n.EnPassant = NoSquare
	}
	n.SideToMove = n.SideToMove.Other()
	n.Hash ^= zobristSideToMove
	n.Ply++
	if n.SideToMove == White {
		n.FullMoveNumber++
	}
	return n, true
}

// apply mutates the (freshly copied) position with the move's effects and
// keeps the Zobrist hash incrementally updated.
func (p *Position) apply(m game.Move) {
	us := p.SideToMove
	them := us.Other()
	from := Square(m.From())
	to := Square(m.To())
	piece := p.PieceAt(from)
	pt := piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	captured := NoPiece
	if m.Kind() == game.EnPassant {
		capturedSq := to - 8
		if us == Black {
			capturedSq = to + 8
		}
		captured = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
	} else if c := p.PieceAt(to); c != NoPiece {
		captured = c
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][c.Type()][to]
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]

	if m.Kind() == game.Promotion {
		promoPt := PieceType(m.Param())
		p.Pieces[us][Pawn] &^= bb.SquareBB(int(to))
		p.Pieces[us][promoPt] |= bb.SquareBB(int(to))
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
	}

	if m.Kind() == game.CastleKingside || m.Kind() == game.CastleQueenside {
		var rookFrom, rookTo Square
		if m.Kind() == game.CastleKingside {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	// Castling rights: a right dies when the king moves or when the
	// relevant rook's home square is the source or destination.
	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}
	p.Hash ^= zobristCastling[p.CastlingRights]

	if m.Kind() == game.DoublePawnPush {
		epSquare := Square((int(from) + int(to)) / 2)
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}
	p.Ply++
	p.SideToMove = them
}
