package chess

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// PseudolegalMoves generates all pseudolegal moves (may leave the own king
// in check).
func (p *Position) PseudolegalMoves() *game.MoveList {
	ml := game.NewMoveList()
	p.generateAllMoves(ml)
	return ml
}

// LegalMovesSlow generates the exact legal move set by applying each
// pseudolegal move.
func (p *Position) LegalMovesSlow() *game.MoveList {
	ml := game.NewMoveList()
	p.generateAllMoves(ml)
	result := game.NewMoveList()
	for i := 0; i < ml.Len(); i++ {
		if _, ok := p.MakeMove(ml.Get(i)); ok {
			result.Add(ml.Get(i))
		}
	}
	return result
}

// HasLegalMoves returns true if the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	ml := game.NewMoveList()
	p.generateAllMoves(ml)
	for i := 0; i < ml.Len(); i++ {
		if _, ok := p.MakeMove(ml.Get(i)); ok {
			return true
		}
	}
	return false
}

// IsMoveLegal is equivalent to MakeMove succeeding.
func (p *Position) IsMoveLegal(m game.Move) bool {
	if !p.IsMovePseudolegal(m) {
		return false
	}
	_, ok := p.MakeMove(m)
	return ok
}

// generateAllMoves generates all pseudolegal moves.
func (p *Position) generateAllMoves(ml *game.MoveList) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	// Pawn moves
	p.generatePawnMoves(ml, us, enemies, occupied)

	// Knight moves
	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := bb.KnightAttacks(from) &^ p.Occupied[us]
		p.emitTargets(ml, from, attacks, enemies)
	}

	// Bishop moves
	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := bb.BishopAttacks(from, occupied) &^ p.Occupied[us]
		p.emitTargets(ml, from, attacks, enemies)
	}

	// Rook moves
	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := bb.RookAttacks(from, occupied) &^ p.Occupied[us]
		p.emitTargets(ml, from, attacks, enemies)
	}

	// Queen moves
	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := bb.QueenAttacks(from, occupied) &^ p.Occupied[us]
		p.emitTargets(ml, from, attacks, enemies)
	}

	// King moves last, for classical printing order
	from := int(p.KingSquare[us])
	attacks := bb.KingAttacks(from) &^ p.Occupied[us]
	p.emitTargets(ml, from, attacks, enemies)

	// Castling
	p.generateCastlingMoves(ml, us)
}

// emitTargets adds one Normal move per target bit, flagging captures.
func (p *Position) emitTargets(ml *game.MoveList, from int, targets, enemies bb.Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(game.NewMove(from, to, game.Normal, 0, enemies.IsSet(to)))
	}
}

// generatePawnMoves generates all pawn moves.
func (p *Position) generatePawnMoves(ml *game.MoveList, us game.Color, enemies, occupied bb.Bitboard) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR, promotionRank bb.Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & bb.Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = bb.Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & bb.Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = bb.Rank1
		pushDir = -8
	}

	// Single pushes (non-promotion)
	nonPromo := push1 &^ promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(game.NewMove(to-pushDir, to, game.Normal, 0, false))
	}

	// Double pushes. The DoublePawnPush kind is reserved for pushes an
	// enemy pawn could answer en passant; only those set the ep square.
	enemyPawns := p.Pieces[us.Other()][Pawn]
	for push2 != 0 {
		to := push2.PopLSB()
		toBB := bb.SquareBB(to)
		kind := game.Normal
		if (toBB.East()|toBB.West())&enemyPawns != 0 {
			kind = game.DoublePawnPush
		}
		ml.Add(game.NewMove(to-2*pushDir, to, kind, 0, false))
	}

	// Captures (non-promotion)
	nonPromoL := attackL &^ promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		ml.Add(game.NewMove(to-pushDir+1, to, game.Normal, 0, true))
	}
	nonPromoR := attackR &^ promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		ml.Add(game.NewMove(to-pushDir-1, to, game.Normal, 0, true))
	}

	// Promotions
	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(ml, to-pushDir, to, false)
	}
	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		addPromotions(ml, to-pushDir+1, to, true)
	}
	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		addPromotions(ml, to-pushDir-1, to, true)
	}

	// En passant
	if p.EnPassant != NoSquare {
		epBB := bb.SquareBB(int(p.EnPassant))
		var epAttackers bb.Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(game.NewMove(from, int(p.EnPassant), game.EnPassant, 0, true))
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *game.MoveList, from, to int, capture bool) {
	ml.Add(game.NewMove(from, to, game.Promotion, int(Queen), capture))
	ml.Add(game.NewMove(from, to, game.Promotion, int(Rook), capture))
	ml.Add(game.NewMove(from, to, game.Promotion, int(Bishop), capture))
	ml.Add(game.NewMove(from, to, game.Promotion, int(Knight), capture))
}

// generateCastlingMoves generates castling moves. Path emptiness and the
// king's safety along the lane are checked here; the final "king not left
// in check" test happens in MakeMove like for every other move.
func (p *Position) generateCastlingMoves(ml *game.MoveList, us game.Color) {
	if us == White {
		if p.canCastle(White, true) {
			ml.Add(game.NewMove(int(E1), int(G1), game.CastleKingside, 0, false))
		}
		if p.canCastle(White, false) {
			ml.Add(game.NewMove(int(E1), int(C1), game.CastleQueenside, 0, false))
		}
	} else {
		if p.canCastle(Black, true) {
			ml.Add(game.NewMove(int(E8), int(G8), game.CastleKingside, 0, false))
		}
		if p.canCastle(Black, false) {
			ml.Add(game.NewMove(int(E8), int(C8), game.CastleQueenside, 0, false))
		}
	}
}

// canCastle checks the right, the empty lane, and the attack-free king path.
func (p *Position) canCastle(us game.Color, kingSide bool) bool {
	if !p.CastlingRights.CanCastle(us, kingSide) {
		return false
	}
	them := us.Other()
	var mustBeEmpty bb.Bitboard
	var kingPath []Square
	if us == White {
		if kingSide {
			mustBeEmpty = bb.SquareBB(int(F1)) | bb.SquareBB(int(G1))
			kingPath = []Square{E1, F1, G1}
		} else {
			mustBeEmpty = bb.SquareBB(int(B1)) | bb.SquareBB(int(C1)) | bb.SquareBB(int(D1))
			kingPath = []Square{E1, D1, C1}
		}
	} else {
		if kingSide {
			mustBeEmpty = bb.SquareBB(int(F8)) | bb.SquareBB(int(G8))
			kingPath = []Square{E8, F8, G8}
		} else {
			mustBeEmpty = bb.SquareBB(int(B8)) | bb.SquareBB(int(C8)) | bb.SquareBB(int(D8))
			kingPath = []Square{E8, D8, C8}
		}
	}
	if p.AllOccupied&mustBeEmpty != 0 {
		return false
	}
	for _, sq := range kingPath {
		if p.IsSquareAttacked(sq, them) {
			return false
		}
	}
	return true
}

// IsMovePseudolegal tests whether the move could have been generated for
// this position, without generating the full move list.
func (p *Position) IsMovePseudolegal(m game.Move) bool {
	if m == game.NullMove || !m.HasSource() {
		return false
	}
	us := p.SideToMove
	from := Square(m.From())
	to := Square(m.To())
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	piece := p.PieceAt(from)
	if piece == NoPiece || piece.Color() != us {
		return false
	}
	if p.Occupied[us].IsSet(int(to)) {
		return false
	}
	occupiedTo := p.Occupied[us.Other()].IsSet(int(to))
	pt := piece.Type()

	switch m.Kind() {
	case game.CastleKingside:
		return pt == King && p.canCastle(us, true)
	case game.CastleQueenside:
		return pt == King && p.canCastle(us, false)
	case game.EnPassant:
		return pt == Pawn && to == p.EnPassant &&
			bb.PawnAttacks(int(from), int(us)).IsSet(int(to))
	case game.Promotion:
		if pt != Pawn || m.IsCapture() != occupiedTo {
			return false
		}
		lastRank := 7
		if us == Black {
			lastRank = 0
		}
		if to.Rank() != lastRank {
			return false
		}
		promo := PieceType(m.Param())
		if promo < Knight || promo > Queen {
			return false
		}
		return p.pawnCanStep(from, to, occupiedTo, us)
	case game.Normal, game.DoublePawnPush:
		// fall through below
	default:
		return false
	}

	switch pt {
	case Pawn:
		if m.IsCapture() != occupiedTo {
			return false
		}
		promoRank := 7
		if us == Black {
			promoRank = 0
		}
		if to.Rank() == promoRank {
			return false // must be a Promotion move
		}
		if m.Kind() == game.DoublePawnPush {
			return p.pawnDoubleStepOK(from, to, us)
		}
		// A plain two-step push is also encoded Normal when no enemy pawn
		// could take en passant.
		if abs(int(to)-int(from)) == 16 {
			toBB := bb.SquareBB(int(to))
			if (toBB.East()|toBB.West())&p.Pieces[us.Other()][Pawn] != 0 {
				return false // must be a DoublePawnPush move
			}
			return p.pawnDoubleStepOK(from, to, us)
		}
		return p.pawnCanStep(from, to, occupiedTo, us)
	case Knight:
		return m.Kind() == game.Normal && m.IsCapture() == occupiedTo &&
			bb.KnightAttacks(int(from)).IsSet(int(to))
	case Bishop:
		return m.Kind() == game.Normal && m.IsCapture() == occupiedTo &&
			bb.BishopAttacks(int(from), p.AllOccupied).IsSet(int(to))
	case Rook:
		return m.Kind() == game.Normal && m.IsCapture() == occupiedTo &&
			bb.RookAttacks(int(from), p.AllOccupied).IsSet(int(to))
	case Queen:
		return m.Kind() == game.Normal && m.IsCapture() == occupiedTo &&
			bb.QueenAttacks(int(from), p.AllOccupied).IsSet(int(to))
	case King:
		return m.Kind() == game.Normal && m.IsCapture() == occupiedTo &&
			bb.KingAttacks(int(from)).IsSet(int(to))
	}
	return false
}

// pawnCanStep validates a one-step pawn push or a diagonal pawn capture.
func (p *Position) pawnCanStep(from, to Square, capture bool, us game.Color) bool {
	if capture {
		return bb.PawnAttacks(int(from), int(us)).IsSet(int(to))
	}
	dir := 8
	if us == Black {
		dir = -8
	}
	return int(to)-int(from) == dir && p.IsEmpty(to)
}

// pawnDoubleStepOK validates a two-step pawn push.
func (p *Position) pawnDoubleStepOK(from, to Square, us game.Color) bool {
	dir, homeRank := 8, 1
	if us == Black {
		dir, homeRank = -8, 6
	}
	if from.Rank() != homeRank || int(to)-int(from) != 2*dir {
		return false
	}
	mid := Square(int(from) + dir)
	return p.IsEmpty(mid) && p.IsEmpty(to)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
