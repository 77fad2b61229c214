package fairy

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// PseudolegalMoves generates the variant's pseudolegal move set: piece
// attacks, drops, and castling candidates, with promotion expansion.
func (b *Board) PseudolegalMoves() *game.MoveList {
	ml := game.NewMoveList()
	us := b.SideToMove

	// Pieces first, in table order (pawns lead in every built-in variant,
	// so promotion expansion clusters at the front of the list).
	for id := range b.rules.Pieces {
		piece := &b.rules.Pieces[id]
		pieces := b.PieceBBs[id].And(b.ColorBBs[us])
		for pieces.Any() {
			sq := pieces.PopLSB()
			b.genPieceMoves(ml, PieceID(id), piece, sq, us)
		}
	}

	// Drops.
	for i := range b.rules.Drops {
		spec := &b.rules.Drops[i]
		if b.InHand[us][spec.Piece] == 0 {
			continue
		}
		targets := applyFilters(b, b.rules.Mask, spec.Filters, us, false)
		for targets.Any() {
			to := targets.PopLSB()
			ml.Add(game.NewMove(game.NoSource, to, spec.Kind, int(spec.Piece), false))
		}
	}

	// Castling candidates; the path conditions are verified at apply time.
	if b.rules.HasCastling {
		b.genCastlingMoves(ml, us)
	}

	// Ataxx-style pass: with pieces but no moves, emit a single null move
	// if the opponent can still move.
	if ml.Len() == 0 && b.rules.Effects.ConversionRadius > 0 &&
		b.ColorBBs[us].Any() {
		w, h := b.rules.Size.Width, b.rules.Size.Height
		reach := b.ColorBBs[us.Other()].ExtendedMooreNeighbors128(2, w, h)
		if reach.And(b.EmptyBB()).Any() {
			ml.Add(game.NullMove)
		}
	}
	return ml
}

// genPieceMoves emits the moves of one piece on one square.
func (b *Board) genPieceMoves(ml *game.MoveList, id PieceID, piece *Piece, sq int, us game.Color) {
	them := b.ColorBBs[us.Other()]
	for i := range piece.Attacks {
		spec := &piece.Attacks[i]
		if !spec.applies(b, sq, us) {
			continue
		}
		targets := spec.raw(b, sq)
		targets = applyFilters(b, targets, spec.Filters, us, piece.CanEnPassant)
		switch spec.Mode {
		case CapturesOnly:
			capturable := them
			if piece.CanEnPassant && b.EP != NoSquare {
				capturable = capturable.Set(b.EP)
			}
			targets = targets.And(capturable)
		case NoCaptures:
			targets = targets.And(b.EmptyBB())
		default:
			targets = targets.AndNot(b.ColorBBs[us])
		}
		if spec.CaptureNever {
			targets = targets.AndNot(them)
		}
		for targets.Any() {
			to := targets.PopLSB()
			capture := them.IsSet(to) && !spec.CaptureNever
			kind := spec.MoveKind
			if piece.CanEnPassant && b.EP == to && spec.Mode == CapturesOnly {
				kind = game.EnPassant
				capture = true
			}
			b.emitWithPromotion(ml, piece, sq, to, kind, capture)
		}
	}
}

// emitWithPromotion expands a move into one move per promotion target when
// the destination lies in the piece's promotion zone.
func (b *Board) emitWithPromotion(ml *game.MoveList, piece *Piece, from, to int, kind game.MoveKind, capture bool) {
	if len(piece.PromoTargets) > 0 && piece.PromoSquares.IsSet(to) && kind != game.DoublePawnPush {
		for _, target := range piece.PromoTargets {
			ml.Add(game.NewMove(from, to, game.Promotion, int(target), capture))
		}
		return
	}
	ml.Add(game.NewMove(from, to, kind, 0, capture))
}

// genCastlingMoves emits the pseudolegal castle candidates: right set,
// castler on its home square, rook present.
func (b *Board) genCastlingMoves(ml *game.MoveList, us game.Color) {
	info := &b.rules.Castling
	kingHome := info.KingHome[us]
	royal := b.PieceAt(kingHome)
	if royal.ID == NoPieceID || royal.Color != us || !b.rules.Pieces[royal.ID].CanCastle {
		return
	}
	for side := Kingside; side <= Queenside; side++ {
		if !b.CastlingRights[us][side] {
			continue
		}
		rookSq := info.RookHome[us][side]
		rook := b.PieceAt(rookSq)
		if rook.ID == NoPieceID || rook.Color != us {
			continue
		}
		kind := game.CastleKingside
		if side == Queenside {
			kind = game.CastleQueenside
		}
		ml.Add(game.NewMove(kingHome, info.KingDest[us][side], kind, 0, false))
	}
}

// canCastle verifies the castle legality gate: the king is not in check,
// no square on the king's path is attacked, and the lanes between king and
// rook (treating the two as transparent to each other) are empty.
func (b *Board) canCastle(m game.Move, us game.Color) bool {
	side := Kingside
	if m.Kind() == game.CastleQueenside {
		side = Queenside
	}
	info := &b.rules.Castling
	from := m.From()
	to := m.To()
	if !b.CastlingRights[us][side] || from != info.KingHome[us] {
		return false
	}
	rookSq := info.RookHome[us][side]
	rookDest := info.RookDest[us][side]

	theirAttacks := b.AttackBB(us.Other())
	if theirAttacks.IsSet(from) {
		return false
	}
	kingPath := rayInclusive(from, to, b.rules.Size.Width)
	if kingPath.And(theirAttacks).Any() {
		return false
	}

	occupied := b.OccupiedBB().
		ClearBit(from).
		ClearBit(rookSq)
	lanes := kingPath.Or(rayInclusive(rookSq, rookDest, b.rules.Size.Width)).
		ClearBit(from)
	return lanes.And(occupied).IsZero()
}

// rayInclusive returns the squares from a to c along their shared rank,
// both endpoints included. Castling lanes are always horizontal.
func rayInclusive(a, c, width int) bb.Bitboard128 {
	lo, hi := a, c
	if lo > hi {
		lo, hi = hi, lo
	}
	ray := bb.Empty128
	for sq := lo; sq <= hi; sq++ {
		ray = ray.Set(sq)
	}
	return ray
}

// LegalMovesSlow filters the pseudolegal set by applying each move.
func (b *Board) LegalMovesSlow() *game.MoveList {
	pseudo := b.PseudolegalMoves()
	ml := game.NewMoveList()
	for i := 0; i < pseudo.Len(); i++ {
		if _, ok := b.MakeMove(pseudo.Get(i)); ok {
			ml.Add(pseudo.Get(i))
		}
	}
	return ml
}

// IsMovePseudolegal tests membership in the pseudolegal set. The fairy
// engine checks by regenerating the candidate set of the source square,
// which is bounded by the piece's attack specs rather than the whole move
// list.
func (b *Board) IsMovePseudolegal(m game.Move) bool {
	if m == game.NullMove {
		moves := b.PseudolegalMoves()
		return moves.Len() == 1 && moves.Get(0) == game.NullMove
	}
	us := b.SideToMove
	if !m.HasSource() {
		// Drops: the piece must be in hand and the target must pass the
		// drop filters.
		for i := range b.rules.Drops {
			spec := &b.rules.Drops[i]
			if spec.Kind != m.Kind() {
				continue
			}
			if m.Kind() == game.Drop && int(spec.Piece) != m.Param() {
				continue
			}
			if b.InHand[us][spec.Piece] == 0 {
				continue
			}
			targets := applyFilters(b, b.rules.Mask, spec.Filters, us, false)
			if targets.IsSet(m.To()) {
				return true
			}
		}
		return false
	}
	from := m.From()
	p := b.PieceAt(from)
	if p.ID == NoPieceID || p.Color != us {
		return false
	}
	ml := game.NewMoveList()
	b.genPieceMoves(ml, p.ID, &b.rules.Pieces[p.ID], from, us)
	if b.rules.HasCastling {
		b.genCastlingMoves(ml, us)
	}
	return ml.Contains(m)
}

// IsMoveLegal is equivalent to MakeMove succeeding on a pseudolegal move.
func (b *Board) IsMoveLegal(m game.Move) bool {
	if !b.IsMovePseudolegal(m) {
		return false
	}
	_, ok := b.MakeMove(m)
	return ok
}
