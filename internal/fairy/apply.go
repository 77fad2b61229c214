package fairy

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// MakeMove applies a pseudolegal move copy-make: it runs the move's
// effects, the variant observers, the castling-rights bookkeeping, and the
// draw-counter policy, then rejects the successor if the mover's royals
// are left in check.
func (b *Board) MakeMove(m game.Move) (*Board, bool) {
	if m == game.NullMove {
		n := b.Copy()
		n.HalfMoveClock++
		return n.endMove()
	}
	if m.HasSource() {
		p := b.PieceAt(m.From())
		if p.ID == NoPieceID || p.Color != b.SideToMove {
			return nil, false
		}
	}
	if m.Kind() == game.CastleKingside || m.Kind() == game.CastleQueenside {
		if !b.canCastle(m, b.SideToMove) {
			return nil, false
		}
	}

	n := b.Copy()
	n.HalfMoveClock++ // effects may reset it back to zero
	n.applyEffects(m)
	if n.rules.Observers.AfterMove != nil {
		n.rules.Observers.AfterMove(n)
	}
	n.LastMove = m.To()
	return n.endMove()
}

// endMove flips the side to move and finalizes the successor; it fails if
// the mover's royals ended up in check, or, in no-check variants, if any
// royal is attacked at all.
func (b *Board) endMove() (*Board, bool) {
	if b.InCheckColor(b.SideToMove) {
		return nil, false
	}
	if b.rules.NoChecksAllowed && b.InCheckColor(b.SideToMove.Other()) {
		return nil, false
	}
	if b.SideToMove == game.SecondPlayer {
		b.FullMove++
	}
	b.Ply++
	b.SideToMove = b.SideToMove.Other()
	b.Hash = b.computeHash()
	return b, true
}

// MakeNullMove passes the turn. It fails while in check for variants with
// royals; pass-friendly variants (Ataxx) never refuse.
func (b *Board) MakeNullMove() (*Board, bool) {
	if b.InCheck() {
		return nil, false
	}
	n := b.Copy()
	n.EP = NoSquare
	n.LastMove = NoSquare
	n.HalfMoveClock++
	return n.endMove()
}

// applyEffects runs the per-kind effect sequence of the move.
func (b *Board) applyEffects(m game.Move) {
	us := b.SideToMove
	from := m.From()
	to := m.To()
	var mover ColoredPiece
	if m.HasSource() {
		mover = b.PieceAt(from)
	}
	policyID := NoPieceID
	switch {
	case m.HasSource() && mover.ID != NoPieceID:
		policyID = mover.ID
	case m.Kind() == game.Drop:
		policyID = PieceID(m.Param())
	case m.Kind() == game.Cloning:
		policyID = 0
	}

	// Capture removal, en passant aware. The OnCapture observer runs only
	// after the kind effects, once the capturer stands on its destination
	// (atomic's explosion removes it again).
	var captured ColoredPiece
	capturedWasPromoted := false
	if m.IsCapture() || m.Kind() == game.EnPassant {
		captureSq := to
		if m.Kind() == game.EnPassant {
			captureSq = b.epVictimSquare(to, us)
		}
		capturedWasPromoted = b.Promoted.IsSet(captureSq)
		captured = b.removePiece(captureSq)
	}

	setEP := NoSquare
	switch m.Kind() {
	case game.Normal, game.EnPassant:
		b.movePieceEffect(from, to, mover)
	case game.DoublePawnPush:
		b.movePieceEffect(from, to, mover)
		// Only a push an enemy pawn stands beside yields an ep square.
		w, h := b.rules.Size.Width, b.rules.Size.Height
		dest := bb.SquareBB128(to)
		beside := dest.East128(w, h).Or(dest.West128(w, h))
		enemySame := b.PieceBBs[mover.ID].And(b.ColorBBs[us.Other()])
		if beside.And(enemySame).Any() {
			setEP = (from + to) / 2
		}
	case game.Promotion:
		b.removePiece(from)
		promoted := ColoredPiece{ID: PieceID(m.Param()), Color: us}
		b.placePiece(to, promoted)
		if b.rules.PromotedFlagFEN {
			b.Promoted = b.Promoted.Set(to)
		}
	case game.Drop:
		dropped := ColoredPiece{ID: PieceID(m.Param()), Color: us}
		b.placePiece(to, dropped)
		if b.InHand[us][dropped.ID] != InfiniteHand {
			b.InHand[us][dropped.ID]--
		}
		if b.rules.Observers.OnPlace != nil {
			b.rules.Observers.OnPlace(b, dropped, to)
		}
	case game.ChangePiece:
		b.removePiece(from)
		b.placePiece(to, ColoredPiece{ID: PieceID(m.Param()), Color: us})
	case game.CastleKingside, game.CastleQueenside:
		side := Kingside
		if m.Kind() == game.CastleQueenside {
			side = Queenside
		}
		info := &b.rules.Castling
		rook := b.removePiece(info.RookHome[us][side])
		b.removePiece(from)
		b.placePiece(to, mover)
		b.placePiece(info.RookDest[us][side], rook)
	case game.Cloning:
		// A new stone appears next to an existing one; hands are infinite.
		b.placePiece(to, ColoredPiece{ID: 0, Color: us})
		b.convertAround(to, us)
		b.HalfMoveClock = 0
	case game.Leaping:
		b.removePiece(from)
		b.placePiece(to, mover)
		if b.convertAround(to, us) && b.rules.Effects.ResetDrawCtrOnConversion {
			b.HalfMoveClock = 0
		}
	case game.Conversion:
		b.convertAround(to, us)
	}

	if captured.ID != NoPieceID && b.rules.Observers.OnCapture != nil {
		b.rules.Observers.OnCapture(b, captured, to, capturedWasPromoted)
	}

	// Draw-counter policy: piece policy, then capture policy.
	if policyID != NoPieceID && b.rules.Pieces[policyID].ResetsDrawCounter(m.Kind()) {
		b.HalfMoveClock = 0
	}
	if b.rules.Effects.ResetDrawCtrOnCapture && captured.ID != NoPieceID {
		b.HalfMoveClock = 0
	}

	b.EP = setEP

	// Castling rights die when the castler moves or a rook home square is
	// touched.
	if b.rules.HasCastling {
		b.updateCastlingRights(from, to)
	}
}

// movePieceEffect relocates a piece, carrying its promoted flag.
func (b *Board) movePieceEffect(from, to int, mover ColoredPiece) {
	wasPromoted := b.Promoted.IsSet(from)
	b.removePiece(from)
	b.placePiece(to, mover)
	if wasPromoted {
		b.Promoted = b.Promoted.Set(to)
	}
}

// epVictimSquare locates the pawn captured en passant: one rank behind
// the target from the mover's perspective.
func (b *Board) epVictimSquare(epSquare int, us game.Color) int {
	if us == game.FirstPlayer {
		return epSquare - b.rules.Size.Width
	}
	return epSquare + b.rules.Size.Width
}

// convertAround flips every enemy piece within the conversion radius of
// the landing square to the mover's color. Returns true if anything
// flipped.
func (b *Board) convertAround(to int, us game.Color) bool {
	radius := b.rules.Effects.ConversionRadius
	if radius == 0 {
		return false
	}
	w, h := b.rules.Size.Width, b.rules.Size.Height
	zone := bb.SquareBB128(to).ExtendedMooreNeighbors128(radius, w, h)
	flipped := b.ColorBBs[us.Other()].And(zone)
	if flipped.IsZero() {
		return false
	}
	b.ColorBBs[us.Other()] = b.ColorBBs[us.Other()].Xor(flipped)
	b.ColorBBs[us] = b.ColorBBs[us].Or(flipped)
	return true
}

// updateCastlingRights clears rights whose king or rook home square was
// the move's source or destination, and rights whose pieces are gone
// entirely (atomic explosions clear squares no move touched).
func (b *Board) updateCastlingRights(from, to int) {
	info := &b.rules.Castling
	for c := game.Color(0); c < 2; c++ {
		king := b.PieceAt(info.KingHome[c])
		kingGone := king.ID == NoPieceID || king.Color != c || !b.rules.Pieces[king.ID].CanCastle
		if kingGone || from == info.KingHome[c] || to == info.KingHome[c] {
			b.CastlingRights[c][Kingside] = false
			b.CastlingRights[c][Queenside] = false
		}
		for s := Kingside; s <= Queenside; s++ {
			rook := b.PieceAt(info.RookHome[c][s])
			rookGone := rook.ID == NoPieceID || rook.Color != c
			if rookGone || from == info.RookHome[c][s] || to == info.RookHome[c][s] {
				b.CastlingRights[c][s] = false
			}
		}
	}
}
