package fairy

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// PlayerResultNoMovegen evaluates every enabled end condition that needs
// no move generation, from the perspective of the side to move.
func (b *Board) PlayerResultNoMovegen(h *game.History) game.PlayerResult {
	us := b.SideToMove
	for _, g := range b.rules.GameLoss {
		switch g.Kind {
		case LossNoRoyals:
			if b.RoyalBB(us).IsZero() {
				return game.Loss
			}
		case LossNoPieces:
			if b.ColorBBs[us].IsZero() {
				return game.Loss
			}
		case LossNoNonRoyals:
			if b.ColorBBs[us].AndNot(b.RoyalBB(us)).IsZero() {
				return game.Loss
			}
		case LossInRowAtLeast:
			if b.LastMove != NoSquare && b.runThrough(b.LastMove, g.K) {
				return game.Loss
			}
		case LossOpponentRoyalReached:
			if b.RoyalBB(us.Other()).And(g.Zone).Any() {
				return game.Loss
			}
		case LossFewerPiecesOnFullBoard:
			if b.EmptyBB().IsZero() {
				return b.countingResult()
			}
		}
	}
	for _, d := range b.rules.Draw {
		switch d.Kind {
		case DrawCounter:
			if b.HalfMoveClock >= d.N {
				return game.Draw
			}
		case DrawRepetition:
			if h != nil && h.Repeated(b.Hash, b.HalfMoveClock, d.N) {
				return game.Draw
			}
		case DrawInsufficientMaterial:
			if b.insufficientMaterial() {
				return game.Draw
			}
		}
	}
	return game.NoResult
}

// PlayerResultSlow is the full oracle: it adds the conditions that need
// move generation (checkmate, stalemate, shatranj's bare-king and
// no-moves rules) on top of the fast checks. Mates are found before the
// draw counter so that a mate on the hundredth halfmove still wins.
func (b *Board) PlayerResultSlow(h *game.History) game.PlayerResult {
	legal := b.LegalMovesSlow()
	if legal.Len() == 0 {
		// Having no pieces at all outranks having no moves (a horde out of
		// pawns has lost, not stalemated).
		if _, ok := b.rules.hasLoss(LossNoPieces); ok && b.ColorBBs[b.SideToMove].IsZero() {
			return game.Loss
		}
		if _, ok := b.rules.hasLoss(LossCheckmate); ok && b.InCheck() {
			return game.Loss
		}
		if _, ok := b.rules.hasLoss(LossNoMoves); ok {
			return game.Loss
		}
		if _, ok := b.rules.hasLoss(LossFewerPiecesOnFullBoard); ok {
			// A mutual Ataxx blockade ends the game by stone count even
			// with empty squares left.
			return b.countingResult()
		}
		if _, ok := b.rules.hasDraw(DrawNoMoves); ok {
			return game.Draw
		}
	}
	if res := b.bareKingResult(legal); res != game.NoResult {
		return res
	}
	// A k-in-a-row reached through FEN has no last move to anchor on; the
	// slow path scans every stone of the player who moved last.
	if g, ok := b.rules.hasLoss(LossInRowAtLeast); ok && b.LastMove == NoSquare {
		if b.hasRun(b.SideToMove.Other(), g.K) {
			return game.Loss
		}
	}
	return b.PlayerResultNoMovegen(h)
}

// countingResult compares stone counts from the mover's perspective.
func (b *Board) countingResult() game.PlayerResult {
	ours := b.ColorBBs[b.SideToMove].PopCount()
	theirs := b.ColorBBs[b.SideToMove.Other()].PopCount()
	switch {
	case ours > theirs:
		return game.Win
	case ours < theirs:
		return game.Loss
	default:
		return game.Draw
	}
}

// bareKingResult implements shatranj's bare-king rule: a player reduced
// to the lone king has lost, unless an immediate capture bares the
// opponent in return.
func (b *Board) bareKingResult(legal *game.MoveList) game.PlayerResult {
	if _, ok := b.rules.hasLoss(LossNoNonRoyalsExceptRecapture); !ok {
		return game.NoResult
	}
	us := b.SideToMove
	them := us.Other()
	if b.ColorBBs[us].AndNot(b.RoyalBB(us)).Any() {
		return game.NoResult
	}
	oppNonRoyal := b.ColorBBs[them].AndNot(b.RoyalBB(them))
	if oppNonRoyal.IsZero() {
		return game.Draw // both bared on consecutive moves
	}
	if oppNonRoyal.IsSingle() {
		target := oppNonRoyal.LSB()
		for i := 0; i < legal.Len(); i++ {
			if legal.Get(i).To() == target && legal.Get(i).IsCapture() {
				return game.NoResult // the recapture keeps the game alive
			}
		}
	}
	return game.Loss
}

// runThrough reports a completed k-run through the given square for the
// stone standing on it.
func (b *Board) runThrough(sq int, k int) bool {
	p := b.PieceAt(sq)
	if p.ID == NoPieceID {
		return false
	}
	playerBB := b.ColorBBs[p.Color]
	blockers := playerBB.Not()
	w, h := b.rules.Size.Width, b.rules.Size.Height
	for _, dir := range []bb.RayDir{bb.Horizontal, bb.Vertical, bb.Diagonal, bb.AntiDiagonal} {
		run := bb.SliderAttacks128(sq, blockers, w, h, dir).And(playerBB)
		if run.PopCount() >= k-1 {
			return true
		}
	}
	return false
}

// hasRun scans every stone of the player for a k-run.
func (b *Board) hasRun(player game.Color, k int) bool {
	stones := b.ColorBBs[player]
	for stones.Any() {
		if b.runThrough(stones.PopLSB(), k) {
			return true
		}
	}
	return false
}

// insufficientMaterial is the lax fairy rule: neither side can win when no
// non-royal material remains, or when the whole board holds a single
// minor-valued piece beside the royals.
func (b *Board) insufficientMaterial() bool {
	nonRoyal := b.OccupiedBB().AndNot(b.RoyalBB(0)).AndNot(b.RoyalBB(1))
	if nonRoyal.IsZero() {
		return true
	}
	if !nonRoyal.IsSingle() {
		return false
	}
	p := b.PieceAt(nonRoyal.LSB())
	name := b.rules.Pieces[p.ID].Name
	return name == "knight" || name == "bishop"
}
