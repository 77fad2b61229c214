package chess

import "github.com/hailam/boardkit/internal/game"

// PlayerResultSlow is the primary game-over oracle, from the perspective
// of the side to move. Checkmate is reported before the fifty-move rule:
// a mate delivered on the hundredth halfmove still wins.
func (p *Position) PlayerResultSlow(h *game.History) game.PlayerResult {
	if !p.HasLegalMoves() {
		if p.InCheck() {
			return game.Loss
		}
		return game.Draw
	}
	return p.PlayerResultNoMovegen(h)
}

// PlayerResultNoMovegen covers the game-over conditions that need no move
// generation: the fifty-move rule, threefold repetition, and insufficient
// material. Callers combine it with "no legal moves" for the full oracle.
func (p *Position) PlayerResultNoMovegen(h *game.History) game.PlayerResult {
	if p.HalfMoveClock >= 100 {
		return game.Draw
	}
	if h != nil && h.Repeated(p.Hash, p.HalfMoveClock, 3) {
		return game.Draw
	}
	if p.IsInsufficientMaterial() {
		return game.Draw
	}
	return game.NoResult
}

// IsCheckmate returns true if the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move has no legal moves and is
// not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
// Deliberately laxer than the FIDE rule: same-colored bishop pairs and
// similar dead positions are not detected.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wMinors := p.Pieces[White][Knight].PopCount() + p.Pieces[White][Bishop].PopCount()
	bMinors := p.Pieces[Black][Knight].PopCount() + p.Pieces[Black][Bishop].PopCount()

	// K vs K, and K+minor vs K
	if wMinors+bMinors == 0 {
		return true
	}
	if wMinors <= 1 && bMinors == 0 {
		return true
	}
	if bMinors <= 1 && wMinors == 0 {
		return true
	}
	return false
}
