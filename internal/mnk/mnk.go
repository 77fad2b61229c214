// Package mnk implements generalized m,n,k games: stones are placed on an
// m-rows by n-columns grid and k same-colored stones in a row (in any of
// the four ray directions) win. Tic-tac-toe is the (3,3,3) instance.
package mnk

import (
	"fmt"

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

// Settings is the (height, width, k) triple of an m,n,k game.
type Settings struct {
	Height, Width, K int
}

// TicTacToe returns the (3,3,3) settings.
func TicTacToe() Settings {
	return Settings{Height: 3, Width: 3, K: 3}
}

// Connect4Board returns connect-four-shaped settings (without gravity).
func Connect4Board() Settings {
	return Settings{Height: 6, Width: 7, K: 4}
}

// Validate checks the geometry bounds: the board must fit 128 squares and
// k must be achievable.
func (s Settings) Validate() error {
	if s.Height < 1 || s.Width < 1 || s.K < 1 {
		return fmt.Errorf("mnk settings %dx%d k=%d: all values must be positive", s.Height, s.Width, s.K)
	}
	if s.Width > bb.MaxWidth {
		return fmt.Errorf("mnk settings %dx%d: width exceeds the maximum of %d", s.Height, s.Width, bb.MaxWidth)
	}
	if s.Height*s.Width > 128 {
		return fmt.Errorf("mnk settings %dx%d: more than 128 squares", s.Height, s.Width)
	}
	if s.K > s.Height && s.K > s.Width {
		return fmt.Errorf("mnk settings %dx%d k=%d: k fits in neither direction", s.Height, s.Width, s.K)
	}
	return nil
}

// Size returns the board geometry.
func (s Settings) Size() game.Size {
	return game.Size{Width: s.Width, Height: s.Height}
}

// NoLastMove marks a board without a previous move.
const NoLastMove = -1

// Board is an m,n,k position. Value-typed; MakeMove copies.
type Board struct {
	Settings   Settings
	Colors     [2]bb.Bitboard128
	SideToMove game.Color
	Ply        int
	LastMove   int // destination of the previous move, or NoLastMove
}

// Empty returns an empty board for the settings, which is also the
// starting position.
func Empty(s Settings) (*Board, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Board{Settings: s, SideToMove: X, LastMove: NoLastMove}, nil
}

// StartPos returns the starting position and panics on invalid settings;
// use Empty for error handling.
func StartPos(s Settings) *Board {
	b, err := Empty(s)
	if err != nil {
		panic(err)
	}
	return b
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

// mask covers the board's squares.
func (b *Board) mask() bb.Bitboard128 {
	return bb.BoardMask(b.Settings.Width, b.Settings.Height)
}

// OccupiedBB returns all stones.
func (b *Board) OccupiedBB() bb.Bitboard128 {
	return b.Colors[0].Or(b.Colors[1])
}

// EmptyBB returns the empty squares.
func (b *Board) EmptyBB() bb.Bitboard128 {
	return b.OccupiedBB().Not().And(b.mask())
}

// ZobristHash hashes the stone placement structurally. The side to move is
// implied by the stone-count parity but is hashed anyway so that null
// moves change the hash.
func (b *Board) ZobristHash() uint64 {
	return game.StructuralHash(
		b.Colors[0].Lo, b.Colors[0].Hi,
		b.Colors[1].Lo, b.Colors[1].Hi,
		uint64(b.SideToMove))
}

// PseudolegalMoves equals the legal move set: every empty square.
func (b *Board) PseudolegalMoves() *game.MoveList {
	return b.LegalMovesSlow()
}

// LegalMovesSlow emits one placement per empty square.
func (b *Board) LegalMovesSlow() *game.MoveList {
	ml := game.NewMoveList()
	empty := b.EmptyBB()
	for empty.Any() {
		idx := empty.PopLSB()
		ml.Add(game.NewMove(game.NoSource, idx, game.Normal, 0, false))
	}
	return ml
}

// IsMovePseudolegal requires an empty target square on the board.
func (b *Board) IsMovePseudolegal(m game.Move) bool {
	if m == game.NullMove {
		return false
	}
	to := m.To()
	return to < b.Settings.Height*b.Settings.Width && b.EmptyBB().IsSet(to)
}

// IsMoveLegal equals IsMovePseudolegal: all pseudolegal moves are legal.
func (b *Board) IsMoveLegal(m game.Move) bool {
	return b.IsMovePseudolegal(m)
}

// MakeMove places the stone and hands the turn over.
func (b *Board) MakeMove(m game.Move) (*Board, bool) {
	if m == game.NullMove {
		return b.MakeNullMove()
	}
	n := b.Copy()
	n.Colors[n.SideToMove] = n.Colors[n.SideToMove].Set(m.To())
	n.SideToMove = n.SideToMove.Other()
	n.LastMove = m.To()
	n.Ply++
	return n, true
}

// MakeNullMove flips the side to move.
func (b *Board) MakeNullMove() (*Board, bool) {
	n := b.Copy()
	n.SideToMove = n.SideToMove.Other()
	n.Ply++
	return n, true
}

// isGameLost reports whether the stone placed by the last move completed a
// run of at least k. The slider-attack trick: with every non-own square as
// a blocker, the attack set from the last move contains exactly the
// adjacent own stones along each ray, so a count of k-1 own attacked
// squares plus the stone itself is a full run.
func (b *Board) isGameLost() bool {
	if b.LastMove == NoLastMove {
		return false
	}
	sq := b.LastMove
	var player game.Color
	switch {
	case b.Colors[X].IsSet(sq):
		player = X
	case b.Colors[O].IsSet(sq):
		player = O
	default:
		return false
	}
	playerBB := b.Colors[player]
	blockers := playerBB.Not()
	w, h := b.Settings.Width, b.Settings.Height
	for _, dir := range []bb.RayDir{bb.Horizontal, bb.Vertical, bb.Diagonal, bb.AntiDiagonal} {
		run := bb.SliderAttacks128(sq, blockers, w, h, dir).And(playerBB)
		if run.PopCount() >= b.Settings.K-1 {
			return true
		}
	}
	return false
}

// PlayerResultNoMovegen: the side to move has lost if the last move made a
// k-run; a full board without a run is a draw.
func (b *Board) PlayerResultNoMovegen(_ *game.History) game.PlayerResult {
	if b.isGameLost() {
		return game.Loss
	}
	if b.EmptyBB().IsZero() {
		return game.Draw
	}
	return game.NoResult
}

// PlayerResultSlow additionally finds k-runs in positions loaded from FEN,
// where no last move is known: it scans every stone of the player who
// moved last instead of only the last placement.
func (b *Board) PlayerResultSlow(h *game.History) game.PlayerResult {
	if b.LastMove == NoLastMove && b.hasRun(b.SideToMove.Other()) {
		return game.Loss
	}
	return b.PlayerResultNoMovegen(h)
}

// hasRun reports whether the player has k stones in a row anywhere.
func (b *Board) hasRun(player game.Color) bool {
	playerBB := b.Colors[player]
	blockers := playerBB.Not()
	w, h := b.Settings.Width, b.Settings.Height
	stones := playerBB
	for stones.Any() {
		sq := stones.PopLSB()
		for _, dir := range []bb.RayDir{bb.Horizontal, bb.Vertical, bb.Diagonal, bb.AntiDiagonal} {
			run := bb.SliderAttacks128(sq, blockers, w, h, dir).And(playerBB)
			if run.PopCount() >= b.Settings.K-1 {
				return true
			}
		}
	}
	return false
}

// String renders the board FEN.
func (b *Board) String() string {
	return b.FEN()
}
