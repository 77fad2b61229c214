// Package ataxx implements the 7x7 Ataxx board: cloning and leaping moves,
// stone conversion, blocked squares, the pass rule, and the 100-halfmove
// draw counter. Squares use the 8-wide bitboard-aligned layout of the
// shared 64-bit bitboards; the eighth file and rank stay permanently
// blocked.
package ataxx

import (
	"fmt"

	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// X moves first; the conventional Ataxx colors are x and o.
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

const (
	// Width and Height of the playing area.
	Width  = 7
	Height = 7
)

// StartFEN is the standard Ataxx starting position.
const StartFEN = "x5o/7/7/7/7/7/o5x x 0 1"

// boardMask covers the 49 playable squares of the 8-wide layout.
var boardMask bb.Bitboard

// moore1 and ring2 are the cloning and leaping target tables per square.
var (
	moore1 [64]bb.Bitboard
	ring2  [64]bb.Bitboard
)

func init() {
	for r := 0; r < Height; r++ {
		for f := 0; f < Width; f++ {
			boardMask = boardMask.Set(r*8 + f)
		}
	}
	for sq := 0; sq < 64; sq++ {
		single := bb.SquareBB(sq)
		moore1[sq] = single.MooreNeighbors() & boardMask
		ring2[sq] = (single.ExtendedMooreNeighbors(2) &^ single.ExtendedMooreNeighbors(1)) & boardMask
	}
}

// Board is an Ataxx position. Boards are value types; MakeMove copies.
type Board struct {
	Colors        [2]bb.Bitboard // stones per color
	EmptyBB       bb.Bitboard    // empty, non-blocked squares
	SideToMove    game.Color
	Ply           int
	HalfMoveClock int // plies without progress, draw at 100
}

// New creates a board from explicit bitboards. The blocked set is the
// complement of stones and empty squares; bits outside the 7x7 mask are
// always blocked.
func New(blocked, xStones, oStones bb.Bitboard) (*Board, error) {
	blocked |= ^boardMask
	if xStones&oStones != 0 {
		return nil, fmt.Errorf("overlapping x and o stones (bitboard %x)", uint64(xStones&oStones))
	}
	if blocked&(xStones|oStones) != 0 {
		return nil, fmt.Errorf("stones on blocked squares (bitboard %x)", uint64(blocked&(xStones|oStones)))
	}
	return &Board{
		Colors:     [2]bb.Bitboard{xStones, oStones},
		EmptyBB:    ^(blocked | xStones | oStones),
		SideToMove: X,
	}, nil
}

// StartPos returns the canonical starting position.
func StartPos() *Board {
	b, _ := FromFEN(StartFEN)
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

// ColorBB returns the stone set of a color.
func (b *Board) ColorBB(c game.Color) bb.Bitboard {
	return b.Colors[c]
}

// OccupiedBB returns all stones of both colors.
func (b *Board) OccupiedBB() bb.Bitboard {
	return b.Colors[0] | b.Colors[1]
}

// BlockedBB returns the blocked squares, including everything outside the
// 7x7 mask.
func (b *Board) BlockedBB() bb.Bitboard {
	return ^(b.EmptyBB | b.Colors[0] | b.Colors[1])
}

// ZobristHash hashes the stone placement and side to move. Ataxx uses a
// structural hash: its whole state is three words.
func (b *Board) ZobristHash() uint64 {
	return game.StructuralHash(uint64(b.Colors[0]), uint64(b.Colors[1]), uint64(b.SideToMove))
}

// PseudolegalMoves returns the legal move set; every pseudolegal Ataxx
// move is legal.
func (b *Board) PseudolegalMoves() *game.MoveList {
	return b.LegalMovesSlow()
}

// LegalMovesSlow generates cloning moves for every empty neighbor of the
// mover's stones, leaping moves from each stone to its outer ring, and a
// single pass move when the mover is stuck but the opponent can still
// move. An empty list means the game is over.
func (b *Board) LegalMovesSlow() *game.MoveList {
	ml := game.NewMoveList()
	pieces := b.Colors[b.SideToMove]
	empty := b.EmptyBB

	clones := pieces.MooreNeighbors() & empty
	for clones != 0 {
		to := clones.PopLSB()
		ml.Add(game.NewMove(game.NoSource, to, game.Cloning, 0, false))
	}
	sources := pieces
	for sources != 0 {
		from := sources.PopLSB()
		leaps := ring2[from] & empty
		for leaps != 0 {
			to := leaps.PopLSB()
			ml.Add(game.NewMove(from, to, game.Leaping, 0, false))
		}
	}
	if ml.Len() == 0 && pieces != 0 {
		other := b.Colors[b.SideToMove.Other()]
		// The mover may only pass while the opponent can still move;
		// otherwise the game is over and the list stays empty.
		if other.ExtendedMooreNeighbors(2)&empty != 0 {
			ml.Add(game.NullMove)
		}
	}
	return ml
}

// IsMovePseudolegal tests a move without generating the move list.
func (b *Board) IsMovePseudolegal(m game.Move) bool {
	if m == game.NullMove {
		moves := b.LegalMovesSlow()
		return moves.Len() == 1 && moves.Get(0) == game.NullMove
	}
	to := m.To()
	if !b.EmptyBB.IsSet(to) {
		return false
	}
	switch m.Kind() {
	case game.Cloning:
		return m.From() == game.NoSource &&
			b.Colors[b.SideToMove].MooreNeighbors().IsSet(to)
	case game.Leaping:
		from := m.From()
		return from != game.NoSource &&
			b.Colors[b.SideToMove].IsSet(from) && ring2[from].IsSet(to)
	}
	return false
}

// IsMoveLegal is the same as IsMovePseudolegal: Ataxx has no hidden
// legality conditions.
func (b *Board) IsMoveLegal(m game.Move) bool {
	return b.IsMovePseudolegal(m)
}

// MakeMove applies a move copy-make. The halfmove clock resets on cloning
// and on any conversion; a leap that flips nothing increments it.
func (b *Board) MakeMove(m game.Move) (*Board, bool) {
	n := b.Copy()
	color := n.SideToMove
	n.SideToMove = color.Other()
	n.Ply++

	if m == game.NullMove {
		n.HalfMoveClock++
		return n, true
	}

	if m.Kind() == game.Leaping {
		srcBB := bb.SquareBB(m.From())
		n.Colors[color] ^= srcBB
		n.EmptyBB ^= srcBB
	}

	dest := m.To()
	destBB := bb.SquareBB(dest)
	converted := n.Colors[color.Other()] & moore1[dest]
	n.Colors[color.Other()] ^= converted
	n.Colors[color] |= converted | destBB
	n.EmptyBB ^= destBB

	if m.Kind() == game.Cloning || converted != 0 {
		n.HalfMoveClock = 0
	} else {
		n.HalfMoveClock++
	}
	return n, true
}

// MakeNullMove passes the turn unconditionally.
func (b *Board) MakeNullMove() (*Board, bool) {
	n := b.Copy()
	n.SideToMove = n.SideToMove.Other()
	n.Ply++
	n.HalfMoveClock++
	return n, true
}

// PlayerResultNoMovegen checks the Ataxx end conditions: a side with no
// stones has lost; at 100 quiet halfmoves the game is drawn; on a full
// board the stone counts decide.
func (b *Board) PlayerResultNoMovegen(_ *game.History) game.PlayerResult {
	color := b.SideToMove
	if b.Colors[color] == 0 {
		return game.Loss
	}
	if b.EmptyBB != 0 {
		if b.HalfMoveClock >= 100 {
			return game.Draw
		}
		return game.NoResult
	}
	ours := b.Colors[color].PopCount()
	theirs := b.Colors[color.Other()].PopCount()
	switch {
	case ours < theirs:
		return game.Loss
	case ours > theirs:
		return game.Win
	default:
		return game.Draw
	}
}

// PlayerResultSlow adds one case the fast check cannot see: a mutual
// blockade. A stuck player normally passes, but when neither side can
// reach an empty square the move list is empty and the game ends by
// stone count even though empties remain.
func (b *Board) PlayerResultSlow(h *game.History) game.PlayerResult {
	if res := b.PlayerResultNoMovegen(h); res != game.NoResult {
		return res
	}
	if b.LegalMovesSlow().Len() == 0 {
		ours := b.Colors[b.SideToMove].PopCount()
		theirs := b.Colors[b.SideToMove.Other()].PopCount()
		switch {
		case ours < theirs:
			return game.Loss
		case ours > theirs:
			return game.Win
		default:
			return game.Draw
		}
	}
	return game.NoResult
}

// String renders the board FEN.
func (b *Board) String() string {
	return b.FEN()
}
