package fairy

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// AttackKind selects how the raw attack bitboard is produced.
type AttackKind uint8

const (
	// LeaperAttack looks the source square up in a precomputed table.
	LeaperAttack AttackKind = iota
	// RiderAttack computes slider attacks along a ray family.
	RiderAttack
)

// RiderDirs selects the ray families of a rider attack.
type RiderDirs uint8

const (
	RiderHorizontal RiderDirs = 1 << iota
	RiderVertical
	RiderDiagonal
	RiderAntiDiagonal

	RiderRook   = RiderHorizontal | RiderVertical
	RiderBishop = RiderDiagonal | RiderAntiDiagonal
	RiderQueen  = RiderRook | RiderBishop
)

// CondKind gates an attack spec on the position.
type CondKind uint8

const (
	// CondAlways always applies.
	CondAlways CondKind = iota
	// CondOnRank applies only when the piece stands on the given rank and
	// has the given color.
	CondOnRank
	// CondForColor applies only for pieces of the given color.
	CondForColor
)

// AttackMode separates capture from non-capture emission.
type AttackMode uint8

const (
	// AnyMode emits both; the capture flag follows the destination.
	AnyMode AttackMode = iota
	// CapturesOnly emits only moves onto enemy pieces (or the ep square).
	CapturesOnly
	// NoCaptures emits only moves onto empty squares.
	NoCaptures
)

// FilterKind is one step of the bitboard filter chain applied to the raw
// attack set.
type FilterKind uint8

const (
	// FilterEmpty keeps empty squares.
	FilterEmpty FilterKind = iota
	// FilterTheirs keeps squares holding enemy pieces.
	FilterTheirs
	// FilterNotOurs drops squares holding own pieces.
	FilterNotOurs
	// FilterPawnCapture keeps enemy-occupied squares plus the en-passant
	// square when the piece may take en passant.
	FilterPawnCapture
	// FilterRank keeps squares on the given rank (from the moving color's
	// perspective: rank r for white is rank height-1-r for black).
	FilterRank
	// FilterMooreOfOurs keeps squares adjacent to an own piece. Used by
	// drop filters (Ataxx cloning).
	FilterMooreOfOurs
	// FilterNotBackRanks drops the first and last rank (pawn drops).
	FilterNotBackRanks
)

// Filter is a FilterKind plus its parameter.
type Filter struct {
	Kind FilterKind
	Rank int
}

// AttackSpec describes one way a piece attacks: how the raw bitboard is
// computed, when the spec applies, which attack mode it uses, and the
// filter chain narrowing the raw set.
type AttackSpec struct {
	Kind AttackKind

	// Leaper is the per-square attack table for LeaperAttack specs. Tables
	// are computed once when the rules are built.
	Leaper *[128]bb.Bitboard128

	// Dirs is the ray family set for RiderAttack specs.
	Dirs RiderDirs

	// Cond gates the spec.
	Cond      CondKind
	CondRank  int
	CondColor game.Color

	Mode AttackMode

	// CaptureNever forbids captures even on enemy-occupied targets.
	CaptureNever bool

	Filters []Filter

	// MoveKind tags the emitted moves (Normal, DoublePawnPush, Leaping...).
	MoveKind game.MoveKind
}

// applies checks the spec's condition for a piece of the given color on
// the given square.
func (a *AttackSpec) applies(b *Board, sq int, color game.Color) bool {
	switch a.Cond {
	case CondOnRank:
		return color == a.CondColor && sq/b.rules.Size.Width == a.relRank(b, a.CondRank, color)
	case CondForColor:
		return color == a.CondColor
	default:
		return true
	}
}

// relRank maps a white-perspective rank to the board for the given color.
func (a *AttackSpec) relRank(b *Board, rank int, color game.Color) int {
	if color == game.SecondPlayer {
		return b.rules.Size.Height - 1 - rank
	}
	return rank
}

// raw computes the unfiltered attack set for a piece on sq.
func (a *AttackSpec) raw(b *Board, sq int) bb.Bitboard128 {
	switch a.Kind {
	case LeaperAttack:
		return a.Leaper[sq]
	default:
		w, h := b.rules.Size.Width, b.rules.Size.Height
		occ := b.OccupiedBB().Or(b.Blocked)
		attacks := bb.Empty128
		if a.Dirs&RiderHorizontal != 0 {
			attacks = attacks.Or(bb.SliderAttacks128(sq, occ, w, h, bb.Horizontal))
		}
		if a.Dirs&RiderVertical != 0 {
			attacks = attacks.Or(bb.SliderAttacks128(sq, occ, w, h, bb.Vertical))
		}
		if a.Dirs&RiderDiagonal != 0 {
			attacks = attacks.Or(bb.SliderAttacks128(sq, occ, w, h, bb.Diagonal))
		}
		if a.Dirs&RiderAntiDiagonal != 0 {
			attacks = attacks.Or(bb.SliderAttacks128(sq, occ, w, h, bb.AntiDiagonal))
		}
		return attacks
	}
}

// applyFilters narrows the raw attack set. Filters compose by
// intersection, in order.
func applyFilters(b *Board, raw bb.Bitboard128, filters []Filter, color game.Color, canEP bool) bb.Bitboard128 {
	for _, f := range filters {
		switch f.Kind {
		case FilterEmpty:
			raw = raw.And(b.EmptyBB())
		case FilterTheirs:
			raw = raw.And(b.ColorBB(color.Other()))
		case FilterNotOurs:
			raw = raw.AndNot(b.ColorBB(color))
		case FilterPawnCapture:
			targets := b.ColorBB(color.Other())
			if canEP && b.EP != NoSquare {
				targets = targets.Set(b.EP)
			}
			raw = raw.And(targets)
		case FilterRank:
			rank := f.Rank
			if color == game.SecondPlayer {
				rank = b.rules.Size.Height - 1 - rank
			}
			raw = raw.And(bb.RankBB(rank, b.rules.Size.Width))
		case FilterMooreOfOurs:
			raw = raw.And(b.ColorBB(color).MooreNeighbors128(b.rules.Size.Width, b.rules.Size.Height))
		case FilterNotBackRanks:
			w := b.rules.Size.Width
			raw = raw.AndNot(bb.RankBB(0, w)).AndNot(bb.RankBB(b.rules.Size.Height-1, w))
		}
	}
	return raw.And(b.rules.Mask).AndNot(b.Blocked)
}
