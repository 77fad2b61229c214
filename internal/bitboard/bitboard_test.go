package bitboard

import (
	"math/rand"
	"testing"
)

// naiveSlider walks a ray square by square, the slow reference the
// Hyperbola Quintessence results are checked against.
func naiveSlider(sq int, occupied Bitboard, df, dr int) Bitboard {
	attacks := Empty
	f, r := sq%8+df, sq/8+dr
	for f >= 0 && f < 8 && r >= 0 && r < 8 {
		attacks = attacks.Set(r*8 + f)
		if occupied.IsSet(r*8 + f) {
			break
		}
		f += df
		r += dr
	}
	return attacks
}

func naiveRook(sq int, occupied Bitboard) Bitboard {
	return naiveSlider(sq, occupied, 1, 0) | naiveSlider(sq, occupied, -1, 0) |
		naiveSlider(sq, occupied, 0, 1) | naiveSlider(sq, occupied, 0, -1)
}

func naiveBishop(sq int, occupied Bitboard) Bitboard {
	return naiveSlider(sq, occupied, 1, 1) | naiveSlider(sq, occupied, -1, 1) |
		naiveSlider(sq, occupied, 1, -1) | naiveSlider(sq, occupied, -1, -1)
}

func TestHyperbolaMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 2000; trial++ {
		occupied := Bitboard(rng.Uint64() & rng.Uint64()) // ~25% density
		sq := rng.Intn(64)
		occupied = occupied.Set(sq)

		if got, want := RookAttacks(sq, occupied), naiveRook(sq, occupied); got != want {
			t.Fatalf("rook attacks differ on square %d, occ %x: got %x, want %x",
				sq, uint64(occupied), uint64(got), uint64(want))
		}
		if got, want := BishopAttacks(sq, occupied), naiveBishop(sq, occupied); got != want {
			t.Fatalf("bishop attacks differ on square %d, occ %x: got %x, want %x",
				sq, uint64(occupied), uint64(got), uint64(want))
		}
	}
}

func TestHyperbolaEmptyBoard(t *testing.T) {
	// A rook on an empty board attacks its full rank and file.
	occ := SquareBB(0)
	if got := RookAttacks(0, occ); got.PopCount() != 14 {
		t.Errorf("rook on a1, empty board: %d attacked squares, want 14", got.PopCount())
	}
	occ = SquareBB(27) // d4
	if got := QueenAttacks(27, occ); got.PopCount() != 27 {
		t.Errorf("queen on d4, empty board: %d attacked squares, want 27", got.PopCount())
	}
}

func TestFlips(t *testing.T) {
	b := SquareBB(0) | SquareBB(7) | SquareBB(12)
	if got := b.FlipUpDown().FlipUpDown(); got != b {
		t.Error("FlipUpDown is not an involution")
	}
	if got := b.FlipLeftRight().FlipLeftRight(); got != b {
		t.Error("FlipLeftRight is not an involution")
	}
	if got := SquareBB(0).FlipUpDown(); got != SquareBB(56) {
		t.Errorf("a1 flipped vertically should be a8, got %d", got.LSB())
	}
	if got := SquareBB(0).FlipLeftRight(); got != SquareBB(7) {
		t.Errorf("a1 flipped horizontally should be h1, got %d", got.LSB())
	}
}

func TestMooreNeighbors(t *testing.T) {
	center := SquareBB(27) // d4
	if got := center.MooreNeighbors().PopCount(); got != 8 {
		t.Errorf("center square has %d Moore neighbors, want 8", got)
	}
	corner := SquareBB(0)
	if got := corner.MooreNeighbors().PopCount(); got != 3 {
		t.Errorf("corner square has %d Moore neighbors, want 3", got)
	}
	ring2 := corner.ExtendedMooreNeighbors(2) &^ corner.ExtendedMooreNeighbors(1)
	if got := ring2.PopCount(); got != 5 {
		t.Errorf("corner distance-2 ring has %d squares, want 5", got)
	}
}

func TestLeaperTables(t *testing.T) {
	// Knight in the center has 8 targets, in the corner 2.
	if got := KnightAttacks(27).PopCount(); got != 8 {
		t.Errorf("knight on d4: %d targets, want 8", got)
	}
	if got := KnightAttacks(0).PopCount(); got != 2 {
		t.Errorf("knight on a1: %d targets, want 2", got)
	}
	if got := KingAttacks(27).PopCount(); got != 8 {
		t.Errorf("king on d4: %d targets, want 8", got)
	}
	if got := KingAttacks(63).PopCount(); got != 3 {
		t.Errorf("king on h8: %d targets, want 3", got)
	}
}

func TestBetweenAndLine(t *testing.T) {
	if got := Between(0, 7).PopCount(); got != 6 {
		t.Errorf("between a1 and h1: %d squares, want 6", got)
	}
	if Between(0, 9) != Empty {
		t.Error("between a1 and b2 (adjacent diagonal) must be empty")
	}
	if Between(0, 10) != Empty {
		t.Error("unaligned squares have no between set")
	}
	if !Aligned(0, 9, 18) {
		t.Error("a1, b2, c3 lie on one line")
	}
	if Aligned(0, 9, 17) {
		t.Error("a1, b2, b3 do not lie on one line")
	}
}
