package bitboard

import "math/bits"

// Bitboard128 is a 128-bit square set for boards with up to 128 squares.
// Square idx occupies bit idx of the little-endian pair (Lo, Hi). Unlike
// Bitboard, the row stride is the board width, not a fixed 8.
type Bitboard128 struct {
	Lo, Hi uint64
}

// Empty128 is the empty 128-bit square set.
var Empty128 = Bitboard128{}

// MaxWidth is the widest board supported by the precomputed ray tables.
const MaxWidth = 12

// SquareBB128 returns a bitboard with only bit idx set.
func SquareBB128(idx int) Bitboard128 {
	if idx >= 64 {
		return Bitboard128{Hi: 1 << (idx - 64)}
	}
	return Bitboard128{Lo: 1 << idx}
}

func (b Bitboard128) And(o Bitboard128) Bitboard128 {
	return Bitboard128{b.Lo & o.Lo, b.Hi & o.Hi}
}

func (b Bitboard128) Or(o Bitboard128) Bitboard128 {
	return Bitboard128{b.Lo | o.Lo, b.Hi | o.Hi}
}

func (b Bitboard128) Xor(o Bitboard128) Bitboard128 {
	return Bitboard128{b.Lo ^ o.Lo, b.Hi ^ o.Hi}
}

func (b Bitboard128) AndNot(o Bitboard128) Bitboard128 {
	return Bitboard128{b.Lo &^ o.Lo, b.Hi &^ o.Hi}
}

func (b Bitboard128) Not() Bitboard128 {
	return Bitboard128{^b.Lo, ^b.Hi}
}

// Shl shifts the whole 128-bit value left by n.
func (b Bitboard128) Shl(n int) Bitboard128 {
	if n >= 64 {
		return Bitboard128{0, b.Lo << (n - 64)}
	}
	return Bitboard128{b.Lo << n, b.Hi<<n | b.Lo>>(64-n)}
}

// Shr shifts the whole 128-bit value right by n.
func (b Bitboard128) Shr(n int) Bitboard128 {
	if n >= 64 {
		return Bitboard128{b.Hi >> (n - 64), 0}
	}
	return Bitboard128{b.Lo>>n | b.Hi<<(64-n), b.Hi >> n}
}

// Sub performs wrapping 128-bit subtraction, the workhorse of the
// Hyperbola Quintessence identity.
func (b Bitboard128) Sub(o Bitboard128) Bitboard128 {
	lo, borrow := bits.Sub64(b.Lo, o.Lo, 0)
	hi, _ := bits.Sub64(b.Hi, o.Hi, borrow)
	return Bitboard128{lo, hi}
}

// IsZero returns true if no bits are set.
func (b Bitboard128) IsZero() bool {
	return b.Lo == 0 && b.Hi == 0
}

// Any returns true if any bit is set.
func (b Bitboard128) Any() bool {
	return b.Lo != 0 || b.Hi != 0
}

// IsSet returns true if bit idx is set.
func (b Bitboard128) IsSet(idx int) bool {
	if idx >= 64 {
		return b.Hi&(1<<(idx-64)) != 0
	}
	return b.Lo&(1<<idx) != 0
}

// Set returns b with bit idx set.
func (b Bitboard128) Set(idx int) Bitboard128 {
	return b.Or(SquareBB128(idx))
}

// ClearBit returns b with bit idx cleared.
func (b Bitboard128) ClearBit(idx int) Bitboard128 {
	return b.AndNot(SquareBB128(idx))
}

// PopCount returns the number of set bits.
func (b Bitboard128) PopCount() int {
	return bits.OnesCount64(b.Lo) + bits.OnesCount64(b.Hi)
}

// LSB returns the index of the least significant set bit, or 128 if empty.
func (b Bitboard128) LSB() int {
	if b.Lo != 0 {
		return bits.TrailingZeros64(b.Lo)
	}
	return 64 + bits.TrailingZeros64(b.Hi)
}

// PopLSB removes and returns the least significant bit index.
func (b *Bitboard128) PopLSB() int {
	idx := b.LSB()
	if b.Lo != 0 {
		b.Lo &= b.Lo - 1
	} else {
		b.Hi &= b.Hi - 1
	}
	return idx
}

// IsSingle returns true if exactly one bit is set.
func (b Bitboard128) IsSingle() bool {
	c := b
	c.PopLSB()
	return b.Any() && c.IsZero()
}

// NthOne returns the index of the n-th set bit (0-based). The caller must
// ensure n < PopCount().
func (b Bitboard128) NthOne(n int) int {
	for i := 0; i < n; i++ {
		b.PopLSB()
	}
	return b.LSB()
}

// Rank0 returns the mask of row 0 for the given board width.
func Rank0(width int) Bitboard128 {
	return Bitboard128{Lo: 1<<width - 1}
}

// RankBB returns the mask of row i for the given board width.
func RankBB(i, width int) Bitboard128 {
	return Rank0(width).Shl(i * width)
}

// File0 returns the mask of column 0 for the given board dimensions.
func File0(width, height int) Bitboard128 {
	bb := Empty128
	for r := 0; r < height; r++ {
		bb = bb.Set(r * width)
	}
	return bb
}

// FileBB returns the mask of column i for the given board dimensions.
func FileBB(i, width, height int) Bitboard128 {
	return File0(width, height).Shl(i)
}

// BoardMask returns the mask covering all width*height squares.
func BoardMask(width, height int) Bitboard128 {
	n := width * height
	if n >= 128 {
		return Bitboard128{^uint64(0), ^uint64(0)}
	}
	return SquareBB128(n).Sub(Bitboard128{Lo: 1})
}

// Diagonal and anti-diagonal masks per (width, square); rows above
// 128/width never carry bits because square indices stop at 128.
var (
	diagRays128     [MaxWidth + 1][128]Bitboard128
	antiDiagRays128 [MaxWidth + 1][128]Bitboard128
)

func init() {
	for width := 1; width <= MaxWidth; width++ {
		height := 128 / width
		for sq := 0; sq < 128; sq++ {
			r0, c0 := sq/width, sq%width
			for r := 0; r < height; r++ {
				if c := c0 + (r - r0); c >= 0 && c < width && r*width+c < 128 {
					diagRays128[width][sq] = diagRays128[width][sq].Set(r*width + c)
				}
				if c := c0 - (r - r0); c >= 0 && c < width && r*width+c < 128 {
					antiDiagRays128[width][sq] = antiDiagRays128[width][sq].Set(r*width + c)
				}
			}
		}
	}
}

// DiagRay128 returns the full a1-to-upper-right diagonal through sq.
func DiagRay128(sq, width int) Bitboard128 {
	return diagRays128[width][sq]
}

// AntiDiagRay128 returns the full upper-left-to-lower-right diagonal through sq.
func AntiDiagRay128(sq, width int) Bitboard128 {
	return antiDiagRays128[width][sq]
}

// FlipUpDown mirrors the rows of a width*height board.
func (b Bitboard128) FlipUpDown(width, height int) Bitboard128 {
	rank := Rank0(width)
	for i := 0; i < height/2; i++ {
		lowerShift := i * width
		upperShift := (height - 1 - i) * width
		lower := b.Shr(lowerShift).And(rank)
		upper := b.Shr(upperShift).And(rank)
		x := lower.Xor(upper)
		b = b.Xor(x.Shl(lowerShift))
		b = b.Xor(x.Shl(upperShift))
	}
	return b
}

// FlipLeftRight mirrors the columns of a width*height board.
func (b Bitboard128) FlipLeftRight(width, height int) Bitboard128 {
	file := File0(width, height)
	for i := 0; i < width/2; i++ {
		leftShift := i
		rightShift := width - 1 - i
		left := b.Shr(leftShift).And(file)
		right := b.Shr(rightShift).And(file)
		x := left.Xor(right)
		b = b.Xor(x.Shl(leftShift))
		b = b.Xor(x.Shl(rightShift))
	}
	return b
}

// RayDir selects one of the four slider ray families.
type RayDir uint8

const (
	Horizontal RayDir = iota
	Vertical
	Diagonal
	AntiDiagonal
)

func hyperbola128(piece, occupied, ray Bitboard128, reverse func(Bitboard128) Bitboard128) Bitboard128 {
	blockers := occupied.And(ray)
	forward := blockers.Sub(piece)
	backward := reverse(reverse(blockers).Sub(reverse(piece)))
	return forward.Xor(backward).And(ray)
}

// SliderAttacks128 returns the attack set of a slider on sq along the given
// ray family, for a board of the given dimensions.
func SliderAttacks128(sq int, occupied Bitboard128, width, height int, dir RayDir) Bitboard128 {
	piece := SquareBB128(sq)
	flipV := func(x Bitboard128) Bitboard128 { return x.FlipUpDown(width, height) }
	// Rays are clipped to the board and exclude the slider's own square.
	clip := BoardMask(width, height).AndNot(piece)
	switch dir {
	case Horizontal:
		ray := RankBB(sq/width, width)
		flipH := func(x Bitboard128) Bitboard128 { return x.FlipLeftRight(width, height) }
		return hyperbola128(piece, occupied, ray.And(clip), flipH)
	case Vertical:
		return hyperbola128(piece, occupied, FileBB(sq%width, width, height).And(clip), flipV)
	case Diagonal:
		return hyperbola128(piece, occupied, DiagRay128(sq, width).And(clip), flipV)
	default:
		return hyperbola128(piece, occupied, AntiDiagRay128(sq, width).And(clip), flipV)
	}
}

// RookAttacks128 returns horizontal plus vertical slider attacks.
func RookAttacks128(sq int, occupied Bitboard128, width, height int) Bitboard128 {
	return SliderAttacks128(sq, occupied, width, height, Horizontal).
		Or(SliderAttacks128(sq, occupied, width, height, Vertical))
}

// BishopAttacks128 returns diagonal plus anti-diagonal slider attacks.
func BishopAttacks128(sq int, occupied Bitboard128, width, height int) Bitboard128 {
	return SliderAttacks128(sq, occupied, width, height, Diagonal).
		Or(SliderAttacks128(sq, occupied, width, height, AntiDiagonal))
}

// QueenAttacks128 returns the union of rook and bishop attacks.
func QueenAttacks128(sq int, occupied Bitboard128, width, height int) Bitboard128 {
	return RookAttacks128(sq, occupied, width, height).
		Or(BishopAttacks128(sq, occupied, width, height))
}

// East128 shifts every bit one column right, dropping bits that would wrap.
func (b Bitboard128) East128(width, height int) Bitboard128 {
	return b.Shl(1).AndNot(File0(width, height))
}

// West128 shifts every bit one column left, dropping bits that would wrap.
func (b Bitboard128) West128(width, height int) Bitboard128 {
	return b.Shr(1).AndNot(FileBB(width-1, width, height))
}

// North128 shifts every bit one row up.
func (b Bitboard128) North128(width int) Bitboard128 {
	return b.Shl(width)
}

// South128 shifts every bit one row down.
func (b Bitboard128) South128(width int) Bitboard128 {
	return b.Shr(width)
}

// MooreNeighbors128 returns the squares adjacent (including diagonally) to
// any set bit, excluding the input, clipped to the board mask.
func (b Bitboard128) MooreNeighbors128(width, height int) Bitboard128 {
	horizontal := b.Or(b.East128(width, height)).Or(b.West128(width, height))
	grown := horizontal.Or(horizontal.North128(width)).Or(horizontal.South128(width))
	return grown.AndNot(b).And(BoardMask(width, height))
}

// ExtendedMooreNeighbors128 grows the set radius times before removing the
// original bits, yielding all squares within Chebyshev distance radius.
func (b Bitboard128) ExtendedMooreNeighbors128(radius, width, height int) Bitboard128 {
	grown := b
	for i := 0; i < radius; i++ {
		grown = grown.Or(grown.MooreNeighbors128(width, height)).Or(grown)
	}
	return grown.AndNot(b).And(BoardMask(width, height))
}

// LeaperTable computes the attack table of an (n,m)-leaper for the given
// board dimensions. A (1,2)-leaper is the chess knight, (1,1) the ferz,
// (0,1) the wazir; the king is the union of (0,1) and (1,1).
func LeaperTable(n, m, width, height int) [128]Bitboard128 {
	var table [128]Bitboard128
	deltas := [][2]int{
		{n, m}, {n, -m}, {-n, m}, {-n, -m},
		{m, n}, {m, -n}, {-m, n}, {-m, -n},
	}
	for sq := 0; sq < width*height && sq < 128; sq++ {
		r, c := sq/width, sq%width
		for _, d := range deltas {
			nr, nc := r+d[0], c+d[1]
			if nr >= 0 && nr < height && nc >= 0 && nc < width && nr*width+nc < 128 {
				table[sq] = table[sq].Set(nr*width + nc)
			}
		}
	}
	return table
}

// KingTable is the union of the wazir and ferz leaper tables.
func KingTable(width, height int) [128]Bitboard128 {
	wazir := LeaperTable(0, 1, width, height)
	ferz := LeaperTable(1, 1, width, height)
	for i := range wazir {
		wazir[i] = wazir[i].Or(ferz[i])
	}
	return wazir
}
