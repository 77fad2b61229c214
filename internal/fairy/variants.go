package fairy

import (
	"fmt"
	"strings"

	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// Chess-family piece ids, fixed by the table builders below.
const (
	PawnID PieceID = iota
	KnightID
	BishopID
	RookID
	QueenID
	KingID
)

var chessSize = game.Size{Width: 8, Height: 8}

// leaper table singletons for the 8x8 chess family.
var (
	knightTable8 = bb.LeaperTable(1, 2, 8, 8)
	kingTable8   = bb.KingTable(8, 8)
	pawnPushW8   [128]bb.Bitboard128
	pawnPushB8   [128]bb.Bitboard128
	pawnCapW8    [128]bb.Bitboard128
	pawnCapB8    [128]bb.Bitboard128
)

func init() {
	for sq := 0; sq < 64; sq++ {
		single := bb.SquareBB128(sq)
		pawnPushW8[sq] = single.North128(8).And(bb.BoardMask(8, 8))
		pawnPushB8[sq] = single.South128(8)
		pawnCapW8[sq] = single.North128(8).East128(8, 8).
			Or(single.North128(8).West128(8, 8)).And(bb.BoardMask(8, 8))
		pawnCapB8[sq] = single.South128(8).East128(8, 8).
			Or(single.South128(8).West128(8, 8))
	}
}

// backRanks8 is the union of ranks 1 and 8 on the 8x8 board.
func backRanks8() bb.Bitboard128 {
	return bb.RankBB(0, 8).Or(bb.RankBB(7, 8))
}

// chessPawn builds the chess-family pawn: single push, conditional double
// push, diagonal captures, promotion on the back rank.
func chessPawn(promoTargets []PieceID, firstRankDouble bool) Piece {
	attacks := []AttackSpec{
		{Kind: LeaperAttack, Leaper: &pawnPushW8, Cond: CondForColor, CondColor: game.FirstPlayer,
			Mode: NoCaptures, CaptureNever: true},
		{Kind: LeaperAttack, Leaper: &pawnPushB8, Cond: CondForColor, CondColor: game.SecondPlayer,
			Mode: NoCaptures, CaptureNever: true},
		{Kind: RiderAttack, Dirs: RiderVertical, Cond: CondOnRank, CondRank: 1, CondColor: game.FirstPlayer,
			Mode: NoCaptures, CaptureNever: true, MoveKind: game.DoublePawnPush,
			Filters: []Filter{{Kind: FilterEmpty}, {Kind: FilterRank, Rank: 3}}},
		{Kind: RiderAttack, Dirs: RiderVertical, Cond: CondOnRank, CondRank: 1, CondColor: game.SecondPlayer,
			Mode: NoCaptures, CaptureNever: true, MoveKind: game.DoublePawnPush,
			Filters: []Filter{{Kind: FilterEmpty}, {Kind: FilterRank, Rank: 3}}},
		{Kind: LeaperAttack, Leaper: &pawnCapW8, Cond: CondForColor, CondColor: game.FirstPlayer,
			Mode: CapturesOnly, Filters: []Filter{{Kind: FilterPawnCapture}}},
		{Kind: LeaperAttack, Leaper: &pawnCapB8, Cond: CondForColor, CondColor: game.SecondPlayer,
			Mode: CapturesOnly, Filters: []Filter{{Kind: FilterPawnCapture}}},
	}
	if firstRankDouble {
		// Horde pawns on their first rank may also push two squares.
		attacks = append(attacks,
			AttackSpec{Kind: RiderAttack, Dirs: RiderVertical, Cond: CondOnRank, CondRank: 0, CondColor: game.FirstPlayer,
				Mode: NoCaptures, CaptureNever: true, MoveKind: game.DoublePawnPush,
				Filters: []Filter{{Kind: FilterEmpty}, {Kind: FilterRank, Rank: 2}}})
	}
	return Piece{
		Name: "pawn", ASCII: 'p',
		UnicodeWhite: '♙', UnicodeBlack: '♟',
		Attacks:      attacks,
		PromoTargets: promoTargets,
		PromoSquares: backRanks8(),
		CanEnPassant: true,
		DrawCtr:      AlwaysReset,
		OmitInSAN:    true,
	}
}

func chessKnight() Piece {
	return Piece{
		Name: "knight", ASCII: 'n',
		UnicodeWhite: '♘', UnicodeBlack: '♞',
		Attacks:      []AttackSpec{{Kind: LeaperAttack, Leaper: &knightTable8}},
	}
}

func chessBishop() Piece {
	return Piece{
		Name: "bishop", ASCII: 'b',
		UnicodeWhite: '♗', UnicodeBlack: '♝',
		Attacks:      []AttackSpec{{Kind: RiderAttack, Dirs: RiderBishop}},
	}
}

func chessRook() Piece {
	return Piece{
		Name: "rook", ASCII: 'r',
		UnicodeWhite: '♖', UnicodeBlack: '♜',
		Attacks:      []AttackSpec{{Kind: RiderAttack, Dirs: RiderRook}},
	}
}

func chessQueen() Piece {
	return Piece{
		Name: "queen", ASCII: 'q',
		UnicodeWhite: '♕', UnicodeBlack: '♛',
		Attacks:      []AttackSpec{{Kind: RiderAttack, Dirs: RiderQueen}},
	}
}

func chessKing(royal bool) Piece {
	return Piece{
		Name: "king", ASCII: 'k',
		UnicodeWhite: '♔', UnicodeBlack: '♚',
		Attacks:      []AttackSpec{{Kind: LeaperAttack, Leaper: &kingTable8}},
		Royal:        royal,
		CanCastle:    true,
	}
}

// chessCastling is the classical castling geometry (e1/e8 kings, corner
// rooks). Dense 8-wide indices.
func chessCastling() CastlingInfo {
	return CastlingInfo{
		KingHome: [2]int{4, 60},
		RookHome: [2][2]int{{7, 0}, {63, 56}},
		KingDest: [2][2]int{{6, 2}, {62, 58}},
		RookDest: [2][2]int{{5, 3}, {61, 59}},
	}
}

func chessColors() [2]ColorInfo {
	return [2]ColorInfo{{Name: "white", Char: 'w'}, {Name: "black", Char: 'b'}}
}

func mnkColors() [2]ColorInfo {
	return [2]ColorInfo{{Name: "X", Char: 'x'}, {Name: "O", Char: 'o'}}
}

// finishRules fills the derived fields every constructor needs.
func finishRules(r *Rules) *Rules {
	r.Mask = bb.BoardMask(r.Size.Width, r.Size.Height)
	r.zobrist = newZobristTables()
	return r
}

// Chess builds the classical chess rules table.
func Chess() *Rules {
	return finishRules(&Rules{
		Name: "chess",
		Pieces: []Piece{
			chessPawn([]PieceID{QueenID, RookID, BishopID, KnightID}, false),
			chessKnight(), chessBishop(), chessRook(), chessQueen(), chessKing(true),
		},
		Colors:      chessColors(),
		Size:        chessSize,
		GameLoss:    []GameLoss{{Kind: LossCheckmate}},
		Draw: []GameDraw{
			{Kind: DrawNoMoves}, {Kind: DrawCounter, N: 100},
			{Kind: DrawRepetition, N: 3}, {Kind: DrawInsufficientMaterial},
		},
		CheckRule:   AnyRoyal,
		HasEP:       true,
		HasCastling: true,
		Castling:    chessCastling(),
		Effects:     EffectRules{ResetDrawCtrOnCapture: true},
		StartFEN:    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	})
}

// Shatranj builds the medieval predecessor: no double push, no castling,
// the ferz and alfil replace queen and bishop, stalemate loses, and a
// bared king loses unless it bares back immediately.
func Shatranj() *Rules {
	ferz := Piece{
		Name: "ferz", ASCII: 'f',
		Attacks: []AttackSpec{{Kind: LeaperAttack, Leaper: leaperPtr(1, 1, 8, 8)}},
	}
	alfil := Piece{
		Name: "alfil", ASCII: 'a',
		Attacks: []AttackSpec{{Kind: LeaperAttack, Leaper: leaperPtr(2, 2, 8, 8)}},
	}
	pawn := chessPawn(nil, false)
	// Shatranj pawns have no double push and promote to ferz only.
	pawn.Attacks = []AttackSpec{
		pawn.Attacks[0], pawn.Attacks[1], pawn.Attacks[4], pawn.Attacks[5],
	}
	pawn.CanEnPassant = false
	pawn.PromoTargets = []PieceID{FerzID}

	return finishRules(&Rules{
		Name: "shatranj",
		Pieces: []Piece{
			pawn, chessKnight(), alfil, chessRook(), ferz, chessKing(true),
		},
		Colors: chessColors(),
		Size:   chessSize,
		GameLoss: []GameLoss{
			{Kind: LossCheckmate}, {Kind: LossNoMoves}, {Kind: LossNoNonRoyalsExceptRecapture},
		},
		Draw:      []GameDraw{{Kind: DrawCounter, N: 100}, {Kind: DrawRepetition, N: 3}},
		CheckRule: AnyRoyal,
		Effects:   EffectRules{ResetDrawCtrOnCapture: true},
		StartFEN:  "rnakfanr/pppppppp/8/8/8/8/PPPPPPPP/RNAKFANR w 0 1",
	})
}

// FerzID is the shatranj promotion target (table position of the ferz).
const FerzID PieceID = 4

// Atomic is chess where every capture explodes: the capturer and all
// non-pawn pieces in the destination's Moore neighborhood are removed.
func Atomic() *Rules {
	r := Chess()
	r.Name = "atomic"
	// Losing the king to an explosion ends the game even without mate.
	r.GameLoss = append(r.GameLoss, GameLoss{Kind: LossNoRoyals})
	r.Observers.OnCapture = func(b *Board, _ ColoredPiece, dest int, _ bool) {
		b.removePiece(dest) // the capturer burns with its victim
		zone := bb.SquareBB128(dest).MooreNeighbors128(8, 8)
		for zone.Any() {
			sq := zone.PopLSB()
			if p := b.PieceAt(sq); p.ID != NoPieceID && p.ID != PawnID {
				b.removePiece(sq)
			}
		}
	}
	return r
}

// Horde pits a pawn horde without a king against a classical army. The
// horde loses when it runs out of pieces; its pawns may double-push from
// the first rank.
func Horde() *Rules {
	r := finishRules(&Rules{
		Name: "horde",
		Pieces: []Piece{
			chessPawn([]PieceID{QueenID, RookID, BishopID, KnightID}, true),
			chessKnight(), chessBishop(), chessRook(), chessQueen(), chessKing(true),
		},
		Colors:      chessColors(),
		Size:        chessSize,
		GameLoss:    []GameLoss{{Kind: LossCheckmate}, {Kind: LossNoPieces}},
		Draw: []GameDraw{
			{Kind: DrawNoMoves}, {Kind: DrawCounter, N: 100}, {Kind: DrawRepetition, N: 3},
		},
		CheckRule:   AnyRoyal,
		HasEP:       true,
		HasCastling: true,
		Castling:    chessCastling(),
		Effects:     EffectRules{ResetDrawCtrOnCapture: true},
		StartFEN:    "rnbqkbnr/pppppppp/8/8/8/1PP2PP1/PPPPPPPP/PPPPPPPP w kq - 0 1",
	})
	return r
}

// RacingKings races both kings to the eighth rank; checks are forbidden
// entirely.
func RacingKings() *Rules {
	return finishRules(&Rules{
		Name: "racingkings",
		Pieces: []Piece{
			chessKnight(), chessBishop(), chessRook(), chessQueen(), racingKing(),
		},
		Colors: chessColors(),
		Size:   chessSize,
		GameLoss: []GameLoss{
			{Kind: LossOpponentRoyalReached, Zone: bb.RankBB(7, 8)},
		},
		Draw: []GameDraw{
			{Kind: DrawNoMoves}, {Kind: DrawCounter, N: 100}, {Kind: DrawRepetition, N: 3},
		},
		CheckRule:       AnyRoyal,
		NoChecksAllowed: true,
		Effects:         EffectRules{ResetDrawCtrOnCapture: true},
		StartFEN:        "8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w 0 1",
	})
}

func racingKing() Piece {
	k := chessKing(true)
	k.CanCastle = false
	return k
}

// KingOfTheHill is chess where walking the king to one of the four center
// squares wins immediately.
func KingOfTheHill() *Rules {
	r := Chess()
	r.Name = "kingofthehill"
	center := bb.Empty128.Set(27).Set(28).Set(35).Set(36) // d4 e4 d5 e5
	r.GameLoss = append(r.GameLoss, GameLoss{Kind: LossOpponentRoyalReached, Zone: center})
	return r
}

// Crazyhouse is chess where captured pieces switch sides and may be
// dropped; promoted pieces return to hand as pawns.
func Crazyhouse() *Rules {
	r := Chess()
	r.Name = "crazyhouse"
	r.PromotedFlagFEN = true
	r.StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"
	for _, id := range []PieceID{PawnID, KnightID, BishopID, RookID, QueenID} {
		filters := []Filter{{Kind: FilterEmpty}}
		if id == PawnID {
			filters = append(filters, Filter{Kind: FilterNotBackRanks})
		}
		r.Drops = append(r.Drops, DropSpec{Piece: id, Filters: filters, Kind: game.Drop})
	}
	r.Observers.OnCapture = func(b *Board, captured ColoredPiece, _ int, wasPromoted bool) {
		id := captured.ID
		if wasPromoted {
			id = PawnID
		}
		b.InHand[captured.Color.Other()][id]++
	}
	return r
}

// Ataxx builds the 7x7 conversion game as a rules table: cloning is a
// drop next to an own stone, leaping a radius-2 move, and every landing
// flips the adjacent enemy stones.
func Ataxx() *Rules {
	stone := Piece{
		Name: "stone", ASCII: 'x',
		PlayerChar: [2]byte{'x', 'o'},
		Attacks: []AttackSpec{
			{Kind: LeaperAttack, Leaper: mooreRingPtr(2, 7, 7),
				Mode: NoCaptures, CaptureNever: true, MoveKind: game.Leaping},
		},
		DrawCtr:      ResetOnMoveKinds,
		DrawCtrKinds: []game.MoveKind{game.Cloning},
	}
	r := finishRules(&Rules{
		Name:   "ataxx",
		Pieces: []Piece{stone},
		Colors: mnkColors(),
		Size:   game.Size{Width: 7, Height: 7},
		StartingHand: [2][MaxPieceTypes]uint8{
			{InfiniteHand}, {InfiniteHand},
		},
		Drops: []DropSpec{
			{Piece: 0, Filters: []Filter{{Kind: FilterEmpty}, {Kind: FilterMooreOfOurs}}, Kind: game.Cloning},
		},
		GameLoss: []GameLoss{
			{Kind: LossNoPieces}, {Kind: LossFewerPiecesOnFullBoard},
		},
		Draw: []GameDraw{{Kind: DrawCounter, N: 100}},
		Effects: EffectRules{
			ConversionRadius:         1,
			ResetDrawCtrOnConversion: true,
		},
		StartFEN: "x5o/7/7/7/7/7/o5x x 0 1",
	})
	return r
}

// TicTacToe is the (3,3,3) instance of MNK.
func TicTacToe() *Rules {
	r := MNK(3, 3, 3)
	r.Name = "tictactoe"
	return r
}

// MNK builds an m-rows by n-columns board where k in a row wins. Stones
// are dropped from an infinite hand onto any empty square.
func MNK(m, n, k int) *Rules {
	stone := Piece{
		Name: "stone", ASCII: 'x',
		PlayerChar: [2]byte{'X', 'O'},
	}
	startRows := make([]string, m)
	for i := range startRows {
		startRows[i] = fmt.Sprintf("%d", n)
	}
	r := finishRules(&Rules{
		Name:   "mnk",
		Pieces: []Piece{stone},
		Colors: mnkColors(),
		Size:   game.Size{Width: n, Height: m},
		StartingHand: [2][MaxPieceTypes]uint8{
			{InfiniteHand}, {InfiniteHand},
		},
		Drops: []DropSpec{
			{Piece: 0, Filters: []Filter{{Kind: FilterEmpty}}, Kind: game.Normal},
		},
		GameLoss: []GameLoss{{Kind: LossInRowAtLeast, K: k}},
		Draw:     []GameDraw{{Kind: DrawNoMoves}},
		MnkDims:  [3]int{m, n, k},
		StartFEN: fmt.Sprintf("%d %d %d x %s", m, n, k, strings.Join(startRows, "/")),
	})
	return r
}

// leaperPtr returns a pointer to a freshly computed leaper table.
func leaperPtr(a, c, w, h int) *[128]bb.Bitboard128 {
	t := bb.LeaperTable(a, c, w, h)
	return &t
}

// mooreRingPtr returns the table of squares at exactly Chebyshev distance
// radius (the Ataxx leap ring).
func mooreRingPtr(radius, w, h int) *[128]bb.Bitboard128 {
	var t [128]bb.Bitboard128
	for sq := 0; sq < w*h; sq++ {
		single := bb.SquareBB128(sq)
		outer := single.ExtendedMooreNeighbors128(radius, w, h)
		inner := single.ExtendedMooreNeighbors128(radius-1, w, h)
		t[sq] = outer.AndNot(inner)
	}
	return &t
}

// Variants maps variant names to their rules constructors for FEN
// routing. MNK is handled separately because its settings ride in the
// FEN itself.
var Variants = map[string]func() *Rules{
	"chess":         Chess,
	"atomic":        Atomic,
	"crazyhouse":    Crazyhouse,
	"shatranj":      Shatranj,
	"horde":         Horde,
	"racingkings":   RacingKings,
	"kingofthehill": KingOfTheHill,
	"ataxx":         Ataxx,
	"tictactoe":     TicTacToe,
}
