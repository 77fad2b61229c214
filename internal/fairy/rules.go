package fairy

import (
	bb "github.com/hailam/boardkit/internal/bitboard"
	"github.com/hailam/boardkit/internal/game"
)

// CheckRule states how many royal pieces must be attacked for a player to
// count as in check.
type CheckRule uint8

const (
	AnyRoyal CheckRule = iota
	AllRoyals
)

// LossKind enumerates the game-loss triggers a variant can enable.
type LossKind uint8

const (
	// LossCheckmate: in check with no legal moves.
	LossCheckmate LossKind = iota
	// LossNoRoyals: the side to move has no royal piece left.
	LossNoRoyals
	// LossNoPieces: the side to move has no pieces at all.
	LossNoPieces
	// LossNoNonRoyals: only royals left.
	LossNoNonRoyals
	// LossNoNonRoyalsExceptRecapture: only royals left, unless an
	// immediate capture bares the opponent in return.
	LossNoNonRoyalsExceptRecapture
	// LossNoMoves: no legal moves (shatranj stalemate).
	LossNoMoves
	// LossInRowAtLeast: the opponent completed a k-in-a-row.
	LossInRowAtLeast
	// LossOpponentRoyalReached: the opponent's royal stands in the target
	// zone (king of the hill center, racing kings back rank).
	LossOpponentRoyalReached
	// LossFewerPiecesOnFullBoard: board full and the side to move holds
	// fewer pieces (Ataxx); equal counts draw.
	LossFewerPiecesOnFullBoard
)

// GameLoss is a loss trigger plus its parameter.
type GameLoss struct {
	Kind LossKind
	K    int            // for LossInRowAtLeast
	Zone bb.Bitboard128 // for LossOpponentRoyalReached
}

// DrawKind enumerates draw triggers.
type DrawKind uint8

const (
	// DrawNoMoves: no legal moves (chess stalemate).
	DrawNoMoves DrawKind = iota
	// DrawCounter: halfmove draw counter reached N.
	DrawCounter
	// DrawRepetition: the position occurred N times.
	DrawRepetition
	// DrawInsufficientMaterial: lone royals (and a single minor) cannot
	// win. Deliberately laxer than the FIDE rule.
	DrawInsufficientMaterial
)

// GameDraw is a draw trigger plus its parameter.
type GameDraw struct {
	Kind DrawKind
	N    int
}

// ColorInfo names one of the two players.
type ColorInfo struct {
	Name  string
	Char  byte
}

// CastlingSide indexes the two castling directions.
type CastlingSide uint8

const (
	Kingside CastlingSide = iota
	Queenside
)

// CastlingInfo holds the per-color king and rook squares of both castling
// directions. Squares are dense indices; -1 disables a side.
type CastlingInfo struct {
	KingHome [2]int
	RookHome [2][2]int // [color][side]
	KingDest [2][2]int
	RookDest [2][2]int
}

// EffectRules collects small per-variant effect parameters.
type EffectRules struct {
	// ConversionRadius is the Moore radius flipped to the mover's color on
	// Cloning/Leaping moves (Ataxx: 1).
	ConversionRadius int
	// ResetDrawCtrOnCapture resets the halfmove counter on any capture.
	ResetDrawCtrOnCapture bool
	// ResetDrawCtrOnConversion resets the counter when a move flipped at
	// least one enemy piece.
	ResetDrawCtrOnConversion bool
}

// Observers are the variant hooks run while a move is applied. A nil hook
// is disabled; dispatch is a direct call, not a registry walk.
type Observers struct {
	// OnCapture runs after the captured piece is removed: atomic's
	// explosion, crazyhouse's add-to-hand. wasPromoted reports whether the
	// victim carried the promoted flag, so it returns to hand demoted.
	OnCapture func(b *Board, captured ColoredPiece, dest int, wasPromoted bool)
	// OnPlace runs after a piece lands (Ataxx conversion happens through
	// the move kinds instead; this hook remains for drop bookkeeping).
	OnPlace func(b *Board, piece ColoredPiece, dest int)
	// AfterMove runs once the move is fully applied, before legality is
	// judged.
	AfterMove func(b *Board)
}

// DropSpec describes drop moves for a piece held in hand.
type DropSpec struct {
	Piece PieceID
	// Filters narrow the drop targets, starting from every square.
	Filters []Filter
	// Kind tags the emitted moves (Drop for crazyhouse, Cloning for
	// Ataxx, Normal for mnk placements).
	Kind game.MoveKind
}

// InfiniteHand marks a hand slot that never runs out (mnk, Ataxx).
const InfiniteHand = 0xFF

// Rules is the immutable description of a variant. One Rules value is
// built per variant and shared by pointer between all boards of that
// game; nothing mutates it after construction.
type Rules struct {
	Name string

	Pieces []Piece
	Colors [2]ColorInfo

	Size game.Size
	Mask bb.Bitboard128

	// StartingHand holds per-piece off-board counts (crazyhouse 0 but
	// fillable, mnk infinite).
	StartingHand [2][MaxPieceTypes]uint8

	Drops []DropSpec

	GameLoss []GameLoss
	Draw     []GameDraw

	CheckRule CheckRule

	HasEP       bool
	HasCastling bool
	Castling    CastlingInfo

	// NoChecksAllowed rejects any move that leaves either king in check
	// (racing kings).
	NoChecksAllowed bool

	Effects   EffectRules
	Observers Observers

	StartFEN string

	// MnkDims carries (m, n, k) for the mnk variant's FEN prefix; zero
	// elsewhere.
	MnkDims [3]int

	// PromotedFlagFEN enables crazyhouse's "~" suffix and hand tracking of
	// promoted pieces.
	PromotedFlagFEN bool

	// zobrist tables sized for this rules table, seeded at construction.
	zobrist zobristTables
}

// PieceByChar finds the piece and color a FEN character denotes.
func (r *Rules) PieceByChar(c byte) (PieceID, game.Color) {
	for i := range r.Pieces {
		for color := game.Color(0); color < 2; color++ {
			if r.Pieces[i].CharFor(color) == c {
				return PieceID(i), color
			}
		}
	}
	return NoPieceID, 0
}

// RoyalIDs returns the royal piece ids.
func (r *Rules) RoyalIDs() []PieceID {
	var ids []PieceID
	for i := range r.Pieces {
		if r.Pieces[i].Royal {
			ids = append(ids, PieceID(i))
		}
	}
	return ids
}

// hasLoss reports whether a loss kind is enabled.
func (r *Rules) hasLoss(kind LossKind) (GameLoss, bool) {
	for _, g := range r.GameLoss {
		if g.Kind == kind {
			return g, true
		}
	}
	return GameLoss{}, false
}

// hasDraw reports whether a draw kind is enabled.
func (r *Rules) hasDraw(kind DrawKind) (GameDraw, bool) {
	for _, d := range r.Draw {
		if d.Kind == kind {
			return d, true
		}
	}
	return GameDraw{}, false
}

// RepetitionCount returns the configured n-fold repetition, or 0.
func (r *Rules) RepetitionCount() int {
	if d, ok := r.hasDraw(DrawRepetition); ok {
		return d.N
	}
	return 0
}
