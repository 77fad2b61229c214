package fairy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/boardkit/internal/game"
)

func mustStart(t *testing.T, r *Rules) *Board {
	t.Helper()
	b, err := StartPos(r)
	require.NoError(t, err)
	return b
}

func TestChessStartposMoves(t *testing.T) {
	pos := mustStart(t, Chess())
	assert.Equal(t, 20, pos.LegalMovesSlow().Len())
	assert.Equal(t, uint64(400), game.Perft(pos, 2))
	assert.Equal(t, uint64(8902), game.Perft(pos, 3))
}

func TestChessKiwipete(t *testing.T) {
	pos, err := FromFEN("chess r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(48), game.Perft(pos, 1))
	assert.Equal(t, uint64(2039), game.Perft(pos, 2))
}

func TestChessCheckmate(t *testing.T) {
	pos, err := FromFEN("chess rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 0 3")
	require.NoError(t, err)
	assert.Equal(t, 0, pos.LegalMovesSlow().Len())
	assert.Equal(t, game.Loss, pos.PlayerResultSlow(nil))
}

func TestChessStalemate(t *testing.T) {
	pos, err := FromFEN("chess 8/8/8/8/8/8/6QQ/6kK b - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 0, pos.LegalMovesSlow().Len())
	assert.False(t, pos.InCheck())
	assert.Equal(t, game.Draw, pos.PlayerResultSlow(nil))
}

func TestChessFENRoundTrip(t *testing.T) {
	fens := []string{
		"chess rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"chess r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"chess rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	}
	for _, fen := range fens {
		pos, err := FromFEN(fen)
		require.NoError(t, err, fen)
		assert.Equal(t, fen, pos.FEN())
		again, err := FromFEN(pos.FEN())
		require.NoError(t, err)
		assert.Equal(t, pos.Hash, again.Hash, "hash stable for %q", fen)
	}
}

func TestAtomicExplosion(t *testing.T) {
	pos, err := FromFEN("atomic rnbqkbnr/pp2pppp/3p4/2p1N3/8/8/PPPPPPPP/RNBQKB1R w KQkq - 0 1")
	require.NoError(t, err)

	m, err := ParseMove("e5f7", pos)
	require.NoError(t, err)
	next, ok := pos.MakeMove(m)
	require.True(t, ok)

	// The explosion removed the capturer, the g8 knight, the f8 bishop, and
	// the black king.
	f7 := pos.Rules().Size.Index(6, 5)
	g8 := pos.Rules().Size.Index(7, 6)
	assert.True(t, next.RoyalBB(game.SecondPlayer).IsZero(), "black king exploded")
	assert.False(t, next.OccupiedBB().IsSet(f7), "f7 empty after the blast")
	assert.False(t, next.OccupiedBB().IsSet(g8), "the g8 knight exploded")
	assert.Equal(t, game.Loss, next.PlayerResultSlow(nil), "black has no king and loses")
}

func TestCrazyhouseCaptureToHandAndDrop(t *testing.T) {
	pos, err := FromFEN("crazyhouse rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR[] w KQkq - 0 2")
	require.NoError(t, err)

	m, err := ParseMove("e4d5", pos)
	require.NoError(t, err)
	next, ok := pos.MakeMove(m)
	require.True(t, ok)
	assert.Equal(t, uint8(1), next.InHand[game.FirstPlayer][PawnID], "captured pawn joins white's hand")

	// The hand shows up in the FEN and round-trips.
	fen := next.FEN()
	assert.Contains(t, fen, "[P]")
	again, err := FromFEN(fen)
	require.NoError(t, err)
	assert.Equal(t, next.Hash, again.Hash)

	// After black replies, white can drop the pawn on an empty square.
	reply, err := ParseMove("g8f6", again)
	require.NoError(t, err)
	afterReply, ok := again.MakeMove(reply)
	require.True(t, ok)

	drops := 0
	moves := afterReply.LegalMovesSlow()
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).Kind() == game.Drop {
			drops++
		}
	}
	assert.Greater(t, drops, 0, "white has pawn drops available")

	drop, err := ParseMove("P@e6", afterReply)
	require.NoError(t, err)
	dropped, ok := afterReply.MakeMove(drop)
	require.True(t, ok)
	assert.Equal(t, uint8(0), dropped.InHand[game.FirstPlayer][PawnID])
}

func TestCrazyhousePromotedDemotesToPawn(t *testing.T) {
	// A promoted white queen on a8 flagged with ~; the black rook captures
	// it and black receives a pawn in hand, not a queen.
	pos, err := FromFEN("crazyhouse Q~2rk3/8/8/8/8/8/8/4K3[] b - - 0 1")
	require.NoError(t, err)

	m, err := ParseMove("d8a8", pos)
	require.NoError(t, err)
	next, ok := pos.MakeMove(m)
	require.True(t, ok)
	assert.Equal(t, uint8(1), next.InHand[game.SecondPlayer][PawnID], "promoted queen demotes to pawn in hand")
	assert.Equal(t, uint8(0), next.InHand[game.SecondPlayer][QueenID])
}

func TestHordePawnsAndLoss(t *testing.T) {
	pos := mustStart(t, Horde())

	// Only the a, d, e and h pawns on the second rank have a clear lane
	// for a double push at the start; the b3/c3/f3/g3 wall blocks the rest.
	doubles := 0
	moves := pos.LegalMovesSlow()
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).Kind() == game.DoublePawnPush {
			doubles++
		}
	}
	assert.Equal(t, 4, doubles)

	// A lone first-rank pawn may push two squares.
	lone, err := FromFEN("horde 4k3/8/8/8/8/8/8/P7 w - - 0 1")
	require.NoError(t, err)
	m, err := ParseMove("a1a3", lone)
	require.NoError(t, err)
	_, ok := lone.MakeMove(m)
	assert.True(t, ok, "horde pawns double-push from the first rank")

	// A horde with no pieces has lost.
	gone, err := FromFEN("horde rnbqkbnr/pppppppp/8/8/8/8/8/8 w kq - 0 40")
	require.NoError(t, err)
	assert.Equal(t, game.Loss, gone.PlayerResultSlow(nil))
}

func TestRacingKingsWinAndNoChecks(t *testing.T) {
	// The black king reached the eighth rank: white to move has lost.
	pos, err := FromFEN("racingkings 3k4/8/8/8/8/8/8/K7 w 0 40")
	require.NoError(t, err)
	assert.Equal(t, game.Loss, pos.PlayerResultSlow(nil))

	// Moves that give check are illegal.
	mid, err := FromFEN("racingkings 8/8/8/8/8/8/kr4RK/q5RQ w 0 5")
	require.NoError(t, err)
	moves := mid.LegalMovesSlow()
	for i := 0; i < moves.Len(); i++ {
		next, ok := mid.MakeMove(moves.Get(i))
		require.True(t, ok)
		assert.False(t, next.InCheck(), "racing kings forbids checks (%s)", MoveString(moves.Get(i), mid))
	}
}

func TestKingOfTheHillCenterWin(t *testing.T) {
	pos, err := FromFEN("kingofthehill 4k3/8/8/8/4K3/8/8/8 b - - 0 30")
	require.NoError(t, err)
	// The white king stands on e4: black to move has lost.
	assert.Equal(t, game.Loss, pos.PlayerResultSlow(nil))
}

func TestShatranjBareKing(t *testing.T) {
	// White is bared and the remaining rook is out of reach: loss.
	pos, err := FromFEN("shatranj 3rk3/8/8/8/8/8/8/4K3 w 0 40")
	require.NoError(t, err)
	assert.Equal(t, game.Loss, pos.PlayerResultSlow(nil))

	// Bared, but the last enemy piece hangs: the recapture postpones the
	// loss.
	recapture, err := FromFEN("shatranj 4k3/8/8/8/8/8/4r3/4K3 w 0 40")
	require.NoError(t, err)
	assert.NotEqual(t, game.Loss, recapture.PlayerResultSlow(nil))
}

func TestShatranjStartposMoves(t *testing.T) {
	pos := mustStart(t, Shatranj())
	// No double pushes in shatranj: 8 pawn pushes, 4 knight moves, and 4
	// alfil jumps over the pawn wall.
	assert.Equal(t, 16, pos.LegalMovesSlow().Len())
}

func TestFairyAtaxx(t *testing.T) {
	pos := mustStart(t, Ataxx())
	assert.Equal(t, 16, pos.LegalMovesSlow().Len())
	assert.Equal(t, uint64(256), game.Perft(pos, 2))

	// Cloning converts the adjacent enemy stone.
	duel, err := FromFEN("ataxx 7/7/7/2x1o2/7/7/7 x 0 1")
	require.NoError(t, err)
	clone, err := ParseMove("d4", duel)
	require.NoError(t, err)
	next, ok := duel.MakeMove(clone)
	require.True(t, ok)
	assert.Equal(t, 3, next.ColorBB(game.FirstPlayer).PopCount())
	assert.Equal(t, 0, next.ColorBB(game.SecondPlayer).PopCount())
	assert.Equal(t, game.Loss, next.PlayerResultSlow(nil))
}

func TestFairyAtaxxBlockedSquares(t *testing.T) {
	pos, err := FromFEN("ataxx x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1")
	require.NoError(t, err)
	assert.Equal(t, "ataxx x5o/7/2-1-2/7/2-1-2/7/o5x x 0 1", pos.FEN())
	moves := pos.LegalMovesSlow()
	for i := 0; i < moves.Len(); i++ {
		assert.False(t, pos.Blocked.IsSet(moves.Get(i).To()), "no move may land on a wall")
	}
}

func TestFairyMnk(t *testing.T) {
	pos, err := FromFEN("mnk 3 3 3 x 3/3/3")
	require.NoError(t, err)
	assert.Equal(t, 9, pos.LegalMovesSlow().Len())
	assert.Equal(t, uint64(72), game.Perft(pos, 2))

	// x completes the top row.
	cur := pos
	for _, sq := range []string{"a3", "a1", "b3", "b1", "c3"} {
		m, err := ParseMove(sq, cur)
		require.NoError(t, err)
		next, ok := cur.MakeMove(m)
		require.True(t, ok)
		cur = next
	}
	assert.Equal(t, game.Loss, cur.PlayerResultSlow(nil))

	// Round trip keeps the dimensions.
	assert.Equal(t, "mnk 3 3 3 o XXX/3/OO1", cur.FEN())
}

func TestFairyCastling(t *testing.T) {
	pos, err := FromFEN("chess r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	short, err := ParseSAN("O-O", pos)
	require.NoError(t, err)
	next, ok := pos.MakeMove(short)
	require.True(t, ok)
	// King to g1, rook to f1.
	assert.Equal(t, KingID, pos.PieceAt(4).ID)
	assert.Equal(t, KingID, next.PieceAt(6).ID)
	assert.Equal(t, RookID, next.PieceAt(5).ID)
	assert.False(t, next.CastlingRights[0][Kingside])
	assert.False(t, next.CastlingRights[0][Queenside])

	// Castling through an attacked square is rejected.
	barred, err := FromFEN("chess r3k2r/8/8/8/8/5q2/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	if _, err := ParseSAN("O-O", barred); err == nil {
		t.Error("castling through check was accepted")
	}
}

func TestNullMoveRules(t *testing.T) {
	chessPos := mustStart(t, Chess())
	next, ok := chessPos.MakeNullMove()
	require.True(t, ok)
	assert.Equal(t, game.SecondPlayer, next.ActivePlayer())
	assert.NotEqual(t, chessPos.Hash, next.Hash)

	inCheck, err := FromFEN("chess 4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	require.NoError(t, err)
	_, ok = inCheck.MakeNullMove()
	assert.False(t, ok, "null move while in check must fail")
}

func TestFiftyMoveCounter(t *testing.T) {
	pos, err := FromFEN("chess 4k3/8/8/8/8/8/4R3/4K3 b - - 100 80")
	require.NoError(t, err)
	assert.Equal(t, game.Draw, pos.PlayerResultSlow(nil))

	// Mate on the same ply beats the counter.
	mate, err := FromFEN("chess R3k3/6R1/8/8/8/8/8/4K3 b - - 100 80")
	require.NoError(t, err)
	assert.Equal(t, game.Loss, mate.PlayerResultSlow(nil))
}

func TestRepetitionDraw(t *testing.T) {
	pos := mustStart(t, Chess())
	var h game.History
	cur := pos
	for _, ms := range []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"} {
		h.Push(cur.Hash)
		m, err := ParseMove(ms, cur)
		require.NoError(t, err)
		next, ok := cur.MakeMove(m)
		require.True(t, ok)
		cur = next
	}
	assert.Equal(t, pos.Hash, cur.Hash)
	assert.Equal(t, game.Draw, cur.PlayerResultSlow(&h))
}

func TestUnknownVariant(t *testing.T) {
	_, err := FromFEN("quantumchess 8/8/8/8/8/8/8/8 w - - 0 1")
	assert.Error(t, err)
}
