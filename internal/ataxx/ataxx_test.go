package ataxx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/boardkit/internal/game"
)

func TestPerftStartpos(t *testing.T) {
	pos := StartPos()
	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 16},
		{2, 256},
		{3, 6460},
		{4, 155888},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, game.Perft(pos, tc.depth), "perft(%d)", tc.depth)
	}
}

func TestPerftCenterDuel(t *testing.T) {
	pos, err := FromFEN("7/7/7/2x1o2/7/7/7 x 0 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(168317), game.Perft(pos, 4))
}

func TestPerftWalledCorner(t *testing.T) {
	// Walled-off bottom rank: very few moves, passes included.
	pos, err := FromFEN("7/7/7/7/-------/-------/x5o x 0 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(73), game.Perft(pos, 5))
}

func TestCloningAndConversion(t *testing.T) {
	pos, err := FromFEN("7/7/7/2x1o2/7/7/7 x 0 1")
	require.NoError(t, err)

	// Clone x from c4 to d4: the o stone on e4 gets converted.
	m, err := ParseMove("d4", pos)
	require.NoError(t, err)
	require.True(t, pos.IsMoveLegal(m))

	next, ok := pos.MakeMove(m)
	require.True(t, ok)
	assert.Equal(t, 3, next.Colors[X].PopCount(), "x should have three stones after converting")
	assert.Equal(t, 0, next.Colors[O].PopCount(), "o should have lost its only stone")
	assert.Equal(t, O, next.ActivePlayer())
	assert.Equal(t, 0, next.HalfMoveClock, "cloning resets the halfmove clock")
	assert.Equal(t, game.Loss, next.PlayerResultSlow(nil), "o has no stones and loses")
}

func TestLeapingKeepsCount(t *testing.T) {
	pos, err := FromFEN("x5o/7/7/7/7/7/o5x x 0 1")
	require.NoError(t, err)

	// Leap a7 -> a5: the stone moves, no conversion happens.
	m, err := ParseMove("a7a5", pos)
	require.NoError(t, err)
	require.True(t, pos.IsMoveLegal(m))

	next, ok := pos.MakeMove(m)
	require.True(t, ok)
	assert.Equal(t, 2, next.Colors[X].PopCount())
	assert.False(t, next.Colors[X].IsSet(6*8+0), "a7 must be vacated")
	assert.Equal(t, 1, next.HalfMoveClock, "quiet leap increments the clock")
}

func TestPassWhenStuck(t *testing.T) {
	// x is squeezed into a corner behind two blocked rows: no cloning or
	// leaping target is reachable, so the only generated move is a pass,
	// because o can still move.
	stuck, err := FromFEN("x------/-------/-------/7/7/7/6o x 0 1")
	require.NoError(t, err)
	moves := stuck.LegalMovesSlow()
	require.Equal(t, 1, moves.Len())
	assert.Equal(t, game.NullMove, moves.Get(0))
	assert.True(t, stuck.IsMoveLegal(game.NullMove))

	next, ok := stuck.MakeMove(game.NullMove)
	require.True(t, ok)
	assert.Equal(t, O, next.ActivePlayer())
}

func TestFullBoardCounting(t *testing.T) {
	pos, err := FromFEN("7/7/7/o6/ooooooo/ooooooo/xxxxxxx x 0 1")
	require.NoError(t, err)

	moves := pos.LegalMovesSlow()
	require.Equal(t, 1, moves.Len(), "exactly one legal move expected")

	cur := pos
	for {
		ms := cur.LegalMovesSlow()
		if ms.Len() == 0 {
			break
		}
		next, ok := cur.MakeMove(ms.Get(0))
		require.True(t, ok)
		cur = next
		if cur.EmptyBB == 0 {
			break
		}
	}
	require.True(t, cur.EmptyBB == 0, "board should fill up")
	res := cur.PlayerResultSlow(nil)
	ours := cur.Colors[cur.ActivePlayer()].PopCount()
	theirs := cur.Colors[cur.ActivePlayer().Other()].PopCount()
	switch {
	case ours > theirs:
		assert.Equal(t, game.Win, res)
	case ours < theirs:
		assert.Equal(t, game.Loss, res)
	default:
		assert.Equal(t, game.Draw, res)
	}
}

func TestHundredMoveDraw(t *testing.T) {
	pos, err := FromFEN("x5o/7/7/7/7/7/o5x x 100 1")
	require.NoError(t, err)
	assert.Equal(t, game.Draw, pos.PlayerResultSlow(nil))
}

func TestNoStonesIsLoss(t *testing.T) {
	pos, err := FromFEN("7/7/7/7/7/7/o6 x 0 1")
	require.NoError(t, err)
	assert.Equal(t, game.Loss, pos.PlayerResultSlow(nil))
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"7/7/7/2x1o2/7/7/7 x 0 1",
		"x5o/7/2-1-2/7/2-1-2/7/o5x o 3 7",
		"7/7/7/7/-------/-------/x5o x 0 1",
	}
	for _, fen := range fens {
		pos, err := FromFEN(fen)
		require.NoError(t, err, fen)
		assert.Equal(t, fen, pos.FEN(), "round trip of %q", fen)

		again, err := FromFEN(pos.FEN())
		require.NoError(t, err)
		assert.Equal(t, pos.ZobristHash(), again.ZobristHash(), "hash stable for %q", fen)
	}
}

func TestFENErrors(t *testing.T) {
	bad := []string{
		"",
		"x5o/7/7/7/7/7 x 0 1",          // six rows
		"x5o/7/7/7/7/7/o5x z 0 1",      // bad side
		"x5o/8/7/7/7/7/o5x x 0 1",      // row too long
		"xx5o/7/7/7/7/7/o5x x 0 1",     // row too long via pieces
		"x5o/7/7/7/7/7/o5x x zero 1",   // bad clock
	}
	for _, fen := range bad {
		_, err := FromFEN(fen)
		assert.Error(t, err, "FromFEN(%q)", fen)
	}
}

func TestCompactMoveRoundTrip(t *testing.T) {
	pos := StartPos()
	moves := pos.LegalMovesSlow()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		parsed, err := ParseMove(MoveString(m), pos)
		require.NoError(t, err)
		assert.Equal(t, m, parsed, "move %s", MoveString(m))
	}
}
