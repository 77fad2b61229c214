package mnk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/boardkit/internal/game"
)

func TestTicTacToePerft(t *testing.T) {
	pos := StartPos(TicTacToe())
	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 9},
		{2, 72},
		{3, 504},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, game.Perft(pos, tc.depth), "perft(%d)", tc.depth)
	}

	// Every empty square stays a legal move after a line is completed and
	// Perft does not check results, so the full-depth count reaches the
	// 9! placement sequences.
	full := game.Perft(pos, 9)
	assert.GreaterOrEqual(t, full, uint64(100000))
	assert.LessOrEqual(t, full, uint64(362880))
}

func TestTicTacToePerftSymmetry(t *testing.T) {
	// The four corner openings are mirror images and must have identical
	// subtree counts; same for the four edges.
	pos := StartPos(TicTacToe())
	split := game.SplitPerft(pos, 8)
	counts := map[int]uint64{}
	for _, e := range split {
		counts[e.Move.To()] = e.Nodes
	}
	corners := []int{0, 2, 6, 8}
	for _, c := range corners[1:] {
		assert.Equal(t, counts[corners[0]], counts[c], "corner %d", c)
	}
	edges := []int{1, 3, 5, 7}
	for _, e := range edges[1:] {
		assert.Equal(t, counts[edges[0]], counts[e], "edge %d", e)
	}
}

func TestWinDetectionAllDirections(t *testing.T) {
	dirs := []struct {
		name   string
		xCells [3][2]int // row, col
		oCells [2][2]int // harmless replies off the line
	}{
		{"row", [3][2]int{{1, 0}, {1, 1}, {1, 2}}, [2][2]int{{0, 0}, {0, 1}}},
		{"column", [3][2]int{{0, 1}, {1, 1}, {2, 1}}, [2][2]int{{0, 0}, {2, 2}}},
		{"diagonal", [3][2]int{{0, 0}, {1, 1}, {2, 2}}, [2][2]int{{0, 1}, {0, 2}}},
		{"antidiagonal", [3][2]int{{0, 2}, {1, 1}, {2, 0}}, [2][2]int{{0, 0}, {0, 1}}},
	}

	for _, d := range dirs {
		t.Run(d.name, func(t *testing.T) {
			cur := StartPos(TicTacToe())
			size := cur.Settings.Size()
			for i, rc := range d.xCells {
				m := game.NewMove(game.NoSource, size.Index(rc[0], rc[1]), game.Normal, 0, false)
				require.True(t, cur.IsMoveLegal(m))
				next, ok := cur.MakeMove(m)
				require.True(t, ok)
				cur = next
				if i == 2 {
					break
				}
				oc := d.oCells[i]
				om := game.NewMove(game.NoSource, size.Index(oc[0], oc[1]), game.Normal, 0, false)
				require.True(t, cur.IsMoveLegal(om))
				next, ok = cur.MakeMove(om)
				require.True(t, ok)
				cur = next
			}
			assert.Equal(t, game.Loss, cur.PlayerResultSlow(nil), "o to move after x's %s win", d.name)
		})
	}
}

func TestLostPositionFromFEN(t *testing.T) {
	// o has a full column: x to move has already lost.
	pos, err := FromFEN("5 5 3 x X4/O4/O2X1/O1X2/OX3")
	require.NoError(t, err)
	assert.Equal(t, game.Loss, pos.PlayerResultSlow(nil))
}

func TestDrawOnFullBoard(t *testing.T) {
	// x x o / o o x / x o x has no line.
	pos, err := FromFEN("3 3 3 o XXO/OOX/XOX")
	require.NoError(t, err)
	assert.True(t, pos.EmptyBB().IsZero())
	assert.Equal(t, game.Draw, pos.PlayerResultSlow(nil))
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		"3 3 3 x 3/3/3",
		"3 3 3 o X2/1O1/2X",
		"6 7 4 x 7/7/7/3X3/3O3/3X3",
		"5 5 3 x X4/O4/O2X1/O1X2/OX3",
	}
	for _, fen := range fens {
		pos, err := FromFEN(fen)
		require.NoError(t, err, fen)
		assert.Equal(t, fen, pos.FEN(), "round trip of %q", fen)
		again, err := FromFEN(pos.FEN())
		require.NoError(t, err)
		assert.Equal(t, pos.ZobristHash(), again.ZobristHash())
	}
}

func TestFENErrors(t *testing.T) {
	bad := []string{
		"",
		"3 3 x 3/3/3",          // missing k
		"3 3 3 z 3/3/3",        // bad side
		"3 3 3 x 3/3",          // too few rows
		"3 3 3 x 4/3/3",        // row too long
		"3 3 3 x q2/3/3",       // bad character
		"3 3 9 x 3/3/3",        // k unachievable
		"20 20 5 x 5/5/5/5/5",  // too many squares
	}
	for _, fen := range bad {
		_, err := FromFEN(fen)
		assert.Error(t, err, "FromFEN(%q)", fen)
	}
}

func TestSettingsValidation(t *testing.T) {
	assert.NoError(t, Settings{Height: 11, Width: 11, K: 5}.Validate())
	assert.Error(t, Settings{Height: 12, Width: 11, K: 5}.Validate())
	assert.NoError(t, Settings{Height: 3, Width: 3, K: 3}.Validate())
	assert.Error(t, Settings{Height: 0, Width: 3, K: 3}.Validate())
}

func TestMoveRoundTrip(t *testing.T) {
	pos := StartPos(Connect4Board())
	moves := pos.LegalMovesSlow()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		parsed, err := ParseMove(MoveString(m, pos.Settings), pos)
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}
