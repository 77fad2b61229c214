package chess

import (
	"testing"

	"github.com/hailam/boardkit/internal/game"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: black is already checkmated.
	pos, err := FromFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.InCheck() {
		t.Error("Expected black to be in check")
	}
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if res := pos.PlayerResultSlow(nil); res != game.Loss {
		t.Errorf("PlayerResultSlow = %s, want Loss", res)
	}
}

func TestNotCheckmate(t *testing.T) {
	// The black king can capture the checking rook.
	pos, err := FromFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
}

func TestScholarsMateIsLoss(t *testing.T) {
	// The spec's mate seed: white has zero legal moves and is mated.
	pos, err := FromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 0 3")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if n := pos.LegalMovesSlow().Len(); n != 0 {
		t.Fatalf("expected zero legal moves, got %d", n)
	}
	if res := pos.PlayerResultSlow(nil); res != game.Loss {
		t.Errorf("PlayerResultSlow = %s, want Loss", res)
	}
}

func TestStalemateIsDraw(t *testing.T) {
	pos, err := FromFEN("8/8/8/8/8/8/6QQ/6kK b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if n := pos.LegalMovesSlow().Len(); n != 0 {
		t.Fatalf("expected zero legal moves, got %d", n)
	}
	if pos.InCheck() {
		t.Fatal("stalemated side must not be in check")
	}
	if res := pos.PlayerResultSlow(nil); res != game.Draw {
		t.Errorf("PlayerResultSlow = %s, want Draw", res)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	pos, err := FromFEN("8/8/8/4k3/8/4K3/4R3/8 w - - 100 80")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if res := pos.PlayerResultSlow(nil); res != game.Draw {
		t.Errorf("PlayerResultSlow = %s, want Draw at halfmove clock 100", res)
	}

	// Mate takes precedence over the counter on the same ply.
	mate, err := FromFEN("R6k/6pp/8/8/8/8/8/K7 b - - 100 90")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if res := mate.PlayerResultSlow(nil); res != game.Loss {
		t.Errorf("PlayerResultSlow = %s, want Loss (mate beats the 50-move rule)", res)
	}
}

func TestThreefoldRepetition(t *testing.T) {
	pos := StartPos()
	var h game.History

	// Shuffle the knights out and back twice: the start position recurs
	// for the third time with white to move. The history holds every
	// position before the current one.
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	cur := pos
	for _, ms := range shuffle {
		h.Push(cur.Hash)
		m, err := ParseMove(ms, cur)
		if err != nil {
			t.Fatal(err)
		}
		next, ok := cur.MakeMove(m)
		if !ok {
			t.Fatalf("move %s unexpectedly illegal", ms)
		}
		cur = next
	}

	if cur.Hash != pos.Hash {
		t.Fatal("shuffling knights must restore the start hash")
	}
	if res := cur.PlayerResultSlow(&h); res != game.Draw {
		t.Errorf("PlayerResultSlow = %s, want Draw by threefold repetition", res)
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/4k3/8/4K3/8/8 w - - 0 1", true},
		{"8/8/8/4k3/8/4KB2/8/8 w - - 0 1", true},
		{"8/8/8/4k3/8/4KN2/8/8 w - - 0 1", true},
		{"8/8/8/4k3/8/4KR2/8/8 w - - 0 1", false},
		{"8/8/3b4/4k3/8/4KB2/8/8 w - - 0 1", false},
		{"8/7p/8/4k3/8/4K3/8/8 w - - 0 1", false},
	}
	for _, tc := range tests {
		pos, err := FromFEN(tc.fen)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.fen, err)
		}
		if got := pos.IsInsufficientMaterial(); got != tc.want {
			t.Errorf("IsInsufficientMaterial(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	}
	for _, fen := range fens {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("parse %q: %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN round trip: got %q, want %q", got, fen)
		}
		again, err := FromFEN(pos.FEN())
		if err != nil {
			t.Fatalf("reparse %q: %v", pos.FEN(), err)
		}
		if again.Hash != pos.Hash {
			t.Errorf("hash changed across FEN round trip for %q", fen)
		}
	}
}

func TestFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",                 // missing fields
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",             // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",    // bad side
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",    // bad castling
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",    // overfull rank
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1",   // bad ep square
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",       // no black king
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - zero 1", // bad clock
	}
	for _, fen := range bad {
		if _, err := FromFEN(fen); err == nil {
			t.Errorf("FromFEN(%q) succeeded, want error", fen)
		}
	}
	// Side not to move in check is a semantic error.
	if _, err := FromFEN("4k3/8/8/8/8/8/8/R3K3 b - - 0 1"); err != nil {
		t.Errorf("legal position rejected: %v", err)
	}
	if _, err := FromFEN("4k3/4R3/8/8/8/8/8/4K3 w - - 0 1"); err == nil {
		t.Error("accepted position with the side not to move in check")
	}
}

func TestNullMove(t *testing.T) {
	pos := StartPos()
	next, ok := pos.MakeNullMove()
	if !ok {
		t.Fatal("null move failed from startpos")
	}
	if next.SideToMove != Black {
		t.Error("null move did not flip side to move")
	}
	if next.Hash == pos.Hash {
		t.Error("null move must change the hash")
	}

	inCheck, err := FromFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := inCheck.MakeNullMove(); ok {
		t.Error("null move allowed while in check")
	}
}

func TestCompactMoveRoundTrip(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
	}
	for _, fen := range positions {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		moves := pos.LegalMovesSlow()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			parsed, err := ParseMove(MoveString(m), pos)
			if err != nil {
				t.Fatalf("%q: ParseMove(%q): %v", fen, MoveString(m), err)
			}
			if parsed != m {
				t.Errorf("%q: move %q round-tripped to %q", fen, MoveString(m), MoveString(parsed))
			}
		}
	}
}

func TestHashChangesEveryMove(t *testing.T) {
	pos := StartPos()
	moves := pos.LegalMovesSlow()
	for i := 0; i < moves.Len(); i++ {
		next, ok := pos.MakeMove(moves.Get(i))
		if !ok {
			t.Fatalf("legal move %s failed to apply", MoveString(moves.Get(i)))
		}
		if next.Hash == pos.Hash {
			t.Errorf("hash unchanged after %s", MoveString(moves.Get(i)))
		}
		if next.SideToMove != pos.SideToMove.Other() {
			t.Errorf("side to move not flipped after %s", MoveString(moves.Get(i)))
		}
		if next.Hash != next.ComputeHash() {
			t.Errorf("incremental hash diverges after %s", MoveString(moves.Get(i)))
		}
	}
}

// TestHashByteDistribution walks the game tree to depth 4 and checks that
// every byte position of the Zobrist hash uses all 256 values with
// roughly uniform frequency (within half of the expected count).
func TestHashByteDistribution(t *testing.T) {
	var counts [8][256]int
	total := 0

	var walk func(p *Position, depth int)
	walk = func(p *Position, depth int) {
		h := p.Hash
		for i := 0; i < 8; i++ {
			counts[i][byte(h>>(8*i))]++
		}
		total++
		if depth == 0 {
			return
		}
		moves := p.LegalMovesSlow()
		for i := 0; i < moves.Len(); i++ {
			next, ok := p.MakeMove(moves.Get(i))
			if ok {
				walk(next, depth-1)
			}
		}
	}
	walk(StartPos(), 4)

	expected := float64(total) / 256
	for bytePos := 0; bytePos < 8; bytePos++ {
		for v := 0; v < 256; v++ {
			got := float64(counts[bytePos][v])
			if got < expected*0.5 || got > expected*1.5 {
				t.Fatalf("byte %d value %02x occurs %.0f times, expected %.0f +-50%%",
					bytePos, v, got, expected)
			}
		}
	}
}
