package chess

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/hailam/boardkit/internal/game"
)

func TestPGNRoundTrip(t *testing.T) {
	pos := StartPos()
	var moves []game.Move
	cur := pos
	for _, ms := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6"} {
		m, err := ParseMove(ms, cur)
		if err != nil {
			t.Fatal(err)
		}
		moves = append(moves, m)
		next, ok := cur.MakeMove(m)
		if !ok {
			t.Fatalf("move %s illegal", ms)
		}
		cur = next
	}

	g := &PGNGame{
		Tags: []PGNTag{
			{Name: "Event", Value: "Casual Game"},
			{Name: "White", Value: "Alice"},
			{Name: "Black", Value: "Bob"},
		},
		Moves:  moves,
		Result: "*",
	}
	text := g.FormatPGN()

	if !strings.Contains(text, `[Event "Casual Game"]`) {
		t.Errorf("missing event tag in %q", text)
	}
	if !strings.Contains(text, "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6") {
		t.Errorf("unexpected movetext in %q", text)
	}

	parsed, err := ParsePGN(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Moves) != len(moves) {
		t.Fatalf("parsed %d moves, want %d", len(parsed.Moves), len(moves))
	}
	for i := range moves {
		if parsed.Moves[i] != moves[i] {
			t.Errorf("move %d: got %s, want %s", i, MoveString(parsed.Moves[i]), MoveString(moves[i]))
		}
	}
	if parsed.Tag("White") != "Alice" {
		t.Errorf("White tag = %q", parsed.Tag("White"))
	}
	if parsed.Result != "*" {
		t.Errorf("Result = %q", parsed.Result)
	}
}

func TestPGNWithFENTagAndComments(t *testing.T) {
	text := `[Event "Study"]
[FEN "8/8/8/4k3/8/4K3/4R3/8 w - - 0 1"]
[Result "1-0"]

1. Re1 {repositioning} Kd5 2. Kf4 1-0
`
	g, err := ParsePGN(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Moves) != 3 {
		t.Fatalf("parsed %d moves, want 3", len(g.Moves))
	}
	if g.Result != "1-0" {
		t.Errorf("Result = %q", g.Result)
	}
}

func TestPGNCastlingTokens(t *testing.T) {
	text := `[Event "?"]

1. e4 e5 2. Nf3 Nf6 3. Bc4 Bc5 4. O-O 0-0 *
`
	g, err := ParsePGN(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Moves) != 8 {
		t.Fatalf("parsed %d moves, want 8", len(g.Moves))
	}
	last := g.Moves[7]
	if last.Kind() != game.CastleKingside {
		t.Errorf("black's 4th move should be kingside castling, got kind %d", last.Kind())
	}
}

func TestRandomLegalMove(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pos := StartPos()
	for i := 0; i < 40; i++ {
		m, ok := game.RandomLegalMove(pos, rng)
		if !ok {
			break // the random walk hit a finished game
		}
		if !pos.IsMoveLegal(m) {
			t.Fatalf("random move %s is not legal in %q", MoveString(m), pos.FEN())
		}
		next, ok := pos.MakeMove(m)
		if !ok {
			t.Fatalf("random legal move %s failed to apply", MoveString(m))
		}
		pos = next
	}
}
