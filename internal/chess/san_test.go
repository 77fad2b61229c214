package chess

import (
	"testing"

	"github.com/hailam/boardkit/internal/game"
)

func TestSANRoundTrip(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range positions {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		moves := pos.LegalMovesSlow()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			san := ToSAN(m, pos)
			parsed, err := ParseSAN(san, pos)
			if err != nil {
				t.Fatalf("%q: ParseSAN(%q): %v", fen, san, err)
			}
			if parsed != m {
				t.Errorf("%q: SAN %q round-tripped to %q", fen, san, MoveString(parsed))
			}
		}
	}
}

func TestSANDisambiguation(t *testing.T) {
	// Two knights can reach d3; the file disambiguates.
	pos, err := FromFEN("4k3/8/8/8/8/8/1N3N2/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	moves := pos.LegalMovesSlow()
	for i := 0; i < moves.Len(); i++ {
		found[ToSAN(moves.Get(i), pos)] = true
	}
	if !found["Nbd3"] || !found["Nfd3"] {
		t.Errorf("expected file-disambiguated knight moves Nbd3/Nfd3, got %v", found)
	}
}

func TestSANCastling(t *testing.T) {
	pos, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	short, err := ParseSAN("O-O", pos)
	if err != nil {
		t.Fatal(err)
	}
	if short.Kind() != game.CastleKingside {
		t.Errorf("O-O parsed to kind %d", short.Kind())
	}
	long, err := ParseSAN("0-0-0", pos)
	if err != nil {
		t.Fatal(err)
	}
	if long.Kind() != game.CastleQueenside {
		t.Errorf("0-0-0 parsed to kind %d", long.Kind())
	}
}

func TestSANCheckAndMateSuffix(t *testing.T) {
	// Back-rank mate: Ra1-a8 mates the cornered king.
	mate, err := FromFEN("7k/6pp/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, err := ParseSAN("Ra8", mate)
	if err != nil {
		t.Fatal(err)
	}
	if san := ToSAN(m, mate); san != "Ra8#" {
		t.Errorf("ToSAN = %q, want Ra8#", san)
	}

	// A plain check gets the + suffix.
	check, err := FromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	cm, err := ParseSAN("Ra8+", check)
	if err != nil {
		t.Fatal(err)
	}
	if san := ToSAN(cm, check); san != "Ra8+" {
		t.Errorf("ToSAN = %q, want Ra8+", san)
	}
}

func TestSANErrors(t *testing.T) {
	pos := StartPos()
	if _, err := ParseSAN("Ke2", pos); err == nil {
		t.Error("accepted illegal king move Ke2 at startpos")
	}
	if _, err := ParseSAN("xyzzy", pos); err == nil {
		t.Error("accepted nonsense SAN")
	}
}
