// Perft - move-generation diagnostic for the boardkit variants.
//
// Counts the leaf nodes of the legal move tree for a position and prints
// the per-root-move split, for diff-testing against reference counts:
//
//	perft -depth 5
//	perft -variant ataxx -depth 4
//	perft -variant chess -fen "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1" -depth 4
package main

import (
	"flag"
	"os"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hailam/boardkit/internal/ataxx"
	"github.com/hailam/boardkit/internal/chess"
	"github.com/hailam/boardkit/internal/fairy"
	"github.com/hailam/boardkit/internal/game"
	"github.com/hailam/boardkit/internal/mnk"
	"github.com/hailam/boardkit/internal/uttt"
)

var (
	log = logging.MustGetLogger("perft")
	out = message.NewPrinter(language.English)
)

var (
	variant = flag.String("variant", "chess", "variant: chess, ataxx, uttt, mnk, or any fairy name (atomic, crazyhouse, ...)")
	fen     = flag.String("fen", "", "position to search (default: the variant's start position)")
	depth   = flag.Int("depth", 4, "perft depth")
	split   = flag.Bool("split", true, "print per-root-move subtree counts")
)

func main() {
	flag.Parse()
	if *depth < 1 {
		log.Fatalf("depth must be positive, got %d", *depth)
	}

	switch *variant {
	case "chess":
		pos, err := position(chess.FromFEN, chess.StartFEN)
		exitOn(err)
		run(pos, func(m game.Move) string { return chess.MoveString(m) })
	case "ataxx":
		pos, err := position(ataxx.FromFEN, ataxx.StartFEN)
		exitOn(err)
		run(pos, func(m game.Move) string { return ataxx.MoveString(m) })
	case "uttt":
		pos, err := position(uttt.FromFEN, uttt.StartFEN)
		exitOn(err)
		run(pos, func(m game.Move) string { return uttt.MoveString(m) })
	case "mnk":
		pos, err := position(mnk.FromFEN, "3 3 3 x 3/3/3")
		exitOn(err)
		run(pos, func(m game.Move) string { return mnk.MoveString(m, pos.Settings) })
	default:
		// Everything else routes through the fairy engine by name.
		f := *fen
		if f == "" {
			rules, ok := fairy.Variants[*variant]
			if !ok {
				log.Fatalf("unknown variant %q", *variant)
			}
			f = rules().StartFEN
		}
		pos, err := fairy.FromFEN(*variant + " " + f)
		exitOn(err)
		run(pos, func(m game.Move) string { return fairy.MoveString(m, pos) })
	}
}

// position parses the -fen flag through the variant's parser, falling
// back to its start position.
func position[B any](parse func(string) (B, error), start string) (B, error) {
	if *fen != "" {
		return parse(*fen)
	}
	return parse(start)
}

func exitOn(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// run prints the node counts with grouped digits and the nodes-per-second
// rate of the search.
func run[B game.Board[B]](pos B, moveName func(game.Move) string) {
	started := time.Now()
	var total uint64
	if *split {
		for _, e := range game.SplitPerft(pos, *depth) {
			out.Printf("%-8s %15d\n", moveName(e.Move), e.Nodes)
			total += e.Nodes
		}
	} else {
		total = game.Perft(pos, *depth)
	}
	elapsed := time.Since(started)

	out.Printf("\nperft(%d) = %d\n", *depth, total)
	nps := float64(total) / elapsed.Seconds()
	log.Infof("finished in %s (%s nodes/s)", elapsed.Round(time.Millisecond), out.Sprintf("%.0f", nps))
}
