package chess

import (
	"fmt"
	"strings"

	"github.com/hailam/boardkit/internal/game"
)

// MoveString returns the UCI format of the move (e.g., "e2e4", "e7e8q").
// Castling is rendered as the king's two-square move.
func MoveString(m game.Move) string {
	if m == game.NullMove {
		return "0000"
	}
	s := Square(m.From()).String() + Square(m.To()).String()
	if m.Kind() == game.Promotion {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[PieceType(m.Param())-Knight])
	}
	return s
}

// ParseMove parses a UCI format move string against a position, restoring
// the kind and capture information the compact form omits.
func ParseMove(s string, pos *Position) (game.Move, error) {
	if s == "0000" {
		return game.NullMove, nil
	}
	if len(s) < 4 {
		return game.NullMove, fmt.Errorf("invalid move string: %s", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return game.NullMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return game.NullMove, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return game.NullMove, fmt.Errorf("no piece at %s in %q", from, pos.FEN())
	}
	pt := piece.Type()
	capture := !pos.IsEmpty(to)

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return game.NullMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return game.NewMove(int(from), int(to), game.Promotion, int(promo), capture), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		if to > from {
			return game.NewMove(int(from), int(to), game.CastleKingside, 0, false), nil
		}
		return game.NewMove(int(from), int(to), game.CastleQueenside, 0, false), nil
	}

	if pt == Pawn && to == pos.EnPassant && from.File() != to.File() {
		return game.NewMove(int(from), int(to), game.EnPassant, 0, true), nil
	}

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		// Reconstruct the double-push kind the same way the generator
		// decides it: only pushes an enemy pawn could answer en passant
		// carry the DoublePawnPush tag.
		m := game.NewMove(int(from), int(to), game.Normal, 0, false)
		if pos.IsMovePseudolegal(m) {
			return m, nil
		}
		return game.NewMove(int(from), int(to), game.DoublePawnPush, 0, false), nil
	}

	return game.NewMove(int(from), int(to), game.Normal, 0, capture), nil
}

// ToSAN converts a move to Standard Algebraic Notation.
func ToSAN(m game.Move, pos *Position) string {
	if m == game.NullMove {
		return "-"
	}

	from := Square(m.From())
	to := Square(m.To())
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return MoveString(m) // fallback to UCI
	}

	var sb strings.Builder

	switch m.Kind() {
	case game.CastleKingside:
		sb.WriteString("O-O")
	case game.CastleQueenside:
		sb.WriteString("O-O-O")
	default:
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, pt))
		}
		if m.IsCapture() {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.Kind() == game.Promotion {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[PieceType(m.Param())])
		}
	}

	// Check/checkmate marker, known by probing the successor.
	if next, ok := pos.MakeMove(m); ok {
		if next.IsCheckmate() {
			sb.WriteByte('#')
		} else if next.InCheck() {
			sb.WriteByte('+')
		}
	}
	return sb.String()
}

// disambiguation returns the minimal source qualifier for a move: file if
// it separates the candidates, then rank, then the full square.
func disambiguation(pos *Position, m game.Move, pt PieceType) string {
	from := Square(m.From())
	to := Square(m.To())

	var candidates []Square
	pieces := pos.Pieces[pos.SideToMove][pt]
	allMoves := pos.LegalMovesSlow()
	for i := 0; i < allMoves.Len(); i++ {
		move := allMoves.Get(i)
		if move.To() != int(to) || move.From() == int(from) {
			continue
		}
		if pieces.IsSet(move.From()) {
			candidates = append(candidates, Square(move.From()))
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}
	if !sameFile {
		return string('a' + byte(from.File()))
	}
	if !sameRank {
		return string('1' + byte(from.Rank()))
	}
	return from.String()
}

// ParseSAN parses a SAN string and returns the corresponding move.
func ParseSAN(s string, pos *Position) (game.Move, error) {
	s = strings.TrimSpace(s)
	orig := s

	// Castling first
	if c, ok := strings.CutSuffix(s, "+"); ok {
		s = c
	} else if c, ok := strings.CutSuffix(s, "#"); ok {
		s = c
	}
	switch s {
	case "O-O", "0-0":
		if pos.SideToMove == White {
			return game.NewMove(int(E1), int(G1), game.CastleKingside, 0, false), nil
		}
		return game.NewMove(int(E8), int(G8), game.CastleKingside, 0, false), nil
	case "O-O-O", "0-0-0":
		if pos.SideToMove == White {
			return game.NewMove(int(E1), int(C1), game.CastleQueenside, 0, false), nil
		}
		return game.NewMove(int(E8), int(C8), game.CastleQueenside, 0, false), nil
	}

	// Promotion
	promoPiece := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 && idx+1 < len(s) {
		switch s[idx+1] {
		case 'N':
			promoPiece = Knight
		case 'B':
			promoPiece = Bishop
		case 'R':
			promoPiece = Rook
		case 'Q':
			promoPiece = Queen
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return game.NullMove, fmt.Errorf("unparseable SAN %q", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return game.NullMove, fmt.Errorf("unparseable SAN %q: %v", orig, err)
	}
	s = s[:len(s)-2]

	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		if c >= 'a' && c <= 'h' {
			disambigFile = int(c - 'a')
		} else if c >= '1' && c <= '8' {
			disambigRank = int(c - '1')
		}
	}

	moves := pos.LegalMovesSlow()
	var match game.Move
	found := 0
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.To() != int(dest) {
			continue
		}
		from := Square(m.From())
		if pos.PieceAt(from).Type() != pt {
			continue
		}
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture() {
			continue
		}
		if promoPiece != NoPieceType {
			if m.Kind() != game.Promotion || PieceType(m.Param()) != promoPiece {
				continue
			}
		} else if m.Kind() == game.Promotion {
			continue
		}
		match = m
		found++
	}
	if found == 1 {
		return match, nil
	}
	if found > 1 {
		return game.NullMove, fmt.Errorf("ambiguous SAN %q in %q", orig, pos.FEN())
	}
	return game.NullMove, fmt.Errorf("no legal move matches SAN %q in %q", orig, pos.FEN())
}
