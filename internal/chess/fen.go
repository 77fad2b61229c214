package chess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/boardkit/internal/game"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FromFEN parses a FEN string, verifies the position's semantic
// invariants, and returns the Position.
func FromFEN(fen string) (*Position, error) {
	pos, err := parseFEN(fen)
	if err != nil {
		return nil, err
	}
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	return pos, nil
}

func parseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN %q: need at least 4 fields, got %d", fen, len(parts))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		pos.HalfMoveClock = hmc
	}
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.updateOccupied()
	pos.findKings()
	pos.Ply = (pos.FullMoveNumber - 1) * 2
	if pos.SideToMove == Black {
		pos.Ply++
	}
	pos.Hash = pos.ComputeHash()

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement %q: need 8 ranks, got %d", placement, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0
		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d of %q", rank+1, placement)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character %q in %q", c, placement)
				}
				pos.setPiece(piece, NewSquare(file, rank))
				file++
			}
		}
		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d of %q: got %d", rank+1, placement, file)
		}
	}
	return nil
}

// parseCastlingRights parses the castling rights field. Besides the
// classical KQkq letters, x-FEN file letters (A-H, a-h) are accepted and
// mapped to king- or queenside by comparing against the king's file.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}
	for _, c := range castling {
		switch {
		case c == 'K':
			pos.CastlingRights |= WhiteKingSideCastle
		case c == 'Q':
			pos.CastlingRights |= WhiteQueenSideCastle
		case c == 'k':
			pos.CastlingRights |= BlackKingSideCastle
		case c == 'q':
			pos.CastlingRights |= BlackQueenSideCastle
		case c >= 'A' && c <= 'H':
			kingFile := int(pos.Pieces[White][King].LSB()) & 7
			if int(c-'A') > kingFile {
				pos.CastlingRights |= WhiteKingSideCastle
			} else {
				pos.CastlingRights |= WhiteQueenSideCastle
			}
		case c >= 'a' && c <= 'h':
			kingFile := int(pos.Pieces[Black][King].LSB()) & 7
			if int(c-'a') > kingFile {
				pos.CastlingRights |= BlackKingSideCastle
			} else {
				pos.CastlingRights |= BlackQueenSideCastle
			}
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}
	return nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// NamedPositions exposes the benchmark positions used by the tests and the
// perft command.
func NamedPositions() []game.NamedPosition {
	return []game.NamedPosition{
		{Name: "startpos", FEN: StartFEN},
		{Name: "kiwipete", FEN: "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
		{Name: "position3", FEN: "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"},
		{Name: "promotion", FEN: "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1"},
	}
}
