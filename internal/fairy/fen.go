package fairy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/boardkit/internal/game"
)

// FromFEN parses a variant-prefixed FEN: the first token names the
// variant ("chess", "atomic", "ataxx", "mnk 5 5 4", ...), the rest is the
// variant's FEN part.
func FromFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty fairy FEN")
	}
	name := fields[0]
	rest := strings.Join(fields[1:], " ")
	if name == "mnk" {
		if len(fields) < 4 {
			return nil, fmt.Errorf("invalid fairy FEN %q: mnk needs height, width and k", fen)
		}
		dims, err := parseMnkDims(fields[1:4])
		if err != nil {
			return nil, fmt.Errorf("invalid fairy FEN %q: %v", fen, err)
		}
		return FromFENWithRules(MNK(dims[0], dims[1], dims[2]), rest)
	}
	ctor, ok := Variants[name]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q in FEN %q", name, fen)
	}
	return FromFENWithRules(ctor(), rest)
}

func parseMnkDims(fields []string) ([3]int, error) {
	var dims [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil || v < 1 {
			return dims, fmt.Errorf("bad mnk dimension %q", fields[i])
		}
		dims[i] = v
	}
	return dims, nil
}

// FromFENWithRules parses a FEN part against a known rules table and
// verifies the position's invariants.
func FromFENWithRules(r *Rules, fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if r.MnkDims != [3]int{} {
		// mnk FEN part: "m n k side placement".
		if len(parts) < 5 {
			return nil, fmt.Errorf("invalid mnk FEN %q: need dimensions, side and placement", fen)
		}
		dims, err := parseMnkDims(parts[:3])
		if err != nil {
			return nil, fmt.Errorf("invalid mnk FEN %q: %v", fen, err)
		}
		if dims != r.MnkDims {
			r = MNK(dims[0], dims[1], dims[2])
		}
		parts = append([]string{parts[4]}, parts[3])
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid FEN %q: need placement and side to move", fen)
	}

	b := Empty(r)

	placement := parts[0]
	if i := strings.IndexByte(placement, '['); i >= 0 {
		hand := strings.TrimSuffix(placement[i+1:], "]")
		placement = placement[:i]
		if err := b.parseHand(hand); err != nil {
			return nil, fmt.Errorf("invalid FEN %q: %v", fen, err)
		}
	}
	if err := b.parsePlacement(placement); err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %v", fen, err)
	}

	switch strings.ToLower(parts[1]) {
	case strings.ToLower(string(r.Colors[0].Char)):
		b.SideToMove = game.FirstPlayer
	case strings.ToLower(string(r.Colors[1].Char)):
		b.SideToMove = game.SecondPlayer
	default:
		return nil, fmt.Errorf("invalid FEN %q: bad side to move %q", fen, parts[1])
	}

	next := 2
	if r.HasCastling {
		if len(parts) <= next {
			return nil, fmt.Errorf("invalid FEN %q: missing castling field", fen)
		}
		if err := b.parseCastling(parts[next]); err != nil {
			return nil, fmt.Errorf("invalid FEN %q: %v", fen, err)
		}
		next++
	}
	if r.HasEP {
		if len(parts) <= next {
			return nil, fmt.Errorf("invalid FEN %q: missing en passant field", fen)
		}
		if parts[next] != "-" {
			sq, err := game.ParseSquareName(parts[next], r.Size)
			if err != nil {
				return nil, fmt.Errorf("invalid FEN %q: bad en passant square: %v", fen, err)
			}
			b.EP = sq
		}
		next++
	}
	if len(parts) > next {
		hmc, err := strconv.Atoi(parts[next])
		if err != nil {
			return nil, fmt.Errorf("invalid FEN %q: bad halfmove clock %q", fen, parts[next])
		}
		b.HalfMoveClock = hmc
		next++
	}
	if len(parts) > next {
		fullmove, err := strconv.Atoi(parts[next])
		if err != nil || fullmove < 1 {
			return nil, fmt.Errorf("invalid FEN %q: bad fullmove number %q", fen, parts[next])
		}
		b.FullMove = fullmove
	}
	b.Ply = (b.FullMove - 1) * 2
	if b.SideToMove == game.SecondPlayer {
		b.Ply++
	}

	if err := b.verify(fen); err != nil {
		return nil, err
	}
	b.Hash = b.computeHash()
	return b, nil
}

// parsePlacement reads the board rows top to bottom. '-' marks a blocked
// square, '~' flags the previous piece as promoted, digit runs skip empty
// squares.
func (b *Board) parsePlacement(placement string) error {
	r := b.rules
	rows := strings.Split(placement, "/")
	if len(rows) != r.Size.Height {
		return fmt.Errorf("placement %q: need %d rows, got %d", placement, r.Size.Height, len(rows))
	}
	for i, rowStr := range rows {
		row := r.Size.Height - 1 - i
		col := 0
		run := 0
		lastSq := NoSquare
		for _, c := range rowStr {
			if c >= '0' && c <= '9' {
				run = run*10 + int(c-'0')
				continue
			}
			col += run
			run = 0
			if c == '~' {
				if lastSq == NoSquare {
					return fmt.Errorf("placement %q: '~' without a preceding piece", placement)
				}
				b.Promoted = b.Promoted.Set(lastSq)
				continue
			}
			if col >= r.Size.Width {
				return fmt.Errorf("placement %q: row %d too long", placement, row+1)
			}
			sq := r.Size.Index(row, col)
			if c == '-' {
				b.Blocked = b.Blocked.Set(sq)
				col++
				lastSq = NoSquare
				continue
			}
			id, color := r.PieceByChar(byte(c))
			if id == NoPieceID {
				return fmt.Errorf("placement %q: unknown piece character %q", placement, c)
			}
			b.placePiece(sq, ColoredPiece{ID: id, Color: color})
			lastSq = sq
			col++
		}
		col += run
		if col != r.Size.Width {
			return fmt.Errorf("placement %q: row %d has %d squares", placement, row+1, col)
		}
	}
	return nil
}

// parseHand reads a crazyhouse-style hand string (uppercase first player,
// lowercase second).
func (b *Board) parseHand(hand string) error {
	for i := 0; i < len(hand); i++ {
		id, color := b.rules.PieceByChar(hand[i])
		if id == NoPieceID {
			return fmt.Errorf("unknown piece %q in hand %q", hand[i], hand)
		}
		b.InHand[color][id]++
	}
	return nil
}

// parseCastling accepts KQkq letters and x-FEN file letters.
func (b *Board) parseCastling(s string) error {
	if s == "-" {
		return nil
	}
	info := &b.rules.Castling
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 'K':
			b.CastlingRights[0][Kingside] = true
		case c == 'Q':
			b.CastlingRights[0][Queenside] = true
		case c == 'k':
			b.CastlingRights[1][Kingside] = true
		case c == 'q':
			b.CastlingRights[1][Queenside] = true
		case c >= 'A' && c <= 'Z':
			kingFile := info.KingHome[0] % b.rules.Size.Width
			if int(c-'A') > kingFile {
				b.CastlingRights[0][Kingside] = true
			} else {
				b.CastlingRights[0][Queenside] = true
			}
		case c >= 'a' && c <= 'z':
			kingFile := info.KingHome[1] % b.rules.Size.Width
			if int(c-'a') > kingFile {
				b.CastlingRights[1][Kingside] = true
			} else {
				b.CastlingRights[1][Queenside] = true
			}
		default:
			return fmt.Errorf("bad castling character %q", c)
		}
	}
	return nil
}

// verify rejects semantically invalid positions.
func (b *Board) verify(fen string) error {
	if b.ColorBBs[0].And(b.ColorBBs[1]).Any() {
		return fmt.Errorf("invalid FEN %q: a square is occupied by both players", fen)
	}
	if b.OccupiedBB().And(b.Blocked).Any() {
		return fmt.Errorf("invalid FEN %q: a piece stands on a blocked square", fen)
	}
	if _, mates := b.rules.hasLoss(LossCheckmate); mates || b.rules.NoChecksAllowed {
		if b.InCheckColor(b.SideToMove.Other()) {
			return fmt.Errorf("invalid FEN %q: the side not to move is in check", fen)
		}
	}
	if b.EP != NoSquare {
		if b.OccupiedBB().IsSet(b.EP) {
			return fmt.Errorf("invalid FEN %q: en passant square is occupied", fen)
		}
	}
	for c := game.Color(0); c < 2; c++ {
		for s := Kingside; s <= Queenside; s++ {
			if !b.CastlingRights[c][s] {
				continue
			}
			info := &b.rules.Castling
			king := b.PieceAt(info.KingHome[c])
			rook := b.PieceAt(info.RookHome[c][s])
			if king.ID == NoPieceID || king.Color != c || !b.rules.Pieces[king.ID].CanCastle ||
				rook.ID == NoPieceID || rook.Color != c {
				return fmt.Errorf("invalid FEN %q: castling right without king and rook at home", fen)
			}
		}
	}
	return nil
}

// FEN renders the variant-prefixed position.
func (b *Board) FEN() string {
	var sb strings.Builder
	sb.WriteString(b.rules.Name)
	sb.WriteByte(' ')
	if b.rules.MnkDims != [3]int{} {
		fmt.Fprintf(&sb, "%d %d %d %c %s",
			b.rules.MnkDims[0], b.rules.MnkDims[1], b.rules.MnkDims[2],
			b.rules.Colors[b.SideToMove].Char, b.placementString())
		return sb.String()
	}
	sb.WriteString(b.placementString())
	if b.rules.PromotedFlagFEN {
		sb.WriteByte('[')
		sb.WriteString(b.handString())
		sb.WriteByte(']')
	}
	fmt.Fprintf(&sb, " %c", b.rules.Colors[b.SideToMove].Char)
	if b.rules.HasCastling {
		sb.WriteByte(' ')
		sb.WriteString(b.castlingString())
	}
	if b.rules.HasEP {
		sb.WriteByte(' ')
		if b.EP == NoSquare {
			sb.WriteByte('-')
		} else {
			sb.WriteString(game.SquareName(b.EP, b.rules.Size))
		}
	}
	fmt.Fprintf(&sb, " %d %d", b.HalfMoveClock, b.FullMove)
	return sb.String()
}

func (b *Board) placementString() string {
	var sb strings.Builder
	r := b.rules
	for row := r.Size.Height - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < r.Size.Width; col++ {
			sq := r.Size.Index(row, col)
			if b.Blocked.IsSet(sq) {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteByte('-')
				continue
			}
			p := b.PieceAt(sq)
			if p.ID == NoPieceID {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(r.Pieces[p.ID].CharFor(p.Color))
			if b.Promoted.IsSet(sq) {
				sb.WriteByte('~')
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func (b *Board) handString() string {
	var sb strings.Builder
	for c := game.Color(0); c < 2; c++ {
		for id := range b.rules.Pieces {
			n := b.InHand[c][id]
			if n == InfiniteHand {
				continue
			}
			for i := uint8(0); i < n; i++ {
				sb.WriteByte(b.rules.Pieces[id].CharFor(c))
			}
		}
	}
	return sb.String()
}

func (b *Board) castlingString() string {
	s := ""
	if b.CastlingRights[0][Kingside] {
		s += "K"
	}
	if b.CastlingRights[0][Queenside] {
		s += "Q"
	}
	if b.CastlingRights[1][Kingside] {
		s += "k"
	}
	if b.CastlingRights[1][Queenside] {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// MoveString renders a move compactly: source and destination square
// names, a promotion letter, "<piece>@<square>" for drops, the bare
// destination for cloning moves, and "0000" for the null move.
func MoveString(m game.Move, b *Board) string {
	if m == game.NullMove {
		return "0000"
	}
	size := b.rules.Size
	to := game.SquareName(m.To(), size)
	switch m.Kind() {
	case game.Drop:
		return strings.ToUpper(string(b.rules.Pieces[m.Param()].ASCII)) + "@" + to
	case game.Cloning:
		return to
	case game.Promotion:
		return game.SquareName(m.From(), size) + to + string(b.rules.Pieces[m.Param()].ASCII|0x20)
	default:
		if !m.HasSource() {
			return to
		}
		return game.SquareName(m.From(), size) + to
	}
}

// ParseMove parses the compact move format by matching against the
// position's pseudolegal moves, restoring kind and capture information.
func ParseMove(s string, b *Board) (game.Move, error) {
	if s == "0000" {
		return game.NullMove, nil
	}
	moves := b.PseudolegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if MoveString(moves.Get(i), b) == s {
			return moves.Get(i), nil
		}
	}
	return game.NullMove, fmt.Errorf("move %q matches nothing in %q", s, b.FEN())
}

// NamedPositions exposes benchmark positions across the variants.
func NamedPositions() []game.NamedPosition {
	return []game.NamedPosition{
		{Name: "chess-startpos", FEN: "chess rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{Name: "chess-kiwipete", FEN: "chess r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
		{Name: "atomic-startpos", FEN: "atomic rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{Name: "crazyhouse-startpos", FEN: "crazyhouse rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"},
		{Name: "horde-startpos", FEN: "horde rnbqkbnr/pppppppp/8/8/8/1PP2PP1/PPPPPPPP/PPPPPPPP w kq - 0 1"},
		{Name: "racingkings-startpos", FEN: "racingkings 8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w 0 1"},
		{Name: "ataxx-startpos", FEN: "ataxx x5o/7/7/7/7/7/o5x x 0 1"},
		{Name: "tictactoe-startpos", FEN: "tictactoe 3 3 3 x 3/3/3"},
	}
}
