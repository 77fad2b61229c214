package fairy

import (
	"fmt"
	"strings"

	"github.com/hailam/boardkit/internal/game"
)

// ToSAN renders a move in algebraic notation: piece letter (omitted for
// pawns), minimal disambiguator, capture marker, destination, promotion,
// and a check or mate suffix found by probing the successor.
func ToSAN(m game.Move, b *Board) string {
	if m == game.NullMove {
		return "--"
	}
	var sb strings.Builder
	size := b.rules.Size

	switch m.Kind() {
	case game.CastleKingside:
		sb.WriteString("O-O")
	case game.CastleQueenside:
		sb.WriteString("O-O-O")
	case game.Drop, game.Cloning:
		piece := &b.rules.Pieces[m.Param()]
		if m.Kind() == game.Drop && !piece.OmitInSAN {
			sb.WriteByte(piece.ASCII &^ 0x20)
		}
		if m.Kind() == game.Drop {
			sb.WriteByte('@')
		}
		sb.WriteString(game.SquareName(m.To(), size))
	default:
		from := m.From()
		p := b.PieceAt(from)
		if p.ID == NoPieceID {
			return MoveString(m, b)
		}
		piece := &b.rules.Pieces[p.ID]
		if !piece.OmitInSAN {
			sb.WriteByte(piece.ASCII &^ 0x20)
			sb.WriteString(b.sanDisambiguation(m, p.ID))
		}
		if m.IsCapture() || m.Kind() == game.EnPassant {
			if piece.OmitInSAN {
				sb.WriteByte(byte('a' + from%size.Width))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(game.SquareName(m.To(), size))
		if m.Kind() == game.Promotion {
			sb.WriteByte('=')
			sb.WriteByte(b.rules.Pieces[m.Param()].ASCII &^ 0x20)
		}
	}

	if next, ok := b.MakeMove(m); ok {
		if next.InCheck() {
			if next.LegalMovesSlow().Len() == 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('+')
			}
		}
	}
	return sb.String()
}

// sanDisambiguation returns the minimal source qualifier: file first, then
// rank, then the full square.
func (b *Board) sanDisambiguation(m game.Move, id PieceID) string {
	size := b.rules.Size
	from := m.From()
	fromRow, fromCol := size.RowCol(from)

	var others []int
	legal := b.LegalMovesSlow()
	for i := 0; i < legal.Len(); i++ {
		o := legal.Get(i)
		if o.To() != m.To() || o.From() == from || !o.HasSource() {
			continue
		}
		if p := b.PieceAt(o.From()); p.ID == id {
			others = append(others, o.From())
		}
	}
	if len(others) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, sq := range others {
		r, c := size.RowCol(sq)
		if c == fromCol {
			sameFile = true
		}
		if r == fromRow {
			sameRank = true
		}
	}
	if !sameFile {
		return string(byte('a' + fromCol))
	}
	if !sameRank {
		return fmt.Sprintf("%d", fromRow+1)
	}
	return game.SquareName(from, size)
}

// unicodePieces maps figurine glyphs onto piece letters.
var unicodePieces = map[rune]byte{
	'♔': 'K', '♚': 'K', '♕': 'Q', '♛': 'Q', '♖': 'R', '♜': 'R',
	'♗': 'B', '♝': 'B', '♘': 'N', '♞': 'N', '♙': 'P', '♟': 'P',
}

// sanAnnotations are the suffix decorations the parser tolerates and
// ignores. Digits only strip as part of a "$n" NAG, never bare, so they
// cannot eat the destination rank.
const sanAnnotations = "!?⌓□⩲⩱±∓⨀◯⟳↑→⯹⨁⇆∞<>"

// stmGlyphs are side-to-move prefixes (shogi conventions); they are
// validated against the position when present.
var stmGlyphs = map[rune]game.Color{
	'▲': game.FirstPlayer, '☗': game.FirstPlayer, '●': game.FirstPlayer,
	'▽': game.SecondPlayer, '☖': game.SecondPlayer, '○': game.SecondPlayer,
}

// trimNAG strips a trailing "$n" numeric annotation glyph.
func trimNAG(s string) string {
	end := len(s)
	for end > 0 && s[end-1] >= '0' && s[end-1] <= '9' {
		end--
	}
	if end > 0 && end < len(s) && s[end-1] == '$' {
		return s[:end-1]
	}
	return s
}

// sanParts is the decomposed notation before resolution.
type sanParts struct {
	castleShort bool
	castleLong  bool
	piece       byte // 0 = unspecified (pawn or drop default)
	fromFile    int  // -1 unless given
	fromRank    int
	capture     bool
	drop        bool
	toFile      int
	toRank      int // -1 for file-only pawn captures
	promo       byte // 0 = none
	claimCheck  bool
	claimMate   bool
}

// ParseSAN parses lenient algebraic notation and resolves it against the
// legal move set. It requires exactly one match and reports a diagnostic
// otherwise.
func ParseSAN(s string, b *Board) (game.Move, error) {
	orig := s
	parts, err := b.scanSAN(s)
	if err != nil {
		return game.NullMove, err
	}

	legal := b.LegalMovesSlow()
	var match game.Move
	found := 0
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if b.sanMatches(parts, m) {
			match = m
			found++
		}
	}
	switch {
	case found == 1:
		if err := b.validateClaims(parts, match, orig); err != nil {
			return game.NullMove, err
		}
		return match, nil
	case found > 1:
		return game.NullMove, fmt.Errorf("ambiguous notation %q in %q", orig, b.FEN())
	}
	return game.NullMove, b.sanDiagnostic(parts, orig, legal)
}

// scanSAN decomposes the notation string.
func (b *Board) scanSAN(s string) (sanParts, error) {
	p := sanParts{fromFile: -1, fromRank: -1, toFile: -1, toRank: -1}
	s = strings.TrimSpace(s)
	if s == "" {
		return p, fmt.Errorf("empty move notation")
	}

	// Side-to-move glyph prefix.
	for r, color := range stmGlyphs {
		if strings.HasPrefix(s, string(r)) {
			if color != b.SideToMove {
				return p, fmt.Errorf("notation %q claims the wrong side to move", s)
			}
			s = strings.TrimPrefix(s, string(r))
			break
		}
	}

	// Check/mate/annotation suffixes, in any combination.
	for {
		switch {
		case strings.HasSuffix(s, "checkmate"):
			p.claimMate = true
			s = strings.TrimSuffix(s, "checkmate")
		case strings.HasSuffix(s, "check"):
			p.claimCheck = true
			s = strings.TrimSuffix(s, "check")
		case strings.HasSuffix(s, "mate"):
			p.claimMate = true
			s = strings.TrimSuffix(s, "mate")
		case strings.HasSuffix(s, "+"):
			p.claimCheck = true
			s = strings.TrimSuffix(s, "+")
		case strings.HasSuffix(s, "#"), strings.HasSuffix(s, "‡"):
			p.claimMate = true
			s = strings.TrimSuffix(strings.TrimSuffix(s, "#"), "‡")
		default:
			trimmed := strings.TrimRight(strings.TrimSpace(s), sanAnnotations)
			trimmed = trimNAG(trimmed)
			if trimmed == s {
				goto suffixesDone
			}
			s = trimmed
		}
		s = strings.TrimSpace(s)
	}
suffixesDone:

	// En-passant suffix, any spacing and case.
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, ep := range []string{"e.p.", "e.p", "ep"} {
		if strings.HasSuffix(lower, ep) && len(lower) > len(ep) {
			s = strings.TrimSpace(s[:len(s)-len(ep)])
			break
		}
	}

	// Unicode dashes and capture markers normalize to ASCII.
	s = strings.NewReplacer("–", "-", "—", "-", "×", "x", ":", "x").Replace(s)

	switch strings.ToUpper(s) {
	case "O-O", "0-0":
		p.castleShort = true
		return p, nil
	case "O-O-O", "0-0-0":
		p.castleLong = true
		return p, nil
	}

	// Figurine glyphs become letters.
	var sb strings.Builder
	for _, r := range s {
		if letter, ok := unicodePieces[r]; ok {
			sb.WriteByte(letter)
		} else {
			sb.WriteRune(r)
		}
	}
	s = sb.String()

	// Drop marker.
	if at := strings.IndexByte(s, '@'); at >= 0 {
		p.drop = true
		if at > 0 {
			p.piece = s[at-1] &^ 0x20
			if at > 1 {
				return p, fmt.Errorf("unparseable drop notation %q", s)
			}
		}
		s = s[at+1:]
	}

	// Promotion.
	if eq := strings.IndexByte(s, '='); eq >= 0 {
		if eq+1 >= len(s) {
			return p, fmt.Errorf("promotion without a piece in %q", s)
		}
		p.promo = s[eq+1] &^ 0x20
		s = s[:eq]
	}

	// Capture marker. Piece letters are uppercase, so a lowercase 'x'
	// cannot be anything else ('x' is never a file on boards this narrow).
	if strings.ContainsRune(s, 'x') {
		p.capture = true
		s = strings.ReplaceAll(s, "x", "")
	}

	// Piece letter.
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' && !p.drop {
		p.piece = s[0]
		s = s[1:]
	}

	// Destination: full square, or a bare file for pawn captures.
	height := b.rules.Size.Height
	if len(s) == 0 {
		return p, fmt.Errorf("no destination square")
	}
	// Trailing rank digits.
	digits := 0
	for digits < len(s) && s[len(s)-1-digits] >= '0' && s[len(s)-1-digits] <= '9' {
		digits++
	}
	if digits > 0 {
		rank := 0
		for _, c := range s[len(s)-digits:] {
			rank = rank*10 + int(c-'0')
		}
		if rank < 1 || rank > height {
			return p, fmt.Errorf("rank %d outside the board", rank)
		}
		p.toRank = rank - 1
		s = s[:len(s)-digits]
		if len(s) == 0 || s[len(s)-1] < 'a' || s[len(s)-1] > 'z' {
			return p, fmt.Errorf("missing destination file")
		}
		p.toFile = int(s[len(s)-1] - 'a')
		s = s[:len(s)-1]
	} else {
		// File-only destination (pawn capture shorthand).
		p.toFile = int(s[len(s)-1] - 'a')
		s = s[:len(s)-1]
	}

	// Leftover: disambiguators.
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			p.fromFile = int(c - 'a')
		case c >= '1' && c <= '9':
			p.fromRank = int(c - '1')
		default:
			return p, fmt.Errorf("unexpected character %q in notation", c)
		}
	}
	return p, nil
}

// sanMatches tests one legal move against the decomposed notation.
func (b *Board) sanMatches(p sanParts, m game.Move) bool {
	size := b.rules.Size
	if p.castleShort {
		return m.Kind() == game.CastleKingside
	}
	if p.castleLong {
		return m.Kind() == game.CastleQueenside
	}
	if p.drop {
		if m.Kind() != game.Drop && m.Kind() != game.Cloning {
			return false
		}
		if p.piece != 0 && b.rules.Pieces[m.Param()].ASCII&^0x20 != p.piece {
			return false
		}
	} else {
		if m.Kind() == game.Drop {
			return false
		}
		var pieceID PieceID
		if m.Kind() == game.Cloning {
			pieceID = PieceID(m.Param())
		} else {
			if !m.HasSource() {
				pieceID = 0
			} else {
				cp := b.PieceAt(m.From())
				pieceID = cp.ID
			}
		}
		piece := &b.rules.Pieces[pieceID]
		if p.piece == 0 {
			if !piece.OmitInSAN && len(b.rules.Pieces) > 1 {
				return false
			}
		} else if piece.ASCII&^0x20 != p.piece {
			return false
		}
	}
	toRow, toCol := size.RowCol(m.To())
	if p.toFile >= 0 && toCol != p.toFile {
		return false
	}
	if p.toRank >= 0 && toRow != p.toRank {
		return false
	}
	if p.toRank < 0 && !p.capture {
		return false // file-only destinations are pawn-capture shorthand
	}
	if m.HasSource() {
		fromRow, fromCol := size.RowCol(m.From())
		if p.fromFile >= 0 && fromCol != p.fromFile {
			return false
		}
		if p.fromRank >= 0 && fromRow != p.fromRank {
			return false
		}
	} else if p.fromFile >= 0 || p.fromRank >= 0 {
		return false
	}
	if p.capture && !(m.IsCapture() || m.Kind() == game.EnPassant) {
		return false
	}
	if p.promo != 0 {
		if m.Kind() != game.Promotion || b.rules.Pieces[m.Param()].ASCII&^0x20 != p.promo {
			return false
		}
	} else if m.Kind() == game.Promotion {
		return false
	}
	return true
}

// validateClaims enforces the check and mate suffixes when present.
func (b *Board) validateClaims(p sanParts, m game.Move, orig string) error {
	if !p.claimCheck && !p.claimMate {
		return nil
	}
	next, ok := b.MakeMove(m)
	if !ok {
		return fmt.Errorf("move %q is not legal in %q", orig, b.FEN())
	}
	inCheck := next.InCheck()
	if p.claimMate {
		if !inCheck || next.LegalMovesSlow().Len() != 0 {
			return fmt.Errorf("notation %q claims checkmate, but the move does not mate", orig)
		}
		return nil
	}
	if !inCheck {
		return fmt.Errorf("notation %q claims check, but the move does not give check", orig)
	}
	return nil
}

// sanDiagnostic explains why nothing matched.
func (b *Board) sanDiagnostic(p sanParts, orig string, legal *game.MoveList) error {
	if legal.Len() == 0 {
		return fmt.Errorf("no legal move matches %q: the game is already over in %q", orig, b.FEN())
	}
	if p.fromFile >= 0 && p.fromRank >= 0 {
		from := b.rules.Size.Index(p.fromRank, p.fromFile)
		cp := b.PieceAt(from)
		switch {
		case cp.ID == NoPieceID:
			return fmt.Errorf("no piece on the source square of %q in %q", orig, b.FEN())
		case cp.Color != b.SideToMove:
			return fmt.Errorf("the source square of %q holds an opponent piece in %q", orig, b.FEN())
		}
	}
	if p.toFile >= 0 && p.toRank >= 0 {
		to := b.rules.Size.Index(p.toRank, p.toFile)
		if cp := b.PieceAt(to); cp.ID != NoPieceID && cp.Color == b.SideToMove && !p.capture {
			return fmt.Errorf("the destination of %q is occupied by an own piece in %q", orig, b.FEN())
		}
		// The move may exist pseudolegally but leave the royal in check.
		pseudo := b.PseudolegalMoves()
		for i := 0; i < pseudo.Len(); i++ {
			m := pseudo.Get(i)
			if m.To() == to && b.sanMatches(p, m) {
				return fmt.Errorf("move %q is pseudolegal but leaves the royal in check in %q", orig, b.FEN())
			}
		}
	}
	if b.InCheck() {
		return fmt.Errorf("no legal move matches %q: the side to move is in check in %q", orig, b.FEN())
	}
	return fmt.Errorf("no legal move matches %q in %q", orig, b.FEN())
}
