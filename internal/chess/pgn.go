package chess

import (
	"fmt"
	"strings"

	"github.com/hailam/boardkit/internal/game"
)

// PGNGame is a parsed or to-be-printed game: the tag pairs, the moves
// from the (possibly custom) starting position, and the result token.
type PGNGame struct {
	Tags   []PGNTag
	Start  *Position
	Moves  []game.Move
	Result string
}

// PGNTag is one tag pair of the header.
type PGNTag struct {
	Name  string
	Value string
}

// Tag returns a tag value, or "".
func (g *PGNGame) Tag(name string) string {
	for _, t := range g.Tags {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

// FormatPGN renders the seven-tag-roster header (plus any extra tags),
// the numbered SAN movetext, and the result token.
func (g *PGNGame) FormatPGN() string {
	var sb strings.Builder

	written := map[string]bool{}
	roster := []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}
	for _, name := range roster {
		value := g.Tag(name)
		if value == "" {
			switch name {
			case "Date":
				value = "????.??.??"
			case "Round":
				value = "-"
			case "Result":
				value = g.Result
				if value == "" {
					value = "*"
				}
			default:
				value = "?"
			}
		}
		fmt.Fprintf(&sb, "[%s %q]\n", name, value)
		written[name] = true
	}
	for _, t := range g.Tags {
		if !written[t.Name] {
			fmt.Fprintf(&sb, "[%s %q]\n", t.Name, t.Value)
			written[t.Name] = true
		}
	}
	sb.WriteByte('\n')

	pos := g.Start
	if pos == nil {
		pos = StartPos()
	}
	for i, m := range g.Moves {
		if pos.SideToMove == White {
			fmt.Fprintf(&sb, "%d. ", pos.FullMoveNumber)
		} else if i == 0 {
			fmt.Fprintf(&sb, "%d... ", pos.FullMoveNumber)
		}
		sb.WriteString(ToSAN(m, pos))
		sb.WriteByte(' ')
		next, ok := pos.MakeMove(m)
		if !ok {
			break
		}
		pos = next
	}
	result := g.Result
	if result == "" {
		result = "*"
	}
	sb.WriteString(result)
	sb.WriteByte('\n')
	return sb.String()
}

// ParsePGN reads one game: bracketed tag pairs, then movetext with move
// numbers, SAN moves, and a final result token. Comments in braces and
// line comments after ';' are skipped. A FEN tag selects the starting
// position.
func ParsePGN(text string) (*PGNGame, error) {
	g := &PGNGame{}
	lines := strings.Split(text, "\n")
	var movetext strings.Builder

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") {
			tag, err := parsePGNTag(line)
			if err != nil {
				return nil, err
			}
			g.Tags = append(g.Tags, tag)
			continue
		}
		if line == "" {
			continue
		}
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		movetext.WriteString(line)
		movetext.WriteByte(' ')
	}

	pos := StartPos()
	if fen := g.Tag("FEN"); fen != "" {
		parsed, err := FromFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("bad FEN tag: %v", err)
		}
		pos = parsed
	}
	g.Start = pos.Copy()

	text = movetext.String()
	// Strip brace comments.
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(text[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("unterminated comment in movetext")
		}
		text = text[:open] + " " + text[open+closing+1:]
	}

	for _, token := range strings.Fields(text) {
		switch token {
		case "1-0", "0-1", "1/2-1/2", "*":
			g.Result = token
			continue
		}
		// Move numbers: "1.", "3...", possibly glued to the move. Castling
		// spelled "0-0" must survive, so digits only strip when dots follow.
		digits := 0
		for digits < len(token) && token[digits] >= '0' && token[digits] <= '9' {
			digits++
		}
		if digits > 0 && digits < len(token) && token[digits] == '.' {
			token = strings.TrimLeft(token[digits:], ".")
		} else if digits == len(token) {
			continue // a bare move number
		}
		if token == "" {
			continue
		}
		m, err := ParseSAN(token, pos)
		if err != nil {
			return nil, fmt.Errorf("movetext: %v", err)
		}
		next, ok := pos.MakeMove(m)
		if !ok {
			return nil, fmt.Errorf("movetext: illegal move %q in %q", token, pos.FEN())
		}
		g.Moves = append(g.Moves, m)
		pos = next
	}
	return g, nil
}

func parsePGNTag(line string) (PGNTag, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
	space := strings.IndexByte(inner, ' ')
	if space < 0 {
		return PGNTag{}, fmt.Errorf("malformed tag pair %q", line)
	}
	name := inner[:space]
	value := strings.Trim(strings.TrimSpace(inner[space+1:]), "\"")
	return PGNTag{Name: name, Value: value}, nil
}
