package chess

import (
	"fmt"
	"strings"
)

// knightPairs enumerates the ten placements of two knights on the five
// squares left after bishops and queen are placed (Scharnagl numbering).
var knightPairs = [10][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4},
	{1, 2}, {1, 3}, {1, 4},
	{2, 3}, {2, 4},
	{3, 4},
}

// Chess960StartFEN returns the starting FEN for chess960 position n
// (0-959), with x-FEN castling rights naming the rook files. Position 518
// is the classical array.
func Chess960StartFEN(n int) (string, error) {
	if n < 0 || n > 959 {
		return "", fmt.Errorf("chess960 index %d out of range 0-959", n)
	}

	var files [8]byte

	// Light-squared bishop: files b, d, f, h
	files[1+2*(n%4)] = 'B'
	n /= 4
	// Dark-squared bishop: files a, c, e, g
	files[2*(n%4)] = 'B'
	n /= 4

	// Queen on the n%6-th free square
	q := n % 6
	n /= 6
	for i := 0; i < 8; i++ {
		if files[i] == 0 {
			if q == 0 {
				files[i] = 'Q'
				break
			}
			q--
		}
	}

	// Knights on the n-th pair of the remaining five squares
	pair := knightPairs[n]
	free := 0
	for i := 0; i < 8; i++ {
		if files[i] != 0 {
			continue
		}
		if free == pair[0] || free == pair[1] {
			files[i] = 'N'
		}
		free++
	}

	// Remaining three squares: rook, king, rook
	var rookFiles []int
	placed := []byte{'R', 'K', 'R'}
	pi := 0
	for i := 0; i < 8; i++ {
		if files[i] == 0 {
			files[i] = placed[pi]
			if placed[pi] == 'R' {
				rookFiles = append(rookFiles, i)
			}
			pi++
		}
	}

	backRank := string(files[:])
	castling := fmt.Sprintf("%c%c%c%c",
		'A'+rookFiles[1], 'A'+rookFiles[0],
		'a'+rookFiles[1], 'a'+rookFiles[0])

	return fmt.Sprintf("%s/pppppppp/8/8/8/8/PPPPPPPP/%s w %s - 0 1",
		strings.ToLower(backRank), backRank, castling), nil
}
