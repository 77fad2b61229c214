package game

// History is an ordered sequence of position hashes, one per ply from an
// anchor point. The game loop owns it and pushes after every applied move.
type History struct {
	hashes []uint64
}

// Push appends a position hash.
func (h *History) Push(hash uint64) {
	h.hashes = append(h.hashes, hash)
}

// Pop removes the most recent hash.
func (h *History) Pop() {
	h.hashes = h.hashes[:len(h.hashes)-1]
}

// Clear drops all entries.
func (h *History) Clear() {
	h.hashes = h.hashes[:0]
}

// Len returns the number of stored hashes.
func (h *History) Len() int {
	return len(h.hashes)
}

// Repeated reports whether hash occurs at least count times in total,
// counting the current position (whose hash is passed in and which is not
// yet part of the history) as one occurrence. The scan visits every second
// entry from the tail — positions with the same side to move — starting
// four plies back (two plies back cannot repeat in practice) and stopping
// after maxLookback plies, which is the halfmove draw clock in chess-like
// games: an irreversible move makes older repetitions impossible.
func (h *History) Repeated(hash uint64, maxLookback, count int) bool {
	stop := len(h.hashes) - maxLookback
	if stop < 0 {
		stop = 0
	}
	for i := len(h.hashes) - 4; i >= stop; i -= 2 {
		if h.hashes[i] == hash {
			count--
			if count <= 1 {
				return true
			}
		}
	}
	return false
}
