package board

// MaxMoves is a generous upper bound on the number of pseudo-legal moves
// reachable from any single legal chess position, used to size move
// buffers without per-call allocation.
const MaxMoves = 256

// MoveBuffer is a fixed-capacity, zero-allocation move list. The search
// node keeps one per ply so move generation during search never touches
// the heap.
type MoveBuffer struct {
	moves [MaxMoves]FatMove
	n     int
}

// Reset empties the buffer for reuse.
func (b *MoveBuffer) Reset() {
	b.n = 0
}

// Add appends a move. Panics if the buffer is full, which would indicate a
// bug in move generation rather than a legitimate position.
func (b *MoveBuffer) Add(fm FatMove) {
	if b.n >= MaxMoves {
		panic("move buffer overflow")
	}
	b.moves[b.n] = fm
	b.n++
}

// Len returns the number of moves currently buffered.
func (b *MoveBuffer) Len() int {
	return b.n
}

// At returns the i'th buffered move.
func (b *MoveBuffer) At(i int) FatMove {
	return b.moves[i]
}

// Set overwrites the i'th buffered move, used by move ordering to sort
// in place without reallocating.
func (b *MoveBuffer) Set(i int, fm FatMove) {
	b.moves[i] = fm
}

// Swap exchanges the i'th and j'th buffered moves.
func (b *MoveBuffer) Swap(i, j int) {
	b.moves[i], b.moves[j] = b.moves[j], b.moves[i]
}

// Slice returns the buffered moves as a slice backed by the buffer's own
// array; it is only valid until the next Reset.
func (b *MoveBuffer) Slice() []FatMove {
	return b.moves[:b.n]
}
