package search

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/kestrelchess/kestrel/pkg/board"
)

// NodeType classifies a transposition table entry's score relative to the
// alpha-beta window it was produced under.
type NodeType uint8

const (
	// NA marks an empty slot -- never written, only ever read.
	NA NodeType = iota
	// PV entries hold an exact score: alpha < score < beta at write time.
	PV
	// CUT entries hold a lower bound: the search failed high (score >= beta).
	CUT
	// ALL entries hold an upper bound: every move failed low (score <= alpha).
	ALL
)

func (t NodeType) String() string {
	switch t {
	case PV:
		return "PV"
	case CUT:
		return "CUT"
	case ALL:
		return "ALL"
	default:
		return "NA"
	}
}

// Entry is a transposition table hit: the recorded score, the remaining
// search depth it was computed at, its bound type, and the move that
// produced it (NoMove if the position had none, e.g. checkmate/stalemate).
type Entry struct {
	Score    board.Score
	Depth    int
	NodeType NodeType
	Best     board.Move
}

// Table is a transposition table keyed by Zobrist hash. Implementations
// must be safe for concurrent use, though the table is owned exclusively
// by the search goroutine that drives it, so no implementation here
// actually needs locking; the lock-free table instead avoids ever
// blocking the search goroutine itself.
type Table interface {
	// Probe returns the entry stored for hash, if any.
	Probe(hash board.ZobristHash) (Entry, bool)
	// Store records an entry for hash, subject to the replacement policy:
	// a new entry only overwrites an existing one of equal-or-lesser
	// search depth.
	Store(hash board.ZobristHash, e Entry)
	// Clear empties every slot. The engine does not call it: ucinewgame
	// replaces the table with a freshly allocated one instead.
	Clear()
	// Len returns the table's slot count.
	Len() int
}

// slot is the atomically-swapped node payload for one table address.
// depthPlus1 == 0 marks an empty slot, so the zero value of a freshly
// allocated table already reads as empty.
type slot struct {
	hash       board.ZobristHash
	score      board.Score
	depthPlus1 int32
	nodeType   NodeType
	best       board.Move
}

// table is a lock-free transposition table: entries are swapped in with
// a single atomic.CompareAndSwapPointer per slot, addressed by hash mod
// capacity. Capacity is rounded down to a power of two so the modulus is
// a single AND.
type table struct {
	slots []unsafe.Pointer // *slot
	mask  uint64
}

var _ Table = (*table)(nil)

// NewTable allocates a table sized to hold roughly sizeBytes worth of
// entries, rounded down to a power of two slot count.
func NewTable(sizeBytes uint64) Table {
	const slotSize = 32
	n := sizeBytes / slotSize
	if n < 2 {
		n = 2
	}
	shift := 63 - bits.LeadingZeros64(n)
	capacity := uint64(1) << shift

	return &table{
		slots: make([]unsafe.Pointer, capacity),
		mask:  capacity - 1,
	}
}

func (t *table) Len() int { return len(t.slots) }

func (t *table) addr(hash board.ZobristHash) *unsafe.Pointer {
	return &t.slots[uint64(hash)&t.mask]
}

func (t *table) Probe(hash board.ZobristHash) (Entry, bool) {
	ptr := (*slot)(atomic.LoadPointer(t.addr(hash)))
	if ptr == nil || ptr.hash != hash || ptr.depthPlus1 == 0 {
		return Entry{}, false
	}
	return Entry{
		Score:    ptr.score,
		Depth:    int(ptr.depthPlus1) - 1,
		NodeType: ptr.nodeType,
		Best:     ptr.best,
	}, true
}

func (t *table) Store(hash board.ZobristHash, e Entry) {
	addr := t.addr(hash)
	fresh := &slot{
		hash:       hash,
		score:      e.Score,
		depthPlus1: int32(e.Depth + 1),
		nodeType:   e.NodeType,
		best:       e.Best,
	}

	for {
		ptr := (*unsafe.Pointer)(unsafe.Pointer(addr))
		cur := (*slot)(atomic.LoadPointer(ptr))
		if cur != nil && cur.depthPlus1 > fresh.depthPlus1 {
			return
		}
		if atomic.CompareAndSwapPointer(ptr, unsafe.Pointer(cur), unsafe.Pointer(fresh)) {
			return
		}
	}
}

func (t *table) Clear() {
	for i := range t.slots {
		atomic.StorePointer(&t.slots[i], nil)
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v entries]", len(t.slots))
}

// NoTable is a Table that never stores or reports a hit, used when the
// engine is configured to run without one.
type NoTable struct{}

var _ Table = NoTable{}

func (NoTable) Probe(board.ZobristHash) (Entry, bool) { return Entry{}, false }
func (NoTable) Store(board.ZobristHash, Entry)         {}
func (NoTable) Clear()                                 {}
func (NoTable) Len() int                               { return 0 }
