package wordpos

// arena is the in-memory, fixed-capacity buffer Builder accumulates
// (word, position) pairs into before a flush. It is an intrusive per-word
// linked list over a shared arena: every word's chain lives in the same
// flat positions/next slices, indexed by entry index rather than pointer,
// so insertion is O(1) and no per-word allocation ever occurs.
//
// first[w] == -1 <=> last[w] == -1 <=> word w has no entries in this arena.
// Following next from first[w] visits w's entries in arrival order,
// terminating at last[w] whose next is -1.
type arena struct {
	positions []int64
	next      []int32
	first     []int32
	last      []int32
	count     int
	capacity  int

	// lastPos[w] is the most recent position appended for word w and is
	// kept across reset, so an exact duplicate arriving right after a flush
	// is still recognised; hasLast[w] reports whether lastPos[w] is set.
	lastPos []int64
	hasLast []bool
}

func newArena(wordCount uint32, capacity int) *arena {
	a := &arena{
		positions: make([]int64, capacity),
		next:      make([]int32, capacity),
		first:     make([]int32, wordCount),
		last:      make([]int32, wordCount),
		capacity:  capacity,
		lastPos:   make([]int64, wordCount),
		hasLast:   make([]bool, wordCount),
	}
	a.reset()
	return a
}

// reset clears every word's chain and rewinds count to 0, without
// reallocating the backing slices. Each word's last appended position
// (lastPos) is kept for duplicate detection.
func (a *arena) reset() {
	for w := range a.first {
		a.first[w] = -1
		a.last[w] = -1
	}
	a.count = 0
}

func (a *arena) full() bool {
	return a.count == a.capacity
}

// append records position at the tail of word's chain, returning false
// without modifying the arena if position is an exact duplicate of the
// word's most recently recorded position (pre-shift), including one
// recorded before the latest reset.
func (a *arena) append(word uint32, position int64) bool {
	if a.hasLast[word] && a.lastPos[word] == position {
		return false
	}
	a.lastPos[word] = position
	a.hasLast[word] = true

	tail := a.last[word]
	idx := int32(a.count)
	a.positions[idx] = position
	a.next[idx] = -1
	if tail != -1 {
		a.next[tail] = idx
	} else {
		a.first[word] = idx
	}
	a.last[word] = idx
	a.count++
	return true
}
