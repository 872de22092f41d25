package wordpos

import (
	"fmt"
	"os"

	"github.com/RoaringBitmap/roaring"
)

// sliceInfo records where one flushed slice lives and which words it holds
// a non-empty chain for. merge reopens every slice and decides which words
// to skip from each Reader's NonEmptyWords bitmap, not from this field.
type sliceInfo struct {
	path     string
	nonEmpty *roaring.Bitmap
}

// Builder is the outer external-memory pipeline: it accepts (word, position)
// pairs in any order, buffers them in a fixed-capacity arena, flushes full
// arenas as slice files, and merges every slice into one final index file
// on Close.
//
// Builder holds no internal lock. Callers
// must serialize all Add and Close calls themselves; a Builder is not safe
// for concurrent use.
type Builder struct {
	outputPath string
	wordCount  uint32

	arena *arena
	work  *workingDir

	slices []sliceInfo

	wordTotal   uint64
	nonDupTotal uint64

	closed bool
}

// NewBuilder creates a Builder that will eventually produce outputPath.
// wordCount fixes W; capacity fixes the arena's entry capacity N. A sibling
// working directory outputPath+".Working" is created to hold slice files
// until Close merges them.
func NewBuilder(outputPath string, wordCount uint32, capacity int) (*Builder, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("wordpos: capacity must be positive, got %d", capacity)
	}

	work, err := newWorkingDir(outputPath + ".Working")
	if err != nil {
		return nil, err
	}

	return &Builder{
		outputPath: outputPath,
		wordCount:  wordCount,
		arena:      newArena(wordCount, capacity),
		work:       work,
	}, nil
}

// Add appends position (pre-shift) for word to the Builder's arena,
// flushing a slice file if the arena fills as a result.
func (b *Builder) Add(word uint32, position int64) error {
	if word >= b.wordCount {
		return &IndexRangeError{Word: word, WordCount: b.wordCount}
	}

	b.wordTotal++
	if !b.arena.append(word, position) {
		return nil
	}
	b.nonDupTotal++

	if b.arena.full() {
		if err := b.flush(); err != nil {
			return err
		}
	}
	return nil
}

// WordTotal returns the number of Add calls made so far.
func (b *Builder) WordTotal() uint64 {
	return b.wordTotal
}

// NonDupTotal returns the number of Add calls that were not suppressed by
// the exact-duplicate check in the arena.
func (b *Builder) NonDupTotal() uint64 {
	return b.nonDupTotal
}

// flush writes the arena's current contents out as the next numbered slice
// file and rewinds the arena for reuse.
func (b *Builder) flush() error {
	n := len(b.slices)
	path := b.work.slicePath(n)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wordpos: create slice %d: %w", n, err)
	}

	w, err := NewWriter(f, b.wordCount)
	if err != nil {
		f.Close()
		return err
	}

	nonEmpty := roaring.New()
	for word := uint32(0); word < b.wordCount; word++ {
		entry := b.arena.first[word]
		for entry != -1 {
			if err := w.WritePosition(b.arena.positions[entry]); err != nil {
				f.Close()
				return fmt.Errorf("wordpos: flush slice %d, word %d: %w", n, word, err)
			}
			entry = b.arena.next[entry]
		}
		if b.arena.first[word] != -1 {
			nonEmpty.Add(word)
		}
		if err := w.NextWord(); err != nil {
			f.Close()
			return fmt.Errorf("wordpos: flush slice %d, word %d: %w", n, word, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("wordpos: close slice %d: %w", n, err)
	}

	b.slices = append(b.slices, sliceInfo{path: path, nonEmpty: nonEmpty})
	b.arena.reset()
	return nil
}

// Close flushes any buffered entries, merges every slice into the final
// output file, and removes the working directory. On failure the working
// directory and any slices already written are left on disk for
// post-mortem inspection, and Close must not be called again.
func (b *Builder) Close() error {
	if b.closed {
		return fmt.Errorf("wordpos: builder already closed")
	}
	b.closed = true

	if b.arena.count > 0 {
		if err := b.flush(); err != nil {
			return err
		}
	}

	if err := b.merge(); err != nil {
		return fmt.Errorf("wordpos: merge (working directory %s preserved for inspection): %w", b.work.path, err)
	}

	return b.work.remove()
}
