package wordpos

import (
	"errors"
	"fmt"
)

// ErrOutOfOrder is returned by Writer.WritePosition when a position's
// quantized value is smaller than the previous quantized value written for
// the same word.
var ErrOutOfOrder = errors.New("wordpos: position out of order for word")

// ErrIncomplete is returned by Writer.Close when NextWord has not been
// called exactly wordCount times.
var ErrIncomplete = errors.New("wordpos: writer closed before every word was advanced")

// ErrCorrupt is returned by Reader when an on-disk directory or delta stream
// fails to satisfy the format's invariants.
var ErrCorrupt = errors.New("wordpos: corrupt index file")

// IndexRangeError is returned when a word id outside [0, WordCount) is
// requested from a Reader or a Builder.
type IndexRangeError struct {
	Word      uint32
	WordCount uint32
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("wordpos: word id %d out of range [0, %d)", e.Word, e.WordCount)
}

// errDirectoryOverflow is returned by Writer.Close when a word's delta
// stream start offset would not fit in the 32-bit directory entry.
var errDirectoryOverflow = fmt.Errorf("%w: delta stream exceeds 4GiB directory offset cap", ErrCorrupt)
