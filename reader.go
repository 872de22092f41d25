package wordpos

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/RoaringBitmap/roaring"
)

// pageSize is the default number of positions Cursor.Page decodes per call
// when the merger drives it; callers may pass a buffer of any size.
const pageSize = 256

// Reader opens a slice or index file produced by Writer and provides
// word-addressed random access to its delta streams.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	f   *os.File
	dir []uint32 // len wordCount+1; dir[wordCount] is the directory's own start

	nonEmpty *roaring.Bitmap
}

// OpenReader reads the trailer and directory of the file at path and
// returns a Reader ready to serve Find. The directory is validated to be
// monotonically non-decreasing and to start at 0; any violation is reported
// as ErrCorrupt.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordpos: open %s: %w", path, err)
	}

	r, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func newReader(f *os.File) (*Reader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("wordpos: stat: %w", err)
	}
	size := info.Size()
	if size < 4 {
		return nil, fmt.Errorf("wordpos: file too small (%d bytes): %w", size, ErrCorrupt)
	}

	var wordCount uint32
	if _, err := f.Seek(size-4, io.SeekStart); err != nil {
		return nil, fmt.Errorf("wordpos: seek to trailer: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &wordCount); err != nil {
		return nil, fmt.Errorf("wordpos: read trailer: %w", err)
	}

	dirStart := size - 4*(int64(wordCount)+1)
	if dirStart < 0 {
		return nil, fmt.Errorf("wordpos: directory does not fit in file: %w", ErrCorrupt)
	}
	if _, err := f.Seek(dirStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("wordpos: seek to directory: %w", err)
	}

	dir := make([]uint32, wordCount+1)
	for i := uint32(0); i < wordCount; i++ {
		if err := binary.Read(f, binary.LittleEndian, &dir[i]); err != nil {
			return nil, fmt.Errorf("wordpos: read directory entry %d: %w", i, err)
		}
	}
	dir[wordCount] = uint32(dirStart)

	if wordCount > 0 && dir[0] != 0 {
		return nil, fmt.Errorf("wordpos: directory does not start at 0: %w", ErrCorrupt)
	}
	bm := roaring.New()
	for w := uint32(0); w < wordCount; w++ {
		if dir[w] > dir[w+1] {
			return nil, fmt.Errorf("wordpos: directory entry %d decreases: %w", w, ErrCorrupt)
		}
		if dir[w] != dir[w+1] {
			bm.Add(w)
		}
	}

	return &Reader{f: f, dir: dir, nonEmpty: bm}, nil
}

// WordCount returns the number of words this file was built with.
func (r *Reader) WordCount() uint32 {
	return uint32(len(r.dir) - 1)
}

// NonEmptyWords returns the set of word ids that have at least one match in
// this file. The bitmap is computed once from the directory at Open time
// and is never persisted to disk — it is a pure in-memory convenience for
// callers (such as Builder's merge step) that want to skip a word without
// seeking or allocating a Cursor.
func (r *Reader) NonEmptyWords() *roaring.Bitmap {
	return r.nonEmpty
}

// Find returns a Cursor over word w's matches.
func (r *Reader) Find(w uint32) (*Cursor, error) {
	wordCount := r.WordCount()
	if w >= wordCount {
		return nil, &IndexRangeError{Word: w, WordCount: wordCount}
	}
	start, end := int64(r.dir[w]), int64(r.dir[w+1])
	if _, err := r.f.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("wordpos: seek to word %d: %w", w, err)
	}
	return &Cursor{
		r:         bufio.NewReader(io.LimitReader(r.f, end-start)),
		bytesLeft: end - start,
	}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if err := r.f.Close(); err != nil {
		return fmt.Errorf("wordpos: close: %w", err)
	}
	return nil
}

// Cursor pages through one word's decoded, absolute positions.
//
// A Cursor is not safe for concurrent use, and becomes invalid once its
// owning Reader is closed or another Find call reuses the Reader's file
// handle for a different word.
type Cursor struct {
	r         *bufio.Reader
	bytesLeft int64
	lastValue uint64
}

// Done reports whether the cursor has consumed its entire byte range.
func (c *Cursor) Done() bool {
	return c.bytesLeft <= 0
}

// Page decodes up to len(buf) additional positions into buf, returning how
// many were produced. Callers should keep calling Page until Done reports
// true; a single call does not necessarily fill buf.
func (c *Cursor) Page(buf []uint64) (int, error) {
	n := 0
	for n < len(buf) && !c.Done() {
		d, err := c.readVarint()
		if err != nil {
			return n, err
		}
		c.lastValue += d
		buf[n] = c.lastValue << Shift
		n++
	}
	return n, nil
}

func (c *Cursor) readVarint() (uint64, error) {
	var value uint64
	var shift uint
	for {
		if c.bytesLeft <= 0 {
			return 0, fmt.Errorf("wordpos: varint runs past word's byte range: %w", ErrCorrupt)
		}
		b, err := c.r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("wordpos: truncated varint: %w", ErrCorrupt)
		}
		c.bytesLeft--
		value |= uint64(b&0x7f) << shift
		if b&0x80 != 0 {
			return value, nil
		}
		shift += 7
	}
}
