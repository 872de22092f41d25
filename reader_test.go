package wordpos

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempIndex(t *testing.T, wordCount uint32, words [][]int64) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.idx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWriter(f, wordCount)
	if err != nil {
		t.Fatal(err)
	}
	for _, positions := range words {
		for _, p := range positions {
			if err := w.WritePosition(p); err != nil {
				t.Fatal(err)
			}
		}
		if err := w.NextWord(); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReaderRoundTrip(t *testing.T) {
	path := writeTempIndex(t, 3, [][]int64{
		{4, 8, 12},
		{},
		{100, 104, 200},
	})

	r, err := OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.WordCount() != 3 {
		t.Fatalf("WordCount() = %d, want 3", r.WordCount())
	}

	wantByWord := map[uint32][]uint64{
		0: {4, 8, 12},
		1: {},
		2: {100, 104, 200},
	}
	for word, want := range wantByWord {
		cur, err := r.Find(word)
		if err != nil {
			t.Fatalf("Find(%d): %v", word, err)
		}
		var got []uint64
		buf := make([]uint64, 2)
		for !cur.Done() {
			n, err := cur.Page(buf)
			if err != nil {
				t.Fatalf("Page word %d: %v", word, err)
			}
			got = append(got, buf[:n]...)
			if n == 0 {
				break
			}
		}
		if len(got) != len(want) {
			t.Fatalf("word %d: got %v, want %v", word, got, want)
		}
		for i := range want {
			if got[i] != uint64(want[i]) {
				t.Errorf("word %d pos %d: got %d, want %d", word, i, got[i], want[i])
			}
		}
	}
}

func TestReaderNonEmptyWords(t *testing.T) {
	path := writeTempIndex(t, 3, [][]int64{
		{4},
		{},
		{100},
	})
	r, err := OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	bm := r.NonEmptyWords()
	if bm.Contains(1) {
		t.Error("word 1 should be empty")
	}
	if !bm.Contains(0) || !bm.Contains(2) {
		t.Error("words 0 and 2 should be non-empty")
	}
	if bm.GetCardinality() != 2 {
		t.Errorf("cardinality = %d, want 2", bm.GetCardinality())
	}
}

func TestReaderIndexRangeError(t *testing.T) {
	path := writeTempIndex(t, 2, [][]int64{{1}, {2}})
	r, err := OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	_, err = r.Find(2)
	var rangeErr *IndexRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("Find(2) = %v, want IndexRangeError", err)
	}
	if rangeErr.Word != 2 || rangeErr.WordCount != 2 {
		t.Errorf("IndexRangeError = %+v", rangeErr)
	}
}

func TestReaderTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.idx")
	if err := os.WriteFile(path, []byte{0x01}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := OpenReader(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("OpenReader(short) = %v, want ErrCorrupt", err)
	}
}

func TestReaderCorruptDirectoryDecreasing(t *testing.T) {
	// Hand-build a 2-word file whose directory entries decrease, which
	// violates the monotonic-non-decreasing invariant.
	var buf bytes.Buffer
	buf.Write([]byte{0x81, 0x81}) // two single-byte varints as filler payload
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00}) // dir[0] = 0
	buf.Write([]byte{0x03, 0x00, 0x00, 0x00}) // dir[1] = 3 (decreases vs dir[2], the directory start at 2)
	buf.Write([]byte{0x02, 0x00, 0x00, 0x00}) // trailer wordCount = 2

	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.idx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := OpenReader(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("OpenReader(corrupt) = %v, want ErrCorrupt", err)
	}
}

func TestReaderZeroWordFile(t *testing.T) {
	path := writeTempIndex(t, 0, nil)
	r, err := OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.WordCount() != 0 {
		t.Errorf("WordCount() = %d, want 0", r.WordCount())
	}
	if _, err := r.Find(0); err == nil {
		t.Error("Find(0) on zero-word file should error")
	}
}
