package wordpos

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// merge produces the Builder's final output file from its slices.
//
// With exactly one slice, the slice is renamed into place directly — no
// re-encoding. With zero or more than one slice, every slice is read in
// slice-creation order and, for each word in ascending order, every slice's
// matches for that word are appended to a single output Writer before
// moving to the next word. Because slices are flushed in corpus order and
// each slice's per-word chain is itself corpus-ordered, this concatenation
// is already globally ascending; no priority-queue merge is needed.
func (b *Builder) merge() error {
	if len(b.slices) == 1 {
		return os.Rename(b.slices[0].path, b.outputPath)
	}

	readers, err := b.openSlicesConcurrently()
	if err != nil {
		return err
	}
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.Close()
			}
		}
	}()

	mergedPath := b.work.mergedPath()
	out, err := os.Create(mergedPath)
	if err != nil {
		return fmt.Errorf("wordpos: create merge output: %w", err)
	}

	writer, err := NewWriter(out, b.wordCount)
	if err != nil {
		out.Close()
		return err
	}

	buf := make([]uint64, pageSize)
	for word := uint32(0); word < b.wordCount; word++ {
		for i, r := range readers {
			if !r.NonEmptyWords().Contains(word) {
				continue
			}
			cur, err := r.Find(word)
			if err != nil {
				return fmt.Errorf("wordpos: find word %d in slice %d: %w", word, i, err)
			}
			for !cur.Done() {
				n, err := cur.Page(buf)
				if err != nil {
					return fmt.Errorf("wordpos: page word %d from slice %d: %w", word, i, err)
				}
				for p := 0; p < n; p++ {
					if err := writer.WritePosition(int64(buf[p])); err != nil {
						return fmt.Errorf("wordpos: write merged word %d: %w", word, err)
					}
				}
				if n == 0 {
					break
				}
			}
		}
		if err := writer.NextWord(); err != nil {
			return fmt.Errorf("wordpos: advance merged word %d: %w", word, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("wordpos: close merge output: %w", err)
	}

	return os.Rename(mergedPath, b.outputPath)
}

// openSlicesConcurrently opens a Reader for every recorded slice in
// parallel. Each goroutine writes into its own pre-assigned index of the
// returned slice, so no lock is needed — the same index-addressed,
// lock-free fan-out used by acoustid-api's segment search. This phase is
// entirely read-only and completes before the strictly sequential per-word
// merge loop begins, so it does not weaken Builder's single-threaded
// contract.
func (b *Builder) openSlicesConcurrently() ([]*Reader, error) {
	readers := make([]*Reader, len(b.slices))

	var eg errgroup.Group
	for i, info := range b.slices {
		i, info := i, info
		eg.Go(func() error {
			r, err := OpenReader(info.path)
			if err != nil {
				return fmt.Errorf("wordpos: open slice %d: %w", i, err)
			}
			readers[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, r := range readers {
			if r != nil {
				r.Close()
			}
		}
		return nil, err
	}
	return readers, nil
}
