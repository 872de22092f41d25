package wordpos

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// workingDir manages the sibling directory a Builder uses to hold slice
// files between flush and merge. It does not take a lock file: the Builder
// is externally serialized by the caller, so there is no concurrent-process
// scenario to guard against here.
type workingDir struct {
	path string
}

// newWorkingDir creates path (which must not already exist) and returns a
// workingDir rooted there.
func newWorkingDir(path string) (*workingDir, error) {
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, fmt.Errorf("wordpos: create working directory: %w", err)
	}
	return &workingDir{path: path}, nil
}

// slicePath returns the path slice number n (0-based, in flush order) is
// written to or read from.
func (d *workingDir) slicePath(n int) string {
	return filepath.Join(d.path, strconv.Itoa(n)+".idx")
}

// mergedPath returns the path the merge step writes its output to before
// it is renamed to the Builder's final output path.
func (d *workingDir) mergedPath() string {
	return filepath.Join(d.path, "merged.idx")
}

// remove deletes the working directory and everything under it. Called
// only after a successful merge; left in place on failure so the slice
// files remain available for post-mortem inspection.
func (d *workingDir) remove() error {
	if err := os.RemoveAll(d.path); err != nil {
		return fmt.Errorf("wordpos: remove working directory: %w", err)
	}
	return nil
}
