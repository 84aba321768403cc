// Package treemerge moves the contents of one directory tree into another,
// preserving relative structure and refusing to clobber existing files.
package treemerge

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Conflict records a destination path that already held content when the
// merge tried to place a source file there. Both copies are left intact.
type Conflict struct {
	RelPath     string `json:"path"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// ConflictError aggregates every collision found during a merge. The merge
// keeps moving independent paths; all conflicts are reported together.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	paths := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		paths[i] = c.RelPath
	}
	return fmt.Sprintf("merge conflicts at destination: %s", strings.Join(paths, ", "))
}

// Result summarizes a merge run.
type Result struct {
	Moved          []string   `json:"moved"`
	Conflicts      []Conflict `json:"conflicts,omitempty"`
	NothingToMerge bool       `json:"nothing_to_merge,omitempty"`
}

// Err returns a *ConflictError when the merge recorded conflicts, nil
// otherwise.
func (r *Result) Err() error {
	if len(r.Conflicts) > 0 {
		return &ConflictError{Conflicts: r.Conflicts}
	}
	return nil
}

// Merge moves every file under src into the equivalent relative position
// under dst, creating intermediate directories as needed. A pre-existing
// destination file is a conflict: that path is skipped and reported, and
// the merge continues with the remaining paths. Directories emptied by the
// move, including src itself, are removed afterwards.
//
// An absent src is a completed or never-needed move, reported as
// NothingToMerge rather than an error. Interrupted merges are safe to
// re-run: files already placed are no longer under src and are not
// revisited.
func Merge(src, dst string) (*Result, error) {
	return merge(src, dst, true)
}

// Preview reports the files Merge would move and the conflicts it would
// hit, without touching the filesystem.
func Preview(src, dst string) (*Result, error) {
	return merge(src, dst, false)
}

func merge(src, dst string, execute bool) (*Result, error) {
	result := &Result{}

	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		result.NothingToMerge = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat source %s: %w", src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", src)
	}

	var dirs []string
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}

		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			return relErr
		}
		target := filepath.Join(dst, rel)

		if _, statErr := os.Lstat(target); statErr == nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				RelPath:     filepath.ToSlash(rel),
				Source:      path,
				Destination: target,
			})
			return nil
		} else if !os.IsNotExist(statErr) {
			return fmt.Errorf("stat destination %s: %w", target, statErr)
		}

		if execute {
			if mkErr := os.MkdirAll(filepath.Dir(target), 0o750); mkErr != nil {
				return fmt.Errorf("create destination directory for %s: %w", rel, mkErr)
			}
			if mvErr := moveFile(path, target); mvErr != nil {
				return fmt.Errorf("move %s: %w", rel, mvErr)
			}
		}
		result.Moved = append(result.Moved, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !execute {
		return result, nil
	}

	// Deepest directories first so parents are already empty when reached.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		if empty, emptyErr := isEmptyDir(dir); emptyErr != nil {
			return nil, emptyErr
		} else if empty {
			if rmErr := os.Remove(dir); rmErr != nil {
				return nil, fmt.Errorf("remove emptied directory %s: %w", dir, rmErr)
			}
		}
	}

	// A nested source (e.g. Resources/Sources/App/Resources moved into
	// Resources) can leave empty intermediate directories above src; prune
	// them up to the first non-empty ancestor, never touching dst.
	if err := pruneEmptyAncestors(filepath.Dir(src), dst); err != nil {
		return nil, err
	}

	return result, nil
}

// pruneEmptyAncestors removes dir and its ancestors while they are empty,
// stopping at stop, the filesystem root, or the first non-empty directory.
func pruneEmptyAncestors(dir, stop string) error {
	stopAbs, err := filepath.Abs(stop)
	if err != nil {
		return err
	}
	for {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		if abs == stopAbs || abs == filepath.Dir(abs) {
			return nil
		}
		empty, err := isEmptyDir(dir)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}
		if err := os.Remove(dir); err != nil {
			return err
		}
		dir = filepath.Dir(dir)
	}
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src) // #nosec G304 -- paths come from a walk of the caller-supplied source tree
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	mode := os.FileMode(0o644)
	if st, err := in.Stat(); err == nil {
		mode = st.Mode() & 0o777
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode) // #nosec G304 -- destination existence checked before the move
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// isEmptyDir reports whether dir contains no entries.
func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
