// Package safeio provides path-contained reads and crash-safe writes for
// the mutation engine. Every file the engine touches is resolved against an
// explicit project root; writes go through a temp-file-plus-rename so a
// crash mid-write cannot leave a truncated file behind.
package safeio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveContained joins rel onto root and verifies the result stays inside
// root. Rejects absolute paths and traversal attempts.
func ResolveContained(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("path %q must be relative to the project root", rel)
	}
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the project root", rel)
	}
	return filepath.Join(root, clean), nil
}

// ReadFileContained reads root/rel after containment validation.
func ReadFileContained(root, rel string) ([]byte, error) {
	path, err := ResolveContained(root, rel)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- containment verified above
	return os.ReadFile(path)
}

// AtomicWrite writes data to path by writing a temporary file in the same
// directory and renaming it into place. The mode of an existing file is
// preserved; new files get 0644.
func AtomicWrite(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil && st.Mode().Perm() != 0 {
		mode = st.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// WriteFileContained atomically writes root/rel after containment
// validation, creating parent directories as needed.
func WriteFileContained(root, rel string, data []byte) error {
	path, err := ResolveContained(root, rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", rel, err)
	}
	return AtomicWrite(path, data)
}
