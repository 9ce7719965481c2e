package fileutil

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SHA256File streams path through SHA-256 and returns the digest and size.
func SHA256File(path string) ([sha256.Size]byte, int64, error) {
	var sum [sha256.Size]byte
	in, err := os.Open(path)
	if err != nil {
		return sum, 0, err
	}
	defer in.Close()

	hasher := sha256.New()
	n, err := io.Copy(hasher, in)
	if err != nil {
		return sum, 0, fmt.Errorf("hash %s: %w", path, err)
	}
	copy(sum[:], hasher.Sum(nil))
	return sum, n, nil
}

// WriteAtomic writes path by streaming into a temp file in the same
// directory, syncing it, and renaming it into place. On any failure the
// destination is left untouched and the temp file removed.
func WriteAtomic(path string, mode os.FileMode, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
