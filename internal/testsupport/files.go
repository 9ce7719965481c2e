package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"cinematch/internal/dataset"
)

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMovies writes movies as a dataset CSV with the required header.
func WriteMovies(t testing.TB, path string, movies []dataset.Movie) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(dataset.RequiredColumns); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, m := range movies {
		if err := w.Write([]string{m.Title, m.Genres, m.Overview, m.Keywords, m.Cast, m.Director}); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
}
