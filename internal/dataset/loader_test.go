package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadReadsRequiredColumnsInAnyOrder(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"id,director,title,genres,overview,keywords,cast,budget",
		`1,Lana Wachowski,The Matrix,Action Science Fiction,"A hacker learns, the truth",simulation,Keanu Reeves,63000000`,
		`2,,Heat,Crime,,,,`,
		`3,Ridley Scott,Alien`,
	}, "\n"))

	movies, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(movies))
	}
	want := Movie{
		Title:    "The Matrix",
		Genres:   "Action Science Fiction",
		Overview: "A hacker learns, the truth",
		Keywords: "simulation",
		Cast:     "Keanu Reeves",
		Director: "Lana Wachowski",
	}
	if movies[0] != want {
		t.Fatalf("unexpected first movie: %+v", movies[0])
	}
	if movies[1].Overview != "" || movies[1].Director != "" {
		t.Fatalf("expected empty strings for absent values, got %+v", movies[1])
	}
	if movies[2].Title != "Alien" || movies[2].Genres != "" || movies[2].Cast != "" {
		t.Fatalf("expected short row padded with empty strings, got %+v", movies[2])
	}
}

func TestLoadMissingFileNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "movies.csv")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *DataLoadError, got %T", err)
	}
	if loadErr.Path != path {
		t.Fatalf("expected path %q, got %q", path, loadErr.Path)
	}
	if !strings.Contains(err.Error(), path) || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected message naming the path, got %q", err.Error())
	}
}

func TestLoadMissingColumns(t *testing.T) {
	path := writeCSV(t, "title,genres,overview\nHeat,Crime,\n")

	_, err := Load(path)
	if !errors.Is(err, ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
	for _, col := range []string{"keywords", "cast", "director"} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("expected missing column %q in %q", col, err.Error())
		}
	}
	if strings.Contains(err.Error(), "genres,") {
		t.Fatalf("present column reported missing: %q", err.Error())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	if _, err := Load(path); !errors.Is(err, ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad for empty file, got %v", err)
	}
}

func TestLoadHeaderOnlyReturnsNoMovies(t *testing.T) {
	path := writeCSV(t, "title,genres,overview,keywords,cast,director\n")
	movies, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(movies) != 0 {
		t.Fatalf("expected no movies, got %d", len(movies))
	}
}

func TestReadHeaderIsCaseInsensitiveAndStripsBOM(t *testing.T) {
	input := "\ufeffTitle, Genres ,OVERVIEW,keywords,cast,director\nUp,Animation,,,,\n"
	movies, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Up" || movies[0].Genres != "Animation" {
		t.Fatalf("unexpected movies: %+v", movies)
	}
}

func TestDocumentJoinsFieldsInOrder(t *testing.T) {
	m := Movie{Title: "A", Genres: "Action", Overview: "", Keywords: "k", Cast: "c", Director: "d"}
	if got := m.Document(); got != "A Action  k c d" {
		t.Fatalf("unexpected document %q", got)
	}

	docs := Documents([]Movie{m, {Title: "B"}})
	if len(docs) != 2 || docs[1] != "B     " {
		t.Fatalf("unexpected documents %q", docs)
	}
	if titles := Titles([]Movie{m, {Title: "B"}}); titles[0] != "A" || titles[1] != "B" {
		t.Fatalf("unexpected titles %q", titles)
	}
}
