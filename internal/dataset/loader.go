package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Load reads the CSV dataset at path.
func Load(path string) ([]Movie, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newLoadError(path, "movies dataset not found", nil)
		}
		return nil, newLoadError(path, "open movies dataset", err)
	}
	defer file.Close()

	movies, err := Read(file)
	if err != nil {
		var loadErr *DataLoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
			return nil, loadErr
		}
		return nil, newLoadError(path, "read movies dataset", err)
	}
	return movies, nil
}

// Read parses a CSV stream. The first record is the header; columns are
// matched by name (case-insensitive, surrounding whitespace ignored) and
// unknown columns are skipped.
func Read(r io.Reader) ([]Movie, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newLoadError("", "movies dataset is empty (no header row)", nil)
		}
		return nil, newLoadError("", "malformed header row", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var movies []Movie
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, newLoadError("", fmt.Sprintf("malformed record near line %d", line), err)
		}
		movies = append(movies, Movie{
			Title:    cell(record, idx[ColumnTitle]),
			Genres:   cell(record, idx[ColumnGenres]),
			Overview: cell(record, idx[ColumnOverview]),
			Keywords: cell(record, idx[ColumnKeywords]),
			Cast:     cell(record, idx[ColumnCast]),
			Director: cell(record, idx[ColumnDirector]),
		})
	}
	return movies, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[name]; dup {
			continue
		}
		idx[name] = i
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, newLoadError("", "missing required columns: "+strings.Join(missing, ", "), nil)
	}
	return idx, nil
}

// cell returns the value at i, or "" when the record is short. The title is
// kept verbatim because lookups match it exactly.
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
