package catalog

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"cinematch/internal/dataset"
	"cinematch/internal/similarity"
)

// NotFoundMessage is the single entry returned for unknown titles.
const NotFoundMessage = "Movie not found. Try another title."

// DefaultCount is used when a caller asks for zero or fewer recommendations.
const DefaultCount = 5

// Source records where a catalog's matrix came from.
type Source string

const (
	SourceBuilt    Source = "built"
	SourceArtifact Source = "artifact"
)

// Metadata describes how a catalog was produced.
type Metadata struct {
	BuildID       uuid.UUID
	BuiltAt       time.Time
	DatasetPath   string
	DatasetSHA256 [sha256.Size]byte
	ArtifactPath  string
	Vocabulary    int
	Source        Source
}

// Recommendation is one ranked result.
type Recommendation struct {
	Rank  int     `json:"rank"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Catalog is an immutable movie collection paired with its similarity
// matrix. It is safe for concurrent use.
type Catalog struct {
	movies []dataset.Movie
	index  map[string]int
	matrix *similarity.Matrix
	meta   Metadata
}

// New pairs movies with a matrix of matching dimension. Duplicate titles
// resolve to their first row.
func New(movies []dataset.Movie, matrix *similarity.Matrix, meta Metadata) (*Catalog, error) {
	if matrix.Rows() != len(movies) {
		return nil, fmt.Errorf("matrix has %d rows but dataset has %d movies", matrix.Rows(), len(movies))
	}
	index := make(map[string]int, len(movies))
	for i, m := range movies {
		if _, dup := index[m.Title]; !dup {
			index[m.Title] = i
		}
	}
	return &Catalog{movies: movies, index: index, matrix: matrix, meta: meta}, nil
}

// Len returns the number of movies.
func (c *Catalog) Len() int { return len(c.movies) }

// Metadata returns build information.
func (c *Catalog) Metadata() Metadata { return c.meta }

// Matrix returns the similarity matrix. Callers must not modify it.
func (c *Catalog) Matrix() *similarity.Matrix { return c.matrix }

// Movie returns row i.
func (c *Catalog) Movie(i int) dataset.Movie { return c.movies[i] }

// Lookup returns the row of the first movie titled exactly title.
func (c *Catalog) Lookup(title string) (int, bool) {
	if title == "" {
		return 0, false
	}
	i, ok := c.index[title]
	return i, ok
}

// Recommend returns up to count titles most similar to title, best first.
// count <= 0 means DefaultCount. Unknown or empty titles return
// []string{NotFoundMessage}.
func (c *Catalog) Recommend(title string, count int) []string {
	recs, ok := c.RecommendScored(title, count)
	if !ok {
		return []string{NotFoundMessage}
	}
	titles := make([]string, len(recs))
	for i, r := range recs {
		titles[i] = r.Title
	}
	return titles
}

// RecommendScored is Recommend with ranks and scores. Rows sharing the
// query title are never returned. The bool is false when title is unknown.
func (c *Catalog) RecommendScored(title string, count int) ([]Recommendation, bool) {
	self, ok := c.Lookup(title)
	if !ok {
		return nil, false
	}
	if count <= 0 {
		count = DefaultCount
	}

	row := c.matrix.Row(self)
	candidates := make([]int, 0, len(row)-1)
	for j := range row {
		if j != self && c.movies[j].Title != title {
			candidates = append(candidates, j)
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		sa, sb := row[candidates[a]], row[candidates[b]]
		if sa != sb {
			return sa > sb
		}
		return candidates[a] < candidates[b]
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}

	recs := make([]Recommendation, len(candidates))
	for i, j := range candidates {
		recs[i] = Recommendation{Rank: i + 1, Title: c.movies[j].Title, Score: row[j]}
	}
	return recs, true
}

// Suggest returns up to limit distinct titles containing query, compared
// case-insensitively, in dataset order.
func (c *Catalog) Suggest(query string, limit int) []string {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, m := range c.movies {
		if limit > 0 && len(out) >= limit {
			break
		}
		if _, dup := seen[m.Title]; dup {
			continue
		}
		if strings.Contains(folder.String(m.Title), needle) {
			seen[m.Title] = struct{}{}
			out = append(out, m.Title)
		}
	}
	return out
}
