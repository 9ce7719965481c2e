package dataset

import "strings"

// Column names the loader requires, in document order.
const (
	ColumnTitle    = "title"
	ColumnGenres   = "genres"
	ColumnOverview = "overview"
	ColumnKeywords = "keywords"
	ColumnCast     = "cast"
	ColumnDirector = "director"
)

// RequiredColumns lists the header names a dataset must provide.
var RequiredColumns = []string{ColumnTitle, ColumnGenres, ColumnOverview, ColumnKeywords, ColumnCast, ColumnDirector}

// Movie is one row of the metadata table. Every field is free text.
type Movie struct {
	Title    string `json:"title"`
	Genres   string `json:"genres"`
	Overview string `json:"overview"`
	Keywords string `json:"keywords"`
	Cast     string `json:"cast"`
	Director string `json:"director"`
}

// Document joins the text fields with single spaces in the fixed order
// title, genres, overview, keywords, cast, director.
func (m Movie) Document() string {
	return strings.Join([]string{m.Title, m.Genres, m.Overview, m.Keywords, m.Cast, m.Director}, " ")
}

// Documents returns one document per movie, index-aligned with movies.
func Documents(movies []Movie) []string {
	docs := make([]string, len(movies))
	for i, m := range movies {
		docs[i] = m.Document()
	}
	return docs
}

// Titles returns the movie titles, index-aligned with movies.
func Titles(movies []Movie) []string {
	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}
	return titles
}
