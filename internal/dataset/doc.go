// Package dataset loads the movie metadata table and derives the per-movie
// documents the vectorizer consumes.
//
// The source is a CSV file with a header row naming at least the title,
// genres, overview, keywords, cast, and director columns. Absent cells become
// empty strings. Any failure that should stop the process before lookups are
// served is reported as a *DataLoadError.
package dataset
