// Package catalog answers "movies like this one" queries.
//
// A Catalog is built once from the movie dataset and a precomputed
// similarity matrix, then shared read-only. Lookups match titles exactly;
// an unknown title yields a single NotFoundMessage entry instead of an error.
//
// Builder owns the expensive path: it loads the dataset, vectorizes it,
// computes the kernel, persists the artifact, and records the run in the
// build ledger. LoadOrBuild reuses an artifact whose row count and dataset
// checksum still match.
package catalog
