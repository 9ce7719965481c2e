// Package ledger records catalog builds in a SQLite database so operators can
// see when the similarity artifact was produced, from which dataset, and
// whether a run reused an existing artifact or failed.
package ledger
