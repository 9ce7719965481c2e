// Package similarity computes the dense all-pairs linear kernel over TF-IDF
// row vectors and holds the result as an immutable square matrix.
package similarity
