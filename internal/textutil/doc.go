// Package textutil turns free-text movie documents into TF-IDF vectors.
//
// The pipeline is:
//   - Tokenize lower-cases text and extracts runs of two or more word characters
//   - English stop words are removed before n-grams are formed
//   - A Vectorizer learns a vocabulary and smoothed IDF weights from the corpus
//   - Transform produces sparse, optionally L2-normalized, weight vectors
//
// Vectors are sparse with ascending column indices so dot products are a
// single merge pass.
package textutil
