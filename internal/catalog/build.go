package catalog

import (
	"context"
	"errors"

	"cinematch/internal/dataset"
	"cinematch/internal/similarity"
	"cinematch/internal/textutil"
)

// BuildOptions configures vectorization and the kernel.
type BuildOptions struct {
	Vectorizer textutil.VectorizerOptions
	Similarity similarity.Options
}

// DefaultBuildOptions returns the stock vectorizer with an unbounded kernel.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Vectorizer: textutil.DefaultVectorizerOptions()}
}

// Build vectorizes movies and computes their similarity matrix in memory.
// An empty collection or one with no usable terms is a *dataset.DataLoadError.
func Build(ctx context.Context, movies []dataset.Movie, opts BuildOptions, meta Metadata) (*Catalog, error) {
	if len(movies) == 0 {
		return nil, &dataset.DataLoadError{Path: meta.DatasetPath, Reason: "movies dataset has no rows"}
	}

	vectorizer, err := textutil.NewVectorizer(opts.Vectorizer)
	if err != nil {
		return nil, err
	}
	vectors, err := vectorizer.FitTransform(dataset.Documents(movies))
	if err != nil {
		if errors.Is(err, textutil.ErrEmptyVocabulary) || errors.Is(err, textutil.ErrEmptyCorpus) {
			return nil, &dataset.DataLoadError{Path: meta.DatasetPath, Reason: "movies dataset has no usable text", Err: err}
		}
		return nil, err
	}

	matrix, err := similarity.LinearKernel(ctx, vectors, opts.Similarity)
	if err != nil {
		return nil, err
	}

	meta.Vocabulary = len(vectorizer.Vocabulary())
	if meta.Source == "" {
		meta.Source = SourceBuilt
	}
	return New(movies, matrix, meta)
}
