package textutil

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Row normalization modes accepted by VectorizerOptions.Norm.
const (
	NormL2   = "l2"
	NormNone = "none"
)

var (
	// ErrEmptyCorpus is returned when fitting zero documents.
	ErrEmptyCorpus = errors.New("textutil: empty corpus")
	// ErrEmptyVocabulary is returned when no term survives tokenization and
	// stop word removal.
	ErrEmptyVocabulary = errors.New("textutil: empty vocabulary; documents may only contain stop words")
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("textutil: vectorizer not fitted")
)

// VectorizerOptions configures term extraction and weighting.
type VectorizerOptions struct {
	MaxFeatures int
	NGramMin    int
	NGramMax    int
	StopWords   string
	Norm        string
}

// DefaultVectorizerOptions mirrors the recommender's stock configuration.
func DefaultVectorizerOptions() VectorizerOptions {
	return VectorizerOptions{
		MaxFeatures: 10_000,
		NGramMin:    1,
		NGramMax:    2,
		StopWords:   StopWordsEnglish,
		Norm:        NormL2,
	}
}

// Validate reports option combinations the vectorizer cannot honor.
func (o VectorizerOptions) Validate() error {
	if o.MaxFeatures < 0 {
		return fmt.Errorf("max features must be >= 0, got %d", o.MaxFeatures)
	}
	if o.NGramMin < 1 {
		return fmt.Errorf("ngram min must be >= 1, got %d", o.NGramMin)
	}
	if o.NGramMax < o.NGramMin {
		return fmt.Errorf("ngram max (%d) must be >= ngram min (%d)", o.NGramMax, o.NGramMin)
	}
	switch o.StopWords {
	case StopWordsEnglish, StopWordsNone, "":
	default:
		return fmt.Errorf("unsupported stop word list %q", o.StopWords)
	}
	switch o.Norm {
	case NormL2, NormNone, "":
	default:
		return fmt.Errorf("unsupported norm %q", o.Norm)
	}
	return nil
}

// Vectorizer learns a vocabulary and IDF weights from a corpus.
type Vectorizer struct {
	opts  VectorizerOptions
	stop  map[string]struct{}
	vocab map[string]int
	terms []string
	idf   []float64
	docs  int
}

// NewVectorizer validates opts and returns an unfitted vectorizer.
func NewVectorizer(opts VectorizerOptions) (*Vectorizer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Norm == "" {
		opts.Norm = NormL2
	}
	return &Vectorizer{opts: opts, stop: stopWordSet(opts.StopWords)}, nil
}

// Options returns the configuration the vectorizer was built with.
func (v *Vectorizer) Options() VectorizerOptions { return v.opts }

// Analyze returns the terms extracted from one document, in order.
func (v *Vectorizer) Analyze(doc string) []string {
	tokens := Tokenize(doc)
	if len(v.stop) > 0 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, skip := v.stop[tok]; !skip {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}
	return NGrams(tokens, v.opts.NGramMin, v.opts.NGramMax)
}

// Fit learns the vocabulary and IDF weights from docs.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return ErrEmptyCorpus
	}

	total := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.Analyze(doc) {
			total[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}
	if len(total) == 0 {
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}
	if v.opts.MaxFeatures > 0 && len(terms) > v.opts.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.opts.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v.vocab = vocab
	v.terms = terms
	v.idf = idf
	v.docs = len(docs)
	return nil
}

// Transform weights docs against the fitted vocabulary.
func (v *Vectorizer) Transform(docs []string) ([]SparseVector, error) {
	if v.vocab == nil {
		return nil, ErrNotFitted
	}
	out := make([]SparseVector, len(docs))
	for i, doc := range docs {
		out[i] = v.transformOne(doc)
	}
	return out, nil
}

// FitTransform fits on docs and returns their vectors.
func (v *Vectorizer) FitTransform(docs []string) ([]SparseVector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

func (v *Vectorizer) transformOne(doc string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.Analyze(doc) {
		if col, ok := v.vocab[term]; ok {
			counts[col]++
		}
	}
	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		vec.Indices = append(vec.Indices, col)
	}
	sort.Ints(vec.Indices)
	for _, col := range vec.Indices {
		vec.Values = append(vec.Values, counts[col]*v.idf[col])
	}
	if v.opts.Norm == NormL2 {
		vec.normalizeL2()
	}
	return vec
}

// Vocabulary returns the fitted terms in column order.
func (v *Vectorizer) Vocabulary() []string {
	return append([]string(nil), v.terms...)
}

// Column returns the column index of term.
func (v *Vectorizer) Column(term string) (int, bool) {
	col, ok := v.vocab[term]
	return col, ok
}

// IDF returns the learned weight of term.
func (v *Vectorizer) IDF(term string) (float64, bool) {
	col, ok := v.vocab[term]
	if !ok {
		return 0, false
	}
	return v.idf[col], true
}

// DocumentCount returns the number of documents seen by Fit.
func (v *Vectorizer) DocumentCount() int { return v.docs }
