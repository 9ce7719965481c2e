package similarity

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"cinematch/internal/textutil"
)

// ErrTooManyRows is returned when the input exceeds Options.MaxRows.
var ErrTooManyRows = errors.New("similarity: row count exceeds configured limit")

// rowBlock is the number of rows a worker claims at a time.
const rowBlock = 32

// Options tunes the kernel computation.
type Options struct {
	// Workers bounds the goroutines computing row blocks. <= 0 uses GOMAXPROCS.
	Workers int
	// MaxRows rejects inputs larger than this. 0 disables the check.
	MaxRows int
}

// LinearKernel returns the matrix of pairwise dot products of vectors.
// Each pair (i, j) with i <= j is computed once and mirrored.
func LinearKernel(ctx context.Context, vectors []textutil.SparseVector, opts Options) (*Matrix, error) {
	n := len(vectors)
	if opts.MaxRows > 0 && n > opts.MaxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, n, opts.MaxRows)
	}
	m := newMatrix(n)
	if n == 0 {
		return m, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	blocks := (n + rowBlock - 1) / rowBlock
	if workers > blocks {
		workers = blocks
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for start := range jobs {
				end := min(start+rowBlock, n)
				for i := start; i < end; i++ {
					if ctx.Err() != nil {
						return
					}
					fillRow(m, vectors, i)
				}
			}
		}()
	}

dispatch:
	for start := 0; start < n; start += rowBlock {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- start:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// fillRow writes the upper-triangle entries of row i and their mirrors.
// Distinct rows touch disjoint cells, so workers never contend.
func fillRow(m *Matrix, vectors []textutil.SparseVector, i int) {
	vi := vectors[i]
	for j := i; j < len(vectors); j++ {
		score := vi.Dot(vectors[j])
		m.data[i*m.n+j] = score
		m.data[j*m.n+i] = score
	}
}
