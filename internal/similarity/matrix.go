package similarity

import "fmt"

// Matrix is a dense row-major n×n matrix of float64 scores.
// It is read-only once returned from LinearKernel or FromValues.
type Matrix struct {
	n    int
	data []float64
}

// FromValues wraps a row-major slice of n*n values. The slice is retained.
func FromValues(n int, values []float64) (*Matrix, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative row count %d", n)
	}
	if len(values) != n*n {
		return nil, fmt.Errorf("expected %d values for %d rows, got %d", n*n, n, len(values))
	}
	return &Matrix{n: n, data: values}, nil
}

func newMatrix(n int) *Matrix {
	return &Matrix{n: n, data: make([]float64, n*n)}
}

// Rows returns the matrix dimension.
func (m *Matrix) Rows() int {
	if m == nil {
		return 0
	}
	return m.n
}

// At returns the score between rows i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns row i. The slice aliases the matrix and must not be modified.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// Values returns the row-major backing slice. Callers must not modify it.
func (m *Matrix) Values() []float64 {
	if m == nil {
		return nil
	}
	return m.data
}

// Bytes returns the payload size of the matrix.
func (m *Matrix) Bytes() int64 {
	return int64(m.Rows()) * int64(m.Rows()) * 8
}
