package textutil

import "math"

// SparseVector holds the non-zero weights of one document. Indices are
// vocabulary columns in ascending order.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of stored entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// Norm returns the Euclidean length of the vector.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, w := range v.Values {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two vectors.
func (v SparseVector) Dot(o SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			dot += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Weight returns the value stored for column, or 0.
func (v SparseVector) Weight(column int) float64 {
	lo, hi := 0, len(v.Indices)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case v.Indices[mid] == column:
			return v.Values[mid]
		case v.Indices[mid] < column:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

func (v *SparseVector) normalizeL2() {
	norm := v.Norm()
	if norm == 0 {
		return
	}
	for i := range v.Values {
		v.Values[i] /= norm
	}
}
