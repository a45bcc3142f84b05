// Package phydist holds the all-pairs evolutionary distance input to a
// merge: a symmetric nonnegative matrix over a set of taxon labels, plus
// readers for the PHYLIP-style files collaborators exchange.
package phydist

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrBadDistance marks a distance matrix that is not a valid dissimilarity:
// negative entries, a nonzero diagonal, asymmetry, or a ragged shape.
var ErrBadDistance = errors.New("phydist: invalid distance matrix")

// Matrix is an immutable labeled symmetric distance matrix.
type Matrix struct {
	labels []string
	index  map[string]int
	d      *mat.SymDense
}

// New validates rows as a distance matrix over labels and returns it.
// rows must be square of order len(labels), symmetric, nonnegative,
// and zero on the diagonal; anything else wraps [ErrBadDistance].
func New(labels []string, rows [][]float64) (*Matrix, error) {
	n := len(labels)
	if len(rows) != n {
		return nil, fmt.Errorf("%w: %d labels but %d rows", ErrBadDistance, n, len(rows))
	}
	index := make(map[string]int, n)
	for i, l := range labels {
		if _, dup := index[l]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrBadDistance, l)
		}
		index[l] = i
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %q has %d entries, want %d", ErrBadDistance, labels[i], len(row), n)
		}
	}
	d := mat.NewSymDense(max(n, 1), nil)
	for i, row := range rows {
		for j, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative distance %g between %q and %q", ErrBadDistance, v, labels[i], labels[j])
			}
			// Reversed comparison so NaNs are caught too.
			if !(v == rows[j][i]) {
				return nil, fmt.Errorf("%w: asymmetry between %q and %q", ErrBadDistance, labels[i], labels[j])
			}
			if i == j && v != 0 {
				return nil, fmt.Errorf("%w: nonzero diagonal at %q", ErrBadDistance, labels[i])
			}
			if j >= i {
				d.SetSym(i, j, v)
			}
		}
	}
	return &Matrix{labels: labels, index: index, d: d}, nil
}

// Labels returns the taxon labels in matrix row order.
// The caller must not modify the returned slice.
func (m *Matrix) Labels() []string {
	return m.labels
}

// Len returns the number of taxa covered.
func (m *Matrix) Len() int {
	return len(m.labels)
}

// Has reports whether label is covered by the matrix.
func (m *Matrix) Has(label string) bool {
	_, ok := m.index[label]
	return ok
}

// At returns the distance between the taxa at row positions i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.d.At(i, j)
}

// Distance returns the distance between two labels.
// Both labels must be covered.
func (m *Matrix) Distance(a, b string) float64 {
	return m.d.At(m.index[a], m.index[b])
}
