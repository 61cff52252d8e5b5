package gensvm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Simplex returns the k x (k-1) matrix whose rows are the vertices of a
// regular simplex centered at the origin, with unit distance between any
// two vertices.
//
// The construction is recursive over columns: column j fixes the first
// j+1 vertices at -1/sqrt(2(j+1)(j+2)) and fans vertex j+1 out at
// (j+1)/sqrt(2(j+1)(j+2)), leaving the coordinates of earlier columns
// untouched. No vertex is special-cased.
func Simplex(k int) (*mat.Dense, error) {
	if k < 2 {
		return nil, ErrClassCount
	}
	u := mat.NewDense(k, k-1, nil)
	for j := 0; j < k-1; j++ {
		d := math.Sqrt(2.0 * float64(j+1) * float64(j+2))
		for i := 0; i <= j; i++ {
			u.Set(i, j, -1.0/d)
		}
		u.Set(j+1, j, float64(j+1)/d)
	}
	return u, nil
}
