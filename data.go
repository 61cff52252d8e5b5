package gensvm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dataset is the read-only input to training and prediction.
//
// Z is the augmented feature matrix: n x (m+1) with the first column all
// ones for the intercept. Labels in Y are 1-indexed and contiguous over
// [1, K]; Y is nil for unlabeled data (prediction input). Kernel records
// how Z was produced: nil means Z holds raw features, otherwise Z holds
// the kernel matrix (or its Cholesky factor when Stabilized is set)
// computed by Kernelize.
type Dataset struct {
	N, M, K int
	Y       []int
	Z       *mat.Dense

	Kernel     Kernel
	Stabilized bool

	// File is the origin of the data, recorded in model files.
	File string

	// Training-side Cholesky factor of the kernel matrix, kept so test
	// instances can be mapped into the same factored basis.
	factor *mat.TriDense
}

// NewDataset builds a Dataset from raw feature rows x and labels y,
// prepending the intercept column. Labels starting at 0 are shifted up by
// one so they are 1-indexed; negative labels are an error. y may be nil
// for unlabeled data.
func NewDataset(x [][]float64, y []int) (*Dataset, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("no instances: %w", ErrDataFormat)
	}
	m, err := dimension(x)
	if err != nil {
		return nil, err
	}
	z := mat.NewDense(n, m+1, nil)
	for i, xi := range x {
		z.Set(i, 0, 1.0)
		for j, v := range xi {
			z.Set(i, j+1, v)
		}
	}
	d := &Dataset{N: n, M: m, Z: z}
	if y == nil {
		return d, nil
	}
	if len(y) != n {
		return nil, fmt.Errorf("%d labels for %d instances: %w", len(y), n, ErrDimensionMismatch)
	}
	minY, maxY := y[0], y[0]
	for _, v := range y {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}
	if minY < 0 {
		return nil, fmt.Errorf("minimum label %d: %w", minY, ErrLabelValue)
	}
	d.Y = make([]int, n)
	copy(d.Y, y)
	if minY == 0 {
		for i := range d.Y {
			d.Y[i]++
		}
		maxY++
	}
	d.K = maxY
	return d, nil
}

// features returns the raw feature part of row i, without the intercept.
func (d *Dataset) features(i int) []float64 {
	return d.Z.RawRowView(i)[1:]
}

// Kernelize returns a new Dataset whose feature matrix is the kernel
// matrix over the instances of d, with the intercept column prepended and
// m equal to n. With stabilize set, the Cholesky factor of the kernel
// matrix is used in place of the matrix itself; a kernel matrix that is
// not positive definite is an error in that mode.
//
// The receiver is never modified, so a raw Dataset stays valid across
// kernel configurations and cross-validation folds. A nil kernel returns
// d unchanged.
func (d *Dataset) Kernelize(k Kernel, stabilize bool) (*Dataset, error) {
	if k == nil {
		return d, nil
	}
	km := KernelMatrix(k, d)
	n := d.N
	z := mat.NewDense(n, n+1, nil)
	var factor *mat.TriDense
	if stabilize {
		var chol mat.Cholesky
		if !chol.Factorize(km) {
			return nil, fmt.Errorf("kernelize %s: %w", k.Name(), ErrNotPositiveDefinite)
		}
		factor = &mat.TriDense{}
		chol.LTo(factor)
		for i := 0; i < n; i++ {
			z.Set(i, 0, 1.0)
			for j := 0; j < n; j++ {
				z.Set(i, j+1, factor.At(i, j))
			}
		}
	} else {
		for i := 0; i < n; i++ {
			z.Set(i, 0, 1.0)
			for j := 0; j < n; j++ {
				z.Set(i, j+1, km.At(i, j))
			}
		}
	}
	out := &Dataset{
		N:          n,
		M:          n,
		K:          d.K,
		Z:          z,
		Kernel:     k,
		Stabilized: stabilize,
		File:       d.File,
		factor:     factor,
	}
	if d.Y != nil {
		out.Y = make([]int, n)
		copy(out.Y, d.Y)
	}
	return out, nil
}

// dimension returns the common length of the vectors in x, or an error if
// the lengths disagree or x is empty.
func dimension(x [][]float64) (int, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("empty list: %w", ErrDataFormat)
	}
	n := len(x[0])
	for _, xi := range x {
		if n != len(xi) {
			return 0, fmt.Errorf("vector dims: found %d and %d: %w", n, len(xi), ErrDataFormat)
		}
	}
	return n, nil
}

// csrMatrix is a compressed sparse row view of a dense matrix, used by
// the sparse-aware normal-equations assembly.
type csrMatrix struct {
	rows, cols int
	values     []float64
	colIdx     []int
	rowPtr     []int
}

func newCSR(a *mat.Dense) *csrMatrix {
	r, c := a.Dims()
	m := &csrMatrix{rows: r, cols: c, rowPtr: make([]int, r+1)}
	for i := 0; i < r; i++ {
		row := a.RawRowView(i)
		for j, v := range row {
			if v != 0 {
				m.values = append(m.values, v)
				m.colIdx = append(m.colIdx, j)
			}
		}
		m.rowPtr[i+1] = len(m.values)
	}
	return m
}

func (c *csrMatrix) nnz() int { return len(c.values) }

// zeroFraction reports the fraction of exactly-zero entries in a.
func zeroFraction(a *mat.Dense) float64 {
	r, c := a.Dims()
	zeros := 0
	for i := 0; i < r; i++ {
		for _, v := range a.RawRowView(i) {
			if v == 0 {
				zeros++
			}
		}
	}
	return float64(zeros) / float64(r*c)
}
