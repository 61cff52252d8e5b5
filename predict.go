package gensvm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PredictLabels projects the rows of z into simplex space via z*v and
// assigns each row the 1-indexed label of the nearest simplex vertex
// under the Euclidean norm over the K-1 simplex coordinates. Exact ties
// go to the lowest vertex index.
//
// z must be in the model's space: one row per instance, with the
// intercept column first, and as many columns as v has rows.
func PredictLabels(z mat.Matrix, v *mat.Dense, k int) ([]int, error) {
	n, cols := z.Dims()
	vrows, _ := v.Dims()
	if cols != vrows {
		return nil, fmt.Errorf("predict: z has %d columns, V has %d rows: %w",
			cols, vrows, ErrDimensionMismatch)
	}
	u, err := Simplex(k)
	if err != nil {
		return nil, err
	}
	var zv mat.Dense
	zv.Mul(z, v)

	labels := make([]int, n)
	s := make([]float64, k-1)
	for i := 0; i < n; i++ {
		zvi := zv.RawRowView(i)
		best := 0
		minDist := math.Inf(1)
		for j := 0; j < k; j++ {
			uj := u.RawRowView(j)
			floats.SubTo(s, zvi, uj)
			d := floats.Norm(s, 2)
			if d < minDist {
				minDist = d
				best = j + 1
			}
		}
		labels[i] = best
	}
	return labels, nil
}

// Predict classifies the instances of test with a trained model. For a
// linear model test's raw features are used directly. For a kernel model
// the cross-kernel matrix between test and the original (raw) training
// instances maps test into the training kernel space, consistent with how
// the model was fit; in stabilized mode the cross matrix is additionally
// rotated into the Cholesky-factored basis.
func Predict(model *Model, train, test *Dataset) ([]int, error) {
	if model.Kernel == nil {
		if test.M != model.M {
			return nil, fmt.Errorf("predict: test m = %d, model m = %d: %w",
				test.M, model.M, ErrDimensionMismatch)
		}
		return PredictLabels(test.Z, model.V, model.K)
	}

	if train == nil {
		return nil, fmt.Errorf("predict: kernel model needs the training instances: %w",
			ErrDimensionMismatch)
	}
	if train.N != model.M {
		return nil, fmt.Errorf("predict: model rank %d, train n = %d: %w",
			model.M, train.N, ErrDimensionMismatch)
	}
	cross, err := CrossKernelMatrix(model.Kernel, train, test)
	if err != nil {
		return nil, err
	}
	if model.Stabilized {
		// Training used the factor L with K = L L'. A test row k2 maps to
		// x with x L' = k2, so solve L x' = k2' for all rows at once.
		var xt mat.Dense
		if err := xt.Solve(model.factor, cross.T()); err != nil {
			return nil, fmt.Errorf("predict: map to factored basis: %v: %w", err, ErrSingularSystem)
		}
		cross = mat.DenseCopyOf(xt.T())
	}

	z := mat.NewDense(test.N, model.M+1, nil)
	for i := 0; i < test.N; i++ {
		z.Set(i, 0, 1.0)
		for j := 0; j < model.M; j++ {
			z.Set(i, j+1, cross.At(i, j))
		}
	}
	return PredictLabels(z, model.V, model.K)
}

// Accuracy returns the percentage of predictions equal to the known
// labels.
func Accuracy(pred, truth []int) (float64, error) {
	if len(pred) != len(truth) {
		return 0, fmt.Errorf("accuracy: %d predictions, %d labels: %w",
			len(pred), len(truth), ErrDimensionMismatch)
	}
	if len(pred) == 0 {
		return 0, nil
	}
	correct := 0
	for i := range pred {
		if pred[i] == truth[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred)) * 100.0, nil
}
