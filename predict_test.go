package gensvm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPredictLabelsNearestVertex(t *testing.T) {
	u, err := Simplex(3)
	require.NoError(t, err)

	// V maps the two coordinate columns straight through, so each row of z
	// lands on its own simplex coordinates.
	v := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
	})
	z := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		z.Set(i, 0, 1.0)
		z.Set(i, 1, u.At(i, 0)*0.9)
		z.Set(i, 2, u.At(i, 1)*0.9)
	}
	labels, err := PredictLabels(z, v, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, labels)
}

// A point exactly equidistant from two vertices takes the lower label.
// The projection (0.25, x/2) with x = 1/sqrt(12) sits on the bisector of
// vertices 2 and 3, and both distance computations round identically, so
// the tie is exact in floating point, not merely close.
func TestPredictLabelsTieBreaksLow(t *testing.T) {
	v := mat.NewDense(3, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
	})
	x := 1.0 / math.Sqrt(12.0)
	z := mat.NewDense(1, 3, []float64{1.0, 0.25, x / 2.0})
	labels, err := PredictLabels(z, v, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, labels)
}

func TestPredictLabelsDimensionMismatch(t *testing.T) {
	v := mat.NewDense(3, 1, nil)
	z := mat.NewDense(1, 2, nil)
	_, err := PredictLabels(z, v, 2)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestPredictLinearMatchesPredictLabels(t *testing.T) {
	data := monotonicData(t)
	task := NewTask()
	task.Lambda = math.Pow(2, -8)
	model, _, err := Train(data, task)
	require.NoError(t, err)

	want, err := PredictLabels(data.Z, model.V, model.K)
	require.NoError(t, err)
	got, err := Predict(model, nil, data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// Predicting the training instances through the cross-kernel path must
// reproduce the in-sample predictions, plain and stabilized alike.
func TestPredictKernelConsistency(t *testing.T) {
	x := [][]float64{{0, 0}, {1, 1}, {0, 1}, {1, 0}}
	y := []int{1, 1, 2, 2}
	data, err := NewDataset(x, y)
	require.NoError(t, err)

	for _, stabilized := range []bool{false, true} {
		task := NewTask()
		task.Lambda = math.Pow(2, -10)
		task.Kernel, err = NewRBF(1.0)
		require.NoError(t, err)
		task.Stabilized = stabilized

		model, _, err := Train(data, task)
		require.NoError(t, err)

		pred, err := Predict(model, data, data)
		require.NoError(t, err)
		acc, err := Accuracy(pred, data.Y)
		require.NoError(t, err)
		assert.InDelta(t, 100.0-model.TrainingError, acc, 1e-12, "stabilized=%v", stabilized)
	}
}

func TestPredictKernelNeedsTrainingData(t *testing.T) {
	data, err := NewDataset([][]float64{{0}, {1}}, []int{1, 2})
	require.NoError(t, err)
	task := NewTask()
	task.Kernel, err = NewRBF(1.0)
	require.NoError(t, err)
	model, _, err := Train(data, task)
	require.NoError(t, err)

	_, err = Predict(model, nil, data)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]int{1, 2, 3, 1}, []int{1, 2, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 75.0, acc)

	acc, err = Accuracy(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)

	_, err = Accuracy([]int{1}, []int{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}
