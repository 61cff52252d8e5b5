package gensvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewDatasetAugmentsIntercept(t *testing.T) {
	d, err := NewDataset([][]float64{{2, 3}, {4, 5}}, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, 2, d.N)
	require.Equal(t, 2, d.M)
	_, cols := d.Z.Dims()
	require.Equal(t, d.M+1, cols)
	for i := 0; i < d.N; i++ {
		assert.Equal(t, 1.0, d.Z.At(i, 0))
	}
	assert.Equal(t, 2.0, d.Z.At(0, 1))
	assert.Equal(t, 5.0, d.Z.At(1, 2))
}

func TestNewDatasetShiftsZeroBasedLabels(t *testing.T) {
	d, err := NewDataset([][]float64{{1}, {2}, {3}}, []int{0, 1, 2})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, d.Y)
	require.Equal(t, 3, d.K)
}

func TestNewDatasetKeepsOneBasedLabels(t *testing.T) {
	d, err := NewDataset([][]float64{{1}, {2}, {3}}, []int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, d.Y)
	require.Equal(t, 3, d.K)
}

func TestNewDatasetRejectsNegativeLabels(t *testing.T) {
	_, err := NewDataset([][]float64{{1}, {2}}, []int{-1, 1})
	require.ErrorIs(t, err, ErrLabelValue)
}

func TestNewDatasetRejectsRaggedRows(t *testing.T) {
	_, err := NewDataset([][]float64{{1, 2}, {3}}, []int{1, 2})
	require.ErrorIs(t, err, ErrDataFormat)
}

func TestNewDatasetRejectsLabelCountMismatch(t *testing.T) {
	_, err := NewDataset([][]float64{{1}, {2}}, []int{1})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCSRMatchesDense(t *testing.T) {
	z := mat.NewDense(3, 4, []float64{
		1, 0, 0, 2,
		1, 3, 0, 0,
		1, 0, 0, 0,
	})
	c := newCSR(z)
	require.Equal(t, 5, c.nnz())
	require.Equal(t, []int{0, 2, 4, 5}, c.rowPtr)
	require.Equal(t, []int{0, 3, 0, 1, 0}, c.colIdx)
	require.Equal(t, []float64{1, 2, 1, 3, 1}, c.values)
	assert.InDelta(t, 7.0/12.0, zeroFraction(z), 1e-15)
}
