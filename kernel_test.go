package gensvm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testPoints() [][]float64 {
	return [][]float64{
		{0.0, 1.0, -2.0},
		{1.5, -0.5, 0.25},
		{-1.0, -1.0, 3.0},
		{0.1, 0.2, 0.3},
		{2.0, 0.0, -1.0},
	}
}

func TestKernelConstructorValidation(t *testing.T) {
	_, err := NewRBF(0)
	require.ErrorIs(t, err, ErrKernelParam)
	_, err = NewRBF(-1)
	require.ErrorIs(t, err, ErrKernelParam)
	_, err = NewPolynomial(1.0, 0.0, 0)
	require.ErrorIs(t, err, ErrKernelParam)
	_, err = NewPolynomial(-0.5, 0.0, 2)
	require.ErrorIs(t, err, ErrKernelParam)
	_, err = NewSigmoid(0, 1)
	require.ErrorIs(t, err, ErrKernelParam)
	_, err = ParseKernel("chi2", 1, 0, 2)
	require.ErrorIs(t, err, ErrKernelParam)
}

func TestParseKernelLinear(t *testing.T) {
	for _, name := range []string{"", "linear"} {
		k, err := ParseKernel(name, 1, 0, 2)
		require.NoError(t, err)
		require.Nil(t, k)
	}
}

func TestKernelValues(t *testing.T) {
	x := []float64{1.0, 2.0}
	y := []float64{3.0, -1.0}
	// <x,y> = 1, ||x-y||^2 = 13

	rbf, err := NewRBF(0.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-6.5), rbf.Eval(x, y), 1e-15)

	poly, err := NewPolynomial(2.0, 1.0, 3)
	require.NoError(t, err)
	assert.InDelta(t, 27.0, poly.Eval(x, y), 1e-12)

	sig, err := NewSigmoid(0.5, -0.25)
	require.NoError(t, err)
	assert.InDelta(t, math.Tanh(0.25), sig.Eval(x, y), 1e-15)
}

func TestRBFSelfSimilarity(t *testing.T) {
	for _, gamma := range []float64{1e-3, 0.5, 1.0, 10.0} {
		rbf, err := NewRBF(gamma)
		require.NoError(t, err)
		for _, x := range testPoints() {
			assert.Equal(t, 1.0, rbf.Eval(x, x), "gamma=%v", gamma)
		}
	}
}

func TestKernelMatrixSymmetric(t *testing.T) {
	data, err := NewDataset(testPoints(), []int{1, 2, 1, 2, 1})
	require.NoError(t, err)

	rbf, _ := NewRBF(0.7)
	poly, _ := NewPolynomial(0.5, 1.0, 2)
	sig, _ := NewSigmoid(0.3, 0.1)
	for _, k := range []Kernel{rbf, poly, sig} {
		km := KernelMatrix(k, data)
		n, _ := km.Dims()
		require.Equal(t, data.N, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				assert.Equal(t, km.At(i, j), km.At(j, i), "%s (%d,%d)", k.Name(), i, j)
			}
		}
	}
}

func TestCrossKernelMatrixAgainstSelf(t *testing.T) {
	data, err := NewDataset(testPoints(), nil)
	require.NoError(t, err)
	rbf, _ := NewRBF(0.7)

	km := KernelMatrix(rbf, data)
	cross, err := CrossKernelMatrix(rbf, data, data)
	require.NoError(t, err)
	for i := 0; i < data.N; i++ {
		for j := 0; j < data.N; j++ {
			assert.InDelta(t, km.At(i, j), cross.At(i, j), 1e-15)
		}
	}
}

func TestCrossKernelMatrixDimensionMismatch(t *testing.T) {
	a, err := NewDataset([][]float64{{1, 2}}, nil)
	require.NoError(t, err)
	b, err := NewDataset([][]float64{{1, 2, 3}}, nil)
	require.NoError(t, err)
	rbf, _ := NewRBF(1)
	_, err = CrossKernelMatrix(rbf, a, b)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestKernelizeIsPure(t *testing.T) {
	data, err := NewDataset(testPoints(), []int{1, 2, 1, 2, 1})
	require.NoError(t, err)
	before := mat.DenseCopyOf(data.Z)

	rbf, _ := NewRBF(0.7)
	kd, err := data.Kernelize(rbf, false)
	require.NoError(t, err)

	// The receiver is untouched; the result has kernel-rank dimensions
	// and a fresh intercept column.
	require.True(t, mat.Equal(before, data.Z))
	require.Equal(t, 3, data.M)
	require.Equal(t, data.N, kd.M)
	require.Equal(t, data.N, kd.N)
	for i := 0; i < kd.N; i++ {
		assert.Equal(t, 1.0, kd.Z.At(i, 0))
	}

	km := KernelMatrix(rbf, data)
	for i := 0; i < kd.N; i++ {
		for j := 0; j < kd.N; j++ {
			assert.Equal(t, km.At(i, j), kd.Z.At(i, j+1))
		}
	}
}

func TestKernelizeLinearPassthrough(t *testing.T) {
	data, err := NewDataset(testPoints(), []int{1, 2, 1, 2, 1})
	require.NoError(t, err)
	kd, err := data.Kernelize(nil, false)
	require.NoError(t, err)
	require.Same(t, data, kd)
}

func TestKernelizeStabilized(t *testing.T) {
	data, err := NewDataset(testPoints(), []int{1, 2, 1, 2, 1})
	require.NoError(t, err)
	rbf, _ := NewRBF(0.7)

	kd, err := data.Kernelize(rbf, true)
	require.NoError(t, err)
	require.True(t, kd.Stabilized)
	require.NotNil(t, kd.factor)

	// The factor reconstructs the kernel matrix: L*L' == K.
	var rec mat.Dense
	rec.Mul(kd.factor, kd.factor.T())
	km := KernelMatrix(rbf, data)
	n := data.N
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, km.At(i, j), rec.At(i, j), 1e-10)
		}
	}

	// Z holds the factor, not the kernel matrix.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.Equal(t, kd.factor.At(i, j), kd.Z.At(i, j+1))
		}
	}
}
