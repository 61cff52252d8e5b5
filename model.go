package gensvm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Weight modes for the per-instance loss weights rho.
const (
	// UnitWeights gives every instance the same weight.
	UnitWeights = 1
	// GroupWeights weighs each instance inversely to its class frequency,
	// rho_i = n / (n_k * K).
	GroupWeights = 2
)

// Model holds the hyperparameters and parameter matrices of a single
// GenSVM instance, plus the per-iteration buffers of the optimizer.
//
// V is the augmented weight matrix (m+1) x (K-1): its first row is the
// intercept t, the remaining rows the weight matrix W. V is the quantity
// optimized; Vbar keeps the previous iterate. Q, H and R are fully
// recomputed from the current V each iteration and carry no state across
// iterations.
type Model struct {
	WeightIdx int
	K, N, M   int

	P       float64 // Lp-norm exponent over the vertex errors, in [1, 2]
	Kappa   float64 // Huber hinge transition point, > -1
	Lambda  float64 // regularization strength
	Epsilon float64 // relative-improvement stopping tolerance

	Kernel     Kernel
	Stabilized bool

	V    *mat.Dense // (m+1) x (K-1) augmented weights
	Vbar *mat.Dense // previous iterate
	U    *mat.Dense // K x (K-1) simplex matrix
	UU   []float64  // n*K*(K-1) simplex difference tensor
	Q    *mat.Dense // n x K simplex-space errors
	H    *mat.Dense // n x K Huber-weighted errors
	R    *mat.Dense // n x K 0-1 activity indicators
	Rho  []float64  // n instance weights

	// TrainingError is the percentage of misclassified training instances
	// after training.
	TrainingError float64

	// DataFile is the origin of the training data, for model files.
	DataFile string

	factor *mat.TriDense // kernel Cholesky factor in stabilized mode
}

// NewModel returns a model with the default hyperparameters: p = 1,
// lambda = 2^-8, kappa = 0, epsilon = 1e-6, unit instance weights and a
// linear kernel.
func NewModel() *Model {
	return &Model{
		WeightIdx: UnitWeights,
		P:         1.0,
		Lambda:    math.Pow(2, -8),
		Kappa:     0.0,
		Epsilon:   1e-6,
	}
}

// Reshape (re)allocates every dimension-dependent buffer of the model for
// the given instance count, feature count and class count, and rebuilds
// the simplex matrix. It is the single entry point for sizing the model;
// it must be called again whenever (n, m, K) change, notably after
// kernelization changes m.
func (m *Model) Reshape(n, mdim, k int) error {
	if n < 1 || mdim < 1 {
		return fmt.Errorf("reshape to n = %d, m = %d: %w", n, mdim, ErrDimensionMismatch)
	}
	u, err := Simplex(k)
	if err != nil {
		return err
	}
	m.N, m.M, m.K = n, mdim, k
	m.U = u
	m.V = mat.NewDense(mdim+1, k-1, nil)
	m.Vbar = mat.NewDense(mdim+1, k-1, nil)
	m.UU = make([]float64, n*k*(k-1))
	m.Q = mat.NewDense(n, k, nil)
	m.H = mat.NewDense(n, k, nil)
	m.R = mat.NewDense(n, k, nil)
	m.Rho = make([]float64, n)
	return nil
}

// W returns the weight part of V (the intercept row excluded) as a view.
func (m *Model) W() mat.Matrix {
	return m.V.Slice(1, m.M+1, 0, m.K-1)
}

// Intercept returns a copy of the translation vector t, the first row of V.
func (m *Model) Intercept() []float64 {
	return mat.Row(nil, 0, m.V)
}

// checkParams validates the hyperparameter ranges.
func (m *Model) checkParams() error {
	switch {
	case m.P < 1.0 || m.P > 2.0:
		return fmt.Errorf("p = %v, want [1, 2]: %w", m.P, ErrHyperParam)
	case m.Kappa <= -1.0:
		return fmt.Errorf("kappa = %v, want > -1: %w", m.Kappa, ErrHyperParam)
	case m.Lambda <= 0:
		return fmt.Errorf("lambda = %v, want > 0: %w", m.Lambda, ErrHyperParam)
	case m.Epsilon <= 0:
		return fmt.Errorf("epsilon = %v, want > 0: %w", m.Epsilon, ErrHyperParam)
	}
	if m.WeightIdx != UnitWeights && m.WeightIdx != GroupWeights {
		return fmt.Errorf("weight_idx = %d: %w", m.WeightIdx, ErrHyperParam)
	}
	return nil
}

// initWeights fills rho according to the weight mode.
func (m *Model) initWeights(data *Dataset) error {
	switch m.WeightIdx {
	case UnitWeights:
		for i := range m.Rho {
			m.Rho[i] = 1.0
		}
	case GroupWeights:
		counts := make([]int, m.K)
		for _, yi := range data.Y {
			counts[yi-1]++
		}
		for i, yi := range data.Y {
			m.Rho[i] = float64(m.N) / float64(counts[yi-1]*m.K)
		}
	default:
		return fmt.Errorf("weight_idx = %d: %w", m.WeightIdx, ErrHyperParam)
	}
	return nil
}

// simplexDiff precomputes the difference tensor UU, with
// UU[i][j][:] = U[y_i-1][:] - U[j][:]. The tensor depends only on the
// labels and the simplex, so it is built once per dataset and invariant
// across iterations.
func (m *Model) simplexDiff(data *Dataset) {
	k := m.K
	for i := 0; i < m.N; i++ {
		yrow := m.U.RawRowView(data.Y[i] - 1)
		for j := 0; j < k; j++ {
			urow := m.U.RawRowView(j)
			base := (i*k + j) * (k - 1)
			for c := 0; c < k-1; c++ {
				m.UU[base+c] = yrow[c] - urow[c]
			}
		}
	}
}
