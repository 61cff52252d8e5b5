package gensvm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kernel computes a similarity between two feature vectors. A linear
// kernel is represented by the absence of a Kernel (nil): callers skip
// the kernel transformation entirely in that case.
type Kernel interface {
	// Eval returns the kernel value for two vectors of equal length.
	Eval(x, y []float64) float64
	// Name identifies the kernel kind ("rbf", "poly", "sigmoid").
	Name() string
}

// RBF is the radial basis function kernel exp(-gamma*||x-y||^2).
type RBF struct {
	Gamma float64
}

// NewRBF validates gamma and returns an RBF kernel.
func NewRBF(gamma float64) (Kernel, error) {
	if gamma <= 0 {
		return nil, fmt.Errorf("rbf: gamma = %v: %w", gamma, ErrKernelParam)
	}
	return RBF{Gamma: gamma}, nil
}

// Eval implements Kernel.
func (k RBF) Eval(x, y []float64) float64 {
	d := floats.Distance(x, y, 2)
	return math.Exp(-k.Gamma * d * d)
}

// Name implements Kernel.
func (RBF) Name() string { return "rbf" }

// Polynomial is the kernel (gamma*<x,y> + coef)^degree.
type Polynomial struct {
	Gamma  float64
	Coef   float64
	Degree int
}

// NewPolynomial validates the parameters and returns a polynomial kernel.
// Fractional degrees are truncated by the caller passing an int.
func NewPolynomial(gamma, coef float64, degree int) (Kernel, error) {
	if gamma <= 0 {
		return nil, fmt.Errorf("poly: gamma = %v: %w", gamma, ErrKernelParam)
	}
	if degree < 1 {
		return nil, fmt.Errorf("poly: degree = %d: %w", degree, ErrKernelParam)
	}
	return Polynomial{Gamma: gamma, Coef: coef, Degree: degree}, nil
}

// Eval implements Kernel.
func (k Polynomial) Eval(x, y []float64) float64 {
	return math.Pow(k.Gamma*floats.Dot(x, y)+k.Coef, float64(k.Degree))
}

// Name implements Kernel.
func (Polynomial) Name() string { return "poly" }

// Sigmoid is the kernel tanh(gamma*<x,y> + coef).
type Sigmoid struct {
	Gamma float64
	Coef  float64
}

// NewSigmoid validates gamma and returns a sigmoid kernel.
func NewSigmoid(gamma, coef float64) (Kernel, error) {
	if gamma <= 0 {
		return nil, fmt.Errorf("sigmoid: gamma = %v: %w", gamma, ErrKernelParam)
	}
	return Sigmoid{Gamma: gamma, Coef: coef}, nil
}

// Eval implements Kernel.
func (k Sigmoid) Eval(x, y []float64) float64 {
	return math.Tanh(k.Gamma*floats.Dot(x, y) + k.Coef)
}

// Name implements Kernel.
func (Sigmoid) Name() string { return "sigmoid" }

// ParseKernel constructs a kernel from a command-line style name and
// parameter set. The names "" and "linear" yield a nil Kernel.
func ParseKernel(name string, gamma, coef float64, degree int) (Kernel, error) {
	switch name {
	case "", "linear":
		return nil, nil
	case "rbf":
		return NewRBF(gamma)
	case "poly":
		return NewPolynomial(gamma, coef, degree)
	case "sigmoid":
		return NewSigmoid(gamma, coef)
	default:
		return nil, fmt.Errorf("kernel %q: %w", name, ErrKernelParam)
	}
}

// KernelMatrix computes the symmetric kernel matrix over the raw features
// of data. Only the upper triangle is evaluated; the lower triangle
// mirrors it.
func KernelMatrix(k Kernel, data *Dataset) *mat.SymDense {
	n := data.N
	km := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		xi := data.features(i)
		for j := i; j < n; j++ {
			km.SetSym(i, j, k.Eval(xi, data.features(j)))
		}
	}
	return km
}

// CrossKernelMatrix computes the kernel values between every test
// instance and every training instance. The result has one row per test
// instance and one column per training instance; there is no symmetry to
// exploit.
func CrossKernelMatrix(k Kernel, train, test *Dataset) (*mat.Dense, error) {
	if train.M != test.M {
		return nil, fmt.Errorf("cross kernel: train m = %d, test m = %d: %w",
			train.M, test.M, ErrDimensionMismatch)
	}
	km := mat.NewDense(test.N, train.N, nil)
	for i := 0; i < test.N; i++ {
		xi := test.features(i)
		for j := 0; j < train.N; j++ {
			km.Set(i, j, k.Eval(xi, train.features(j)))
		}
	}
	return km, nil
}
