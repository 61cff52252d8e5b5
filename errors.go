package gensvm

import "errors"

// Sentinel errors returned by this package. Wrapped values carry context;
// match with errors.Is.
var (
	// ErrClassCount is returned when fewer than two classes are present.
	ErrClassCount = errors.New("gensvm: need at least two classes")

	// ErrKernelParam is returned for an unknown kernel kind or an invalid
	// kernel parameter at construction time.
	ErrKernelParam = errors.New("gensvm: invalid kernel")

	// ErrHyperParam is returned when a model hyperparameter is outside its
	// valid range (p in [1,2], kappa > -1, lambda > 0, epsilon > 0).
	ErrHyperParam = errors.New("gensvm: invalid hyperparameter")

	// ErrNotPositiveDefinite is returned when a Cholesky factorization is
	// required but the matrix is not positive definite.
	ErrNotPositiveDefinite = errors.New("gensvm: matrix is not positive definite")

	// ErrSingularSystem is returned when the majorization system cannot be
	// solved by either the definite or the indefinite path.
	ErrSingularSystem = errors.New("gensvm: singular linear system")

	// ErrDataFormat is returned for malformed dataset input: dimension
	// mismatches, missing tokens, unparseable values.
	ErrDataFormat = errors.New("gensvm: malformed data")

	// ErrLabelValue is returned for class labels outside the supported
	// range (negative before shifting).
	ErrLabelValue = errors.New("gensvm: invalid class label")

	// ErrModelFormat is returned for malformed model files.
	ErrModelFormat = errors.New("gensvm: malformed model file")

	// ErrDimensionMismatch is returned when datasets or matrices disagree
	// on their shared dimensions.
	ErrDimensionMismatch = errors.New("gensvm: dimension mismatch")
)
