package gensvm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// The loss for instance i is rho_i * (sum_{j != y_i} h(q_ij)^p)^(1/p),
// with h the Huber hinge and q_ij = z_i' V (u_{y_i} - u_j) the error of
// the instance against simplex vertex j. Each iteration replaces every
// h(q)^p term with a quadratic bound a*q^2 - 2*b*q + c tangent at the
// current q, decouples the vertices (the simplex difference vectors
// satisfy dd' <= I since edges have unit length), and minimizes the
// resulting weighted least-squares problem
//
//	(Z' A Z + lambda*J) V = Z' (A Z Vbar + B)
//
// with A diagonal in the per-instance weights and J the identity with the
// intercept entry zeroed. Only a and b - a*q are needed below; the
// constant c never enters the system.

// A dataset counts as zero-heavy when at least half of Z is zeros.
const sparseCutoff = 0.5

// workspace holds the per-run scratch buffers of the optimizer, so one
// training run allocates them once.
type workspace struct {
	ZV    *mat.Dense    // n x (K-1), Z*V for the current V
	B     *mat.Dense    // n x (K-1) majorization linear terms
	Beta  []float64     // K-1 per-instance scratch
	Alpha []float64     // n per-instance quadratic weights
	AZ    *mat.Dense    // n x (m+1), diag(Alpha)*Z
	tmp   *mat.Dense    // (m+1) x (m+1) product scratch
	ZAZ   *mat.SymDense // left-hand side
	ZB    *mat.Dense    // (m+1) x (K-1) right-hand side
	csr   *csrMatrix    // non-nil selects the sparse assembly path
}

func newWorkspace(data *Dataset, k int) *workspace {
	n, mdim := data.N, data.M
	w := &workspace{
		ZV:    mat.NewDense(n, k-1, nil),
		B:     mat.NewDense(n, k-1, nil),
		Beta:  make([]float64, k-1),
		Alpha: make([]float64, n),
		AZ:    mat.NewDense(n, mdim+1, nil),
		tmp:   mat.NewDense(mdim+1, mdim+1, nil),
		ZAZ:   mat.NewSymDense(mdim+1, nil),
		ZB:    mat.NewDense(mdim+1, k-1, nil),
	}
	if zeroFraction(data.Z) >= sparseCutoff {
		w.csr = newCSR(data.Z)
	}
	return w
}

// huber is the Huber-smoothed hinge: linear for q <= -kappa, quadratic on
// (-kappa, 1], zero beyond 1.
func (m *Model) huber(q float64) float64 {
	switch {
	case q <= -m.Kappa:
		return 1.0 - q - (m.Kappa+1.0)/2.0
	case q <= 1.0:
		return (1.0 - q) * (1.0 - q) / (2.0*m.Kappa + 2.0)
	default:
		return 0.0
	}
}

// computeErrors refreshes ZV, Q, H and R from the current V. R marks the
// (instance, vertex) pairs with a nonzero Huber error, own class
// excluded.
func (m *Model) computeErrors(data *Dataset, work *workspace) {
	work.ZV.Mul(data.Z, m.V)
	k := m.K
	for i := 0; i < m.N; i++ {
		zvi := work.ZV.RawRowView(i)
		for j := 0; j < k; j++ {
			base := (i*k + j) * (k - 1)
			q := floats.Dot(zvi, m.UU[base:base+k-1])
			m.Q.Set(i, j, q)
			h := m.huber(q)
			m.H.Set(i, j, h)
			if h > 0 && j != data.Y[i]-1 {
				m.R.Set(i, j, 1.0)
			} else {
				m.R.Set(i, j, 0.0)
			}
		}
	}
}

// majorizeIsSimple reports whether instance i admits the simple bound:
// at most one vertex carries a nonzero Huber error, so the p-norm over
// vertices degenerates to that single error and the closed-form constants
// for h itself apply.
func (m *Model) majorizeIsSimple(i int) bool {
	active := 0
	ri := m.R.RawRowView(i)
	for _, r := range ri {
		if r > 0 {
			active++
		}
	}
	return active <= 1
}

// omega is the Minkowski majorization weight for the general case,
// (1/p) * (sum_j h_ij^p)^(1/p - 1).
func (m *Model) omega(data *Dataset, i int) float64 {
	sum := 0.0
	for j := 0; j < m.K; j++ {
		if j == data.Y[i]-1 {
			continue
		}
		sum += math.Pow(m.H.At(i, j), m.P)
	}
	return (1.0 / m.P) * math.Pow(sum, 1.0/m.P-1.0)
}

// abSimple returns the bound coefficients a and b - a*q for the simple
// case, majorizing h at the current error q. The constants are sharp per
// region of the hinge.
func (m *Model) abSimple(q float64) (a, bAQ float64) {
	switch {
	case q <= -m.Kappa:
		a = 0.25 / (0.5 - m.Kappa/2.0 - q)
		bAQ = 0.5
	case q <= 1.0:
		a = 1.0 / (2.0*m.Kappa + 2.0)
		bAQ = (1.0 - q) * a
	default:
		a = 0.25 / (q + m.Kappa/2.0 - 0.5)
		bAQ = 0.0
	}
	return a, bAQ
}

// abNonSimple returns the bound coefficients for the general case,
// majorizing h^p at the current error q. For q far enough into the linear
// region the sharp power-majorization applies; elsewhere the curvature
// bound a = p(2p-1)/4 * ((kappa+1)/2)^(p-2), the supremum of (h^p)''/2,
// keeps the bound valid at any q. In both branches b - a*q is minus half
// the derivative of h^p at q. p = 2 always takes the curvature bound
// (a = 3/2), as the sharp branch's threshold degenerates there.
func (m *Model) abNonSimple(q float64) (a, bAQ float64) {
	p, kappa := m.P, m.Kappa
	switch {
	case 2.0-p < 1e-2:
		a = 0.25 * p * (2.0*p - 1.0) * math.Pow((kappa+1.0)/2.0, p-2.0)
	case q <= (p+kappa-1.0)/(p-2.0):
		a = 0.25 * p * p * math.Pow(0.5-kappa/2.0-q, p-2.0)
	default:
		a = 0.25 * p * (2.0*p - 1.0) * math.Pow((kappa+1.0)/2.0, p-2.0)
	}
	switch {
	case q <= -kappa:
		bAQ = 0.5 * p * math.Pow(0.5-kappa/2.0-q, p-1.0)
	case q <= 1.0:
		bAQ = p * math.Pow(1.0-q, 2.0*p-1.0) / math.Pow(2.0*kappa+2.0, p)
	default:
		bAQ = 0.0
	}
	return a, bAQ
}

// getAlphaBeta computes the aggregate quadratic weight alpha for instance
// i and fills beta with the instance's K-1 linear term. Both carry the
// instance weight rho_i and the 1/n loss normalization.
func (m *Model) getAlphaBeta(data *Dataset, i int, beta []float64) float64 {
	yi := data.Y[i]
	simple := m.majorizeIsSimple(i)
	om := 1.0
	if !simple {
		om = m.omega(data, i)
	}
	k := m.K
	for c := range beta {
		beta[c] = 0.0
	}
	alpha := 0.0
	for j := 0; j < k; j++ {
		if j == yi-1 {
			continue
		}
		q := m.Q.At(i, j)
		var a, bAQ float64
		if simple {
			a, bAQ = m.abSimple(q)
		} else {
			a, bAQ = m.abNonSimple(q)
		}
		alpha += a
		base := (i*k + j) * (k - 1)
		floats.AddScaled(beta, bAQ, m.UU[base:base+k-1])
	}
	w := m.Rho[i] * om / float64(m.N)
	floats.Scale(w, beta)
	return alpha * w
}

// assembleDense builds Z'AZ and Z'B with dense matrix products.
func (m *Model) assembleDense(data *Dataset, work *workspace) {
	n, cols := data.Z.Dims()
	for i := 0; i < n; i++ {
		zi := data.Z.RawRowView(i)
		azi := work.AZ.RawRowView(i)
		for c := 0; c < cols; c++ {
			azi[c] = work.Alpha[i] * zi[c]
		}
	}
	work.tmp.Mul(data.Z.T(), work.AZ)
	for r := 0; r < cols; r++ {
		for c := r; c < cols; c++ {
			work.ZAZ.SetSym(r, c, work.tmp.At(r, c))
		}
	}
	work.ZB.Mul(data.Z.T(), work.B)
}

// assembleSparse builds the same system walking only the nonzeros of Z.
// Column indices within a CSR row are ascending, so the inner pair loop
// touches only the upper triangle.
func (m *Model) assembleSparse(work *workspace) {
	csr := work.csr
	for r := 0; r < csr.cols; r++ {
		for c := r; c < csr.cols; c++ {
			work.ZAZ.SetSym(r, c, 0.0)
		}
	}
	work.ZB.Zero()
	for i := 0; i < csr.rows; i++ {
		ai := work.Alpha[i]
		bi := work.B.RawRowView(i)
		start, end := csr.rowPtr[i], csr.rowPtr[i+1]
		for p1 := start; p1 < end; p1++ {
			c1, v1 := csr.colIdx[p1], csr.values[p1]
			av1 := ai * v1
			for p2 := p1; p2 < end; p2++ {
				c2 := csr.colIdx[p2]
				work.ZAZ.SetSym(c1, c2, work.ZAZ.At(c1, c2)+av1*csr.values[p2])
			}
			floats.AddScaled(work.ZB.RawRowView(c1), v1, bi)
		}
	}
}

// solveSystem solves the symmetric system ZAZ * X = ZB. A positive
// definite solve is preferred; when the Cholesky factorization fails the
// system may be indefinite and an LU solve is attempted before giving up.
func solveSystem(zaz *mat.SymDense, zb *mat.Dense) (*mat.Dense, error) {
	var x mat.Dense
	var chol mat.Cholesky
	if chol.Factorize(zaz) {
		if err := chol.SolveTo(&x, zb); err == nil {
			return &x, nil
		}
	}
	var lu mat.LU
	lu.Factorize(zaz)
	if err := lu.SolveTo(&x, false, zb); err != nil {
		n, _ := zaz.Dims()
		return nil, fmt.Errorf("solve %dx%d system: %v: %w", n, n, err, ErrSingularSystem)
	}
	return &x, nil
}

// getUpdate performs one majorization step: assemble the weighted normal
// equations from the current Q, H and R (computeErrors must have run for
// the current V) and solve for the next iterate. On success Vbar holds
// the previous V and V the new one.
func (m *Model) getUpdate(data *Dataset, work *workspace) error {
	k := m.K
	for i := 0; i < m.N; i++ {
		alpha := m.getAlphaBeta(data, i, work.Beta)
		work.Alpha[i] = alpha
		zvi := work.ZV.RawRowView(i)
		bi := work.B.RawRowView(i)
		for c := 0; c < k-1; c++ {
			bi[c] = alpha*zvi[c] + work.Beta[c]
		}
	}

	if work.csr != nil {
		m.assembleSparse(work)
	} else {
		m.assembleDense(data, work)
	}

	// Regularization skips the intercept row.
	for r := 1; r <= m.M; r++ {
		work.ZAZ.SetSym(r, r, work.ZAZ.At(r, r)+m.Lambda)
	}

	vnew, err := solveSystem(work.ZAZ, work.ZB)
	if err != nil {
		return err
	}
	m.Vbar.Copy(m.V)
	m.V.Copy(vnew)
	return nil
}
