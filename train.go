package gensvm

import (
	"fmt"
	"io"
	"log"
	"math"
)

// Status reports how a training run terminated.
type Status int

const (
	// Converged means the relative loss improvement fell below epsilon.
	Converged Status = iota
	// MaxIterReached means the iteration cap was hit first. The returned
	// parameters are still usable; the caller decides whether to treat
	// this as failure.
	MaxIterReached
)

func (s Status) String() string {
	if s == Converged {
		return "converged"
	}
	return "maximum iterations reached"
}

// Result describes a finished training run.
type Result struct {
	Status     Status
	Iterations int
	Loss       float64
}

type config struct {
	logger  *log.Logger
	maxIter int
	burnIn  int
}

// Option configures a training run.
type Option func(*config)

// WithLogger directs per-iteration progress to l. The default discards
// all output.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMaxIter caps the number of majorization iterations.
func WithMaxIter(n int) Option {
	return func(c *config) { c.maxIter = n }
}

// WithBurnIn sets the iteration after which step doubling starts.
func WithBurnIn(n int) Option {
	return func(c *config) { c.burnIn = n }
}

func newConfig(opts []Option) *config {
	c := &config{
		logger:  log.New(io.Discard, "", 0),
		maxIter: 1_000_000,
		burnIn:  50,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Train fits a model to data under the task's hyperparameters. For a
// non-linear kernel the data is kernelized first; data itself is never
// modified, so the same raw dataset can back many tasks. The training
// error (percent misclassified on the training set) is recorded on the
// returned model.
func Train(data *Dataset, task *Task, opts ...Option) (*Model, *Result, error) {
	model := NewModel()
	task.ApplyTo(model)
	model.DataFile = data.File

	tdata, err := data.Kernelize(task.Kernel, task.Stabilized)
	if err != nil {
		return nil, nil, err
	}
	res, err := Optimize(model, tdata, opts...)
	if err != nil {
		return nil, nil, err
	}

	pred, err := PredictLabels(tdata.Z, model.V, model.K)
	if err != nil {
		return nil, nil, err
	}
	acc, err := Accuracy(pred, tdata.Y)
	if err != nil {
		return nil, nil, err
	}
	model.TrainingError = 100.0 - acc
	return model, res, nil
}

// Optimize runs the majorization loop on a model that shares dimensions
// with data (data must already be in the model's space; use Train for
// automatic kernelization). On return the model's V holds the parameters
// of the terminal state, whether converged or capped.
func Optimize(model *Model, data *Dataset, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	if data.Y == nil {
		return nil, fmt.Errorf("optimize: unlabeled data: %w", ErrLabelValue)
	}
	if data.K < 2 {
		return nil, ErrClassCount
	}
	if err := model.checkParams(); err != nil {
		return nil, err
	}
	if err := model.Reshape(data.N, data.M, data.K); err != nil {
		return nil, err
	}
	model.Kernel = data.Kernel
	model.Stabilized = data.Stabilized
	model.factor = data.factor
	if err := model.initWeights(data); err != nil {
		return nil, err
	}
	model.simplexDiff(data)

	work := newWorkspace(data, model.K)
	if work.csr != nil {
		cfg.logger.Printf("using sparse assembly (%d nonzeros of %d)",
			work.csr.nnz(), data.N*(data.M+1))
	}

	// V starts at zero; the first loss evaluation also primes Q, H and R
	// for the first update.
	loss := model.loss(data, work)
	prev := math.Inf(1)
	it := 0
	status := MaxIterReached
	for it < cfg.maxIter {
		if err := model.getUpdate(data, work); err != nil {
			return nil, err
		}
		if it > cfg.burnIn {
			model.stepDouble()
		}
		prev = loss
		loss = model.loss(data, work)
		it++
		if it%100 == 0 {
			cfg.logger.Printf("iter %d, loss %.12f", it, loss)
		}
		if relativeConverged(prev, loss, model.Epsilon) {
			status = Converged
			break
		}
	}
	cfg.logger.Printf("%s after %d iterations, loss %.12f", status, it, loss)
	return &Result{Status: status, Iterations: it, Loss: loss}, nil
}

// relativeConverged reports whether the loss improvement relative to the
// previous value fell below eps, guarding against a near-zero previous
// loss.
func relativeConverged(prev, cur, eps float64) bool {
	if math.IsInf(prev, 1) {
		return false
	}
	if prev < 1e-15 {
		return true
	}
	return math.Abs(prev-cur)/prev < eps
}

// loss computes the regularized, Huber-smoothed, weighted loss at the
// current V, refreshing Q, H and R as a side effect.
func (m *Model) loss(data *Dataset, work *workspace) float64 {
	m.computeErrors(data, work)
	value := 0.0
	for i := 0; i < m.N; i++ {
		row := 0.0
		for j := 0; j < m.K; j++ {
			if j == data.Y[i]-1 {
				continue
			}
			row += math.Pow(m.H.At(i, j), m.P)
		}
		value += m.Rho[i] * math.Pow(row, 1.0/m.P)
	}
	value /= float64(m.N)

	reg := 0.0
	for r := 1; r <= m.M; r++ {
		vr := m.V.RawRowView(r)
		for _, v := range vr {
			reg += v * v
		}
	}
	return value + m.Lambda*reg
}

// stepDouble pushes the iterate twice as far along the update direction,
// V <- 2V - Vbar. With a quadratic majorizer the doubled step cannot
// increase the loss, and it roughly halves the iterations to converge.
func (m *Model) stepDouble() {
	rows, cols := m.V.Dims()
	for r := 0; r < rows; r++ {
		vr := m.V.RawRowView(r)
		br := m.Vbar.RawRowView(r)
		for c := 0; c < cols; c++ {
			vr[c] = 2.0*vr[c] - br[c]
		}
	}
}
