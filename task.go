package gensvm

// Task bundles the hyperparameters for a single training run. Grid-search
// or cross-validation orchestrators build one Task per run, hand it to
// Train, and record the returned performance; the orchestration itself
// lives outside this package.
type Task struct {
	ID        int
	Folds     int
	WeightIdx int

	P       float64
	Kappa   float64
	Lambda  float64
	Epsilon float64

	Kernel     Kernel
	Stabilized bool

	TrainData *Dataset
	TestData  *Dataset

	Performance float64
}

// NewTask returns a task with the default parameter values.
func NewTask() *Task {
	return &Task{
		ID:        -1,
		Folds:     10,
		WeightIdx: UnitWeights,
		P:         1.0,
		Kappa:     0.0,
		Lambda:    1.0,
		Epsilon:   1e-6,
	}
}

// Clone returns a deep copy of the task. Kernel variants are value types,
// so the copy carries its own parameters; the datasets are shared by
// reference, as they are between all tasks of a run.
func (t *Task) Clone() *Task {
	nt := *t
	return &nt
}

// ApplyTo copies the task's hyperparameters into the model.
func (t *Task) ApplyTo(m *Model) {
	m.WeightIdx = t.WeightIdx
	m.P = t.P
	m.Kappa = t.Kappa
	m.Lambda = t.Lambda
	m.Epsilon = t.Epsilon
	m.Kernel = t.Kernel
	m.Stabilized = t.Stabilized
}
