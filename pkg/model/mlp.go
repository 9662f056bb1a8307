package model

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/stellaxu/DEV/pkg/NeuralNetwork"
	"github.com/stellaxu/DEV/pkg/core"
	"github.com/stellaxu/DEV/pkg/loader"
	"github.com/stellaxu/DEV/pkg/optim"
)

const (
	SolverAdam = "adam"
	SolverSGD  = "sgd"
)

// MLPClassifier is a feed-forward network with ReLU hidden layers and a
// softmax output layer, trained with mini-batch gradient descent on the
// cross-entropy loss plus an L2 penalty of strength Alpha.
type MLPClassifier struct {
	HiddenLayerSizes []int
	NClasses         int
	Alpha            float64
	LearningRate     float64
	Epochs           int
	BatchSize        int
	Solver           string
	// Training stops once the epoch loss has not improved by Tol for
	// NoImproveEpochs consecutive epochs.
	Tol             float64
	NoImproveEpochs int

	rng     *rand.Rand
	weights []*mat.Dense // layer l maps width[l] -> width[l+1]
	biases  [][]float64
	nIn     int
	loss    float64
	epochs  int
}

type MLPOption func(*MLPClassifier)

func WithAlpha(a float64) MLPOption         { return func(m *MLPClassifier) { m.Alpha = a } }
func WithLearningRate(lr float64) MLPOption { return func(m *MLPClassifier) { m.LearningRate = lr } }
func WithEpochs(n int) MLPOption            { return func(m *MLPClassifier) { m.Epochs = n } }
func WithBatchSize(n int) MLPOption         { return func(m *MLPClassifier) { m.BatchSize = n } }
func WithSolver(s string) MLPOption         { return func(m *MLPClassifier) { m.Solver = s } }

// NewMLPClassifier creates an untrained network. rng drives weight
// initialization and mini-batch shuffling and must not be shared with
// goroutines training other networks.
func NewMLPClassifier(hidden []int, rng *rand.Rand, opts ...MLPOption) *MLPClassifier {
	m := &MLPClassifier{
		HiddenLayerSizes: append([]int(nil), hidden...),
		NClasses:         2,
		Alpha:            1e-4,
		LearningRate:     1e-3,
		Epochs:           200,
		BatchSize:        200,
		Solver:           SolverAdam,
		Tol:              1e-4,
		NoImproveEpochs:  10,
		rng:              rng,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Loss returns the training loss of the last epoch.
func (m *MLPClassifier) Loss() float64 { return m.loss }

// EpochsRun returns the number of epochs the last Fit ran before stopping.
func (m *MLPClassifier) EpochsRun() int { return m.epochs }

func (m *MLPClassifier) init(nIn int) {
	widths := append(append([]int{nIn}, m.HiddenLayerSizes...), m.NClasses)
	m.nIn = nIn
	m.weights = make([]*mat.Dense, len(widths)-1)
	m.biases = make([][]float64, len(widths)-1)
	for l := range m.weights {
		fanIn, fanOut := widths[l], widths[l+1]
		// Glorot uniform, biases drawn from the same range.
		bound := math.Sqrt(6 / float64(fanIn+fanOut))
		w := make([]float64, fanIn*fanOut)
		for i := range w {
			w[i] = (2*m.rng.Float64() - 1) * bound
		}
		b := make([]float64, fanOut)
		for i := range b {
			b[i] = (2*m.rng.Float64() - 1) * bound
		}
		m.weights[l] = mat.NewDense(fanIn, fanOut, w)
		m.biases[l] = b
	}
}

func (m *MLPClassifier) optimizer() (optim.Optimizer, error) {
	switch m.Solver {
	case SolverAdam, "":
		return optim.NewAdam(m.LearningRate), nil
	case SolverSGD:
		return optim.NewSGD(m.LearningRate), nil
	default:
		return nil, errors.Errorf("unknown solver %q", m.Solver)
	}
}

// forward returns the pre-activations and activations of every layer.
// acts[0] is the input and acts[len(acts)-1] holds softmax probabilities.
func (m *MLPClassifier) forward(X mat.Matrix) (zs, acts []*mat.Dense) {
	acts = []*mat.Dense{core.Clone(X)}
	last := len(m.weights) - 1
	for l, w := range m.weights {
		z := &mat.Dense{}
		z.Mul(acts[l], w)
		b := m.biases[l]
		z.Apply(func(_, j int, v float64) float64 { return v + b[j] }, z)
		zs = append(zs, z)

		a := core.Clone(z)
		if l == last {
			NeuralNetwork.Softmax(a)
		} else {
			NeuralNetwork.ReLUInPlace(a)
		}
		acts = append(acts, a)
	}
	return zs, acts
}

// step runs one forward/backward pass over a mini-batch and returns its loss.
func (m *MLPClassifier) step(X *mat.Dense, y []int, opt optim.Optimizer) float64 {
	zs, acts := m.forward(X)
	loss, delta := NeuralNetwork.CrossEntropy(y, acts[len(acts)-1])

	n := float64(len(y))
	params := make([][]float64, 0, 2*len(m.weights))
	grads := make([][]float64, 0, 2*len(m.weights))
	penalty := 0.0
	for l := len(m.weights) - 1; l >= 0; l-- {
		w := m.weights[l]
		gW := &mat.Dense{}
		gW.Mul(acts[l].T(), delta)
		reg := &mat.Dense{}
		reg.Scale(m.Alpha/n, w)
		gW.Add(gW, reg)
		raw := w.RawMatrix().Data
		penalty += floats.Dot(raw, raw)

		_, width := delta.Dims()
		gb := make([]float64, width)
		for j := range gb {
			gb[j] = mat.Sum(delta.ColView(j))
		}

		if l > 0 {
			next := &mat.Dense{}
			next.Mul(delta, w.T())
			NeuralNetwork.MaskReLU(next, zs[l-1])
			delta = next
		}

		params = append(params, raw, m.biases[l])
		grads = append(grads, gW.RawMatrix().Data, gb)
	}
	opt.Step(params, grads)
	return loss + 0.5*m.Alpha*penalty/n
}

// Fit trains the network from scratch on X with labels y in [0, NClasses).
func (m *MLPClassifier) Fit(X mat.Matrix, y []int) error {
	n, d := X.Dims()
	if n == 0 {
		return errors.New("mlp: empty X")
	}
	if n != len(y) {
		return errors.Wrapf(core.ErrShape, "mlp: %d rows but %d labels", n, len(y))
	}
	for i, v := range y {
		if v < 0 || v >= m.NClasses {
			return errors.Errorf("mlp: label %d at row %d outside [0, %d)", v, i, m.NClasses)
		}
	}
	if m.rng == nil {
		return errors.New("mlp: nil random source")
	}
	opt, err := m.optimizer()
	if err != nil {
		return errors.Wrap(err, "mlp")
	}

	m.init(d)
	best := math.Inf(1)
	stale := 0
	m.epochs = 0
	for ep := 0; ep < m.Epochs; ep++ {
		total := 0.0
		for _, batch := range loader.Batches(m.rng.Perm(n), m.BatchSize) {
			yb := make([]int, len(batch))
			for i, j := range batch {
				yb[i] = y[j]
			}
			total += m.step(core.SelectRows(X, batch), yb, opt) * float64(len(batch))
		}
		m.loss = total / float64(n)
		m.epochs = ep + 1

		if m.loss > best-m.Tol {
			stale++
		} else {
			stale = 0
		}
		if m.loss < best {
			best = m.loss
		}
		if m.NoImproveEpochs > 0 && stale >= m.NoImproveEpochs {
			break
		}
	}
	return nil
}

// PredictProba returns the softmax output for every row of X.
func (m *MLPClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if m.weights == nil {
		return nil, errors.New("mlp: model is not fitted")
	}
	n, d := X.Dims()
	if n == 0 {
		return nil, errors.New("mlp: empty X")
	}
	if d != m.nIn {
		return nil, errors.Wrapf(core.ErrShape, "mlp: fitted on %d features, got %d", m.nIn, d)
	}
	_, acts := m.forward(X)
	return acts[len(acts)-1], nil
}

// Predict returns the most probable class of every row of X.
func (m *MLPClassifier) Predict(X mat.Matrix) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return ArgMaxRows(proba), nil
}
