package dev

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/stellaxu/DEV/pkg/core"
	"github.com/stellaxu/DEV/pkg/dataprep"
	"github.com/stellaxu/DEV/pkg/loader"
	"github.com/stellaxu/DEV/pkg/model"
	"github.com/stellaxu/DEV/pkg/pipeline"
	"github.com/stellaxu/DEV/pkg/stats"
)

const (
	sourceLabel = 1
	targetLabel = 0

	DefaultTrainFraction = 0.8
)

// DefaultDecays is the L2 regularization grid searched for the domain classifier.
var DefaultDecays = []float64{1e-1, 3e-2, 1e-2, 3e-3, 1e-3, 3e-4, 1e-4, 3e-5, 1e-5}

// GridScore is the held-out accuracy of the domain classifier trained with Decay.
type GridScore struct {
	Decay    float64 `json:"decay" yaml:"decay"`
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`
}

// WeightResult carries the importance weights of the validation rows and the
// grid search that produced them.
type WeightResult struct {
	Weights     *mat.VecDense
	Scores      []GridScore
	Best        int
	Classifier  model.Classifier
	SourceCount int
	TargetCount int
	// TrainedSourceCount is the number of source rows the classifier saw,
	// smaller than SourceCount when the source was subsampled.
	TrainedSourceCount int
}

// BestScore returns the grid entry of the selected classifier.
func (r *WeightResult) BestScore() GridScore { return r.Scores[r.Best] }

// WeightEstimator estimates importance weights between a source and a target
// feature distribution with a source-vs-target domain classifier.
type WeightEstimator struct {
	TrainFraction float64
	Workers       int

	// Preprocessing fitted on the classifier's training rows, applied in
	// this order: Impute (a dataprep strategy, "" disables), Clip (lower and
	// upper quantile, empty disables), Standardize.
	Impute      string
	Clip        []float64
	Standardize bool

	decays     []float64
	rng        *rand.Rand
	mlpOptions []model.MLPOption
}

type Option func(*WeightEstimator)

func WithTrainFraction(f float64) Option  { return func(e *WeightEstimator) { e.TrainFraction = f } }
func WithStandardize(b bool) Option       { return func(e *WeightEstimator) { e.Standardize = b } }
func WithWorkers(n int) Option            { return func(e *WeightEstimator) { e.Workers = n } }
func WithImpute(strategy string) Option   { return func(e *WeightEstimator) { e.Impute = strategy } }
func WithClip(lower, upper float64) Option {
	return func(e *WeightEstimator) { e.Clip = []float64{lower, upper} }
}
func WithMLPOptions(o ...model.MLPOption) Option {
	return func(e *WeightEstimator) { e.mlpOptions = append(e.mlpOptions, o...) }
}

// withDecays replaces the regularization grid. Production estimators always
// search DefaultDecays.
func withDecays(d ...float64) Option { return func(e *WeightEstimator) { e.decays = d } }

// NewWeightEstimator creates an estimator drawing all of its randomness from rng.
// Every call to Estimate searches the full DefaultDecays grid.
// The estimator is not safe for concurrent calls to Estimate.
func NewWeightEstimator(rng *rand.Rand, opts ...Option) *WeightEstimator {
	e := &WeightEstimator{
		decays:        append([]float64(nil), DefaultDecays...),
		TrainFraction: DefaultTrainFraction,
		rng:           rng,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// preprocessor builds a fresh, unfitted pipeline for one Estimate call.
func (e *WeightEstimator) preprocessor() (*pipeline.Pipeline, error) {
	var steps []pipeline.Transformer
	if e.Impute != "" {
		im, err := dataprep.NewImputer(e.Impute)
		if err != nil {
			return nil, err
		}
		steps = append(steps, im)
	}
	if len(e.Clip) > 0 {
		if len(e.Clip) != 2 {
			return nil, errors.Errorf("clip needs lower and upper quantiles, got %v", e.Clip)
		}
		steps = append(steps, stats.NewClipper(e.Clip[0], e.Clip[1]))
	}
	if e.Standardize {
		steps = append(steps, stats.NewStandardScaler())
	}
	return pipeline.New(steps...), nil
}

type candidate struct {
	clf *model.MLPClassifier
	acc float64
}

// Estimate trains one domain classifier per decay on source (label 1) and
// target (label 0) rows, keeps the one with the best held-out accuracy and
// returns, for every validation row, p_source/p_target * N_s/N_t where N_s is
// the source size before any subsampling.
func (e *WeightEstimator) Estimate(ctx context.Context, source, target, validation mat.Matrix) (*WeightResult, error) {
	nS, _ := source.Dims()
	nT, _ := target.Dims()
	nV, _ := validation.Dims()
	if nS == 0 || nT == 0 || nV == 0 {
		return nil, errors.Wrapf(ErrInsufficientSamples, "source=%d target=%d validation=%d", nS, nT, nV)
	}
	if err := core.SameWidth(source, target, validation); err != nil {
		return nil, errors.Wrap(err, "source, target and validation features")
	}
	if len(e.decays) == 0 {
		return nil, errors.New("no regularization strengths to search")
	}
	if e.rng == nil {
		return nil, errors.New("nil random source")
	}
	pre, err := e.preprocessor()
	if err != nil {
		return nil, err
	}
	if e.Impute == "" {
		for _, part := range []struct {
			name string
			x    mat.Matrix
		}{
			{"source", source},
			{"target", target},
			{"validation", validation},
		} {
			if n := dataprep.MissingCount(part.x); n > 0 {
				return nil, errors.Wrapf(ErrMissingFeatures, "%d NaN values in %s features and no impute strategy", n, part.name)
			}
		}
	}

	src, err := SubsampleSource(source, nT, e.rng)
	if err != nil {
		return nil, err
	}
	nSrc, d := src.Dims()
	if nSrc != nS {
		log.Debugf("subsampled source from %d to %d rows", nS, nSrc)
	}

	all, err := core.Stack(src, target)
	if err != nil {
		return nil, errors.Wrap(err, "stacking source and target")
	}
	labels := make([]int, 0, nSrc+nT)
	for i := 0; i < nSrc; i++ {
		labels = append(labels, sourceLabel)
	}
	for i := 0; i < nT; i++ {
		labels = append(labels, targetLabel)
	}

	split, err := loader.TrainTestSplit(all, labels, e.TrainFraction, e.rng)
	if err != nil {
		return nil, errors.Wrap(err, "splitting domain classifier data")
	}
	xTrain, xTest, xVal := split.XTrain, split.XTest, mat.Matrix(validation)
	if pre.Len() > 0 {
		if xTrain, err = pre.FitTransform(xTrain); err != nil {
			return nil, errors.Wrap(err, "preprocessing training rows")
		}
		if xTest, err = pre.Transform(xTest); err != nil {
			return nil, errors.Wrap(err, "preprocessing held-out rows")
		}
		if xVal, err = pre.Transform(xVal); err != nil {
			return nil, errors.Wrap(err, "preprocessing validation rows")
		}
	}

	cands, err := e.search(ctx, d, xTrain, split.YTrain, xTest, split.YTest)
	if err != nil {
		return nil, err
	}

	res := &WeightResult{
		Scores:             make([]GridScore, len(cands)),
		SourceCount:        nS,
		TargetCount:        nT,
		TrainedSourceCount: nSrc,
	}
	accs := make([]float64, len(cands))
	for i, c := range cands {
		accs[i] = c.acc
		res.Scores[i] = GridScore{Decay: e.decays[i], Accuracy: c.acc}
		log.WithFields(log.Fields{"decay": e.decays[i], "acc": c.acc}).Info("domain classifier")
	}
	res.Best = selectBest(accs)
	best := cands[res.Best].clf
	res.Classifier = best
	log.WithFields(log.Fields{"decay": e.decays[res.Best], "acc": cands[res.Best].acc}).Info("selected domain classifier")

	proba, err := best.PredictProba(xVal)
	if err != nil {
		return nil, errors.Wrap(err, "scoring validation features")
	}
	if res.Weights, err = importanceWeights(proba, float64(nS)/float64(nT)); err != nil {
		return nil, err
	}
	return res, nil
}

// search trains one classifier per decay and reports their held-out
// accuracies in grid order. Candidate RNGs are split off e.rng before the
// fan-out so results do not depend on scheduling.
func (e *WeightEstimator) search(ctx context.Context, d int, xTrain mat.Matrix, yTrain []int, xTest mat.Matrix, yTest []int) ([]candidate, error) {
	rngs := make([]*rand.Rand, len(e.decays))
	for i := range rngs {
		rngs[i] = rand.New(rand.NewPCG(e.rng.Uint64(), e.rng.Uint64()))
	}

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	cands := make([]candidate, len(e.decays))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, decay := range e.decays {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts := append([]model.MLPOption{model.WithAlpha(decay)}, e.mlpOptions...)
			clf := model.NewMLPClassifier([]int{d, d, 2}, rngs[i], opts...)
			if err := clf.Fit(xTrain, yTrain); err != nil {
				return errors.Wrapf(err, "training domain classifier with decay %g", decay)
			}
			pred, err := clf.Predict(xTest)
			if err != nil {
				return errors.Wrapf(err, "evaluating domain classifier with decay %g", decay)
			}
			cands[i] = candidate{clf: clf, acc: model.Accuracy(yTest, pred)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cands, nil
}

// selectBest returns the index of the highest accuracy. The first of equally
// accurate candidates wins, so grid order breaks ties.
func selectBest(accs []float64) int {
	best := 0
	for i, a := range accs {
		if a > accs[best] {
			best = i
		}
	}
	return best
}

// importanceWeights turns domain classifier probabilities into
// (p_source / p_target) * ratio, one weight per row.
func importanceWeights(proba mat.Matrix, ratio float64) (*mat.VecDense, error) {
	n, _ := proba.Dims()
	w := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		pS, pT := proba.At(i, sourceLabel), proba.At(i, targetLabel)
		if pT == 0 {
			return nil, errors.Wrapf(ErrDegenerateProbability, "validation row %d", i)
		}
		v := pS / pT * ratio
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrDegenerateProbability, "validation row %d has weight %v", i, v)
		}
		w.SetVec(i, v)
	}
	return w, nil
}
