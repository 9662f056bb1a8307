package stats

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/stellaxu/DEV/pkg/core"
)

// StandardScaler shifts every column to zero mean and scales it to unit
// standard deviation, using statistics learned by Fit.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.New("scaler: empty X")
	}
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(col, nil)
		// constant columns pass through centered but unscaled
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.fit = true
	return nil
}

func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.fit {
		return nil, errors.New("scaler: not fitted")
	}
	if _, c := X.Dims(); c != len(s.Mean) {
		return nil, errors.Wrapf(core.ErrShape, "scaler: fitted on %d columns, got %d", len(s.Mean), c)
	}
	out := core.Clone(X)
	out.Apply(func(_, j int, v float64) float64 { return (v - s.Mean[j]) / s.Std[j] }, out)
	return out, nil
}

func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
