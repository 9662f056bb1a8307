package dataprep

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/stellaxu/DEV/pkg/core"
)

// Strategies accepted by NewImputer.
const (
	ImputeMean   = "mean"
	ImputeMedian = "median"
	ImputeMode   = "mode"
	ImputeZero   = "zero"
)

// Imputer replaces missing (NaN) feature values with a per-column value
// learned by Fit. Columns without any observed value are filled with 0.
type Imputer struct {
	Strategy string
	fill     []float64
}

func NewImputer(strategy string) (*Imputer, error) {
	switch strategy {
	case ImputeMean, ImputeMedian, ImputeMode, ImputeZero:
		return &Imputer{Strategy: strategy}, nil
	}
	return nil, errors.Errorf("unknown impute strategy %q", strategy)
}

func (im *Imputer) Fit(X mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.New("imputer: empty X")
	}
	im.fill = make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, X)
		observed := stats.Float64Data(observedValues(col))
		if len(observed) == 0 || im.Strategy == ImputeZero {
			continue
		}
		v, err := im.columnValue(observed)
		if err != nil {
			return errors.Wrapf(err, "imputer: column %d", j)
		}
		im.fill[j] = v
	}
	return nil
}

func (im *Imputer) columnValue(observed stats.Float64Data) (float64, error) {
	switch im.Strategy {
	case ImputeMean:
		return observed.Mean()
	case ImputeMedian:
		return observed.Median()
	case ImputeMode:
		modes, err := observed.Mode()
		if err != nil {
			return 0, err
		}
		// no repeated value: fall back to the median
		if len(modes) == 0 {
			return observed.Median()
		}
		return modes[0], nil
	}
	return 0, errors.Errorf("unknown impute strategy %q", im.Strategy)
}

func (im *Imputer) Transform(X mat.Matrix) (*mat.Dense, error) {
	if im.fill == nil {
		return nil, errors.New("imputer: not fitted")
	}
	if _, cols := X.Dims(); cols != len(im.fill) {
		return nil, errors.Wrapf(core.ErrShape, "imputer: fitted on %d columns, got %d", len(im.fill), cols)
	}
	out := core.Clone(X)
	out.Apply(func(_, j int, v float64) float64 {
		if math.IsNaN(v) {
			return im.fill[j]
		}
		return v
	}, out)
	return out, nil
}

// MissingCount returns the number of NaN values in X.
func MissingCount(X mat.Matrix) int {
	rows, cols := X.Dims()
	n := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsNaN(X.At(i, j)) {
				n++
			}
		}
	}
	return n
}

func observedValues(col []float64) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
