package stats

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/stellaxu/DEV/pkg/core"
)

// Clipper clips values in each column to the Lower and Upper quantiles seen
// by Fit. Quantiles are fractions in [0, 1].
type Clipper struct {
	Lower, Upper float64

	lows, highs []float64
}

func NewClipper(lower, upper float64) *Clipper {
	return &Clipper{Lower: lower, Upper: upper}
}

func (c *Clipper) Fit(X mat.Matrix) error {
	if c.Lower < 0 || c.Upper > 1 || c.Lower >= c.Upper {
		return errors.Errorf("clipper: invalid quantiles [%v, %v]", c.Lower, c.Upper)
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.New("clipper: empty X")
	}
	c.lows = make([]float64, cols)
	c.highs = make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, X)
		sort.Float64s(col)
		c.lows[j] = stat.Quantile(c.Lower, stat.Empirical, col, nil)
		c.highs[j] = stat.Quantile(c.Upper, stat.Empirical, col, nil)
	}
	return nil
}

func (c *Clipper) Transform(X mat.Matrix) (*mat.Dense, error) {
	if c.lows == nil {
		return nil, errors.New("clipper: not fitted")
	}
	if _, cols := X.Dims(); cols != len(c.lows) {
		return nil, errors.Wrapf(core.ErrShape, "clipper: fitted on %d columns, got %d", len(c.lows), cols)
	}
	out := core.Clone(X)
	out.Apply(func(_, j int, v float64) float64 {
		switch {
		case v < c.lows[j]:
			return c.lows[j]
		case v > c.highs[j]:
			return c.highs[j]
		}
		return v
	}, out)
	return out, nil
}
