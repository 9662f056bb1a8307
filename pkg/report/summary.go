package report

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Summary describes the distribution of a weight vector.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	P95    float64 `json:"p95" yaml:"p95"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

func Summarize(values []float64) (*Summary, error) {
	if len(values) == 0 {
		return nil, errors.New("no values to summarize")
	}
	data := stats.Float64Data(values)
	s := &Summary{Count: len(values)}
	var err error
	if s.Mean, err = data.Mean(); err != nil {
		return nil, errors.Wrap(err, "mean")
	}
	if s.Median, err = data.Median(); err != nil {
		return nil, errors.Wrap(err, "median")
	}
	if s.P95, err = data.Percentile(95); err != nil {
		return nil, errors.Wrap(err, "p95")
	}
	if s.Min, err = data.Min(); err != nil {
		return nil, errors.Wrap(err, "min")
	}
	if s.Max, err = data.Max(); err != nil {
		return nil, errors.Wrap(err, "max")
	}
	return s, nil
}
