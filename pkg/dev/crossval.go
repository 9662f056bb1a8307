package dev

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// ClassData holds the features of one class and the loss of every
// validation row of that class.
type ClassData struct {
	Class      int
	Source     mat.Matrix
	Target     mat.Matrix
	Validation mat.Matrix
	Loss       mat.Vector
}

// ClassRisk is the DEV risk of one class.
type ClassRisk struct {
	Class           int         `json:"class" yaml:"class"`
	Risk            float64     `json:"risk" yaml:"risk"`
	SourceCount     int         `json:"source_count" yaml:"source_count"`
	TargetCount     int         `json:"target_count" yaml:"target_count"`
	ValidationCount int         `json:"validation_count" yaml:"validation_count"`
	Selected        GridScore   `json:"selected" yaml:"selected"`
	Scores          []GridScore `json:"scores" yaml:"scores"`
	Weights         []float64   `json:"-" yaml:"-"`
}

// CrossValResult sums the per-class risks.
type CrossValResult struct {
	Classes []ClassRisk `json:"classes" yaml:"classes"`
	Total   float64     `json:"total" yaml:"total"`
	Mean    float64     `json:"mean" yaml:"mean"`
}

// CrossValidate runs the weight and risk estimators on every class in turn
// and sums the risks. The first failing class aborts the run.
func CrossValidate(ctx context.Context, est *WeightEstimator, classes []ClassData) (*CrossValResult, error) {
	if len(classes) == 0 {
		return nil, errors.Wrap(ErrInsufficientSamples, "no classes")
	}
	out := &CrossValResult{Classes: make([]ClassRisk, 0, len(classes))}
	for _, c := range classes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.WithField("class", c.Class).Debug("estimating class risk")

		wr, err := est.Estimate(ctx, c.Source, c.Target, c.Validation)
		if err != nil {
			return nil, errors.Wrapf(err, "class %d weights", c.Class)
		}
		risk, err := EstimateRisk(wr.Weights, c.Loss)
		if err != nil {
			return nil, errors.Wrapf(err, "class %d risk", c.Class)
		}

		nV, _ := c.Validation.Dims()
		out.Classes = append(out.Classes, ClassRisk{
			Class:           c.Class,
			Risk:            risk,
			SourceCount:     wr.SourceCount,
			TargetCount:     wr.TargetCount,
			ValidationCount: nV,
			Selected:        wr.BestScore(),
			Scores:          wr.Scores,
			Weights:         wr.Weights.RawVector().Data,
		})
		out.Total += risk
		log.WithFields(log.Fields{"class": c.Class, "risk": risk}).Info("class risk")
	}
	out.Mean = out.Total / float64(len(out.Classes))
	return out, nil
}
