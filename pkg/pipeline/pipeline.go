package pipeline

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Transformer learns a column-wise transformation in Fit and applies it in
// Transform without modifying its input.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (*mat.Dense, error)
}

// Pipeline chains multiple transformers. Every step is fitted on the output
// of the previous one.
type Pipeline struct {
	steps []Transformer
}

func New(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

func (p *Pipeline) Len() int { return len(p.steps) }

func (p *Pipeline) Fit(X mat.Matrix) error {
	_, err := p.FitTransform(X)
	return err
}

func (p *Pipeline) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	out := mat.DenseCopyOf(X)
	for i, step := range p.steps {
		if err := step.Fit(out); err != nil {
			return nil, errors.Wrapf(err, "fitting step %d", i)
		}
		next, err := step.Transform(out)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		out = next
	}
	return out, nil
}

func (p *Pipeline) Transform(X mat.Matrix) (*mat.Dense, error) {
	out := mat.DenseCopyOf(X)
	for i, step := range p.steps {
		next, err := step.Transform(out)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		out = next
	}
	return out, nil
}
