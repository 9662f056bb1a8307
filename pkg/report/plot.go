package report

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/stellaxu/DEV/pkg/dev"
)

// AccuracyPlot draws the held-out domain classifier accuracy against
// log10(decay), one line per class.
func AccuracyPlot(classes []dev.ClassRisk) (*plot.Plot, error) {
	if len(classes) == 0 {
		return nil, errors.New("nothing to plot")
	}
	p := plot.New()
	p.Title.Text = "Domain classifier held-out accuracy"
	p.X.Label.Text = "log10(decay)"
	p.Y.Label.Text = "accuracy"
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true

	for i, c := range classes {
		pts := make(plotter.XYs, len(c.Scores))
		for j, s := range c.Scores {
			if s.Decay <= 0 {
				return nil, errors.Errorf("class %d: cannot plot decay %v on a log axis", c.Class, s.Decay)
			}
			pts[j].X = math.Log10(s.Decay)
			pts[j].Y = s.Accuracy
		}
		l, sc, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "class %d", c.Class)
		}
		l.Color = plotutil.Color(i)
		sc.Color = plotutil.Color(i)
		sc.Shape = plotutil.Shape(i)
		p.Add(l, sc)
		p.Legend.Add(fmt.Sprintf("class %d", c.Class), l, sc)
	}
	return p, nil
}

// SaveAccuracyPlot renders AccuracyPlot to path; the format follows the
// file extension.
func SaveAccuracyPlot(classes []dev.ClassRisk, path string) error {
	p, err := AccuracyPlot(classes)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}
	return nil
}
