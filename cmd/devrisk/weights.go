package main

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/stellaxu/DEV/pkg/dev"
	"github.com/stellaxu/DEV/pkg/report"
)

var (
	classFlag = &cli.IntFlag{
		Name:  "class",
		Usage: "Only estimate weights for this class (optional, default: all)",
		Value: -1,
	}

	weightsCmd = &cli.Command{
		Name:    "weights",
		Aliases: []string{"w"},
		Usage:   "Estimate importance weights of the validation rows of every class",
		Action:  cmdWeights,
		Flags: []cli.Flag{
			sourceFlag,
			targetFlag,
			validationFlag,
			classFlag,
		},
	}
)

type classWeights struct {
	Class    int             `json:"class" yaml:"class"`
	Selected dev.GridScore   `json:"selected" yaml:"selected"`
	Summary  *report.Summary `json:"summary" yaml:"summary"`
	Weights  []float64       `json:"weights" yaml:"weights"`
}

func cmdWeights(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	classes, err := loadClasses(featureFilesFrom(c), cfg.Loss)
	if err != nil {
		return errors.Wrap(err, "failed to load features")
	}

	only := c.Int(classFlag.Name)
	est := newEstimator(cfg)
	var out []classWeights
	for _, cd := range classes {
		if only >= 0 && cd.Class != only {
			continue
		}
		wr, err := est.Estimate(c.Context, cd.Source, cd.Target, cd.Validation)
		if err != nil {
			return errors.Wrapf(err, "class %d", cd.Class)
		}
		w := wr.Weights.RawVector().Data
		sum, err := report.Summarize(w)
		if err != nil {
			return errors.Wrapf(err, "class %d", cd.Class)
		}
		out = append(out, classWeights{Class: cd.Class, Selected: wr.BestScore(), Summary: sum, Weights: w})
	}
	if len(out) == 0 {
		return errors.Errorf("no validation rows for class %d", only)
	}
	return encode(c, out)
}
