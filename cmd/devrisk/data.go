package main

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/stellaxu/DEV/pkg/config"
	"github.com/stellaxu/DEV/pkg/data"
	"github.com/stellaxu/DEV/pkg/dev"
)

var (
	sourceFlag = &cli.StringFlag{
		Name:     "source",
		Usage:    "Source (training) feature CSV: label,f1..fd",
		Required: true,
	}

	targetFlag = &cli.StringFlag{
		Name:     "target",
		Usage:    "Target (test) feature CSV: label,f1..fd",
		Required: true,
	}

	validationFlag = &cli.StringFlag{
		Name:     "validation",
		Usage:    "Validation feature CSV: label,prediction,f1..fd",
		Required: true,
	}
)

// featureFiles are the three CSV inputs of an estimation run.
type featureFiles struct {
	Source, Target, Validation string
}

func featureFilesFrom(c *cli.Context) featureFiles {
	return featureFiles{
		Source:     c.String(sourceFlag.Name),
		Target:     c.String(targetFlag.Name),
		Validation: c.String(validationFlag.Name),
	}
}

// loadClasses reads the three feature files and pairs them up per class of
// the validation file. Every validation class needs source and target rows.
func loadClasses(files featureFiles, lossName string) ([]dev.ClassData, error) {
	loss, err := dev.LossByName(lossName)
	if err != nil {
		return nil, err
	}

	sets := make([]map[int]*data.ClassSet, 3)
	for i, f := range []struct {
		path       string
		prediction bool
	}{
		{files.Source, false},
		{files.Target, false},
		{files.Validation, true},
	} {
		recs, err := data.ReadFeatureCSV(f.path, f.prediction)
		if err != nil {
			return nil, err
		}
		if sets[i], err = data.SplitByClass(recs); err != nil {
			return nil, errors.Wrapf(err, "splitting %s by class", f.path)
		}
	}
	src, tgt, val := sets[0], sets[1], sets[2]

	out := make([]dev.ClassData, 0, len(val))
	for _, c := range data.Classes(val) {
		s, ok := src[c]
		if !ok {
			return nil, errors.Wrapf(dev.ErrInsufficientSamples, "class %d has no source rows", c)
		}
		t, ok := tgt[c]
		if !ok {
			return nil, errors.Wrapf(dev.ErrInsufficientSamples, "class %d has no target rows", c)
		}
		v := val[c]
		lv, err := dev.LossVector(loss, v.Truth(), v.Predictions)
		if err != nil {
			return nil, errors.Wrapf(err, "class %d losses", c)
		}
		out = append(out, dev.ClassData{
			Class:      c,
			Source:     s.X,
			Target:     t.X,
			Validation: v.X,
			Loss:       lv,
		})
	}
	return out, nil
}

func newEstimator(cfg *config.Config) *dev.WeightEstimator {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	return dev.NewWeightEstimator(rng, cfg.EstimatorOptions()...)
}
