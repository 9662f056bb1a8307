package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/stellaxu/DEV/pkg/dev"
	"github.com/stellaxu/DEV/pkg/report"
)

var (
	plotFlag = &cli.StringFlag{
		Name:  "plot",
		Usage: "Write the accuracy-vs-decay plot of every class to this file (optional, e.g. acc.png)",
	}

	riskCmd = &cli.Command{
		Name:    "risk",
		Aliases: []string{"r"},
		Usage:   "Estimate the DEV risk of every validation class and their sum",
		Action:  cmdRisk,
		Flags: []cli.Flag{
			sourceFlag,
			targetFlag,
			validationFlag,
			plotFlag,
		},
	}
)

func cmdRisk(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	classes, err := loadClasses(featureFilesFrom(c), cfg.Loss)
	if err != nil {
		return errors.Wrap(err, "failed to load features")
	}
	log.Debugf("loaded %d classes", len(classes))

	res, err := dev.CrossValidate(c.Context, newEstimator(cfg), classes)
	if err != nil {
		return errors.Wrap(err, "failed to estimate risk")
	}

	if p := c.String(plotFlag.Name); p != "" {
		if err := report.SaveAccuracyPlot(res.Classes, p); err != nil {
			return err
		}
		log.Infof("saved accuracy plot to %s", p)
	}
	return encode(c, res)
}
