package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/stellaxu/DEV/pkg/config"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	name    = "devrisk"
	version = "v0.0.1-default"
	commit  = ""

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the YAML estimator config (optional, defaults built in)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}

	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Random seed, overrides the config value (optional)",
	}
)

func main() {
	initLogging()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     name,
		Version:  fmt.Sprintf("%s - (commit: %s)", version, commit),
		Compiled: time.Now(),
		Usage:    "Deep embedded validation risk for domain adaptation model selection",
		Flags: []cli.Flag{
			debugFlag,
			configFlag,
			formatFlag,
			seedFlag,
		},
		Commands: []*cli.Command{
			riskCmd,
			weightsCmd,
			classesCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
}

func initLogging() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       true,
		ForceColors:            true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}

// loadConfig reads the --config file and applies the --seed override.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if c.IsSet(seedFlag.Name) {
		cfg.Seed = c.Uint64(seedFlag.Name)
	}
	log.Debugf("config: %+v", cfg)
	return cfg, nil
}

func encode(c *cli.Context, v any) error {
	if f := c.String(formatFlag.Name); f == formatYAML || f == "yml" {
		e := yaml.NewEncoder(c.App.Writer)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(c.App.Writer)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
