package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stellaxu/DEV/pkg/dataprep"
	"github.com/stellaxu/DEV/pkg/dev"
	"github.com/stellaxu/DEV/pkg/model"
)

// Config holds the estimator settings read from a YAML file.
type Config struct {
	Seed          uint64     `yaml:"seed"`
	Workers       int        `yaml:"workers"`
	TrainFraction float64    `yaml:"train_fraction"`
	Classifier    Classifier `yaml:"classifier"`
	Loss          string     `yaml:"loss"`
}

// Classifier configures the domain classifier training.
type Classifier struct {
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Solver       string  `yaml:"solver"`

	// Impute is a dataprep strategy for NaN features, empty to disable.
	Impute string `yaml:"impute"`
	// Clip holds the lower and upper quantiles features are clipped to.
	Clip        []float64 `yaml:"clip"`
	Standardize bool      `yaml:"standardize"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Seed:          42,
		TrainFraction: dev.DefaultTrainFraction,
		Classifier: Classifier{
			Epochs:       200,
			BatchSize:    200,
			LearningRate: 1e-3,
			Solver:       model.SolverAdam,
		},
		Loss: "absolute",
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
// Unknown keys are rejected; the regularization grid is not configurable.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file: %s", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "parsing config file: %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file: %s", path)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return errors.Errorf("train_fraction %v not in (0, 1)", c.TrainFraction)
	}
	if c.Workers < 0 {
		return errors.Errorf("negative workers %d", c.Workers)
	}
	if c.Classifier.Epochs <= 0 {
		return errors.Errorf("classifier.epochs must be positive, got %d", c.Classifier.Epochs)
	}
	if c.Classifier.BatchSize <= 0 {
		return errors.Errorf("classifier.batch_size must be positive, got %d", c.Classifier.BatchSize)
	}
	if c.Classifier.LearningRate <= 0 {
		return errors.Errorf("classifier.learning_rate must be positive, got %v", c.Classifier.LearningRate)
	}
	switch c.Classifier.Solver {
	case model.SolverAdam, model.SolverSGD:
	default:
		return errors.Errorf("unknown classifier.solver %q", c.Classifier.Solver)
	}
	if c.Classifier.Impute != "" {
		if _, err := dataprep.NewImputer(c.Classifier.Impute); err != nil {
			return errors.Wrap(err, "classifier.impute")
		}
	}
	if clip := c.Classifier.Clip; len(clip) > 0 {
		if len(clip) != 2 || clip[0] < 0 || clip[1] > 1 || clip[0] >= clip[1] {
			return errors.Errorf("classifier.clip must be [lower, upper] quantiles in [0, 1], got %v", clip)
		}
	}
	if _, err := dev.LossByName(c.Loss); err != nil {
		return err
	}
	return nil
}

// EstimatorOptions translates the config into weight estimator options.
func (c *Config) EstimatorOptions() []dev.Option {
	opts := []dev.Option{
		dev.WithTrainFraction(c.TrainFraction),
		dev.WithStandardize(c.Classifier.Standardize),
		dev.WithWorkers(c.Workers),
		dev.WithMLPOptions(
			model.WithEpochs(c.Classifier.Epochs),
			model.WithBatchSize(c.Classifier.BatchSize),
			model.WithLearningRate(c.Classifier.LearningRate),
			model.WithSolver(c.Classifier.Solver),
		),
		dev.WithImpute(c.Classifier.Impute),
	}
	if clip := c.Classifier.Clip; len(clip) == 2 {
		opts = append(opts, dev.WithClip(clip[0], clip[1]))
	}
	return opts
}
