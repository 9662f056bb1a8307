package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellaxu/DEV/pkg/dev"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "dev.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.NoError(t, c.Validate())
}

func TestLoadOverrides(t *testing.T) {
	p := writeConfig(t, `
seed: 7
workers: 3
classifier:
  epochs: 50
  solver: sgd
  standardize: true
loss: zero-one
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), c.Seed)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, 50, c.Classifier.Epochs)
	assert.Equal(t, "sgd", c.Classifier.Solver)
	assert.True(t, c.Classifier.Standardize)
	assert.Equal(t, "zero-one", c.Loss)
	// untouched keys keep their defaults
	assert.Equal(t, 0.8, c.TrainFraction)
	assert.Equal(t, 200, c.Classifier.BatchSize)
	assert.Len(t, c.EstimatorOptions(), 5)
}

func TestLoadEmptyFile(t *testing.T) {
	c, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"fraction":   "train_fraction: 1.0\n",
		"decays":     "decays: [0.1]\n",
		"unknown":    "classifier:\n  hidden: [4]\n",
		"workers":    "workers: -2\n",
		"epochs":     "classifier:\n  epochs: 0\n",
		"batch":      "classifier:\n  batch_size: -1\n",
		"rate":       "classifier:\n  learning_rate: 0\n",
		"solver":     "classifier:\n  solver: lbfgs\n",
		"loss":       "loss: hinge\n",
		"impute":     "classifier:\n  impute: knn\n",
		"clip":       "classifier:\n  clip: [0.9, 0.1]\n",
		"clip size":  "classifier:\n  clip: [0.1]\n",
		"not yaml":   "seed: [\n",
		"wrong type": "seed: abc\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEstimatorOptions(t *testing.T) {
	c := Default()
	c.TrainFraction = 0.6
	c.Workers = 1
	c.Classifier.Standardize = true
	c.Classifier.Impute = "median"
	c.Classifier.Clip = []float64{0.01, 0.99}
	require.NoError(t, c.Validate())

	est := dev.NewWeightEstimator(nil, c.EstimatorOptions()...)
	assert.Equal(t, "median", est.Impute)
	assert.Equal(t, []float64{0.01, 0.99}, est.Clip)
	assert.Equal(t, 0.6, est.TrainFraction)
	assert.Equal(t, 1, est.Workers)
	assert.True(t, est.Standardize)
}
