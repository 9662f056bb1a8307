package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellaxu/DEV/pkg/dev"
)

func classRisks() []dev.ClassRisk {
	return []dev.ClassRisk{
		{Class: 0, Scores: []dev.GridScore{{Decay: 1e-1, Accuracy: 0.7}, {Decay: 1e-3, Accuracy: 0.9}}},
		{Class: 3, Scores: []dev.GridScore{{Decay: 1e-1, Accuracy: 0.5}, {Decay: 1e-3, Accuracy: 0.6}}},
	}
}

func TestAccuracyPlot(t *testing.T) {
	p, err := AccuracyPlot(classRisks())
	require.NoError(t, err)
	assert.Equal(t, "log10(decay)", p.X.Label.Text)

	_, err = AccuracyPlot(nil)
	assert.Error(t, err)

	bad := classRisks()
	bad[1].Scores[0].Decay = 0
	_, err = AccuracyPlot(bad)
	assert.Error(t, err)
}

func TestSaveAccuracyPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acc.png")
	require.NoError(t, SaveAccuracyPlot(classRisks(), path))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, fi.Size())

	assert.Error(t, SaveAccuracyPlot(classRisks(), filepath.Join(t.TempDir(), "acc.unknown")))
}
