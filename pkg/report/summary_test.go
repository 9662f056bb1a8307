package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{5, 1, 3, 2, 4})
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3, s.Mean, 1e-12)
	assert.InDelta(t, 3, s.Median, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.GreaterOrEqual(t, s.P95, 4.0)
	assert.LessOrEqual(t, s.P95, 5.0)

	one, err := Summarize([]float64{2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, one.P95)

	_, err = Summarize(nil)
	assert.Error(t, err)
}
