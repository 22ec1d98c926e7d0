package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goseats/sts"
	"github.com/sartorproj/goseats/timeseries"
)

const model = `
level:
  variance: 0.5
seasonal:
  period: 4
  variance: 0.1
noise:
  variance: 1
`

func writeData(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("ds,y\n")
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	pattern := []float64{1.5, -0.5, -2, 1}
	for i := 0; i < n; i++ {
		v := 10 + 0.1*float64(i) + pattern[i%4] + 0.2*math.Sin(1.7*float64(i*i))
		fmt.Fprintf(&b, "%s,%.6f\n", start.AddDate(0, 3*i, 0).Format("2006-01-02"), v)
	}
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestWriteDecomposition(t *testing.T) {
	dataFile = writeData(t, 40)
	modelFile = filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(modelFile, []byte(model), 0o644))
	column, forecasts = "y", 4

	in, err := load()
	require.NoError(t, err)
	assert.Equal(t, 40, in.series.Len())
	assert.Nil(t, in.x)

	d, err := sts.Decompose(in.series.Values, in.spec, config(in))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "components.csv")
	require.NoError(t, writeDecomposition(out, in.series, d))

	// the written file reads back as a dated series of 44 points
	opts := timeseries.DefaultCSVOptions()
	opts.ValueColumn = "trend"
	trend, err := timeseries.LoadCSV(out, opts)
	require.NoError(t, err)
	require.Equal(t, 44, trend.Len())
	assert.True(t, trend.HasTimestamps())
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), trend.Timestamps[40])
	assert.InDelta(t, d.Trend.Estimates[10], trend.Values[10], 1e-6)
	assert.InDelta(t, d.Trend.Forecasts[3], trend.Values[43], 1e-6)
}

func TestIsZero(t *testing.T) {
	assert.True(t, isZero([]float64{0, 0}, false))
	assert.False(t, isZero([]float64{0, 1}, false))
	assert.True(t, isZero([]float64{1, 1}, true))
	assert.True(t, isZero(nil, false))
}
