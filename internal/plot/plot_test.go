package plot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowetl/internal/smoothing"
)

func smoothedSeries(alphas ...float64) []smoothing.SmoothedPoint {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var points []smoothing.SmoothedPoint
	for _, alpha := range alphas {
		for i := 0; i < 5; i++ {
			points = append(points, smoothing.SmoothedPoint{
				Timestamp: base.Add(time.Duration(i) * time.Second),
				Size:      float64(i),
				Alpha:     alpha,
				EWMA:      float64(i) * alpha,
				EWMStd:    0.1,
			})
		}
	}
	return points
}

func TestSplitAlphaBlocks(t *testing.T) {
	points := smoothedSeries(0.01, 0.05, 0.05)
	blocks := splitAlphaBlocks(points)

	// The duplicate 0.05 blocks are contiguous so they merge when split by
	// value change; three configured alphas with a repeated value yield two
	// value runs of 5 and 10 points.
	require.Len(t, blocks, 2)
	assert.Len(t, blocks[0], 5)
	assert.Len(t, blocks[1], 10)
}

func TestRenderEWMA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ewma.png")

	require.NoError(t, RenderEWMA(path, smoothedSeries(0.01, 0.05, 0.1), nil))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestRenderEWMAWrapsPanels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ewma.png")
	require.NoError(t, RenderEWMA(path, smoothedSeries(0.01, 0.05, 0.1, 0.2), nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRenderEWMAEmptySeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ewma.png")

	require.NoError(t, RenderEWMA(path, nil, nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no chart file should be created for an empty series")
}
