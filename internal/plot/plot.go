// Package plot renders the faceted smoothing chart: one panel per decay
// parameter, each tracing the exponentially weighted mean of net flow over
// time, written as a single PNG.
package plot

import (
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"flowetl/internal/errors"
	"flowetl/internal/smoothing"
)

// panels per row, before wrapping to the next row
const colWrap = 3

const (
	panelWidth  = 4 * vg.Inch
	panelHeight = 3 * vg.Inch
)

// RenderEWMA draws one panel per alpha block of the smoothed series and
// saves the facet grid to path. An empty series produces no file and no
// error; there is nothing to draw.
func RenderEWMA(path string, points []smoothing.SmoothedPoint, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	blocks := splitAlphaBlocks(points)
	if len(blocks) == 0 {
		logger.Info("no smoothed points to chart, skipping", "path", path)
		return nil
	}

	cols := len(blocks)
	if cols > colWrap {
		cols = colWrap
	}
	rows := (len(blocks) + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
	}

	for i, block := range blocks {
		p, err := panelFor(block)
		if err != nil {
			return errors.NewWrite("build chart panel", path, err)
		}
		plots[i/cols][i%cols] = p
	}

	img := vgimg.New(vg.Length(cols)*panelWidth, vg.Length(rows)*panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewWrite("create chart file", path, err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return errors.NewWrite("encode chart", path, err)
	}

	logger.Info("chart written", "path", path, "panels", len(blocks))
	return nil
}

// splitAlphaBlocks cuts the concatenated smoothed series into runs of equal
// alpha. Adjacent blocks from duplicate configured alphas collapse into one
// panel; their computations are identical so nothing is lost in the chart.
func splitAlphaBlocks(points []smoothing.SmoothedPoint) [][]smoothing.SmoothedPoint {
	var blocks [][]smoothing.SmoothedPoint
	start := 0
	for i := 1; i <= len(points); i++ {
		if i == len(points) || points[i].Alpha != points[start].Alpha {
			blocks = append(blocks, points[start:i])
			start = i
		}
	}
	return blocks
}

func panelFor(block []smoothing.SmoothedPoint) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("alpha = %v", block[0].Alpha)
	p.X.Label.Text = "timestamp"
	p.Y.Label.Text = "ewma"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04:05"}

	xys := make(plotter.XYs, len(block))
	for i, pt := range block {
		xys[i].X = float64(pt.Timestamp.Unix())
		xys[i].Y = pt.EWMA
	}

	line, scatter, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("build line: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(1)
	p.Add(plotter.NewGrid(), line, scatter)

	return p, nil
}
