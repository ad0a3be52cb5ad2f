package plots

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/emrzvv/bgamma/internal/sampler"
	"github.com/emrzvv/bgamma/internal/stats"
)

const (
	maxScatterPoints = 5_000 // больше точек на png всё равно не различить
	histBins         = 60
)

func Scatter(b *sampler.Batch, s stats.Summary, file string) error {
	n := len(b.X1)
	step := 1
	if n > maxScatterPoints {
		step = (n + maxScatterPoints - 1) / maxScatterPoints
	}

	pts := make(plotter.XYs, 0, n/step+1)
	for i := 0; i < n; i += step {
		pts = append(pts, plotter.XY{X: b.X1[i], Y: b.X2[i]})
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("rho = %.3f (target %.3f), n = %d", s.Corr, b.Params.Rho, n)
	p.X.Label.Text = "X1"
	p.Y.Label.Text = "X2"
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Radius = vg.Points(1)
	p.Add(sc)
	return p.Save(15*vg.Centimeter, 15*vg.Centimeter, file)
}

func Histogram(values []float64, title, file string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "density"
	h, err := plotter.NewHist(plotter.Values(values), histBins)
	if err != nil {
		return err
	}
	h.Normalize(1)
	p.Add(h)
	return p.Save(20*vg.Centimeter, 10*vg.Centimeter, file)
}

// All writes scatter.png, x1_hist.png and x2_hist.png into dir.
func All(dir string, b *sampler.Batch, s stats.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := Scatter(b, s, filepath.Join(dir, "scatter.png")); err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	if err := Histogram(b.X1, fmt.Sprintf("X1: mean %.3f, sd %.3f", s.Mean1, s.StdDev1), filepath.Join(dir, "x1_hist.png")); err != nil {
		return fmt.Errorf("x1 histogram: %w", err)
	}
	if err := Histogram(b.X2, fmt.Sprintf("X2: mean %.3f, sd %.3f", s.Mean2, s.StdDev2), filepath.Join(dir, "x2_hist.png")); err != nil {
		return fmt.Errorf("x2 histogram: %w", err)
	}
	return nil
}
