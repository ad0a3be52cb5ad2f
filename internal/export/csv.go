package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/emrzvv/bgamma/internal/sampler"
	"github.com/emrzvv/bgamma/internal/solver"
	"github.com/emrzvv/bgamma/internal/stats"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSamplesToCSV(b *sampler.Batch, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"i", "x1", "x2"})
	for i := range b.X1 {
		w.Write([]string{
			strconv.Itoa(i),
			formatFloat(b.X1[i]),
			formatFloat(b.X2[i]),
		})
	}
	w.Flush()
	return w.Error()
}

func writeParamsToCSV(p solver.Params, implied float64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"name", "value"})
	for _, row := range []struct {
		name string
		v    float64
	}{
		{"k1", p.K1}, {"k2", p.K2}, {"rho", p.Rho},
		{"h1", p.H1}, {"h2", p.H2}, {"gamma", p.Gamma},
		{"delta1", p.Delta1}, {"delta2", p.Delta2},
		{"rho_implied", implied},
	} {
		w.Write([]string{row.name, formatFloat(row.v)})
	}
	w.Flush()
	return w.Error()
}

func writeSummaryToCSV(s stats.Summary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"n", "mean1", "mean2", "stddev1", "stddev2", "corr"})
	w.Write([]string{
		strconv.Itoa(s.N),
		fmt.Sprintf("%.6f", s.Mean1),
		fmt.Sprintf("%.6f", s.Mean2),
		fmt.Sprintf("%.6f", s.StdDev1),
		fmt.Sprintf("%.6f", s.StdDev2),
		fmt.Sprintf("%.6f", s.Corr),
	})
	w.Flush()
	return w.Error()
}

// ToCSV writes samples.csv, params.csv and summary.csv into dir.
func ToCSV(dir string, b *sampler.Batch, implied float64, s stats.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeSamplesToCSV(b, filepath.Join(dir, "samples.csv")); err != nil {
		return fmt.Errorf("samples.csv: %w", err)
	}
	if err := writeParamsToCSV(b.Params, implied, filepath.Join(dir, "params.csv")); err != nil {
		return fmt.Errorf("params.csv: %w", err)
	}
	if err := writeSummaryToCSV(s, filepath.Join(dir, "summary.csv")); err != nil {
		return fmt.Errorf("summary.csv: %w", err)
	}
	return nil
}
