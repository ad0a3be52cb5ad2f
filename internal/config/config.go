package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emrzvv/bgamma/internal/sampler"
	"github.com/emrzvv/bgamma/internal/solver"
)

type Config struct {
	Marginals []sampler.Marginal `yaml:"marginals"` // ровно две пары (mean, stddev)
	Rho       float64            `yaml:"rho"`       // целевая корреляция Пирсона
	Size      int                `yaml:"size"`      // кол-во пар в выборке
	Seed      uint64             `yaml:"seed"`      // 0 -> от текущего времени
	Workers   int                `yaml:"workers"`   // 0 -> GOMAXPROCS

	Solver struct {
		Order          int     `yaml:"order"`           // порядок квадратуры Гаусса-Лежандра
		Tolerance      float64 `yaml:"tolerance"`       // допуск Нелдера-Мида
		MaxResidual    float64 `yaml:"max_residual"`    // допустимое |rho_fit - rho|
		MaxIterations  int     `yaml:"max_iterations"`  // лимит итераций оптимизатора
		MaxEvaluations int     `yaml:"max_evaluations"` // лимит вычислений функции, 0 - без лимита
	} `yaml:"solver"`

	Output struct {
		Dir   string `yaml:"dir"`
		CSV   *bool  `yaml:"csv"`
		Plots *bool  `yaml:"plots"`
	} `yaml:"output"`
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error when parsing config: %w", err)
	}

	FillDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("error when validating config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	FillDefaults(cfg)
	return cfg
}

func FillDefaults(c *Config) {
	if len(c.Marginals) == 0 {
		c.Marginals = []sampler.Marginal{{Mean: 1, StdDev: 1}, {Mean: 1, StdDev: 1}}
	}
	if c.Size == 0 {
		c.Size = 10_000
	}
	d := solver.DefaultSettings()
	if c.Solver.Order == 0 {
		c.Solver.Order = d.Order
	}
	if c.Solver.Tolerance == 0 {
		c.Solver.Tolerance = d.Tolerance
	}
	if c.Solver.MaxResidual == 0 {
		c.Solver.MaxResidual = d.MaxResidual
	}
	if c.Solver.MaxIterations == 0 {
		c.Solver.MaxIterations = d.MaxIterations
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./out"
	}
	if c.Output.CSV == nil {
		c.Output.CSV = boolPtr(true)
	}
	if c.Output.Plots == nil {
		c.Output.Plots = boolPtr(true)
	}
}

func Validate(c *Config) error {
	var errs []error
	if len(c.Marginals) != 2 {
		errs = append(errs, fmt.Errorf("marginals: want 2, got %d", len(c.Marginals)))
	}
	for i, m := range c.Marginals {
		if !(m.Mean > 0) || !(m.StdDev > 0) {
			errs = append(errs, fmt.Errorf("marginals[%d]: mean and stddev must be > 0", i))
		}
	}
	if math.IsNaN(c.Rho) || math.Abs(c.Rho) > 1 {
		errs = append(errs, fmt.Errorf("rho must be in [-1, 1], got %v", c.Rho))
	}
	if c.Size <= 0 {
		errs = append(errs, fmt.Errorf("size must be > 0, got %d", c.Size))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.Solver.Order <= 0 {
		errs = append(errs, fmt.Errorf("solver.order must be > 0, got %d", c.Solver.Order))
	}
	if c.Solver.Tolerance < 0 || c.Solver.MaxResidual < 0 {
		errs = append(errs, errors.New("solver tolerances must be >= 0"))
	}
	if c.Solver.MaxIterations < 0 || c.Solver.MaxEvaluations < 0 {
		errs = append(errs, errors.New("solver limits must be >= 0"))
	}
	return errors.Join(errs...)
}

// SolverSettings maps the solver section onto solver.Settings.
func (c *Config) SolverSettings() solver.Settings {
	return solver.Settings{
		Order:          c.Solver.Order,
		Tolerance:      c.Solver.Tolerance,
		MaxResidual:    c.Solver.MaxResidual,
		MaxIterations:  c.Solver.MaxIterations,
		MaxEvaluations: c.Solver.MaxEvaluations,
	}
}

func (c *Config) Request() sampler.Request {
	return sampler.Request{
		Marginals: [2]sampler.Marginal{c.Marginals[0], c.Marginals[1]},
		Rho:       c.Rho,
		Size:      c.Size,
		Solver:    c.SolverSettings(),
		Workers:   c.Workers,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
