// Package config loads the analytics settings: the thresholds every
// calculator takes, plus server, database and model settings for the
// binaries.
//
// Sources, lowest precedence first: built-in defaults, the YAML file named
// by ANALYTICS_CONFIG (config/analytics.yaml when unset), then environment
// variables, which may come from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"erp_analytics/pkg/core/benchmark"
	"erp_analytics/pkg/core/pareto"
	"erp_analytics/pkg/core/profitability"
	"erp_analytics/pkg/core/receivables"
	"erp_analytics/pkg/core/timeseries"
	"erp_analytics/pkg/core/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultPath is read when ANALYTICS_CONFIG is unset.
const DefaultPath = "config/analytics.yaml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Analysis holds the calculator thresholds.
type Analysis struct {
	Risk          receivables.RiskThresholds   `yaml:"risk" json:"risk"`
	Provision     receivables.ProvisionRates   `yaml:"provision" json:"provision"`
	ABC           pareto.Cutoffs               `yaml:"abc" json:"abc"`
	Quadrant      profitability.ReferenceLines `yaml:"quadrant" json:"quadrant"`
	Sensitivity   profitability.GridSpec       `yaml:"sensitivity" json:"sensitivity"`
	IQRMultiplier float64                      `yaml:"iqr_multiplier" json:"iqr_multiplier"`
	Benchmarks    []benchmark.Benchmark        `yaml:"benchmarks" json:"benchmarks"`
	FXBaseRates   map[string]float64           `yaml:"fx_base_rates" json:"fx_base_rates"`
	ReportTitle   string                       `yaml:"report_title" json:"report_title"`
}

// Server configures the HTTP API.
type Server struct {
	Port        string `yaml:"port"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// Database configures snapshot persistence. An empty URL disables it.
type Database struct {
	URL string `yaml:"url"`
}

// Gemini configures the narrative model. An empty key selects the static
// narrator.
type Gemini struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Config is the complete settings tree.
type Config struct {
	Analysis Analysis `yaml:"analysis"`
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Gemini   Gemini   `yaml:"gemini"`
}

// Default returns the canonical settings.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Risk:          receivables.DefaultRiskThresholds,
			Provision:     receivables.DefaultProvisionRates,
			ABC:           pareto.DefaultCutoffs,
			Quadrant:      profitability.DefaultReferenceLines,
			Sensitivity:   profitability.DefaultGridSpec,
			IQRMultiplier: timeseries.DefaultIQRMultiplier,
			Benchmarks:    append([]benchmark.Benchmark(nil), benchmark.DefaultIndustry...),
			FXBaseRates:   map[string]float64{},
			ReportTitle:   "영업 분석 리포트",
		},
		Server: Server{Port: "8080", MaxUploadMB: 32},
		Gemini: Gemini{Model: "gemini-2.5-flash"},
	}
}

// Load reads .env (if present), the YAML file and the environment. path
// overrides ANALYTICS_CONFIG; a missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("ANALYTICS_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over cfg. Keys missing from data keep their current
// values.
func Parse(data []byte, cfg *Config) error {
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: MAX_UPLOAD_MB=%q", ErrInvalid, v)
		}
		c.Server.MaxUploadMB = n
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	return nil
}

// Validate rejects thresholds the calculators cannot work with.
func (c Config) Validate() error {
	return c.Analysis.Validate()
}

// Validate checks the calculator thresholds.
func (a Analysis) Validate() error {
	if a.ABC.A <= 0 || a.ABC.A >= a.ABC.B || a.ABC.B > 100 {
		return fmt.Errorf("%w: abc cutoffs must satisfy 0 < A < B <= 100, got %v/%v", ErrInvalid, a.ABC.A, a.ABC.B)
	}
	if a.Risk.MediumRatio > a.Risk.HighRatio || a.Risk.MediumAmount > a.Risk.HighAmount {
		return fmt.Errorf("%w: medium risk thresholds exceed high thresholds", ErrInvalid)
	}
	if a.IQRMultiplier <= 0 {
		return fmt.Errorf("%w: iqr_multiplier must be positive", ErrInvalid)
	}
	if a.Sensitivity.PriceStep <= 0 || a.Sensitivity.VolumeStep <= 0 {
		return fmt.Errorf("%w: sensitivity steps must be positive", ErrInvalid)
	}
	if len(a.Benchmarks) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalid, benchmark.ErrEmptyBenchmark)
	}
	return nil
}

// WithOverrides returns a copy of a with a JSON, Hjson or damaged-JSON
// payload merged over it. The result is validated.
func (a Analysis) WithOverrides(payload string) (Analysis, error) {
	out := a
	out.Benchmarks = append([]benchmark.Benchmark(nil), a.Benchmarks...)
	out.FXBaseRates = make(map[string]float64, len(a.FXBaseRates))
	for k, v := range a.FXBaseRates {
		out.FXBaseRates[k] = v
	}
	if _, err := utils.ParseLenient(payload, &out); err != nil {
		return a, fmt.Errorf("analysis overrides: %w", err)
	}
	if err := out.Validate(); err != nil {
		return a, err
	}
	return out, nil
}
