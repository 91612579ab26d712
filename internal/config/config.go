package config

import (
	"os"
	"strconv"
	"time"

	"ivtscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig
	Fetch    FetchConfig
	Output   OutputConfig
}

// AnalysisConfig holds spike detection settings
type AnalysisConfig struct {
	SpikeWindow   int     // rolling window in time buckets
	ZScoreThresh  float64 // |z| above which a row is a spike
	ZeroImprRule  float64 // total-requests floor for the zero-impressions rule
	SuspiciousCap int     // rows sampled per app summary
}

// FetchConfig holds sheet retrieval settings
type FetchConfig struct {
	Timeout time.Duration
}

// OutputConfig holds artifact layout settings
type OutputConfig struct {
	Dir        string
	ChartsDir  string // relative to Dir
	ChartScale float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			SpikeWindow:   getEnvIntOrDefault("IVT_SPIKE_WINDOW", 24),
			ZScoreThresh:  getEnvFloatOrDefault("IVT_Z_THRESHOLD", 3.0),
			ZeroImprRule:  getEnvFloatOrDefault("IVT_ZERO_IMPR_REQUESTS", 1000),
			SuspiciousCap: getEnvIntOrDefault("IVT_SUSPICIOUS_CAP", 20),
		},
		Fetch: FetchConfig{
			Timeout: getEnvDurationOrDefault("IVT_FETCH_TIMEOUT", 30*time.Second),
		},
		Output: OutputConfig{
			Dir:        getEnvOrDefault("IVT_OUTPUT_DIR", "./output"),
			ChartsDir:  "charts",
			ChartScale: getEnvFloatOrDefault("IVT_CHART_SCALE", 0.8),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Analysis.SpikeWindow < 1 {
		return errors.ConfigInvalid("IVT_SPIKE_WINDOW must be >= 1")
	}
	if cfg.Analysis.ZScoreThresh <= 0 {
		return errors.ConfigInvalid("IVT_Z_THRESHOLD must be > 0")
	}
	if cfg.Analysis.SuspiciousCap < 0 {
		return errors.ConfigInvalid("IVT_SUSPICIOUS_CAP must be >= 0")
	}
	if cfg.Fetch.Timeout <= 0 {
		return errors.ConfigInvalid("IVT_FETCH_TIMEOUT must be > 0")
	}
	if cfg.Output.ChartScale <= 0 {
		return errors.ConfigInvalid("IVT_CHART_SCALE must be > 0")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloatOrDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDurationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
