package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SuiteConfig holds the static configuration of the feature suite run
type SuiteConfig struct {
	Paths       []string
	Format      string
	Tags        string
	Concurrency int
	StepTimeout time.Duration
	ReportDir   string
}

// LoadSuiteConfig loads suite configuration from environment variables
func LoadSuiteConfig(getenv func(string) string) (SuiteConfig, error) {
	config := SuiteConfig{
		Paths:       []string{"features"},
		Tags:        getenv("GODOG_TAGS"),
		Concurrency: 1,
		StepTimeout: 30 * time.Second,
		ReportDir:   getenv("REPORT_DIR"),
	}

	if raw := getenv("FEATURE_PATHS"); raw != "" {
		config.Paths = splitList(raw)
	}

	if config.ReportDir == "" {
		config.ReportDir = "reports"
	}

	config.Format = getenv("GODOG_FORMAT")
	if config.Format == "" {
		config.Format = "pretty,cucumber:" + filepath.Join(config.ReportDir, "cucumber.json")
	}

	if raw := getenv("GODOG_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return config, fmt.Errorf("GODOG_CONCURRENCY must be a positive integer, got %q", raw)
		}
		config.Concurrency = n
	}

	if raw := getenv("STEP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return config, fmt.Errorf("STEP_TIMEOUT must be a positive duration, got %q", raw)
		}
		config.StepTimeout = d
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
