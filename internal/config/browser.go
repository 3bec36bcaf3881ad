package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Supported browser engines
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// BrowserConfig holds launch and context options for the browser under test
type BrowserConfig struct {
	Name              string
	Headless          bool
	SlowMo            time.Duration
	Args              []string
	ViewportWidth     int
	ViewportHeight    int
	IgnoreHTTPSErrors bool
}

// LoadBrowserConfig loads browser configuration from environment variables
func LoadBrowserConfig(getenv func(string) string) (BrowserConfig, error) {
	config := BrowserConfig{
		Name:              strings.ToLower(getenv("BROWSER")),
		Headless:          getenv("HEADLESS") != "false",
		Args:              []string{"--disable-dev-shm-usage"},
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		IgnoreHTTPSErrors: getenv("IGNORE_HTTPS_ERRORS") != "false",
	}

	switch config.Name {
	case "":
		config.Name = BrowserChromium
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		return config, fmt.Errorf("unsupported BROWSER %q", config.Name)
	}

	if raw := getenv("BROWSER_SLOW_MO_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return config, fmt.Errorf("BROWSER_SLOW_MO_MS must be a non-negative integer, got %q", raw)
		}
		config.SlowMo = time.Duration(ms) * time.Millisecond
	}

	if raw := getenv("BROWSER_ARGS"); raw != "" {
		config.Args = strings.Fields(raw)
	}

	return config, nil
}
