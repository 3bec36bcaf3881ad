// Package browser owns the one browser process per run and the options of
// the isolated contexts lent to each scenario or flow.
package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/sitesearch/internal/config"
)

// Launcher starts and stops the shared browser process.
type Launcher interface {
	Launch() (playwright.Browser, error)
	Shutdown() error
}

// PlaywrightLauncher drives a local Playwright installation.
type PlaywrightLauncher struct {
	cfg     config.BrowserConfig
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewPlaywrightLauncher creates a launcher for cfg.
func NewPlaywrightLauncher(cfg config.BrowserConfig) *PlaywrightLauncher {
	return &PlaywrightLauncher{cfg: cfg}
}

// Launch starts Playwright and the configured browser engine.
func (l *PlaywrightLauncher) Launch() (playwright.Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType := pw.Chromium
	switch l.cfg.Name {
	case config.BrowserFirefox:
		browserType = pw.Firefox
	case config.BrowserWebKit:
		browserType = pw.WebKit
	}

	b, err := browserType.Launch(LaunchOptions(l.cfg))
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", l.cfg.Name, err)
	}

	l.pw = pw
	l.browser = b
	return b, nil
}

// Shutdown closes the browser and stops Playwright.
func (l *PlaywrightLauncher) Shutdown() error {
	if l.pw == nil {
		return nil
	}
	var closeErr error
	if l.browser != nil {
		closeErr = l.browser.Close()
	}
	if err := l.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	l.pw, l.browser = nil, nil
	if closeErr != nil {
		return fmt.Errorf("failed to close browser: %w", closeErr)
	}
	return nil
}

// Existing wraps an already running browser owned by someone else.
// Shutdown leaves it running.
func Existing(b playwright.Browser) Launcher {
	return existing{b}
}

type existing struct {
	browser playwright.Browser
}

func (e existing) Launch() (playwright.Browser, error) { return e.browser, nil }
func (e existing) Shutdown() error                     { return nil }

// LaunchOptions maps cfg onto Playwright's launch options.
func LaunchOptions(cfg config.BrowserConfig) playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     cfg.Args,
	}
	if cfg.SlowMo > 0 {
		opts.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}
	return opts
}

// ContextOptions maps cfg onto the options of a fresh browsing context.
func ContextOptions(cfg config.BrowserConfig) playwright.BrowserNewContextOptions {
	return playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(cfg.IgnoreHTTPSErrors),
	}
}
