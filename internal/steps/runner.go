// Package steps runs the product search features: godog lifecycle hooks around
// one shared browser, a fresh browsing context per scenario, and the step
// definitions built on the page abstractions.
package steps

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/sitesearch/internal/browser"
	"github.com/themizzi/sitesearch/internal/config"
	"github.com/themizzi/sitesearch/internal/report"
	"go.uber.org/zap"
)

// ErrBrowserUnavailable fails every scenario when the suite could not launch a browser.
var ErrBrowserUnavailable = errors.New("browser unavailable")

// Runner holds the suite-wide state: the launcher and the browser it produced.
// The browser is written once in BeforeSuite and only read afterwards.
type Runner struct {
	launcher   browser.Launcher
	browserCfg config.BrowserConfig
	suiteCfg   config.SuiteConfig
	sink       report.Sink
	logger     *zap.Logger

	browser   playwright.Browser
	launchErr error
}

// NewRunner creates a Runner. A nil sink keeps attachments in the godog report only.
func NewRunner(launcher browser.Launcher, browserCfg config.BrowserConfig, suiteCfg config.SuiteConfig, sink report.Sink, logger *zap.Logger) *Runner {
	if sink == nil {
		sink = report.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		launcher:   launcher,
		browserCfg: browserCfg,
		suiteCfg:   suiteCfg,
		sink:       sink,
		logger:     logger.With(zap.String("component", "scenario-runner")),
	}
}

// InitializeTestSuite registers the suite hooks.
func (r *Runner) InitializeTestSuite(ts *godog.TestSuiteContext) {
	ts.BeforeSuite(r.beforeSuite)
	ts.AfterSuite(r.afterSuite)
}

// InitializeScenario is called by godog once per scenario; the scenario
// state it creates is never shared.
func (r *Runner) InitializeScenario(sc *godog.ScenarioContext) {
	s := &scenario{runner: r, logger: r.logger}
	sc.Before(s.setUp)
	sc.After(s.tearDown)
	s.registerSteps(sc)
}

// Options builds godog options from the suite configuration.
func (r *Runner) Options() *godog.Options {
	return &godog.Options{
		Format:      r.suiteCfg.Format,
		Paths:       r.suiteCfg.Paths,
		Tags:        r.suiteCfg.Tags,
		Concurrency: r.suiteCfg.Concurrency,
		Strict:      true,
	}
}

// Suite assembles a godog test suite with opts.
func (r *Runner) Suite(opts *godog.Options) godog.TestSuite {
	return godog.TestSuite{
		Name:                 "product-search",
		TestSuiteInitializer: r.InitializeTestSuite,
		ScenarioInitializer:  r.InitializeScenario,
		Options:              opts,
	}
}

// Run executes the configured features and returns godog's exit status.
func (r *Runner) Run() (int, error) {
	if err := os.MkdirAll(r.suiteCfg.ReportDir, 0o755); err != nil {
		return 1, fmt.Errorf("failed to create report directory: %w", err)
	}
	return r.Suite(r.Options()).Run(), nil
}

// RunTest executes the configured features as subtests of t.
func (r *Runner) RunTest(t *testing.T) int {
	t.Helper()
	opts := r.Options()
	opts.TestingT = t
	return r.Suite(opts).Run()
}

func (r *Runner) beforeSuite() {
	r.browser, r.launchErr = r.launcher.Launch()
	if r.launchErr != nil {
		r.logger.Error("Failed to launch browser", zap.Error(r.launchErr))
		return
	}
	r.logger.Info("Browser launched", zap.String("browser", r.browserCfg.Name), zap.Bool("headless", r.browserCfg.Headless))
}

func (r *Runner) afterSuite() {
	if err := r.launcher.Shutdown(); err != nil {
		r.logger.Error("Failed to close browser", zap.Error(err))
	}
}
