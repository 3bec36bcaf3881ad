package flows

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/sitesearch/internal/locator"
	"github.com/themizzi/sitesearch/internal/report"
	"go.uber.org/zap"
)

// GoogleHomeURL is the search home page, pinned to English.
const GoogleHomeURL = "https://www.google.co.in/?hl=en"

const (
	googleSearchBox      = `textarea[name="q"], input[name="q"]`
	googleResults        = "#search"
	consentClickTimeout  = 2 * time.Second
	strictResultsTimeout = 20 * time.Second
	tolerantURLTimeout   = 5 * time.Second
	politenessDelay      = 300 * time.Millisecond
	rateLimitPath        = "/sorry/"
)

var (
	googleResultsURL = regexp.MustCompile(`google\.[^/]+/search\?q=`)
	consentSelectors = []string{
		`button:has-text("I agree")`,
		`button:has-text("Accept all")`,
		`button:has-text("Accept")`,
		`button[aria-label="Accept all"]`,
		`#L2AGLb`,
	}
)

// GoogleOption configures a GoogleSearch.
type GoogleOption func(*GoogleSearch)

// WithRateLimitSkipping tolerates the rate-limit interstitial: affected titles
// are skipped and the run continues.
func WithRateLimitSkipping() GoogleOption {
	return func(g *GoogleSearch) {
		g.skipRateLimited = true
	}
}

// GoogleSearch searches film titles one after another from the search home page.
type GoogleSearch struct {
	page            playwright.Page
	sink            report.Sink
	logger          *zap.Logger
	homeURL         string
	skipRateLimited bool
}

// NewGoogleSearch creates the flow on page. It is strict unless
// WithRateLimitSkipping is given.
func NewGoogleSearch(page playwright.Page, sink report.Sink, logger *zap.Logger, opts ...GoogleOption) *GoogleSearch {
	if sink == nil {
		sink = report.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &GoogleSearch{
		page:    page,
		sink:    sink,
		logger:  logger.With(zap.String("flow", "google")),
		homeURL: GoogleHomeURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsRateLimited reports whether url is the rate-limit interstitial.
func IsRateLimited(url string) bool {
	return strings.Contains(url, rateLimitPath)
}

// Run searches every title in order, returning home after each one. Strict
// mode stops at the first failure; tolerant mode records rate-limited titles
// as skipped and moves on without the politeness pause.
func (g *GoogleSearch) Run(titles []string) ([]Outcome, error) {
	if err := g.goHome(); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(titles))
	for _, title := range titles {
		outcome, err := g.search(title)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
		if g.skipRateLimited && outcome.Status == StatusPassed {
			g.page.WaitForTimeout(float64(politenessDelay.Milliseconds()))
		}
	}
	return outcomes, nil
}

// DismissConsent clicks the first visible consent button, if any.
func (g *GoogleSearch) DismissConsent() bool {
	candidates := make([]locator.Candidate, 0, len(consentSelectors))
	for _, s := range consentSelectors {
		candidates = append(candidates, locator.Visible(s, g.page.Locator(s)))
	}
	c, ok := locator.New(0, g.logger).ClickFirstVisible(consentClickTimeout, candidates...)
	if ok {
		g.logger.Debug("Dismissed consent dialog", zap.String("candidate", c.Name))
	}
	return ok
}

func (g *GoogleSearch) search(title string) (Outcome, error) {
	logger := g.logger.With(zap.String("title", title))

	if !strings.Contains(g.page.URL(), "google.") {
		if err := g.goHome(); err != nil {
			return Outcome{}, err
		}
	}

	box := g.page.Locator(googleSearchBox).First()
	if err := box.Fill(title); err != nil {
		return Outcome{}, fmt.Errorf("failed to fill search box with %q: %w", title, err)
	}
	if err := g.page.Keyboard().Press("Enter"); err != nil {
		return Outcome{}, fmt.Errorf("failed to submit %q: %w", title, err)
	}

	check := g.checkStrict
	if g.skipRateLimited {
		check = g.checkTolerant
	}
	outcome, err := check(logger, title)
	if err != nil {
		return Outcome{}, err
	}

	// Every title starts from a fresh home page.
	if err := g.goHome(); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

func (g *GoogleSearch) checkStrict(logger *zap.Logger, title string) (Outcome, error) {
	if err := g.page.WaitForURL(googleResultsURL, playwright.PageWaitForURLOptions{
		Timeout: locator.Millis(strictResultsTimeout),
	}); err != nil {
		logger.Error("Results page did not load", zap.String("url", g.page.URL()), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: results page for %q: %w", ErrResultNotFound, title, err)
	}
	if _, err := locator.New(strictResultsTimeout, logger).Resolve(locator.Selector(g.page, googleResults)); err != nil {
		logger.Error("Results container not visible", zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: results for %q: %w", ErrResultNotFound, title, err)
	}
	if err := capture(g.page, g.sink, logger, "google", "search-"+title, false); err != nil {
		return Outcome{}, err
	}
	return Outcome{Title: title, Status: StatusPassed}, nil
}

func (g *GoogleSearch) checkTolerant(logger *zap.Logger, title string) (Outcome, error) {
	if err := g.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	}); err != nil {
		logger.Debug("DOMContentLoaded wait failed", zap.Error(err))
	}

	if url := g.page.URL(); IsRateLimited(url) {
		logger.Warn("Rate limited, skipping title", zap.String("url", url))
		if err := capture(g.page, g.sink, logger, "google", "search-"+title, false); err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Title:  title,
			Status: StatusSkipped,
			Err:    fmt.Errorf("rate limited at %s", url),
		}, nil
	}

	if err := g.page.WaitForURL(googleResultsURL, playwright.PageWaitForURLOptions{
		Timeout: locator.Millis(tolerantURLTimeout),
	}); err != nil {
		logger.Debug("Results URL not reached", zap.String("url", g.page.URL()), zap.Error(err))
	}
	if err := capture(g.page, g.sink, logger, "google", "search-"+title, false); err != nil {
		return Outcome{}, err
	}
	return Outcome{Title: title, Status: StatusPassed}, nil
}

// goHome opens the home page and dismisses the consent dialog, which may
// reappear on every load.
func (g *GoogleSearch) goHome() error {
	if _, err := g.page.Goto(g.homeURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("failed to open %s: %w", g.homeURL, err)
	}
	g.DismissConsent()
	return nil
}
