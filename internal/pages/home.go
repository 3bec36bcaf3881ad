// Package pages wraps the demo storefront's pages behind intention-level operations.
package pages

import (
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/sitesearch/internal/locator"
	"go.uber.org/zap"
)

// HomeURL is the demo storefront entry page.
const HomeURL = "http://www.automationpractice.pl/index.php"

const (
	navigationTimeout = 30 * time.Second
	elementTimeout    = 10 * time.Second
)

var (
	searchBoxSelectors    = []string{`input[name="search_query"]`, `#search_query_top`}
	searchButtonSelectors = []string{`button[name="submit_search"]`, `#searchbox button[type="submit"]`}
)

// HomePage is the storefront landing page with its search form.
type HomePage struct {
	page     playwright.Page
	resolver *locator.Resolver
	logger   *zap.Logger
	url      string
}

// NewHomePage binds a HomePage to page.
func NewHomePage(page playwright.Page, logger *zap.Logger) *HomePage {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("page", "home"))
	return &HomePage{
		page:     page,
		resolver: locator.New(elementTimeout, logger),
		logger:   logger,
		url:      HomeURL,
	}
}

// NavigateTo loads the home page and waits for the search form.
func (h *HomePage) NavigateTo() error {
	_, err := h.page.Goto(h.url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   locator.Millis(navigationTimeout),
	})
	if err != nil {
		return fail(h.logger, ErrNavigationFailed, err, "Failed to navigate to home page", zap.String("url", h.url))
	}

	if _, err := h.resolver.Resolve(h.candidates(searchBoxSelectors)...); err != nil {
		return fail(h.logger, ErrNavigationFailed, err, "Search box did not appear", zap.String("url", h.url))
	}
	if _, err := h.resolver.Resolve(h.candidates(searchButtonSelectors)...); err != nil {
		return fail(h.logger, ErrNavigationFailed, err, "Search button did not appear", zap.String("url", h.url))
	}
	return nil
}

// SearchProduct submits term through the search form.
func (h *HomePage) SearchProduct(term string) error {
	box, err := h.resolver.Resolve(h.candidates(searchBoxSelectors)...)
	if err != nil {
		return fail(h.logger, ErrSearchFailed, err, "Search box not available", zap.String("term", term))
	}
	if err := box.Locator.Fill(term); err != nil {
		return fail(h.logger, ErrSearchFailed, err, "Failed to fill search box", zap.String("term", term))
	}

	button, err := h.resolver.Resolve(h.candidates(searchButtonSelectors)...)
	if err != nil {
		return fail(h.logger, ErrSearchFailed, err, "Search button not available", zap.String("term", term))
	}
	if err := button.Activate(elementTimeout); err != nil {
		return fail(h.logger, ErrSearchFailed, err, "Failed to submit search", zap.String("term", term))
	}

	if err := h.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: locator.Millis(elementTimeout),
	}); err != nil {
		return fail(h.logger, ErrSearchFailed, err, "Search results did not settle", zap.String("term", term))
	}
	return nil
}

func (h *HomePage) candidates(selectors []string) []locator.Candidate {
	out := make([]locator.Candidate, 0, len(selectors))
	for _, s := range selectors {
		out = append(out, locator.Selector(h.page, s))
	}
	return out
}
