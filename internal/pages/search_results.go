package pages

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/sitesearch/internal/locator"
	"go.uber.org/zap"
)

const (
	resultsContainerSelector = "#center_column"
	resultsCounterSelector   = ".heading-counter"
	productHeadingLevel      = 5
)

var digitRun = regexp.MustCompile(`\d+`)

// SearchResultsPage is the listing shown after a product search.
type SearchResultsPage struct {
	page   playwright.Page
	logger *zap.Logger
}

// NewSearchResultsPage binds a SearchResultsPage to page.
func NewSearchResultsPage(page playwright.Page, logger *zap.Logger) *SearchResultsPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchResultsPage{page: page, logger: logger.With(zap.String("page", "search-results"))}
}

// VerifyProductInResults waits for a product heading named name in the results.
func (s *SearchResultsPage) VerifyProductInResults(name string) error {
	if err := s.waitVisible(resultsContainerSelector); err != nil {
		return fail(s.logger, ErrVerificationFailed, err, "Results container not visible", zap.String("product", name))
	}

	heading := s.page.Locator(resultsContainerSelector).GetByRole(playwright.AriaRole("heading"), playwright.LocatorGetByRoleOptions{
		Name:  name,
		Level: playwright.Int(productHeadingLevel),
	})
	if err := heading.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: locator.Millis(elementTimeout),
	}); err != nil {
		return fail(s.logger, ErrVerificationFailed, err, "Product not found in results", zap.String("product", name))
	}
	return nil
}

// SearchResultsCount reads the number shown in the results counter.
func (s *SearchResultsPage) SearchResultsCount() (int, error) {
	if err := s.waitVisible(resultsCounterSelector); err != nil {
		return 0, fail(s.logger, ErrCountNotFound, err, "Results counter not visible")
	}

	text, err := s.page.Locator(resultsCounterSelector).TextContent()
	if err != nil {
		return 0, fail(s.logger, ErrCountNotFound, err, "Failed to read results counter")
	}

	count, err := ParseResultsCount(text)
	if err != nil {
		return 0, fail(s.logger, ErrCountNotFound, err, "Failed to parse results counter", zap.String("text", text))
	}
	return count, nil
}

func (s *SearchResultsPage) waitVisible(selector string) error {
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: locator.Millis(elementTimeout),
	})
	return err
}

// ParseResultsCount returns the first run of digits in text.
func ParseResultsCount(text string) (int, error) {
	match := digitRun.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("%w in %q", ErrCountNotFound, text)
	}
	count, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCountNotFound, err)
	}
	return count, nil
}
