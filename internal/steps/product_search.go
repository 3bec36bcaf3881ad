package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/sitesearch/internal/models"
	"go.uber.org/zap"
)

const resultsContainer = "#center_column"

func (s *scenario) registerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I am on the home page$`, s.iAmOnTheHomePage)
	sc.Step(`^I search for "([^"]*)"$`, s.iSearchFor)
	sc.Step(`^I should see "([^"]*)" in the search results$`, s.iShouldSeeInTheSearchResults)
	sc.Step(`^the search results count should be greater than (\d+)$`, s.theSearchResultsCountShouldBeGreaterThan)
}

func (s *scenario) iAmOnTheHomePage(ctx context.Context) (context.Context, error) {
	if err := s.home.NavigateTo(); err != nil {
		return ctx, s.stepFailed("Failed to navigate to home page", err)
	}
	for _, state := range []*playwright.LoadState{playwright.LoadStateDomcontentloaded, playwright.LoadStateNetworkidle} {
		if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: state}); err != nil {
			return ctx, s.stepFailed("Home page did not settle", err)
		}
	}
	return s.attach(ctx, "home-page")
}

func (s *scenario) iSearchFor(ctx context.Context, term string) (context.Context, error) {
	query, err := models.NewSearchQuery(term, "", 0)
	if err != nil {
		return ctx, s.stepFailed("Invalid search", err, zap.String("term", term))
	}
	s.query = query
	term = query.Term

	if err := s.home.SearchProduct(term); err != nil {
		return ctx, s.stepFailed("Failed to search", err, zap.String("term", term))
	}
	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: playwright.LoadStateNetworkidle}); err != nil {
		return ctx, s.stepFailed("Search results did not settle", err, zap.String("term", term))
	}
	if _, err := s.page.WaitForSelector(resultsContainer, playwright.PageWaitForSelectorOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return ctx, s.stepFailed("Search results not visible", err, zap.String("term", term))
	}
	return s.attach(ctx, "after-search")
}

func (s *scenario) iShouldSeeInTheSearchResults(ctx context.Context, product string) (context.Context, error) {
	if err := s.results.VerifyProductInResults(product); err != nil {
		return ctx, s.stepFailed("Failed to verify product in results", err, zap.String("product", product))
	}
	return s.attach(ctx, "search-results")
}

func (s *scenario) theSearchResultsCountShouldBeGreaterThan(ctx context.Context, threshold int) (context.Context, error) {
	count, err := s.results.SearchResultsCount()
	if err != nil {
		return ctx, s.stepFailed("Failed to read search results count", err, zap.Int("threshold", threshold))
	}
	expectation := models.SearchQuery{MinCount: threshold}
	if s.query != nil {
		expectation.Term = s.query.Term
	}
	if !expectation.Satisfied(count) {
		err := fmt.Errorf("expected search results count greater than %d, got %d", threshold, count)
		return ctx, s.stepFailed("Search results count too low", err, zap.String("term", expectation.Term))
	}
	return s.attach(ctx, "results-count")
}

// stepFailed logs err with context and hands it back unchanged.
func (s *scenario) stepFailed(msg string, err error, fields ...zap.Field) error {
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	return err
}
