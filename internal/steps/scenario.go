package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/sitesearch/internal/browser"
	"github.com/themizzi/sitesearch/internal/models"
	"github.com/themizzi/sitesearch/internal/pages"
	"github.com/themizzi/sitesearch/internal/report"
	"go.uber.org/zap"
)

// scenario is the state owned by exactly one running scenario.
type scenario struct {
	runner *Runner
	logger *zap.Logger
	name   string

	context playwright.BrowserContext
	page    playwright.Page
	home    *pages.HomePage
	results *pages.SearchResultsPage
	query   *models.SearchQuery
}

func (s *scenario) setUp(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	s.name = sc.Name
	s.logger = s.runner.logger.With(zap.String("scenario", sc.Name))

	if s.runner.launchErr != nil {
		return ctx, fmt.Errorf("%w: %w", ErrBrowserUnavailable, s.runner.launchErr)
	}
	if s.runner.browser == nil {
		return ctx, ErrBrowserUnavailable
	}

	bc, err := s.runner.browser.NewContext(browser.ContextOptions(s.runner.browserCfg))
	if err != nil {
		s.logger.Error("Failed to set up browser context", zap.Error(err))
		return ctx, fmt.Errorf("failed to create browser context: %w", err)
	}
	s.context = bc

	timeout := float64(s.runner.suiteCfg.StepTimeout.Milliseconds())
	bc.SetDefaultTimeout(timeout)
	bc.SetDefaultNavigationTimeout(timeout)

	page, err := bc.NewPage()
	if err != nil {
		s.logger.Error("Failed to open page", zap.Error(err))
		return ctx, fmt.Errorf("failed to create page: %w", err)
	}
	s.page = page
	s.home = pages.NewHomePage(page, s.logger)
	s.results = pages.NewSearchResultsPage(page, s.logger)

	return ctx, nil
}

// tearDown never returns an error of its own so one scenario's cleanup
// cannot fail the next.
func (s *scenario) tearDown(ctx context.Context, sc *godog.Scenario, stepErr error) (context.Context, error) {
	if s.page != nil {
		var err error
		if ctx, err = s.attach(ctx, "test-end"); err != nil {
			s.logger.Warn("Failed to attach final screenshot", zap.Error(err))
		}
	}

	if s.context != nil {
		if err := s.context.Close(); err != nil {
			s.logger.Error("Failed to close browser context", zap.Error(err))
		}
		s.context, s.page = nil, nil
	}

	if stepErr != nil {
		s.logger.Warn("Scenario failed", zap.Error(stepErr))
	} else {
		s.logger.Info("Scenario passed")
	}
	return ctx, nil
}

// attach screenshots the page into both the godog report and the sink.
func (s *scenario) attach(ctx context.Context, label string) (context.Context, error) {
	a, err := report.Screenshot(s.page, s.name, label, false)
	if err != nil {
		return ctx, err
	}
	if err := s.runner.sink.Attach(a); err != nil {
		s.logger.Warn("Failed to store screenshot", zap.String("label", label), zap.Error(err))
	}
	return godog.Attach(ctx, godog.Attachment{
		Body:      a.Body,
		FileName:  a.FileName(),
		MediaType: a.MediaType,
	}), nil
}
