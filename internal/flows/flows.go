// Package flows holds self-contained search walkthroughs against live sites.
// Each flow keeps its own candidate lists and tolerances.
package flows

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/sitesearch/internal/report"
	"go.uber.org/zap"
)

// ErrResultNotFound means no result indicator appeared for a search term.
var ErrResultNotFound = errors.New("search result not found")

// Status is the outcome of one search term.
type Status string

// Outcome statuses
const (
	StatusPassed  Status = "passed"
	StatusSkipped Status = "skipped"
)

// Outcome records what happened to one search term.
type Outcome struct {
	Title  string
	Status Status
	// Err is why the title was skipped.
	Err error
}

// capture screenshots page into sink. Sink failures are logged, not returned.
func capture(page playwright.Page, sink report.Sink, logger *zap.Logger, scope, name string, fullPage bool) error {
	a, err := report.Screenshot(page, scope, name, fullPage)
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", name, err)
	}
	if err := sink.Attach(a); err != nil {
		logger.Warn("Failed to store screenshot", zap.String("name", name), zap.Error(err))
	}
	return nil
}
