// Package locator resolves one logical UI element from an ordered list of
// alternative selection strategies.
package locator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ErrElementNotFound is matched by every resolution failure.
var ErrElementNotFound = errors.New("element not found")

// ErrNotVisible is returned by instant visibility probes.
var ErrNotVisible = errors.New("not visible")

// Candidate is one strategy for finding an element.
type Candidate struct {
	// Name describes the strategy, e.g. the CSS selector.
	Name string
	// Probe succeeds once the target is visible, waiting at most timeout.
	Probe func(timeout time.Duration) error
	// Activate clicks the target. Nil when the candidate is probe-only.
	Activate func(timeout time.Duration) error
	// Locator is the resolved handle, when the strategy has one.
	Locator playwright.Locator
}

// NotFoundError reports every strategy that was attempted.
type NotFoundError struct {
	Attempted []string
	Causes    []error
}

func (e *NotFoundError) Error() string {
	if len(e.Attempted) == 0 {
		return ErrElementNotFound.Error() + ": no candidates"
	}
	return fmt.Sprintf("%s: tried %s", ErrElementNotFound, strings.Join(e.Attempted, ", "))
}

// Unwrap exposes the sentinel and the per-candidate causes to errors.Is.
func (e *NotFoundError) Unwrap() []error {
	return append([]error{ErrElementNotFound}, e.Causes...)
}

// Resolver tries candidates in order, each once, with a fixed per-candidate timeout.
type Resolver struct {
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Resolver. A nil logger is replaced with a no-op logger.
func New(timeout time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{timeout: timeout, logger: logger}
}

// Timeout returns the per-candidate wait.
func (r *Resolver) Timeout() time.Duration {
	return r.timeout
}

// Resolve returns the first candidate whose probe succeeds. Later candidates
// are not probed once one succeeds, so the total wait is bounded by
// len(candidates) * timeout.
func (r *Resolver) Resolve(candidates ...Candidate) (Candidate, error) {
	notFound := &NotFoundError{}
	for _, c := range candidates {
		err := c.Probe(r.timeout)
		if err == nil {
			r.logger.Debug("Resolved element", zap.String("candidate", c.Name))
			return c, nil
		}
		r.logger.Debug("Candidate not visible", zap.String("candidate", c.Name), zap.Error(err))
		notFound.Attempted = append(notFound.Attempted, c.Name)
		notFound.Causes = append(notFound.Causes, err)
	}
	return Candidate{}, notFound
}

// ClickFirstVisible clicks the first visible candidate that can be activated.
// Click failures are swallowed; the result only says whether a click landed.
func (r *Resolver) ClickFirstVisible(clickTimeout time.Duration, candidates ...Candidate) (Candidate, bool) {
	for _, c := range candidates {
		if c.Activate == nil {
			continue
		}
		if err := c.Probe(r.timeout); err != nil {
			continue
		}
		if err := c.Activate(clickTimeout); err != nil {
			r.logger.Debug("Best-effort click failed", zap.String("candidate", c.Name), zap.Error(err))
			continue
		}
		return c, true
	}
	return Candidate{}, false
}

// Selector builds a candidate for a CSS selector on page.
func Selector(page playwright.Page, selector string) Candidate {
	c := Locator(selector, page.Locator(selector))
	c.Probe = func(timeout time.Duration) error {
		_, err := page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: Millis(timeout),
		})
		return err
	}
	return c
}

// Locator builds a candidate for an existing locator, matching its first element.
func Locator(name string, l playwright.Locator) Candidate {
	first := l.First()
	return Candidate{
		Name: name,
		Probe: func(timeout time.Duration) error {
			return first.WaitFor(playwright.LocatorWaitForOptions{
				State:   playwright.WaitForSelectorStateVisible,
				Timeout: Millis(timeout),
			})
		},
		Activate: func(timeout time.Duration) error {
			return first.Click(playwright.LocatorClickOptions{Timeout: Millis(timeout)})
		},
		Locator: first,
	}
}

// Visible builds a candidate that checks the first match's current
// visibility without waiting; the timeout only bounds the click.
func Visible(name string, l playwright.Locator) Candidate {
	c := Locator(name, l)
	first := c.Locator
	c.Probe = func(time.Duration) error {
		visible, err := first.IsVisible()
		if err != nil {
			return err
		}
		if !visible {
			return ErrNotVisible
		}
		return nil
	}
	return c
}

// Millis converts a duration to the millisecond float Playwright expects.
func Millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
