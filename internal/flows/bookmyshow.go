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

// BookMyShowURL is the ticketing site's root.
const BookMyShowURL = "https://in.bookmyshow.com"

const (
	cityProbeTimeout   = 2 * time.Second
	cityClickTimeout   = 5 * time.Second
	cityURLTimeout     = 15 * time.Second
	openerProbeTimeout = 1500 * time.Millisecond
	openerClickTimeout = 3 * time.Second
	inputProbeTimeout  = 3 * time.Second
	inputReuseTimeout  = 2 * time.Second
	suggestionsTimeout = 4 * time.Second
	resultProbeTimeout = 6 * time.Second
	typingDelay        = 50 * time.Millisecond
)

var (
	searchInputSelectors = []string{
		`input[placeholder*="Search"]`,
		`input[aria-label*="Search" i]`,
		`input[type="text"]`,
	}
	suggestionsSelector = `div:has-text("Top Results"), [class*="SearchedItems"], [data-test*="suggestions" i]`
	searchWord          = regexp.MustCompile(`(?i)search`)
)

// BookMyShow searches movie titles in one city of the ticketing site.
type BookMyShow struct {
	page    playwright.Page
	sink    report.Sink
	logger  *zap.Logger
	baseURL string
	city    string
}

// NewBookMyShow creates the flow for city on page.
func NewBookMyShow(page playwright.Page, city string, sink report.Sink, logger *zap.Logger) *BookMyShow {
	if sink == nil {
		sink = report.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookMyShow{
		page:    page,
		sink:    sink,
		logger:  logger.With(zap.String("flow", "bookmyshow"), zap.String("city", city)),
		baseURL: BookMyShowURL,
		city:    city,
	}
}

// CityURL is the city's home page, used when the picker cannot be driven.
func (b *BookMyShow) CityURL() string {
	return b.baseURL + "/explore/home/" + strings.ToLower(b.city)
}

func (b *BookMyShow) scope() string {
	return "bookmyshow-" + b.city
}

// Run selects the city and searches every title in order, stopping at the first failure.
func (b *BookMyShow) Run(titles []string) ([]Outcome, error) {
	if err := b.SelectCity(); err != nil {
		return nil, err
	}
	if err := capture(b.page, b.sink, b.logger, b.scope(), "city-selected", false); err != nil {
		return nil, err
	}

	selector, err := b.OpenSearch()
	if err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for _, title := range titles {
		if err := b.Search(selector, title); err != nil {
			return outcomes, err
		}
		if err := capture(b.page, b.sink, b.logger, b.scope(), "search-"+title, true); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, Outcome{Title: title, Status: StatusPassed})

		if selector, err = b.reopenSearch(selector); err != nil {
			return outcomes, err
		}
	}
	return outcomes, nil
}

// SelectCity picks the city from the picker or navigates straight to its home page.
func (b *BookMyShow) SelectCity() error {
	if err := b.goTo(b.baseURL + "/"); err != nil {
		return err
	}

	exact := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(b.city) + `$`)
	candidates := []locator.Candidate{
		locator.Locator("link "+b.city, b.page.GetByRole("link", playwright.PageGetByRoleOptions{Name: exact})),
		locator.Locator("button "+b.city, b.page.GetByRole("button", playwright.PageGetByRoleOptions{Name: exact})),
		locator.Locator("text "+b.city, b.page.GetByText(exact)),
	}
	if _, ok := locator.New(cityProbeTimeout, b.logger).ClickFirstVisible(cityClickTimeout, candidates...); !ok {
		b.logger.Info("City picker not available, navigating to city page")
		if err := b.goTo(b.CityURL()); err != nil {
			return err
		}
	}

	cityInURL := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(strings.ToLower(b.city)))
	if err := b.page.WaitForURL(cityInURL, playwright.PageWaitForURLOptions{
		Timeout: locator.Millis(cityURLTimeout),
	}); err != nil {
		return fmt.Errorf("city %s was not selected: %w", b.city, err)
	}
	return nil
}

// OpenSearch reveals the search input and returns the selector that found it.
func (b *BookMyShow) OpenSearch() (string, error) {
	openers := []locator.Candidate{
		locator.Locator("search button", b.page.GetByRole("button", playwright.PageGetByRoleOptions{Name: searchWord})),
		locator.Locator(`[data-test*="search" i]`, b.page.Locator(`[data-test*="search" i]`)),
		locator.Locator(`header search icon`, b.page.Locator(`header svg[title="Search"], header [aria-label*="Search" i]`)),
	}
	locator.New(openerProbeTimeout, b.logger).ClickFirstVisible(openerClickTimeout, openers...)

	inputs := locator.New(inputProbeTimeout, b.logger)
	found, err := inputs.Resolve(b.inputCandidates()...)
	if err == nil {
		return found.Name, nil
	}

	b.logger.Info("Search input not found, reloading city page")
	if err := b.goTo(b.CityURL()); err != nil {
		return "", err
	}
	found, err = inputs.Resolve(b.inputCandidates()...)
	if err != nil {
		return "", fmt.Errorf("search input not found: %w", err)
	}
	return found.Name, nil
}

// Search types title into the input and waits for any sign of a matching result.
func (b *BookMyShow) Search(selector, title string) error {
	input := b.page.Locator(selector).First()
	if err := input.Fill(""); err != nil {
		return fmt.Errorf("failed to clear search input: %w", err)
	}
	if err := input.PressSequentially(title, playwright.LocatorPressSequentiallyOptions{
		Delay: locator.Millis(typingDelay),
	}); err != nil {
		return fmt.Errorf("failed to type %q: %w", title, err)
	}

	// Suggestions are optional; their absence is not a failure.
	if err := b.page.Locator(suggestionsSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: locator.Millis(suggestionsTimeout),
	}); err != nil {
		b.logger.Debug("No suggestions shown", zap.String("title", title))
	}

	if err := b.page.Keyboard().Press("Enter"); err != nil {
		return fmt.Errorf("failed to submit %q: %w", title, err)
	}

	if _, err := locator.New(resultProbeTimeout, b.logger).Resolve(b.resultCandidates(title)...); err != nil {
		b.logger.Error("Search result not found", zap.String("title", title), zap.Error(err))
		return fmt.Errorf("%w: expected search results to contain %q: %w", ErrResultNotFound, title, err)
	}
	return nil
}

// reopenSearch prepares the next query: reopen search, else keep the current
// input, else reload the city page and open search from scratch.
func (b *BookMyShow) reopenSearch(current string) (string, error) {
	if selector, err := b.OpenSearch(); err == nil {
		return selector, nil
	}
	if _, err := b.page.WaitForSelector(current, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: locator.Millis(inputReuseTimeout),
	}); err == nil {
		return current, nil
	}
	if err := b.goTo(b.CityURL()); err != nil {
		return "", err
	}
	return b.OpenSearch()
}

func (b *BookMyShow) inputCandidates() []locator.Candidate {
	out := make([]locator.Candidate, 0, len(searchInputSelectors))
	for _, s := range searchInputSelectors {
		out = append(out, locator.Selector(b.page, s))
	}
	return out
}

func (b *BookMyShow) resultCandidates(title string) []locator.Candidate {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(title))
	byTitle := fmt.Sprintf(`[title*=%q]`, title)
	byText := "text=" + title
	return []locator.Candidate{
		locator.Locator("link "+title, b.page.GetByRole("link", playwright.PageGetByRoleOptions{Name: pattern})),
		locator.Locator("heading "+title, b.page.GetByRole("heading", playwright.PageGetByRoleOptions{Name: pattern})),
		locator.Locator(byTitle, b.page.Locator(byTitle)),
		locator.Locator(byText, b.page.Locator(byText)),
	}
}

func (b *BookMyShow) goTo(url string) error {
	if _, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
