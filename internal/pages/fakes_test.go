package pages

import (
	"github.com/playwright-community/playwright-go"
)

// fakePage implements the handful of playwright.Page methods the page
// abstractions call. Anything else panics through the nil embedded interface.
type fakePage struct {
	playwright.Page

	gotoErr  error
	loadErr  error
	visible  map[string]bool
	texts    map[string]string
	headings map[string]bool

	visited []string
	filled  map[string]string
	clicked []string
}

func newFakePage() *fakePage {
	return &fakePage{
		visible:  map[string]bool{},
		texts:    map[string]string{},
		headings: map[string]bool{},
		filled:   map[string]string{},
	}
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.visited = append(p.visited, url)
	return nil, p.gotoErr
}

func (p *fakePage) WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error) {
	if p.visible[selector] {
		return nil, nil
	}
	return nil, playwright.ErrTimeout
}

func (p *fakePage) WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error {
	return p.loadErr
}

func (p *fakePage) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &fakeLocator{page: p, selector: selector}
}

// pwLocator lets fakes embed the interface without the field name hiding
// the interface's own Locator method.
type pwLocator = playwright.Locator

type fakeLocator struct {
	pwLocator

	page     *fakePage
	selector string
	heading  string
	level    int
}

func (l *fakeLocator) First() playwright.Locator {
	return l
}

func (l *fakeLocator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	if l.heading != "" {
		if l.level == productHeadingLevel && l.page.headings[l.heading] {
			return nil
		}
		return playwright.ErrTimeout
	}
	if l.page.visible[l.selector] {
		return nil
	}
	return playwright.ErrTimeout
}

func (l *fakeLocator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	l.page.filled[l.selector] = value
	return nil
}

func (l *fakeLocator) Click(options ...playwright.LocatorClickOptions) error {
	l.page.clicked = append(l.page.clicked, l.selector)
	return nil
}

func (l *fakeLocator) TextContent(options ...playwright.LocatorTextContentOptions) (string, error) {
	text, ok := l.page.texts[l.selector]
	if !ok {
		return "", playwright.ErrTimeout
	}
	return text, nil
}

func (l *fakeLocator) GetByRole(role playwright.AriaRole, options ...playwright.LocatorGetByRoleOptions) playwright.Locator {
	child := &fakeLocator{page: l.page, selector: l.selector}
	if role == "heading" && len(options) > 0 {
		child.heading, _ = options[0].Name.(string)
		if options[0].Level != nil {
			child.level = *options[0].Level
		}
	}
	return child
}
