package flows

import (
	"regexp"

	"github.com/playwright-community/playwright-go"
)

// pwLocator lets fakes embed the interface without the field name hiding
// the interface's own Locator method.
type pwLocator = playwright.Locator

// fakePage is a scripted stand-in for a live site. Locators are keyed by
// selector, or by role/text plus accessible name, and are visible when
// visible(key) says so.
type fakePage struct {
	playwright.Page

	url       string
	visible   func(p *fakePage, key string) bool
	onClick   func(p *fakePage, key string)
	onEnter   func(p *fakePage)
	onGoto    func(p *fakePage)
	typed     string
	submitted string

	visited     []string
	clicked     []string
	screenshots int
	pauses      int
}

func (p *fakePage) isVisible(key string) bool {
	return p.visible != nil && p.visible(p, key)
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.visited = append(p.visited, url)
	p.url = url
	if p.onGoto != nil {
		p.onGoto(p)
	}
	return nil, nil
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error) {
	if p.isVisible(selector) {
		return nil, nil
	}
	return nil, playwright.ErrTimeout
}

func (p *fakePage) WaitForURL(url interface{}, options ...playwright.PageWaitForURLOptions) error {
	if re, ok := url.(*regexp.Regexp); ok && re.MatchString(p.url) {
		return nil
	}
	return playwright.ErrTimeout
}

func (p *fakePage) WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error {
	return nil
}

func (p *fakePage) WaitForTimeout(timeout float64) {
	p.pauses++
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	p.screenshots++
	return []byte(p.url), nil
}

func (p *fakePage) Keyboard() playwright.Keyboard {
	return &fakeKeyboard{page: p}
}

func (p *fakePage) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &fakeLocator{page: p, key: selector}
}

func (p *fakePage) GetByRole(role playwright.AriaRole, options ...playwright.PageGetByRoleOptions) playwright.Locator {
	key := "role=" + string(role)
	if len(options) > 0 {
		key += ":" + nameOf(options[0].Name)
	}
	return &fakeLocator{page: p, key: key}
}

func (p *fakePage) GetByText(text interface{}, options ...playwright.PageGetByTextOptions) playwright.Locator {
	return &fakeLocator{page: p, key: "text:" + nameOf(text)}
}

func nameOf(v interface{}) string {
	switch n := v.(type) {
	case *regexp.Regexp:
		return n.String()
	case string:
		return n
	}
	return ""
}

type fakeKeyboard struct {
	playwright.Keyboard
	page *fakePage
}

func (k *fakeKeyboard) Press(key string, options ...playwright.KeyboardPressOptions) error {
	if key == "Enter" {
		k.page.submitted = k.page.typed
		if k.page.onEnter != nil {
			k.page.onEnter(k.page)
		}
	}
	return nil
}

type fakeLocator struct {
	pwLocator

	page *fakePage
	key  string
}

func (l *fakeLocator) First() playwright.Locator {
	return l
}

func (l *fakeLocator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	if l.page.isVisible(l.key) {
		return nil
	}
	return playwright.ErrTimeout
}

func (l *fakeLocator) IsVisible(options ...playwright.LocatorIsVisibleOptions) (bool, error) {
	return l.page.isVisible(l.key), nil
}

func (l *fakeLocator) Click(options ...playwright.LocatorClickOptions) error {
	l.page.clicked = append(l.page.clicked, l.key)
	if l.page.onClick != nil {
		l.page.onClick(l.page, l.key)
	}
	return nil
}

func (l *fakeLocator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	l.page.typed = value
	return nil
}

func (l *fakeLocator) PressSequentially(text string, options ...playwright.LocatorPressSequentiallyOptions) error {
	l.page.typed += text
	return nil
}
