// Package report captures screenshots and stores them as labelled attachments.
package report

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// MediaTypePNG is the media type of every screenshot.
const MediaTypePNG = "image/png"

// Attachment is one diagnostic blob tied to a scenario or flow step.
type Attachment struct {
	Scope     string
	Name      string
	MediaType string
	Body      []byte
}

// FileName is the label with the extension implied by the media type.
func (a Attachment) FileName() string {
	if a.MediaType == MediaTypePNG {
		return a.Name + ".png"
	}
	return a.Name
}

// Sink accepts attachments. Implementations must be safe for concurrent use.
type Sink interface {
	Attach(a Attachment) error
}

// Screenshot captures page as a PNG attachment.
func Screenshot(page playwright.Page, scope, name string, fullPage bool) (Attachment, error) {
	body, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(fullPage),
	})
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to capture screenshot %q: %w", name, err)
	}
	return Attachment{Scope: scope, Name: name, MediaType: MediaTypePNG, Body: body}, nil
}

// Discard drops every attachment.
var Discard Sink = discard{}

type discard struct{}

func (discard) Attach(Attachment) error { return nil }

// Recorder keeps attachments in memory.
type Recorder struct {
	mu          sync.Mutex
	attachments []Attachment
}

// Attach records a.
func (r *Recorder) Attach(a Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments = append(r.attachments, a)
	return nil
}

// Attachments returns a copy of everything recorded so far.
func (r *Recorder) Attachments() []Attachment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Attachment(nil), r.attachments...)
}

// Names returns the recorded labels in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.attachments))
	for i, a := range r.attachments {
		names[i] = a.Name
	}
	return names
}

// Tee fans every attachment out to all sinks, returning the first error.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Attach(a Attachment) error {
	var first error
	for _, s := range t {
		if err := s.Attach(a); err != nil && first == nil {
			first = err
		}
	}
	return first
}
