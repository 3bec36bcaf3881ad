package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// DirSink writes attachments under <root>/<run>/<scope>/<seq>-<name><ext>.
type DirSink struct {
	root  string
	runID string

	mu  sync.Mutex
	seq map[string]int
}

// NewDirSink creates a sink for a new run under root.
func NewDirSink(root string, now time.Time) *DirSink {
	return &DirSink{
		root:  root,
		runID: RunID(now),
		seq:   make(map[string]int),
	}
}

// RunID names a run directory so that lexical order is chronological.
func RunID(now time.Time) string {
	return now.UTC().Format("20060102-150405") + "-" + uuid.New().String()[:8]
}

// Dir is the directory holding this run's attachments.
func (s *DirSink) Dir() string {
	return filepath.Join(s.root, s.runID)
}

// Attach writes a to disk.
func (s *DirSink) Attach(a Attachment) error {
	scope := Slug(a.Scope)
	if scope == "" {
		scope = "run"
	}

	s.mu.Lock()
	s.seq[scope]++
	n := s.seq[scope]
	s.mu.Unlock()

	dir := filepath.Join(s.Dir(), scope)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create attachment directory: %w", err)
	}

	name := Slug(a.Name)
	if name == "" {
		name = "attachment"
	}
	named := a
	named.Name = fmt.Sprintf("%02d-%s", n, name)
	path := filepath.Join(dir, named.FileName())
	if err := os.WriteFile(path, a.Body, 0o644); err != nil {
		return fmt.Errorf("failed to write attachment %s: %w", path, err)
	}
	return nil
}

// Slug lowercases s and replaces anything outside [a-z0-9] with dashes.
func Slug(s string) string {
	return strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
