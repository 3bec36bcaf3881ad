package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ScreenshotPrefix is the URL prefix the report directory is served under
const ScreenshotPrefix = "/screenshots/"

// Screenshot is one captured image of a run
type Screenshot struct {
	Name string
	URL  string
}

// Scope groups the screenshots of one scenario or flow
type Scope struct {
	Name  string
	Files []Screenshot
}

// Run is one suite or flow execution
type Run struct {
	ID     string
	Scopes []Scope
}

// ReportPage is the data rendered by the report template
type ReportPage struct {
	Dir  string
	Runs []Run
}

// ReportHandler renders an index of the screenshots in the report directory
type ReportHandler struct {
	template *template.Template
	dir      string
	logger   *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(templatePath, dir string, logger *zap.Logger) (*ReportHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReportHandler{
		template: tmpl,
		dir:      dir,
		logger:   logger.With(zap.String("component", "report")),
	}, nil
}

// ServeHTTP handles the GET / request
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runs, err := ListRuns(h.dir)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.String("dir", h.dir), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.template.Execute(w, ReportPage{Dir: h.dir, Runs: runs}); err != nil {
		h.logger.Error("Failed to render report", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// ListRuns reads <dir>/<run>/<scope>/*.png, newest run first. A missing
// directory means no runs yet.
func ListRuns(dir string) ([]Run, error) {
	runDirs, err := subdirs(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(runDirs)))

	runs := make([]Run, 0, len(runDirs))
	for _, id := range runDirs {
		scopeDirs, err := subdirs(filepath.Join(dir, id))
		if err != nil {
			return nil, fmt.Errorf("failed to read run %s: %w", id, err)
		}

		run := Run{ID: id}
		for _, scope := range scopeDirs {
			files, err := screenshots(filepath.Join(dir, id, scope))
			if err != nil {
				return nil, fmt.Errorf("failed to read scope %s/%s: %w", id, scope, err)
			}
			if len(files) == 0 {
				continue
			}
			s := Scope{Name: scope}
			for _, f := range files {
				s.Files = append(s.Files, Screenshot{
					Name: strings.TrimSuffix(f, filepath.Ext(f)),
					URL:  path.Join(ScreenshotPrefix, id, scope, f),
				})
			}
			run.Scopes = append(run.Scopes, s)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// screenshots returns the PNG file names in dir, in sequence order.
func screenshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
