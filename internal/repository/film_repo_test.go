package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/themizzi/sitesearch/internal/models"
)

func TestDisplayTitle(t *testing.T) {
	tests := map[string]string{
		"ACADEMY DINOSAUR": "Academy Dinosaur",
		"zorro ark":        "Zorro Ark",
		"Wyoming Storm":    "Wyoming Storm",
	}
	for in, want := range tests {
		if got := DisplayTitle(in); got != want {
			t.Errorf("DisplayTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitleQuery(t *testing.T) {
	asc, err := titleQuery(models.SortAscending)
	if err != nil || !strings.Contains(asc, "ORDER BY title ASC") {
		t.Errorf("ascending query = %q, %v", asc, err)
	}

	desc, err := titleQuery(models.SortDescending)
	if err != nil || !strings.Contains(desc, "ORDER BY title DESC") {
		t.Errorf("descending query = %q, %v", desc, err)
	}

	if _, err := titleQuery("title; DROP TABLE film"); !errors.Is(err, models.ErrInvalidSortOrder) {
		t.Errorf("expected ErrInvalidSortOrder, got %v", err)
	}
}
