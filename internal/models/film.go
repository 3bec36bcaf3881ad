package models

import (
	"errors"
	"fmt"
	"strings"
)

// SortOrder selects which end of the title catalog to read
type SortOrder string

// Sort orders
const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Film is one row of the film catalog
type Film struct {
	ID    int
	Title string
}

// Domain errors
var (
	ErrEmptyTerm        = errors.New("search term cannot be empty")
	ErrInvalidSortOrder = errors.New("sort order must be asc or desc")
	ErrInvalidMinCount  = errors.New("minimum result count cannot be negative")
)

// FirstTitles are the first five catalog titles in ascending order.
var FirstTitles = []string{
	"Academy Dinosaur",
	"Ace Goldfinger",
	"Adaptation Holes",
	"Affair Prejudice",
	"African Egg",
}

// LastTitles are the last ten catalog titles in descending order.
var LastTitles = []string{
	"Zorro Ark",
	"Zoolander Fiction",
	"Zhivago Core",
	"Youth Kick",
	"Young Language",
	"Yentl Idaho",
	"Wyoming Storm",
	"Wrong Behavior",
	"Wrath Mile",
	"Worst Banger",
}

// ParseSortOrder validates a user supplied order
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortAscending, SortDescending:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
}

// BuiltinTitles returns up to limit built-in titles for order. A limit of
// zero or less returns the whole list.
func BuiltinTitles(order SortOrder, limit int) []string {
	src := FirstTitles
	if order == SortDescending {
		src = LastTitles
	}
	if limit <= 0 || limit > len(src) {
		limit = len(src)
	}
	return append([]string(nil), src[:limit]...)
}

// SearchQuery is one storefront search and what it should produce
type SearchQuery struct {
	Term     string
	Expected string
	MinCount int
}

// NewSearchQuery creates a query with validation
func NewSearchQuery(term, expected string, minCount int) (*SearchQuery, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}
	if minCount < 0 {
		return nil, ErrInvalidMinCount
	}
	return &SearchQuery{Term: term, Expected: expected, MinCount: minCount}, nil
}

// Satisfied reports whether count meets the query's lower bound
func (q *SearchQuery) Satisfied(count int) bool {
	return count > q.MinCount
}
