package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/themizzi/sitesearch/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilmRepository reads titles from the film catalog
type FilmRepository struct {
	db *sql.DB
}

// NewFilmRepository creates a new film repository
func NewFilmRepository(db *sql.DB) *FilmRepository {
	return &FilmRepository{
		db: db,
	}
}

// titleQuery returns the listing query for order. The direction cannot be a
// bind parameter, so only the two validated orders are accepted.
func titleQuery(order models.SortOrder) (string, error) {
	switch order {
	case models.SortAscending:
		return `SELECT film_id, title FROM film ORDER BY title ASC LIMIT $1`, nil
	case models.SortDescending:
		return `SELECT film_id, title FROM film ORDER BY title DESC LIMIT $1`, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrInvalidSortOrder, order)
}

// DisplayTitle turns a catalog title such as "ACADEMY DINOSAUR" into the
// form typed into search boxes.
func DisplayTitle(title string) string {
	return cases.Title(language.English).String(title)
}

// ListFilms returns up to limit films ordered by title
func (r *FilmRepository) ListFilms(ctx context.Context, order models.SortOrder, limit int) ([]models.Film, error) {
	query, err := titleQuery(order)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	defer rows.Close()

	var films []models.Film
	for rows.Next() {
		var f models.Film
		if err := rows.Scan(&f.ID, &f.Title); err != nil {
			return nil, fmt.Errorf("failed to scan film: %w", err)
		}
		f.Title = DisplayTitle(f.Title)
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate films: %w", err)
	}

	return films, nil
}

// ListTitles returns up to limit display titles ordered by title
func (r *FilmRepository) ListTitles(ctx context.Context, order models.SortOrder, limit int) ([]string, error) {
	films, err := r.ListFilms(ctx, order, limit)
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(films))
	for i, f := range films {
		titles[i] = f.Title
	}
	return titles, nil
}
