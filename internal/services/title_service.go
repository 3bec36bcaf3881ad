package services

import (
	"context"
	"fmt"

	"github.com/themizzi/sitesearch/internal/models"
	"go.uber.org/zap"
)

// FilmRepository defines the interface for reading catalog titles
type FilmRepository interface {
	ListTitles(ctx context.Context, order models.SortOrder, limit int) ([]string, error)
}

// TitleService picks the film titles a search flow should use
type TitleService interface {
	Titles(ctx context.Context, order models.SortOrder, limit int) ([]string, error)
}

// TitleServiceImpl implements TitleService
type TitleServiceImpl struct {
	filmRepo FilmRepository
	logger   *zap.Logger
}

// NewTitleService creates a title service. A nil repository means the
// built-in title lists are used.
func NewTitleService(filmRepo FilmRepository, logger *zap.Logger) TitleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TitleServiceImpl{
		filmRepo: filmRepo,
		logger:   logger.With(zap.String("component", "titles")),
	}
}

// Titles returns up to limit titles from the catalog, or from the built-in
// lists when no catalog is configured. Catalog errors are returned as is.
func (s *TitleServiceImpl) Titles(ctx context.Context, order models.SortOrder, limit int) ([]string, error) {
	if order != models.SortAscending && order != models.SortDescending {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidSortOrder, order)
	}

	if s.filmRepo == nil {
		titles := models.BuiltinTitles(order, limit)
		s.logger.Debug("Using built-in titles", zap.String("order", string(order)), zap.Int("count", len(titles)))
		return titles, nil
	}

	if limit <= 0 {
		limit = len(models.BuiltinTitles(order, 0))
	}
	titles, err := s.filmRepo.ListTitles(ctx, order, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles: %w", err)
	}
	s.logger.Debug("Loaded catalog titles", zap.String("order", string(order)), zap.Int("count", len(titles)))
	return titles, nil
}
