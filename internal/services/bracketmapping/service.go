package bracketmapping

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/internal/repositories"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

type Repository interface {
	List(ctx context.Context) ([]models.BracketMapping, error)
	GetByID(ctx context.Context, id int) (*models.BracketMapping, error)
	Create(ctx context.Context, m *models.BracketMapping) error
	Update(ctx context.Context, id int, m *models.BracketMapping) error
	Delete(ctx context.Context, id int) error
	Upsert(ctx context.Context, m *models.BracketMapping) error
}

// Cache holds the whole mapping table.
type Cache interface {
	Get(ctx context.Context) ([]models.BracketMapping, bool, error)
	Set(ctx context.Context, mappings []models.BracketMapping) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	logger ectologger.Logger
	repo   Repository
	cache  Cache
}

// NewService builds the mapping service. cache may be nil.
func NewService(logger ectologger.Logger, repo Repository, cache Cache) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

// List returns the mapping table, reading through the cache when one is set.
// Cache failures fall back to the database.
func (s *Service) List(ctx context.Context) ([]models.BracketMapping, error) {
	ctx, span := tracing.StartSpan(ctx, "bracketmapping.List")
	defer span.End()

	if s.cache != nil {
		mappings, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to read bracket mapping cache")
		}
		if ok {
			return mappings, nil
		}
	}

	mappings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, mappings); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("failed to fill bracket mapping cache")
		}
	}
	return mappings, nil
}

func (s *Service) Create(ctx context.Context, m *models.BracketMapping) error {
	ctx, span := tracing.StartSpan(ctx, "bracketmapping.Create")
	defer span.End()

	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Update rewrites a custom mapping. System tags are reported as missing.
func (s *Service) Update(ctx context.Context, id int, m *models.BracketMapping) error {
	ctx, span := tracing.StartSpan(ctx, "bracketmapping.Update")
	defer span.End()

	if _, err := s.editable(ctx, id); err != nil {
		return err
	}

	m.SystemTag = false
	if err := s.repo.Update(ctx, id, m); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a custom mapping. System tags are reported as missing.
func (s *Service) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.StartSpan(ctx, "bracketmapping.Delete")
	defer span.End()

	if _, err := s.editable(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Seed upserts custom mappings by tag name and returns how many were written.
// Seeded rows are never system tags, and existing system tags are left alone.
func (s *Service) Seed(ctx context.Context, mappings []models.BracketMapping) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "bracketmapping.Seed")
	defer span.End()

	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	protected := map[string]bool{}
	for _, m := range existing {
		if m.SystemTag {
			protected[m.TagName] = true
		}
	}

	written := 0
	for i := range mappings {
		m := &mappings[i]
		if protected[m.TagName] {
			s.logger.WithContext(ctx).WithField("tag_name", m.TagName).Warn("Skipping seed for system tag")
			continue
		}
		m.SystemTag = false
		if err := s.repo.Upsert(ctx, m); err != nil {
			return written, err
		}
		written++
	}
	s.invalidate(ctx)
	return written, nil
}

func (s *Service) editable(ctx context.Context, id int) (*models.BracketMapping, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.SystemTag {
		s.logger.WithContext(ctx).WithFields(map[string]any{
			"id":       id,
			"tag_name": existing.TagName,
		}).Warn("refusing to modify system bracket mapping")
		return nil, repositories.NotFound("Bracket mapping with ID %d not found.", id)
	}
	return existing, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to invalidate bracket mapping cache")
	}
}
