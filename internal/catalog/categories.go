package catalog

import (
	"context"
	"encoding/json"
	"log/slog"

	"gorm.io/gorm"

	"naomitex/internal/cache"
	"naomitex/internal/models"
)

// CategoryCacheKey is the single key the category list lives under.
const CategoryCacheKey = "category_list"

// CategoryService serves the category collection, optionally through a
// read-through cache. The cached entry has no TTL: a category created after
// the first read stays invisible until Invalidate is called or the cache
// store is reopened. Acceptable for reference data.
type CategoryService struct {
	db      *gorm.DB
	store   cache.Store
	enabled bool
	logger  *slog.Logger
}

// NewCategoryService creates a category service. With enabled false or a
// nil store every read goes to the database.
func NewCategoryService(db *gorm.DB, store cache.Store, enabled bool, logger *slog.Logger) *CategoryService {
	return &CategoryService{db: db, store: store, enabled: enabled, logger: logger}
}

// Categories returns all categories, from the cache when warm.
// Database failures surface unchanged; cache population failures are
// logged and do not fail the read.
func (s *CategoryService) Categories(ctx context.Context) ([]models.Category, error) {
	if !s.enabled || s.store == nil {
		return s.load(ctx)
	}

	if raw, ok, err := s.store.Get(CategoryCacheKey); err == nil && ok {
		var categories []models.Category
		if err := json.Unmarshal(raw, &categories); err == nil {
			return categories, nil
		}
		s.logger.Warn("dropping undecodable category cache entry")
		_ = s.store.Delete(CategoryCacheKey)
	} else if err != nil {
		s.logger.Warn("category cache read failed", "error", err)
	}

	categories, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(categories); err == nil {
		if err := s.store.Set(CategoryCacheKey, raw); err != nil {
			s.logger.Warn("category cache write failed", "error", err)
		}
	}
	return categories, nil
}

// Invalidate drops the cached category list.
func (s *CategoryService) Invalidate() error {
	if s.store == nil {
		return nil
	}
	return s.store.Delete(CategoryCacheKey)
}

func (s *CategoryService) load(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
