package service

import (
	"context"
	"fmt"
	"strings"

	"ai-kiosk/kiosk-svc/internal/catalog"
	"ai-kiosk/kiosk-svc/internal/domain"

	"go.uber.org/zap"
)

// CatalogService serves the catalog through a read-through cache. Every write
// invalidates the cached copy so the next turn sees it.
type CatalogService struct {
	repo       CatalogRepository
	cache      CatalogCache
	categories catalog.CategoryTable
	logger     *zap.SugaredLogger
}

func NewCatalogService(repo CatalogRepository, cache CatalogCache, categories catalog.CategoryTable, logger *zap.SugaredLogger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, categories: categories, logger: logger}
}

func (s *CatalogService) Index(ctx context.Context) (*catalog.Index, error) {
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warnw("catalog cache read failed", "error", err)
		} else if ok {
			return catalog.NewIndex(data, s.categories), nil
		}
	}

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, data); err != nil {
			s.logger.Warnw("catalog cache write failed", "error", err)
		}
	}
	return catalog.NewIndex(data, s.categories), nil
}

func (s *CatalogService) load(ctx context.Context) (catalog.Data, error) {
	stores, err := s.repo.ListStores(ctx)
	if err != nil {
		return catalog.Data{}, fmt.Errorf("%w: list stores: %v", ErrUpstream, err)
	}
	items, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return catalog.Data{}, fmt.Errorf("%w: list menu items: %v", ErrUpstream, err)
	}
	return catalog.Data{Stores: stores, Items: items}, nil
}

func (s *CatalogService) ListStores(ctx context.Context) ([]domain.Store, error) {
	return s.repo.ListStores(ctx)
}

func (s *CatalogService) CreateStore(ctx context.Context, store *domain.Store) error {
	store.Name = strings.TrimSpace(store.Name)
	if store.Name == "" {
		return fmt.Errorf("%w: store name is required", ErrInvalidInput)
	}
	if err := s.repo.CreateStore(ctx, store); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) DeleteStore(ctx context.Context, id int) (int64, error) {
	rows, err := s.repo.DeleteStore(ctx, id)
	if err != nil {
		return 0, err
	}
	if rows > 0 {
		s.invalidate(ctx)
	}
	return rows, nil
}

func (s *CatalogService) ListMenu(ctx context.Context, storeID int) ([]domain.MenuItem, error) {
	return s.repo.ListStoreMenu(ctx, storeID)
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.StoreID <= 0 || item.Name == "" {
		return fmt.Errorf("%w: store and item name are required", ErrInvalidInput)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Errorw("catalog cache invalidation failed", "error", err)
	}
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
