package service

import (
	"context"
	"errors"
	"fmt"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/domain"

	"go.uber.org/zap"
)

// Page is the paginated product envelope served to the storefront
type Page struct {
	Content       []domain.Product `json:"content"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	TotalElements int              `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

// CatalogService serves the public, read-only product catalog
type CatalogService interface {
	List(ctx context.Context, spec catalog.FilterSpec) (*Page, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type catalogService struct {
	source catalog.Source
	engine *catalog.Engine
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService over source. Only active products are visible.
func NewCatalogService(source catalog.Source, engine *catalog.Engine, logger *zap.Logger) CatalogService {
	return &catalogService{
		source: source,
		engine: engine,
		logger: logger,
	}
}

// List returns one page of active products. A failing source yields an empty page.
func (s *catalogService) List(ctx context.Context, spec catalog.FilterSpec) (*Page, error) {
	spec = spec.Normalized()

	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("Catalog source unavailable, serving empty list", zap.Error(err))
		products = nil
	}

	content, total := s.engine.Paginate(activeOnly(products), spec)

	pages := 0
	if total > 0 {
		pages = (total-1)/spec.PageSize + 1
	}

	return &Page{
		Content:       content,
		Page:          spec.Page,
		Size:          spec.PageSize,
		TotalElements: total,
		TotalPages:    pages,
	}, nil
}

// Get returns an active product by id
func (s *catalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.source.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	if !product.Active {
		return nil, catalog.ErrProductNotFound
	}
	return product, nil
}

// Categories lists every category. A failing source yields an empty list.
func (s *catalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.source.FetchCategories(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("Catalog source unavailable, serving no categories", zap.Error(err))
		return []domain.Category{}, nil
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func activeOnly(products []domain.Product) []domain.Product {
	active := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}
