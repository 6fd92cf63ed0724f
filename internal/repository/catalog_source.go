package repository

import (
	"context"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/domain"
)

// CatalogSource serves the storefront catalog from the product and category tables
type CatalogSource struct {
	products   ProductRepository
	categories CategoryRepository
}

var _ catalog.Source = (*CatalogSource)(nil)

// NewCatalogSource adapts the repositories to catalog.Source
func NewCatalogSource(products ProductRepository, categories CategoryRepository) *CatalogSource {
	return &CatalogSource{products: products, categories: categories}
}

func (s *CatalogSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.All(ctx)
}

func (s *CatalogSource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	list, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(list))
	for _, c := range list {
		categories = append(categories, *c)
	}
	return categories, nil
}

func (s *CatalogSource) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}
