package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"abk-storefront/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Source supplies the raw product and category listings the engine works on
type Source interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
	FetchCategories(ctx context.Context) ([]domain.Category, error)
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
}

//go:embed fixtures/*.json
var fixtures embed.FS

// FixtureSource serves the bundled demo catalog without a database
type FixtureSource struct {
	products   []domain.Product
	categories []domain.Category
}

// NewFixtureSource decodes the embedded fixtures
func NewFixtureSource() (*FixtureSource, error) {
	rawProducts, err := fixtures.ReadFile("fixtures/products.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read product fixtures: %w", err)
	}
	rawCategories, err := fixtures.ReadFile("fixtures/categories.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read category fixtures: %w", err)
	}

	return NewStaticSource(rawProducts, rawCategories)
}

// NewStaticSource builds a source from product and category payloads in any accepted shape
func NewStaticSource(rawProducts, rawCategories []byte) (*FixtureSource, error) {
	products, err := DecodeProducts(rawProducts)
	if err != nil {
		return nil, err
	}
	categories, err := DecodeCategories(rawCategories)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	for i := range products {
		if products[i].CategoryName == "" {
			products[i].CategoryName = names[products[i].CategoryID]
		}
	}

	return &FixtureSource{products: products, categories: categories}, nil
}

func (s *FixtureSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *FixtureSource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func (s *FixtureSource) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, ErrProductNotFound
}
