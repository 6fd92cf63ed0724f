package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type failingSource struct{}

func (failingSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingSource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingSource) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	return nil, errors.New("upstream unavailable")
}

func newFixtureCatalog(t *testing.T) CatalogService {
	t.Helper()

	source, err := catalog.NewFixtureSource()
	if err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}
	return NewCatalogService(source, catalog.NewEngine(language.Turkish), zap.NewNop())
}

// Feature: storefront catalog, Property 20: Page envelopes are consistent with the filtered count
func TestProperty_PageEnvelopeIsConsistent(t *testing.T) {
	svc := newFixtureCatalog(t)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("content length and totals agree for any page and size", prop.ForAll(
		func(page, size int, categoryID string) bool {
			spec := catalog.NewFilterSpec().WithCategory(categoryID).WithPage(page).WithPageSize(size)

			result, err := svc.List(ctx, spec)
			if err != nil {
				return false
			}

			remaining := result.TotalElements - page*size
			want := 0
			if remaining > 0 {
				want = min(remaining, size)
			}
			if len(result.Content) != want {
				t.Logf("FAIL: page %d size %d: want %d items, got %d", page, size, want, len(result.Content))
				return false
			}

			return result.TotalPages == (result.TotalElements+size-1)/size &&
				result.Page == page && result.Size == size
		},
		gen.IntRange(0, 5),
		gen.IntRange(1, 20),
		gen.OneConstOf("", "1", "2", "3", "4", "5", "99"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCatalogListDefaults(t *testing.T) {
	svc := newFixtureCatalog(t)

	page, err := svc.List(context.Background(), catalog.FilterSpec{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if page.TotalElements != 14 || page.TotalPages != 2 || page.Size != catalog.DefaultPageSize {
		t.Errorf("Unexpected envelope: total=%d pages=%d size=%d", page.TotalElements, page.TotalPages, page.Size)
	}
	if len(page.Content) != 12 || page.Content[0].ID != "101" {
		t.Errorf("Expected upstream order starting at 101, got %d items", len(page.Content))
	}
}

func TestCatalogListHugePageSize(t *testing.T) {
	svc := newFixtureCatalog(t)

	page, err := svc.List(context.Background(), catalog.FilterSpec{PageSize: math.MaxInt})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalPages != 1 || len(page.Content) != 14 {
		t.Errorf("Expected everything on one page, got pages=%d items=%d", page.TotalPages, len(page.Content))
	}

	page, err = svc.List(context.Background(), catalog.FilterSpec{Page: math.MaxInt, PageSize: math.MaxInt})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalPages != 1 || len(page.Content) != 0 || page.Content == nil {
		t.Errorf("Expected an empty page past the end, got pages=%d items=%d", page.TotalPages, len(page.Content))
	}
}

func TestCatalogHidesInactiveProducts(t *testing.T) {
	products := []byte(`[
		{"id": 1, "name": "Açık Yüzük", "price": 100, "categoryId": 1},
		{"id": 2, "name": "Kapalı Yüzük", "price": 200, "categoryId": 1, "active": false}
	]`)
	categories := []byte(`[{"id": 1, "name": "Yüzük"}]`)

	source, err := catalog.NewStaticSource(products, categories)
	if err != nil {
		t.Fatalf("Failed to build source: %v", err)
	}
	svc := NewCatalogService(source, catalog.NewEngine(language.Turkish), zap.NewNop())
	ctx := context.Background()

	page, err := svc.List(ctx, catalog.NewFilterSpec())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalElements != 1 || page.Content[0].ID != "1" {
		t.Errorf("Expected only the active product, got %+v", page.Content)
	}

	if _, err := svc.Get(ctx, "2"); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound for inactive product, got %v", err)
	}
	if _, err := svc.Get(ctx, "404"); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalogSourceFailureYieldsEmptyList(t *testing.T) {
	svc := NewCatalogService(failingSource{}, catalog.NewEngine(language.Turkish), zap.NewNop())
	ctx := context.Background()

	page, err := svc.List(ctx, catalog.NewFilterSpec())
	if err != nil {
		t.Fatalf("Expected source failure to be absorbed, got %v", err)
	}
	if page.Content == nil || len(page.Content) != 0 || page.TotalElements != 0 || page.TotalPages != 0 {
		t.Errorf("Expected empty page, got %+v", page)
	}

	categories, err := svc.Categories(ctx)
	if err != nil || categories == nil || len(categories) != 0 {
		t.Errorf("Expected empty categories, got %v (%v)", categories, err)
	}

	if _, err := svc.Get(ctx, "101"); err == nil || errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("Expected a non-not-found error for a failing lookup, got %v", err)
	}
}

func TestCatalogCategories(t *testing.T) {
	svc := newFixtureCatalog(t)

	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(categories) != 5 || categories[0].Name != "Yüzük" {
		t.Errorf("Unexpected categories: %+v", categories)
	}
}
