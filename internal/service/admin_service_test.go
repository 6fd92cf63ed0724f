package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"abk-storefront/internal/domain"
	"abk-storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type mockProductRepository struct {
	products map[string]*domain.Product
	order    []string
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[string]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	cp := *product
	m.products[product.ID] = &cp
	m.order = append(m.order, product.ID)
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepository) All(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range m.order {
		if p, ok := m.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) List(ctx context.Context, opts repository.ProductListOptions) ([]*domain.Product, int, error) {
	var out []*domain.Product
	for _, id := range m.order {
		p, ok := m.products[id]
		if !ok || (opts.CategoryID != "" && p.CategoryID != opts.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	if opts.SortBy == "price" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	}
	return out, len(out), nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	var out []*domain.Product
	for _, id := range m.order {
		if p, ok := m.products[id]; ok && strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type mockCategoryRepository struct {
	categories map[string]*domain.Category
}

func newMockCategoryRepository(categories ...domain.Category) *mockCategoryRepository {
	m := &mockCategoryRepository{categories: make(map[string]*domain.Category)}
	for i := range categories {
		m.categories[categories[i].ID] = &categories[i]
	}
	return m
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func newTestAdminService() (AdminService, *mockProductRepository) {
	products := newMockProductRepository()
	categories := newMockCategoryRepository(
		domain.Category{ID: "1", Name: "Yüzük"},
		domain.Category{ID: "2", Name: "Kolye"},
	)
	return NewAdminService(products, categories, zap.NewNop()), products
}

func TestAdminCreateProduct(t *testing.T) {
	svc, repo := newTestAdminService()
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, ProductInput{
		Name:       "  Pırlanta Tektaş  ",
		Price:      decimal.RequireFromString("18500.456"),
		CategoryID: "1",
		ImageURLs:  []string{"/img/tektas.jpg"},
		MetalType:  "Beyaz Altın",
		Purity:     "18K",
		Stock:      3,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if product.ID == "" || !product.Active {
		t.Errorf("Expected generated id and active product, got %+v", product)
	}
	if product.Name != "Pırlanta Tektaş" {
		t.Errorf("Expected trimmed name, got %q", product.Name)
	}
	if !product.Price.Equal(decimal.RequireFromString("18500.46")) {
		t.Errorf("Expected price rounded to cents, got %s", product.Price)
	}
	if product.CategoryName != "Yüzük" {
		t.Errorf("Expected category name, got %q", product.CategoryName)
	}
	if _, ok := repo.products[product.ID]; !ok {
		t.Error("Expected product to be stored")
	}
}

func TestAdminCreateProductValidation(t *testing.T) {
	svc, _ := newTestAdminService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductInput{Name: "x", Price: decimal.NewFromInt(-1), CategoryID: "1"})
	if !errors.Is(err, ErrNegativePrice) {
		t.Errorf("Expected ErrNegativePrice, got %v", err)
	}

	_, err = svc.CreateProduct(ctx, ProductInput{Name: "x", Price: decimal.NewFromInt(1), CategoryID: "99"})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}

func TestAdminUpdateAndDeleteProduct(t *testing.T) {
	svc, _ := newTestAdminService()
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, ProductInput{Name: "Kolye", Price: decimal.NewFromInt(4200), CategoryID: "2"})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	inactive := false
	updated, err := svc.UpdateProduct(ctx, product.ID, ProductInput{
		Name:       "Sonsuzluk Kolye",
		Price:      decimal.NewFromInt(4500),
		CategoryID: "2",
		Active:     &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Active || updated.Name != "Sonsuzluk Kolye" || !updated.Price.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("Unexpected updated product: %+v", updated)
	}
	if !updated.CreatedAt.Equal(product.CreatedAt) {
		t.Error("Expected creation time to be preserved")
	}

	if _, err := svc.UpdateProduct(ctx, "missing", ProductInput{CategoryID: "2"}); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if err := svc.DeleteProduct(ctx, product.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestAdminListProducts(t *testing.T) {
	svc, _ := newTestAdminService()
	ctx := context.Background()

	for _, in := range []ProductInput{
		{Name: "Altın Yüzük", Price: decimal.NewFromInt(300), CategoryID: "1"},
		{Name: "Gümüş Kolye", Price: decimal.NewFromInt(100), CategoryID: "2"},
		{Name: "Safir Yüzük", Price: decimal.NewFromInt(200), CategoryID: "1"},
	} {
		if _, err := svc.CreateProduct(ctx, in); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
	}

	rings, total, err := svc.ListProducts(ctx, ProductQuery{CategoryID: "1", SortBy: "price"})
	if err != nil || total != 2 {
		t.Fatalf("Expected 2 rings, got %d (%v)", total, err)
	}
	if rings[0].Name != "Safir Yüzük" {
		t.Errorf("Expected cheapest ring first, got %s", rings[0].Name)
	}

	found, total, err := svc.ListProducts(ctx, ProductQuery{Search: " kolye ", CategoryID: "1"})
	if err != nil || total != 1 || found[0].Name != "Gümüş Kolye" {
		t.Errorf("Expected search to win over category, got %d (%v)", total, err)
	}
}

func TestAdminCategories(t *testing.T) {
	svc, _ := newTestAdminService()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, " Küpe ", "Işıltılı küpeler")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if category.Name != "Küpe" || category.ID == "" {
		t.Errorf("Unexpected category: %+v", category)
	}

	if _, err := svc.CreateCategory(ctx, "Küpe", ""); !errors.Is(err, repository.ErrCategoryAlreadyExists) {
		t.Errorf("Expected ErrCategoryAlreadyExists, got %v", err)
	}

	all, err := svc.ListCategories(ctx)
	if err != nil || len(all) != 3 {
		t.Errorf("Expected 3 categories, got %d (%v)", len(all), err)
	}
}
