package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"abk-storefront/internal/domain"
	"abk-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrUnknownCategory = errors.New("category does not exist")
)

// ProductInput carries the editable fields of a product
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	ImageURLs   []string
	MetalType   string
	Purity      string
	Weight      float64
	Stock       int
	Active      *bool
}

// ProductQuery narrows the admin product listing
type ProductQuery struct {
	Search     string
	CategoryID string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  repository.SortOrder
}

// AdminService manages the catalog behind the admin routes
type AdminService interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]*domain.Product, int, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
}

type adminService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// ListProducts includes inactive products. A search term takes precedence over the category.
func (s *adminService) ListProducts(ctx context.Context, q ProductQuery) ([]*domain.Product, int, error) {
	if strings.TrimSpace(q.Search) != "" {
		return s.products.Search(ctx, strings.TrimSpace(q.Search), q.Page, q.PageSize)
	}

	return s.products.List(ctx, repository.ProductListOptions{
		CategoryID: q.CategoryID,
		Page:       q.Page,
		PageSize:   q.PageSize,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	})
}

func (s *adminService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// CreateProduct assigns a fresh id. Products are active unless the input says otherwise.
func (s *adminService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	category, err := s.resolveCategory(ctx, in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:        uuid.NewString(),
		Active:    true,
		CreatedAt: now,
	}
	apply(product, in, now)
	product.CategoryName = category.Name

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("category_id", product.CategoryID),
	)
	return product, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, in)
	if err != nil {
		return nil, err
	}

	apply(product, in, time.Now())
	product.CategoryName = category.Name

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID))
	return product, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func (s *adminService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *adminService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", zap.String("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *adminService) resolveCategory(ctx context.Context, in ProductInput) (*domain.Category, error) {
	if in.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	category, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

func apply(p *domain.Product, in ProductInput, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price.Round(2)
	p.CategoryID = in.CategoryID
	p.ImageURLs = append([]string{}, in.ImageURLs...)
	p.MetalType = in.MetalType
	p.Purity = in.Purity
	p.Weight = in.Weight
	p.Stock = in.Stock
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = now
}
