package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/domain"
)

var (
	ErrProductNotFound = catalog.ErrProductNotFound
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductListOptions narrows and orders an admin product listing
type ProductListOptions struct {
	CategoryID string
	ActiveOnly bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  SortOrder
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	All(ctx context.Context) ([]domain.Product, error)
	List(ctx context.Context, opts ProductListOptions) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `p.id, p.name, p.description, p.price, p.category_id, COALESCE(c.name, ''),
		p.image_urls, p.metal_type, p.purity, p.weight, p.stock, p.active, p.created_at, p.updated_at`

const productFrom = `FROM products p LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var images []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CategoryID,
		&product.CategoryName,
		&images,
		&product.MetalType,
		&product.Purity,
		&product.Weight,
		&product.Stock,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.ImageURLs); err != nil {
			return nil, fmt.Errorf("failed to decode image urls: %w", err)
		}
	}
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}

	return product, nil
}

func encodeImages(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", fmt.Errorf("failed to encode image urls: %w", err)
	}
	return string(b), nil
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	images, err := encodeImages(product.ImageURLs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, description, price, category_id, image_urls, metal_type,
			purity, weight, stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		images,
		product.MetalType,
		product.Purity,
		product.Weight,
		product.Stock,
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	images, err := encodeImages(product.ImageURLs)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5, image_urls = $6,
		    metal_type = $7, purity = $8, weight = $9, stock = $10, active = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		images,
		product.MetalType,
		product.Purity,
		product.Weight,
		product.Stock,
		product.Active,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product with its category name
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` WHERE p.id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// All returns every product in insertion order. Filtering and sorting for the
// storefront happen in memory, so upstream order is preserved here.
func (r *productRepository) All(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` ORDER BY p.created_at ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// List retrieves products with optional category filtering, pagination, and sorting.
// Page is 1-based.
func (r *productRepository) List(ctx context.Context, opts ProductListOptions) ([]*domain.Product, int, error) {
	// Whitelisted to keep ORDER BY out of the parameter path
	validSortFields := map[string]string{
		"name":       "p.name",
		"price":      "p.price",
		"created_at": "p.created_at",
		"stock":      "p.stock",
	}

	sortColumn, ok := validSortFields[opts.SortBy]
	if !ok {
		sortColumn = "p.created_at"
	}

	sortOrder := opts.SortOrder
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc
	}

	page, pageSize := normalizePaging(opts.Page, opts.PageSize)

	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if opts.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, opts.CategoryID)
		argIndex++
	}
	if opts.ActiveOnly {
		conditions = append(conditions, "p.active = TRUE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY %s %s, p.id ASC LIMIT $%d OFFSET $%d`,
		productColumns, productFrom, whereClause, sortColumn, sortOrder, argIndex, argIndex+1)
	args = append(args, pageSize, offset)

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

// Search searches for products by name or description with pagination
func (r *productRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	if strings.TrimSpace(query) == "" {
		return r.List(ctx, ProductListOptions{Page: page, PageSize: pageSize})
	}

	page, pageSize = normalizePaging(page, pageSize)
	searchPattern := "%" + query + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM products p WHERE p.name ILIKE $1 OR p.description ILIKE $1`
	if err := r.db.QueryRowContext(ctx, countQuery, searchPattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * pageSize
	searchQuery := `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.name ILIKE $1 OR p.description ILIKE $1
		ORDER BY p.created_at DESC, p.id ASC
		LIMIT $2 OFFSET $3`

	products, err := r.queryProducts(ctx, searchQuery, searchPattern, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	return products, total, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = catalog.DefaultPageSize
	}
	return page, pageSize
}
