package transport

import (
	"net/http"
	"strings"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/domain"
	"abk-storefront/internal/middleware"
	"abk-storefront/internal/repository"
	"abk-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest is the admin create/update payload.
// ID is only read by the legacy PUT /api/v1/product, which carries it in the body.
type ProductRequest struct {
	ID          catalog.ID      `json:"id"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	CategoryID  catalog.ID      `json:"categoryId" validate:"required"`
	ImageURLs   []string        `json:"imageUrls" validate:"max=10,dive,required,max=500"`
	MetalType   string          `json:"metalType" validate:"max=50"`
	Purity      string          `json:"purity" validate:"max=20"`
	Weight      float64         `json:"weight" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Active      *bool           `json:"active"`
}

func (req ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  string(req.CategoryID),
		ImageURLs:   req.ImageURLs,
		MetalType:   req.MetalType,
		Purity:      req.Purity,
		Weight:      req.Weight,
		Stock:       req.Stock,
		Active:      req.Active,
	}
}

// CategoryRequest is the admin category payload
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// AdminHandler manages products and categories. Every route requires an admin token.
type AdminHandler struct {
	admin  service.AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger,
	}
}

// RegisterRoutes registers the admin routes behind authMiddleware and RequireAdmin
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(h.logger))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		// Legacy single-resource paths
		r.Route("/product", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})

		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.CreateCategory)
		r.Get("/category", h.ListCategories)
		r.Post("/category", h.CreateCategory)
	})
}

// ListProducts handles GET /api/v1/products?search=&categoryId=&page=&size=&sortBy=&sortOrder=
// Pages are 1-based here and inactive products are included.
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q, "page", 1)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := intParam(q, "size", catalog.DefaultPageSize)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = catalog.DefaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	products, total, err := h.admin.ListProducts(r.Context(), service.ProductQuery{
		Search:     q.Get("search"),
		CategoryID: q.Get("categoryId"),
		Page:       page,
		PageSize:   size,
		SortBy:     q.Get("sortBy"),
		SortOrder:  repository.SortOrder(strings.ToUpper(q.Get("sortOrder"))),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list products")
		return
	}

	content := make([]domain.Product, 0, len(products))
	for _, p := range products {
		content = append(content, *p)
	}

	middleware.RespondWithJSON(w, http.StatusOK, service.Page{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
	})
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.admin.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, err := h.admin.CreateProduct(r.Context(), req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces the editable fields of a product. The id comes from the path,
// or from the body on the legacy route.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		id = string(req.ID)
	}
	if id == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "product id is required")
		return
	}

	product, err := h.admin.UpdateProduct(r.Context(), id, req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct takes the id from the path, or from ?productId= on the legacy route
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("productId"))
	}
	if id == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "product id is required")
		return
	}

	if err := h.admin.DeleteProduct(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.admin.ListCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	category, err := h.admin.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, category)
}
