package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/domain"
	"abk-storefront/internal/middleware"
	"abk-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxPageSize = 100

// ProductFilterRequest is the body of the legacy filter endpoint
type ProductFilterRequest struct {
	CategoryID catalog.ID       `json:"categoryId"`
	Name       string           `json:"name" validate:"max=100"`
	MinPrice   *decimal.Decimal `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice   *decimal.Decimal `json:"maxPrice" validate:"omitempty,gte=0"`
}

// ProductDetail is a product together with the size options it is sold in
type ProductDetail struct {
	domain.Product
	Variant catalog.Variant `json:"variant"`
}

// ProductHandler serves the public storefront catalog
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalogService,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes, including the legacy v2 aliases
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v2", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.ListCategories)

		r.Post("/product/filter", h.FilterProducts)
		r.Get("/product/search-by-id", h.SearchByID)
		r.Get("/category", h.ListCategories)
	})
}

// ListProducts handles GET /api/v2/products?categoryId=&name=&minPrice=&maxPrice=&sort=&page=&size=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minPrice, err := priceParam(q, "minPrice")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxPrice, err := priceParam(q, "maxPrice")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec := catalog.NewFilterSpec().
		WithCategory(strings.TrimSpace(q.Get("categoryId"))).
		WithNameQuery(q.Get("name")).
		WithPriceRange(minPrice, maxPrice)

	h.respondWithPage(w, r, spec)
}

// FilterProducts handles POST /api/v2/product/filter; filters come in the body, paging in the query
func (h *ProductHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	var req ProductFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug("Filter decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateRequest(&req); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	spec := catalog.NewFilterSpec().
		WithCategory(string(req.CategoryID)).
		WithNameQuery(req.Name).
		WithPriceRange(req.MinPrice, req.MaxPrice)

	h.respondWithPage(w, r, spec)
}

func (h *ProductHandler) respondWithPage(w http.ResponseWriter, r *http.Request, spec catalog.FilterSpec) {
	q := r.URL.Query()

	page, err := intParam(q, "page", 0)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := intParam(q, "size", catalog.DefaultPageSize)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	spec = spec.WithSort(catalog.ParseSort(q.Get("sort"))).WithPage(page).WithPageSize(size)

	result, err := h.catalog.List(r.Context(), spec)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /api/v2/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	h.respondWithProduct(w, r, chi.URLParam(r, "id"))
}

// SearchByID handles GET /api/v2/product/search-by-id?productId=
func (h *ProductHandler) SearchByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("productId"))
	if id == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "productId is required")
		return
	}
	h.respondWithProduct(w, r, id)
}

func (h *ProductHandler) respondWithProduct(w http.ResponseWriter, r *http.Request, id string) {
	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductDetail{
		Product: *product,
		Variant: catalog.VariantFor(*product),
	})
}

// ListCategories handles GET /api/v2/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func priceParam(q url.Values, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("%s must be a non-negative number", name)
	}
	return &d, nil
}
