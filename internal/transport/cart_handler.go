package transport

import (
	"context"
	"net/http"
	"strings"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/middleware"
	"abk-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest selects a product and, for sized jewelry, a ring size or chain length
type AddToCartRequest struct {
	ProductID catalog.ID `json:"productId" validate:"required"`
	Size      string     `json:"size" validate:"max=8"`
}

// CartHandler serves the cart of the calling client
type CartHandler struct {
	shopper service.ShopperService
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(shopper service.ShopperService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		shopper: shopper,
		logger:  logger,
	}
}

// RegisterRoutes registers the cart routes. Line routes take the variant in the "size" query parameter.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Delete("/items/{productId}", h.RemoveItem)
		r.Post("/items/{productId}/increase", h.IncreaseItem)
		r.Post("/items/{productId}/decrease", h.DecreaseItem)
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	view, err := h.shopper.Cart(r.Context(), clientID)
	h.respond(w, view, err, http.StatusOK, "failed to load cart")
}

// AddItem adds one unit of a product; the price is the catalog price at this moment
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	view, err := h.shopper.AddToCart(r.Context(), clientID, string(req.ProductID), req.Size)
	if err == nil {
		h.logger.Info("Added to cart",
			zap.String("client_id", clientID),
			zap.String("product_id", string(req.ProductID)),
			zap.String("size", req.Size),
		)
	}
	h.respond(w, view, err, http.StatusOK, "failed to add to cart")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, h.shopper.RemoveFromCart, "failed to remove from cart")
}

func (h *CartHandler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, h.shopper.IncreaseQuantity, "failed to update quantity")
}

// DecreaseItem lowers the quantity; it never drops below one
func (h *CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, h.shopper.DecreaseQuantity, "failed to update quantity")
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	view, err := h.shopper.ClearCart(r.Context(), clientID)
	h.respond(w, view, err, http.StatusOK, "failed to clear cart")
}

type lineMutation func(ctx context.Context, clientID, productID, size string) (*service.CartView, error)

func (h *CartHandler) mutateLine(w http.ResponseWriter, r *http.Request, mutate lineMutation, failure string) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	size := strings.TrimSpace(r.URL.Query().Get("size"))

	view, err := mutate(r.Context(), clientID, productID, size)
	h.respond(w, view, err, http.StatusOK, failure)
}

func (h *CartHandler) respond(w http.ResponseWriter, view *service.CartView, err error, status int, failure string) {
	if err != nil {
		respondWithServiceError(w, h.logger, err, failure)
		return
	}
	middleware.RespondWithJSON(w, status, view)
}
