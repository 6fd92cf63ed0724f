package transport

import (
	"net/http"

	"abk-storefront/internal/middleware"
	"abk-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ToggleFavoriteResponse reports the membership of the toggled product and the resulting list
type ToggleFavoriteResponse struct {
	ProductID string                 `json:"productId"`
	Favorite  bool                   `json:"favorite"`
	Favorites *service.FavoritesView `json:"favorites"`
}

// FavoritesHandler serves the favorites list of the calling client
type FavoritesHandler struct {
	shopper service.ShopperService
	logger  *zap.Logger
}

func NewFavoritesHandler(shopper service.ShopperService, logger *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		shopper: shopper,
		logger:  logger,
	}
}

func (h *FavoritesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/favorites", func(r chi.Router) {
		r.Get("/", h.GetFavorites)
		r.Post("/{productId}/toggle", h.ToggleFavorite)
	})
}

func (h *FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	view, err := h.shopper.Favorites(r.Context(), clientID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load favorites")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// ToggleFavorite adds the product when absent and removes it when present
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")

	favorite, view, err := h.shopper.ToggleFavorite(r.Context(), clientID, productID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update favorites")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ToggleFavoriteResponse{
		ProductID: productID,
		Favorite:  favorite,
		Favorites: view,
	})
}
