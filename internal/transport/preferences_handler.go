package transport

import (
	"net/http"

	"abk-storefront/internal/middleware"
	"abk-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ThemeRequest selects the storefront color scheme
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required"`
}

// ThemeResponse carries the theme a client will be served
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// PreferencesHandler exposes the client's session flag and theme preference
type PreferencesHandler struct {
	shopper service.ShopperService
	logger  *zap.Logger
}

func NewPreferencesHandler(shopper service.ShopperService, logger *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		shopper: shopper,
		logger:  logger,
	}
}

func (h *PreferencesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/session", h.GetSession)
	r.Get("/api/preferences/theme", h.GetTheme)
	r.Put("/api/preferences/theme", h.SetTheme)
}

// GetSession reports whether the client holds a token, and its role
func (h *PreferencesHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	state, err := h.shopper.Session(r.Context(), clientID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to read session")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, state)
}

func (h *PreferencesHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	theme, err := h.shopper.Theme(r.Context(), clientID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to read theme")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}

func (h *PreferencesHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	clientID, ok := requireClient(w, r)
	if !ok {
		return
	}

	var req ThemeRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	theme, err := h.shopper.SetTheme(r.Context(), clientID, req.Theme)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save theme")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}
