package service

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"abk-storefront/internal/cart"
	"abk-storefront/internal/domain"
	"abk-storefront/internal/favorites"
	"abk-storefront/internal/session"
	"abk-storefront/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

const clientLockStripes = 64

var (
	ErrMissingClient = errors.New("client id is required")
	ErrInvalidTheme  = errors.New("theme must be light or dark")
)

// CartView is a cart snapshot with its derived totals
type CartView struct {
	Items      []domain.CartLine `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
}

// FavoritesView is the favorites list of one client
type FavoritesView struct {
	Items []domain.FavoriteEntry `json:"items"`
	Count int                    `json:"count"`
}

// SessionState is the logged-in flag of one client
type SessionState struct {
	LoggedIn bool   `json:"loggedIn"`
	Role     string `json:"role,omitempty"`
}

// ShopperService exposes the per-client storefront state: cart, favorites, session flag and theme
type ShopperService interface {
	Cart(ctx context.Context, clientID string) (*CartView, error)
	AddToCart(ctx context.Context, clientID, productID, size string) (*CartView, error)
	RemoveFromCart(ctx context.Context, clientID, productID, size string) (*CartView, error)
	IncreaseQuantity(ctx context.Context, clientID, productID, size string) (*CartView, error)
	DecreaseQuantity(ctx context.Context, clientID, productID, size string) (*CartView, error)
	ClearCart(ctx context.Context, clientID string) (*CartView, error)

	Favorites(ctx context.Context, clientID string) (*FavoritesView, error)
	ToggleFavorite(ctx context.Context, clientID, productID string) (bool, *FavoritesView, error)

	Session(ctx context.Context, clientID string) (*SessionState, error)
	SignIn(ctx context.Context, clientID, token, role string) error
	SignOut(ctx context.Context, clientID string) error

	Theme(ctx context.Context, clientID string) (string, error)
	SetTheme(ctx context.Context, clientID, theme string) (string, error)
}

type shopperService struct {
	store   storage.Store
	catalog CatalogService
	tracker *session.Tracker
	logger  *zap.Logger

	// Serializes read-modify-write cycles of one client
	locks [clientLockStripes]sync.Mutex
}

// NewShopperService creates a ShopperService storing client state in store.
// Products added to the cart or favorites are resolved through catalog.
func NewShopperService(store storage.Store, catalog CatalogService, tracker *session.Tracker, logger *zap.Logger) ShopperService {
	return &shopperService{
		store:   store,
		catalog: catalog,
		tracker: tracker,
		logger:  logger,
	}
}

func (s *shopperService) scope(clientID string) (storage.Store, func(), error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, nil, ErrMissingClient
	}

	h := fnv.New32a()
	h.Write([]byte(clientID))
	mu := &s.locks[h.Sum32()%clientLockStripes]
	mu.Lock()

	return storage.Scope(s.store, clientID), mu.Unlock, nil
}

func (s *shopperService) Cart(ctx context.Context, clientID string) (*CartView, error) {
	return s.withCart(ctx, clientID, func(*cart.Cart) error { return nil })
}

// AddToCart resolves the product from the catalog so the line snapshots current data
func (s *shopperService) AddToCart(ctx context.Context, clientID, productID, size string) (*CartView, error) {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.withCart(ctx, clientID, func(c *cart.Cart) error {
		return c.Add(ctx, *product, size)
	})
}

func (s *shopperService) RemoveFromCart(ctx context.Context, clientID, productID, size string) (*CartView, error) {
	return s.withCart(ctx, clientID, func(c *cart.Cart) error {
		c.Remove(ctx, productID, size)
		return nil
	})
}

func (s *shopperService) IncreaseQuantity(ctx context.Context, clientID, productID, size string) (*CartView, error) {
	return s.withCart(ctx, clientID, func(c *cart.Cart) error {
		c.Increase(ctx, productID, size)
		return nil
	})
}

func (s *shopperService) DecreaseQuantity(ctx context.Context, clientID, productID, size string) (*CartView, error) {
	return s.withCart(ctx, clientID, func(c *cart.Cart) error {
		c.Decrease(ctx, productID, size)
		return nil
	})
}

func (s *shopperService) ClearCart(ctx context.Context, clientID string) (*CartView, error) {
	return s.withCart(ctx, clientID, func(c *cart.Cart) error {
		c.Clear(ctx)
		return nil
	})
}

func (s *shopperService) withCart(ctx context.Context, clientID string, fn func(*cart.Cart) error) (*CartView, error) {
	store, unlock, err := s.scope(clientID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c := cart.Open(ctx, store, s.logger)
	if err := fn(c); err != nil {
		return nil, err
	}

	return &CartView{
		Items:      c.Lines(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}, nil
}

func (s *shopperService) Favorites(ctx context.Context, clientID string) (*FavoritesView, error) {
	store, unlock, err := s.scope(clientID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return favoritesView(favorites.Open(ctx, store, s.logger)), nil
}

// ToggleFavorite flips membership and reports whether the product is now a favorite.
// Removing a favorite does not require the product to still be in the catalog.
func (s *shopperService) ToggleFavorite(ctx context.Context, clientID, productID string) (bool, *FavoritesView, error) {
	store, unlock, err := s.scope(clientID)
	if err != nil {
		return false, nil, err
	}
	defer unlock()

	favs := favorites.Open(ctx, store, s.logger)

	product := domain.Product{ID: productID}
	if !favs.IsFavorite(productID) {
		found, err := s.catalog.Get(ctx, productID)
		if err != nil {
			return false, nil, err
		}
		product = *found
	}

	added := favs.Toggle(ctx, product)
	return added, favoritesView(favs), nil
}

func favoritesView(f *favorites.Favorites) *FavoritesView {
	return &FavoritesView{Items: f.Entries(), Count: f.Len()}
}

func (s *shopperService) Session(ctx context.Context, clientID string) (*SessionState, error) {
	store, unlock, err := s.scope(clientID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return &SessionState{
		LoggedIn: s.tracker.IsLoggedIn(ctx, store),
		Role:     s.tracker.Role(ctx, store),
	}, nil
}

func (s *shopperService) SignIn(ctx context.Context, clientID, token, role string) error {
	store, unlock, err := s.scope(clientID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.tracker.Login(ctx, clientID, store, token, role)
}

func (s *shopperService) SignOut(ctx context.Context, clientID string) error {
	store, unlock, err := s.scope(clientID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.tracker.Logout(ctx, clientID, store)
}

// Theme returns the stored theme, light when unset or unrecognized
func (s *shopperService) Theme(ctx context.Context, clientID string) (string, error) {
	store, unlock, err := s.scope(clientID)
	if err != nil {
		return "", err
	}
	defer unlock()

	theme := storage.Load(ctx, store, storage.KeyTheme, ThemeLight)
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return theme, nil
}

func (s *shopperService) SetTheme(ctx context.Context, clientID, theme string) (string, error) {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != ThemeLight && theme != ThemeDark {
		return "", ErrInvalidTheme
	}

	store, unlock, err := s.scope(clientID)
	if err != nil {
		return "", err
	}
	defer unlock()

	if err := storage.Save(ctx, store, storage.KeyTheme, theme); err != nil {
		s.logger.Warn("Failed to persist theme", zap.String("client_id", clientID), zap.Error(err))
	}
	return theme, nil
}
