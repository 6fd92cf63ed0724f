package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/session"
	"abk-storefront/internal/storage"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestShopper(t *testing.T) (ShopperService, *session.Tracker) {
	t.Helper()

	tracker := session.NewTracker()
	return NewShopperService(storage.NewMemoryStore(), newFixtureCatalog(t), tracker, zap.NewNop()), tracker
}

// Feature: storefront cart, Property 21: Cart totals equal the sum of line subtotals
func TestProperty_CartTotalsMatchLines(t *testing.T) {
	svc, _ := newTestShopper(t)
	ctx := context.Background()
	unsized := []string{"103", "108", "113", "105", "112"}

	properties := gopter.NewProperties(nil)

	properties.Property("totals follow the lines after any sequence of adds", prop.ForAll(
		func(client string, picks []int) bool {
			var view *CartView
			for _, i := range picks {
				v, err := svc.AddToCart(ctx, client, unsized[i], "")
				if err != nil {
					t.Logf("FAIL: add failed: %v", err)
					return false
				}
				view = v
			}
			if view == nil {
				view, _ = svc.Cart(ctx, client)
			}

			items := 0
			total := decimal.Zero
			for _, l := range view.Items {
				items += l.Quantity
				total = total.Add(l.Subtotal())
			}

			defer svc.ClearCart(ctx, client)
			return items == view.TotalItems && total.Equal(view.TotalPrice) && items == len(picks)
		},
		gen.Identifier(),
		gen.SliceOf(gen.IntRange(0, 4)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAddToCartVariantRules(t *testing.T) {
	svc, _ := newTestShopper(t)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "c1", "101", ""); !errors.Is(err, catalog.ErrSizeRequired) {
		t.Errorf("Expected ErrSizeRequired for a ring, got %v", err)
	}
	if _, err := svc.AddToCart(ctx, "c1", "101", "30"); !errors.Is(err, catalog.ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}

	view, err := svc.AddToCart(ctx, "c1", "101", "14")
	if err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	view, err = svc.AddToCart(ctx, "c1", "101", "14")
	if err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	view, err = svc.AddToCart(ctx, "c1", "101", "16")
	if err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}

	if len(view.Items) != 2 || view.TotalItems != 3 {
		t.Fatalf("Expected 2 lines with 3 items, got %d lines %d items", len(view.Items), view.TotalItems)
	}
	if !view.TotalPrice.Equal(decimal.NewFromInt(3 * 18500)) {
		t.Errorf("Expected total 55500, got %s", view.TotalPrice)
	}

	if _, err := svc.AddToCart(ctx, "c1", "999", ""); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestCartQuantityOperations(t *testing.T) {
	svc, _ := newTestShopper(t)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "c1", "102", "45"); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}

	view, _ := svc.IncreaseQuantity(ctx, "c1", "102", "45")
	if view.TotalItems != 2 {
		t.Errorf("Expected 2 items after increase, got %d", view.TotalItems)
	}

	view, _ = svc.DecreaseQuantity(ctx, "c1", "102", "45")
	view, _ = svc.DecreaseQuantity(ctx, "c1", "102", "45")
	if view.TotalItems != 1 {
		t.Errorf("Expected quantity clamped at 1, got %d", view.TotalItems)
	}

	view, _ = svc.RemoveFromCart(ctx, "c1", "102", "45")
	if len(view.Items) != 0 || !view.TotalPrice.IsZero() {
		t.Errorf("Expected empty cart, got %+v", view)
	}
}

func TestClientsAreIsolated(t *testing.T) {
	svc, _ := newTestShopper(t)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "alice", "103", ""); err != nil {
		t.Fatalf("AddToCart failed: %v", err)
	}
	if _, _, err := svc.ToggleFavorite(ctx, "alice", "104"); err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}

	cart, _ := svc.Cart(ctx, "bob")
	favs, _ := svc.Favorites(ctx, "bob")
	if len(cart.Items) != 0 || favs.Count != 0 {
		t.Errorf("Expected bob to see no state from alice, got cart=%d favorites=%d", len(cart.Items), favs.Count)
	}

	if _, err := svc.Cart(ctx, "  "); !errors.Is(err, ErrMissingClient) {
		t.Errorf("Expected ErrMissingClient, got %v", err)
	}
}

func TestToggleFavorite(t *testing.T) {
	svc, _ := newTestShopper(t)
	ctx := context.Background()

	added, view, err := svc.ToggleFavorite(ctx, "c1", "107")
	if err != nil || !added || view.Count != 1 {
		t.Fatalf("Expected product to be added, got added=%v view=%+v err=%v", added, view, err)
	}
	if view.Items[0].Name != "Zümrüt Damla Kolye" {
		t.Errorf("Expected snapshot name, got %q", view.Items[0].Name)
	}

	added, view, err = svc.ToggleFavorite(ctx, "c1", "107")
	if err != nil || added || view.Count != 0 {
		t.Errorf("Expected product to be removed, got added=%v view=%+v err=%v", added, view, err)
	}

	if _, _, err := svc.ToggleFavorite(ctx, "c1", "nope"); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestSessionSignInSignOut(t *testing.T) {
	svc, tracker := newTestShopper(t)
	ctx := context.Background()

	var mu sync.Mutex
	var events []session.Event
	tracker.OnChange(func(e session.Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	state, _ := svc.Session(ctx, "c1")
	if state.LoggedIn {
		t.Fatal("Expected new client to be logged out")
	}

	if err := svc.SignIn(ctx, "c1", "access", "admin"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	state, _ = svc.Session(ctx, "c1")
	if !state.LoggedIn || state.Role != "admin" {
		t.Errorf("Expected admin session, got %+v", state)
	}

	if err := svc.SignOut(ctx, "c1"); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if err := svc.SignOut(ctx, "c1"); err != nil {
		t.Fatalf("Second SignOut failed: %v", err)
	}

	if len(events) != 2 {
		t.Errorf("Expected 2 transitions, got %d", len(events))
	}
}

func TestTheme(t *testing.T) {
	svc, _ := newTestShopper(t)
	ctx := context.Background()

	theme, _ := svc.Theme(ctx, "c1")
	if theme != ThemeLight {
		t.Errorf("Expected default light theme, got %q", theme)
	}

	if _, err := svc.SetTheme(ctx, "c1", "Dark"); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	theme, _ = svc.Theme(ctx, "c1")
	if theme != ThemeDark {
		t.Errorf("Expected dark theme, got %q", theme)
	}

	if _, err := svc.SetTheme(ctx, "c1", "sepia"); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("Expected ErrInvalidTheme, got %v", err)
	}
}

func TestConcurrentAddsForOneClient(t *testing.T) {
	svc, _ := newTestShopper(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddToCart(ctx, "busy", "103", "")
		}()
	}
	wg.Wait()

	view, _ := svc.Cart(ctx, "busy")
	if view.TotalItems != 20 {
		t.Errorf("Expected 20 items after concurrent adds, got %d", view.TotalItems)
	}
}
