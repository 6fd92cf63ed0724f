package favorites

import (
	"context"

	"abk-storefront/internal/domain"
	"abk-storefront/internal/storage"

	"go.uber.org/zap"
)

// Favorites is the set of products a client liked, persisted on every toggle.
// Iteration follows insertion order, which callers must not rely on.
type Favorites struct {
	store   storage.Store
	logger  *zap.Logger
	entries []domain.FavoriteEntry
}

// Open loads the favorites persisted in store; unreadable state is treated as empty
func Open(ctx context.Context, store storage.Store, logger *zap.Logger) *Favorites {
	entries := storage.Load(ctx, store, storage.KeyFavorites, []domain.FavoriteEntry{})

	seen := make(map[string]bool, len(entries))
	unique := make([]domain.FavoriteEntry, 0, len(entries))
	for _, e := range entries {
		if e.ProductID == "" || seen[e.ProductID] {
			continue
		}
		seen[e.ProductID] = true
		unique = append(unique, e)
	}

	return &Favorites{store: store, logger: logger, entries: unique}
}

// Toggle adds product if absent and removes it if present.
// It returns whether the product is a favorite afterwards.
func (f *Favorites) Toggle(ctx context.Context, product domain.Product) bool {
	if i := f.indexOf(product.ID); i >= 0 {
		f.entries = append(f.entries[:i], f.entries[i+1:]...)
		f.persist(ctx)
		return false
	}

	f.entries = append(f.entries, domain.FavoriteEntry{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.PrimaryImage(),
		MetalType: product.MetalType,
		Purity:    product.Purity,
	})
	f.persist(ctx)
	return true
}

// IsFavorite reports whether id is in the set
func (f *Favorites) IsFavorite(id string) bool {
	return f.indexOf(id) >= 0
}

// Entries returns a copy of the stored snapshots
func (f *Favorites) Entries() []domain.FavoriteEntry {
	out := make([]domain.FavoriteEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *Favorites) Len() int {
	return len(f.entries)
}

func (f *Favorites) indexOf(id string) int {
	for i, e := range f.entries {
		if e.ProductID == id {
			return i
		}
	}
	return -1
}

func (f *Favorites) persist(ctx context.Context) {
	if err := storage.Save(ctx, f.store, storage.KeyFavorites, f.entries); err != nil {
		f.logger.Error("Failed to persist favorites", zap.Error(err), zap.Int("entries", len(f.entries)))
	}
}
