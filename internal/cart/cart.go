package cart

import (
	"context"

	"abk-storefront/internal/catalog"
	"abk-storefront/internal/domain"
	"abk-storefront/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart holds the line items of one client and writes every change through to its store.
// A Cart is not safe for concurrent use; open one per request.
type Cart struct {
	store  storage.Store
	logger *zap.Logger
	lines  []domain.CartLine
}

// Open loads the cart persisted in store. Missing or unreadable state yields an empty cart.
func Open(ctx context.Context, store storage.Store, logger *zap.Logger) *Cart {
	lines := storage.Load(ctx, store, storage.KeyCart, []domain.CartLine{})

	// drop anything that violates the line invariants, e.g. hand-edited state
	valid := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 || indexOf(valid, l.ProductID, l.Size) >= 0 {
			continue
		}
		valid = append(valid, l)
	}

	return &Cart{store: store, logger: logger, lines: valid}
}

// Add puts one unit of product in the cart under the selected size.
// Sized products (rings, chains) must carry a valid size; the cart is unchanged on error.
// The first add snapshots the product, so later catalog price changes do not reprice the line.
func (c *Cart) Add(ctx context.Context, product domain.Product, size string) error {
	size, err := catalog.VariantFor(product).Normalize(size)
	if err != nil {
		return err
	}

	if i := indexOf(c.lines, product.ID, size); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, domain.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.PrimaryImage(),
			MetalType: product.MetalType,
			Purity:    product.Purity,
			Size:      size,
			Quantity:  1,
		})
	}

	c.persist(ctx)
	return nil
}

// Remove deletes the line for (id, size); removing an absent line is a no-op
func (c *Cart) Remove(ctx context.Context, id, size string) {
	i := indexOf(c.lines, id, size)
	if i < 0 {
		return
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.persist(ctx)
}

// Increase adds one unit to an existing line. Stock is not checked.
func (c *Cart) Increase(ctx context.Context, id, size string) {
	i := indexOf(c.lines, id, size)
	if i < 0 {
		return
	}

	c.lines[i].Quantity++
	c.persist(ctx)
}

// Decrease removes one unit from a line but never takes it below 1
func (c *Cart) Decrease(ctx context.Context, id, size string) {
	i := indexOf(c.lines, id, size)
	if i < 0 {
		return
	}

	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
	}
	c.persist(ctx)
}

// Clear empties the cart
func (c *Cart) Clear(ctx context.Context) {
	c.lines = []domain.CartLine{}
	c.persist(ctx)
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItems is the sum of quantities across all lines
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of price * quantity across all lines
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) persist(ctx context.Context) {
	if err := storage.Save(ctx, c.store, storage.KeyCart, c.lines); err != nil {
		c.logger.Error("Failed to persist cart", zap.Error(err), zap.Int("lines", len(c.lines)))
	}
}

func indexOf(lines []domain.CartLine, id, size string) int {
	for i, l := range lines {
		if l.ProductID == id && l.Size == size {
			return i
		}
	}
	return -1
}
