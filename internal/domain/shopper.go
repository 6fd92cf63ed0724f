package domain

import "github.com/shopspring/decimal"

// CartLine is one purchasable entry in a cart, keyed by product and variant.
// The product fields are a snapshot taken when the line was first added.
type CartLine struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	MetalType string          `json:"metalType,omitempty"`
	Purity    string          `json:"purity,omitempty"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price * quantity for the line
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// FavoriteEntry is a product snapshot stored in the favorites list
type FavoriteEntry struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	MetalType string          `json:"metalType,omitempty"`
	Purity    string          `json:"purity,omitempty"`
}
