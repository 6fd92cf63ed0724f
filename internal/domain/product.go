package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a piece of jewelry in the catalog
type Product struct {
	ID           string          `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	CategoryID   string          `json:"categoryId" db:"category_id"`
	CategoryName string          `json:"categoryName,omitempty" db:"category_name"`
	ImageURLs    []string        `json:"imageUrls" db:"image_urls"`
	MetalType    string          `json:"metalType" db:"metal_type"`
	Purity       string          `json:"purity" db:"purity"`
	Weight       float64         `json:"weight" db:"weight"`
	Stock        int             `json:"stock" db:"stock"`
	Active       bool            `json:"active" db:"active"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// PrimaryImage returns the first image URL or an empty string
func (p Product) PrimaryImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// Category represents a product category
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
