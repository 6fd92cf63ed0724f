package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"abk-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownShape = errors.New("payload is neither a list nor a content envelope")
)

// rawProduct is the loose shape upstream listings use; every field that has
// appeared under more than one name is captured so it can be folded into domain.Product.
type rawProduct struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  json.RawMessage `json:"categoryId"`
	Category    json.RawMessage `json:"category"`
	ImageURLs   []string        `json:"imageUrls"`
	ImageURL    string          `json:"imageUrl"`
	Image       string          `json:"image"`
	MetalType   string          `json:"metalType"`
	Purity      string          `json:"purity"`
	Weight      float64         `json:"weight"`
	Stock       int             `json:"stock"`
	Active      *bool           `json:"active"`
	CreatedAt   *time.Time      `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt"`
}

type rawCategory struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
}

type envelope[T any] struct {
	Content    []T `json:"content"`
	TotalPages int `json:"totalPages"`
}

// DecodeProducts accepts either a bare JSON array of products or an envelope
// with a "content" field and maps each entry onto the canonical domain.Product.
func DecodeProducts(data []byte) ([]domain.Product, error) {
	raws, err := decodeList[rawProduct](data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(raws))
	for _, r := range raws {
		products = append(products, r.normalize())
	}
	return products, nil
}

// DecodeCategories accepts the same two shapes as DecodeProducts
func DecodeCategories(data []byte) ([]domain.Category, error) {
	raws, err := decodeList[rawCategory](data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(raws))
	for _, r := range raws {
		categories = append(categories, domain.Category{
			ID:          rawID(r.ID),
			Name:        r.Name,
			Description: r.Description,
		})
	}
	return categories, nil
}

func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnknownShape
	}

	switch trimmed[0] {
	case '[':
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		var env envelope[T]
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		return env.Content, nil
	default:
		return nil, ErrUnknownShape
	}
}

func (r rawProduct) normalize() domain.Product {
	p := domain.Product{
		ID:          rawID(r.ID),
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  rawID(r.CategoryID),
		MetalType:   r.MetalType,
		Purity:      r.Purity,
		Weight:      r.Weight,
		Stock:       r.Stock,
		Active:      true,
	}

	if p.Name == "" {
		p.Name = r.Title
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
	if r.CreatedAt != nil {
		p.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = *r.UpdatedAt
	}

	switch {
	case len(r.ImageURLs) > 0:
		p.ImageURLs = append([]string(nil), r.ImageURLs...)
	case r.ImageURL != "":
		p.ImageURLs = []string{r.ImageURL}
	case r.Image != "":
		p.ImageURLs = []string{r.Image}
	default:
		p.ImageURLs = []string{}
	}

	// "category" is either a nested object or a bare name
	if len(r.Category) > 0 {
		var nested rawCategory
		var name string
		if err := json.Unmarshal(r.Category, &nested); err == nil {
			if p.CategoryID == "" {
				p.CategoryID = rawID(nested.ID)
			}
			p.CategoryName = nested.Name
		} else if err := json.Unmarshal(r.Category, &name); err == nil {
			p.CategoryName = name
		}
	}

	return p
}

// rawID renders string and numeric identifiers the same way: 101 and "101" both become "101"
func rawID(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return trimmed
}

// ID is an identifier accepted as either a JSON string or a JSON number
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID(rawID(data))
	return nil
}
