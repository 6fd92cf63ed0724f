package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SortOption selects the comparator applied after filtering
type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortNameAsc   SortOption = "name_asc"
)

const (
	// DefaultPageSize matches the storefront grid
	DefaultPageSize = 12

	// MinQueryLength is the shortest name query that filters anything
	MinQueryLength = 2
)

// ParseSort maps a query-string value to a SortOption, falling back to SortDefault
func ParseSort(s string) SortOption {
	switch SortOption(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortNameAsc:
		return SortNameAsc
	default:
		return SortDefault
	}
}

// FilterSpec is the full set of parameters controlling which products are visible and in what order.
// Use the With* methods to change it: they reset Page to 0 whenever a filter field changes.
type FilterSpec struct {
	CategoryID string           `json:"categoryId,omitempty"`
	NameQuery  string           `json:"name,omitempty"`
	MinPrice   *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice   *decimal.Decimal `json:"maxPrice,omitempty"`
	Sort       SortOption       `json:"sort"`
	Page       int              `json:"page"`
	PageSize   int              `json:"size"`
}

// NewFilterSpec returns the unfiltered first page
func NewFilterSpec() FilterSpec {
	return FilterSpec{Sort: SortDefault, PageSize: DefaultPageSize}
}

func (s FilterSpec) WithCategory(categoryID string) FilterSpec {
	if s.CategoryID != categoryID {
		s.CategoryID = categoryID
		s.Page = 0
	}
	return s
}

func (s FilterSpec) WithNameQuery(q string) FilterSpec {
	if s.NameQuery != q {
		s.NameQuery = q
		s.Page = 0
	}
	return s
}

func (s FilterSpec) WithPriceRange(minPrice, maxPrice *decimal.Decimal) FilterSpec {
	if !sameBound(s.MinPrice, minPrice) || !sameBound(s.MaxPrice, maxPrice) {
		s.MinPrice = minPrice
		s.MaxPrice = maxPrice
		s.Page = 0
	}
	return s
}

func (s FilterSpec) WithSort(sort SortOption) FilterSpec {
	if s.Sort != sort {
		s.Sort = sort
		s.Page = 0
	}
	return s
}

func (s FilterSpec) WithPage(page int) FilterSpec {
	s.Page = page
	return s
}

func (s FilterSpec) WithPageSize(size int) FilterSpec {
	s.PageSize = size
	return s
}

// SameFilter reports whether both specs select the same ordered result, ignoring Page and PageSize
func (s FilterSpec) SameFilter(o FilterSpec) bool {
	return s.CategoryID == o.CategoryID &&
		s.NameQuery == o.NameQuery &&
		sameBound(s.MinPrice, o.MinPrice) &&
		sameBound(s.MaxPrice, o.MaxPrice) &&
		normalizeSort(s.Sort) == normalizeSort(o.Sort)
}

// Normalized clamps Page at 0, defaults PageSize and Sort
func (s FilterSpec) Normalized() FilterSpec {
	if s.Page < 0 {
		s.Page = 0
	}
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	s.Sort = normalizeSort(s.Sort)
	return s
}

func normalizeSort(s SortOption) SortOption {
	if s == "" {
		return SortDefault
	}
	return s
}

func sameBound(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
