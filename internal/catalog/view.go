package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"

	"abk-storefront/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Engine filters, sorts and paginates product collections.
// It holds no per-call state, so one Engine may serve concurrent callers.
type Engine struct {
	locale language.Tag
}

// NewEngine creates an engine that orders names with the collation rules of locale
func NewEngine(locale language.Tag) *Engine {
	return &Engine{locale: locale}
}

var defaultEngine = NewEngine(language.Turkish)

// View runs the default Turkish-collating engine
func View(all []domain.Product, spec FilterSpec) []domain.Product {
	return defaultEngine.View(all, spec)
}

// View returns the page of products selected by spec.
// Products are filtered by name, category and price, stably sorted and then sliced.
// A page past the end yields an empty slice, which incremental consumers use as the stop signal.
func (e *Engine) View(all []domain.Product, spec FilterSpec) []domain.Product {
	page, _ := e.Paginate(all, spec)
	return page
}

// Paginate is View plus the number of matches before slicing
func (e *Engine) Paginate(all []domain.Product, spec FilterSpec) ([]domain.Product, int) {
	spec = spec.Normalized()
	matched := e.filterAndSort(all, spec)

	// bound the page by the last page index before multiplying
	if len(matched) == 0 || spec.Page > (len(matched)-1)/spec.PageSize {
		return []domain.Product{}, len(matched)
	}

	start := spec.Page * spec.PageSize
	end := len(matched)
	if end-start > spec.PageSize {
		end = start + spec.PageSize
	}

	return matched[start:end], len(matched)
}

// Count returns how many products match spec before pagination
func (e *Engine) Count(all []domain.Product, spec FilterSpec) int {
	return len(e.filterAndSort(all, spec.Normalized()))
}

func (e *Engine) filterAndSort(all []domain.Product, spec FilterSpec) []domain.Product {
	matched := make([]domain.Product, 0, len(all))

	nameMatch := nameMatcher(spec.NameQuery)
	for _, p := range all {
		if !nameMatch(p.Name) {
			continue
		}
		if spec.CategoryID != "" && p.CategoryID != spec.CategoryID {
			continue
		}
		if spec.MinPrice != nil && p.Price.LessThan(*spec.MinPrice) {
			continue
		}
		if spec.MaxPrice != nil && p.Price.GreaterThan(*spec.MaxPrice) {
			continue
		}
		matched = append(matched, p)
	}

	switch spec.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(matched, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(matched, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortNameAsc:
		// Collators keep an internal buffer and are not safe to share
		col := collate.New(e.locale)
		slices.SortStableFunc(matched, func(a, b domain.Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	}

	return matched
}

// nameMatcher returns a case-insensitive substring predicate.
// Queries shorter than MinQueryLength runes match everything.
func nameMatcher(query string) func(string) bool {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return func(string) bool { return true }
	}

	fold := cases.Fold()
	needle := fold.String(query)
	return func(name string) bool {
		return strings.Contains(fold.String(name), needle)
	}
}
