package catalog

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"abk-storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

func newProduct(id, name string, price int64, categoryID string) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       name,
		Price:      decimal.NewFromInt(price),
		CategoryID: categoryID,
		Active:     true,
	}
}

func numberedProducts(n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, newProduct(fmt.Sprintf("%d", 100+i), fmt.Sprintf("Item %d", i), int64(1000+i), "1"))
	}
	return products
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var jewelryNames = []string{
	"Baget Pırlanta Yüzük", "Gold Ring", "Silver RING", "Earring Set", "Kolye", "Bileklik",
	"Tektaş", "Ring of Fire", "Alyans", "Spring Brooch",
}

func genCatalog() gopter.Gen {
	return gen.SliceOf(gen.Struct(reflectProductType, map[string]gopter.Gen{
		"ID":         gen.Identifier(),
		"Name":       gen.OneConstOf(toInterfaces(jewelryNames)...),
		"CategoryID": gen.OneConstOf("1", "2", "3"),
	})).Map(func(ps []domain.Product) []domain.Product {
		for i := range ps {
			ps[i].Price = decimal.NewFromInt(int64((i*7919)%50000 + 100))
		}
		return ps
	})
}

var reflectProductType = reflect.TypeOf(domain.Product{})

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// Feature: storefront, Property 5: View is deterministic
func TestProperty_ViewIsDeterministic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("two calls with identical arguments give identical output", prop.ForAll(
		func(products []domain.Product, sort string, page int) bool {
			spec := NewFilterSpec().WithSort(SortOption(sort)).WithPage(page)

			first := View(products, spec)
			second := View(products, spec)
			return reflect.DeepEqual(ids(first), ids(second))
		},
		genCatalog(),
		gen.OneConstOf("default", "price_asc", "price_desc", "name_asc"),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 6: Name filter then price_asc is filtered and non-decreasing
func TestProperty_NameFilterWithPriceAscending(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every result contains the query and prices never decrease", prop.ForAll(
		func(products []domain.Product) bool {
			spec := NewFilterSpec().WithNameQuery("ring").WithSort(SortPriceAsc).WithPageSize(len(products) + 1)
			result := View(products, spec)

			for i, p := range result {
				if !strings.Contains(strings.ToLower(p.Name), "ring") {
					t.Logf("FAIL: %q does not contain ring", p.Name)
					return false
				}
				if i > 0 && result[i-1].Price.GreaterThan(p.Price) {
					t.Logf("FAIL: prices out of order at %d", i)
					return false
				}
			}
			return true
		},
		genCatalog(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 7: View never mutates its input
func TestProperty_ViewDoesNotMutateInput(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("input order is preserved after sorting views", prop.ForAll(
		func(products []domain.Product, sort string) bool {
			before := ids(products)
			View(products, NewFilterSpec().WithSort(SortOption(sort)))
			return reflect.DeepEqual(before, ids(products))
		},
		genCatalog(),
		gen.OneConstOf("price_asc", "price_desc", "name_asc"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestViewPagination(t *testing.T) {
	products := numberedProducts(14)
	spec := NewFilterSpec()

	tests := []struct {
		page int
		want int
	}{
		{page: 0, want: 12},
		{page: 1, want: 2},
		{page: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			got := View(products, spec.WithPage(tt.page))
			if len(got) != tt.want {
				t.Errorf("Expected %d items, got %d", tt.want, len(got))
			}
			if got == nil {
				t.Error("Expected an empty slice, not nil")
			}
		})
	}
}

func TestViewHugePagesAreEmpty(t *testing.T) {
	one := numberedProducts(1)
	products := numberedProducts(14)

	tests := []struct {
		name     string
		all      []domain.Product
		page     int
		pageSize int
		want     int
	}{
		{"page wraps negative when multiplied", one, math.MaxInt64 / 6, 12, 0},
		{"max page", products, math.MaxInt, DefaultPageSize, 0},
		{"max page and size", products, math.MaxInt, math.MaxInt, 0},
		{"max size on first page", products, 0, math.MaxInt, 14},
		{"last exact page", products, 6, 2, 2},
		{"one past last exact page", products, 7, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := NewEngine(language.Turkish).Paginate(tt.all, FilterSpec{Page: tt.page, PageSize: tt.pageSize})
			if len(got) != tt.want || got == nil {
				t.Errorf("Expected %d items as a non-nil slice, got %v", tt.want, got)
			}
			if total != len(tt.all) {
				t.Errorf("Expected total %d, got %d", len(tt.all), total)
			}
		})
	}
}

// Feature: storefront, Property 10: Pages past the end are empty
func TestProperty_PagesPastTheEndAreEmpty(t *testing.T) {
	properties := gopter.NewProperties(nil)
	products := numberedProducts(14)

	properties.Property("any page beyond the last yields an empty, non-nil page", prop.ForAll(
		func(page int, size int) bool {
			lastPage := (len(products) - 1) / size
			if page <= lastPage {
				page = lastPage + 1 + page%1000
			}
			got := View(products, FilterSpec{Page: page, PageSize: size})
			return got != nil && len(got) == 0
		},
		gen.OneGenOf(gen.IntRange(0, 1000), gen.IntRange(math.MaxInt64/8, math.MaxInt64/4)),
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestViewEmptyCatalog(t *testing.T) {
	for page := 0; page < 3; page++ {
		if got := View(nil, NewFilterSpec().WithPage(page)); len(got) != 0 {
			t.Errorf("Expected no products on page %d, got %d", page, len(got))
		}
	}
}

func TestViewSingleCharacterQueryIsIgnored(t *testing.T) {
	products := []domain.Product{
		newProduct("1", "Yüzük", 100, "1"),
		newProduct("2", "Kolye", 200, "2"),
		newProduct("3", "Bileklik", 300, "3"),
	}

	unfiltered := View(products, NewFilterSpec())
	got := View(products, NewFilterSpec().WithNameQuery("a"))

	if !reflect.DeepEqual(ids(got), ids(unfiltered)) {
		t.Errorf("Expected %v, got %v", ids(unfiltered), ids(got))
	}
}

func TestViewNameQueryIsCaseInsensitive(t *testing.T) {
	products := []domain.Product{
		newProduct("1", "Gold RING", 100, "1"),
		newProduct("2", "Kolye", 200, "2"),
		newProduct("3", "ring box", 300, "3"),
	}

	got := View(products, NewFilterSpec().WithNameQuery("Ring"))
	if want := []string{"1", "3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Expected %v, got %v", want, ids(got))
	}
}

func TestViewInvertedPriceRangeIsEmpty(t *testing.T) {
	products := []domain.Product{
		newProduct("1", "Yüzük", 500, "1"),
		newProduct("2", "Kolye", 2000, "2"),
		newProduct("3", "Bileklik", 6000, "3"),
	}

	got := View(products, NewFilterSpec().WithPriceRange(dec(5000), dec(1000)))
	if len(got) != 0 {
		t.Errorf("Expected empty result, got %v", ids(got))
	}
}

func TestViewPriceRangeIsInclusive(t *testing.T) {
	products := []domain.Product{
		newProduct("1", "A", 999, "1"),
		newProduct("2", "B", 1000, "1"),
		newProduct("3", "C", 5000, "1"),
		newProduct("4", "D", 5001, "1"),
	}

	got := View(products, NewFilterSpec().WithPriceRange(dec(1000), dec(5000)))
	if want := []string{"2", "3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Expected %v, got %v", want, ids(got))
	}

	got = View(products, NewFilterSpec().WithPriceRange(dec(5000), nil))
	if want := []string{"3", "4"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Expected %v with only a lower bound, got %v", want, ids(got))
	}
}

func TestViewCategoryFilter(t *testing.T) {
	products := []domain.Product{
		newProduct("1", "A", 1, "1"),
		newProduct("2", "B", 1, "2"),
		newProduct("3", "C", 1, "1"),
	}

	got := View(products, NewFilterSpec().WithCategory("1"))
	if want := []string{"1", "3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Expected %v, got %v", want, ids(got))
	}

	if got := View(products, NewFilterSpec().WithCategory("")); len(got) != 3 {
		t.Errorf("Expected all categories for empty id, got %d", len(got))
	}
}

func TestViewSortsStably(t *testing.T) {
	products := []domain.Product{
		newProduct("a", "Zeta", 300, "1"),
		newProduct("b", "Alfa", 100, "1"),
		newProduct("c", "Beta", 300, "1"),
		newProduct("d", "Çiçek", 100, "1"),
	}

	tests := []struct {
		sort SortOption
		want []string
	}{
		{sort: SortDefault, want: []string{"a", "b", "c", "d"}},
		{sort: SortPriceAsc, want: []string{"b", "d", "a", "c"}},
		{sort: SortPriceDesc, want: []string{"a", "c", "b", "d"}},
		{sort: SortNameAsc, want: []string{"b", "c", "d", "a"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := View(products, NewFilterSpec().WithSort(tt.sort))
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, ids(got))
			}
		})
	}
}

func TestEngineCollatesByLocale(t *testing.T) {
	products := []domain.Product{
		newProduct("1", "Zümrüt", 1, "1"),
		newProduct("2", "Çiçek", 1, "1"),
		newProduct("3", "Damla", 1, "1"),
	}

	got := NewEngine(language.Turkish).View(products, NewFilterSpec().WithSort(SortNameAsc))
	if want := []string{"2", "3", "1"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("Expected Ç between C and D, got %v", ids(got))
	}
}

func TestEngineCount(t *testing.T) {
	products := numberedProducts(14)
	engine := NewEngine(language.English)

	if got := engine.Count(products, NewFilterSpec().WithPage(5)); got != 14 {
		t.Errorf("Expected 14 matches regardless of page, got %d", got)
	}
	if got := engine.Count(products, NewFilterSpec().WithPriceRange(dec(1010), nil)); got != 4 {
		t.Errorf("Expected 4 matches, got %d", got)
	}

	page, total := engine.Paginate(products, NewFilterSpec().WithPage(1))
	if total != 14 || len(page) != 2 {
		t.Errorf("Expected page of 2 out of 14, got %d out of %d", len(page), total)
	}
}

func TestFilterSpecResetsPage(t *testing.T) {
	base := NewFilterSpec().WithPage(3)

	tests := []struct {
		name string
		spec FilterSpec
		want int
	}{
		{name: "category", spec: base.WithCategory("2"), want: 0},
		{name: "name", spec: base.WithNameQuery("ring"), want: 0},
		{name: "price", spec: base.WithPriceRange(dec(10), nil), want: 0},
		{name: "sort", spec: base.WithSort(SortNameAsc), want: 0},
		{name: "same category", spec: base.WithCategory(""), want: 3},
		{name: "page size", spec: base.WithPageSize(24), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.spec.Page != tt.want {
				t.Errorf("Expected page %d, got %d", tt.want, tt.spec.Page)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := map[string]SortOption{
		"price_asc":  SortPriceAsc,
		"PRICE_DESC": SortPriceDesc,
		" name_asc ": SortNameAsc,
		"":           SortDefault,
		"newest":     SortDefault,
	}

	for in, want := range tests {
		if got := ParseSort(in); got != want {
			t.Errorf("ParseSort(%q) = %q, want %q", in, got, want)
		}
	}
}
