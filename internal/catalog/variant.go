package catalog

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"abk-storefront/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrSizeRequired = errors.New("a size or length must be selected for this product")
	ErrInvalidSize  = errors.New("selected size is not offered for this product")
)

// VariantKind tells which physical sizing a product needs
type VariantKind string

const (
	VariantNone   VariantKind = "none"
	VariantRing   VariantKind = "ring_size"
	VariantLength VariantKind = "chain_length"
)

var (
	// earrings contain "ring" but are never sized
	unsizedKeywords = []string{"earring", "kupe"}
	ringKeywords    = []string{"ring", "yuzuk"}
	lengthKeywords  = []string{"necklace", "kolye", "zincir", "bracelet", "bileklik"}

	chainLengths = []string{"40", "45", "50", "55", "60"}
)

const (
	minRingSize = 8
	maxRingSize = 27
)

// Variant describes the size options offered for a product
type Variant struct {
	Kind    VariantKind `json:"kind"`
	Options []string    `json:"options,omitempty"`
}

// VariantFor derives the variant from the product's category name
func VariantFor(p domain.Product) Variant {
	category := foldKeyword(p.CategoryName)

	for _, k := range unsizedKeywords {
		if strings.Contains(category, k) {
			return Variant{Kind: VariantNone}
		}
	}
	for _, k := range ringKeywords {
		if strings.Contains(category, k) {
			return Variant{Kind: VariantRing, Options: ringSizes()}
		}
	}
	for _, k := range lengthKeywords {
		if strings.Contains(category, k) {
			return Variant{Kind: VariantLength, Options: append([]string(nil), chainLengths...)}
		}
	}

	return Variant{Kind: VariantNone}
}

// Normalize validates a selected size against the variant.
// Products without sizing always normalize to the empty size.
func (v Variant) Normalize(size string) (string, error) {
	if v.Kind == VariantNone {
		return "", nil
	}

	size = strings.TrimSpace(size)
	if size == "" {
		return "", ErrSizeRequired
	}

	for _, o := range v.Options {
		if o == size {
			return size, nil
		}
	}

	return "", ErrInvalidSize
}

func ringSizes() []string {
	sizes := make([]string, 0, maxRingSize-minRingSize+1)
	for s := minRingSize; s <= maxRingSize; s++ {
		sizes = append(sizes, strconv.Itoa(s))
	}
	return sizes
}

// foldKeyword lowercases and strips diacritics so "YÜZÜK", "Yüzük" and "yuzuk" compare equal
func foldKeyword(s string) string {
	s = cases.Lower(language.Und).String(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.ReplaceAll(folded, "ı", "i")
}
