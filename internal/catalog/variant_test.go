package catalog

import (
	"errors"
	"testing"

	"abk-storefront/internal/domain"
)

func TestVariantFor(t *testing.T) {
	tests := []struct {
		category string
		want     VariantKind
	}{
		{category: "Yüzük", want: VariantRing},
		{category: "YÜZÜKLER", want: VariantRing},
		{category: "Rings", want: VariantRing},
		{category: "Kolye", want: VariantLength},
		{category: "ZİNCİR", want: VariantLength},
		{category: "Bileklik", want: VariantLength},
		{category: "Bracelets", want: VariantLength},
		{category: "Küpe", want: VariantNone},
		{category: "Earrings", want: VariantNone},
		{category: "Alyans", want: VariantNone},
		{category: "", want: VariantNone},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := VariantFor(domain.Product{CategoryName: tt.category})
			if got.Kind != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got.Kind)
			}
		})
	}
}

func TestVariantRingOptions(t *testing.T) {
	v := VariantFor(domain.Product{CategoryName: "Yüzük"})
	if len(v.Options) != 20 || v.Options[0] != "8" || v.Options[19] != "27" {
		t.Errorf("Expected ring sizes 8..27, got %v", v.Options)
	}
}

func TestVariantNormalize(t *testing.T) {
	ring := VariantFor(domain.Product{CategoryName: "Yüzük"})
	chain := VariantFor(domain.Product{CategoryName: "Kolye"})
	zincir := VariantFor(domain.Product{CategoryName: "Zincir"})
	earrings := VariantFor(domain.Product{CategoryName: "Earrings"})
	none := VariantFor(domain.Product{CategoryName: "Küpe"})

	tests := []struct {
		name    string
		variant Variant
		size    string
		want    string
		wantErr error
	}{
		{name: "ring size", variant: ring, size: "12", want: "12"},
		{name: "ring size trimmed", variant: ring, size: " 14 ", want: "14"},
		{name: "ring missing", variant: ring, size: "", wantErr: ErrSizeRequired},
		{name: "ring out of range", variant: ring, size: "30", wantErr: ErrInvalidSize},
		{name: "chain length", variant: chain, size: "45", want: "45"},
		{name: "chain bad length", variant: chain, size: "42", wantErr: ErrInvalidSize},
		{name: "zincir needs a length", variant: zincir, size: "", wantErr: ErrSizeRequired},
		{name: "zincir length", variant: zincir, size: "50", want: "50"},
		{name: "unsized ignores size", variant: none, size: "12", want: ""},
		{name: "earrings need no size", variant: earrings, size: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.variant.Normalize(tt.size)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
