package domain

import (
	"errors"
	"testing"
)

func TestClassifyExpiry(t *testing.T) {
	today := NewDate(2025, 3, 10)
	cases := []struct {
		offset int
		want   ExpiryStatus
	}{
		{-400, StatusExpired},
		{-1, StatusExpired},
		{0, StatusExpiringSoon},
		{1, StatusExpiringSoon},
		{ExpiringSoonDays, StatusExpiringSoon},
		{ExpiringSoonDays + 1, StatusNormal},
		{365, StatusNormal},
	}
	for _, tc := range cases {
		if got := ClassifyExpiry(today.AddDays(tc.offset), today); got != tc.want {
			t.Fatalf("offset %d: got %s want %s", tc.offset, got, tc.want)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		qty  float64
		unit string
		want string
	}{
		{20, "tablet", "20 tablet"},
		{0.5, "ml", "0.5 ml"},
		{2.5, "", "2.5"},
		{0, "box", "0 box"},
	}
	for _, tc := range cases {
		if got := FormatQuantity(tc.qty, tc.unit); got != tc.want {
			t.Fatalf("FormatQuantity(%v, %q) = %q, want %q", tc.qty, tc.unit, got, tc.want)
		}
	}
}

func TestCallerFor(t *testing.T) {
	if !CallerFor(RoleMaintainer).Maintainer || CallerFor(RoleMember).Maintainer || CallerFor("").Maintainer {
		t.Fatalf("only maintainers get the maintainer capability")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	if !errors.Is(ErrBarcodeInUse, ErrReferentialConflict) || !errors.Is(ErrUnknownBarcode, ErrReferentialConflict) {
		t.Fatalf("barcode conflicts must be referential conflicts")
	}
	if errors.Is(ErrNotFound, ErrValidation) || errors.Is(Validationf("x"), ErrNotFound) {
		t.Fatalf("not found and validation must stay distinguishable")
	}
	if err := Validationf("quantity %d", 3); !errors.Is(err, ErrValidation) || err.Error() != "validation failed: quantity 3" {
		t.Fatalf("unexpected validation error %v", err)
	}
}
