package catalog

import (
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestQueryStringExactEncoding(t *testing.T) {
	filters := Filters{
		Category: "5",
		MinPrice: floatPtr(50),
		MaxPrice: floatPtr(200),
		Sort:     SortPriceLow,
	}
	got := filters.QueryString(nil)
	want := "category=5&minPrice=50&maxPrice=200&sort=price_low"
	if got != want {
		t.Fatalf("QueryString = %q, want %q", got, want)
	}
}

func TestQueryStringDefaultsAndOmissions(t *testing.T) {
	got := Filters{}.QueryString(nil)
	if got != "sort=newest" {
		t.Fatalf("empty filters should still carry the sort default, got %q", got)
	}

	withSpaces := Filters{Category: "  ", Search: "  lip liner ", Color: ""}
	if q := withSpaces.QueryString(nil); q != "search=lip+liner&sort=newest" {
		t.Fatalf("unexpected query %q", q)
	}
}

func TestQueryStringCursor(t *testing.T) {
	cursor := int64(1042)
	got := Filters{Category: "5"}.QueryString(&cursor)
	if got != "category=5&sort=newest&cursor=1042" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestFiltersRoundTrip(t *testing.T) {
	original := Filters{
		Category: "5",
		Search:   "matte lipstick",
		MinPrice: floatPtr(49.5),
		MaxPrice: floatPtr(200),
		Color:    "red",
		Size:     "30ml",
		Sort:     SortPriceHigh,
	}
	cursor := int64(77)

	decoded, decodedCursor, err := DecodeFilters(original.QueryString(&cursor))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Equal(original) {
		t.Fatalf("round trip mismatch: %+v != %+v", decoded, original)
	}
	if decodedCursor == nil || *decodedCursor != 77 {
		t.Fatalf("unexpected cursor %+v", decodedCursor)
	}
}

func TestFiltersRoundTripCollapsesSortDefault(t *testing.T) {
	original := Filters{Search: "serum"}
	decoded, cursor, err := DecodeFilters(original.QueryString(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Sort != SortNewest {
		t.Fatalf("expected newest sort, got %q", decoded.Sort)
	}
	if cursor != nil {
		t.Fatalf("unexpected cursor %+v", cursor)
	}
	if !decoded.Equal(original) {
		t.Fatalf("round trip mismatch: %+v != %+v", decoded, original)
	}
}

func TestDecodeFiltersRejectsBadNumbers(t *testing.T) {
	if _, _, err := DecodeFilters("minPrice=abc"); err == nil {
		t.Fatal("expected error for unparsable minPrice")
	}
	if _, _, err := DecodeFilters("cursor=abc"); err == nil {
		t.Fatal("expected error for unparsable cursor")
	}
}

func TestFiltersEqualIgnoresSortDefault(t *testing.T) {
	a := Filters{Category: "5"}
	b := Filters{Category: "5", Sort: SortNewest}
	if !a.Equal(b) {
		t.Fatal("absent sort should equal the explicit default")
	}

	c := Filters{Category: "5", Sort: SortPopular}
	if a.Equal(c) {
		t.Fatal("different sorts must not be equal")
	}

	d := Filters{Category: "5", MinPrice: floatPtr(10)}
	if a.Equal(d) {
		t.Fatal("different price bounds must not be equal")
	}
	e := Filters{Category: "5", MinPrice: floatPtr(10)}
	if !d.Equal(e) {
		t.Fatal("equal price bounds should be equal")
	}
}
