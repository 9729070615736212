package catalog

import (
	"math"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestMapProductListItemBasics(t *testing.T) {
	item := mapProductListItem("http://assets.test", wireProductListItem{
		ID:               12,
		Name:             "Velvet Lip Liner",
		Slug:             "velvet-lip-liner",
		BasePrice:        "89.50",
		ShortDescription: strPtr("Long-wear liner"),
		Thumbnail:        strPtr("/uploads/liner-thumb.jpg"),
		Afterimage:       strPtr("uploads/liner-hover.jpg"),
		Variants: []wireListVariant{
			{ID: 1, Stock: 0, MainImage: "/uploads/liner-01.jpg", Price: "89.50"},
			{ID: 2, Stock: 4, MainImage: "/uploads/liner-02.jpg", Price: "92.00"},
		},
	})

	if item.ID != "12" || item.Slug != "velvet-lip-liner" {
		t.Fatalf("unexpected identity %+v", item)
	}
	if item.Price != 89.5 {
		t.Fatalf("unexpected price %v", item.Price)
	}
	if item.Currency != "AED" {
		t.Fatalf("unexpected currency %q", item.Currency)
	}
	if !item.InStock {
		t.Fatal("expected in stock: one variant has stock")
	}
	if item.ThumbnailURL != "http://assets.test/uploads/liner-thumb.jpg" {
		t.Fatalf("unexpected thumbnail %q", item.ThumbnailURL)
	}
	if item.HoverImageURL != "http://assets.test/uploads/liner-hover.jpg" {
		t.Fatalf("unexpected hover image %q", item.HoverImageURL)
	}
	if item.ShortDescription != "Long-wear liner" {
		t.Fatalf("unexpected description %q", item.ShortDescription)
	}
}

func TestMapProductListItemZeroVariantsInStock(t *testing.T) {
	item := mapProductListItem("", wireProductListItem{ID: 3, BasePrice: "45.00"})
	if !item.InStock {
		t.Fatal("zero-variant list item should stay purchasable")
	}
	if item.Price != 45 {
		t.Fatalf("unexpected price %v", item.Price)
	}
}

func TestMapProductListItemAllVariantsOutOfStock(t *testing.T) {
	item := mapProductListItem("", wireProductListItem{
		ID:        4,
		BasePrice: "45.00",
		Variants:  []wireListVariant{{ID: 1, Stock: 0, Price: "45.00"}},
	})
	if item.InStock {
		t.Fatal("expected out of stock")
	}
}

func TestMapProductListItemPriceFallsBackToVariant(t *testing.T) {
	item := mapProductListItem("", wireProductListItem{
		ID:        5,
		BasePrice: "not-a-number",
		Variants:  []wireListVariant{{ID: 1, Stock: 1, Price: "30.25"}},
	})
	if item.Price != 30.25 {
		t.Fatalf("unexpected price %v", item.Price)
	}
}

func TestMapProductPriceNeverNegative(t *testing.T) {
	cases := []wireProduct{
		{ID: 1, BasePrice: ""},
		{ID: 2, BasePrice: "garbage"},
		{ID: 3, BasePrice: "-10.00"},
		{ID: 4, Variants: []wireVariant{{ID: 1, Price: "-5"}}},
		{ID: 5, Variants: []wireVariant{{ID: 1, Price: "abc", DiscountPrice: strPtr("xyz")}}},
		{ID: 6, BasePrice: "120.00"},
	}
	for _, w := range cases {
		p := mapProduct("", w)
		if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			t.Fatalf("product %s: price %v out of range", p.ID, p.Price)
		}
	}
}

func TestMapProductZeroVariantsUsesBaseStock(t *testing.T) {
	// Spec scenario: base_price "120.00", no variants, base_stock 0.
	p := mapProduct("", wireProduct{ID: 9, BasePrice: "120.00", BaseStock: intPtr(0)})
	if p.InStock {
		t.Fatal("expected out of stock when base_stock is 0")
	}
	if p.Price != 120 {
		t.Fatalf("unexpected price %v", p.Price)
	}

	stocked := mapProduct("", wireProduct{ID: 10, BasePrice: "120.00", BaseStock: intPtr(7)})
	if !stocked.InStock {
		t.Fatal("expected in stock when base_stock is positive")
	}

	missing := mapProduct("", wireProduct{ID: 11, BasePrice: "120.00"})
	if missing.InStock {
		t.Fatal("missing base_stock reads as out of stock on the detail view")
	}
}

func TestMapProductGalleryInterleave(t *testing.T) {
	p := mapProduct("http://assets.test", wireProduct{
		ID:   20,
		Name: "Silk Foundation",
		Variants: []wireVariant{
			{ID: 1, Shade: "Sand", MainImage: "/v1-main.jpg", SecondaryImage: strPtr("/v1-alt.jpg"), Price: "100"},
			{ID: 2, Shade: "Honey", MainImage: "", Price: "100"},
		},
		Media: []wireMedia{
			{ImageURL: "/campaign.mp4"},
			{ImageURL: ""},
			{ImageURL: "/campaign.jpg", MediaType: "video"},
		},
	})

	if len(p.Images) != 4 {
		t.Fatalf("expected 4 gallery entries, got %d: %+v", len(p.Images), p.Images)
	}
	if p.Images[0].URL != "http://assets.test/v1-main.jpg" || p.Images[0].VariantID != "1" {
		t.Fatalf("unexpected first image %+v", p.Images[0])
	}
	if p.Images[0].Alt != "Silk Foundation - Sand" {
		t.Fatalf("unexpected alt %q", p.Images[0].Alt)
	}
	if p.Images[1].Alt != "Silk Foundation - Sand alt" {
		t.Fatalf("unexpected alt %q", p.Images[1].Alt)
	}
	if p.Images[2].Type != MediaVideo {
		t.Fatalf("expected extension heuristic to flag video, got %+v", p.Images[2])
	}
	if p.Images[3].Type != MediaVideo {
		t.Fatalf("expected explicit media_type to flag video, got %+v", p.Images[3])
	}
}

func TestMapProductTabsSkipEmpty(t *testing.T) {
	p := mapProduct("", wireProduct{
		ID:         30,
		HowToApply: strPtr("Blend outward."),
		Benefits:   strPtr("  "),
		KeyFeatures: strPtr(
			"Buildable coverage"),
	})
	if len(p.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %+v", p.Tabs)
	}
	if p.Tabs[0].ID != "how-to-apply" || p.Tabs[0].Label != "HOW TO APPLY" {
		t.Fatalf("unexpected tab %+v", p.Tabs[0])
	}
	if p.Tabs[1].ID != "key-features" {
		t.Fatalf("unexpected tab %+v", p.Tabs[1])
	}
}

func TestMapProductShades(t *testing.T) {
	p := mapProduct("http://assets.test", wireProduct{
		ID:   40,
		Name: "Glow Blush",
		Variants: []wireVariant{
			{ID: 7, Shade: "Rose", MainImage: "/rose.jpg", Price: "55.00", DiscountPrice: strPtr("49.00"), Stock: 3, VariantModelNo: "GB-07"},
			{ID: 8, Shade: "Coral", Price: "55.00", Stock: -2},
		},
	})

	if len(p.Shades) != 2 {
		t.Fatalf("expected 2 shades, got %d", len(p.Shades))
	}
	rose := p.Shades[0]
	if rose.ID != "7" || rose.Name != "Rose" || rose.VariantModelNo != "GB-07" {
		t.Fatalf("unexpected shade %+v", rose)
	}
	if rose.ColorHex == "" {
		t.Fatal("expected palette color")
	}
	if rose.DiscountPrice == nil || *rose.DiscountPrice != 49 {
		t.Fatalf("unexpected discount %+v", rose.DiscountPrice)
	}
	if p.Price != 49 {
		t.Fatalf("detail price should prefer first variant discount, got %v", p.Price)
	}
	if p.Shades[1].Stock != 0 {
		t.Fatalf("negative stock should clamp to 0, got %d", p.Shades[1].Stock)
	}
}

func TestMapCursorPageNormalizesCursor(t *testing.T) {
	next := int64(88)
	page := mapCursorPage("", wireCursorPage{
		Products:   []wireProductListItem{{ID: 1, BasePrice: "10"}},
		NextCursor: &next,
		HasMore:    false,
	})
	if page.NextCursor != nil {
		t.Fatal("hasMore=false must force a nil cursor")
	}
	if len(page.Products) != 1 {
		t.Fatalf("unexpected products %+v", page.Products)
	}

	withMore := mapCursorPage("", wireCursorPage{NextCursor: &next, HasMore: true})
	if withMore.NextCursor == nil || *withMore.NextCursor != 88 {
		t.Fatalf("cursor should pass through when more pages exist, got %+v", withMore.NextCursor)
	}
}
