package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maisonlumiere/storefront-client/pkg/api"
)

// Mappers never fail: malformed or missing wire fields degrade to safe
// defaults so a partially broken payload still renders.

var shadeColors = []string{
	"#F5D5C0",
	"#F0C9B0",
	"#E8B896",
	"#D9A87E",
	"#C89466",
	"#B76E79",
}

var videoExtPattern = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)$`)

// parsePrice coerces a string-encoded decimal to a number. Unparsable or
// negative values degrade to 0.
func parsePrice(value string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

func resolveMediaType(url, mediaType string) MediaType {
	if mediaType == string(MediaVideo) {
		return MediaVideo
	}
	if videoExtPattern.MatchString(url) {
		return MediaVideo
	}
	return MediaImage
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// mapProductListItem builds the card view. Zero-variant products are treated
// as in stock here: a list card without variants sells at its base price and
// the card has no variant stock to consult. The detail mapper is stricter.
func mapProductListItem(assetBase string, w wireProductListItem) ProductListItem {
	price := parsePrice(w.BasePrice)
	if price == 0 && len(w.Variants) > 0 {
		price = parsePrice(w.Variants[0].Price)
	}

	inStock := true
	if len(w.Variants) > 0 {
		inStock = false
		for _, variant := range w.Variants {
			if variant.Stock > 0 {
				inStock = true
				break
			}
		}
	}

	variantImage := ""
	for _, variant := range w.Variants {
		if variant.MainImage != "" {
			variantImage = variant.MainImage
			break
		}
	}
	mediaImage := ""
	if len(w.Media) > 0 {
		mediaImage = w.Media[0].ImageURL
	}
	primary := api.ResolveAssetURL(assetBase, firstNonEmpty(variantImage, mediaImage))

	thumbnail := primary
	if t := stringValue(w.Thumbnail); t != "" {
		thumbnail = api.ResolveAssetURL(assetBase, t)
	}

	hoverCandidate := stringValue(w.Afterimage)
	if hoverCandidate == "" && len(w.Media) > 1 {
		hoverCandidate = w.Media[1].ImageURL
	}
	if hoverCandidate == "" && len(w.Media) > 0 {
		hoverCandidate = w.Media[0].ImageURL
	}

	return ProductListItem{
		ID:               strconv.FormatInt(w.ID, 10),
		Slug:             w.Slug,
		Name:             w.Name,
		Price:            price,
		Currency:         defaultCurrency,
		ImageURL:         firstNonEmpty(thumbnail, primary),
		ThumbnailURL:     thumbnail,
		HoverImageURL:    api.ResolveAssetURL(assetBase, hoverCandidate),
		ShortDescription: firstNonEmpty(stringValue(w.ShortDescription), stringValue(w.Description)),
		InStock:          inStock,
	}
}

// mapCursorPage normalizes the page envelope. HasMore == false forces a nil
// cursor so callers can rely on the termination invariant.
func mapCursorPage(assetBase string, w wireCursorPage) CursorPage {
	products := make([]ProductListItem, 0, len(w.Products))
	for _, item := range w.Products {
		products = append(products, mapProductListItem(assetBase, item))
	}
	page := CursorPage{
		Products: products,
		HasMore:  w.HasMore,
	}
	if w.HasMore {
		page.NextCursor = w.NextCursor
	}
	return page
}

// mapProduct builds the detail view. Zero-variant stock follows base_stock
// here: the detail page owns the buy button, so a missing or zero base_stock
// reads as out of stock.
func mapProduct(assetBase string, w wireProduct) Product {
	tabs := make([]ProductTab, 0, 4)
	pushTab := func(id, label string, content *string) {
		if content != nil && strings.TrimSpace(*content) != "" {
			tabs = append(tabs, ProductTab{ID: id, Label: label, Content: *content})
		}
	}
	pushTab("how-to-apply", "HOW TO APPLY", w.HowToApply)
	pushTab("benefits", "BENEFITS", w.Benefits)
	pushTab("key-features", "KEY FEATURES", w.KeyFeatures)
	pushTab("ingredients", "INGREDIENTS", w.Ingredients)

	shades := make([]Shade, 0, len(w.Variants))
	for i, variant := range w.Variants {
		shade := Shade{
			ID:                strconv.FormatInt(variant.ID, 10),
			Name:              variant.Shade,
			ColorHex:          shadeColors[i%len(shadeColors)],
			ImageURL:          api.ResolveAssetURL(assetBase, variant.MainImage),
			SecondaryImageURL: api.ResolveAssetURL(assetBase, stringValue(variant.SecondaryImage)),
			Price:             parsePrice(variant.Price),
			Stock:             max(variant.Stock, 0),
			VariantModelNo:    variant.VariantModelNo,
		}
		if variant.DiscountPrice != nil && strings.TrimSpace(*variant.DiscountPrice) != "" {
			discounted := parsePrice(*variant.DiscountPrice)
			shade.DiscountPrice = &discounted
		}
		shades = append(shades, shade)
	}

	images := make([]ProductImage, 0, len(w.Variants)*2+len(w.Media))
	for i, variant := range w.Variants {
		baseID := i*2 + 1
		if mainURL := api.ResolveAssetURL(assetBase, variant.MainImage); mainURL != "" {
			images = append(images, ProductImage{
				ID:        baseID,
				URL:       mainURL,
				Alt:       fmt.Sprintf("%s - %s", w.Name, variant.Shade),
				Type:      MediaImage,
				VariantID: strconv.FormatInt(variant.ID, 10),
			})
		}
		if secondaryURL := api.ResolveAssetURL(assetBase, stringValue(variant.SecondaryImage)); secondaryURL != "" {
			images = append(images, ProductImage{
				ID:        baseID + 1,
				URL:       secondaryURL,
				Alt:       fmt.Sprintf("%s - %s alt", w.Name, variant.Shade),
				Type:      MediaImage,
				VariantID: strconv.FormatInt(variant.ID, 10),
			})
		}
	}
	variantImageCount := len(images)
	for i, media := range w.Media {
		url := api.ResolveAssetURL(assetBase, media.ImageURL)
		if url == "" {
			continue
		}
		images = append(images, ProductImage{
			ID:   variantImageCount + i + 1,
			URL:  url,
			Alt:  fmt.Sprintf("%s media %d", w.Name, i+1),
			Type: resolveMediaType(url, media.MediaType),
		})
	}

	price := parsePrice(w.BasePrice)
	if len(w.Variants) > 0 {
		first := w.Variants[0]
		if first.DiscountPrice != nil && strings.TrimSpace(*first.DiscountPrice) != "" {
			price = parsePrice(*first.DiscountPrice)
		} else {
			price = parsePrice(first.Price)
		}
	}

	inStock := w.BaseStock != nil && *w.BaseStock > 0
	if len(w.Variants) > 0 {
		inStock = false
		for _, variant := range w.Variants {
			if variant.Stock > 0 {
				inStock = true
				break
			}
		}
	}

	return Product{
		ID:             strconv.FormatInt(w.ID, 10),
		Slug:           w.Slug,
		Name:           w.Name,
		Subtitle:       firstNonEmpty(stringValue(w.ShortDescription), w.Description),
		Price:          price,
		Currency:       defaultCurrency,
		Description:    w.Description,
		ProductModelNo: w.ProductModelNo,
		Images:         images,
		Shades:         shades,
		Tabs:           tabs,
		InStock:        inStock,
	}
}

func mapCategories(wire []wireCategoryNode) []CategoryNode {
	nodes := make([]CategoryNode, 0, len(wire))
	for _, w := range wire {
		node := CategoryNode{ID: w.ID, Name: w.Name}
		for _, sub := range w.Subcategories {
			node.Subcategories = append(node.Subcategories, Subcategory{ID: sub.ID, Name: sub.Name})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func mapSuggestions(wire []wireSuggestion) []Suggestion {
	suggestions := make([]Suggestion, 0, len(wire))
	for _, w := range wire {
		suggestions = append(suggestions, Suggestion{
			Name:      w.Name,
			Slug:      w.Slug,
			Thumbnail: stringValue(w.Thumbnail),
		})
	}
	return suggestions
}

func mapTrending(wire []wireTrending) []TrendingSearch {
	trending := make([]TrendingSearch, 0, len(wire))
	for _, w := range wire {
		trending = append(trending, TrendingSearch{Query: w.Query, SearchCount: w.SearchCount})
	}
	return trending
}
