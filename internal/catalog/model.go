package catalog

// View models consumed by the UI layer. Everything here is denormalized:
// asset URLs are absolute, prices are plain numbers, stock is folded into a
// single InStock flag.

const defaultCurrency = "AED"

// Sort enumerates the server-driven product orderings.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortPopular   Sort = "popular"
	SortPriceLow  Sort = "price_low"
	SortPriceHigh Sort = "price_high"
)

// ProductListItem is the card-level product view.
type ProductListItem struct {
	ID               string
	Slug             string
	Name             string
	Price            float64
	Currency         string
	ImageURL         string
	ThumbnailURL     string
	HoverImageURL    string
	ShortDescription string
	InStock          bool
}

// CursorPage is one page of a cursor-paginated product query. The cursor is
// opaque: pass NextCursor back verbatim, stop once HasMore is false.
// HasMore == false always implies NextCursor == nil.
type CursorPage struct {
	Products   []ProductListItem
	NextCursor *int64
	HasMore    bool
}

// ProductImage is one gallery entry, image or video.
type ProductImage struct {
	ID        int
	URL       string
	Alt       string
	Type      MediaType
	VariantID string
}

// MediaType tags gallery entries.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Shade is a purchasable product variant.
type Shade struct {
	ID                string
	Name              string
	ColorHex          string
	ImageURL          string
	SecondaryImageURL string
	Price             float64
	DiscountPrice     *float64
	Stock             int
	VariantModelNo    string
}

// ProductTab is a content section on the detail page.
type ProductTab struct {
	ID      string
	Label   string
	Content string
}

// Product is the detail-page view.
type Product struct {
	ID             string
	Slug           string
	Name           string
	Subtitle       string
	Price          float64
	Currency       string
	Description    string
	ProductModelNo string
	Images         []ProductImage
	Shades         []Shade
	Tabs           []ProductTab
	InStock        bool
}

// CategoryNode is one entry of the category tree.
type CategoryNode struct {
	ID            int64
	Name          string
	Subcategories []Subcategory
}

// Subcategory is a leaf of the category tree.
type Subcategory struct {
	ID   int64
	Name string
}

// Suggestion is one search-suggestion entry.
type Suggestion struct {
	Name      string
	Slug      string
	Thumbnail string
}

// TrendingSearch is one trending-query entry.
type TrendingSearch struct {
	Query       string
	SearchCount int
}
