package catalog

// Wire shapes as the backend returns them: snake_case fields, string-encoded
// decimals, nullable columns as pointers. The cursor envelope alone uses
// camelCase keys.

type wireMedia struct {
	ImageURL  string `json:"image_url"`
	MediaType string `json:"media_type"`
}

type wireListVariant struct {
	ID            int64   `json:"id"`
	Stock         int     `json:"stock"`
	MainImage     string  `json:"main_image"`
	Price         string  `json:"price"`
	DiscountPrice *string `json:"discount_price"`
}

type wireProductListItem struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	BasePrice        string            `json:"base_price"`
	Description      *string           `json:"description"`
	ShortDescription *string           `json:"short_description"`
	ProductModelNo   string            `json:"product_model_no"`
	CreatedAt        string            `json:"created_at"`
	Thumbnail        *string           `json:"thumbnail"`
	Afterimage       *string           `json:"afterimage"`
	Media            []wireMedia       `json:"media"`
	Variants         []wireListVariant `json:"variants"`
}

type wireCursorPage struct {
	Products   []wireProductListItem `json:"products"`
	NextCursor *int64                `json:"nextCursor"`
	HasMore    bool                  `json:"hasMore"`
}

type wireVariant struct {
	ID             int64   `json:"id"`
	Shade          string  `json:"shade"`
	SecondaryImage *string `json:"secondary_image"`
	Stock          int     `json:"stock"`
	MainImage      string  `json:"main_image"`
	Price          string  `json:"price"`
	DiscountPrice  *string `json:"discount_price"`
	VariantModelNo string  `json:"variant_model_no"`
	ColorType      *string `json:"color_type"`
}

type wireProduct struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Description      string        `json:"description"`
	ShortDescription *string       `json:"short_description"`
	CategoryID       int64         `json:"category_id"`
	IsFeatured       bool          `json:"is_featured"`
	IsActive         bool          `json:"is_active"`
	CreatedAt        string        `json:"created_at"`
	BasePrice        string        `json:"base_price"`
	BaseStock        *int          `json:"base_stock"`
	ProductModelNo   string        `json:"product_model_no"`
	HowToApply       *string       `json:"how_to_apply"`
	Benefits         *string       `json:"benefits"`
	KeyFeatures      *string       `json:"key_features"`
	Ingredients      *string       `json:"ingredients"`
	Variants         []wireVariant `json:"variants"`
	Media            []wireMedia   `json:"media"`
}

type wireCategoryNode struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Subcategories []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"subcategories"`
}

type wireSuggestion struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Thumbnail *string `json:"thumbnail"`
}

type wireSuggestionsResponse struct {
	Suggestions []wireSuggestion `json:"suggestions"`
}

type wireTrending struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

type wireTrendingResponse struct {
	Trending []wireTrending `json:"trending"`
}
