package wishlist

import (
	"github.com/maisonlumiere/storefront-client/pkg/api"
)

type wireWishlistItem struct {
	ProductID        api.FlexID `json:"product_id"`
	ProductVariantID api.FlexID `json:"product_variant_id"`
	ProductName      string     `json:"product_name"`
	Color            *string    `json:"color"`
	ColorType        *string    `json:"color_type"`
	Size             *string    `json:"size"`
	CurrentPrice     float64    `json:"current_price"`
	Stock            int        `json:"stock"`
	CreatedAt        string     `json:"created_at"`
}

// wireWishlistResponse is the full updated collection every wishlist
// endpoint returns. A nil Items slice means the payload lacked the
// collection and the caller must refetch.
type wireWishlistResponse struct {
	Items []wireWishlistItem `json:"items"`
}

type addRequest struct {
	ProductVariantID int64 `json:"product_variant_id"`
}

// Item is one saved variant. The backend payload carries no image, so Image
// survives from whatever the client knew when the item was saved.
type Item struct {
	ID        string
	ProductID string
	Name      string
	Image     string
	Price     float64
	Shade     string
	Size      string
	InStock   bool
	AddedDate string
}

// Meta carries optional display hints for notifications and the image to
// remember for the saved item.
type Meta struct {
	Name  string
	Image string
}

// mapItem builds the view of one saved variant, carrying the image forward
// from a previous reconcile when the client already knew it.
func mapItem(w wireWishlistItem, previousImage string) Item {
	item := Item{
		ID:        string(w.ProductVariantID),
		ProductID: string(w.ProductID),
		Name:      w.ProductName,
		Image:     previousImage,
		Price:     w.CurrentPrice,
		InStock:   w.Stock > 0,
		AddedDate: w.CreatedAt,
	}
	if w.Color != nil {
		item.Shade = *w.Color
	}
	if w.Size != nil {
		item.Size = *w.Size
	}
	return item
}
