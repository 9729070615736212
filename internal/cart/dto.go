package cart

import (
	"github.com/maisonlumiere/storefront-client/pkg/api"
)

type wireCartItem struct {
	ProductID        api.FlexID `json:"product_id"`
	ProductVariantID api.FlexID `json:"product_variant_id"`
	ProductName      string     `json:"product_name"`
	Color            *string    `json:"color"`
	ColorType        *string    `json:"color_type"`
	Size             *string    `json:"size"`
	Quantity         int        `json:"quantity"`
	PriceAtAdded     float64    `json:"price_at_added"`
	CurrentPrice     float64    `json:"current_price"`
	Stock            int        `json:"stock"`
	Subtotal         float64    `json:"subtotal"`
	MainImage        *string    `json:"main_image"`
	SecondaryImage   *string    `json:"secondary_image"`
	CreatedAt        string     `json:"created_at"`
	UpdatedAt        string     `json:"updated_at"`
}

type wireTotals struct {
	Subtotal float64 `json:"subtotal"`
	Items    int     `json:"items"`
}

// wireCartResponse is the full updated collection every cart endpoint
// returns. A nil Items slice means the payload lacked the collection and the
// caller must refetch.
type wireCartResponse struct {
	Items  []wireCartItem `json:"items"`
	Totals *wireTotals    `json:"totals"`
}

type addRequest struct {
	ProductVariantID int64 `json:"product_variant_id"`
	Quantity         int   `json:"quantity"`
}

type updateRequest struct {
	Quantity int `json:"quantity"`
}

// Item is one cart line, keyed by the product variant.
type Item struct {
	ID            string
	ProductID     string
	Name          string
	Image         string
	Price         float64
	PriceAtAdded  float64
	OriginalPrice *float64
	Shade         string
	Size          string
	Quantity      int
	InStock       bool
	MaxQuantity   int
	Stock         int
	Subtotal      float64
	CreatedAt     string
	UpdatedAt     string
}

// Totals carries the server-reported aggregate for the collection.
type Totals struct {
	Subtotal float64
	Items    int
}

// Meta carries optional display hints for notifications.
type Meta struct {
	Name  string
	Image string
}

func mapItem(w wireCartItem) Item {
	item := Item{
		ID:           string(w.ProductVariantID),
		ProductID:    string(w.ProductID),
		Name:         w.ProductName,
		Price:        w.CurrentPrice,
		PriceAtAdded: w.PriceAtAdded,
		Quantity:     w.Quantity,
		InStock:      w.Stock > 0,
		MaxQuantity:  w.Stock,
		Stock:        w.Stock,
		Subtotal:     w.Subtotal,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
	if w.MainImage != nil && *w.MainImage != "" {
		item.Image = *w.MainImage
	} else if w.SecondaryImage != nil {
		item.Image = *w.SecondaryImage
	}
	if w.PriceAtAdded != w.CurrentPrice {
		original := w.PriceAtAdded
		item.OriginalPrice = &original
	}
	if w.Color != nil {
		item.Shade = *w.Color
	}
	if w.Size != nil {
		item.Size = *w.Size
	}
	return item
}
