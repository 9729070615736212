package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/maisonlumiere/storefront-client/pkg/api"
	"github.com/maisonlumiere/storefront-client/pkg/logger"
)

// Service exposes the public catalog resources: cursor-paginated product
// queries, product detail, the category tree, and search.
type Service struct {
	api  *api.Client
	logg *logger.Logger
}

func NewService(client *api.Client, logg *logger.Logger) *Service {
	return &Service{api: client, logg: logg}
}

// Products fetches one page of products for the filter set. Pass the previous
// page's NextCursor to continue; nil starts from the beginning.
func (s *Service) Products(ctx context.Context, filters Filters, cursor *int64) (CursorPage, error) {
	path := "/products"
	if qs := filters.QueryString(cursor); qs != "" {
		path += "?" + qs
	}

	if s.logg != nil {
		s.logg.Debug(s.logg.WithResource(ctx, "products"), "fetching "+path)
	}

	var wire wireCursorPage
	if err := s.api.Do(ctx, api.Request{Path: path}, &wire); err != nil {
		return CursorPage{}, fmt.Errorf("fetch products: %w", err)
	}
	return mapCursorPage(s.api.AssetBaseURL(), wire), nil
}

// Product fetches the detail view addressed by id and slug.
func (s *Service) Product(ctx context.Context, id, slug string) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, fmt.Errorf("product id is required")
	}

	var wire wireProduct
	path := fmt.Sprintf("/product/%s-%s", url.PathEscape(id), url.PathEscape(slug))
	if err := s.api.Do(ctx, api.Request{Path: path}, &wire); err != nil {
		return Product{}, fmt.Errorf("fetch product %s: %w", id, err)
	}
	return mapProduct(s.api.AssetBaseURL(), wire), nil
}

// Categories fetches the category tree.
func (s *Service) Categories(ctx context.Context) ([]CategoryNode, error) {
	var wire []wireCategoryNode
	if err := s.api.Do(ctx, api.Request{Path: "/categories"}, &wire); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return mapCategories(wire), nil
}

// Suggestions fetches search suggestions for a partial query. An empty
// suggestions field is a valid empty result, not an error.
func (s *Service) Suggestions(ctx context.Context, query string) ([]Suggestion, error) {
	params := url.Values{}
	params.Set("q", query)

	var wire wireSuggestionsResponse
	if err := s.api.Do(ctx, api.Request{Path: "/search/suggestions", Query: params}, &wire); err != nil {
		return nil, fmt.Errorf("fetch suggestions: %w", err)
	}
	return mapSuggestions(wire.Suggestions), nil
}

// Trending fetches the trending search queries.
func (s *Service) Trending(ctx context.Context) ([]TrendingSearch, error) {
	var wire wireTrendingResponse
	if err := s.api.Do(ctx, api.Request{Path: "/search/trending"}, &wire); err != nil {
		return nil, fmt.Errorf("fetch trending searches: %w", err)
	}
	return mapTrending(wire.Trending), nil
}
