package catalog

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/maisonlumiere/storefront-client/pkg/api"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestService(rt roundTripFunc) *Service {
	client := api.NewClient(
		api.WithHTTPClient(&http.Client{Transport: rt}),
		api.WithBaseURL("http://api.test/api/v1"),
		api.WithAssetBaseURL("http://assets.test"),
	)
	return NewService(client, nil)
}

func TestProductsBuildsExactPath(t *testing.T) {
	var capturedURL string
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"products":[],"nextCursor":null,"hasMore":false}`), nil
	})

	filters := Filters{
		Category: "5",
		MinPrice: floatPtr(50),
		MaxPrice: floatPtr(200),
		Sort:     SortPriceLow,
	}
	if _, err := svc.Products(context.Background(), filters, nil); err != nil {
		t.Fatalf("products: %v", err)
	}

	want := "http://api.test/api/v1/products?category=5&minPrice=50&maxPrice=200&sort=price_low"
	if capturedURL != want {
		t.Fatalf("unexpected URL %q, want %q", capturedURL, want)
	}
}

func TestProductsMapsPage(t *testing.T) {
	svc := newTestService(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{
			"products":[{"id":3,"name":"Satin Gloss","slug":"satin-gloss","base_price":"75.00",
				"variants":[{"id":9,"stock":2,"main_image":"/gloss.jpg","price":"75.00","discount_price":null}]}],
			"nextCursor":3,
			"hasMore":true
		}`), nil
	})

	page, err := svc.Products(context.Background(), Filters{}, nil)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(page.Products) != 1 {
		t.Fatalf("unexpected products %+v", page.Products)
	}
	if page.Products[0].ImageURL != "http://assets.test/gloss.jpg" {
		t.Fatalf("asset base not applied: %q", page.Products[0].ImageURL)
	}
	if page.NextCursor == nil || *page.NextCursor != 3 || !page.HasMore {
		t.Fatalf("unexpected paging fields %+v", page)
	}
}

func TestProductDetailPath(t *testing.T) {
	var capturedURL string
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"id":14,"name":"Dew Serum","slug":"dew-serum","base_price":"120.00","base_stock":0,"variants":[],"media":[]}`), nil
	})

	product, err := svc.Product(context.Background(), "14", "dew-serum")
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if capturedURL != "http://api.test/api/v1/product/14-dew-serum" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if product.Price != 120 || product.InStock {
		t.Fatalf("unexpected mapping %+v", product)
	}
}

func TestProductRequiresID(t *testing.T) {
	svc := newTestService(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	if _, err := svc.Product(context.Background(), " ", "slug"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCategories(t *testing.T) {
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v1/categories" {
			t.Fatalf("unexpected path %q", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `[{"id":1,"name":"Face","subcategories":[{"id":11,"name":"Foundation"}]}]`), nil
	})

	nodes, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Name != "Face" {
		t.Fatalf("unexpected nodes %+v", nodes)
	}
	if len(nodes[0].Subcategories) != 1 || nodes[0].Subcategories[0].Name != "Foundation" {
		t.Fatalf("unexpected subcategories %+v", nodes[0].Subcategories)
	}
}

func TestSuggestionsEncodeQuery(t *testing.T) {
	var capturedURL string
	svc := newTestService(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"suggestions":[{"name":"Lip Liner","slug":"lip-liner","thumbnail":null}]}`), nil
	})

	suggestions, err := svc.Suggestions(context.Background(), "lip liner")
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if capturedURL != "http://api.test/api/v1/search/suggestions?q=lip+liner" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if len(suggestions) != 1 || suggestions[0].Slug != "lip-liner" {
		t.Fatalf("unexpected suggestions %+v", suggestions)
	}
}

func TestSuggestionsEmptyFieldIsValid(t *testing.T) {
	svc := newTestService(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"suggestions":[]}`), nil
	})
	suggestions, err := svc.Suggestions(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("expected empty result, got %+v", suggestions)
	}
}

func TestTrending(t *testing.T) {
	svc := newTestService(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"trending":[{"query":"vitamin c","search_count":42}]}`), nil
	})
	trending, err := svc.Trending(context.Background())
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(trending) != 1 || trending[0].SearchCount != 42 {
		t.Fatalf("unexpected trending %+v", trending)
	}
}
