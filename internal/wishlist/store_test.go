package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonlumiere/storefront-client/internal/session"
	"github.com/maisonlumiere/storefront-client/pkg/api"
	pkgerrors "github.com/maisonlumiere/storefront-client/pkg/errors"
	"github.com/maisonlumiere/storefront-client/pkg/notify"
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

type fakeSession struct {
	mu        sync.Mutex
	token     string
	listeners []session.ChangeListener
}

func (f *fakeSession) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) Logout(context.Context) error {
	f.mu.Lock()
	f.token = ""
	listeners := append([]session.ChangeListener(nil), f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(false)
	}
	return nil
}

func (f *fakeSession) OnChange(fn session.ChangeListener) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// wishlistBackend keeps a variant-id keyed wishlist and answers every
// endpoint with the full updated collection.
type wishlistBackend struct {
	mu    sync.Mutex
	items []string
}

func newWishlistBackend(seed ...string) *wishlistBackend {
	return &wishlistBackend{items: seed}
}

func (b *wishlistBackend) collection() string {
	entries := make([]string, 0, len(b.items))
	for _, id := range b.items {
		entries = append(entries, fmt.Sprintf(
			`{"product_id":%s0,"product_variant_id":%s,"product_name":"item %s","color":null,"color_type":null,"size":null,"current_price":25,"stock":3,"created_at":"2026-01-01"}`,
			id, id, id))
	}
	return fmt.Sprintf(`{"items":[%s]}`, strings.Join(entries, ","))
}

func (b *wishlistBackend) roundTrip(req *http.Request) (*http.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case req.Method == http.MethodPost && req.URL.Path == "/api/v1/wishlist":
		var body addRequest
		raw, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			return jsonResponse(http.StatusBadRequest, `{"message":"bad body"}`), nil
		}
		b.items = append(b.items, fmt.Sprintf("%d", body.ProductVariantID))
	case req.Method == http.MethodDelete && strings.HasPrefix(req.URL.Path, "/api/v1/wishlist/"):
		id := strings.TrimPrefix(req.URL.Path, "/api/v1/wishlist/")
		kept := b.items[:0]
		for _, existing := range b.items {
			if existing != id {
				kept = append(kept, existing)
			}
		}
		b.items = kept
	}
	return jsonResponse(http.StatusOK, b.collection()), nil
}

func newTestStore(t *testing.T, rt roundTripFunc) (*Store, *fakeSession, *notify.Recorder) {
	t.Helper()
	client := api.NewClient(
		api.WithHTTPClient(&http.Client{Transport: rt}),
		api.WithBaseURL("http://api.test/api/v1"),
	)
	sess := &fakeSession{token: "tok-123"}
	recorder := &notify.Recorder{}
	store, err := NewStore(StoreParams{API: client, Session: sess, Notifier: recorder})
	require.NoError(t, err)
	return store, sess, recorder
}

func TestAddToWishlistRequiresSession(t *testing.T) {
	store, sess, recorder := newTestStore(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected without a session")
		return nil, nil
	})
	sess.token = ""

	require.NoError(t, store.AddToWishlist(context.Background(), "9", Meta{}))
	assert.Equal(t, []string{"Please login to use wishlist"}, recorder.Errors)
	assert.Zero(t, store.Count())
}

func TestAddToWishlistSyncsAndKeepsImage(t *testing.T) {
	backend := newWishlistBackend("5")
	store, _, recorder := newTestStore(t, backend.roundTrip)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.AddToWishlist(context.Background(), "9", Meta{Name: "Dew Serum", Image: "/dew.jpg"}))

	assert.True(t, store.IsInWishlist("9"))
	assert.True(t, store.IsInWishlist("5"))
	assert.Equal(t, 2, store.Count())
	assert.Equal(t, []string{"Saved Dew Serum"}, recorder.Successes)

	for _, item := range store.Items() {
		if item.ID == "9" {
			assert.Equal(t, "/dew.jpg", item.Image)
			assert.Equal(t, "item 9", item.Name)
			assert.Equal(t, 25.0, item.Price)
		}
	}
}

func TestImageSurvivesReconcile(t *testing.T) {
	backend := newWishlistBackend("5")
	store, _, _ := newTestStore(t, backend.roundTrip)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.AddToWishlist(context.Background(), "9", Meta{Image: "/dew.jpg"}))
	// A later refresh echoes no image fields; the known one must survive.
	require.NoError(t, store.Refresh(context.Background()))

	found := false
	for _, item := range store.Items() {
		if item.ID == "9" {
			found = true
			assert.Equal(t, "/dew.jpg", item.Image)
		}
	}
	assert.True(t, found)
}

func TestRemoveFromWishlist(t *testing.T) {
	backend := newWishlistBackend("5", "9")
	store, _, recorder := newTestStore(t, backend.roundTrip)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.RemoveFromWishlist(context.Background(), "9"))
	assert.False(t, store.IsInWishlist("9"))
	assert.Equal(t, 1, store.Count())
	assert.Equal(t, []string{"Removed from wishlist"}, recorder.Successes)
}

func TestAddWithoutItemsTriggersRefresh(t *testing.T) {
	backend := newWishlistBackend()
	gets := 0
	store, _, _ := newTestStore(t, func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodPost {
			return jsonResponse(http.StatusOK, `{"ok":true}`), nil
		}
		require.Equal(t, http.MethodGet, req.Method)
		gets++
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return jsonResponse(http.StatusOK, backend.collection()), nil
	})

	require.NoError(t, store.AddToWishlist(context.Background(), "9", Meta{}))
	assert.Equal(t, 1, gets)
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	backend := newWishlistBackend("5")
	failing := false
	store, sess, recorder := newTestStore(t, func(req *http.Request) (*http.Response, error) {
		if failing {
			return jsonResponse(http.StatusUnauthorized, `{"message":"Unauthorized"}`), nil
		}
		return backend.roundTrip(req)
	})
	require.NoError(t, store.Refresh(context.Background()))
	require.NotZero(t, store.Count())

	failing = true
	err := store.RemoveFromWishlist(context.Background(), "5")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnauthorized(err))

	assert.Equal(t, "", sess.Token())
	assert.Zero(t, store.Count())
	assert.Equal(t, []string{sessionExpiredMessage}, recorder.Errors)
}

func TestErrorLeavesStateUntouched(t *testing.T) {
	backend := newWishlistBackend("5")
	failing := false
	store, _, recorder := newTestStore(t, func(req *http.Request) (*http.Response, error) {
		if failing {
			return jsonResponse(http.StatusInternalServerError, `{"message":"boom"}`), nil
		}
		return backend.roundTrip(req)
	})
	require.NoError(t, store.Refresh(context.Background()))
	before := store.Items()

	failing = true
	err := store.AddToWishlist(context.Background(), "9", Meta{})
	require.Error(t, err)

	assert.Equal(t, before, store.Items())
	assert.Equal(t, []string{"Add to wishlist failed: boom"}, recorder.Errors)
}

func TestLogoutClearsWishlist(t *testing.T) {
	backend := newWishlistBackend("5")
	store, sess, _ := newTestStore(t, backend.roundTrip)
	require.NoError(t, store.Refresh(context.Background()))
	require.NotZero(t, store.Count())

	require.NoError(t, sess.Logout(context.Background()))
	assert.Zero(t, store.Count())
}
