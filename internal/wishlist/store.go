package wishlist

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/maisonlumiere/storefront-client/internal/session"
	"github.com/maisonlumiere/storefront-client/pkg/api"
	pkgerrors "github.com/maisonlumiere/storefront-client/pkg/errors"
	"github.com/maisonlumiere/storefront-client/pkg/logger"
	"github.com/maisonlumiere/storefront-client/pkg/notify"
)

const sessionExpiredMessage = "Session expired. Please login again."

// Session is the slice of the session store the wishlist depends on.
type Session interface {
	Token() string
	Logout(ctx context.Context) error
	OnChange(fn session.ChangeListener)
}

// Store mirrors the server-side wishlist. Mutations replace local state with
// the authoritative response; images the backend does not echo survive from
// the previous local state.
type Store struct {
	api      *api.Client
	sess     Session
	notifier notify.Notifier
	logg     *logger.Logger

	mu      sync.Mutex
	items   []Item
	loading bool
}

// StoreParams bundles the dependencies required to build a wishlist store.
type StoreParams struct {
	API      *api.Client
	Session  Session
	Notifier notify.Notifier
	Logger   *logger.Logger
}

// NewStore constructs a wishlist store and subscribes it to authentication
// changes: login triggers a full refresh, logout drops local state.
func NewStore(params StoreParams) (*Store, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	s := &Store{
		api:      params.API,
		sess:     params.Session,
		notifier: params.Notifier,
		logg:     params.Logger,
	}
	s.sess.OnChange(func(authenticated bool) {
		if authenticated {
			if err := s.Refresh(context.Background()); err != nil && s.logg != nil {
				s.logg.Warn(context.Background(), "refreshing wishlist after login: "+err.Error())
			}
			return
		}
		s.clearLocal()
	})
	return s, nil
}

// Items returns a copy of the saved variants.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// Count returns the number of saved variants.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsInWishlist reports whether the variant is saved.
func (s *Store) IsInWishlist(variantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == variantID {
			return true
		}
	}
	return false
}

// IsLoading reports whether a refresh is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Refresh reloads the wishlist from the backend. Without a session it just
// drops local state.
func (s *Store) Refresh(ctx context.Context) error {
	token := s.sess.Token()
	if token == "" {
		s.clearLocal()
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	var resp wireWishlistResponse
	if err := s.api.Do(ctx, api.Request{Path: "/wishlist", Token: token}, &resp); err != nil {
		return s.handleError(ctx, err, "Fetch wishlist")
	}
	s.syncFromResponse(resp)
	return nil
}

// AddToWishlist saves a variant. The image from meta is remembered locally
// since the backend payload carries none.
func (s *Store) AddToWishlist(ctx context.Context, variantID string, meta Meta) error {
	token := s.sess.Token()
	if token == "" {
		s.notifier.Error(ctx, "Please login to use wishlist")
		return nil
	}

	numericID, err := parseVariantID(variantID)
	if err != nil {
		return err
	}

	var resp wireWishlistResponse
	req := api.Request{
		Method: http.MethodPost,
		Path:   "/wishlist",
		Body:   addRequest{ProductVariantID: numericID},
		Token:  token,
	}
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return s.handleError(ctx, err, "Add to wishlist")
	}
	if !s.syncWithSeed(resp, variantID, meta.Image) {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
	}

	if meta.Name != "" {
		s.notifier.Success(ctx, fmt.Sprintf("Saved %s", meta.Name))
	} else {
		s.notifier.Success(ctx, "Added to wishlist")
	}
	return nil
}

// RemoveFromWishlist deletes a saved variant.
func (s *Store) RemoveFromWishlist(ctx context.Context, variantID string) error {
	token := s.sess.Token()
	if token == "" {
		s.notifier.Error(ctx, "Please login to use wishlist")
		return nil
	}

	var resp wireWishlistResponse
	req := api.Request{
		Method: http.MethodDelete,
		Path:   "/wishlist/" + url.PathEscape(variantID),
		Token:  token,
	}
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return s.handleError(ctx, err, "Remove from wishlist")
	}
	if !s.syncFromResponse(resp) {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
	}
	s.notifier.Success(ctx, "Removed from wishlist")
	return nil
}

// syncWithSeed reconciles and seeds the just-saved variant's image so it is
// not lost before the next reconcile.
func (s *Store) syncWithSeed(resp wireWishlistResponse, seedID, seedImage string) bool {
	if seedImage == "" {
		return s.syncFromResponse(resp)
	}
	s.mu.Lock()
	known := false
	for _, item := range s.items {
		if item.ID == seedID {
			known = true
			break
		}
	}
	if !known {
		s.items = append(s.items, Item{ID: seedID, Image: seedImage})
	}
	s.mu.Unlock()
	return s.syncFromResponse(resp)
}

// syncFromResponse replaces local state with the server's collection,
// carrying known images forward. It reports false when the payload had no
// items field, signaling the caller to fall back to a full refresh.
func (s *Store) syncFromResponse(resp wireWishlistResponse) bool {
	if resp.Items == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previousImages := make(map[string]string, len(s.items))
	for _, item := range s.items {
		if item.Image != "" {
			previousImages[item.ID] = item.Image
		}
	}

	items := make([]Item, 0, len(resp.Items))
	for _, w := range resp.Items {
		items = append(items, mapItem(w, previousImages[string(w.ProductVariantID)]))
	}
	s.items = items
	return true
}

// handleError translates a failed call at the store boundary: 401 tears the
// session down, aborts stay silent, anything else surfaces an
// action-prefixed notification. Prior local state is never touched.
func (s *Store) handleError(ctx context.Context, err error, action string) error {
	if pkgerrors.IsUnauthorized(err) {
		s.notifier.Error(ctx, sessionExpiredMessage)
		if logoutErr := s.sess.Logout(ctx); logoutErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "logout after 401: "+logoutErr.Error())
		}
		return err
	}
	if pkgerrors.IsAbort(err) {
		return err
	}
	s.notifier.Error(ctx, fmt.Sprintf("%s failed: %s", action, errorMessage(err)))
	return err
}

func (s *Store) clearLocal() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func parseVariantID(variantID string) (int64, error) {
	id, err := strconv.ParseInt(variantID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid variant id %q: %w", variantID, err)
	}
	return id, nil
}

func errorMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}
