package cart

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

// Session is the slice of the session store the cart depends on.
type Session interface {
	Token() string
	Logout(ctx context.Context) error
	OnChange(fn session.ChangeListener)
}

// Store mirrors the server-side cart. Every mutation round-trips to the
// backend and replaces local state with the authoritative response; there is
// no optimistic client-side math.
type Store struct {
	api      *api.Client
	sess     Session
	notifier notify.Notifier
	logg     *logger.Logger

	mu        sync.Mutex
	items     []Item
	totals    Totals
	hasTotals bool
	loading   bool
}

// StoreParams bundles the dependencies required to build a cart store.
type StoreParams struct {
	API      *api.Client
	Session  Session
	Notifier notify.Notifier
	Logger   *logger.Logger
}

// NewStore constructs a cart store and subscribes it to authentication
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
				s.logg.Warn(context.Background(), "refreshing cart after login: "+err.Error())
			}
			return
		}
		s.clearLocal()
	})
	return s, nil
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// Count prefers the server-reported item total, falling back to a local sum
// when a mutation response omitted totals.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasTotals {
		return s.totals.Items
	}
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Subtotal prefers the server-reported subtotal, falling back to a local sum.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasTotals {
		return s.totals.Subtotal
	}
	sum := 0.0
	for _, item := range s.items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// IsLoading reports whether a refresh is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Refresh reloads the cart from the backend. Without a session it just
// drops local state.
func (s *Store) Refresh(ctx context.Context) error {
	token := s.sess.Token()
	if token == "" {
		s.clearLocal()
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	var resp wireCartResponse
	if err := s.api.Do(ctx, api.Request{Path: "/cart", Token: token}, &resp); err != nil {
		return s.handleError(ctx, err, "Fetch cart")
	}
	s.syncFromResponse(resp)
	return nil
}

// AddToCart adds quantity units of a variant. The backend response carries
// the full updated collection; if it does not, one follow-up refresh
// reconciles before the call returns.
func (s *Store) AddToCart(ctx context.Context, variantID string, quantity int, meta Meta) error {
	token := s.sess.Token()
	if token == "" {
		s.notifier.Error(ctx, "Please login to add items to your cart")
		return nil
	}

	numericID, err := parseVariantID(variantID)
	if err != nil {
		return err
	}
	if quantity < 1 {
		quantity = 1
	}

	var resp wireCartResponse
	req := api.Request{
		Method: http.MethodPost,
		Path:   "/cart",
		Body:   addRequest{ProductVariantID: numericID, Quantity: quantity},
		Token:  token,
	}
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return s.handleError(ctx, err, "Add to cart")
	}
	if !s.syncFromResponse(resp) {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
	}

	if meta.Name != "" {
		s.notifier.Success(ctx, fmt.Sprintf("Added %s to cart", meta.Name))
	} else {
		s.notifier.Success(ctx, "Item added to cart")
	}
	return nil
}

// UpdateQuantity sets the quantity of a cart line. The outgoing quantity is
// clamped to [1, stock] when the line's stock is known.
func (s *Store) UpdateQuantity(ctx context.Context, variantID string, quantity int) error {
	token := s.sess.Token()
	if token == "" {
		s.notifier.Error(ctx, "Please login to update your cart")
		return nil
	}

	quantity = s.clampQuantity(variantID, quantity)

	var resp wireCartResponse
	req := api.Request{
		Method: http.MethodPut,
		Path:   "/cart/" + url.PathEscape(variantID),
		Body:   updateRequest{Quantity: quantity},
		Token:  token,
	}
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return s.handleError(ctx, err, "Update quantity")
	}
	if !s.syncFromResponse(resp) {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFromCart deletes a cart line.
func (s *Store) RemoveFromCart(ctx context.Context, variantID string) error {
	token := s.sess.Token()
	if token == "" {
		s.notifier.Error(ctx, "Please login to update your cart")
		return nil
	}

	if err := s.remove(ctx, token, variantID); err != nil {
		return err
	}
	s.notifier.Success(ctx, "Item removed from cart")
	return nil
}

// ClearCart removes the current lines one at a time and stops at the first
// failure, leaving the remainder for a later retry. The backend exposes no
// bulk delete.
func (s *Store) ClearCart(ctx context.Context) error {
	token := s.sess.Token()
	if token == "" {
		s.clearLocal()
		return nil
	}

	s.mu.Lock()
	ids := make([]string, 0, len(s.items))
	for _, item := range s.items {
		ids = append(ids, item.ID)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.remove(ctx, token, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) remove(ctx context.Context, token, variantID string) error {
	var resp wireCartResponse
	req := api.Request{
		Method: http.MethodDelete,
		Path:   "/cart/" + url.PathEscape(variantID),
		Token:  token,
	}
	if err := s.api.Do(ctx, req, &resp); err != nil {
		return s.handleError(ctx, err, "Remove from cart")
	}
	if !s.syncFromResponse(resp) {
		return s.Refresh(ctx)
	}
	return nil
}

// syncFromResponse replaces local state with the server's collection. It
// reports false when the payload had no items field, signaling the caller to
// fall back to a full refresh.
func (s *Store) syncFromResponse(resp wireCartResponse) bool {
	if resp.Items == nil {
		return false
	}
	items := make([]Item, 0, len(resp.Items))
	for _, w := range resp.Items {
		items = append(items, mapItem(w))
	}

	s.mu.Lock()
	s.items = items
	s.hasTotals = resp.Totals != nil
	if resp.Totals != nil {
		s.totals = Totals{Subtotal: resp.Totals.Subtotal, Items: resp.Totals.Items}
	} else {
		s.totals = Totals{}
	}
	s.mu.Unlock()
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

func (s *Store) clampQuantity(variantID string, quantity int) int {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == variantID && item.Stock > 0 && quantity > item.Stock {
			return item.Stock
		}
	}
	return quantity
}

func (s *Store) clearLocal() {
	s.mu.Lock()
	s.items = nil
	s.totals = Totals{}
	s.hasTotals = false
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
