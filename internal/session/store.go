package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/multierr"

	"github.com/maisonlumiere/storefront-client/pkg/api"
	pkgerrors "github.com/maisonlumiere/storefront-client/pkg/errors"
	"github.com/maisonlumiere/storefront-client/pkg/logger"
	"github.com/maisonlumiere/storefront-client/pkg/redis"
	"github.com/maisonlumiere/storefront-client/pkg/validate"
)

// Vault persists session fields across restarts. An empty Get result means
// the field is absent.
type Vault interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ChangeListener is invoked after the authentication state flips. Dependent
// stores register one to refresh or drop their server-backed state.
type ChangeListener func(authenticated bool)

// Store holds the authenticated session: the bearer token, the profile of the
// current user, and the basics persisted to the vault so a restart can pick
// the session back up.
type Store struct {
	api   *api.Client
	vault Vault
	logg  *logger.Logger
	ttl   time.Duration

	mu        sync.Mutex
	token     string
	user      *User
	email     string
	phone     string
	name      string
	ready     bool
	listeners []ChangeListener
}

// StoreParams bundles the dependencies required to build a session store.
type StoreParams struct {
	API    *api.Client
	Vault  Vault
	Logger *logger.Logger
	// TTL bounds how long persisted fields live in the vault. Zero keeps
	// them until logout.
	TTL time.Duration
}

// NewStore constructs a session store with the provided dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Vault == nil {
		return nil, fmt.Errorf("session vault is required")
	}
	return &Store{
		api:   params.API,
		vault: params.Vault,
		logg:  params.Logger,
		ttl:   params.TTL,
	}, nil
}

// OnChange registers a listener for authentication state changes.
func (s *Store) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Token returns the active bearer token, or empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the current profile, or nil before the first successful refresh.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// Email returns the persisted account email.
func (s *Store) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// Phone returns the persisted account phone.
func (s *Store) Phone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone
}

// Name returns the persisted account name.
func (s *Store) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// IsAuthenticated reports whether a bearer token is active.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Ready reports whether Hydrate has finished its initial pass. Callers gate
// session-dependent work on this so a restart does not flash logged-out state.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Login authenticates the credentials, persists the session, and refreshes
// the user profile. A failed profile refresh does not fail the login.
func (s *Store) Login(ctx context.Context, input LoginInput) (*LoginResponse, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var res LoginResponse
	req := api.Request{Method: http.MethodPost, Path: "/auth/login", Body: input}
	if err := s.api.Do(ctx, req, &res); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = res.Token
	s.email = input.Email
	s.mu.Unlock()

	if err := s.persist(ctx, map[string]string{
		redis.KeyAuthToken: res.Token,
		redis.KeyAuthEmail: input.Email,
	}); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "persisting session: "+err.Error())
	}

	if _, err := s.RefreshUser(ctx, res.Token); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "refreshing user after login: "+err.Error())
	}

	s.notifyChange()
	return &res, nil
}

// Register creates an account and remembers the basics so the login form can
// be prefilled. It does not authenticate.
func (s *Store) Register(ctx context.Context, input RegisterInput) (*RegisterResponse, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var res RegisterResponse
	req := api.Request{Method: http.MethodPost, Path: "/auth/register", Body: input}
	if err := s.api.Do(ctx, req, &res); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.email = input.Email
	s.name = input.Name
	s.phone = input.Phone
	s.mu.Unlock()

	if err := s.persist(ctx, map[string]string{
		redis.KeyAuthEmail: input.Email,
		redis.KeyAuthName:  input.Name,
		redis.KeyAuthPhone: input.Phone,
	}); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "persisting registration basics: "+err.Error())
	}
	return &res, nil
}

// RefreshUser fetches the current profile with tokenOverride, or the stored
// token when empty. A 401 tears the session down before the error is
// returned; any other failure leaves the session untouched. No token at all
// is a quiet no-op.
func (s *Store) RefreshUser(ctx context.Context, tokenOverride string) (*User, error) {
	s.mu.Lock()
	active := strings.TrimSpace(tokenOverride)
	if active == "" {
		active = s.token
	}
	s.mu.Unlock()
	if active == "" {
		return nil, nil
	}

	var wire wireUser
	if err := s.api.Do(ctx, api.Request{Path: "/users/me", Token: active}, &wire); err != nil {
		if pkgerrors.IsUnauthorized(err) {
			if clearErr := s.clear(ctx); clearErr != nil && s.logg != nil {
				s.logg.Warn(ctx, "clearing session: "+clearErr.Error())
			}
			s.notifyChange()
		}
		return nil, err
	}

	user := mapUser(wire)
	s.mu.Lock()
	s.user = &user
	s.email = user.Email
	s.name = user.Name
	if user.Phone != "" {
		s.phone = user.Phone
	}
	phone := s.phone
	s.mu.Unlock()

	if err := s.persist(ctx, map[string]string{
		redis.KeyAuthEmail: user.Email,
		redis.KeyAuthName:  user.Name,
		redis.KeyAuthPhone: phone,
	}); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "persisting user basics: "+err.Error())
	}
	return &user, nil
}

// Logout clears the session synchronously. The vault error, if any, is
// returned after in-memory state is already gone.
func (s *Store) Logout(ctx context.Context) error {
	err := s.clear(ctx)
	s.notifyChange()
	return err
}

// Hydrate restores a persisted session at startup. A token whose expiry has
// already passed is discarded silently. The profile refresh is best effort:
// only a 401 tears the restored session down.
func (s *Store) Hydrate(ctx context.Context) error {
	defer s.markReady()

	token, err := s.vault.Get(ctx, redis.KeyAuthToken)
	if err != nil {
		return fmt.Errorf("reading persisted token: %w", err)
	}
	email, emailErr := s.vault.Get(ctx, redis.KeyAuthEmail)
	phone, phoneErr := s.vault.Get(ctx, redis.KeyAuthPhone)
	name, nameErr := s.vault.Get(ctx, redis.KeyAuthName)
	if err := multierr.Combine(emailErr, phoneErr, nameErr); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "reading persisted basics: "+err.Error())
	}

	if token == "" {
		return nil
	}
	if tokenExpired(token, time.Now()) {
		if s.logg != nil {
			s.logg.Debug(ctx, "persisted token expired, discarding session")
		}
		return s.clear(ctx)
	}

	s.mu.Lock()
	s.token = token
	s.email = email
	s.phone = phone
	s.name = name
	s.mu.Unlock()

	if _, err := s.RefreshUser(ctx, token); err != nil {
		if pkgerrors.IsUnauthorized(err) {
			return nil
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "refreshing restored session: "+err.Error())
		}
	}

	s.notifyChange()
	return nil
}

func (s *Store) markReady() {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
}

// persist writes each field to the vault, deleting fields with empty values.
// Every field is attempted; failures are combined.
func (s *Store) persist(ctx context.Context, fields map[string]string) error {
	var err error
	for key, value := range fields {
		if value == "" {
			err = multierr.Append(err, s.vault.Del(ctx, key))
			continue
		}
		err = multierr.Append(err, s.vault.Set(ctx, key, value, s.ttl))
	}
	return err
}

func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.email = ""
	s.phone = ""
	s.name = ""
	s.mu.Unlock()

	return s.vault.Del(ctx,
		redis.KeyAuthToken,
		redis.KeyAuthEmail,
		redis.KeyAuthPhone,
		redis.KeyAuthName,
	)
}

func (s *Store) notifyChange() {
	s.mu.Lock()
	listeners := append([]ChangeListener(nil), s.listeners...)
	authenticated := s.token != ""
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(authenticated)
	}
}

// tokenExpired peeks at the expiry claim without verifying the signature.
// Verification is the backend's job; this only avoids an obviously dead
// round trip. Opaque or claimless tokens pass through to the server.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
