package address

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/maisonlumiere/storefront-client/pkg/api"
	"github.com/maisonlumiere/storefront-client/pkg/logger"
	"github.com/maisonlumiere/storefront-client/pkg/validate"
)

// Address is a saved shipping address as the backend returns it.
type Address struct {
	ID         int64   `json:"id"`
	Label      *string `json:"label"`
	FullName   string  `json:"full_name"`
	Phone      string  `json:"phone"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
	IsDefault  bool    `json:"is_default"`
}

// CreateInput is the payload for creating an address.
type CreateInput struct {
	Label      string `json:"label,omitempty"`
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone" validate:"required,min=5"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() string
}

// Service manages the account's saved addresses.
type Service struct {
	api  *api.Client
	sess TokenSource
	logg *logger.Logger

	mu        sync.Mutex
	addresses []Address
}

// NewService constructs the address service.
func NewService(client *api.Client, sess TokenSource, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if sess == nil {
		return nil, fmt.Errorf("token source is required")
	}
	return &Service{api: client, sess: sess, logg: logg}, nil
}

// Addresses returns the last fetched address list.
func (s *Service) Addresses() []Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Address(nil), s.addresses...)
}

// List fetches the account's addresses.
func (s *Service) List(ctx context.Context) ([]Address, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}

	var addresses []Address
	if err := s.api.Do(ctx, api.Request{Path: "/addresses", Token: token}, &addresses); err != nil {
		return nil, fmt.Errorf("fetch addresses: %w", err)
	}

	s.mu.Lock()
	s.addresses = addresses
	s.mu.Unlock()
	return append([]Address(nil), addresses...), nil
}

// Create saves a new address and returns the created record.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Address, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var created Address
	req := api.Request{Method: http.MethodPost, Path: "/addresses", Body: input, Token: token}
	if err := s.api.Do(ctx, req, &created); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	s.mu.Lock()
	s.addresses = append(s.addresses, created)
	s.mu.Unlock()
	return &created, nil
}

// SetDefault marks the address as the default shipping target.
func (s *Service) SetDefault(ctx context.Context, id int64) (*Address, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}

	var updated Address
	req := api.Request{Method: http.MethodPost, Path: fmt.Sprintf("/addresses/%d/default", id), Token: token}
	if err := s.api.Do(ctx, req, &updated); err != nil {
		return nil, fmt.Errorf("set default address: %w", err)
	}

	s.mu.Lock()
	for i := range s.addresses {
		s.addresses[i].IsDefault = s.addresses[i].ID == id
	}
	s.mu.Unlock()
	return &updated, nil
}

// Delete removes a saved address.
func (s *Service) Delete(ctx context.Context, id int64) error {
	token, err := s.requireToken()
	if err != nil {
		return err
	}

	var res deleteResponse
	req := api.Request{Method: http.MethodDelete, Path: fmt.Sprintf("/addresses/%d", id), Token: token}
	if err := s.api.Do(ctx, req, &res); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("delete address %d: backend reported failure", id)
	}

	s.mu.Lock()
	kept := s.addresses[:0]
	for _, addr := range s.addresses {
		if addr.ID != id {
			kept = append(kept, addr)
		}
	}
	s.addresses = kept
	s.mu.Unlock()
	return nil
}

func (s *Service) requireToken() (string, error) {
	token := s.sess.Token()
	if token == "" {
		return "", fmt.Errorf("login required to manage addresses")
	}
	return token, nil
}
