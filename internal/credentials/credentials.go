// Package credentials keeps backend API tokens in the OS keyring.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service name tokens are stored under.
const Service = "meetsum"

// ErrNoToken is returned when no token is stored for a backend.
var ErrNoToken = errors.New("no token stored")

// Store reads and writes tokens keyed by backend URL.
type Store struct {
	service string
}

// NewStore returns a store using the default service name.
func NewStore() *Store {
	return &Store{service: Service}
}

func account(backendURL string) string {
	return strings.TrimRight(strings.TrimSpace(backendURL), "/")
}

// Save stores token for backendURL.
func (s *Store) Save(backendURL, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	if err := keyring.Set(s.service, account(backendURL), token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Token returns the stored token for backendURL.
func (s *Store) Token(backendURL string) (string, error) {
	token, err := keyring.Get(s.service, account(backendURL))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s *Store) Delete(backendURL string) error {
	err := keyring.Delete(s.service, account(backendURL))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// Resolve returns configured when set, otherwise the stored token. A missing
// keyring entry resolves to an empty token.
func (s *Store) Resolve(backendURL, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	token, err := s.Token(backendURL)
	if errors.Is(err, ErrNoToken) {
		return "", nil
	}
	return token, err
}

// Mask hides all but the last four characters of a token.
func Mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
