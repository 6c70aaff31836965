// Package memory is an in-process credential store for tests and one-shot sessions.
package memory

import (
	"errors"
	"sync"

	"LightAdmin/internal/cli/repo"
)

// Store keeps the credential pair in memory.
type Store struct {
	mu    sync.Mutex
	creds repo.Credentials
	login string
}

var (
	_ repo.CredentialStore  = (*Store)(nil)
	_ repo.UserContextStore = (*Store)(nil)
)

// NewStore returns a store pre-filled with creds.
func NewStore(creds repo.Credentials) *Store {
	return &Store{creds: creds}
}

func (s *Store) Load() (repo.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *Store) SaveAccess(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = token
	return nil
}

func (s *Store) SaveRefresh(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.RefreshToken = token
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = repo.Credentials{}
	return nil
}

func (s *Store) SaveLogin(login string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.login = login
	return nil
}

func (s *Store) LoadLogin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.login == "" {
		return "", errors.New("no stored login")
	}
	return s.login, nil
}
