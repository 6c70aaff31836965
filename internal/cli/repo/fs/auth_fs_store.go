package fs

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"LightAdmin/internal/cli/repo"
)

// Entry names of the credential pair.
const (
	AccessEntry  = "auth.t"
	RefreshEntry = "auth.r"
)

// AuthFSStore — файловое хранилище пары токенов и контекста пользователя для CLI.
// Каждый токен лежит в своём файле в виде cookie-строки (Path=/, SameSite=Strict);
// очистка перезаписывает запись с уже истёкшим Expires.
type AuthFSStore struct {
	// Dir overrides the storage directory. Empty means <UserConfigDir>/LightAdmin.
	Dir string

	mu  sync.Mutex
	now func() time.Time
}

var (
	_ repo.CredentialStore  = (*AuthFSStore)(nil)
	_ repo.UserContextStore = (*AuthFSStore)(nil)
)

// NewAuthFSStore creates a store rooted at dir.
func NewAuthFSStore(dir string) *AuthFSStore {
	return &AuthFSStore{Dir: dir}
}

func (s *AuthFSStore) configDir() (string, error) {
	p := s.Dir
	if p == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "LightAdmin")
	}
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s *AuthFSStore) entryPath(name string) (string, error) {
	dir, err := s.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (s *AuthFSStore) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *AuthFSStore) writeEntry(name, value string, expires time.Time) error {
	p, err := s.entryPath(name)
	if err != nil {
		return err
	}
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		SameSite: http.SameSiteStrictMode,
	}
	return os.WriteFile(p, []byte(c.String()+"\n"), 0o600)
}

// readEntry возвращает значение записи или "" если записи нет либо она истекла.
func (s *AuthFSStore) readEntry(name string) (string, error) {
	p, err := s.entryPath(name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	line := strings.TrimSpace(string(b))
	if line == "" {
		return "", nil
	}
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	if c.MaxAge < 0 {
		return "", nil
	}
	if !c.Expires.IsZero() && !c.Expires.After(s.clock()) {
		return "", nil
	}
	return c.Value, nil
}

// Load читает обе записи.
func (s *AuthFSStore) Load() (repo.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	access, err := s.readEntry(AccessEntry)
	if err != nil {
		return repo.Credentials{}, err
	}
	refresh, err := s.readEntry(RefreshEntry)
	if err != nil {
		return repo.Credentials{}, err
	}
	return repo.Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

// SaveAccess сохраняет access-токен.
func (s *AuthFSStore) SaveAccess(token string) error {
	if token == "" {
		return errors.New("empty access token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeEntry(AccessEntry, token, time.Time{})
}

// SaveRefresh сохраняет refresh-токен.
func (s *AuthFSStore) SaveRefresh(token string) error {
	if token == "" {
		return errors.New("empty refresh token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeEntry(RefreshEntry, token, time.Time{})
}

// Clear expires both entries.
func (s *AuthFSStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := time.Unix(0, 0).UTC()
	return errors.Join(
		s.writeEntry(AccessEntry, "", expired),
		s.writeEntry(RefreshEntry, "", expired),
	)
}

// SaveLogin сохраняет логин пользователя в файл.
func (s *AuthFSStore) SaveLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	p, err := s.entryPath("last_login")
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(login), 0o600)
}

// LoadLogin читает логин пользователя из файла.
func (s *AuthFSStore) LoadLogin() (string, error) {
	p, err := s.entryPath("last_login")
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	login := strings.TrimSpace(string(b))
	if login == "" {
		return "", errors.New("no stored login")
	}
	return login, nil
}
