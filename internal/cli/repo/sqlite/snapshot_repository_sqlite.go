package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "modernc.org/sqlite"

	"LightAdmin/internal/cli/crypto"
	"LightAdmin/internal/cli/repo"
)

// SnapshotRepositorySQLite — кэш последних ответов API (локальная БД SQLite пользователя).
// Снимки хранятся зашифрованными AES-GCM ключом из каталога пользователя.
type SnapshotRepositorySQLite struct {
	db    *sql.DB
	login string
	key   []byte
	now   func() time.Time
}

var _ repo.SnapshotRepository = (*SnapshotRepositorySQLite)(nil)

var loginRe = regexp.MustCompile(`^[A-Za-z0-9._@-]+$`)

// OpenForUser открывает (и создаёт при необходимости) файл БД для указанного логина.
// base — корень каталогов пользователей; пустой означает <UserConfigDir>/LightAdmin/users.
// Вторым значением возвращается путь к БД.
func OpenForUser(base, login string) (*SnapshotRepositorySQLite, string, error) {
	if login == "" {
		return nil, "", errors.New("empty login for user store")
	}
	if !loginRe.MatchString(login) || login == "." || login == ".." {
		return nil, "", fmt.Errorf("login %q cannot be used as a directory name", login)
	}
	if base == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", err
		}
		base = filepath.Join(cfgDir, "LightAdmin", "users")
	}
	dir := filepath.Join(base, login)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	key, err := crypto.LoadOrCreateKey(dir)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot key: %w", err)
	}
	dbPath := filepath.Join(dir, "client.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	return &SnapshotRepositorySQLite{db: db, login: login, key: key, now: time.Now}, dbPath, nil
}

// Close закрывает соединение с БД.
func (r *SnapshotRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц.
func (r *SnapshotRepositorySQLite) Migrate() error {
	return migrate(r.db)
}

// Save replaces the snapshot of kind.
func (r *SnapshotRepositorySQLite) Save(kind string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}
	sealed, nonce, err := crypto.Encrypt(payload, r.key)
	if err != nil {
		return fmt.Errorf("encrypt %s snapshot: %w", kind, err)
	}
	_, err = r.db.Exec(`INSERT INTO snapshots(kind, cipher, nonce, saved_at) VALUES(?, ?, ?, ?)
        ON CONFLICT(kind) DO UPDATE SET cipher = excluded.cipher, nonce = excluded.nonce, saved_at = excluded.saved_at`,
		kind, sealed, nonce, r.now().UnixMilli(),
	)
	return err
}

// Load декодирует снимок в out; repo.ErrNoSnapshot если его нет.
func (r *SnapshotRepositorySQLite) Load(kind string, out any) (time.Time, error) {
	var sealed, nonce []byte
	var savedAt int64
	err := r.db.QueryRow(`SELECT cipher, nonce, saved_at FROM snapshots WHERE kind = ?`, kind).Scan(&sealed, &nonce, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, repo.ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, err
	}
	payload, err := crypto.Decrypt(sealed, nonce, r.key)
	if err != nil {
		return time.Time{}, fmt.Errorf("decrypt %s snapshot: %w", kind, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return time.Time{}, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return time.UnixMilli(savedAt), nil
}
