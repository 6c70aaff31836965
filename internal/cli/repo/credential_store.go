package repo

// Credentials — пара токенов клиента. Пустая строка означает отсутствие токена.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// CredentialStore описывает хранилище пары токенов на клиенте.
// Записи access и refresh независимы: каждую можно сохранить отдельно.
type CredentialStore interface {
	// Load returns the stored pair. Missing entries are returned as empty strings, not errors.
	Load() (Credentials, error)
	SaveAccess(token string) error
	SaveRefresh(token string) error
	// Clear expires both entries.
	Clear() error
}
