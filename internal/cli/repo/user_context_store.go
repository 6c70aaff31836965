package repo

// UserContextStore remembers which operator logged in last;
// the per-user snapshot cache is opened for that login.
type UserContextStore interface {
	// SaveLogin rejects an empty login.
	SaveLogin(login string) error
	// LoadLogin returns an error when nobody has logged in yet.
	LoadLogin() (string, error)
}
