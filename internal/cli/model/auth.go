package model

// AuthRequest — тело запроса логина.
type AuthRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// Tokens is the login response: a short-lived access token and a refresh token.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenBody carries a single token (refresh and logout requests, refresh response).
type TokenBody struct {
	Token string `json:"token"`
}

// SetupRequest creates the first account on a fresh installation.
type SetupRequest struct {
	Key  string      `json:"key"`
	User AuthRequest `json:"user"`
}

// Installation steps reported by GET /step.
const (
	StepInstalled = "installed"
	StepSetup     = "setup"
)

// Step — ответ GET /step.
type Step struct {
	Step string `json:"step"`
}
