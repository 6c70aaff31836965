package model

// AuthRequest — тело логина.
type AuthRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// AuthResponse — пара токенов.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenBody — {"token": ...}.
type TokenBody struct {
	Token string `json:"token"`
}

// SetupRequest — первичная установка.
type SetupRequest struct {
	Key  string      `json:"key"`
	User AuthRequest `json:"user"`
}

// Installation steps.
const (
	StepInstalled = "installed"
	StepSetup     = "setup"
)

type StepResponse struct {
	Step string `json:"step"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Message string `json:"message"`
}
