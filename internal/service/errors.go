package service

import "errors"

// Ошибки сервисного слоя; хендлеры отображают их в HTTP-статусы.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrBusy         = errors.New("light update in progress")
	ErrBadRequest   = errors.New("bad request")
)
