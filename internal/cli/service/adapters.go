package service

import (
	"context"

	"LightAdmin/internal/cli/api"
	"LightAdmin/internal/cli/model"
)

// clientSession adapts the typed API client to SessionAPI.
type clientSession struct{ c *api.Client }

// NewClientSessionAPI wires SessionService to the REST API.
func NewClientSessionAPI(c *api.Client) SessionAPI { return clientSession{c: c} }

func (a clientSession) Login(ctx context.Context, user, password string) (model.Tokens, error) {
	return a.c.Auth.Login(ctx, user, password)
}

func (a clientSession) Logout(ctx context.Context, refreshToken string) error {
	return a.c.Auth.Logout(ctx, refreshToken)
}

func (a clientSession) Step(ctx context.Context) (model.Step, error) { return a.c.Step.Get(ctx) }

func (a clientSession) Setup(ctx context.Context, key, user, password string) error {
	return a.c.Step.Setup(ctx, key, user, password)
}

func (a clientSession) Ping(ctx context.Context) error {
	_, err := a.c.Presets.Active(ctx)
	return err
}
