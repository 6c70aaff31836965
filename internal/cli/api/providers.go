package api

import (
	"context"
	"net/http"

	"LightAdmin/internal/cli/model"
)

// AuthAPI — /auth.
type AuthAPI struct{ c *Client }

// Login exchanges credentials for a token pair.
func (a *AuthAPI) Login(ctx context.Context, user, password string) (model.Tokens, error) {
	var out model.Tokens
	err := a.c.doJSON(ctx, http.MethodPost, "/auth", model.AuthRequest{UserName: user, Password: password}, &out)
	return out, err
}

// Logout revokes the refresh token on the server.
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	return a.c.doJSON(ctx, http.MethodDelete, "/auth", model.TokenBody{Token: refreshToken}, nil)
}

// StepAPI — /step.
type StepAPI struct{ c *Client }

func (s *StepAPI) Get(ctx context.Context) (model.Step, error) {
	var out model.Step
	err := s.c.doJSON(ctx, http.MethodGet, "/step", nil, &out)
	return out, err
}

// Setup creates the first account using the installation key.
func (s *StepAPI) Setup(ctx context.Context, key, user, password string) error {
	body := model.SetupRequest{Key: key, User: model.AuthRequest{UserName: user, Password: password}}
	return s.c.doJSON(ctx, http.MethodPost, "/step", body, nil)
}

// DevicesAPI — /devices.
type DevicesAPI struct{ c *Client }

func (d *DevicesAPI) List(ctx context.Context) ([]model.Device, error) {
	var out []model.Device
	err := d.c.doJSON(ctx, http.MethodGet, "/devices", nil, &out)
	return out, err
}

// Scan asks the server to rediscover devices on the bus.
func (d *DevicesAPI) Scan(ctx context.Context) ([]model.Device, error) {
	var out []model.Device
	err := d.c.doJSON(ctx, http.MethodPost, "/devices", nil, &out)
	return out, err
}

// PointsAPI — /points.
type PointsAPI struct{ c *Client }

func (p *PointsAPI) List(ctx context.Context) ([]model.Point, error) {
	var out []model.Point
	err := p.c.doJSON(ctx, http.MethodGet, "/points", nil, &out)
	return out, err
}

// Update writes the given points and returns the stored state after clamping.
func (p *PointsAPI) Update(ctx context.Context, points []model.Point) ([]model.Point, error) {
	var out []model.Point
	err := p.c.doJSON(ctx, http.MethodPut, "/points", points, &out)
	return out, err
}

// Identify blinks the given point.
func (p *PointsAPI) Identify(ctx context.Context, id int64) error {
	return p.c.doJSON(ctx, http.MethodPost, "/points/identify", model.QueryByID{ID: id}, nil)
}

// PresetsAPI — /presets. Create/Update/Delete return the user's presets afterwards.
type PresetsAPI struct{ c *Client }

func (p *PresetsAPI) List(ctx context.Context) ([]model.Preset, error) {
	var out []model.Preset
	err := p.c.doJSON(ctx, http.MethodGet, "/presets", nil, &out)
	return out, err
}

func (p *PresetsAPI) Create(ctx context.Context, preset model.NewPreset) ([]model.Preset, error) {
	var out []model.Preset
	err := p.c.doJSON(ctx, http.MethodPost, "/presets", preset, &out)
	return out, err
}

func (p *PresetsAPI) Update(ctx context.Context, preset model.Preset) ([]model.Preset, error) {
	var out []model.Preset
	err := p.c.doJSON(ctx, http.MethodPut, "/presets", preset, &out)
	return out, err
}

func (p *PresetsAPI) Delete(ctx context.Context, id int64) ([]model.Preset, error) {
	var out []model.Preset
	err := p.c.doJSON(ctx, http.MethodDelete, "/presets", model.QueryByID{ID: id}, &out)
	return out, err
}

// Active returns the active preset id or model.NoActivePreset.
func (p *PresetsAPI) Active(ctx context.Context) (int64, error) {
	var out model.QueryByID
	if err := p.c.doJSON(ctx, http.MethodGet, "/presets/active", nil, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// Activate applies the preset's values to the points.
func (p *PresetsAPI) Activate(ctx context.Context, id int64) error {
	return p.c.doJSON(ctx, http.MethodPut, "/presets/active", model.QueryByID{ID: id}, nil)
}

// Capture rewrites the preset from the current point values.
func (p *PresetsAPI) Capture(ctx context.Context, id int64) error {
	return p.c.doJSON(ctx, http.MethodPut, "/presets/points", model.QueryByID{ID: id}, nil)
}
