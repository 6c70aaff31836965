// Package api is the typed client of the LightAdmin REST API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Requester builds and sends API requests. *gateway.Gateway satisfies it.
type Requester interface {
	NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error)
	Do(req *http.Request) (*http.Response, error)
}

// Client groups the endpoint providers.
type Client struct {
	r Requester

	Auth    *AuthAPI
	Step    *StepAPI
	Devices *DevicesAPI
	Points  *PointsAPI
	Presets *PresetsAPI
}

// New creates a client sending every call through r.
func New(r Requester) *Client {
	c := &Client{r: r}
	c.Auth = &AuthAPI{c: c}
	c.Step = &StepAPI{c: c}
	c.Devices = &DevicesAPI{c: c}
	c.Points = &PointsAPI{c: c}
	c.Presets = &PresetsAPI{c: c}
	return c
}

// doJSON отправляет in (если не nil) и декодирует ответ в out (если не nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := c.r.NewRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	resp, err := c.r.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
