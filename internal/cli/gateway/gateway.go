// Package gateway is the single outbound path of the CLI to the admin API.
//
// Every call goes through an ordered pipeline of named stages: request-id,
// refresh, logging, bearer, status and finally the HTTP transport. The refresh
// stage sits outside bearer, so a replayed request is stamped again with the
// freshly issued access token.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"LightAdmin/internal/cli/auth"
	"LightAdmin/internal/cli/repo"
)

// RefreshPath is the token exchange endpoint relative to the API base.
const RefreshPath = "/auth/refresh"

// UserAgent is sent with every call; the server binds refresh tokens to it.
const UserAgent = "lacli"

// Gateway — единая точка выхода CLI к API.
type Gateway struct {
	baseURL  string
	basePath string
	pipeline *Pipeline
}

// New assembles the gateway over baseURL (e.g. "http://localhost:8080/api").
// A nil client means http.DefaultClient, a nil logger discards output.
func New(baseURL string, client *http.Client, store repo.CredentialStore, state auth.Writer, logger *zap.SugaredLogger) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	g := &Gateway{baseURL: strings.TrimRight(baseURL, "/")}
	if u, err := url.Parse(g.baseURL); err == nil {
		g.basePath = u.Path
	}

	g.pipeline = NewPipeline(client,
		NewRequestIDStage(),
		NewRefreshStage(store, state, g, g.basePath+RefreshPath, logger),
		NewLoggingStage(logger),
		NewBearerStage(store, logger),
		NewStatusStage(),
	)
	return g
}

// Stages lists the pipeline in execution order.
func (g *Gateway) Stages() []string { return g.pipeline.Names() }

// BaseURL returns the API root the gateway targets.
func (g *Gateway) BaseURL() string { return g.baseURL }

// NewRequest builds a request to path relative to the API base.
// A non-nil body is encoded as JSON and stays replayable.
func (g *Gateway) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	return req, nil
}

// Do sends req through the pipeline. Any status >= 400 comes back as *StatusError.
func (g *Gateway) Do(req *http.Request) (*http.Response, error) {
	return g.pipeline.Do(req)
}

// Refresh implements Refresher against POST {base}/auth/refresh.
func (g *Gateway) Refresh(ctx context.Context, refreshToken string) (string, error) {
	req, err := g.NewRequest(ctx, http.MethodPost, RefreshPath, map[string]string{"token": refreshToken})
	if err != nil {
		return "", err
	}
	resp, err := g.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("refresh response has no token")
	}
	return out.Token, nil
}
