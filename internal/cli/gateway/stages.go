package gateway

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"LightAdmin/internal/cli/repo"
)

// RequestIDHeader is stamped on every outgoing request.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 64 << 10

// BearerStage attaches the stored access token.
type BearerStage struct {
	store  repo.CredentialStore
	logger *zap.SugaredLogger
}

func NewBearerStage(store repo.CredentialStore, logger *zap.SugaredLogger) *BearerStage {
	return &BearerStage{store: store, logger: logger}
}

func (*BearerStage) Name() string { return "bearer" }

func (s *BearerStage) Wrap(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		// явно заданный заголовок (повтор после refresh) не перетираем
		if req.Header.Get("Authorization") != "" {
			return next.Do(req)
		}
		creds, err := s.store.Load()
		if err != nil {
			s.logger.Warnw("credential store unreadable, sending request without token", "error", err)
			return next.Do(req)
		}
		if creds.AccessToken == "" {
			return next.Do(req)
		}
		r := req.Clone(req.Context())
		r.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		return next.Do(r)
	})
}

// StatusStage turns HTTP failures into *StatusError.
type StatusStage struct{}

func NewStatusStage() StatusStage { return StatusStage{} }

func (StatusStage) Name() string { return "status" }

func (StatusStage) Wrap(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < http.StatusBadRequest {
			return resp, nil
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	})
}

// RequestIDStage stamps X-Request-ID when the caller did not.
type RequestIDStage struct{}

func NewRequestIDStage() RequestIDStage { return RequestIDStage{} }

func (RequestIDStage) Name() string { return "request-id" }

func (RequestIDStage) Wrap(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(RequestIDHeader) != "" {
			return next.Do(req)
		}
		r := req.Clone(req.Context())
		r.Header.Set(RequestIDHeader, uuid.NewString())
		return next.Do(r)
	})
}

// LoggingStage writes one debug line per attempt.
type LoggingStage struct {
	logger *zap.SugaredLogger
}

func NewLoggingStage(logger *zap.SugaredLogger) *LoggingStage {
	return &LoggingStage{logger: logger}
}

func (*LoggingStage) Name() string { return "logging" }

func (s *LoggingStage) Wrap(next Doer) Doer {
	return DoerFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.Do(req)
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", req.Header.Get(RequestIDHeader),
			"retry", isRetried(req.Context()),
			"took", time.Since(start),
		}
		if err != nil {
			s.logger.Debugw("api request failed", append(fields, "error", err)...)
			return nil, err
		}
		s.logger.Debugw("api request", append(fields, "status", resp.StatusCode)...)
		return resp, nil
	})
}
