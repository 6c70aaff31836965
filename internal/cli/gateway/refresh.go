package gateway

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"LightAdmin/internal/cli/auth"
	"LightAdmin/internal/cli/repo"
)

type retryKey struct{}

// markRetried помечает запрос как уже повторённый после refresh.
func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retryKey{}, true)
}

func isRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retryKey{}).(bool)
	return v
}

var errNoReplay = errors.New("request body cannot be replayed")

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// RefreshStage recovers from an expired access token.
//
// On 401 it exchanges the stored refresh token for a new access token and
// replays the request exactly once. Concurrent failures with the same refresh
// token share one exchange.
type RefreshStage struct {
	store       repo.CredentialStore
	state       auth.Writer
	refresher   Refresher
	refreshPath string
	logger      *zap.SugaredLogger

	group singleflight.Group
}

func NewRefreshStage(store repo.CredentialStore, state auth.Writer, refresher Refresher, refreshPath string, logger *zap.SugaredLogger) *RefreshStage {
	return &RefreshStage{
		store:       store,
		state:       state,
		refresher:   refresher,
		refreshPath: refreshPath,
		logger:      logger,
	}
}

func (*RefreshStage) Name() string { return "refresh" }

func (s *RefreshStage) Wrap(next Doer) Doer {
	var self Doer
	self = DoerFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.Do(req)
		if err == nil {
			return resp, nil
		}
		return s.recover(self, req, err)
	})
	return self
}

func (s *RefreshStage) recover(self Doer, req *http.Request, origErr error) (*http.Response, error) {
	if !IsUnauthorized(origErr) {
		return nil, origErr
	}
	ctx := req.Context()

	// второй 401 подряд: токены не трогаем, только флаг
	if isRetried(ctx) {
		s.logger.Infow("retried request still unauthorized", "path", req.URL.Path)
		s.state.Set(auth.Unauthenticated)
		return nil, origErr
	}

	creds, err := s.store.Load()
	if err != nil {
		s.logger.Warnw("credential store unreadable", "error", err)
		creds = repo.Credentials{}
	}
	if creds.RefreshToken == "" {
		s.reset("no refresh token")
		return nil, origErr
	}
	if req.URL.Path == s.refreshPath {
		s.reset("refresh endpoint rejected token")
		return nil, origErr
	}

	retry, err := replay(req, markRetried(ctx))
	if err != nil {
		s.logger.Warnw("cannot retry request", "path", req.URL.Path, "error", err)
		return nil, origErr
	}

	token, err := s.refresh(ctx, creds.RefreshToken)
	if err != nil {
		if IsCanceled(err) {
			return nil, origErr
		}
		s.logger.Infow("token refresh failed", "error", err)
		s.reset("refresh failed")
		return nil, origErr
	}
	if err := s.store.SaveAccess(token); err != nil {
		s.logger.Warnw("cannot persist refreshed access token", "error", err)
	}

	retry.Header.Set("Authorization", "Bearer "+token)
	return self.Do(retry)
}

// refresh выполняет обмен; параллельные вызовы с тем же токеном ждут один результат.
// Общий обмен не наследует отмену первого вызывающего: каждый отменяет только
// собственное ожидание.
func (s *RefreshStage) refresh(ctx context.Context, refreshToken string) (string, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(refreshToken, func() (any, error) {
		return s.refresher.Refresh(shared, refreshToken)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// reset forgets both tokens and reports the session as lost.
func (s *RefreshStage) reset(reason string) {
	s.logger.Infow("session reset", "reason", reason)
	if err := s.store.Clear(); err != nil {
		s.logger.Warnw("cannot clear credentials", "error", err)
	}
	s.state.Set(auth.Unauthenticated)
}

// replay clones req for a second attempt under ctx.
func replay(req *http.Request, ctx context.Context) (*http.Request, error) {
	r := req.Clone(ctx)
	r.Header.Del("Authorization")
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, errNoReplay
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	return r, nil
}
