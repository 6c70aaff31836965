package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"LightAdmin/internal/cli/model"
	"LightAdmin/internal/config"
)

// fakeAPI — минимальный сервер LightAdmin для тестов команд.
type fakeAPI struct {
	mu       sync.Mutex
	access   string // принимаемый access-токен
	refresh  string
	points   []model.Point
	presets  []model.Preset
	active   int64
	logouts  []string
	refreshN int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/step", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.Step{Step: model.StepInstalled})
	})
	mux.HandleFunc("POST /api/auth", func(w http.ResponseWriter, r *http.Request) {
		var in model.AuthRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, model.Tokens{AccessToken: f.access, RefreshToken: f.refresh})
	})
	mux.HandleFunc("DELETE /api/auth", func(w http.ResponseWriter, r *http.Request) {
		var in model.TokenBody
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.logouts = append(f.logouts, in.Token)
		f.mu.Unlock()
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var in model.TokenBody
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.refreshN++
		if in.Token != f.refresh {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, model.TokenBody{Token: f.access})
	})
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			ok := r.Header.Get("Authorization") == "Bearer "+f.access
			f.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("GET /api/devices", protected(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []model.Device{{ID: 1, Adr: 0x10, EndpointCount: 4}})
	}))
	mux.HandleFunc("GET /api/points", protected(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.points)
	}))
	mux.HandleFunc("PUT /api/points", protected(func(w http.ResponseWriter, r *http.Request) {
		var in []model.Point
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range in {
			for i := range f.points {
				if f.points[i].ID == p.ID {
					f.points[i] = p
				}
			}
		}
		writeJSON(w, in)
	}))
	mux.HandleFunc("GET /api/presets", protected(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.presets)
	}))
	mux.HandleFunc("GET /api/presets/active", protected(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, model.QueryByID{ID: f.active})
	}))
	mux.HandleFunc("PUT /api/presets/active", protected(func(w http.ResponseWriter, r *http.Request) {
		var in model.QueryByID
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.presets {
			if p.ID == in.ID {
				f.active = in.ID
				writeJSON(w, in)
				return
			}
		}
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Conflict"}`))
	}))
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newFakeEnv поднимает fakeAPI и конфиг с каталогами во временной папке.
func newFakeEnv(t *testing.T) (*fakeAPI, *config.Config) {
	t.Helper()
	f := &fakeAPI{access: "acc-1", refresh: "ref-1", active: model.NoActivePreset}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	dir := t.TempDir()
	return f, &config.Config{
		ServerURL:      srv.URL,
		CredentialsDir: dir,
		ClientDBPath:   filepath.Join(dir, "users"),
		HTTPTimeout:    5 * time.Second,
		LogLevel:       "error",
	}
}

// перехват вывода на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func withStdin(t *testing.T, s string) {
	t.Helper()
	old := In
	In = strings.NewReader(s)
	t.Cleanup(func() { In = old })
}
