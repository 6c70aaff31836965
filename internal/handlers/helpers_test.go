package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"LightAdmin/internal/config"
	"LightAdmin/internal/dispatch"
	"LightAdmin/internal/handlers"
	"LightAdmin/internal/model"
	"LightAdmin/internal/repo"
	"LightAdmin/internal/service"
)

const (
	testUA    = "lacli/test"
	setupKey  = "setup-key"
	adminName = "operator1"
	adminPass = "password1"
)

type env struct {
	router http.Handler
	cfg    *config.Config
	lock   *service.LightLock
}

func newEnv(t *testing.T, ttl time.Duration) *env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file:h_" + name + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	inv := filepath.Join(t.TempDir(), "devices.yaml")
	if err := os.WriteFile(inv, []byte("devices:\n  - adr: 64\n    endpoints: 2\n"), 0o600); err != nil {
		t.Fatalf("inventory: %v", err)
	}

	cfg := &config.Config{AuthSecret: "auth", RefreshSecret: "refresh", SetupSecret: setupKey, AccessTTL: ttl, DevicesFile: inv}
	devices := repo.NewDeviceRepository(db)
	points := repo.NewPointRepository(db)
	disp := dispatch.NewDispatcher(devices, points, dispatch.NewLogSink(nil), nil)
	lock := &service.LightLock{}
	svc := handlers.Services{
		Users:   service.NewUserService(repo.NewCredentialRepository(db), repo.NewTokenRepository(db), service.NewTokenIssuer(cfg.AuthSecret, cfg.RefreshSecret, ttl), setupKey, nil),
		Devices: service.NewDeviceService(devices, service.FileInventory{Path: inv}, disp, nil),
		Points:  service.NewPointService(points, lock, disp, nil),
		Presets: service.NewPresetService(repo.NewPresetRepository(db), points, lock, disp, nil),
	}
	h := handlers.NewHandler(svc, nil, cfg)
	return &env{router: h.Router, cfg: cfg, lock: lock}
}

// call выполняет запрос к роутеру; out декодируется, если не nil.
func (e *env) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", testUA)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	if out != nil && rr.Code < 300 {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, rr.Body.String())
		}
	}
	return rr.Code
}

// login устанавливает систему и возвращает пару токенов.
func (e *env) login(t *testing.T) model.AuthResponse {
	t.Helper()
	setup := model.SetupRequest{Key: setupKey, User: model.AuthRequest{UserName: adminName, Password: adminPass}}
	if code := e.call(t, http.MethodPost, "/api/step", "", setup, nil); code != http.StatusOK {
		t.Fatalf("setup: %d", code)
	}
	var pair model.AuthResponse
	if code := e.call(t, http.MethodPost, "/api/auth", "", model.AuthRequest{UserName: adminName, Password: adminPass}, &pair); code != http.StatusOK {
		t.Fatalf("login: %d", code)
	}
	return pair
}
