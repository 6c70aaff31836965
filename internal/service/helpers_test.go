package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"LightAdmin/internal/model"
	"LightAdmin/internal/repo"
)

// newTestDB — отдельная in-memory БД на каждый тест.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file:svc_" + name + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type mockDispatcher struct {
	mock.Mock
	mu       sync.Mutex
	requests int
}

func (m *mockDispatcher) Request() {
	m.mu.Lock()
	m.requests++
	m.mu.Unlock()
}

func (m *mockDispatcher) Identify(ctx context.Context, p model.Point) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockDispatcher) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

var _ LightDispatcher = (*mockDispatcher)(nil)

type staticInventory []model.Device

func (s staticInventory) Scan(context.Context) ([]model.Device, error) { return s, nil }

// lighting собирает сервисы освещения над одной БД.
type lighting struct {
	db      *gorm.DB
	disp    *mockDispatcher
	lock    *LightLock
	devices *DeviceService
	points  *PointService
	presets *PresetService
}

func newLighting(t *testing.T, inv Inventory) *lighting {
	t.Helper()
	db := newTestDB(t)
	disp := &mockDispatcher{}
	lock := &LightLock{}
	pr := repo.NewPointRepository(db)
	return &lighting{
		db:      db,
		disp:    disp,
		lock:    lock,
		devices: NewDeviceService(repo.NewDeviceRepository(db), inv, disp, nil),
		points:  NewPointService(pr, lock, disp, nil),
		presets: NewPresetService(repo.NewPresetRepository(db), pr, lock, disp, nil),
	}
}

func (l *lighting) seedUser(t *testing.T, name string) int64 {
	t.Helper()
	c := &model.Credential{UserName: name, Password: "x"}
	if err := repo.NewCredentialRepository(l.db).Create(context.Background(), c); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return c.ID
}
