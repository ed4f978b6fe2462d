package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/config"
	"github.com/irvinmora/sistema-limpieza/internal/model"
	"github.com/irvinmora/sistema-limpieza/internal/repository"
	"github.com/irvinmora/sistema-limpieza/pkg/clock"
)

// ── Mock Store ──

type mockStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	failSave map[string]bool
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte), failSave: make(map[string]bool)}
}

func (m *mockStore) Load(name string) []json.RawMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []json.RawMessage
	if err := json.Unmarshal(m.data[name], &out); err != nil {
		return []json.RawMessage{}
	}
	return out
}

func (m *mockStore) Save(name string, items any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave[name] {
		return errors.New("disco lleno")
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	m.data[name] = data
	return nil
}

func (m *mockStore) Ensure(...string) error { return nil }

func (m *mockStore) seed(t *testing.T, name string, items any) {
	t.Helper()
	data, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("序列化种子数据失败: %v", err)
	}
	m.data[name] = data
}

func (m *mockStore) records(t *testing.T) []model.CleaningRecord {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CleaningRecord
	if err := json.Unmarshal(m.data[model.CollectionCleaningHistory], &out); err != nil {
		t.Fatalf("解析清洁记录失败: %v", err)
	}
	return out
}

// ── Mock Archiver ──

type mockArchiver struct {
	names []string
	err   error
}

func (a *mockArchiver) Archive(_ context.Context, name, _ string, _ []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.names = append(a.names, name)
	return "s3://reportes/" + name, nil
}

// ── 测试环境 ──

// 厄瓜多尔时区（UTC-5，无夏令时），避免依赖系统 tzdata
var ect = time.FixedZone("ECT", -5*3600)

// testNow 2025-03-12 周三 10:30:00
var testNow = time.Date(2025, 3, 12, 10, 30, 0, 0, ect)

func testClock() clock.Clock { return clock.Fixed(testNow) }

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{CascadePolicy: "delete_empty"},
		Report:  config.ReportConfig{Layout: "table"},
	}
}

func seedStudents() []model.Student {
	return []model.Student{
		{ID: "ST001", Name: "ANA LOPEZ", RegisteredAt: "2025-03-01 08:00:00"},
		{ID: "ST002", Name: "BRUNO DIAZ", RegisteredAt: "2025-03-01 08:05:00"},
		{ID: "ST003", Name: "CARLA RUIZ", RegisteredAt: "2025-03-01 08:10:00"},
	}
}

func seedRecords() []model.CleaningRecord {
	return []model.CleaningRecord{
		{Date: "2025-03-10", Weekday: "Lunes", Time: "08:00:00", Students: []string{"ANA LOPEZ", "BRUNO DIAZ"}, Area: model.AreaClassroom},
		{Date: "2025-03-11", Weekday: "Martes", Time: "09:00:00", Students: []string{"ANA LOPEZ"}, Area: model.AreaRestrooms},
		{Date: "2025-03-03", Weekday: "Lunes", Time: "08:00:00", Students: []string{"BRUNO DIAZ"}, Area: model.AreaClassroom},
		{Date: "2025-03-12", Weekday: "Miércoles", Time: "07:45:00", Students: []string{"CARLA RUIZ"}, Area: model.AreaClassroom},
	}
}

// setupSeeded 返回已写入种子数据的 mock store 与 repository
func setupSeeded(t *testing.T) (*mockStore, *repository.Repository) {
	t.Helper()
	ms := newMockStore()
	ms.seed(t, model.CollectionStudents, seedStudents())
	ms.seed(t, model.CollectionCleaningHistory, seedRecords())
	return ms, repository.NewRepository(ms, zap.NewNop())
}
