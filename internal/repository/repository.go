package repository

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/internal/model"
	"github.com/irvinmora/sistema-limpieza/internal/store"
	apperrors "github.com/irvinmora/sistema-limpieza/pkg/errors"
)

// Repository 应用状态：学生与清洁记录两个内存集合 + 底层存储
//
// 设计说明：
//   - 启动时从 Store 读取一次，之后读操作只访问内存副本
//   - 写操作通过 Update 串行执行：回调修改副本，成功落盘后才替换内存状态
//   - 级联修改同时涉及两个集合时，两者一起保存；任一失败则内存保持原状
type Repository struct {
	mu       sync.RWMutex
	store    store.Store
	logger   *zap.Logger
	students []model.Student
	records  []model.CleaningRecord
}

// NewRepository 从 Store 加载两个集合
func NewRepository(s store.Store, logger *zap.Logger) *Repository {
	r := &Repository{store: s, logger: logger}
	r.Reload()
	return r
}

// Reload 重新从 Store 读取（启动与测试用）
func (r *Repository) Reload() {
	students := decodeStudents(r.store.Load(model.CollectionStudents), r.logger)
	records := decodeRecords(r.store.Load(model.CollectionCleaningHistory), r.logger)

	r.mu.Lock()
	r.students, r.records = students, records
	r.mu.Unlock()
}

// Students 返回学生列表副本
func (r *Repository) Students() []model.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Student(nil), r.students...)
}

// Records 返回清洁记录副本（学生列表深拷贝）
func (r *Repository) Records() []model.CleaningRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRecords(r.records)
}

// Snapshot 在同一把读锁下返回两个集合，保证一致视图
func (r *Repository) Snapshot() ([]model.Student, []model.CleaningRecord) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Student(nil), r.students...), cloneRecords(r.records)
}

// Tx 一次写操作中的可变副本
type Tx struct {
	Students []model.Student
	Records  []model.CleaningRecord

	studentsTouched bool
	recordsTouched  bool
}

// SetStudents 替换学生集合并标记为待保存
func (tx *Tx) SetStudents(students []model.Student) {
	tx.Students = students
	tx.studentsTouched = true
}

// SetRecords 替换清洁记录集合并标记为待保存
func (tx *Tx) SetRecords(records []model.CleaningRecord) {
	tx.Records = records
	tx.recordsTouched = true
}

// Update 串行执行一次写操作
//
// fn 返回错误时不做任何持久化；落盘失败返回 ErrPersistFailed，
// 若第二个集合保存失败，会尽力把第一个集合恢复为原内容。
func (r *Repository) Update(fn func(tx *Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &Tx{
		Students: append([]model.Student(nil), r.students...),
		Records:  cloneRecords(r.records),
	}
	if err := fn(tx); err != nil {
		return err
	}

	if tx.studentsTouched {
		if err := r.store.Save(model.CollectionStudents, nonNil(tx.Students)); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrPersistFailed, err)
		}
	}
	if tx.recordsTouched {
		if err := r.store.Save(model.CollectionCleaningHistory, nonNil(tx.Records)); err != nil {
			if tx.studentsTouched {
				if rerr := r.store.Save(model.CollectionStudents, nonNil(r.students)); rerr != nil {
					r.logger.Error("恢复学生集合失败，两个文件可能不一致", zap.Error(rerr))
				}
			}
			return fmt.Errorf("%w: %v", apperrors.ErrPersistFailed, err)
		}
	}

	if tx.studentsTouched {
		r.students = tx.Students
	}
	if tx.recordsTouched {
		r.records = tx.Records
	}
	return nil
}

// ── 存储边界：解码与默认值 ──

func decodeStudents(raws []json.RawMessage, logger *zap.Logger) []model.Student {
	out := make([]model.Student, 0, len(raws))
	for i, raw := range raws {
		var s model.Student
		if err := json.Unmarshal(raw, &s); err != nil {
			logger.Warn("跳过无法解析的学生条目", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, s)
	}
	return out
}

func decodeRecords(raws []json.RawMessage, logger *zap.Logger) []model.CleaningRecord {
	out := make([]model.CleaningRecord, 0, len(raws))
	for i, raw := range raws {
		var rec model.CleaningRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("跳过无法解析的清洁记录", zap.Int("index", i), zap.Error(err))
			continue
		}
		if rec.Students == nil {
			rec.Students = []string{}
		}
		out = append(out, rec)
	}
	return out
}

func cloneRecords(records []model.CleaningRecord) []model.CleaningRecord {
	out := make([]model.CleaningRecord, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
