package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/internal/dto"
	"github.com/irvinmora/sistema-limpieza/internal/model"
	"github.com/irvinmora/sistema-limpieza/internal/repository"
	"github.com/irvinmora/sistema-limpieza/internal/roster"
	"github.com/irvinmora/sistema-limpieza/pkg/clock"
	apperrors "github.com/irvinmora/sistema-limpieza/pkg/errors"
)

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound      = errors.New("学生不存在")
	ErrStudentNameEmpty     = errors.New("请输入有效的学生姓名")
	ErrStudentNameExists    = errors.New("已存在同名学生")
	ErrStudentIDExists      = errors.New("该学号已被其他学生使用")
	ErrInvalidCascadePolicy = errors.New("无效的级联策略，可选 delete_empty | keep_empty")
)

// StudentService 学生名册业务接口
//
// 改名与删除会级联到清洁记录，两个集合在同一次 Update 中一起保存。
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.StudentResponse, error)
	List(ctx context.Context) ([]dto.StudentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.UpdateStudentResponse, error)
	Delete(ctx context.Context, id string, req *dto.DeleteStudentRequest) (*dto.DeleteStudentResponse, error)
}

type studentService struct {
	repo   *repository.Repository
	clock  clock.Clock
	policy roster.CascadePolicy
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, clk clock.Clock, policy roster.CascadePolicy, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, clock: clk, policy: policy, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	name := model.CanonicalName(req.Name)
	if name == "" {
		return nil, ErrStudentNameEmpty
	}
	now := s.clock.Now()

	var created model.Student
	err := s.repo.Update(func(tx *repository.Tx) error {
		if indexByName(tx.Students, name, -1) >= 0 {
			return ErrStudentNameExists
		}

		id := strings.TrimSpace(req.ID)
		if id == "" {
			id = nextStudentID(tx.Students)
		} else if indexByID(tx.Students, id) >= 0 {
			return ErrStudentIDExists
		}

		created = model.Student{
			ID:           id,
			Name:         name,
			RegisteredAt: now.Format(model.TimestampLayout),
		}
		tx.SetStudents(append(tx.Students, created))
		return nil
	})
	if err != nil {
		s.logPersist("新增学生失败", err)
		return nil, err
	}

	s.logger.Info("新增学生", zap.String("id", created.ID), zap.String("nombre", created.Name))
	return toStudentResponse(&created, 0), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id string) (*dto.StudentResponse, error) {
	students, records := s.repo.Snapshot()
	idx := indexByID(students, id)
	if idx < 0 {
		return nil, ErrStudentNotFound
	}
	return toStudentResponse(&students[idx], roster.CountReferences(records, students[idx].Name)), nil
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, records := s.repo.Snapshot()
	list := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		list = append(list, *toStudentResponse(&students[i], roster.CountReferences(records, students[i].Name)))
	}
	return list, nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.UpdateStudentResponse, error) {
	name := model.CanonicalName(req.Name)
	if name == "" {
		return nil, ErrStudentNameEmpty
	}
	now := s.clock.Now()

	var (
		updated model.Student
		renamed int
		count   int
	)
	err := s.repo.Update(func(tx *repository.Tx) error {
		idx := indexByID(tx.Students, id)
		if idx < 0 {
			return ErrStudentNotFound
		}
		if indexByName(tx.Students, name, idx) >= 0 {
			return ErrStudentNameExists
		}

		current := tx.Students[idx]
		newID := strings.TrimSpace(req.ID)
		if newID == "" {
			newID = current.ID
		} else if newID != current.ID && indexByID(tx.Students, newID) >= 0 {
			return ErrStudentIDExists
		}

		updated = current
		updated.ID = newID
		updated.Name = name
		updated.UpdatedAt = now.Format(model.TimestampLayout)
		tx.Students[idx] = updated
		tx.SetStudents(tx.Students)

		records := tx.Records
		if current.Name != name {
			records, renamed = roster.Rename(tx.Records, current.Name, name)
			if renamed > 0 {
				tx.SetRecords(records)
			}
		}
		count = roster.CountReferences(records, name)
		return nil
	})
	if err != nil {
		s.logPersist("编辑学生失败", err)
		return nil, err
	}

	s.logger.Info("编辑学生",
		zap.String("id", updated.ID),
		zap.String("nombre", updated.Name),
		zap.Int("renamed_records", renamed),
	)
	return &dto.UpdateStudentResponse{
		Student:        *toStudentResponse(&updated, count),
		RenamedRecords: renamed,
	}, nil
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, id string, req *dto.DeleteStudentRequest) (*dto.DeleteStudentResponse, error) {
	policy := s.policy
	if req != nil && req.Cascade != "" {
		p, err := roster.ParseCascadePolicy(req.Cascade)
		if err != nil {
			return nil, ErrInvalidCascadePolicy
		}
		policy = p
	}

	var (
		removed model.Student
		result  roster.RemoveResult
	)
	err := s.repo.Update(func(tx *repository.Tx) error {
		idx := indexByID(tx.Students, id)
		if idx < 0 {
			return ErrStudentNotFound
		}
		removed = tx.Students[idx]

		students := make([]model.Student, 0, len(tx.Students)-1)
		students = append(students, tx.Students[:idx]...)
		students = append(students, tx.Students[idx+1:]...)
		tx.SetStudents(students)

		var records []model.CleaningRecord
		records, result = roster.Remove(tx.Records, removed.Name, policy)
		if result.Affected > 0 {
			tx.SetRecords(records)
		}
		return nil
	})
	if err != nil {
		s.logPersist("删除学生失败", err)
		return nil, err
	}

	s.logger.Info("删除学生",
		zap.String("id", removed.ID),
		zap.String("nombre", removed.Name),
		zap.String("cascade", string(policy)),
		zap.Int("affected", result.Affected),
		zap.Int("dropped", result.Dropped),
	)
	return &dto.DeleteStudentResponse{
		ID:              removed.ID,
		Name:            removed.Name,
		Cascade:         string(policy),
		AffectedRecords: result.Affected,
		RemovedRecords:  result.Dropped,
	}, nil
}

// ── 内部方法 ──

func (s *studentService) logPersist(msg string, err error) {
	if errors.Is(err, apperrors.ErrPersistFailed) {
		s.logger.Error(msg, zap.Error(err))
	}
}

func toStudentResponse(st *model.Student, count int) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:            st.ID,
		Name:          st.Name,
		RegisteredAt:  st.RegisteredAt,
		UpdatedAt:     st.UpdatedAt,
		CleaningCount: count,
	}
}

func indexByID(students []model.Student, id string) int {
	for i := range students {
		if students[i].ID == id {
			return i
		}
	}
	return -1
}

// indexByName 大小写不敏感查找，skip 指定要忽略的下标（编辑时跳过自身）
func indexByName(students []model.Student, name string, skip int) int {
	for i := range students {
		if i != skip && model.SameName(students[i].Name, name) {
			return i
		}
	}
	return -1
}

// nextStudentID 从 ST<len+1> 开始，跳过已占用的编号
func nextStudentID(students []model.Student) string {
	for n := len(students) + 1; ; n++ {
		id := fmt.Sprintf("ST%03d", n)
		if indexByID(students, id) < 0 {
			return id
		}
	}
}
