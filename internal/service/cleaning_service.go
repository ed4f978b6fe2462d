package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/internal/dto"
	"github.com/irvinmora/sistema-limpieza/internal/model"
	"github.com/irvinmora/sistema-limpieza/internal/report"
	"github.com/irvinmora/sistema-limpieza/internal/repository"
	"github.com/irvinmora/sistema-limpieza/pkg/clock"
	apperrors "github.com/irvinmora/sistema-limpieza/pkg/errors"
)

// ── 清洁记录模块业务错误 ──

var (
	ErrCleaningNoStudents       = errors.New("请至少选择一名学生")
	ErrCleaningTooManyStudents  = fmt.Errorf("每条记录最多 %d 名学生", model.MaxStudentsPerRecord)
	ErrCleaningDuplicateStudent = errors.New("同一学生不能重复选择")
	ErrCleaningUnknownStudent   = errors.New("存在未登记的学生，请先在名册中登记")
	ErrCleaningInvalidArea      = errors.New("清洁区域只能是 Aula 或 Baños")
	ErrCleaningFutureDate       = errors.New("清洁日期不能晚于今天")
	ErrInvalidDateRange         = errors.New("开始日期不能晚于结束日期")
)

// historyWindowDays 历史查询默认回看天数
const historyWindowDays = 7

// CleaningService 清洁记录业务接口
type CleaningService interface {
	Create(ctx context.Context, req *dto.CreateCleaningRequest) (*dto.CleaningRecordResponse, error)
	List(ctx context.Context, req *dto.CleaningListRequest) ([]dto.CleaningRecordResponse, error)
}

type cleaningService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewCleaningService 创建 CleaningService 实例
func NewCleaningService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) CleaningService {
	return &cleaningService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *cleaningService) Create(ctx context.Context, req *dto.CreateCleaningRequest) (*dto.CleaningRecordResponse, error) {
	now := s.clock.Now()
	today := clock.Today(now)

	day, err := model.ParseDate(req.Date, now.Location())
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	if day.After(today) {
		return nil, ErrCleaningFutureDate
	}

	area := model.Area(strings.TrimSpace(req.Area))
	if !area.Valid() {
		return nil, ErrCleaningInvalidArea
	}

	names, err := normalizeSelection(req.Students)
	if err != nil {
		return nil, err
	}

	var rec model.CleaningRecord
	err = s.repo.Update(func(tx *repository.Tx) error {
		// 记录中使用名册里登记的原始写法
		registered := make([]string, 0, len(names))
		for _, name := range names {
			idx := indexByName(tx.Students, name, -1)
			if idx < 0 {
				return fmt.Errorf("%w: %s", ErrCleaningUnknownStudent, name)
			}
			registered = append(registered, tx.Students[idx].Name)
		}

		rec = model.CleaningRecord{
			Date:      day.Format(model.DateLayout),
			Weekday:   model.WeekdayName(day),
			Time:      now.Format(model.TimeLayout),
			Students:  registered,
			Area:      area,
			CreatedAt: now.Format(model.TimestampLayout),
		}
		tx.SetRecords(append(tx.Records, rec))
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrPersistFailed) {
			s.logger.Error("登记清洁失败", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("登记清洁",
		zap.String("fecha", rec.Date),
		zap.String("tipo", string(rec.Area)),
		zap.Strings("estudiantes", rec.Students),
	)
	return toCleaningResponse(&rec), nil
}

// ────────────────────── List ──────────────────────

func (s *cleaningService) List(ctx context.Context, req *dto.CleaningListRequest) ([]dto.CleaningRecordResponse, error) {
	now := s.clock.Now()
	records, _, _, err := filterHistory(s.repo.Records(), req, clock.Today(now))
	if err != nil {
		return nil, err
	}
	if req.Order == orderChronological {
		records = report.SortChronological(records)
	}

	list := make([]dto.CleaningRecordResponse, 0, len(records))
	for i := range records {
		list = append(list, *toCleaningResponse(&records[i]))
	}
	return list, nil
}

// ── 内部方法 ──

const orderChronological = "cronologico"

// normalizeSelection 去掉空选项、规范化姓名并校验人数与重复
func normalizeSelection(raw []string) ([]string, error) {
	names := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		name := model.CanonicalName(r)
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, ErrCleaningDuplicateStudent
		}
		seen[name] = true
		names = append(names, name)
	}

	switch {
	case len(names) == 0:
		return nil, ErrCleaningNoStudents
	case len(names) > model.MaxStudentsPerRecord:
		return nil, ErrCleaningTooManyStudents
	}
	return names, nil
}

// filterHistory 历史过滤：区域 + 日期闭区间（默认 今天-7 … 今天）
func filterHistory(records []model.CleaningRecord, req *dto.CleaningListRequest, today time.Time) ([]model.CleaningRecord, time.Time, time.Time, error) {
	area := model.Area(strings.TrimSpace(req.Area))
	if !area.IsAll() && !area.Valid() {
		return nil, time.Time{}, time.Time{}, ErrCleaningInvalidArea
	}

	from := today.AddDate(0, 0, -historyWindowDays)
	to := today
	if req.From != "" {
		d, err := model.ParseDate(req.From, today.Location())
		if err != nil {
			return nil, time.Time{}, time.Time{}, apperrors.ErrInvalidDate
		}
		from = d
	}
	if req.To != "" {
		d, err := model.ParseDate(req.To, today.Location())
		if err != nil {
			return nil, time.Time{}, time.Time{}, apperrors.ErrInvalidDate
		}
		to = d
	}
	if from.After(to) {
		return nil, time.Time{}, time.Time{}, ErrInvalidDateRange
	}

	out := report.FilterByWindow(records, from, to)
	out = report.FilterByArea(out, area)
	return out, from, to, nil
}

func toCleaningResponse(r *model.CleaningRecord) *dto.CleaningRecordResponse {
	return &dto.CleaningRecordResponse{
		Date:      r.Date,
		Weekday:   r.Weekday,
		Time:      r.Time,
		Students:  append([]string{}, r.Students...),
		Area:      string(r.Area),
		CreatedAt: r.CreatedAt,
	}
}
