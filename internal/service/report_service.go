package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/internal/dto"
	"github.com/irvinmora/sistema-limpieza/internal/model"
	"github.com/irvinmora/sistema-limpieza/internal/report"
	"github.com/irvinmora/sistema-limpieza/internal/repository"
	"github.com/irvinmora/sistema-limpieza/pkg/clock"
)

// ReportService 报表业务接口（只读）
type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	History(ctx context.Context, req *dto.CleaningListRequest) (*dto.HistoryResponse, error)
	Week(ctx context.Context) (*dto.WeekReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Dashboard ──────────────────────

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.clock.Now()
	students, records := s.repo.Snapshot()
	week := loadWeek(records, now)

	return &dto.DashboardResponse{
		Today:         clock.Today(now).Format(model.DisplayDateLayout),
		TotalStudents: len(students),
		TotalRecords:  len(records),
		WeekRecords:   len(week.records),
		Week:          week.rangeDTO(),
		Summary:       report.WeekSummary(week.records, week.dates[:]),
	}, nil
}

// ────────────────────── History ──────────────────────

func (s *reportService) History(ctx context.Context, req *dto.CleaningListRequest) (*dto.HistoryResponse, error) {
	now := s.clock.Now()
	records, from, to, err := filterHistory(s.repo.Records(), req, clock.Today(now))
	if err != nil {
		return nil, err
	}

	area := string(model.AreaAll)
	if a := model.Area(req.Area); !a.IsAll() {
		area = string(a)
	}
	return &dto.HistoryResponse{
		From:   from.Format(model.DateLayout),
		To:     to.Format(model.DateLayout),
		Area:   area,
		Rows:   report.ToReportRows(records, req.Order == orderChronological),
		Counts: report.AggregateCounts(records),
	}, nil
}

// ────────────────────── Week ──────────────────────

func (s *reportService) Week(ctx context.Context) (*dto.WeekReportResponse, error) {
	week := loadWeek(s.repo.Records(), s.clock.Now())
	return &dto.WeekReportResponse{
		Week:   week.rangeDTO(),
		Rows:   report.ToReportRows(week.records, true),
		Counts: report.AggregateCounts(week.records),
	}, nil
}

// ── 本周数据（报表与导出共用）──

type weekData struct {
	now     time.Time
	dates   [report.WorkDays]time.Time
	records []model.CleaningRecord // 已按时间排序
}

// loadWeek 以 now 所在周（周一至周五）过滤记录
func loadWeek(records []model.CleaningRecord, now time.Time) weekData {
	dates := report.CurrentWeekDates(clock.Today(now))
	week := report.FilterByDates(records, dates[:])
	return weekData{
		now:     now,
		dates:   dates,
		records: report.SortChronological(week),
	}
}

func (w weekData) start() time.Time { return w.dates[0] }
func (w weekData) end() time.Time   { return w.dates[len(w.dates)-1] }

func (w weekData) rangeDTO() dto.WeekRange {
	dates := make([]string, len(w.dates))
	for i, d := range w.dates {
		dates[i] = d.Format(model.DateLayout)
	}
	return dto.WeekRange{
		Start: w.start().Format(model.DisplayDateLayout),
		End:   w.end().Format(model.DisplayDateLayout),
		Dates: dates,
	}
}
