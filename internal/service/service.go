package service

import (
	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/config"
	"github.com/irvinmora/sistema-limpieza/internal/archive"
	"github.com/irvinmora/sistema-limpieza/internal/repository"
	"github.com/irvinmora/sistema-limpieza/internal/roster"
	"github.com/irvinmora/sistema-limpieza/pkg/clock"
	"github.com/irvinmora/sistema-limpieza/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Student  StudentService
	Cleaning CleaningService
	Report   ReportService
	Export   ExportService
}

// NewService 创建 Service 聚合
//
// archiver 与 m 可为 nil（未启用归档 / 指标）。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	clk clock.Clock,
	archiver archive.Archiver,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	policy, err := roster.ParseCascadePolicy(cfg.Storage.CascadePolicy)
	if err != nil {
		logger.Warn("级联策略无效，使用 delete_empty", zap.Error(err))
		policy = roster.DeleteEmpty
	}
	if archiver == nil {
		archiver = archive.Noop{}
	}

	return &Service{
		Student:  NewStudentService(repo, clk, policy, logger),
		Cleaning: NewCleaningService(repo, clk, logger),
		Report:   NewReportService(repo, clk, logger),
		Export: NewExportService(repo, clk, archiver, m, ExportOptions{
			ReportDir: cfg.Report.Dir,
			Layout:    cfg.Report.Layout,
		}, logger),
	}
}
