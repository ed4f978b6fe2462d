package handler

import "github.com/irvinmora/sistema-limpieza/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Student  *StudentHandler
	Cleaning *CleaningHandler
	Report   *ReportHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Student:  NewStudentHandler(svc.Student),
		Cleaning: NewCleaningHandler(svc.Cleaning),
		Report:   NewReportHandler(svc.Report),
		Export:   NewExportHandler(svc.Export),
	}
}
