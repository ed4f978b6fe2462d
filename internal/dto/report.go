package dto

import "github.com/irvinmora/sistema-limpieza/internal/report"

// ── 报表模块 DTO ──

// WeekRange 本周（周一至周五）
type WeekRange struct {
	Start string   `json:"inicio"` // DD/MM/YYYY
	End   string   `json:"fin"`
	Dates []string `json:"fechas"` // YYYY-MM-DD
}

// DashboardResponse 首页概览
type DashboardResponse struct {
	Today         string              `json:"hoy"`
	TotalStudents int                 `json:"total_estudiantes"`
	TotalRecords  int                 `json:"total_registros"`
	WeekRecords   int                 `json:"registros_semana"`
	Week          WeekRange           `json:"semana"`
	Summary       []report.DaySummary `json:"resumen"`
}

// HistoryResponse 清洁历史（过滤后）
type HistoryResponse struct {
	From   string        `json:"desde"`
	To     string        `json:"hasta"`
	Area   string        `json:"tipo"`
	Rows   []report.Row  `json:"filas"`
	Counts report.Counts `json:"estadisticas"`
}

// WeekReportResponse 本周报表
type WeekReportResponse struct {
	Week   WeekRange     `json:"semana"`
	Rows   []report.Row  `json:"filas"`
	Counts report.Counts `json:"estadisticas"`
}

// ExportRequest 导出查询参数
type ExportRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=pdf xlsx ics"`
	Layout string `form:"layout" binding:"omitempty,oneof=table daily"`
}
