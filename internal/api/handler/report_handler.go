package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/irvinmora/sistema-limpieza/internal/dto"
	"github.com/irvinmora/sistema-limpieza/internal/service"
	"github.com/irvinmora/sistema-limpieza/pkg/response"
)

// ReportHandler 报表 HTTP 处理器（只读）
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Dashboard 首页概览
// GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	result, err := h.reportSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// History 清洁历史报表（行 + 统计）
// GET /api/v1/reports/history
func (h *ReportHandler) History(c *gin.Context) {
	var req dto.CleaningListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.reportSvc.History(c.Request.Context(), &req)
	if err != nil {
		handleCleaningError(c, err)
		return
	}
	response.OK(c, result)
}

// Week 本周报表
// GET /api/v1/reports/week
func (h *ReportHandler) Week(c *gin.Context) {
	result, err := h.reportSvc.Week(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
