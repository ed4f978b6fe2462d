package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irvinmora/sistema-limpieza/internal/dto"
	"github.com/irvinmora/sistema-limpieza/internal/service"
	"github.com/irvinmora/sistema-limpieza/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeek 导出本周报表
// GET /api/v1/export/week?format=pdf|xlsx|ics&layout=table|daily
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	file, err := h.exportSvc.ExportWeek(c.Request.Context(), req.Format, req.Layout)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	if file.SavedPath != "" {
		c.Header("X-Report-Path", file.SavedPath)
	}
	if file.ArchivedURL != "" {
		c.Header("X-Report-Archive", file.ArchivedURL)
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoRecords):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrExportInvalidLayout):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, service.ErrExportUnknownFormat):
		response.BadRequest(c, 14003, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 14004, err.Error())
	default:
		response.InternalError(c)
	}
}
