package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/irvinmora/sistema-limpieza/internal/dto"
	"github.com/irvinmora/sistema-limpieza/internal/service"
	"github.com/irvinmora/sistema-limpieza/pkg/response"
)

// CleaningHandler 清洁记录 HTTP 处理器
type CleaningHandler struct {
	cleaningSvc service.CleaningService
}

// NewCleaningHandler 创建 CleaningHandler
func NewCleaningHandler(cleaningSvc service.CleaningService) *CleaningHandler {
	return &CleaningHandler{cleaningSvc: cleaningSvc}
}

// ListCleanings 清洁历史
// GET /api/v1/cleanings?tipo=&desde=&hasta=&orden=
func (h *CleaningHandler) ListCleanings(c *gin.Context) {
	var req dto.CleaningListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	records, err := h.cleaningSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleCleaningError(c, err)
		return
	}
	response.OKList(c, records, len(records))
}

// CreateCleaning 登记清洁
// POST /api/v1/cleanings
func (h *CleaningHandler) CreateCleaning(c *gin.Context) {
	var req dto.CreateCleaningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	record, err := h.cleaningSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleCleaningError(c, err)
		return
	}
	response.Created(c, record)
}

// handleCleaningError 统一处理清洁模块业务错误（历史报表共用）
func handleCleaningError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCleaningNoStudents):
		response.BadRequest(c, 12001, err.Error())
	case errors.Is(err, service.ErrCleaningTooManyStudents):
		response.BadRequest(c, 12002, err.Error())
	case errors.Is(err, service.ErrCleaningDuplicateStudent):
		response.BadRequest(c, 12003, err.Error())
	case errors.Is(err, service.ErrCleaningUnknownStudent):
		response.BadRequest(c, 12004, err.Error())
	case errors.Is(err, service.ErrCleaningInvalidArea):
		response.BadRequest(c, 12005, err.Error())
	case errors.Is(err, service.ErrCleaningFutureDate):
		response.BadRequest(c, 12006, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 12007, err.Error())
	default:
		response.InternalError(c)
	}
}
