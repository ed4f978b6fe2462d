package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/irvinmora/sistema-limpieza/internal/dto"
	"github.com/irvinmora/sistema-limpieza/internal/service"
	"github.com/irvinmora/sistema-limpieza/pkg/response"
)

// StudentHandler 学生名册 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// ListStudents 学生列表（含清洁次数）
// GET /api/v1/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKList(c, students, len(students))
}

// GetStudent 学生详情
// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, student)
}

// CreateStudent 新增学生
// POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	student, err := h.studentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.Created(c, student)
}

// UpdateStudent 编辑学生（改名会级联到清洁记录）
// PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.studentSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteStudent 删除学生
// DELETE /api/v1/students/:id?cascade=delete_empty|keep_empty
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	var req dto.DeleteStudentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.studentSvc.Delete(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, result)
}

// handleStudentError 统一处理学生模块业务错误
func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 11001, err.Error())
	case errors.Is(err, service.ErrStudentNameEmpty):
		response.BadRequest(c, 11002, err.Error())
	case errors.Is(err, service.ErrStudentNameExists):
		response.Conflict(c, 11003, err.Error())
	case errors.Is(err, service.ErrStudentIDExists):
		response.Conflict(c, 11004, err.Error())
	case errors.Is(err, service.ErrInvalidCascadePolicy):
		response.BadRequest(c, 11005, err.Error())
	default:
		response.InternalError(c)
	}
}
