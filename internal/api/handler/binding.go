package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/irvinmora/sistema-limpieza/internal/model"
	apperrors "github.com/irvinmora/sistema-limpieza/pkg/errors"
	"github.com/irvinmora/sistema-limpieza/pkg/response"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义规则
//
//   - area: 清洁区域只能是 Aula / Baños
//   - 错误信息中的字段名取 json / form 标签
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				name = fld.Tag.Get("form")
			}
			return name
		})
		_ = v.RegisterValidation("area", func(fl validator.FieldLevel) bool {
			return model.Area(strings.TrimSpace(fl.Field().String())).Valid()
		})
	})
}

// bindFailed 参数绑定失败：400 + 逐字段说明；请求体超出 BodyLimit 时返回 413
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.PayloadTooLarge(c)
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", strings.Join(fields, "; "))
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数格式错误", err.Error())
}

// handleCommonError 各模块共用的错误映射；返回 false 表示未处理
func handleCommonError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, apperrors.ErrPersistFailed):
		response.PersistError(c)
	case errors.Is(err, apperrors.ErrInvalidDate):
		response.BadRequest(c, 10002, err.Error())
	default:
		return false
	}
	return true
}
