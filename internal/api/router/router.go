package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/config"
	"github.com/irvinmora/sistema-limpieza/internal/api/handler"
	"github.com/irvinmora/sistema-limpieza/internal/api/middleware"
	"github.com/irvinmora/sistema-limpieza/pkg/metrics"
	"github.com/irvinmora/sistema-limpieza/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
//
// rdb 为 nil 时写接口不限流；m 为 nil 时不暴露 /metrics。
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidators()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	limit := middleware.RateLimit(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 学生名册
		students := v1.Group("/students")
		{
			students.GET("", h.Student.ListStudents)
			students.GET("/:id", h.Student.GetStudent)
			students.POST("", limit, h.Student.CreateStudent)
			students.PUT("/:id", limit, h.Student.UpdateStudent)
			students.DELETE("/:id", limit, h.Student.DeleteStudent) // ?cascade=delete_empty|keep_empty
		}

		// 清洁记录
		cleanings := v1.Group("/cleanings")
		{
			cleanings.GET("", h.Cleaning.ListCleanings)
			cleanings.POST("", limit, h.Cleaning.CreateCleaning)
		}

		// 报表
		v1.GET("/dashboard", h.Report.Dashboard)
		reports := v1.Group("/reports")
		{
			reports.GET("/history", h.Report.History)
			reports.GET("/week", h.Report.Week)
		}

		// 导出（PDF 同时落盘 / 归档）
		export := v1.Group("/export")
		{
			export.GET("/week", limit, h.Export.ExportWeek)
		}
	}

	return r
}
