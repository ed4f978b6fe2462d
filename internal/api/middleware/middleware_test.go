package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/irvinmora/sistema-limpieza/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if seen == "" || w.Header().Get("X-Request-ID") != seen {
		t.Errorf("期望生成并回写请求 ID，context=%q header=%q", seen, w.Header().Get("X-Request-ID"))
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	if seen != "abc-123" {
		t.Errorf("期望沿用外部请求 ID，实际=%q", seen)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", requestIDMaxLen+1))
	r.ServeHTTP(w, req)
	if len(seen) > requestIDMaxLen {
		t.Errorf("超长请求 ID 应被替换，实际长度=%d", len(seen))
	}
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/students", RateLimit(nil, 1, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/students", nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("第 %d 次请求期望 201，实际=%d", i+1, w.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("缺少 X-Content-Type-Options")
	}
}

func TestCORS_AllowedOriginAndPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检请求期望 204，实际=%d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("期望回写允许的 Origin，实际=%q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition") {
		t.Error("期望暴露 Content-Disposition 以便前端读取文件名")
	}
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/v1/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/students/ST001", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nope", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body := w.Body.String()
	for _, want := range []string{
		`route="/api/v1/students/:id",status="200"`,
		`route="unmatched",status="404"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("指标输出缺少 %s", want)
		}
	}
}

func TestBodyLimit_DeclaredLengthTooLarge(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	reached := false
	r.POST("/students", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/students", strings.NewReader(strings.Repeat("a", 17))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("超限请求期望 413，实际=%d", w.Code)
	}
	if reached {
		t.Error("超限请求不应进入 handler")
	}
	if !strings.Contains(w.Body.String(), `"code":10005`) {
		t.Errorf("期望业务码 10005，实际=%s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/students", strings.NewReader("{}")))
	if w.Code != http.StatusCreated {
		t.Errorf("未超限请求期望 201，实际=%d", w.Code)
	}
}

func TestBodyLimit_UnknownLengthFailsOnRead(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	var readErr error
	r.POST("/students", func(c *gin.Context) {
		_, readErr = io.ReadAll(c.Request.Body)
		c.Status(http.StatusBadRequest)
	})

	req := httptest.NewRequest("POST", "/students", strings.NewReader(strings.Repeat("a", 64)))
	req.ContentLength = -1
	r.ServeHTTP(httptest.NewRecorder(), req)

	var tooLarge *http.MaxBytesError
	if !errors.As(readErr, &tooLarge) {
		t.Errorf("期望读取时返回 *http.MaxBytesError，实际=%v", readErr)
	}
}

func TestLogger_LevelAndRoute(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/api/v1/students/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest("GET", "/api/v1/students/ST009", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/boom", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条日志，实际=%d", len(entries))
	}
	first := entries[0]
	if first.Level != zapcore.WarnLevel {
		t.Errorf("404 期望 Warn，实际=%s", first.Level)
	}
	fields := first.ContextMap()
	if fields["route"] != "/api/v1/students/:id" || fields["request_id"] != "rid-1" {
		t.Errorf("日志字段不符: %v", fields)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("500 期望 Error，实际=%s", entries[1].Level)
	}
}
