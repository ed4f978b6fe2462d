package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	// 未启用指标时所有调用均为空操作
	m.LoadFallback("students", "malformed")
	m.Saved("students", nil)
	m.Exported("pdf", errors.New("boom"))
	m.ObserveRequest("GET", "/api/v1/students", 200, time.Millisecond)
}

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	m := New()
	m.Saved("students", nil)
	m.Saved("students", errors.New("disk full"))
	m.LoadFallback("cleaning_history", "malformed")
	m.Exported("pdf", nil)
	m.ObserveRequest("POST", "/api/v1/students", 201, 5*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body := w.Body.String()
	for _, want := range []string{
		`limpieza_store_save_total{collection="students",result="ok"} 1`,
		`limpieza_store_save_total{collection="students",result="error"} 1`,
		`limpieza_store_load_fallback_total{collection="cleaning_history",reason="malformed"} 1`,
		`limpieza_export_documents_total{format="pdf",result="ok"} 1`,
		`limpieza_http_request_duration_seconds_count{method="POST",route="/api/v1/students",status="201"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("指标输出缺少 %s", want)
		}
	}
}
