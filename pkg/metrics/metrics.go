package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 应用指标集合
//
// 所有方法对 nil 接收者安全：未启用指标时传 nil 即可。
type Metrics struct {
	registry      *prometheus.Registry
	loadFallbacks *prometheus.CounterVec
	saves         *prometheus.CounterVec
	exports       *prometheus.CounterVec
	requests      *prometheus.HistogramVec
}

// New 创建独立 Registry 并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		loadFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limpieza",
			Subsystem: "store",
			Name:      "load_fallback_total",
			Help:      "读取集合时降级为空列表的次数",
		}, []string{"collection", "reason"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limpieza",
			Subsystem: "store",
			Name:      "save_total",
			Help:      "集合保存次数（按结果）",
		}, []string{"collection", "result"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limpieza",
			Subsystem: "export",
			Name:      "documents_total",
			Help:      "周报导出次数（按格式与结果）",
		}, []string{"format", "result"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "limpieza",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP 请求耗时（按路由与状态码）",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.loadFallbacks, m.saves, m.exports, m.requests)
	return m
}

// LoadFallback 记录一次读取降级
func (m *Metrics) LoadFallback(collection, reason string) {
	if m == nil {
		return
	}
	m.loadFallbacks.WithLabelValues(collection, reason).Inc()
}

// Saved 记录一次保存结果
func (m *Metrics) Saved(collection string, err error) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(collection, result(err)).Inc()
}

// Exported 记录一次导出结果
func (m *Metrics) Exported(format string, err error) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format, result(err)).Inc()
}

// ObserveRequest 记录一次 HTTP 请求；route 为路由模板（如 /api/v1/students/:id）
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 暴露底层 Registry（测试读取指标值）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
