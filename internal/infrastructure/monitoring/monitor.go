package monitoring

import (
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics 指标收集器
type Metrics struct {
	// HTTP 请求
	RequestsTotal       uint64
	RequestsClientError uint64 // 4xx
	RequestsServerError uint64 // 5xx

	// 延迟 (纳秒)
	RequestLatencySum   uint64
	RequestLatencyCount uint64
	ModelLatencySum     uint64
	ModelLatencyCount   uint64

	// 模型调用
	ModelCallsTotal  uint64
	ModelCallsFailed uint64
	ModelTokensUsed  uint64

	// 启动时间
	StartTime time.Time
}

// Monitor 进程内指标, 只做计数, 导出见 PrometheusHandler
type Monitor struct {
	metrics *Metrics
	logger  *zap.Logger
}

// NewMonitor 创建监控器
func NewMonitor(logger *zap.Logger) *Monitor {
	return &Monitor{
		metrics: &Metrics{StartTime: time.Now()},
		logger:  logger,
	}
}

// ObserveRequest 记录一次 HTTP 请求
func (m *Monitor) ObserveRequest(status int, latency time.Duration) {
	atomic.AddUint64(&m.metrics.RequestsTotal, 1)
	switch {
	case status >= 500:
		atomic.AddUint64(&m.metrics.RequestsServerError, 1)
	case status >= 400:
		atomic.AddUint64(&m.metrics.RequestsClientError, 1)
	}
	atomic.AddUint64(&m.metrics.RequestLatencySum, uint64(latency.Nanoseconds()))
	atomic.AddUint64(&m.metrics.RequestLatencyCount, 1)
}

// 计数方法
func (m *Monitor) IncModelCall()   { atomic.AddUint64(&m.metrics.ModelCallsTotal, 1) }
func (m *Monitor) IncModelFailed() { atomic.AddUint64(&m.metrics.ModelCallsFailed, 1) }

func (m *Monitor) AddTokensUsed(n int) {
	if n > 0 {
		atomic.AddUint64(&m.metrics.ModelTokensUsed, uint64(n))
	}
}

func (m *Monitor) RecordModelLatency(d time.Duration) {
	atomic.AddUint64(&m.metrics.ModelLatencySum, uint64(d.Nanoseconds()))
	atomic.AddUint64(&m.metrics.ModelLatencyCount, 1)
}

// Stats 获取当前统计
func (m *Monitor) Stats() map[string]any {
	uptime := time.Since(m.metrics.StartTime)
	reqTotal := atomic.LoadUint64(&m.metrics.RequestsTotal)

	return map[string]any{
		"uptime_seconds":        uptime.Seconds(),
		"requests_total":        reqTotal,
		"requests_client_error": atomic.LoadUint64(&m.metrics.RequestsClientError),
		"requests_server_error": atomic.LoadUint64(&m.metrics.RequestsServerError),
		"model_calls_total":     atomic.LoadUint64(&m.metrics.ModelCallsTotal),
		"model_calls_failed":    atomic.LoadUint64(&m.metrics.ModelCallsFailed),
		"model_tokens_used":     atomic.LoadUint64(&m.metrics.ModelTokensUsed),
		"avg_latency_ms":        avgMs(&m.metrics.RequestLatencySum, &m.metrics.RequestLatencyCount),
		"avg_model_latency_ms":  avgMs(&m.metrics.ModelLatencySum, &m.metrics.ModelLatencyCount),
		"goroutines":            runtime.NumGoroutine(),
	}
}

func avgMs(sum, count *uint64) float64 {
	n := atomic.LoadUint64(count)
	if n == 0 {
		return 0
	}
	return float64(atomic.LoadUint64(sum)) / float64(n) / 1e6
}
