package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger 数据库连通性检查
type Pinger interface {
	PingContext(ctx context.Context) error
}

// MetricsSource 进程指标
type MetricsSource interface {
	Stats() map[string]any
	PrometheusHandler() http.Handler
}

// SystemHandler 健康检查、指标与运行时信息
type SystemHandler struct {
	db      Pinger
	metrics MetricsSource
	version string
	started time.Time
	logger  *zap.Logger
}

// NewSystemHandler 创建系统处理器, metrics 为 nil 时不注册 /metrics
func NewSystemHandler(db Pinger, metrics MetricsSource, version string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		db:      db,
		metrics: metrics,
		version: version,
		started: time.Now(),
		logger:  logger.With(zap.String("handler", "system")),
	}
}

// Register 注册路由
func (h *SystemHandler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/debug/runtime", h.Runtime)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.PrometheusHandler()))
	}
}

// Health GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("Database ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
				"time":   time.Now().Unix(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Runtime GET /debug/runtime
func (h *SystemHandler) Runtime(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	out := gin.H{
		"version":       h.version,
		"go_version":    runtime.Version(),
		"num_cpu":       runtime.NumCPU(),
		"num_goroutine": runtime.NumGoroutine(),
		"uptime":        time.Since(h.started).Round(time.Second).String(),
		"memory": gin.H{
			"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
			"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
			"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
			"num_gc":         memStats.NumGC,
		},
		"timestamp": time.Now().Unix(),
	}
	if h.metrics != nil {
		out["metrics"] = h.metrics.Stats()
	}
	c.JSON(http.StatusOK, out)
}
