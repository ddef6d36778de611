package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/infrastructure/config"
	"github.com/ngoclaw/agenthub/pkg/safego"
)

// RequestIDHeader 请求 ID 头
const RequestIDHeader = "X-Request-ID"

// Routes 一组可注册到路由器的处理器
type Routes interface {
	Register(r gin.IRouter)
}

// RequestRecorder 接收每个请求的状态码与耗时
type RequestRecorder interface {
	ObserveRequest(status int, latency time.Duration)
}

// Server HTTP服务器
type Server struct {
	server  *http.Server
	handler http.Handler
	logger  *zap.Logger
}

// NewServer 创建HTTP服务器
// recorder 可以为 nil
func NewServer(cfg config.ServerConfig, serviceName string, logger *zap.Logger, recorder RequestRecorder, routes ...Routes) *Server {
	// 设置Gin模式
	switch cfg.Mode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	// 创建路由
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(ginRecovery(logger))
	router.Use(requestID())
	router.Use(ginLogger(logger, recorder))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})

	for _, r := range routes {
		r.Register(router)
	}

	handler := otelhttp.NewHandler(trimTrailingSlash(router), serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	return &Server{
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		logger:  logger,
	}
}

// Handler 返回完整的处理链, 供测试直接调用
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr 返回监听地址
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start 启动服务器
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	safego.Go(s.logger, "http-server", s.server.ListenAndServe, http.ErrServerClosed)

	return nil
}

// Stop 停止服务器
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// trimTrailingSlash 让 /agents/ 与 /agents 命中同一路由
func trimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimRight(p, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}

// requestID 为每个请求分配 ID, 透传客户端提供的值
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ginRecovery panic 时返回 500 并记录堆栈
func ginRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Handler panicked",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

// ginLogger Gin日志中间件
func ginLogger(logger *zap.Logger, recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		if recorder != nil {
			recorder.ObserveRequest(statusCode, latency)
		}

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", statusCode),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}
