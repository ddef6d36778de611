package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed assets/docs.html
var docsHTML []byte

// DocsHandler 提供 OpenAPI 文档与交互式文档页面
type DocsHandler struct {
	spec []byte
}

// NewDocsHandler 创建文档处理器, spec 为序列化后的 OpenAPI 文档
func NewDocsHandler(spec []byte) *DocsHandler {
	return &DocsHandler{spec: spec}
}

// Register 注册路由
func (h *DocsHandler) Register(r gin.IRouter) {
	r.GET("/openapi.json", h.Spec)
	r.GET("/docs", h.Index)
}

// Spec GET /openapi.json
func (h *DocsHandler) Spec(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.spec)
}

// Index GET /docs
func (h *DocsHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", docsHTML)
}
