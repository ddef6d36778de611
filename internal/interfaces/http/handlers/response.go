package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

// errNotFound 非整数 id 按路由不匹配处理
var errNotFound = apperrors.NewNotFoundError("Resource not found")

// respondError 统一错误响应: {"error": "<message>"}
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": apperrors.Message(err)})
}

// pathID 解析路径中的整数 id
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pageRequest 读取 page/per_page 查询参数
func pageRequest(c *gin.Context, defaultPerPage int, cfg pagination.Config) pagination.Request {
	return pagination.FromQuery(c.Request.URL.Query(), defaultPerPage, cfg)
}

// listResponse 列表响应: {"<key>": [...], "pagination": {...}}
func listResponse[T, U any](c *gin.Context, key string, page pagination.Page[T], fn func(T) U) {
	out := pagination.Map(page, fn)
	c.JSON(http.StatusOK, gin.H{
		key:          out.Items,
		"pagination": out.Meta,
	})
}

// bindJSON 解码请求体; 空请求体视为空对象
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.NewInvalidInputError("Invalid JSON body: " + err.Error())
	}
	return nil
}

// rawFields 解码为字段表, 用于区分 "未提交" 与 "显式 null"
func rawFields(c *gin.Context) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if err := bindJSON(c, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// optional 解码单个可选字段; 缺省或 null 时返回 nil
func optional[T any](fields map[string]json.RawMessage, key string) (*T, error) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apperrors.NewInvalidInputError("Invalid value for " + key)
	}
	return &v, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
