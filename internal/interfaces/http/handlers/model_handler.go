package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

const defaultModelsPerPage = 10

// ModelHandler LLM 模型配置 CRUD
type ModelHandler struct {
	models *usecase.ModelUseCase
	paging pagination.Config
	logger *zap.Logger
}

// NewModelHandler creates the model catalog handler.
func NewModelHandler(models *usecase.ModelUseCase, paging pagination.Config, logger *zap.Logger) *ModelHandler {
	return &ModelHandler{
		models: models,
		paging: paging,
		logger: logger.With(zap.String("handler", "model")),
	}
}

// Register 注册路由
func (h *ModelHandler) Register(r gin.IRouter) {
	r.POST("/models", h.Create)
	r.GET("/models", h.List)
	r.GET("/models/:id", h.Get)
	r.PUT("/models/:id", h.Update)
	r.DELETE("/models/:id", h.Delete)
}

// modelFields 从请求体读取已提交的字段
func modelFields(fields map[string]json.RawMessage) (usecase.ModelFields, error) {
	var (
		out usecase.ModelFields
		err error
	)
	if out.Name, err = optional[string](fields, "name"); err != nil {
		return out, err
	}
	if out.Provider, err = optional[string](fields, "provider"); err != nil {
		return out, err
	}
	if out.BaseURL, err = optional[string](fields, "base_url"); err != nil {
		return out, err
	}
	if out.APIKey, err = optional[string](fields, "api_key"); err != nil {
		return out, err
	}
	if out.ModelName, err = optional[string](fields, "model_name"); err != nil {
		return out, err
	}
	if out.MaxTokens, err = optional[int](fields, "max_tokens"); err != nil {
		return out, err
	}
	if out.Temperature, err = optional[float64](fields, "temperature"); err != nil {
		return out, err
	}
	if out.TopP, err = optional[float64](fields, "top_p"); err != nil {
		return out, err
	}
	return out, nil
}

// Create POST /models
func (h *ModelHandler) Create(c *gin.Context) {
	raw, err := rawFields(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	fields, err := modelFields(raw)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	model, err := h.models.Create(c.Request.Context(), fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toModelResponse(model))
}

// List GET /models
func (h *ModelHandler) List(c *gin.Context) {
	page, err := h.models.List(c.Request.Context(), pageRequest(c, defaultModelsPerPage, h.paging))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	listResponse(c, "models", page, toModelResponse)
}

// Get GET /models/:id
func (h *ModelHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	model, err := h.models.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toModelResponse(model))
}

// Update PUT /models/:id
func (h *ModelHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}
	raw, err := rawFields(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	fields, err := modelFields(raw)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	model, err := h.models.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toModelResponse(model))
}

// Delete DELETE /models/:id
func (h *ModelHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	if err := h.models.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Model deleted successfully"})
}
