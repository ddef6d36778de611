package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

const defaultAgentsPerPage = 10

// AgentHandler 代理 CRUD 与状态动作
type AgentHandler struct {
	agents *usecase.AgentUseCase
	paging pagination.Config
	logger *zap.Logger
}

// NewAgentHandler creates the agent resource handler.
func NewAgentHandler(agents *usecase.AgentUseCase, paging pagination.Config, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		agents: agents,
		paging: paging,
		logger: logger.With(zap.String("handler", "agent")),
	}
}

// Register 注册路由
func (h *AgentHandler) Register(r gin.IRouter) {
	r.POST("/agents", h.Create)
	r.GET("/agents", h.List)
	r.GET("/agents/:id", h.Get)
	r.PUT("/agents/:id", h.Update)
	r.DELETE("/agents/:id", h.Delete)
	r.POST("/agents/:id/start", h.transition(h.agents.Start))
	r.POST("/agents/:id/pause", h.transition(h.agents.Pause))
	r.POST("/agents/:id/stop", h.transition(h.agents.Stop))
}

// Create POST /agents
func (h *AgentHandler) Create(c *gin.Context) {
	fields, err := rawFields(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var cmd usecase.CreateAgentCommand
	name, err := optional[string](fields, "name")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if name != nil {
		cmd.Name = *name
	}
	description, err := optional[string](fields, "description")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if description != nil {
		cmd.Description = *description
	}
	status, err := optional[string](fields, "status")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if status != nil {
		cmd.Status = *status
	}
	if cmd.ModelID, err = optional[uint](fields, "model_id"); err != nil {
		respondError(c, h.logger, err)
		return
	}

	agent, err := h.agents.Create(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toAgentResponse(agent))
}

// List GET /agents
func (h *AgentHandler) List(c *gin.Context) {
	page, err := h.agents.List(c.Request.Context(), pageRequest(c, defaultAgentsPerPage, h.paging))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	listResponse(c, "agents", page, toAgentResponse)
}

// Get GET /agents/:id
func (h *AgentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	agent, err := h.agents.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toAgentResponse(agent))
}

// Update PUT /agents/:id, 只处理 name/description/status/model_id
func (h *AgentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}
	fields, err := rawFields(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var cmd usecase.UpdateAgentCommand
	if cmd.Name, err = optional[string](fields, "name"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if cmd.Description, err = optional[string](fields, "description"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if cmd.Status, err = optional[string](fields, "status"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	// model_id: null 解除关联, 缺省不变
	if _, present := fields["model_id"]; present {
		cmd.ModelIDSet = true
		if cmd.ModelID, err = optional[uint](fields, "model_id"); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	agent, err := h.agents.Update(c.Request.Context(), id, cmd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toAgentResponse(agent))
}

// Delete DELETE /agents/:id
func (h *AgentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		respondError(c, h.logger, errNotFound)
		return
	}

	if err := h.agents.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Agent deleted successfully"})
}

// transition POST /agents/:id/{start,pause,stop}
func (h *AgentHandler) transition(action func(context.Context, uint) (*entity.Agent, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			respondError(c, h.logger, errNotFound)
			return
		}

		agent, err := action(c.Request.Context(), id)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, toAgentResponse(agent))
	}
}
