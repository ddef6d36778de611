package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/internal/domain/service"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
)

// ChatOptions 聊天桥接参数
type ChatOptions struct {
	Timeout      time.Duration // 单次补全调用上限, 0 表示不限制
	HistoryLimit int           // 发送给模型的最近消息数(含本条)
	TitleLength  int           // 新会话标题截取字符数
}

// ChatCommand 一次聊天请求
type ChatCommand struct {
	AgentID        uint
	UserID         string
	Message        string
	ConversationID *uint // 为空时新建会话
}

// ChatResult 聊天结果
type ChatResult struct {
	ConversationID uint
	Reply          string
	Timestamp      time.Time
}

// ChatUseCase 把用户消息转发给代理绑定的模型并保存回复
//
// 读取历史与调用模型都在事务之外完成, 成功后会话、两条消息和日志在同一事务内写入;
// 任一步失败都不会留下部分数据.
type ChatUseCase struct {
	agents   repository.AgentRepository
	models   repository.ModelRepository
	convs    repository.ConversationRepository
	messages repository.MessageRepository
	logs     repository.AgentLogRepository
	tx       repository.Transactor
	clients  service.LLMClientResolver
	opts     ChatOptions
	logger   *zap.Logger
}

// NewChatUseCase creates the chat bridge use-case.
func NewChatUseCase(
	agents repository.AgentRepository,
	models repository.ModelRepository,
	convs repository.ConversationRepository,
	messages repository.MessageRepository,
	logs repository.AgentLogRepository,
	tx repository.Transactor,
	clients service.LLMClientResolver,
	opts ChatOptions,
	logger *zap.Logger,
) *ChatUseCase {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}
	if opts.TitleLength <= 0 {
		opts.TitleLength = entity.DefaultTitleLength
	}
	return &ChatUseCase{
		agents:   agents,
		models:   models,
		convs:    convs,
		messages: messages,
		logs:     logs,
		tx:       tx,
		clients:  clients,
		opts:     opts,
		logger:   logger.With(zap.String("usecase", "chat")),
	}
}

// Execute 执行一次聊天
func (uc *ChatUseCase) Execute(ctx context.Context, cmd ChatCommand) (*ChatResult, error) {
	if strings.TrimSpace(cmd.Message) == "" {
		return nil, apperrors.NewInvalidInputError(entity.ErrInvalidMessageContent.Error())
	}
	if strings.TrimSpace(cmd.UserID) == "" {
		return nil, apperrors.NewInvalidInputError(entity.ErrInvalidUserID.Error())
	}

	agent, err := uc.agents.FindByID(ctx, cmd.AgentID)
	if err != nil {
		return nil, err
	}

	result, err := uc.chat(ctx, agent, cmd)
	if err != nil {
		uc.recordFailure(ctx, agent, err)
		return nil, err
	}
	return result, nil
}

func (uc *ChatUseCase) chat(ctx context.Context, agent *entity.Agent, cmd ChatCommand) (*ChatResult, error) {
	if !agent.HasModel() {
		return nil, apperrors.NewInternalError("Agent has no model configured")
	}
	model, err := uc.models.FindByID(ctx, *agent.ModelID())
	if err != nil {
		return nil, chatFailure(err)
	}

	// 1. 解析或创建会话
	conv, history, err := uc.resolveConversation(ctx, agent, cmd)
	if err != nil {
		return nil, chatFailure(err)
	}

	userMsg, err := entity.NewMessage(conv.ID(), entity.RoleUser, cmd.Message)
	if err != nil {
		return nil, invalidInput(err)
	}

	// 2. 组装上下文: 最近的历史 + 本条消息
	prompt := make([]service.LLMMessage, 0, len(history)+1)
	for _, m := range history {
		prompt = append(prompt, service.LLMMessage{Role: string(m.Role()), Content: m.Content()})
	}
	prompt = append(prompt, service.LLMMessage{Role: string(userMsg.Role()), Content: userMsg.Content()})

	// 3. 调用模型
	cfg := model.Config()
	client, err := uc.clients.Resolve(cfg)
	if err != nil {
		return nil, apperrors.NewInternalErrorWithCause("failed to create LLM client", err)
	}

	callCtx := ctx
	if uc.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := client.Generate(callCtx, service.RequestFromConfig(cfg, prompt))
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("Chat completion received",
		zap.Uint("agent_id", agent.ID()),
		zap.String("model", cfg.FullModelName()),
		zap.Int("tokens", resp.TokensUsed),
		zap.Duration("elapsed", time.Since(start)),
	)

	reply, err := entity.NewMessage(conv.ID(), entity.RoleAssistant, resp.Content)
	if err != nil {
		return nil, invalidInput(err)
	}

	// 4. 单事务写入
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if conv.ID() == 0 {
			if err := uc.convs.Create(ctx, conv); err != nil {
				return err
			}
		} else {
			conv.Touch()
			if err := uc.convs.Update(ctx, conv); err != nil {
				return err
			}
		}

		userMsg.AttachTo(conv.ID())
		reply.AttachTo(conv.ID())
		if err := uc.messages.Append(ctx, userMsg); err != nil {
			return err
		}
		if err := uc.messages.Append(ctx, reply); err != nil {
			return err
		}

		log, err := entity.NewAgentLog(agent.ID(), entity.LogLevelInfo,
			fmt.Sprintf("Chat reply generated for conversation %d", conv.ID()))
		if err != nil {
			return err
		}
		return uc.logs.Append(ctx, log)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Chat completed",
		zap.Uint("agent_id", agent.ID()),
		zap.Uint("conversation_id", conv.ID()),
		zap.String("user_id", conv.UserID()),
	)
	return &ChatResult{
		ConversationID: conv.ID(),
		Reply:          reply.Content(),
		Timestamp:      reply.Timestamp(),
	}, nil
}

// resolveConversation 返回会话与发送给模型的历史消息
// 新会话尚未落库, ID 为 0
func (uc *ChatUseCase) resolveConversation(ctx context.Context, agent *entity.Agent, cmd ChatCommand) (*entity.Conversation, []*entity.Message, error) {
	if cmd.ConversationID == nil {
		conv, err := entity.NewConversation(agent.ID(), cmd.UserID, cmd.Message, uc.opts.TitleLength)
		if err != nil {
			return nil, nil, invalidInput(err)
		}
		return conv, nil, nil
	}

	conv, err := uc.convs.FindByID(ctx, *cmd.ConversationID)
	if err != nil {
		return nil, nil, err
	}
	if !conv.BelongsTo(agent.ID()) {
		return nil, nil, apperrors.NewInternalError("Conversation does not belong to this agent")
	}

	history, err := uc.messages.Recent(ctx, conv.ID(), uc.opts.HistoryLimit-1)
	if err != nil {
		return nil, nil, err
	}
	return conv, history, nil
}

// chatFailure 聊天过程中的失败一律按 500 返回, 保留原始错误文本;
// 只有参数缺失(400)和代理不存在(404)在进入聊天之前区分
func chatFailure(err error) error {
	if apperrors.CodeOf(err) == apperrors.CodeInternal {
		return err
	}
	return apperrors.NewInternalError(apperrors.Message(err))
}

// recordFailure 事务之外追加一条错误日志
func (uc *ChatUseCase) recordFailure(ctx context.Context, agent *entity.Agent, cause error) {
	uc.logger.Error("Chat failed", zap.Uint("agent_id", agent.ID()), zap.Error(cause))

	log, err := entity.NewAgentLog(agent.ID(), entity.LogLevelError, "Chat failed: "+apperrors.Message(cause))
	if err != nil {
		return
	}
	// 请求被取消时仍然记录
	if err := uc.logs.Append(context.WithoutCancel(ctx), log); err != nil {
		uc.logger.Warn("Failed to record chat failure", zap.Error(err))
	}
}
