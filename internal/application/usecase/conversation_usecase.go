package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

// ConversationUseCase 会话与消息查询
type ConversationUseCase struct {
	convs    repository.ConversationRepository
	messages repository.MessageRepository
	tx       repository.Transactor
	logger   *zap.Logger
}

// NewConversationUseCase creates the conversation use-case.
func NewConversationUseCase(
	convs repository.ConversationRepository,
	messages repository.MessageRepository,
	tx repository.Transactor,
	logger *zap.Logger,
) *ConversationUseCase {
	return &ConversationUseCase{
		convs:    convs,
		messages: messages,
		tx:       tx,
		logger:   logger.With(zap.String("usecase", "conversation")),
	}
}

// List 按最近更新排序列出会话
func (uc *ConversationUseCase) List(ctx context.Context, filter repository.ConversationFilter, req pagination.Request) (pagination.Page[*entity.Conversation], error) {
	convs, total, err := uc.convs.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return pagination.Page[*entity.Conversation]{}, err
	}
	return pagination.NewPage(convs, total, req), nil
}

// Get 查询单个会话
func (uc *ConversationUseCase) Get(ctx context.Context, id uint) (*entity.Conversation, error) {
	return uc.convs.FindByID(ctx, id)
}

// Rename 修改会话标题
func (uc *ConversationUseCase) Rename(ctx context.Context, id uint, title *string) (*entity.Conversation, error) {
	if title == nil {
		return nil, apperrors.NewInvalidInputError(entity.ErrInvalidConversationTitle.Error())
	}

	conv, err := uc.convs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := conv.Retitle(*title); err != nil {
		return nil, invalidInput(err)
	}
	if err := uc.convs.Update(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Delete 删除会话及其消息
func (uc *ConversationUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.convs.FindByID(ctx, id); err != nil {
		return err
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.messages.DeleteByConversation(ctx, id); err != nil {
			return err
		}
		return uc.convs.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("Conversation deleted", zap.Uint("conversation_id", id))
	return nil
}

// Messages 按时间正序分页列出会话消息
func (uc *ConversationUseCase) Messages(ctx context.Context, id uint, req pagination.Request) (pagination.Page[*entity.Message], error) {
	if _, err := uc.convs.FindByID(ctx, id); err != nil {
		return pagination.Page[*entity.Message]{}, err
	}

	msgs, total, err := uc.messages.ListByConversation(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return pagination.Page[*entity.Message]{}, err
	}
	return pagination.NewPage(msgs, total, req), nil
}
