package usecase

import (
	"errors"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
)

var domainValidationErrors = []error{
	entity.ErrInvalidAgentName,
	entity.ErrInvalidAgentStatus,
	entity.ErrInvalidModelName,
	entity.ErrInvalidModelProvider,
	entity.ErrInvalidModelBaseURL,
	entity.ErrInvalidModelID,
	entity.ErrInvalidLogLevel,
	entity.ErrInvalidUserID,
	entity.ErrInvalidConversationTitle,
	entity.ErrInvalidMessageRole,
	entity.ErrInvalidMessageContent,
}

// invalidInput 把实体校验错误转换为 400, 其余错误原样返回
func invalidInput(err error) error {
	for _, target := range domainValidationErrors {
		if errors.Is(err, target) {
			return apperrors.NewInvalidInputError(target.Error())
		}
	}
	return err
}
