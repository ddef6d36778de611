package persistence

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
)

// translateError 把 gorm 错误转换为应用错误
// resource 为面向客户端的资源名, 例如 "Agent"
func translateError(err error, resource, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NewNotFoundError(resource + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.NewAlreadyExistsError(resource + " already exists")
	default:
		return apperrors.NewInternalErrorWithCause("failed to "+op, err)
	}
}
