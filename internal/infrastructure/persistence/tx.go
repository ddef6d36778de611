package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ngoclaw/agenthub/internal/domain/repository"
)

type txKey struct{}

// GormTransactor 基于 gorm 的工作单元实现
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor 创建事务管理器
func NewGormTransactor(db *gorm.DB) repository.Transactor {
	return &GormTransactor{db: db}
}

// WithinTx 在事务中执行 fn; 已处于事务中时直接复用外层事务
func (t *GormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn 返回 ctx 中的事务句柄, 没有时返回普通连接
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
