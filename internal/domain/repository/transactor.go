package repository

import "context"

// Transactor 工作单元: fn 内通过 ctx 访问仓储的操作共享同一事务
// fn 返回错误时整体回滚
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
