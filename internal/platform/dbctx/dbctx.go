package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries the caller's context and, when the write is part of a
// larger unit of work, the open transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Background is a Context with no deadline and no transaction.
func Background() Context {
	return Context{Ctx: context.Background()}
}

// Of wraps ctx without a transaction.
func Of(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// DB returns the transaction if one is open, else fallback, bound to Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	if db == nil {
		return nil
	}
	if c.Ctx != nil {
		return db.WithContext(c.Ctx)
	}
	return db
}

// Context returns Ctx, or context.Background when unset.
func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}
