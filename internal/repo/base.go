package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the GORM handle shared by the domain repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx rebinds the base to a transaction handle. A nil tx returns the
// base unchanged so callers can pass through optional transactions.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// Dialect names the underlying driver. Repositories use it to pick
// portable SQL when postgres and sqlite disagree.
func (b Base) Dialect() string {
	return b.db.Dialector.Name()
}
