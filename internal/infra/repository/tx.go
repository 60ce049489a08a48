package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTxManager carries a gorm transaction handle through the context so
// repository calls made inside RunInTx join a single store transaction.
type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) (*GormTxManager, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormTxManager{db: db}, nil
}

func (m *GormTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// conn resolves the ambient transaction if one is in flight, falling back
// to the repository's own handle.
func conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
