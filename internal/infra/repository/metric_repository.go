package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"trade_monitor/internal/domain"
)

type GormMetricRepository struct {
	db *gorm.DB
}

func NewGormMetricRepository(db *gorm.DB) (*GormMetricRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormMetricRepository{db: db}, nil
}

// ReplaceDailyMetrics drops every row for the account and writes the fresh
// set. Callers that need the swap to be atomic with other writes wrap the
// call in a TxManager transaction; standalone calls get their own.
func (r *GormMetricRepository) ReplaceDailyMetrics(ctx context.Context, accountID int64, rows []domain.DailyMetric) error {
	run := func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&DailyMetricModel{}).Error; err != nil {
			return fmt.Errorf("delete daily metrics: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		models := make([]DailyMetricModel, len(rows))
		for i, row := range rows {
			models[i] = toDailyMetricModel(row)
		}
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("insert daily metrics: %w", err)
		}
		return nil
	}

	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return run(tx)
	}
	return r.db.WithContext(ctx).Transaction(run)
}

func (r *GormMetricRepository) ListDailyMetrics(ctx context.Context, accountID int64, from, to *time.Time) ([]domain.DailyMetric, error) {
	query := conn(ctx, r.db).Where("account_id = ?", accountID)
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	var models []DailyMetricModel
	if err := query.Order("date DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list daily metrics: %w", err)
	}

	rows := make([]domain.DailyMetric, len(models))
	for i, model := range models {
		rows[i] = model.toDomain()
	}

	return rows, nil
}
