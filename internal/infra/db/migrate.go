package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"trade_monitor/internal/infra/repository"
)

func ApplyMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&repository.UserModel{},
		&repository.SessionModel{},
		&repository.BrokerAccountModel{},
		&repository.AccountCredentialModel{},
		&repository.TradeModel{},
		&repository.DailyMetricModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
