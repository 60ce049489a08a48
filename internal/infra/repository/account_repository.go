package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trade_monitor/internal/domain"
)

type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) (*GormAccountRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormAccountRepository{db: db}, nil
}

func (r *GormAccountRepository) CreateAccount(ctx context.Context, account domain.BrokerAccount) (domain.BrokerAccount, error) {
	model := toBrokerAccountModel(account)
	model.ID = 0
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		return domain.BrokerAccount{}, fmt.Errorf("create account: %w", err)
	}
	return model.toDomain(), nil
}

func (r *GormAccountRepository) GetAccount(ctx context.Context, userID, accountID int64) (domain.BrokerAccount, error) {
	var model BrokerAccountModel
	err := conn(ctx, r.db).
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BrokerAccount{}, fmt.Errorf("%w: account not found", domain.ErrNotFound)
		}
		return domain.BrokerAccount{}, fmt.Errorf("get account: %w", err)
	}
	return model.toDomain(), nil
}

func (r *GormAccountRepository) GetAccountByID(ctx context.Context, accountID int64) (domain.BrokerAccount, error) {
	var model BrokerAccountModel
	err := conn(ctx, r.db).
		Where("id = ?", accountID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BrokerAccount{}, fmt.Errorf("%w: account not found", domain.ErrNotFound)
		}
		return domain.BrokerAccount{}, fmt.Errorf("get account: %w", err)
	}
	return model.toDomain(), nil
}

func (r *GormAccountRepository) ListAccounts(ctx context.Context, userID int64) ([]domain.BrokerAccount, error) {
	var models []BrokerAccountModel
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]domain.BrokerAccount, len(models))
	for i, model := range models {
		accounts[i] = model.toDomain()
	}
	return accounts, nil
}

func (r *GormAccountRepository) ListAccountIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := conn(ctx, r.db).
		Model(&BrokerAccountModel{}).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list account ids: %w", err)
	}
	return ids, nil
}

func (r *GormAccountRepository) UpdateAccountStatus(ctx context.Context, accountID int64, status domain.AccountStatus) error {
	result := conn(ctx, r.db).
		Model(&BrokerAccountModel{}).
		Where("id = ?", accountID).
		Update("status", string(status))
	if result.Error != nil {
		return fmt.Errorf("update account status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: account not found", domain.ErrNotFound)
	}
	return nil
}

// DeleteAccount cascades to the credential, the trade ledger and the
// derived daily rows inside one transaction.
func (r *GormAccountRepository) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	run := func(tx *gorm.DB) error {
		var model BrokerAccountModel
		err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: account not found", domain.ErrNotFound)
			}
			return fmt.Errorf("get account: %w", err)
		}

		if err := tx.Where("account_id = ?", accountID).Delete(&AccountCredentialModel{}).Error; err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&TradeModel{}).Error; err != nil {
			return fmt.Errorf("delete trades: %w", err)
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&DailyMetricModel{}).Error; err != nil {
			return fmt.Errorf("delete daily metrics: %w", err)
		}
		if err := tx.Delete(&model).Error; err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	}

	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return run(tx)
	}
	return r.db.WithContext(ctx).Transaction(run)
}

func (r *GormAccountRepository) GetCredential(ctx context.Context, accountID int64) (domain.AccountCredential, error) {
	var model AccountCredentialModel
	err := conn(ctx, r.db).
		Where("account_id = ?", accountID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AccountCredential{}, fmt.Errorf("%w: credential not found", domain.ErrNotFound)
		}
		return domain.AccountCredential{}, fmt.Errorf("get credential: %w", err)
	}
	return model.toDomain(), nil
}

func (r *GormAccountRepository) SaveCredential(ctx context.Context, credential domain.AccountCredential) error {
	model := AccountCredentialModel{
		AccountID: credential.AccountID,
		Payload:   append([]byte(nil), credential.Payload...),
	}

	assignments := clause.Assignments(map[string]interface{}{
		"payload":    gorm.Expr("EXCLUDED.payload"),
		"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
	})

	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: assignments,
		}).
		Create(&model).Error
}
