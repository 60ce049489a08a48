package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trade_monitor/internal/domain"
)

type GormTradeRepository struct {
	db *gorm.DB
}

func NewGormTradeRepository(db *gorm.DB) (*GormTradeRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormTradeRepository{db: db}, nil
}

// UpsertDeal relies on the (account_id, provider_trade_id) conflict target
// as the sole concurrency primitive: required fields take the incoming
// value, nullable fields merge with COALESCE so an absent field never
// erases a stored one.
func (r *GormTradeRepository) UpsertDeal(ctx context.Context, trade domain.Trade) error {
	model := toTradeModel(trade)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}

	assignments := clause.Assignments(map[string]interface{}{
		"symbol":      gorm.Expr("EXCLUDED.symbol"),
		"side":        gorm.Expr("EXCLUDED.side"),
		"volume":      gorm.Expr("EXCLUDED.volume"),
		"open_time":   gorm.Expr("EXCLUDED.open_time"),
		"close_time":  gorm.Expr("COALESCE(EXCLUDED.close_time, trades.close_time)"),
		"open_price":  gorm.Expr("EXCLUDED.open_price"),
		"close_price": gorm.Expr("COALESCE(EXCLUDED.close_price, trades.close_price)"),
		"commission":  gorm.Expr("EXCLUDED.commission"),
		"swap":        gorm.Expr("EXCLUDED.swap"),
		"fees":        gorm.Expr("EXCLUDED.fees"),
		"pnl":         gorm.Expr("EXCLUDED.pnl"),
		"status":      gorm.Expr("EXCLUDED.status"),
		"record_type": gorm.Expr("EXCLUDED.record_type"),
		"magic":       gorm.Expr("COALESCE(EXCLUDED.magic, trades.magic)"),
		"comment":     gorm.Expr("COALESCE(EXCLUDED.comment, trades.comment)"),
		"raw_payload": gorm.Expr("COALESCE(EXCLUDED.raw_payload, trades.raw_payload)"),
		"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
	})

	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "provider_trade_id"}},
			DoUpdates: assignments,
		}).
		Create(&model).Error
}

func (r *GormTradeRepository) ListTrades(ctx context.Context, accountID int64, filter domain.TradeFilter) ([]domain.Trade, int64, error) {
	query := conn(ctx, r.db).
		Model(&TradeModel{}).
		Where("account_id = ?", accountID)

	if filter.From != nil {
		query = query.Where("close_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("close_time <= ?", *filter.To)
	}
	if filter.Symbol != "" {
		query = query.Where("LOWER(symbol) = ?", strings.ToLower(filter.Symbol))
	}
	if filter.RecordType != "" {
		query = query.Where("record_type = ?", string(filter.RecordType))
	}
	switch filter.PnlSign {
	case domain.PnlSignPositive:
		query = query.Where("pnl > 0")
	case domain.PnlSignNegative:
		query = query.Where("pnl < 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count trades: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var models []TradeModel
	err := query.
		Order("close_time DESC NULLS LAST").
		Order("open_time DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list trades: %w", err)
	}

	trades := make([]domain.Trade, len(models))
	for i, model := range models {
		trades[i] = model.toDomain()
	}

	return trades, total, nil
}

func (r *GormTradeRepository) ListClosedTrades(ctx context.Context, accountID int64, from, to *time.Time) ([]domain.Trade, error) {
	query := conn(ctx, r.db).
		Where("account_id = ?", accountID).
		Where("status = ?", string(domain.TradeStatusClosed))

	if from != nil {
		query = query.Where("close_time >= ?", *from)
	}
	if to != nil {
		query = query.Where("close_time <= ?", *to)
	}

	var models []TradeModel
	if err := query.Order("close_time ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list closed trades: %w", err)
	}

	trades := make([]domain.Trade, len(models))
	for i, model := range models {
		trades[i] = model.toDomain()
	}

	return trades, nil
}
