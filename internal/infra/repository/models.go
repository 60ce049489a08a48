package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"trade_monitor/internal/domain"
)

type UserModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func toUserModel(user domain.User) UserModel {
	return UserModel{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
}

func (m UserModel) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

type SessionModel struct {
	Token     string    `gorm:"column:token;size:64;primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func (m SessionModel) toDomain() domain.Session {
	return domain.Session{
		Token:     m.Token,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

type BrokerAccountModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Provider  string    `gorm:"column:provider;size:16;not null"`
	Name      string    `gorm:"column:name;size:120;not null"`
	Currency  string    `gorm:"column:currency;size:16;not null"`
	Status    string    `gorm:"column:status;size:16;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (BrokerAccountModel) TableName() string {
	return "broker_accounts"
}

func toBrokerAccountModel(account domain.BrokerAccount) BrokerAccountModel {
	return BrokerAccountModel{
		ID:       account.ID,
		UserID:   account.UserID,
		Provider: string(account.Provider),
		Name:     account.Name,
		Currency: account.Currency,
		Status:   string(account.Status),
	}
}

func (m BrokerAccountModel) toDomain() domain.BrokerAccount {
	return domain.BrokerAccount{
		ID:        m.ID,
		UserID:    m.UserID,
		Provider:  domain.BrokerProvider(m.Provider),
		Name:      m.Name,
		Currency:  m.Currency,
		Status:    domain.AccountStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

type AccountCredentialModel struct {
	AccountID int64     `gorm:"column:account_id;primaryKey"`
	Payload   []byte    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (AccountCredentialModel) TableName() string {
	return "account_credentials"
}

func (m AccountCredentialModel) toDomain() domain.AccountCredential {
	return domain.AccountCredential{
		AccountID: m.AccountID,
		Payload:   append([]byte(nil), m.Payload...),
		UpdatedAt: m.UpdatedAt,
	}
}

type TradeModel struct {
	ID              string           `gorm:"column:id;type:varchar(36);primaryKey"`
	AccountID       int64            `gorm:"column:account_id;not null;uniqueIndex:uq_trades_account_provider,priority:1;index:ix_trades_account_close_time,priority:1"`
	ProviderTradeID string           `gorm:"column:provider_trade_id;size:128;not null;uniqueIndex:uq_trades_account_provider,priority:2"`
	Symbol          string           `gorm:"column:symbol;size:64;not null"`
	Side            string           `gorm:"column:side;size:8;not null"`
	Volume          decimal.Decimal  `gorm:"column:volume;type:decimal(20,8);not null"`
	OpenTime        time.Time        `gorm:"column:open_time;not null"`
	CloseTime       *time.Time       `gorm:"column:close_time;index:ix_trades_account_close_time,priority:2"`
	OpenPrice       decimal.Decimal  `gorm:"column:open_price;type:decimal(20,10);not null"`
	ClosePrice      *decimal.Decimal `gorm:"column:close_price;type:decimal(20,10)"`
	Commission      decimal.Decimal  `gorm:"column:commission;type:decimal(20,8);default:0"`
	Swap            decimal.Decimal  `gorm:"column:swap;type:decimal(20,8);default:0"`
	Fees            decimal.Decimal  `gorm:"column:fees;type:decimal(20,8);default:0"`
	Pnl             decimal.Decimal  `gorm:"column:pnl;type:decimal(20,8);default:0"`
	Status          string           `gorm:"column:status;size:8;not null"`
	RecordType      string           `gorm:"column:record_type;size:8;not null"`
	Magic           *int64           `gorm:"column:magic"`
	Comment         *string          `gorm:"column:comment;size:255"`
	RawPayload      datatypes.JSON   `gorm:"column:raw_payload"`
	CreatedAt       time.Time        `gorm:"column:created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at"`
}

func (TradeModel) TableName() string {
	return "trades"
}

func toTradeModel(trade domain.Trade) TradeModel {
	return TradeModel{
		ID:              trade.ID,
		AccountID:       trade.AccountID,
		ProviderTradeID: trade.ProviderTradeID,
		Symbol:          trade.Symbol,
		Side:            string(trade.Side),
		Volume:          trade.Volume,
		OpenTime:        trade.OpenTime,
		CloseTime:       trade.CloseTime,
		OpenPrice:       trade.OpenPrice,
		ClosePrice:      trade.ClosePrice,
		Commission:      trade.Commission,
		Swap:            trade.Swap,
		Fees:            trade.Fees,
		Pnl:             trade.Pnl,
		Status:          string(trade.Status),
		RecordType:      string(trade.RecordType),
		Magic:           trade.Magic,
		Comment:         trade.Comment,
		RawPayload:      jsonOrNil(trade.RawPayload),
	}
}

func (m TradeModel) toDomain() domain.Trade {
	return domain.Trade{
		ID:              m.ID,
		AccountID:       m.AccountID,
		ProviderTradeID: m.ProviderTradeID,
		Symbol:          m.Symbol,
		Side:            domain.TradeSide(m.Side),
		Volume:          m.Volume,
		OpenTime:        m.OpenTime,
		CloseTime:       m.CloseTime,
		OpenPrice:       m.OpenPrice,
		ClosePrice:      m.ClosePrice,
		Commission:      m.Commission,
		Swap:            m.Swap,
		Fees:            m.Fees,
		Pnl:             m.Pnl,
		Status:          domain.TradeStatus(m.Status),
		RecordType:      domain.TradeRecordType(m.RecordType),
		Magic:           m.Magic,
		Comment:         m.Comment,
		RawPayload:      copyJSON(m.RawPayload),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type DailyMetricModel struct {
	AccountID   int64            `gorm:"column:account_id;primaryKey;index:ix_daily_metrics_account_date,priority:1"`
	Date        time.Time        `gorm:"column:date;type:date;primaryKey;index:ix_daily_metrics_account_date,priority:2"`
	RealizedPnl decimal.Decimal  `gorm:"column:realized_pnl;type:decimal(20,8);default:0"`
	Commissions decimal.Decimal  `gorm:"column:commissions;type:decimal(20,8);default:0"`
	Swaps       decimal.Decimal  `gorm:"column:swaps;type:decimal(20,8);default:0"`
	Fees        decimal.Decimal  `gorm:"column:fees;type:decimal(20,8);default:0"`
	NetPnl      decimal.Decimal  `gorm:"column:net_pnl;type:decimal(20,8);default:0"`
	EndBalance  *decimal.Decimal `gorm:"column:end_balance;type:decimal(20,8)"`
	EndEquity   *decimal.Decimal `gorm:"column:end_equity;type:decimal(20,8)"`
}

func (DailyMetricModel) TableName() string {
	return "daily_account_metrics"
}

func toDailyMetricModel(row domain.DailyMetric) DailyMetricModel {
	return DailyMetricModel{
		AccountID:   row.AccountID,
		Date:        row.Date,
		RealizedPnl: row.RealizedPnl,
		Commissions: row.Commissions,
		Swaps:       row.Swaps,
		Fees:        row.Fees,
		NetPnl:      row.NetPnl,
		EndBalance:  row.EndBalance,
		EndEquity:   row.EndEquity,
	}
}

func (m DailyMetricModel) toDomain() domain.DailyMetric {
	return domain.DailyMetric{
		AccountID:   m.AccountID,
		Date:        m.Date,
		RealizedPnl: m.RealizedPnl,
		Commissions: m.Commissions,
		Swaps:       m.Swaps,
		Fees:        m.Fees,
		NetPnl:      m.NetPnl,
		EndBalance:  m.EndBalance,
		EndEquity:   m.EndEquity,
	}
}

func jsonOrNil(data []byte) datatypes.JSON {
	if len(data) == 0 {
		return nil
	}
	return datatypes.JSON(append([]byte(nil), data...))
}

func copyJSON(data datatypes.JSON) []byte {
	if len(data) == 0 {
		return nil
	}
	cpy := make([]byte, len(data))
	copy(cpy, data)
	return cpy
}
