package domain

import (
	"context"
	"time"
)

// TradeRepository is the append-mostly trade ledger.
type TradeRepository interface {
	// UpsertDeal inserts the trade or, on an existing
	// (account_id, provider_trade_id) row, overwrites the mutable fields.
	// Optional fields supplied as nil never overwrite stored values.
	UpsertDeal(ctx context.Context, trade Trade) error
	ListTrades(ctx context.Context, accountID int64, filter TradeFilter) ([]Trade, int64, error)
	// ListClosedTrades returns closed trades ordered by close_time
	// ascending. Bounds apply to close_time and may be nil.
	ListClosedTrades(ctx context.Context, accountID int64, from, to *time.Time) ([]Trade, error)
}

// MetricRepository owns the derived daily rows.
type MetricRepository interface {
	// ReplaceDailyMetrics deletes every row for the account and inserts
	// the given set as one unit.
	ReplaceDailyMetrics(ctx context.Context, accountID int64, rows []DailyMetric) error
	ListDailyMetrics(ctx context.Context, accountID int64, from, to *time.Time) ([]DailyMetric, error)
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account BrokerAccount) (BrokerAccount, error)
	GetAccount(ctx context.Context, userID, accountID int64) (BrokerAccount, error)
	// GetAccountByID looks an account up without owner scoping; used by
	// the ingestion path where the caller authenticates by signature.
	GetAccountByID(ctx context.Context, accountID int64) (BrokerAccount, error)
	ListAccounts(ctx context.Context, userID int64) ([]BrokerAccount, error)
	ListAccountIDs(ctx context.Context) ([]int64, error)
	UpdateAccountStatus(ctx context.Context, accountID int64, status AccountStatus) error
	// DeleteAccount removes the account plus its credential, trades and
	// daily metrics in one transaction.
	DeleteAccount(ctx context.Context, userID, accountID int64) error

	GetCredential(ctx context.Context, accountID int64) (AccountCredential, error)
	SaveCredential(ctx context.Context, credential AccountCredential) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, userID int64) (User, error)

	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
}

// TxManager runs fn inside a single store transaction; repository calls
// made with the ctx it passes join that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
