package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"trade_monitor/internal/domain"
)

type fakeAccountRepo struct {
	accounts        map[int64]domain.BrokerAccount
	credentials     map[int64]domain.AccountCredential
	nextID          int64
	statusUpdateErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts:    make(map[int64]domain.BrokerAccount),
		credentials: make(map[int64]domain.AccountCredential),
	}
}

func (r *fakeAccountRepo) CreateAccount(_ context.Context, account domain.BrokerAccount) (domain.BrokerAccount, error) {
	r.nextID++
	account.ID = r.nextID
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) GetAccount(_ context.Context, userID, accountID int64) (domain.BrokerAccount, error) {
	account, ok := r.accounts[accountID]
	if !ok || account.UserID != userID {
		return domain.BrokerAccount{}, fmt.Errorf("%w: account not found", domain.ErrNotFound)
	}
	return account, nil
}

func (r *fakeAccountRepo) GetAccountByID(_ context.Context, accountID int64) (domain.BrokerAccount, error) {
	account, ok := r.accounts[accountID]
	if !ok {
		return domain.BrokerAccount{}, fmt.Errorf("%w: account not found", domain.ErrNotFound)
	}
	return account, nil
}

func (r *fakeAccountRepo) ListAccounts(_ context.Context, userID int64) ([]domain.BrokerAccount, error) {
	var out []domain.BrokerAccount
	for _, account := range r.accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAccountRepo) ListAccountIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	for id := range r.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeAccountRepo) UpdateAccountStatus(_ context.Context, accountID int64, status domain.AccountStatus) error {
	if r.statusUpdateErr != nil {
		return r.statusUpdateErr
	}
	account, ok := r.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account not found", domain.ErrNotFound)
	}
	account.Status = status
	r.accounts[accountID] = account
	return nil
}

func (r *fakeAccountRepo) DeleteAccount(_ context.Context, userID, accountID int64) error {
	account, ok := r.accounts[accountID]
	if !ok || account.UserID != userID {
		return fmt.Errorf("%w: account not found", domain.ErrNotFound)
	}
	delete(r.accounts, accountID)
	delete(r.credentials, accountID)
	return nil
}

func (r *fakeAccountRepo) GetCredential(_ context.Context, accountID int64) (domain.AccountCredential, error) {
	credential, ok := r.credentials[accountID]
	if !ok {
		return domain.AccountCredential{}, fmt.Errorf("%w: credential not found", domain.ErrNotFound)
	}
	return credential, nil
}

func (r *fakeAccountRepo) SaveCredential(_ context.Context, credential domain.AccountCredential) error {
	r.credentials[credential.AccountID] = credential
	return nil
}

type fakeTradeRepo struct {
	trades map[string]domain.Trade
}

func newFakeTradeRepo() *fakeTradeRepo {
	return &fakeTradeRepo{trades: make(map[string]domain.Trade)}
}

func tradeKey(accountID int64, providerTradeID string) string {
	return fmt.Sprintf("%d/%s", accountID, providerTradeID)
}

func (r *fakeTradeRepo) UpsertDeal(_ context.Context, trade domain.Trade) error {
	key := tradeKey(trade.AccountID, trade.ProviderTradeID)
	if existing, ok := r.trades[key]; ok {
		trade.ID = existing.ID
		if trade.CloseTime == nil {
			trade.CloseTime = existing.CloseTime
		}
		if trade.ClosePrice == nil {
			trade.ClosePrice = existing.ClosePrice
		}
		if trade.Magic == nil {
			trade.Magic = existing.Magic
		}
		if trade.Comment == nil {
			trade.Comment = existing.Comment
		}
	}
	r.trades[key] = trade
	return nil
}

func (r *fakeTradeRepo) ListTrades(_ context.Context, accountID int64, filter domain.TradeFilter) ([]domain.Trade, int64, error) {
	var out []domain.Trade
	for _, trade := range r.trades {
		if trade.AccountID == accountID {
			out = append(out, trade)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTradeRepo) ListClosedTrades(_ context.Context, accountID int64, from, to *time.Time) ([]domain.Trade, error) {
	var out []domain.Trade
	for _, trade := range r.trades {
		if trade.AccountID != accountID || trade.Status != domain.TradeStatusClosed {
			continue
		}
		if trade.CloseTime != nil {
			if from != nil && trade.CloseTime.Before(*from) {
				continue
			}
			if to != nil && trade.CloseTime.After(*to) {
				continue
			}
		}
		out = append(out, trade)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveTime().Before(out[j].EffectiveTime())
	})
	return out, nil
}

type fakeMetricRepo struct {
	rows map[int64][]domain.DailyMetric
}

func newFakeMetricRepo() *fakeMetricRepo {
	return &fakeMetricRepo{rows: make(map[int64][]domain.DailyMetric)}
}

func (r *fakeMetricRepo) ReplaceDailyMetrics(_ context.Context, accountID int64, rows []domain.DailyMetric) error {
	r.rows[accountID] = append([]domain.DailyMetric(nil), rows...)
	return nil
}

func (r *fakeMetricRepo) ListDailyMetrics(_ context.Context, accountID int64, from, to *time.Time) ([]domain.DailyMetric, error) {
	var out []domain.DailyMetric
	for _, row := range r.rows[accountID] {
		if from != nil && row.Date.Before(*from) {
			continue
		}
		if to != nil && row.Date.After(*to) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeUserRepo struct {
	users    map[int64]domain.User
	sessions map[string]domain.Session
	nextID   int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[int64]domain.User),
		sessions: make(map[string]domain.Session),
	}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: user not found", domain.ErrNotFound)
}

func (r *fakeUserRepo) GetUser(_ context.Context, userID int64) (domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	return user, nil
}

func (r *fakeUserRepo) CreateSession(_ context.Context, session domain.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeUserRepo) GetSession(_ context.Context, token string) (domain.Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: session not found", domain.ErrNotFound)
	}
	return session, nil
}

// fakeTxManager runs the unit directly; the fakes have no transactions.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingTxManager counts transaction scopes so tests can assert which
// writes share one.
type recordingTxManager struct {
	calls int
}

func (m *recordingTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
