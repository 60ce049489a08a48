package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"trade_monitor/internal/domain"
)

const (
	mt5IngestURL      = "/api/v1/ingest/mt5/snapshot"
	ctraderAuthorize  = "https://connect.spotware.com/apps/auth"
	credentialVersion = 1
)

type MT5ConnectInfo struct {
	AccountID    int64    `json:"account_id"`
	IngestKey    string   `json:"ingest_key"`
	APIURL       string   `json:"api_url"`
	Instructions []string `json:"instructions"`
}

type CTraderConnectInfo struct {
	AccountID int64  `json:"account_id"`
	OAuthURL  string `json:"oauth_url"`
	State     string `json:"state"`
	Note      string `json:"note"`
}

type AccountService struct {
	accountRepo domain.AccountRepository
	tradeRepo   domain.TradeRepository
	tx          domain.TxManager
}

func NewAccountService(accountRepo domain.AccountRepository, tradeRepo domain.TradeRepository, tx domain.TxManager) (*AccountService, error) {
	if accountRepo == nil {
		return nil, errors.New("account repository required")
	}
	if tradeRepo == nil {
		return nil, errors.New("trade repository required")
	}
	if tx == nil {
		return nil, errors.New("tx manager required")
	}
	return &AccountService{
		accountRepo: accountRepo,
		tradeRepo:   tradeRepo,
		tx:          tx,
	}, nil
}

func (s *AccountService) CreateAccount(ctx context.Context, userID int64, provider, name, currency string) (domain.BrokerAccount, error) {
	parsedProvider, err := domain.ParseBrokerProvider(provider)
	if err != nil {
		return domain.BrokerAccount{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.BrokerAccount{}, fmt.Errorf("%w: account name required", domain.ErrBadRequest)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return domain.BrokerAccount{}, fmt.Errorf("%w: currency required", domain.ErrBadRequest)
	}

	return s.accountRepo.CreateAccount(ctx, domain.BrokerAccount{
		UserID:   userID,
		Provider: parsedProvider,
		Name:     name,
		Currency: currency,
		Status:   domain.AccountStatusNew,
	})
}

func (s *AccountService) ListAccounts(ctx context.Context, userID int64) ([]domain.BrokerAccount, error) {
	return s.accountRepo.ListAccounts(ctx, userID)
}

func (s *AccountService) GetAccount(ctx context.Context, userID, accountID int64) (domain.BrokerAccount, error) {
	return s.accountRepo.GetAccount(ctx, userID, accountID)
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	return s.accountRepo.DeleteAccount(ctx, userID, accountID)
}

func (s *AccountService) ListTrades(ctx context.Context, userID, accountID int64, filter domain.TradeFilter) ([]domain.Trade, int64, error) {
	if _, err := s.accountRepo.GetAccount(ctx, userID, accountID); err != nil {
		return nil, 0, err
	}
	return s.tradeRepo.ListTrades(ctx, accountID, filter)
}

// ConnectMT5 issues a fresh ingest key for the account, replacing any prior
// credential, and activates the account.
func (s *AccountService) ConnectMT5(ctx context.Context, userID, accountID int64) (MT5ConnectInfo, error) {
	account, err := s.accountRepo.GetAccount(ctx, userID, accountID)
	if err != nil {
		return MT5ConnectInfo{}, err
	}
	if account.Provider != domain.ProviderMT5 {
		return MT5ConnectInfo{}, fmt.Errorf("%w: account provider is not MT5", domain.ErrBadRequest)
	}

	ingestKey, err := randomToken(32)
	if err != nil {
		return MT5ConnectInfo{}, err
	}

	payload, err := json.Marshal(credentialPayload{IngestKey: ingestKey, Version: credentialVersion})
	if err != nil {
		return MT5ConnectInfo{}, fmt.Errorf("encode credential payload: %w", err)
	}

	// Key rotation and activation commit together: a stored key on an
	// account still marked new would accept pushes the user never enabled.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.SaveCredential(ctx, domain.AccountCredential{
			AccountID: account.ID,
			Payload:   payload,
		}); err != nil {
			return err
		}
		return s.accountRepo.UpdateAccountStatus(ctx, account.ID, domain.AccountStatusActive)
	})
	if err != nil {
		return MT5ConnectInfo{}, err
	}

	return MT5ConnectInfo{
		AccountID: account.ID,
		IngestKey: ingestKey,
		APIURL:    mt5IngestURL,
		Instructions: []string{
			"Configure the EA with API_URL, ACCOUNT_ID, INGEST_KEY and SYNC_INTERVAL_SEC.",
			"Sign each payload with HMAC-SHA256 in the X-Signature, X-Timestamp and X-Nonce headers.",
			"Push account_state, deals and positions periodically; deals are idempotent by provider trade id.",
		},
	}, nil
}

// ConnectCTrader builds the OAuth authorize URL. Token exchange is not
// implemented; the returned state is not yet persisted.
func (s *AccountService) ConnectCTrader(ctx context.Context, userID, accountID int64) (CTraderConnectInfo, error) {
	account, err := s.accountRepo.GetAccount(ctx, userID, accountID)
	if err != nil {
		return CTraderConnectInfo{}, err
	}
	if account.Provider != domain.ProviderCTrader {
		return CTraderConnectInfo{}, fmt.Errorf("%w: account provider is not CTrader", domain.ErrBadRequest)
	}

	state, err := randomToken(24)
	if err != nil {
		return CTraderConnectInfo{}, err
	}

	query := url.Values{}
	query.Set("state", state)
	query.Set("account_id", strconv.FormatInt(account.ID, 10))
	query.Set("response_type", "code")

	return CTraderConnectInfo{
		AccountID: account.ID,
		OAuthURL:  ctraderAuthorize + "?" + query.Encode(),
		State:     state,
		Note:      "OAuth placeholder: client_id, redirect_uri and token exchange are configured server-side in a later step.",
	}, nil
}
