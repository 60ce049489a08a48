package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"trade_monitor/internal/domain"
)

const defaultFreshnessWindow = 300 * time.Second

// SnapshotDeal is one deal record from a signed broker snapshot. Optional
// fields are pointers; a nil field never overwrites a stored value.
type SnapshotDeal struct {
	ProviderTradeID string
	Symbol          string
	Side            string
	Volume          decimal.Decimal
	OpenTime        time.Time
	CloseTime       *time.Time
	OpenPrice       decimal.Decimal
	ClosePrice      *decimal.Decimal
	Commission      decimal.Decimal
	Swap            decimal.Decimal
	Fees            decimal.Decimal
	Pnl             decimal.Decimal
	Status          string
	Magic           *int64
	Comment         *string
	Raw             []byte
}

// SnapshotPosition is validated and acknowledged but not persisted.
type SnapshotPosition struct {
	PositionID string
	Symbol     string
	Side       string
	Volume     decimal.Decimal
	OpenTime   time.Time
	OpenPrice  decimal.Decimal
}

// SnapshotEnvelope carries a raw snapshot body together with its
// out-of-band authentication fields.
type SnapshotEnvelope struct {
	AccountID int64
	Body      []byte
	Signature string
	Timestamp string
	Nonce     string
	Deals     []SnapshotDeal
	Positions []SnapshotPosition
}

type IngestResult struct {
	AccountID     int64
	DealsUpserted int
}

type credentialPayload struct {
	IngestKey string `json:"ingest_key"`
	Version   int    `json:"version"`
}

// IngestService is the gatekeeper in front of the trade ledger: it verifies
// authenticity and freshness of a snapshot batch, then commits the deal
// upserts and the daily-metrics rebuild as one transaction.
//
// The nonce is part of the signed message but is not tracked for reuse;
// within the freshness window the idempotent upsert is the replay defense.
type IngestService struct {
	accountRepo domain.AccountRepository
	tradeRepo   domain.TradeRepository
	metrics     *MetricsService
	tx          domain.TxManager
	freshness   time.Duration
	now         func() time.Time
}

func NewIngestService(accountRepo domain.AccountRepository, tradeRepo domain.TradeRepository, metrics *MetricsService, tx domain.TxManager, freshness time.Duration) (*IngestService, error) {
	if accountRepo == nil {
		return nil, errors.New("account repository required")
	}
	if tradeRepo == nil {
		return nil, errors.New("trade repository required")
	}
	if metrics == nil {
		return nil, errors.New("metrics service required")
	}
	if tx == nil {
		return nil, errors.New("tx manager required")
	}
	if freshness <= 0 {
		freshness = defaultFreshnessWindow
	}
	return &IngestService{
		accountRepo: accountRepo,
		tradeRepo:   tradeRepo,
		metrics:     metrics,
		tx:          tx,
		freshness:   freshness,
		now:         time.Now,
	}, nil
}

func (s *IngestService) IngestSnapshot(ctx context.Context, env SnapshotEnvelope) (IngestResult, error) {
	if _, err := s.accountRepo.GetAccountByID(ctx, env.AccountID); err != nil {
		return IngestResult{}, err
	}

	credential, err := s.accountRepo.GetCredential(ctx, env.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return IngestResult{}, fmt.Errorf("%w: missing ingest credentials", domain.ErrUnauthorized)
		}
		return IngestResult{}, err
	}

	key, err := ingestKeyFromCredential(credential)
	if err != nil {
		return IngestResult{}, err
	}

	if !verifySignature(key, env.Timestamp, env.Nonce, env.Body, env.Signature) {
		return IngestResult{}, fmt.Errorf("%w: invalid signature", domain.ErrUnauthorized)
	}

	ts, err := time.Parse(time.RFC3339, env.Timestamp)
	if err != nil {
		return IngestResult{}, fmt.Errorf("%w: invalid timestamp format", domain.ErrBadRequest)
	}
	if skew := s.now().Sub(ts); skew > s.freshness || skew < -s.freshness {
		return IngestResult{}, fmt.Errorf("%w: timestamp outside freshness window", domain.ErrUnauthorized)
	}

	trades := make([]domain.Trade, 0, len(env.Deals))
	for _, deal := range env.Deals {
		trade, err := tradeFromDeal(env.AccountID, deal)
		if err != nil {
			return IngestResult{}, err
		}
		trades = append(trades, trade)
	}
	for _, position := range env.Positions {
		if err := validatePosition(position); err != nil {
			return IngestResult{}, err
		}
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, trade := range trades {
			if err := s.tradeRepo.UpsertDeal(ctx, trade); err != nil {
				return err
			}
		}
		return s.metrics.Recompute(ctx, env.AccountID)
	})
	if err != nil {
		return IngestResult{}, err
	}

	return IngestResult{AccountID: env.AccountID, DealsUpserted: len(trades)}, nil
}

func ingestKeyFromCredential(credential domain.AccountCredential) (string, error) {
	var payload credentialPayload
	if err := json.Unmarshal(credential.Payload, &payload); err != nil || payload.IngestKey == "" {
		return "", fmt.Errorf("%w: unreadable account credential payload", domain.ErrInternalInconsistency)
	}
	return payload.IngestKey, nil
}

// verifySignature checks a hex HMAC-SHA256 over timestamp.nonce.body using
// a constant-time comparison.
func verifySignature(secret, timestamp, nonce string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write([]byte(nonce))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func tradeFromDeal(accountID int64, deal SnapshotDeal) (domain.Trade, error) {
	if deal.ProviderTradeID == "" {
		return domain.Trade{}, fmt.Errorf("%w: deal id required", domain.ErrBadRequest)
	}
	if deal.Symbol == "" {
		return domain.Trade{}, fmt.Errorf("%w: symbol required", domain.ErrBadRequest)
	}

	side, err := domain.ParseTradeSide(deal.Side)
	if err != nil {
		return domain.Trade{}, err
	}
	status, err := domain.ParseTradeStatus(deal.Status)
	if err != nil {
		return domain.Trade{}, err
	}

	return domain.Trade{
		AccountID:       accountID,
		ProviderTradeID: deal.ProviderTradeID,
		Symbol:          deal.Symbol,
		Side:            side,
		Volume:          deal.Volume,
		OpenTime:        deal.OpenTime,
		CloseTime:       deal.CloseTime,
		OpenPrice:       deal.OpenPrice,
		ClosePrice:      deal.ClosePrice,
		Commission:      deal.Commission,
		Swap:            deal.Swap,
		Fees:            deal.Fees,
		Pnl:             deal.Pnl,
		Status:          status,
		RecordType:      domain.RecordTypeDeal,
		Magic:           deal.Magic,
		Comment:         deal.Comment,
		RawPayload:      deal.Raw,
	}, nil
}

func validatePosition(position SnapshotPosition) error {
	if position.PositionID == "" {
		return fmt.Errorf("%w: position id required", domain.ErrBadRequest)
	}
	if _, err := domain.ParseTradeSide(position.Side); err != nil {
		return err
	}
	return nil
}
