package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

func ParseTradeSide(value string) (TradeSide, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "buy":
		return TradeSideBuy, nil
	case "sell":
		return TradeSideSell, nil
	default:
		return "", fmt.Errorf("%w: unknown trade side %q", ErrBadRequest, value)
	}
}

type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

func ParseTradeStatus(value string) (TradeStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "open":
		return TradeStatusOpen, nil
	case "closed":
		return TradeStatusClosed, nil
	default:
		return "", fmt.Errorf("%w: unknown trade status %q", ErrBadRequest, value)
	}
}

type TradeRecordType string

const (
	RecordTypeDeal  TradeRecordType = "deal"
	RecordTypeOrder TradeRecordType = "order"
)

func ParseTradeRecordType(value string) (TradeRecordType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "deal":
		return RecordTypeDeal, nil
	case "order":
		return RecordTypeOrder, nil
	default:
		return "", fmt.Errorf("%w: unknown record type %q", ErrBadRequest, value)
	}
}

// Trade is one ledger entry. Business identity is (AccountID,
// ProviderTradeID); everything else may be overwritten by re-ingestion.
type Trade struct {
	ID              string           `json:"id"`
	AccountID       int64            `json:"account_id"`
	ProviderTradeID string           `json:"provider_trade_id"`
	Symbol          string           `json:"symbol"`
	Side            TradeSide        `json:"side"`
	Volume          decimal.Decimal  `json:"volume"`
	OpenTime        time.Time        `json:"open_time"`
	CloseTime       *time.Time       `json:"close_time"`
	OpenPrice       decimal.Decimal  `json:"open_price"`
	ClosePrice      *decimal.Decimal `json:"close_price"`
	Commission      decimal.Decimal  `json:"commission"`
	Swap            decimal.Decimal  `json:"swap"`
	Fees            decimal.Decimal  `json:"fees"`
	Pnl             decimal.Decimal  `json:"pnl"`
	Status          TradeStatus      `json:"status"`
	RecordType      TradeRecordType  `json:"record_type"`
	Magic           *int64           `json:"magic"`
	Comment         *string          `json:"comment"`
	RawPayload      []byte           `json:"-"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NetPnl is pnl minus commission, swap and fees.
func (t Trade) NetPnl() decimal.Decimal {
	return t.Pnl.Sub(t.Commission).Sub(t.Swap).Sub(t.Fees)
}

// EffectiveTime orders a trade for equity replay: close time when present,
// open time otherwise.
func (t Trade) EffectiveTime() time.Time {
	if t.CloseTime != nil {
		return *t.CloseTime
	}
	return t.OpenTime
}

// PnlSign buckets a trade listing filter by the sign of raw pnl.
type PnlSign string

const (
	PnlSignPositive PnlSign = "positive"
	PnlSignNegative PnlSign = "negative"
)

func ParsePnlSign(value string) (PnlSign, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "positive":
		return PnlSignPositive, nil
	case "negative":
		return PnlSignNegative, nil
	default:
		return "", fmt.Errorf("%w: unknown pnl sign %q", ErrBadRequest, value)
	}
}

// TradeFilter narrows a trade listing. Time bounds apply to close_time.
type TradeFilter struct {
	From       *time.Time
	To         *time.Time
	Symbol     string
	PnlSign    PnlSign
	RecordType TradeRecordType
	Limit      int
	Offset     int
}

// DailyMetric is a derived per-day aggregate, fully recomputable from the
// closed-trade ledger and never mutated independently.
type DailyMetric struct {
	AccountID   int64            `json:"account_id"`
	Date        time.Time        `json:"date"`
	RealizedPnl decimal.Decimal  `json:"realized_pnl"`
	Commissions decimal.Decimal  `json:"commissions"`
	Swaps       decimal.Decimal  `json:"swaps"`
	Fees        decimal.Decimal  `json:"fees"`
	NetPnl      decimal.Decimal  `json:"net_pnl"`
	EndBalance  *decimal.Decimal `json:"end_balance"`
	EndEquity   *decimal.Decimal `json:"end_equity"`
}
