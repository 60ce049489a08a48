package http

import (
	"context"
	"encoding/json"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"trade_monitor/internal/usecase"
)

const (
	headerSignature = "X-Signature"
	headerTimestamp = "X-Timestamp"
	headerNonce     = "X-Nonce"
)

type snapshotDealPayload struct {
	DealID     string           `json:"deal_id"`
	Symbol     string           `json:"symbol"`
	Side       string           `json:"side"`
	Volume     decimal.Decimal  `json:"volume"`
	OpenTime   time.Time        `json:"open_time"`
	CloseTime  *time.Time       `json:"close_time"`
	OpenPrice  decimal.Decimal  `json:"open_price"`
	ClosePrice *decimal.Decimal `json:"close_price"`
	Commission decimal.Decimal  `json:"commission"`
	Swap       decimal.Decimal  `json:"swap"`
	Fees       decimal.Decimal  `json:"fees"`
	Pnl        decimal.Decimal  `json:"pnl"`
	Status     string           `json:"status"`
	Magic      *int64           `json:"magic"`
	Comment    *string          `json:"comment"`
	RawJSON    json.RawMessage  `json:"raw_json"`
}

type snapshotPositionPayload struct {
	PositionID string          `json:"position_id"`
	Symbol     string          `json:"symbol"`
	Side       string          `json:"side"`
	Volume     decimal.Decimal `json:"volume"`
	OpenTime   time.Time       `json:"open_time"`
	OpenPrice  decimal.Decimal `json:"open_price"`
}

type snapshotAccountState struct {
	Balance  *decimal.Decimal `json:"balance"`
	Equity   *decimal.Decimal `json:"equity"`
	Currency string           `json:"currency"`
}

type snapshotRequest struct {
	AccountID    int64                     `json:"account_id"`
	AccountState *snapshotAccountState     `json:"account_state"`
	Deals        []snapshotDealPayload     `json:"deals"`
	Positions    []snapshotPositionPayload `json:"positions"`
}

type snapshotResponse struct {
	Status        string `json:"status"`
	AccountID     int64  `json:"account_id"`
	DealsUpserted int    `json:"deals_upserted"`
}

// ingestSnapshot godoc
// @Summary Ingest a signed MT5 snapshot batch
// @Description Verifies the HMAC-SHA256 signature over timestamp.nonce.body before
// @Description parsing anything else, then upserts deals and rebuilds daily metrics
// @Description in one transaction.
// @Tags ingest
// @Accept json
// @Produce json
// @Param X-Signature header string true "Hex HMAC-SHA256 signature"
// @Param X-Timestamp header string true "RFC 3339 timestamp"
// @Param X-Nonce header string true "Caller nonce"
// @Param request body snapshotRequest true "Snapshot"
// @Success 202 {object} snapshotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /ingest/mt5/snapshot [post]
func (r *Router) ingestSnapshot(c *fiber.Ctx) error {
	signature := c.Get(headerSignature)
	timestamp := c.Get(headerTimestamp)
	nonce := c.Get(headerNonce)
	if signature == "" || timestamp == "" || nonce == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing signature headers")
	}

	// The signature covers the exact bytes on the wire, so keep a copy of
	// the body before fiber recycles its buffer.
	body := append([]byte(nil), c.Body()...)

	var payload snapshotRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if payload.AccountID <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid account_id")
	}

	env := usecase.SnapshotEnvelope{
		AccountID: payload.AccountID,
		Body:      body,
		Signature: signature,
		Timestamp: timestamp,
		Nonce:     nonce,
		Deals:     make([]usecase.SnapshotDeal, 0, len(payload.Deals)),
		Positions: make([]usecase.SnapshotPosition, 0, len(payload.Positions)),
	}
	for _, deal := range payload.Deals {
		status := deal.Status
		if status == "" {
			status = "closed"
		}
		env.Deals = append(env.Deals, usecase.SnapshotDeal{
			ProviderTradeID: deal.DealID,
			Symbol:          deal.Symbol,
			Side:            deal.Side,
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
			Magic:           deal.Magic,
			Comment:         deal.Comment,
			Raw:             deal.RawJSON,
		})
	}
	for _, position := range payload.Positions {
		env.Positions = append(env.Positions, usecase.SnapshotPosition{
			PositionID: position.PositionID,
			Symbol:     position.Symbol,
			Side:       position.Side,
			Volume:     position.Volume,
			OpenTime:   position.OpenTime,
			OpenPrice:  position.OpenPrice,
		})
	}

	ctx, cancel := context.WithTimeout(userContext(c), 30*time.Second)
	defer cancel()

	result, err := r.ingest.IngestSnapshot(ctx, env)
	if err != nil {
		return httpError(err)
	}

	return c.Status(fiber.StatusAccepted).JSON(snapshotResponse{
		Status:        "accepted",
		AccountID:     result.AccountID,
		DealsUpserted: result.DealsUpserted,
	})
}
