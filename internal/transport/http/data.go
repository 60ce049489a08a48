package http

import (
	"context"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"trade_monitor/internal/domain"
)

const (
	defaultTradeLimit = 100
	maxTradeLimit     = 1000
)

type tradeListResponse struct {
	Items []domain.Trade `json:"items"`
	Total int64          `json:"total"`
}

type dailyMetricsResponse struct {
	Items []domain.DailyMetric `json:"items"`
}

// listTrades godoc
// @Summary List trades for an account
// @Tags data
// @Produce json
// @Param account_id path int true "Account ID"
// @Param from query string false "Close time lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Close time upper bound (RFC 3339 or YYYY-MM-DD)"
// @Param symbol query string false "Symbol, case-insensitive"
// @Param pnl query string false "positive or negative"
// @Param type query string false "deal or order"
// @Param limit query int false "Page size, default 100, max 1000"
// @Param offset query int false "Page offset"
// @Success 200 {object} tradeListResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /accounts/{account_id}/trades [get]
func (r *Router) listTrades(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}

	filter := domain.TradeFilter{Symbol: c.Query("symbol")}

	if filter.From, err = queryTime(c, "from"); err != nil {
		return err
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return err
	}
	if raw := c.Query("pnl"); raw != "" {
		if filter.PnlSign, err = domain.ParsePnlSign(raw); err != nil {
			return httpError(err)
		}
	}
	if raw := c.Query("type"); raw != "" {
		if filter.RecordType, err = domain.ParseTradeRecordType(raw); err != nil {
			return httpError(err)
		}
	}
	if filter.Limit, err = queryInt(c, "limit", defaultTradeLimit); err != nil {
		return err
	}
	if filter.Limit < 1 || filter.Limit > maxTradeLimit {
		return fiber.NewError(fiber.StatusBadRequest, "limit out of range")
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		return err
	}
	if filter.Offset < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "offset out of range")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	trades, total, err := r.accounts.ListTrades(ctx, currentUser(c).ID, accountID, filter)
	if err != nil {
		return httpError(err)
	}
	if trades == nil {
		trades = []domain.Trade{}
	}

	return c.JSON(tradeListResponse{Items: trades, Total: total})
}

// listDailyMetrics godoc
// @Summary List derived daily metric rows for an account
// @Tags data
// @Produce json
// @Param account_id path int true "Account ID"
// @Param from query string false "Date lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Date upper bound (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} dailyMetricsResponse
// @Failure 404 {object} map[string]string
// @Router /accounts/{account_id}/daily-metrics [get]
func (r *Router) listDailyMetrics(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}

	from, err := queryTime(c, "from")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	rows, err := r.metrics.ListDaily(ctx, currentUser(c).ID, accountID, from, to)
	if err != nil {
		return httpError(err)
	}
	if rows == nil {
		rows = []domain.DailyMetric{}
	}

	return c.JSON(dailyMetricsResponse{Items: rows})
}

// equityCurve godoc
// @Summary Build the balance equity curve from closed trades
// @Tags data
// @Produce json
// @Param account_id path int true "Account ID"
// @Param from query string false "Close time lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Close time upper bound (RFC 3339 or YYYY-MM-DD)"
// @Param granularity query string false "hour or day, default day"
// @Param start_balance query number false "Replay starting balance, default 0"
// @Success 200 {object} domain.EquityCurve
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /accounts/{account_id}/equity-curve [get]
func (r *Router) equityCurve(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}

	from, err := queryTime(c, "from")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return err
	}

	granularity := domain.GranularityDay
	if raw := c.Query("granularity"); raw != "" {
		if granularity, err = domain.ParseGranularity(raw); err != nil {
			return httpError(err)
		}
	}

	startBalance := decimal.Zero
	if raw := c.Query("start_balance"); raw != "" {
		if startBalance, err = decimal.NewFromString(raw); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid start_balance")
		}
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	curve, err := r.analytics.EquityCurve(ctx, currentUser(c).ID, accountID, from, to, granularity, startBalance)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(curve)
}

// stats godoc
// @Summary Compute windowed performance statistics
// @Tags data
// @Produce json
// @Param account_id path int true "Account ID"
// @Param range query string false "7d, 30d, 90d or all, default 30d"
// @Success 200 {object} domain.Stats
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /accounts/{account_id}/stats [get]
func (r *Router) stats(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}

	rangeToken := c.Query("range")
	if rangeToken == "" {
		rangeToken = "30d"
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	result, err := r.analytics.Stats(ctx, currentUser(c).ID, accountID, rangeToken)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(result)
}

// queryTime parses an optional time query parameter, accepting RFC 3339
// and bare dates.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" parameter")
}

func queryInt(c *fiber.Ctx, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" parameter")
	}
	return value, nil
}
