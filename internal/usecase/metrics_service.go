package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trade_monitor/internal/domain"
)

// MetricsService owns the derived daily rows. Recompute is a full rebuild:
// every call deletes and regenerates all rows for the account from the
// closed-trade ledger, which makes it idempotent and order-independent.
type MetricsService struct {
	accountRepo domain.AccountRepository
	tradeRepo   domain.TradeRepository
	metricRepo  domain.MetricRepository
	timezone    *time.Location
}

func NewMetricsService(accountRepo domain.AccountRepository, tradeRepo domain.TradeRepository, metricRepo domain.MetricRepository, timezone *time.Location) (*MetricsService, error) {
	if accountRepo == nil {
		return nil, errors.New("account repository required")
	}
	if tradeRepo == nil {
		return nil, errors.New("trade repository required")
	}
	if metricRepo == nil {
		return nil, errors.New("metric repository required")
	}
	if timezone == nil {
		timezone = time.UTC
	}
	return &MetricsService{
		accountRepo: accountRepo,
		tradeRepo:   tradeRepo,
		metricRepo:  metricRepo,
		timezone:    timezone,
	}, nil
}

func (s *MetricsService) Recompute(ctx context.Context, accountID int64) error {
	trades, err := s.tradeRepo.ListClosedTrades(ctx, accountID, nil, nil)
	if err != nil {
		return err
	}

	rows := buildDailyMetrics(accountID, trades, s.timezone)
	return s.metricRepo.ReplaceDailyMetrics(ctx, accountID, rows)
}

func (s *MetricsService) ListDaily(ctx context.Context, userID, accountID int64, from, to *time.Time) ([]domain.DailyMetric, error) {
	if _, err := s.accountRepo.GetAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	return s.metricRepo.ListDailyMetrics(ctx, accountID, from, to)
}

// buildDailyMetrics buckets closed trades by the calendar date of their
// close time in the given timezone. Trades without a close time cannot be
// bucketed and contribute nothing.
func buildDailyMetrics(accountID int64, trades []domain.Trade, tz *time.Location) []domain.DailyMetric {
	grouped := make(map[time.Time]*domain.DailyMetric)

	for _, trade := range trades {
		if trade.CloseTime == nil {
			continue
		}

		local := trade.CloseTime.In(tz)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

		row, ok := grouped[day]
		if !ok {
			row = &domain.DailyMetric{
				AccountID:   accountID,
				Date:        day,
				RealizedPnl: decimal.Zero,
				Commissions: decimal.Zero,
				Swaps:       decimal.Zero,
				Fees:        decimal.Zero,
				NetPnl:      decimal.Zero,
			}
			grouped[day] = row
		}

		row.RealizedPnl = row.RealizedPnl.Add(trade.Pnl)
		row.Commissions = row.Commissions.Add(trade.Commission)
		row.Swaps = row.Swaps.Add(trade.Swap)
		row.Fees = row.Fees.Add(trade.Fees)
		row.NetPnl = row.NetPnl.Add(trade.NetPnl())
	}

	rows := make([]domain.DailyMetric, 0, len(grouped))
	for _, row := range grouped {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	return rows
}
