package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trade_monitor/internal/domain"
)

const equityCurveMethod = "balance_from_closed_trades"

// AnalyticsService answers stats and equity-curve queries straight off the
// closed-trade ledger.
type AnalyticsService struct {
	accountRepo domain.AccountRepository
	tradeRepo   domain.TradeRepository
	timezone    *time.Location
	now         func() time.Time
}

func NewAnalyticsService(accountRepo domain.AccountRepository, tradeRepo domain.TradeRepository, timezone *time.Location) (*AnalyticsService, error) {
	if accountRepo == nil {
		return nil, errors.New("account repository required")
	}
	if tradeRepo == nil {
		return nil, errors.New("trade repository required")
	}
	if timezone == nil {
		timezone = time.UTC
	}
	return &AnalyticsService{
		accountRepo: accountRepo,
		tradeRepo:   tradeRepo,
		timezone:    timezone,
		now:         time.Now,
	}, nil
}

func (s *AnalyticsService) Stats(ctx context.Context, userID, accountID int64, rangeToken string) (domain.Stats, error) {
	if _, err := s.accountRepo.GetAccount(ctx, userID, accountID); err != nil {
		return domain.Stats{}, err
	}

	cutoff, err := domain.ParseRangeToken(rangeToken, s.now().UTC())
	if err != nil {
		return domain.Stats{}, err
	}

	trades, err := s.tradeRepo.ListClosedTrades(ctx, accountID, cutoff, nil)
	if err != nil {
		return domain.Stats{}, err
	}

	return computeStatsFromClosedTrades(trades), nil
}

// EquityCurve replays closed trades in close-time order and records the
// cumulative balance per hour or day bucket in the configured timezone.
// Later trades in the same bucket overwrite its value: a bucket holds the
// end-of-bucket balance.
func (s *AnalyticsService) EquityCurve(ctx context.Context, userID, accountID int64, from, to *time.Time, granularity domain.Granularity, startBalance decimal.Decimal) (domain.EquityCurve, error) {
	if _, err := s.accountRepo.GetAccount(ctx, userID, accountID); err != nil {
		return domain.EquityCurve{}, err
	}

	trades, err := s.tradeRepo.ListClosedTrades(ctx, accountID, from, to)
	if err != nil {
		return domain.EquityCurve{}, err
	}

	buckets := make(map[time.Time]decimal.Decimal)
	cumulative := startBalance

	for _, trade := range trades {
		if trade.CloseTime == nil {
			continue
		}
		cumulative = cumulative.Add(trade.NetPnl())

		local := trade.CloseTime.In(s.timezone)
		var bucket time.Time
		if granularity == domain.GranularityHour {
			bucket = time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, s.timezone)
		} else {
			bucket = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.timezone)
		}
		buckets[bucket.UTC()] = cumulative
	}

	points := make([]domain.EquityPoint, 0, len(buckets))
	for ts, balance := range buckets {
		points = append(points, domain.EquityPoint{TS: ts, Balance: balance})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].TS.Before(points[j].TS)
	})

	return domain.EquityCurve{Points: points, Method: equityCurveMethod}, nil
}
