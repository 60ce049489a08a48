package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trade_monitor/internal/domain"
)

func seedAnalytics(t *testing.T, tz *time.Location) (*AnalyticsService, *fakeAccountRepo, *fakeTradeRepo, domain.BrokerAccount) {
	t.Helper()

	accountRepo := newFakeAccountRepo()
	tradeRepo := newFakeTradeRepo()
	service, err := NewAnalyticsService(accountRepo, tradeRepo, tz)
	if err != nil {
		t.Fatalf("init service: %v", err)
	}
	account, err := accountRepo.CreateAccount(context.Background(), domain.BrokerAccount{UserID: 1, Provider: domain.ProviderMT5})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return service, accountRepo, tradeRepo, account
}

func seedClosedTrade(t *testing.T, repo *fakeTradeRepo, accountID int64, id, net string, closeTime time.Time) {
	t.Helper()

	trade := closedTrade(net, closeTime)
	trade.AccountID = accountID
	trade.ProviderTradeID = id
	if err := repo.UpsertDeal(context.Background(), trade); err != nil {
		t.Fatalf("seed trade %s: %v", id, err)
	}
}

func TestEquityCurveLastValueWinsPerBucket(t *testing.T) {
	service, _, tradeRepo, account := seedAnalytics(t, time.UTC)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seedClosedTrade(t, tradeRepo, account.ID, "d-1", "100", day.Add(9*time.Hour))
	seedClosedTrade(t, tradeRepo, account.ID, "d-2", "-30", day.Add(15*time.Hour))

	curve, err := service.EquityCurve(ctx, 1, account.ID, nil, nil, domain.GranularityDay, decimal.Zero)
	if err != nil {
		t.Fatalf("equity curve: %v", err)
	}

	if len(curve.Points) != 1 {
		t.Fatalf("expected 1 day bucket, got %d", len(curve.Points))
	}
	// The bucket holds the end-of-day balance, not the first trade's.
	if !curve.Points[0].Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected end-of-bucket balance 70, got %s", curve.Points[0].Balance)
	}
	if curve.Method != "balance_from_closed_trades" {
		t.Fatalf("unexpected method: %s", curve.Method)
	}
}

func TestEquityCurveHourGranularity(t *testing.T) {
	service, _, tradeRepo, account := seedAnalytics(t, time.UTC)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seedClosedTrade(t, tradeRepo, account.ID, "d-1", "100", day.Add(9*time.Hour+10*time.Minute))
	seedClosedTrade(t, tradeRepo, account.ID, "d-2", "-30", day.Add(15*time.Hour+45*time.Minute))

	curve, err := service.EquityCurve(ctx, 1, account.ID, nil, nil, domain.GranularityHour, decimal.Zero)
	if err != nil {
		t.Fatalf("equity curve: %v", err)
	}

	if len(curve.Points) != 2 {
		t.Fatalf("expected 2 hour buckets, got %d", len(curve.Points))
	}
	if !curve.Points[0].TS.Equal(day.Add(9 * time.Hour)) {
		t.Fatalf("expected first bucket at 09:00, got %s", curve.Points[0].TS)
	}
	if !curve.Points[0].Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected first bucket balance 100, got %s", curve.Points[0].Balance)
	}
	if !curve.Points[1].Balance.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected second bucket balance 70, got %s", curve.Points[1].Balance)
	}
}

func TestEquityCurveStartBalance(t *testing.T) {
	service, _, tradeRepo, account := seedAnalytics(t, time.UTC)
	ctx := context.Background()

	seedClosedTrade(t, tradeRepo, account.ID, "d-1", "-50", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	curve, err := service.EquityCurve(ctx, 1, account.ID, nil, nil, domain.GranularityDay, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("equity curve: %v", err)
	}

	if len(curve.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(curve.Points))
	}
	if !curve.Points[0].Balance.Equal(decimal.NewFromInt(950)) {
		t.Fatalf("expected balance 950, got %s", curve.Points[0].Balance)
	}
}

func TestStatsRangeWindow(t *testing.T) {
	service, _, tradeRepo, account := seedAnalytics(t, time.UTC)
	ctx := context.Background()

	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	seedClosedTrade(t, tradeRepo, account.ID, "old", "100", now.AddDate(0, 0, -60))
	seedClosedTrade(t, tradeRepo, account.ID, "recent", "-20", now.AddDate(0, 0, -3))

	stats, err := service.Stats(ctx, 1, account.ID, "30d")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalTrades != 1 {
		t.Fatalf("expected 1 trade inside the 30d window, got %d", stats.TotalTrades)
	}

	all, err := service.Stats(ctx, 1, account.ID, "all")
	if err != nil {
		t.Fatalf("stats all: %v", err)
	}
	if all.TotalTrades != 2 {
		t.Fatalf("expected 2 trades for all, got %d", all.TotalTrades)
	}
}

func TestStatsRejectsUnknownRange(t *testing.T) {
	service, _, _, account := seedAnalytics(t, time.UTC)

	_, err := service.Stats(context.Background(), 1, account.ID, "14d")
	if err == nil {
		t.Fatalf("expected error for unknown range token")
	}
}

func TestStatsRequiresOwnership(t *testing.T) {
	service, _, _, account := seedAnalytics(t, time.UTC)

	_, err := service.Stats(context.Background(), 2, account.ID, "30d")
	if err == nil {
		t.Fatalf("expected error for foreign account")
	}
}
