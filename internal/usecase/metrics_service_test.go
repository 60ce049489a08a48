package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trade_monitor/internal/domain"
)

func TestBuildDailyMetricsTimezoneBucketing(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}

	// 23:30 UTC on March 10 is already March 11 in Warsaw (UTC+1).
	late := closedTrade("10", time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))
	early := closedTrade("5", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	rows := buildDailyMetrics(1, []domain.Trade{late, early}, warsaw)

	if len(rows) != 2 {
		t.Fatalf("expected 2 daily rows, got %d", len(rows))
	}
	if got := rows[0].Date.Format("2006-01-02"); got != "2025-03-10" {
		t.Fatalf("unexpected first row date: %s", got)
	}
	if got := rows[1].Date.Format("2006-01-02"); got != "2025-03-11" {
		t.Fatalf("unexpected second row date: %s", got)
	}
	if !rows[1].NetPnl.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("late trade should land on the next local day, got %s", rows[1].NetPnl)
	}
}

func TestBuildDailyMetricsSumMatchesLedger(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	trades := []domain.Trade{
		closedTrade("100", base),
		closedTrade("-40", base.Add(2*time.Hour)),
		closedTrade("25", base.Add(26*time.Hour)),
	}
	trades[0].Commission = decimal.RequireFromString("2")
	trades[1].Swap = decimal.RequireFromString("1.5")

	rows := buildDailyMetrics(1, trades, time.UTC)

	rowSum := decimal.Zero
	for _, row := range rows {
		rowSum = rowSum.Add(row.NetPnl)
	}
	ledgerSum := decimal.Zero
	for _, trade := range trades {
		ledgerSum = ledgerSum.Add(trade.NetPnl())
	}
	if !rowSum.Equal(ledgerSum) {
		t.Fatalf("daily rows sum %s, ledger sum %s", rowSum, ledgerSum)
	}
}

func TestBuildDailyMetricsSkipsTradesWithoutCloseTime(t *testing.T) {
	open := domain.Trade{
		Symbol:   "EURUSD",
		Side:     domain.TradeSideBuy,
		Status:   domain.TradeStatusClosed,
		OpenTime: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Pnl:      decimal.RequireFromString("10"),
	}

	rows := buildDailyMetrics(1, []domain.Trade{open}, time.UTC)

	if len(rows) != 0 {
		t.Fatalf("expected no rows for trades without close time, got %d", len(rows))
	}
}

func TestRecomputeReplacesRows(t *testing.T) {
	ctx := context.Background()
	accountRepo := newFakeAccountRepo()
	tradeRepo := newFakeTradeRepo()
	metricRepo := newFakeMetricRepo()

	service, err := NewMetricsService(accountRepo, tradeRepo, metricRepo, time.UTC)
	if err != nil {
		t.Fatalf("init service: %v", err)
	}

	account, _ := accountRepo.CreateAccount(ctx, domain.BrokerAccount{UserID: 1, Provider: domain.ProviderMT5})

	first := closedTrade("10", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	first.AccountID = account.ID
	first.ProviderTradeID = "d-1"
	if err := tradeRepo.UpsertDeal(ctx, first); err != nil {
		t.Fatalf("seed trade: %v", err)
	}
	if err := service.Recompute(ctx, account.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	// Re-ingesting the same deal with a new pnl must not double-count.
	first.Pnl = decimal.RequireFromString("30")
	if err := tradeRepo.UpsertDeal(ctx, first); err != nil {
		t.Fatalf("reseed trade: %v", err)
	}
	if err := service.Recompute(ctx, account.ID); err != nil {
		t.Fatalf("recompute again: %v", err)
	}

	rows, err := service.ListDaily(ctx, 1, account.ID, nil, nil)
	if err != nil {
		t.Fatalf("list daily: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].NetPnl.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected net pnl 30 after rebuild, got %s", rows[0].NetPnl)
	}
}

func TestListDailyRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	accountRepo := newFakeAccountRepo()
	service, err := NewMetricsService(accountRepo, newFakeTradeRepo(), newFakeMetricRepo(), time.UTC)
	if err != nil {
		t.Fatalf("init service: %v", err)
	}

	account, _ := accountRepo.CreateAccount(ctx, domain.BrokerAccount{UserID: 1, Provider: domain.ProviderMT5})

	if _, err := service.ListDaily(ctx, 2, account.ID, nil, nil); err == nil {
		t.Fatalf("expected error for foreign account")
	}
}
