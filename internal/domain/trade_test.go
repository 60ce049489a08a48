package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseTradeSide(t *testing.T) {
	if side, err := ParseTradeSide(" BUY "); err != nil || side != TradeSideBuy {
		t.Fatalf("expected buy, got %q err %v", side, err)
	}
	if _, err := ParseTradeSide("long"); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected bad request for unknown side, got %v", err)
	}
}

func TestParseTradeStatus(t *testing.T) {
	if status, err := ParseTradeStatus("Closed"); err != nil || status != TradeStatusClosed {
		t.Fatalf("expected closed, got %q err %v", status, err)
	}
	if _, err := ParseTradeStatus("pending"); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected bad request for unknown status, got %v", err)
	}
}

func TestParseBrokerProvider(t *testing.T) {
	if provider, err := ParseBrokerProvider("ctrader"); err != nil || provider != ProviderCTrader {
		t.Fatalf("expected CTrader, got %q err %v", provider, err)
	}
	if _, err := ParseBrokerProvider("mt4"); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected bad request for unknown provider, got %v", err)
	}
}

func TestNetPnl(t *testing.T) {
	trade := Trade{
		Pnl:        decimal.RequireFromString("100"),
		Commission: decimal.RequireFromString("3"),
		Swap:       decimal.RequireFromString("1.5"),
		Fees:       decimal.RequireFromString("0.5"),
	}
	if net := trade.NetPnl(); !net.Equal(decimal.RequireFromString("95")) {
		t.Fatalf("expected net 95, got %s", net)
	}
}

func TestEffectiveTimeFallsBackToOpenTime(t *testing.T) {
	open := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	trade := Trade{OpenTime: open}
	if !trade.EffectiveTime().Equal(open) {
		t.Fatalf("expected open time fallback")
	}

	closed := open.Add(time.Hour)
	trade.CloseTime = &closed
	if !trade.EffectiveTime().Equal(closed) {
		t.Fatalf("expected close time when present")
	}
}

func TestParseRangeToken(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	cutoff, err := ParseRangeToken("7d", now)
	if err != nil {
		t.Fatalf("parse 7d: %v", err)
	}
	if cutoff == nil || !cutoff.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("unexpected 7d cutoff: %v", cutoff)
	}

	cutoff, err = ParseRangeToken("all", now)
	if err != nil {
		t.Fatalf("parse all: %v", err)
	}
	if cutoff != nil {
		t.Fatalf("expected nil cutoff for all, got %v", cutoff)
	}

	if _, err := ParseRangeToken("14d", now); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected bad request for unknown token, got %v", err)
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	session := Session{ExpiresAt: now.Add(time.Minute)}
	if session.Expired(now) {
		t.Fatalf("session should still be valid")
	}
	if !session.Expired(now.Add(2 * time.Minute)) {
		t.Fatalf("session should be expired")
	}
}
