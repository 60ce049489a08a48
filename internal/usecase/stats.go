package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"trade_monitor/internal/domain"
)

// computeStatsFromClosedTrades derives windowed performance statistics from
// a set of closed trades. Pure function; all monetary math is decimal.
//
// Replay order is close_time ascending with open_time as fallback. A trade
// with net == 0 counts toward the total but is neither a win nor a loss,
// and it resets both running streaks.
func computeStatsFromClosedTrades(trades []domain.Trade) domain.Stats {
	ordered := make([]domain.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectiveTime().Before(ordered[j].EffectiveTime())
	})

	var (
		grossProfit = decimal.Zero
		grossLoss   = decimal.Zero
		netSum      = decimal.Zero
		wins        int
		losses      int

		equity      = decimal.Zero
		peak        = decimal.Zero
		maxDrawdown = decimal.Zero

		winStreak     int
		lossStreak    int
		maxWinStreak  int
		maxLossStreak int
	)
	byDay := make(map[string]decimal.Decimal)

	for _, trade := range ordered {
		net := trade.NetPnl()
		netSum = netSum.Add(net)

		switch {
		case net.IsPositive():
			wins++
			grossProfit = grossProfit.Add(net)
			winStreak++
			lossStreak = 0
			if winStreak > maxWinStreak {
				maxWinStreak = winStreak
			}
		case net.IsNegative():
			losses++
			grossLoss = grossLoss.Add(net)
			lossStreak++
			winStreak = 0
			if lossStreak > maxLossStreak {
				maxLossStreak = lossStreak
			}
		default:
			winStreak = 0
			lossStreak = 0
		}

		equity = equity.Add(net)
		if equity.GreaterThan(peak) {
			peak = equity
		}
		if dd := peak.Sub(equity); dd.GreaterThan(maxDrawdown) {
			maxDrawdown = dd
		}

		if trade.CloseTime != nil {
			day := trade.CloseTime.UTC().Format("2006-01-02")
			byDay[day] = byDay[day].Add(net)
		}
	}

	total := len(ordered)
	stats := domain.Stats{
		AvgWin:       decimal.Zero,
		AvgLoss:      decimal.Zero,
		Expectancy:   decimal.Zero,
		MaxDrawdown:  maxDrawdown,
		TotalTrades:  total,
		Wins:         wins,
		Losses:       losses,
		StreakWins:   maxWinStreak,
		StreakLosses: maxLossStreak,
	}

	if total > 0 {
		stats.WinRate = decimal.NewFromInt(int64(wins)).
			DivRound(decimal.NewFromInt(int64(total)), 4).
			InexactFloat64()
		stats.Expectancy = netSum.Div(decimal.NewFromInt(int64(total)))
	}
	if wins > 0 {
		stats.AvgWin = grossProfit.Div(decimal.NewFromInt(int64(wins)))
	}
	if losses > 0 {
		stats.AvgLoss = grossLoss.Div(decimal.NewFromInt(int64(losses)))
	}

	// Profit factor is undefined, not zero, when there are no losses.
	if grossLossAbs := grossLoss.Abs(); !grossLossAbs.IsZero() {
		pf := grossProfit.Div(grossLossAbs)
		stats.ProfitFactor = &pf
	}

	for _, sum := range byDay {
		sum := sum
		if stats.BestDay == nil || sum.GreaterThan(*stats.BestDay) {
			stats.BestDay = &sum
		}
		if stats.WorstDay == nil || sum.LessThan(*stats.WorstDay) {
			stats.WorstDay = &sum
		}
	}

	return stats
}
