package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stats is the windowed performance summary for one account.
// ProfitFactor, BestDay and WorstDay are nil when undefined, which is a
// deliberate signal rather than zero.
type Stats struct {
	WinRate      float64          `json:"win_rate"`
	ProfitFactor *decimal.Decimal `json:"profit_factor"`
	AvgWin       decimal.Decimal  `json:"avg_win"`
	AvgLoss      decimal.Decimal  `json:"avg_loss"`
	Expectancy   decimal.Decimal  `json:"expectancy"`
	BestDay      *decimal.Decimal `json:"best_day"`
	WorstDay     *decimal.Decimal `json:"worst_day"`
	MaxDrawdown  decimal.Decimal  `json:"max_drawdown"`
	TotalTrades  int              `json:"total_trades"`
	Wins         int              `json:"wins"`
	Losses       int              `json:"losses"`
	StreakWins   int              `json:"streak_wins"`
	StreakLosses int              `json:"streak_losses"`
}

type EquityPoint struct {
	TS      time.Time       `json:"ts"`
	Balance decimal.Decimal `json:"balance"`
}

type EquityCurve struct {
	Points []EquityPoint `json:"points"`
	Method string        `json:"method"`
}

type Granularity string

const (
	GranularityDay  Granularity = "day"
	GranularityHour Granularity = "hour"
)

func ParseGranularity(value string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "day":
		return GranularityDay, nil
	case "hour":
		return GranularityHour, nil
	default:
		return "", fmt.Errorf("%w: unknown granularity %q", ErrBadRequest, value)
	}
}

// ParseRangeToken resolves a relative stats window token to a cutoff before
// now. A nil cutoff means the whole history.
func ParseRangeToken(token string, now time.Time) (*time.Time, error) {
	days := map[string]int{"7d": 7, "30d": 30, "90d": 90}
	if token == "all" {
		return nil, nil
	}
	d, ok := days[token]
	if !ok {
		return nil, fmt.Errorf("%w: unknown range %q", ErrBadRequest, token)
	}
	cutoff := now.AddDate(0, 0, -d)
	return &cutoff, nil
}
