package stats

import (
	"github.com/shopspring/decimal"

	"github.com/worktrack/payroll/internal/timetrack"
)

// UserRef carries the identity fields the aggregation output attaches to a
// per-user breakdown.
type UserRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// PeriodSummary describes one user's activity over a single window.
type PeriodSummary struct {
	TotalMinutes     int `json:"total_minutes"`
	TotalHours       int `json:"total_hours"`
	RemainingMinutes int `json:"remaining_minutes"`
	TotalTracks      int `json:"total_tracks"`
	PaidMinutes      int `json:"paid_minutes"`
	UnpaidMinutes    int `json:"unpaid_minutes"`
	// UniqueDays counts distinct calendar dates with at least one entry,
	// not the number of entries.
	UniqueDays     int             `json:"unique_days"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	PaidEarnings   decimal.Decimal `json:"paid_earnings"`
	UnpaidEarnings decimal.Decimal `json:"unpaid_earnings"`
	// UserRate is the rate in effect today, shown in the dashboard header.
	UserRate decimal.Decimal `json:"user_rate"`
}

// UserMonthBreakdown is one user's slice of a month bucket.
type UserMonthBreakdown struct {
	Name           string                      `json:"name"`
	Position       string                      `json:"position"`
	TotalMinutes   int                         `json:"total_minutes"`
	PaidMinutes    int                         `json:"paid_minutes"`
	UnpaidMinutes  int                         `json:"unpaid_minutes"`
	TotalEarnings  decimal.Decimal             `json:"total_earnings"`
	PaidEarnings   decimal.Decimal             `json:"paid_earnings"`
	UnpaidEarnings decimal.Decimal             `json:"unpaid_earnings"`
	Rate           decimal.Decimal             `json:"rate"`
	Tracks         []timetrack.PricedTimeTrack `json:"tracks"`
}

// MonthlySummary is one calendar-month bucket, optionally rolled up across a
// cohort of users. Users is keyed by UserID, never by formatted strings.
type MonthlySummary struct {
	Month          string                        `json:"month"`
	TotalMinutes   int                           `json:"total_minutes"`
	PaidMinutes    int                           `json:"paid_minutes"`
	UnpaidMinutes  int                           `json:"unpaid_minutes"`
	TotalTracks    int                           `json:"total_tracks"`
	PaidTracks     int                           `json:"paid_tracks"`
	TotalEarnings  decimal.Decimal               `json:"total_earnings"`
	PaidEarnings   decimal.Decimal               `json:"paid_earnings"`
	UnpaidEarnings decimal.Decimal               `json:"unpaid_earnings"`
	Users          map[int64]*UserMonthBreakdown `json:"users"`
}

// EarningsPoint is a presentation-boundary value: earnings rounded to whole
// currency units, hours to two decimals. Rounding happens exactly once, here.
type EarningsPoint struct {
	Month    string  `json:"month"`
	Earnings int64   `json:"earnings"`
	Hours    float64 `json:"hours"`
}

// EarningsSeries is the 12-month analytics payload with derived statistics.
// Averages exclude months without activity from the denominator; maxima
// consider every month and default to zero.
type EarningsSeries struct {
	Months          []EarningsPoint `json:"months"`
	ActiveMonths    int             `json:"active_months"`
	AverageEarnings int64           `json:"average_earnings"`
	MaxEarnings     int64           `json:"max_earnings"`
	AverageHours    float64         `json:"average_hours"`
	MaxHours        float64         `json:"max_hours"`
}
