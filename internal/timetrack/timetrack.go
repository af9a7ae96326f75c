package timetrack

import (
	"time"

	"github.com/shopspring/decimal"

	trackDatamodel "github.com/worktrack/payroll/internal/core/datamodel/timetrack"

	"github.com/worktrack/payroll/internal/rate"
)

// TimeTrack is one recorded unit of work: a calendar day, a duration in
// minutes and a payment flag. Date is the day the work happened; CreatedAt is
// when the record was written. Pricing always uses Date.
type TimeTrack struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Date      time.Time `json:"date"`
	Time      int       `json:"time"`
	Comment   string    `json:"comment"`
	WasPaid   bool      `json:"was_paid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PricedTimeTrack is a read-only projection of a track with its effective
// rate and earnings attached. The persisted entity is never mutated to carry
// computed values.
type PricedTimeTrack struct {
	TimeTrack
	Rate     decimal.Decimal `json:"rate"`
	Earnings decimal.Decimal `json:"earnings"`
}

var minutesPerHour = decimal.NewFromInt(60)

// PriceTrack computes (minutes / 60) * effective rate, resolving the rate on
// the track's work date. A track with no applicable rate prices to zero.
// Values keep full decimal precision; rounding happens only at presentation
// boundaries.
func PriceTrack(t *TimeTrack, ledger []*rate.Rate) PricedTimeTrack {
	effective, ok := rate.ResolveOn(ledger, t.Date)
	if !ok {
		return PricedTimeTrack{TimeTrack: *t, Rate: decimal.Zero, Earnings: decimal.Zero}
	}

	hours := decimal.NewFromInt(int64(t.Time)).Div(minutesPerHour)
	return PricedTimeTrack{
		TimeTrack: *t,
		Rate:      effective,
		Earnings:  hours.Mul(effective),
	}
}

func PriceTracks(tracks []*TimeTrack, ledger []*rate.Rate) []PricedTimeTrack {
	priced := make([]PricedTimeTrack, len(tracks))
	for i, t := range tracks {
		priced[i] = PriceTrack(t, ledger)
	}
	return priced
}

func ToDataModel(t *TimeTrack) *trackDatamodel.TimeTrack {
	return &trackDatamodel.TimeTrack{
		ID:        t.ID,
		UserID:    t.UserID,
		Date:      t.Date,
		Time:      t.Time,
		Comment:   t.Comment,
		WasPaid:   t.WasPaid,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModel(t *trackDatamodel.TimeTrack) *TimeTrack {
	return &TimeTrack{
		ID:        t.ID,
		UserID:    t.UserID,
		Date:      t.Date,
		Time:      t.Time,
		Comment:   t.Comment,
		WasPaid:   t.WasPaid,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromDataModelSlice(tracks []*trackDatamodel.TimeTrack) []*TimeTrack {
	result := make([]*TimeTrack, len(tracks))
	for i, t := range tracks {
		result[i] = FromDataModel(t)
	}
	return result
}
