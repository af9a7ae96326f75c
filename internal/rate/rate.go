package rate

import (
	"time"

	"github.com/shopspring/decimal"

	rateDatamodel "github.com/worktrack/payroll/internal/core/datamodel/rate"
)

// Rate is one entry of a user's rate ledger: the hourly rate that takes
// effect on ValidFrom (inclusive) and stays effective until a later entry
// supersedes it.
type Rate struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Rate      decimal.Decimal `json:"rate"`
	ValidFrom time.Time       `json:"valid_from"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ResolveOn returns the rate in effect on the given date: the entry with the
// latest ValidFrom not after onDate. The second return value is false when no
// entry qualifies (empty ledger, or every ValidFrom is in the future).
//
// Entries sharing a ValidFrom are broken by higher ID, so resolution stays
// deterministic regardless of storage order.
func ResolveOn(ledger []*Rate, onDate time.Time) (decimal.Decimal, bool) {
	day := truncateToDay(onDate)

	var best *Rate
	for _, r := range ledger {
		from := truncateToDay(r.ValidFrom)
		if from.After(day) {
			continue
		}
		if best == nil {
			best = r
			continue
		}
		bestFrom := truncateToDay(best.ValidFrom)
		if from.After(bestFrom) || (from.Equal(bestFrom) && r.ID > best.ID) {
			best = r
		}
	}

	if best == nil {
		return decimal.Zero, false
	}
	return best.Rate, true
}

// ResolveNow resolves against the current day, which is what the UI shows as
// a user's "current rate".
func ResolveNow(ledger []*Rate) (decimal.Decimal, bool) {
	return ResolveOn(ledger, time.Now())
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ToDataModel(r *Rate) *rateDatamodel.Rate {
	return &rateDatamodel.Rate{
		ID:        r.ID,
		UserID:    r.UserID,
		Rate:      r.Rate,
		ValidFrom: r.ValidFrom,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func FromDataModel(r *rateDatamodel.Rate) *Rate {
	return &Rate{
		ID:        r.ID,
		UserID:    r.UserID,
		Rate:      r.Rate,
		ValidFrom: r.ValidFrom,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func FromDataModelSlice(rates []*rateDatamodel.Rate) []*Rate {
	result := make([]*Rate, len(rates))
	for i, r := range rates {
		result[i] = FromDataModel(r)
	}
	return result
}
