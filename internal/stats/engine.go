package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/worktrack/payroll/internal/rate"
	"github.com/worktrack/payroll/internal/timetrack"
)

// Pure aggregation over already-loaded tracks and ledgers. Every function in
// this file is deterministic for a fixed input snapshot; re-running against
// an unchanged ledger always yields the same figures.

const monthKeyLayout = "2006-01"

// SummarizePeriod folds one user's tracks into a period summary. Each track
// is priced with the rate effective on its own work date, so a mid-period
// rate change applies only to entries dated on or after it.
func SummarizePeriod(tracks []*timetrack.TimeTrack, ledger []*rate.Rate) PeriodSummary {
	summary := PeriodSummary{
		TotalEarnings:  decimal.Zero,
		PaidEarnings:   decimal.Zero,
		UnpaidEarnings: decimal.Zero,
		UserRate:       decimal.Zero,
	}

	if current, ok := rate.ResolveNow(ledger); ok {
		summary.UserRate = current
	}

	days := make(map[string]struct{})
	for _, track := range tracks {
		priced := timetrack.PriceTrack(track, ledger)

		summary.TotalMinutes += track.Time
		summary.TotalTracks++
		summary.TotalEarnings = summary.TotalEarnings.Add(priced.Earnings)
		days[track.Date.Format(time.DateOnly)] = struct{}{}

		if track.WasPaid {
			summary.PaidMinutes += track.Time
			summary.PaidEarnings = summary.PaidEarnings.Add(priced.Earnings)
		} else {
			summary.UnpaidMinutes += track.Time
			summary.UnpaidEarnings = summary.UnpaidEarnings.Add(priced.Earnings)
		}
	}

	summary.TotalHours = summary.TotalMinutes / 60
	summary.RemainingMinutes = summary.TotalMinutes % 60
	summary.UniqueDays = len(days)

	return summary
}

// MonthStart returns the first instant of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// TrailingMonths returns the n calendar months ending at the month of now,
// oldest first. The current month is included.
func TrailingMonths(now time.Time, n int) []time.Time {
	months := make([]time.Time, 0, n)
	current := MonthStart(now)
	for i := n - 1; i >= 0; i-- {
		months = append(months, current.AddDate(0, -i, 0))
	}
	return months
}

// SummarizeMonths buckets each user's tracks into the given months and rolls
// the cohort up per bucket. Every user's entries resolve against that user's
// own ledger.
func SummarizeMonths(
	months []time.Time,
	tracksByUser map[int64][]*timetrack.TimeTrack,
	ledgersByUser map[int64][]*rate.Rate,
	users map[int64]UserRef,
) []MonthlySummary {
	summaries := make([]MonthlySummary, 0, len(months))

	for _, month := range months {
		monthEnd := month.AddDate(0, 1, 0)

		summary := MonthlySummary{
			Month:          month.Format(monthKeyLayout),
			TotalEarnings:  decimal.Zero,
			PaidEarnings:   decimal.Zero,
			UnpaidEarnings: decimal.Zero,
			Users:          make(map[int64]*UserMonthBreakdown),
		}

		for userID, tracks := range tracksByUser {
			ledger := ledgersByUser[userID]

			for _, track := range tracks {
				day := track.Date
				if day.Before(month) || !day.Before(monthEnd) {
					continue
				}

				breakdown, ok := summary.Users[userID]
				if !ok {
					ref := users[userID]
					currentRate := decimal.Zero
					if resolved, found := rate.ResolveNow(ledger); found {
						currentRate = resolved
					}
					breakdown = &UserMonthBreakdown{
						Name:           ref.Name,
						Position:       ref.Position,
						TotalEarnings:  decimal.Zero,
						PaidEarnings:   decimal.Zero,
						UnpaidEarnings: decimal.Zero,
						Rate:           currentRate,
					}
					summary.Users[userID] = breakdown
				}

				priced := timetrack.PriceTrack(track, ledger)

				breakdown.TotalMinutes += track.Time
				breakdown.TotalEarnings = breakdown.TotalEarnings.Add(priced.Earnings)
				breakdown.Tracks = append(breakdown.Tracks, priced)

				summary.TotalMinutes += track.Time
				summary.TotalTracks++
				summary.TotalEarnings = summary.TotalEarnings.Add(priced.Earnings)

				if track.WasPaid {
					breakdown.PaidMinutes += track.Time
					breakdown.PaidEarnings = breakdown.PaidEarnings.Add(priced.Earnings)
					summary.PaidMinutes += track.Time
					summary.PaidEarnings = summary.PaidEarnings.Add(priced.Earnings)
					summary.PaidTracks++
				} else {
					breakdown.UnpaidMinutes += track.Time
					breakdown.UnpaidEarnings = breakdown.UnpaidEarnings.Add(priced.Earnings)
					summary.UnpaidMinutes += track.Time
					summary.UnpaidEarnings = summary.UnpaidEarnings.Add(priced.Earnings)
				}
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries
}

// BuildEarningsSeries converts month buckets into the analytics series.
// Earnings and hours keep full precision through accumulation and round only
// here. The average divides by active months only; the maximum scans every
// month and is zero for an entirely idle year.
func BuildEarningsSeries(summaries []MonthlySummary) EarningsSeries {
	series := EarningsSeries{Months: make([]EarningsPoint, 0, len(summaries))}

	totalEarnings := decimal.Zero
	totalMinutes := 0

	for _, summary := range summaries {
		hours := float64(summary.TotalMinutes) / 60
		point := EarningsPoint{
			Month:    summary.Month,
			Earnings: summary.TotalEarnings.Round(0).IntPart(),
			Hours:    roundHours(hours),
		}
		series.Months = append(series.Months, point)

		if summary.TotalMinutes > 0 || summary.TotalEarnings.IsPositive() {
			series.ActiveMonths++
			totalEarnings = totalEarnings.Add(summary.TotalEarnings)
			totalMinutes += summary.TotalMinutes
		}

		if point.Earnings > series.MaxEarnings {
			series.MaxEarnings = point.Earnings
		}
		if point.Hours > series.MaxHours {
			series.MaxHours = point.Hours
		}
	}

	if series.ActiveMonths > 0 {
		activeCount := decimal.NewFromInt(int64(series.ActiveMonths))
		series.AverageEarnings = totalEarnings.Div(activeCount).Round(0).IntPart()
		series.AverageHours = roundHours(float64(totalMinutes) / 60 / float64(series.ActiveMonths))
	}

	return series
}

func roundHours(hours float64) float64 {
	return float64(int64(hours*100+0.5)) / 100
}
