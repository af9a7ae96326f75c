package stats_test

import (
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	userDatamodel "github.com/worktrack/payroll/internal/core/datamodel/user"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/rate"
	"github.com/worktrack/payroll/internal/stats"
	"github.com/worktrack/payroll/internal/timetrack"
)

type mockTrackSource struct {
	tracks map[int64][]*timetrack.TimeTrack
}

func (m *mockTrackSource) TracksInRange(userID int64, from, to time.Time) ([]*timetrack.TimeTrack, error) {
	var result []*timetrack.TimeTrack
	for _, t := range m.tracks[userID] {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

type mockLedgerSource struct {
	ledgers map[int64][]*rate.Rate
}

func (m *mockLedgerSource) LedgerForUser(userID int64) ([]*rate.Rate, error) {
	return m.ledgers[userID], nil
}

type mockUserSource struct {
	users map[int64]*userDatamodel.User
}

func (m *mockUserSource) GetByID(id int64) (*userDatamodel.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserSource) GetAll() ([]*userDatamodel.User, error) {
	var result []*userDatamodel.User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

var _ = Describe("PeriodQuery Window", func() {
	now := day("2025-08-13").Add(10 * time.Hour) // a Wednesday

	It("defaults to today", func() {
		from, to, err := stats.PeriodQuery{}.Window(now)
		Expect(err).NotTo(HaveOccurred())
		Expect(from).To(Equal(day("2025-08-13")))
		Expect(to).To(Equal(day("2025-08-13")))
	})

	It("starts the week on Sunday", func() {
		from, to, err := stats.PeriodQuery{Period: "week"}.Window(now)
		Expect(err).NotTo(HaveOccurred())
		Expect(from).To(Equal(day("2025-08-10")))
		Expect(to).To(Equal(day("2025-08-16")))
	})

	It("covers the whole calendar month", func() {
		from, to, err := stats.PeriodQuery{Period: "month"}.Window(now)
		Expect(err).NotTo(HaveOccurred())
		Expect(from).To(Equal(day("2025-08-01")))
		Expect(to).To(Equal(day("2025-08-31")))
	})

	It("prefers an explicit date range over the period", func() {
		from, to, err := stats.PeriodQuery{
			Period:    "week",
			StartDate: "2025-01-01",
			EndDate:   "2025-01-31",
		}.Window(now)
		Expect(err).NotTo(HaveOccurred())
		Expect(from).To(Equal(day("2025-01-01")))
		Expect(to).To(Equal(day("2025-01-31")))
	})

	It("rejects an unknown period", func() {
		_, _, err := stats.PeriodQuery{Period: "quarter"}.Window(now)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
	})

	It("rejects malformed custom dates", func() {
		_, _, err := stats.PeriodQuery{StartDate: "01-01-2025", EndDate: "2025-01-31"}.Window(now)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
	})
})

var _ = Describe("Stats Service", func() {
	var (
		service *stats.Service

		admin     = auth.Actor{ID: 1, Role: auth.RoleAdmin}
		moderator = auth.Actor{ID: 2, Role: auth.RoleModerator}
		worker    = auth.Actor{ID: 3, Role: auth.RoleUser}
		other     = auth.Actor{ID: 4, Role: auth.RoleUser}
	)

	BeforeEach(func() {
		today := time.Now().UTC().Format(time.DateOnly)

		tracks := &mockTrackSource{tracks: map[int64][]*timetrack.TimeTrack{
			worker.ID: {track(worker.ID, today, 60, false)},
			other.ID:  {track(other.ID, today, 120, true)},
		}}
		ledgers := &mockLedgerSource{ledgers: map[int64][]*rate.Rate{
			worker.ID: {ledgerEntry(1, "1000", "2020-01-01")},
			other.ID:  {ledgerEntry(2, "2000", "2020-01-01")},
		}}
		users := &mockUserSource{users: map[int64]*userDatamodel.User{
			worker.ID: {ID: worker.ID, Name: "Worker", Role: "user"},
			other.ID:  {ID: other.ID, Name: "Other", Role: "user"},
		}}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = stats.NewService(tracks, ledgers, users, logger)
	})

	Describe("PeriodStatistics", func() {
		It("defaults to the actor's own figures", func() {
			summary, err := service.PeriodStatistics(worker, stats.PeriodQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.TotalMinutes).To(Equal(60))
			Expect(summary.UserRate.Equal(decimal.RequireFromString("1000"))).To(BeTrue())
		})

		It("refuses a plain user reading another user's figures", func() {
			_, err := service.PeriodStatistics(worker, stats.PeriodQuery{UserID: other.ID})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("allows staff to read any user's figures", func() {
			summary, err := service.PeriodStatistics(moderator, stats.PeriodQuery{UserID: other.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.TotalMinutes).To(Equal(120))
			Expect(summary.PaidMinutes).To(Equal(120))
		})
	})

	Describe("MonthlyStatistics", func() {
		It("produces one bucket per trailing month, oldest first", func() {
			summaries, err := service.MonthlyStatistics(worker, stats.MonthlyScope{})
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(12))
			Expect(summaries[11].Month).To(Equal(time.Now().UTC().Format("2006-01")))
			Expect(summaries[11].TotalMinutes).To(Equal(60))
		})

		It("restricts the cohort rollup to staff", func() {
			_, err := service.MonthlyStatistics(worker, stats.MonthlyScope{All: true})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("rolls every user into the cohort buckets", func() {
			summaries, err := service.MonthlyStatistics(admin, stats.MonthlyScope{All: true})
			Expect(err).NotTo(HaveOccurred())

			current := summaries[len(summaries)-1]
			Expect(current.TotalMinutes).To(Equal(180))
			Expect(current.Users).To(HaveKey(worker.ID))
			Expect(current.Users).To(HaveKey(other.ID))
			// 60 min at 1000 plus 120 min at 2000
			Expect(current.TotalEarnings.Equal(decimal.RequireFromString("5000"))).To(BeTrue())
		})

		It("reports an unknown target user", func() {
			_, err := service.MonthlyStatistics(admin, stats.MonthlyScope{UserID: 999})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("MonthlyEarnings", func() {
		It("derives the series from the actor's own months", func() {
			series, err := service.MonthlyEarnings(worker, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(series.Months).To(HaveLen(12))
			Expect(series.ActiveMonths).To(Equal(1))
			Expect(series.AverageEarnings).To(Equal(int64(1000)))
			Expect(series.MaxEarnings).To(Equal(int64(1000)))
		})

		It("refuses cross-user access for plain users", func() {
			_, err := service.MonthlyEarnings(worker, other.ID)
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})
})
