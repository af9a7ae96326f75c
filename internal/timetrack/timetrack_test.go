package timetrack_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/worktrack/payroll/internal/rate"
	"github.com/worktrack/payroll/internal/timetrack"
)

func TestTimeTrack(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TimeTrack Suite")
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func ledgerEntry(id int64, amount, validFrom string) *rate.Rate {
	return &rate.Rate{
		ID:        id,
		UserID:    1,
		Rate:      decimal.RequireFromString(amount),
		ValidFrom: day(validFrom),
	}
}

var _ = Describe("PriceTrack", func() {
	It("prices to zero when no rate applies", func() {
		track := &timetrack.TimeTrack{UserID: 1, Date: day("2025-01-10"), Time: 60}

		priced := timetrack.PriceTrack(track, nil)
		Expect(priced.Earnings.IsZero()).To(BeTrue())
		Expect(priced.Rate.IsZero()).To(BeTrue())
	})

	It("multiplies hours by the effective rate", func() {
		ledger := []*rate.Rate{ledgerEntry(1, "1000", "2025-01-01")}
		track := &timetrack.TimeTrack{UserID: 1, Date: day("2025-01-10"), Time: 90}

		priced := timetrack.PriceTrack(track, ledger)
		Expect(priced.Earnings.Equal(decimal.RequireFromString("1500"))).To(BeTrue())
		Expect(priced.Rate.Equal(decimal.RequireFromString("1000"))).To(BeTrue())
	})

	It("keeps fractional precision", func() {
		ledger := []*rate.Rate{ledgerEntry(1, "999.50", "2025-01-01")}
		track := &timetrack.TimeTrack{UserID: 1, Date: day("2025-01-10"), Time: 30}

		priced := timetrack.PriceTrack(track, ledger)
		Expect(priced.Earnings.Equal(decimal.RequireFromString("499.75"))).To(BeTrue())
	})

	It("resolves the rate on the work date, not today", func() {
		ledger := []*rate.Rate{
			ledgerEntry(1, "1000", "2025-01-01"),
			ledgerEntry(2, "2000", "2025-06-01"),
		}
		track := &timetrack.TimeTrack{
			UserID:    1,
			Date:      day("2025-02-10"),
			Time:      60,
			CreatedAt: day("2025-07-01"),
		}

		priced := timetrack.PriceTrack(track, ledger)
		Expect(priced.Earnings.Equal(decimal.RequireFromString("1000"))).To(BeTrue())
	})

	It("leaves the underlying track untouched", func() {
		ledger := []*rate.Rate{ledgerEntry(1, "1000", "2025-01-01")}
		track := &timetrack.TimeTrack{UserID: 1, Date: day("2025-01-10"), Time: 60}

		_ = timetrack.PriceTrack(track, ledger)
		Expect(track.Time).To(Equal(60))
	})
})
