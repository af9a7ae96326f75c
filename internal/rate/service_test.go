package rate_test

import (
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	rateDatamodel "github.com/worktrack/payroll/internal/core/datamodel/rate"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/rate"
)

type mockRateRepository struct {
	rates  map[int64]*rateDatamodel.Rate
	nextID int64
}

func newMockRateRepository() *mockRateRepository {
	return &mockRateRepository{
		rates:  make(map[int64]*rateDatamodel.Rate),
		nextID: 1,
	}
}

func (m *mockRateRepository) GetByUserID(userID int64) ([]*rateDatamodel.Rate, error) {
	var result []*rateDatamodel.Rate
	for _, r := range m.rates {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRateRepository) GetByID(id int64) (*rateDatamodel.Rate, error) {
	r, ok := m.rates[id]
	if !ok {
		return nil, internal.ErrRateNotFound
	}
	return r, nil
}

func (m *mockRateRepository) Create(r *rateDatamodel.Rate) error {
	r.ID = m.nextID
	m.nextID++
	m.rates[r.ID] = r
	return nil
}

func (m *mockRateRepository) Update(r *rateDatamodel.Rate) error {
	m.rates[r.ID] = r
	return nil
}

var _ = Describe("Rate Service", func() {
	var (
		repo    *mockRateRepository
		service *rate.Service

		admin     = auth.Actor{ID: 1, Role: auth.RoleAdmin}
		moderator = auth.Actor{ID: 2, Role: auth.RoleModerator}
		worker    = auth.Actor{ID: 3, Role: auth.RoleUser}
	)

	BeforeEach(func() {
		repo = newMockRateRepository()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = rate.NewService(repo, logger)
	})

	Describe("ListRates", func() {
		It("refuses non-admin actors", func() {
			_, err := service.ListRates(moderator, 3)
			Expect(err).To(Equal(internal.ErrForbidden))

			_, err = service.ListRates(worker, worker.ID)
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("returns the ledger to an admin", func() {
			_, err := service.CreateRate(admin, 3, rate.CreateRateDTO{
				Rate:      decimal.RequireFromString("1000"),
				ValidFrom: "2025-01-01",
			})
			Expect(err).NotTo(HaveOccurred())

			rates, err := service.ListRates(admin, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(rates).To(HaveLen(1))
			Expect(rates[0].UserID).To(Equal(int64(3)))
		})
	})

	Describe("CreateRate", func() {
		It("refuses non-admin actors", func() {
			_, err := service.CreateRate(worker, worker.ID, rate.CreateRateDTO{
				Rate:      decimal.RequireFromString("1000"),
				ValidFrom: "2025-01-01",
			})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("rejects a non-positive rate", func() {
			_, err := service.CreateRate(admin, 3, rate.CreateRateDTO{
				Rate:      decimal.Zero,
				ValidFrom: "2025-01-01",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRate))
		})

		It("rejects a malformed valid_from", func() {
			_, err := service.CreateRate(admin, 3, rate.CreateRateDTO{
				Rate:      decimal.RequireFromString("1000"),
				ValidFrom: "01.03.2025",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
		})

		It("accepts a valid_from in the past", func() {
			created, err := service.CreateRate(admin, 3, rate.CreateRateDTO{
				Rate:      decimal.RequireFromString("1500"),
				ValidFrom: "2020-01-01",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ValidFrom.Year()).To(Equal(2020))
		})
	})

	Describe("UpdateRate", func() {
		It("reports not found for another user's rate entry", func() {
			created, err := service.CreateRate(admin, 3, rate.CreateRateDTO{
				Rate:      decimal.RequireFromString("1000"),
				ValidFrom: "2025-01-01",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateRate(admin, 4, rate.UpdateRateDTO{
				RateID:    created.ID,
				Rate:      decimal.RequireFromString("2000"),
				ValidFrom: "2025-01-01",
			})
			Expect(err).To(Equal(internal.ErrRateNotFound))
		})

		It("rewrites rate and valid_from in place", func() {
			created, err := service.CreateRate(admin, 3, rate.CreateRateDTO{
				Rate:      decimal.RequireFromString("1000"),
				ValidFrom: "2025-01-01",
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdateRate(admin, 3, rate.UpdateRateDTO{
				RateID:    created.ID,
				Rate:      decimal.RequireFromString("1250"),
				ValidFrom: "2024-06-01",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Rate).To(Equal(decimal.RequireFromString("1250")))
			Expect(updated.ValidFrom.Year()).To(Equal(2024))
		})
	})
})
