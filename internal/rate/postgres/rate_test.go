package postgres

import (
	"testing"
	"time"

	rateDatamodel "github.com/worktrack/payroll/internal/core/datamodel/rate"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/rate"
)

func TestRateRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RateRepository Suite")
}

type SQLiteRate struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Rate      string    `gorm:"column:rate;not null"`
	ValidFrom time.Time `gorm:"column:valid_from;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteRate) TableName() string {
	return "user_rates"
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

var _ = Describe("RateRepository", func() {
	var (
		db   *gorm.DB
		repo rate.RepositoryAPI
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRate{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewRateRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	create := func(userID int64, amount, validFrom string) *rateDatamodel.Rate {
		r := &rateDatamodel.Rate{
			UserID:    userID,
			Rate:      decimal.RequireFromString(amount),
			ValidFrom: date(validFrom),
		}
		Expect(repo.Create(r)).To(Succeed())
		return r
	}

	Describe("GetByUserID", func() {
		It("returns the ledger newest first", func() {
			create(1, "1000", "2025-01-01")
			create(1, "1500", "2025-03-01")
			create(2, "9999", "2025-01-01")

			rates, err := repo.GetByUserID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rates).To(HaveLen(2))
			Expect(rates[0].ValidFrom.After(rates[1].ValidFrom)).To(BeTrue())
		})

		It("breaks equal valid_from towards the higher id", func() {
			older := create(1, "1000", "2025-03-01")
			newer := create(1, "1200", "2025-03-01")

			rates, err := repo.GetByUserID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rates[0].ID).To(Equal(newer.ID))
			Expect(rates[1].ID).To(Equal(older.ID))
		})

		It("is empty for a user without rates", func() {
			rates, err := repo.GetByUserID(42)
			Expect(err).NotTo(HaveOccurred())
			Expect(rates).To(BeEmpty())
		})
	})

	Describe("GetByID", func() {
		It("maps a missing row to the domain error", func() {
			_, err := repo.GetByID(12345)
			Expect(err).To(Equal(internal.ErrRateNotFound))
		})
	})

	Describe("Update", func() {
		It("persists changed fields", func() {
			created := create(1, "1000", "2025-01-01")

			created.Rate = decimal.RequireFromString("1250")
			created.ValidFrom = date("2024-06-01")
			Expect(repo.Update(created)).To(Succeed())

			found, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Rate.Equal(decimal.RequireFromString("1250"))).To(BeTrue())
			Expect(found.ValidFrom.Year()).To(Equal(2024))
		})
	})
})
