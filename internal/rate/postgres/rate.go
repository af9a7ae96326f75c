package postgres

import (
	"gorm.io/gorm"

	rateDatamodel "github.com/worktrack/payroll/internal/core/datamodel/rate"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/rate"
)

// RateRepository implements rate.RepositoryAPI using GORM.
type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) rate.RepositoryAPI {
	return &RateRepository{db: db}
}

func (r *RateRepository) GetByUserID(userID int64) ([]*rateDatamodel.Rate, error) {
	var rates []*rateDatamodel.Rate
	err := r.db.Where("user_id = ?", userID).
		Order("valid_from DESC, id DESC").
		Find(&rates).Error
	return rates, err
}

func (r *RateRepository) GetByID(id int64) (*rateDatamodel.Rate, error) {
	var record rateDatamodel.Rate
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrRateNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *RateRepository) Create(record *rateDatamodel.Rate) error {
	return r.db.Create(record).Error
}

func (r *RateRepository) Update(record *rateDatamodel.Rate) error {
	return r.db.Save(record).Error
}
