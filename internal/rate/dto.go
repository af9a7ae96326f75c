package rate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/worktrack/payroll/internal"
)

type CreateRateDTO struct {
	Rate      decimal.Decimal `json:"rate"`
	ValidFrom string          `json:"valid_from"`
}

func (dto CreateRateDTO) Validate() error {
	if !dto.Rate.IsPositive() {
		return internal.NewValidationError("rate must be a positive amount", internal.ErrCodeInvalidRate)
	}
	if dto.ValidFrom == "" {
		return internal.NewValidationError("valid_from date is required", internal.ErrCodeInvalidDate)
	}
	if _, err := time.Parse(time.DateOnly, dto.ValidFrom); err != nil {
		return internal.NewValidationError("valid_from must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
	}
	return nil
}

func (dto CreateRateDTO) ValidFromDate() time.Time {
	t, _ := time.Parse(time.DateOnly, dto.ValidFrom)
	return t
}

type UpdateRateDTO struct {
	RateID    int64           `json:"rate_id"`
	Rate      decimal.Decimal `json:"rate"`
	ValidFrom string          `json:"valid_from"`
}

func (dto UpdateRateDTO) Validate() error {
	if dto.RateID <= 0 {
		return internal.NewValidationError("rate_id is required", internal.ErrCodeValidationFailed)
	}
	return CreateRateDTO{Rate: dto.Rate, ValidFrom: dto.ValidFrom}.Validate()
}

func (dto UpdateRateDTO) ValidFromDate() time.Time {
	t, _ := time.Parse(time.DateOnly, dto.ValidFrom)
	return t
}
