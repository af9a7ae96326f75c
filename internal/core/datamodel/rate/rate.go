package rate

import (
	"time"

	"github.com/shopspring/decimal"
)

type Rate struct {
	ID        int64           `gorm:"primaryKey"`
	UserID    int64           `gorm:"column:user_id;not null;index"`
	Rate      decimal.Decimal `gorm:"column:rate;type:numeric(12,2);not null"`
	ValidFrom time.Time       `gorm:"column:valid_from;type:date;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Rate) TableName() string {
	return "user_rates"
}
