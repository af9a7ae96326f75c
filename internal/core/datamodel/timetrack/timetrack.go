package timetrack

import "time"

type TimeTrack struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Date      time.Time `gorm:"column:date;type:date;not null;index"`
	Time      int       `gorm:"column:time;not null"`
	Comment   string    `gorm:"column:comment;not null"`
	WasPaid   bool      `gorm:"column:was_paid;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimeTrack) TableName() string {
	return "time_tracks"
}
