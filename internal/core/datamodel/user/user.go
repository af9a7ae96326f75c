package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Login        string    `gorm:"column:login;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Name         string    `gorm:"column:name;not null"`
	Position     string    `gorm:"column:position;not null"`
	Role         string    `gorm:"column:role;default:user"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
