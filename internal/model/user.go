package model

import (
	"time"
)

type User struct {
	ID         uint64  `gorm:"primaryKey"`
	Email      string  `gorm:"type:varchar(255);uniqueIndex:idx_email;not null"`
	Name       string  `gorm:"type:varchar(100);not null"`
	FacebookID *string `gorm:"type:varchar(64);uniqueIndex:idx_facebook_id"`
	AvatarURL  string  `gorm:"type:varchar(512);column:avatar_url"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Accounts []Account `gorm:"foreignKey:UserID;references:ID"`
}

func (User) TableName() string {
	return "users"
}
