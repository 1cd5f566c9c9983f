package model

import (
	"time"
	_ "time/tzdata"
)

const (
	DefaultLanguage = "ka"
	DefaultTimezone = "Asia/Tbilisi"
)

type Account struct {
	ID                uint64     `gorm:"primaryKey" json:"id"`
	UserID            uint64     `gorm:"not null;index:idx_user_id" json:"user_id"`
	IgID              string     `gorm:"type:varchar(64);uniqueIndex:idx_ig_id;not null" json:"ig_id"`
	Username          string     `gorm:"type:varchar(100);not null" json:"username"`
	Name              string     `gorm:"type:varchar(255)" json:"name"`
	ProfilePictureURL string     `gorm:"type:varchar(1024)" json:"profile_picture_url"`
	Website           string     `gorm:"type:varchar(512)" json:"website"`
	Biography         string     `gorm:"type:text" json:"biography"`
	FollowersCount    int        `gorm:"not null;default:0" json:"followers_count"`
	FollowsCount      int        `gorm:"not null;default:0" json:"follows_count"`
	MediaCount        int        `gorm:"not null;default:0" json:"media_count"`
	Niche             string     `gorm:"type:varchar(100)" json:"niche"`
	Language          string     `gorm:"type:varchar(10);not null;default:'ka'" json:"language"`
	Timezone          string     `gorm:"type:varchar(64);not null;default:'Asia/Tbilisi'" json:"timezone"`
	AccessToken       string     `gorm:"type:text;not null" json:"-"` // secretbox 密文
	TokenExpiresAt    *time.Time `json:"token_expires_at"`
	IsActive          bool       `gorm:"type:tinyint(1);not null;default:1" json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Location 账户时区，无法解析时回退到 UTC
func (a *Account) Location() *time.Location {
	if a.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
