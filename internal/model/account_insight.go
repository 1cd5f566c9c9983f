package model

import (
	"time"
)

type AccountInsight struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	AccountID      uint64    `gorm:"not null;uniqueIndex:idx_account_date,priority:1" json:"account_id"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:idx_account_date,priority:2" json:"date"`
	Reach          int       `gorm:"not null;default:0" json:"reach"`
	Impressions    int       `gorm:"not null;default:0" json:"impressions"`
	ProfileVisits  int       `gorm:"not null;default:0" json:"profile_visits"`
	WebsiteClicks  int       `gorm:"not null;default:0" json:"website_clicks"`
	FollowersCount int       `gorm:"not null;default:0" json:"followers_count"`
	FollowsCount   int       `gorm:"not null;default:0" json:"follows_count"`
	MediaCount     int       `gorm:"not null;default:0" json:"media_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (AccountInsight) TableName() string {
	return "account_insights"
}
