package model

import (
	"time"
)

type Insight struct {
	ID                  uint64    `gorm:"primaryKey" json:"id"`
	PostID              uint64    `gorm:"not null;index:idx_post_recorded,priority:1" json:"post_id"`
	Reach               int       `gorm:"not null;default:0" json:"reach"`
	Impressions         int       `gorm:"not null;default:0" json:"impressions"`
	Likes               int       `gorm:"not null;default:0" json:"likes"`
	Comments            int       `gorm:"not null;default:0" json:"comments"`
	Shares              int       `gorm:"not null;default:0" json:"shares"`
	Saves               int       `gorm:"not null;default:0" json:"saves"`
	ProfileVisits       int       `gorm:"not null;default:0" json:"profile_visits"`
	WebsiteClicks       int       `gorm:"not null;default:0" json:"website_clicks"`
	VideoViews          int       `gorm:"not null;default:0" json:"video_views"`
	VideoAvgTimeWatched float64   `gorm:"not null;default:0" json:"video_avg_time_watched"`
	EngagementRate      float64   `gorm:"not null;default:0" json:"engagement_rate"`
	CTR                 float64   `gorm:"column:ctr;not null;default:0" json:"ctr"`
	RecordedAt          time.Time `gorm:"not null;index:idx_post_recorded,priority:2" json:"recorded_at"`
}

func (Insight) TableName() string {
	return "insights"
}

// Engagement likes+comments+shares+saves
func (i *Insight) Engagement() int {
	return i.Likes + i.Comments + i.Shares + i.Saves
}
