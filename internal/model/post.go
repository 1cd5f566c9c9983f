package model

import (
	"time"
)

const (
	MediaTypeImage    = "IMAGE"
	MediaTypeVideo    = "VIDEO"
	MediaTypeCarousel = "CAROUSEL_ALBUM"
)

type Post struct {
	ID                 uint64    `gorm:"primaryKey" json:"id"`
	AccountID          uint64    `gorm:"not null;index:idx_account_ts,priority:1" json:"account_id"`
	IgMediaID          string    `gorm:"type:varchar(64);uniqueIndex:idx_ig_media_id;not null" json:"ig_media_id"`
	MediaType          string    `gorm:"type:varchar(32);not null" json:"media_type"`
	MediaURL           string    `gorm:"type:varchar(2048)" json:"media_url"`
	ThumbnailURL       string    `gorm:"type:varchar(2048)" json:"thumbnail_url"`
	StoredThumbnailKey string    `gorm:"type:varchar(255)" json:"stored_thumbnail_key"`
	Permalink          string    `gorm:"type:varchar(1024)" json:"permalink"`
	Caption            string    `gorm:"type:text" json:"caption"`
	Topic              string    `gorm:"type:varchar(100)" json:"topic"`
	IsStory            bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_story"`
	Hashtags           []string  `gorm:"serializer:json;type:json" json:"hashtags"`
	Mentions           []string  `gorm:"serializer:json;type:json" json:"mentions"`
	Timestamp          time.Time `gorm:"not null;index:idx_account_ts,priority:2" json:"timestamp"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// PostWithInsight 帖子及其最新一次快照
type PostWithInsight struct {
	Post    Post
	Insight *Insight
}
