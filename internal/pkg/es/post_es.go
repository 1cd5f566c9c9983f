package es

import "time"

// PostDoc 写入 ES 的帖子文档
type PostDoc struct {
	ID             uint64    `json:"id"`
	AccountID      uint64    `json:"account_id"`
	IgMediaID      string    `json:"ig_media_id"`
	MediaType      string    `json:"media_type"`
	Caption        string    `json:"caption"`
	Hashtags       []string  `json:"hashtags"`
	Mentions       []string  `json:"mentions"`
	Permalink      string    `json:"permalink"`
	ThumbnailURL   string    `json:"thumbnail_url,omitempty"`
	LikeCount      int       `json:"like_count"`
	CommentsCount  int       `json:"comments_count"`
	EngagementRate float64   `json:"engagement_rate"`
	Timestamp      time.Time `json:"timestamp"`

	Sort []any `json:"-"`
}

// SearchQuery 帖子检索条件，After 为上一页最后一条的 sort 值
type SearchQuery struct {
	AccountID uint64
	Text      string
	Hashtag   string
	MediaType string
	After     []any
	Size      int
}
