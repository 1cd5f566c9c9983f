package dto

import "time"

// ConnectDTO 连接 Instagram 商业账号
type ConnectDTO struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// AccountDTO 已连接的 Instagram 账号
type AccountDTO struct {
	ID                uint64    `json:"id"`
	IgID              string    `json:"ig_id"`
	Username          string    `json:"username"`
	Name              string    `json:"name"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	Biography         string    `json:"biography,omitempty"`
	Website           string    `json:"website,omitempty"`
	FollowersCount    int       `json:"followers_count"`
	FollowsCount      int       `json:"follows_count"`
	MediaCount        int       `json:"media_count"`
	Niche             string    `json:"niche,omitempty"`
	Language          string    `json:"language"`
	Timezone          string    `json:"timezone"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

type AccountSummaryDTO struct {
	Username       string `json:"username"`
	FollowersCount int    `json:"followers_count"`
	MediaCount     int    `json:"media_count"`
}

type AccountTotalsDTO struct {
	TotalReach        int     `json:"total_reach"`
	TotalImpressions  int     `json:"total_impressions"`
	TotalEngagement   int     `json:"total_engagement"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	PostsAnalyzed     int     `json:"posts_analyzed"`
}

type PostSummaryDTO struct {
	ID             uint64  `json:"id"`
	Caption        string  `json:"caption"`
	MediaType      string  `json:"media_type"`
	EngagementRate float64 `json:"engagement_rate"`
	Reach          int     `json:"reach"`
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
}

// AccountAnalyticsDTO 账号概况
type AccountAnalyticsDTO struct {
	Account   AccountSummaryDTO `json:"account"`
	Analytics AccountTotalsDTO  `json:"analytics"`
	TopPosts  []PostSummaryDTO  `json:"top_posts"`
}

// PostSearchDTO 帖子检索参数
type PostSearchDTO struct {
	Q         string `form:"q" validate:"omitempty,max=200"`
	Hashtag   string `form:"hashtag" validate:"omitempty,max=100"`
	MediaType string `form:"media_type" validate:"omitempty,oneof=IMAGE VIDEO CAROUSEL_ALBUM"`
	Cursor    string `form:"cursor"`
	Size      int    `form:"size" validate:"omitempty,min=1,max=100"`
}

type PostHitDTO struct {
	ID             uint64    `json:"id"`
	IgMediaID      string    `json:"ig_media_id"`
	MediaType      string    `json:"media_type"`
	Caption        string    `json:"caption"`
	Hashtags       []string  `json:"hashtags"`
	Permalink      string    `json:"permalink"`
	ThumbnailURL   string    `json:"thumbnail_url,omitempty"`
	EngagementRate float64   `json:"engagement_rate"`
	Timestamp      time.Time `json:"timestamp"`
}

type PostSearchResultDTO struct {
	Items      []PostHitDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
