// Package analytics 对已加载的帖子与账户快照做纯内存聚合，不访问任何存储
package analytics

import (
	"InstaGraph/internal/model"
	"math"
	"time"
)

const (
	OverviewSnapshotWindow = 30
	OverviewPostWindow     = 10
	ContentPostWindow      = 50
	EngagementPostWindow   = 100
	TopPostsLimit          = 5
	TopHashtagsLimit       = 20
	BestTimesLimit         = 3
	captionPreviewLength   = 100
)

// Metrics 帖子最新一次快照的指标
type Metrics struct {
	EngagementRate float64 `json:"engagement_rate"`
	Reach          int     `json:"reach"`
	Impressions    int     `json:"impressions"`
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
	Shares         int     `json:"shares"`
	Saves          int     `json:"saves"`
}

// PostSample 聚合输入，Metrics 为 nil 表示该帖子没有快照
type PostSample struct {
	ID        uint64
	MediaType string
	Caption   string
	Permalink string
	Timestamp time.Time
	Hashtags  []string
	Metrics   *Metrics
}

// DailySnapshot 账户日快照
type DailySnapshot struct {
	Date           time.Time
	Reach          int
	Impressions    int
	FollowersCount int
}

// Round2 保留两位小数
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// EngagementRate (likes+comments+shares+saves)/reach*100，reach 为 0 时返回 0
func EngagementRate(likes, comments, shares, saves, reach int) float64 {
	if reach <= 0 {
		return 0
	}
	return Round2(float64(likes+comments+shares+saves) / float64(reach) * 100)
}

func FromPosts(posts []model.PostWithInsight) []PostSample {
	samples := make([]PostSample, 0, len(posts))
	for _, p := range posts {
		s := PostSample{
			ID:        p.Post.ID,
			MediaType: p.Post.MediaType,
			Caption:   p.Post.Caption,
			Permalink: p.Post.Permalink,
			Timestamp: p.Post.Timestamp,
			Hashtags:  p.Post.Hashtags,
		}
		if p.Insight != nil {
			s.Metrics = &Metrics{
				EngagementRate: p.Insight.EngagementRate,
				Reach:          p.Insight.Reach,
				Impressions:    p.Insight.Impressions,
				Likes:          p.Insight.Likes,
				Comments:       p.Insight.Comments,
				Shares:         p.Insight.Shares,
				Saves:          p.Insight.Saves,
			}
		}
		samples = append(samples, s)
	}
	return samples
}

func FromAccountInsights(insights []*model.AccountInsight) []DailySnapshot {
	snapshots := make([]DailySnapshot, 0, len(insights))
	for _, in := range insights {
		snapshots = append(snapshots, DailySnapshot{
			Date:           in.Date,
			Reach:          in.Reach,
			Impressions:    in.Impressions,
			FollowersCount: in.FollowersCount,
		})
	}
	return snapshots
}

// WithMetrics 过滤出有快照的帖子，并截取前 limit 条，limit<=0 不截取
func WithMetrics(posts []PostSample, limit int) []PostSample {
	out := make([]PostSample, 0, len(posts))
	for _, p := range posts {
		if p.Metrics == nil {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func avgEngagementRate(posts []PostSample) float64 {
	if len(posts) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range posts {
		total += p.Metrics.EngagementRate
	}
	return total / float64(len(posts))
}

func avgReach(posts []PostSample) int {
	if len(posts) == 0 {
		return 0
	}
	total := 0
	for _, p := range posts {
		total += p.Metrics.Reach
	}
	return int(math.Round(float64(total) / float64(len(posts))))
}

// PreviewCaption 超过 100 个字符时截断并追加省略号
func PreviewCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) <= captionPreviewLength {
		return caption
	}
	return string(runes[:captionPreviewLength]) + "..."
}
