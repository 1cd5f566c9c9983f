package analytics

import (
	"math"
	"sort"
	"time"
)

const bestTypeNone = "N/A"

type TopPost struct {
	ID        uint64    `json:"id"`
	Caption   string    `json:"caption"`
	MediaType string    `json:"media_type"`
	Permalink string    `json:"permalink"`
	Timestamp time.Time `json:"timestamp"`
	Metrics   Metrics   `json:"metrics"`
}

type TypePerformance struct {
	Type              string  `json:"type"`
	Count             int     `json:"count"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	AvgReach          int     `json:"avg_reach"`
	AvgImpressions    int     `json:"avg_impressions"`
}

type HashtagPerformance struct {
	Hashtag           string  `json:"hashtag"`
	Count             int     `json:"count"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

type ContentOverview struct {
	TotalPosts         int     `json:"total_posts"`
	AvgEngagementRate  float64 `json:"avg_engagement_rate"`
	AvgReach           int     `json:"avg_reach"`
	BestPerformingType string  `json:"best_performing_type"`
}

type Content struct {
	Overview               ContentOverview      `json:"overview"`
	TopPosts               []TopPost            `json:"top_posts"`
	ContentTypePerformance []TypePerformance    `json:"content_type_performance"`
	HashtagAnalysis        []HashtagPerformance `json:"hashtag_analysis"`
}

// BuildContent posts 按时间倒序传入
func BuildContent(posts []PostSample) Content {
	posts = WithMetrics(posts, ContentPostWindow)

	types := ContentTypePerformance(posts)
	return Content{
		Overview: ContentOverview{
			TotalPosts:         len(posts),
			AvgEngagementRate:  Round2(avgEngagementRate(posts)),
			AvgReach:           avgReach(posts),
			BestPerformingType: BestPerformingType(types),
		},
		TopPosts:               TopPosts(posts, TopPostsLimit),
		ContentTypePerformance: types,
		HashtagAnalysis:        HashtagRanking(posts, TopHashtagsLimit),
	}
}

// TopPosts 按互动率降序，相同互动率保持原有顺序
func TopPosts(posts []PostSample, limit int) []TopPost {
	ranked := WithMetrics(posts, 0)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metrics.EngagementRate > ranked[j].Metrics.EngagementRate
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]TopPost, 0, len(ranked))
	for _, p := range ranked {
		out = append(out, TopPost{
			ID:        p.ID,
			Caption:   PreviewCaption(p.Caption),
			MediaType: p.MediaType,
			Permalink: p.Permalink,
			Timestamp: p.Timestamp,
			Metrics:   *p.Metrics,
		})
	}
	return out
}

// ContentTypePerformance 按媒体类型分组，分组顺序为首次出现的顺序
func ContentTypePerformance(posts []PostSample) []TypePerformance {
	type acc struct {
		count       int
		er          float64
		reach       int
		impressions int
	}
	order := make([]string, 0)
	groups := make(map[string]*acc)

	for _, p := range posts {
		if p.Metrics == nil {
			continue
		}
		g, ok := groups[p.MediaType]
		if !ok {
			g = &acc{}
			groups[p.MediaType] = g
			order = append(order, p.MediaType)
		}
		g.count++
		g.er += p.Metrics.EngagementRate
		g.reach += p.Metrics.Reach
		g.impressions += p.Metrics.Impressions
	}

	out := make([]TypePerformance, 0, len(order))
	for _, t := range order {
		g := groups[t]
		n := float64(g.count)
		out = append(out, TypePerformance{
			Type:              t,
			Count:             g.count,
			AvgEngagementRate: Round2(g.er / n),
			AvgReach:          int(math.Round(float64(g.reach) / n)),
			AvgImpressions:    int(math.Round(float64(g.impressions) / n)),
		})
	}
	return out
}

// BestPerformingType 平均互动率最高的类型，并列时取先出现的
func BestPerformingType(types []TypePerformance) string {
	if len(types) == 0 {
		return bestTypeNone
	}
	best := types[0]
	for _, t := range types[1:] {
		if t.AvgEngagementRate > best.AvgEngagementRate {
			best = t
		}
	}
	return best.Type
}

// HashtagRanking 每个话题标签的平均互动率，降序，并列保持首次出现顺序
func HashtagRanking(posts []PostSample, limit int) []HashtagPerformance {
	stats := HashtagStats(posts)
	out := make([]HashtagPerformance, 0, len(stats))
	for _, s := range stats {
		out = append(out, HashtagPerformance{
			Hashtag:           s.Hashtag,
			Count:             s.UsageCount,
			AvgEngagementRate: Round2(s.AvgEngagement),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgEngagementRate > out[j].AvgEngagementRate
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// HashtagStat 未排序、未取整的话题标签统计
type HashtagStat struct {
	Hashtag       string  `json:"hashtag"`
	AvgEngagement float64 `json:"avg_engagement"`
	AvgReach      float64 `json:"avg_reach"`
	UsageCount    int     `json:"usage_count"`
}

// HashtagStats 按首次出现顺序返回
func HashtagStats(posts []PostSample) []HashtagStat {
	type acc struct {
		count int
		er    float64
		reach int
	}
	order := make([]string, 0)
	groups := make(map[string]*acc)

	for _, p := range posts {
		if p.Metrics == nil {
			continue
		}
		for _, tag := range p.Hashtags {
			g, ok := groups[tag]
			if !ok {
				g = &acc{}
				groups[tag] = g
				order = append(order, tag)
			}
			g.count++
			g.er += p.Metrics.EngagementRate
			g.reach += p.Metrics.Reach
		}
	}

	out := make([]HashtagStat, 0, len(order))
	for _, tag := range order {
		g := groups[tag]
		out = append(out, HashtagStat{
			Hashtag:       tag,
			AvgEngagement: g.er / float64(g.count),
			AvgReach:      float64(g.reach) / float64(g.count),
			UsageCount:    g.count,
		})
	}
	return out
}
