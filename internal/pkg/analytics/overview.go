package analytics

const dateLayout = "2006-01-02"

type OverviewMetrics struct {
	TotalReach        int     `json:"total_reach"`
	TotalImpressions  int     `json:"total_impressions"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	FollowersGrowth   int     `json:"followers_growth"`
	PostsAnalyzed     int     `json:"posts_analyzed"`
}

type FollowersPoint struct {
	Date      string `json:"date"`
	Followers int    `json:"followers"`
}

type EngagementPoint struct {
	Date           string  `json:"date"`
	EngagementRate float64 `json:"engagement_rate"`
}

type ReachImpressionsPoint struct {
	Date        string `json:"date"`
	Reach       int    `json:"reach"`
	Impressions int    `json:"impressions"`
}

type OverviewCharts struct {
	FollowersGrowth  []FollowersPoint        `json:"followers_growth"`
	EngagementTrend  []EngagementPoint       `json:"engagement_trend"`
	ReachImpressions []ReachImpressionsPoint `json:"reach_impressions"`
}

// AccountSummary 仪表盘头部展示的账号资料
type AccountSummary struct {
	ID                uint64 `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	FollowersCount    int    `json:"followers_count"`
	FollowingCount    int    `json:"following_count"`
	MediaCount        int    `json:"media_count"`
}

type Overview struct {
	Account   AccountSummary  `json:"account"`
	Metrics   OverviewMetrics `json:"metrics"`
	ChartData OverviewCharts  `json:"chart_data"`
}

// BuildOverview snapshots 与 posts 均按时间倒序传入，图表按时间正序输出
func BuildOverview(snapshots []DailySnapshot, posts []PostSample, opts Options) Overview {
	if len(snapshots) > OverviewSnapshotWindow {
		snapshots = snapshots[:OverviewSnapshotWindow]
	}
	posts = WithMetrics(posts, OverviewPostWindow)

	out := Overview{
		ChartData: OverviewCharts{
			FollowersGrowth:  make([]FollowersPoint, 0, len(snapshots)),
			EngagementTrend:  make([]EngagementPoint, 0, len(posts)),
			ReachImpressions: make([]ReachImpressionsPoint, 0, len(snapshots)),
		},
	}

	for _, s := range snapshots {
		out.Metrics.TotalReach += s.Reach
		out.Metrics.TotalImpressions += s.Impressions
	}
	out.Metrics.AvgEngagementRate = Round2(avgEngagementRate(posts))
	out.Metrics.FollowersGrowth = followersGrowth(snapshots)
	out.Metrics.PostsAnalyzed = len(posts)

	for i := len(snapshots) - 1; i >= 0; i-- {
		s := snapshots[i]
		date := s.Date.UTC().Format(dateLayout)
		out.ChartData.FollowersGrowth = append(out.ChartData.FollowersGrowth, FollowersPoint{
			Date:      date,
			Followers: s.FollowersCount,
		})
		out.ChartData.ReachImpressions = append(out.ChartData.ReachImpressions, ReachImpressionsPoint{
			Date:        date,
			Reach:       s.Reach,
			Impressions: s.Impressions,
		})
	}

	loc := opts.location()
	for i := len(posts) - 1; i >= 0; i-- {
		p := posts[i]
		if p.Timestamp.IsZero() {
			continue
		}
		out.ChartData.EngagementTrend = append(out.ChartData.EngagementTrend, EngagementPoint{
			Date:           p.Timestamp.In(loc).Format(dateLayout),
			EngagementRate: p.Metrics.EngagementRate,
		})
	}

	return out
}

// followersGrowth 最新快照减最早快照，不足两条时为 0
func followersGrowth(snapshots []DailySnapshot) int {
	if len(snapshots) < 2 {
		return 0
	}
	return snapshots[0].FollowersCount - snapshots[len(snapshots)-1].FollowersCount
}
