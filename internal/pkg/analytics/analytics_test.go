package analytics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(id uint64, mediaType string, er float64, reach int, ts time.Time, tags ...string) PostSample {
	return PostSample{
		ID:        id,
		MediaType: mediaType,
		Caption:   fmt.Sprintf("post %d", id),
		Timestamp: ts,
		Hashtags:  tags,
		Metrics:   &Metrics{EngagementRate: er, Reach: reach, Impressions: reach * 2},
	}
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.2345, 4.23},
		{0, 0},
		{3.14159, 3.14},
		{2.5, 2.5},
		{7.999, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, 0.0, EngagementRate(10, 5, 1, 1, 0))
	assert.Equal(t, 2.0, EngagementRate(10, 5, 3, 2, 1000))
	assert.Equal(t, 33.33, EngagementRate(1, 0, 0, 0, 3))
}

func TestBuildOverview_Empty(t *testing.T) {
	out := BuildOverview(nil, nil, Options{})

	assert.Equal(t, OverviewMetrics{}, out.Metrics)
	assert.NotNil(t, out.ChartData.FollowersGrowth)
	assert.NotNil(t, out.ChartData.EngagementTrend)
	assert.NotNil(t, out.ChartData.ReachImpressions)
	assert.Empty(t, out.ChartData.FollowersGrowth)
}

func TestBuildOverview_FollowersGrowth(t *testing.T) {
	snapshots := []DailySnapshot{
		{Date: day(3), FollowersCount: 150, Reach: 30, Impressions: 300},
		{Date: day(2), FollowersCount: 120, Reach: 20, Impressions: 200},
		{Date: day(1), FollowersCount: 100, Reach: 10, Impressions: 100},
	}

	out := BuildOverview(snapshots, nil, Options{})
	assert.Equal(t, 50, out.Metrics.FollowersGrowth)
	assert.Equal(t, 60, out.Metrics.TotalReach)
	assert.Equal(t, 600, out.Metrics.TotalImpressions)

	require.Len(t, out.ChartData.FollowersGrowth, 3)
	assert.Equal(t, "2024-03-01", out.ChartData.FollowersGrowth[0].Date)
	assert.Equal(t, 100, out.ChartData.FollowersGrowth[0].Followers)
	assert.Equal(t, "2024-03-03", out.ChartData.ReachImpressions[2].Date)

	single := BuildOverview(snapshots[:1], nil, Options{})
	assert.Equal(t, 0, single.Metrics.FollowersGrowth)
}

func TestBuildOverview_AverageSkipsPostsWithoutSnapshot(t *testing.T) {
	posts := []PostSample{
		post(3, "IMAGE", 4, 100, day(3)),
		{ID: 2, MediaType: "IMAGE", Timestamp: day(2)},
		post(1, "VIDEO", 2.5, 100, day(1)),
	}

	out := BuildOverview(nil, posts, Options{})
	assert.Equal(t, 3.25, out.Metrics.AvgEngagementRate)
	assert.Equal(t, 2, out.Metrics.PostsAnalyzed)

	require.Len(t, out.ChartData.EngagementTrend, 2)
	assert.Equal(t, "2024-03-01", out.ChartData.EngagementTrend[0].Date)
	assert.Equal(t, 2.5, out.ChartData.EngagementTrend[0].EngagementRate)
}

func TestBuildOverview_PostWindow(t *testing.T) {
	posts := make([]PostSample, 0, 15)
	for i := 0; i < 15; i++ {
		er := 1.0
		if i >= OverviewPostWindow {
			er = 100
		}
		posts = append(posts, post(uint64(i), "IMAGE", er, 10, day(1)))
	}

	out := BuildOverview(nil, posts, Options{})
	assert.Equal(t, OverviewPostWindow, out.Metrics.PostsAnalyzed)
	assert.Equal(t, 1.0, out.Metrics.AvgEngagementRate)
}

func TestBuildContent_Empty(t *testing.T) {
	out := BuildContent(nil)

	assert.Equal(t, 0, out.Overview.TotalPosts)
	assert.Equal(t, 0.0, out.Overview.AvgEngagementRate)
	assert.Equal(t, "N/A", out.Overview.BestPerformingType)
	assert.Empty(t, out.TopPosts)
	assert.Empty(t, out.ContentTypePerformance)
	assert.Empty(t, out.HashtagAnalysis)
}

func TestTopPosts_OrderAndCaption(t *testing.T) {
	long := strings.Repeat("a", 150)
	posts := []PostSample{
		post(1, "IMAGE", 2, 10, day(1)),
		post(2, "IMAGE", 5, 10, day(2)),
		post(3, "IMAGE", 5, 10, day(3)),
		post(4, "IMAGE", 1, 10, day(4)),
	}
	posts[1].Caption = long
	posts[3].Caption = ""

	top := TopPosts(posts, 3)
	require.Len(t, top, 3)
	assert.Equal(t, uint64(2), top[0].ID)
	assert.Equal(t, uint64(3), top[1].ID)
	assert.Equal(t, uint64(1), top[2].ID)
	assert.Equal(t, strings.Repeat("a", 100)+"...", top[0].Caption)
	assert.Equal(t, "post 3", top[1].Caption)

	all := TopPosts(posts, 10)
	assert.Equal(t, "", all[3].Caption)
}

func TestContentTypePerformance(t *testing.T) {
	posts := []PostSample{
		post(1, "VIDEO", 3, 101, day(1)),
		post(2, "IMAGE", 1.333, 100, day(2)),
		post(3, "VIDEO", 4, 100, day(3)),
		post(4, "IMAGE", 1.333, 100, day(4)),
		post(5, "IMAGE", 1.333, 101, day(5)),
	}

	types := ContentTypePerformance(posts)
	require.Len(t, types, 2)
	assert.Equal(t, TypePerformance{Type: "VIDEO", Count: 2, AvgEngagementRate: 3.5, AvgReach: 101, AvgImpressions: 201}, types[0])
	assert.Equal(t, "IMAGE", types[1].Type)
	assert.Equal(t, 1.33, types[1].AvgEngagementRate)
	assert.Equal(t, 100, types[1].AvgReach)

	assert.Equal(t, "VIDEO", BestPerformingType(types))
}

func TestBestPerformingType_TieKeepsFirst(t *testing.T) {
	types := []TypePerformance{
		{Type: "IMAGE", AvgEngagementRate: 2},
		{Type: "VIDEO", AvgEngagementRate: 2},
	}
	assert.Equal(t, "IMAGE", BestPerformingType(types))
}

func TestHashtagRanking(t *testing.T) {
	posts := []PostSample{
		post(1, "IMAGE", 2, 10, day(1), "a", "b"),
		post(2, "IMAGE", 4, 10, day(2), "b", "c"),
		post(3, "IMAGE", 2, 10, day(3), "d"),
	}

	ranking := HashtagRanking(posts, 20)
	require.Len(t, ranking, 4)
	assert.Equal(t, "c", ranking[0].Hashtag)
	assert.Equal(t, 4.0, ranking[0].AvgEngagementRate)
	assert.Equal(t, "b", ranking[1].Hashtag)
	assert.Equal(t, 2, ranking[1].Count)
	assert.Equal(t, 3.0, ranking[1].AvgEngagementRate)
	// a 与 d 并列，保持首次出现顺序
	assert.Equal(t, "a", ranking[2].Hashtag)
	assert.Equal(t, "d", ranking[3].Hashtag)
}

func TestHashtagRanking_Truncated(t *testing.T) {
	posts := make([]PostSample, 0, 30)
	for i := 0; i < 30; i++ {
		posts = append(posts, post(uint64(i), "IMAGE", float64(i), 10, day(1), fmt.Sprintf("tag%d", i)))
	}

	ranking := HashtagRanking(posts, TopHashtagsLimit)
	require.Len(t, ranking, 20)
	assert.Equal(t, "tag29", ranking[0].Hashtag)
	for i := 1; i < len(ranking); i++ {
		assert.GreaterOrEqual(t, ranking[i-1].AvgEngagementRate, ranking[i].AvgEngagementRate)
	}
}

func TestDistribution_Bands(t *testing.T) {
	posts := []PostSample{
		post(1, "IMAGE", 0, 10, day(1)),
		post(2, "IMAGE", 0.99, 10, day(1)),
		post(3, "IMAGE", 1.0, 10, day(1)),
		post(4, "IMAGE", 4.99, 10, day(1)),
		post(5, "IMAGE", 5, 10, day(1)),
		post(6, "IMAGE", 10, 10, day(1)),
		post(7, "IMAGE", 250, 10, day(1)),
	}

	dist := Distribution(posts)
	require.Len(t, dist, 5)
	assert.Equal(t, DistributionBand{Range: "0-1%", Count: 2}, dist[0])
	assert.Equal(t, DistributionBand{Range: "1-3%", Count: 1}, dist[1])
	assert.Equal(t, DistributionBand{Range: "3-5%", Count: 1}, dist[2])
	assert.Equal(t, DistributionBand{Range: "5-10%", Count: 1}, dist[3])
	assert.Equal(t, DistributionBand{Range: "10%+", Count: 2}, dist[4])
}

func TestBuildEngagement_Empty(t *testing.T) {
	out := BuildEngagement(nil, Options{})

	require.Len(t, out.HourlyEngagement, 24)
	require.Len(t, out.DailyEngagement, 7)
	for _, h := range out.HourlyEngagement {
		assert.Equal(t, 0, h.Posts)
		assert.Equal(t, 0.0, h.AvgEngagementRate)
	}
	assert.Equal(t, "Sunday", out.DailyEngagement[0].DayName)
	assert.Empty(t, out.BestTimes.BestHours)
	assert.Empty(t, out.BestTimes.BestDays)
}

func TestBuildEngagement_Timezone(t *testing.T) {
	tbilisi, err := time.LoadLocation("Asia/Tbilisi")
	require.NoError(t, err)

	// 2024-01-07 是星期日，UTC 20:30 在第比利斯为星期一 00:30
	ts := time.Date(2024, time.January, 7, 20, 30, 0, 0, time.UTC)
	posts := []PostSample{post(1, "IMAGE", 3, 10, ts)}

	utc := BuildEngagement(posts, Options{})
	assert.Equal(t, 1, utc.HourlyEngagement[20].Posts)
	assert.Equal(t, 1, utc.DailyEngagement[0].Posts)

	local := BuildEngagement(posts, Options{Location: tbilisi})
	assert.Equal(t, 1, local.HourlyEngagement[0].Posts)
	assert.Equal(t, 3.0, local.HourlyEngagement[0].AvgEngagementRate)
	assert.Equal(t, 1, local.DailyEngagement[1].Posts)
	assert.Equal(t, "Monday", local.DailyEngagement[1].DayName)
}

func TestBuildEngagement_BestTimes(t *testing.T) {
	at := func(h int, d int) time.Time {
		return time.Date(2024, time.January, 7+d, h, 0, 0, 0, time.UTC)
	}
	posts := []PostSample{
		post(1, "IMAGE", 1, 10, at(8, 0)),
		post(2, "IMAGE", 5, 10, at(12, 1)),
		post(3, "IMAGE", 3, 10, at(18, 2)),
		post(4, "IMAGE", 4, 10, at(21, 3)),
		post(5, "IMAGE", 2, 10, at(12, 4)),
	}

	out := BuildEngagement(posts, Options{})

	hours := out.BestTimes.BestHours
	require.Len(t, hours, 3)
	assert.Equal(t, 21, hours[0].Hour)
	assert.Equal(t, 12, hours[1].Hour)
	assert.Equal(t, 3.5, hours[1].AvgEngagementRate)
	assert.Equal(t, 18, hours[2].Hour)
	for _, h := range hours {
		assert.Greater(t, h.Posts, 0)
	}

	days := out.BestTimes.BestDays
	require.Len(t, days, 3)
	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, 3, days[1].Day)
	assert.Equal(t, 2, days[2].Day)
}

func TestBuildEngagement_IsIdempotent(t *testing.T) {
	posts := []PostSample{
		post(1, "IMAGE", 1.5, 10, day(1), "x"),
		post(2, "VIDEO", 6.25, 10, day(2), "y"),
	}
	assert.Equal(t, BuildEngagement(posts, Options{}), BuildEngagement(posts, Options{}))
	assert.Equal(t, BuildContent(posts), BuildContent(posts))
}

func TestPostingSlots(t *testing.T) {
	posts := []PostSample{
		post(1, "IMAGE", 2, 100, time.Date(2024, time.January, 7, 9, 0, 0, 0, time.UTC)),
		post(2, "IMAGE", 4, 300, time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)),
		post(3, "IMAGE", 1, 50, time.Date(2024, time.January, 8, 15, 0, 0, 0, time.UTC)),
		{ID: 4, MediaType: "IMAGE", Metrics: &Metrics{EngagementRate: 50}},
	}

	hours, days := PostingSlots(posts, Options{}, 3)
	require.Len(t, hours, 2)
	require.NotNil(t, hours[0].Hour)
	assert.Equal(t, 9, *hours[0].Hour)
	assert.Equal(t, 3.0, hours[0].AvgER)
	assert.Equal(t, 200.0, hours[0].AvgReach)
	assert.Equal(t, 2, hours[0].Posts)

	require.Len(t, days, 2)
	assert.Equal(t, "Monday", days[0].DayName)
	assert.Equal(t, 2.5, days[0].AvgER)
	assert.Equal(t, "Sunday", days[1].DayName)
	assert.Equal(t, 2.0, days[1].AvgER)

	assert.Equal(t, 3, CountTimed(posts))
}
