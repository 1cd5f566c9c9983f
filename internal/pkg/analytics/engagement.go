package analytics

import (
	"math"
	"sort"
)

var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type erBand struct {
	min   float64
	max   float64
	label string
}

// 左闭右开
var erBands = []erBand{
	{0, 1, "0-1%"},
	{1, 3, "1-3%"},
	{3, 5, "3-5%"},
	{5, 10, "5-10%"},
	{10, math.Inf(1), "10%+"},
}

type HourBucket struct {
	Hour              int     `json:"hour"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	Posts             int     `json:"posts"`
}

type DayBucket struct {
	Day               int     `json:"day"`
	DayName           string  `json:"day_name"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	Posts             int     `json:"posts"`
}

type DistributionBand struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type BestTimes struct {
	BestHours []HourBucket `json:"best_hours"`
	BestDays  []DayBucket  `json:"best_days"`
}

type Engagement struct {
	HourlyEngagement       []HourBucket       `json:"hourly_engagement"`
	DailyEngagement        []DayBucket        `json:"daily_engagement"`
	EngagementDistribution []DistributionBand `json:"engagement_distribution"`
	BestTimes              BestTimes          `json:"best_times"`
}

func BuildEngagement(posts []PostSample, opts Options) Engagement {
	posts = WithMetrics(posts, EngagementPostWindow)

	hourly := HourlyEngagement(posts, opts)
	daily := DailyEngagement(posts, opts)
	return Engagement{
		HourlyEngagement:       hourly,
		DailyEngagement:        daily,
		EngagementDistribution: Distribution(posts),
		BestTimes: BestTimes{
			BestHours: bestHours(hourly, BestTimesLimit),
			BestDays:  bestDays(daily, BestTimesLimit),
		},
	}
}

// HourlyEngagement 固定 24 个桶
func HourlyEngagement(posts []PostSample, opts Options) []HourBucket {
	loc := opts.location()
	var totals [24]float64
	var counts [24]int
	for _, p := range posts {
		if p.Metrics == nil || p.Timestamp.IsZero() {
			continue
		}
		h := p.Timestamp.In(loc).Hour()
		totals[h] += p.Metrics.EngagementRate
		counts[h]++
	}

	out := make([]HourBucket, 24)
	for h := range out {
		out[h] = HourBucket{Hour: h, Posts: counts[h]}
		if counts[h] > 0 {
			out[h].AvgEngagementRate = Round2(totals[h] / float64(counts[h]))
		}
	}
	return out
}

// DailyEngagement 固定 7 个桶，0 为星期日
func DailyEngagement(posts []PostSample, opts Options) []DayBucket {
	loc := opts.location()
	var totals [7]float64
	var counts [7]int
	for _, p := range posts {
		if p.Metrics == nil || p.Timestamp.IsZero() {
			continue
		}
		d := int(p.Timestamp.In(loc).Weekday())
		totals[d] += p.Metrics.EngagementRate
		counts[d]++
	}

	out := make([]DayBucket, 7)
	for d := range out {
		out[d] = DayBucket{Day: d, DayName: DayNames[d], Posts: counts[d]}
		if counts[d] > 0 {
			out[d].AvgEngagementRate = Round2(totals[d] / float64(counts[d]))
		}
	}
	return out
}

func Distribution(posts []PostSample) []DistributionBand {
	out := make([]DistributionBand, len(erBands))
	for i, b := range erBands {
		out[i].Range = b.label
	}
	for _, p := range posts {
		if p.Metrics == nil {
			continue
		}
		if i := bandIndex(p.Metrics.EngagementRate); i >= 0 {
			out[i].Count++
		}
	}
	return out
}

func bandIndex(er float64) int {
	for i, b := range erBands {
		if er >= b.min && er < b.max {
			return i
		}
	}
	return -1
}

func bestHours(hourly []HourBucket, limit int) []HourBucket {
	out := make([]HourBucket, 0, len(hourly))
	for _, h := range hourly {
		if h.Posts > 0 {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgEngagementRate > out[j].AvgEngagementRate
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func bestDays(daily []DayBucket, limit int) []DayBucket {
	out := make([]DayBucket, 0, len(daily))
	for _, d := range daily {
		if d.Posts > 0 {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgEngagementRate > out[j].AvgEngagementRate
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TimeSlot 发布时段统计，供发布时间建议使用
type TimeSlot struct {
	Hour     *int    `json:"hour,omitempty"`
	Day      *int    `json:"day,omitempty"`
	DayName  string  `json:"day_name,omitempty"`
	AvgER    float64 `json:"avg_er"`
	AvgReach float64 `json:"avg_reach"`
	Posts    int     `json:"posts"`
}

// PostingSlots 只统计出现过的时段，按平均互动率降序取前 limit 个
func PostingSlots(posts []PostSample, opts Options, limit int) (hours []TimeSlot, days []TimeSlot) {
	loc := opts.location()
	type acc struct {
		er    float64
		reach int
		count int
	}
	var hourAcc [24]acc
	var dayAcc [7]acc
	for _, p := range posts {
		if p.Metrics == nil || p.Timestamp.IsZero() {
			continue
		}
		t := p.Timestamp.In(loc)
		h, d := t.Hour(), int(t.Weekday())
		hourAcc[h].er += p.Metrics.EngagementRate
		hourAcc[h].reach += p.Metrics.Reach
		hourAcc[h].count++
		dayAcc[d].er += p.Metrics.EngagementRate
		dayAcc[d].reach += p.Metrics.Reach
		dayAcc[d].count++
	}

	hours = make([]TimeSlot, 0)
	for h, a := range hourAcc {
		if a.count == 0 {
			continue
		}
		hour := h
		hours = append(hours, TimeSlot{
			Hour:     &hour,
			AvgER:    Round2(a.er / float64(a.count)),
			AvgReach: Round2(float64(a.reach) / float64(a.count)),
			Posts:    a.count,
		})
	}
	days = make([]TimeSlot, 0)
	for d, a := range dayAcc {
		if a.count == 0 {
			continue
		}
		day := d
		days = append(days, TimeSlot{
			Day:      &day,
			DayName:  DayNames[d],
			AvgER:    Round2(a.er / float64(a.count)),
			AvgReach: Round2(float64(a.reach) / float64(a.count)),
			Posts:    a.count,
		})
	}

	byER := func(s []TimeSlot) {
		sort.SliceStable(s, func(i, j int) bool { return s[i].AvgER > s[j].AvgER })
	}
	byER(hours)
	byER(days)
	if len(hours) > limit {
		hours = hours[:limit]
	}
	if len(days) > limit {
		days = days[:limit]
	}
	return hours, days
}

// CountTimed 有时间戳且有快照的帖子数
func CountTimed(posts []PostSample) int {
	n := 0
	for _, p := range posts {
		if p.Metrics != nil && !p.Timestamp.IsZero() {
			n++
		}
	}
	return n
}
