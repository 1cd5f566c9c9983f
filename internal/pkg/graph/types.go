package graph

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const timestampLayout = "2006-01-02T15:04:05-0700"

type Page struct {
	ID                       string       `json:"id"`
	Name                     string       `json:"name"`
	InstagramBusinessAccount *BusinessRef `json:"instagram_business_account,omitempty"`
}

type BusinessRef struct {
	ID string `json:"id"`
}

type pagesResponse struct {
	Data []Page `json:"data"`
}

type Profile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	FollowersCount    int    `json:"followers_count"`
	FollowsCount      int    `json:"follows_count"`
	MediaCount        int    `json:"media_count"`
	Website           string `json:"website"`
	Biography         string `json:"biography"`
}

// User Facebook 登录用户
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

type Media struct {
	ID           string `json:"id"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Caption      string `json:"caption"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
}

// PublishedAt 解析失败时返回零值
func (m Media) PublishedAt() time.Time {
	t, err := ParseTimestamp(m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

type mediaResponse struct {
	Data []Media `json:"data"`
}

type InsightValue struct {
	Value   json.RawMessage `json:"value"`
	EndTime string          `json:"end_time,omitempty"`
}

// Int 非数字值（例如按维度拆分的对象）返回 0
func (v InsightValue) Int() int {
	if len(v.Value) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(string(v.Value), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

type InsightMetric struct {
	Name   string         `json:"name"`
	Period string         `json:"period"`
	Values []InsightValue `json:"values"`
	Title  string         `json:"title,omitempty"`
	ID     string         `json:"id,omitempty"`
}

type insightsResponse struct {
	Data []InsightMetric `json:"data"`
}

// LatestValues 每个指标取最后一个（最新的）值
func LatestValues(metrics []InsightMetric) map[string]int {
	out := make(map[string]int, len(metrics))
	for _, m := range metrics {
		if len(m.Values) == 0 {
			continue
		}
		out[m.Name] = m.Values[len(m.Values)-1].Int()
	}
	return out
}

func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
