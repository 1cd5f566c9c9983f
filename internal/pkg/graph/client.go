package graph

import (
	"InstaGraph/internal/api/config"
	"InstaGraph/internal/pkg/logger"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	profileFields = "id,username,name,profile_picture_url,followers_count,follows_count,media_count,website,biography"
	mediaFields   = "id,media_type,media_url,thumbnail_url,caption,permalink,timestamp"
	accountMetric = "reach,impressions,profile_visits,website_clicks"
	mediaMetric   = "reach,impressions,likes,comments,shares,saves"
)

// Client Instagram Graph API 客户端，失败不重试，连续失败后熔断
type Client struct {
	http       *resty.Client
	cb         *gobreaker.CircuitBreaker[*resty.Response]
	mediaLimit int
}

func NewClient(cfg config.GraphConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if v := strings.Trim(cfg.Version, "/"); v != "" {
		baseURL += "/" + v
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetTransport(logger.NewHTTPTransport("graph", false)).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Accept", "application/json")

	return &Client{
		http:       httpClient,
		cb:         newBreaker(cfg.Breaker),
		mediaLimit: cfg.MediaLimit,
	}
}

func newBreaker(cfg config.BreakerConfig) *gobreaker.CircuitBreaker[*resty.Response] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := time.Duration(cfg.OpenTimeout) * time.Second
	if openTimeout <= 0 {
		openTimeout = time.Minute
	}

	return gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        "instagram-graph",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 4xx 属于调用方问题，不计入熔断
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if apiErr, ok := AsAPIError(err); ok {
				return !apiErr.temporary()
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

// get 执行 GET 请求，非 2xx 返回 *APIError
func (c *Client) get(ctx context.Context, path, token string, params map[string]string, out any) error {
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		envelope := &errorEnvelope{}
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("access_token", token).
			ForceContentType("application/json").
			SetResult(out).
			SetError(envelope).
			Get(path)
		if err != nil {
			return nil, errors.Wrapf(err, "graph request %s", path)
		}
		if resp.IsError() {
			apiErr := envelope.Error
			if apiErr == nil {
				apiErr = &APIError{Message: strings.TrimSpace(resp.String())}
			}
			apiErr.Status = resp.StatusCode()
			return resp, apiErr
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Wrap(ErrCircuitOpen, path)
	}
	return err
}

// GetPages 用户管理的 Facebook 主页及其关联的 Instagram 商业账户
func (c *Client) GetPages(ctx context.Context, token string) ([]Page, error) {
	out := &pagesResponse{}
	err := c.get(ctx, "/me/accounts", token, map[string]string{
		"fields": "id,name,instagram_business_account",
	}, out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FirstBusinessAccountID 第一个关联了商业账户的主页
func FirstBusinessAccountID(pages []Page) (string, bool) {
	for _, p := range pages {
		if p.InstagramBusinessAccount != nil && p.InstagramBusinessAccount.ID != "" {
			return p.InstagramBusinessAccount.ID, true
		}
	}
	return "", false
}

func (c *Client) GetProfile(ctx context.Context, token, igID string) (*Profile, error) {
	out := &Profile{}
	if err := c.get(ctx, "/"+igID, token, map[string]string{"fields": profileFields}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMe Facebook 登录用户的基本资料
func (c *Client) GetMe(ctx context.Context, token string) (*User, error) {
	out := &User{}
	err := c.get(ctx, "/me", token, map[string]string{"fields": "id,name,email,picture.type(large)"}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccountInsights 账户级日指标
func (c *Client) GetAccountInsights(ctx context.Context, token, igID string, since time.Time) ([]InsightMetric, error) {
	out := &insightsResponse{}
	err := c.get(ctx, "/"+igID+"/insights", token, map[string]string{
		"metric": accountMetric,
		"period": "day",
		"since":  strconv.FormatInt(since.Unix(), 10),
	}, out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetMedia 最近的媒体，数量由配置决定
func (c *Client) GetMedia(ctx context.Context, token, igID string) ([]Media, error) {
	limit := c.mediaLimit
	if limit <= 0 {
		limit = 25
	}
	out := &mediaResponse{}
	err := c.get(ctx, "/"+igID+"/media", token, map[string]string{
		"fields": mediaFields,
		"limit":  strconv.Itoa(limit),
	}, out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetMediaInsights 单条媒体的指标，视频额外请求 video_views
func (c *Client) GetMediaInsights(ctx context.Context, token, mediaID, mediaType string) ([]InsightMetric, error) {
	metric := mediaMetric
	if mediaType == "VIDEO" {
		metric += ",video_views"
	}
	out := &insightsResponse{}
	if err := c.get(ctx, "/"+mediaID+"/insights", token, map[string]string{"metric": metric}, out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
