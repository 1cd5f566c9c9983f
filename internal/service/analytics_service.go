package service

import (
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/analytics"
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/redis"
	"InstaGraph/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

const overviewDays = 30

type AnalyticsService interface {
	Overview(ctx context.Context, userID, accountID uint64) (*analytics.Overview, error)
	Content(ctx context.Context, userID, accountID uint64) (*analytics.Content, error)
	Engagement(ctx context.Context, userID, accountID uint64) (*analytics.Engagement, error)
	Invalidate(ctx context.Context, accountID uint64)
}

type AnalyticsServiceImpl struct {
	accountRepo        repository.AccountRepo
	postRepo           repository.PostRepo
	accountInsightRepo repository.AccountInsightRepo
	now                func() time.Time
}

func NewAnalyticsService(
	accountRepo repository.AccountRepo,
	postRepo repository.PostRepo,
	accountInsightRepo repository.AccountInsightRepo,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		accountRepo:        accountRepo,
		postRepo:           postRepo,
		accountInsightRepo: accountInsightRepo,
		now:                time.Now,
	}
}

func (s *AnalyticsServiceImpl) Overview(ctx context.Context, userID, accountID uint64) (*analytics.Overview, error) {
	account, err := ownedAccount(ctx, s.accountRepo, userID, accountID)
	if err != nil {
		return nil, err
	}
	out, err := cached(ctx, consts.AnalyticsOverviewKey+strconv.FormatUint(accountID, 10), func() (analytics.Overview, error) {
		since := s.now().UTC().AddDate(0, 0, -overviewDays)
		snapshots, err := s.accountInsightRepo.GetRecentSnapshots(ctx, accountID, since, analytics.OverviewSnapshotWindow)
		if err != nil {
			return analytics.Overview{}, err
		}
		posts, err := s.postRepo.GetRecentPostsWithLatestInsight(ctx, accountID, analytics.OverviewPostWindow)
		if err != nil {
			return analytics.Overview{}, err
		}
		return analytics.BuildOverview(
			analytics.FromAccountInsights(snapshots),
			analytics.FromPosts(posts),
			optionsFor(account),
		), nil
	})
	if err != nil {
		return nil, err
	}
	// 资料取自账号表，不走缓存
	out.Account = accountSummary(account)
	return out, nil
}

func (s *AnalyticsServiceImpl) Content(ctx context.Context, userID, accountID uint64) (*analytics.Content, error) {
	if _, err := ownedAccount(ctx, s.accountRepo, userID, accountID); err != nil {
		return nil, err
	}
	return cached(ctx, consts.AnalyticsContentKey+strconv.FormatUint(accountID, 10), func() (analytics.Content, error) {
		posts, err := s.postRepo.GetRecentPostsWithLatestInsight(ctx, accountID, analytics.ContentPostWindow)
		if err != nil {
			return analytics.Content{}, err
		}
		return analytics.BuildContent(analytics.FromPosts(posts)), nil
	})
}

func (s *AnalyticsServiceImpl) Engagement(ctx context.Context, userID, accountID uint64) (*analytics.Engagement, error) {
	account, err := ownedAccount(ctx, s.accountRepo, userID, accountID)
	if err != nil {
		return nil, err
	}
	return cached(ctx, consts.AnalyticsEngagementKey+strconv.FormatUint(accountID, 10), func() (analytics.Engagement, error) {
		posts, err := s.postRepo.GetRecentPostsWithLatestInsight(ctx, accountID, analytics.EngagementPostWindow)
		if err != nil {
			return analytics.Engagement{}, err
		}
		return analytics.BuildEngagement(analytics.FromPosts(posts), optionsFor(account)), nil
	})
}

// Invalidate 采集完成后清理该账号的分析缓存
func (s *AnalyticsServiceImpl) Invalidate(ctx context.Context, accountID uint64) {
	id := strconv.FormatUint(accountID, 10)
	err := redis.DeleteKey(ctx,
		consts.AnalyticsOverviewKey+id,
		consts.AnalyticsContentKey+id,
		consts.AnalyticsEngagementKey+id,
	)
	if err != nil {
		log.ErrorContext(ctx, "清理分析缓存失败", "account_id", accountID, "err", err)
	}
}

// cached 命中缓存直接返回，否则计算并缓存到下一个 UTC 零点；缓存异常不影响结果
func cached[T any](ctx context.Context, key string, build func() (T, error)) (*T, error) {
	raw, err := redis.GetValue(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "读取分析缓存失败", "key", key, "err", err)
	}
	if raw != "" {
		var out T
		if err = json.Unmarshal([]byte(raw), &out); err == nil {
			return &out, nil
		}
		log.WarnContext(ctx, "分析缓存内容损坏", "key", key, "err", err)
	}

	out, err := build()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(out)
	if err == nil {
		err = redis.SetWithMidnightExpiration(ctx, key, data)
	}
	if err != nil {
		log.WarnContext(ctx, "写入分析缓存失败", "key", key, "err", err)
	}
	return &out, nil
}

func accountSummary(account *model.Account) analytics.AccountSummary {
	return analytics.AccountSummary{
		ID:                account.ID,
		Username:          account.Username,
		Name:              account.Name,
		ProfilePictureURL: account.ProfilePictureURL,
		FollowersCount:    account.FollowersCount,
		FollowingCount:    account.FollowsCount,
		MediaCount:        account.MediaCount,
	}
}

func optionsFor(account *model.Account) analytics.Options {
	return analytics.Options{Location: account.Location()}
}
