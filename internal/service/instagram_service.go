package service

import (
	"InstaGraph/internal/api/dto"
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/analytics"
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/es"
	"InstaGraph/internal/pkg/graph"
	"InstaGraph/internal/pkg/kafka"
	"InstaGraph/internal/pkg/redis"
	"InstaGraph/internal/pkg/util"
	"InstaGraph/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

const (
	accountInsightsLookback = 30 * 24 * time.Hour
	accountAnalyticsPosts   = 10
	accountTopPosts         = 3
	ingestionLockTTL        = 5 * time.Minute
)

// GraphAPI Instagram Graph API，由 graph.Client 实现
type GraphAPI interface {
	GetPages(ctx context.Context, token string) ([]graph.Page, error)
	GetProfile(ctx context.Context, token, igID string) (*graph.Profile, error)
	GetAccountInsights(ctx context.Context, token, igID string, since time.Time) ([]graph.InsightMetric, error)
	GetMedia(ctx context.Context, token, igID string) ([]graph.Media, error)
	GetMediaInsights(ctx context.Context, token, mediaID, mediaType string) ([]graph.InsightMetric, error)
}

// TokenVault 访问令牌加解密，由 security.TokenSealer 实现
type TokenVault interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

type InstagramService interface {
	ConnectAccount(ctx context.Context, userID uint64, accessToken string) (*dto.AccountDTO, error)
	ListAccounts(ctx context.Context, userID uint64) ([]*dto.AccountDTO, error)
	FetchAccountInsights(ctx context.Context, accountID uint64) error
	FetchMediaInsights(ctx context.Context, accountID uint64) error
	RefreshInsights(ctx context.Context, userID, accountID uint64) error
	GetAccountAnalytics(ctx context.Context, userID, accountID uint64) (*dto.AccountAnalyticsDTO, error)
	SearchPosts(ctx context.Context, userID, accountID uint64, query *dto.PostSearchDTO) (*dto.PostSearchResultDTO, error)
}

type InstagramServiceImpl struct {
	graph              GraphAPI
	vault              TokenVault
	accountRepo        repository.AccountRepo
	postRepo           repository.PostRepo
	insightRepo        repository.InsightRepo
	accountInsightRepo repository.AccountInsightRepo
	analyticsSvc       AnalyticsService
	publisher          kafka.JobPublisher
	postIndex          es.PostRepo
	mirror             ThumbnailMirror
	now                func() time.Time
}

// NewInstagramService postIndex 与 mirror 可以为 nil，此时跳过索引与缩略图转存
func NewInstagramService(
	graphAPI GraphAPI,
	vault TokenVault,
	accountRepo repository.AccountRepo,
	postRepo repository.PostRepo,
	insightRepo repository.InsightRepo,
	accountInsightRepo repository.AccountInsightRepo,
	analyticsSvc AnalyticsService,
	publisher kafka.JobPublisher,
	postIndex es.PostRepo,
	mirror ThumbnailMirror,
) InstagramService {
	return &InstagramServiceImpl{
		graph:              graphAPI,
		vault:              vault,
		accountRepo:        accountRepo,
		postRepo:           postRepo,
		insightRepo:        insightRepo,
		accountInsightRepo: accountInsightRepo,
		analyticsSvc:       analyticsSvc,
		publisher:          publisher,
		postIndex:          postIndex,
		mirror:             mirror,
		now:                time.Now,
	}
}

// ConnectAccount 找到用户主页关联的第一个 Instagram 商业账号并保存
func (s *InstagramServiceImpl) ConnectAccount(ctx context.Context, userID uint64, accessToken string) (*dto.AccountDTO, error) {
	pages, err := s.graph.GetPages(ctx, accessToken)
	if err != nil {
		return nil, s.upstream(ctx, "get pages", err)
	}
	igID, ok := graph.FirstBusinessAccountID(pages)
	if !ok {
		return nil, ErrInstagramAccountNotFound
	}

	profile, err := s.graph.GetProfile(ctx, accessToken, igID)
	if err != nil {
		return nil, s.upstream(ctx, "get profile", err)
	}

	sealed, err := s.vault.Seal(accessToken)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		UserID:   userID,
		IgID:     igID,
		Language: model.DefaultLanguage,
		Timezone: model.DefaultTimezone,
		IsActive: true,
	}
	applyProfile(account, profile)
	account.AccessToken = sealed

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	err = s.publisher.Publish(ctx,
		kafka.Job{Type: consts.JobFetchAccountInsights, AccountID: saved.ID},
		kafka.Job{Type: consts.JobFetchMediaInsights, AccountID: saved.ID},
	)
	if err != nil {
		// 定时任务会补偿，连接本身视为成功
		log.ErrorContext(ctx, "投递首次采集任务失败", "account_id", saved.ID, "err", err)
	}

	log.InfoContext(ctx, "Instagram 账号已连接", "account_id", saved.ID, "username", saved.Username)
	return toAccountDTO(saved)
}

func (s *InstagramServiceImpl) ListAccounts(ctx context.Context, userID uint64) ([]*dto.AccountDTO, error) {
	accounts, err := s.accountRepo.GetAccountsByUserId(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		d, err := toAccountDTO(a)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// FetchAccountInsights 刷新资料并写入当天（UTC）的账户快照，随后清除分析缓存
func (s *InstagramServiceImpl) FetchAccountInsights(ctx context.Context, accountID uint64) error {
	account, token, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	profile, err := s.graph.GetProfile(ctx, token, account.IgID)
	if err != nil {
		return s.upstreamFor(ctx, account, "get profile", err)
	}
	applyProfile(account, profile)
	if err = s.accountRepo.UpdateProfile(ctx, account); err != nil {
		return err
	}

	now := s.now().UTC()
	metrics, err := s.graph.GetAccountInsights(ctx, token, account.IgID, now.Add(-accountInsightsLookback))
	if err != nil {
		return s.upstreamFor(ctx, account, "get account insights", err)
	}
	values := graph.LatestValues(metrics)

	snapshot := &model.AccountInsight{
		AccountID:      account.ID,
		Date:           time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Reach:          values["reach"],
		Impressions:    values["impressions"],
		ProfileVisits:  values["profile_visits"],
		WebsiteClicks:  values["website_clicks"],
		FollowersCount: account.FollowersCount,
		FollowsCount:   account.FollowsCount,
		MediaCount:     account.MediaCount,
	}
	if err = s.accountInsightRepo.SaveOrUpdate(ctx, snapshot); err != nil {
		return err
	}
	s.analyticsSvc.Invalidate(ctx, account.ID)

	log.InfoContext(ctx, "账户指标已更新", "account_id", account.ID, "username", account.Username)
	return nil
}

// FetchMediaInsights 单条帖子失败只记录日志并跳过，有新快照时清除分析缓存
func (s *InstagramServiceImpl) FetchMediaInsights(ctx context.Context, accountID uint64) error {
	account, token, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return err
	}

	media, err := s.graph.GetMedia(ctx, token, account.IgID)
	if err != nil {
		return s.upstreamFor(ctx, account, "get media", err)
	}

	saved := 0
	for _, m := range media {
		if err = s.ingestMedia(ctx, account, token, m); err != nil {
			log.WarnContext(ctx, "帖子指标采集失败，已跳过", "media_id", m.ID, "err", err)
			continue
		}
		saved++
	}
	if saved > 0 {
		s.analyticsSvc.Invalidate(ctx, account.ID)
	}

	log.InfoContext(ctx, "帖子指标已更新", "account_id", account.ID, "media", len(media), "saved", saved)
	return nil
}

func (s *InstagramServiceImpl) ingestMedia(ctx context.Context, account *model.Account, token string, m graph.Media) error {
	post := &model.Post{
		AccountID:    account.ID,
		IgMediaID:    m.ID,
		MediaType:    m.MediaType,
		MediaURL:     m.MediaURL,
		ThumbnailURL: m.ThumbnailURL,
		Caption:      m.Caption,
		Permalink:    m.Permalink,
		Hashtags:     util.ExtractHashtags(m.Caption),
		Mentions:     util.ExtractMentions(m.Caption),
		Timestamp:    m.PublishedAt(),
	}
	if post.Timestamp.IsZero() {
		post.Timestamp = s.now().UTC()
	}
	if _, err := s.postRepo.UpsertPost(ctx, post); err != nil {
		return err
	}

	metrics, err := s.graph.GetMediaInsights(ctx, token, m.ID, m.MediaType)
	if err != nil {
		return errors.Wrap(err, "get media insights")
	}
	values := graph.LatestValues(metrics)

	insight := &model.Insight{
		PostID:      post.ID,
		Reach:       values["reach"],
		Impressions: values["impressions"],
		Likes:       values["likes"],
		Comments:    values["comments"],
		Shares:      values["shares"],
		Saves:       values["saves"],
		VideoViews:  values["video_views"],
		RecordedAt:  s.now().UTC(),
	}
	insight.EngagementRate = analytics.EngagementRate(insight.Likes, insight.Comments, insight.Shares, insight.Saves, insight.Reach)
	if err = s.insightRepo.CreateInsight(ctx, insight); err != nil {
		return err
	}

	s.indexPost(ctx, post, insight)
	s.mirrorThumbnail(ctx, post)
	return nil
}

func (s *InstagramServiceImpl) indexPost(ctx context.Context, post *model.Post, insight *model.Insight) {
	if s.postIndex == nil {
		return
	}
	err := s.postIndex.IndexPost(ctx, &es.PostDoc{
		ID:             post.ID,
		AccountID:      post.AccountID,
		IgMediaID:      post.IgMediaID,
		MediaType:      post.MediaType,
		Caption:        post.Caption,
		Hashtags:       post.Hashtags,
		Mentions:       post.Mentions,
		Permalink:      post.Permalink,
		ThumbnailURL:   post.ThumbnailURL,
		LikeCount:      insight.Likes,
		CommentsCount:  insight.Comments,
		EngagementRate: insight.EngagementRate,
		Timestamp:      post.Timestamp,
	})
	if err != nil {
		log.WarnContext(ctx, "帖子索引失败", "post_id", post.ID, "err", err)
	}
}

func (s *InstagramServiceImpl) mirrorThumbnail(ctx context.Context, post *model.Post) {
	if s.mirror == nil {
		return
	}
	key, err := s.mirror.Mirror(ctx, post)
	if err != nil {
		log.WarnContext(ctx, "缩略图转存失败", "post_id", post.ID, "err", err)
		return
	}
	if err = s.postRepo.UpdateStoredThumbnail(ctx, post.ID, key); err != nil {
		log.WarnContext(ctx, "保存缩略图地址失败", "post_id", post.ID, "err", err)
	}
}

// RefreshInsights 同步执行两类采集，同一账号同时只允许一个刷新
func (s *InstagramServiceImpl) RefreshInsights(ctx context.Context, userID, accountID uint64) error {
	if _, err := ownedAccount(ctx, s.accountRepo, userID, accountID); err != nil {
		return err
	}

	lockKey := consts.IngestionLock + strconv.FormatUint(accountID, 10)
	lockValue := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, lockValue, ingestionLockTTL, 1)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIngestionInProgress
	}
	defer redis.UnLock(ctx, lockKey, lockValue)

	if err = s.FetchAccountInsights(ctx, accountID); err != nil {
		return err
	}
	return s.FetchMediaInsights(ctx, accountID)
}

// GetAccountAnalytics 最近 10 条有快照帖子的汇总与互动率前三
func (s *InstagramServiceImpl) GetAccountAnalytics(ctx context.Context, userID, accountID uint64) (*dto.AccountAnalyticsDTO, error) {
	account, err := ownedAccount(ctx, s.accountRepo, userID, accountID)
	if err != nil {
		return nil, err
	}

	rows, err := s.postRepo.GetRecentPostsWithLatestInsight(ctx, accountID, accountAnalyticsPosts)
	if err != nil {
		return nil, err
	}
	posts := analytics.WithMetrics(analytics.FromPosts(rows), accountAnalyticsPosts)

	out := &dto.AccountAnalyticsDTO{
		Account: dto.AccountSummaryDTO{
			Username:       account.Username,
			FollowersCount: account.FollowersCount,
			MediaCount:     account.MediaCount,
		},
		TopPosts: make([]dto.PostSummaryDTO, 0, accountTopPosts),
	}

	totalER := 0.0
	for _, p := range posts {
		m := p.Metrics
		out.Analytics.TotalReach += m.Reach
		out.Analytics.TotalImpressions += m.Impressions
		out.Analytics.TotalEngagement += m.Likes + m.Comments + m.Shares + m.Saves
		totalER += m.EngagementRate
	}
	out.Analytics.PostsAnalyzed = len(posts)
	if len(posts) > 0 {
		out.Analytics.AvgEngagementRate = analytics.Round2(totalER / float64(len(posts)))
	}

	ranked := append([]analytics.PostSample(nil), posts...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Metrics.EngagementRate > ranked[j].Metrics.EngagementRate
	})
	for _, p := range head(ranked, accountTopPosts) {
		out.TopPosts = append(out.TopPosts, dto.PostSummaryDTO{
			ID:             p.ID,
			Caption:        analytics.PreviewCaption(p.Caption),
			MediaType:      p.MediaType,
			EngagementRate: p.Metrics.EngagementRate,
			Reach:          p.Metrics.Reach,
			Likes:          p.Metrics.Likes,
			Comments:       p.Metrics.Comments,
		})
	}
	return out, nil
}

// SearchPosts 在 ES 中检索，缩略图地址以数据库为准
func (s *InstagramServiceImpl) SearchPosts(ctx context.Context, userID, accountID uint64, query *dto.PostSearchDTO) (*dto.PostSearchResultDTO, error) {
	if _, err := ownedAccount(ctx, s.accountRepo, userID, accountID); err != nil {
		return nil, err
	}
	if s.postIndex == nil {
		return nil, ErrSearchDisabled
	}

	after, err := util.DecodeCursor(query.Cursor)
	if err != nil {
		return nil, ErrParamInvalid
	}
	size := query.Size
	if size <= 0 {
		size = es.DefaultSearchSize
	}

	hits, err := s.postIndex.SearchPosts(ctx, es.SearchQuery{
		AccountID: accountID,
		Text:      query.Q,
		Hashtag:   query.Hashtag,
		MediaType: query.MediaType,
		After:     after,
		Size:      size,
	})
	if err != nil {
		return nil, err
	}

	stored := make(map[uint64]string, len(hits))
	if s.mirror != nil && len(hits) > 0 {
		ids := make([]uint64, 0, len(hits))
		for _, h := range hits {
			ids = append(ids, h.ID)
		}
		posts, err := s.postRepo.GetPostsByIds(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			if p.StoredThumbnailKey != "" {
				stored[p.ID] = s.mirror.PublicURL(p.StoredThumbnailKey)
			}
		}
	}

	out := &dto.PostSearchResultDTO{Items: make([]dto.PostHitDTO, 0, len(hits))}
	for _, h := range hits {
		thumb := h.ThumbnailURL
		if u, ok := stored[h.ID]; ok {
			thumb = u
		}
		out.Items = append(out.Items, dto.PostHitDTO{
			ID:             h.ID,
			IgMediaID:      h.IgMediaID,
			MediaType:      h.MediaType,
			Caption:        h.Caption,
			Hashtags:       h.Hashtags,
			Permalink:      h.Permalink,
			ThumbnailURL:   thumb,
			EngagementRate: h.EngagementRate,
			Timestamp:      h.Timestamp,
		})
	}
	if len(hits) == size {
		out.NextCursor = util.EncodeCursor(hits[len(hits)-1].Sort)
	}
	return out, nil
}

func (s *InstagramServiceImpl) loadAccount(ctx context.Context, accountID uint64) (*model.Account, string, error) {
	account, err := s.accountRepo.GetAccountById(ctx, accountID)
	if err != nil {
		return nil, "", err
	}
	if account == nil {
		return nil, "", ErrAccountNotFound
	}
	token, err := s.vault.Open(account.AccessToken)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// upstreamFor 令牌失效时停用账号，定时任务不再为其投递
func (s *InstagramServiceImpl) upstreamFor(ctx context.Context, account *model.Account, op string, err error) error {
	if apiErr, ok := graph.AsAPIError(err); ok && apiErr.IsTokenError() {
		if e := s.accountRepo.SetActive(ctx, account.ID, false); e != nil {
			log.ErrorContext(ctx, "停用账号失败", "account_id", account.ID, "err", e)
		} else {
			log.WarnContext(ctx, "访问令牌失效，账号已停用", "account_id", account.ID)
		}
	}
	return s.upstream(ctx, op, err)
}

func (s *InstagramServiceImpl) upstream(ctx context.Context, op string, err error) error {
	log.ErrorContext(ctx, "Graph API 调用失败", "op", op, "err", err)
	return fmt.Errorf("%w: %s: %w", ErrGraphUnavailable, op, err)
}

func applyProfile(account *model.Account, p *graph.Profile) {
	account.Username = p.Username
	account.Name = p.Name
	account.ProfilePictureURL = p.ProfilePictureURL
	account.Website = p.Website
	account.Biography = p.Biography
	account.FollowersCount = p.FollowersCount
	account.FollowsCount = p.FollowsCount
	account.MediaCount = p.MediaCount
}

func toAccountDTO(account *model.Account) (*dto.AccountDTO, error) {
	out := &dto.AccountDTO{}
	if err := copier.Copy(out, account); err != nil {
		return nil, err
	}
	return out, nil
}
