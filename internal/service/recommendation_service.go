package service

import (
	"InstaGraph/internal/api/dto"
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/analytics"
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/llm"
	"InstaGraph/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

const (
	recommendationPostWindow = 100
	contentPromptPosts       = 10
	contentIdeaCount         = 5
	timingMinPosts           = 5
	topHashtagCount          = 10
	weakHashtagCount         = 5

	contentIdeaValidity = 7 * 24 * time.Hour
	timingValidity      = 14 * 24 * time.Hour
	hashtagValidity     = 30 * 24 * time.Hour
)

type RecommendationService interface {
	Generate(ctx context.Context, userID, accountID uint64) ([]*dto.RecommendationDTO, error)
	List(ctx context.Context, userID, accountID uint64, status string) ([]*dto.RecommendationDTO, error)
	UpdateStatus(ctx context.Context, userID, recommendationID uint64, status string) error
}

type RecommendationServiceImpl struct {
	accountRepo        repository.AccountRepo
	postRepo           repository.PostRepo
	recommendationRepo repository.RecommendationRepo
	generator          ContentGenerator
	now                func() time.Time
}

func NewRecommendationService(
	accountRepo repository.AccountRepo,
	postRepo repository.PostRepo,
	recommendationRepo repository.RecommendationRepo,
	generator ContentGenerator,
) RecommendationService {
	return &RecommendationServiceImpl{
		accountRepo:        accountRepo,
		postRepo:           postRepo,
		recommendationRepo: recommendationRepo,
		generator:          generator,
		now:                time.Now,
	}
}

// PerformancePrediction 基于近期表现的简单预估
type PerformancePrediction struct {
	PredictedER  float64 `json:"predicted_er"`
	Confidence   string  `json:"confidence"`
	BasedOnPosts int     `json:"based_on_posts,omitempty"`
}

type contentIdeaPayload struct {
	Idea                  llm.ContentIdea       `json:"idea"`
	PerformancePrediction PerformancePrediction `json:"performance_prediction"`
}

type timingPayload struct {
	BestTimes struct {
		BestHours []analytics.TimeSlot `json:"best_hours"`
		BestDays  []analytics.TimeSlot `json:"best_days"`
	} `json:"best_times"`
	Analysis string `json:"analysis"`
	Timezone string `json:"timezone"`
}

type hashtagPayload struct {
	TopPerforming   []analytics.HashtagStat `json:"top_performing"`
	Underperforming []analytics.HashtagStat `json:"underperforming"`
	Suggestions     llm.HashtagSet          `json:"suggestions"`
}

func (s *RecommendationServiceImpl) Generate(ctx context.Context, userID, accountID uint64) ([]*dto.RecommendationDTO, error) {
	account, err := ownedAccount(ctx, s.accountRepo, userID, accountID)
	if err != nil {
		return nil, err
	}

	rows, err := s.postRepo.GetRecentPostsWithLatestInsight(ctx, account.ID, recommendationPostWindow)
	if err != nil {
		return nil, err
	}
	posts := analytics.FromPosts(rows)
	now := s.now()

	recs := make([]*model.Recommendation, 0, contentIdeaCount+2)

	contentRecs, err := s.contentRecommendations(ctx, account, posts, now)
	if err != nil {
		return nil, err
	}
	recs = append(recs, contentRecs...)

	timingRec, err := s.timingRecommendation(account, posts, now)
	if err != nil {
		return nil, err
	}
	if timingRec != nil {
		recs = append(recs, timingRec)
	}

	hashtagRec, err := s.hashtagRecommendation(ctx, account, posts, now)
	if err != nil {
		return nil, err
	}
	if hashtagRec != nil {
		recs = append(recs, hashtagRec)
	}

	if err = s.recommendationRepo.CreateBatch(ctx, recs); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "推荐生成完成", "account_id", account.ID, "count", len(recs))
	return toRecommendationDTOs(recs), nil
}

func (s *RecommendationServiceImpl) contentRecommendations(ctx context.Context, account *model.Account, posts []analytics.PostSample, now time.Time) ([]*model.Recommendation, error) {
	recent := analytics.WithMetrics(posts, contentPromptPosts)
	perf := make([]llm.PostPerformance, 0, len(recent))
	for _, p := range recent {
		perf = append(perf, llm.PostPerformance{
			MediaType:      p.MediaType,
			EngagementRate: p.Metrics.EngagementRate,
			Reach:          p.Metrics.Reach,
			Likes:          p.Metrics.Likes,
			Caption:        p.Caption,
		})
	}

	ideas := s.generator.GenerateContentIdeas(ctx, account.ID, llm.ContentIdeasRequest{
		Niche:     nicheOf(account),
		Tone:      consts.DefaultTone,
		Languages: []string{languageOf(account)},
		Recent:    perf,
		Count:     contentIdeaCount,
	})

	recs := make([]*model.Recommendation, 0, len(ideas))
	for i, idea := range ideas {
		content, err := json.Marshal(contentIdeaPayload{
			Idea:                  idea,
			PerformancePrediction: PredictPerformance(idea, perf),
		})
		if err != nil {
			return nil, err
		}
		priority := 2
		if i < 2 {
			priority = 1
		}
		recs = append(recs, &model.Recommendation{
			AccountID:  account.ID,
			Type:       model.RecommendationContentIdea,
			Title:      idea.Title,
			Content:    string(content),
			Priority:   priority,
			Status:     model.RecommendationActive,
			ValidUntil: now.Add(contentIdeaValidity),
		})
	}
	return recs, nil
}

// timingRecommendation 有时间戳的帖子不超过 5 条时不生成
func (s *RecommendationServiceImpl) timingRecommendation(account *model.Account, posts []analytics.PostSample, now time.Time) (*model.Recommendation, error) {
	if analytics.CountTimed(posts) <= timingMinPosts {
		return nil, nil
	}

	payload := timingPayload{
		Analysis: "თქვენი აუდიტორიის ანალიზის საფუძველზე",
		Timezone: account.Timezone,
	}
	payload.BestTimes.BestHours, payload.BestTimes.BestDays = analytics.PostingSlots(
		posts,
		analytics.Options{Location: account.Location()},
		analytics.BestTimesLimit,
	)

	content, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &model.Recommendation{
		AccountID:  account.ID,
		Type:       model.RecommendationTiming,
		Title:      "საუკეთესო დრო გამოქვეყნებისთვის",
		Content:    string(content),
		Priority:   1,
		Status:     model.RecommendationActive,
		ValidUntil: now.Add(timingValidity),
	}, nil
}

func (s *RecommendationServiceImpl) hashtagRecommendation(ctx context.Context, account *model.Account, posts []analytics.PostSample, now time.Time) (*model.Recommendation, error) {
	stats := analytics.HashtagStats(posts)
	if len(stats) == 0 {
		return nil, nil
	}

	top := append([]analytics.HashtagStat(nil), stats...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].AvgEngagement > top[j].AvgEngagement })
	weak := append([]analytics.HashtagStat(nil), stats...)
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].AvgEngagement < weak[j].AvgEngagement })

	niche := nicheOf(account)
	payload := hashtagPayload{
		TopPerforming:   head(top, topHashtagCount),
		Underperforming: head(weak, weakHashtagCount),
		Suggestions:     s.generator.GenerateHashtags(ctx, account.ID, niche, "general content", languageOf(account)),
	}

	content, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &model.Recommendation{
		AccountID:  account.ID,
		Type:       model.RecommendationHashtags,
		Title:      "საუკეთესო ჰეშთეგები",
		Content:    string(content),
		Priority:   2,
		Status:     model.RecommendationActive,
		ValidUntil: now.Add(hashtagValidity),
	}, nil
}

func (s *RecommendationServiceImpl) List(ctx context.Context, userID, accountID uint64, status string) ([]*dto.RecommendationDTO, error) {
	if _, err := ownedAccount(ctx, s.accountRepo, userID, accountID); err != nil {
		return nil, err
	}

	st := model.RecommendationActive
	if status != "" {
		st = model.RecommendationStatus(status)
		if !st.Valid() {
			return nil, ErrParamInvalid
		}
	}

	recs, err := s.recommendationRepo.GetByAccount(ctx, accountID, st)
	if err != nil {
		return nil, err
	}
	return toRecommendationDTOs(recs), nil
}

func (s *RecommendationServiceImpl) UpdateStatus(ctx context.Context, userID, recommendationID uint64, status string) error {
	next := model.RecommendationStatus(status)
	if !next.Valid() {
		return ErrParamInvalid
	}

	rec, err := s.recommendationRepo.GetById(ctx, recommendationID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrRecommendationNotFound
	}
	if _, err = ownedAccount(ctx, s.accountRepo, userID, rec.AccountID); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrRecommendationNotFound
		}
		return err
	}
	if !rec.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}

	affected, err := s.recommendationRepo.UpdateStatus(ctx, recommendationID, next)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecommendationNotFound
	}
	return nil
}

// PredictPerformance 无历史数据时给出 2.5 的低置信度预估
func PredictPerformance(idea llm.ContentIdea, recent []llm.PostPerformance) PerformancePrediction {
	if len(recent) == 0 {
		return PerformancePrediction{PredictedER: 2.5, Confidence: "low"}
	}

	total := 0.0
	for _, p := range recent {
		total += p.EngagementRate
	}
	avg := total / float64(len(recent))

	multiplier := 1.0
	switch idea.ContentType {
	case llm.ContentTypeReel:
		multiplier = 1.3
	case llm.ContentTypeCarousel:
		multiplier = 1.1
	}

	confidence := "medium"
	if len(recent) > 5 {
		confidence = "high"
	}
	return PerformancePrediction{
		PredictedER:  analytics.Round2(avg * multiplier),
		Confidence:   confidence,
		BasedOnPosts: len(recent),
	}
}

func toRecommendationDTOs(recs []*model.Recommendation) []*dto.RecommendationDTO {
	out := make([]*dto.RecommendationDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, &dto.RecommendationDTO{
			ID:         r.ID,
			AccountID:  r.AccountID,
			Type:       string(r.Type),
			Title:      r.Title,
			Content:    json.RawMessage(r.Content),
			Priority:   r.Priority,
			Status:     string(r.Status),
			ValidUntil: r.ValidUntil,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}

func nicheOf(account *model.Account) string {
	if account.Niche == "" {
		return consts.DefaultNiche
	}
	return account.Niche
}

func languageOf(account *model.Account) string {
	if account.Language == "" {
		return model.DefaultLanguage
	}
	return account.Language
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
