package service

import (
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/llm"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

func newRecommendationFixture(rows []model.PostWithInsight, contentModel ContentLLM) (*RecommendationServiceImpl, *fakeRecommendationRepo, *fakeGenerationLog) {
	account := &model.Account{ID: 1, UserID: 7, Username: "tbilisi.eats", Language: "ka", Timezone: "Asia/Tbilisi"}
	recRepo := newFakeRecommendationRepo()
	genLog := &fakeGenerationLog{}
	svc := NewRecommendationService(
		newFakeAccountRepo(account),
		newFakePostRepo(rows...),
		recRepo,
		NewContentGenerator(contentModel, genLog),
	).(*RecommendationServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc, recRepo, genLog
}

func recsOfType(recs []*model.Recommendation, typ model.RecommendationType) []*model.Recommendation {
	var out []*model.Recommendation
	for _, r := range recs {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

func TestGenerate_FallbackWhenModelFails(t *testing.T) {
	svc, recRepo, genLog := newRecommendationFixture(nil, &fakeContentLLM{err: errors.New("boom")})

	out, err := svc.Generate(context.Background(), 7, 1)
	require.NoError(t, err)

	ideas := recsOfType(recRepo.created, model.RecommendationContentIdea)
	require.Len(t, ideas, 2)
	assert.Len(t, out, 2)
	assert.Equal(t, 1, ideas[0].Priority)
	assert.Equal(t, 1, ideas[1].Priority)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), ideas[0].ValidUntil)
	assert.Equal(t, model.RecommendationActive, ideas[0].Status)

	// 没有帖子时不生成发布时间与话题标签建议
	assert.Empty(t, recsOfType(recRepo.created, model.RecommendationTiming))
	assert.Empty(t, recsOfType(recRepo.created, model.RecommendationHashtags))

	require.Len(t, genLog.entries, 1)
	assert.True(t, genLog.entries[0].UsedFallback)
	assert.Equal(t, "boom", genLog.entries[0].Error)
}

func TestGenerate_ContentIdeaPriorities(t *testing.T) {
	ideas := make([]llm.ContentIdea, 5)
	for i := range ideas {
		ideas[i] = llm.ContentIdea{Title: "idea", ContentType: llm.ContentTypeReel}
	}
	svc, recRepo, _ := newRecommendationFixture(nil, &fakeContentLLM{ideas: ideas})

	_, err := svc.Generate(context.Background(), 7, 1)
	require.NoError(t, err)

	got := recsOfType(recRepo.created, model.RecommendationContentIdea)
	require.Len(t, got, 5)
	priorities := make([]int, 0, len(got))
	for _, r := range got {
		priorities = append(priorities, r.Priority)
	}
	assert.Equal(t, []int{1, 1, 2, 2, 2}, priorities)

	var payload struct {
		PerformancePrediction PerformancePrediction `json:"performance_prediction"`
	}
	require.NoError(t, json.Unmarshal([]byte(got[0].Content), &payload))
	assert.Equal(t, 2.5, payload.PerformancePrediction.PredictedER)
	assert.Equal(t, "low", payload.PerformancePrediction.Confidence)
}

func TestGenerate_PromptUsesAccountDefaults(t *testing.T) {
	fake := &fakeContentLLM{err: errors.New("down")}
	svc, _, _ := newRecommendationFixture([]model.PostWithInsight{
		postRow(1, model.MediaTypeImage, fixedNow.Add(-time.Hour), 10, 100, "hi"),
	}, fake)

	_, err := svc.Generate(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "general", fake.request.Niche)
	assert.Equal(t, "friendly", fake.request.Tone)
	assert.Equal(t, []string{"ka"}, fake.request.Languages)
	assert.Equal(t, 5, fake.request.Count)
	require.Len(t, fake.request.Recent, 1)
	assert.Equal(t, 10.0, fake.request.Recent[0].EngagementRate)
}

func TestGenerate_TimingNeedsMoreThanFivePosts(t *testing.T) {
	rows := make([]model.PostWithInsight, 0, 6)
	for i := 0; i < 5; i++ {
		rows = append(rows, postRow(uint64(i+1), model.MediaTypeImage, fixedNow.Add(-time.Duration(i)*time.Hour), 10, 100, ""))
	}

	svc, recRepo, _ := newRecommendationFixture(rows, &fakeContentLLM{err: errors.New("x")})
	_, err := svc.Generate(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Empty(t, recsOfType(recRepo.created, model.RecommendationTiming))

	rows = append(rows, postRow(6, model.MediaTypeVideo, fixedNow.Add(-6*time.Hour), 30, 100, ""))
	svc, recRepo, _ = newRecommendationFixture(rows, &fakeContentLLM{err: errors.New("x")})
	_, err = svc.Generate(context.Background(), 7, 1)
	require.NoError(t, err)

	timing := recsOfType(recRepo.created, model.RecommendationTiming)
	require.Len(t, timing, 1)
	assert.Equal(t, 1, timing[0].Priority)
	assert.Equal(t, fixedNow.Add(14*24*time.Hour), timing[0].ValidUntil)

	var payload timingPayload
	require.NoError(t, json.Unmarshal([]byte(timing[0].Content), &payload))
	assert.Equal(t, "Asia/Tbilisi", payload.Timezone)
	require.NotEmpty(t, payload.BestTimes.BestHours)
	assert.LessOrEqual(t, len(payload.BestTimes.BestHours), 3)
	assert.Equal(t, 30.0, payload.BestTimes.BestHours[0].AvgER)
}

func TestGenerate_HashtagRecommendation(t *testing.T) {
	rows := []model.PostWithInsight{
		postRow(1, model.MediaTypeImage, fixedNow, 50, 100, "", "food", "tbilisi"),
		postRow(2, model.MediaTypeImage, fixedNow, 10, 100, "", "tbilisi"),
		postRow(3, model.MediaTypeImage, fixedNow, 1, 100, "", "random"),
	}
	svc, recRepo, _ := newRecommendationFixture(rows, &fakeContentLLM{
		err: errors.New("x"),
	})

	_, err := svc.Generate(context.Background(), 7, 1)
	require.NoError(t, err)

	tags := recsOfType(recRepo.created, model.RecommendationHashtags)
	require.Len(t, tags, 1)
	assert.Equal(t, 2, tags[0].Priority)
	assert.Equal(t, fixedNow.Add(30*24*time.Hour), tags[0].ValidUntil)

	var payload hashtagPayload
	require.NoError(t, json.Unmarshal([]byte(tags[0].Content), &payload))
	require.Len(t, payload.TopPerforming, 3)
	assert.Equal(t, "food", payload.TopPerforming[0].Hashtag)
	assert.Equal(t, "random", payload.Underperforming[0].Hashtag)
	// 语言为 ka 时使用格鲁吉亚语兜底标签
	assert.Contains(t, payload.Suggestions.Core, "#საქართველო")
}

func TestGenerate_ForeignAccount(t *testing.T) {
	svc, recRepo, _ := newRecommendationFixture(nil, &fakeContentLLM{})
	_, err := svc.Generate(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Empty(t, recRepo.created)
}

func TestList_DefaultsToActive(t *testing.T) {
	svc, recRepo, _ := newRecommendationFixture(nil, &fakeContentLLM{})
	recRepo.recs[1] = &model.Recommendation{ID: 1, AccountID: 1, Status: model.RecommendationActive, Content: "{}"}
	recRepo.recs[2] = &model.Recommendation{ID: 2, AccountID: 1, Status: model.RecommendationDismissed, Content: "{}"}

	out, err := svc.List(context.Background(), 7, 1, "")
	require.NoError(t, err)
	assert.Equal(t, model.RecommendationActive, recRepo.listed)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(1), out[0].ID)

	_, err = svc.List(context.Background(), 7, 1, "archived")
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		current model.RecommendationStatus
		next    string
		userID  uint64
		wantErr error
	}{
		{"dismiss", model.RecommendationActive, "dismissed", 7, nil},
		{"complete", model.RecommendationActive, "completed", 7, nil},
		{"reactivate", model.RecommendationDismissed, "active", 7, ErrInvalidStatusTransition},
		{"completed is final", model.RecommendationCompleted, "dismissed", 7, ErrInvalidStatusTransition},
		{"unknown target", model.RecommendationActive, "archived", 7, ErrParamInvalid},
		{"other user", model.RecommendationActive, "dismissed", 8, ErrRecommendationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, recRepo, _ := newRecommendationFixture(nil, &fakeContentLLM{})
			original := model.Recommendation{
				ID:         5,
				AccountID:  1,
				Type:       model.RecommendationContentIdea,
				Title:      "Behind the scenes",
				Content:    `{"idea":{"title":"Behind the scenes"},"performance_prediction":{"expected_engagement_rate":3.1}}`,
				Priority:   1,
				Status:     tt.current,
				ValidUntil: fixedNow.AddDate(0, 0, 7),
				CreatedAt:  fixedNow,
			}
			stored := original
			recRepo.recs[5] = &stored

			err := svc.UpdateStatus(context.Background(), tt.userID, 5, tt.next)
			want := original
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				want.Status = model.RecommendationStatus(tt.next)
			}
			// 只有状态字段可能变化
			assert.Equal(t, want, *recRepo.recs[5])
		})
	}
}

func TestUpdateStatus_Missing(t *testing.T) {
	svc, _, _ := newRecommendationFixture(nil, &fakeContentLLM{})
	err := svc.UpdateStatus(context.Background(), 7, 42, "dismissed")
	assert.ErrorIs(t, err, ErrRecommendationNotFound)
}

func TestPredictPerformance(t *testing.T) {
	recent := []llm.PostPerformance{{EngagementRate: 2}, {EngagementRate: 4}}

	reel := PredictPerformance(llm.ContentIdea{ContentType: llm.ContentTypeReel}, recent)
	assert.Equal(t, 3.9, reel.PredictedER)
	assert.Equal(t, "medium", reel.Confidence)
	assert.Equal(t, 2, reel.BasedOnPosts)

	image := PredictPerformance(llm.ContentIdea{ContentType: llm.ContentTypeSingleImage}, recent)
	assert.Equal(t, 3.0, image.PredictedER)
}
