package service

import (
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/llm"
	"InstaGraph/internal/pkg/mongo"
	"InstaGraph/internal/pkg/redis"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })
	return mr
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uint64]*model.Account
	nextID   uint64
	inactive []uint64
}

func newFakeAccountRepo(accounts ...*model.Account) *fakeAccountRepo {
	f := &fakeAccountRepo{accounts: map[uint64]*model.Account{}, nextID: 100}
	for _, a := range accounts {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeAccountRepo) GetAccountById(_ context.Context, id uint64) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id], nil
}

func (f *fakeAccountRepo) GetAccountByIgId(_ context.Context, igID string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.IgID == igID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) GetAccountsByUserId(_ context.Context, userID uint64) ([]*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Account
	for _, a := range f.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) GetActiveAccounts(context.Context) ([]*model.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) SaveAccount(_ context.Context, account *model.Account) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.IgID == account.IgID {
			account.ID = a.ID
		}
	}
	if account.ID == 0 {
		f.nextID++
		account.ID = f.nextID
	}
	f.accounts[account.ID] = account
	return account, nil
}

func (f *fakeAccountRepo) UpdateProfile(_ context.Context, account *model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) SetActive(_ context.Context, id uint64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		a.IsActive = active
	}
	if !active {
		f.inactive = append(f.inactive, id)
	}
	return nil
}

type fakePostRepo struct {
	mu      sync.Mutex
	rows    []model.PostWithInsight
	posts   map[string]*model.Post
	nextID  uint64
	thumbs  map[uint64]string
	queries int
}

func newFakePostRepo(rows ...model.PostWithInsight) *fakePostRepo {
	return &fakePostRepo{
		rows:   rows,
		posts:  map[string]*model.Post{},
		thumbs: map[uint64]string{},
	}
}

func (f *fakePostRepo) UpsertPost(_ context.Context, post *model.Post) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.posts[post.IgMediaID]; ok {
		post.ID = existing.ID
	} else {
		f.nextID++
		post.ID = f.nextID
	}
	f.posts[post.IgMediaID] = post
	return post.ID, nil
}

func (f *fakePostRepo) GetRecentPostsWithLatestInsight(_ context.Context, _ uint64, limit int) ([]model.PostWithInsight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if limit > 0 && len(f.rows) > limit {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func (f *fakePostRepo) GetPostsByIds(_ context.Context, ids []uint64) ([]*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Post
	for _, id := range ids {
		if key, ok := f.thumbs[id]; ok {
			out = append(out, &model.Post{ID: id, StoredThumbnailKey: key})
		}
	}
	return out, nil
}

func (f *fakePostRepo) UpdateStoredThumbnail(_ context.Context, postID uint64, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.thumbs[postID] = key
	return nil
}

type fakeInsightRepo struct {
	mu       sync.Mutex
	insights []*model.Insight
}

func (f *fakeInsightRepo) CreateInsight(_ context.Context, insight *model.Insight) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insights = append(f.insights, insight)
	return nil
}

type fakeAccountInsightRepo struct {
	saved     []*model.AccountInsight
	snapshots []*model.AccountInsight
}

func (f *fakeAccountInsightRepo) SaveOrUpdate(_ context.Context, insight *model.AccountInsight) error {
	f.saved = append(f.saved, insight)
	return nil
}

func (f *fakeAccountInsightRepo) GetRecentSnapshots(context.Context, uint64, time.Time, int) ([]*model.AccountInsight, error) {
	return f.snapshots, nil
}

type fakeRecommendationRepo struct {
	recs    map[uint64]*model.Recommendation
	created []*model.Recommendation
	listed  model.RecommendationStatus
	updated int
}

func newFakeRecommendationRepo(recs ...*model.Recommendation) *fakeRecommendationRepo {
	f := &fakeRecommendationRepo{recs: map[uint64]*model.Recommendation{}}
	for _, r := range recs {
		f.recs[r.ID] = r
	}
	return f
}

func (f *fakeRecommendationRepo) CreateBatch(_ context.Context, recs []*model.Recommendation) error {
	f.created = append(f.created, recs...)
	return nil
}

func (f *fakeRecommendationRepo) GetByAccount(_ context.Context, accountID uint64, status model.RecommendationStatus) ([]*model.Recommendation, error) {
	f.listed = status
	var out []*model.Recommendation
	for _, r := range f.recs {
		if r.AccountID == accountID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecommendationRepo) GetById(_ context.Context, id uint64) (*model.Recommendation, error) {
	return f.recs[id], nil
}

func (f *fakeRecommendationRepo) UpdateStatus(_ context.Context, id uint64, status model.RecommendationStatus) (int64, error) {
	r, ok := f.recs[id]
	if !ok {
		return 0, nil
	}
	r.Status = status
	f.updated++
	return 1, nil
}

type fakeGenerationLog struct {
	mu      sync.Mutex
	entries []*mongo.GenerationLog
	err     error
}

func (f *fakeGenerationLog) Save(_ context.Context, entry *mongo.GenerationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return f.err
}

type fakeContentLLM struct {
	ideas    []llm.ContentIdea
	hashtags *llm.HashtagSet
	err      error
	request  llm.ContentIdeasRequest
}

func (f *fakeContentLLM) ModelName() string {
	return "fake-model"
}

func (f *fakeContentLLM) GenerateContentIdeas(_ context.Context, req llm.ContentIdeasRequest) ([]llm.ContentIdea, *llm.Generation, error) {
	f.request = req
	if f.err != nil {
		return nil, &llm.Generation{Prompt: "ideas"}, f.err
	}
	return f.ideas, &llm.Generation{Prompt: "ideas", Output: "[]"}, nil
}

func (f *fakeContentLLM) GenerateHashtags(context.Context, string, string, string) (*llm.HashtagSet, *llm.Generation, error) {
	if f.err != nil {
		return nil, &llm.Generation{Prompt: "hashtags"}, f.err
	}
	return f.hashtags, &llm.Generation{Prompt: "hashtags", Output: "{}"}, nil
}

// postRow 构造一条带快照的帖子
func postRow(id uint64, mediaType string, ts time.Time, likes, reach int, caption string, hashtags ...string) model.PostWithInsight {
	return model.PostWithInsight{
		Post: model.Post{
			ID:        id,
			AccountID: 1,
			MediaType: mediaType,
			Caption:   caption,
			Timestamp: ts,
			Hashtags:  hashtags,
		},
		Insight: &model.Insight{
			PostID:         id,
			Likes:          likes,
			Reach:          reach,
			Impressions:    reach * 2,
			EngagementRate: float64(likes) / float64(reach) * 100,
		},
	}
}
