package job

import (
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/kafka"
	"InstaGraph/internal/pkg/redis"
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	accounts []*model.Account
	err      error
}

func (f *fakeAccountRepo) GetAccountById(context.Context, uint64) (*model.Account, error) {
	return nil, nil
}
func (f *fakeAccountRepo) GetAccountByIgId(context.Context, string) (*model.Account, error) {
	return nil, nil
}
func (f *fakeAccountRepo) GetAccountsByUserId(context.Context, uint64) ([]*model.Account, error) {
	return nil, nil
}
func (f *fakeAccountRepo) GetActiveAccounts(context.Context) ([]*model.Account, error) {
	return f.accounts, f.err
}
func (f *fakeAccountRepo) SaveAccount(_ context.Context, a *model.Account) (*model.Account, error) {
	return a, nil
}
func (f *fakeAccountRepo) UpdateProfile(context.Context, *model.Account) error {
	return nil
}
func (f *fakeAccountRepo) SetActive(context.Context, uint64, bool) error {
	return nil
}

type fakePublisher struct {
	jobs  []kafka.Job
	calls int
}

func (f *fakePublisher) Publish(_ context.Context, jobs ...kafka.Job) error {
	f.calls++
	f.jobs = append(f.jobs, jobs...)
	return nil
}

func TestInsightsJob_Enqueue(t *testing.T) {
	repo := &fakeAccountRepo{accounts: []*model.Account{{ID: 1}, {ID: 2}}}
	pub := &fakePublisher{}

	n, err := NewInsightsJob(repo, pub).Enqueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, pub.jobs, 4)
	assert.Equal(t, kafka.Job{Type: consts.JobFetchAccountInsights, AccountID: 1}, pub.jobs[0])
	assert.Equal(t, kafka.Job{Type: consts.JobFetchMediaInsights, AccountID: 1}, pub.jobs[1])
	assert.Equal(t, uint64(2), pub.jobs[3].AccountID)
}

func TestInsightsJob_EnqueueRepoError(t *testing.T) {
	pub := &fakePublisher{}
	_, err := NewInsightsJob(&fakeAccountRepo{err: errors.New("db down")}, pub).Enqueue(context.Background())
	assert.Error(t, err)
	assert.Zero(t, pub.calls)
}

func TestInsightsJob_RunSkipsWhenLocked(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })

	require.NoError(t, mr.Set(consts.InsightsJobLock, "other"))

	pub := &fakePublisher{}
	NewInsightsJob(&fakeAccountRepo{accounts: []*model.Account{{ID: 1}}}, pub).Run()
	assert.Zero(t, pub.calls)

	mr.Del(consts.InsightsJobLock)
	NewInsightsJob(&fakeAccountRepo{accounts: []*model.Account{{ID: 1}}}, pub).Run()
	assert.Equal(t, 1, pub.calls)
	assert.False(t, mr.Exists(consts.InsightsJobLock))
}
