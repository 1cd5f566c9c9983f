package job

import (
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/kafka"
	"InstaGraph/internal/pkg/logger"
	"InstaGraph/internal/pkg/redis"
	"InstaGraph/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const insightsJobLockTTL = 5 * time.Minute

// InsightsJob 为每个活跃账号投递两类采集任务
type InsightsJob struct {
	accountRepo repository.AccountRepo
	publisher   kafka.JobPublisher
}

func NewInsightsJob(accountRepo repository.AccountRepo, publisher kafka.JobPublisher) *InsightsJob {
	return &InsightsJob{
		accountRepo: accountRepo,
		publisher:   publisher,
	}
}

func (s *InsightsJob) Run() {
	ctx := logger.NewJobContext(context.Background(), "insights")

	// 多实例部署时只允许一个实例投递
	lockValue := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.InsightsJobLock, lockValue, insightsJobLockTTL, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire insights job lock error", "err", err)
		return
	}
	if !ok {
		log.InfoContext(ctx, "insights job already running on another instance")
		return
	}
	defer redis.UnLock(ctx, consts.InsightsJobLock, lockValue)

	if _, err = s.Enqueue(ctx); err != nil {
		log.ErrorContext(ctx, "enqueue insights jobs error", "err", err)
	}
}

// Enqueue 返回投递的账号数
func (s *InsightsJob) Enqueue(ctx context.Context) (int, error) {
	accounts, err := s.accountRepo.GetActiveAccounts(ctx)
	if err != nil {
		return 0, err
	}

	jobs := make([]kafka.Job, 0, len(accounts)*2)
	for _, account := range accounts {
		jobs = append(jobs,
			kafka.Job{Type: consts.JobFetchAccountInsights, AccountID: account.ID},
			kafka.Job{Type: consts.JobFetchMediaInsights, AccountID: account.ID},
		)
	}
	if err = s.publisher.Publish(ctx, jobs...); err != nil {
		return 0, err
	}

	log.InfoContext(ctx, "insights jobs enqueued", "accounts", len(accounts))
	return len(accounts), nil
}
