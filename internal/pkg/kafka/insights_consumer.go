package kafka

import (
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
)

// InsightsFetcher 执行采集任务的业务方
type InsightsFetcher interface {
	FetchAccountInsights(ctx context.Context, accountID uint64) error
	FetchMediaInsights(ctx context.Context, accountID uint64) error
}

type InsightsHandler struct {
	fetcher InsightsFetcher
}

func NewInsightsHandler(fetcher InsightsFetcher) *InsightsHandler {
	return &InsightsHandler{fetcher: fetcher}
}

func (s *InsightsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("insights consumer setup")
	return nil
}

func (s *InsightsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("insights consumer cleanup")
	return nil
}

func (s *InsightsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.handle)
}

func (s *InsightsHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	job, err := DecodeJob(msg.Value)
	if err != nil {
		return err
	}
	return s.Dispatch(ctx, job)
}

// Dispatch 按任务类型调用对应的采集流程
func (s *InsightsHandler) Dispatch(ctx context.Context, job *Job) error {
	if job.TraceID != "" {
		ctx = logger.WithTraceID(ctx, job.TraceID)
	} else {
		ctx = logger.NewJobContext(ctx, job.Type)
	}

	log.InfoContext(ctx, "开始执行采集任务", "type", job.Type, "account_id", job.AccountID)
	switch job.Type {
	case consts.JobFetchAccountInsights:
		return s.fetcher.FetchAccountInsights(ctx, job.AccountID)
	case consts.JobFetchMediaInsights:
		return s.fetcher.FetchMediaInsights(ctx, job.AccountID)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidJob, job.Type)
	}
}
