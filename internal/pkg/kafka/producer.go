package kafka

import (
	"InstaGraph/internal/api/config"
	"InstaGraph/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// JobPublisher 投递采集任务
type JobPublisher interface {
	Publish(ctx context.Context, jobs ...Job) error
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	p, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return NewProducerWith(p, cfg.InsightsTopic), nil
}

// NewProducerWith 使用已有的 SyncProducer
func NewProducerWith(p sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: p, topic: topic}
}

func (p *Producer) Publish(ctx context.Context, jobs ...Job) error {
	if len(jobs) == 0 {
		return nil
	}

	traceID := logger.TraceID(ctx)
	msgs := make([]*sarama.ProducerMessage, 0, len(jobs))
	for _, job := range jobs {
		if job.TraceID == "" {
			job.TraceID = traceID
		}
		if job.EnqueuedAt.IsZero() {
			job.EnqueuedAt = time.Now().UTC()
		}
		value, err := json.Marshal(job)
		if err != nil {
			return err
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.ByteEncoder(job.key()),
			Value: sarama.ByteEncoder(value),
		})
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("publish %d jobs: %w", len(msgs), err)
	}
	log.InfoContext(ctx, "采集任务已投递", "count", len(msgs), "topic", p.topic)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
