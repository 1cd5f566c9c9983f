package kafka

import (
	"InstaGraph/internal/api/config"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理采集任务消费者
type ConsumerManager struct {
	insightsConsumer sarama.ConsumerGroup
	insightsHandler  sarama.ConsumerGroupHandler
	topic            string
}

func NewConsumerManager(cfg config.KafkaConfig, fetcher InsightsFetcher) (*ConsumerManager, error) {
	insightsConsumer, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.InsightsGroup, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		insightsConsumer: insightsConsumer,
		insightsHandler:  NewInsightsHandler(fetcher),
		topic:            cfg.InsightsTopic,
	}, nil
}

// Start 阻塞运行直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.insightsConsumer.Errors() {
			log.Error("Error from consumer group", "err", err)
		}
	}()

	log.Info("Insights consumer started", "topic", m.topic)
	for {
		if err := m.insightsConsumer.Consume(ctx, []string{m.topic}, m.insightsHandler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			log.Error("Error from consumer", "err", err)
		}
		if ctx.Err() != nil {
			break
		}
	}

	log.Info("Kafka Manager shutting down...")
	if err := m.insightsConsumer.Close(); err != nil {
		log.Error("Failed to close insights consumer", "err", err)
		return err
	}
	return nil
}
