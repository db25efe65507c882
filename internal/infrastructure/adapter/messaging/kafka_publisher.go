package messaging

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

// KafkaConfig holds the producer settings
type KafkaConfig struct {
	Brokers     []string
	ClientID    string
	TopicPrefix string
}

// KafkaPublisher publishes events through a synchronous Kafka producer
type KafkaPublisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
	logger      coreport.Logger
}

// NewProducerConfig returns the producer configuration: every in-sync replica must
// acknowledge, sends are retried three times and successes are reported back
func NewProducerConfig(clientID string) *sarama.Config {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.ClientID = clientID
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Retry.Max = 3
	kafkaConfig.Producer.Return.Successes = true
	kafkaConfig.Producer.Idempotent = false
	return kafkaConfig
}

// NewKafkaPublisher connects a producer to the brokers
func NewKafkaPublisher(cfg KafkaConfig, logger coreport.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewProducerConfig(cfg.ClientID))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	logger.Info("Kafka producer created", map[string]any{
		"brokers": cfg.Brokers,
	})
	return NewKafkaPublisherWithProducer(producer, cfg.TopicPrefix, logger), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topicPrefix string, logger coreport.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer:    producer,
		topicPrefix: topicPrefix,
		logger:      logger,
	}
}

// Publish sends payload to the prefixed topic, partitioned by key
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Warn("Failed to publish event", map[string]any{
			"topic": msg.Topic,
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("%w: publish to %s: %s", errs.ErrStoreUnavailable, msg.Topic, err.Error())
	}

	p.logger.Debug("Event published", map[string]any{
		"topic":     msg.Topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	})
	return nil
}

// Close releases the producer
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
