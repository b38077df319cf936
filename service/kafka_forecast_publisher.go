package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"cw-forecast/logger"
	"cw-forecast/models"
)

// KafkaForecastPublisher writes every generated forecast as JSON to a Kafka topic,
// keyed by forecast ID.
type KafkaForecastPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      logger.Logger
}

// NewKafkaForecastPublisher connects a synchronous producer to brokers.
func NewKafkaForecastPublisher(brokers []string, topic string, maxRetries int, log logger.Logger) (*KafkaForecastPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher needs at least one broker")
	}
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = maxRetries
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaForecastPublisherWithProducer(producer, topic, log), nil
}

// NewKafkaForecastPublisherWithProducer wraps an existing producer.
func NewKafkaForecastPublisherWithProducer(producer sarama.SyncProducer, topic string, log logger.Logger) *KafkaForecastPublisher {
	if log == nil {
		log = logger.Discard()
	}
	return &KafkaForecastPublisher{
		producer: producer,
		topic:    topic,
		log:      logger.Component(log, "kafka_publisher"),
	}
}

func (k *KafkaForecastPublisher) Publish(ctx context.Context, resp *models.ForecastResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(resp.ForecastID),
		Value: sarama.ByteEncoder(data),
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish forecast %s: %w", resp.ForecastID, err)
	}
	k.log.Debugf("Published forecast %s to %s[%d]@%d", resp.ForecastID, k.topic, partition, offset)
	return nil
}

func (k *KafkaForecastPublisher) Close() error {
	if k.producer == nil {
		return nil
	}
	return k.producer.Close()
}
