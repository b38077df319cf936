package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cw-forecast/models"
)

func TestKafkaForecastPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got models.ForecastResponse
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.ForecastID != "forecast-1" || len(got.Forecast) != 1 {
			return errors.New("unexpected payload")
		}
		return nil
	})

	publisher := NewKafkaForecastPublisherWithProducer(producer, "forecasts", nil)
	resp := &models.ForecastResponse{
		ForecastID: "forecast-1",
		City:       "Riyadh",
		Forecast:   []models.ForecastRecordView{{Date: "2025-03-01", PredictedDemand: 92}},
	}
	require.NoError(t, publisher.Publish(context.Background(), resp))
	require.NoError(t, publisher.Close())
}

func TestKafkaForecastPublisher_PublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaForecastPublisherWithProducer(producer, "forecasts", nil)
	err := publisher.Publish(context.Background(), &models.ForecastResponse{ForecastID: "forecast-2"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func TestKafkaForecastPublisher_CanceledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaForecastPublisherWithProducer(producer, "forecasts", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, publisher.Publish(ctx, &models.ForecastResponse{}), context.Canceled)
	require.NoError(t, publisher.Close())
}

func TestNewKafkaForecastPublisher_NoBrokers(t *testing.T) {
	_, err := NewKafkaForecastPublisher(nil, "forecasts", 3, nil)
	assert.Error(t, err)
}
