package services

import (
	"context"

	"cw-forecast/models"
)

// NoopPublisher drops every forecast. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *models.ForecastResponse) error { return nil }
func (NoopPublisher) Close() error                                          { return nil }

// NoopArchiver keeps no reports. It is used when MinIO is disabled.
type NoopArchiver struct{}

func (NoopArchiver) Enabled() bool { return false }

func (NoopArchiver) Archive(context.Context, *models.ForecastResponse, []byte) (string, error) {
	return "", nil
}
