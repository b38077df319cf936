package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"cw-forecast/models"
)

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Tail(ctx context.Context, city string, n int) ([]models.ObservationDay, error) {
	args := m.Called(ctx, city, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ObservationDay), args.Error(1)
}

func (m *MockHistoryRepository) Append(ctx context.Context, city string, days []models.ObservationDay) error {
	args := m.Called(ctx, city, days)
	return args.Error(0)
}

type MockWeatherSource struct {
	mock.Mock
}

func (m *MockWeatherSource) DailyForecast(ctx context.Context, loc models.Location, start, end time.Time) ([]models.WeatherDay, error) {
	args := m.Called(ctx, loc, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WeatherDay), args.Error(1)
}

type MockForecastCache struct {
	mock.Mock
}

func (m *MockForecastCache) GetForecast(ctx context.Context, city string, start time.Time) (*models.ForecastResponse, error) {
	args := m.Called(ctx, city, start)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForecastResponse), args.Error(1)
}

func (m *MockForecastCache) SetForecast(ctx context.Context, city string, start time.Time, resp *models.ForecastResponse, ttl time.Duration) error {
	args := m.Called(ctx, city, start, resp, ttl)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, resp *models.ForecastResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockArchiver struct {
	mock.Mock
	Disabled bool
}

func (m *MockArchiver) Enabled() bool {
	return !m.Disabled
}

func (m *MockArchiver) Archive(ctx context.Context, resp *models.ForecastResponse, workbook []byte) (string, error) {
	args := m.Called(ctx, resp, workbook)
	return args.String(0), args.Error(1)
}

type MockForecastRefresher struct {
	mock.Mock
}

func (m *MockForecastRefresher) Cities() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockForecastRefresher) Refresh(ctx context.Context, city string) (*models.ForecastResponse, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForecastResponse), args.Error(1)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, name string, interval time.Duration, task func(ctx context.Context) error) error {
	args := m.Called(ctx, name, interval, task)
	return args.Error(0)
}

func (m *MockScheduler) Stop() {
	m.Called()
}
