package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cw-forecast/logger"
	"cw-forecast/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS demand_history (
		city      TEXT             NOT NULL,
		date      DATE             NOT NULL,
		temp_max  DOUBLE PRECISION NOT NULL,
		rain      DOUBLE PRECISION NOT NULL,
		wind      DOUBLE PRECISION NOT NULL,
		humidity  DOUBLE PRECISION NOT NULL,
		pressure  DOUBLE PRECISION NOT NULL,
		demand    DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ     NOT NULL DEFAULT NOW(),
		PRIMARY KEY (city, date)
	)
`

const tailQuery = `
	SELECT date, temp_max, rain, wind, humidity, pressure, demand
	FROM (
		SELECT date, temp_max, rain, wind, humidity, pressure, demand
		FROM demand_history
		WHERE city = $1
		ORDER BY date DESC
		LIMIT $2
	) recent
	ORDER BY date ASC
`

const upsertQuery = `
	INSERT INTO demand_history (city, date, temp_max, rain, wind, humidity, pressure, demand)
	SELECT $1, d, t, r, w, h, p, y
	FROM unnest($2::date[], $3::float8[], $4::float8[], $5::float8[], $6::float8[], $7::float8[], $8::float8[])
		AS u(d, t, r, w, h, p, y)
	ON CONFLICT (city, date) DO UPDATE SET
		temp_max = EXCLUDED.temp_max,
		rain = EXCLUDED.rain,
		wind = EXCLUDED.wind,
		humidity = EXCLUDED.humidity,
		pressure = EXCLUDED.pressure,
		demand = EXCLUDED.demand,
		updated_at = NOW()
`

// dbtx is the part of *pgxpool.Pool the repository uses.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// HistoryRepository keeps observed days in the demand_history table.
type HistoryRepository struct {
	db     dbtx
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewHistoryRepository connects to dsn and verifies the connection.
func NewHistoryRepository(ctx context.Context, dsn string, log logger.Logger) (*HistoryRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &HistoryRepository{db: pool, pool: pool, logger: log.WithField("component", "postgres_history_repository")}, nil
}

// EnsureSchema creates the history table if it does not exist.
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create demand_history: %w", err)
	}
	return nil
}

// Tail returns the last n days of city in ascending date order.
func (r *HistoryRepository) Tail(ctx context.Context, city string, n int) ([]models.ObservationDay, error) {
	rows, err := r.db.Query(ctx, tailQuery, city, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var days []models.ObservationDay
	for rows.Next() {
		var d models.ObservationDay
		var date time.Time
		if err := rows.Scan(&date, &d.TempMax, &d.Rain, &d.Wind, &d.Humidity, &d.Pressure, &d.Demand); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		d.Date = models.Day(date)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return days, nil
}

// Append upserts days for city in a single statement.
func (r *HistoryRepository) Append(ctx context.Context, city string, days []models.ObservationDay) error {
	if len(days) == 0 {
		return nil
	}
	dates := make([]time.Time, len(days))
	cols := [6][]float64{}
	for i := range cols {
		cols[i] = make([]float64, len(days))
	}
	for i, d := range days {
		dates[i] = models.Day(d.Date)
		cols[0][i], cols[1][i], cols[2][i] = d.TempMax, d.Rain, d.Wind
		cols[3][i], cols[4][i], cols[5][i] = d.Humidity, d.Pressure, d.Demand
	}

	tag, err := r.db.Exec(ctx, upsertQuery, city, dates, cols[0], cols[1], cols[2], cols[3], cols[4], cols[5])
	if err != nil {
		return fmt.Errorf("failed to upsert history for %s: %w", city, err)
	}
	r.logger.Debugf("upserted %d history rows for %s", tag.RowsAffected(), city)
	return nil
}

// Close releases the pool.
func (r *HistoryRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
