package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cw-forecast/logger"
	"cw-forecast/models"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	execs    []execCall
	queries  []execCall
	rows     [][]any
	queryErr error
	execErr  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql, args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 2"), nil
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, execCall{sql, args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{rows: f.rows, pos: -1}, nil
}

// fakeRows serves pre-baked rows through the pgx.Rows interface.
type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.pos], nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *time.Time:
			*d = v.(time.Time)
		case *float64:
			*d = v.(float64)
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func newTestRepo(db *fakeDB) *HistoryRepository {
	return &HistoryRepository{db: db, logger: logger.Discard()}
}

func TestHistoryRepository_Tail(t *testing.T) {
	db := &fakeDB{rows: [][]any{
		{time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), 41.0, 0.0, 10.0, 20.0, 1010.0, 90.0},
		{time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), 40.0, 1.0, 11.0, 22.0, 1009.0, 95.0},
	}}

	days, err := newTestRepo(db).Tail(context.Background(), "Riyadh", 7)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 95.0, days[1].Demand)
	assert.Equal(t, 1.0, days[1].Rain)

	require.Len(t, db.queries, 1)
	assert.Equal(t, []any{"Riyadh", 7}, db.queries[0].args)
	assert.Contains(t, db.queries[0].sql, "ORDER BY date DESC")
}

func TestHistoryRepository_TailQueryError(t *testing.T) {
	db := &fakeDB{queryErr: errors.New("connection reset")}
	_, err := newTestRepo(db).Tail(context.Background(), "Riyadh", 7)
	assert.ErrorContains(t, err, "connection reset")
}

func TestHistoryRepository_Append(t *testing.T) {
	db := &fakeDB{}
	days := []models.ObservationDay{
		{WeatherDay: models.WeatherDay{Date: time.Date(2025, time.March, 1, 15, 0, 0, 0, time.UTC), TempMax: 41, Pressure: 1010}, Demand: 90},
		{WeatherDay: models.WeatherDay{Date: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), TempMax: 40, Rain: 2, Pressure: 1009}, Demand: 95},
	}

	require.NoError(t, newTestRepo(db).Append(context.Background(), "Riyadh", days))
	require.Len(t, db.execs, 1)

	call := db.execs[0]
	assert.True(t, strings.Contains(call.sql, "ON CONFLICT (city, date)"))
	require.Len(t, call.args, 8)
	assert.Equal(t, "Riyadh", call.args[0])
	assert.Equal(t, []time.Time{
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
	}, call.args[1])
	assert.Equal(t, []float64{41, 40}, call.args[2])
	assert.Equal(t, []float64{0, 2}, call.args[3])
	assert.Equal(t, []float64{90, 95}, call.args[7])
}

func TestHistoryRepository_AppendNothing(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, newTestRepo(db).Append(context.Background(), "Riyadh", nil))
	assert.Empty(t, db.execs)
}

func TestHistoryRepository_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, newTestRepo(db).EnsureSchema(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].sql, "CREATE TABLE IF NOT EXISTS demand_history")

	db.execErr = errors.New("permission denied")
	assert.Error(t, newTestRepo(db).EnsureSchema(context.Background()))
}
