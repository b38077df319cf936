package forecast

import (
	"fmt"
	"time"

	"cw-forecast/models"
)

// HistoryLength is the number of trailing days the lag and rolling features need.
const HistoryLength = 7

// HistoryWindow is the sliding window of the most recent days, oldest first.
// It is a value: Advance returns a new window and never modifies the receiver.
type HistoryWindow struct {
	days []models.ObservationDay
}

// NewHistoryWindow builds a window from the tail of a date-ordered series. The last
// HistoryLength days must be contiguous.
func NewHistoryWindow(series []models.ObservationDay) (HistoryWindow, error) {
	if len(series) < HistoryLength {
		return HistoryWindow{}, fmt.Errorf("%w: got %d days, need %d", ErrInsufficientHistory, len(series), HistoryLength)
	}
	tail := series[len(series)-HistoryLength:]
	days := make([]models.ObservationDay, HistoryLength)
	for i, d := range tail {
		d.Date = models.Day(d.Date)
		if i > 0 && !models.IsNextDay(days[i-1].Date, d.Date) {
			return HistoryWindow{}, fmt.Errorf("%w: history day %s does not follow %s",
				ErrNonContiguousDate, d.Date.Format(models.DateLayout), days[i-1].Date.Format(models.DateLayout))
		}
		days[i] = d
	}
	return HistoryWindow{days: days}, nil
}

// Len returns the number of days held.
func (w HistoryWindow) Len() int {
	return len(w.days)
}

// Days returns a copy of the window, oldest first.
func (w HistoryWindow) Days() []models.ObservationDay {
	out := make([]models.ObservationDay, len(w.days))
	copy(out, w.days)
	return out
}

// Demands returns the demand values, oldest first.
func (w HistoryWindow) Demands() []float64 {
	out := make([]float64, len(w.days))
	for i, d := range w.days {
		out[i] = d.Demand
	}
	return out
}

// LastDate returns the newest date, or the zero time for an empty window.
func (w HistoryWindow) LastDate() time.Time {
	if len(w.days) == 0 {
		return time.Time{}
	}
	return w.days[len(w.days)-1].Date
}

// Advance drops the oldest day once the window is full and appends day.
func (w HistoryWindow) Advance(day models.ObservationDay) HistoryWindow {
	start := 0
	if len(w.days) >= HistoryLength {
		start = len(w.days) - HistoryLength + 1
	}
	next := make([]models.ObservationDay, 0, HistoryLength)
	next = append(next, w.days[start:]...)
	day.Date = models.Day(day.Date)
	next = append(next, day)
	return HistoryWindow{days: next}
}
