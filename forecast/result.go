package forecast

import (
	"fmt"
	"time"

	"cw-forecast/models"
)

// Validate checks that result holds exactly Horizon records dated contiguously from
// the day after seedLastDate.
func Validate(result models.ForecastResult, seedLastDate time.Time) error {
	if len(result.Records) != Horizon {
		return fmt.Errorf("forecast has %d records, want %d", len(result.Records), Horizon)
	}
	prev := models.Day(seedLastDate)
	for i, rec := range result.Records {
		if !models.IsNextDay(prev, rec.Date) {
			return fmt.Errorf("%w: record %d dated %s, want %s",
				ErrNonContiguousDate, i, rec.Date.Format(models.DateLayout), models.NextDay(prev).Format(models.DateLayout))
		}
		prev = rec.Date
	}
	return nil
}
