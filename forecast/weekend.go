package forecast

import (
	"fmt"
	"strings"
	"time"
)

// WeekendSet is the set of weekdays treated as weekend. The convention is regional,
// so it is configuration rather than a literal.
type WeekendSet uint8

// DefaultWeekend is Friday and Saturday.
var DefaultWeekend = NewWeekendSet(time.Friday, time.Saturday)

// NewWeekendSet builds a set from the given weekdays.
func NewWeekendSet(days ...time.Weekday) WeekendSet {
	var s WeekendSet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// ParseWeekendSet parses weekday names such as "friday" or "Sat".
func ParseWeekendSet(names []string) (WeekendSet, error) {
	var days []time.Weekday
	for _, name := range names {
		d, err := parseWeekday(name)
		if err != nil {
			return 0, err
		}
		days = append(days, d)
	}
	return NewWeekendSet(days...), nil
}

// Contains reports whether d is a weekend day.
func (s WeekendSet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Days lists the weekend days from Sunday to Saturday.
func (s WeekendSet) Days() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

func parseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || (len(n) >= 3 && strings.HasPrefix(full, n)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// MondayIndex maps a weekday to the Monday=0 .. Sunday=6 scheme used by the features.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
