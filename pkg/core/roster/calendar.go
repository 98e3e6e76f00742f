package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 1440

// dayNumber returns the number of days since the Unix epoch for t's calendar date
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// dateOfDay is the inverse of dayNumber
func dateOfDay(n int) time.Time {
	return time.Unix(int64(n)*86400, 0).UTC()
}

// ISOWeekKey returns the Thursday-anchored ISO week of t as "YYYY-Www"
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseClock parses "HH:MM" into minutes since midnight. "24:00" is accepted
// as an end of day marker.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time of day out of range: %q", s)
	}
	return h*60 + m, nil
}

// shiftDurationHours returns the length of a shift in hours, wrapping past midnight
func shiftDurationHours(start, end int) float64 {
	length := end - start
	if length <= 0 {
		length += minutesPerDay
	}
	return float64(length) / 60
}

// sameDayInterval returns the [start, end) interval a shift occupies on the
// day it starts. Overnight shifts are truncated to [start, 1440).
func sameDayInterval(start, end int) (int, int) {
	if end <= start {
		return start, minutesPerDay
	}
	return start, end
}

// workdays counts Monday–Friday days in days that are not holidays
func workdays(days []time.Time, holidays map[int]bool) int {
	count := 0
	for _, d := range days {
		if isWeekend(d) || holidays[dayNumber(d)] {
			continue
		}
		count++
	}
	return count
}
