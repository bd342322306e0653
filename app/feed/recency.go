package feed

import (
	"time"
)

// Cutoff computes the recency cutoff instant for a run starting at now.
func Cutoff(now time.Time, daysToFetch int) time.Time {
	return now.AddDate(0, 0, -daysToFetch)
}

// IsRecent reports whether a record falls inside the recency window.
// Comparison is by calendar date only, not time of day. Records without a
// published date are never recent.
func IsRecent(record Record, cutoff time.Time) bool {
	if record.PublishedAt == nil {
		return false
	}

	published := dateOnly(*record.PublishedAt)
	return !published.Before(dateOnly(cutoff))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
