package database

import (
	"time"
)

// Subscription is a followed source account. The pipeline reads it and
// writes back only last_synced_at after a fetch attempt.
type Subscription struct {
	ID           string
	Name         string
	Platform     string // blog, video, or microblog
	SourceURL    string
	AccountID    string
	OwnerID      string
	LastSyncedAt *time.Time
	CreatedAt    time.Time
}

// Post is a collected, analyzed record. URL is unique across all sources.
type Post struct {
	ID             string
	SubscriptionID string
	Platform       string
	AuthorName     string
	AccountID      string
	Title          string
	URL            string
	Content        string
	Summary        string
	HasSchedule    bool
	ScheduleDate   *string // YYYY-MM-DD
	ThumbnailURL   string
	PublishedAt    *time.Time
	CreatedAt      time.Time
}
