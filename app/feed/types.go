package feed

import (
	"time"
)

// Platform identifies the family of a subscribed source.
type Platform string

const (
	PlatformBlog      Platform = "blog"
	PlatformVideo     Platform = "video"
	PlatformMicroblog Platform = "microblog"
)

// Record is the canonical, platform-independent form of a collected post.
// URL is the global identity key used for deduplication. A nil PublishedAt
// means the source carried no usable date and the record is never recent.
type Record struct {
	Title        string
	URL          string
	Content      string
	PublishedAt  *time.Time
	ThumbnailURL string

	// Subscription metadata, attached by the aggregator.
	SubscriptionID string
	Platform       Platform
	AuthorName     string
	AccountID      string
}

// Options configures a registry and the adapters it constructs. Cutoff is
// fixed at registry construction so every record in one run is judged
// against the same instant.
type Options struct {
	Cutoff        time.Time
	MaxEntries    int
	Timeout       time.Duration
	UserAgent     string
	YouTubeAPIKey string
	TwitterAPIKey string
}
