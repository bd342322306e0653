package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const timelineEndpoint = "https://api.twitterapi.io/twitter/user/last_tweets"

var usernamePattern = regexp.MustCompile(`(?:twitter\.com|x\.com)/@?([^/\?]+)`)

// Path segments that are site navigation, not usernames.
var reservedUsernames = map[string]bool{
	"intent":        true,
	"i":             true,
	"home":          true,
	"explore":       true,
	"notifications": true,
}

// MicroblogAdapter collects tweets through the twitterapi.io timeline API.
// The platform exposes no public syndication feed, so an access credential
// is mandatory: without one the adapter yields nothing.
type MicroblogAdapter struct {
	opts     Options
	client   *http.Client
	endpoint string
}

func NewMicroblogAdapter(opts Options, client *http.Client) *MicroblogAdapter {
	return &MicroblogAdapter{
		opts:     opts,
		client:   client,
		endpoint: timelineEndpoint,
	}
}

func (a *MicroblogAdapter) CanHandle(url string) bool {
	return strings.Contains(url, "twitter.com") || strings.Contains(url, "x.com")
}

func (a *MicroblogAdapter) Fetch(ctx context.Context, sourceURL string) []Record {
	username := extractUsername(sourceURL)
	if username == "" {
		slog.Warn("Could not extract username from microblog URL", "url", sourceURL)
		return nil
	}

	if a.opts.TwitterAPIKey == "" {
		slog.Warn("Twitter API key not configured, skipping microblog source", "username", username)
		return nil
	}

	tweets, err := a.fetchTimeline(ctx, username)
	if err != nil {
		slog.Warn("Timeline fetch failed", "username", username, "error", err)
		return nil
	}

	records := make([]Record, 0, len(tweets))
	for _, tweet := range tweets {
		if len(records) >= a.opts.MaxEntries {
			break
		}

		record := a.convert(tweet, username)
		if !IsRecent(record, a.opts.Cutoff) {
			break
		}

		records = append(records, record)
	}

	slog.Debug("Timeline collected", "username", username, "total", len(tweets), "recent", len(records))
	return records
}

type apiTweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`

	ExtendedEntities struct {
		Media []struct {
			MediaURLHTTPS string `json:"media_url_https"`
		} `json:"media"`
	} `json:"extendedEntities"`
}

type timelineResponse struct {
	Data struct {
		Tweets []apiTweet `json:"tweets"`
	} `json:"data"`
}

func (a *MicroblogAdapter) fetchTimeline(ctx context.Context, username string) ([]apiTweet, error) {
	endpoint := fmt.Sprintf("%s?userName=%s&count=%s", a.endpoint,
		url.QueryEscape(username), strconv.Itoa(a.opts.MaxEntries))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", a.opts.TwitterAPIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var timeline timelineResponse
	if err := json.Unmarshal(body, &timeline); err != nil {
		return nil, fmt.Errorf("failed to parse timeline response: %w", err)
	}

	return timeline.Data.Tweets, nil
}

func (a *MicroblogAdapter) convert(tweet apiTweet, username string) Record {
	record := Record{
		Title:    fmt.Sprintf("Tweet from @%s", username),
		Content:  tweet.Text,
		Platform: PlatformMicroblog,
	}

	if tweet.ID != "" {
		record.URL = fmt.Sprintf("https://twitter.com/%s/status/%s", username, tweet.ID)
	}

	published := parseTweetTime(tweet.CreatedAt)
	record.PublishedAt = &published

	if len(tweet.ExtendedEntities.Media) > 0 {
		record.ThumbnailURL = tweet.ExtendedEntities.Media[0].MediaURLHTTPS
	}

	return record
}

// parseTweetTime handles the legacy Ruby-style timestamp the timeline API
// returns. Unparseable timestamps fall back to now so a fresh tweet with a
// mangled date is still collected.
func parseTweetTime(value string) time.Time {
	for _, layout := range []string{time.RubyDate, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now()
}

func extractUsername(sourceURL string) string {
	m := usernamePattern.FindStringSubmatch(sourceURL)
	if m == nil {
		return ""
	}

	username := m[1]
	if reservedUsernames[username] {
		return ""
	}

	return username
}
