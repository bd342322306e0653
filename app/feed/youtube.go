package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	youtubeChannelPattern = regexp.MustCompile(`/channel/([^/\?]+)`)
	youtubeHandlePattern  = regexp.MustCompile(`/@([^/\?]+)`)

	// Patterns that surface the channel ID in channel page markup, tried in
	// order when the Data API is unavailable or comes back empty.
	channelIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"channelId":"([^"]+)"`),
		regexp.MustCompile(`"externalId":"([^"]+)"`),
		regexp.MustCompile(`/channel/([A-Za-z0-9_-]+)`),
	}
)

// VideoAdapter collects uploads from YouTube channels via their RSS feeds.
// Channel handles are resolved to channel IDs through the Data API when a
// key is configured, with a page-scrape fallback.
type VideoAdapter struct {
	opts   Options
	client *http.Client
	parser *gofeed.Parser
}

func NewVideoAdapter(opts Options, client *http.Client) *VideoAdapter {
	return &VideoAdapter{
		opts:   opts,
		client: client,
		parser: gofeed.NewParser(),
	}
}

func (a *VideoAdapter) CanHandle(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

func (a *VideoAdapter) Fetch(ctx context.Context, url string) []Record {
	feedURL := a.resolveFeedURL(ctx, url)
	if feedURL == "" {
		return nil
	}

	data, err := fetchBytes(ctx, a.client, feedURL, a.opts.UserAgent)
	if err != nil {
		slog.Warn("YouTube feed fetch failed", "url", feedURL, "error", err)
		return nil
	}

	parsed, err := a.parser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("YouTube feed parse failed", "url", feedURL, "error", err)
		return nil
	}

	records := collectRecent(parsed.Items, a.opts, a.convert)
	slog.Debug("YouTube feed collected", "url", feedURL, "total", len(parsed.Items), "recent", len(records))

	return records
}

// resolveFeedURL maps a channel URL to its videos.xml feed. Handle-form URLs
// need a channel ID first; when no strategy yields one the channel is
// treated as having no feed, not as an error.
func (a *VideoAdapter) resolveFeedURL(ctx context.Context, url string) string {
	if m := youtubeChannelPattern.FindStringSubmatch(url); m != nil {
		return videosFeedURL(m[1])
	}

	if m := youtubeHandlePattern.FindStringSubmatch(url); m != nil {
		handle := m[1]
		channelID := a.lookupChannelID(ctx, handle)
		if channelID == "" {
			slog.Warn("Could not resolve YouTube channel ID", "handle", handle)
			return ""
		}
		return videosFeedURL(channelID)
	}

	slog.Debug("No RSS rewrite rule for YouTube URL", "url", url)
	return url
}

// lookupChannelID tries each resolution strategy in order and returns the
// first non-empty result.
func (a *VideoAdapter) lookupChannelID(ctx context.Context, handle string) string {
	strategies := []func(context.Context, string) string{
		a.lookupViaAPI,
		a.lookupViaScrape,
	}

	for _, strategy := range strategies {
		if id := strategy(ctx, handle); id != "" {
			return id
		}
	}

	return ""
}

func (a *VideoAdapter) lookupViaAPI(ctx context.Context, handle string) string {
	if a.opts.YouTubeAPIKey == "" {
		return ""
	}

	// The Data API client builds its own HTTP transport, so the shared
	// client timeout does not apply here. Bound the lookup explicitly.
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(a.opts.YouTubeAPIKey))
	if err != nil {
		slog.Warn("YouTube Data API client init failed", "error", err)
		return ""
	}

	resp, err := service.Search.List([]string{"snippet"}).
		Q("@" + handle).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		slog.Warn("YouTube Data API search failed", "handle", handle, "error", err)
		return ""
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		slog.Debug("YouTube Data API search returned no channels", "handle", handle)
		return ""
	}

	return resp.Items[0].Snippet.ChannelId
}

func (a *VideoAdapter) lookupViaScrape(ctx context.Context, handle string) string {
	pageURL := "https://www.youtube.com/@" + handle

	data, err := fetchBytes(ctx, a.client, pageURL, a.opts.UserAgent)
	if err != nil {
		slog.Warn("YouTube channel page fetch failed", "handle", handle, "error", err)
		return ""
	}

	id := findChannelID(data)
	if id == "" {
		slog.Debug("No channel ID pattern found in page markup", "handle", handle)
	}

	return id
}

// findChannelID scans channel page markup for the channel ID, trying each
// known pattern in order.
func findChannelID(data []byte) string {
	for _, pattern := range channelIDPatterns {
		if m := pattern.FindSubmatch(data); m != nil {
			return string(m[1])
		}
	}
	return ""
}

func (a *VideoAdapter) convert(item *gofeed.Item) Record {
	videoID := extractVideoID(item)

	record := Record{
		Title:    cmp.Or(item.Title, untitled),
		URL:      item.Link,
		Content:  cmp.Or(extractVideoDescription(item), item.Description, item.Title),
		Platform: PlatformVideo,
	}

	if videoID != "" {
		record.ThumbnailURL = fmt.Sprintf("https://i.ytimg.com/vi/%s/mqdefault.jpg", videoID)
	}

	if item.PublishedParsed != nil {
		record.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		record.PublishedAt = item.UpdatedParsed
	}

	return record
}

func extractVideoID(item *gofeed.Item) string {
	if yt, ok := item.Extensions["yt"]; ok {
		if ids, ok := yt["videoId"]; ok && len(ids) > 0 && ids[0].Value != "" {
			return ids[0].Value
		}
	}

	// Atom entry IDs take the form yt:video:VIDEO_ID
	if item.GUID != "" {
		parts := strings.Split(item.GUID, ":")
		return parts[len(parts)-1]
	}

	return ""
}

func extractVideoDescription(item *gofeed.Item) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}

	groups, ok := media["group"]
	if !ok || len(groups) == 0 {
		return ""
	}

	descriptions, ok := groups[0].Children["description"]
	if !ok || len(descriptions) == 0 {
		return ""
	}

	return descriptions[0].Value
}

func videosFeedURL(channelID string) string {
	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + channelID
}
