package feed

import (
	"cmp"
	"strings"

	"github.com/mmcdole/gofeed"
)

const untitled = "Untitled"

// collectRecent walks feed entries in their native newest-first order,
// converting each until the per-subscription cap is reached or an entry
// falls outside the recency window. Feeds are reverse-chronological, so the
// first stale entry ends collection for the whole subscription.
func collectRecent(items []*gofeed.Item, opts Options, convert func(*gofeed.Item) Record) []Record {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		if len(records) >= opts.MaxEntries {
			break
		}

		record := convert(item)
		if !IsRecent(record, opts.Cutoff) {
			break
		}

		records = append(records, record)
	}

	return records
}

// extractContent picks the richest text available for an entry: full body
// first, then the summary/description, then the title as a last resort.
func extractContent(item *gofeed.Item) string {
	return cmp.Or(item.Content, item.Description, item.Title)
}

// extractThumbnail pulls an image URL from the media:thumbnail extension,
// falling back to a scan of image-typed enclosures.
func extractThumbnail(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		if thumbs, ok := media["thumbnail"]; ok && len(thumbs) > 0 {
			if url := thumbs[0].Attrs["url"]; url != "" {
				return url
			}
		}
	}

	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.Contains(enclosure.Type, "image") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	return ""
}
