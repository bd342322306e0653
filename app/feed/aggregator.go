package feed

import (
	"context"
	"log/slog"
	"sync"
)

// Subscription is the pipeline's read-only view of a subscribed source.
type Subscription struct {
	ID        string
	Name      string
	Platform  Platform
	SourceURL string
	AccountID string
	OwnerID   string
}

// Dispatcher routes a source URL to the adapter that can serve it.
type Dispatcher interface {
	Dispatch(ctx context.Context, url string) []Record
}

// Aggregator fans fetches out across all subscriptions and tags every record
// with its subscription's metadata.
type Aggregator struct {
	dispatcher Dispatcher
}

func NewAggregator(dispatcher Dispatcher) *Aggregator {
	return &Aggregator{dispatcher: dispatcher}
}

// FetchAll collects records for every subscription with a source URL and
// returns them keyed by subscription ID. Subscriptions fetch concurrently;
// each subscription's records keep their feed-native newest-first order.
// Subscriptions without a source URL are skipped and left out of the map.
func (a *Aggregator) FetchAll(ctx context.Context, subscriptions []Subscription) map[string][]Record {
	results := make(map[string][]Record, len(subscriptions))

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, sub := range subscriptions {
		if sub.SourceURL == "" {
			slog.Warn("Subscription has no source URL, skipping", "subscription", sub.Name)
			continue
		}

		wg.Add(1)
		go func(sub Subscription) {
			defer wg.Done()

			slog.Info("Collecting subscription", "subscription", sub.Name, "url", sub.SourceURL)
			records := a.dispatcher.Dispatch(ctx, sub.SourceURL)

			for i := range records {
				records[i].SubscriptionID = sub.ID
				if sub.Platform != "" {
					records[i].Platform = sub.Platform
				}
				records[i].AuthorName = sub.Name
				records[i].AccountID = sub.AccountID
			}

			mu.Lock()
			results[sub.ID] = records
			mu.Unlock()
		}(sub)
	}

	wg.Wait()

	total := 0
	for _, records := range results {
		total += len(records)
	}
	slog.Info("Aggregation complete", "subscriptions", len(results), "records", total)

	return results
}
