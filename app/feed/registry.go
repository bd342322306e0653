package feed

import (
	"context"
	"log/slog"
	"net/http"
)

// Registry holds the ordered adapter list and routes a source URL to the
// first adapter that claims it. Build one per run: the recency cutoff is
// fixed at construction time.
type Registry struct {
	adapters []Adapter
}

func NewRegistry(opts Options) *Registry {
	client := &http.Client{
		Timeout: opts.Timeout,
	}

	return &Registry{
		adapters: []Adapter{
			NewBlogAdapter(opts, client),
			NewVideoAdapter(opts, client),
			NewMicroblogAdapter(opts, client),
		},
	}
}

// Dispatch routes the URL to the first matching adapter. An unsupported
// platform yields an empty result, not an error.
func (r *Registry) Dispatch(ctx context.Context, url string) []Record {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(url) {
			return adapter.Fetch(ctx, url)
		}
	}

	slog.Warn("Unsupported platform", "url", url)
	return nil
}
