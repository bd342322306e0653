package feed

import (
	"context"
	"testing"
)

type fakeDispatcher struct {
	records map[string][]Record
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, url string) []Record {
	return f.records[url]
}

func TestAggregator_FetchAll_TagsRecords(t *testing.T) {
	dispatcher := &fakeDispatcher{
		records: map[string][]Record{
			"https://example.com/a": {
				{Title: "Post A1", URL: "https://example.com/a/1", Platform: PlatformBlog},
			},
		},
	}

	subscriptions := []Subscription{
		{ID: "sub-a", Name: "Author A", Platform: PlatformBlog, SourceURL: "https://example.com/a", AccountID: "author_a"},
	}

	results := NewAggregator(dispatcher).FetchAll(context.Background(), subscriptions)

	records, ok := results["sub-a"]
	if !ok {
		t.Fatalf("Expected results for sub-a")
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.SubscriptionID != "sub-a" {
		t.Errorf("Expected subscription ID tagged, got %q", record.SubscriptionID)
	}
	if record.AuthorName != "Author A" {
		t.Errorf("Expected author name tagged, got %q", record.AuthorName)
	}
	if record.AccountID != "author_a" {
		t.Errorf("Expected account ID tagged, got %q", record.AccountID)
	}
}

func TestAggregator_FetchAll_SkipsMissingSourceURL(t *testing.T) {
	dispatcher := &fakeDispatcher{records: map[string][]Record{}}

	subscriptions := []Subscription{
		{ID: "sub-a", Name: "Author A", SourceURL: ""},
		{ID: "sub-b", Name: "Author B", SourceURL: "https://example.com/b"},
	}

	results := NewAggregator(dispatcher).FetchAll(context.Background(), subscriptions)

	if _, ok := results["sub-a"]; ok {
		t.Errorf("Subscription without a source URL should be left out of the results")
	}
	if _, ok := results["sub-b"]; !ok {
		t.Errorf("Expected results entry for sub-b")
	}
}

func TestAggregator_FetchAll_SubscriptionPlatformOverridesAdapter(t *testing.T) {
	dispatcher := &fakeDispatcher{
		records: map[string][]Record{
			"https://example.com/a": {
				{Title: "Post", URL: "https://example.com/a/1", Platform: PlatformBlog},
			},
		},
	}

	subscriptions := []Subscription{
		{ID: "sub-a", Name: "Author A", Platform: PlatformVideo, SourceURL: "https://example.com/a"},
	}

	results := NewAggregator(dispatcher).FetchAll(context.Background(), subscriptions)

	if results["sub-a"][0].Platform != PlatformVideo {
		t.Errorf("Expected subscription platform to win, got %q", results["sub-a"][0].Platform)
	}
}

func TestAggregator_FetchAll_EmptyFetchIsolated(t *testing.T) {
	dispatcher := &fakeDispatcher{
		records: map[string][]Record{
			"https://example.com/ok": {
				{Title: "Post", URL: "https://example.com/ok/1"},
			},
		},
	}

	subscriptions := []Subscription{
		{ID: "sub-broken", Name: "Broken", SourceURL: "https://example.com/broken"},
		{ID: "sub-ok", Name: "Healthy", SourceURL: "https://example.com/ok"},
	}

	results := NewAggregator(dispatcher).FetchAll(context.Background(), subscriptions)

	// A source that yields nothing still gets a map entry, and does not
	// affect its neighbors
	if len(results["sub-broken"]) != 0 {
		t.Errorf("Expected empty records for broken source")
	}
	if len(results["sub-ok"]) != 1 {
		t.Errorf("Expected 1 record for healthy source, got %d", len(results["sub-ok"]))
	}
}
